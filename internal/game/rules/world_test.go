package rules

// Test doubles shared by the package tests.

type stubObject struct {
	id         string
	controller string
	owner      string
	zone       Zone
	tapped     bool
	sick       bool
	cardTypes  []CardType
	subtypes   []string
	supertypes []string
	abilities  []StaticAbility
}

func (o *stubObject) ID() string                   { return o.id }
func (o *stubObject) Controller() string           { return o.controller }
func (o *stubObject) Owner() string                { return o.owner }
func (o *stubObject) Zone() Zone                   { return o.zone }
func (o *stubObject) IsTapped() bool               { return o.tapped }
func (o *stubObject) HasSummoningSickness() bool   { return o.sick }
func (o *stubObject) CardTypes() []CardType        { return o.cardTypes }
func (o *stubObject) Subtypes() []string           { return o.subtypes }
func (o *stubObject) Supertypes() []string         { return o.supertypes }
func (o *stubObject) Abilities() []StaticAbility   { return o.abilities }

type stubAbility struct {
	id           string
	affectsUntap bool
	entersTapped bool
}

func (a stubAbility) AbilityID() string  { return a.id }
func (a stubAbility) Display() string    { return a.id }
func (a stubAbility) AffectsUntap() bool { return a.affectsUntap }
func (a stubAbility) EntersTapped() bool { return a.entersTapped }

// stubWorld is a minimal StepWorld for driving the turn machinery.
type stubWorld struct {
	objects   map[string]*stubObject
	turnOrder []string
	outOfGame map[string]bool
	turn      TurnState

	stackEmpty bool

	hands        map[string][]string
	libraries    map[string][]string
	maxHandSizes map[string]int
	drawnCounts  map[string]int
	skipDraw     map[string]bool
	noExtraDraws map[string]bool

	untapped            []string
	sicknessCleared     []string
	manaEmptied         []string
	damageCleared       []string
	shieldsCleared      []string
	restrictionsCleared bool
	turnsAdvanced       int
}

func newStubWorld(players ...string) *stubWorld {
	w := &stubWorld{
		objects:      map[string]*stubObject{},
		turnOrder:    players,
		outOfGame:    map[string]bool{},
		stackEmpty:   true,
		hands:        map[string][]string{},
		libraries:    map[string][]string{},
		maxHandSizes: map[string]int{},
		drawnCounts:  map[string]int{},
		skipDraw:     map[string]bool{},
		noExtraDraws: map[string]bool{},
	}
	if len(players) > 0 {
		w.turn = *NewTurnState(players[0])
	}
	return w
}

func (w *stubWorld) addObject(o *stubObject) { w.objects[o.id] = o }

func (w *stubWorld) Object(id string) (Object, bool) {
	o, ok := w.objects[id]
	return o, ok
}

func (w *stubWorld) PlayerInGame(id string) bool {
	if w.outOfGame[id] {
		return false
	}
	for _, p := range w.turnOrder {
		if p == id {
			return true
		}
	}
	return false
}

func (w *stubWorld) PlayersInGame() int {
	n := 0
	for _, p := range w.turnOrder {
		if !w.outOfGame[p] {
			n++
		}
	}
	return n
}

func (w *stubWorld) TurnOrder() []string { return w.turnOrder }

func (w *stubWorld) Battlefield() []string {
	var out []string
	for id, o := range w.objects {
		if o.zone == ZoneBattlefield {
			out = append(out, id)
		}
	}
	return out
}

func (w *stubWorld) PermanentsControlledBy(player string) []string {
	var out []string
	for id, o := range w.objects {
		if o.zone == ZoneBattlefield && o.controller == player {
			out = append(out, id)
		}
	}
	return out
}

func (w *stubWorld) StackIsEmpty() bool { return w.stackEmpty }

func (w *stubWorld) Turn() *TurnState { return &w.turn }

func (w *stubWorld) FilterContextFor(controller, source string) FilterContext {
	var opponents []string
	for _, p := range w.turnOrder {
		if p != controller {
			opponents = append(opponents, p)
		}
	}
	return FilterContext{
		You:          controller,
		Source:       source,
		ActivePlayer: w.turn.ActivePlayer,
		Opponents:    opponents,
	}
}

func (w *stubWorld) Untap(id string) {
	w.untapped = append(w.untapped, id)
	if o, ok := w.objects[id]; ok {
		o.tapped = false
	}
}

func (w *stubWorld) ClearSummoningSickness(id string) {
	w.sicknessCleared = append(w.sicknessCleared, id)
	if o, ok := w.objects[id]; ok {
		o.sick = false
	}
}

func (w *stubWorld) ConsumeSkipDrawFlag(player string) bool {
	if w.skipDraw[player] {
		w.skipDraw[player] = false
		return true
	}
	return false
}

func (w *stubWorld) CanDrawExtraCards(player string) bool {
	return !w.noExtraDraws[player]
}

func (w *stubWorld) CardsDrawnThisTurn(player string) int {
	return w.drawnCounts[player]
}

func (w *stubWorld) DrawCards(player string, count int) []string {
	var drawn []string
	lib := w.libraries[player]
	for i := 0; i < count && len(lib) > 0; i++ {
		top := lib[len(lib)-1]
		lib = lib[:len(lib)-1]
		drawn = append(drawn, top)
		w.hands[player] = append(w.hands[player], top)
	}
	w.libraries[player] = lib
	return drawn
}

func (w *stubWorld) NoteCardsDrawn(player string, count int) {
	w.drawnCounts[player] += count
}

func (w *stubWorld) Hand(player string) []string { return w.hands[player] }

func (w *stubWorld) MaxHandSize(player string) int {
	if size, ok := w.maxHandSizes[player]; ok {
		return size
	}
	return 7
}

func (w *stubWorld) EmptyManaPool(player string) {
	w.manaEmptied = append(w.manaEmptied, player)
}

func (w *stubWorld) ClearDamage(id string) {
	w.damageCleared = append(w.damageCleared, id)
}

func (w *stubWorld) ClearRegenerationShields(id string) {
	w.shieldsCleared = append(w.shieldsCleared, id)
}

func (w *stubWorld) ClearEndOfTurnRestrictions() {
	w.restrictionsCleared = true
	w.noExtraDraws = map[string]bool{}
}

func (w *stubWorld) NextTurn() {
	w.turnsAdvanced++
	next := w.turn.ActivePlayer
	for i, p := range w.turnOrder {
		if p == next {
			next = w.turnOrder[(i+1)%len(w.turnOrder)]
			break
		}
	}
	w.turn.TurnNumber++
	w.turn.ActivePlayer = next
	w.turn.PriorityPlayer = next
	w.turn.Phase = PhaseBeginning
	w.turn.Step = StepUntap
	w.drawnCounts = map[string]int{}
}
