// Package game holds the mutable world model and the engine facade
// that drives it through the rules core.
package game

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Chiplis/maigus-sub007/internal/game/mana"
	"github.com/Chiplis/maigus-sub007/internal/game/rules"
	"github.com/Chiplis/maigus-sub007/internal/game/watchers"
)

const startingLife = 20
const defaultMaxHandSize = 7

// Card is a game object. A card keeps one identity for its whole stay
// in a zone; moving to exile re-keys it.
type Card struct {
	id         string
	name       string
	manaCost   string
	owner      string
	controller string
	zone       rules.Zone
	cardTypes  []rules.CardType
	subtypes   []string
	supertypes []string

	tapped        bool
	summoningSick bool
	damage        int
	token         bool
	regenShields  int
	counters      map[rules.CounterType]int
	abilities     []rules.StaticAbility
}

// CardSpec describes a card to add to the game.
type CardSpec struct {
	Name       string
	ManaCost   string
	CardTypes  []rules.CardType
	Subtypes   []string
	Supertypes []string
	Token      bool
	Abilities  []rules.StaticAbility
}

func (c *Card) ID() string                         { return c.id }
func (c *Card) Name() string                       { return c.name }
func (c *Card) ManaCost() string                   { return c.manaCost }
func (c *Card) Controller() string                 { return c.controller }
func (c *Card) Owner() string                      { return c.owner }
func (c *Card) Zone() rules.Zone                   { return c.zone }
func (c *Card) IsTapped() bool                     { return c.tapped }
func (c *Card) HasSummoningSickness() bool         { return c.summoningSick }
func (c *Card) CardTypes() []rules.CardType        { return c.cardTypes }
func (c *Card) Subtypes() []string                 { return c.subtypes }
func (c *Card) Supertypes() []string               { return c.supertypes }
func (c *Card) Abilities() []rules.StaticAbility   { return c.abilities }
func (c *Card) Damage() int                        { return c.damage }
func (c *Card) IsToken() bool                      { return c.token }
func (c *Card) Counters(t rules.CounterType) int   { return c.counters[t] }
func (c *Card) AllCounters() map[rules.CounterType]int {
	out := make(map[rules.CounterType]int, len(c.counters))
	for t, n := range c.counters {
		out[t] = n
	}
	return out
}

func (c *Card) isCreature() bool {
	for _, t := range c.cardTypes {
		if t == rules.CardTypeCreature {
			return true
		}
	}
	return false
}

// playerState is the per-player slice of the world.
type playerState struct {
	id          string
	life        int
	inGame      bool
	library     []string
	hand        []string
	graveyard   []string
	exile       []string
	pool        *mana.Pool
	maxHandSize int

	skipNextDraw bool
	noExtraDraws bool
}

// State is the mutable game world. It satisfies the read and step
// surfaces the rules core drives, and exposes the mutations the engine
// performs when events finalize.
type State struct {
	mu sync.RWMutex

	players     map[string]*playerState
	turnOrder   []string
	cards       map[string]*Card
	battlefield []string

	turn  rules.TurnState
	stack *rules.StackManager
	draws *watchers.DrawWatcher

	nextObjectID int
	logger       *zap.Logger
}

// NewState builds a game with the given players in turn order. A nil
// logger disables logging.
func NewState(players []string, logger *zap.Logger) *State {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &State{
		players:      make(map[string]*playerState, len(players)),
		turnOrder:    append([]string(nil), players...),
		cards:        make(map[string]*Card),
		stack:        rules.NewStackManager(),
		draws:        watchers.NewDrawWatcher(),
		nextObjectID: 1,
		logger:       logger,
	}
	for _, p := range players {
		s.players[p] = &playerState{
			id:          p,
			life:        startingLife,
			inGame:      true,
			pool:        mana.NewPool(),
			maxHandSize: defaultMaxHandSize,
		}
	}
	if len(players) > 0 {
		s.turn = *rules.NewTurnState(players[0])
	}
	return s
}

func (s *State) allocateID() string {
	id := fmt.Sprintf("obj-%d", s.nextObjectID)
	s.nextObjectID++
	return id
}

// AddCard creates a card owned by the player in the given zone and
// returns its ID.
func (s *State) AddCard(owner string, zone rules.Zone, spec CardSpec) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	card := &Card{
		id:         s.allocateID(),
		name:       spec.Name,
		manaCost:   spec.ManaCost,
		owner:      owner,
		controller: owner,
		zone:       zone,
		cardTypes:  append([]rules.CardType(nil), spec.CardTypes...),
		subtypes:   append([]string(nil), spec.Subtypes...),
		supertypes: append([]string(nil), spec.Supertypes...),
		token:      spec.Token,
		counters:   make(map[rules.CounterType]int),
		abilities:  append([]rules.StaticAbility(nil), spec.Abilities...),
	}
	s.cards[card.id] = card
	s.placeLocked(card, zone)
	if zone == rules.ZoneBattlefield && card.isCreature() {
		card.summoningSick = true
	}
	return card.id
}

// placeLocked appends the card to its zone's list. The card's zone
// field must already be set.
func (s *State) placeLocked(card *Card, zone rules.Zone) {
	card.zone = zone
	owner := s.players[card.owner]
	switch zone {
	case rules.ZoneLibrary:
		owner.library = append(owner.library, card.id)
	case rules.ZoneHand:
		owner.hand = append(owner.hand, card.id)
	case rules.ZoneGraveyard:
		owner.graveyard = append(owner.graveyard, card.id)
	case rules.ZoneExile:
		owner.exile = append(owner.exile, card.id)
	case rules.ZoneBattlefield:
		s.battlefield = append(s.battlefield, card.id)
	}
}

func (s *State) removeFromZoneLocked(card *Card) {
	owner := s.players[card.owner]
	switch card.zone {
	case rules.ZoneLibrary:
		owner.library = removeID(owner.library, card.id)
	case rules.ZoneHand:
		owner.hand = removeID(owner.hand, card.id)
	case rules.ZoneGraveyard:
		owner.graveyard = removeID(owner.graveyard, card.id)
	case rules.ZoneExile:
		owner.exile = removeID(owner.exile, card.id)
	case rules.ZoneBattlefield:
		s.battlefield = removeID(s.battlefield, card.id)
	}
}

func removeID(list []string, id string) []string {
	for i, v := range list {
		if v == id {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

// MoveCard moves a card between zones and returns its identity in the
// destination. Moving to exile re-keys the card; other moves keep its
// ID. Battlefield state (tap, damage, counters) resets on leaving.
func (s *State) MoveCard(cardID string, to rules.Zone) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, ok := s.cards[cardID]
	if !ok || card.zone == to {
		return cardID, ok
	}

	s.removeFromZoneLocked(card)

	if card.zone == rules.ZoneBattlefield {
		card.tapped = false
		card.damage = 0
		card.summoningSick = false
		card.regenShields = 0
		card.counters = make(map[rules.CounterType]int)
		card.controller = card.owner
	}

	// Tokens cease to exist when they leave the battlefield.
	if card.token && to != rules.ZoneBattlefield {
		delete(s.cards, cardID)
		return "", true
	}

	if to == rules.ZoneExile {
		delete(s.cards, cardID)
		card.id = s.allocateID()
		s.cards[card.id] = card
	}

	s.placeLocked(card, to)
	if to == rules.ZoneBattlefield && card.isCreature() {
		card.summoningSick = true
	}
	return card.id, true
}

// PutOnBattlefield moves a card to the battlefield under the given
// controller, honoring enter-tapped and enter-counters directives from
// resolved replacements.
func (s *State) PutOnBattlefield(cardID, controller string, tapped bool, counters map[rules.CounterType]int) (string, bool) {
	id, ok := s.MoveCard(cardID, rules.ZoneBattlefield)
	if !ok {
		return id, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	card := s.cards[id]
	card.controller = controller
	card.tapped = tapped
	for t, n := range counters {
		card.counters[t] += n
	}
	return id, true
}

// Stack returns the game's stack manager.
func (s *State) Stack() *rules.StackManager { return s.stack }

// Draws returns the draw watcher backing per-turn draw counts.
func (s *State) Draws() *watchers.DrawWatcher { return s.draws }

// Card returns the concrete card, for callers that need more than the
// rules.Object view.
func (s *State) Card(id string) (*Card, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cards[id]
	return c, ok
}
