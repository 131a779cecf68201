package game

import (
	"github.com/Chiplis/maigus-sub007/internal/game/mana"
	"github.com/Chiplis/maigus-sub007/internal/game/rules"
)

// Object returns the card as its rules-facing read view.
func (s *State) Object(id string) (rules.Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cards[id]
	if !ok {
		return nil, false
	}
	return c, true
}

func (s *State) PlayerInGame(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	return ok && p.inGame
}

func (s *State) PlayersInGame() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, p := range s.players {
		if p.inGame {
			n++
		}
	}
	return n
}

func (s *State) TurnOrder() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.turnOrder...)
}

func (s *State) Battlefield() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.battlefield...)
}

func (s *State) PermanentsControlledBy(player string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for _, id := range s.battlefield {
		if c, ok := s.cards[id]; ok && c.controller == player {
			out = append(out, id)
		}
	}
	return out
}

func (s *State) StackIsEmpty() bool { return s.stack.IsEmpty() }

func (s *State) Turn() *rules.TurnState { return &s.turn }

func (s *State) FilterContextFor(controller, source string) rules.FilterContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var opponents []string
	for _, p := range s.turnOrder {
		if p != controller && s.players[p] != nil && s.players[p].inGame {
			opponents = append(opponents, p)
		}
	}
	return rules.FilterContext{
		You:          controller,
		Source:       source,
		ActivePlayer: s.turn.ActivePlayer,
		Opponents:    opponents,
	}
}

func (s *State) Untap(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.cards[id]; ok {
		c.tapped = false
	}
}

// Tap taps a permanent, reporting whether it was untapped before.
func (s *State) Tap(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cards[id]
	if !ok || c.tapped {
		return false
	}
	c.tapped = true
	return true
}

func (s *State) ClearSummoningSickness(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.cards[id]; ok {
		c.summoningSick = false
	}
}

func (s *State) ConsumeSkipDrawFlag(player string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[player]
	if !ok || !p.skipNextDraw {
		return false
	}
	p.skipNextDraw = false
	return true
}

// SetSkipNextDraw flags the player to skip their next draw step draw.
func (s *State) SetSkipNextDraw(player string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.players[player]; ok {
		p.skipNextDraw = true
	}
}

func (s *State) CanDrawExtraCards(player string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[player]
	return ok && !p.noExtraDraws
}

// RestrictExtraDraws blocks the player's non-first draws until end of
// turn.
func (s *State) RestrictExtraDraws(player string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.players[player]; ok {
		p.noExtraDraws = true
	}
}

func (s *State) CardsDrawnThisTurn(player string) int {
	return s.draws.CardsDrawnThisTurn(player)
}

func (s *State) NoteCardsDrawn(player string, count int) {
	s.draws.Note(player, count)
}

// DrawCards moves up to count cards from the top of the player's
// library to their hand and returns their IDs. Drawing from an empty
// library marks the player as having lost.
func (s *State) DrawCards(player string, count int) []string {
	s.mu.Lock()
	p, ok := s.players[player]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	var toMove []string
	for i := 0; i < count; i++ {
		if len(p.library) == 0 {
			p.inGame = false
			break
		}
		top := p.library[len(p.library)-1]
		toMove = append(toMove, top)
		p.library = p.library[:len(p.library)-1]
		if c, ok := s.cards[top]; ok {
			c.zone = rules.ZoneHand
		}
		p.hand = append(p.hand, top)
	}
	s.mu.Unlock()
	return toMove
}

func (s *State) Hand(player string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.players[player]; ok {
		return append([]string(nil), p.hand...)
	}
	return nil
}

// Library returns the player's library, bottom first.
func (s *State) Library(player string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.players[player]; ok {
		return append([]string(nil), p.library...)
	}
	return nil
}

// Graveyard returns the player's graveyard.
func (s *State) Graveyard(player string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.players[player]; ok {
		return append([]string(nil), p.graveyard...)
	}
	return nil
}

// Exile returns the cards the player owns in exile.
func (s *State) Exile(player string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.players[player]; ok {
		return append([]string(nil), p.exile...)
	}
	return nil
}

func (s *State) MaxHandSize(player string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.players[player]; ok {
		return p.maxHandSize
	}
	return defaultMaxHandSize
}

// SetMaxHandSize overrides the player's maximum hand size.
func (s *State) SetMaxHandSize(player string, size int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.players[player]; ok {
		p.maxHandSize = size
	}
}

// ManaPool returns the player's mana pool.
func (s *State) ManaPool(player string) *mana.Pool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.players[player]; ok {
		return p.pool
	}
	return nil
}

func (s *State) EmptyManaPool(player string) {
	s.mu.RLock()
	p, ok := s.players[player]
	s.mu.RUnlock()
	if ok {
		p.pool.Empty()
	}
}

func (s *State) ClearDamage(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.cards[id]; ok {
		c.damage = 0
	}
}

func (s *State) ClearRegenerationShields(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.cards[id]; ok {
		c.regenShields = 0
	}
}

// AddRegenerationShield marks an unspent shield on a permanent. The
// matching one-shot replacement effect does the actual saving; the
// marker only surfaces in views.
func (s *State) AddRegenerationShield(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.cards[id]; ok {
		c.regenShields++
	}
}

// SpendRegenerationShield consumes one shield marker if present.
func (s *State) SpendRegenerationShield(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.cards[id]; ok && c.regenShields > 0 {
		c.regenShields--
		return true
	}
	return false
}

func (s *State) ClearEndOfTurnRestrictions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.players {
		p.noExtraDraws = false
	}
}

// NextTurn wraps the turn structure: bumps the turn number, rotates
// the active player past anyone out of the game, and resets per-turn
// tracking.
func (s *State) NextTurn() {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.turn.ActivePlayer
	for i := 0; i < len(s.turnOrder); i++ {
		next = s.playerAfterLocked(next)
		if p, ok := s.players[next]; ok && p.inGame {
			break
		}
	}

	s.turn.TurnNumber++
	s.turn.ActivePlayer = next
	s.turn.PriorityPlayer = next
	s.turn.Phase = rules.PhaseBeginning
	s.turn.Step = rules.StepUntap

	s.draws.ResetTurn()
}

func (s *State) playerAfterLocked(player string) string {
	for i, p := range s.turnOrder {
		if p == player {
			return s.turnOrder[(i+1)%len(s.turnOrder)]
		}
	}
	if len(s.turnOrder) > 0 {
		return s.turnOrder[0]
	}
	return player
}

// Life returns the player's life total.
func (s *State) Life(player string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.players[player]; ok {
		return p.life
	}
	return 0
}

// SetLife sets the player's life total directly, for game setup.
func (s *State) SetLife(player string, life int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.players[player]; ok {
		p.life = life
	}
}

// AdjustLife applies a life delta. A player at zero or less leaves the
// game.
func (s *State) AdjustLife(player string, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[player]
	if !ok {
		return
	}
	p.life += delta
	if p.life <= 0 {
		p.inGame = false
	}
}

// MarkDamage adds marked damage to a permanent, reporting its total.
func (s *State) MarkDamage(id string, amount int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.cards[id]; ok {
		c.damage += amount
		return c.damage
	}
	return 0
}

// AddCounters adjusts a counter type on a permanent, clamping at zero.
func (s *State) AddCounters(id string, t rules.CounterType, delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cards[id]
	if !ok {
		return 0
	}
	c.counters[t] += delta
	if c.counters[t] <= 0 {
		delete(c.counters, t)
		return 0
	}
	return c.counters[t]
}
