package rules

// OneShotPurger clears one-shot replacement effects at cleanup. The
// replacement effect manager satisfies this.
type OneShotPurger interface {
	ClearOneShotEffects()
}

// GrantSweeper purges expired grants at cleanup. The grant registry
// satisfies this.
type GrantSweeper interface {
	CleanupExpired(turnNumber int, battlefield []string)
}

// DiscardResult reports where a discarded card actually ended up after
// discard replacements ran.
type DiscardResult struct {
	FinalZone Zone

	// NewID is the card's identity in its final zone, when the move
	// re-keyed it (exile via madness). Empty otherwise.
	NewID string
}

// DiscardExecutor routes a discard through the replacement machinery.
// The world model satisfies this; cleanup discards pass
// fromEffect=false because they are game-rule discards.
type DiscardExecutor interface {
	ExecuteDiscard(player, card string, fromEffect bool) DiscardResult
}

// ExecuteUntapStep untaps every permanent the active player controls
// except those carrying a "doesn't untap during your untap step"
// static ability, and clears summoning sickness on all of them.
// Grants no priority.
func ExecuteUntapStep(w StepWorld) {
	active := w.Turn().ActivePlayer
	permanents := w.PermanentsControlledBy(active)

	for _, id := range permanents {
		obj, ok := w.Object(id)
		if !ok {
			continue
		}

		skipsUntap := false
		for _, ability := range obj.Abilities() {
			if ability.AffectsUntap() {
				skipsUntap = true
				break
			}
		}
		if !skipsUntap {
			w.Untap(id)
		}

		// Summoning sickness wears off whether or not the permanent
		// untaps.
		w.ClearSummoningSickness(id)
	}

	w.Turn().PriorityPlayer = ""
}

// ExecuteDrawStep draws a card for the active player unless a pending
// skip flag consumes the draw, or an extra-card restriction blocks a
// non-first draw. Priority is granted afterward either way. The
// returned events feed downstream trigger checks.
func ExecuteDrawStep(w StepWorld) []Event {
	active := w.Turn().ActivePlayer

	if w.ConsumeSkipDrawFlag(active) {
		w.Turn().PriorityPlayer = active
		return nil
	}

	alreadyDrawn := w.CardsDrawnThisTurn(active)
	firstDraw := alreadyDrawn == 0

	// A "can't draw extra cards" restriction only blocks the draw step
	// draw when the player has already drawn this turn.
	canDraw := w.CanDrawExtraCards(active) || alreadyDrawn == 0

	var events []Event
	if canDraw {
		drawn := w.DrawCards(active, 1)
		w.NoteCardsDrawn(active, len(drawn))
		if len(drawn) > 0 {
			events = append(events, DrawEvent{
				Player:      active,
				Count:       len(drawn),
				FirstOfTurn: firstDraw,
			})
		}
	}

	w.Turn().PriorityPlayer = active
	return events
}

// CleanupDiscardSpec describes a required discard-to-hand-size
// decision.
type CleanupDiscardSpec struct {
	Player string
	Count  int
	Hand   []string
}

// GetCleanupDiscardSpec reports whether the active player must discard
// down to maximum hand size before cleanup can run. Returns nil when no
// discard is needed.
func GetCleanupDiscardSpec(w StepWorld) *CleanupDiscardSpec {
	active := w.Turn().ActivePlayer
	hand := w.Hand(active)
	maxHand := w.MaxHandSize(active)
	if maxHand < 0 {
		maxHand = 0
	}

	excess := len(hand) - maxHand
	if excess <= 0 {
		return nil
	}
	return &CleanupDiscardSpec{
		Player: active,
		Count:  excess,
		Hand:   append([]string(nil), hand...),
	}
}

// ApplyCleanupDiscard commits the chosen discards through the discard
// replacement machinery. Cleanup discards are game-rule discards, so
// effect-only replacements do not apply. Returns cards that ended up
// exiled with a pending alternative cast (the madness window).
func ApplyCleanupDiscard(w StepWorld, cards []string, exec DiscardExecutor) []string {
	active := w.Turn().ActivePlayer

	var exiled []string
	for _, card := range cards {
		result := exec.ExecuteDiscard(active, card, false)
		if result.FinalZone == ZoneExile && result.NewID != "" {
			exiled = append(exiled, result.NewID)
		}
	}
	return exiled
}

// ExecuteCleanupStep runs the cleanup step proper. Callers must resolve
// any discard decision first (GetCleanupDiscardSpec /
// ApplyCleanupDiscard) because the discard can trigger effects that
// need to see pre-cleanup state. Empties the active player's mana pool,
// clears damage and regeneration shields, purges one-shot replacement
// effects and expired grants, and clears end-of-turn restrictions.
// Grants no priority.
func ExecuteCleanupStep(w StepWorld, effects OneShotPurger, grants GrantSweeper) {
	active := w.Turn().ActivePlayer
	w.EmptyManaPool(active)

	battlefield := w.Battlefield()
	for _, id := range battlefield {
		w.ClearDamage(id)
		w.ClearRegenerationShields(id)
	}

	if effects != nil {
		effects.ClearOneShotEffects()
	}
	if grants != nil {
		grants.CleanupExpired(w.Turn().TurnNumber, battlefield)
	}

	w.ClearEndOfTurnRestrictions()

	w.Turn().PriorityPlayer = ""
}
