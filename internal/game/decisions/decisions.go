// Package decisions routes player choices to a pluggable collaborator.
// The engine blocks synchronously on every call; there is no async
// boundary.
package decisions

import "github.com/Chiplis/maigus-sub007/internal/game/rules"

// FallbackStrategy controls how an automatic decision maker answers.
type FallbackStrategy int

const (
	// Decline refuses optional actions. The safest default.
	Decline FallbackStrategy = iota
	// Accept performs optional actions.
	Accept
	// FirstOption picks the first legal choice for mandatory
	// selections.
	FirstOption
)

// DecisionMaker supplies player choices the engine cannot make itself:
// discard selection during cleanup and the interactive replacement
// variants.
type DecisionMaker interface {
	// ChooseCardsToDiscard picks exactly count cards from hand.
	ChooseCardsToDiscard(player string, hand []string, count int) []string

	// ChooseCardToDiscardOrDecline offers discarding one of candidates
	// to satisfy a replacement. Empty string declines.
	ChooseCardToDiscardOrDecline(player string, candidates []string, prompt string) string

	// ConfirmPayLife asks whether the player pays the life cost.
	ConfirmPayLife(player string, amount int, prompt string) bool

	// ChooseDestination picks one of the offered zones. The first
	// entry is the default.
	ChooseDestination(player string, destinations []rules.Zone, prompt string) rules.Zone
}

// Auto answers every decision by strategy, for tests and headless
// simulation.
type Auto struct {
	Strategy FallbackStrategy
}

// NewAuto builds an automatic decision maker with the given strategy.
func NewAuto(strategy FallbackStrategy) *Auto {
	return &Auto{Strategy: strategy}
}

func (a *Auto) ChooseCardsToDiscard(_ string, hand []string, count int) []string {
	if count > len(hand) {
		count = len(hand)
	}
	return append([]string(nil), hand[:count]...)
}

func (a *Auto) ChooseCardToDiscardOrDecline(_ string, candidates []string, _ string) string {
	if a.Strategy == Decline || len(candidates) == 0 {
		return ""
	}
	return candidates[0]
}

func (a *Auto) ConfirmPayLife(string, int, string) bool {
	return a.Strategy == Accept
}

func (a *Auto) ChooseDestination(_ string, destinations []rules.Zone, _ string) rules.Zone {
	if len(destinations) == 0 {
		return rules.ZoneNone
	}
	switch a.Strategy {
	case Accept:
		return destinations[len(destinations)-1]
	default:
		return destinations[0]
	}
}
