package rules

import (
	"errors"
	"fmt"
)

// Turn progression errors. These are fatal to the calling loop: once
// one is returned the caller must stop driving turns.
var (
	ErrCannotAdvance      = errors.New("cannot advance past the current step")
	ErrNoPlayersRemaining = errors.New("no players remaining in the game")
)

// InvalidStateError reports a turn operation attempted from a state
// that does not permit it.
type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string {
	return "invalid turn state: " + e.Message
}

// CostErrorKind categorizes why a candidate cost cannot legally be
// paid.
type CostErrorKind int

const (
	CostAlreadyTapped CostErrorKind = iota
	CostSummoningSickness
	CostNotEnoughLife
	CostNotEnoughCards
	CostNotEnoughMana
	CostCannotSacrifice
	CostOther
)

var costErrorMessages = map[CostErrorKind]string{
	CostAlreadyTapped:     "permanent is already tapped",
	CostSummoningSickness: "creature has summoning sickness",
	CostNotEnoughLife:     "not enough life to pay",
	CostNotEnoughCards:    "not enough cards to pay",
	CostNotEnoughMana:     "not enough mana to pay",
	CostCannotSacrifice:   "permanent cannot be sacrificed",
	CostOther:             "cost cannot be paid",
}

// CostValidationError signals that a candidate action is currently
// illegal. Recoverable: no state has been mutated, the caller simply
// omits the action from the legal set. Cost legality must be checked
// before committing any part of a cost, because partial payment cannot
// be undone.
type CostValidationError struct {
	Kind   CostErrorKind
	Detail string
}

func (e *CostValidationError) Error() string {
	msg, ok := costErrorMessages[e.Kind]
	if !ok {
		msg = "cost cannot be paid"
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	return msg
}

// NewCostError builds a CostValidationError of the given kind.
func NewCostError(kind CostErrorKind, detail string) *CostValidationError {
	return &CostValidationError{Kind: kind, Detail: detail}
}
