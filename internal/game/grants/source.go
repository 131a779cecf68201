package grants

import (
	"fmt"

	"github.com/Chiplis/maigus-sub007/internal/game/rules"
)

// Lifetime classifies how long a grant remains valid.
type Lifetime int

const (
	// LifetimePermanent grants never expire on their own.
	LifetimePermanent Lifetime = iota
	// LifetimeEndOfTurn grants expire when the named turn ends.
	LifetimeEndOfTurn
	// LifetimeWhileSourceOnBattlefield grants track their source
	// permanent and expire when it leaves.
	LifetimeWhileSourceOnBattlefield
)

// SourceKind discriminates Source variants.
type SourceKind int

const (
	// SourceEffect marks a grant created by a resolved spell or
	// ability.
	SourceEffect SourceKind = iota
	// SourceStaticAbility marks a grant continuously generated by a
	// static ability of a battlefield permanent.
	SourceStaticAbility
)

// Source records where a grant came from and governs its lifetime.
type Source struct {
	Kind     SourceKind
	SourceID string
	// ExpiresAfterTurn is the turn number after which an effect grant
	// lapses. Zero means the grant does not expire with the turn.
	ExpiresAfterTurn int
}

// FromEffect builds a non-expiring effect source.
func FromEffect(sourceID string) Source {
	return Source{Kind: SourceEffect, SourceID: sourceID}
}

// FromEffectUntilEndOfTurn builds an effect source that expires when
// the given turn number ends.
func FromEffectUntilEndOfTurn(sourceID string, turnNumber int) Source {
	return Source{Kind: SourceEffect, SourceID: sourceID, ExpiresAfterTurn: turnNumber}
}

// FromStaticAbility builds a source tied to a battlefield permanent.
func FromStaticAbility(sourceID string) Source {
	return Source{Kind: SourceStaticAbility, SourceID: sourceID}
}

// Lifetime reports the grant's expiry class.
func (s Source) Lifetime() Lifetime {
	switch s.Kind {
	case SourceStaticAbility:
		return LifetimeWhileSourceOnBattlefield
	default:
		if s.ExpiresAfterTurn > 0 {
			return LifetimeEndOfTurn
		}
		return LifetimePermanent
	}
}

// IsValidRaw reports validity as a pure function of the current turn
// number and the set of object IDs on the battlefield.
func (s Source) IsValidRaw(turnNumber int, battlefield []string) bool {
	switch s.Lifetime() {
	case LifetimeEndOfTurn:
		return turnNumber <= s.ExpiresAfterTurn
	case LifetimeWhileSourceOnBattlefield:
		for _, id := range battlefield {
			if id == s.SourceID {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// IsValid reports validity against live game state.
func (s Source) IsValid(w rules.World) bool {
	turn := 0
	if ts := w.Turn(); ts != nil {
		turn = ts.TurnNumber
	}
	return s.IsValidRaw(turn, w.Battlefield())
}

func (s Source) String() string {
	switch s.Lifetime() {
	case LifetimeEndOfTurn:
		return fmt.Sprintf("effect from %s (until end of turn %d)", s.SourceID, s.ExpiresAfterTurn)
	case LifetimeWhileSourceOnBattlefield:
		return fmt.Sprintf("static ability of %s", s.SourceID)
	default:
		return fmt.Sprintf("effect from %s", s.SourceID)
	}
}
