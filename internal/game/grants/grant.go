// Package grants tracks capabilities cards acquire beyond their
// printed text: granted abilities, alternative casting methods, and
// permission to play cards from non-hand zones.
package grants

import (
	"fmt"

	"github.com/Chiplis/maigus-sub007/internal/game/rules"
)

// CastMethodKind names an alternative casting method.
type CastMethodKind string

const (
	CastFlashback CastMethodKind = "flashback"
	CastEscape    CastMethodKind = "escape"
	CastMadness   CastMethodKind = "madness"
)

// CastMethod is an alternative way to cast a card. An empty Cost means
// the card's own mana cost is used.
type CastMethod struct {
	Kind       CastMethodKind
	Cost       string
	ExileCount int
}

func (m CastMethod) Display() string {
	if m.Kind == CastEscape && m.ExileCount > 0 {
		return fmt.Sprintf("escape (exile %d cards)", m.ExileCount)
	}
	return string(m.Kind)
}

// GrantableKind discriminates Grantable variants.
type GrantableKind int

const (
	// GrantAbility grants a static ability.
	GrantAbility GrantableKind = iota
	// GrantAlternativeCast grants an alternative casting method.
	GrantAlternativeCast
	// GrantFlashbackOwnCost grants flashback using the card's own mana
	// cost, the Snapcaster shape.
	GrantFlashbackOwnCost
	// GrantPlayFrom permits playing the card from a non-hand zone as
	// though it were in hand.
	GrantPlayFrom
)

// Grantable is what a grant confers on a card.
type Grantable struct {
	Kind    GrantableKind
	Ability rules.StaticAbility
	Method  CastMethod
}

// Ability builds a static-ability grantable.
func Ability(ability rules.StaticAbility) Grantable {
	return Grantable{Kind: GrantAbility, Ability: ability}
}

// AlternativeCast builds an alternative-cast grantable.
func AlternativeCast(method CastMethod) Grantable {
	return Grantable{Kind: GrantAlternativeCast, Method: method}
}

// FlashbackOwnCost builds a flashback-at-own-cost grantable.
func FlashbackOwnCost() Grantable {
	return Grantable{Kind: GrantFlashbackOwnCost}
}

// Escape builds an escape grantable with the given exile count.
func Escape(exileCount int) Grantable {
	return Grantable{Kind: GrantAlternativeCast,
		Method: CastMethod{Kind: CastEscape, ExileCount: exileCount}}
}

// PlayFrom builds a play-from-zone grantable; the zone lives on the
// enclosing grant.
func PlayFrom() Grantable {
	return Grantable{Kind: GrantPlayFrom}
}

func (g Grantable) Display() string {
	switch g.Kind {
	case GrantAbility:
		if g.Ability != nil {
			return g.Ability.Display()
		}
		return "an ability"
	case GrantAlternativeCast:
		return g.Method.Display()
	case GrantFlashbackOwnCost:
		return "flashback"
	case GrantPlayFrom:
		return "play from zone"
	default:
		return "unknown grant"
	}
}

// Equal reports whether two grantables confer the same thing. Used to
// deduplicate redundant grants.
func (g Grantable) Equal(other Grantable) bool {
	if g.Kind != other.Kind {
		return false
	}
	switch g.Kind {
	case GrantAbility:
		if g.Ability == nil || other.Ability == nil {
			return g.Ability == other.Ability
		}
		return g.Ability.AbilityID() == other.Ability.AbilityID()
	case GrantAlternativeCast:
		return g.Method == other.Method
	default:
		return true
	}
}

// GrantSpec is the static-ability description of a grant: what to
// confer, on which cards, in which zone. Static abilities expose it
// through the Provider capability.
type GrantSpec struct {
	Grantable Grantable
	Filter    rules.ObjectFilter
	Zone      rules.Zone
}

func (s GrantSpec) Display() string {
	return fmt.Sprintf("Cards in %s have %s", s.Zone, s.Grantable.Display())
}

// Provider is the optional capability a static ability implements to
// confer a grant. Discovered by type assertion; ability types opt in
// without a closed registry.
type Provider interface {
	GrantSpec() (GrantSpec, bool)
}
