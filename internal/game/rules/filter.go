package rules

// FilterContext anchors relative filter words. "You" resolves to the
// controller of the effect being evaluated, never the turn's active
// player.
type FilterContext struct {
	You          string
	Source       string
	ActivePlayer string
	Opponents    []string
}

// PlayerFilter selects players relative to a FilterContext.
type PlayerFilter int

const (
	PlayerAny PlayerFilter = iota
	PlayerYou
	PlayerNotYou
	PlayerOpponent
	PlayerActive
)

var playerFilterNames = map[PlayerFilter]string{
	PlayerAny:      "any player",
	PlayerYou:      "you",
	PlayerNotYou:   "a player other than you",
	PlayerOpponent: "an opponent",
	PlayerActive:   "the active player",
}

func (f PlayerFilter) String() string {
	if name, ok := playerFilterNames[f]; ok {
		return name
	}
	return "unknown player filter"
}

// Matches reports whether the player satisfies this filter in the given
// context.
func (f PlayerFilter) Matches(player string, ctx FilterContext) bool {
	switch f {
	case PlayerAny:
		return true
	case PlayerYou:
		return ctx.You != "" && player == ctx.You
	case PlayerNotYou:
		return ctx.You == "" || player != ctx.You
	case PlayerOpponent:
		for _, opp := range ctx.Opponents {
			if opp == player {
				return true
			}
		}
		return false
	case PlayerActive:
		return ctx.ActivePlayer != "" && player == ctx.ActivePlayer
	default:
		return false
	}
}

// ObjectFilter selects objects by common criteria. Zero value matches
// everything. Empty slices place no constraint; non-empty slices
// require at least one match.
type ObjectFilter struct {
	Zone       Zone
	Controller *PlayerFilter

	CardTypes         []CardType
	ExcludedCardTypes []CardType
	Subtypes          []string
	Supertypes        []string

	Token    bool
	Nontoken bool
	Tapped   bool
	Untapped bool

	// Other excludes the filter context's source object ("another
	// creature you control").
	Other bool
}

// CreatureFilter matches creatures on the battlefield.
func CreatureFilter() ObjectFilter {
	return ObjectFilter{Zone: ZoneBattlefield, CardTypes: []CardType{CardTypeCreature}}
}

// PermanentFilter matches any battlefield permanent.
func PermanentFilter() ObjectFilter {
	return ObjectFilter{Zone: ZoneBattlefield}
}

// ControlledBy returns a copy constrained to the given player filter.
func (f ObjectFilter) ControlledBy(pf PlayerFilter) ObjectFilter {
	f.Controller = &pf
	return f
}

func hasAnyCardType(obj Object, wanted []CardType) bool {
	for _, want := range wanted {
		for _, have := range obj.CardTypes() {
			if have == want {
				return true
			}
		}
	}
	return false
}

func hasAnyString(have, wanted []string) bool {
	for _, want := range wanted {
		for _, h := range have {
			if h == want {
				return true
			}
		}
	}
	return false
}

// Matches reports whether the object satisfies every constraint of this
// filter in the given context. Pure: reads the object, mutates nothing.
func (f ObjectFilter) Matches(obj Object, ctx FilterContext) bool {
	if f.Zone != ZoneNone && obj.Zone() != f.Zone {
		return false
	}
	if f.Controller != nil && !f.Controller.Matches(obj.Controller(), ctx) {
		return false
	}
	if len(f.CardTypes) > 0 && !hasAnyCardType(obj, f.CardTypes) {
		return false
	}
	if len(f.ExcludedCardTypes) > 0 && hasAnyCardType(obj, f.ExcludedCardTypes) {
		return false
	}
	if len(f.Subtypes) > 0 && !hasAnyString(obj.Subtypes(), f.Subtypes) {
		return false
	}
	if len(f.Supertypes) > 0 && !hasAnyString(obj.Supertypes(), f.Supertypes) {
		return false
	}
	if f.Tapped && !obj.IsTapped() {
		return false
	}
	if f.Untapped && obj.IsTapped() {
		return false
	}
	if f.Other && ctx.Source != "" && obj.ID() == ctx.Source {
		return false
	}
	return true
}

// Equal reports structural equality, used to deduplicate grants that
// upstream text compilation produced redundantly.
func (f ObjectFilter) Equal(other ObjectFilter) bool {
	if f.Zone != other.Zone || f.Token != other.Token || f.Nontoken != other.Nontoken ||
		f.Tapped != other.Tapped || f.Untapped != other.Untapped || f.Other != other.Other {
		return false
	}
	if (f.Controller == nil) != (other.Controller == nil) {
		return false
	}
	if f.Controller != nil && *f.Controller != *other.Controller {
		return false
	}
	return equalCardTypes(f.CardTypes, other.CardTypes) &&
		equalCardTypes(f.ExcludedCardTypes, other.ExcludedCardTypes) &&
		equalStrings(f.Subtypes, other.Subtypes) &&
		equalStrings(f.Supertypes, other.Supertypes)
}

func equalCardTypes(a, b []CardType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
