package game

import (
	"fmt"

	"github.com/Chiplis/maigus-sub007/internal/game/effects"
	"github.com/Chiplis/maigus-sub007/internal/game/grants"
	"github.com/Chiplis/maigus-sub007/internal/game/rules"
)

// baseAbility carries the common StaticAbility plumbing.
type baseAbility struct {
	id   string
	text string
}

func (a baseAbility) AbilityID() string  { return a.id }
func (a baseAbility) Display() string    { return a.text }
func (a baseAbility) AffectsUntap() bool { return false }
func (a baseAbility) EntersTapped() bool { return false }

// KeywordAbility is a marker ability with no rules hook of its own,
// such as flying or haste.
type KeywordAbility struct {
	baseAbility
}

func Keyword(name string) KeywordAbility {
	return KeywordAbility{baseAbility{id: name, text: name}}
}

// EntersTappedAbility makes its own permanent enter the battlefield
// tapped.
type EntersTappedAbility struct {
	baseAbility
}

func NewEntersTappedAbility() EntersTappedAbility {
	return EntersTappedAbility{baseAbility{
		id:   "enters-tapped",
		text: "This permanent enters the battlefield tapped.",
	}}
}

func (a EntersTappedAbility) EntersTapped() bool { return true }

func (a EntersTappedAbility) GenerateReplacementEffect(source, controller string) (effects.ReplacementEffect, bool) {
	return effects.ThisEntersTapped(source, controller), true
}

// DoesntUntapAbility keeps its permanent tapped through the untap
// step.
type DoesntUntapAbility struct {
	baseAbility
}

func NewDoesntUntapAbility() DoesntUntapAbility {
	return DoesntUntapAbility{baseAbility{
		id:   "doesnt-untap",
		text: "This permanent doesn't untap during your untap step.",
	}}
}

func (a DoesntUntapAbility) AffectsUntap() bool { return true }

// AllEnterTappedAbility makes every permanent enter the battlefield
// tapped while its source is on the battlefield.
type AllEnterTappedAbility struct {
	baseAbility
}

func NewAllEnterTappedAbility() AllEnterTappedAbility {
	return AllEnterTappedAbility{baseAbility{
		id:   "all-enter-tapped",
		text: "Permanents enter the battlefield tapped.",
	}}
}

func (a AllEnterTappedAbility) GenerateReplacementEffect(source, controller string) (effects.ReplacementEffect, bool) {
	return effects.EntersTapped(source, controller, rules.ObjectFilter{}), true
}

// NoLifeGainAbility stops its controller's opponents from gaining
// life.
type NoLifeGainAbility struct {
	baseAbility
}

func NewNoLifeGainAbility() NoLifeGainAbility {
	return NoLifeGainAbility{baseAbility{
		id:   "opponents-cant-gain-life",
		text: "Your opponents can't gain life.",
	}}
}

func (a NoLifeGainAbility) GenerateReplacementEffect(source, controller string) (effects.ReplacementEffect, bool) {
	return effects.WithMatcher(source, controller, rules.OpponentWouldGainLife(), effects.Prevent()), true
}

// ExileGraveyardBoundAbility exiles cards that would go to their
// owner's graveyard while the source remains on the battlefield.
type ExileGraveyardBoundAbility struct {
	baseAbility
}

func NewExileGraveyardBoundAbility() ExileGraveyardBoundAbility {
	return ExileGraveyardBoundAbility{baseAbility{
		id:   "exile-instead-of-graveyard",
		text: "If a card would be put into a graveyard, exile it instead.",
	}}
}

func (a ExileGraveyardBoundAbility) GenerateReplacementEffect(source, controller string) (effects.ReplacementEffect, bool) {
	matcher := rules.WouldGoToGraveyardMatcher{}
	return effects.WithMatcher(source, controller, matcher,
		effects.ChangeDestination(rules.ZoneExile)), true
}

// EscapeGrantAbility lets creature cards in its controller's graveyard
// be cast with escape while the source is on the battlefield.
type EscapeGrantAbility struct {
	baseAbility
	exileCount int
}

func NewEscapeGrantAbility(exileCount int) EscapeGrantAbility {
	return EscapeGrantAbility{
		baseAbility: baseAbility{
			id:   "grant-escape",
			text: fmt.Sprintf("Creature cards in your graveyard have escape (exile %d cards).", exileCount),
		},
		exileCount: exileCount,
	}
}

func (a EscapeGrantAbility) GrantSpec() (grants.GrantSpec, bool) {
	return grants.GrantSpec{
		Grantable: grants.Escape(a.exileCount),
		Filter: rules.ObjectFilter{
			Zone:      rules.ZoneGraveyard,
			CardTypes: []rules.CardType{rules.CardTypeCreature},
		},
		Zone: rules.ZoneGraveyard,
	}, true
}

// PlayFromGraveyardAbility permits playing lands from the graveyard
// while the source is on the battlefield.
type PlayFromGraveyardAbility struct {
	baseAbility
}

func NewPlayFromGraveyardAbility() PlayFromGraveyardAbility {
	return PlayFromGraveyardAbility{baseAbility{
		id:   "play-lands-from-graveyard",
		text: "You may play lands from your graveyard.",
	}}
}

func (a PlayFromGraveyardAbility) GrantSpec() (grants.GrantSpec, bool) {
	return grants.GrantSpec{
		Grantable: grants.PlayFrom(),
		Filter: rules.ObjectFilter{
			Zone:      rules.ZoneGraveyard,
			CardTypes: []rules.CardType{rules.CardTypeLand},
		},
		Zone: rules.ZoneGraveyard,
	}, true
}
