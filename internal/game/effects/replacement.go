// Package effects implements the replacement effect system: effects
// that intercept state-changing events and rewrite them before they
// commit.
package effects

import (
	"fmt"

	"github.com/Chiplis/maigus-sub007/internal/game/rules"
)

// EffectID identifies a registered replacement effect. IDs are assigned
// by the manager from a per-manager monotonic counter.
type EffectID int64

// ActionKind discriminates ReplacementAction variants.
type ActionKind int

const (
	ActionPrevent ActionKind = iota
	ActionModify
	ActionInstead
	ActionRedirect
	ActionChangeDestination
	ActionEnterWithCounters
	ActionEnterTapped
	ActionEnterAsCopy
	ActionDouble
	ActionAdditionally
	ActionSkip
	ActionDiscardOrRedirect
	ActionPayLifeOrEnterTapped
	ActionChooseDestination
)

// ModificationKind discriminates numeric event modifications.
type ModificationKind int

const (
	ModMultiply ModificationKind = iota
	ModAdd
	ModSubtract
	ModSetTo
	ModReduceToZero
)

// EventModification rescales the numeric quantity of an event.
type EventModification struct {
	Kind  ModificationKind
	Value int
}

// ApplyTo transforms an amount, clamping at zero.
func (m EventModification) ApplyTo(amount int) int {
	switch m.Kind {
	case ModMultiply:
		amount *= m.Value
	case ModAdd:
		amount += m.Value
	case ModSubtract:
		amount -= m.Value
	case ModSetTo:
		amount = m.Value
	case ModReduceToZero:
		amount = 0
	}
	if amount < 0 {
		return 0
	}
	return amount
}

// GameEffect is an opaque effect description handed back to the caller
// for execution. The replacement system never executes effects itself;
// Instead and Additionally actions surface them in the outcome.
type GameEffect interface {
	Display() string
}

// ReplacementAction says what happens instead when a replacement
// applies. A closed set: the processor dispatches exhaustively on Kind.
type ReplacementAction struct {
	Kind ActionKind

	Modification EventModification
	Effects      []GameEffect
	Redirect     rules.Target
	Destination  rules.Zone

	CounterType  rules.CounterType
	CounterCount int
	CopyOf       string

	// Interactive variants.
	DiscardFilter rules.ObjectFilter
	RedirectZone  rules.Zone
	LifeCost      int
	Destinations  []rules.Zone
	Prompt        string
}

// Prevent stops the event entirely.
func Prevent() ReplacementAction {
	return ReplacementAction{Kind: ActionPrevent}
}

// Modify applies the event with a rescaled quantity.
func Modify(mod EventModification) ReplacementAction {
	return ReplacementAction{Kind: ActionModify, Modification: mod}
}

// Instead substitutes different effects for the event.
func Instead(effects ...GameEffect) ReplacementAction {
	return ReplacementAction{Kind: ActionInstead, Effects: effects}
}

// RedirectTo sends the event at a different target.
func RedirectTo(target rules.Target) ReplacementAction {
	return ReplacementAction{Kind: ActionRedirect, Redirect: target}
}

// ChangeDestination rewrites the zone an object would go to.
func ChangeDestination(zone rules.Zone) ReplacementAction {
	return ReplacementAction{Kind: ActionChangeDestination, Destination: zone}
}

// EnterWithCounters adds counters to an entering permanent.
func EnterWithCounters(counter rules.CounterType, count int) ReplacementAction {
	return ReplacementAction{Kind: ActionEnterWithCounters, CounterType: counter, CounterCount: count}
}

// EnterTapped makes an entering permanent enter tapped.
func EnterTapped() ReplacementAction {
	return ReplacementAction{Kind: ActionEnterTapped}
}

// EnterAsCopy makes an entering permanent enter as a copy of another
// object.
func EnterAsCopy(objectID string) ReplacementAction {
	return ReplacementAction{Kind: ActionEnterAsCopy, CopyOf: objectID}
}

// Double doubles the event's quantity.
func Double() ReplacementAction {
	return ReplacementAction{Kind: ActionDouble}
}

// Additionally keeps the event and appends extra effects.
func Additionally(effects ...GameEffect) ReplacementAction {
	return ReplacementAction{Kind: ActionAdditionally, Effects: effects}
}

// Skip consumes the event without a substitute ("skip your draw step").
func Skip() ReplacementAction {
	return ReplacementAction{Kind: ActionSkip}
}

// DiscardOrRedirect offers discarding a matching card; declining sends
// the entering permanent to the redirect zone instead.
func DiscardOrRedirect(filter rules.ObjectFilter, redirectZone rules.Zone, prompt string) ReplacementAction {
	return ReplacementAction{
		Kind:          ActionDiscardOrRedirect,
		DiscardFilter: filter,
		RedirectZone:  redirectZone,
		Prompt:        prompt,
	}
}

// PayLifeOrEnterTapped offers paying life; declining makes the
// permanent enter tapped.
func PayLifeOrEnterTapped(lifeCost int, prompt string) ReplacementAction {
	return ReplacementAction{Kind: ActionPayLifeOrEnterTapped, LifeCost: lifeCost, Prompt: prompt}
}

// ChooseDestination offers alternate destinations for a zone-changing
// event. The first entry is the default.
func ChooseDestination(destinations []rules.Zone, prompt string) ReplacementAction {
	return ReplacementAction{Kind: ActionChooseDestination, Destinations: destinations, Prompt: prompt}
}

// ReplacementEffect binds a matcher to an action with provenance. The
// zero EffectID means not yet registered.
type ReplacementEffect struct {
	ID         EffectID
	Source     string
	Controller string
	Action     ReplacementAction

	// SelfReplacement marks effects that only affect their own source;
	// these always apply before other replacements touching the same
	// event.
	SelfReplacement bool

	Matcher rules.ReplacementMatcher
}

// WithMatcher builds an effect from its parts.
func WithMatcher(source, controller string, matcher rules.ReplacementMatcher, action ReplacementAction) ReplacementEffect {
	return ReplacementEffect{
		Source:     source,
		Controller: controller,
		Action:     action,
		Matcher:    matcher,
	}
}

// SelfReplacing marks the effect as a self-replacement.
func (e ReplacementEffect) SelfReplacing() ReplacementEffect {
	e.SelfReplacement = true
	return e
}

// Clone deep-copies the effect, cloning the matcher.
func (e ReplacementEffect) Clone() ReplacementEffect {
	cp := e
	if e.Matcher != nil {
		cp.Matcher = e.Matcher.CloneMatcher()
	}
	return cp
}

func (e ReplacementEffect) String() string {
	if e.Matcher != nil {
		return fmt.Sprintf("effect %d from %s: %s", e.ID, e.Source, e.Matcher.Display())
	}
	return fmt.Sprintf("effect %d from %s", e.ID, e.Source)
}

// PreventDamage builds "prevent the next N damage that would be dealt
// to you".
func PreventDamage(source, controller string, amount int) ReplacementEffect {
	return WithMatcher(source, controller, rules.DamageToYou(),
		Modify(EventModification{Kind: ModSubtract, Value: amount}))
}

// CantGainLife builds "players can't gain life".
func CantGainLife(source, controller string) ReplacementEffect {
	return WithMatcher(source, controller,
		rules.WouldGainLifeMatcher{PlayerFilter: rules.PlayerAny}, Prevent())
}

// EntersTapped builds "permanents matching the filter enter the
// battlefield tapped".
func EntersTapped(source, controller string, filter rules.ObjectFilter) ReplacementEffect {
	return WithMatcher(source, controller,
		rules.WouldEnterBattlefieldMatcher{Filter: filter}, EnterTapped())
}

// ThisEntersTapped builds the self-replacement "this permanent enters
// the battlefield tapped".
func ThisEntersTapped(source, controller string) ReplacementEffect {
	return WithMatcher(source, controller,
		rules.ThisWouldEnterBattlefieldMatcher{}, EnterTapped()).SelfReplacing()
}

// EntersWithCounters builds the self-replacement "this enters with N
// counters".
func EntersWithCounters(source, controller string, counter rules.CounterType, count int) ReplacementEffect {
	return WithMatcher(source, controller,
		rules.ThisWouldEnterBattlefieldMatcher{}, EnterWithCounters(counter, count)).SelfReplacing()
}

// ExileInsteadOfDying builds the self-replacement "if this would die,
// exile it instead".
func ExileInsteadOfDying(source, controller string) ReplacementEffect {
	return WithMatcher(source, controller,
		rules.ThisWouldDieMatcher{}, ChangeDestination(rules.ZoneExile)).SelfReplacing()
}

// DoubleDamageFrom builds "if the chosen source would deal damage, it
// deals double that damage instead".
func DoubleDamageFrom(source, controller, damageSource string) ReplacementEffect {
	return WithMatcher(source, controller,
		rules.DamageFromSourceMatcher{Source: damageSource}, Double())
}

// SkipDraw builds "the chosen player skips their draw".
func SkipDraw(source, controller string, player rules.PlayerFilter) ReplacementEffect {
	return WithMatcher(source, controller,
		rules.WouldDrawCardMatcher{PlayerFilter: player}, Skip())
}

// Indestructible builds the self-replacement "this permanent can't be
// destroyed".
func Indestructible(source, controller string) ReplacementEffect {
	return WithMatcher(source, controller,
		rules.ThisWouldBeDestroyedMatcher{}, Prevent()).SelfReplacing()
}

// RegenerationShield builds a one-shot shield replacing the next
// destruction of the protected creature. Register via
// Manager.AddOneShotEffect.
func RegenerationShield(source, controller, protected string) ReplacementEffect {
	return WithMatcher(source, controller,
		rules.RegenerationShieldMatcher{Protected: protected}, Prevent()).SelfReplacing()
}

// DiscardToLibraryTop builds "if an effect causes you to discard a
// card, you may put it on top of your library instead".
func DiscardToLibraryTop(source, controller string) ReplacementEffect {
	return WithMatcher(source, controller, rules.YouWouldDiscardFromEffect(),
		ChooseDestination([]rules.Zone{rules.ZoneGraveyard, rules.ZoneLibrary},
			"Put the discarded card on top of your library?"))
}
