package effects

import (
	"sort"

	"go.uber.org/zap"

	"github.com/Chiplis/maigus-sub007/internal/game/decisions"
	"github.com/Chiplis/maigus-sub007/internal/game/rules"
)

// MaxIterations bounds the replacement loop. A legal board state never
// gets close; hitting the cap means two effects are rewriting each
// other's output forever, and the event proceeds as-is.
const MaxIterations = 100

// Chooser breaks ties among simultaneously applicable effects in the
// lowest priority band: the affected player picks which applies first.
type Chooser func(player string, candidates []ReplacementEffect) EffectID

// ChooseLowestID is the default tie-break: the oldest registered
// effect applies first. Deterministic, which matters for replays and
// tests.
func ChooseLowestID(_ string, candidates []ReplacementEffect) EffectID {
	chosen := candidates[0].ID
	for _, c := range candidates[1:] {
		if c.ID < chosen {
			chosen = c.ID
		}
	}
	return chosen
}

// HandReader is the optional world capability the interactive
// discard-or-redirect variant needs. Worlds that cannot expose hands
// simply auto-redirect.
type HandReader interface {
	Hand(player string) []string
}

// LifePayment records a life cost paid through an interactive
// replacement.
type LifePayment struct {
	Player string
	Amount int
}

// Outcome is the final disposition of an event after every applicable
// replacement ran.
type Outcome struct {
	// Event is the final shape to commit, or nil when the event was
	// prevented, skipped, or fully replaced.
	Event rules.Event

	// Prevented is true when the event does not happen and nothing
	// substitutes for it.
	Prevented bool

	// Replaced holds substitute effects when an Instead action
	// consumed the event. The caller executes them.
	Replaced []GameEffect

	// Additional holds extra effects appended alongside the event.
	Additional []GameEffect

	// Applied lists every effect that rewrote the event, in order.
	Applied []EffectID

	// DiscardedCard is the card discarded to satisfy an interactive
	// replacement, if any. DiscardedBy is the player who discarded it:
	// the controller of the replacement effect, who need not be the
	// player the replaced event affects.
	DiscardedCard string
	DiscardedBy   string

	// LifePaid records a life cost accepted through an interactive
	// replacement, if any.
	LifePaid *LifePayment
}

// Processor runs events through the registered replacement effects.
type Processor struct {
	manager *Manager
	chooser Chooser
	logger  *zap.Logger
}

// NewProcessor builds a processor over the manager. A nil chooser
// falls back to ChooseLowestID.
func NewProcessor(manager *Manager, chooser Chooser, logger *zap.Logger) *Processor {
	if chooser == nil {
		chooser = ChooseLowestID
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{manager: manager, chooser: chooser, logger: logger}
}

// Apply runs the event through every applicable replacement until none
// remain, then returns the final disposition. One event is processed
// to full completion before its mutation commits: each applied effect
// produces a rewritten event that is re-matched against all effects,
// except those already applied to this event, which never apply twice.
// selfEffects carries unregistered self-replacements generated from the
// event subject's own abilities; they participate with self priority.
func (p *Processor) Apply(w rules.World, event rules.Event, selfEffects []ReplacementEffect, decider decisions.DecisionMaker) Outcome {
	outcome := Outcome{}
	applied := make(map[EffectID]bool)

	for iteration := 0; ; iteration++ {
		if iteration >= MaxIterations {
			p.logger.Warn("replacement loop exceeded iteration cap",
				zap.String("event", event.Display()))
			outcome.Event = event
			return outcome
		}

		candidates := p.applicable(w, event, selfEffects, applied)
		if len(candidates) == 0 {
			outcome.Event = event
			return outcome
		}

		effect := p.selectEffect(w, event, candidates)
		applied[effect.ID] = true
		outcome.Applied = append(outcome.Applied, effect.ID)
		p.consumeIfOneShot(effect.ID)

		p.logger.Debug("applying replacement effect",
			zap.Int64("effect_id", int64(effect.ID)),
			zap.String("source_id", effect.Source),
			zap.String("event", event.Display()))

		next, done := p.applyAction(w, event, effect, &outcome, decider)
		if done {
			return outcome
		}
		event = next
	}
}

// preventsDamage reports whether the action prevents damage or reduces
// its amount. Unpreventable damage never matches these effects, so a
// one-shot shield behind one stays unconsumed for the next preventable
// damage.
func preventsDamage(action ReplacementAction) bool {
	switch action.Kind {
	case ActionPrevent:
		return true
	case ActionModify:
		return action.Modification.Kind == ModSubtract ||
			action.Modification.Kind == ModReduceToZero
	}
	return false
}

type rankedEffect struct {
	effect   ReplacementEffect
	priority rules.ReplacementPriority
}

func (p *Processor) applicable(w rules.World, event rules.Event, selfEffects []ReplacementEffect, applied map[EffectID]bool) []rankedEffect {
	var out []rankedEffect

	unpreventable := false
	if damage, ok := event.(rules.DamageEvent); ok {
		unpreventable = damage.Unpreventable
	}

	check := func(effect ReplacementEffect) {
		if effect.Matcher == nil || applied[effect.ID] {
			return
		}
		if unpreventable && preventsDamage(effect.Action) {
			return
		}
		ctx := rules.ContextForReplacementEffect(effect.Controller, effect.Source, w)
		if !effect.Matcher.MatchesEvent(event, ctx) {
			return
		}
		priority := effect.Matcher.Priority()
		if effect.SelfReplacement {
			priority = rules.PrioritySelfReplacement
		}
		out = append(out, rankedEffect{effect: effect, priority: priority})
	}

	for _, effect := range p.manager.Effects() {
		check(effect)
	}
	for _, effect := range selfEffects {
		check(effect)
	}
	return out
}

// selectEffect picks the next effect to apply: the lowest priority
// band wins outright, and ties within the choice band go to the
// affected player via the chooser.
func (p *Processor) selectEffect(w rules.World, event rules.Event, candidates []rankedEffect) ReplacementEffect {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].priority < candidates[j].priority
	})

	band := candidates[0].priority
	atBand := candidates[:1]
	for _, c := range candidates[1:] {
		if c.priority == band {
			atBand = append(atBand, c)
		}
	}

	if len(atBand) > 1 && band == rules.PriorityOther {
		effects := make([]ReplacementEffect, len(atBand))
		for i, c := range atBand {
			effects[i] = c.effect
		}
		chosenID := p.chooser(event.AffectedPlayer(w), effects)
		for _, c := range atBand {
			if c.effect.ID == chosenID {
				return c.effect
			}
		}
	}
	return atBand[0].effect
}

func (p *Processor) consumeIfOneShot(id EffectID) {
	if p.manager.IsOneShot(id) {
		p.manager.MarkEffectUsed(id)
	}
}

// applyAction rewrites the event per the effect's action. Returns the
// next event shape, or done=true when processing ends here.
func (p *Processor) applyAction(w rules.World, event rules.Event, effect ReplacementEffect, outcome *Outcome, decider decisions.DecisionMaker) (rules.Event, bool) {
	action := effect.Action

	switch action.Kind {
	case ActionPrevent, ActionSkip:
		outcome.Prevented = true
		outcome.Event = nil
		return nil, true

	case ActionModify:
		return rescaleEvent(event, func(amount int) int {
			return action.Modification.ApplyTo(amount)
		}), false

	case ActionDouble:
		return rescaleEvent(event, func(amount int) int { return amount * 2 }), false

	case ActionInstead:
		outcome.Replaced = append(outcome.Replaced, action.Effects...)
		outcome.Event = nil
		return nil, true

	case ActionAdditionally:
		outcome.Additional = append(outcome.Additional, action.Effects...)
		return event, false

	case ActionRedirect:
		if damage, ok := event.(rules.DamageEvent); ok {
			return damage.WithTarget(action.Redirect), false
		}
		return event, false

	case ActionChangeDestination:
		return changeDestination(event, action.Destination), false

	case ActionEnterWithCounters:
		return addEnterCounters(event, action.CounterType, action.CounterCount), false

	case ActionEnterTapped:
		return setEnterTapped(event), false

	case ActionEnterAsCopy:
		return setEnterCopy(event, action.CopyOf), false

	case ActionDiscardOrRedirect:
		return p.applyDiscardOrRedirect(w, event, effect, outcome, decider)

	case ActionPayLifeOrEnterTapped:
		if decider != nil && decider.ConfirmPayLife(effect.Controller, action.LifeCost, action.Prompt) {
			outcome.LifePaid = &LifePayment{Player: effect.Controller, Amount: action.LifeCost}
			return event, false
		}
		return setEnterTapped(event), false

	case ActionChooseDestination:
		if decider == nil || len(action.Destinations) == 0 {
			return event, false
		}
		chosen := decider.ChooseDestination(effect.Controller, action.Destinations, action.Prompt)
		if chosen == rules.ZoneNone || chosen == action.Destinations[0] {
			return event, false
		}
		return changeDestination(event, chosen), false
	}

	return event, false
}

// applyDiscardOrRedirect resolves the discard-a-card-or-redirect
// variant: with no matching card in hand, or on decline, the entering
// object is redirected; a discard lets the event proceed unchanged.
func (p *Processor) applyDiscardOrRedirect(w rules.World, event rules.Event, effect ReplacementEffect, outcome *Outcome, decider decisions.DecisionMaker) (rules.Event, bool) {
	var candidates []string
	if hands, ok := w.(HandReader); ok {
		ctx := w.FilterContextFor(effect.Controller, effect.Source)
		for _, card := range hands.Hand(effect.Controller) {
			obj, found := w.Object(card)
			if !found {
				continue
			}
			f := effect.Action.DiscardFilter
			f.Zone = rules.ZoneNone
			if f.Matches(obj, ctx) {
				candidates = append(candidates, card)
			}
		}
	}

	if len(candidates) > 0 && decider != nil {
		chosen := decider.ChooseCardToDiscardOrDecline(effect.Controller, candidates, effect.Action.Prompt)
		if chosen != "" {
			outcome.DiscardedCard = chosen
			outcome.DiscardedBy = effect.Controller
			return event, false
		}
	}
	return changeDestination(event, effect.Action.RedirectZone), false
}

// rescaleEvent rewrites the numeric quantity of events that carry one.
// Events without a quantity pass through unchanged.
func rescaleEvent(event rules.Event, f func(int) int) rules.Event {
	switch ev := event.(type) {
	case rules.DamageEvent:
		return ev.WithAmount(f(ev.Amount))
	case rules.LifeGainEvent:
		return ev.WithAmount(f(ev.Amount))
	case rules.LifeLossEvent:
		return ev.WithAmount(f(ev.Amount))
	case rules.DrawEvent:
		return ev.WithCount(f(ev.Count))
	case rules.PutCountersEvent:
		return ev.WithCount(f(ev.Count))
	default:
		return event
	}
}

func changeDestination(event rules.Event, zone rules.Zone) rules.Event {
	switch ev := event.(type) {
	case rules.ZoneChangeEvent:
		return ev.WithDestination(zone)
	case rules.DiscardEvent:
		return ev.WithDestination(zone)
	default:
		return event
	}
}

func addEnterCounters(event rules.Event, counter rules.CounterType, count int) rules.Event {
	spec := rules.CounterSpec{Type: counter, Count: count}
	switch ev := event.(type) {
	case rules.ZoneChangeEvent:
		cp := ev.CloneEvent().(rules.ZoneChangeEvent)
		cp.EnterCounters = append(cp.EnterCounters, spec)
		return cp
	case rules.EnterBattlefieldEvent:
		cp := ev.CloneEvent().(rules.EnterBattlefieldEvent)
		cp.EnterCounters = append(cp.EnterCounters, spec)
		return cp
	default:
		return event
	}
}

func setEnterTapped(event rules.Event) rules.Event {
	switch ev := event.(type) {
	case rules.ZoneChangeEvent:
		cp := ev.CloneEvent().(rules.ZoneChangeEvent)
		cp.EnterTapped = true
		return cp
	case rules.EnterBattlefieldEvent:
		cp := ev.CloneEvent().(rules.EnterBattlefieldEvent)
		cp.Tapped = true
		return cp
	default:
		return event
	}
}

func setEnterCopy(event rules.Event, copyOf string) rules.Event {
	switch ev := event.(type) {
	case rules.ZoneChangeEvent:
		cp := ev.CloneEvent().(rules.ZoneChangeEvent)
		cp.AsCopyOf = copyOf
		return cp
	case rules.EnterBattlefieldEvent:
		cp := ev.CloneEvent().(rules.EnterBattlefieldEvent)
		cp.AsCopyOf = copyOf
		return cp
	default:
		return event
	}
}
