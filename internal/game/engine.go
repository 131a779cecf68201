package game

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Chiplis/maigus-sub007/internal/game/decisions"
	"github.com/Chiplis/maigus-sub007/internal/game/effects"
	"github.com/Chiplis/maigus-sub007/internal/game/grants"
	"github.com/Chiplis/maigus-sub007/internal/game/mana"
	"github.com/Chiplis/maigus-sub007/internal/game/rules"
	"github.com/Chiplis/maigus-sub007/internal/game/watchers"
)

// Engine drives one game: it owns the world model, the replacement
// effect machinery, the grant registry, the stack, and the priority
// protocol, and routes every would-happen event through replacements
// before committing it.
type Engine struct {
	state     *State
	effects   *effects.Manager
	processor *effects.Processor
	grants    *grants.Registry
	triggers  *rules.TriggerManager
	tracker   *rules.PriorityTracker
	decider   decisions.DecisionMaker
	watchers  *watchers.Registry
	life      *watchers.LifeWatcher
	deaths    *watchers.DeathWatcher
	log       *EventLog
	logger    *zap.Logger
}

// Option configures an Engine before its components are built.
type Option func(*engineConfig)

type engineConfig struct {
	decider      decisions.DecisionMaker
	chooser      effects.Chooser
	logger       *zap.Logger
	startingLife int
	maxHandSize  int
}

// WithDecisionMaker replaces the default auto-decliner.
func WithDecisionMaker(d decisions.DecisionMaker) Option {
	return func(c *engineConfig) { c.decider = d }
}

// WithChooser replaces the tie-break among equal-priority replacement
// effects.
func WithChooser(chooser effects.Chooser) Option {
	return func(c *engineConfig) { c.chooser = chooser }
}

// WithLogger installs a logger on the engine and everything it builds.
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) { c.logger = logger }
}

// WithStartingLife overrides the default starting life total.
func WithStartingLife(life int) Option {
	return func(c *engineConfig) { c.startingLife = life }
}

// WithMaxHandSize overrides the default maximum hand size.
func WithMaxHandSize(size int) Option {
	return func(c *engineConfig) { c.maxHandSize = size }
}

// NewEngine builds a game for the given players in turn order.
func NewEngine(players []string, opts ...Option) *Engine {
	cfg := engineConfig{
		decider: decisions.NewAuto(decisions.Decline),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Engine{
		decider: cfg.decider,
		logger:  cfg.logger,
	}
	e.state = NewState(players, cfg.logger)
	for _, p := range players {
		if cfg.startingLife > 0 {
			e.state.SetLife(p, cfg.startingLife)
		}
		if cfg.maxHandSize > 0 {
			e.state.SetMaxHandSize(p, cfg.maxHandSize)
		}
	}
	e.effects = effects.NewManager(cfg.logger)
	e.processor = effects.NewProcessor(e.effects, cfg.chooser, cfg.logger)
	e.grants = grants.NewRegistry(cfg.logger)
	e.triggers = rules.NewTriggerManager()
	e.tracker = rules.NewPriorityTracker(len(players))
	e.watchers = watchers.NewRegistry()
	e.life = watchers.NewLifeWatcher()
	e.deaths = watchers.NewDeathWatcher()
	// Draws are noted at the mutation point by every draw path, so the
	// draw watcher stays out of the event fan-out.
	e.watchers.Register(e.life)
	e.watchers.Register(e.deaths)
	e.log = NewEventLog()
	return e
}

// State exposes the world model.
func (e *Engine) State() *State { return e.state }

// Effects exposes the replacement effect manager.
func (e *Engine) Effects() *effects.Manager { return e.effects }

// Grants exposes the grant registry.
func (e *Engine) Grants() *grants.Registry { return e.grants }

// Triggers exposes the triggered ability manager.
func (e *Engine) Triggers() *rules.TriggerManager { return e.triggers }

// Stack exposes the stack.
func (e *Engine) Stack() *rules.StackManager { return e.state.Stack() }

// Log exposes the applied-event log.
func (e *Engine) Log() *EventLog { return e.log }

// LifeWatcher exposes per-turn life tracking.
func (e *Engine) LifeWatcher() *watchers.LifeWatcher { return e.life }

// DeathWatcher exposes per-turn death tracking.
func (e *Engine) DeathWatcher() *watchers.DeathWatcher { return e.deaths }

// Refresh rebuilds everything derived from static abilities of
// battlefield permanents. Derived state is regenerated wholesale, not
// diffed.
func (e *Engine) Refresh() {
	effects.RefreshStaticAbilityEffects(e.state, e.effects)
	e.grants.RefreshStaticGrants(e.state)
}

// ApplyEvent routes an event through the replacement machinery and
// commits whatever survives. Triggered abilities and watchers see only
// the final event.
func (e *Engine) ApplyEvent(event rules.Event) effects.Outcome {
	selfEffects := e.selfEffectsFor(event)
	outcome := e.processor.Apply(e.state, event, selfEffects, e.decider)

	if outcome.LifePaid != nil {
		e.state.AdjustLife(outcome.LifePaid.Player, -outcome.LifePaid.Amount)
	}
	if outcome.DiscardedCard != "" {
		e.commitDiscard(rules.DiscardEvent{
			Player:      outcome.DiscardedBy,
			Card:        outcome.DiscardedCard,
			Destination: rules.ZoneGraveyard,
		})
	}

	if outcome.Event != nil {
		e.execute(outcome.Event)
		e.finalize(outcome.Event)
	}
	for _, sub := range outcome.Replaced {
		e.logger.Info("substitute effect pending", zap.String("effect", sub.Display()))
	}
	for _, extra := range outcome.Additional {
		e.logger.Info("additional effect pending", zap.String("effect", extra.Display()))
	}
	return outcome
}

// selfEffectsFor collects unregistered self-replacements generated by
// the event subject's own abilities, for events that introduce an
// object to the battlefield. Registered effects already cover
// everything else.
func (e *Engine) selfEffectsFor(event rules.Event) []effects.ReplacementEffect {
	var subject string
	switch ev := event.(type) {
	case rules.EnterBattlefieldEvent:
		subject = ev.Object
	case rules.ZoneChangeEvent:
		if ev.To == rules.ZoneBattlefield && len(ev.Objects) == 1 {
			subject = ev.Objects[0]
		}
	}
	if subject == "" {
		return nil
	}
	obj, ok := e.state.Object(subject)
	if !ok {
		return nil
	}
	var out []effects.ReplacementEffect
	for _, ability := range obj.Abilities() {
		gen, ok := ability.(effects.Generator)
		if !ok {
			continue
		}
		eff, ok := gen.GenerateReplacementEffect(subject, obj.Controller())
		if !ok || !eff.SelfReplacement {
			continue
		}
		out = append(out, eff)
	}
	return out
}

// execute commits a finalized event to the world.
func (e *Engine) execute(event rules.Event) {
	switch ev := event.(type) {
	case rules.DamageEvent:
		e.executeDamage(ev)
	case rules.DrawEvent:
		drawn := e.state.DrawCards(ev.Player, ev.Count)
		e.state.NoteCardsDrawn(ev.Player, len(drawn))
	case rules.DiscardEvent:
		e.commitDiscard(ev)
	case rules.ZoneChangeEvent:
		e.executeZoneChange(ev)
	case rules.EnterBattlefieldEvent:
		counters := make(map[rules.CounterType]int)
		for _, c := range ev.EnterCounters {
			counters[c.Type] += c.Count
		}
		e.state.PutOnBattlefield(ev.Object, ev.Controller, ev.Tapped, counters)
	case rules.LifeGainEvent:
		e.state.AdjustLife(ev.Player, ev.Amount)
	case rules.LifeLossEvent:
		e.state.AdjustLife(ev.Player, -ev.Amount)
	case rules.TapEvent:
		e.state.Tap(ev.Object)
	case rules.UntapEvent:
		e.state.Untap(ev.Object)
	case rules.DestroyEvent:
		e.executeDestroy(ev)
	case rules.SacrificeEvent:
		e.state.MoveCard(ev.Object, rules.ZoneGraveyard)
	case rules.PutCountersEvent:
		e.state.AddCounters(ev.Object, ev.Counter, ev.Count)
	case rules.RemoveCountersEvent:
		e.state.AddCounters(ev.Object, ev.Counter, -ev.Count)
	case rules.MoveCountersEvent:
		have := 0
		if c, ok := e.state.Card(ev.FromObject); ok {
			have = c.Counters(ev.Counter)
		}
		moved := ev.Count
		if moved > have {
			moved = have
		}
		if moved > 0 {
			e.state.AddCounters(ev.FromObject, ev.Counter, -moved)
			e.state.AddCounters(ev.ToObject, ev.Counter, moved)
		}
	}
}

func (e *Engine) executeDamage(ev rules.DamageEvent) {
	if ev.Amount <= 0 {
		return
	}
	switch ev.Target.Kind {
	case rules.TargetPlayer:
		e.state.AdjustLife(ev.Target.ID, -ev.Amount)
	case rules.TargetObject:
		card, ok := e.state.Card(ev.Target.ID)
		if !ok {
			return
		}
		total := e.state.MarkDamage(ev.Target.ID, ev.Amount)
		if card.isCreature() && total >= e.toughness(card) {
			e.ApplyEvent(rules.DestroyEvent{
				Object:        ev.Target.ID,
				Source:        ev.Source,
				CanRegenerate: true,
			})
		}
	}
}

// toughness approximates lethal-damage checks. Counters shift the
// threshold; the base comes from a flat default since printed
// power/toughness is outside the world model's card specs.
func (e *Engine) toughness(card *Card) int {
	t := 2 + card.Counters(rules.CounterPlusOnePlusOne) - card.Counters(rules.CounterMinusOneMinusOne)
	if t < 1 {
		t = 1
	}
	return t
}

func (e *Engine) executeZoneChange(ev rules.ZoneChangeEvent) {
	for _, obj := range ev.Objects {
		if ev.To == rules.ZoneBattlefield {
			counters := make(map[rules.CounterType]int)
			for _, c := range ev.EnterCounters {
				counters[c.Type] += c.Count
			}
			controller := ""
			if card, ok := e.state.Card(obj); ok {
				controller = card.Owner()
			}
			e.state.PutOnBattlefield(obj, controller, ev.EnterTapped, counters)
			continue
		}
		e.state.MoveCard(obj, ev.To)
	}
}

func (e *Engine) executeDestroy(ev rules.DestroyEvent) {
	// A destroy that survived replacements (no regeneration shield, no
	// indestructible effect) moves the permanent to its owner's
	// graveyard.
	e.ApplyEvent(rules.ZoneChangeEvent{
		Objects: []string{ev.Object},
		From:    rules.ZoneBattlefield,
		To:      rules.ZoneGraveyard,
	})
}

// finalize feeds a committed event to triggers, watchers, and the log.
// Fired triggers stay pending until the next priority-granting
// juncture.
func (e *Engine) finalize(event rules.Event) {
	e.watchers.Observe(event)
	e.log.Record(e.state.Turn().TurnNumber, event)
	e.triggers.Handle(event, e.state)
}

// queuePendingTriggers moves fired triggers onto the stack. Called only
// where a player is about to receive priority, so a trigger fired
// mid-resolution never lands on the stack between the events of one
// resolution. Queuing anything restarts the round of passes.
func (e *Engine) queuePendingTriggers() {
	items := e.triggers.DrainPending()
	if len(items) == 0 {
		return
	}
	for _, item := range items {
		e.state.Stack().Push(item)
	}
	e.tracker.Reset()
}

// commitDiscard moves the discarded card to the event's destination.
func (e *Engine) commitDiscard(ev rules.DiscardEvent) (rules.Zone, string) {
	dest := ev.Destination
	if dest == rules.ZoneNone {
		dest = rules.ZoneGraveyard
	}
	if dest == rules.ZoneLibrary {
		// Discard-to-library puts the card on top.
		newID, _ := e.state.MoveCard(ev.Card, rules.ZoneLibrary)
		return dest, newID
	}
	newID, _ := e.state.MoveCard(ev.Card, dest)
	return dest, newID
}

// ExecuteDiscard routes one discard through the replacement machinery
// and commits the result. Satisfies the cleanup step's executor.
func (e *Engine) ExecuteDiscard(player, card string, fromEffect bool) rules.DiscardResult {
	event := rules.DiscardEvent{
		Player:      player,
		Card:        card,
		FromEffect:  fromEffect,
		Destination: rules.ZoneGraveyard,
	}
	outcome := e.processor.Apply(e.state, event, nil, e.decider)
	if outcome.Event == nil {
		return rules.DiscardResult{FinalZone: rules.ZoneHand}
	}
	final, ok := outcome.Event.(rules.DiscardEvent)
	if !ok {
		return rules.DiscardResult{FinalZone: rules.ZoneHand}
	}
	zone, newID := e.commitDiscard(final)
	e.finalize(final)

	result := rules.DiscardResult{FinalZone: zone}
	if zone == rules.ZoneExile {
		result.NewID = newID
	}
	return result
}

// DealDamage applies damage from a source to a target through
// replacements.
func (e *Engine) DealDamage(source string, target rules.Target, amount int, combat bool) effects.Outcome {
	return e.ApplyEvent(rules.DamageEvent{
		Source:   source,
		Target:   target,
		Amount:   amount,
		IsCombat: combat,
	})
}

// GainLife routes a life gain through replacements.
func (e *Engine) GainLife(player, source string, amount int) effects.Outcome {
	return e.ApplyEvent(rules.LifeGainEvent{Player: player, Source: source, Amount: amount})
}

// DrawCard routes one draw through replacements.
func (e *Engine) DrawCard(player string) effects.Outcome {
	first := e.state.CardsDrawnThisTurn(player) == 0
	return e.ApplyEvent(rules.DrawEvent{Player: player, Count: 1, FirstOfTurn: first})
}

// DestroyPermanent routes a destroy through replacements. Regeneration
// shields and indestructible effects can save the permanent.
func (e *Engine) DestroyPermanent(object, source string, canRegenerate bool) effects.Outcome {
	return e.ApplyEvent(rules.DestroyEvent{
		Object:        object,
		Source:        source,
		CanRegenerate: canRegenerate,
	})
}

// GrantRegenerationShield registers a one-shot shield protecting the
// object until used or until cleanup.
func (e *Engine) GrantRegenerationShield(source, controller, protected string) effects.EffectID {
	id := e.effects.AddOneShotEffect(effects.RegenerationShield(source, controller, protected))
	e.state.AddRegenerationShield(protected)
	return id
}

// CastFromGrant casts a card via a granted alternative method: the
// cost is paid from the caster's mana pool, escape exiles extra cards
// from the graveyard, and resolution moves the card to the
// battlefield or graveyard by type.
func (e *Engine) CastFromGrant(player, card string, method grants.CastMethod) error {
	c, ok := e.state.Card(card)
	if !ok {
		return &rules.InvalidStateError{Message: fmt.Sprintf("card %s does not exist", card)}
	}
	zone := c.Zone()

	methods := e.grants.GrantedAlternativeCastsForCard(e.state, card, zone, player)
	granted := false
	for _, m := range methods {
		if m.Kind == method.Kind {
			granted = true
			break
		}
	}
	if !granted {
		return &rules.InvalidStateError{
			Message: fmt.Sprintf("%s has no granted %s cast for %s", player, method.Kind, card),
		}
	}

	costStr := method.Cost
	if costStr == "" {
		costStr = c.ManaCost()
	}
	cost, err := mana.ParseCost(costStr)
	if err != nil {
		return err
	}

	// Validate every piece of the cost before committing any of it.
	var fuel []string
	if method.Kind == grants.CastEscape && method.ExileCount > 0 {
		for _, gc := range e.state.Graveyard(player) {
			if gc == card || len(fuel) == method.ExileCount {
				continue
			}
			fuel = append(fuel, gc)
		}
		if len(fuel) < method.ExileCount {
			return rules.NewCostError(rules.CostNotEnoughCards,
				fmt.Sprintf("escape needs %d other cards in the graveyard", method.ExileCount))
		}
	}

	pool := e.state.ManaPool(player)
	if pool == nil || !pool.Pay(cost) {
		return rules.NewCostError(rules.CostNotEnoughMana,
			fmt.Sprintf("cannot pay %s", cost))
	}
	for _, gc := range fuel {
		e.state.MoveCard(gc, rules.ZoneExile)
	}

	item := rules.StackItem{
		ID:          uuid.NewString(),
		Controller:  player,
		Description: fmt.Sprintf("%s cast with %s", c.Name(), method.Display()),
		Kind:        rules.StackItemKindSpell,
		SourceID:    card,
		Resolve: func() error {
			if c.isCreature() {
				e.ApplyEvent(rules.ZoneChangeEvent{
					Objects: []string{card},
					From:    zone,
					To:      rules.ZoneBattlefield,
				})
			} else {
				e.state.MoveCard(card, rules.ZoneGraveyard)
			}
			return nil
		},
	}
	e.state.Stack().Push(item)
	e.ResetPriority()
	return nil
}

// ResolveTop resolves the top stack item and resets priority to the
// active player.
func (e *Engine) ResolveTop() error {
	item, err := e.state.Stack().Pop()
	if err != nil {
		return err
	}
	if item.Resolve != nil {
		if err := item.Resolve(); err != nil {
			return err
		}
	}
	e.Refresh()
	e.ResetPriority()
	return nil
}

// PassPriority records a pass for the priority holder. All players
// passing resolves the top of the stack, or ends the phase when the
// stack is empty.
func (e *Engine) PassPriority() (rules.PriorityResult, error) {
	e.queuePendingTriggers()
	result := rules.PassPriority(e.state, e.tracker)
	switch result {
	case rules.PriorityStackResolves:
		if err := e.ResolveTop(); err != nil {
			return result, err
		}
	case rules.PriorityPhaseEnds:
		e.tracker.Reset()
		if err := e.Advance(); err != nil {
			return result, err
		}
	}
	return result, nil
}

// ResetPriority queues any pending triggers, then gives priority back
// to the active player and clears the pass count.
func (e *Engine) ResetPriority() {
	e.queuePendingTriggers()
	rules.ResetPriority(e.state, e.tracker)
}

// Advance moves to the next step or phase and runs its turn-based
// actions. No-priority steps chain forward automatically.
func (e *Engine) Advance() error {
	turnBefore := e.state.Turn().TurnNumber
	if err := rules.AdvanceStep(e.state); err != nil {
		return err
	}
	if e.state.Turn().TurnNumber != turnBefore {
		e.watchers.ResetTurn()
	}
	e.tracker.SetPlayersInGame(e.state.PlayersInGame())
	e.tracker.Reset()

	switch e.state.Turn().Step {
	case rules.StepUntap:
		rules.ExecuteUntapStep(e.state)
		e.Refresh()
		// Untap grants no priority: fall through to upkeep.
		return e.Advance()
	case rules.StepDraw:
		for _, ev := range rules.ExecuteDrawStep(e.state) {
			e.finalize(ev)
		}
	case rules.StepCleanup:
		if spec := rules.GetCleanupDiscardSpec(e.state); spec != nil {
			chosen := e.decider.ChooseCardsToDiscard(spec.Player, spec.Hand, spec.Count)
			rules.ApplyCleanupDiscard(e.state, chosen, e)
		}
		rules.ExecuteCleanupStep(e.state, e.effects, e.grants)
		// Cleanup grants no priority: begin the next turn.
		return e.Advance()
	}
	e.queuePendingTriggers()
	return nil
}
