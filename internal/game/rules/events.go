package rules

import "fmt"

// EventKind is the closed set of event categories the rules core
// understands. Matching dispatches on the kind first, then on the
// concrete event type.
type EventKind int

const (
	EventDamage EventKind = iota
	EventZoneChange
	EventEnterBattlefield
	EventDraw
	EventDiscard
	EventLifeGain
	EventLifeLoss
	EventTap
	EventUntap
	EventDestroy
	EventSacrifice
	EventPutCounters
	EventRemoveCounters
	EventMoveCounters
)

var eventKindNames = map[EventKind]string{
	EventDamage:           "DAMAGE",
	EventZoneChange:       "ZONE_CHANGE",
	EventEnterBattlefield: "ENTER_BATTLEFIELD",
	EventDraw:             "DRAW",
	EventDiscard:          "DISCARD",
	EventLifeGain:         "LIFE_GAIN",
	EventLifeLoss:         "LIFE_LOSS",
	EventTap:              "TAP",
	EventUntap:            "UNTAP",
	EventDestroy:          "DESTROY",
	EventSacrifice:        "SACRIFICE",
	EventPutCounters:      "PUT_COUNTERS",
	EventRemoveCounters:   "REMOVE_COUNTERS",
	EventMoveCounters:     "MOVE_COUNTERS",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EVENT_%d", int(k))
}

// Event is an immutable description of a prospective state change.
// Effect executors build events, the replacement machinery may rewrite
// them (always producing a new value), and the world commits the final
// shape. Events are never mutated after creation.
type Event interface {
	Kind() EventKind

	// AffectedPlayer is the player whose choices order simultaneous
	// replacement effects: the affected player, or the controller of
	// the affected object. Falls back to the active player when the
	// event has no resolvable subject.
	AffectedPlayer(w World) string

	// SourceObject is the object causing this event, or "" when the
	// event has no source.
	SourceObject() string

	Display() string
	CloneEvent() Event
}

// DamageEvent describes damage that would be dealt to a player or
// permanent.
type DamageEvent struct {
	Source        string
	Target        Target
	Amount        int
	IsCombat      bool
	Unpreventable bool
}

func (e DamageEvent) Kind() EventKind      { return EventDamage }
func (e DamageEvent) SourceObject() string { return e.Source }

func (e DamageEvent) AffectedPlayer(w World) string {
	if e.Target.Kind == TargetPlayer {
		return e.Target.ID
	}
	if obj, ok := w.Object(e.Target.ID); ok {
		return obj.Controller()
	}
	return w.Turn().ActivePlayer
}

func (e DamageEvent) Display() string {
	return fmt.Sprintf("%s would deal %d damage to %s", e.Source, e.Amount, e.Target.ID)
}

func (e DamageEvent) CloneEvent() Event { return e }

// WithAmount returns a copy with the damage amount replaced.
func (e DamageEvent) WithAmount(amount int) DamageEvent {
	e.Amount = amount
	return e
}

// WithTarget returns a copy with the damage redirected.
func (e DamageEvent) WithTarget(target Target) DamageEvent {
	e.Target = target
	return e
}

// CounterSpec is a pending batch of counters an object enters with.
type CounterSpec struct {
	Type  CounterType
	Count int
}

// ZoneChangeEvent describes one or more objects moving between zones.
// The entry modifiers (EnterTapped, EnterCounters, AsCopyOf) are set by
// replacement effects and interpreted by the executor committing the
// move.
type ZoneChangeEvent struct {
	Objects []string
	From    Zone
	To      Zone

	// FromEffect distinguishes effect-driven moves from game-rule
	// moves; some replacements apply to only one of the two.
	FromEffect bool

	EnterTapped   bool
	EnterCounters []CounterSpec
	AsCopyOf      string
}

func (e ZoneChangeEvent) Kind() EventKind { return EventZoneChange }

func (e ZoneChangeEvent) SourceObject() string {
	if len(e.Objects) > 0 {
		return e.Objects[0]
	}
	return ""
}

func (e ZoneChangeEvent) AffectedPlayer(w World) string {
	if len(e.Objects) > 0 {
		if obj, ok := w.Object(e.Objects[0]); ok {
			return obj.Controller()
		}
	}
	return w.Turn().ActivePlayer
}

func (e ZoneChangeEvent) Display() string {
	return fmt.Sprintf("%d object(s) would move %s -> %s", len(e.Objects), e.From, e.To)
}

func (e ZoneChangeEvent) CloneEvent() Event {
	cp := e
	cp.Objects = append([]string(nil), e.Objects...)
	cp.EnterCounters = append([]CounterSpec(nil), e.EnterCounters...)
	return cp
}

// WithDestination returns a copy with the destination zone replaced.
func (e ZoneChangeEvent) WithDestination(to Zone) ZoneChangeEvent {
	cp := e.CloneEvent().(ZoneChangeEvent)
	cp.To = to
	return cp
}

// IsDeath reports whether this change is a battlefield-to-graveyard
// move.
func (e ZoneChangeEvent) IsDeath() bool {
	return e.From == ZoneBattlefield && e.To == ZoneGraveyard
}

// EnterBattlefieldEvent describes a single object entering the
// battlefield, raised after zone-change replacements have settled on
// the battlefield as the destination.
type EnterBattlefieldEvent struct {
	Object        string
	Controller    string
	Tapped        bool
	EnterCounters []CounterSpec
	AsCopyOf      string
}

func (e EnterBattlefieldEvent) Kind() EventKind      { return EventEnterBattlefield }
func (e EnterBattlefieldEvent) SourceObject() string { return e.Object }

func (e EnterBattlefieldEvent) AffectedPlayer(w World) string {
	if e.Controller != "" {
		return e.Controller
	}
	if obj, ok := w.Object(e.Object); ok {
		return obj.Controller()
	}
	return w.Turn().ActivePlayer
}

func (e EnterBattlefieldEvent) Display() string {
	return fmt.Sprintf("%s would enter the battlefield", e.Object)
}

func (e EnterBattlefieldEvent) CloneEvent() Event {
	cp := e
	cp.EnterCounters = append([]CounterSpec(nil), e.EnterCounters...)
	return cp
}

// DrawEvent describes a player drawing cards.
type DrawEvent struct {
	Player      string
	Count       int
	FirstOfTurn bool
}

func (e DrawEvent) Kind() EventKind              { return EventDraw }
func (e DrawEvent) SourceObject() string         { return "" }
func (e DrawEvent) AffectedPlayer(w World) string { return e.Player }

func (e DrawEvent) Display() string {
	return fmt.Sprintf("%s would draw %d card(s)", e.Player, e.Count)
}

func (e DrawEvent) CloneEvent() Event { return e }

// WithCount returns a copy with the draw count replaced.
func (e DrawEvent) WithCount(count int) DrawEvent {
	e.Count = count
	return e
}

// DiscardEvent describes a player discarding a card. Destination starts
// as the graveyard and may be rewritten by replacements (madness exile,
// put on top of library).
type DiscardEvent struct {
	Player      string
	Card        string
	FromEffect  bool
	Destination Zone
}

func (e DiscardEvent) Kind() EventKind               { return EventDiscard }
func (e DiscardEvent) SourceObject() string          { return e.Card }
func (e DiscardEvent) AffectedPlayer(w World) string { return e.Player }

func (e DiscardEvent) Display() string {
	return fmt.Sprintf("%s would discard %s", e.Player, e.Card)
}

func (e DiscardEvent) CloneEvent() Event { return e }

// WithDestination returns a copy with the discard destination replaced.
func (e DiscardEvent) WithDestination(to Zone) DiscardEvent {
	e.Destination = to
	return e
}

// LifeGainEvent describes a player gaining life.
type LifeGainEvent struct {
	Player string
	Source string
	Amount int
}

func (e LifeGainEvent) Kind() EventKind               { return EventLifeGain }
func (e LifeGainEvent) SourceObject() string          { return e.Source }
func (e LifeGainEvent) AffectedPlayer(w World) string { return e.Player }

func (e LifeGainEvent) Display() string {
	return fmt.Sprintf("%s would gain %d life", e.Player, e.Amount)
}

func (e LifeGainEvent) CloneEvent() Event { return e }

// WithAmount returns a copy with the amount replaced.
func (e LifeGainEvent) WithAmount(amount int) LifeGainEvent {
	e.Amount = amount
	return e
}

// LifeLossEvent describes direct life loss. Damage is modeled as
// DamageEvent, not life loss, so prevention and redirection only touch
// damage.
type LifeLossEvent struct {
	Player string
	Source string
	Amount int
}

func (e LifeLossEvent) Kind() EventKind               { return EventLifeLoss }
func (e LifeLossEvent) SourceObject() string          { return e.Source }
func (e LifeLossEvent) AffectedPlayer(w World) string { return e.Player }

func (e LifeLossEvent) Display() string {
	return fmt.Sprintf("%s would lose %d life", e.Player, e.Amount)
}

func (e LifeLossEvent) CloneEvent() Event { return e }

// WithAmount returns a copy with the amount replaced.
func (e LifeLossEvent) WithAmount(amount int) LifeLossEvent {
	e.Amount = amount
	return e
}

// TapEvent describes a permanent becoming tapped.
type TapEvent struct {
	Object string
	Cause  string
}

func (e TapEvent) Kind() EventKind      { return EventTap }
func (e TapEvent) SourceObject() string { return e.Object }

func (e TapEvent) AffectedPlayer(w World) string {
	if obj, ok := w.Object(e.Object); ok {
		return obj.Controller()
	}
	return w.Turn().ActivePlayer
}

func (e TapEvent) Display() string   { return fmt.Sprintf("%s would become tapped", e.Object) }
func (e TapEvent) CloneEvent() Event { return e }

// UntapEvent describes a permanent becoming untapped.
type UntapEvent struct {
	Object string
	Cause  string
}

func (e UntapEvent) Kind() EventKind      { return EventUntap }
func (e UntapEvent) SourceObject() string { return e.Object }

func (e UntapEvent) AffectedPlayer(w World) string {
	if obj, ok := w.Object(e.Object); ok {
		return obj.Controller()
	}
	return w.Turn().ActivePlayer
}

func (e UntapEvent) Display() string   { return fmt.Sprintf("%s would become untapped", e.Object) }
func (e UntapEvent) CloneEvent() Event { return e }

// DestroyEvent describes a permanent being destroyed. CanRegenerate is
// false for destruction that forbids regeneration.
type DestroyEvent struct {
	Object        string
	Source        string
	CanRegenerate bool
}

func (e DestroyEvent) Kind() EventKind      { return EventDestroy }
func (e DestroyEvent) SourceObject() string { return e.Object }

func (e DestroyEvent) AffectedPlayer(w World) string {
	if obj, ok := w.Object(e.Object); ok {
		return obj.Controller()
	}
	return w.Turn().ActivePlayer
}

func (e DestroyEvent) Display() string   { return fmt.Sprintf("%s would be destroyed", e.Object) }
func (e DestroyEvent) CloneEvent() Event { return e }

// SacrificeEvent describes a player sacrificing a permanent.
type SacrificeEvent struct {
	Object string
	Player string
}

func (e SacrificeEvent) Kind() EventKind               { return EventSacrifice }
func (e SacrificeEvent) SourceObject() string          { return e.Object }
func (e SacrificeEvent) AffectedPlayer(w World) string { return e.Player }

func (e SacrificeEvent) Display() string {
	return fmt.Sprintf("%s would sacrifice %s", e.Player, e.Object)
}

func (e SacrificeEvent) CloneEvent() Event { return e }

// PutCountersEvent describes counters being placed on a permanent.
type PutCountersEvent struct {
	Object  string
	Source  string
	Counter CounterType
	Count   int
}

func (e PutCountersEvent) Kind() EventKind      { return EventPutCounters }
func (e PutCountersEvent) SourceObject() string { return e.Source }

func (e PutCountersEvent) AffectedPlayer(w World) string {
	if obj, ok := w.Object(e.Object); ok {
		return obj.Controller()
	}
	return w.Turn().ActivePlayer
}

func (e PutCountersEvent) Display() string {
	return fmt.Sprintf("%d %s counter(s) would be put on %s", e.Count, e.Counter, e.Object)
}

func (e PutCountersEvent) CloneEvent() Event { return e }

// WithCount returns a copy with the counter count replaced.
func (e PutCountersEvent) WithCount(count int) PutCountersEvent {
	e.Count = count
	return e
}

// RemoveCountersEvent describes counters being removed from a
// permanent.
type RemoveCountersEvent struct {
	Object  string
	Source  string
	Counter CounterType
	Count   int
}

func (e RemoveCountersEvent) Kind() EventKind      { return EventRemoveCounters }
func (e RemoveCountersEvent) SourceObject() string { return e.Source }

func (e RemoveCountersEvent) AffectedPlayer(w World) string {
	if obj, ok := w.Object(e.Object); ok {
		return obj.Controller()
	}
	return w.Turn().ActivePlayer
}

func (e RemoveCountersEvent) Display() string {
	return fmt.Sprintf("%d %s counter(s) would be removed from %s", e.Count, e.Counter, e.Object)
}

func (e RemoveCountersEvent) CloneEvent() Event { return e }

// MoveCountersEvent describes counters moving between permanents. Both
// endpoints are redirectable.
type MoveCountersEvent struct {
	FromObject string
	ToObject   string
	Counter    CounterType
	Count      int
}

func (e MoveCountersEvent) Kind() EventKind      { return EventMoveCounters }
func (e MoveCountersEvent) SourceObject() string { return e.FromObject }

func (e MoveCountersEvent) AffectedPlayer(w World) string {
	if obj, ok := w.Object(e.ToObject); ok {
		return obj.Controller()
	}
	return w.Turn().ActivePlayer
}

func (e MoveCountersEvent) Display() string {
	return fmt.Sprintf("%d %s counter(s) would move from %s to %s",
		e.Count, e.Counter, e.FromObject, e.ToObject)
}

func (e MoveCountersEvent) CloneEvent() Event { return e }
