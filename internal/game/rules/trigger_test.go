package rules

import "testing"

type kindTrigger struct {
	kind EventKind
}

func (m kindTrigger) MatchesEvent(event Event, ctx EventContext) bool {
	return event.Kind() == m.kind
}

func (m kindTrigger) Display() string              { return "on " + m.kind.String() }
func (m kindTrigger) CloneTrigger() TriggerMatcher { return m }

func buildNamed(id string) func(Event) StackItem {
	return func(Event) StackItem {
		return StackItem{ID: id, Kind: StackItemKindTriggered}
	}
}

func TestTriggerFiresAndQueues(t *testing.T) {
	w := newStubWorld("alice", "bob")
	tm := NewTriggerManager()

	tm.Register(AbilityTrigger{
		SourceID:   "soul-warden",
		Controller: "alice",
		Matcher:    kindTrigger{kind: EventEnterBattlefield},
		Build:      buildNamed("warden-trigger"),
	})

	tm.Handle(EnterBattlefieldEvent{Object: "bears", Controller: "bob"}, w)
	if !tm.HasPending() {
		t.Fatal("trigger should be pending")
	}

	pending := tm.DrainPending()
	if len(pending) != 1 || pending[0].ID != "warden-trigger" {
		t.Fatalf("pending = %v", pending)
	}
	if tm.HasPending() {
		t.Fatal("drain should clear the queue")
	}
}

func TestTriggersQueueInRegistrationOrder(t *testing.T) {
	w := newStubWorld("alice", "bob")
	tm := NewTriggerManager()

	names := []string{"first", "second", "third", "fourth", "fifth"}
	for _, name := range names {
		tm.Register(AbilityTrigger{
			SourceID:   name,
			Controller: "alice",
			Matcher:    kindTrigger{kind: EventLifeGain},
			Build:      buildNamed(name),
		})
	}

	tm.Handle(LifeGainEvent{Player: "alice", Amount: 1}, w)

	pending := tm.DrainPending()
	if len(pending) != len(names) {
		t.Fatalf("pending = %d items, want %d", len(pending), len(names))
	}
	for i, item := range pending {
		if item.ID != names[i] {
			t.Fatalf("pending[%d] = %s, want %s", i, item.ID, names[i])
		}
	}
}

func TestTriggerIgnoresNonMatchingEvents(t *testing.T) {
	w := newStubWorld("alice")
	tm := NewTriggerManager()
	tm.Register(AbilityTrigger{
		Controller: "alice",
		Matcher:    kindTrigger{kind: EventLifeGain},
		Build:      buildNamed("x"),
	})

	tm.Handle(DrawEvent{Player: "alice", Count: 1}, w)
	if tm.HasPending() {
		t.Fatal("draw should not fire a life-gain trigger")
	}
}

func TestOnceTriggerFiresOnce(t *testing.T) {
	w := newStubWorld("alice")
	tm := NewTriggerManager()
	tm.Register(AbilityTrigger{
		Controller: "alice",
		Matcher:    kindTrigger{kind: EventDraw},
		Build:      buildNamed("one-shot"),
		Once:       true,
	})

	tm.Handle(DrawEvent{Player: "alice", Count: 1}, w)
	tm.Handle(DrawEvent{Player: "alice", Count: 1}, w)

	if got := len(tm.DrainPending()); got != 1 {
		t.Fatalf("pending = %d, want the trigger to fire once", got)
	}
}

func TestUnregisterFromSource(t *testing.T) {
	w := newStubWorld("alice")
	tm := NewTriggerManager()
	tm.Register(AbilityTrigger{
		SourceID:   "altar",
		Controller: "alice",
		Matcher:    kindTrigger{kind: EventSacrifice},
		Build:      buildNamed("altar-trigger"),
	})
	keep := tm.Register(AbilityTrigger{
		SourceID:   "shrine",
		Controller: "alice",
		Matcher:    kindTrigger{kind: EventSacrifice},
		Build:      buildNamed("shrine-trigger"),
	})

	tm.UnregisterFromSource("altar")
	tm.Handle(SacrificeEvent{Object: "bears", Player: "alice"}, w)

	pending := tm.DrainPending()
	if len(pending) != 1 || pending[0].ID != "shrine-trigger" {
		t.Fatalf("pending = %v", pending)
	}

	tm.Unregister(keep)
	tm.Handle(SacrificeEvent{Object: "ogre", Player: "alice"}, w)
	if tm.HasPending() {
		t.Fatal("all triggers removed, none should fire")
	}
}

func TestTriggerDefaultsIDAndKind(t *testing.T) {
	w := newStubWorld("alice")
	tm := NewTriggerManager()
	tm.Register(AbilityTrigger{
		Controller: "alice",
		Matcher:    kindTrigger{kind: EventDraw},
		Build: func(Event) StackItem {
			return StackItem{Description: "draw payoff"}
		},
	})

	tm.Handle(DrawEvent{Player: "alice", Count: 1}, w)
	pending := tm.DrainPending()
	if len(pending) != 1 {
		t.Fatalf("pending = %v", pending)
	}
	if pending[0].ID == "" {
		t.Fatal("a blank item id should be filled in")
	}
	if pending[0].Kind != StackItemKindTriggered {
		t.Fatalf("kind = %v, want triggered", pending[0].Kind)
	}
}
