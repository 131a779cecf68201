package rules

import (
	"sync"

	"github.com/google/uuid"
)

// AbilityTrigger reacts to events via a TriggerMatcher and produces a
// stack item when the matcher fires.
type AbilityTrigger struct {
	ID         string
	SourceID   string
	Controller string
	Matcher    TriggerMatcher
	Build      func(Event) StackItem
	Once       bool
}

// TriggerManager stores triggers in registration order and collects
// the stack items fired by an event. Triggers observed during one
// event's resolution are only placed on the stack at the next
// priority-granting juncture; the manager returns them, the turn loop
// queues them. One event firing several triggers queues them in
// registration order, so replays are deterministic.
type TriggerManager struct {
	mu       sync.Mutex
	triggers []AbilityTrigger
	pending  []StackItem
}

// NewTriggerManager creates an empty trigger manager.
func NewTriggerManager() *TriggerManager {
	return &TriggerManager{}
}

// Register adds a new trigger to the manager. Registering an ID that is
// already present replaces the trigger in place.
func (tm *TriggerManager) Register(trigger AbilityTrigger) string {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if trigger.ID == "" {
		trigger.ID = uuid.NewString()
	}
	for i, existing := range tm.triggers {
		if existing.ID == trigger.ID {
			tm.triggers[i] = trigger
			return trigger.ID
		}
	}
	tm.triggers = append(tm.triggers, trigger)
	return trigger.ID
}

// Unregister removes a trigger by ID.
func (tm *TriggerManager) Unregister(id string) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.remove(func(t AbilityTrigger) bool { return t.ID == id })
}

// UnregisterFromSource removes all triggers registered by a source
// object.
func (tm *TriggerManager) UnregisterFromSource(sourceID string) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.remove(func(t AbilityTrigger) bool { return t.SourceID == sourceID })
}

// remove drops matching triggers, keeping the rest in order. Callers
// hold the lock.
func (tm *TriggerManager) remove(match func(AbilityTrigger) bool) {
	kept := tm.triggers[:0]
	for _, trigger := range tm.triggers {
		if !match(trigger) {
			kept = append(kept, trigger)
		}
	}
	tm.triggers = kept
}

// Handle evaluates an event against all registered triggers and queues
// the stack items they produce. The event must be the final, fully
// replaced shape; triggers never see pre-replacement events.
func (tm *TriggerManager) Handle(event Event, w World) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	fired := make(map[string]bool)
	for _, trigger := range tm.triggers {
		if trigger.Matcher == nil || trigger.Build == nil {
			continue
		}
		ctx := ContextForReplacementEffect(trigger.Controller, trigger.SourceID, w)
		if !trigger.Matcher.MatchesEvent(event, ctx) {
			continue
		}

		item := trigger.Build(event)
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		if item.Kind == "" {
			item.Kind = StackItemKindTriggered
		}
		tm.pending = append(tm.pending, item)
		fired[trigger.ID] = true
	}

	tm.remove(func(t AbilityTrigger) bool { return t.Once && fired[t.ID] })
}

// DrainPending returns and clears the queued trigger stack items.
// Called at priority-granting junctures; cross-player ordering of the
// returned items is the caller's concern.
func (tm *TriggerManager) DrainPending() []StackItem {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	pending := tm.pending
	tm.pending = nil
	return pending
}

// HasPending reports whether fired triggers are waiting to go on the
// stack.
func (tm *TriggerManager) HasPending() bool {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return len(tm.pending) > 0
}
