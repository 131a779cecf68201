package rules

import "fmt"

// WouldPutCountersMatcher matches counter placement on permanents
// satisfying the filter. CounterType "" matches any counter type.
type WouldPutCountersMatcher struct {
	Filter      ObjectFilter
	CounterType CounterType
}

// PlusOneOnCreature matches +1/+1 counters placed on any creature.
func PlusOneOnCreature() WouldPutCountersMatcher {
	return WouldPutCountersMatcher{Filter: CreatureFilter(), CounterType: CounterPlusOnePlusOne}
}

func (m WouldPutCountersMatcher) MatchesEvent(event Event, ctx EventContext) bool {
	put, ok := event.(PutCountersEvent)
	if !ok {
		return false
	}
	if m.CounterType != "" && put.Counter != m.CounterType {
		return false
	}
	obj, ok := ctx.World.Object(put.Object)
	if !ok {
		return false
	}
	return m.Filter.Matches(obj, ctx.FilterCtx)
}

func (m WouldPutCountersMatcher) Priority() ReplacementPriority { return PriorityOther }

func (m WouldPutCountersMatcher) Display() string {
	if m.CounterType != "" {
		return fmt.Sprintf("When %s counters would be put on a permanent", m.CounterType)
	}
	return "When counters would be put on a permanent"
}

func (m WouldPutCountersMatcher) CloneMatcher() ReplacementMatcher { return m }

// WouldRemoveCountersMatcher matches counter removal from permanents
// satisfying the filter. CounterType "" matches any counter type.
type WouldRemoveCountersMatcher struct {
	Filter      ObjectFilter
	CounterType CounterType
}

func (m WouldRemoveCountersMatcher) MatchesEvent(event Event, ctx EventContext) bool {
	remove, ok := event.(RemoveCountersEvent)
	if !ok {
		return false
	}
	if m.CounterType != "" && remove.Counter != m.CounterType {
		return false
	}
	obj, ok := ctx.World.Object(remove.Object)
	if !ok {
		return false
	}
	return m.Filter.Matches(obj, ctx.FilterCtx)
}

func (m WouldRemoveCountersMatcher) Priority() ReplacementPriority { return PriorityOther }

func (m WouldRemoveCountersMatcher) Display() string {
	if m.CounterType != "" {
		return fmt.Sprintf("When %s counters would be removed from a permanent", m.CounterType)
	}
	return "When counters would be removed from a permanent"
}

func (m WouldRemoveCountersMatcher) CloneMatcher() ReplacementMatcher { return m }
