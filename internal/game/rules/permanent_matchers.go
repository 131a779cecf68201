package rules

// WouldBecomeTappedMatcher matches tap events on permanents satisfying
// the filter.
type WouldBecomeTappedMatcher struct {
	Filter ObjectFilter
}

func (m WouldBecomeTappedMatcher) MatchesEvent(event Event, ctx EventContext) bool {
	tap, ok := event.(TapEvent)
	if !ok {
		return false
	}
	obj, ok := ctx.World.Object(tap.Object)
	if !ok {
		return false
	}
	return m.Filter.Matches(obj, ctx.FilterCtx)
}

func (m WouldBecomeTappedMatcher) Priority() ReplacementPriority { return PriorityOther }

func (m WouldBecomeTappedMatcher) Display() string {
	return "When a permanent would become tapped"
}

func (m WouldBecomeTappedMatcher) CloneMatcher() ReplacementMatcher { return m }

// WouldBecomeUntappedMatcher matches untap events on permanents
// satisfying the filter.
type WouldBecomeUntappedMatcher struct {
	Filter ObjectFilter
}

func (m WouldBecomeUntappedMatcher) MatchesEvent(event Event, ctx EventContext) bool {
	untap, ok := event.(UntapEvent)
	if !ok {
		return false
	}
	obj, ok := ctx.World.Object(untap.Object)
	if !ok {
		return false
	}
	return m.Filter.Matches(obj, ctx.FilterCtx)
}

func (m WouldBecomeUntappedMatcher) Priority() ReplacementPriority { return PriorityOther }

func (m WouldBecomeUntappedMatcher) Display() string {
	return "When a permanent would become untapped"
}

func (m WouldBecomeUntappedMatcher) CloneMatcher() ReplacementMatcher { return m }

// WouldBeDestroyedMatcher matches destroy events on permanents
// satisfying the filter.
type WouldBeDestroyedMatcher struct {
	Filter ObjectFilter
}

// CreatureWouldBeDestroyed matches any creature being destroyed.
func CreatureWouldBeDestroyed() WouldBeDestroyedMatcher {
	return WouldBeDestroyedMatcher{Filter: CreatureFilter()}
}

func (m WouldBeDestroyedMatcher) MatchesEvent(event Event, ctx EventContext) bool {
	destroy, ok := event.(DestroyEvent)
	if !ok {
		return false
	}
	obj, ok := ctx.World.Object(destroy.Object)
	if !ok {
		return false
	}
	return m.Filter.Matches(obj, ctx.FilterCtx)
}

func (m WouldBeDestroyedMatcher) Priority() ReplacementPriority { return PriorityOther }

func (m WouldBeDestroyedMatcher) Display() string {
	return "When a permanent would be destroyed"
}

func (m WouldBeDestroyedMatcher) CloneMatcher() ReplacementMatcher { return m }

// ThisWouldBeDestroyedMatcher matches destruction of the matcher's own
// source. A self-replacement shape.
type ThisWouldBeDestroyedMatcher struct{}

func (ThisWouldBeDestroyedMatcher) MatchesEvent(event Event, ctx EventContext) bool {
	destroy, ok := event.(DestroyEvent)
	return ok && ctx.Source != "" && ctx.Source == destroy.Object
}

func (ThisWouldBeDestroyedMatcher) Priority() ReplacementPriority {
	return PrioritySelfReplacement
}

func (ThisWouldBeDestroyedMatcher) Display() string {
	return "When this permanent would be destroyed"
}

func (m ThisWouldBeDestroyedMatcher) CloneMatcher() ReplacementMatcher { return m }

// WouldBeSacrificedMatcher matches sacrifice events on permanents
// satisfying the filter.
type WouldBeSacrificedMatcher struct {
	Filter ObjectFilter
}

func (m WouldBeSacrificedMatcher) MatchesEvent(event Event, ctx EventContext) bool {
	sac, ok := event.(SacrificeEvent)
	if !ok {
		return false
	}
	obj, ok := ctx.World.Object(sac.Object)
	if !ok {
		return false
	}
	return m.Filter.Matches(obj, ctx.FilterCtx)
}

func (m WouldBeSacrificedMatcher) Priority() ReplacementPriority { return PriorityOther }

func (m WouldBeSacrificedMatcher) Display() string {
	return "When a permanent would be sacrificed"
}

func (m WouldBeSacrificedMatcher) CloneMatcher() ReplacementMatcher { return m }

// RegenerationShieldMatcher matches destruction of one protected
// creature. Unlike ThisWouldBeDestroyedMatcher the protected object is
// tracked explicitly, so the shield survives the resolving spell that
// created it leaving the stack. Registered as a one-shot effect.
type RegenerationShieldMatcher struct {
	Protected string
}

func (m RegenerationShieldMatcher) MatchesEvent(event Event, ctx EventContext) bool {
	destroy, ok := event.(DestroyEvent)
	if !ok || destroy.Object != m.Protected || !destroy.CanRegenerate {
		return false
	}
	obj, ok := ctx.World.Object(destroy.Object)
	if !ok {
		return false
	}
	return obj.Zone() == ZoneBattlefield && hasAnyCardType(obj, []CardType{CardTypeCreature})
}

func (m RegenerationShieldMatcher) Priority() ReplacementPriority {
	return PrioritySelfReplacement
}

func (m RegenerationShieldMatcher) Display() string { return "Regeneration shield" }

func (m RegenerationShieldMatcher) CloneMatcher() ReplacementMatcher { return m }
