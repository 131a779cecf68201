package rules

// enterSubject extracts the entering object from either event shape
// that can represent "would enter the battlefield".
func enterSubject(event Event) (string, bool) {
	switch ev := event.(type) {
	case ZoneChangeEvent:
		if ev.To != ZoneBattlefield || len(ev.Objects) == 0 {
			return "", false
		}
		return ev.Objects[0], true
	case EnterBattlefieldEvent:
		return ev.Object, true
	default:
		return "", false
	}
}

// WouldEnterBattlefieldMatcher matches when an object satisfying the
// filter would enter the battlefield.
type WouldEnterBattlefieldMatcher struct {
	Filter ObjectFilter
}

// AnyWouldEnterBattlefield matches any permanent entering.
func AnyWouldEnterBattlefield() WouldEnterBattlefieldMatcher {
	return WouldEnterBattlefieldMatcher{Filter: ObjectFilter{}}
}

func (m WouldEnterBattlefieldMatcher) MatchesEvent(event Event, ctx EventContext) bool {
	id, ok := enterSubject(event)
	if !ok {
		return false
	}
	obj, ok := ctx.World.Object(id)
	if !ok {
		return false
	}
	// The object has not moved yet, so skip the zone constraint.
	f := m.Filter
	f.Zone = ZoneNone
	return f.Matches(obj, ctx.FilterCtx)
}

func (m WouldEnterBattlefieldMatcher) Priority() ReplacementPriority { return PriorityOther }

func (m WouldEnterBattlefieldMatcher) Display() string {
	return "When a permanent would enter the battlefield"
}

func (m WouldEnterBattlefieldMatcher) CloneMatcher() ReplacementMatcher { return m }

// ThisWouldEnterBattlefieldMatcher matches when the matcher's own
// source would enter the battlefield. A self-replacement shape.
type ThisWouldEnterBattlefieldMatcher struct{}

func (ThisWouldEnterBattlefieldMatcher) MatchesEvent(event Event, ctx EventContext) bool {
	id, ok := enterSubject(event)
	return ok && ctx.Source != "" && ctx.Source == id
}

func (ThisWouldEnterBattlefieldMatcher) Priority() ReplacementPriority {
	return PrioritySelfReplacement
}

func (ThisWouldEnterBattlefieldMatcher) Display() string {
	return "When this permanent would enter the battlefield"
}

func (m ThisWouldEnterBattlefieldMatcher) CloneMatcher() ReplacementMatcher { return m }

// WouldDieMatcher matches when an object satisfying the filter would
// move from the battlefield to a graveyard.
type WouldDieMatcher struct {
	Filter ObjectFilter
}

// CreatureWouldDie matches any creature dying.
func CreatureWouldDie() WouldDieMatcher {
	return WouldDieMatcher{Filter: CreatureFilter()}
}

func (m WouldDieMatcher) MatchesEvent(event Event, ctx EventContext) bool {
	zc, ok := event.(ZoneChangeEvent)
	if !ok || !zc.IsDeath() || len(zc.Objects) == 0 {
		return false
	}
	obj, ok := ctx.World.Object(zc.Objects[0])
	if !ok {
		return false
	}
	return m.Filter.Matches(obj, ctx.FilterCtx)
}

func (m WouldDieMatcher) Priority() ReplacementPriority { return PriorityOther }
func (m WouldDieMatcher) Display() string               { return "When a creature would die" }
func (m WouldDieMatcher) CloneMatcher() ReplacementMatcher { return m }

// ThisWouldDieMatcher matches when the matcher's own source would die.
// A self-replacement shape.
type ThisWouldDieMatcher struct{}

func (ThisWouldDieMatcher) MatchesEvent(event Event, ctx EventContext) bool {
	zc, ok := event.(ZoneChangeEvent)
	if !ok || !zc.IsDeath() || len(zc.Objects) == 0 {
		return false
	}
	return ctx.Source != "" && ctx.Source == zc.Objects[0]
}

func (ThisWouldDieMatcher) Priority() ReplacementPriority { return PrioritySelfReplacement }
func (ThisWouldDieMatcher) Display() string               { return "When this permanent would die" }
func (m ThisWouldDieMatcher) CloneMatcher() ReplacementMatcher { return m }

// WouldGoToGraveyardMatcher matches when an object satisfying the
// filter would go to a graveyard from any zone.
type WouldGoToGraveyardMatcher struct {
	Filter ObjectFilter
}

func (m WouldGoToGraveyardMatcher) MatchesEvent(event Event, ctx EventContext) bool {
	zc, ok := event.(ZoneChangeEvent)
	if !ok || zc.To != ZoneGraveyard || len(zc.Objects) == 0 {
		return false
	}
	obj, ok := ctx.World.Object(zc.Objects[0])
	if !ok {
		return false
	}
	f := m.Filter
	f.Zone = ZoneNone
	return f.Matches(obj, ctx.FilterCtx)
}

func (m WouldGoToGraveyardMatcher) Priority() ReplacementPriority { return PriorityOther }

func (m WouldGoToGraveyardMatcher) Display() string {
	return "When a card would be put into a graveyard"
}

func (m WouldGoToGraveyardMatcher) CloneMatcher() ReplacementMatcher { return m }

// ThisWouldGoToGraveyardMatcher matches when the matcher's own source
// would go to a graveyard from any zone. A self-replacement shape.
type ThisWouldGoToGraveyardMatcher struct{}

func (ThisWouldGoToGraveyardMatcher) MatchesEvent(event Event, ctx EventContext) bool {
	zc, ok := event.(ZoneChangeEvent)
	if !ok || zc.To != ZoneGraveyard || len(zc.Objects) == 0 {
		return false
	}
	return ctx.Source != "" && ctx.Source == zc.Objects[0]
}

func (ThisWouldGoToGraveyardMatcher) Priority() ReplacementPriority {
	return PrioritySelfReplacement
}

func (ThisWouldGoToGraveyardMatcher) Display() string {
	return "When this card would be put into a graveyard"
}

func (m ThisWouldGoToGraveyardMatcher) CloneMatcher() ReplacementMatcher { return m }

// WouldBeExiledMatcher matches when an object satisfying the filter
// would be exiled.
type WouldBeExiledMatcher struct {
	Filter ObjectFilter
}

func (m WouldBeExiledMatcher) MatchesEvent(event Event, ctx EventContext) bool {
	zc, ok := event.(ZoneChangeEvent)
	if !ok || zc.To != ZoneExile || len(zc.Objects) == 0 {
		return false
	}
	obj, ok := ctx.World.Object(zc.Objects[0])
	if !ok {
		return false
	}
	f := m.Filter
	f.Zone = ZoneNone
	return f.Matches(obj, ctx.FilterCtx)
}

func (m WouldBeExiledMatcher) Priority() ReplacementPriority { return PriorityOther }
func (m WouldBeExiledMatcher) Display() string               { return "When a card would be exiled" }
func (m WouldBeExiledMatcher) CloneMatcher() ReplacementMatcher { return m }

// WouldLeaveBattlefieldMatcher matches when an object satisfying the
// filter would leave the battlefield for any zone.
type WouldLeaveBattlefieldMatcher struct {
	Filter ObjectFilter
}

func (m WouldLeaveBattlefieldMatcher) MatchesEvent(event Event, ctx EventContext) bool {
	zc, ok := event.(ZoneChangeEvent)
	if !ok || zc.From != ZoneBattlefield || len(zc.Objects) == 0 {
		return false
	}
	obj, ok := ctx.World.Object(zc.Objects[0])
	if !ok {
		return false
	}
	return m.Filter.Matches(obj, ctx.FilterCtx)
}

func (m WouldLeaveBattlefieldMatcher) Priority() ReplacementPriority { return PriorityOther }

func (m WouldLeaveBattlefieldMatcher) Display() string {
	return "When a permanent would leave the battlefield"
}

func (m WouldLeaveBattlefieldMatcher) CloneMatcher() ReplacementMatcher { return m }
