package rules

// DamageToPlayerMatcher matches damage events whose target is a player
// satisfying the filter.
type DamageToPlayerMatcher struct {
	PlayerFilter PlayerFilter
}

// DamageToYou matches damage dealt to the effect's controller.
func DamageToYou() DamageToPlayerMatcher {
	return DamageToPlayerMatcher{PlayerFilter: PlayerYou}
}

// DamageToAnyPlayer matches damage dealt to any player.
func DamageToAnyPlayer() DamageToPlayerMatcher {
	return DamageToPlayerMatcher{PlayerFilter: PlayerAny}
}

// DamageToOpponent matches damage dealt to an opponent of the effect's
// controller.
func DamageToOpponent() DamageToPlayerMatcher {
	return DamageToPlayerMatcher{PlayerFilter: PlayerOpponent}
}

func (m DamageToPlayerMatcher) MatchesEvent(event Event, ctx EventContext) bool {
	damage, ok := event.(DamageEvent)
	if !ok || damage.Target.Kind != TargetPlayer {
		return false
	}
	return m.PlayerFilter.Matches(damage.Target.ID, ctx.FilterCtx)
}

func (m DamageToPlayerMatcher) Priority() ReplacementPriority { return PriorityOther }

func (m DamageToPlayerMatcher) Display() string {
	switch m.PlayerFilter {
	case PlayerYou:
		return "When damage would be dealt to you"
	case PlayerOpponent:
		return "When damage would be dealt to an opponent"
	default:
		return "When damage would be dealt to a player"
	}
}

func (m DamageToPlayerMatcher) CloneMatcher() ReplacementMatcher { return m }

// DamageToObjectMatcher matches damage events whose target is an object
// satisfying the filter.
type DamageToObjectMatcher struct {
	Filter ObjectFilter
}

// DamageToCreature matches damage dealt to any creature.
func DamageToCreature() DamageToObjectMatcher {
	return DamageToObjectMatcher{Filter: CreatureFilter()}
}

// DamageToPermanent matches damage dealt to any permanent.
func DamageToPermanent() DamageToObjectMatcher {
	return DamageToObjectMatcher{Filter: PermanentFilter()}
}

func (m DamageToObjectMatcher) MatchesEvent(event Event, ctx EventContext) bool {
	damage, ok := event.(DamageEvent)
	if !ok || damage.Target.Kind != TargetObject {
		return false
	}
	obj, ok := ctx.World.Object(damage.Target.ID)
	if !ok {
		return false
	}
	return m.Filter.Matches(obj, ctx.FilterCtx)
}

func (m DamageToObjectMatcher) Priority() ReplacementPriority { return PriorityOther }

func (m DamageToObjectMatcher) Display() string {
	return "When damage would be dealt to a permanent"
}

func (m DamageToObjectMatcher) CloneMatcher() ReplacementMatcher { return m }

// CombatDamageMatcher matches any combat damage event.
type CombatDamageMatcher struct{}

func (CombatDamageMatcher) MatchesEvent(event Event, _ EventContext) bool {
	damage, ok := event.(DamageEvent)
	return ok && damage.IsCombat
}

func (CombatDamageMatcher) Priority() ReplacementPriority { return PriorityOther }
func (CombatDamageMatcher) Display() string               { return "When combat damage would be dealt" }
func (m CombatDamageMatcher) CloneMatcher() ReplacementMatcher { return m }

// NoncombatDamageMatcher matches any noncombat damage event.
type NoncombatDamageMatcher struct{}

func (NoncombatDamageMatcher) MatchesEvent(event Event, _ EventContext) bool {
	damage, ok := event.(DamageEvent)
	return ok && !damage.IsCombat
}

func (NoncombatDamageMatcher) Priority() ReplacementPriority { return PriorityOther }

func (NoncombatDamageMatcher) Display() string {
	return "When noncombat damage would be dealt"
}

func (m NoncombatDamageMatcher) CloneMatcher() ReplacementMatcher { return m }

// DamageFromSourceMatcher matches damage dealt by a specific source
// object.
type DamageFromSourceMatcher struct {
	Source string
}

func (m DamageFromSourceMatcher) MatchesEvent(event Event, _ EventContext) bool {
	damage, ok := event.(DamageEvent)
	return ok && damage.Source == m.Source
}

func (m DamageFromSourceMatcher) Priority() ReplacementPriority { return PriorityOther }

func (m DamageFromSourceMatcher) Display() string {
	return "When the chosen source would deal damage"
}

func (m DamageFromSourceMatcher) CloneMatcher() ReplacementMatcher { return m }

// DamageToSelfMatcher matches damage dealt to the matcher's own source
// object. A self-replacement shape.
type DamageToSelfMatcher struct {
	Object string
}

func (m DamageToSelfMatcher) MatchesEvent(event Event, _ EventContext) bool {
	damage, ok := event.(DamageEvent)
	return ok && damage.Target.Kind == TargetObject && damage.Target.ID == m.Object
}

func (m DamageToSelfMatcher) Priority() ReplacementPriority { return PrioritySelfReplacement }

func (m DamageToSelfMatcher) Display() string {
	return "When damage would be dealt to this permanent"
}

func (m DamageToSelfMatcher) CloneMatcher() ReplacementMatcher { return m }
