package rules

// WouldGainLifeMatcher matches life gain events for players satisfying
// the filter.
type WouldGainLifeMatcher struct {
	PlayerFilter PlayerFilter
}

// YouWouldGainLife matches when the effect's controller would gain
// life.
func YouWouldGainLife() WouldGainLifeMatcher {
	return WouldGainLifeMatcher{PlayerFilter: PlayerYou}
}

// OpponentWouldGainLife matches when an opponent would gain life.
func OpponentWouldGainLife() WouldGainLifeMatcher {
	return WouldGainLifeMatcher{PlayerFilter: PlayerOpponent}
}

func (m WouldGainLifeMatcher) MatchesEvent(event Event, ctx EventContext) bool {
	gain, ok := event.(LifeGainEvent)
	if !ok {
		return false
	}
	return m.PlayerFilter.Matches(gain.Player, ctx.FilterCtx)
}

func (m WouldGainLifeMatcher) Priority() ReplacementPriority { return PriorityOther }

func (m WouldGainLifeMatcher) Display() string {
	switch m.PlayerFilter {
	case PlayerYou:
		return "When you would gain life"
	case PlayerOpponent:
		return "When an opponent would gain life"
	default:
		return "When a player would gain life"
	}
}

func (m WouldGainLifeMatcher) CloneMatcher() ReplacementMatcher { return m }

func (m WouldGainLifeMatcher) CloneTrigger() TriggerMatcher { return m }

// WouldLoseLifeMatcher matches life loss events for players satisfying
// the filter.
type WouldLoseLifeMatcher struct {
	PlayerFilter PlayerFilter
}

// YouWouldLoseLife matches when the effect's controller would lose
// life.
func YouWouldLoseLife() WouldLoseLifeMatcher {
	return WouldLoseLifeMatcher{PlayerFilter: PlayerYou}
}

func (m WouldLoseLifeMatcher) MatchesEvent(event Event, ctx EventContext) bool {
	loss, ok := event.(LifeLossEvent)
	if !ok {
		return false
	}
	return m.PlayerFilter.Matches(loss.Player, ctx.FilterCtx)
}

func (m WouldLoseLifeMatcher) Priority() ReplacementPriority { return PriorityOther }

func (m WouldLoseLifeMatcher) Display() string {
	switch m.PlayerFilter {
	case PlayerYou:
		return "When you would lose life"
	case PlayerOpponent:
		return "When an opponent would lose life"
	default:
		return "When a player would lose life"
	}
}

func (m WouldLoseLifeMatcher) CloneMatcher() ReplacementMatcher { return m }
