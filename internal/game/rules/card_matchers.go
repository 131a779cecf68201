package rules

// WouldDrawCardMatcher matches draw events for players satisfying the
// filter.
type WouldDrawCardMatcher struct {
	PlayerFilter PlayerFilter
}

// YouWouldDraw matches when the effect's controller would draw.
func YouWouldDraw() WouldDrawCardMatcher {
	return WouldDrawCardMatcher{PlayerFilter: PlayerYou}
}

// AnyPlayerWouldDraw matches when any player would draw.
func AnyPlayerWouldDraw() WouldDrawCardMatcher {
	return WouldDrawCardMatcher{PlayerFilter: PlayerAny}
}

func (m WouldDrawCardMatcher) MatchesEvent(event Event, ctx EventContext) bool {
	draw, ok := event.(DrawEvent)
	if !ok {
		return false
	}
	return m.PlayerFilter.Matches(draw.Player, ctx.FilterCtx)
}

func (m WouldDrawCardMatcher) Priority() ReplacementPriority { return PriorityOther }

func (m WouldDrawCardMatcher) Display() string {
	switch m.PlayerFilter {
	case PlayerYou:
		return "When you would draw a card"
	case PlayerOpponent:
		return "When an opponent would draw a card"
	default:
		return "When a player would draw a card"
	}
}

func (m WouldDrawCardMatcher) CloneMatcher() ReplacementMatcher { return m }

// WouldDrawFirstCardMatcher matches a player's first draw each turn,
// the miracle and dream-halls style window.
type WouldDrawFirstCardMatcher struct {
	PlayerFilter PlayerFilter
}

func (m WouldDrawFirstCardMatcher) MatchesEvent(event Event, ctx EventContext) bool {
	draw, ok := event.(DrawEvent)
	if !ok || !draw.FirstOfTurn {
		return false
	}
	return m.PlayerFilter.Matches(draw.Player, ctx.FilterCtx)
}

func (m WouldDrawFirstCardMatcher) Priority() ReplacementPriority { return PriorityOther }

func (m WouldDrawFirstCardMatcher) Display() string {
	return "When you would draw your first card each turn"
}

func (m WouldDrawFirstCardMatcher) CloneMatcher() ReplacementMatcher { return m }

// WouldDiscardMatcher matches discard events for players satisfying the
// filter, optionally restricted to effect-caused discards.
type WouldDiscardMatcher struct {
	PlayerFilter PlayerFilter

	// EffectOnly restricts the match to discards caused by an effect,
	// excluding game-rule discards such as cleanup.
	EffectOnly bool
}

// YouWouldDiscard matches when the effect's controller would discard
// for any reason.
func YouWouldDiscard() WouldDiscardMatcher {
	return WouldDiscardMatcher{PlayerFilter: PlayerYou}
}

// YouWouldDiscardFromEffect matches when an effect causes the
// controller to discard.
func YouWouldDiscardFromEffect() WouldDiscardMatcher {
	return WouldDiscardMatcher{PlayerFilter: PlayerYou, EffectOnly: true}
}

func (m WouldDiscardMatcher) MatchesEvent(event Event, ctx EventContext) bool {
	discard, ok := event.(DiscardEvent)
	if !ok {
		return false
	}
	if m.EffectOnly && !discard.FromEffect {
		return false
	}
	return m.PlayerFilter.Matches(discard.Player, ctx.FilterCtx)
}

func (m WouldDiscardMatcher) Priority() ReplacementPriority { return PriorityOther }

func (m WouldDiscardMatcher) Display() string {
	switch {
	case m.PlayerFilter == PlayerYou && m.EffectOnly:
		return "When an effect causes you to discard a card"
	case m.PlayerFilter == PlayerYou:
		return "When you would discard a card"
	case m.PlayerFilter == PlayerOpponent:
		return "When an opponent would discard a card"
	default:
		return "When a player would discard a card"
	}
}

func (m WouldDiscardMatcher) CloneMatcher() ReplacementMatcher { return m }
