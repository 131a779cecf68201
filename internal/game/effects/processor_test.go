package effects

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chiplis/maigus-sub007/internal/game/decisions"
	"github.com/Chiplis/maigus-sub007/internal/game/rules"
)

type namedEffect string

func (e namedEffect) Display() string { return string(e) }

func battlefieldWorld() *testWorld {
	w := newTestWorld("alice", "bob")
	w.add(&testObject{
		id:         "bears",
		controller: "alice",
		owner:      "alice",
		zone:       rules.ZoneBattlefield,
		cardTypes:  []rules.CardType{rules.CardTypeCreature},
	})
	w.add(&testObject{
		id:         "ogre",
		controller: "bob",
		owner:      "bob",
		zone:       rules.ZoneBattlefield,
		cardTypes:  []rules.CardType{rules.CardTypeCreature},
	})
	return w
}

func TestApplyNoEffectsPassesEventThrough(t *testing.T) {
	w := battlefieldWorld()
	p := NewProcessor(NewManager(nil), nil, nil)

	event := rules.DamageEvent{Source: "ogre", Target: rules.PlayerTarget("alice"), Amount: 3}
	outcome := p.Apply(w, event, nil, nil)

	require.NotNil(t, outcome.Event)
	assert.Equal(t, event, outcome.Event)
	assert.False(t, outcome.Prevented)
	assert.Empty(t, outcome.Applied)
}

func TestPreventStopsEvent(t *testing.T) {
	w := battlefieldWorld()
	m := NewManager(nil)
	id := m.AddEffect(CantGainLife("leyline", "bob"))
	p := NewProcessor(m, nil, nil)

	outcome := p.Apply(w, rules.LifeGainEvent{Player: "alice", Amount: 4}, nil, nil)

	assert.True(t, outcome.Prevented)
	assert.Nil(t, outcome.Event)
	assert.Equal(t, []EffectID{id}, outcome.Applied)
}

func TestModifySubtractsAndClamps(t *testing.T) {
	w := battlefieldWorld()
	m := NewManager(nil)
	m.AddEffect(PreventDamage("circle", "alice", 2))
	p := NewProcessor(m, nil, nil)

	outcome := p.Apply(w, rules.DamageEvent{Source: "ogre", Target: rules.PlayerTarget("alice"), Amount: 5}, nil, nil)
	require.NotNil(t, outcome.Event)
	assert.Equal(t, 3, outcome.Event.(rules.DamageEvent).Amount)

	outcome = p.Apply(w, rules.DamageEvent{Source: "ogre", Target: rules.PlayerTarget("alice"), Amount: 1}, nil, nil)
	require.NotNil(t, outcome.Event)
	assert.Equal(t, 0, outcome.Event.(rules.DamageEvent).Amount, "damage clamps at zero rather than healing")
}

func TestEachEffectAppliesOncePerEvent(t *testing.T) {
	w := battlefieldWorld()
	m := NewManager(nil)
	m.AddEffect(DoubleDamageFrom("furnace", "bob", "ogre"))
	p := NewProcessor(m, nil, nil)

	outcome := p.Apply(w, rules.DamageEvent{Source: "ogre", Target: rules.PlayerTarget("alice"), Amount: 3}, nil, nil)

	require.NotNil(t, outcome.Event)
	assert.Equal(t, 6, outcome.Event.(rules.DamageEvent).Amount, "doubling applies once, not forever")
	assert.Len(t, outcome.Applied, 1)
}

func TestTwoDoublersStack(t *testing.T) {
	w := battlefieldWorld()
	m := NewManager(nil)
	m.AddEffect(DoubleDamageFrom("furnace", "bob", "ogre"))
	m.AddEffect(DoubleDamageFrom("second-furnace", "bob", "ogre"))
	p := NewProcessor(m, nil, nil)

	outcome := p.Apply(w, rules.DamageEvent{Source: "ogre", Target: rules.PlayerTarget("alice"), Amount: 3}, nil, nil)

	require.NotNil(t, outcome.Event)
	assert.Equal(t, 12, outcome.Event.(rules.DamageEvent).Amount)
	assert.Len(t, outcome.Applied, 2)
}

func TestInsteadSubstitutesEffects(t *testing.T) {
	w := battlefieldWorld()
	m := NewManager(nil)
	m.AddEffect(WithMatcher("words-of-worship", "alice", rules.YouWouldDraw(),
		Instead(namedEffect("gain 5 life"))))
	p := NewProcessor(m, nil, nil)

	outcome := p.Apply(w, rules.DrawEvent{Player: "alice", Count: 1}, nil, nil)

	assert.Nil(t, outcome.Event)
	assert.False(t, outcome.Prevented)
	require.Len(t, outcome.Replaced, 1)
	assert.Equal(t, "gain 5 life", outcome.Replaced[0].Display())
}

func TestAdditionallyKeepsEventAndAppends(t *testing.T) {
	w := battlefieldWorld()
	m := NewManager(nil)
	m.AddEffect(WithMatcher("font", "alice", rules.YouWouldGainLife(),
		Additionally(namedEffect("scry 1"))))
	p := NewProcessor(m, nil, nil)

	outcome := p.Apply(w, rules.LifeGainEvent{Player: "alice", Amount: 2}, nil, nil)

	require.NotNil(t, outcome.Event)
	assert.Equal(t, 2, outcome.Event.(rules.LifeGainEvent).Amount)
	require.Len(t, outcome.Additional, 1)
	assert.Equal(t, "scry 1", outcome.Additional[0].Display())
}

func TestRedirectDamage(t *testing.T) {
	w := battlefieldWorld()
	m := NewManager(nil)
	m.AddEffect(WithMatcher("pariah", "alice", rules.DamageToYou(),
		RedirectTo(rules.ObjectTarget("bears"))))
	p := NewProcessor(m, nil, nil)

	outcome := p.Apply(w, rules.DamageEvent{Source: "ogre", Target: rules.PlayerTarget("alice"), Amount: 3}, nil, nil)

	require.NotNil(t, outcome.Event)
	damage := outcome.Event.(rules.DamageEvent)
	assert.Equal(t, rules.ObjectTarget("bears"), damage.Target)
	assert.Equal(t, 3, damage.Amount)
}

func TestExileInsteadOfDying(t *testing.T) {
	w := battlefieldWorld()
	m := NewManager(nil)
	m.AddEffect(ExileInsteadOfDying("bears", "alice"))
	p := NewProcessor(m, nil, nil)

	death := rules.ZoneChangeEvent{
		Objects: []string{"bears"},
		From:    rules.ZoneBattlefield,
		To:      rules.ZoneGraveyard,
	}
	outcome := p.Apply(w, death, nil, nil)

	require.NotNil(t, outcome.Event)
	assert.Equal(t, rules.ZoneExile, outcome.Event.(rules.ZoneChangeEvent).To)
}

func TestSelfReplacementAppliesBeforeBroadEffects(t *testing.T) {
	w := battlefieldWorld()
	w.add(&testObject{
		id:         "citadel",
		controller: "alice",
		zone:       rules.ZoneHand,
		cardTypes:  []rules.CardType{rules.CardTypeLand},
	})
	m := NewManager(nil)
	broad := m.AddEffect(EntersTapped("moon", "bob", rules.ObjectFilter{}))
	self := m.AddEffect(ThisEntersTapped("citadel", "alice"))
	p := NewProcessor(m, nil, nil)

	enter := rules.ZoneChangeEvent{
		Objects: []string{"citadel"},
		From:    rules.ZoneHand,
		To:      rules.ZoneBattlefield,
	}
	outcome := p.Apply(w, enter, nil, nil)

	require.NotNil(t, outcome.Event)
	assert.True(t, outcome.Event.(rules.ZoneChangeEvent).EnterTapped)
	// The entering card's own effect is considered first even though it
	// registered later.
	require.Len(t, outcome.Applied, 2)
	assert.Equal(t, self, outcome.Applied[0])
	assert.Equal(t, broad, outcome.Applied[1])
}

func TestUnregisteredSelfEffectsParticipate(t *testing.T) {
	w := battlefieldWorld()
	w.add(&testObject{
		id:         "wurm",
		controller: "alice",
		zone:       rules.ZoneStack,
		cardTypes:  []rules.CardType{rules.CardTypeCreature},
	})
	p := NewProcessor(NewManager(nil), nil, nil)

	selfEffects := []ReplacementEffect{EntersWithCounters("wurm", "alice", rules.CounterPlusOnePlusOne, 2)}
	enter := rules.ZoneChangeEvent{
		Objects: []string{"wurm"},
		From:    rules.ZoneStack,
		To:      rules.ZoneBattlefield,
	}
	outcome := p.Apply(w, enter, selfEffects, nil)

	require.NotNil(t, outcome.Event)
	counters := outcome.Event.(rules.ZoneChangeEvent).EnterCounters
	require.Len(t, counters, 1)
	assert.Equal(t, rules.CounterPlusOnePlusOne, counters[0].Type)
	assert.Equal(t, 2, counters[0].Count)
}

func TestChooserBreaksTiesInChoiceBand(t *testing.T) {
	w := battlefieldWorld()
	m := NewManager(nil)
	first := m.AddEffect(WithMatcher("a", "bob", rules.YouWouldGainLife(),
		Modify(EventModification{Kind: ModAdd, Value: 3})))
	second := m.AddEffect(WithMatcher("b", "bob", rules.YouWouldGainLife(),
		Modify(EventModification{Kind: ModMultiply, Value: 2})))

	var sawPlayer string
	chooser := func(player string, candidates []ReplacementEffect) EffectID {
		sawPlayer = player
		// Pick the newest effect, the opposite of the default.
		chosen := candidates[0].ID
		for _, c := range candidates[1:] {
			if c.ID > chosen {
				chosen = c.ID
			}
		}
		return chosen
	}
	p := NewProcessor(m, chooser, nil)

	outcome := p.Apply(w, rules.LifeGainEvent{Player: "bob", Amount: 4}, nil, nil)

	assert.Equal(t, "bob", sawPlayer, "the affected player chooses")
	require.NotNil(t, outcome.Event)
	// Multiply first, then add: 4*2+3. The default order would give
	// (4+3)*2 instead.
	assert.Equal(t, 11, outcome.Event.(rules.LifeGainEvent).Amount)
	assert.Equal(t, []EffectID{second, first}, outcome.Applied)
}

func TestDefaultChooserPicksLowestID(t *testing.T) {
	w := battlefieldWorld()
	m := NewManager(nil)
	first := m.AddEffect(WithMatcher("a", "bob", rules.YouWouldGainLife(),
		Modify(EventModification{Kind: ModAdd, Value: 3})))
	second := m.AddEffect(WithMatcher("b", "bob", rules.YouWouldGainLife(),
		Modify(EventModification{Kind: ModMultiply, Value: 2})))
	p := NewProcessor(m, nil, nil)

	outcome := p.Apply(w, rules.LifeGainEvent{Player: "bob", Amount: 4}, nil, nil)

	require.NotNil(t, outcome.Event)
	assert.Equal(t, 14, outcome.Event.(rules.LifeGainEvent).Amount)
	assert.Equal(t, []EffectID{first, second}, outcome.Applied)
}

func TestOneShotConsumedByApplication(t *testing.T) {
	w := battlefieldWorld()
	m := NewManager(nil)
	m.AddOneShotEffect(RegenerationShield("spell", "alice", "bears"))
	p := NewProcessor(m, nil, nil)

	destroy := rules.DestroyEvent{Object: "bears", Source: "bolt", CanRegenerate: true}

	outcome := p.Apply(w, destroy, nil, nil)
	assert.True(t, outcome.Prevented, "the shield eats the first destruction")

	outcome = p.Apply(w, destroy, nil, nil)
	assert.False(t, outcome.Prevented, "the shield is spent")
	require.NotNil(t, outcome.Event)
}

func TestUnpreventableDamageIgnoresPrevention(t *testing.T) {
	w := battlefieldWorld()
	m := NewManager(nil)
	m.AddOneShotEffect(PreventDamage("circle", "alice", 3))
	p := NewProcessor(m, nil, nil)

	outcome := p.Apply(w, rules.DamageEvent{
		Source:        "ogre",
		Target:        rules.PlayerTarget("alice"),
		Amount:        3,
		Unpreventable: true,
	}, nil, nil)

	require.NotNil(t, outcome.Event)
	assert.Equal(t, 3, outcome.Event.(rules.DamageEvent).Amount, "unpreventable damage is not reduced")
	assert.Empty(t, outcome.Applied)
	assert.Equal(t, 1, m.CountOneShotEffectsFromSource("circle"), "the shield is not consumed")

	// The untouched shield still prevents the next preventable damage.
	outcome = p.Apply(w, rules.DamageEvent{Source: "ogre", Target: rules.PlayerTarget("alice"), Amount: 3}, nil, nil)
	require.NotNil(t, outcome.Event)
	assert.Equal(t, 0, outcome.Event.(rules.DamageEvent).Amount)
	assert.Equal(t, 0, m.CountOneShotEffectsFromSource("circle"))
}

func TestIterationCapReturnsEventAsIs(t *testing.T) {
	w := battlefieldWorld()
	m := NewManager(nil)
	for i := 0; i < MaxIterations+20; i++ {
		m.AddEffect(WithMatcher(fmt.Sprintf("src-%d", i), "alice", rules.YouWouldGainLife(),
			Additionally(namedEffect("ping"))))
	}
	p := NewProcessor(m, nil, nil)

	outcome := p.Apply(w, rules.LifeGainEvent{Player: "alice", Amount: 1}, nil, nil)

	require.NotNil(t, outcome.Event, "the event proceeds when the cap is hit")
	assert.Len(t, outcome.Applied, MaxIterations)
}

func TestPayLifeOrEnterTapped(t *testing.T) {
	w := battlefieldWorld()
	w.add(&testObject{
		id:         "shockland",
		controller: "alice",
		zone:       rules.ZoneHand,
		cardTypes:  []rules.CardType{rules.CardTypeLand},
	})
	enter := rules.ZoneChangeEvent{
		Objects: []string{"shockland"},
		From:    rules.ZoneHand,
		To:      rules.ZoneBattlefield,
	}
	effect := WithMatcher("shockland", "alice", rules.ThisWouldEnterBattlefieldMatcher{},
		PayLifeOrEnterTapped(2, "Pay 2 life?")).SelfReplacing()

	m := NewManager(nil)
	m.AddEffect(effect)
	p := NewProcessor(m, nil, nil)

	outcome := p.Apply(w, enter, nil, decisions.NewAuto(decisions.Accept))
	require.NotNil(t, outcome.Event)
	assert.False(t, outcome.Event.(rules.ZoneChangeEvent).EnterTapped)
	require.NotNil(t, outcome.LifePaid)
	assert.Equal(t, "alice", outcome.LifePaid.Player)
	assert.Equal(t, 2, outcome.LifePaid.Amount)

	m2 := NewManager(nil)
	m2.AddEffect(effect)
	p2 := NewProcessor(m2, nil, nil)

	outcome = p2.Apply(w, enter, nil, decisions.NewAuto(decisions.Decline))
	require.NotNil(t, outcome.Event)
	assert.True(t, outcome.Event.(rules.ZoneChangeEvent).EnterTapped)
	assert.Nil(t, outcome.LifePaid)
}

func TestDiscardOrRedirect(t *testing.T) {
	buildWorld := func() *testWorld {
		w := battlefieldWorld()
		w.add(&testObject{
			id:         "gearhulk",
			controller: "alice",
			zone:       rules.ZoneStack,
			cardTypes:  []rules.CardType{rules.CardTypeCreature},
		})
		w.add(&testObject{
			id:        "forest",
			owner:     "alice",
			zone:      rules.ZoneHand,
			cardTypes: []rules.CardType{rules.CardTypeLand},
		})
		w.hands["alice"] = []string{"forest"}
		return w
	}
	enter := rules.ZoneChangeEvent{
		Objects: []string{"gearhulk"},
		From:    rules.ZoneStack,
		To:      rules.ZoneBattlefield,
	}
	makeEffect := func() ReplacementEffect {
		return WithMatcher("gearhulk", "alice", rules.ThisWouldEnterBattlefieldMatcher{},
			DiscardOrRedirect(rules.ObjectFilter{CardTypes: []rules.CardType{rules.CardTypeLand}},
				rules.ZoneGraveyard, "Discard a land?")).SelfReplacing()
	}

	// Accepting discards the land and the event proceeds.
	m := NewManager(nil)
	m.AddEffect(makeEffect())
	p := NewProcessor(m, nil, nil)
	outcome := p.Apply(buildWorld(), enter, nil, decisions.NewAuto(decisions.Accept))
	require.NotNil(t, outcome.Event)
	assert.Equal(t, rules.ZoneBattlefield, outcome.Event.(rules.ZoneChangeEvent).To)
	assert.Equal(t, "forest", outcome.DiscardedCard)

	// Declining redirects the entering object.
	m = NewManager(nil)
	m.AddEffect(makeEffect())
	p = NewProcessor(m, nil, nil)
	outcome = p.Apply(buildWorld(), enter, nil, decisions.NewAuto(decisions.Decline))
	require.NotNil(t, outcome.Event)
	assert.Equal(t, rules.ZoneGraveyard, outcome.Event.(rules.ZoneChangeEvent).To)
	assert.Empty(t, outcome.DiscardedCard)

	// With no matching card in hand the redirect is forced.
	m = NewManager(nil)
	m.AddEffect(makeEffect())
	p = NewProcessor(m, nil, nil)
	w := buildWorld()
	w.hands["alice"] = nil
	outcome = p.Apply(w, enter, nil, decisions.NewAuto(decisions.Accept))
	require.NotNil(t, outcome.Event)
	assert.Equal(t, rules.ZoneGraveyard, outcome.Event.(rules.ZoneChangeEvent).To)
}

func TestDiscardOrRedirectRecordsTheDiscardingPlayer(t *testing.T) {
	w := battlefieldWorld()
	w.add(&testObject{
		id:         "wurm",
		controller: "alice",
		zone:       rules.ZoneStack,
		cardTypes:  []rules.CardType{rules.CardTypeCreature},
	})
	w.add(&testObject{
		id:        "island",
		owner:     "bob",
		zone:      rules.ZoneHand,
		cardTypes: []rules.CardType{rules.CardTypeLand},
	})
	w.hands["bob"] = []string{"island"}

	// Bob's effect taxes every entering creature; the discard comes out
	// of bob's hand even though the event affects alice.
	m := NewManager(nil)
	m.AddEffect(WithMatcher("tax", "bob",
		rules.WouldEnterBattlefieldMatcher{Filter: rules.ObjectFilter{CardTypes: []rules.CardType{rules.CardTypeCreature}}},
		DiscardOrRedirect(rules.ObjectFilter{CardTypes: []rules.CardType{rules.CardTypeLand}},
			rules.ZoneGraveyard, "Discard a land?")))
	p := NewProcessor(m, nil, nil)

	enter := rules.ZoneChangeEvent{
		Objects: []string{"wurm"},
		From:    rules.ZoneStack,
		To:      rules.ZoneBattlefield,
	}
	outcome := p.Apply(w, enter, nil, decisions.NewAuto(decisions.Accept))

	require.NotNil(t, outcome.Event)
	assert.Equal(t, "island", outcome.DiscardedCard)
	assert.Equal(t, "bob", outcome.DiscardedBy)
	assert.Equal(t, "alice", enter.AffectedPlayer(w), "the affected player did not discard")
}

func TestChooseDestinationOnDiscard(t *testing.T) {
	w := battlefieldWorld()
	m := NewManager(nil)
	m.AddEffect(DiscardToLibraryTop("library-of-leng", "alice"))
	p := NewProcessor(m, nil, nil)

	effectDiscard := rules.DiscardEvent{
		Player:      "alice",
		Card:        "forest",
		FromEffect:  true,
		Destination: rules.ZoneGraveyard,
	}

	outcome := p.Apply(w, effectDiscard, nil, decisions.NewAuto(decisions.Accept))
	require.NotNil(t, outcome.Event)
	assert.Equal(t, rules.ZoneLibrary, outcome.Event.(rules.DiscardEvent).Destination)

	outcome = p.Apply(w, effectDiscard, nil, decisions.NewAuto(decisions.Decline))
	require.NotNil(t, outcome.Event)
	assert.Equal(t, rules.ZoneGraveyard, outcome.Event.(rules.DiscardEvent).Destination)

	// Cleanup discards are game-rule discards; the effect stays out.
	ruleDiscard := effectDiscard
	ruleDiscard.FromEffect = false
	outcome = p.Apply(w, ruleDiscard, nil, decisions.NewAuto(decisions.Accept))
	require.NotNil(t, outcome.Event)
	assert.Equal(t, rules.ZoneGraveyard, outcome.Event.(rules.DiscardEvent).Destination)
}

func TestSkipDrawReplacement(t *testing.T) {
	w := battlefieldWorld()
	m := NewManager(nil)
	m.AddEffect(SkipDraw("chains", "bob", rules.PlayerAny))
	p := NewProcessor(m, nil, nil)

	outcome := p.Apply(w, rules.DrawEvent{Player: "alice", Count: 1}, nil, nil)

	assert.True(t, outcome.Prevented)
	assert.Nil(t, outcome.Event)
}
