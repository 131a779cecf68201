package grants

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chiplis/maigus-sub007/internal/game/rules"
)

type fakeObject struct {
	id         string
	controller string
	owner      string
	zone       rules.Zone
	cardTypes  []rules.CardType
	subtypes   []string
	abilities  []rules.StaticAbility
}

func (o *fakeObject) ID() string                  { return o.id }
func (o *fakeObject) Controller() string          { return o.controller }
func (o *fakeObject) Owner() string               { return o.owner }
func (o *fakeObject) Zone() rules.Zone            { return o.zone }
func (o *fakeObject) IsTapped() bool              { return false }
func (o *fakeObject) HasSummoningSickness() bool  { return false }
func (o *fakeObject) CardTypes() []rules.CardType { return o.cardTypes }
func (o *fakeObject) Subtypes() []string          { return o.subtypes }
func (o *fakeObject) Supertypes() []string        { return nil }
func (o *fakeObject) Abilities() []rules.StaticAbility {
	return o.abilities
}

type fakeWorld struct {
	objects    map[string]*fakeObject
	turnOrder  []string
	turn       rules.TurnState
	stackEmpty bool
}

func newFakeWorld(players ...string) *fakeWorld {
	w := &fakeWorld{
		objects:    map[string]*fakeObject{},
		turnOrder:  players,
		stackEmpty: true,
	}
	if len(players) > 0 {
		w.turn = *rules.NewTurnState(players[0])
	}
	return w
}

func (w *fakeWorld) addObject(o *fakeObject) { w.objects[o.id] = o }

func (w *fakeWorld) Object(id string) (rules.Object, bool) {
	o, ok := w.objects[id]
	return o, ok
}

func (w *fakeWorld) PlayerInGame(id string) bool {
	for _, p := range w.turnOrder {
		if p == id {
			return true
		}
	}
	return false
}

func (w *fakeWorld) PlayersInGame() int { return len(w.turnOrder) }

func (w *fakeWorld) TurnOrder() []string { return w.turnOrder }

func (w *fakeWorld) Battlefield() []string {
	var out []string
	for id, o := range w.objects {
		if o.zone == rules.ZoneBattlefield {
			out = append(out, id)
		}
	}
	return out
}

func (w *fakeWorld) PermanentsControlledBy(player string) []string {
	var out []string
	for id, o := range w.objects {
		if o.zone == rules.ZoneBattlefield && o.controller == player {
			out = append(out, id)
		}
	}
	return out
}

func (w *fakeWorld) StackIsEmpty() bool { return w.stackEmpty }

func (w *fakeWorld) Turn() *rules.TurnState { return &w.turn }

func (w *fakeWorld) FilterContextFor(controller, source string) rules.FilterContext {
	var opponents []string
	for _, p := range w.turnOrder {
		if p != controller {
			opponents = append(opponents, p)
		}
	}
	return rules.FilterContext{
		You:          controller,
		Source:       source,
		ActivePlayer: w.turn.ActivePlayer,
		Opponents:    opponents,
	}
}

type grantingAbility struct {
	id   string
	spec GrantSpec
}

func (a grantingAbility) AbilityID() string  { return a.id }
func (a grantingAbility) Display() string    { return a.id }
func (a grantingAbility) AffectsUntap() bool { return false }
func (a grantingAbility) EntersTapped() bool { return false }
func (a grantingAbility) GrantSpec() (GrantSpec, bool) {
	return a.spec, true
}

type plainAbility struct{ id string }

func (a plainAbility) AbilityID() string  { return a.id }
func (a plainAbility) Display() string    { return a.id }
func (a plainAbility) AffectsUntap() bool { return false }
func (a plainAbility) EntersTapped() bool { return false }

func TestEffectGrantExpiresAfterNamedTurn(t *testing.T) {
	reg := NewRegistry(nil)
	reg.GrantAlternativeCastToCard("card-1", rules.ZoneGraveyard, "alice",
		CastMethod{Kind: CastFlashback, Cost: "{2}{U}"},
		FromEffectUntilEndOfTurn("spell-1", 3))

	reg.CleanupExpired(3, nil)
	assert.Equal(t, 1, reg.Size(), "grant should survive cleanup of its own turn")

	reg.CleanupExpired(4, nil)
	assert.Equal(t, 0, reg.Size(), "grant should expire once its turn has passed")
}

func TestStaticGrantTracksSourcePermanent(t *testing.T) {
	reg := NewRegistry(nil)
	reg.GrantToFilter(rules.CreatureFilter(), rules.ZoneBattlefield, "alice",
		Ability(plainAbility{id: "haste"}), FromStaticAbility("anthem-1"))

	reg.CleanupExpired(1, []string{"anthem-1", "bear-1"})
	assert.Equal(t, 1, reg.Size())

	reg.CleanupExpired(1, []string{"bear-1"})
	assert.Equal(t, 0, reg.Size(), "grant should expire when its source leaves the battlefield")
}

func TestPermanentGrantNeverExpires(t *testing.T) {
	reg := NewRegistry(nil)
	reg.GrantToCard("card-1", rules.ZoneHand, "alice", PlayFrom(), FromEffect("spell-1"))

	reg.CleanupExpired(99, nil)
	assert.Equal(t, 1, reg.Size())
}

func TestAddGrantDeduplicates(t *testing.T) {
	reg := NewRegistry(nil)
	method := CastMethod{Kind: CastMadness, Cost: "{B}"}

	reg.GrantAlternativeCastToCard("card-1", rules.ZoneExile, "alice", method, FromEffect("a"))
	reg.GrantAlternativeCastToCard("card-1", rules.ZoneExile, "alice", method, FromEffect("b"))

	assert.Equal(t, 1, reg.Size(), "equal grants from different sources collapse")
}

func TestFilterNormalizationDeduplicates(t *testing.T) {
	reg := NewRegistry(nil)
	f1 := rules.ObjectFilter{
		Zone:      rules.ZoneGraveyard,
		CardTypes: []rules.CardType{rules.CardTypeInstant, rules.CardTypeInstant, rules.CardTypeSorcery},
	}
	f2 := rules.ObjectFilter{
		Zone:      rules.ZoneGraveyard,
		CardTypes: []rules.CardType{rules.CardTypeInstant, rules.CardTypeSorcery},
	}

	reg.GrantToFilter(f1, rules.ZoneGraveyard, "alice", FlashbackOwnCost(), FromEffect("x"))
	reg.GrantToFilter(f2, rules.ZoneGraveyard, "alice", FlashbackOwnCost(), FromEffect("y"))

	assert.Equal(t, 1, reg.Size())
}

func TestFilterNormalizationLeavesCallerFilterIntact(t *testing.T) {
	reg := NewRegistry(nil)
	filter := rules.ObjectFilter{
		Zone:      rules.ZoneGraveyard,
		CardTypes: []rules.CardType{rules.CardTypeInstant, rules.CardTypeInstant, rules.CardTypeSorcery},
		Subtypes:  []string{"Arcane", "Arcane"},
	}

	reg.GrantToFilter(filter, rules.ZoneGraveyard, "alice", FlashbackOwnCost(), FromEffect("x"))

	assert.Equal(t,
		[]rules.CardType{rules.CardTypeInstant, rules.CardTypeInstant, rules.CardTypeSorcery},
		filter.CardTypes)
	assert.Equal(t, []string{"Arcane", "Arcane"}, filter.Subtypes)
}

func TestGetGrantsForCardMatchesTargetAndFilter(t *testing.T) {
	w := newFakeWorld("alice", "bob")
	w.addObject(&fakeObject{
		id: "bolt-1", controller: "alice", owner: "alice",
		zone:      rules.ZoneGraveyard,
		cardTypes: []rules.CardType{rules.CardTypeInstant},
	})

	reg := NewRegistry(nil)
	reg.GrantToCard("bolt-1", rules.ZoneGraveyard, "alice",
		AlternativeCast(CastMethod{Kind: CastFlashback, Cost: "{1}{R}"}), FromEffect("snap"))
	reg.GrantToFilter(
		rules.ObjectFilter{Zone: rules.ZoneGraveyard, CardTypes: []rules.CardType{rules.CardTypeInstant}},
		rules.ZoneGraveyard, "alice", FlashbackOwnCost(), FromEffect("past"))

	got := reg.GetGrantsForCard(w, "bolt-1", rules.ZoneGraveyard, "alice")
	assert.Len(t, got, 2)

	methods := reg.GrantedAlternativeCastsForCard(w, "bolt-1", rules.ZoneGraveyard, "alice")
	require.Len(t, methods, 2)
	assert.Equal(t, CastFlashback, methods[0].Kind)
	assert.Equal(t, CastFlashback, methods[1].Kind)
	assert.Empty(t, methods[1].Cost, "own-cost flashback surfaces with an empty cost")
}

func TestGetGrantsForCardIgnoresOtherPlayersAndZones(t *testing.T) {
	w := newFakeWorld("alice", "bob")
	w.addObject(&fakeObject{
		id: "bolt-1", controller: "alice", owner: "alice",
		zone:      rules.ZoneGraveyard,
		cardTypes: []rules.CardType{rules.CardTypeInstant},
	})

	reg := NewRegistry(nil)
	reg.GrantToCard("bolt-1", rules.ZoneGraveyard, "alice", FlashbackOwnCost(), FromEffect("x"))

	assert.Empty(t, reg.GetGrantsForCard(w, "bolt-1", rules.ZoneGraveyard, "bob"))
	assert.Empty(t, reg.GetGrantsForCard(w, "bolt-1", rules.ZoneHand, "alice"))
	assert.Empty(t, reg.GetGrantsForCard(w, "other", rules.ZoneGraveyard, "alice"))
}

func TestBattlefieldScanPicksUpStaticGrants(t *testing.T) {
	w := newFakeWorld("alice", "bob")
	w.addObject(&fakeObject{
		id: "underworld-1", controller: "alice", owner: "alice",
		zone:      rules.ZoneBattlefield,
		cardTypes: []rules.CardType{rules.CardTypeEnchantment},
		abilities: []rules.StaticAbility{grantingAbility{
			id: "grant-escape",
			spec: GrantSpec{
				Grantable: Escape(3),
				Filter: rules.ObjectFilter{
					Zone:      rules.ZoneGraveyard,
					CardTypes: []rules.CardType{rules.CardTypeCreature},
				},
				Zone: rules.ZoneGraveyard,
			},
		}},
	})
	w.addObject(&fakeObject{
		id: "bear-1", controller: "alice", owner: "alice",
		zone:      rules.ZoneGraveyard,
		cardTypes: []rules.CardType{rules.CardTypeCreature},
	})

	// Nothing stored: the grant comes straight off the battlefield.
	reg := NewRegistry(nil)
	got := reg.GetGrantsForCard(w, "bear-1", rules.ZoneGraveyard, "alice")
	require.Len(t, got, 1)
	assert.Equal(t, GrantAlternativeCast, got[0].Grantable.Kind)
	assert.Equal(t, CastEscape, got[0].Grantable.Method.Kind)
	assert.Equal(t, 3, got[0].Grantable.Method.ExileCount)

	// Source leaves: the grant vanishes without any cleanup call.
	w.objects["underworld-1"].zone = rules.ZoneGraveyard
	assert.Empty(t, reg.GetGrantsForCard(w, "bear-1", rules.ZoneGraveyard, "alice"))
}

func TestRefreshStaticGrantsMirrorsBattlefield(t *testing.T) {
	w := newFakeWorld("alice", "bob")
	w.addObject(&fakeObject{
		id: "hall-1", controller: "alice", owner: "alice",
		zone:      rules.ZoneBattlefield,
		cardTypes: []rules.CardType{rules.CardTypeArtifact},
		abilities: []rules.StaticAbility{grantingAbility{
			id: "grant-play-top",
			spec: GrantSpec{
				Grantable: PlayFrom(),
				Filter:    rules.ObjectFilter{Zone: rules.ZoneLibrary},
				Zone:      rules.ZoneLibrary,
			},
		}},
	})

	reg := NewRegistry(nil)
	reg.RefreshStaticGrants(w)
	assert.Equal(t, 1, reg.Size())

	// Refreshing twice does not duplicate.
	reg.RefreshStaticGrants(w)
	assert.Equal(t, 1, reg.Size())

	// Permanent leaves, refresh drops the grant.
	w.objects["hall-1"].zone = rules.ZoneGraveyard
	reg.RefreshStaticGrants(w)
	assert.Equal(t, 0, reg.Size())
}

func TestCardCanPlayFromZone(t *testing.T) {
	w := newFakeWorld("alice", "bob")
	w.addObject(&fakeObject{
		id: "land-1", controller: "alice", owner: "alice",
		zone:      rules.ZoneGraveyard,
		cardTypes: []rules.CardType{rules.CardTypeLand},
	})

	reg := NewRegistry(nil)
	assert.False(t, reg.CardCanPlayFromZone(w, "land-1", rules.ZoneGraveyard, "alice"))

	reg.GrantPlayFromZone(
		rules.ObjectFilter{Zone: rules.ZoneGraveyard, CardTypes: []rules.CardType{rules.CardTypeLand}},
		rules.ZoneGraveyard, "alice", FromStaticAbility("crucible-1"))
	w.addObject(&fakeObject{
		id: "crucible-1", controller: "alice", owner: "alice",
		zone:      rules.ZoneBattlefield,
		cardTypes: []rules.CardType{rules.CardTypeArtifact},
	})

	assert.True(t, reg.CardCanPlayFromZone(w, "land-1", rules.ZoneGraveyard, "alice"))
}

func TestCardHasGrantedAbility(t *testing.T) {
	w := newFakeWorld("alice", "bob")
	w.addObject(&fakeObject{
		id: "bear-1", controller: "alice", owner: "alice",
		zone:      rules.ZoneBattlefield,
		cardTypes: []rules.CardType{rules.CardTypeCreature},
	})

	reg := NewRegistry(nil)
	reg.GrantAbilityToCard("bear-1", rules.ZoneBattlefield, "alice",
		plainAbility{id: "indestructible"},
		FromEffectUntilEndOfTurn("boon-1", 1))

	assert.True(t, reg.CardHasGrantedAbility(w, "bear-1", rules.ZoneBattlefield, "alice", "indestructible"))
	assert.False(t, reg.CardHasGrantedAbility(w, "bear-1", rules.ZoneBattlefield, "alice", "haste"))

	abilities := reg.GrantedAbilitiesForCard(w, "bear-1", rules.ZoneBattlefield, "alice")
	require.Len(t, abilities, 1)
	assert.Equal(t, "indestructible", abilities[0].AbilityID())
}

func TestRemoveGrantsFromSource(t *testing.T) {
	reg := NewRegistry(nil)
	reg.GrantToCard("a", rules.ZoneHand, "alice", PlayFrom(), FromEffect("src-1"))
	reg.GrantToCard("b", rules.ZoneHand, "alice", PlayFrom(), FromEffect("src-2"))

	reg.RemoveGrantsFromSource("src-1")

	grants := reg.ActiveGrants()
	require.Len(t, grants, 1)
	assert.Equal(t, "b", grants[0].TargetID)
}
