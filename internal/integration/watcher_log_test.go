package integration

import (
	"testing"

	"github.com/Chiplis/maigus-sub007/internal/game"
	"github.com/Chiplis/maigus-sub007/internal/game/rules"
)

func TestTurnScopedWatchersResetWithTheTurn(t *testing.T) {
	env := newGameEnv(t, []string{"alice", "bob"}, 10)
	bears := env.state.AddCard("bob", rules.ZoneBattlefield, creatureSpec("Grizzly Bears"))

	env.engine.GainLife("alice", "chaplain", 3)
	env.engine.DealDamage("bolt", rules.ObjectTarget(bears), 2, false)

	if got := env.engine.LifeWatcher().LifeGainedThisTurn("alice"); got != 3 {
		t.Fatalf("life gained this turn = %d, want 3", got)
	}
	died := env.engine.DeathWatcher().CreaturesDiedThisTurn()
	if len(died) != 1 || died[0] != bears {
		t.Fatalf("creatures died this turn = %v, want [%s]", died, bears)
	}

	env.passUntilTurn(t, 2)
	if got := env.engine.LifeWatcher().LifeGainedThisTurn("alice"); got != 0 {
		t.Fatalf("life gained after turn change = %d, want 0", got)
	}
	if got := env.engine.DeathWatcher().CreaturesDiedThisTurn(); len(got) != 0 {
		t.Fatalf("creatures died after turn change = %v, want none", got)
	}
}

func TestEventLogGroupsEntriesByTurn(t *testing.T) {
	env := newGameEnv(t, []string{"alice", "bob"}, 10)

	env.engine.DealDamage("ogre", rules.PlayerTarget("bob"), 3, true)
	env.passUntilTurn(t, 2)
	env.engine.GainLife("bob", "chaplain", 2)

	countKind := func(entries []game.LogEntry, kind string) int {
		n := 0
		for _, e := range entries {
			if e.Kind == kind {
				n++
			}
		}
		return n
	}

	turn1 := env.engine.Log().EntriesForTurn(1)
	if got := countKind(turn1, "DAMAGE"); got != 1 {
		t.Fatalf("turn 1 damage entries = %d, want 1", got)
	}
	if got := countKind(turn1, "DRAW"); got != 1 {
		t.Fatalf("turn 1 draw entries = %d, want 1 from the draw step", got)
	}

	turn2 := env.engine.Log().EntriesForTurn(2)
	if got := countKind(turn2, "LIFE_GAIN"); got != 1 {
		t.Fatalf("turn 2 life gain entries = %d, want 1", got)
	}

	// Sequence numbers are globally monotonic across turns.
	all := env.engine.Log().Entries()
	for i, e := range all {
		if e.Sequence != i {
			t.Fatalf("entry %d has sequence %d", i, e.Sequence)
		}
	}
}

func TestPreventedEventsNeverReachWatchersOrLog(t *testing.T) {
	env := newGameEnv(t, []string{"alice", "bob"}, 10)
	env.state.AddCard("alice", rules.ZoneBattlefield, game.CardSpec{
		Name:      "Sulfuric Vortex",
		Abilities: []rules.StaticAbility{game.NewNoLifeGainAbility()},
	})
	env.engine.Refresh()
	before := env.engine.Log().Len()

	outcome := env.engine.GainLife("bob", "chaplain", 5)
	if !outcome.Prevented {
		t.Fatal("the opponent's life gain should be prevented")
	}
	if got := env.engine.LifeWatcher().LifeGainedThisTurn("bob"); got != 0 {
		t.Fatalf("life gained = %d, want 0 for a prevented gain", got)
	}
	if env.engine.Log().Len() != before {
		t.Fatal("prevented events should not be logged")
	}
}
