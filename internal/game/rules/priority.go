package rules

// PriorityResult tells the caller what follows a priority pass.
type PriorityResult int

const (
	// PriorityContinue rotates priority to the next in-game player.
	PriorityContinue PriorityResult = iota
	// PriorityStackResolves means all players passed with a non-empty
	// stack; the top entry resolves next.
	PriorityStackResolves
	// PriorityPhaseEnds means all players passed with an empty stack;
	// the FSM advances.
	PriorityPhaseEnds
)

var priorityResultNames = map[PriorityResult]string{
	PriorityContinue:      "CONTINUE",
	PriorityStackResolves: "STACK_RESOLVES",
	PriorityPhaseEnds:     "PHASE_ENDS",
}

func (r PriorityResult) String() string {
	if name, ok := priorityResultNames[r]; ok {
		return name
	}
	return "UNKNOWN"
}

// PriorityTracker counts consecutive priority passes. Any action other
// than a pass must call Reset.
type PriorityTracker struct {
	ConsecutivePasses int
	PlayersInGame     int
}

// NewPriorityTracker builds a tracker for the given player count.
func NewPriorityTracker(playersInGame int) *PriorityTracker {
	return &PriorityTracker{PlayersInGame: playersInGame}
}

// RecordPass increments the pass count and reports whether every
// in-game player has now passed in succession.
func (t *PriorityTracker) RecordPass() bool {
	t.ConsecutivePasses++
	return t.ConsecutivePasses >= t.PlayersInGame
}

// Reset zeroes the pass count. Called whenever a player takes an
// action instead of passing.
func (t *PriorityTracker) Reset() {
	t.ConsecutivePasses = 0
}

// SetPlayersInGame updates the player count when a player leaves.
func (t *PriorityTracker) SetPlayersInGame(count int) {
	t.PlayersInGame = count
}

// AllPassed reports whether every in-game player has passed since the
// last reset.
func (t *PriorityTracker) AllPassed() bool {
	return t.ConsecutivePasses >= t.PlayersInGame
}

// HasPriority reports whether the player currently holds priority.
func HasPriority(w World, player string) bool {
	return w.Turn().PriorityPlayer == player && player != ""
}

// PriorityHolder returns the current priority holder, or "" when no
// player holds priority.
func PriorityHolder(w World) string {
	return w.Turn().PriorityPlayer
}

// PassPriority records a pass for the current holder. When not all
// players have passed, priority rotates and the game continues. When
// all have passed the outcome depends on the stack: non-empty means the
// top entry resolves, empty means the phase ends. The tracker does not
// auto-reset on StackResolves; the caller resets it via ResetPriority
// after resolution.
func PassPriority(w World, tracker *PriorityTracker) PriorityResult {
	if tracker.RecordPass() {
		if w.StackIsEmpty() {
			return PriorityPhaseEnds
		}
		return PriorityStackResolves
	}
	AdvancePriorityToNextPlayer(w)
	return PriorityContinue
}

// ResetPriority returns priority to the active player and zeroes the
// tracker. Called after a spell or ability is put on the stack, and
// after a stack entry resolves.
func ResetPriority(w World, tracker *PriorityTracker) {
	tracker.Reset()
	turn := w.Turn()
	turn.PriorityPlayer = turn.ActivePlayer
}

// AdvancePriorityToNextPlayer rotates priority through turn order,
// skipping players who have left the game.
func AdvancePriorityToNextPlayer(w World) {
	turn := w.Turn()
	current := turn.PriorityPlayer
	if current == "" {
		return
	}

	order := w.TurnOrder()
	currentIdx := 0
	for i, p := range order {
		if p == current {
			currentIdx = i
			break
		}
	}

	for i := 1; i <= len(order); i++ {
		next := order[(currentIdx+i)%len(order)]
		if w.PlayerInGame(next) {
			turn.PriorityPlayer = next
			return
		}
	}
}
