package rules

// Phase is a top-level turn phase.
type Phase int

const (
	PhaseBeginning Phase = iota
	PhaseFirstMain
	PhaseCombat
	PhaseNextMain
	PhaseEnding
)

var phaseNames = map[Phase]string{
	PhaseBeginning: "Beginning",
	PhaseFirstMain: "Precombat Main",
	PhaseCombat:    "Combat",
	PhaseNextMain:  "Postcombat Main",
	PhaseEnding:    "Ending",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "Unknown Phase"
}

// Step is a substep within a phase. StepNone marks the two main phases,
// which have no substeps.
type Step int

const (
	StepNone Step = iota
	StepUntap
	StepUpkeep
	StepDraw
	StepBeginCombat
	StepDeclareAttackers
	StepDeclareBlockers
	StepCombatDamage
	StepEndCombat
	StepEnd
	StepCleanup
)

var stepNames = map[Step]string{
	StepNone:             "None",
	StepUntap:            "Untap",
	StepUpkeep:           "Upkeep",
	StepDraw:             "Draw",
	StepBeginCombat:      "Beginning of Combat",
	StepDeclareAttackers: "Declare Attackers",
	StepDeclareBlockers:  "Declare Blockers",
	StepCombatDamage:     "Combat Damage",
	StepEndCombat:        "End of Combat",
	StepEnd:              "End Step",
	StepCleanup:          "Cleanup",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "Unknown Step"
}

// TurnState is the FSM position plus the current priority holder.
// Step is StepNone exactly when the phase has no substeps (the two main
// phases). PriorityPlayer is "" when no player holds priority.
type TurnState struct {
	TurnNumber     int
	Phase          Phase
	Step           Step
	ActivePlayer   string
	PriorityPlayer string
}

// NewTurnState positions a fresh game at turn 1, beginning phase, untap
// step.
func NewTurnState(activePlayer string) *TurnState {
	return &TurnState{
		TurnNumber:   1,
		Phase:        PhaseBeginning,
		Step:         StepUntap,
		ActivePlayer: activePlayer,
	}
}

// NextStep is the pure step-transition table. Returns StepNone when the
// phase has no further steps.
func NextStep(phase Phase, current Step) Step {
	switch phase {
	case PhaseBeginning:
		switch current {
		case StepNone:
			return StepUntap
		case StepUntap:
			return StepUpkeep
		case StepUpkeep:
			return StepDraw
		}
	case PhaseCombat:
		switch current {
		case StepNone:
			return StepBeginCombat
		case StepBeginCombat:
			return StepDeclareAttackers
		case StepDeclareAttackers:
			return StepDeclareBlockers
		case StepDeclareBlockers:
			return StepCombatDamage
		case StepCombatDamage:
			return StepEndCombat
		}
	case PhaseEnding:
		switch current {
		case StepNone:
			return StepEnd
		case StepEnd:
			return StepCleanup
		}
	}
	return StepNone
}

// NextPhase is the pure phase-transition table. Returns false when the
// turn is over.
func NextPhase(phase Phase) (Phase, bool) {
	switch phase {
	case PhaseBeginning:
		return PhaseFirstMain, true
	case PhaseFirstMain:
		return PhaseCombat, true
	case PhaseCombat:
		return PhaseNextMain, true
	case PhaseNextMain:
		return PhaseEnding, true
	default:
		return PhaseBeginning, false
	}
}

// FirstStepOfPhase returns the entry step for a phase, or StepNone for
// the main phases.
func FirstStepOfPhase(phase Phase) Step {
	switch phase {
	case PhaseBeginning:
		return StepUntap
	case PhaseCombat:
		return StepBeginCombat
	case PhaseEnding:
		return StepEnd
	default:
		return StepNone
	}
}

// AdvanceStep moves the game to the next step of the current phase, or
// into the next phase when the current phase's steps are exhausted.
// Priority resets to the active player on every transition. A step
// never ends while the stack holds items; those must resolve first.
func AdvanceStep(w StepWorld) error {
	if w.PlayersInGame() == 0 {
		return ErrNoPlayersRemaining
	}
	if !w.StackIsEmpty() {
		return ErrCannotAdvance
	}

	turn := w.Turn()
	if next := NextStep(turn.Phase, turn.Step); next != StepNone {
		turn.Step = next
		turn.PriorityPlayer = turn.ActivePlayer
		return nil
	}
	return AdvancePhase(w)
}

// AdvancePhase moves the game to the next phase, wrapping to the next
// turn after the ending phase.
func AdvancePhase(w StepWorld) error {
	if w.PlayersInGame() == 0 {
		return ErrNoPlayersRemaining
	}
	if !w.StackIsEmpty() {
		return ErrCannotAdvance
	}

	turn := w.Turn()
	if next, ok := NextPhase(turn.Phase); ok {
		turn.Phase = next
		turn.Step = FirstStepOfPhase(next)
		turn.PriorityPlayer = turn.ActivePlayer
		return nil
	}

	w.NextTurn()
	return nil
}

// IsSorceryTiming reports main phase with an empty stack.
func IsSorceryTiming(w World) bool {
	return IsMainPhase(w) && w.StackIsEmpty()
}

// IsNoPriorityStep reports whether the current step normally grants no
// priority.
func IsNoPriorityStep(w World) bool {
	step := w.Turn().Step
	return step == StepUntap || step == StepCleanup
}

// IsMainPhase reports whether the game is in either main phase.
func IsMainPhase(w World) bool {
	phase := w.Turn().Phase
	return phase == PhaseFirstMain || phase == PhaseNextMain
}

// IsCombatPhase reports whether the game is in the combat phase.
func IsCombatPhase(w World) bool {
	return w.Turn().Phase == PhaseCombat
}

// PhaseDescription renders the current position for logs and UIs.
func PhaseDescription(w World) string {
	turn := w.Turn()
	if turn.Step == StepNone {
		return turn.Phase.String() + " Phase"
	}
	return turn.Phase.String() + " Phase - " + turn.Step.String() + " Step"
}
