package rules

import "fmt"

// ReplacementPriority orders simultaneous replacement effects.
// Self-replacements always apply before anything else touching the same
// event; within a band the affected player's choice (or the registry's
// tie-break) decides.
type ReplacementPriority int

const (
	PrioritySelfReplacement ReplacementPriority = iota
	PriorityControlChanging
	PriorityCopyEffect
	PriorityBackFace
	PriorityOther
)

var replacementPriorityNames = map[ReplacementPriority]string{
	PrioritySelfReplacement: "SELF_REPLACEMENT",
	PriorityControlChanging: "CONTROL_CHANGING",
	PriorityCopyEffect:      "COPY_EFFECT",
	PriorityBackFace:        "BACK_FACE",
	PriorityOther:           "OTHER",
}

func (p ReplacementPriority) String() string {
	if name, ok := replacementPriorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PRIORITY_%d", int(p))
}

// ReplacementMatcher decides whether a replacement effect applies to an
// event. MatchesEvent must be pure: it may read arbitrary world state
// through the context but never mutates anything. Purity is what makes
// re-entrant and multiply-evaluated checks safe.
type ReplacementMatcher interface {
	MatchesEvent(event Event, ctx EventContext) bool
	Priority() ReplacementPriority
	Display() string
	CloneMatcher() ReplacementMatcher
}

// TriggerMatcher decides whether a triggered ability fires on an event.
// Same purity contract as ReplacementMatcher.
type TriggerMatcher interface {
	MatchesEvent(event Event, ctx EventContext) bool
	Display() string
	CloneTrigger() TriggerMatcher
}
