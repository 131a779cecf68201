// Package targeting validates chosen targets against requirements.
// Alternative casting methods that reuse a card's original targets
// revalidate them here before the recast goes on the stack.
package targeting

import (
	"fmt"

	"github.com/Chiplis/maigus-sub007/internal/game/rules"
)

// Requirement describes what a single target slot accepts.
type Requirement struct {
	// Kind restricts the slot to players or objects. Nil accepts both.
	Kind *rules.TargetKind
	// Filter constrains object targets. Ignored for player targets.
	Filter rules.ObjectFilter
	// Optional slots may be left empty.
	Optional bool
}

// PlayerRequirement accepts any player still in the game.
func PlayerRequirement() Requirement {
	k := rules.TargetPlayer
	return Requirement{Kind: &k}
}

// ObjectRequirement accepts objects matching the filter.
func ObjectRequirement(filter rules.ObjectFilter) Requirement {
	k := rules.TargetObject
	return Requirement{Kind: &k, Filter: filter}
}

// Validator checks targets against live game state.
type Validator struct {
	world rules.World
}

func NewValidator(w rules.World) *Validator {
	return &Validator{world: w}
}

// Validate checks one target against one requirement for the given
// controller and source. A zero target satisfies only optional slots.
func (v *Validator) Validate(target rules.Target, req Requirement, controller, source string) error {
	if target.ID == "" {
		if req.Optional {
			return nil
		}
		return fmt.Errorf("required target not chosen")
	}
	if req.Kind != nil && target.Kind != *req.Kind {
		return fmt.Errorf("target %s has the wrong kind", target.ID)
	}

	switch target.Kind {
	case rules.TargetPlayer:
		if !v.world.PlayerInGame(target.ID) {
			return fmt.Errorf("player %s is no longer in the game", target.ID)
		}
		return nil
	case rules.TargetObject:
		obj, ok := v.world.Object(target.ID)
		if !ok {
			return fmt.Errorf("object %s no longer exists", target.ID)
		}
		ctx := v.world.FilterContextFor(controller, source)
		if !req.Filter.Matches(obj, ctx) {
			return fmt.Errorf("object %s is not a legal target", target.ID)
		}
		return nil
	default:
		return fmt.Errorf("unknown target kind for %s", target.ID)
	}
}

// ValidateAll checks a full target list against the requirements,
// position by position. Extra targets are illegal; missing trailing
// targets are legal only for optional slots.
func (v *Validator) ValidateAll(targets []rules.Target, reqs []Requirement, controller, source string) error {
	if len(targets) > len(reqs) {
		return fmt.Errorf("%d targets chosen for %d slots", len(targets), len(reqs))
	}
	for i, req := range reqs {
		var target rules.Target
		if i < len(targets) {
			target = targets[i]
		}
		if err := v.Validate(target, req, controller, source); err != nil {
			return fmt.Errorf("target slot %d: %w", i, err)
		}
	}
	return nil
}

// StillLegal reports whether every target remains legal, for the
// on-resolution recheck. An ability whose every target has become
// illegal does not resolve.
func (v *Validator) StillLegal(targets []rules.Target, reqs []Requirement, controller, source string) bool {
	return v.ValidateAll(targets, reqs, controller, source) == nil
}
