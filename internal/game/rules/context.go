package rules

// EventContext carries everything a replacement matcher needs to decide
// whether it applies to an event: the effect's controller, its source
// object, a filter context rooted at that pair, and the world for
// lookups.
type EventContext struct {
	Controller string
	Source     string
	FilterCtx  FilterContext
	World      World
}

// ContextForReplacementEffect builds the context used when checking a
// replacement effect that has a known source object.
func ContextForReplacementEffect(controller, source string, w World) EventContext {
	return EventContext{
		Controller: controller,
		Source:     source,
		FilterCtx:  w.FilterContextFor(controller, source),
		World:      w,
	}
}

// ContextForController builds a minimal context when no source object
// is known.
func ContextForController(controller string, w World) EventContext {
	return EventContext{
		Controller: controller,
		FilterCtx:  w.FilterContextFor(controller, ""),
		World:      w,
	}
}
