package effects

import "github.com/Chiplis/maigus-sub007/internal/game/rules"

// Generator is the optional capability a static ability implements to
// contribute a replacement effect. The refresh discovers it by type
// assertion, so ability types opt in without a closed registry.
type Generator interface {
	GenerateReplacementEffect(source, controller string) (ReplacementEffect, bool)
}

// RefreshStaticAbilityEffects rebuilds every static-ability replacement
// effect from the current battlefield. Discards all previous
// static-ability effects first; the discipline is regenerate, never
// diff. Must run whenever battlefield membership changes.
func RefreshStaticAbilityEffects(w rules.World, m *Manager) {
	m.ClearStaticAbilityEffects()

	for _, id := range w.Battlefield() {
		obj, ok := w.Object(id)
		if !ok {
			continue
		}
		for _, ability := range obj.Abilities() {
			gen, ok := ability.(Generator)
			if !ok {
				continue
			}
			effect, ok := gen.GenerateReplacementEffect(obj.ID(), obj.Controller())
			if !ok {
				continue
			}
			m.AddStaticAbilityEffect(effect)
		}
	}
}
