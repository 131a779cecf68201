package effects

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Provenance distinguishes how a replacement effect was registered.
// Static-ability effects are regenerated wholesale on every state
// refresh; resolution effects persist until removed.
type Provenance int

const (
	ProvenanceStaticAbility Provenance = iota
	ProvenanceResolution
)

// Manager owns all registered replacement effects. Effect IDs come
// from a per-manager monotonic counter, so two managers never share an
// ID space.
type Manager struct {
	mu       sync.RWMutex
	effects  []ReplacementEffect
	sources  map[EffectID]Provenance
	oneShots map[EffectID]struct{}
	nextID   EffectID
	logger   *zap.Logger
}

// NewManager creates an empty manager.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sources:  make(map[EffectID]Provenance),
		oneShots: make(map[EffectID]struct{}),
		nextID:   1,
		logger:   logger,
	}
}

// AddEffect registers an effect and assigns it the next ID.
func (m *Manager) AddEffect(effect ReplacementEffect) EffectID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addLocked(effect)
}

func (m *Manager) addLocked(effect ReplacementEffect) EffectID {
	effect.ID = m.nextID
	m.nextID++
	m.effects = append(m.effects, effect)

	m.logger.Debug("added replacement effect",
		zap.Int64("effect_id", int64(effect.ID)),
		zap.String("source_id", effect.Source),
		zap.Bool("self_replacement", effect.SelfReplacement))
	return effect.ID
}

// RemoveEffect removes an effect and all bookkeeping for it.
func (m *Manager) RemoveEffect(id EffectID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeLocked(id)
}

func (m *Manager) removeLocked(id EffectID) {
	for i, e := range m.effects {
		if e.ID == id {
			m.effects = append(m.effects[:i], m.effects[i+1:]...)
			break
		}
	}
	delete(m.sources, id)
	delete(m.oneShots, id)
}

// RemoveEffectsFromSource removes every effect registered by a source
// object.
func (m *Manager) RemoveEffectsFromSource(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.effects[:0]
	for _, e := range m.effects {
		if e.Source == source {
			delete(m.sources, e.ID)
			delete(m.oneShots, e.ID)
			continue
		}
		kept = append(kept, e)
	}
	m.effects = kept
}

// GetEffect retrieves an effect by ID.
func (m *Manager) GetEffect(id EffectID) (ReplacementEffect, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.effects {
		if e.ID == id {
			return e, true
		}
	}
	return ReplacementEffect{}, false
}

// Effects returns a snapshot of all registered effects in registration
// order.
func (m *Manager) Effects() []ReplacementEffect {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]ReplacementEffect(nil), m.effects...)
}

// matcherBearing returns every effect with a matcher set. Category
// getters deliberately return all matcher-bearing effects and leave
// final filtering to MatchesEvent at application time: coarse indexing
// here would risk false negatives.
func (m *Manager) matcherBearing() []ReplacementEffect {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ReplacementEffect, 0, len(m.effects))
	for _, e := range m.effects {
		if e.Matcher != nil {
			out = append(out, e)
		}
	}
	return out
}

// GetDamageReplacements returns effects that might apply to a damage
// event.
func (m *Manager) GetDamageReplacements() []ReplacementEffect { return m.matcherBearing() }

// GetZoneChangeReplacements returns effects that might apply to a zone
// change.
func (m *Manager) GetZoneChangeReplacements() []ReplacementEffect { return m.matcherBearing() }

// GetDrawReplacements returns effects that might apply to a draw.
func (m *Manager) GetDrawReplacements() []ReplacementEffect { return m.matcherBearing() }

// GetDiscardReplacements returns effects that might apply to a discard.
func (m *Manager) GetDiscardReplacements() []ReplacementEffect { return m.matcherBearing() }

// GetEnterBattlefieldReplacements returns effects that might apply to
// the given object entering the battlefield: its own self-replacements
// plus every broad effect.
func (m *Manager) GetEnterBattlefieldReplacements(entering string) []ReplacementEffect {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ReplacementEffect, 0, len(m.effects))
	for _, e := range m.effects {
		if e.Matcher == nil {
			continue
		}
		if e.Source == entering || !e.SelfReplacement {
			out = append(out, e)
		}
	}
	return out
}

// GetSelfReplacements returns the self-replacement effects registered
// by a source.
func (m *Manager) GetSelfReplacements(source string) []ReplacementEffect {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []ReplacementEffect
	for _, e := range m.effects {
		if e.SelfReplacement && e.Source == source {
			out = append(out, e)
		}
	}
	return out
}

// GetOtherReplacements returns all non-self replacement effects.
func (m *Manager) GetOtherReplacements() []ReplacementEffect {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []ReplacementEffect
	for _, e := range m.effects {
		if !e.SelfReplacement {
			out = append(out, e)
		}
	}
	return out
}

// AddStaticAbilityEffect registers an effect with static-ability
// provenance.
func (m *Manager) AddStaticAbilityEffect(effect ReplacementEffect) EffectID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.addLocked(effect)
	m.sources[id] = ProvenanceStaticAbility
	return id
}

// AddResolutionEffect registers an effect with resolution provenance.
func (m *Manager) AddResolutionEffect(effect ReplacementEffect) EffectID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.addLocked(effect)
	m.sources[id] = ProvenanceResolution
	return id
}

// ClearStaticAbilityEffects removes every static-ability effect.
// Called before regenerating them on a state refresh: the refresh
// discipline is regenerate, never diff.
func (m *Manager) ClearStaticAbilityEffects() {
	m.mu.Lock()
	defer m.mu.Unlock()

	var staticIDs []EffectID
	for id, prov := range m.sources {
		if prov == ProvenanceStaticAbility {
			staticIDs = append(staticIDs, id)
		}
	}
	for _, id := range staticIDs {
		m.removeLocked(id)
	}
}

// AddOneShotEffect registers an effect consumed after a single use,
// such as a regeneration shield.
func (m *Manager) AddOneShotEffect(effect ReplacementEffect) EffectID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.addLocked(effect)
	m.oneShots[id] = struct{}{}
	return id
}

// MarkEffectUsed consumes a one-shot effect, removing it. Returns true
// exactly once per effect: a second call for the same ID reports false.
func (m *Manager) MarkEffectUsed(id EffectID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.oneShots[id]; !ok {
		return false
	}
	m.removeLocked(id)
	m.logger.Debug("consumed one-shot replacement effect",
		zap.Int64("effect_id", int64(id)))
	return true
}

// IsOneShot reports whether the effect is registered as one-shot.
func (m *Manager) IsOneShot(id EffectID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.oneShots[id]
	return ok
}

// ClearOneShotEffects removes every one-shot effect. Called at
// cleanup; shields last only until end of turn.
func (m *Manager) ClearOneShotEffects() {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]EffectID, 0, len(m.oneShots))
	for id := range m.oneShots {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		m.removeLocked(id)
	}
}

// CountOneShotEffectsFromSource reports how many one-shot effects a
// source has registered, e.g. how many regeneration shields a creature
// carries.
func (m *Manager) CountOneShotEffectsFromSource(source string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, e := range m.effects {
		if e.Source != source {
			continue
		}
		if _, ok := m.oneShots[e.ID]; ok {
			count++
		}
	}
	return count
}
