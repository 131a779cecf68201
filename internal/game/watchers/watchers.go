// Package watchers accumulates per-turn statistics from finalized
// events. Watchers observe events after replacements have run, so they
// see what actually happened.
package watchers

import (
	"sync"

	"github.com/Chiplis/maigus-sub007/internal/game/rules"
)

// Watcher observes finalized events. ResetTurn runs at the start of
// each turn.
type Watcher interface {
	Observe(event rules.Event)
	ResetTurn()
}

// Registry fans events out to registered watchers.
type Registry struct {
	mu       sync.RWMutex
	watchers []Watcher
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Register(w Watcher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watchers = append(r.watchers, w)
}

// Observe forwards the event to every watcher.
func (r *Registry) Observe(event rules.Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.watchers {
		w.Observe(event)
	}
}

// ResetTurn resets every watcher's per-turn state.
func (r *Registry) ResetTurn() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.watchers {
		w.ResetTurn()
	}
}

// DrawWatcher counts cards drawn per player this turn.
type DrawWatcher struct {
	mu    sync.RWMutex
	drawn map[string]int
}

func NewDrawWatcher() *DrawWatcher {
	return &DrawWatcher{drawn: make(map[string]int)}
}

func (w *DrawWatcher) Observe(event rules.Event) {
	draw, ok := event.(rules.DrawEvent)
	if !ok {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.drawn[draw.Player] += draw.Count
}

func (w *DrawWatcher) ResetTurn() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.drawn = make(map[string]int)
}

// CardsDrawnThisTurn returns how many cards the player has drawn this
// turn.
func (w *DrawWatcher) CardsDrawnThisTurn(player string) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.drawn[player]
}

// Note records a draw at the moment the world mutates. The engine
// counts every draw through this path and keeps the watcher out of its
// event fan-out, so a draw is never counted twice.
func (w *DrawWatcher) Note(player string, count int) {
	if count <= 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.drawn[player] += count
}

// LifeWatcher tracks life gained and lost per player this turn.
type LifeWatcher struct {
	mu     sync.RWMutex
	gained map[string]int
	lost   map[string]int
}

func NewLifeWatcher() *LifeWatcher {
	return &LifeWatcher{gained: make(map[string]int), lost: make(map[string]int)}
}

func (w *LifeWatcher) Observe(event rules.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch e := event.(type) {
	case rules.LifeGainEvent:
		w.gained[e.Player] += e.Amount
	case rules.LifeLossEvent:
		w.lost[e.Player] += e.Amount
	}
}

func (w *LifeWatcher) ResetTurn() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.gained = make(map[string]int)
	w.lost = make(map[string]int)
}

func (w *LifeWatcher) LifeGainedThisTurn(player string) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.gained[player]
}

func (w *LifeWatcher) LifeLostThisTurn(player string) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lost[player]
}

// DeathWatcher records which creatures died this turn, for
// morbid-style conditions and escape counts.
type DeathWatcher struct {
	mu   sync.RWMutex
	died []string
}

func NewDeathWatcher() *DeathWatcher {
	return &DeathWatcher{}
}

func (w *DeathWatcher) Observe(event rules.Event) {
	zc, ok := event.(rules.ZoneChangeEvent)
	if !ok || !zc.IsDeath() {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.died = append(w.died, zc.Objects...)
}

func (w *DeathWatcher) ResetTurn() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.died = nil
}

// CreaturesDiedThisTurn returns the IDs of objects that went from the
// battlefield to a graveyard this turn.
func (w *DeathWatcher) CreaturesDiedThisTurn() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]string(nil), w.died...)
}
