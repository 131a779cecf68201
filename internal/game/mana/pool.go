// Package mana models mana pools and mana costs.
package mana

import (
	"sort"
	"strings"
	"sync"
)

// Type is a color of mana. Generic appears only in costs, never in a
// pool.
type Type string

const (
	White     Type = "W"
	Blue      Type = "U"
	Black     Type = "B"
	Red       Type = "R"
	Green     Type = "G"
	Colorless Type = "C"
)

// colorOrder fixes iteration order for display and generic payment.
var colorOrder = []Type{White, Blue, Black, Red, Green, Colorless}

// Pool is a player's mana pool. It empties during the cleanup step;
// effects may also empty it at phase boundaries.
type Pool struct {
	mu     sync.RWMutex
	amount map[Type]int
}

// NewPool builds an empty pool.
func NewPool() *Pool {
	return &Pool{amount: make(map[Type]int)}
}

// Add adds mana of the given type.
func (p *Pool) Add(t Type, n int) {
	if n <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.amount[t] += n
}

// Amount returns how much mana of the given type the pool holds.
func (p *Pool) Amount(t Type) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.amount[t]
}

// Total returns the pool's total mana across all types.
func (p *Pool) Total() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	total := 0
	for _, n := range p.amount {
		total += n
	}
	return total
}

// CanPay reports whether the pool covers the cost. Generic mana may be
// paid with any type.
func (p *Pool) CanPay(cost Cost) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.plan(cost)
	return ok
}

// Pay removes the cost from the pool, reporting false and leaving the
// pool untouched when it cannot be covered. Generic mana is paid from
// the largest remaining piles first.
func (p *Pool) Pay(cost Cost) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	plan, ok := p.plan(cost)
	if !ok {
		return false
	}
	for t, n := range plan {
		p.amount[t] -= n
		if p.amount[t] == 0 {
			delete(p.amount, t)
		}
	}
	return true
}

// plan computes a per-type payment covering the cost, or reports false.
// Callers hold the lock.
func (p *Pool) plan(cost Cost) (map[Type]int, bool) {
	plan := make(map[Type]int)
	for t, need := range cost.Colored {
		if p.amount[t]-plan[t] < need {
			return nil, false
		}
		plan[t] += need
	}

	generic := cost.Generic
	for generic > 0 {
		best := Type("")
		bestLeft := 0
		for _, t := range colorOrder {
			left := p.amount[t] - plan[t]
			if left > bestLeft {
				best, bestLeft = t, left
			}
		}
		if bestLeft == 0 {
			return nil, false
		}
		pay := generic
		if pay > bestLeft {
			pay = bestLeft
		}
		plan[best] += pay
		generic -= pay
	}
	return plan, true
}

// Empty removes all mana from the pool.
func (p *Pool) Empty() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.amount = make(map[Type]int)
}

// Snapshot returns a copy of the pool's contents.
func (p *Pool) Snapshot() map[Type]int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[Type]int, len(p.amount))
	for t, n := range p.amount {
		out[t] = n
	}
	return out
}

// String renders the pool in cost notation, types in canonical order.
func (p *Pool) String() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var b strings.Builder
	types := make([]Type, 0, len(p.amount))
	for t := range p.amount {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		return colorRank(types[i]) < colorRank(types[j])
	})
	for _, t := range types {
		for i := 0; i < p.amount[t]; i++ {
			b.WriteString("{")
			b.WriteString(string(t))
			b.WriteString("}")
		}
	}
	if b.Len() == 0 {
		return "{}"
	}
	return b.String()
}

func colorRank(t Type) int {
	for i, c := range colorOrder {
		if c == t {
			return i
		}
	}
	return len(colorOrder)
}
