package game

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/Chiplis/maigus-sub007/internal/game/rules"
)

// LogEntry is one committed event in the game's history.
type LogEntry struct {
	Sequence  int             `json:"sequence"`
	Turn      int             `json:"turn"`
	Kind      string          `json:"kind"`
	Display   string          `json:"display"`
	Timestamp time.Time       `json:"timestamp"`
	Detail    json.RawMessage `json:"detail,omitempty"`
}

// EventLog records every event that survived replacement processing,
// in commit order. The log captures what happened, not what was
// attempted: prevented and replaced events never appear.
type EventLog struct {
	mu      sync.RWMutex
	entries []LogEntry
	nextSeq int
}

func NewEventLog() *EventLog {
	return &EventLog{}
}

// Record appends a committed event.
func (l *EventLog) Record(turn int, event rules.Event) {
	detail, err := json.Marshal(event)
	if err != nil {
		detail = nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{
		Sequence:  l.nextSeq,
		Turn:      turn,
		Kind:      event.Kind().String(),
		Display:   event.Display(),
		Timestamp: time.Now().UTC(),
		Detail:    detail,
	})
	l.nextSeq++
}

// Entries returns the full history.
func (l *EventLog) Entries() []LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]LogEntry(nil), l.entries...)
}

// EntriesForTurn returns the events committed during one turn.
func (l *EventLog) EntriesForTurn(turn int) []LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []LogEntry
	for _, e := range l.entries {
		if e.Turn == turn {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of recorded events.
func (l *EventLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// MarshalJSON renders the history as a JSON array.
func (l *EventLog) MarshalJSON() ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return json.Marshal(l.entries)
}
