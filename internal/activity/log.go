// Package activity maintains an append-only, arrival-ordered record of
// job state transitions for operator observability.
package activity

import (
	"sync"
	"time"
)

// Entry is one immutable activity record. ID is unique within its Log
// and exists only for list identity; display order follows timestamps
// and storage order follows arrival.
type Entry struct {
	ID        int64
	Timestamp time.Time
	Kind      string
	Phase     string
	Status    string
	Detail    string
}

// Log is an append-only transition history. Each Log owns its id
// counter, so independent instances never share identity state.
type Log struct {
	mu      sync.Mutex
	next    int64
	entries []Entry
	now     func() time.Time
}

// NewLog returns an empty log. A nil clock defaults to time.Now.
func NewLog(now func() time.Time) *Log {
	if now == nil {
		now = time.Now
	}
	return &Log{now: now}
}

// Append records a transition and returns the stored entry. Prior
// entries are never reordered or removed.
func (l *Log) Append(kind, phase, status, detail string) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next++
	entry := Entry{
		ID:        l.next,
		Timestamp: l.now(),
		Kind:      kind,
		Phase:     phase,
		Status:    status,
		Detail:    detail,
	}
	l.entries = append(l.entries, entry)
	return entry
}

// AppendAt records a transition with an explicit receipt timestamp.
func (l *Log) AppendAt(at time.Time, kind, phase, status, detail string) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next++
	entry := Entry{
		ID:        l.next,
		Timestamp: at,
		Kind:      kind,
		Phase:     phase,
		Status:    status,
		Detail:    detail,
	}
	l.entries = append(l.entries, entry)
	return entry
}

// Clear removes all entries. Invoked only at the start of a new job.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// Len returns the number of stored entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Entries returns a copy of all entries in arrival order.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Tail returns a copy of the most recent n entries in arrival order,
// so that a follow-latest view is simply the tail.
func (l *Log) Tail(n int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n <= 0 || len(l.entries) == 0 {
		return nil
	}
	if n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]Entry, n)
	copy(out, l.entries[len(l.entries)-n:])
	return out
}

// Filter returns entries whose Kind matches any of the given kinds,
// preserving arrival order. No kinds means all entries.
func (l *Log) Filter(kinds ...string) []Entry {
	if len(kinds) == 0 {
		return l.Entries()
	}
	want := make(map[string]struct{}, len(kinds))
	for _, kind := range kinds {
		want[kind] = struct{}{}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Entry
	for _, entry := range l.entries {
		if _, ok := want[entry.Kind]; ok {
			out = append(out, entry)
		}
	}
	return out
}
