package activity

import (
	"fmt"
	"testing"
	"time"

	"parley/internal/testutil"
)

// TestLogAppendPreservesOrder verifies entries come back in arrival order.
func TestLogAppendPreservesOrder(t *testing.T) {
	log := NewLog(nil)
	for i := 0; i < 10; i++ {
		log.Append("agent", "lane_a", "streaming", fmt.Sprintf("entry %d", i))
	}
	entries := log.Entries()
	if len(entries) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(entries))
	}
	for i, entry := range entries {
		if entry.Detail != fmt.Sprintf("entry %d", i) {
			t.Fatalf("entry %d out of order: %q", i, entry.Detail)
		}
		if entry.ID != int64(i+1) {
			t.Fatalf("entry %d: expected id %d, got %d", i, i+1, entry.ID)
		}
	}
}

// TestLogUsesInjectedClock verifies timestamps come from the clock.
func TestLogUsesInjectedClock(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := testutil.NewFakeClock(start)
	log := NewLog(clock.Now)

	first := log.Append("conference", "", "running", "started")
	clock.Advance(3 * time.Second)
	second := log.Append("routing", "routing", "complete", "routed")

	if !first.Timestamp.Equal(start) {
		t.Fatalf("expected %v, got %v", start, first.Timestamp)
	}
	if got := second.Timestamp.Sub(first.Timestamp); got != 3*time.Second {
		t.Fatalf("expected 3s apart, got %v", got)
	}
}

// TestLogAppendAt verifies explicit timestamps are stored as given.
func TestLogAppendAt(t *testing.T) {
	log := NewLog(nil)
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	entry := log.AppendAt(at, "agent", "lane_b", "complete", "theorist complete")
	if !entry.Timestamp.Equal(at) {
		t.Fatalf("expected %v, got %v", at, entry.Timestamp)
	}
}

// TestLogIndependentCounters verifies separate logs never share ids.
func TestLogIndependentCounters(t *testing.T) {
	a := NewLog(nil)
	b := NewLog(nil)
	a.Append("conference", "", "running", "a1")
	a.Append("conference", "", "running", "a2")
	if got := b.Append("conference", "", "running", "b1").ID; got != 1 {
		t.Fatalf("expected fresh counter, got id %d", got)
	}
}

// TestLogClear verifies clearing empties the log but keeps it usable.
func TestLogClear(t *testing.T) {
	log := NewLog(nil)
	log.Append("agent", "lane_a", "thinking", "x")
	log.Clear()
	if log.Len() != 0 {
		t.Fatalf("expected empty log, got %d entries", log.Len())
	}
	log.Append("agent", "lane_a", "thinking", "y")
	if log.Len() != 1 {
		t.Fatalf("expected 1 entry after reuse, got %d", log.Len())
	}
}

// TestLogTail verifies the tail keeps arrival order and bounds.
func TestLogTail(t *testing.T) {
	log := NewLog(nil)
	for i := 0; i < 5; i++ {
		log.Append("agent", "", "", fmt.Sprintf("e%d", i))
	}
	tail := log.Tail(2)
	if len(tail) != 2 || tail[0].Detail != "e3" || tail[1].Detail != "e4" {
		t.Fatalf("unexpected tail: %+v", tail)
	}
	if got := log.Tail(100); len(got) != 5 {
		t.Fatalf("expected full log, got %d", len(got))
	}
	if got := log.Tail(0); got != nil {
		t.Fatalf("expected nil tail, got %+v", got)
	}
}

// TestLogFilter verifies kind filtering preserves arrival order.
func TestLogFilter(t *testing.T) {
	log := NewLog(nil)
	log.Append("conference", "", "running", "started")
	log.Append("agent", "lane_a", "thinking", "empiricist")
	log.Append("routing", "routing", "complete", "routed")
	log.Append("agent", "lane_b", "thinking", "theorist")

	agents := log.Filter("agent")
	if len(agents) != 2 || agents[0].Detail != "empiricist" || agents[1].Detail != "theorist" {
		t.Fatalf("unexpected filter result: %+v", agents)
	}
	if got := log.Filter(); len(got) != 4 {
		t.Fatalf("expected all entries, got %d", len(got))
	}
	if got := log.Filter("fragility"); len(got) != 0 {
		t.Fatalf("expected no entries, got %d", len(got))
	}
}

// TestLogEntriesReturnsCopy verifies callers cannot mutate stored entries.
func TestLogEntriesReturnsCopy(t *testing.T) {
	log := NewLog(nil)
	log.Append("agent", "", "", "original")
	entries := log.Entries()
	entries[0].Detail = "mutated"
	if log.Entries()[0].Detail != "original" {
		t.Fatalf("stored entry mutated through snapshot")
	}
}
