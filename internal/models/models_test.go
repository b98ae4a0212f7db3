package models

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTimerLifecycle(t *testing.T) {
	timer := &ActiveTimer{
		Name:      "coding",
		Category:  "work",
		StartedAt: 0,
		State:     Running,
	}

	timer.Pause(100)

	if timer.IsRunning() {
		t.Fatal("expected timer to be paused")
	}

	if !timer.Breaks[0].IsOpen() {
		t.Fatal("expected pause to open a break")
	}

	if got := timer.BreakSeconds(120); got != 20 {
		t.Fatalf("expected open break to count up to now, got %d", got)
	}

	timer.Resume(150)

	entry := timer.Complete(200)

	want := &LogEntry{
		Name:       "coding",
		Category:   "work",
		StartedAt:  0,
		EndedAt:    200,
		ActiveSecs: 150,
		Breaks:     []Break{{Start: 100, End: Int64(150)}},
	}

	if diff := cmp.Diff(want, entry); diff != "" {
		t.Fatalf("log entry mismatch (-want +got):\n%s", diff)
	}

	if got := entry.BreakSeconds(); got != 50 {
		t.Fatalf("expected 50 break seconds, got %d", got)
	}
}

func TestCompleteClosesTrailingBreak(t *testing.T) {
	timer := &ActiveTimer{StartedAt: 0, State: Running}
	timer.Pause(40)

	entry := timer.Complete(100)

	if entry.Breaks[0].IsOpen() {
		t.Fatal("expected trailing break to be closed on completion")
	}

	if entry.ActiveSecs != 40 {
		t.Fatalf("expected 40 active seconds, got %d", entry.ActiveSecs)
	}

	if !timer.Breaks[0].IsOpen() {
		t.Fatal("expected the timer's own breaks to be left untouched")
	}

	if entry.ActiveSecs+entry.BreakSeconds() != entry.EndedAt-entry.StartedAt {
		t.Fatal("expected active and break time to partition the session")
	}
}

func TestResumeWithoutOpenBreak(t *testing.T) {
	timer := &ActiveTimer{
		StartedAt: 0,
		State:     Paused,
		Breaks:    []Break{{Start: 10, End: Int64(20)}},
	}

	timer.Resume(30)

	if diff := cmp.Diff([]Break{{Start: 10, End: Int64(20)}}, timer.Breaks); diff != "" {
		t.Fatalf("closed breaks must not change (-want +got):\n%s", diff)
	}

	if !timer.IsRunning() {
		t.Fatal("expected timer to be running")
	}
}
