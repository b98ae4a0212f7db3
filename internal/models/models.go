// Package models defines the records persisted by tl.
package models

import "github.com/raminsharifi/time-logging/internal/timeutil"

// State is the state of an active timer.
type State string

const (
	Running State = "running"
	Paused  State = "paused"
)

// Break is an interval excluded from a timer's active time. A nil End means
// the break is still in progress.
type Break struct {
	End   *int64 `json:"end_ts,omitempty"`
	Start int64  `json:"start_ts"`
}

// IsOpen reports whether the break is still in progress.
func (b Break) IsOpen() bool {
	return b.End == nil
}

// Interval returns the break as a start/end pair, using now as the end of
// an open break.
func (b Break) Interval() timeutil.Interval {
	iv := timeutil.Interval{Start: b.Start}
	if b.End != nil {
		iv.End = *b.End
		iv.Closed = true
	}

	return iv
}

// Intervals converts breaks for use with the timeutil arithmetic.
func Intervals(breaks []Break) []timeutil.Interval {
	ivs := make([]timeutil.Interval, len(breaks))
	for i := range breaks {
		ivs[i] = breaks[i].Interval()
	}

	return ivs
}

// ActiveTimer is an in-flight session that has not been stopped.
type ActiveTimer struct {
	TodoID    *int64  `json:"todo_id,omitempty"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	State     State   `json:"state"`
	Breaks    []Break `json:"breaks"`
	ID        int64   `json:"id"`
	StartedAt int64   `json:"started_at"`
}

// IsRunning reports whether the timer is currently running.
func (t *ActiveTimer) IsRunning() bool {
	return t.State == Running
}

// ActiveSeconds returns the active time of the timer at now.
func (t *ActiveTimer) ActiveSeconds(now int64) int64 {
	return timeutil.ActiveSeconds(t.StartedAt, Intervals(t.Breaks), now)
}

// BreakSeconds returns the total break time of the timer at now.
func (t *ActiveTimer) BreakSeconds(now int64) int64 {
	return timeutil.TotalBreakSeconds(Intervals(t.Breaks), now)
}

// Pause opens a new break at ts and marks the timer as paused.
func (t *ActiveTimer) Pause(ts int64) {
	t.Breaks = append(t.Breaks, Break{Start: ts})
	t.State = Paused
}

// Resume closes the trailing break, if it is open, at ts and marks the timer
// as running.
func (t *ActiveTimer) Resume(ts int64) {
	t.closeLastBreak(ts)
	t.State = Running
}

func (t *ActiveTimer) closeLastBreak(ts int64) {
	if len(t.Breaks) == 0 {
		return
	}

	last := &t.Breaks[len(t.Breaks)-1]
	if last.IsOpen() {
		end := max(ts, last.Start)
		last.End = &end
	}
}

// Complete turns the timer into a log entry ending at ts.
func (t *ActiveTimer) Complete(ts int64) *LogEntry {
	breaks := make([]Break, len(t.Breaks))
	copy(breaks, t.Breaks)

	entry := &LogEntry{
		Name:       t.Name,
		Category:   t.Category,
		StartedAt:  t.StartedAt,
		EndedAt:    ts,
		ActiveSecs: t.ActiveSeconds(ts),
		Breaks:     breaks,
		TodoID:     t.TodoID,
	}

	if n := len(entry.Breaks); n > 0 && entry.Breaks[n-1].IsOpen() {
		end := max(ts, entry.Breaks[n-1].Start)
		entry.Breaks[n-1].End = &end
	}

	return entry
}

// LogEntry is the immutable record of a stopped timer.
type LogEntry struct {
	TodoID     *int64  `json:"todo_id,omitempty"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Breaks     []Break `json:"breaks"`
	ID         int64   `json:"id"`
	StartedAt  int64   `json:"started_at"`
	EndedAt    int64   `json:"ended_at"`
	ActiveSecs int64   `json:"active_secs"`
}

// BreakSeconds returns the total break time of the entry.
func (e *LogEntry) BreakSeconds() int64 {
	return timeutil.TotalBreakSeconds(Intervals(e.Breaks), e.EndedAt)
}

// Todo is a task that timers may be linked to.
type Todo struct {
	Text      string `json:"text"`
	ID        int64  `json:"id"`
	CreatedAt int64  `json:"created_at"`
	Done      bool   `json:"done"`
}

// Int64 returns a pointer to v.
func Int64(v int64) *int64 {
	return &v
}
