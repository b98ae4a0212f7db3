// Package timeutil provides utility functions and types for working with
// time-related operations.
package timeutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

const (
	secondsInAMinute = 60
	secondsInAnHour  = 3600
)

// Interval is a span of whole epoch seconds. An interval that is not Closed
// is still in progress.
type Interval struct {
	Start  int64
	End    int64
	Closed bool
}

// TotalBreakSeconds sums the length of every interval, using now as the end
// of intervals that are still in progress.
func TotalBreakSeconds(breaks []Interval, now int64) int64 {
	var total int64

	for _, b := range breaks {
		end := now
		if b.Closed {
			end = b.End
		}

		total += end - b.Start
	}

	return total
}

// ActiveSeconds returns the time elapsed since startedAt minus the time spent
// in breaks. The result is never negative.
func ActiveSeconds(startedAt int64, breaks []Interval, now int64) int64 {
	return max(0, (now-startedAt)-TotalBreakSeconds(breaks, now))
}

// FormatSeconds renders a number of seconds as "1h 02m 03s", "4m 05s" or
// "6s".
func FormatSeconds(secs int64) string {
	if secs < 0 {
		secs = 0
	}

	h := secs / secondsInAnHour
	m := (secs % secondsInAnHour) / secondsInAMinute
	s := secs % secondsInAMinute

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// StartOfDay resets the given time to the start of the day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		0,
		0,
		0,
		0,
		t.Location(),
	)
}

// FromStr parses a natural-language or absolute date expression relative to
// now, e.g. "yesterday", "3 days ago" or "2026-01-02 09:00".
func FromStr(expr string, now time.Time) (time.Time, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return time.Time{}, errEmptyExpr
	}

	cfg := &dateparser.Configuration{
		CurrentTime: now,
	}

	dt, err := dateparser.Parse(cfg, expr)
	if err != nil {
		return time.Time{}, errInvalidExpr.Fmt(expr)
	}

	return dt.Time, nil
}
