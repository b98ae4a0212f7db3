// Package timer operates the active timers: starting, stopping, pausing,
// resuming and switching between them. At most one timer runs at a time; any
// number may be paused.
//
// Interactive input is always collected before anything is written, and the
// writes of each operation happen in a single store transaction that
// re-reads the records it changes.
package timer

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/raminsharifi/time-logging/internal/apperr"
	"github.com/raminsharifi/time-logging/internal/models"
	"github.com/raminsharifi/time-logging/internal/timeutil"
	"github.com/raminsharifi/time-logging/store"
	"github.com/raminsharifi/time-logging/todo"
)

// Prompter asks the user for input. Implementations return
// apperr.ErrUserAborted when the user cancels a prompt.
type Prompter interface {
	Confirm(title string) (bool, error)
	Select(title string, options []string, def int) (int, error)
	Input(title, def string) (string, error)
}

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Tracker runs timer operations against a store.
type Tracker struct {
	db              store.DB
	prompt          Prompter
	clock           Clock
	defaultCategory string
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(t *Tracker) {
		t.clock = c
	}
}

// WithDefaultCategory sets the category used when the category prompt is
// left empty.
func WithDefaultCategory(category string) Option {
	return func(t *Tracker) {
		t.defaultCategory = strings.TrimSpace(category)
	}
}

// New returns a Tracker backed by db.
func New(db store.DB, p Prompter, opts ...Option) *Tracker {
	t := &Tracker{
		db:     db,
		prompt: p,
		clock:  systemClock{},
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

func (t *Tracker) now() int64 {
	return t.clock.Now().Unix()
}

// StartResult is the outcome of Start.
type StartResult struct {
	// Timer is the new running timer.
	Timer *models.ActiveTimer

	// Paused is the timer that was running before, if any.
	Paused *models.ActiveTimer

	// Todo is the todo the new timer is linked to, if any.
	Todo *models.Todo

	Aborted bool
}

// StopResult is the outcome of Stop.
type StopResult struct {
	Entry     *models.LogEntry
	Todo      *models.Todo
	BreakSecs int64
	TodoDone  bool
}

// ResumeResult is the outcome of Resume.
type ResumeResult struct {
	Timer   *models.ActiveTimer
	Aborted bool
}

// SwitchResult is the outcome of Switch. Nothing is set when there was no
// paused timer to switch to.
type SwitchResult struct {
	Paused  *models.ActiveTimer
	Resumed *models.ActiveTimer
	Nothing bool
	Aborted bool
}

// TimerStatus is an active timer with its durations computed at a single
// instant.
type TimerStatus struct {
	Timer *models.ActiveTimer `json:"timer"`

	// Todo is nil when the timer is not linked or the todo no longer exists.
	Todo       *models.Todo `json:"todo,omitempty"`
	ActiveSecs int64        `json:"active_secs"`
	BreakSecs  int64        `json:"break_secs"`
}

// LogLine is a log entry with its break total.
type LogLine struct {
	Entry     *models.LogEntry `json:"entry"`
	BreakSecs int64            `json:"break_secs"`
}

func aborted(err error) bool {
	return errors.Is(err, apperr.ErrUserAborted)
}

// Start creates a new running timer. A running timer is paused first, but
// only once the user confirms; declining aborts without any change.
func (t *Tracker) Start() (*StartResult, error) {
	var (
		running *models.ActiveTimer
		open    []*models.Todo
	)

	err := t.db.View(func(tx store.Tx) error {
		var err error

		running, err = tx.RunningTimer()
		if err != nil {
			return err
		}

		open, err = todo.Open(tx)

		return err
	})
	if err != nil {
		return nil, err
	}

	if running != nil {
		ok, err := t.prompt.Confirm(
			fmt.Sprintf("%q is running. Pause it and start a new timer?", running.Name),
		)
		if aborted(err) || (err == nil && !ok) {
			slog.Info("start aborted", slog.Int64("running_id", running.ID))
			return &StartResult{Aborted: true}, nil
		}

		if err != nil {
			return nil, err
		}
	}

	linked, err := t.pickTodo(open)
	if aborted(err) {
		return &StartResult{Aborted: true}, nil
	}

	if err != nil {
		return nil, err
	}

	var name string
	if linked != nil {
		name = linked.Text
	} else {
		name, err = t.prompt.Input("Activity name", "")
		if aborted(err) {
			return &StartResult{Aborted: true}, nil
		}

		if err != nil {
			return nil, err
		}
	}

	category, err := t.prompt.Input("Category", t.defaultCategory)
	if aborted(err) {
		return &StartResult{Aborted: true}, nil
	}

	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errEmptyName
	}

	category = strings.TrimSpace(category)
	if category == "" {
		category = t.defaultCategory
	}

	if category == "" {
		return nil, errEmptyCategory
	}

	now := t.now()

	res := &StartResult{
		Timer: &models.ActiveTimer{
			Name:      name,
			Category:  category,
			StartedAt: now,
			State:     models.Running,
		},
		Todo: linked,
	}

	if linked != nil {
		res.Timer.TodoID = models.Int64(linked.ID)
	}

	err = t.db.Update(func(tx store.Tx) error {
		current, err := tx.RunningTimer()
		if err != nil {
			return err
		}

		if current != nil {
			if running == nil || current.ID != running.ID {
				return errTimersChanged
			}

			current.Pause(now)

			if err := tx.UpdateTimer(current); err != nil {
				return err
			}

			res.Paused = current
		}

		return tx.InsertTimer(res.Timer)
	})
	if err != nil {
		return nil, err
	}

	if res.Paused != nil {
		slog.Info(
			"timer paused",
			slog.Int64("id", res.Paused.ID),
			slog.Int64("at", now),
		)
	}

	slog.Info(
		"timer started",
		slog.Int64("id", res.Timer.ID),
		slog.String("name", res.Timer.Name),
		slog.String("category", res.Timer.Category),
		slog.Int64("at", now),
	)

	return res, nil
}

// pickTodo offers the open todos for linking. It returns nil when there are
// none or the user picks no todo.
func (t *Tracker) pickTodo(open []*models.Todo) (*models.Todo, error) {
	if len(open) == 0 {
		return nil, nil
	}

	options := make([]string, 0, len(open)+1)
	for _, td := range open {
		options = append(options, fmt.Sprintf("#%d %s", td.ID, td.Text))
	}

	options = append(options, "None")

	idx, err := t.prompt.Select("Link to a todo?", options, len(open))
	if err != nil {
		return nil, err
	}

	if idx < 0 || idx >= len(open) {
		return nil, nil
	}

	return open[idx], nil
}

// Stop turns the running timer into a log entry. If the timer is linked to a
// todo that is still open, the user is asked whether to mark it as done.
func (t *Tracker) Stop() (*StopResult, error) {
	now := t.now()

	res := &StopResult{}

	err := t.db.Update(func(tx store.Tx) error {
		running, err := tx.RunningTimer()
		if err != nil {
			return err
		}

		if running == nil {
			return errNoRunningTimer
		}

		entry := running.Complete(now)

		if err := tx.InsertEntry(entry); err != nil {
			return err
		}

		if _, err := tx.DeleteTimer(running.ID); err != nil {
			return err
		}

		res.Entry = entry
		res.BreakSecs = entry.BreakSeconds()

		if running.TodoID != nil {
			res.Todo, err = tx.Todo(*running.TodoID)
		}

		return err
	})
	if err != nil {
		return nil, err
	}

	slog.Info(
		"timer stopped",
		slog.Int64("entry_id", res.Entry.ID),
		slog.String("name", res.Entry.Name),
		slog.Int64("active_secs", res.Entry.ActiveSecs),
		slog.Int64("break_secs", res.BreakSecs),
		slog.Int64("at", now),
	)

	if res.Todo == nil || res.Todo.Done {
		return res, nil
	}

	ok, err := t.prompt.Confirm(fmt.Sprintf("Mark todo #%d as done?", res.Todo.ID))
	if aborted(err) || (err == nil && !ok) {
		return res, nil
	}

	if err != nil {
		return res, err
	}

	err = t.db.Update(func(tx store.Tx) error {
		var err error

		res.TodoDone, err = tx.MarkTodoDone(res.Todo.ID)

		return err
	})
	if err != nil {
		return res, err
	}

	if res.TodoDone {
		res.Todo.Done = true

		slog.Info("todo done", slog.Int64("id", res.Todo.ID))
	}

	return res, nil
}

// Pause opens a break on the running timer.
func (t *Tracker) Pause() (*models.ActiveTimer, error) {
	now := t.now()

	var paused *models.ActiveTimer

	err := t.db.Update(func(tx store.Tx) error {
		running, err := tx.RunningTimer()
		if err != nil {
			return err
		}

		if running == nil {
			return errNoRunningTimer
		}

		running.Pause(now)

		paused = running

		return tx.UpdateTimer(running)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("timer paused", slog.Int64("id", paused.ID), slog.Int64("at", now))

	return paused, nil
}

// Resume continues a paused timer. It never pauses a running timer: that is
// a conflict. With several paused timers, the user picks one.
func (t *Tracker) Resume() (*ResumeResult, error) {
	var paused []*models.ActiveTimer

	err := t.db.View(func(tx store.Tx) error {
		timers, err := tx.ActiveTimers()
		if err != nil {
			return err
		}

		for _, tm := range timers {
			if tm.IsRunning() {
				return errAlreadyRunning.Fmt(tm.Name)
			}

			paused = append(paused, tm)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(paused) == 0 {
		return nil, errNoPausedTimers
	}

	target := paused[0]

	if len(paused) > 1 {
		idx, err := t.prompt.Select(
			"Which timer to resume?",
			timerOptions(paused, t.now()),
			0,
		)
		if aborted(err) {
			return &ResumeResult{Aborted: true}, nil
		}

		if err != nil {
			return nil, err
		}

		if idx < 0 || idx >= len(paused) {
			return nil, errInvalidSelection.Fmt(idx)
		}

		target = paused[idx]
	}

	now := t.now()

	res := &ResumeResult{}

	err = t.db.Update(func(tx store.Tx) error {
		running, err := tx.RunningTimer()
		if err != nil {
			return err
		}

		if running != nil {
			return errAlreadyRunning.Fmt(running.Name)
		}

		tm, err := tx.ActiveTimer(target.ID)
		if err != nil {
			return err
		}

		if tm == nil {
			return errTimersChanged
		}

		tm.Resume(now)

		res.Timer = tm

		return tx.UpdateTimer(tm)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("timer resumed", slog.Int64("id", res.Timer.ID), slog.Int64("at", now))

	return res, nil
}

// Switch pauses the running timer, without asking, and resumes a paused
// timer picked by the user. Having no paused timer is not an error.
func (t *Tracker) Switch() (*SwitchResult, error) {
	var paused []*models.ActiveTimer

	err := t.db.View(func(tx store.Tx) error {
		timers, err := tx.ActiveTimers()
		if err != nil {
			return err
		}

		for _, tm := range timers {
			if !tm.IsRunning() {
				paused = append(paused, tm)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(paused) == 0 {
		return &SwitchResult{Nothing: true}, nil
	}

	idx, err := t.prompt.Select(
		"Switch to which timer?",
		timerOptions(paused, t.now()),
		0,
	)
	if aborted(err) {
		return &SwitchResult{Aborted: true}, nil
	}

	if err != nil {
		return nil, err
	}

	if idx < 0 || idx >= len(paused) {
		return nil, errInvalidSelection.Fmt(idx)
	}

	target := paused[idx]

	now := t.now()

	res := &SwitchResult{}

	err = t.db.Update(func(tx store.Tx) error {
		running, err := tx.RunningTimer()
		if err != nil {
			return err
		}

		tm, err := tx.ActiveTimer(target.ID)
		if err != nil {
			return err
		}

		if tm == nil || tm.IsRunning() {
			return errTimersChanged
		}

		if running != nil {
			running.Pause(now)

			if err := tx.UpdateTimer(running); err != nil {
				return err
			}

			res.Paused = running
		}

		tm.Resume(now)

		res.Resumed = tm

		return tx.UpdateTimer(tm)
	})
	if err != nil {
		return nil, err
	}

	attrs := []any{
		slog.Int64("resumed_id", res.Resumed.ID),
		slog.Int64("at", now),
	}

	if res.Paused != nil {
		attrs = append(attrs, slog.Int64("paused_id", res.Paused.ID))
	}

	slog.Info("timer switched", attrs...)

	return res, nil
}

// timerOptions labels timers for a selection prompt, in the given order.
func timerOptions(timers []*models.ActiveTimer, now int64) []string {
	options := make([]string, len(timers))

	for i, tm := range timers {
		options[i] = fmt.Sprintf(
			"#%d %q [%s] (active: %s)",
			tm.ID,
			tm.Name,
			tm.Category,
			timeutil.FormatSeconds(tm.ActiveSeconds(now)),
		)
	}

	return options
}

// Status reports every active timer ordered by id. It never writes.
func (t *Tracker) Status() ([]TimerStatus, error) {
	now := t.now()

	var statuses []TimerStatus

	err := t.db.View(func(tx store.Tx) error {
		timers, err := tx.ActiveTimers()
		if err != nil {
			return err
		}

		statuses = make([]TimerStatus, len(timers))

		for i, tm := range timers {
			statuses[i] = TimerStatus{
				Timer:      tm,
				ActiveSecs: tm.ActiveSeconds(now),
				BreakSecs:  tm.BreakSeconds(now),
			}

			if tm.TodoID != nil {
				statuses[i].Todo, err = tx.Todo(*tm.TodoID)
				if err != nil {
					return err
				}
			}
		}

		return nil
	})

	return statuses, err
}

// Log lists the log entries started at or after since, ordered by id. A zero
// since lists everything.
func (t *Tracker) Log(since time.Time) ([]LogLine, error) {
	var lines []LogLine

	err := t.db.View(func(tx store.Tx) error {
		entries, err := tx.Entries(store.EntryFilter{Since: since})
		if err != nil {
			return err
		}

		lines = make([]LogLine, len(entries))
		for i, e := range entries {
			lines[i] = LogLine{
				Entry:     e,
				BreakSecs: e.BreakSeconds(),
			}
		}

		return nil
	})

	return lines, err
}

// Rm deletes a log entry.
func (t *Tracker) Rm(id int64) error {
	err := t.db.Update(func(tx store.Tx) error {
		ok, err := tx.DeleteEntry(id)
		if err != nil {
			return err
		}

		if !ok {
			return errEntryNotFound.Fmt(id)
		}

		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("log entry removed", slog.Int64("id", id))

	return nil
}
