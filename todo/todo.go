// Package todo manages todo items and aggregates the time tracked against
// them.
//
// Nothing stops a todo from being linked to several timers at once. Totals
// simply sum over every linked record.
package todo

import (
	"log/slog"
	"strings"
	"time"

	"github.com/raminsharifi/time-logging/internal/models"
	"github.com/raminsharifi/time-logging/store"
)

// Item is a todo together with the time tracked against it.
type Item struct {
	*models.Todo

	// TrackedSecs is the active time of stopped timers linked to the todo.
	TrackedSecs int64 `json:"tracked_secs"`

	// LiveSecs is the active time, so far, of timers still in flight.
	LiveSecs int64 `json:"live_secs"`
}

// TotalSecs returns the sum of all active seconds tracked against the todo.
func (i Item) TotalSecs() int64 {
	return i.TrackedSecs + i.LiveSecs
}

// Add creates a new todo.
func Add(db store.DB, text string, now time.Time) (*models.Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errEmptyText
	}

	t := &models.Todo{
		Text:      text,
		CreatedAt: now.Unix(),
	}

	err := db.Update(func(tx store.Tx) error {
		return tx.InsertTodo(t)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("todo added", slog.Int64("id", t.ID), slog.String("text", t.Text))

	return t, nil
}

// List returns every todo ordered by id, with its tracked time computed at
// now.
func List(db store.DB, now time.Time) ([]Item, error) {
	var items []Item

	err := db.View(func(tx store.Tx) error {
		todos, err := tx.Todos()
		if err != nil {
			return err
		}

		entries, err := tx.Entries(store.EntryFilter{})
		if err != nil {
			return err
		}

		timers, err := tx.ActiveTimers()
		if err != nil {
			return err
		}

		tracked := make(map[int64]int64)

		for _, e := range entries {
			if e.TodoID != nil {
				tracked[*e.TodoID] += e.ActiveSecs
			}
		}

		live := make(map[int64]int64)

		for _, t := range timers {
			if t.TodoID != nil {
				live[*t.TodoID] += t.ActiveSeconds(now.Unix())
			}
		}

		items = make([]Item, len(todos))
		for i, t := range todos {
			items[i] = Item{
				Todo:        t,
				TrackedSecs: tracked[t.ID],
				LiveSecs:    live[t.ID],
			}
		}

		return nil
	})

	return items, err
}

// Done marks a todo as done. Marking a finished todo again is not an error.
func Done(db store.DB, id int64) (*models.Todo, error) {
	var t *models.Todo

	err := db.Update(func(tx store.Tx) error {
		ok, err := tx.MarkTodoDone(id)
		if err != nil {
			return err
		}

		if !ok {
			return errTodoNotFound.Fmt(id)
		}

		t, err = tx.Todo(id)

		return err
	})
	if err != nil {
		return nil, err
	}

	slog.Info("todo done", slog.Int64("id", id))

	return t, nil
}

// Remove deletes a todo. Log entries that reference it keep the id.
func Remove(db store.DB, id int64) error {
	err := db.Update(func(tx store.Tx) error {
		ok, err := tx.DeleteTodo(id)
		if err != nil {
			return err
		}

		if !ok {
			return errTodoNotFound.Fmt(id)
		}

		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("todo removed", slog.Int64("id", id))

	return nil
}

// TotalSecs sums the active seconds of every log entry linked to the todo.
func TotalSecs(tx store.Tx, id int64) (int64, error) {
	entries, err := tx.Entries(store.EntryFilter{})
	if err != nil {
		return 0, err
	}

	var total int64

	for _, e := range entries {
		if e.TodoID != nil && *e.TodoID == id {
			total += e.ActiveSecs
		}
	}

	return total, nil
}

// ActiveSecs sums the active seconds at now of every active timer linked to
// the todo.
func ActiveSecs(tx store.Tx, id, now int64) (int64, error) {
	timers, err := tx.ActiveTimers()
	if err != nil {
		return 0, err
	}

	var total int64

	for _, t := range timers {
		if t.TodoID != nil && *t.TodoID == id {
			total += t.ActiveSeconds(now)
		}
	}

	return total, nil
}

// Open returns the todos that are not done, ordered by id.
func Open(tx store.Tx) ([]*models.Todo, error) {
	todos, err := tx.Todos()
	if err != nil {
		return nil, err
	}

	open := todos[:0]

	for _, t := range todos {
		if !t.Done {
			open = append(open, t)
		}
	}

	return open, nil
}
