package todo

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raminsharifi/time-logging/internal/apperr"
	"github.com/raminsharifi/time-logging/internal/models"
	"github.com/raminsharifi/time-logging/store"
)

func openDB(t *testing.T) store.DB {
	t.Helper()

	db, err := store.Open(store.SQLite, filepath.Join(t.TempDir(), "tl.sqlite"))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

func TestAddDoneRemove(t *testing.T) {
	db := openDB(t)
	now := time.Unix(1_760_000_000, 0)

	_, err := Add(db, "   ", now)
	assert.ErrorIs(t, err, errEmptyText)

	td, err := Add(db, "  fix the login bug ", now)
	require.NoError(t, err)
	assert.Equal(t, "fix the login bug", td.Text)
	assert.Equal(t, now.Unix(), td.CreatedAt)

	done, err := Done(db, td.ID)
	require.NoError(t, err)
	assert.True(t, done.Done)

	_, err = Done(db, td.ID)
	require.NoError(t, err, "marking a done todo again succeeds")

	_, err = Done(db, 99)
	assert.ErrorIs(t, err, errTodoNotFound)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	require.NoError(t, Remove(db, td.ID))

	err = Remove(db, td.ID)
	assert.ErrorIs(t, err, errTodoNotFound)

	items, err := List(db, now)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestTrackedTime(t *testing.T) {
	db := openDB(t)
	now := int64(1_760_000_000)

	first, err := Add(db, "write docs", time.Unix(now, 0))
	require.NoError(t, err)

	second, err := Add(db, "release", time.Unix(now, 0))
	require.NoError(t, err)

	err = db.Update(func(tx store.Tx) error {
		records := []*models.LogEntry{
			{Name: "a", Category: "w", ActiveSecs: 100, TodoID: models.Int64(first.ID)},
			{Name: "b", Category: "w", ActiveSecs: 25, TodoID: models.Int64(first.ID)},
			{Name: "c", Category: "w", ActiveSecs: 999},
		}

		for _, e := range records {
			if err := tx.InsertEntry(e); err != nil {
				return err
			}
		}

		// two in-flight timers linked to the same todo are both counted
		timers := []*models.ActiveTimer{
			{
				Name:      "a",
				Category:  "w",
				StartedAt: now - 60,
				State:     models.Paused,
				Breaks:    []models.Break{{Start: now - 20}},
				TodoID:    models.Int64(first.ID),
			},
			{
				Name:      "a",
				Category:  "w",
				StartedAt: now - 30,
				State:     models.Running,
				TodoID:    models.Int64(first.ID),
			},
		}

		for _, tm := range timers {
			if err := tx.InsertTimer(tm); err != nil {
				return err
			}
		}

		return nil
	})
	require.NoError(t, err)

	err = db.View(func(tx store.Tx) error {
		total, err := TotalSecs(tx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(125), total)

		live, err := ActiveSecs(tx, first.ID, now)
		require.NoError(t, err)
		assert.Equal(t, int64(70), live)

		none, err := TotalSecs(tx, second.ID)
		require.NoError(t, err)
		assert.Zero(t, none)

		return nil
	})
	require.NoError(t, err)

	items, err := List(db, time.Unix(now, 0))
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, int64(125), items[0].TrackedSecs)
	assert.Equal(t, int64(70), items[0].LiveSecs)
	assert.Equal(t, int64(195), items[0].TotalSecs())
	assert.Zero(t, items[1].TotalSecs())
}

func TestOpen(t *testing.T) {
	db := openDB(t)
	now := time.Unix(1_760_000_000, 0)

	for _, text := range []string{"a", "b", "c"} {
		_, err := Add(db, text, now)
		require.NoError(t, err)
	}

	_, err := Done(db, 2)
	require.NoError(t, err)

	err = db.View(func(tx store.Tx) error {
		open, err := Open(tx)
		require.NoError(t, err)

		var texts []string
		for _, td := range open {
			texts = append(texts, td.Text)
		}

		assert.Equal(t, []string{"a", "c"}, texts)

		return nil
	})
	require.NoError(t, err)
}
