package timer

import (
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raminsharifi/time-logging/internal/apperr"
	"github.com/raminsharifi/time-logging/internal/models"
	"github.com/raminsharifi/time-logging/internal/testutil"
	"github.com/raminsharifi/time-logging/internal/timeutil"
	"github.com/raminsharifi/time-logging/store"
	"github.com/raminsharifi/time-logging/todo"
)

const base = int64(1_760_000_000)

type fixture struct {
	db      store.DB
	clock   *testutil.Clock
	prompt  *testutil.Prompter
	tracker *Tracker
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	db, err := store.Open(store.Bolt, filepath.Join(t.TempDir(), "tl.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})

	f := &fixture{
		db:     db,
		clock:  testutil.NewClock(base),
		prompt: &testutil.Prompter{T: t},
	}

	opts = append([]Option{WithClock(f.clock)}, opts...)
	f.tracker = New(db, f.prompt, opts...)

	return f
}

func (f *fixture) timers(t *testing.T) []*models.ActiveTimer {
	t.Helper()

	var timers []*models.ActiveTimer

	err := f.db.View(func(tx store.Tx) error {
		var err error

		timers, err = tx.ActiveTimers()

		return err
	})
	require.NoError(t, err)

	return timers
}

func (f *fixture) start(t *testing.T, at int64, name, category string) *StartResult {
	t.Helper()

	f.clock.Set(at)
	f.prompt.Inputs = []string{name, category}

	res, err := f.tracker.Start()
	require.NoError(t, err)
	require.False(t, res.Aborted)

	return res
}

func runningCount(timers []*models.ActiveTimer) int {
	var n int

	for _, tm := range timers {
		if tm.IsRunning() {
			n++
		}
	}

	return n
}

func TestPauseResumeStop(t *testing.T) {
	f := newFixture(t)

	started := f.start(t, base, "coding", "work")
	assert.Nil(t, started.Paused)
	assert.Equal(t, models.Running, started.Timer.State)
	assert.Equal(t, base, started.Timer.StartedAt)

	f.clock.Set(base + 100)

	paused, err := f.tracker.Pause()
	require.NoError(t, err)
	assert.Equal(t, models.Paused, paused.State)
	require.Len(t, paused.Breaks, 1)
	assert.True(t, paused.Breaks[0].IsOpen())

	f.clock.Set(base + 150)

	resumed, err := f.tracker.Resume()
	require.NoError(t, err)
	assert.Equal(t, started.Timer.ID, resumed.Timer.ID)
	assert.Equal(t, models.Running, resumed.Timer.State)

	f.clock.Set(base + 200)

	stopped, err := f.tracker.Stop()
	require.NoError(t, err)

	want := &models.LogEntry{
		ID:         stopped.Entry.ID,
		Name:       "coding",
		Category:   "work",
		StartedAt:  base,
		EndedAt:    base + 200,
		ActiveSecs: 150,
		Breaks: []models.Break{
			{Start: base + 100, End: models.Int64(base + 150)},
		},
	}
	if diff := cmp.Diff(want, stopped.Entry); diff != "" {
		t.Fatalf("entry mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, int64(50), stopped.BreakSecs)
	assert.Empty(t, f.timers(t))

	lines, err := f.tracker.Log(time.Time{})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(150), lines[0].Entry.ActiveSecs)
	assert.Equal(t, int64(50), lines[0].BreakSecs)
}

func TestSwitch(t *testing.T) {
	f := newFixture(t)

	first := f.start(t, base, "coding", "work")

	f.prompt.Confirms = []bool{true}
	second := f.start(t, base+10, "review", "work")
	require.NotNil(t, second.Paused)
	assert.Equal(t, first.Timer.ID, second.Paused.ID)

	f.clock.Set(base + 20)
	f.prompt.Selects = []int{0}

	res, err := f.tracker.Switch()
	require.NoError(t, err)
	assert.False(t, res.Nothing)

	require.NotNil(t, res.Paused)
	assert.Equal(t, second.Timer.ID, res.Paused.ID)
	assert.Equal(t, models.Paused, res.Paused.State)
	assert.Equal(t, []models.Break{{Start: base + 20}}, res.Paused.Breaks)

	assert.Equal(t, first.Timer.ID, res.Resumed.ID)
	assert.Equal(t, models.Running, res.Resumed.State)
	assert.Equal(
		t,
		[]models.Break{{Start: base + 10, End: models.Int64(base + 20)}},
		res.Resumed.Breaks,
	)

	timers := f.timers(t)
	require.Len(t, timers, 2)
	assert.Equal(t, 1, runningCount(timers))
	assert.True(t, timers[0].IsRunning())
}

func TestSwitchOffersPausedTimersInIDOrder(t *testing.T) {
	f := newFixture(t)

	f.start(t, base, "a", "x")

	f.prompt.Confirms = []bool{true}
	f.start(t, base+1, "b", "x")

	f.prompt.Confirms = []bool{true}
	f.start(t, base+2, "c", "x")

	f.clock.Set(base + 3)
	f.prompt.Selects = []int{1}

	res, err := f.tracker.Switch()
	require.NoError(t, err)

	require.Len(t, f.prompt.Options, 1)
	require.Len(t, f.prompt.Options[0], 2)
	assert.Contains(t, f.prompt.Options[0][0], `"a"`)
	assert.Contains(t, f.prompt.Options[0][1], `"b"`)
	assert.Equal(t, "b", res.Resumed.Name)
	assert.Equal(t, "c", res.Paused.Name)
}

func TestSwitchWithNothingPaused(t *testing.T) {
	f := newFixture(t)

	res, err := f.tracker.Switch()
	require.NoError(t, err)
	assert.True(t, res.Nothing)

	f.start(t, base, "coding", "work")

	res, err = f.tracker.Switch()
	require.NoError(t, err)
	assert.True(t, res.Nothing)
	assert.Equal(t, 1, runningCount(f.timers(t)))
}

func TestSwitchPromptsForSinglePausedTimer(t *testing.T) {
	f := newFixture(t)

	f.start(t, base, "coding", "work")

	f.clock.Set(base + 5)

	_, err := f.tracker.Pause()
	require.NoError(t, err)

	f.prompt.Selects = []int{0}

	res, err := f.tracker.Switch()
	require.NoError(t, err)
	assert.Nil(t, res.Paused)
	assert.Equal(t, "coding", res.Resumed.Name)
	assert.Len(t, f.prompt.Options, 1)
}

func TestResumeErrors(t *testing.T) {
	f := newFixture(t)

	_, err := f.tracker.Resume()
	require.ErrorIs(t, err, errNoPausedTimers)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Empty(t, f.timers(t))

	f.start(t, base, "coding", "work")

	_, err = f.tracker.Resume()
	require.ErrorIs(t, err, errAlreadyRunning)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestResumeSelectsAmongPausedTimers(t *testing.T) {
	f := newFixture(t)

	f.start(t, base, "a", "x")

	f.prompt.Confirms = []bool{true}
	f.start(t, base+10, "b", "x")

	f.clock.Set(base + 20)

	_, err := f.tracker.Pause()
	require.NoError(t, err)

	f.clock.Set(base + 30)
	f.prompt.Selects = []int{1}

	res, err := f.tracker.Resume()
	require.NoError(t, err)
	assert.Equal(t, "b", res.Timer.Name)
	assert.Equal(t, int64(base+30), *res.Timer.Breaks[0].End)
}

func TestNoRunningTimer(t *testing.T) {
	f := newFixture(t)

	_, err := f.tracker.Stop()
	assert.ErrorIs(t, err, errNoRunningTimer)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = f.tracker.Pause()
	assert.ErrorIs(t, err, errNoRunningTimer)

	f.start(t, base, "coding", "work")

	_, err = f.tracker.Pause()
	require.NoError(t, err)

	_, err = f.tracker.Stop()
	assert.ErrorIs(t, err, errNoRunningTimer)
	assert.Len(t, f.timers(t), 1)
}

func TestStartDeclined(t *testing.T) {
	f := newFixture(t)

	f.start(t, base, "coding", "work")
	before := f.timers(t)

	f.clock.Set(base + 60)
	f.prompt.Confirms = []bool{false}

	res, err := f.tracker.Start()
	require.NoError(t, err)
	assert.True(t, res.Aborted)

	if diff := cmp.Diff(before, f.timers(t)); diff != "" {
		t.Fatalf("declined start changed the timers (-want +got):\n%s", diff)
	}
}

type abortingPrompter struct{}

func (abortingPrompter) Confirm(string) (bool, error) {
	return false, apperr.ErrUserAborted
}

func (abortingPrompter) Select(string, []string, int) (int, error) {
	return 0, apperr.ErrUserAborted
}

func (abortingPrompter) Input(string, string) (string, error) {
	return "", apperr.ErrUserAborted
}

func TestStartCancelled(t *testing.T) {
	f := newFixture(t)

	tracker := New(f.db, abortingPrompter{}, WithClock(f.clock))

	res, err := tracker.Start()
	require.NoError(t, err)
	assert.True(t, res.Aborted)
	assert.Empty(t, f.timers(t))
}

func TestStartValidation(t *testing.T) {
	f := newFixture(t)

	f.prompt.Inputs = []string{"   ", "work"}

	_, err := f.tracker.Start()
	assert.ErrorIs(t, err, errEmptyName)
	assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err))

	f.prompt.Inputs = []string{"coding", " "}

	_, err = f.tracker.Start()
	assert.ErrorIs(t, err, errEmptyCategory)
	assert.Empty(t, f.timers(t))
}

func TestStartDefaultCategory(t *testing.T) {
	f := newFixture(t, WithDefaultCategory("work"))

	res := f.start(t, base, "coding", "")
	assert.Equal(t, "work", res.Timer.Category)
}

func TestTodoLinkedStop(t *testing.T) {
	f := newFixture(t)

	for _, text := range []string{"write docs", "fix the login bug", "release"} {
		_, err := todo.Add(f.db, text, time.Unix(base, 0))
		require.NoError(t, err)
	}

	f.prompt.Selects = []int{2}
	f.prompt.Inputs = []string{"work"}

	started, err := f.tracker.Start()
	require.NoError(t, err)
	require.NotNil(t, started.Timer.TodoID)
	assert.Equal(t, int64(3), *started.Timer.TodoID)
	assert.Equal(t, "release", started.Timer.Name)
	assert.Equal(t, "None", f.prompt.Options[0][3])
	assert.Equal(t, []int{3}, f.prompt.Defaults, "the picker starts on None")

	f.clock.Set(base + 90)
	f.prompt.Confirms = []bool{true}

	stopped, err := f.tracker.Stop()
	require.NoError(t, err)
	assert.True(t, stopped.TodoDone)
	assert.Equal(t, int64(3), *stopped.Entry.TodoID)

	items, err := todo.List(f.db, time.Unix(base+90, 0))
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.True(t, items[2].Done)
	assert.Equal(t, int64(90), items[2].TrackedSecs)

	// the finished todo is no longer offered for linking
	f.prompt.Selects = []int{2}
	f.prompt.Inputs = []string{"next", "work"}
	f.prompt.Options = nil
	f.prompt.Defaults = nil

	_, err = f.tracker.Start()
	require.NoError(t, err)
	require.Len(t, f.prompt.Options, 1)
	assert.Equal(t, []string{"#1 write docs", "#2 fix the login bug", "None"}, f.prompt.Options[0])
	assert.Equal(t, []int{2}, f.prompt.Defaults)
}

func TestStopSkipsPromptForDoneTodo(t *testing.T) {
	f := newFixture(t)

	td, err := todo.Add(f.db, "release", time.Unix(base, 0))
	require.NoError(t, err)

	f.prompt.Selects = []int{0}
	f.prompt.Inputs = []string{"work"}

	_, err = f.tracker.Start()
	require.NoError(t, err)

	_, err = todo.Done(f.db, td.ID)
	require.NoError(t, err)

	res, err := f.tracker.Stop()
	require.NoError(t, err)
	assert.False(t, res.TodoDone)
	assert.True(t, res.Todo.Done)
}

func TestStopDeclineMarkDone(t *testing.T) {
	f := newFixture(t)

	_, err := todo.Add(f.db, "release", time.Unix(base, 0))
	require.NoError(t, err)

	f.prompt.Selects = []int{0}
	f.prompt.Inputs = []string{"work"}

	_, err = f.tracker.Start()
	require.NoError(t, err)

	f.prompt.Confirms = []bool{false}

	res, err := f.tracker.Stop()
	require.NoError(t, err)
	assert.False(t, res.TodoDone)
	assert.False(t, res.Todo.Done)
	assert.Empty(t, f.timers(t))
}

func TestStatus(t *testing.T) {
	f := newFixture(t)

	_, err := todo.Add(f.db, "release", time.Unix(base, 0))
	require.NoError(t, err)

	f.prompt.Selects = []int{0}
	f.prompt.Inputs = []string{"work"}

	_, err = f.tracker.Start()
	require.NoError(t, err)

	f.clock.Set(base + 40)

	_, err = f.tracker.Pause()
	require.NoError(t, err)

	require.NoError(t, todo.Remove(f.db, 1))

	f.start(t, base+50, "coding", "work")

	f.clock.Set(base + 100)

	before := f.timers(t)

	first, err := f.tracker.Status()
	require.NoError(t, err)

	second, err := f.tracker.Status()
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("status is not stable (-first +second):\n%s", diff)
	}

	if diff := cmp.Diff(before, f.timers(t)); diff != "" {
		t.Fatalf("status changed the timers (-want +got):\n%s", diff)
	}

	require.Len(t, first, 2)

	assert.Equal(t, int64(40), first[0].ActiveSecs)
	assert.Equal(t, int64(60), first[0].BreakSecs)
	assert.Nil(t, first[0].Todo, "dangling todo link resolves to nil")
	assert.Equal(t, int64(1), *first[0].Timer.TodoID)

	assert.Equal(t, int64(50), first[1].ActiveSecs)
	assert.Equal(t, int64(0), first[1].BreakSecs)
}

func TestLogToday(t *testing.T) {
	f := newFixture(t)

	now := time.Date(2026, time.October, 15, 9, 30, 0, 0, time.Local)
	midnight := timeutil.StartOfDay(now)

	entries := []*models.LogEntry{
		{Name: "late night", Category: "work", StartedAt: midnight.Unix() - 1, EndedAt: midnight.Unix() + 600},
		{Name: "at midnight", Category: "work", StartedAt: midnight.Unix(), EndedAt: midnight.Unix() + 60},
		{Name: "morning", Category: "work", StartedAt: now.Unix() - 600, EndedAt: now.Unix()},
	}

	err := f.db.Update(func(tx store.Tx) error {
		for _, e := range entries {
			if err := tx.InsertEntry(e); err != nil {
				return err
			}
		}

		return nil
	})
	require.NoError(t, err)

	lines, err := f.tracker.Log(midnight)
	require.NoError(t, err)

	var names []string
	for _, l := range lines {
		names = append(names, l.Entry.Name)
	}

	assert.Equal(t, []string{"at midnight", "morning"}, names)
}

func TestRm(t *testing.T) {
	f := newFixture(t)

	f.start(t, base, "coding", "work")

	f.clock.Set(base + 10)

	res, err := f.tracker.Stop()
	require.NoError(t, err)

	require.NoError(t, f.tracker.Rm(res.Entry.ID))

	err = f.tracker.Rm(res.Entry.ID)
	require.ErrorIs(t, err, errEntryNotFound)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestAtMostOneRunning(t *testing.T) {
	f := newFixture(t)

	prompt := &testutil.Prompter{}
	tracker := New(f.db, prompt, WithClock(f.clock))

	r := rand.New(rand.NewSource(42))
	now := base

	for i := 0; i < 300; i++ {
		now += r.Int63n(120)
		f.clock.Set(now)

		timers := f.timers(t)

		var paused int

		for _, tm := range timers {
			if !tm.IsRunning() {
				paused++
			}
		}

		prompt.Confirms = []bool{r.Intn(4) != 0}
		prompt.Inputs = []string{"task", "cat"}
		prompt.Selects = []int{r.Intn(max(paused, 1))}

		switch r.Intn(5) {
		case 0:
			_, _ = tracker.Start()
		case 1:
			_, _ = tracker.Stop()
		case 2:
			_, _ = tracker.Pause()
		case 3:
			_, _ = tracker.Resume()
		case 4:
			_, _ = tracker.Switch()
		}

		timers = f.timers(t)
		require.LessOrEqual(t, runningCount(timers), 1, "step %d", i)

		for _, tm := range timers {
			for j, b := range tm.Breaks {
				if b.IsOpen() {
					assert.Equal(t, len(tm.Breaks)-1, j, "open break must be last")
					assert.Equal(t, models.Paused, tm.State)
				}
			}
		}
	}
}
