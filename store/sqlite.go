package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/raminsharifi/time-logging/internal/models"
)

const (
	timerColumns = `id, name, category, started_at, state, breaks, todo_id`
	entryColumns = `id, name, category, started_at, ended_at, active_secs, breaks, todo_id`
	todoColumns  = `id, text, done, created_at`

	// active timer queries
	getActiveTimersSQL = `SELECT ` + timerColumns + ` FROM active_timers ORDER BY id`
	getActiveTimerSQL  = `SELECT ` + timerColumns + ` FROM active_timers WHERE id = ?`
	getRunningTimerSQL = `SELECT ` + timerColumns + ` FROM active_timers WHERE state = ? ORDER BY id LIMIT 1`
	insertTimerSQL     = `INSERT INTO active_timers (name, category, started_at, state, breaks, todo_id) VALUES (?, ?, ?, ?, ?, ?)`
	updateTimerSQL     = `UPDATE active_timers SET name = ?, category = ?, started_at = ?, state = ?, breaks = ?, todo_id = ? WHERE id = ?`
	deleteTimerSQL     = `DELETE FROM active_timers WHERE id = ?`

	// time entry queries
	insertEntrySQL     = `INSERT INTO time_entries (name, category, started_at, ended_at, active_secs, breaks, todo_id) VALUES (?, ?, ?, ?, ?, ?, ?)`
	deleteEntrySQL     = `DELETE FROM time_entries WHERE id = ?`
	getEntriesSQL      = `SELECT ` + entryColumns + ` FROM time_entries ORDER BY id`
	getEntriesSinceSQL = `SELECT ` + entryColumns + ` FROM time_entries WHERE started_at >= ? ORDER BY id`

	// todo queries
	insertTodoSQL   = `INSERT INTO todos (text, done, created_at) VALUES (?, ?, ?)`
	getTodosSQL     = `SELECT ` + todoColumns + ` FROM todos ORDER BY id`
	getTodoSQL      = `SELECT ` + todoColumns + ` FROM todos WHERE id = ?`
	markTodoDoneSQL = `UPDATE todos SET done = 1 WHERE id = ?`
	deleteTodoSQL   = `DELETE FROM todos WHERE id = ?`
)

// SQLiteClient is a SQLite database client. Its schema is the one used by
// earlier tl releases, so existing databases can be opened directly.
type SQLiteClient struct {
	db *sql.DB
}

// NewSQLite opens the SQLite database at dbPath and migrates it.
func NewSQLite(dbPath string) (*SQLiteClient, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(1000)", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errOpenDB.Fmt(dbPath).Wrap(err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errOpenDB.Fmt(dbPath).Wrap(err)
	}

	if err := migrateSQLite(db); err != nil {
		db.Close()
		return nil, errMigrate.Wrap(err)
	}

	return &SQLiteClient{db: db}, nil
}

// Close closes the database connection.
func (c *SQLiteClient) Close() error {
	return c.db.Close()
}

// View runs fn in a transaction that is always rolled back.
func (c *SQLiteClient) View(fn func(tx Tx) error) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	return fn(&sqliteTx{tx})
}

// Update runs fn in a transaction that is committed if fn succeeds.
func (c *SQLiteClient) Update(fn func(tx Tx) error) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(&sqliteTx{tx}); err != nil {
		return err
	}

	return tx.Commit()
}

type sqliteTx struct {
	tx *sql.Tx
}

type scanner interface {
	Scan(dest ...any) error
}

func nullID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}

	return sql.NullInt64{Int64: *id, Valid: true}
}

func idPtr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}

	return models.Int64(n.Int64)
}

func scanTimer(row scanner) (*models.ActiveTimer, error) {
	var (
		t      models.ActiveTimer
		state  string
		blob   []byte
		todoID sql.NullInt64
	)

	err := row.Scan(&t.ID, &t.Name, &t.Category, &t.StartedAt, &state, &blob, &todoID)
	if err != nil {
		return nil, err
	}

	t.State = models.State(state)
	t.TodoID = idPtr(todoID)

	t.Breaks, err = DecodeBreaks(blob)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func (s *sqliteTx) queryTimer(query string, args ...any) (*models.ActiveTimer, error) {
	t, err := scanTimer(s.tx.QueryRow(query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	return t, err
}

func (s *sqliteTx) ActiveTimers() ([]*models.ActiveTimer, error) {
	rows, err := s.tx.Query(getActiveTimersSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var timers []*models.ActiveTimer

	for rows.Next() {
		t, err := scanTimer(rows)
		if err != nil {
			return nil, err
		}

		timers = append(timers, t)
	}

	return timers, rows.Err()
}

func (s *sqliteTx) ActiveTimer(id int64) (*models.ActiveTimer, error) {
	return s.queryTimer(getActiveTimerSQL, id)
}

func (s *sqliteTx) RunningTimer() (*models.ActiveTimer, error) {
	return s.queryTimer(getRunningTimerSQL, string(models.Running))
}

func (s *sqliteTx) InsertTimer(t *models.ActiveTimer) error {
	res, err := s.tx.Exec(
		insertTimerSQL,
		t.Name,
		t.Category,
		t.StartedAt,
		string(t.State),
		EncodeBreaks(t.Breaks),
		nullID(t.TodoID),
	)
	if err != nil {
		return err
	}

	t.ID, err = res.LastInsertId()

	return err
}

func (s *sqliteTx) UpdateTimer(t *models.ActiveTimer) error {
	res, err := s.tx.Exec(
		updateTimerSQL,
		t.Name,
		t.Category,
		t.StartedAt,
		string(t.State),
		EncodeBreaks(t.Breaks),
		nullID(t.TodoID),
		t.ID,
	)
	if err != nil {
		return err
	}

	changed, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if changed == 0 {
		return errMissingRecord.Fmt("timer", t.ID)
	}

	return nil
}

func (s *sqliteTx) exec(query string, args ...any) (bool, error) {
	res, err := s.tx.Exec(query, args...)
	if err != nil {
		return false, err
	}

	changed, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return changed > 0, nil
}

func (s *sqliteTx) DeleteTimer(id int64) (bool, error) {
	return s.exec(deleteTimerSQL, id)
}

func (s *sqliteTx) InsertEntry(e *models.LogEntry) error {
	res, err := s.tx.Exec(
		insertEntrySQL,
		e.Name,
		e.Category,
		e.StartedAt,
		e.EndedAt,
		e.ActiveSecs,
		EncodeBreaks(e.Breaks),
		nullID(e.TodoID),
	)
	if err != nil {
		return err
	}

	e.ID, err = res.LastInsertId()

	return err
}

func (s *sqliteTx) DeleteEntry(id int64) (bool, error) {
	return s.exec(deleteEntrySQL, id)
}

func (s *sqliteTx) Entries(filter EntryFilter) ([]*models.LogEntry, error) {
	var (
		rows *sql.Rows
		err  error
	)

	if filter.Since.IsZero() {
		rows, err = s.tx.Query(getEntriesSQL)
	} else {
		rows, err = s.tx.Query(getEntriesSinceSQL, filter.Since.Unix())
	}

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.LogEntry

	for rows.Next() {
		var (
			e      models.LogEntry
			blob   []byte
			todoID sql.NullInt64
		)

		err := rows.Scan(
			&e.ID,
			&e.Name,
			&e.Category,
			&e.StartedAt,
			&e.EndedAt,
			&e.ActiveSecs,
			&blob,
			&todoID,
		)
		if err != nil {
			return nil, err
		}

		e.TodoID = idPtr(todoID)

		e.Breaks, err = DecodeBreaks(blob)
		if err != nil {
			return nil, err
		}

		entries = append(entries, &e)
	}

	return entries, rows.Err()
}

func scanTodo(row scanner) (*models.Todo, error) {
	var t models.Todo

	if err := row.Scan(&t.ID, &t.Text, &t.Done, &t.CreatedAt); err != nil {
		return nil, err
	}

	return &t, nil
}

func (s *sqliteTx) InsertTodo(t *models.Todo) error {
	res, err := s.tx.Exec(insertTodoSQL, t.Text, t.Done, t.CreatedAt)
	if err != nil {
		return err
	}

	t.ID, err = res.LastInsertId()

	return err
}

func (s *sqliteTx) Todos() ([]*models.Todo, error) {
	rows, err := s.tx.Query(getTodosSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []*models.Todo

	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}

		todos = append(todos, t)
	}

	return todos, rows.Err()
}

func (s *sqliteTx) Todo(id int64) (*models.Todo, error) {
	t, err := scanTodo(s.tx.QueryRow(getTodoSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	return t, err
}

func (s *sqliteTx) MarkTodoDone(id int64) (bool, error) {
	return s.exec(markTodoDoneSQL, id)
}

func (s *sqliteTx) DeleteTodo(id int64) (bool, error) {
	return s.exec(deleteTodoSQL, id)
}
