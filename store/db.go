package store

import (
	"os"
	"path/filepath"
	"time"

	"github.com/raminsharifi/time-logging/internal/models"
	"github.com/raminsharifi/time-logging/internal/osutil"
)

// Driver names a storage backend.
type Driver string

const (
	Bolt   Driver = "bolt"
	SQLite Driver = "sqlite"
)

// EntryFilter constrains the log entries returned by Tx.Entries.
type EntryFilter struct {
	// Since excludes entries that started before it. The zero value disables
	// the filter.
	Since time.Time
}

// DB is the database storage interface.
type DB interface {
	// View runs fn in a read-only transaction.
	View(fn func(tx Tx) error) error
	// Update runs fn in a read-write transaction which is committed if fn
	// returns nil and rolled back otherwise.
	Update(fn func(tx Tx) error) error
	// Close ends the database connection
	Close() error
}

// Tx is the set of record operations available inside a transaction. Every
// listing is ordered by ascending id.
type Tx interface {
	ActiveTimers() ([]*models.ActiveTimer, error)
	// ActiveTimer returns nil if no timer has the given id.
	ActiveTimer(id int64) (*models.ActiveTimer, error)
	// RunningTimer returns nil if no timer is running.
	RunningTimer() (*models.ActiveTimer, error)
	// InsertTimer stores a new timer and assigns its ID.
	InsertTimer(t *models.ActiveTimer) error
	UpdateTimer(t *models.ActiveTimer) error
	DeleteTimer(id int64) (bool, error)

	// InsertEntry appends a log entry and assigns its ID.
	InsertEntry(e *models.LogEntry) error
	DeleteEntry(id int64) (bool, error)
	Entries(filter EntryFilter) ([]*models.LogEntry, error)

	// InsertTodo stores a new todo and assigns its ID.
	InsertTodo(t *models.Todo) error
	Todos() ([]*models.Todo, error)
	// Todo returns nil if no todo has the given id.
	Todo(id int64) (*models.Todo, error)
	MarkTodoDone(id int64) (bool, error)
	DeleteTodo(id int64) (bool, error)
}

// Open opens or creates the database at path with the given driver and
// brings its schema up to date.
func Open(driver Driver, path string) (DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), osutil.DirPermission); err != nil {
		return nil, errOpenDB.Fmt(path).Wrap(err)
	}

	var (
		db  DB
		err error
	)

	switch driver {
	case Bolt, "":
		db, err = NewClient(path)
	case SQLite:
		db, err = NewSQLite(path)
	default:
		return nil, errUnknownDriver.Fmt(string(driver))
	}

	if err != nil {
		return nil, err
	}

	return db, nil
}
