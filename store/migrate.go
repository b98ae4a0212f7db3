package store

import (
	"database/sql"
	"encoding/binary"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

var schemaVersionKey = []byte("schema_version")

// boltMigrations are applied in order, once each. Their index plus one is the
// schema version recorded after they run.
var boltMigrations = []func(tx *bolt.Tx) error{
	createBuckets,
}

func createBuckets(tx *bolt.Tx) error {
	for _, name := range []string{timerBucket, entryBucket, todoBucket} {
		if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
			return err
		}
	}

	return nil
}

func (c *Client) migrate(tx *bolt.Tx) error {
	meta, err := tx.CreateBucketIfNotExists([]byte(metaBucket))
	if err != nil {
		return err
	}

	var version uint64
	if v := meta.Get(schemaVersionKey); v != nil {
		version = binary.BigEndian.Uint64(v)
	}

	if version > uint64(len(boltMigrations)) {
		return fmt.Errorf(
			"database schema version %d is newer than this build supports",
			version,
		)
	}

	for i := version; i < uint64(len(boltMigrations)); i++ {
		if err := boltMigrations[i](tx); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}

	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(len(boltMigrations)))

	return meta.Put(schemaVersionKey, b)
}

const (
	createActiveTimersSQL = `
	CREATE TABLE IF NOT EXISTS active_timers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		state TEXT NOT NULL,
		breaks BLOB NOT NULL
	)`

	createTimeEntriesSQL = `
	CREATE TABLE IF NOT EXISTS time_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		ended_at INTEGER NOT NULL,
		active_secs INTEGER NOT NULL,
		breaks BLOB NOT NULL
	)`

	createTodosSQL = `
	CREATE TABLE IF NOT EXISTS todos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		text TEXT NOT NULL,
		done INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	)`

	tableExistsSQL = `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`

	// the first releases kept a single row in active_timer
	migrateLegacyTimerSQL = `
	INSERT INTO active_timers (name, category, started_at, state, breaks)
		SELECT name, category, started_at, state, breaks FROM active_timer`

	dropLegacyTimerSQL = `DROP TABLE active_timer`

	probeTodoIDSQL        = `SELECT todo_id FROM active_timers LIMIT 0`
	addTimerTodoIDSQL     = `ALTER TABLE active_timers ADD COLUMN todo_id INTEGER`
	addEntriesTodoIDSQL   = `ALTER TABLE time_entries ADD COLUMN todo_id INTEGER`
	createEntriesIndexSQL = `CREATE INDEX IF NOT EXISTS idx_time_entries_started_at ON time_entries(started_at)`
)

func tableExists(tx *sql.Tx, name string) (bool, error) {
	var n int
	if err := tx.QueryRow(tableExistsSQL, name).Scan(&n); err != nil {
		return false, err
	}

	return n > 0, nil
}

// migrateSQLite brings a SQLite database to the current schema. Columns are
// only ever added, never dropped, so existing rows survive every step.
func migrateSQLite(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	legacy, err := tableExists(tx, "active_timer")
	if err != nil {
		return err
	}

	current, err := tableExists(tx, "active_timers")
	if err != nil {
		return err
	}

	tables := []string{
		createActiveTimersSQL,
		createTimeEntriesSQL,
		createTodosSQL,
	}

	for _, tableSQL := range tables {
		if _, err := tx.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	if legacy && !current {
		if _, err := tx.Exec(migrateLegacyTimerSQL); err != nil {
			return fmt.Errorf("failed to migrate active_timer: %w", err)
		}

		if _, err := tx.Exec(dropLegacyTimerSQL); err != nil {
			return fmt.Errorf("failed to drop active_timer: %w", err)
		}
	}

	if _, err := tx.Exec(probeTodoIDSQL); err != nil {
		for _, alterSQL := range []string{addTimerTodoIDSQL, addEntriesTodoIDSQL} {
			if _, err := tx.Exec(alterSQL); err != nil {
				return fmt.Errorf("failed to add todo_id column: %w", err)
			}
		}
	}

	if _, err := tx.Exec(createEntriesIndexSQL); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	return tx.Commit()
}
