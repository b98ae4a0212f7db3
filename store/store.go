// Package store connects to the data store and manages active timers, log
// entries and todos
package store

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"io/fs"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/raminsharifi/time-logging/internal/models"
)

const (
	timerBucket = "timers"
	entryBucket = "entries"
	todoBucket  = "todos"
	metaBucket  = "meta"
)

// Client is a BoltDB database client.
type Client struct {
	*bolt.DB
}

type timerRecord struct {
	TodoID    *int64       `json:"todo_id,omitempty"`
	Name      string       `json:"name"`
	Category  string       `json:"category"`
	State     models.State `json:"state"`
	Breaks    []byte       `json:"breaks"`
	StartedAt int64        `json:"started_at"`
}

type entryRecord struct {
	TodoID     *int64 `json:"todo_id,omitempty"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Breaks     []byte `json:"breaks"`
	StartedAt  int64  `json:"started_at"`
	EndedAt    int64  `json:"ended_at"`
	ActiveSecs int64  `json:"active_secs"`
}

type todoRecord struct {
	Text      string `json:"text"`
	CreatedAt int64  `json:"created_at"`
	Done      bool   `json:"done"`
}

// View runs fn in a read-only bolt transaction.
func (c *Client) View(fn func(tx Tx) error) error {
	return c.DB.View(func(tx *bolt.Tx) error {
		return fn(&boltTx{tx})
	})
}

// Update runs fn in a read-write bolt transaction.
func (c *Client) Update(fn func(tx Tx) error) error {
	return c.DB.Update(func(tx *bolt.Tx) error {
		return fn(&boltTx{tx})
	})
}

type boltTx struct {
	tx *bolt.Tx
}

// itob encodes an id as a big-endian key so that cursor order is id order.
func itob(id int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))

	return b
}

func btoi(b []byte) int64 {
	return int64(binary.BigEndian.Uint64(b))
}

func (b *boltTx) bucket(name string) *bolt.Bucket {
	return b.tx.Bucket([]byte(name))
}

func (b *boltTx) nextID(bucket *bolt.Bucket) (int64, error) {
	seq, err := bucket.NextSequence()
	if err != nil {
		return 0, err
	}

	return int64(seq), nil
}

func (b *boltTx) delete(name string, id int64) (bool, error) {
	bucket := b.bucket(name)

	key := itob(id)
	if bucket.Get(key) == nil {
		return false, nil
	}

	return true, bucket.Delete(key)
}

func decodeTimer(k, v []byte) (*models.ActiveTimer, error) {
	var rec timerRecord

	if err := json.Unmarshal(v, &rec); err != nil {
		return nil, errCorruptRecord.Fmt("timer").Wrap(err)
	}

	breaks, err := DecodeBreaks(rec.Breaks)
	if err != nil {
		return nil, err
	}

	return &models.ActiveTimer{
		ID:        btoi(k),
		Name:      rec.Name,
		Category:  rec.Category,
		StartedAt: rec.StartedAt,
		State:     rec.State,
		Breaks:    breaks,
		TodoID:    rec.TodoID,
	}, nil
}

func encodeTimer(t *models.ActiveTimer) ([]byte, error) {
	return json.Marshal(timerRecord{
		Name:      t.Name,
		Category:  t.Category,
		StartedAt: t.StartedAt,
		State:     t.State,
		Breaks:    EncodeBreaks(t.Breaks),
		TodoID:    t.TodoID,
	})
}

func (b *boltTx) ActiveTimers() ([]*models.ActiveTimer, error) {
	var timers []*models.ActiveTimer

	cur := b.bucket(timerBucket).Cursor()

	for k, v := cur.First(); k != nil; k, v = cur.Next() {
		t, err := decodeTimer(k, v)
		if err != nil {
			return nil, err
		}

		timers = append(timers, t)
	}

	return timers, nil
}

func (b *boltTx) ActiveTimer(id int64) (*models.ActiveTimer, error) {
	key := itob(id)

	v := b.bucket(timerBucket).Get(key)
	if v == nil {
		return nil, nil
	}

	return decodeTimer(key, v)
}

func (b *boltTx) RunningTimer() (*models.ActiveTimer, error) {
	timers, err := b.ActiveTimers()
	if err != nil {
		return nil, err
	}

	for _, t := range timers {
		if t.IsRunning() {
			return t, nil
		}
	}

	return nil, nil
}

func (b *boltTx) InsertTimer(t *models.ActiveTimer) error {
	bucket := b.bucket(timerBucket)

	id, err := b.nextID(bucket)
	if err != nil {
		return err
	}

	value, err := encodeTimer(t)
	if err != nil {
		return err
	}

	if err := bucket.Put(itob(id), value); err != nil {
		return err
	}

	t.ID = id

	return nil
}

func (b *boltTx) UpdateTimer(t *models.ActiveTimer) error {
	bucket := b.bucket(timerBucket)

	key := itob(t.ID)
	if bucket.Get(key) == nil {
		return errMissingRecord.Fmt("timer", t.ID)
	}

	value, err := encodeTimer(t)
	if err != nil {
		return err
	}

	return bucket.Put(key, value)
}

func (b *boltTx) DeleteTimer(id int64) (bool, error) {
	return b.delete(timerBucket, id)
}

func (b *boltTx) InsertEntry(e *models.LogEntry) error {
	bucket := b.bucket(entryBucket)

	id, err := b.nextID(bucket)
	if err != nil {
		return err
	}

	value, err := json.Marshal(entryRecord{
		Name:       e.Name,
		Category:   e.Category,
		StartedAt:  e.StartedAt,
		EndedAt:    e.EndedAt,
		ActiveSecs: e.ActiveSecs,
		Breaks:     EncodeBreaks(e.Breaks),
		TodoID:     e.TodoID,
	})
	if err != nil {
		return err
	}

	if err := bucket.Put(itob(id), value); err != nil {
		return err
	}

	e.ID = id

	return nil
}

func (b *boltTx) DeleteEntry(id int64) (bool, error) {
	return b.delete(entryBucket, id)
}

func (b *boltTx) Entries(filter EntryFilter) ([]*models.LogEntry, error) {
	var entries []*models.LogEntry

	cur := b.bucket(entryBucket).Cursor()

	for k, v := cur.First(); k != nil; k, v = cur.Next() {
		var rec entryRecord

		if err := json.Unmarshal(v, &rec); err != nil {
			return nil, errCorruptRecord.Fmt("log entry").Wrap(err)
		}

		if !filter.Since.IsZero() && rec.StartedAt < filter.Since.Unix() {
			continue
		}

		breaks, err := DecodeBreaks(rec.Breaks)
		if err != nil {
			return nil, err
		}

		entries = append(entries, &models.LogEntry{
			ID:         btoi(k),
			Name:       rec.Name,
			Category:   rec.Category,
			StartedAt:  rec.StartedAt,
			EndedAt:    rec.EndedAt,
			ActiveSecs: rec.ActiveSecs,
			Breaks:     breaks,
			TodoID:     rec.TodoID,
		})
	}

	return entries, nil
}

func decodeTodo(k, v []byte) (*models.Todo, error) {
	var rec todoRecord

	if err := json.Unmarshal(v, &rec); err != nil {
		return nil, errCorruptRecord.Fmt("todo").Wrap(err)
	}

	return &models.Todo{
		ID:        btoi(k),
		Text:      rec.Text,
		Done:      rec.Done,
		CreatedAt: rec.CreatedAt,
	}, nil
}

func encodeTodo(t *models.Todo) ([]byte, error) {
	return json.Marshal(todoRecord{
		Text:      t.Text,
		Done:      t.Done,
		CreatedAt: t.CreatedAt,
	})
}

func (b *boltTx) InsertTodo(t *models.Todo) error {
	bucket := b.bucket(todoBucket)

	id, err := b.nextID(bucket)
	if err != nil {
		return err
	}

	value, err := encodeTodo(t)
	if err != nil {
		return err
	}

	if err := bucket.Put(itob(id), value); err != nil {
		return err
	}

	t.ID = id

	return nil
}

func (b *boltTx) Todos() ([]*models.Todo, error) {
	var todos []*models.Todo

	cur := b.bucket(todoBucket).Cursor()

	for k, v := cur.First(); k != nil; k, v = cur.Next() {
		t, err := decodeTodo(k, v)
		if err != nil {
			return nil, err
		}

		todos = append(todos, t)
	}

	return todos, nil
}

func (b *boltTx) Todo(id int64) (*models.Todo, error) {
	key := itob(id)

	v := b.bucket(todoBucket).Get(key)
	if v == nil {
		return nil, nil
	}

	return decodeTodo(key, v)
}

func (b *boltTx) MarkTodoDone(id int64) (bool, error) {
	t, err := b.Todo(id)
	if err != nil || t == nil {
		return false, err
	}

	t.Done = true

	value, err := encodeTodo(t)
	if err != nil {
		return false, err
	}

	return true, b.bucket(todoBucket).Put(itob(id), value)
}

func (b *boltTx) DeleteTodo(id int64) (bool, error) {
	return b.delete(todoBucket, id)
}

// openDB creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(
		pathToDB,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, errTLRunning
		}

		return nil, errOpenDB.Fmt(pathToDB).Wrap(err)
	}

	return db, nil
}

// NewClient returns a wrapper to a BoltDB connection.
func NewClient(dbPath string) (*Client, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	c := &Client{
		db,
	}

	err = db.Update(c.migrate)
	if err != nil {
		db.Close()
		return nil, errMigrate.Wrap(err)
	}

	return c, nil
}
