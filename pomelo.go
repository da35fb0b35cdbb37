package pomelo

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var ErrDatabaseClosed = errors.New("database is closed")

// DB is an in memory resource store. Every record belongs to one
// module and one account address and is replaced as a whole on every
// write. All access runs through callback transactions: writes are
// exclusive, reads run concurrently.
type DB struct {
	e        *engine
	notifier *notifier
	lg       *zap.Logger
	mu       sync.RWMutex
	closed   bool
}

type UserCallback func(tx *Tx) error

type Closer func() error

func NullCloser() error { return nil }

// Open - builds a store from cfg, nil means all defaults. The returned
// Closer drains queued notifications and releases the index.
func Open(cfg *Config) (*DB, Closer, error) {
	own, err := normalizeConfig(cfg)
	if err != nil {
		return nil, NullCloser, err
	}

	db := &DB{
		e:        newEngine(own),
		notifier: newNotifier(own.OnNotification, own.NotifierQueueSize, own.Logger),
		lg:       own.Logger,
	}

	if own.OnNotification != nil {
		if err := db.notifier.start(); err != nil {
			return nil, NullCloser, err
		}
	}

	db.lg.Debug("resource store opened")

	return db, db.close, nil
}

func (db *DB) close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return ErrDatabaseAlreadyClosed
	}

	if err := db.notifier.stop(); err != nil {
		return err
	}

	if err := db.e.close(); err != nil {
		return err
	}

	db.e = nil
	db.closed = true

	db.lg.Debug("resource store closed")

	return nil
}

func (db *DB) begin(ctx context.Context, readOnly bool) *Tx {
	return &Tx{
		e:        db.e,
		ctx:      ctx,
		readOnly: readOnly,
	}
}

// View - runs cb in a read only transaction. Reads share the lock, so
// any number of views make progress together.
func (db *DB) View(ctx context.Context, cb UserCallback) error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.closed {
		return ErrDatabaseClosed
	}

	return cb(db.begin(ctx, true))
}

// Update - runs cb in a writing transaction. When cb fails every write
// is rolled back and no event leaves the store. On success queued
// events head out to the notifier in emit order.
func (db *DB) Update(ctx context.Context, cb UserCallback) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return ErrDatabaseClosed
	}

	tx := db.begin(ctx, false)

	if err := cb(tx); err != nil {
		tx.rollback()
		return errors.Wrap(err, "db write failed. rolled back")
	}

	writes := len(tx.undo)

	evs := tx.commit()
	if len(evs) > 0 {
		db.notifier.dispatch(evs)
	}

	db.lg.Debug("transaction committed",
		zap.Int("writes", writes),
		zap.Int("events", len(evs)),
	)

	return nil
}

// Get - one shot read of a single record.
func (db *DB) Get(ctx context.Context, key RK) (*Resource, error) {
	var r *Resource
	if err := db.View(ctx, func(tx *Tx) error {
		res, err := tx.Get(key)
		if err != nil {
			return err
		}

		r = res
		return nil
	}); err != nil {
		return nil, err
	}

	return r, nil
}

func (db *DB) Has(ctx context.Context, key RK) (bool, error) {
	var ok bool
	if err := db.View(ctx, func(tx *Tx) error {
		ok = tx.Has(key)
		return nil
	}); err != nil {
		return false, err
	}

	return ok, nil
}

// Find - collects every record the query selects, in query order.
func (db *DB) Find(ctx context.Context, q *queryOptions) ([]*Resource, error) {
	var rs []*Resource
	if err := db.View(ctx, func(tx *Tx) error {
		return tx.Scan(q, func(r *Resource) bool {
			rs = append(rs, r)
			return true
		})
	}); err != nil {
		return nil, err
	}

	return rs, nil
}

func (db *DB) Count() int {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.closed {
		return 0
	}

	return db.e.count()
}

// Version - the number of committed writing transactions so far.
func (db *DB) Version() uint64 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.closed {
		return 0
	}

	return db.e.stateVersion()
}
