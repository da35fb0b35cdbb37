package pomelo

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

var ErrTxIsReadOnly = errors.New("transaction is read only")

// Tx is a single unit of work against the store. Writes apply to the
// index right away and an undo log keeps enough to roll every one of
// them back, so a failing callback leaves no trace.
type Tx struct {
	e        *engine
	ctx      context.Context
	readOnly bool
	undo     []undoOp
	events   []Event
	written  uint64
	dirty    bool
}

// undoOp remembers the pre transaction state of one key. A nil prev
// marks a record this transaction created.
type undoOp struct {
	key  RK
	prev *entry
}

func (x *Tx) Get(key RK) (*Resource, error) {
	ent, err := x.e.findUnderLock(key)
	if err != nil {
		return nil, err
	}

	return newResourceFromEntry(ent), nil
}

func (x *Tx) Has(key RK) bool {
	return x.e.hasUnderLock(key)
}

func (x *Tx) Count() int {
	return x.e.count()
}

// Upsert - creates the record under key or fully replaces its payload.
// Nothing of the previous payload survives a replace.
func (x *Tx) Upsert(key RK, payload interface{}) error {
	return x.put(key, payload, true)
}

// Insert - like Upsert but fails with ErrAlreadyInitialized when a
// record already sits under key.
func (x *Tx) Insert(key RK, payload interface{}) error {
	return x.put(key, payload, false)
}

func (x *Tx) put(key RK, payload interface{}, replace bool) error {
	if x.readOnly {
		return ErrTxIsReadOnly
	}

	if err := key.validate(); err != nil {
		return err
	}

	b, err := serializeValue(payload)
	if err != nil {
		return err
	}

	if err := x.checkWriteLimits(len(b)); err != nil {
		return err
	}

	prev, err := x.e.putUnderLock(newEntry(key, b), replace)
	if err != nil {
		return err
	}

	x.rememberUndo(key, prev)
	x.written += uint64(len(b))
	x.dirty = true

	return nil
}

// rememberUndo - keeps the first displaced entry per key, later writes
// to the same key within this transaction do not touch it. Rollback
// restores the pre transaction state, not intermediate ones.
func (x *Tx) rememberUndo(key RK, prev *entry) {
	for i := range x.undo {
		if x.undo[i].key == key {
			return
		}
	}

	x.undo = append(x.undo, undoOp{key: key, prev: prev})
}

// Emit - queues ev for delivery after a successful commit. A rolled
// back transaction delivers nothing.
func (x *Tx) Emit(ev Event) error {
	if x.readOnly {
		return ErrTxIsReadOnly
	}

	if ev == nil {
		return errors.Wrap(ErrEventInvalid, "event is nil")
	}

	if ev.Kind() == "" {
		return errors.Wrap(ErrEventInvalid, "event kind is empty")
	}

	if err := x.checkEventLimits(ev); err != nil {
		return err
	}

	x.events = append(x.events, ev)

	return nil
}

// Scan - iterates records in key order, ascending unless the query
// says otherwise. Return false from cb to stop early.
func (x *Tx) Scan(q *queryOptions, cb func(r *Resource) bool) error {
	if q == nil {
		q = Q()
	}

	var sc scanner
	if q.keyRange != nil {
		if q.order == Descend {
			sc = x.e.scanBetweenDescend
		} else {
			sc = x.e.scanBetweenAscend
		}
	} else if q.prefix != "" {
		if q.order == Descend {
			sc = x.e.scanModuleDescend
		} else {
			sc = x.e.scanModuleAscend
		}
	} else {
		if q.order == Descend {
			sc = x.e.scanDescend
		} else {
			sc = x.e.scanAscend
		}
	}

	if err := sc(x.ctx, q, func(ent *entry) bool {
		return cb(newResourceFromEntry(ent))
	}); err != nil {
		return err
	}

	if err := x.ctx.Err(); err != nil {
		return errors.Wrap(err, "scan interrupted")
	}

	return nil
}

func (x *Tx) checkWriteLimits(size int) error {
	cfg := x.e.cfg

	if cfg.MaxRecordBytes > 0 && uint64(size) > cfg.MaxRecordBytes {
		return errors.Wrapf(
			ErrLimitExceeded,
			"record payload of %d bytes exceeds the %d byte limit",
			size, cfg.MaxRecordBytes,
		)
	}

	if cfg.MaxUpdateBytes > 0 && x.written+uint64(size) > cfg.MaxUpdateBytes {
		return errors.Wrapf(
			ErrLimitExceeded,
			"transaction would write %d bytes in total, limit is %d",
			x.written+uint64(size), cfg.MaxUpdateBytes,
		)
	}

	return nil
}

func (x *Tx) checkEventLimits(ev Event) error {
	cfg := x.e.cfg

	if cfg.MaxUpdateEvents > 0 && len(x.events)+1 > cfg.MaxUpdateEvents {
		return errors.Wrapf(
			ErrLimitExceeded,
			"transaction already carries %d events, limit is %d",
			len(x.events), cfg.MaxUpdateEvents,
		)
	}

	if cfg.MaxEventBytes > 0 {
		b, err := json.Marshal(ev)
		if err != nil {
			return errors.Wrapf(ErrEventInvalid, "event %s could not be serialized: %s", ev.Kind(), err)
		}

		if uint64(len(b)) > cfg.MaxEventBytes {
			return errors.Wrapf(
				ErrLimitExceeded,
				"event %s of %d bytes exceeds the %d byte limit",
				ev.Kind(), len(b), cfg.MaxEventBytes,
			)
		}
	}

	return nil
}

// rollback - undoes every write of this transaction in reverse order
// and drops its queued events.
func (x *Tx) rollback() {
	for i := len(x.undo) - 1; i >= 0; i-- {
		op := x.undo[i]
		if op.prev == nil {
			x.e.dropUnderLock(op.key)
		} else {
			x.e.restoreUnderLock(op.prev)
		}
	}

	x.undo = nil
	x.events = nil
	x.dirty = false
}

// commit - seals the transaction and hands its queued events over for
// dispatch. The writes are already in the index at this point.
func (x *Tx) commit() []Event {
	if x.dirty {
		x.e.bumpVersionUnderLock()
	}

	evs := x.events
	x.undo = nil
	x.events = nil

	return evs
}
