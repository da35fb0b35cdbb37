package pomelo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/btree"
	"github.com/tidwall/gjson"
)

var (
	ErrNotInitialized     = errors.New("record not initialized")
	ErrAlreadyInitialized = errors.New("record already initialized")
	ErrPayloadInvalid     = errors.New("record payload invalid")
)

var ErrDatabaseAlreadyClosed = errors.New("database already closed")

const castPanic = "how could a resource index item not be of type *entry"

type (
	entryIterator func(ent *entry) bool

	scanner func(ctx context.Context, q *queryOptions, ir entryIterator) error
)

// engine keeps all records in an ordered in memory index keyed by RK.
// It is not safe for concurrent use on its own, DB serializes access
// around it and the UnderLock methods rely on that.
type engine struct {
	cfg     *Config
	rks     *btree.BTree
	version uint64
	closed  bool
}

func newEngine(cfg *Config) *engine {
	return &engine{
		cfg: cfg,
		rks: btree.NewNonConcurrent(byResourceKeys),
	}
}

// stateVersion - counts committed writing transactions. Rendered views
// are cached against it, so a bump invalidates every cached rendering.
func (e *engine) stateVersion() uint64 {
	return e.version
}

func (e *engine) bumpVersionUnderLock() {
	e.version++
}

func (e *engine) close() error {
	if e.closed {
		return ErrDatabaseAlreadyClosed
	}

	e.rks = nil
	e.closed = true

	return nil
}

// putUnderLock - inserts or fully replaces the record under ent.key and
// stamps its meta. Returns the displaced entry so the caller can undo,
// nil when the record did not exist before.
func (e *engine) putUnderLock(ent *entry, replace bool) (*entry, error) {
	now := time.Now().UTC()

	existing := e.rks.Set(ent)
	if existing == nil {
		ent.meta = meta{version: 1, createdAt: now, updatedAt: now}
		return nil, nil
	}

	prev, ok := existing.(*entry)
	if !ok {
		panic(castPanic)
	}

	if !replace {
		_ = e.rks.Set(prev)
		return nil, errors.Wrapf(ErrAlreadyInitialized, "key %s", ent.key.String())
	}

	ent.meta = meta{
		version:   prev.meta.version + 1,
		createdAt: prev.meta.createdAt,
		updatedAt: now,
	}

	return prev, nil
}

// restoreUnderLock - puts a snapshot back exactly as it was, meta
// included. Only the rollback path uses it.
func (e *engine) restoreUnderLock(ent *entry) {
	e.rks.Set(ent)
}

// dropUnderLock - removes a record created by a transaction that is
// rolling back. There is no public delete, records are only ever
// created or replaced.
func (e *engine) dropUnderLock(key RK) {
	e.rks.Delete(&entry{key: key})
}

func (e *engine) findUnderLock(key RK) (*entry, error) {
	found := e.rks.Get(&entry{key: key})
	if found == nil {
		return nil, errors.Wrapf(ErrNotInitialized, "no record under key %s", key.String())
	}

	ent, ok := found.(*entry)
	if !ok {
		panic(castPanic)
	}

	return ent, nil
}

func (e *engine) hasUnderLock(key RK) bool {
	return e.rks.Get(&entry{key: key}) != nil
}

func (e *engine) count() int {
	return e.rks.Len()
}

func (e *engine) scanAscend(
	ctx context.Context,
	q *queryOptions,
	ir entryIterator,
) (err error) {
	e.rks.Ascend(nil, filteringBTreeIterator(ctx, q, ir))
	return
}

func (e *engine) scanDescend(
	ctx context.Context,
	q *queryOptions,
	ir entryIterator,
) (err error) {
	e.rks.Descend(nil, filteringBTreeIterator(ctx, q, ir))
	return
}

func (e *engine) scanModuleAscend(
	ctx context.Context,
	q *queryOptions,
	ir entryIterator,
) (err error) {
	e.rks.Ascend(
		&entry{key: RK{module: q.prefix}},
		filteringBTreeIterator(ctx, q, ir),
	)

	return
}

func (e *engine) scanModuleDescend(
	ctx context.Context,
	q *queryOptions,
	ir entryIterator,
) (err error) {
	e.rks.Descend(
		&entry{key: RK{module: q.prefix, addr: maxAddress}},
		filteringBTreeIterator(ctx, q, ir),
	)

	return
}

func (e *engine) scanBetweenAscend(
	ctx context.Context,
	q *queryOptions,
	ir entryIterator,
) (err error) {
	ascendRange(
		e.rks,
		&entry{key: q.keyRange.From},
		&entry{key: q.keyRange.To},
		filteringBTreeIterator(ctx, q, ir),
	)

	return
}

func (e *engine) scanBetweenDescend(
	ctx context.Context,
	q *queryOptions,
	ir entryIterator,
) (err error) {
	descendRange(
		e.rks,
		&entry{key: q.keyRange.From},
		&entry{key: q.keyRange.To},
		filteringBTreeIterator(ctx, q, ir),
	)

	return
}

func filteringBTreeIterator(
	ctx context.Context,
	q *queryOptions,
	ir entryIterator,
) func(item interface{}) bool {
	return func(item interface{}) bool {
		if ctx.Err() != nil {
			return false
		}

		ent, ok := item.(*entry)
		if !ok {
			panic(castPanic)
		}

		if q.prefix != "" && ent.key.module != q.prefix {
			return false
		}

		return ir(ent)
	}
}

func lt(tr *btree.BTree, a, b interface{}) bool { return tr.Less(a, b) }
func gt(tr *btree.BTree, a, b interface{}) bool { return tr.Less(b, a) }

// ascendRange - iterates keys in [from, to], both bounds inclusive.
func ascendRange(
	tr *btree.BTree,
	from interface{},
	to interface{},
	iter func(item interface{}) bool,
) {
	tr.Ascend(from, func(item interface{}) bool {
		return !gt(tr, item, to) && iter(item)
	})
}

// descendRange - iterates keys in [from, to] from the top down, both
// bounds inclusive.
func descendRange(
	tr *btree.BTree,
	from interface{},
	to interface{},
	iter func(item interface{}) bool,
) {
	tr.Descend(to, func(item interface{}) bool {
		return !lt(tr, item, from) && iter(item)
	})
}

// serializeValue - renders an upsert payload to its stored JSON form.
// Byte slices are taken as pre encoded JSON, anything else goes
// through json.Marshal.
func serializeValue(v interface{}) ([]byte, error) {
	switch typedValue := v.(type) {
	case nil:
		return nil, errors.Wrap(ErrPayloadInvalid, "payload is nil")
	case []byte:
		if !gjson.ValidBytes(typedValue) {
			return nil, errors.Wrap(ErrPayloadInvalid, "raw payload is not valid json")
		}
		return append([]byte(nil), typedValue...), nil
	case json.RawMessage:
		if !gjson.ValidBytes(typedValue) {
			return nil, errors.Wrap(ErrPayloadInvalid, "raw payload is not valid json")
		}
		return append([]byte(nil), typedValue...), nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrapf(ErrPayloadInvalid, "could not marshal payload of type %T: %s", v, err)
	}

	return b, nil
}
