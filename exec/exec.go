package exec

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	"github.com/pomelodb/pomelo"
	"github.com/pomelodb/pomelo/internal/codec"
	"github.com/pomelodb/pomelo/internal/lru"
	"go.uber.org/zap"
)

var ErrUnknownFunction = errors.New("unknown function")
var ErrAlreadyRegistered = errors.New("function already registered")
var ErrFunctionInvalid = errors.New("function invalid")

// EntryFunc executes a state changing call on behalf of signer. The
// decoder holds the raw argument bytes, consuming them fully via
// Finish is the callee's responsibility.
type EntryFunc func(ctx context.Context, tx *pomelo.Tx, signer pomelo.Address, args *codec.Decoder) error

// ViewFunc resolves a read only call into its return values, in
// declaration order.
type ViewFunc func(ctx context.Context, tx *pomelo.Tx, args *codec.Decoder) ([]interface{}, error)

// Registry maps fully qualified function ids like message::set_message
// to their handlers and fronts the views with a rendering cache.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]EntryFunc
	views   map[string]ViewFunc
	cache   *lru.Cache
	lg      *zap.Logger
}

func NewRegistry(cfg *Config) (*Registry, error) {
	own := normalize(cfg)

	r := &Registry{
		entries: make(map[string]EntryFunc),
		views:   make(map[string]ViewFunc),
		lg:      own.Logger,
	}

	if !own.DisableViewCache {
		c, err := lru.NewCache(own.ViewCacheShards, own.ViewCacheMaxBytes, nil)
		if err != nil {
			return nil, errors.Wrap(err, "could not build view cache")
		}

		r.cache = c
	}

	return r, nil
}

// Register - binds an entry function to its id, module::function form.
func (r *Registry) Register(id string, fn EntryFunc) error {
	if err := validateID(id); err != nil {
		return err
	}

	if fn == nil {
		return errors.Wrapf(ErrFunctionInvalid, "%s has no handler", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; ok {
		return errors.Wrapf(ErrAlreadyRegistered, "entry function %s", id)
	}

	r.entries[id] = fn

	return nil
}

// RegisterView - binds a view function to its id.
func (r *Registry) RegisterView(id string, fn ViewFunc) error {
	if err := validateID(id); err != nil {
		return err
	}

	if fn == nil {
		return errors.Wrapf(ErrFunctionInvalid, "%s has no handler", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.views[id]; ok {
		return errors.Wrapf(ErrAlreadyRegistered, "view function %s", id)
	}

	r.views[id] = fn

	return nil
}

// Call - runs the entry function id in a single writing transaction
// on behalf of signer. Arguments arrive as raw bytes, exactly the way
// an outer execution layer hands them over.
func (r *Registry) Call(ctx context.Context, db *pomelo.DB, signer pomelo.Address, id string, args []byte) error {
	r.mu.RLock()
	fn, ok := r.entries[id]
	r.mu.RUnlock()

	if !ok {
		return errors.Wrapf(ErrUnknownFunction, "entry function %s", id)
	}

	if err := db.Update(ctx, func(tx *pomelo.Tx) error {
		return fn(ctx, tx, signer, codec.NewDecoder(args))
	}); err != nil {
		return err
	}

	r.lg.Debug("entry function executed",
		zap.String("fn", id),
		zap.String("signer", signer.String()),
	)

	return nil
}

// View - runs the view function id and renders its return values as a
// JSON array. Renderings are cached keyed by function, arguments and
// store version, so every committed write naturally invalidates them.
func (r *Registry) View(ctx context.Context, db *pomelo.DB, id string, args []byte) ([]byte, error) {
	r.mu.RLock()
	fn, ok := r.views[id]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.Wrapf(ErrUnknownFunction, "view function %s", id)
	}

	key := viewCacheKey(id, args, db.Version())

	if r.cache != nil {
		if b, ok := r.cache.Get(key); ok {
			r.lg.Debug("view served from cache", zap.String("fn", id))
			return append([]byte(nil), b...), nil
		}
	}

	var vals []interface{}
	if err := db.View(ctx, func(tx *pomelo.Tx) error {
		out, err := fn(ctx, tx, codec.NewDecoder(args))
		if err != nil {
			return err
		}

		vals = out
		return nil
	}); err != nil {
		return nil, err
	}

	b, err := json.Marshal(vals)
	if err != nil {
		return nil, errors.Wrapf(err, "could not render view %s", id)
	}

	if r.cache != nil {
		r.cache.Add(key, b)
		return append([]byte(nil), b...), nil
	}

	return b, nil
}

func validateID(id string) error {
	if id == "" {
		return errors.Wrap(ErrFunctionInvalid, "empty function id")
	}

	parts := strings.Split(id, "::")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return errors.Wrapf(ErrFunctionInvalid, "%s is not of the module::function form", id)
	}

	return nil
}

func viewCacheKey(id string, args []byte, version uint64) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(id)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(args)

	var vb [8]byte
	binary.LittleEndian.PutUint64(vb[:], version)
	_, _ = h.Write(vb[:])

	return h.Sum64()
}
