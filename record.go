package pomelo

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

var ErrJsonCouldNotBeUnmarshalled = errors.New("json contents could not be unmarshalled, probably is invalid")
var ErrJsonPathInvalid = errors.New("json path is invalid")

// Resource is a read only snapshot of a single stored record. It stays
// valid after the transaction that produced it has finished.
type Resource struct {
	key   RK
	value []byte
	meta  meta
}

func newResourceFromEntry(ent *entry) *Resource {
	return &Resource{
		key:   ent.key,
		value: append([]byte(nil), ent.value...),
		meta:  ent.meta,
	}
}

func (r *Resource) Key() string {
	return r.key.String()
}

func (r *Resource) RK() RK {
	return r.key
}

func (r *Resource) Module() string {
	return r.key.module
}

// Account - the address that owns this record.
func (r *Resource) Account() Address {
	return r.key.addr
}

// Version - starts at 1 on first initialization and grows by one with
// every full overwrite.
func (r *Resource) Version() uint64 {
	return r.meta.version
}

func (r *Resource) CreatedAt() time.Time {
	return r.meta.createdAt
}

func (r *Resource) UpdatedAt() time.Time {
	return r.meta.updatedAt
}

func (r *Resource) Value() []byte {
	return append([]byte(nil), r.value...)
}

func (r *Resource) RawString() string {
	return string(r.value)
}

func (r *Resource) Unmarshal(dest interface{}) error {
	if err := json.Unmarshal(r.value, dest); err != nil {
		return errors.Wrap(ErrJsonCouldNotBeUnmarshalled, err.Error())
	}

	return nil
}

func (r *Resource) String(path string) (string, error) {
	raw := gjson.GetBytes(r.value, path)
	if !raw.Exists() {
		return "", ErrJsonPathInvalid
	}
	return raw.String(), nil
}

func (r *Resource) StringOrDefault(path, def string) string {
	if v, err := r.String(path); err != nil {
		return def
	} else {
		return v
	}
}

func (r *Resource) Int(path string) (int, error) {
	get := gjson.GetBytes(r.value, path)
	if !get.Exists() {
		return 0, ErrJsonPathInvalid
	}

	return int(get.Int()), nil
}

func (r *Resource) IntOrDefault(path string, def int) int {
	if v, err := r.Int(path); err != nil {
		return def
	} else {
		return v
	}
}

// Uint64 - reads an unsigned number at path without the float64 round
// trip, large counters survive intact.
func (r *Resource) Uint64(path string) (uint64, error) {
	get := gjson.GetBytes(r.value, path)
	if !get.Exists() {
		return 0, ErrJsonPathInvalid
	}

	return get.Uint(), nil
}

func (r *Resource) Float(path string) (float64, error) {
	get := gjson.GetBytes(r.value, path)
	if !get.Exists() {
		return 0, ErrJsonPathInvalid
	}
	return get.Float(), nil
}

func (r *Resource) FloatOrDefault(path string, def float64) float64 {
	if v, err := r.Float(path); err != nil {
		return def
	} else {
		return v
	}
}
