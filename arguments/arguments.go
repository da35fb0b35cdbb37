package arguments

import (
	"context"

	"github.com/pomelodb/pomelo"
	"github.com/pomelodb/pomelo/numeric"
)

const ModuleName = "arguments"

// Holder carries one value of every unsigned width the store works
// with plus a list of u256. It is always stored and replaced whole.
type Holder struct {
	U8   uint8          `json:"u8"`
	U16  uint16         `json:"u16"`
	U32  uint32         `json:"u32"`
	U64  uint64         `json:"u64"`
	U128 numeric.U128   `json:"u128"`
	U256 numeric.U256   `json:"u256"`
	List []numeric.U256 `json:"list"`
}

// normalize - a nil list stores as an empty one, readers always see a
// JSON array.
func (h Holder) normalize() Holder {
	if h.List == nil {
		h.List = []numeric.U256{}
	}

	return h
}

// Key - the resource key of addr's tuple record.
func Key(addr pomelo.Address) pomelo.RK {
	return pomelo.NewRK(ModuleName, addr)
}

// Set - stores vals as signer's tuple, fully replacing any previous
// one. A shorter list leaves nothing of a longer predecessor behind.
func Set(ctx context.Context, db *pomelo.DB, signer pomelo.Address, vals Holder) error {
	return db.Update(ctx, func(tx *pomelo.Tx) error {
		return setInTx(tx, signer, vals)
	})
}

func setInTx(tx *pomelo.Tx, signer pomelo.Address, vals Holder) error {
	return tx.Upsert(Key(signer), vals.normalize())
}

// Get - the stored tuple of addr, ErrNotInitialized when the account
// never stored one.
func Get(ctx context.Context, db *pomelo.DB, addr pomelo.Address) (Holder, error) {
	var h Holder

	if err := db.View(ctx, func(tx *pomelo.Tx) error {
		got, err := getInTx(tx, addr)
		if err != nil {
			return err
		}

		h = got
		return nil
	}); err != nil {
		return Holder{}, err
	}

	return h, nil
}

func getInTx(tx *pomelo.Tx, addr pomelo.Address) (Holder, error) {
	res, err := tx.Get(Key(addr))
	if err != nil {
		return Holder{}, err
	}

	var h Holder
	if err := res.Unmarshal(&h); err != nil {
		return Holder{}, err
	}

	return h, nil
}

// Exists - reports whether addr ever stored a tuple.
func Exists(ctx context.Context, db *pomelo.DB, addr pomelo.Address) (bool, error) {
	return db.Has(ctx, Key(addr))
}
