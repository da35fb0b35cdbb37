package message

import (
	"context"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/pomelodb/pomelo"
)

const ModuleName = "message"

var ErrTextInvalid = errors.New("message text is not valid utf-8")

// Holder is the stored payload: the one message an account keeps.
type Holder struct {
	Message string `json:"message"`
}

// Change reports a message update. It is emitted only when an existing
// record receives a new text, first initialization stays silent.
type Change struct {
	Account pomelo.Address `json:"account"`
	From    string         `json:"from_message"`
	To      string         `json:"to_message"`
}

func (Change) Kind() string { return "message.changed" }

// Key - the resource key of addr's message record.
func Key(addr pomelo.Address) pomelo.RK {
	return pomelo.NewRK(ModuleName, addr)
}

// Set - stores text as signer's message, creating the record on first
// use and fully replacing it afterwards.
func Set(ctx context.Context, db *pomelo.DB, signer pomelo.Address, text string) error {
	return db.Update(ctx, func(tx *pomelo.Tx) error {
		return setInTx(tx, signer, text)
	})
}

func setInTx(tx *pomelo.Tx, signer pomelo.Address, text string) error {
	if !utf8.ValidString(text) {
		return errors.Wrapf(ErrTextInvalid, "message for %s", signer.String())
	}

	k := Key(signer)

	if !tx.Has(k) {
		return tx.Insert(k, Holder{Message: text})
	}

	prev, err := tx.Get(k)
	if err != nil {
		return err
	}

	from, err := prev.String("message")
	if err != nil {
		return err
	}

	if err := tx.Upsert(k, Holder{Message: text}); err != nil {
		return err
	}

	return tx.Emit(Change{Account: signer, From: from, To: text})
}

// Get - the current message of addr, ErrNotInitialized when the
// account never stored one.
func Get(ctx context.Context, db *pomelo.DB, addr pomelo.Address) (string, error) {
	var text string

	if err := db.View(ctx, func(tx *pomelo.Tx) error {
		m, err := getInTx(tx, addr)
		if err != nil {
			return err
		}

		text = m
		return nil
	}); err != nil {
		return "", err
	}

	return text, nil
}

func getInTx(tx *pomelo.Tx, addr pomelo.Address) (string, error) {
	res, err := tx.Get(Key(addr))
	if err != nil {
		return "", err
	}

	return res.String("message")
}

// Exists - reports whether addr ever stored a message.
func Exists(ctx context.Context, db *pomelo.DB, addr pomelo.Address) (bool, error) {
	return db.Has(ctx, Key(addr))
}

// Holding pairs an account with its current message.
type Holding struct {
	Account pomelo.Address
	Message string
}

// Holders - every account with a message record, ascending by address.
func Holders(ctx context.Context, db *pomelo.DB) ([]Holding, error) {
	var out []Holding

	if err := db.View(ctx, func(tx *pomelo.Tx) error {
		return tx.Scan(pomelo.Q().Module(ModuleName), func(r *pomelo.Resource) bool {
			out = append(out, Holding{
				Account: r.Account(),
				Message: r.StringOrDefault("message", ""),
			})

			return true
		})
	}); err != nil {
		return nil, err
	}

	return out, nil
}
