package pomelo_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/pomelodb/pomelo"
)

type holderPatched struct {
	Account pomelo.Address `json:"account"`
	Note    string         `json:"note"`
}

func (e holderPatched) Kind() string {
	return "holder.patched"
}

func openTestStore(t *testing.T, cfg *pomelo.Config) (*pomelo.DB, pomelo.Closer) {
	t.Helper()

	db, closer, err := pomelo.Open(cfg)
	if err != nil {
		t.Fatal(err)
	}

	return db, closer
}

func messageKey(t *testing.T, hexAddr string) pomelo.RK {
	t.Helper()
	return pomelo.NewRK("message", pomelo.MustParseAddress(hexAddr))
}

func seedMessageHolders(t *testing.T, db *pomelo.DB, n int) {
	t.Helper()

	if err := db.Update(context.Background(), func(tx *pomelo.Tx) error {
		for i := 1; i <= n; i++ {
			key := pomelo.NewRK(
				"message",
				pomelo.MustParseAddress(fmt.Sprintf("0x%x", i)),
			)

			if err := tx.Upsert(key, pomelo.M{
				"message": fmt.Sprintf("message %d", i),
			}); err != nil {
				return err
			}
		}

		return nil
	}); err != nil {
		t.Fatal(err)
	}
}

func seedValueHolders(t *testing.T, db *pomelo.DB, n int) {
	t.Helper()

	if err := db.Update(context.Background(), func(tx *pomelo.Tx) error {
		for i := 1; i <= n; i++ {
			key := pomelo.NewRK(
				"arguments",
				pomelo.MustParseAddress(fmt.Sprintf("0x%x", i)),
			)

			if err := tx.Upsert(key, pomelo.M{"u8": i}); err != nil {
				return err
			}
		}

		return nil
	}); err != nil {
		t.Fatal(err)
	}
}
