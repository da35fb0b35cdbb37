package message_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/pomelodb/pomelo"
	"github.com/pomelodb/pomelo/exec"
	"github.com/pomelodb/pomelo/internal/codec"
	"github.com/pomelodb/pomelo/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, cfg *pomelo.Config) (*pomelo.DB, pomelo.Closer) {
	t.Helper()

	db, closer, err := pomelo.Open(cfg)
	if err != nil {
		t.Fatal(err)
	}

	return db, closer
}

func newRegistry(t *testing.T) *exec.Registry {
	t.Helper()

	r, err := exec.NewRegistry(nil)
	require.NoError(t, err)
	require.NoError(t, message.Register(r))

	return r
}

func TestMessage_SetAndGet(t *testing.T) {
	db, closer := openStore(t, nil)
	defer func() {
		if err := closer(); err != nil {
			t.Errorf("ERROR: %v", err)
		}
	}()

	signer := pomelo.MustParseAddress("0xCAFE")

	require.NoError(t, message.Set(context.Background(), db, signer, "Hello, Blockchain"))

	got, err := message.Get(context.Background(), db, signer)
	require.NoError(t, err)
	assert.Equal(t, "Hello, Blockchain", got)

	res, err := db.Get(context.Background(), message.Key(signer))
	require.NoError(t, err)
	assert.Equal(t, `{"message":"Hello, Blockchain"}`, res.RawString())
	assert.Equal(t, uint64(1), res.Version())
}

func TestMessage_Get_Uninitialized(t *testing.T) {
	db, closer := openStore(t, nil)
	defer func() {
		if err := closer(); err != nil {
			t.Errorf("ERROR: %v", err)
		}
	}()

	_, err := message.Get(context.Background(), db, pomelo.MustParseAddress("0x1"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, pomelo.ErrNotInitialized))

	ok, err := message.Exists(context.Background(), db, pomelo.MustParseAddress("0x1"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMessage_Overwrite_KeepsOneRecordPerAccount(t *testing.T) {
	db, closer := openStore(t, nil)
	defer func() {
		if err := closer(); err != nil {
			t.Errorf("ERROR: %v", err)
		}
	}()

	signer := pomelo.MustParseAddress("0x1")

	require.NoError(t, message.Set(context.Background(), db, signer, "first"))
	require.NoError(t, message.Set(context.Background(), db, signer, "second"))

	got, err := message.Get(context.Background(), db, signer)
	require.NoError(t, err)
	assert.Equal(t, "second", got)

	assert.Equal(t, 1, db.Count())

	res, err := db.Get(context.Background(), message.Key(signer))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), res.Version())
}

func TestMessage_ChangeEvent_OnlyOnUpdate(t *testing.T) {
	received := make(chan pomelo.Notification, 8)

	db, closer := openStore(t, &pomelo.Config{
		OnNotification: func(n pomelo.Notification) {
			received <- n
		},
	})
	defer func() {
		if err := closer(); err != nil {
			t.Errorf("ERROR: %v", err)
		}
	}()

	signer := pomelo.MustParseAddress("0x1")

	require.NoError(t, message.Set(context.Background(), db, signer, "first"))
	require.NoError(t, message.Set(context.Background(), db, signer, "second"))

	select {
	case n := <-received:
		assert.Equal(t, "message.changed", n.Kind)

		ch, ok := n.Event.(message.Change)
		require.True(t, ok)
		assert.Equal(t, signer, ch.Account)
		assert.Equal(t, "first", ch.From)
		assert.Equal(t, "second", ch.To)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for the change notification")
	}

	select {
	case n := <-received:
		t.Fatalf("unexpected extra notification %s", n.Kind)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMessage_InvalidUtf8_RejectedAndNothingStored(t *testing.T) {
	db, closer := openStore(t, nil)
	defer func() {
		if err := closer(); err != nil {
			t.Errorf("ERROR: %v", err)
		}
	}()

	signer := pomelo.MustParseAddress("0x1")

	err := message.Set(context.Background(), db, signer, "broken \xff\xfe text")
	require.Error(t, err)
	assert.True(t, errors.Is(err, message.ErrTextInvalid))

	ok, err := message.Exists(context.Background(), db, signer)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, db.Count())
}

func TestMessage_Isolation(t *testing.T) {
	db, closer := openStore(t, nil)
	defer func() {
		if err := closer(); err != nil {
			t.Errorf("ERROR: %v", err)
		}
	}()

	alice := pomelo.MustParseAddress("0x1")
	bob := pomelo.MustParseAddress("0x2")

	require.NoError(t, message.Set(context.Background(), db, alice, "from alice"))
	require.NoError(t, message.Set(context.Background(), db, bob, "from bob"))
	require.NoError(t, message.Set(context.Background(), db, alice, "alice again"))

	got, err := message.Get(context.Background(), db, bob)
	require.NoError(t, err)
	assert.Equal(t, "from bob", got)
}

func TestMessage_Holders(t *testing.T) {
	db, closer := openStore(t, nil)
	defer func() {
		if err := closer(); err != nil {
			t.Errorf("ERROR: %v", err)
		}
	}()

	for _, seed := range []struct {
		addr string
		text string
	}{
		{addr: "0x3", text: "third"},
		{addr: "0x1", text: "first"},
		{addr: "0x2", text: "second"},
	} {
		require.NoError(t, message.Set(
			context.Background(),
			db,
			pomelo.MustParseAddress(seed.addr),
			seed.text,
		))
	}

	holders, err := message.Holders(context.Background(), db)
	require.NoError(t, err)
	require.Len(t, holders, 3)

	assert.Equal(t, pomelo.MustParseAddress("0x1"), holders[0].Account)
	assert.Equal(t, "first", holders[0].Message)
	assert.Equal(t, pomelo.MustParseAddress("0x2"), holders[1].Account)
	assert.Equal(t, "second", holders[1].Message)
	assert.Equal(t, pomelo.MustParseAddress("0x3"), holders[2].Account)
	assert.Equal(t, "third", holders[2].Message)
}

func TestMessage_ThroughRegistry(t *testing.T) {
	db, closer := openStore(t, nil)
	defer func() {
		if err := closer(); err != nil {
			t.Errorf("ERROR: %v", err)
		}
	}()

	r := newRegistry(t)
	signer := pomelo.MustParseAddress("0xCAFE")

	args := codec.NewEncoder().String("Hello, Blockchain").Bytes()
	require.NoError(t, r.Call(context.Background(), db, signer, message.SetMessageID, args))

	viewArgs := codec.NewEncoder().Address(signer).Bytes()
	out, err := r.View(context.Background(), db, message.GetMessageID, viewArgs)
	require.NoError(t, err)
	assert.Equal(t, `["Hello, Blockchain"]`, string(out))
}

func TestMessage_ThroughRegistry_TrailingArgumentBytes(t *testing.T) {
	db, closer := openStore(t, nil)
	defer func() {
		if err := closer(); err != nil {
			t.Errorf("ERROR: %v", err)
		}
	}()

	r := newRegistry(t)
	signer := pomelo.MustParseAddress("0x1")

	args := append(codec.NewEncoder().String("hello").Bytes(), 0xAA)
	err := r.Call(context.Background(), db, signer, message.SetMessageID, args)
	require.Error(t, err)
	assert.True(t, errors.Is(err, codec.ErrArgumentsInvalid))

	ok, err := message.Exists(context.Background(), db, signer)
	require.NoError(t, err)
	assert.False(t, ok)
}
