package message

import (
	"context"

	"github.com/pomelodb/pomelo"
	"github.com/pomelodb/pomelo/exec"
	"github.com/pomelodb/pomelo/internal/codec"
)

const (
	SetMessageID = "message::set_message"
	GetMessageID = "message::get_message"
)

// Register - wires the module's entry and view functions into r.
func Register(r *exec.Registry) error {
	if err := r.Register(SetMessageID, setMessageEntry); err != nil {
		return err
	}

	return r.RegisterView(GetMessageID, getMessageView)
}

func setMessageEntry(ctx context.Context, tx *pomelo.Tx, signer pomelo.Address, args *codec.Decoder) error {
	text, err := args.String()
	if err != nil {
		return err
	}

	if err := args.Finish(); err != nil {
		return err
	}

	return setInTx(tx, signer, text)
}

func getMessageView(ctx context.Context, tx *pomelo.Tx, args *codec.Decoder) ([]interface{}, error) {
	addr, err := args.Address()
	if err != nil {
		return nil, err
	}

	if err := args.Finish(); err != nil {
		return nil, err
	}

	m, err := getInTx(tx, addr)
	if err != nil {
		return nil, err
	}

	return []interface{}{m}, nil
}
