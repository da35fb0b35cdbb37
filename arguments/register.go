package arguments

import (
	"context"
	"strconv"

	"github.com/pomelodb/pomelo"
	"github.com/pomelodb/pomelo/exec"
	"github.com/pomelodb/pomelo/internal/codec"
)

const (
	SetValuesID = "arguments::set_values"
	GetValuesID = "arguments::get_values"
)

// Register - wires the module's entry and view functions into r.
func Register(r *exec.Registry) error {
	if err := r.Register(SetValuesID, setValuesEntry); err != nil {
		return err
	}

	return r.RegisterView(GetValuesID, getValuesView)
}

// setValuesEntry decodes the tuple fields in declaration order, the
// same order getValuesView renders them back.
func setValuesEntry(ctx context.Context, tx *pomelo.Tx, signer pomelo.Address, args *codec.Decoder) error {
	var h Holder
	var err error

	if h.U8, err = args.U8(); err != nil {
		return err
	}

	if h.U16, err = args.U16(); err != nil {
		return err
	}

	if h.U32, err = args.U32(); err != nil {
		return err
	}

	if h.U64, err = args.U64(); err != nil {
		return err
	}

	if h.U128, err = args.U128(); err != nil {
		return err
	}

	if h.U256, err = args.U256(); err != nil {
		return err
	}

	if h.List, err = args.U256Vector(); err != nil {
		return err
	}

	if err := args.Finish(); err != nil {
		return err
	}

	return setInTx(tx, signer, h)
}

// getValuesView renders the tuple. Values up to 32 bits stay JSON
// numbers, anything wider goes out as a decimal string.
func getValuesView(ctx context.Context, tx *pomelo.Tx, args *codec.Decoder) ([]interface{}, error) {
	addr, err := args.Address()
	if err != nil {
		return nil, err
	}

	if err := args.Finish(); err != nil {
		return nil, err
	}

	h, err := getInTx(tx, addr)
	if err != nil {
		return nil, err
	}

	return []interface{}{
		h.U8,
		h.U16,
		h.U32,
		strconv.FormatUint(h.U64, 10),
		h.U128,
		h.U256,
		h.List,
	}, nil
}
