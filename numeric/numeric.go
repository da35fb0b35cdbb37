package numeric

import (
	"math/big"

	"github.com/pkg/errors"
)

var ErrValueInvalid = errors.New("numeric value invalid")
var ErrValueOutOfRange = errors.New("numeric value out of range")

const (
	U128Bits  = 128
	U128Bytes = 16
	U256Bits  = 256
	U256Bytes = 32
)

var maxU128 = maxForBits(U128Bits)
var maxU256 = maxForBits(U256Bits)

func maxForBits(bits uint) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), bits)
	return m.Sub(m, big.NewInt(1))
}

func parseUint(s string, max *big.Int, bits uint) (*big.Int, error) {
	if s == "" {
		return nil, errors.Wrap(ErrValueInvalid, "empty input")
	}

	i, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.Wrapf(ErrValueInvalid, "%s is not a base 10 integer", s)
	}

	return checkRange(i, max, bits)
}

func fromBig(v *big.Int, max *big.Int, bits uint) (*big.Int, error) {
	if v == nil {
		return new(big.Int), nil
	}

	return checkRange(new(big.Int).Set(v), max, bits)
}

func checkRange(i, max *big.Int, bits uint) (*big.Int, error) {
	if i.Sign() < 0 {
		return nil, errors.Wrapf(ErrValueOutOfRange, "%s is negative", i.String())
	}

	if i.Cmp(max) > 0 {
		return nil, errors.Wrapf(ErrValueOutOfRange, "%s does not fit into %d bits", i.String(), bits)
	}

	return i, nil
}

func fromLittleEndian(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i := range b {
		be[len(b)-1-i] = b[i]
	}

	return new(big.Int).SetBytes(be)
}

func toLittleEndian(i *big.Int, width int) []byte {
	out := make([]byte, width)
	if i == nil {
		return out
	}

	be := i.Bytes()
	for j := range be {
		out[j] = be[len(be)-1-j]
	}

	return out
}

// unquote - strips one pair of double quotes so both "5" and 5 decode
// from JSON.
func unquote(b []byte) string {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}

	return s
}
