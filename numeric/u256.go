package numeric

import (
	"math/big"

	"github.com/pkg/errors"
)

// U256 is an unsigned 256 bit integer with the same contract as U128:
// immutable, zero value is 0, rendered as a decimal string in JSON.
type U256 struct {
	i *big.Int
}

func NewU256(v uint64) U256 {
	return U256{i: new(big.Int).SetUint64(v)}
}

// ParseU256 - parses a base 10 string.
func ParseU256(s string) (U256, error) {
	i, err := parseUint(s, maxU256, U256Bits)
	if err != nil {
		return U256{}, err
	}

	return U256{i: i}, nil
}

func MustParseU256(s string) U256 {
	v, err := ParseU256(s)
	if err != nil {
		panic(err)
	}

	return v
}

func U256FromBig(v *big.Int) (U256, error) {
	i, err := fromBig(v, maxU256, U256Bits)
	if err != nil {
		return U256{}, err
	}

	return U256{i: i}, nil
}

// U256FromLittleEndian - rebuilds a value from its 32 byte little
// endian wire form.
func U256FromLittleEndian(b []byte) (U256, error) {
	if len(b) != U256Bytes {
		return U256{}, errors.Wrapf(ErrValueInvalid, "expected %d little endian bytes, got %d", U256Bytes, len(b))
	}

	return U256{i: fromLittleEndian(b)}, nil
}

func (v U256) Big() *big.Int {
	if v.i == nil {
		return new(big.Int)
	}

	return new(big.Int).Set(v.i)
}

func (v U256) Uint64() (uint64, bool) {
	if v.i == nil {
		return 0, true
	}

	if !v.i.IsUint64() {
		return 0, false
	}

	return v.i.Uint64(), true
}

func (v U256) String() string {
	if v.i == nil {
		return "0"
	}

	return v.i.String()
}

func (v U256) IsZero() bool {
	return v.i == nil || v.i.Sign() == 0
}

func (v U256) Cmp(other U256) int {
	return v.Big().Cmp(other.Big())
}

func (v U256) Equal(other U256) bool {
	return v.Cmp(other) == 0
}

// LittleEndian - the fixed 32 byte little endian wire form.
func (v U256) LittleEndian() []byte {
	return toLittleEndian(v.i, U256Bytes)
}

func (v U256) MarshalJSON() ([]byte, error) {
	return []byte(`"` + v.String() + `"`), nil
}

func (v *U256) UnmarshalJSON(b []byte) error {
	parsed, err := ParseU256(unquote(b))
	if err != nil {
		return err
	}

	*v = parsed
	return nil
}
