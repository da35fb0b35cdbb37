package numeric

import (
	"math/big"

	"github.com/pkg/errors"
)

// U128 is an unsigned 128 bit integer. The zero value is 0 and values
// are immutable, every accessor hands out a copy. In JSON a U128 is a
// decimal string, large counters survive consumers that read numbers
// as floats.
type U128 struct {
	i *big.Int
}

func NewU128(v uint64) U128 {
	return U128{i: new(big.Int).SetUint64(v)}
}

// ParseU128 - parses a base 10 string.
func ParseU128(s string) (U128, error) {
	i, err := parseUint(s, maxU128, U128Bits)
	if err != nil {
		return U128{}, err
	}

	return U128{i: i}, nil
}

func MustParseU128(s string) U128 {
	v, err := ParseU128(s)
	if err != nil {
		panic(err)
	}

	return v
}

func U128FromBig(v *big.Int) (U128, error) {
	i, err := fromBig(v, maxU128, U128Bits)
	if err != nil {
		return U128{}, err
	}

	return U128{i: i}, nil
}

// U128FromLittleEndian - rebuilds a value from its 16 byte little
// endian wire form.
func U128FromLittleEndian(b []byte) (U128, error) {
	if len(b) != U128Bytes {
		return U128{}, errors.Wrapf(ErrValueInvalid, "expected %d little endian bytes, got %d", U128Bytes, len(b))
	}

	return U128{i: fromLittleEndian(b)}, nil
}

func (v U128) Big() *big.Int {
	if v.i == nil {
		return new(big.Int)
	}

	return new(big.Int).Set(v.i)
}

func (v U128) Uint64() (uint64, bool) {
	if v.i == nil {
		return 0, true
	}

	if !v.i.IsUint64() {
		return 0, false
	}

	return v.i.Uint64(), true
}

func (v U128) String() string {
	if v.i == nil {
		return "0"
	}

	return v.i.String()
}

func (v U128) IsZero() bool {
	return v.i == nil || v.i.Sign() == 0
}

func (v U128) Cmp(other U128) int {
	return v.Big().Cmp(other.Big())
}

func (v U128) Equal(other U128) bool {
	return v.Cmp(other) == 0
}

// LittleEndian - the fixed 16 byte little endian wire form.
func (v U128) LittleEndian() []byte {
	return toLittleEndian(v.i, U128Bytes)
}

func (v U128) MarshalJSON() ([]byte, error) {
	return []byte(`"` + v.String() + `"`), nil
}

func (v *U128) UnmarshalJSON(b []byte) error {
	parsed, err := ParseU128(unquote(b))
	if err != nil {
		return err
	}

	*v = parsed
	return nil
}
