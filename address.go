package pomelo

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"github.com/pkg/errors"
)

var ErrAddressInvalid = errors.New("account address invalid")

const addressLen = 32

// Address identifies the account that owns a resource record.
type Address [addressLen]byte

// ParseAddress - parses a hex account address with an optional 0x prefix.
// Short forms like 0x1 are accepted and padded on the left.
func ParseAddress(s string) (Address, error) {
	var a Address

	if s == "" {
		return a, errors.Wrap(ErrAddressInvalid, "empty input")
	}

	digits := s
	if len(digits) >= 2 && (digits[:2] == "0x" || digits[:2] == "0X") {
		digits = digits[2:]
	}

	if digits == "" {
		return a, errors.Wrapf(ErrAddressInvalid, "%s has no digits", s)
	}

	if len(digits) > addressLen*2 {
		return a, errors.Wrapf(ErrAddressInvalid, "%s is longer than %d hex digits", s, addressLen*2)
	}

	if len(digits)%2 != 0 {
		digits = "0" + digits
	}

	b, err := hex.DecodeString(digits)
	if err != nil {
		return a, errors.Wrapf(ErrAddressInvalid, "%s is not valid hex", s)
	}

	copy(a[addressLen-len(b):], b)
	return a, nil
}

// MustParseAddress - like ParseAddress but panics on invalid input.
// Meant for fixtures and wiring, not for untrusted input.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}

	return a
}

// AddressFromBytes - builds an address from its raw 32 byte form.
func AddressFromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != addressLen {
		return a, errors.Wrapf(ErrAddressInvalid, "expected %d raw bytes, got %d", addressLen, len(b))
	}

	copy(a[:], b)
	return a, nil
}

// String - canonical form: 0x prefix plus the full lowercase hex.
// Resource keys embed this form, so ordering keys as strings orders
// accounts numerically.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a Address) Bytes() []byte {
	b := make([]byte, addressLen)
	copy(b, a[:])
	return b
}

func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) Less(other Address) bool {
	return bytes.Compare(a[:], other[:]) < 0
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Address) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.Wrap(ErrAddressInvalid, err.Error())
	}

	parsed, err := ParseAddress(s)
	if err != nil {
		return err
	}

	*a = parsed
	return nil
}
