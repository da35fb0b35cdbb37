package codec

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/pomelodb/pomelo"
	"github.com/pomelodb/pomelo/numeric"
)

// Decoder reads the canonical argument form produced by Encoder:
// fixed width little endian integers, uleb128 length prefixes and raw
// 32 byte addresses. Errors carry the byte offset they happened at.
type Decoder struct {
	b   []byte
	pos int
}

func NewDecoder(b []byte) *Decoder {
	return &Decoder{b: b}
}

func (d *Decoder) Pos() int {
	return d.pos
}

func (d *Decoder) take(n int) ([]byte, error) {
	if len(d.b)-d.pos < n {
		return nil, errors.Wrapf(
			ErrArgumentsInvalid,
			"need %d more bytes at byte #%d, only %d left",
			n, d.pos, len(d.b)-d.pos,
		)
	}

	out := d.b[d.pos : d.pos+n]
	d.pos += n

	return out, nil
}

func (d *Decoder) U8() (uint8, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

func (d *Decoder) U16() (uint16, error) {
	b, err := d.take(2)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint16(b), nil
}

func (d *Decoder) U32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b), nil
}

func (d *Decoder) U64() (uint64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint64(b), nil
}

func (d *Decoder) U128() (numeric.U128, error) {
	b, err := d.take(numeric.U128Bytes)
	if err != nil {
		return numeric.U128{}, err
	}

	return numeric.U128FromLittleEndian(b)
}

func (d *Decoder) U256() (numeric.U256, error) {
	b, err := d.take(numeric.U256Bytes)
	if err != nil {
		return numeric.U256{}, err
	}

	return numeric.U256FromLittleEndian(b)
}

// Uleb128 - variable length unsigned integer, the length prefix form.
// Rejects encodings that overflow 64 bits and non canonical ones with
// a trailing zero group.
func (d *Decoder) Uleb128() (uint64, error) {
	start := d.pos

	var out uint64
	var shift uint

	for {
		b, err := d.take(1)
		if err != nil {
			return 0, err
		}

		digit := b[0] & 0x7F
		if shift > 63 || (shift == 63 && digit > 1) {
			return 0, errors.Wrapf(ErrArgumentsInvalid, "uleb128 at byte #%d overflows 64 bits", start)
		}

		out |= uint64(digit) << shift

		if b[0]&0x80 == 0 {
			if digit == 0 && shift > 0 {
				return 0, errors.Wrapf(ErrArgumentsInvalid, "uleb128 at byte #%d is not canonical", start)
			}

			return out, nil
		}

		shift += 7
	}
}

// Blob - a uleb128 length prefix followed by that many raw bytes.
func (d *Decoder) Blob() ([]byte, error) {
	start := d.pos

	n, err := d.Uleb128()
	if err != nil {
		return nil, err
	}

	if n > uint64(len(d.b)-d.pos) {
		return nil, errors.Wrapf(
			ErrArgumentsInvalid,
			"length %d at byte #%d exceeds the %d remaining bytes",
			n, start, len(d.b)-d.pos,
		)
	}

	out, err := d.take(int(n))
	if err != nil {
		return nil, err
	}

	return append([]byte(nil), out...), nil
}

// String - like Blob but the contents must be valid utf-8.
func (d *Decoder) String() (string, error) {
	start := d.pos

	b, err := d.Blob()
	if err != nil {
		return "", err
	}

	if !utf8.Valid(b) {
		return "", errors.Wrapf(ErrArgumentsInvalid, "string at byte #%d is not valid utf-8", start)
	}

	return string(b), nil
}

// Address - a raw 32 byte account address, no length prefix.
func (d *Decoder) Address() (pomelo.Address, error) {
	b, err := d.take(addressWidth)
	if err != nil {
		return pomelo.Address{}, err
	}

	return pomelo.AddressFromBytes(b)
}

// U256Vector - a uleb128 element count followed by that many u256.
func (d *Decoder) U256Vector() ([]numeric.U256, error) {
	start := d.pos

	n, err := d.Uleb128()
	if err != nil {
		return nil, err
	}

	if n > uint64(len(d.b)-d.pos)/numeric.U256Bytes {
		return nil, errors.Wrapf(
			ErrArgumentsInvalid,
			"vector of %d u256 at byte #%d exceeds the remaining bytes",
			n, start,
		)
	}

	out := make([]numeric.U256, 0, n)
	for i := uint64(0); i < n; i++ {
		v, err := d.U256()
		if err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	return out, nil
}

// Finish - every argument byte must be consumed, trailing garbage
// fails the call.
func (d *Decoder) Finish() error {
	if d.pos != len(d.b) {
		return errors.Wrapf(ErrArgumentsInvalid, "%d trailing bytes after byte #%d", len(d.b)-d.pos, d.pos)
	}

	return nil
}
