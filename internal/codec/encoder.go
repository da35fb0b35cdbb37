package codec

import (
	"bytes"
	"encoding/binary"

	"github.com/pomelodb/pomelo"
	"github.com/pomelodb/pomelo/numeric"
)

// Encoder builds argument blobs in the exact form Decoder reads.
// Writers chain, grab the result with Bytes.
type Encoder struct {
	buf bytes.Buffer
}

func NewEncoder() *Encoder {
	return &Encoder{}
}

func (e *Encoder) U8(v uint8) *Encoder {
	e.buf.WriteByte(v)
	return e
}

func (e *Encoder) U16(v uint16) *Encoder {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	e.buf.Write(b[:])
	return e
}

func (e *Encoder) U32(v uint32) *Encoder {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.buf.Write(b[:])
	return e
}

func (e *Encoder) U64(v uint64) *Encoder {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.buf.Write(b[:])
	return e
}

func (e *Encoder) U128(v numeric.U128) *Encoder {
	e.buf.Write(v.LittleEndian())
	return e
}

func (e *Encoder) U256(v numeric.U256) *Encoder {
	e.buf.Write(v.LittleEndian())
	return e
}

func (e *Encoder) Uleb128(v uint64) *Encoder {
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}

		e.buf.WriteByte(b)

		if v == 0 {
			return e
		}
	}
}

func (e *Encoder) Blob(b []byte) *Encoder {
	e.Uleb128(uint64(len(b)))
	e.buf.Write(b)
	return e
}

func (e *Encoder) String(v string) *Encoder {
	return e.Blob([]byte(v))
}

func (e *Encoder) Address(a pomelo.Address) *Encoder {
	e.buf.Write(a.Bytes())
	return e
}

func (e *Encoder) U256Vector(vs []numeric.U256) *Encoder {
	e.Uleb128(uint64(len(vs)))
	for _, v := range vs {
		e.U256(v)
	}

	return e
}

func (e *Encoder) Bytes() []byte {
	return append([]byte(nil), e.buf.Bytes()...)
}
