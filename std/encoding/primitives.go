package encoding

import (
	"encoding/binary"
)

// TLNum is a TLV Type or Length number
type TLNum uint64

// Nat is a TLV natural number
type Nat uint64

// EncodingLength is the size of v in the NDN variable-length number format.
func (v TLNum) EncodingLength() int {
	switch x := uint64(v); {
	case x <= 0xfc:
		return 1
	case x <= 0xffff:
		return 3
	case x <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// EncodeInto writes v into buf and returns the number of bytes written.
func (v TLNum) EncodeInto(buf Buffer) int {
	switch x := uint64(v); {
	case x <= 0xfc:
		buf[0] = byte(x)
		return 1
	case x <= 0xffff:
		buf[0] = 0xfd
		binary.BigEndian.PutUint16(buf[1:], uint16(x))
		return 3
	case x <= 0xffffffff:
		buf[0] = 0xfe
		binary.BigEndian.PutUint32(buf[1:], uint32(x))
		return 5
	default:
		buf[0] = 0xff
		binary.BigEndian.PutUint64(buf[1:], uint64(x))
		return 9
	}
}

// ReadTLNum parses a TLNum at the start of buf.
// Unlike the encoder it never panics: a truncated number yields ErrBufferOverflow.
func ReadTLNum(buf Buffer) (val TLNum, pos int, err error) {
	if len(buf) == 0 {
		return 0, 0, ErrBufferOverflow
	}
	switch x := buf[0]; {
	case x <= 0xfc:
		return TLNum(x), 1, nil
	case x == 0xfd:
		pos = 3
	case x == 0xfe:
		pos = 5
	default:
		pos = 9
	}
	if len(buf) < pos {
		return 0, 0, ErrBufferOverflow
	}
	for _, b := range buf[1:pos] {
		val = val<<8 | TLNum(b)
	}
	return val, pos, nil
}

// EncodingLength returns the minimal number of bytes (1, 2, 4 or 8) holding v.
func (v Nat) EncodingLength() int {
	switch x := uint64(v); {
	case x <= 0xff:
		return 1
	case x <= 0xffff:
		return 2
	case x <= 0xffffffff:
		return 4
	default:
		return 8
	}
}

func (v Nat) EncodeInto(buf Buffer) int {
	switch x := uint64(v); {
	case x <= 0xff:
		buf[0] = byte(x)
		return 1
	case x <= 0xffff:
		binary.BigEndian.PutUint16(buf, uint16(x))
		return 2
	case x <= 0xffffffff:
		binary.BigEndian.PutUint32(buf, uint32(x))
		return 4
	default:
		binary.BigEndian.PutUint64(buf, uint64(x))
		return 8
	}
}

func (v Nat) Bytes() []byte {
	buf := make([]byte, v.EncodingLength())
	v.EncodeInto(buf)
	return buf
}

// IsAlphabet checks for an ASCII letter.
func IsAlphabet(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}
