package encoding

import "fmt"

// Buffer is a buffer of bytes
type Buffer []byte

// ErrFormat reports a malformed URI or TLV input.
type ErrFormat struct {
	Msg string
}

func (e ErrFormat) Error() string {
	return e.Msg
}

var ErrBufferOverflow = fmt.Errorf("buffer overflow when parsing. One of the TLV Length is wrong")
