// Package binfmt reads and writes the binary model format.
//
//	Model     = version:u8 typeCount:varint Type* ruleCount:varint Rule*
//	Type      = Str Matcher
//	Rule      = Str Matcher signerCount:u8 Signer*
//	Str       = len:u16 bytes
//	Matcher   = altCount:u8 Sequence*
//	Sequence  = compCount:u8 Component*
//	Component = 0x01 len:u16 TLV | 0x02 | 0x03 Str typeRef:u16 optCount:u8 Option*
//	Option    = 0x01 len:u16 TLV | 0x04 Str
//	Signer    = 0x10 Matcher | 0x11 ruleRef:u16 corrCount:u8 Str*
//
// Fixed-width integers are little-endian, varints are unsigned LEB128.
// A typeRef of 0 marks an untyped capture, otherwise it is the type index plus one.
package binfmt

import (
	"github.com/cespare/xxhash"
)

const Version byte = 1

const (
	TagLiteral  byte = 0x01
	TagWildcard byte = 0x02
	TagCapture  byte = 0x03
	TagOptVar   byte = 0x04
	TagPattern  byte = 0x10
	TagChain    byte = 0x11
)

const (
	MaxTypes   = 0xFFFE
	MaxRules   = 0xFFFF
	MaxCount8  = 0xFF
	MaxLength  = 0xFFFF
)

// Fingerprint identifies an encoded model.
func Fingerprint(buf []byte) uint64 {
	return xxhash.Sum64(buf)
}
