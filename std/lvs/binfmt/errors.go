package binfmt

import "fmt"

// EncodingLimitError reports a model too large for a fixed-width field.
type EncodingLimitError struct {
	Field string
	Count int
	Limit int
}

func (e EncodingLimitError) Error() string {
	return fmt.Sprintf("binfmt: %s count %d exceeds limit %d", e.Field, e.Count, e.Limit)
}

// FormatError reports a malformed binary model.
type FormatError struct {
	Offset int
	Msg    string
}

func (e FormatError) Error() string {
	return fmt.Sprintf("binfmt: offset %d: %s", e.Offset, e.Msg)
}

// VersionError reports a model written in an unsupported format version.
type VersionError struct {
	Version byte
}

func (e VersionError) Error() string {
	return fmt.Sprintf("binfmt: unsupported format version %d (want %d)", e.Version, Version)
}
