package binary

import "errors"

var (
	// ErrIo reports truncated input, trailing garbage, or a length field
	// that does not fit the remaining data.
	ErrIo = errors.New("binary: malformed NBT data")

	// ErrEncoding reports an invalid string payload: broken UTF-8, broken
	// modified UTF-8, or a string too long for its length field.
	ErrEncoding = errors.New("binary: invalid string encoding")
)
