package snbt

import "errors"

// ErrParse reports any syntax or escape failure.  Wrapped messages carry
// the byte offset into the source text.
var ErrParse = errors.New("snbt: parse error")
