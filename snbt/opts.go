package snbt

import "github.com/tidefall/nbt-format/go-nbt/nbt"

// Escapes is a capability set for the escape grammar.  \\ \" and \' are
// always available; everything else is opt-in.
type Escapes uint16

const (
	// EscapeWhitespace enables \n \t \r \b \f and \s (space).
	EscapeWhitespace Escapes = 1 << iota
	// EscapeHex enables \xHH.
	EscapeHex
	// EscapeUnicode enables \uHHHH and \UHHHHHHHH.
	EscapeUnicode
	// EscapeNamed enables \N{NAME} lookups against the Unicode name table.
	EscapeNamed

	// AllEscapes is the full modern grammar.
	AllEscapes = EscapeWhitespace | EscapeHex | EscapeUnicode | EscapeNamed
	// NoEscapes is the legacy dialect: only \\ \" \'.
	NoEscapes Escapes = 0
)

func (e Escapes) has(cap Escapes) bool { return e&cap != 0 }

type options struct {
	escapes Escapes
	depth   nbt.DepthLimit
}

type Option func(*options)

// WithEscapes selects the escape capability set.  Default AllEscapes.
func WithEscapes(e Escapes) Option {
	return func(o *options) { o.escapes = e }
}

// WithDepthLimit overrides the nesting limit; zero keeps the default.
func WithDepthLimit(d nbt.DepthLimit) Option {
	return func(o *options) { o.depth = d }
}

func buildOptions(opts []Option) options {
	o := options{escapes: AllEscapes, depth: nbt.DefaultDepthLimit}
	for _, fn := range opts {
		fn(&o)
	}
	o.depth = o.depth.Or()
	return o
}
