// Package snbt reads and writes the stringified text form of NBT:
// compounds as {key: value}, lists as [a, b], typed arrays as [B; 1, 2],
// numeric suffixes b/s/l/f/d, and quoted strings with an escape grammar.
//
// Escape handling is capability gated.  Backslash and quote escapes are
// always understood; whitespace escapes (\n \t \r \b \f \s), hex (\xHH),
// unicode (\uHHHH, \UHHHHHHHH) and named escapes (\N{NAME}) are enabled
// per call.  A disabled or unresolvable escape is a parse error, never a
// silent literal.
//
// The parser and writer share the depth limit of the binary codec, so any
// tree one codec accepts the other can carry.
package snbt
