package snbt

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/tidefall/nbt-format/go-nbt/nbt"
)

// Parse reads one value from src.  Trailing non-whitespace is an error.
func Parse(src string, opts ...Option) (nbt.Tag, error) {
	p := &parser{src: src, o: buildOptions(opts)}
	t, err := p.value(1)
	if err != nil {
		return nbt.Tag{}, err
	}
	p.ws()
	if p.off < len(p.src) {
		return nbt.Tag{}, p.errf("trailing input")
	}
	return t, nil
}

type parser struct {
	src string
	off int
	o   options
}

func (p *parser) errf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%w: %s at offset %d", ErrParse, msg, p.off)
}

func (p *parser) ws() {
	for p.off < len(p.src) {
		switch p.src[p.off] {
		case ' ', '\t', '\n', '\r':
			p.off++
		default:
			return
		}
	}
}

func (p *parser) peek() (byte, bool) {
	if p.off >= len(p.src) {
		return 0, false
	}
	return p.src[p.off], true
}

// expect consumes c after whitespace.
func (p *parser) expect(c byte) error {
	p.ws()
	got, ok := p.peek()
	if !ok {
		return p.errf("want %q, got end of input", c)
	}
	if got != c {
		return p.errf("want %q, got %q", c, got)
	}
	p.off++
	return nil
}

func (p *parser) value(depth nbt.DepthLimit) (nbt.Tag, error) {
	if depth > p.o.depth {
		return nbt.Tag{}, fmt.Errorf("%w: nesting over %d at offset %d",
			nbt.ErrDepth, p.o.depth, p.off)
	}
	p.ws()
	c, ok := p.peek()
	if !ok {
		return nbt.Tag{}, p.errf("unexpected end of input")
	}
	switch c {
	case '{':
		return p.compound(depth)
	case '[':
		return p.listOrArray(depth)
	case '"', '\'':
		s, err := p.quoted()
		if err != nil {
			return nbt.Tag{}, err
		}
		return nbt.String(s), nil
	}
	return p.bare()
}

func isBareChar(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
		c == '_' || c == '-' || c == '+' || c == '.'
}

func (p *parser) bareToken() string {
	start := p.off
	for p.off < len(p.src) && isBareChar(p.src[p.off]) {
		p.off++
	}
	return p.src[start:p.off]
}

func (p *parser) bare() (nbt.Tag, error) {
	tok := p.bareToken()
	if tok == "" {
		return nbt.Tag{}, p.errf("unexpected character %q", p.src[p.off])
	}
	switch tok {
	case "true":
		return nbt.Byte(1), nil
	case "false":
		return nbt.Byte(0), nil
	}
	if t, ok := parseNumber(tok); ok {
		return t, nil
	}
	return nbt.String(tok), nil
}

// parseNumber classifies a bare token under the numeric grammar: an
// optional sign, digits, an optional b/s/l/f/d suffix (case-insensitive),
// a decimal point or exponent selecting Double when unsuffixed.  Tokens
// that are not numbers (including out-of-range integers) fall back to
// unquoted strings.
func parseNumber(tok string) (nbt.Tag, bool) {
	body, suffix := tok, byte(0)
	if len(tok) > 1 {
		switch c := tok[len(tok)-1] | 0x20; c {
		case 'b', 's', 'l', 'f', 'd':
			body, suffix = tok[:len(tok)-1], c
		}
	}
	switch suffix {
	case 'b':
		if v, err := strconv.ParseInt(body, 10, 8); err == nil {
			return nbt.Byte(int8(v)), true
		}
	case 's':
		if v, err := strconv.ParseInt(body, 10, 16); err == nil {
			return nbt.Short(int16(v)), true
		}
	case 'l':
		if v, err := strconv.ParseInt(body, 10, 64); err == nil {
			return nbt.Long(v), true
		}
	case 'f':
		if v, ok := parseFloatBody(body); ok {
			return nbt.Float(float32(v)), true
		}
	case 'd':
		if v, ok := parseFloatBody(body); ok {
			return nbt.Double(v), true
		}
	default:
		if isIntToken(tok) {
			if v, err := strconv.ParseInt(tok, 10, 32); err == nil {
				return nbt.Int(int32(v)), true
			}
			return nbt.Tag{}, false
		}
		if v, ok := parseFloatBody(tok); ok {
			return nbt.Double(v), true
		}
	}
	return nbt.Tag{}, false
}

func isIntToken(s string) bool {
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func parseFloatBody(s string) (float64, bool) {
	// NaN and Infinity round-trip through their token spellings
	switch s {
	case "NaN", "Infinity", "+Infinity", "-Infinity":
	default:
		if strings.ContainsAny(s, "nNiI") {
			// reject strconv spellings like "inf" so they stay strings
			return 0, false
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (p *parser) compound(depth nbt.DepthLimit) (nbt.Tag, error) {
	p.off++ // '{'
	c := nbt.NewCompound()
	p.ws()
	if b, ok := p.peek(); ok && b == '}' {
		p.off++
		return nbt.CompoundTag(c), nil
	}
	for {
		p.ws()
		keyAt := p.off
		key, err := p.key()
		if err != nil {
			return nbt.Tag{}, err
		}
		if err := p.expect(':'); err != nil {
			return nbt.Tag{}, err
		}
		v, err := p.value(depth + 1)
		if err != nil {
			return nbt.Tag{}, err
		}
		if err := c.Insert(key, v); err != nil {
			return nbt.Tag{}, fmt.Errorf("%w at offset %d", err, keyAt)
		}
		p.ws()
		b, ok := p.peek()
		if !ok {
			return nbt.Tag{}, p.errf("unterminated compound")
		}
		p.off++
		if b == '}' {
			return nbt.CompoundTag(c), nil
		}
		if b != ',' {
			p.off--
			return nbt.Tag{}, p.errf("want ',' or '}', got %q", b)
		}
	}
}

func (p *parser) key() (string, error) {
	b, ok := p.peek()
	if !ok {
		return "", p.errf("unexpected end of input in compound key")
	}
	if b == '"' || b == '\'' {
		return p.quoted()
	}
	k := p.bareToken()
	if k == "" {
		return "", p.errf("empty compound key")
	}
	return k, nil
}

func (p *parser) listOrArray(depth nbt.DepthLimit) (nbt.Tag, error) {
	p.off++ // '['
	p.ws()
	if p.off+1 < len(p.src) && p.src[p.off+1] == ';' {
		switch p.src[p.off] {
		case 'B':
			return p.intArray(depth, 8)
		case 'I':
			return p.intArray(depth, 32)
		case 'L':
			return p.intArray(depth, 64)
		}
	}
	l := nbt.NewList(nbt.TypeEnd)
	p.ws()
	if b, ok := p.peek(); ok && b == ']' {
		p.off++
		return nbt.ListTag(l), nil
	}
	for {
		at := p.off
		v, err := p.value(depth + 1)
		if err != nil {
			return nbt.Tag{}, err
		}
		if err := l.Push(v); err != nil {
			return nbt.Tag{}, fmt.Errorf("%w at offset %d", err, at)
		}
		p.ws()
		b, ok := p.peek()
		if !ok {
			return nbt.Tag{}, p.errf("unterminated list")
		}
		p.off++
		if b == ']' {
			return nbt.ListTag(l), nil
		}
		if b != ',' {
			p.off--
			return nbt.Tag{}, p.errf("want ',' or ']', got %q", b)
		}
	}
}

// intArray parses the elements of [B; ...], [I; ...] or [L; ...].  Each
// element must be an integral token in range for the element width.
func (p *parser) intArray(depth nbt.DepthLimit, bits int) (nbt.Tag, error) {
	p.off += 2 // marker and ';'
	var b8 []int8
	var i32 []int32
	var i64 []int64
	p.ws()
	if c, ok := p.peek(); ok && c == ']' {
		p.off++
		return arrayTag(bits, b8, i32, i64), nil
	}
	for {
		p.ws()
		at := p.off
		v, err := p.value(depth + 1)
		if err != nil {
			return nbt.Tag{}, err
		}
		n, ok := v.AsInt64()
		if !ok {
			p.off = at
			return nbt.Tag{}, p.errf("array element must be an integer, got %s", v.Type)
		}
		switch bits {
		case 8:
			if n < -128 || n > 127 {
				p.off = at
				return nbt.Tag{}, p.errf("value %d out of byte range", n)
			}
			b8 = append(b8, int8(n))
		case 32:
			if n < -2147483648 || n > 2147483647 {
				p.off = at
				return nbt.Tag{}, p.errf("value %d out of int range", n)
			}
			i32 = append(i32, int32(n))
		case 64:
			i64 = append(i64, n)
		}
		p.ws()
		c, ok := p.peek()
		if !ok {
			return nbt.Tag{}, p.errf("unterminated array")
		}
		p.off++
		if c == ']' {
			return arrayTag(bits, b8, i32, i64), nil
		}
		if c != ',' {
			p.off--
			return nbt.Tag{}, p.errf("want ',' or ']', got %q", c)
		}
	}
}

func arrayTag(bits int, b8 []int8, i32 []int32, i64 []int64) nbt.Tag {
	switch bits {
	case 8:
		if b8 == nil {
			b8 = []int8{}
		}
		return nbt.ByteArray(b8)
	case 32:
		if i32 == nil {
			i32 = []int32{}
		}
		return nbt.IntArray(i32)
	}
	if i64 == nil {
		i64 = []int64{}
	}
	return nbt.LongArray(i64)
}

func (p *parser) quoted() (string, error) {
	quote := p.src[p.off]
	p.off++
	var sb strings.Builder
	for {
		if p.off >= len(p.src) {
			return "", p.errf("unterminated string")
		}
		c := p.src[p.off]
		if c == quote {
			p.off++
			return sb.String(), nil
		}
		if c != '\\' {
			p.off++
			sb.WriteByte(c)
			continue
		}
		r, err := p.escape()
		if err != nil {
			return "", err
		}
		sb.WriteRune(r)
	}
}

func (p *parser) escape() (rune, error) {
	at := p.off
	p.off++ // backslash
	if p.off >= len(p.src) {
		return 0, p.errf("unterminated escape")
	}
	c := p.src[p.off]
	p.off++
	switch c {
	case '\\', '"', '\'':
		return rune(c), nil
	case 'n', 't', 'r', 'b', 'f', 's':
		if !p.o.escapes.has(EscapeWhitespace) {
			p.off = at
			return 0, p.errf("escape \\%c is disabled", c)
		}
		switch c {
		case 'n':
			return '\n', nil
		case 't':
			return '\t', nil
		case 'r':
			return '\r', nil
		case 'b':
			return '\b', nil
		case 'f':
			return '\f', nil
		}
		return ' ', nil
	case 'x':
		if !p.o.escapes.has(EscapeHex) {
			p.off = at
			return 0, p.errf("escape \\x is disabled")
		}
		return p.hexEscape(at, 2)
	case 'u':
		if !p.o.escapes.has(EscapeUnicode) {
			p.off = at
			return 0, p.errf("escape \\u is disabled")
		}
		return p.hexEscape(at, 4)
	case 'U':
		if !p.o.escapes.has(EscapeUnicode) {
			p.off = at
			return 0, p.errf("escape \\U is disabled")
		}
		return p.hexEscape(at, 8)
	case 'N':
		return p.namedEscape(at)
	}
	p.off = at
	return 0, p.errf("unknown escape \\%c", c)
}

func (p *parser) hexEscape(at, digits int) (rune, error) {
	if p.off+digits > len(p.src) {
		p.off = at
		return 0, p.errf("truncated escape")
	}
	v, err := strconv.ParseUint(p.src[p.off:p.off+digits], 16, 32)
	if err != nil {
		p.off = at
		return 0, p.errf("bad hex digits in escape")
	}
	p.off += digits
	r := rune(v)
	if r > utf8.MaxRune || utf16.IsSurrogate(r) {
		p.off = at
		return 0, p.errf("escape U+%04X is not a scalar value", v)
	}
	return r, nil
}

func (p *parser) namedEscape(at int) (rune, error) {
	if !p.o.escapes.has(EscapeNamed) {
		p.off = at
		return 0, p.errf("escape \\N is disabled")
	}
	if p.off >= len(p.src) || p.src[p.off] != '{' {
		p.off = at
		return 0, p.errf("\\N must be followed by {NAME}")
	}
	p.off++
	end := strings.IndexByte(p.src[p.off:], '}')
	if end < 0 {
		p.off = at
		return 0, p.errf("unterminated \\N{ escape")
	}
	name := p.src[p.off : p.off+end]
	p.off += end + 1
	r, ok := lookupRuneName(name)
	if !ok {
		p.off = at
		return 0, p.errf("unknown character name %q", name)
	}
	return r, nil
}
