package snbt

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidefall/nbt-format/go-nbt/nbt"
)

// Format renders t as text.  Output is compact and reparses to an equal
// tree under the same escape capabilities.  Nesting past the depth limit
// is rejected here as well, so no well-formed text this package emits can
// be refused by Parse.
func Format(t nbt.Tag, opts ...Option) (string, error) {
	w := &writer{o: buildOptions(opts)}
	if err := w.value(t, 1); err != nil {
		return "", err
	}
	return w.sb.String(), nil
}

type writer struct {
	sb strings.Builder
	o  options
}

func (w *writer) value(t nbt.Tag, depth nbt.DepthLimit) error {
	if depth > w.o.depth {
		return fmt.Errorf("%w: nesting over %d", nbt.ErrDepth, w.o.depth)
	}
	switch t.Type {
	case nbt.TypeByte:
		w.sb.WriteString(strconv.FormatInt(int64(t.Byte()), 10))
		w.sb.WriteByte('b')
	case nbt.TypeShort:
		w.sb.WriteString(strconv.FormatInt(int64(t.Short()), 10))
		w.sb.WriteByte('s')
	case nbt.TypeInt:
		w.sb.WriteString(strconv.FormatInt(int64(t.Int()), 10))
	case nbt.TypeLong:
		w.sb.WriteString(strconv.FormatInt(t.Long(), 10))
		w.sb.WriteByte('l')
	case nbt.TypeFloat:
		w.float(float64(t.Float()), 32)
		w.sb.WriteByte('f')
	case nbt.TypeDouble:
		w.float(t.Double(), 64)
		w.sb.WriteByte('d')
	case nbt.TypeString:
		w.str(t.Str())
	case nbt.TypeByteArray:
		w.sb.WriteString("[B;")
		for i, v := range t.ByteArray() {
			if i > 0 {
				w.sb.WriteByte(',')
			}
			w.sb.WriteString(strconv.FormatInt(int64(v), 10))
			w.sb.WriteByte('b')
		}
		w.sb.WriteByte(']')
	case nbt.TypeIntArray:
		w.sb.WriteString("[I;")
		for i, v := range t.IntArray() {
			if i > 0 {
				w.sb.WriteByte(',')
			}
			w.sb.WriteString(strconv.FormatInt(int64(v), 10))
		}
		w.sb.WriteByte(']')
	case nbt.TypeLongArray:
		w.sb.WriteString("[L;")
		for i, v := range t.LongArray() {
			if i > 0 {
				w.sb.WriteByte(',')
			}
			w.sb.WriteString(strconv.FormatInt(v, 10))
			w.sb.WriteByte('l')
		}
		w.sb.WriteByte(']')
	case nbt.TypeList:
		l := t.List()
		w.sb.WriteByte('[')
		for i := range l.Len() {
			if i > 0 {
				w.sb.WriteByte(',')
			}
			if err := w.value(l.At(i), depth+1); err != nil {
				return err
			}
		}
		w.sb.WriteByte(']')
	case nbt.TypeCompound:
		c := t.Compound()
		w.sb.WriteByte('{')
		for i, k := range c.Keys() {
			if i > 0 {
				w.sb.WriteByte(',')
			}
			w.key(k)
			w.sb.WriteByte(':')
			v, _ := c.Get(k)
			if err := w.value(v, depth+1); err != nil {
				return err
			}
		}
		w.sb.WriteByte('}')
	default:
		return fmt.Errorf("%w: cannot format %s", nbt.ErrType, t.Type)
	}
	return nil
}

func (w *writer) float(v float64, bits int) {
	switch {
	case math.IsNaN(v):
		w.sb.WriteString("NaN")
	case math.IsInf(v, 1):
		w.sb.WriteString("Infinity")
	case math.IsInf(v, -1):
		w.sb.WriteString("-Infinity")
	default:
		w.sb.WriteString(strconv.FormatFloat(v, 'g', -1, bits))
	}
}

// key writes a compound key, unquoted when it is a bare token.
func (w *writer) key(k string) {
	if bareSafe(k) {
		w.sb.WriteString(k)
		return
	}
	w.str(k)
}

func bareSafe(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isBareChar(s[i]) {
			return false
		}
	}
	return true
}

// str writes a quoted string value.  A bare token that would not reparse
// as a number or boolean is written unquoted.
func (w *writer) str(s string) {
	if bareSafe(s) && !reparsesAsOtherKind(s) {
		w.sb.WriteString(s)
		return
	}
	w.sb.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			w.sb.WriteByte('\\')
			w.sb.WriteRune(r)
		case r >= 0x20:
			w.sb.WriteRune(r)
		case w.o.escapes.has(EscapeWhitespace) && whitespaceEscape(r) != 0:
			w.sb.WriteByte('\\')
			w.sb.WriteByte(whitespaceEscape(r))
		case w.o.escapes.has(EscapeUnicode):
			fmt.Fprintf(&w.sb, "\\u%04X", r)
		case w.o.escapes.has(EscapeHex):
			fmt.Fprintf(&w.sb, "\\x%02X", r)
		default:
			// legacy dialect has no way to spell this; emit it raw
			w.sb.WriteRune(r)
		}
	}
	w.sb.WriteByte('"')
}

func whitespaceEscape(r rune) byte {
	switch r {
	case '\n':
		return 'n'
	case '\t':
		return 't'
	case '\r':
		return 'r'
	case '\b':
		return 'b'
	case '\f':
		return 'f'
	}
	return 0
}

func reparsesAsOtherKind(s string) bool {
	if s == "true" || s == "false" {
		return true
	}
	_, isNum := parseNumber(s)
	return isNum
}
