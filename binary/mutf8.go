package binary

import (
	"fmt"
	"unicode/utf16"
	"unicode/utf8"
)

// Modified UTF-8 is CESU-8 plus a two-byte encoding of NUL: U+0000 is
// C0 80, and code points above U+FFFF are written as a UTF-16 surrogate
// pair with each half in the three-byte form.  Plain four-byte UTF-8
// sequences never appear.

func decodeMUTF8(b []byte) (string, error) {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == 0x00:
			return "", fmt.Errorf("%w: raw NUL in modified UTF-8", ErrEncoding)
		case c < 0x80:
			out = append(out, c)
			i++
		case c&0xE0 == 0xC0:
			if i+1 >= len(b) || b[i+1]&0xC0 != 0x80 {
				return "", fmt.Errorf("%w: truncated 2-byte sequence at %d", ErrEncoding, i)
			}
			r := rune(c&0x1F)<<6 | rune(b[i+1]&0x3F)
			// C0 80 is the sanctioned overlong form of NUL.
			if r == 0 && (c != 0xC0 || b[i+1] != 0x80) {
				return "", fmt.Errorf("%w: overlong sequence at %d", ErrEncoding, i)
			}
			out = utf8.AppendRune(out, r)
			i += 2
		case c&0xF0 == 0xE0:
			if i+2 >= len(b) || b[i+1]&0xC0 != 0x80 || b[i+2]&0xC0 != 0x80 {
				return "", fmt.Errorf("%w: truncated 3-byte sequence at %d", ErrEncoding, i)
			}
			r := rune(c&0x0F)<<12 | rune(b[i+1]&0x3F)<<6 | rune(b[i+2]&0x3F)
			i += 3
			if utf16.IsSurrogate(r) {
				// expect the low half in the next three bytes
				if i+2 >= len(b) || b[i]&0xF0 != 0xE0 ||
					b[i+1]&0xC0 != 0x80 || b[i+2]&0xC0 != 0x80 {
					return "", fmt.Errorf("%w: unpaired surrogate at %d", ErrEncoding, i-3)
				}
				lo := rune(b[i]&0x0F)<<12 | rune(b[i+1]&0x3F)<<6 | rune(b[i+2]&0x3F)
				full := utf16.DecodeRune(r, lo)
				if full == utf8.RuneError {
					return "", fmt.Errorf("%w: invalid surrogate pair at %d", ErrEncoding, i-3)
				}
				out = utf8.AppendRune(out, full)
				i += 3
			} else {
				out = utf8.AppendRune(out, r)
			}
		default:
			return "", fmt.Errorf("%w: invalid lead byte %#02x at %d", ErrEncoding, c, i)
		}
	}
	return string(out), nil
}

func appendMUTF8(dst []byte, s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return dst, fmt.Errorf("%w: string is not valid UTF-8", ErrEncoding)
	}
	for _, r := range s {
		switch {
		case r == 0:
			dst = append(dst, 0xC0, 0x80)
		case r < 0x80:
			dst = append(dst, byte(r))
		case r < 0x800:
			dst = append(dst, 0xC0|byte(r>>6), 0x80|byte(r&0x3F))
		case r < 0x10000:
			dst = append(dst, 0xE0|byte(r>>12), 0x80|byte(r>>6&0x3F), 0x80|byte(r&0x3F))
		default:
			hi, lo := utf16.EncodeRune(r)
			for _, h := range [2]rune{hi, lo} {
				dst = append(dst, 0xE0|byte(h>>12), 0x80|byte(h>>6&0x3F), 0x80|byte(h&0x3F))
			}
		}
	}
	return dst, nil
}

func mutf8Len(s string) int {
	n := 0
	for _, r := range s {
		switch {
		case r == 0:
			n += 2
		case r < 0x80:
			n++
		case r < 0x800:
			n += 2
		case r < 0x10000:
			n += 3
		default:
			n += 6
		}
	}
	return n
}
