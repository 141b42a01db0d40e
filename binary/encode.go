package binary

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/tidefall/nbt-format/go-nbt/nbt"
)

// Encode serializes one root document.  The root policy decides the wire
// shape: named policies emit the tag id, name, payload triple; AnyUnnamed
// omits the name.  Encoding enforces the same depth limit as decoding so a
// tree this package produced can always be read back.
func Encode(name string, t nbt.Tag, f Flavor, opts ...Option) ([]byte, error) {
	return AppendEncode(nil, name, t, f, opts...)
}

// AppendEncode is Encode appending to dst.
func AppendEncode(dst []byte, name string, t nbt.Tag, f Flavor, opts ...Option) ([]byte, error) {
	o := buildOptions(opts)
	if !o.root.Allows(t.Type) {
		return dst, fmt.Errorf("%w: root is %s, policy %s", nbt.ErrRootPolicy, t.Type, o.root)
	}
	e := &encoder{buf: dst, f: f, depth: o.depth}
	e.buf = append(e.buf, byte(t.Type))
	var err error
	if o.root.Named() {
		if err = e.str(name); err != nil {
			return dst, err
		}
	}
	if err = e.tag(t, 1); err != nil {
		return dst, err
	}
	return e.buf, nil
}

type encoder struct {
	buf   []byte
	f     Flavor
	depth nbt.DepthLimit
}

func (e *encoder) u16(v uint16) {
	if e.f.Little {
		e.buf = append(e.buf, byte(v), byte(v>>8))
	} else {
		e.buf = append(e.buf, byte(v>>8), byte(v))
	}
}

func (e *encoder) u32(v uint32) {
	if e.f.Little {
		e.buf = append(e.buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	} else {
		e.buf = append(e.buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	}
}

func (e *encoder) u64(v uint64) {
	if e.f.Little {
		e.buf = append(e.buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
			byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56))
	} else {
		e.buf = append(e.buf, byte(v>>56), byte(v>>48), byte(v>>40), byte(v>>32),
			byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	}
}

func (e *encoder) uvarint(v uint64) {
	for v >= 0x80 {
		e.buf = append(e.buf, byte(v)|0x80)
		v >>= 7
	}
	e.buf = append(e.buf, byte(v))
}

func (e *encoder) i32(v int32) {
	if e.f.VarInts {
		e.uvarint(uint64(uint32(v)<<1 ^ uint32(v>>31)))
		return
	}
	e.u32(uint32(v))
}

func (e *encoder) i64(v int64) {
	if e.f.VarInts {
		e.uvarint(uint64(v)<<1 ^ uint64(v>>63))
		return
	}
	e.u64(uint64(v))
}

func (e *encoder) str(s string) error {
	if e.f.ModifiedUTF8 {
		n := mutf8Len(s)
		if n > math.MaxUint16 {
			return fmt.Errorf("%w: string needs %d bytes, limit %d", ErrEncoding, n, math.MaxUint16)
		}
		e.u16(uint16(n))
		var err error
		e.buf, err = appendMUTF8(e.buf, s)
		return err
	}
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: string is not valid UTF-8", ErrEncoding)
	}
	if e.f.VarInts {
		e.uvarint(uint64(len(s)))
	} else {
		if len(s) > math.MaxUint16 {
			return fmt.Errorf("%w: string needs %d bytes, limit %d", ErrEncoding, len(s), math.MaxUint16)
		}
		e.u16(uint16(len(s)))
	}
	e.buf = append(e.buf, s...)
	return nil
}

func (e *encoder) tag(t nbt.Tag, depth nbt.DepthLimit) error {
	if depth > e.depth {
		return fmt.Errorf("%w: nesting over %d", nbt.ErrDepth, e.depth)
	}
	switch t.Type {
	case nbt.TypeByte:
		e.buf = append(e.buf, byte(t.Byte()))
	case nbt.TypeShort:
		e.u16(uint16(t.Short()))
	case nbt.TypeInt:
		e.i32(t.Int())
	case nbt.TypeLong:
		e.i64(t.Long())
	case nbt.TypeFloat:
		e.u32(math.Float32bits(t.Float()))
	case nbt.TypeDouble:
		e.u64(math.Float64bits(t.Double()))
	case nbt.TypeString:
		return e.str(t.Str())
	case nbt.TypeByteArray:
		v := t.ByteArray()
		e.i32(int32(len(v)))
		for _, b := range v {
			e.buf = append(e.buf, byte(b))
		}
	case nbt.TypeIntArray:
		v := t.IntArray()
		e.i32(int32(len(v)))
		for _, n := range v {
			e.i32(n)
		}
	case nbt.TypeLongArray:
		v := t.LongArray()
		e.i32(int32(len(v)))
		for _, n := range v {
			e.i64(n)
		}
	case nbt.TypeList:
		l := t.List()
		e.buf = append(e.buf, byte(l.Elem()))
		e.i32(int32(l.Len()))
		for i := range l.Len() {
			if err := e.tag(l.At(i), depth+1); err != nil {
				return err
			}
		}
	case nbt.TypeCompound:
		c := t.Compound()
		for _, k := range c.Keys() {
			v, _ := c.Get(k)
			e.buf = append(e.buf, byte(v.Type))
			if err := e.str(k); err != nil {
				return err
			}
			if err := e.tag(v, depth+1); err != nil {
				return err
			}
		}
		e.buf = append(e.buf, byte(nbt.TypeEnd))
	default:
		return fmt.Errorf("%w: cannot encode %s", nbt.ErrType, t.Type)
	}
	return nil
}
