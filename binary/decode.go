package binary

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/tidefall/nbt-format/go-nbt/nbt"
)

// Decode parses one root document occupying all of data and returns its
// name (empty under AnyUnnamed) and tag.  Trailing bytes are an error; use
// DecodeSome for concatenated streams.
func Decode(data []byte, f Flavor, opts ...Option) (string, nbt.Tag, error) {
	name, tag, rest, err := DecodeSome(data, f, opts...)
	if err != nil {
		return "", nbt.Tag{}, err
	}
	if len(rest) != 0 {
		return "", nbt.Tag{}, fmt.Errorf("%w: %d trailing bytes at offset %d",
			ErrIo, len(rest), len(data)-len(rest))
	}
	return name, tag, nil
}

// DecodeSome parses one root document from the front of data and returns
// the unconsumed remainder.
func DecodeSome(data []byte, f Flavor, opts ...Option) (string, nbt.Tag, []byte, error) {
	o := buildOptions(opts)
	d := &decoder{data: data, f: f, depth: o.depth}

	id, err := d.u8()
	if err != nil {
		return "", nbt.Tag{}, nil, err
	}
	typ := nbt.Type(id)
	if !typ.Valid() {
		return "", nbt.Tag{}, nil, fmt.Errorf("%w: invalid root tag id %#02x at offset %d",
			ErrIo, id, d.off-1)
	}
	if !o.root.Allows(typ) {
		return "", nbt.Tag{}, nil, fmt.Errorf("%w: root is %s, policy %s",
			nbt.ErrRootPolicy, typ, o.root)
	}
	var name string
	if o.root.Named() {
		if name, err = d.str(); err != nil {
			return "", nbt.Tag{}, nil, err
		}
	}
	tag, err := d.tag(typ, 1)
	if err != nil {
		return "", nbt.Tag{}, nil, err
	}
	return name, tag, d.data[d.off:], nil
}

type decoder struct {
	data  []byte
	off   int
	f     Flavor
	depth nbt.DepthLimit
}

func (d *decoder) need(n int) ([]byte, error) {
	if n < 0 || len(d.data)-d.off < n {
		return nil, fmt.Errorf("%w: unexpected end of input at offset %d", ErrIo, d.off)
	}
	b := d.data[d.off : d.off+n]
	d.off += n
	return b, nil
}

func (d *decoder) u8() (byte, error) {
	b, err := d.need(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *decoder) u16() (uint16, error) {
	b, err := d.need(2)
	if err != nil {
		return 0, err
	}
	if d.f.Little {
		return uint16(b[0]) | uint16(b[1])<<8, nil
	}
	return uint16(b[1]) | uint16(b[0])<<8, nil
}

func (d *decoder) u32() (uint32, error) {
	b, err := d.need(4)
	if err != nil {
		return 0, err
	}
	if d.f.Little {
		return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
	}
	return uint32(b[3]) | uint32(b[2])<<8 | uint32(b[1])<<16 | uint32(b[0])<<24, nil
}

func (d *decoder) u64() (uint64, error) {
	b, err := d.need(8)
	if err != nil {
		return 0, err
	}
	if d.f.Little {
		return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
			uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56, nil
	}
	return uint64(b[7]) | uint64(b[6])<<8 | uint64(b[5])<<16 | uint64(b[4])<<24 |
		uint64(b[3])<<32 | uint64(b[2])<<40 | uint64(b[1])<<48 | uint64(b[0])<<56, nil
}

// uvarint reads an unsigned LEB128 value of at most bits significant bits.
func (d *decoder) uvarint(bits int) (uint64, error) {
	var v uint64
	for shift := 0; shift < bits+6; shift += 7 {
		c, err := d.u8()
		if err != nil {
			return 0, err
		}
		v |= uint64(c&0x7F) << shift
		if c&0x80 == 0 {
			if bits < 64 && v>>bits != 0 {
				return 0, fmt.Errorf("%w: varint overflows %d bits at offset %d",
					ErrIo, bits, d.off)
			}
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: varint too long at offset %d", ErrIo, d.off)
}

func (d *decoder) i32() (int32, error) {
	if d.f.VarInts {
		v, err := d.uvarint(32)
		if err != nil {
			return 0, err
		}
		return int32(uint32(v)>>1) ^ -int32(v&1), nil
	}
	v, err := d.u32()
	return int32(v), err
}

func (d *decoder) i64() (int64, error) {
	if d.f.VarInts {
		v, err := d.uvarint(64)
		if err != nil {
			return 0, err
		}
		return int64(v>>1) ^ -int64(v&1), nil
	}
	v, err := d.u64()
	return int64(v), err
}

// length reads an i32 list or array length and bounds-checks it against the
// remaining input, with width the minimum bytes per element.  Varint flavors
// encode any element in as little as one byte, so width shrinks to 1 there.
func (d *decoder) length(width int) (int, error) {
	if d.f.VarInts && width > 1 {
		width = 1
	}
	at := d.off
	n, err := d.i32()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative length %d at offset %d", ErrIo, n, at)
	}
	if width > 0 && int(n) > (len(d.data)-d.off)/width {
		return 0, fmt.Errorf("%w: length %d exceeds remaining input at offset %d",
			ErrIo, n, at)
	}
	return int(n), nil
}

func (d *decoder) str() (string, error) {
	var n int
	if d.f.VarInts {
		v, err := d.uvarint(32)
		if err != nil {
			return "", err
		}
		if v > uint64(len(d.data)-d.off) {
			return "", fmt.Errorf("%w: string length %d exceeds remaining input at offset %d",
				ErrIo, v, d.off)
		}
		n = int(v)
	} else {
		v, err := d.u16()
		if err != nil {
			return "", err
		}
		n = int(v)
	}
	at := d.off
	b, err := d.need(n)
	if err != nil {
		return "", err
	}
	if d.f.ModifiedUTF8 {
		s, err := decodeMUTF8(b)
		if err != nil {
			return "", fmt.Errorf("%w at offset %d", err, at)
		}
		return s, nil
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: invalid UTF-8 at offset %d", ErrEncoding, at)
	}
	return string(b), nil
}

func (d *decoder) tag(typ nbt.Type, depth nbt.DepthLimit) (nbt.Tag, error) {
	if depth > d.depth {
		return nbt.Tag{}, fmt.Errorf("%w: nesting over %d at offset %d",
			nbt.ErrDepth, d.depth, d.off)
	}
	switch typ {
	case nbt.TypeByte:
		v, err := d.u8()
		return nbt.Byte(int8(v)), err
	case nbt.TypeShort:
		v, err := d.u16()
		return nbt.Short(int16(v)), err
	case nbt.TypeInt:
		v, err := d.i32()
		return nbt.Int(v), err
	case nbt.TypeLong:
		v, err := d.i64()
		return nbt.Long(v), err
	case nbt.TypeFloat:
		v, err := d.u32()
		return nbt.Float(math.Float32frombits(v)), err
	case nbt.TypeDouble:
		v, err := d.u64()
		return nbt.Double(math.Float64frombits(v)), err
	case nbt.TypeString:
		s, err := d.str()
		return nbt.String(s), err
	case nbt.TypeByteArray:
		n, err := d.length(1)
		if err != nil {
			return nbt.Tag{}, err
		}
		b, err := d.need(n)
		if err != nil {
			return nbt.Tag{}, err
		}
		out := make([]int8, n)
		for i, c := range b {
			out[i] = int8(c)
		}
		return nbt.ByteArray(out), nil
	case nbt.TypeIntArray:
		n, err := d.length(4)
		if err != nil {
			return nbt.Tag{}, err
		}
		out := make([]int32, n)
		for i := range out {
			if out[i], err = d.i32(); err != nil {
				return nbt.Tag{}, err
			}
		}
		return nbt.IntArray(out), nil
	case nbt.TypeLongArray:
		n, err := d.length(8)
		if err != nil {
			return nbt.Tag{}, err
		}
		out := make([]int64, n)
		for i := range out {
			if out[i], err = d.i64(); err != nil {
				return nbt.Tag{}, err
			}
		}
		return nbt.LongArray(out), nil
	case nbt.TypeList:
		return d.list(depth)
	case nbt.TypeCompound:
		return d.compound(depth)
	}
	return nbt.Tag{}, fmt.Errorf("%w: invalid tag id %#02x at offset %d",
		ErrIo, byte(typ), d.off)
}

func (d *decoder) list(depth nbt.DepthLimit) (nbt.Tag, error) {
	at := d.off
	id, err := d.u8()
	if err != nil {
		return nbt.Tag{}, err
	}
	elem := nbt.Type(id)
	n, err := d.length(1)
	if err != nil {
		return nbt.Tag{}, err
	}
	if elem == nbt.TypeEnd {
		if n != 0 {
			return nbt.Tag{}, fmt.Errorf("%w: %d elements of End at offset %d", ErrIo, n, at)
		}
		return nbt.ListTag(nbt.NewList(nbt.TypeEnd)), nil
	}
	if !elem.Valid() {
		return nbt.Tag{}, fmt.Errorf("%w: invalid list element id %#02x at offset %d",
			ErrIo, id, at)
	}
	l := nbt.NewList(elem)
	for range n {
		t, err := d.tag(elem, depth+1)
		if err != nil {
			return nbt.Tag{}, err
		}
		if err := l.Push(t); err != nil {
			return nbt.Tag{}, err
		}
	}
	return nbt.ListTag(l), nil
}

func (d *decoder) compound(depth nbt.DepthLimit) (nbt.Tag, error) {
	c := nbt.NewCompound()
	for {
		id, err := d.u8()
		if err != nil {
			return nbt.Tag{}, err
		}
		typ := nbt.Type(id)
		if typ == nbt.TypeEnd {
			return nbt.CompoundTag(c), nil
		}
		if !typ.Valid() {
			return nbt.Tag{}, fmt.Errorf("%w: invalid tag id %#02x at offset %d",
				ErrIo, id, d.off-1)
		}
		at := d.off
		name, err := d.str()
		if err != nil {
			return nbt.Tag{}, err
		}
		t, err := d.tag(typ, depth+1)
		if err != nil {
			return nbt.Tag{}, err
		}
		if err := c.Insert(name, t); err != nil {
			return nbt.Tag{}, fmt.Errorf("%w at offset %d", err, at)
		}
	}
}
