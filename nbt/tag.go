package nbt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Type identifies the kind of a Tag.  The values match the wire tag ids
// used by every binary flavor.
type Type byte

const (
	TypeEnd Type = iota
	TypeByte
	TypeShort
	TypeInt
	TypeLong
	TypeFloat
	TypeDouble
	TypeByteArray
	TypeString
	TypeList
	TypeCompound
	TypeIntArray
	TypeLongArray

	typeMax
)

var typeNames = [typeMax]string{
	"End", "Byte", "Short", "Int", "Long", "Float", "Double",
	"ByteArray", "String", "List", "Compound", "IntArray", "LongArray",
}

func (t Type) String() string {
	if t < typeMax {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", byte(t))
}

// Valid reports whether t is one of the twelve payload-bearing kinds.
// TypeEnd is a wire marker, not a value kind.
func (t Type) Valid() bool {
	return t > TypeEnd && t < typeMax
}

// Tag is a single NBT value.  Type selects which of the payload fields is
// meaningful; the rest are zero.  Accessor methods panic on kind mismatch,
// mirroring how a map access on a nil map panics: such a mismatch is a
// program bug, not input-dependent state.  Use Type checks or Get* helpers
// on Compound for input-dependent access.
type Tag struct {
	Type Type

	b   int8
	s   int16
	i   int32
	l   int64
	f   float32
	d   float64
	str string

	bytes []int8
	ints  []int32
	longs []int64

	list *List
	comp *Compound
}

func Byte(v int8) Tag      { return Tag{Type: TypeByte, b: v} }
func Short(v int16) Tag    { return Tag{Type: TypeShort, s: v} }
func Int(v int32) Tag      { return Tag{Type: TypeInt, i: v} }
func Long(v int64) Tag     { return Tag{Type: TypeLong, l: v} }
func Float(v float32) Tag  { return Tag{Type: TypeFloat, f: v} }
func Double(v float64) Tag { return Tag{Type: TypeDouble, d: v} }
func String(v string) Tag  { return Tag{Type: TypeString, str: v} }

// Bool is Byte(1) or Byte(0); NBT has no boolean kind.
func Bool(v bool) Tag {
	if v {
		return Byte(1)
	}
	return Byte(0)
}

func ByteArray(v []int8) Tag  { return Tag{Type: TypeByteArray, bytes: v} }
func IntArray(v []int32) Tag  { return Tag{Type: TypeIntArray, ints: v} }
func LongArray(v []int64) Tag { return Tag{Type: TypeLongArray, longs: v} }

func ListTag(l *List) Tag {
	if l == nil {
		l = NewList(TypeEnd)
	}
	return Tag{Type: TypeList, list: l}
}

func CompoundTag(c *Compound) Tag {
	if c == nil {
		c = NewCompound()
	}
	return Tag{Type: TypeCompound, comp: c}
}

func (t Tag) mustBe(want Type) {
	if t.Type != want {
		panic(fmt.Sprintf("nbt: %s accessed as %s", t.Type, want))
	}
}

func (t Tag) Byte() int8         { t.mustBe(TypeByte); return t.b }
func (t Tag) Short() int16       { t.mustBe(TypeShort); return t.s }
func (t Tag) Int() int32         { t.mustBe(TypeInt); return t.i }
func (t Tag) Long() int64        { t.mustBe(TypeLong); return t.l }
func (t Tag) Float() float32     { t.mustBe(TypeFloat); return t.f }
func (t Tag) Double() float64    { t.mustBe(TypeDouble); return t.d }
func (t Tag) Str() string        { t.mustBe(TypeString); return t.str }
func (t Tag) ByteArray() []int8  { t.mustBe(TypeByteArray); return t.bytes }
func (t Tag) IntArray() []int32  { t.mustBe(TypeIntArray); return t.ints }
func (t Tag) LongArray() []int64 { t.mustBe(TypeLongArray); return t.longs }
func (t Tag) List() *List        { t.mustBe(TypeList); return t.list }
func (t Tag) Compound() *Compound {
	t.mustBe(TypeCompound)
	return t.comp
}

// AsInt64 widens any integral tag to int64.  ok is false for non-integral
// kinds.
func (t Tag) AsInt64() (v int64, ok bool) {
	switch t.Type {
	case TypeByte:
		return int64(t.b), true
	case TypeShort:
		return int64(t.s), true
	case TypeInt:
		return int64(t.i), true
	case TypeLong:
		return t.l, true
	}
	return 0, false
}

// AsFloat64 widens Float and Double to float64.
func (t Tag) AsFloat64() (v float64, ok bool) {
	switch t.Type {
	case TypeFloat:
		return float64(t.f), true
	case TypeDouble:
		return t.d, true
	}
	return 0, false
}

// Copy returns a deep copy of t.  Scalars and strings share nothing with
// the original by construction; arrays, lists and compounds are cloned.
func (t Tag) Copy() Tag {
	switch t.Type {
	case TypeByteArray:
		t.bytes = append([]int8(nil), t.bytes...)
	case TypeIntArray:
		t.ints = append([]int32(nil), t.ints...)
	case TypeLongArray:
		t.longs = append([]int64(nil), t.longs...)
	case TypeList:
		t.list = t.list.Copy()
	case TypeCompound:
		t.comp = t.comp.Copy()
	}
	return t
}

// String renders t in a compact SNBT-like form for debugging and error
// messages.  It is not the text codec; see package snbt for that.
func (t Tag) String() string {
	var sb strings.Builder
	t.debugString(&sb)
	return sb.String()
}

func (t Tag) debugString(sb *strings.Builder) {
	switch t.Type {
	case TypeByte:
		sb.WriteString(strconv.FormatInt(int64(t.b), 10))
		sb.WriteByte('b')
	case TypeShort:
		sb.WriteString(strconv.FormatInt(int64(t.s), 10))
		sb.WriteByte('s')
	case TypeInt:
		sb.WriteString(strconv.FormatInt(int64(t.i), 10))
	case TypeLong:
		sb.WriteString(strconv.FormatInt(t.l, 10))
		sb.WriteByte('l')
	case TypeFloat:
		sb.WriteString(formatFloat(float64(t.f), 32))
		sb.WriteByte('f')
	case TypeDouble:
		sb.WriteString(formatFloat(t.d, 64))
		sb.WriteByte('d')
	case TypeString:
		sb.WriteString(strconv.Quote(t.str))
	case TypeByteArray:
		sb.WriteString("[B;")
		for i, v := range t.bytes {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.FormatInt(int64(v), 10))
		}
		sb.WriteByte(']')
	case TypeIntArray:
		sb.WriteString("[I;")
		for i, v := range t.ints {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.FormatInt(int64(v), 10))
		}
		sb.WriteByte(']')
	case TypeLongArray:
		sb.WriteString("[L;")
		for i, v := range t.longs {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.FormatInt(v, 10))
		}
		sb.WriteByte(']')
	case TypeList:
		sb.WriteByte('[')
		for i := range t.list.Len() {
			if i > 0 {
				sb.WriteByte(',')
			}
			t.list.At(i).debugString(sb)
		}
		sb.WriteByte(']')
	case TypeCompound:
		sb.WriteByte('{')
		for i, k := range t.comp.Keys() {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Quote(k))
			sb.WriteByte(':')
			v, _ := t.comp.Get(k)
			v.debugString(sb)
		}
		sb.WriteByte('}')
	default:
		sb.WriteString(t.Type.String())
	}
}

func formatFloat(v float64, bits int) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if math.IsInf(v, 1) {
		return "Inf"
	}
	if math.IsInf(v, -1) {
		return "-Inf"
	}
	return strconv.FormatFloat(v, 'g', -1, bits)
}
