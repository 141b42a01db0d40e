package nbt

import (
	"math"
	"strings"
)

// Compare totally orders two tags.  Tags of different kinds order by kind;
// tags of the same kind order by value, lists and compounds
// lexicographically.  Floats order by value and fall back to bit patterns,
// so NaN payloads and signed zeros compare deterministically and
// Compare(a, b) == 0 means a and b are bit-for-bit equal.
func Compare(a, b Tag) int {
	if a.Type != b.Type {
		return int(a.Type) - int(b.Type)
	}
	switch a.Type {
	case TypeByte:
		return cmpInt(int64(a.b), int64(b.b))
	case TypeShort:
		return cmpInt(int64(a.s), int64(b.s))
	case TypeInt:
		return cmpInt(int64(a.i), int64(b.i))
	case TypeLong:
		return cmpInt(a.l, b.l)
	case TypeFloat:
		return cmpBits(float64(a.f), float64(b.f),
			uint64(math.Float32bits(a.f)), uint64(math.Float32bits(b.f)))
	case TypeDouble:
		return cmpBits(a.d, b.d, math.Float64bits(a.d), math.Float64bits(b.d))
	case TypeString:
		return strings.Compare(a.str, b.str)
	case TypeByteArray:
		return cmpSlice(a.bytes, b.bytes, func(x, y int8) int {
			return cmpInt(int64(x), int64(y))
		})
	case TypeIntArray:
		return cmpSlice(a.ints, b.ints, func(x, y int32) int {
			return cmpInt(int64(x), int64(y))
		})
	case TypeLongArray:
		return cmpSlice(a.longs, b.longs, cmpInt)
	case TypeList:
		if c := int(a.list.elem) - int(b.list.elem); c != 0 {
			return c
		}
		return cmpSlice(a.list.tags, b.list.tags, Compare)
	case TypeCompound:
		return compareCompound(a.comp, b.comp)
	}
	return 0
}

func compareCompound(a, b *Compound) int {
	ak, bk := a.sortedKeys(), b.sortedKeys()
	for i := 0; i < len(ak) && i < len(bk); i++ {
		if c := strings.Compare(ak[i], bk[i]); c != 0 {
			return c
		}
		av, _ := a.Get(ak[i])
		bv, _ := b.Get(bk[i])
		if c := Compare(av, bv); c != 0 {
			return c
		}
	}
	return len(ak) - len(bk)
}

// sortedKeys returns the keys in sorted order without reordering c.
func (c *Compound) sortedKeys() []string {
	ks := append([]string(nil), c.keys...)
	sortStrings(ks)
	return ks
}

func sortStrings(ss []string) {
	// insertion sort; compounds are small and often already ordered
	for i := 1; i < len(ss); i++ {
		for j := i; j > 0 && ss[j] < ss[j-1]; j-- {
			ss[j], ss[j-1] = ss[j-1], ss[j]
		}
	}
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpBits(a, b float64, abits, bbits uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	case abits < bbits:
		return -1
	case abits > bbits:
		return 1
	}
	return 0
}

func cmpSlice[T any](a, b []T, cmp func(T, T) int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := cmp(a[i], b[i]); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}

// Equal reports exact structural equality.  Compound entry order is
// ignored; float payloads must match bit for bit, so NaN equals an
// identical NaN and 0.0 differs from -0.0.
func Equal(a, b Tag) bool { return Compare(a, b) == 0 }

// EqualApprox is Equal with a tolerance on Float and Double payloads.
// Two floats are equal when |a-b| <= tol, or when both are NaN.  Exact and
// approximate matching are never mixed: tol applies to every float in the
// tree, and all other kinds still compare exactly.
func EqualApprox(a, b Tag, tol float64) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case TypeFloat:
		return approxEq(float64(a.f), float64(b.f), tol)
	case TypeDouble:
		return approxEq(a.d, b.d, tol)
	case TypeList:
		if a.list.elem != b.list.elem || a.list.Len() != b.list.Len() {
			return false
		}
		for i := range a.list.tags {
			if !EqualApprox(a.list.tags[i], b.list.tags[i], tol) {
				return false
			}
		}
		return true
	case TypeCompound:
		if a.comp.Len() != b.comp.Len() {
			return false
		}
		for _, k := range a.comp.keys {
			bv, ok := b.comp.Get(k)
			if !ok {
				return false
			}
			av, _ := a.comp.Get(k)
			if !EqualApprox(av, bv, tol) {
				return false
			}
		}
		return true
	}
	return Compare(a, b) == 0
}

func approxEq(a, b, tol float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return math.Abs(a-b) <= tol
}
