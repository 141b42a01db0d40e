package nbt

import (
	"errors"
	"math"
	"testing"
)

func TestListHomogeneity(t *testing.T) {
	l := NewList(TypeEnd)
	if err := l.Push(Int(1)); err != nil {
		t.Fatal(err)
	}
	if l.Elem() != TypeInt {
		t.Fatalf("elem = %s, want Int", l.Elem())
	}
	err := l.Push(Short(2))
	if !errors.Is(err, ErrType) {
		t.Fatalf("pushing Short into Int list: err = %v, want ErrType", err)
	}
	if l.Len() != 1 {
		t.Fatalf("failed push mutated the list: len = %d", l.Len())
	}
}

func TestEmptyListKeepsElem(t *testing.T) {
	l := NewList(TypeString)
	if l.Len() != 0 || l.Elem() != TypeString {
		t.Fatalf("got len=%d elem=%s", l.Len(), l.Elem())
	}
	if err := l.Push(Int(1)); !errors.Is(err, ErrType) {
		t.Fatalf("typed empty list accepted wrong kind: %v", err)
	}
}

func TestCompoundDuplicateKey(t *testing.T) {
	c := NewCompound()
	if err := c.Insert("a", Int(1)); err != nil {
		t.Fatal(err)
	}
	if err := c.Insert("a", Int(2)); !errors.Is(err, ErrType) {
		t.Fatalf("duplicate insert: err = %v, want ErrType", err)
	}
	v, _ := c.GetInt("a")
	if v != 1 {
		t.Fatalf("duplicate insert clobbered value: %d", v)
	}
	c.Set("a", Int(3))
	if v, _ := c.GetInt("a"); v != 3 {
		t.Fatalf("Set did not replace: %d", v)
	}
}

func TestCompoundRemove(t *testing.T) {
	c := NewCompound()
	for _, k := range []string{"x", "y", "z"} {
		if err := c.Insert(k, String(k)); err != nil {
			t.Fatal(err)
		}
	}
	if !c.Remove("y") {
		t.Fatal("Remove(y) = false")
	}
	if c.Remove("y") {
		t.Fatal("second Remove(y) = true")
	}
	want := []string{"x", "z"}
	got := c.Keys()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("keys = %v, want %v", got, want)
	}
	if _, ok := c.Get("z"); !ok {
		t.Fatal("index broken after Remove")
	}
}

func TestCopyIsDeep(t *testing.T) {
	inner := NewCompound()
	inner.Set("n", IntArray([]int32{1, 2, 3}))
	root := NewCompound()
	root.Set("inner", CompoundTag(inner))

	dup := CompoundTag(root).Copy()
	inner.Set("n", IntArray([]int32{9}))

	dupInner, _ := dup.Compound().GetCompound("inner")
	arr, _ := dupInner.Get("n")
	if got := arr.IntArray(); len(got) != 3 || got[0] != 1 {
		t.Fatalf("copy shares state with original: %v", got)
	}
}

func TestCompareOrdersByKindThenValue(t *testing.T) {
	for _, tc := range []struct {
		a, b Tag
		want int
	}{
		{Byte(1), Short(1), -1},
		{Int(1), Int(2), -1},
		{Long(5), Long(5), 0},
		{String("a"), String("b"), -1},
		{Double(1), Double(2), -1},
		{IntArray([]int32{1}), IntArray([]int32{1, 0}), -1},
	} {
		got := Compare(tc.a, tc.b)
		if sign(got) != tc.want {
			t.Errorf("Compare(%v, %v) = %d, want sign %d", tc.a, tc.b, got, tc.want)
		}
		if sign(Compare(tc.b, tc.a)) != -tc.want {
			t.Errorf("Compare(%v, %v) not antisymmetric", tc.b, tc.a)
		}
	}
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

func TestEqualBitExactFloats(t *testing.T) {
	nan := Double(math.NaN())
	if !Equal(nan, nan) {
		t.Error("identical NaNs must be Equal")
	}
	if Equal(Double(0), Double(math.Copysign(0, -1))) {
		t.Error("0.0 and -0.0 must differ under exact equality")
	}
}

func TestEqualApprox(t *testing.T) {
	a, b := NewCompound(), NewCompound()
	a.Set("v", Float(1.0))
	b.Set("v", Float(1.0+1e-6))
	ta, tb := CompoundTag(a), CompoundTag(b)
	if Equal(ta, tb) {
		t.Fatal("exact equality should fail")
	}
	if !EqualApprox(ta, tb, 1e-4) {
		t.Fatal("approximate equality should hold at 1e-4")
	}
	if EqualApprox(ta, tb, 1e-9) {
		t.Fatal("approximate equality should fail at 1e-9")
	}
}

func TestCompoundEqualIgnoresOrder(t *testing.T) {
	a, b := NewCompound(), NewCompound()
	a.Set("x", Int(1))
	a.Set("y", Int(2))
	b.Set("y", Int(2))
	b.Set("x", Int(1))
	if !Equal(CompoundTag(a), CompoundTag(b)) {
		t.Fatal("insertion order must not affect equality")
	}
}
