package snbt

import (
	"errors"
	"strings"
	"testing"

	"github.com/tidefall/nbt-format/go-nbt/nbt"
)

func mustParse(t *testing.T, src string, opts ...Option) nbt.Tag {
	t.Helper()
	tag, err := Parse(src, opts...)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return tag
}

func TestParseScalars(t *testing.T) {
	for _, tc := range []struct {
		src  string
		want nbt.Tag
	}{
		{"127b", nbt.Byte(127)},
		{"-128B", nbt.Byte(-128)},
		{"300s", nbt.Short(300)},
		{"42", nbt.Int(42)},
		{"-2147483648", nbt.Int(-2147483648)},
		{"9223372036854775807l", nbt.Long(9223372036854775807)},
		{"1.5f", nbt.Float(1.5)},
		{"2.5d", nbt.Double(2.5)},
		{"0.25", nbt.Double(0.25)},
		{"1e3", nbt.Double(1000)},
		{"true", nbt.Byte(1)},
		{"false", nbt.Byte(0)},
		{"hello", nbt.String("hello")},
		{"12abc", nbt.String("12abc")},
		// out-of-range unsuffixed integers degrade to strings
		{"99999999999999999999", nbt.String("99999999999999999999")},
		{`"quoted"`, nbt.String("quoted")},
		{`'single "quotes"'`, nbt.String(`single "quotes"`)},
	} {
		got := mustParse(t, tc.src)
		if !nbt.Equal(got, tc.want) {
			t.Errorf("Parse(%q) = %v (%s), want %v (%s)",
				tc.src, got, got.Type, tc.want, tc.want.Type)
		}
	}
}

func TestParseCollections(t *testing.T) {
	tag := mustParse(t, ` { name : "x" , nums : [ 1 , 2 , 3 ] ,
		bytes : [B; 1b , -2b ] , ints : [I; 7 ] , longs : [L; -1l ] ,
		nested : { a : { b : [] } } } `)
	c := tag.Compound()
	if v, _ := c.GetString("name"); v != "x" {
		t.Errorf("name = %q", v)
	}
	l, _ := c.GetList("nums")
	if l.Len() != 3 || l.Elem() != nbt.TypeInt {
		t.Errorf("nums: len=%d elem=%s", l.Len(), l.Elem())
	}
	if v, _ := c.Get("bytes"); !nbt.Equal(v, nbt.ByteArray([]int8{1, -2})) {
		t.Errorf("bytes = %v", v)
	}
	if v, _ := c.Get("longs"); !nbt.Equal(v, nbt.LongArray([]int64{-1})) {
		t.Errorf("longs = %v", v)
	}
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		src  string
		want error
	}{
		{"", ErrParse},
		{"{", ErrParse},
		{"{a:1", ErrParse},
		{"[1,]", ErrParse},
		{`"unterminated`, ErrParse},
		{"{a:1,a:2}", nbt.ErrType},
		{"[1,2b]", nbt.ErrType},
		{"[B;300]", ErrParse},
		{`[B;"x"]`, ErrParse},
		{"1 2", ErrParse},
	} {
		if _, err := Parse(tc.src); !errors.Is(err, tc.want) {
			t.Errorf("Parse(%q) err = %v, want %v", tc.src, err, tc.want)
		}
	}
}

func TestEscapes(t *testing.T) {
	got := mustParse(t, `"a\n\t\s\x41é\U0001F600\N{GREEK SMALL LETTER ALPHA}"`)
	want := "a\n\t Aé\U0001F600α"
	if got.Str() != want {
		t.Fatalf("got %q, want %q", got.Str(), want)
	}
}

func TestEscapeCapabilities(t *testing.T) {
	// quote and backslash escapes survive even with everything disabled
	got := mustParse(t, `"a\\b\"c"`, WithEscapes(NoEscapes))
	if got.Str() != `a\b"c` {
		t.Fatalf("got %q", got.Str())
	}
	for _, src := range []string{`"\n"`, `"\x41"`, `"\u0041"`, `"\N{LATIN SMALL LETTER A}"`} {
		if _, err := Parse(src, WithEscapes(NoEscapes)); !errors.Is(err, ErrParse) {
			t.Errorf("Parse(%s) with NoEscapes: err = %v, want ErrParse", src, err)
		}
	}
}

func TestNamedEscapeUnknown(t *testing.T) {
	_, err := Parse(`"\N{NOT A REAL CHARACTER NAME}"`)
	if !errors.Is(err, ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
}

func TestUnicodeEscapeRejectsSurrogates(t *testing.T) {
	if _, err := Parse(`"\uD800"`); !errors.Is(err, ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	c := nbt.NewCompound()
	c.Set("plain key", nbt.String("needs \"quotes\"\n"))
	c.Set("num-ish", nbt.String("1.5"))
	c.Set("b", nbt.Byte(-1))
	c.Set("f", nbt.Float(0.5))
	c.Set("arr", nbt.IntArray([]int32{-2147483648, -1, 0, 2147483647}))
	inner, err := nbt.ListOf(nbt.String("a"), nbt.String("b"))
	if err != nil {
		t.Fatal(err)
	}
	c.Set("list", nbt.ListTag(inner))
	orig := nbt.CompoundTag(c)

	text, err := Format(orig)
	if err != nil {
		t.Fatal(err)
	}
	got := mustParse(t, text)
	if !nbt.Equal(orig, got) {
		t.Fatalf("round trip changed tree:\ntext: %s\n in: %v\nout: %v", text, orig, got)
	}
}

func TestFormatSpecials(t *testing.T) {
	for _, tc := range []struct {
		tag  nbt.Tag
		want string
	}{
		{nbt.Byte(3), "3b"},
		{nbt.String("plain"), "plain"},
		{nbt.String("true"), `"true"`},
		{nbt.String("3b"), `"3b"`},
		{nbt.ByteArray([]int8{1, 2}), "[B;1b,2b]"},
		{nbt.ListTag(nbt.NewList(nbt.TypeEnd)), "[]"},
	} {
		got, err := Format(tc.tag)
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.want {
			t.Errorf("Format(%v) = %q, want %q", tc.tag, got, tc.want)
		}
	}
}

func TestDepthLimitShared(t *testing.T) {
	deep := strings.Repeat("{a:", 513) + "1" + strings.Repeat("}", 513)
	if _, err := Parse(deep); !errors.Is(err, nbt.ErrDepth) {
		t.Fatalf("err = %v, want ErrDepth", err)
	}
	ok := strings.Repeat("{a:", 511) + "1" + strings.Repeat("}", 511)
	if _, err := Parse(ok); err != nil {
		t.Fatalf("depth 512 should parse: %v", err)
	}
}
