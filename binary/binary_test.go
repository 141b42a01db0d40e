package binary

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tidefall/nbt-format/go-nbt/nbt"
)

func sampleTree(t *testing.T) nbt.Tag {
	t.Helper()
	pos, err := nbt.ListOf(nbt.Double(1.5), nbt.Double(-2.25), nbt.Double(64))
	if err != nil {
		t.Fatal(err)
	}
	inner := nbt.NewCompound()
	inner.Set("id", nbt.String("minecraft:chest"))
	inner.Set("count", nbt.Byte(-5))
	c := nbt.NewCompound()
	c.Set("byte", nbt.Byte(127))
	c.Set("short", nbt.Short(-32768))
	c.Set("int", nbt.Int(-2147483648))
	c.Set("long", nbt.Long(9223372036854775807))
	c.Set("float", nbt.Float(3.5))
	c.Set("double", nbt.Double(-0.001))
	c.Set("string", nbt.String("héllo\x00wörld \U0001F600"))
	c.Set("bytes", nbt.ByteArray([]int8{-128, -1, 0, 127}))
	c.Set("ints", nbt.IntArray([]int32{math.MinInt32, -1, 0, math.MaxInt32}))
	c.Set("longs", nbt.LongArray([]int64{math.MinInt64, -1, 0, math.MaxInt64}))
	c.Set("pos", nbt.ListTag(pos))
	c.Set("empty", nbt.ListTag(nbt.NewList(nbt.TypeEnd)))
	c.Set("inner", nbt.CompoundTag(inner))
	return nbt.CompoundTag(c)
}

func TestRoundTripAllFlavors(t *testing.T) {
	root := sampleTree(t)
	for _, f := range []Flavor{Java, Bedrock, Network} {
		t.Run(f.Name, func(t *testing.T) {
			data, err := Encode("root", root, f)
			if err != nil {
				t.Fatal(err)
			}
			name, got, err := Decode(data, f)
			if err != nil {
				t.Fatal(err)
			}
			if name != "root" {
				t.Errorf("name = %q", name)
			}
			if !nbt.Equal(root, got) {
				t.Errorf("round trip changed tree:\n in: %v\nout: %v", root, got)
			}
		})
	}
}

func TestCrossFlavorPreservesValues(t *testing.T) {
	root := sampleTree(t)
	java, err := Encode("r", root, Java)
	if err != nil {
		t.Fatal(err)
	}
	_, tree, err := Decode(java, Java)
	if err != nil {
		t.Fatal(err)
	}
	net, err := Encode("r", tree, Network)
	if err != nil {
		t.Fatal(err)
	}
	_, got, err := Decode(net, Network)
	if err != nil {
		t.Fatal(err)
	}
	if !nbt.Equal(root, got) {
		t.Error("java -> network transcode changed values")
	}
}

// The classic hello world document, byte for byte.
func TestJavaKnownBytes(t *testing.T) {
	c := nbt.NewCompound()
	c.Set("name", nbt.String("Bananrama"))
	got, err := Encode("hello world", nbt.CompoundTag(c), Java)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{
		0x0A, 0x00, 0x0B, 'h', 'e', 'l', 'l', 'o', ' ', 'w', 'o', 'r', 'l', 'd',
		0x08, 0x00, 0x04, 'n', 'a', 'm', 'e',
		0x00, 0x09, 'B', 'a', 'n', 'a', 'n', 'r', 'a', 'm', 'a',
		0x00,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("encoding mismatch (-want +got):\n%s", diff)
	}
}

func TestNetworkVarints(t *testing.T) {
	c := nbt.NewCompound()
	c.Set("v", nbt.Int(-1))
	data, err := Encode("", nbt.CompoundTag(c), Network)
	if err != nil {
		t.Fatal(err)
	}
	// 0x0A, name len uvarint 0, inner: 0x03, key len 1, 'v', zigzag(-1)=1, End
	want := []byte{0x0A, 0x00, 0x03, 0x01, 'v', 0x01, 0x00}
	if !bytes.Equal(data, want) {
		t.Fatalf("got % x, want % x", data, want)
	}
	_, tag, err := Decode(data, Network)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := tag.Compound().GetInt("v"); v != -1 {
		t.Errorf("decoded %d, want -1", v)
	}
}

// Small varint values occupy one byte, so an array can be longer than a
// quarter of the remaining input and still be well formed.
func TestNetworkShortVarintArrays(t *testing.T) {
	c := nbt.NewCompound()
	c.Set("ints", nbt.IntArray(make([]int32, 100)))
	c.Set("longs", nbt.LongArray(make([]int64, 100)))
	root := nbt.CompoundTag(c)
	data, err := Encode("", root, Network)
	if err != nil {
		t.Fatal(err)
	}
	_, got, err := Decode(data, Network)
	if err != nil {
		t.Fatalf("decoding own encoding: %v", err)
	}
	if !nbt.Equal(root, got) {
		t.Error("round trip mismatch")
	}
}

func TestDepthLimit(t *testing.T) {
	// a chain of 513 nested compounds fails, 512 passes
	build := func(n int) nbt.Tag {
		tag := nbt.CompoundTag(nbt.NewCompound())
		for range n - 1 {
			c := nbt.NewCompound()
			c.Set("d", tag)
			tag = nbt.CompoundTag(c)
		}
		return tag
	}
	if _, err := Encode("", build(512), Bedrock); err != nil {
		t.Fatalf("depth 512 should encode: %v", err)
	}
	if _, err := Encode("", build(513), Bedrock); !errors.Is(err, nbt.ErrDepth) {
		t.Fatalf("depth 513: err = %v, want ErrDepth", err)
	}

	data, err := Encode("", build(512), Bedrock)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := Decode(data, Bedrock, WithDepthLimit(511)); !errors.Is(err, nbt.ErrDepth) {
		t.Fatalf("decode over limit: err = %v, want ErrDepth", err)
	}
}

func TestRootPolicy(t *testing.T) {
	data, err := Encode("n", nbt.Int(7), Java, WithRootPolicy(nbt.AnyNamed))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := Decode(data, Java); !errors.Is(err, nbt.ErrRootPolicy) {
		t.Fatalf("default policy accepted Int root: %v", err)
	}
	name, tag, err := Decode(data, Java, WithRootPolicy(nbt.AnyNamed))
	if err != nil {
		t.Fatal(err)
	}
	if name != "n" || tag.Int() != 7 {
		t.Errorf("got %q %v", name, tag)
	}

	bare, err := Encode("", nbt.Long(-3), Network, WithRootPolicy(nbt.AnyUnnamed))
	if err != nil {
		t.Fatal(err)
	}
	// tag id + zigzag(-3) = 5, no name field
	if want := []byte{0x04, 0x05}; !bytes.Equal(bare, want) {
		t.Fatalf("got % x, want % x", bare, want)
	}
}

func TestDecodeErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrIo},
		{"bad root id", []byte{0x7F}, ErrIo},
		{"truncated name", []byte{0x0A, 0x00, 0x05, 'a'}, ErrIo},
		{"truncated payload", []byte{0x0A, 0x00, 0x00, 0x03, 0x00, 0x01, 'x', 0x00, 0x00}, ErrIo},
		{"oversized array len", []byte{0x0A, 0x00, 0x00, 0x0B, 0x00, 0x01, 'x', 0x7F, 0xFF, 0xFF, 0xFF, 0x00}, ErrIo},
		{"trailing bytes", []byte{0x0A, 0x00, 0x00, 0x00, 0xFF}, ErrIo},
		{"bad utf8 name", []byte{0x0A, 0x01, 0x00, 0xFF, 0x00}, ErrEncoding},
		{"dup keys", []byte{
			0x0A, 0x00, 0x00,
			0x01, 0x00, 0x01, 'k', 0x01,
			0x01, 0x00, 0x01, 'k', 0x02,
			0x00,
		}, nbt.ErrType},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := Java
			if tc.name == "bad utf8 name" {
				f = Bedrock
			}
			_, _, err := Decode(tc.data, f)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestMUTF8(t *testing.T) {
	s := "a\x00b\U0001F600é"
	var buf []byte
	buf, err := appendMUTF8(buf, s)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.IndexByte(buf, 0) >= 0 {
		t.Fatal("modified UTF-8 must not contain raw NUL")
	}
	if len(buf) != mutf8Len(s) {
		t.Fatalf("mutf8Len = %d, encoded %d", mutf8Len(s), len(buf))
	}
	got, err := decodeMUTF8(buf)
	if err != nil {
		t.Fatal(err)
	}
	if got != s {
		t.Fatalf("round trip %q != %q", got, s)
	}

	for _, bad := range [][]byte{
		{0x00},             // raw NUL
		{0xC1, 0x81},       // overlong
		{0xED, 0xA0, 0x80}, // lone high surrogate
		{0xED, 0xA0, 0x80, 0xED, 0xB0, 0x41}, // low half with a bad continuation byte
		{0xF0, 0x9F, 0x98, 0x80}, // 4-byte UTF-8 never appears
	} {
		if _, err := decodeMUTF8(bad); !errors.Is(err, ErrEncoding) {
			t.Errorf("decodeMUTF8(% x) err = %v, want ErrEncoding", bad, err)
		}
	}
}

func TestCompressedNamedRoot(t *testing.T) {
	c := nbt.NewCompound()
	c.Set("seed", nbt.Long(123456789))
	for _, comp := range []Compression{NoCompression, Gzip, Zlib} {
		var buf bytes.Buffer
		if err := WriteNamedRoot(&buf, "level", c, Java, comp); err != nil {
			t.Fatal(err)
		}
		name, got, err := ReadNamedRoot(&buf, Java)
		if err != nil {
			t.Fatalf("compression %d: %v", comp, err)
		}
		if name != "level" || !nbt.Equal(nbt.CompoundTag(c), nbt.CompoundTag(got)) {
			t.Errorf("compression %d: round trip mismatch", comp)
		}
	}
}

func TestHeaderedRoundTrip(t *testing.T) {
	c := nbt.NewCompound()
	c.Set("LevelName", nbt.String("My World"))
	data, err := EncodeWithHeader(Header{Version: 10}, "", c, Bedrock)
	if err != nil {
		t.Fatal(err)
	}
	h, name, got, err := DecodeWithHeader(data, Bedrock)
	if err != nil {
		t.Fatal(err)
	}
	if h.Version != 10 || name != "" {
		t.Errorf("header %+v name %q", h, name)
	}
	if !nbt.Equal(nbt.CompoundTag(c), nbt.CompoundTag(got)) {
		t.Error("body mismatch")
	}

	data[4]++ // corrupt recorded length
	if _, _, _, err := DecodeWithHeader(data, Bedrock); !errors.Is(err, ErrIo) {
		t.Fatalf("bad length: err = %v, want ErrIo", err)
	}
}

func TestDecodeSomeConcatenated(t *testing.T) {
	a, b := nbt.NewCompound(), nbt.NewCompound()
	a.Set("i", nbt.Int(1))
	b.Set("i", nbt.Int(2))
	buf, err := Encode("", nbt.CompoundTag(a), Bedrock)
	if err != nil {
		t.Fatal(err)
	}
	if buf, err = AppendEncode(buf, "", nbt.CompoundTag(b), Bedrock); err != nil {
		t.Fatal(err)
	}
	var seen []int32
	rest := buf
	for len(rest) > 0 {
		var tag nbt.Tag
		_, tag, rest, err = DecodeSome(rest, Bedrock)
		if err != nil {
			t.Fatal(err)
		}
		v, _ := tag.Compound().GetInt("i")
		seen = append(seen, v)
	}
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Fatalf("seen = %v", seen)
	}
}
