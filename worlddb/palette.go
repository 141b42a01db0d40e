package worlddb

import (
	"fmt"

	"github.com/tidefall/nbt-format/go-nbt/binary"
	"github.com/tidefall/nbt-format/go-nbt/nbt"
)

// StorageKind selects how a palettized storage lays out its 4096 cells.
type StorageKind int

const (
	// StorageEmpty has no cells and no palette.
	StorageEmpty StorageKind = iota
	// StorageUniform fills every cell with a single palette entry.
	StorageUniform
	// StoragePacked packs 4096 palette indices into little-endian u32
	// words at a fixed bit width.
	StoragePacked
)

const cellCount = 4096

// packedBits are the index widths the game writes.  Widths that do not
// divide 32 leave unused high bits in each word.
var packedBits = map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true, 8: true, 16: true}

// Paletted is one palettized storage: a palette of entries plus, for the
// packed kind, a 4096-cell index grid.  T is uint32 for runtime palettes
// (raw biome ids) and nbt.Tag compounds for persistent block palettes.
type Paletted[T any] struct {
	Kind    StorageKind
	Uniform T        // the single entry when Kind is StorageUniform
	Bits    int      // index width when Kind is StoragePacked
	Indices []uint16 // 4096 palette indices when Kind is StoragePacked
	Palette []T
}

// At returns the palette entry for cell i.
func (p *Paletted[T]) At(i int) (T, error) {
	var zero T
	switch p.Kind {
	case StorageUniform:
		return p.Uniform, nil
	case StoragePacked:
		if i < 0 || i >= len(p.Indices) {
			return zero, fmt.Errorf("%w: cell %d out of range", ErrValue, i)
		}
		return p.Palette[p.Indices[i]], nil
	}
	return zero, fmt.Errorf("%w: empty storage has no cells", ErrValue)
}

// parsePaletted reads one storage.  runtime says which serialization the
// surrounding record requires; a header flag that disagrees is an error
// since the entry layouts are incompatible.
func parsePaletted[T any](r *reader, runtime bool, entry func(*reader) (T, error)) (*Paletted[T], error) {
	header, err := r.u8()
	if err != nil {
		return nil, err
	}
	bits := int(header >> 1)
	if bits == 0x7F {
		return &Paletted[T]{Kind: StorageEmpty}, nil
	}
	if (header&1 == 1) != runtime {
		return nil, fmt.Errorf("%w: storage header %#02x has the wrong serialization flag",
			ErrValue, header)
	}
	p := &Paletted[T]{}
	if bits == 0 {
		p.Kind = StorageUniform
		if p.Uniform, err = entry(r); err != nil {
			return nil, err
		}
		return p, nil
	}
	if !packedBits[bits] {
		return nil, fmt.Errorf("%w: unsupported index width %d", ErrValue, bits)
	}
	p.Kind = StoragePacked
	p.Bits = bits
	perWord := 32 / bits
	words := (cellCount + perWord - 1) / perWord
	mask := uint32(1)<<bits - 1
	p.Indices = make([]uint16, 0, cellCount)
	for range words {
		w, err := r.u32()
		if err != nil {
			return nil, err
		}
		for range perWord {
			if len(p.Indices) == cellCount {
				break
			}
			p.Indices = append(p.Indices, uint16(w&mask))
			w >>= bits
		}
	}
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	if n == 0 || n > cellCount {
		return nil, fmt.Errorf("%w: palette of %d entries", ErrValue, n)
	}
	p.Palette = make([]T, 0, n)
	for range n {
		e, err := entry(r)
		if err != nil {
			return nil, err
		}
		p.Palette = append(p.Palette, e)
	}
	for i, idx := range p.Indices {
		if uint32(idx) >= n {
			return nil, fmt.Errorf("%w: cell %d references palette entry %d of %d",
				ErrValue, i, idx, n)
		}
	}
	return p, nil
}

// appendPaletted writes p back in the layout parsePaletted reads.
func appendPaletted[T any](dst []byte, p *Paletted[T], runtime bool, entry func([]byte, T) ([]byte, error)) ([]byte, error) {
	var flag byte
	if runtime {
		flag = 1
	}
	switch p.Kind {
	case StorageEmpty:
		return append(dst, 0x7F<<1|flag), nil
	case StorageUniform:
		return entry(append(dst, flag), p.Uniform)
	case StoragePacked:
	default:
		return dst, fmt.Errorf("%w: unknown storage kind %d", ErrValue, p.Kind)
	}
	if !packedBits[p.Bits] {
		return dst, fmt.Errorf("%w: unsupported index width %d", ErrValue, p.Bits)
	}
	if len(p.Indices) != cellCount {
		return dst, fmt.Errorf("%w: packed storage has %d cells, want %d",
			ErrValue, len(p.Indices), cellCount)
	}
	if len(p.Palette) == 0 || len(p.Palette) > cellCount {
		return dst, fmt.Errorf("%w: palette of %d entries", ErrValue, len(p.Palette))
	}
	dst = append(dst, byte(p.Bits)<<1|flag)
	perWord := 32 / p.Bits
	for i := 0; i < cellCount; i += perWord {
		var w uint32
		for j := min(perWord, cellCount-i) - 1; j >= 0; j-- {
			idx := p.Indices[i+j]
			if int(idx) >= len(p.Palette) {
				return dst, fmt.Errorf("%w: cell %d references palette entry %d of %d",
					ErrValue, i+j, idx, len(p.Palette))
			}
			w = w<<p.Bits | uint32(idx)
		}
		dst = appendLeU32(dst, w)
	}
	dst = appendLeU32(dst, uint32(len(p.Palette)))
	var err error
	for _, e := range p.Palette {
		if dst, err = entry(dst, e); err != nil {
			return dst, err
		}
	}
	return dst, nil
}

// runtimeEntry reads a raw little-endian u32 palette entry.
func runtimeEntry(r *reader) (uint32, error) { return r.u32() }

func appendRuntimeEntry(dst []byte, v uint32) ([]byte, error) {
	return appendLeU32(dst, v), nil
}

// persistentEntry reads one named compound in the disk flavor.
func persistentEntry(r *reader) (nbt.Tag, error) {
	_, tag, rest, err := binary.DecodeSome(r.data[r.off:], binary.Bedrock)
	if err != nil {
		return nbt.Tag{}, fmt.Errorf("%w: palette entry at offset %d: %v", ErrValue, r.off, err)
	}
	r.off = len(r.data) - len(rest)
	return tag, nil
}

func appendPersistentEntry(dst []byte, t nbt.Tag) ([]byte, error) {
	out, err := binary.AppendEncode(dst, "", t, binary.Bedrock)
	if err != nil {
		return dst, fmt.Errorf("%w: palette entry: %v", ErrValue, err)
	}
	return out, nil
}
