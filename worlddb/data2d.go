package worlddb

import "fmt"

// Data2D is the pre-1.18 heightmap and biome record: 256 little-endian
// u16 heights then 256 biome id bytes.
type Data2D struct {
	Heightmap [256]uint16
	Biomes    [256]byte
}

func parseData2D(value []byte) (*Data2D, error) {
	if len(value) != 768 {
		return nil, fmt.Errorf("%w: Data2D is %d bytes, want 768", ErrValue, len(value))
	}
	r := &reader{data: value}
	d := &Data2D{}
	for i := range d.Heightmap {
		d.Heightmap[i], _ = r.u16()
	}
	copy(d.Biomes[:], r.data[r.off:])
	return d, nil
}

func (d *Data2D) append(dst []byte) ([]byte, error) {
	for _, h := range d.Heightmap {
		dst = appendLeU16(dst, h)
	}
	return append(dst, d.Biomes[:]...), nil
}

// BiomeColor is one cell of the legacy biome grid: a biome id plus the
// baked grass color.
type BiomeColor struct {
	ID      byte
	R, G, B byte
}

// LegacyData2D is the pre-1.0 record: 256 heights then 256 id+color cells.
type LegacyData2D struct {
	Heightmap [256]uint16
	Biomes    [256]BiomeColor
}

func parseLegacyData2D(value []byte) (*LegacyData2D, error) {
	if len(value) != 1536 {
		return nil, fmt.Errorf("%w: LegacyData2D is %d bytes, want 1536", ErrValue, len(value))
	}
	r := &reader{data: value}
	d := &LegacyData2D{}
	for i := range d.Heightmap {
		d.Heightmap[i], _ = r.u16()
	}
	for i := range d.Biomes {
		cell := r.data[r.off : r.off+4]
		r.off += 4
		d.Biomes[i] = BiomeColor{ID: cell[0], R: cell[1], G: cell[2], B: cell[3]}
	}
	return d, nil
}

func (d *LegacyData2D) append(dst []byte) ([]byte, error) {
	for _, h := range d.Heightmap {
		dst = appendLeU16(dst, h)
	}
	for _, c := range d.Biomes {
		dst = append(dst, c.ID, c.R, c.G, c.B)
	}
	return dst, nil
}
