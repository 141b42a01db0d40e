package worlddb

import "fmt"

// Data3D is the post-1.18 heightmap and biome record: 256 little-endian
// u16 heights followed by one runtime biome storage per subchunk until the
// value runs out.
type Data3D struct {
	Heightmap [256]uint16
	Biomes    []*Paletted[uint32]
}

func parseData3D(value []byte) (*Data3D, error) {
	r := &reader{data: value}
	d := &Data3D{}
	for i := range d.Heightmap {
		h, err := r.u16()
		if err != nil {
			return nil, fmt.Errorf("heightmap: %w", err)
		}
		d.Heightmap[i] = h
	}
	for r.remaining() > 0 {
		p, err := parsePaletted(r, true, runtimeEntry)
		if err != nil {
			return nil, fmt.Errorf("biome storage %d: %w", len(d.Biomes), err)
		}
		d.Biomes = append(d.Biomes, p)
	}
	return d, nil
}

func (d *Data3D) append(dst []byte) ([]byte, error) {
	for _, h := range d.Heightmap {
		dst = appendLeU16(dst, h)
	}
	var err error
	for i, p := range d.Biomes {
		if dst, err = appendPaletted(dst, p, true, appendRuntimeEntry); err != nil {
			return dst, fmt.Errorf("biome storage %d: %w", i, err)
		}
	}
	return dst, nil
}
