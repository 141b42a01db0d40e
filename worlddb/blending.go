package worlddb

import "fmt"

// BlendingData records how a chunk blends old terrain with 1.18 worldgen.
// Three layouts exist on disk: a bare zero byte, a zero byte plus a
// version, or a one byte, a version, sixteen per-subchunk heights and a
// trailing offset.
type BlendingData struct {
	// HasVersion is false only for the bare zero-byte layout, which
	// predates blending versions; a stored version of 0 keeps it true.
	HasVersion bool
	Version    byte

	// HasHeights distinguishes the long layout from the version-only one.
	HasHeights bool
	// Heights holds one entry per subchunk; nil marks an absent height,
	// stored on disk as the maximum i16.
	Heights [16]*int16
	Offset  int8
}

const absentHeight = 0x7FFF // i16 max

func parseBlendingData(value []byte) (*BlendingData, error) {
	switch len(value) {
	case 1:
		if value[0] != 0 {
			return nil, fmt.Errorf("%w: short blending value starts with %#02x", ErrValue, value[0])
		}
		return &BlendingData{}, nil
	case 2:
		if value[0] != 0 {
			return nil, fmt.Errorf("%w: versioned blending value starts with %#02x", ErrValue, value[0])
		}
		return &BlendingData{HasVersion: true, Version: value[1]}, nil
	case 35:
		if value[0] != 1 {
			return nil, fmt.Errorf("%w: full blending value starts with %#02x", ErrValue, value[0])
		}
		b := &BlendingData{HasVersion: true, Version: value[1], HasHeights: true}
		r := &reader{data: value, off: 2}
		for i := range b.Heights {
			v, _ := r.u16()
			if v != absentHeight {
				h := int16(v)
				b.Heights[i] = &h
			}
		}
		off, _ := r.u8()
		b.Offset = int8(off)
		return b, nil
	}
	return nil, fmt.Errorf("%w: blending value is %d bytes", ErrValue, len(value))
}

func (b *BlendingData) append(dst []byte) ([]byte, error) {
	if !b.HasHeights {
		if !b.HasVersion {
			return append(dst, 0), nil
		}
		return append(dst, 0, b.Version), nil
	}
	dst = append(dst, 1, b.Version)
	for _, h := range b.Heights {
		if h == nil {
			dst = appendLeU16(dst, absentHeight)
		} else {
			dst = appendLeU16(dst, uint16(*h))
		}
	}
	return append(dst, byte(b.Offset)), nil
}
