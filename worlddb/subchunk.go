package worlddb

import (
	"fmt"

	"github.com/tidefall/nbt-format/go-nbt/nbt"
)

// SubchunkBlocks is one 16x16x16 block record.  Versions 0 and 2 through 7
// store flat id/data grids; versions 8 and 9 store palettized layers, with
// 9 adding its own Y index byte.
type SubchunkBlocks struct {
	Version byte

	// Flat grids for versions 0 and 2..7.  Skylight and Blocklight are nil
	// when the stored value omits them.
	IDs        []byte // 4096 block ids, one per cell
	Data       []byte // 2048 packed nibbles
	Skylight   []byte // 2048 packed nibbles, optional
	Blocklight []byte // 2048 packed nibbles, optional

	// Palettized layers for versions 8 and 9.  Palette entries are block
	// state compounds in the disk flavor.
	Layers []*Paletted[nbt.Tag]

	// YIndex is the subchunk Y recorded inside a version 9 value.
	YIndex int8
}

func parseSubchunkBlocks(value []byte) (*SubchunkBlocks, error) {
	r := &reader{data: value}
	version, err := r.u8()
	if err != nil {
		return nil, err
	}
	s := &SubchunkBlocks{Version: version}
	switch version {
	case 0, 2, 3, 4, 5, 6, 7:
		if err := s.parseLegacy(r); err != nil {
			return nil, err
		}
	case 8, 9:
		n, err := r.u8()
		if err != nil {
			return nil, err
		}
		if version == 9 {
			y, err := r.u8()
			if err != nil {
				return nil, err
			}
			s.YIndex = int8(y)
		}
		for i := range int(n) {
			layer, err := parsePaletted(r, false, persistentEntry)
			if err != nil {
				return nil, fmt.Errorf("layer %d: %w", i, err)
			}
			s.Layers = append(s.Layers, layer)
		}
	default:
		return nil, fmt.Errorf("%w: subchunk version %d", ErrValue, version)
	}
	if r.remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes in subchunk value", ErrValue, r.remaining())
	}
	return s, nil
}

func (s *SubchunkBlocks) parseLegacy(r *reader) error {
	var err error
	if s.IDs, err = r.take(cellCount); err != nil {
		return fmt.Errorf("block ids: %w", err)
	}
	if s.Data, err = r.take(cellCount / 2); err != nil {
		return fmt.Errorf("block data: %w", err)
	}
	if r.remaining() == 0 {
		return nil
	}
	if s.Skylight, err = r.take(cellCount / 2); err != nil {
		return fmt.Errorf("skylight: %w", err)
	}
	if r.remaining() == 0 {
		return nil
	}
	if s.Blocklight, err = r.take(cellCount / 2); err != nil {
		return fmt.Errorf("blocklight: %w", err)
	}
	return nil
}

func (s *SubchunkBlocks) append(dst []byte) ([]byte, error) {
	dst = append(dst, s.Version)
	switch s.Version {
	case 0, 2, 3, 4, 5, 6, 7:
		return s.appendLegacy(dst)
	case 8, 9:
		if len(s.Layers) > 0xFF {
			return dst, fmt.Errorf("%w: %d layers", ErrValue, len(s.Layers))
		}
		dst = append(dst, byte(len(s.Layers)))
		if s.Version == 9 {
			dst = append(dst, byte(s.YIndex))
		}
		var err error
		for i, layer := range s.Layers {
			if dst, err = appendPaletted(dst, layer, false, appendPersistentEntry); err != nil {
				return dst, fmt.Errorf("layer %d: %w", i, err)
			}
		}
		return dst, nil
	}
	return dst, fmt.Errorf("%w: subchunk version %d", ErrValue, s.Version)
}

func (s *SubchunkBlocks) appendLegacy(dst []byte) ([]byte, error) {
	if len(s.IDs) != cellCount || len(s.Data) != cellCount/2 {
		return dst, fmt.Errorf("%w: legacy subchunk has %d ids and %d data nibble bytes",
			ErrValue, len(s.IDs), len(s.Data))
	}
	dst = append(dst, s.IDs...)
	dst = append(dst, s.Data...)
	if s.Skylight == nil && s.Blocklight == nil {
		return dst, nil
	}
	// Blocklight cannot be stored without skylight; pad with darkness.
	sky := s.Skylight
	if sky == nil {
		sky = make([]byte, cellCount/2)
	}
	if len(sky) != cellCount/2 {
		return dst, fmt.Errorf("%w: skylight is %d bytes", ErrValue, len(sky))
	}
	dst = append(dst, sky...)
	if s.Blocklight == nil {
		return dst, nil
	}
	if len(s.Blocklight) != cellCount/2 {
		return dst, fmt.Errorf("%w: blocklight is %d bytes", ErrValue, len(s.Blocklight))
	}
	return append(dst, s.Blocklight...), nil
}
