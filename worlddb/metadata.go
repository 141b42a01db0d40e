package worlddb

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/tidefall/nbt-format/go-nbt/binary"
	"github.com/tidefall/nbt-format/go-nbt/nbt"
)

// MetaDataEntry is one dictionary slot: a compound of chunk metadata plus
// the hash chunk records use to point at it.
type MetaDataEntry struct {
	Hash     uint64
	Compound nbt.Tag
}

// MetaDataDictionary is the LevelChunkMetaDataDictionary value: a count
// followed by hash, compound pairs.  The hash of each entry is XXH64 over
// the compound's network-flavor encoding, which is how the game derives
// it, so it is recomputed rather than stored on encode and verified on
// parse.
type MetaDataDictionary struct {
	Entries []MetaDataEntry
}

// MetaDataHashOf returns the dictionary hash of a metadata compound.
func MetaDataHashOf(c nbt.Tag) (uint64, error) {
	enc, err := binary.Encode("", c, binary.Network)
	if err != nil {
		return 0, fmt.Errorf("%w: metadata compound: %v", ErrValue, err)
	}
	return xxhash.Sum64(enc), nil
}

func parseMetaDataDictionary(value []byte) (*MetaDataDictionary, error) {
	r := &reader{data: value}
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	d := &MetaDataDictionary{}
	seen := make(map[uint64]bool, n)
	for i := range int(n) {
		hash, err := r.u64()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		_, tag, rest, err := binary.DecodeSome(r.data[r.off:], binary.Bedrock)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d compound: %v", ErrValue, i, err)
		}
		r.off = len(r.data) - len(rest)
		if tag.Type != nbt.TypeCompound {
			return nil, fmt.Errorf("%w: entry %d is a %s, want compound", ErrValue, i, tag.Type)
		}
		want, err := MetaDataHashOf(tag)
		if err != nil {
			return nil, err
		}
		if hash != want {
			return nil, fmt.Errorf("%w: entry %d hash %#016x does not match compound hash %#016x",
				ErrValue, i, hash, want)
		}
		if seen[hash] {
			return nil, fmt.Errorf("%w: duplicate dictionary hash %#016x", ErrValue, hash)
		}
		seen[hash] = true
		d.Entries = append(d.Entries, MetaDataEntry{Hash: hash, Compound: tag})
	}
	if r.remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes in dictionary", ErrValue, r.remaining())
	}
	return d, nil
}

func (d *MetaDataDictionary) append(dst []byte) ([]byte, error) {
	dst = appendLeU32(dst, uint32(len(d.Entries)))
	for i, e := range d.Entries {
		hash, err := MetaDataHashOf(e.Compound)
		if err != nil {
			return dst, err
		}
		dst = appendLeU64(dst, hash)
		if dst, err = binary.AppendEncode(dst, "", e.Compound, binary.Bedrock); err != nil {
			return dst, fmt.Errorf("%w: entry %d compound: %v", ErrValue, i, err)
		}
	}
	return dst, nil
}
