package worlddb

import (
	"fmt"

	"github.com/tidefall/nbt-format/go-nbt/binary"
	"github.com/tidefall/nbt-format/go-nbt/nbt"
)

// maxChunkVersion is the newest chunk format this package understands.
const maxChunkVersion = 41

// FinalizedState values, stored as a little-endian u32.
const (
	StateNeedsInstaticking uint32 = 0
	StateNeedsPopulation   uint32 = 1
	StateDone              uint32 = 2
)

// Entry is one decoded database record.  Key.Variant decides which payload
// field carries the value; variants without a structured layout, and
// unknown keys, keep the bytes in Raw.
type Entry struct {
	Key Key

	Version   byte                // KeyVersion, KeyLegacyVersion, KeyActorDigestVersion
	Data3D    *Data3D             // KeyData3D
	Data2D    *Data2D             // KeyData2D
	Legacy2D  *LegacyData2D       // KeyLegacyData2D
	Subchunk  *SubchunkBlocks     // KeySubchunkBlocks
	Compounds []nbt.Tag           // KeyBlockEntities, KeyEntities, KeyPendingTicks, KeyRandomTicks
	Hash      uint64              // KeyMetaDataHash
	Dict      *MetaDataDictionary // KeyMetaDataDictionary
	Blending  *BlendingData       // KeyBlendingData
	State     uint32              // KeyFinalizedState
	Actors    []ActorID           // KeyActorDigest

	Raw []byte // all other variants
}

// Decode classifies key and decodes value against the resulting variant.
// Malformed values of recognized variants are an error; use DecodeLenient
// to degrade them to raw bytes instead.
func Decode(key, value []byte) (*Entry, error) {
	return DecodeValue(ClassifyKey(key), value)
}

// DecodeLenient is Decode except a malformed value demotes the entry to a
// raw one rather than failing, which matches how the game itself treats
// records it cannot read.
func DecodeLenient(key, value []byte) *Entry {
	k := ClassifyKey(key)
	e, err := DecodeValue(k, value)
	if err != nil {
		return &Entry{Key: k, Raw: append([]byte(nil), value...)}
	}
	return e
}

// DecodeValue decodes value for an already classified key.
func DecodeValue(k Key, value []byte) (*Entry, error) {
	e := &Entry{Key: k}
	var err error
	switch k.Variant {
	case KeyVersion, KeyLegacyVersion:
		e.Version, err = parseVersionByte(value, maxChunkVersion)
	case KeyActorDigestVersion:
		e.Version, err = parseVersionByte(value, 0)
	case KeyData3D:
		e.Data3D, err = parseData3D(value)
	case KeyData2D:
		e.Data2D, err = parseData2D(value)
	case KeyLegacyData2D:
		e.Legacy2D, err = parseLegacyData2D(value)
	case KeySubchunkBlocks:
		e.Subchunk, err = parseSubchunkBlocks(value)
	case KeyBlockEntities, KeyEntities, KeyPendingTicks, KeyRandomTicks:
		e.Compounds, err = parseCompounds(value)
	case KeyMetaDataHash:
		e.Hash, err = parseHash(value)
	case KeyMetaDataDictionary:
		e.Dict, err = parseMetaDataDictionary(value)
	case KeyBlendingData:
		e.Blending, err = parseBlendingData(value)
	case KeyFinalizedState:
		e.State, err = parseFinalizedState(value)
	case KeyActorDigest:
		e.Actors, err = parseActorDigest(value)
	default:
		e.Raw = append([]byte(nil), value...)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", k, err)
	}
	return e, nil
}

// Encode re-encodes the entry as a key/value pair.  A decoded entry whose
// payload was not modified encodes to the bytes it came from.
func (e *Entry) Encode() (key, value []byte, err error) {
	key = e.Key.Bytes()
	// a lenient decode keeps the original bytes in Raw; echo them back
	if e.Raw != nil {
		return key, append([]byte(nil), e.Raw...), nil
	}
	switch e.Key.Variant {
	case KeyVersion, KeyLegacyVersion:
		value, err = appendVersionByte(nil, e.Version, maxChunkVersion)
	case KeyActorDigestVersion:
		value, err = appendVersionByte(nil, e.Version, 0)
	case KeyData3D:
		value, err = e.Data3D.append(nil)
	case KeyData2D:
		value, err = e.Data2D.append(nil)
	case KeyLegacyData2D:
		value, err = e.Legacy2D.append(nil)
	case KeySubchunkBlocks:
		value, err = e.Subchunk.append(nil)
	case KeyBlockEntities, KeyEntities, KeyPendingTicks, KeyRandomTicks:
		value, err = appendCompounds(nil, e.Compounds)
	case KeyMetaDataHash:
		value = appendLeU64(nil, e.Hash)
	case KeyMetaDataDictionary:
		value, err = e.Dict.append(nil)
	case KeyBlendingData:
		value, err = e.Blending.append(nil)
	case KeyFinalizedState:
		value, err = appendFinalizedState(nil, e.State)
	case KeyActorDigest:
		value = appendActorDigest(nil, e.Actors)
	default:
		value = append([]byte(nil), e.Raw...)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", e.Key, err)
	}
	return key, value, nil
}

func parseVersionByte(value []byte, max byte) (byte, error) {
	if len(value) != 1 {
		return 0, fmt.Errorf("%w: version value is %d bytes, want 1", ErrValue, len(value))
	}
	if value[0] > max {
		return 0, fmt.Errorf("%w: version %d, newest understood is %d", ErrValue, value[0], max)
	}
	return value[0], nil
}

func appendVersionByte(dst []byte, v, max byte) ([]byte, error) {
	if v > max {
		return dst, fmt.Errorf("%w: version %d, newest understood is %d", ErrValue, v, max)
	}
	return append(dst, v), nil
}

// parseCompounds reads back-to-back named compounds in the disk flavor
// until the value is exhausted.
func parseCompounds(value []byte) ([]nbt.Tag, error) {
	var out []nbt.Tag
	rest := value
	for len(rest) > 0 {
		var tag nbt.Tag
		var err error
		_, tag, rest, err = binary.DecodeSome(rest, binary.Bedrock)
		if err != nil {
			return nil, fmt.Errorf("%w: compound %d: %v", ErrValue, len(out), err)
		}
		out = append(out, tag)
	}
	return out, nil
}

func appendCompounds(dst []byte, tags []nbt.Tag) ([]byte, error) {
	var err error
	for i, t := range tags {
		if dst, err = binary.AppendEncode(dst, "", t, binary.Bedrock); err != nil {
			return dst, fmt.Errorf("%w: compound %d: %v", ErrValue, i, err)
		}
	}
	return dst, nil
}

func parseFinalizedState(value []byte) (uint32, error) {
	if len(value) != 4 {
		return 0, fmt.Errorf("%w: finalized state is %d bytes, want 4", ErrValue, len(value))
	}
	s := leU32(value)
	if s > StateDone {
		return 0, fmt.Errorf("%w: unknown finalized state %d", ErrValue, s)
	}
	return s, nil
}

func appendFinalizedState(dst []byte, s uint32) ([]byte, error) {
	if s > StateDone {
		return dst, fmt.Errorf("%w: unknown finalized state %d", ErrValue, s)
	}
	return appendLeU32(dst, s), nil
}

// parseActorDigest reads the list of 8-byte actor ids referenced by a chunk.
func parseActorDigest(value []byte) ([]ActorID, error) {
	if len(value)%8 != 0 {
		return nil, fmt.Errorf("%w: actor digest is %d bytes, want a multiple of 8",
			ErrValue, len(value))
	}
	out := make([]ActorID, 0, len(value)/8)
	for off := 0; off < len(value); off += 8 {
		out = append(out, parseActorID(value[off:]))
	}
	return out, nil
}

func appendActorDigest(dst []byte, ids []ActorID) []byte {
	for _, id := range ids {
		dst = id.append(dst)
	}
	return dst
}

func parseHash(value []byte) (uint64, error) {
	if len(value) != 8 {
		return 0, fmt.Errorf("%w: hash value is %d bytes, want 8", ErrValue, len(value))
	}
	return (&reader{data: value}).u64()
}
