package worlddb

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Variant names what a database key addresses.
type Variant int

const (
	KeyUnknown Variant = iota

	// chunk-scoped records, binary coordinate keys
	KeyVersion
	KeyLegacyVersion
	KeyActorDigestVersion
	KeyData3D
	KeyData2D
	KeyLegacyData2D
	KeySubchunkBlocks
	KeyLegacyTerrain
	KeyLegacyExtraBlockData
	KeyBlockEntities
	KeyEntities
	KeyPendingTicks
	KeyRandomTicks
	KeyBorderBlocks
	KeyHardcodedSpawners
	KeyAabbVolumes
	KeyChecksums
	KeyMetaDataHash
	KeyGenerationSeed
	KeyFinalizedState
	KeyBiomeState
	KeyConversionData
	KeyCavesAndCliffsBlending
	KeyBlendingBiomeHeight
	KeyBlendingData
	KeyActorDigest

	// world-scoped records
	KeyActor
	KeyMetaDataDictionary
	KeyAutonomousEntities
	KeyLocalPlayer
	KeyPlayer
	KeyLegacyPlayer
	KeyPlayerServer
	KeyVillageDwellers
	KeyVillageInfo
	KeyVillagePOI
	KeyVillagePlayers
	KeyVillageRaid
	KeyMap
	KeyStructureTemplate
	KeyScoreboard
	KeyTickingArea
	KeyBiomeData
	KeyBiomeIdsTable
	KeyMobEvents
	KeyPortals
	KeyPositionTrackingDB
	KeyPositionTrackingLastID
	KeyWanderingTraderScheduler
	KeyOverworld
	KeyNether
	KeyTheEnd
	KeyFlatWorldLayers
	KeyLevelSpawnWasFixed
	KeyMVillages
	KeyVillages
	KeyDimension0
	KeyDimension1
	KeyDimension2
)

// chunkTags maps the trailing tag byte of a 9/13-byte chunk key to its
// variant.  Shared by classification and re-encoding; 47 ('/') is absent
// because subchunk keys carry an extra y-index byte and match on shape.
var chunkTags = map[byte]Variant{
	43:  KeyData3D,
	44:  KeyVersion,
	45:  KeyData2D,
	46:  KeyLegacyData2D,
	48:  KeyLegacyTerrain,
	49:  KeyBlockEntities,
	50:  KeyEntities,
	51:  KeyPendingTicks,
	52:  KeyLegacyExtraBlockData,
	53:  KeyBiomeState,
	54:  KeyFinalizedState,
	55:  KeyConversionData,
	56:  KeyBorderBlocks,
	57:  KeyHardcodedSpawners,
	58:  KeyRandomTicks,
	59:  KeyChecksums,
	60:  KeyGenerationSeed,
	61:  KeyCavesAndCliffsBlending,
	62:  KeyBlendingBiomeHeight,
	63:  KeyMetaDataHash,
	64:  KeyBlendingData,
	65:  KeyActorDigestVersion,
	118: KeyLegacyVersion,
	119: KeyAabbVolumes,
}

var chunkTagOf = func() map[Variant]byte {
	m := make(map[Variant]byte, len(chunkTags))
	for tag, v := range chunkTags {
		m[v] = tag
	}
	return m
}()

// singletons are exact text keys with one record per world.
var singletons = map[string]Variant{
	"~local_player":                KeyLocalPlayer,
	"LevelChunkMetaDataDictionary": KeyMetaDataDictionary,
	"AutonomousEntities":           KeyAutonomousEntities,
	"scoreboard":                   KeyScoreboard,
	"BiomeData":                    KeyBiomeData,
	"BiomeIdsTable":                KeyBiomeIdsTable,
	"mobevents":                    KeyMobEvents,
	"portals":                      KeyPortals,
	"PositionTrackDB-LastId":       KeyPositionTrackingLastID,
	"schedulerWT":                  KeyWanderingTraderScheduler,
	"game_flatworldlayers":         KeyFlatWorldLayers,
	"LevelSpawnWasFixed":           KeyLevelSpawnWasFixed,
	"mVillages":                    KeyMVillages,
	"villages":                     KeyVillages,
	"dimension0":                   KeyDimension0,
	"dimension1":                   KeyDimension1,
	"dimension2":                   KeyDimension2,
	"Overworld":                    KeyOverworld,
	"Nether":                       KeyNether,
	"TheEnd":                       KeyTheEnd,
}

var singletonBytes = func() map[Variant]string {
	m := make(map[Variant]string, len(singletons))
	for s, v := range singletons {
		m[v] = s
	}
	return m
}()

var variantNames = map[Variant]string{
	KeyUnknown: "Unknown", KeyVersion: "Version", KeyLegacyVersion: "LegacyVersion",
	KeyActorDigestVersion: "ActorDigestVersion", KeyData3D: "Data3D", KeyData2D: "Data2D",
	KeyLegacyData2D: "LegacyData2D", KeySubchunkBlocks: "SubchunkBlocks",
	KeyLegacyTerrain: "LegacyTerrain", KeyLegacyExtraBlockData: "LegacyExtraBlockData",
	KeyBlockEntities: "BlockEntities", KeyEntities: "Entities",
	KeyPendingTicks: "PendingTicks", KeyRandomTicks: "RandomTicks",
	KeyBorderBlocks: "BorderBlocks", KeyHardcodedSpawners: "HardcodedSpawners",
	KeyAabbVolumes: "AabbVolumes", KeyChecksums: "Checksums",
	KeyMetaDataHash: "MetaDataHash", KeyGenerationSeed: "GenerationSeed",
	KeyFinalizedState: "FinalizedState", KeyBiomeState: "BiomeState",
	KeyConversionData: "ConversionData", KeyCavesAndCliffsBlending: "CavesAndCliffsBlending",
	KeyBlendingBiomeHeight: "BlendingBiomeHeight", KeyBlendingData: "BlendingData",
	KeyActorDigest: "ActorDigest", KeyActor: "Actor",
	KeyMetaDataDictionary: "LevelChunkMetaDataDictionary",
	KeyAutonomousEntities: "AutonomousEntities", KeyLocalPlayer: "LocalPlayer",
	KeyPlayer: "Player", KeyLegacyPlayer: "LegacyPlayer", KeyPlayerServer: "PlayerServer",
	KeyVillageDwellers: "VillageDwellers", KeyVillageInfo: "VillageInfo",
	KeyVillagePOI: "VillagePOI", KeyVillagePlayers: "VillagePlayers",
	KeyVillageRaid: "VillageRaid", KeyMap: "Map",
	KeyStructureTemplate: "StructureTemplate", KeyScoreboard: "Scoreboard",
	KeyTickingArea: "TickingArea", KeyBiomeData: "BiomeData",
	KeyBiomeIdsTable: "BiomeIdsTable", KeyMobEvents: "MobEvents", KeyPortals: "Portals",
	KeyPositionTrackingDB:     "PositionTrackingDB",
	KeyPositionTrackingLastID: "PositionTrackingLastId",
	KeyWanderingTraderScheduler: "WanderingTraderScheduler", KeyOverworld: "Overworld",
	KeyNether: "Nether", KeyTheEnd: "TheEnd", KeyFlatWorldLayers: "FlatWorldLayers",
	KeyLevelSpawnWasFixed: "LevelSpawnWasFixed", KeyMVillages: "MVillages",
	KeyVillages: "Villages", KeyDimension0: "Dimension0", KeyDimension1: "Dimension1",
	KeyDimension2: "Dimension2",
}

func (v Variant) String() string {
	if s, ok := variantNames[v]; ok {
		return s
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// ChunkScoped reports whether keys of this variant carry a chunk position.
func (v Variant) ChunkScoped() bool {
	if v == KeySubchunkBlocks || v == KeyActorDigest {
		return true
	}
	_, ok := chunkTagOf[v]
	return ok
}

// ChunkPos is a chunk coordinate with its dimension.  The overworld id is
// usually elided on the wire; Explicit records that the source bytes
// spelled it out so re-encoding reproduces them exactly.
type ChunkPos struct {
	X, Z      int32
	Dimension uint32
	Explicit  bool
}

func parseChunkPos(b []byte) (ChunkPos, bool) {
	switch len(b) {
	case 8:
		return ChunkPos{X: int32(leU32(b)), Z: int32(leU32(b[4:]))}, true
	case 12:
		return ChunkPos{
			X:         int32(leU32(b)),
			Z:         int32(leU32(b[4:])),
			Dimension: leU32(b[8:]),
			Explicit:  true,
		}, true
	}
	return ChunkPos{}, false
}

func (p ChunkPos) append(dst []byte) []byte {
	dst = appendLeU32(dst, uint32(p.X))
	dst = appendLeU32(dst, uint32(p.Z))
	if p.Explicit || p.Dimension != 0 {
		dst = appendLeU32(dst, p.Dimension)
	}
	return dst
}

// ActorID is the 8-byte identifier in actorprefix keys, stored as the
// big-endian pair Bedrock writes.
type ActorID struct {
	Upper, Lower uint32
}

func parseActorID(b []byte) ActorID {
	return ActorID{Upper: beU32(b), Lower: beU32(b[4:])}
}

func (a ActorID) append(dst []byte) []byte {
	dst = appendBeU32(dst, a.Upper)
	return appendBeU32(dst, a.Lower)
}

func (a ActorID) String() string {
	return fmt.Sprintf("%08x-%08x", a.Upper, a.Lower)
}

// Key is a classified database key.  Variant selects which fields carry
// meaning; Raw holds the source bytes only for KeyUnknown.
type Key struct {
	Variant Variant

	Pos      ChunkPos // chunk-scoped variants
	Subchunk int8     // KeySubchunkBlocks
	Actor    ActorID  // KeyActor

	UUID         string // players, villages, ticking areas (8-4-4-4-12 form)
	Dimension    string // village keys; meaningful when HasDimension
	HasDimension bool
	ID           int64  // KeyMap; KeyLegacyPlayer stores a u64 bit pattern
	TrackID      uint32 // KeyPositionTrackingDB
	Name         string // KeyStructureTemplate, "namespace:path"

	Raw []byte // KeyUnknown
}

func chunkKey(v Variant, pos ChunkPos) Key { return Key{Variant: v, Pos: pos} }

// ClassifyKey determines what raw addresses.  It never fails; anything
// unrecognized comes back as KeyUnknown wrapping the bytes.  A classified
// key re-encodes via Bytes to exactly the input.
func ClassifyKey(raw []byte) Key {
	if k, ok := classify(raw); ok {
		return k
	}
	return Key{Variant: KeyUnknown, Raw: append([]byte(nil), raw...)}
}

func classify(raw []byte) (Key, bool) {
	// binary prefixes first
	if (len(raw) == 12 || len(raw) == 16) && bytes.HasPrefix(raw, []byte("digp")) {
		if pos, ok := parseChunkPos(raw[4:]); ok {
			return chunkKey(KeyActorDigest, pos), true
		}
	} else if len(raw) == 19 && bytes.HasPrefix(raw, []byte("actorprefix")) {
		return Key{Variant: KeyActor, Actor: parseActorID(raw[11:])}, true
	}

	// Most records are chunk data, so coordinate shapes come next.  Text
	// keys like map_12345 can share these lengths and end in a plausible
	// tag byte, hence the prefix guard.
	textual := bytes.HasPrefix(raw, []byte("map")) || bytes.HasPrefix(raw, []byte("player_"))

	if (len(raw) == 9 || len(raw) == 13) && !textual {
		tag := raw[len(raw)-1]
		if v, ok := chunkTags[tag]; ok {
			if pos, ok := parseChunkPos(raw[:len(raw)-1]); ok {
				return chunkKey(v, pos), true
			}
		}
	} else if (len(raw) == 10 || len(raw) == 14) && !textual {
		if raw[len(raw)-2] == '/' {
			if pos, ok := parseChunkPos(raw[:len(raw)-2]); ok {
				return Key{
					Variant:  KeySubchunkBlocks,
					Pos:      pos,
					Subchunk: int8(raw[len(raw)-1]),
				}, true
			}
		}
	}

	if !utf8.Valid(raw) {
		return Key{}, false
	}
	return classifyText(string(raw))
}

var villageSuffixes = map[string]Variant{
	"DWELLERS": KeyVillageDwellers,
	"INFO":     KeyVillageInfo,
	"PLAYERS":  KeyVillagePlayers,
	"POI":      KeyVillagePOI,
	"RAID":     KeyVillageRaid,
}

func classifyText(s string) (Key, bool) {
	parts := strings.Split(s, "_")

	switch {
	case (len(parts) == 3 || len(parts) == 4) && parts[0] == "VILLAGE":
		v, ok := villageSuffixes[parts[len(parts)-1]]
		if !ok {
			break
		}
		uuid := parts[len(parts)-2]
		if !validUUID(uuid) {
			break
		}
		k := Key{Variant: v, UUID: uuid}
		if len(parts) == 4 {
			k.Dimension = parts[1]
			k.HasDimension = true
		}
		return k, true

	case len(parts) == 2 && parts[0] == "map":
		// canonical decimal only, so Bytes reproduces the source
		if id, err := strconv.ParseInt(parts[1], 10, 64); err == nil &&
			strconv.FormatInt(id, 10) == parts[1] {
			return Key{Variant: KeyMap, ID: id}, true
		}

	case len(parts) == 2 && parts[0] == "player":
		if validUUID(parts[1]) {
			return Key{Variant: KeyPlayer, UUID: parts[1]}, true
		}
		if id, err := strconv.ParseUint(parts[1], 10, 64); err == nil &&
			strconv.FormatUint(id, 10) == parts[1] {
			return Key{Variant: KeyLegacyPlayer, ID: int64(id)}, true
		}

	case len(parts) == 3 && parts[0] == "player" && parts[1] == "server":
		if validUUID(parts[2]) {
			return Key{Variant: KeyPlayerServer, UUID: parts[2]}, true
		}

	case len(parts) == 2 && parts[0] == "tickingarea":
		if validUUID(parts[1]) {
			return Key{Variant: KeyTickingArea, UUID: parts[1]}, true
		}
	}

	if name, ok := strings.CutPrefix(s, "structuretemplate_"); ok {
		if ns, path, ok := strings.Cut(name, ":"); ok && ns != "" && path != "" &&
			!strings.Contains(path, ":") {
			return Key{Variant: KeyStructureTemplate, Name: name}, true
		}
	}

	if hex, ok := strings.CutPrefix(s, "PosTrackDB-0x"); ok {
		// canonical form is 8 lowercase hex digits
		if len(hex) == 8 {
			if id, err := strconv.ParseUint(hex, 16, 32); err == nil &&
				fmt.Sprintf("%08x", id) == hex {
				return Key{Variant: KeyPositionTrackingDB, TrackID: uint32(id)}, true
			}
		}
	}

	if v, ok := singletons[s]; ok {
		return Key{Variant: v}, true
	}
	return Key{}, false
}

func validUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch i {
		case 8, 13, 18, 23:
			if c != '-' {
				return false
			}
		default:
			if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
				return false
			}
		}
	}
	return true
}

// Bytes re-encodes the key.  For every classified key this returns the
// bytes ClassifyKey saw; for KeyUnknown it returns a copy of Raw.
func (k Key) Bytes() []byte {
	if tag, ok := chunkTagOf[k.Variant]; ok {
		return append(k.Pos.append(make([]byte, 0, 13)), tag)
	}
	switch k.Variant {
	case KeySubchunkBlocks:
		return append(k.Pos.append(make([]byte, 0, 14)), '/', byte(k.Subchunk))
	case KeyActorDigest:
		return k.Pos.append(append(make([]byte, 0, 16), "digp"...))
	case KeyActor:
		return k.Actor.append(append(make([]byte, 0, 19), "actorprefix"...))
	case KeyVillageDwellers, KeyVillageInfo, KeyVillagePOI, KeyVillagePlayers, KeyVillageRaid:
		var sb strings.Builder
		sb.WriteString("VILLAGE_")
		if k.HasDimension {
			sb.WriteString(k.Dimension)
			sb.WriteByte('_')
		}
		sb.WriteString(k.UUID)
		sb.WriteByte('_')
		sb.WriteString(villageSuffix(k.Variant))
		return []byte(sb.String())
	case KeyMap:
		return []byte("map_" + strconv.FormatInt(k.ID, 10))
	case KeyPlayer:
		return []byte("player_" + k.UUID)
	case KeyLegacyPlayer:
		return []byte("player_" + strconv.FormatUint(uint64(k.ID), 10))
	case KeyPlayerServer:
		return []byte("player_server_" + k.UUID)
	case KeyTickingArea:
		return []byte("tickingarea_" + k.UUID)
	case KeyStructureTemplate:
		return []byte("structuretemplate_" + k.Name)
	case KeyPositionTrackingDB:
		return []byte(fmt.Sprintf("PosTrackDB-0x%08x", k.TrackID))
	case KeyUnknown:
		return append([]byte(nil), k.Raw...)
	}
	if s, ok := singletonBytes[k.Variant]; ok {
		return []byte(s)
	}
	return nil
}

func villageSuffix(v Variant) string {
	for s, vv := range villageSuffixes {
		if vv == v {
			return s
		}
	}
	return ""
}

// String renders a key for logs and the CLI.
func (k Key) String() string {
	switch {
	case k.Variant == KeyUnknown:
		return fmt.Sprintf("Unknown(%d bytes)", len(k.Raw))
	case k.Variant == KeySubchunkBlocks:
		return fmt.Sprintf("%s(%d,%d dim %d y %d)",
			k.Variant, k.Pos.X, k.Pos.Z, k.Pos.Dimension, k.Subchunk)
	case k.Variant.ChunkScoped():
		return fmt.Sprintf("%s(%d,%d dim %d)", k.Variant, k.Pos.X, k.Pos.Z, k.Pos.Dimension)
	case k.Variant == KeyActor:
		return fmt.Sprintf("Actor(%s)", k.Actor)
	case k.UUID != "":
		return fmt.Sprintf("%s(%s)", k.Variant, k.UUID)
	}
	return k.Variant.String()
}

func leU32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func beU32(b []byte) uint32 {
	return uint32(b[3]) | uint32(b[2])<<8 | uint32(b[1])<<16 | uint32(b[0])<<24
}

func appendLeU32(dst []byte, v uint32) []byte {
	return append(dst, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func appendBeU32(dst []byte, v uint32) []byte {
	return append(dst, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}
