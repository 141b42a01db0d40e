package worlddb

import (
	"bytes"
	"testing"
)

func chunkKeyBytes(x, z int32, dim []byte, tail ...byte) []byte {
	b := appendLeU32(nil, uint32(x))
	b = appendLeU32(b, uint32(z))
	b = append(b, dim...)
	return append(b, tail...)
}

func TestClassifyKey(t *testing.T) {
	nether := appendLeU32(nil, 1)
	for _, tc := range []struct {
		name string
		raw  []byte
		want Key
	}{
		{
			"version overworld",
			chunkKeyBytes(5, -3, nil, 44),
			Key{Variant: KeyVersion, Pos: ChunkPos{X: 5, Z: -3}},
		},
		{
			"data3d nether",
			chunkKeyBytes(-1, 7, nether, 43),
			Key{Variant: KeyData3D, Pos: ChunkPos{X: -1, Z: 7, Dimension: 1, Explicit: true}},
		},
		{
			"subchunk",
			chunkKeyBytes(2, 2, nil, '/', 0xFC),
			Key{Variant: KeySubchunkBlocks, Pos: ChunkPos{X: 2, Z: 2}, Subchunk: -4},
		},
		{
			"subchunk with dimension",
			chunkKeyBytes(0, 0, nether, '/', 3),
			Key{
				Variant:  KeySubchunkBlocks,
				Pos:      ChunkPos{Dimension: 1, Explicit: true},
				Subchunk: 3,
			},
		},
		{
			"actor digest",
			append([]byte("digp"), chunkKeyBytes(9, 9, nil)...),
			Key{Variant: KeyActorDigest, Pos: ChunkPos{X: 9, Z: 9}},
		},
		{
			"actor",
			append([]byte("actorprefix"), 0, 0, 0, 1, 0, 0, 0, 2),
			Key{Variant: KeyActor, Actor: ActorID{Upper: 1, Lower: 2}},
		},
		{
			"village no dimension",
			[]byte("VILLAGE_00000000-1111-2222-3333-444444444444_INFO"),
			Key{Variant: KeyVillageInfo, UUID: "00000000-1111-2222-3333-444444444444"},
		},
		{
			"village with dimension",
			[]byte("VILLAGE_Nether_00000000-1111-2222-3333-444444444444_POI"),
			Key{
				Variant: KeyVillagePOI, UUID: "00000000-1111-2222-3333-444444444444",
				Dimension: "Nether", HasDimension: true,
			},
		},
		{"map", []byte("map_-7464420203322"), Key{Variant: KeyMap, ID: -7464420203322}},
		{
			"player",
			[]byte("player_00000000-1111-2222-3333-444444444444"),
			Key{Variant: KeyPlayer, UUID: "00000000-1111-2222-3333-444444444444"},
		},
		{"legacy player", []byte("player_12345"), Key{Variant: KeyLegacyPlayer, ID: 12345}},
		{
			"player server",
			[]byte("player_server_00000000-1111-2222-3333-444444444444"),
			Key{Variant: KeyPlayerServer, UUID: "00000000-1111-2222-3333-444444444444"},
		},
		{
			"ticking area",
			[]byte("tickingarea_00000000-1111-2222-3333-444444444444"),
			Key{Variant: KeyTickingArea, UUID: "00000000-1111-2222-3333-444444444444"},
		},
		{
			"structure template",
			[]byte("structuretemplate_mystuff:towers/big"),
			Key{Variant: KeyStructureTemplate, Name: "mystuff:towers/big"},
		},
		{
			"position tracking",
			[]byte("PosTrackDB-0x00000a1b"),
			Key{Variant: KeyPositionTrackingDB, TrackID: 0xA1B},
		},
		{"local player", []byte("~local_player"), Key{Variant: KeyLocalPlayer}},
		{"scoreboard", []byte("scoreboard"), Key{Variant: KeyScoreboard}},
		{
			"metadata dictionary",
			[]byte("LevelChunkMetaDataDictionary"),
			Key{Variant: KeyMetaDataDictionary},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyKey(tc.raw)
			if got.Variant != tc.want.Variant || got.Pos != tc.want.Pos ||
				got.Subchunk != tc.want.Subchunk || got.Actor != tc.want.Actor ||
				got.UUID != tc.want.UUID || got.Dimension != tc.want.Dimension ||
				got.HasDimension != tc.want.HasDimension || got.ID != tc.want.ID ||
				got.TrackID != tc.want.TrackID || got.Name != tc.want.Name {
				t.Fatalf("ClassifyKey(%q) = %+v, want %+v", tc.raw, got, tc.want)
			}
			if !bytes.Equal(got.Bytes(), tc.raw) {
				t.Fatalf("Bytes() = %q, want %q", got.Bytes(), tc.raw)
			}
		})
	}
}

func TestClassifyKeyUnknown(t *testing.T) {
	for _, raw := range [][]byte{
		nil,
		{0x01},
		chunkKeyBytes(1, 1, nil, 47),          // '/' tag needs a y byte
		chunkKeyBytes(1, 1, nil, 42),          // below the chunk tag range
		[]byte("map_01"),                      // non-canonical map id
		[]byte("map_000000001"),               // 13 bytes, guarded from chunk shapes
		[]byte("player_0x12"),                 // neither uuid nor decimal
		[]byte("PosTrackDB-0x00000A1B"),       // uppercase hex is not canonical
		[]byte("PosTrackDB-0x1b"),             // short hex
		[]byte("structuretemplate_nopath"),    // missing namespace separator
		[]byte("structuretemplate_a:b:c"),     // extra separator
		[]byte("VILLAGE_tooshort_INFO"),       // invalid uuid
		[]byte("Scoreboard"),                  // singletons are case sensitive
		{0xFF, 0xFE, 0x00, 0x01, 0x02, 0xAA}, // not utf-8, no binary shape
	} {
		got := ClassifyKey(raw)
		if got.Variant != KeyUnknown {
			t.Errorf("ClassifyKey(%q) = %s, want Unknown", raw, got.Variant)
		}
		if !bytes.Equal(got.Bytes(), raw) {
			t.Errorf("Bytes() = %q, want %q", got.Bytes(), raw)
		}
	}
}

// A 9-byte key ending in a valid tag byte could also be the text key of a
// map or player record; those prefixes always win.
func TestClassifyKeyTextGuard(t *testing.T) {
	raw := []byte("map_12345") // 9 bytes, last byte 53 is a chunk tag
	if got := ClassifyKey(raw); got.Variant != KeyMap || got.ID != 12345 {
		t.Fatalf("ClassifyKey(%q) = %+v", raw, got)
	}

	raw = []byte("player_12conflict") // would otherwise need to be unknown text
	if got := ClassifyKey(raw); got.Variant != KeyUnknown {
		t.Fatalf("ClassifyKey(%q) = %s, want Unknown", raw, got.Variant)
	}
}

func TestClassifyKeyAllChunkTags(t *testing.T) {
	for tag, want := range chunkTags {
		raw := chunkKeyBytes(3, 4, nil, tag)
		got := ClassifyKey(raw)
		if got.Variant != want {
			t.Errorf("tag %d: variant %s, want %s", tag, got.Variant, want)
		}
		if !bytes.Equal(got.Bytes(), raw) {
			t.Errorf("tag %d: Bytes() = %q, want %q", tag, got.Bytes(), raw)
		}
		if !got.Variant.ChunkScoped() {
			t.Errorf("tag %d: %s not chunk scoped", tag, want)
		}
	}
}

func TestExplicitOverworldDimensionSurvives(t *testing.T) {
	overworld := appendLeU32(nil, 0)
	raw := chunkKeyBytes(1, 2, overworld, 44)
	got := ClassifyKey(raw)
	if got.Variant != KeyVersion || !got.Pos.Explicit {
		t.Fatalf("ClassifyKey(%q) = %+v", raw, got)
	}
	if !bytes.Equal(got.Bytes(), raw) {
		t.Fatalf("Bytes() dropped the explicit dimension: %q != %q", got.Bytes(), raw)
	}
}
