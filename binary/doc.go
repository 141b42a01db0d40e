// Package binary encodes and decodes NBT trees in the three wire flavors:
//
//   - Java: big-endian fixed-width fields, u16 string lengths, strings in
//     modified UTF-8 (NUL as C0 80, supplementary planes as CESU-8
//     surrogate pairs).
//   - Bedrock: little-endian fixed-width fields, u16 string lengths, plain
//     UTF-8.  This is the layout of world-database values and level.dat.
//   - Network: little-endian, Int and Long payloads and all i32 lengths as
//     zigzag varints, string lengths as unsigned varints, plain UTF-8.
//
// Decode errors wrap a sentinel from this package or package nbt and carry
// the byte offset at which the problem was detected.
package binary
