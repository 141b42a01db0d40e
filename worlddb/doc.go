// Package worlddb decodes and re-encodes the key/value records of a
// Bedrock world's LevelDB database.
//
// Keys are classified structurally: chunk-scoped records use a binary
// coordinate key with a trailing tag byte, actors and actor digests use
// short binary prefixes, and the rest are text keys (villages, maps,
// players, well-known singletons).  Classification is pure and total; a
// key that matches nothing becomes Unknown and its value passes through
// byte for byte.
//
// Values decode into typed entries per variant.  Every call stands alone:
// decoding one record never touches another, so disjoint records can be
// processed concurrently.
package worlddb
