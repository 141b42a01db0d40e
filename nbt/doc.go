// Package nbt defines the in-memory model for NBT (named binary tag)
// data: a closed set of tag kinds, compounds with unique keys, homogeneous
// lists, and the depth and root rules shared by the binary and text codecs.
//
// A Tag is a value in the tree.  Compounds own their children and a tree is
// always acyclic; sharing a subtree between two parents is not supported and
// callers that need it should Copy.
package nbt
