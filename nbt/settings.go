package nbt

// DepthLimit bounds tag nesting.  Both codecs count the root as depth 1 and
// every list or compound entered below it as one more level, so the limit
// applies identically to binary data and text.
type DepthLimit uint32

// DefaultDepthLimit matches the reference readers; trees deeper than this
// are rejected rather than risking stack exhaustion on crafted input.
const DefaultDepthLimit DepthLimit = 512

// Or returns d, or DefaultDepthLimit when d is zero.
func (d DepthLimit) Or() DepthLimit {
	if d == 0 {
		return DefaultDepthLimit
	}
	return d
}

// RootPolicy constrains what may appear at the root of an encoded document.
type RootPolicy int

const (
	// NamedCompoundOnly accepts exactly one named compound at the root.
	// This is the rule for files on disk in every flavor.
	NamedCompoundOnly RootPolicy = iota

	// AnyNamed accepts a name and a tag of any kind at the root.
	AnyNamed

	// AnyUnnamed accepts a bare tag with no name field on the wire.
	AnyUnnamed
)

func (p RootPolicy) String() string {
	switch p {
	case NamedCompoundOnly:
		return "NamedCompoundOnly"
	case AnyNamed:
		return "AnyNamed"
	case AnyUnnamed:
		return "AnyUnnamed"
	}
	return "RootPolicy(?)"
}

// Allows reports whether a root tag of kind t satisfies p.
func (p RootPolicy) Allows(t Type) bool {
	if p == NamedCompoundOnly {
		return t == TypeCompound
	}
	return t.Valid()
}

// Named reports whether the wire form under p carries a root name.
func (p RootPolicy) Named() bool { return p != AnyUnnamed }
