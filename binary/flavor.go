package binary

// Flavor describes one wire layout.  The three values below are the only
// layouts in use; the struct is exported so callers can inspect what a
// flavor does, not so they can invent new ones.
type Flavor struct {
	Name string

	// Little selects little-endian fixed-width fields.
	Little bool

	// VarInts selects zigzag varints for Int and Long payloads and for
	// every i32 length (list counts, array lengths), and unsigned varints
	// for string lengths.
	VarInts bool

	// ModifiedUTF8 selects Java's modified UTF-8 string encoding.
	ModifiedUTF8 bool
}

var (
	Java    = Flavor{Name: "java", ModifiedUTF8: true}
	Bedrock = Flavor{Name: "bedrock", Little: true}
	Network = Flavor{Name: "network", Little: true, VarInts: true}
)

// FlavorByName resolves a flavor from its CLI spelling.
func FlavorByName(name string) (Flavor, bool) {
	switch name {
	case "java", "j":
		return Java, true
	case "bedrock", "b", "disk":
		return Bedrock, true
	case "network", "n", "net":
		return Network, true
	}
	return Flavor{}, false
}

func (f Flavor) String() string { return f.Name }
