package nbt

import (
	"fmt"
	"sort"
)

// Compound is a map from names to tags.  Keys are unique; Insert rejects a
// duplicate rather than silently replacing it, because a duplicate key in
// decoded data is corruption, not intent.  Insertion order is remembered and
// is the default iteration order; Sort switches a compound to sorted-key
// order for deterministic output.
type Compound struct {
	keys  []string
	index map[string]int
	vals  []Tag
}

func NewCompound() *Compound {
	return &Compound{index: map[string]int{}}
}

func (c *Compound) Len() int { return len(c.keys) }

// Get returns the tag stored under name.
func (c *Compound) Get(name string) (Tag, bool) {
	i, ok := c.index[name]
	if !ok {
		return Tag{}, false
	}
	return c.vals[i], true
}

// Insert adds a new entry and fails with ErrType if name is present.
func (c *Compound) Insert(name string, t Tag) error {
	if !t.Type.Valid() {
		return fmt.Errorf("%w: cannot store %s in a compound", ErrType, t.Type)
	}
	if _, dup := c.index[name]; dup {
		return fmt.Errorf("%w: duplicate compound key %q", ErrType, name)
	}
	c.index[name] = len(c.keys)
	c.keys = append(c.keys, name)
	c.vals = append(c.vals, t)
	return nil
}

// Set adds or replaces the entry under name.
func (c *Compound) Set(name string, t Tag) {
	if i, ok := c.index[name]; ok {
		c.vals[i] = t
		return
	}
	// Insert cannot fail here other than on an End tag, which is a bug.
	if err := c.Insert(name, t); err != nil {
		panic(err)
	}
}

// Remove deletes name and reports whether it was present.
func (c *Compound) Remove(name string) bool {
	i, ok := c.index[name]
	if !ok {
		return false
	}
	delete(c.index, name)
	c.keys = append(c.keys[:i], c.keys[i+1:]...)
	c.vals = append(c.vals[:i], c.vals[i+1:]...)
	for j := i; j < len(c.keys); j++ {
		c.index[c.keys[j]] = j
	}
	return true
}

// Keys returns the names in iteration order.  The slice is shared; callers
// must not mutate it.
func (c *Compound) Keys() []string { return c.keys }

// Sort reorders the entries by key.  Useful before encoding when output
// must be deterministic regardless of construction order.
func (c *Compound) Sort() {
	sort.Sort((*byKey)(c))
	for i, k := range c.keys {
		c.index[k] = i
	}
}

type byKey Compound

func (c *byKey) Len() int           { return len(c.keys) }
func (c *byKey) Less(i, j int) bool { return c.keys[i] < c.keys[j] }
func (c *byKey) Swap(i, j int) {
	c.keys[i], c.keys[j] = c.keys[j], c.keys[i]
	c.vals[i], c.vals[j] = c.vals[j], c.vals[i]
}

// Copy returns a deep copy of c.
func (c *Compound) Copy() *Compound {
	out := &Compound{
		keys:  append([]string(nil), c.keys...),
		index: make(map[string]int, len(c.index)),
		vals:  make([]Tag, len(c.vals)),
	}
	for k, i := range c.index {
		out.index[k] = i
	}
	for i, t := range c.vals {
		out.vals[i] = t.Copy()
	}
	return out
}

// Typed getters for input-dependent access.  Each returns the zero value
// and false when the key is absent or of another kind.

func (c *Compound) GetByte(name string) (int8, bool) {
	t, ok := c.Get(name)
	if !ok || t.Type != TypeByte {
		return 0, false
	}
	return t.Byte(), true
}

func (c *Compound) GetInt(name string) (int32, bool) {
	t, ok := c.Get(name)
	if !ok || t.Type != TypeInt {
		return 0, false
	}
	return t.Int(), true
}

func (c *Compound) GetLong(name string) (int64, bool) {
	t, ok := c.Get(name)
	if !ok || t.Type != TypeLong {
		return 0, false
	}
	return t.Long(), true
}

func (c *Compound) GetString(name string) (string, bool) {
	t, ok := c.Get(name)
	if !ok || t.Type != TypeString {
		return "", false
	}
	return t.Str(), true
}

func (c *Compound) GetCompound(name string) (*Compound, bool) {
	t, ok := c.Get(name)
	if !ok || t.Type != TypeCompound {
		return nil, false
	}
	return t.Compound(), true
}

func (c *Compound) GetList(name string) (*List, bool) {
	t, ok := c.Get(name)
	if !ok || t.Type != TypeList {
		return nil, false
	}
	return t.List(), true
}
