package nbt

import "fmt"

// List is a homogeneous sequence of tags.  The element kind is tracked even
// while the list is empty so that an empty list round-trips through the
// binary codec with its element marker intact.
type List struct {
	elem Type
	tags []Tag
}

// NewList returns an empty list of the given element kind.  TypeEnd makes
// an untyped empty list; its kind is fixed by the first Push.
func NewList(elem Type) *List {
	return &List{elem: elem}
}

// ListOf builds a list from tags, enforcing homogeneity.
func ListOf(tags ...Tag) (*List, error) {
	l := NewList(TypeEnd)
	for _, t := range tags {
		if err := l.Push(t); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Elem is the element kind; TypeEnd for an untyped empty list.
func (l *List) Elem() Type { return l.elem }

func (l *List) Len() int { return len(l.tags) }

// At returns the i'th element.  The index must be in range.
func (l *List) At(i int) Tag { return l.tags[i] }

// Push appends t, fixing the element kind on first use.
func (l *List) Push(t Tag) error {
	if !t.Type.Valid() {
		return fmt.Errorf("%w: cannot store %s in a list", ErrType, t.Type)
	}
	if l.elem == TypeEnd && len(l.tags) == 0 {
		l.elem = t.Type
	}
	if t.Type != l.elem {
		return fmt.Errorf("%w: %s element in list of %s", ErrType, t.Type, l.elem)
	}
	l.tags = append(l.tags, t)
	return nil
}

// Set replaces the i'th element, which must match the element kind.
func (l *List) Set(i int, t Tag) error {
	if t.Type != l.elem {
		return fmt.Errorf("%w: %s element in list of %s", ErrType, t.Type, l.elem)
	}
	l.tags[i] = t
	return nil
}

// Copy returns a deep copy of l.
func (l *List) Copy() *List {
	out := &List{elem: l.elem, tags: make([]Tag, len(l.tags))}
	for i, t := range l.tags {
		out.tags[i] = t.Copy()
	}
	return out
}
