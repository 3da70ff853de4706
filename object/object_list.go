package object

// List wraps an owned, ordered sequence of Values (spec.md §3). Unlike
// String, a Go slice header assigned to a new variable still aliases the
// same backing array, so Clone must actually allocate and deep-copy
// every element -- this is the one variant where sharing without
// copying would let a mutation through one owner show up in another.
type List struct {
	Values []Value
}

// Type returns the type of this object.
func (l *List) Type() Type { return ListType }

// Clone deep-copies l: a fresh backing array, and every element cloned
// in turn so nested lists don't alias either.
func (l *List) Clone() Value {
	values := make([]Value, len(l.Values))
	for i, v := range l.Values {
		values[i] = v.Clone()
	}
	return &List{Values: values}
}
