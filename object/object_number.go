package object

// Number wraps a signed, machine-word-wide integer (spec.md §3).
type Number struct {
	Value int64
}

// Type returns the type of this object.
func (n *Number) Type() Type { return NumberType }

// Clone returns n unchanged: numbers are trivially copyable (spec.md §3).
func (n *Number) Clone() Value { return n }
