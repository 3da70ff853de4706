package object

// Null is Knight's single null value (spec.md §3).
type Null struct{}

// Type returns the type of this object.
func (n *Null) Type() Type { return NullType }

// Clone returns n unchanged: Null carries no state.
func (n *Null) Clone() Value { return n }

// TheNull is the sole Null instance; every nullary NULL opcode and every
// coercion-to-null path should return this rather than allocating.
var TheNull = &Null{}
