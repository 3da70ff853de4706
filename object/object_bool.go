package object

// Bool wraps Knight's two boolean literals (spec.md §3).
type Bool struct {
	Value bool
}

// Type returns the type of this object.
func (b *Bool) Type() Type { return BoolType }

// Clone returns b unchanged: booleans are trivially copyable.
func (b *Bool) Clone() Value { return b }

// True and False are the two canonical boolean values. The rest of the
// interpreter should use these instead of allocating new Bool values,
// so that e.g. VM boolean results can be compared cheaply when that
// ever matters.
var (
	True  = &Bool{Value: true}
	False = &Bool{Value: false}
)

// BoolOf returns True or False for v.
func BoolOf(v bool) *Bool {
	if v {
		return True
	}
	return False
}
