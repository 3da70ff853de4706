package object

// Ordering mirrors the three-way comparison result of order(a,b)
// (spec.md §4.3.3).
type Ordering int

const (
	Lt Ordering = -1
	Eq Ordering = 0
	Gt Ordering = 1
)

func cmp64(a, b int64) Ordering {
	switch {
	case a < b:
		return Lt
	case a > b:
		return Gt
	default:
		return Eq
	}
}

// Order implements order(a,b): dispatch on the type of a (spec.md
// §4.3.3). Block always compares equal; Null compares equal only to
// Null, else less.
func Order(a, b Value) Ordering {
	switch x := a.(type) {
	case *Number:
		return cmp64(x.Value, ToNumber(b))
	case *Bool:
		return cmp64(boolToInt(x.Value), boolToInt(ToBool(b)))
	case *String:
		return cmpString(x.Value, ToString(b))
	case *List:
		return orderLists(x.Values, ToList(b).Values)
	case *Null:
		if _, ok := b.(*Null); ok {
			return Eq
		}
		return Lt
	case *Block:
		return Eq
	default:
		return Eq
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func cmpString(a, b string) Ordering {
	switch {
	case a < b:
		return Lt
	case a > b:
		return Gt
	default:
		return Eq
	}
}

func orderLists(a, b []Value) Ordering {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if o := Order(a[i], b[i]); o != Eq {
			return o
		}
	}
	return cmp64(int64(len(a)), int64(len(b)))
}

// StrictEqual implements strict_equals(a,b): same variant, no
// coercion, payloads equal (spec.md §4.3.3).
func StrictEqual(a, b Value) bool {
	if a.Type() != b.Type() {
		return false
	}
	switch x := a.(type) {
	case *Number:
		return x.Value == b.(*Number).Value
	case *Bool:
		return x.Value == b.(*Bool).Value
	case *Null:
		return true
	case *String:
		return x.Value == b.(*String).Value
	case *Block:
		return x.Index == b.(*Block).Index
	case *List:
		y := b.(*List)
		if len(x.Values) != len(y.Values) {
			return false
		}
		for i := range x.Values {
			if !StrictEqual(x.Values[i], y.Values[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
