package object

import "strconv"

// Dump renders v in the bit-exact canonical debug form spec.md §6
// requires for test oracles.
func Dump(v Value) string {
	switch x := v.(type) {
	case *Number:
		return strconv.FormatInt(x.Value, 10)
	case *String:
		return dumpString(x.Value)
	case *Bool:
		if x.Value {
			return "true"
		}
		return "false"
	case *Null:
		return "null"
	case *List:
		out := "["
		for i, e := range x.Values {
			if i > 0 {
				out += ", "
			}
			out += Dump(e)
		}
		return out + "]"
	case *Block:
		return ""
	default:
		return ""
	}
}

func dumpString(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\t':
			out = append(out, '\\', 't')
		case '\n':
			out = append(out, '\\', 'n')
		case '\r':
			out = append(out, '\\', 'r')
		case '\\':
			out = append(out, '\\', '\\')
		case '"':
			out = append(out, '\\', '"')
		default:
			out = append(out, c)
		}
	}
	out = append(out, '"')
	return string(out)
}
