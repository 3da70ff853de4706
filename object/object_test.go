package object

import "testing"

func TestCloneListDeepCopies(t *testing.T) {
	orig := &List{Values: []Value{&Number{Value: 1}, &Number{Value: 2}}}
	clone := orig.Clone().(*List)
	clone.Values[0] = &Number{Value: 99}
	if orig.Values[0].(*Number).Value != 1 {
		t.Fatal("mutating clone's backing array affected original")
	}
}

func TestToNumberString(t *testing.T) {
	cases := map[string]int64{
		"123":     123,
		"  -45":   -45,
		"":        0,
		"12abc":   12,
		"abc":     0,
		"+7":      7,
		"   \t9x": 9,
	}
	for in, want := range cases {
		if got := ToNumber(&String{Value: in}); got != want {
			t.Errorf("ToNumber(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestToListNumber(t *testing.T) {
	list := ToList(&Number{Value: -123})
	if len(list.Values) != 3 {
		t.Fatalf("len = %d, want 3", len(list.Values))
	}
	want := []int64{-1, -2, -3}
	for i, w := range want {
		if list.Values[i].(*Number).Value != w {
			t.Errorf("digit %d = %d, want %d", i, list.Values[i].(*Number).Value, w)
		}
	}
}

func TestOrderListsPrefixTie(t *testing.T) {
	short := &List{Values: []Value{&Number{Value: 1}}}
	long := &List{Values: []Value{&Number{Value: 1}, &Number{Value: 2}}}
	if Order(short, long) != Lt {
		t.Fatal("shorter prefix-equal list should be Lt")
	}
}

func TestStrictEqualNoCoercion(t *testing.T) {
	if StrictEqual(&Number{Value: 1}, &Bool{Value: true}) {
		t.Fatal("strict_equals must not coerce across types")
	}
	if !StrictEqual(&Number{Value: 1}, &Number{Value: 1}) {
		t.Fatal("equal numbers should strict-equal")
	}
}

func TestDumpString(t *testing.T) {
	got := Dump(&String{Value: "a\tb\n\"c\""})
	want := `"a\tb\n\"c\""`
	if got != want {
		t.Errorf("Dump = %s, want %s", got, want)
	}
}

func TestDumpList(t *testing.T) {
	list := &List{Values: []Value{&Number{Value: 1}, &String{Value: "x"}}}
	got := Dump(list)
	want := `[1, "x"]`
	if got != want {
		t.Errorf("Dump = %s, want %s", got, want)
	}
}
