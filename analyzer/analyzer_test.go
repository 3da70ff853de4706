package analyzer

import (
	"testing"

	"github.com/knight-lang/knight-go/parser"
)

func TestFirstOccurrenceOrder(t *testing.T) {
	tree, err := parser.New("; = a 1 ; = b 2 + a b").ParseProgram()
	if err != nil {
		t.Fatal(err)
	}
	info := Analyze(tree)
	if info.Count != 2 {
		t.Fatalf("count = %d, want 2", info.Count)
	}
	if info.Slots["a"] != 0 {
		t.Errorf("a -> %d, want 0", info.Slots["a"])
	}
	if info.Slots["b"] != 1 {
		t.Errorf("b -> %d, want 1", info.Slots["b"])
	}
}

func TestDeterministic(t *testing.T) {
	source := "; = z 1 ; = a 2 + z a"
	t1, _ := parser.New(source).ParseProgram()
	t2, _ := parser.New(source).ParseProgram()
	i1 := Analyze(t1)
	i2 := Analyze(t2)
	if i1.Count != i2.Count || i1.Slots["z"] != i2.Slots["z"] || i1.Slots["a"] != i2.Slots["a"] {
		t.Fatal("two parses of identical source produced different slot assignments")
	}
}

func TestSameNameReusesSlot(t *testing.T) {
	tree, _ := parser.New("; = a 1 ; = a 2 : a").ParseProgram()
	info := Analyze(tree)
	if info.Count != 1 {
		t.Fatalf("count = %d, want 1", info.Count)
	}
}

func TestBlockBodySharesGlobalSlots(t *testing.T) {
	// identifiers inside a BLOCK body must be resolved too, since Knight
	// has no lexical scoping (spec.md §4.3.4).
	tree, err := parser.New("; = blk BLOCK + a 1 : blk").ParseProgram()
	if err != nil {
		t.Fatal(err)
	}
	info := Analyze(tree)
	if _, ok := info.Slots["a"]; !ok {
		t.Fatal("identifier inside BLOCK body was not resolved")
	}
	if _, ok := info.Slots["blk"]; !ok {
		t.Fatal("blk was not resolved")
	}
}
