package code

import "testing"

func TestOpStringKnown(t *testing.T) {
	if OpAdd.String() != "Add" {
		t.Errorf("OpAdd.String() = %q, want %q", OpAdd.String(), "Add")
	}
}

func TestOpStringUnknown(t *testing.T) {
	if Op(9999).String() != "UnknownOp" {
		t.Errorf("unknown op should stringify to UnknownOp")
	}
}
