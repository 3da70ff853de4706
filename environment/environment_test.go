package environment

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"
)

func TestNewDefaultsToStrictUnlessSet(t *testing.T) {
	var out bytes.Buffer
	env := New(Strict, strings.NewReader(""), &out, rand.New(rand.NewSource(1)))
	if env.Mode != Strict {
		t.Fatalf("Mode = %v, want Strict", env.Mode)
	}
}

func TestOutputIsBuffered(t *testing.T) {
	var out bytes.Buffer
	env := New(Lenient, strings.NewReader(""), &out, rand.New(rand.NewSource(1)))
	env.Output.WriteString("hi")
	if out.Len() != 0 {
		t.Fatal("expected write to stay buffered until Flush")
	}
	env.Output.Flush()
	if out.String() != "hi" {
		t.Fatalf("got %q, want %q", out.String(), "hi")
	}
}
