package parser

import (
	"testing"

	"github.com/knight-lang/knight-go/ast"
)

func mustParse(t *testing.T, source string) *ast.Tree {
	t.Helper()
	tree, err := New(source).ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram(%q): %v", source, err)
	}
	return tree
}

func TestRootIsIndexZero(t *testing.T) {
	tree := mustParse(t, "+ 1 2")
	if tree.Kinds[ast.Root] != ast.Add {
		t.Fatalf("root kind = %v, want Add", tree.Kinds[ast.Root])
	}
	if tree.NumChildren(ast.Root) != 2 {
		t.Fatalf("root has %d children, want 2", tree.NumChildren(ast.Root))
	}
	left, right := tree.Child(ast.Root, 0), tree.Child(ast.Root, 1)
	if tree.Kinds[left] != ast.IntegerLiteral || tree.Text(left) != "1" {
		t.Errorf("left child wrong: %v %q", tree.Kinds[left], tree.Text(left))
	}
	if tree.Kinds[right] != ast.IntegerLiteral || tree.Text(right) != "2" {
		t.Errorf("right child wrong: %v %q", tree.Kinds[right], tree.Text(right))
	}
}

func TestNestedFunctionRootStillZero(t *testing.T) {
	tree := mustParse(t, "OUTPUT + \"a\" \"b\"")
	if tree.Kinds[ast.Root] != ast.Output {
		t.Fatalf("root kind = %v, want Output", tree.Kinds[ast.Root])
	}
	arg := tree.Child(ast.Root, 0)
	if tree.Kinds[arg] != ast.Add {
		t.Fatalf("arg kind = %v, want Add", tree.Kinds[arg])
	}
}

func TestWordFunctionFirstLetterOnly(t *testing.T) {
	tree := mustParse(t, "WHILE TRUE FALSE")
	if tree.Kinds[ast.Root] != ast.While {
		t.Fatalf("root kind = %v, want While", tree.Kinds[ast.Root])
	}
	cond := tree.Child(ast.Root, 0)
	body := tree.Child(ast.Root, 1)
	if tree.Kinds[cond] != ast.True {
		t.Errorf("cond kind = %v, want True", tree.Kinds[cond])
	}
	if tree.Kinds[body] != ast.False {
		t.Errorf("body kind = %v, want False", tree.Kinds[body])
	}
}

func TestParens(t *testing.T) {
	tree := mustParse(t, "(1)")
	if tree.Kinds[ast.Root] != ast.IntegerLiteral {
		t.Fatalf("root kind = %v, want IntegerLiteral", tree.Kinds[ast.Root])
	}
}

func TestQuaternarySet(t *testing.T) {
	tree := mustParse(t, `S "abc" 1 1 "X"`)
	if tree.Kinds[ast.Root] != ast.Set {
		t.Fatalf("root kind = %v, want Set", tree.Kinds[ast.Root])
	}
	if tree.NumChildren(ast.Root) != 4 {
		t.Fatalf("got %d children, want 4", tree.NumChildren(ast.Root))
	}
}

func TestUnterminatedStringIsError(t *testing.T) {
	_, err := New(`"abc`).ParseProgram()
	if err == nil {
		t.Fatal("expected error for unterminated string")
	}
}

func TestTrailingInputIsError(t *testing.T) {
	_, err := New("1 2").ParseProgram()
	if err == nil {
		t.Fatal("expected error for trailing input")
	}
}
