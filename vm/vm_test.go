package vm

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/knight-lang/knight-go/analyzer"
	"github.com/knight-lang/knight-go/compiler"
	"github.com/knight-lang/knight-go/environment"
	"github.com/knight-lang/knight-go/parser"
)

func runSource(t *testing.T, source, input string, mode environment.Mode) (string, *byte) {
	t.Helper()
	tree, err := parser.New(source).ParseProgram()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	info := analyzer.Analyze(tree)
	prog, err := compiler.Compile(tree, info)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	var out bytes.Buffer
	env := environment.New(mode, strings.NewReader(input), &out, rand.New(rand.NewSource(1)))
	m := New(env, prog)
	quit, err := m.Run()
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	return out.String(), quit
}

func TestScenarioDumpZero(t *testing.T) {
	out, quit := runSource(t, "D 0", "", environment.Strict)
	if out != "0" {
		t.Errorf("stdout = %q, want %q", out, "0")
	}
	if quit != nil {
		t.Errorf("quit = %v, want nil", quit)
	}
}

func TestScenarioAssignThenDump(t *testing.T) {
	out, _ := runSource(t, "; = a 3 D : a", "", environment.Strict)
	if out != "3" {
		t.Errorf("stdout = %q, want %q", out, "3")
	}
}

func TestScenarioQuit42(t *testing.T) {
	out, quit := runSource(t, "QUIT 42", "", environment.Strict)
	if out != "" {
		t.Errorf("stdout = %q, want empty", out)
	}
	if quit == nil || *quit != 42 {
		t.Errorf("quit = %v, want 42", quit)
	}
}

func TestScenarioOutputTrailingBackslash(t *testing.T) {
	out, _ := runSource(t, `OUTPUT "hello\"`, "", environment.Strict)
	if out != "hello" {
		t.Errorf("stdout = %q, want %q (no trailing newline)", out, "hello")
	}
}

func TestScenarioWhileSum(t *testing.T) {
	source := "; = i 0 ; = sum 0 ; W < i 10 ; = sum + sum i = i + i 1 D sum"
	out, _ := runSource(t, source, "", environment.Strict)
	if out != "45" {
		t.Errorf("stdout = %q, want %q", out, "45")
	}
}

func TestScenarioPromptStripsTrailingCR(t *testing.T) {
	out, _ := runSource(t, "D PROMPT", "foo\r\r\r\n", environment.Strict)
	if out != `"foo"` {
		t.Errorf("stdout = %q, want %q", out, `"foo"`)
	}
}

func TestScenarioNoSharedConcatBuffer(t *testing.T) {
	source := `; = a + "" 12 ; = b + "" 34 D + a b`
	out, _ := runSource(t, source, "", environment.Strict)
	if out != `"1234"` {
		t.Errorf("stdout = %q, want %q", out, `"1234"`)
	}
}

func TestScenarioGloballyScopedBlocks(t *testing.T) {
	source := "; = a 1 ; = b 2 ; = blk B + a b ; = a 5 D CALL blk"
	out, _ := runSource(t, source, "", environment.Strict)
	if out != "7" {
		t.Errorf("stdout = %q, want %q (block sees updated global a)", out, "7")
	}
}

func TestAssignmentIsExpression(t *testing.T) {
	out, _ := runSource(t, "D = a 9", "", environment.Strict)
	if out != "9" {
		t.Errorf("stdout = %q, want %q", out, "9")
	}
}

func TestShortCircuitAndSkipsSecondOperand(t *testing.T) {
	out, _ := runSource(t, `D & F (OUTPUT "should not run")`, "", environment.Strict)
	if out != "false" {
		t.Errorf("stdout = %q, want %q", out, "false")
	}
}

func TestShortCircuitOrSkipsSecondOperand(t *testing.T) {
	out, _ := runSource(t, `D | T (OUTPUT "should not run")`, "", environment.Strict)
	if out != "true" {
		t.Errorf("stdout = %q, want %q", out, "true")
	}
}

func TestLenientModeToleratesBadHead(t *testing.T) {
	_, quit := runSource(t, `; [ @ D 1`, "", environment.Lenient)
	if quit != nil {
		t.Errorf("quit = %v, want nil", quit)
	}
}
