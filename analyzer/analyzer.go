// Package analyzer implements the variable-resolution pass: it walks an
// ast.Tree and assigns every distinct identifier a dense, 0-based slot in
// order of first appearance, exactly as spec.md §4.4 requires.
//
// The algorithm is the same one kristofer-smog's compiler uses inline
// (a symbols map[string]int populated the first time each name is seen,
// incrementing a counter) -- here it is pulled out into its own pass
// because spec.md keeps analysis and emission as separate pipeline
// stages.
package analyzer

import "github.com/knight-lang/knight-go/ast"

// Info is the analyzer's output: the name-to-slot mapping and the total
// distinct identifier count (== the VM's variable_count).
type Info struct {
	Slots map[string]int
	Count int
}

// Analyze walks every node of tree -- including BLOCK bodies, since
// Knight variables are globally scoped (spec.md §4.3.4) and share one
// slot space across the whole program -- and assigns slots to each
// distinct identifier in first-occurrence order.
func Analyze(tree *ast.Tree) *Info {
	info := &Info{Slots: make(map[string]int)}
	if len(tree.Kinds) == 0 {
		return info
	}
	walk(tree, ast.Root, info)
	return info
}

func walk(tree *ast.Tree, node int, info *Info) {
	kind := tree.Kinds[node]

	if kind == ast.Identifier {
		name := tree.Text(node)
		if _, seen := info.Slots[name]; !seen {
			info.Slots[name] = info.Count
			info.Count++
		}
		return
	}

	if kind == ast.IntegerLiteral || kind == ast.StringLiteral {
		return
	}

	n := tree.NumChildren(node)
	for i := 0; i < n; i++ {
		walk(tree, tree.Child(node, i), info)
	}
}
