package pysource

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
)

// SyntaxErrors counts ERROR and missing nodes in a Python source file.
func SyntaxErrors(ctx context.Context, src []byte) (int, error) {
	tree, err := parse(ctx, src)
	if err != nil {
		return 0, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || !root.HasError() {
		return 0, nil
	}
	return countErrors(root), nil
}

func countErrors(n *sitter.Node) int {
	count := 0
	if n.Type() == "ERROR" || n.IsMissing() {
		count++
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		count += countErrors(n.Child(i))
	}
	return count
}

// Identifiers returns names bound by function parameters, assignment targets and
// for-loop targets, in source order. self and cls are omitted.
func Identifiers(ctx context.Context, src []byte) ([]string, error) {
	tree, err := parse(ctx, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var out []string
	add := func(n *sitter.Node) {
		if n == nil || n.Type() != "identifier" {
			return
		}
		name := n.Content(src)
		if name != "self" && name != "cls" {
			out = append(out, name)
		}
	}

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "function_definition", "lambda":
			if params := n.ChildByFieldName("parameters"); params != nil {
				collectParameters(params, add)
			}
		case "assignment":
			collectTargets(n.ChildByFieldName("left"), add)
		case "for_statement":
			collectTargets(n.ChildByFieldName("left"), add)
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(tree.RootNode())
	return out, nil
}

func collectParameters(params *sitter.Node, add func(*sitter.Node)) {
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch p.Type() {
		case "identifier":
			add(p)
		case "default_parameter", "typed_default_parameter":
			add(p.ChildByFieldName("name"))
		case "typed_parameter", "list_splat_pattern", "dictionary_splat_pattern":
			if p.NamedChildCount() > 0 {
				first := p.NamedChild(0)
				if first.Type() == "identifier" {
					add(first)
				} else {
					collectParameters(p, add)
				}
			}
		}
	}
}

func collectTargets(n *sitter.Node, add func(*sitter.Node)) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "identifier":
		add(n)
	case "pattern_list", "tuple_pattern", "list_pattern", "list_splat_pattern", "parenthesized_expression":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			collectTargets(n.NamedChild(i), add)
		}
	}
}
