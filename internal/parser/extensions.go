package parser

import (
	"github.com/hanpama/schemagraph/internal/ir"
)

// ParseAddExtensions parses schema and folds every extension node into its
// base definition.
func ParseAddExtensions(schema string, opts ...Option) (*ir.Tree, error) {
	tree, err := Parse(schema, opts...)
	if err != nil {
		return nil, err
	}
	if err := Fold(tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// Fold appends the args, directives and interfaces of every extension node
// to the base node of the same name, without de-duplication, and drops the
// extension. The tree is left untouched when any extension lacks a base.
func Fold(tree *ir.Tree) error {
	var violations []*Violation
	for _, n := range tree.Nodes {
		if n.Kind.IsExtension() && tree.Lookup(n.Name, n.Kind.Base()) == nil {
			violations = append(violations, violationExtensionBaseNotFound(n.Kind.String(), n.Name))
		}
	}
	if len(violations) > 0 {
		return ValidationError(violations)
	}

	var kept []*ir.Field
	for _, n := range tree.Nodes {
		if !n.Kind.IsExtension() {
			kept = append(kept, n)
			continue
		}
		base := tree.Lookup(n.Name, n.Kind.Base())
		base.Args = append(base.Args, n.Args...)
		base.Directives = append(base.Directives, n.Directives...)
		base.Interfaces = append(base.Interfaces, n.Interfaces...)
	}
	tree.Nodes = kept

	tagInterfaces(tree.Nodes)
	tree.Regenerate()
	return nil
}
