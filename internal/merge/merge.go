package merge

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hanpama/schemagraph/internal/ir"
	"github.com/samber/lo"
)

type merger struct {
	conflicts []*Conflict
}

// Merge combines two trees. Nodes match by name and kind. The schema
// definition of t2 is dropped; extension pairs are compared but never
// combined. Either every node merges cleanly and the result holds the t1-only
// nodes, the merged pairs and the t2-only nodes (marked FromLibrary), in that
// order, or a ConflictError lists every conflict found. Neither input is
// modified.
func Merge(t1, t2 *ir.Tree) (*ir.Tree, error) {
	a, b := t1.Clone(), t2.Clone()
	others := lo.Reject(b.Nodes, func(n *ir.Field, _ int) bool {
		return n.Kind == ir.KindSchemaDefinition
	})

	m := &merger{}
	matched := make(map[*ir.Field]bool)
	var only1, merged, only2 []*ir.Field

	for _, n1 := range a.Nodes {
		if n1.Kind == ir.KindComment {
			only1 = append(only1, n1)
			continue
		}
		n2, ok := lo.Find(others, func(n *ir.Field) bool {
			return !matched[n] && n.Name == n1.Name && n.Kind == n1.Kind
		})
		if !ok {
			if other := m.kindMismatch(n1, others); other != nil {
				matched[other] = true
			}
			only1 = append(only1, n1)
			continue
		}
		matched[n2] = true

		if n1.Kind.IsExtension() {
			m.compareExtensions(n1, n2)
			merged = append(merged, n1, n2)
			continue
		}
		if out := m.mergeNode(n1, n2); out != nil {
			merged = append(merged, out)
		}
	}
	for _, n2 := range others {
		if matched[n2] {
			continue
		}
		n2.FromLibrary = true
		only2 = append(only2, n2)
	}

	if len(m.conflicts) > 0 {
		return nil, ConflictError(m.conflicts)
	}
	out := &ir.Tree{Nodes: append(append(only1, merged...), only2...)}
	out.Regenerate()
	return out, nil
}

func (m *merger) conflict(node *ir.Field, field, format string, args ...any) {
	m.conflicts = append(m.conflicts, &Conflict{
		Node:    node.Name,
		Kind:    node.Kind,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

// kindMismatch reports a type of t2 that shares n1's name under another kind.
func (m *merger) kindMismatch(n1 *ir.Field, others []*ir.Field) *ir.Field {
	if !n1.Kind.IsTypeDefinition() || n1.Kind.IsExtension() {
		return nil
	}
	other, ok := lo.Find(others, func(n *ir.Field) bool {
		return n.Name == n1.Name && n.Kind.IsTypeDefinition() && !n.Kind.IsExtension()
	})
	if !ok {
		return nil
	}
	m.conflict(n1, "", "kind mismatch: %s vs %s", n1.Kind, other.Kind)
	return other
}

// compareExtensions records a conflict for every field both extensions
// declare differently.
func (m *merger) compareExtensions(n1, n2 *ir.Field) {
	for _, f1 := range n1.Args {
		f2 := ir.FindArg(n2, f1.Name)
		if f2 != nil && !ir.Equal(f1, f2) {
			m.conflict(n1, f1.Name, "extension field differs")
		}
	}
}

func (m *merger) mergeNode(n1, n2 *ir.Field) *ir.Field {
	if n1.Description == "" {
		n1.Description = n2.Description
	}
	n1.Directives = uniqByName(append(n1.Directives, n2.Directives...))

	switch n1.Kind {
	case ir.KindObjectTypeDefinition, ir.KindInterfaceTypeDefinition:
		return m.mergeComposite(n1, n2)
	case ir.KindInputObjectTypeDefinition:
		n1.Args = m.mergeArgs(n1, "", n1.Args, n2.Args)
	case ir.KindEnumTypeDefinition, ir.KindUnionTypeDefinition:
		n1.Args = uniqByName(append(n1.Args, n2.Args...))
	case ir.KindScalarTypeDefinition:
		// directives only
	case ir.KindDirectiveDefinition:
		n1.Args = m.mergeArgs(n1, "", n1.Args, n2.Args)
		n1.Locations = lo.Union(n1.Locations, n2.Locations)
		n1.Repeatable = n1.Repeatable || n2.Repeatable
	default:
		// schema definitions of t2 are dropped before matching
		panic("unreachable")
	}
	return n1
}

func (m *merger) mergeComposite(n1, n2 *ir.Field) *ir.Field {
	if !sameSet(n1.Interfaces, n2.Interfaces) {
		m.conflict(n1, "", "interfaces differ: [%s] vs [%s]",
			strings.Join(n1.Interfaces, ", "), strings.Join(n2.Interfaces, ", "))
		return nil
	}
	n1.Interfaces = lo.Uniq(append(n1.Interfaces, n2.Interfaces...))

	failed := false
	for _, f1 := range n1.Args {
		f2 := ir.FindArg(n2, f1.Name)
		if f2 == nil {
			continue
		}
		if t1, t2 := ir.TypeNameOf(f1.Type), ir.TypeNameOf(f2.Type); t1 != t2 {
			m.conflict(n1, f1.Name, "type mismatch: %s vs %s", f1.Type, f2.Type)
			failed = true
			continue
		}
		if f1.Description == "" {
			f1.Description = f2.Description
		}
		f1.Args = m.mergeArgs(n1, f1.Name, f1.Args, f2.Args)
		f1.Directives = uniqByName(append(f1.Directives, f2.Directives...))
		f1.FromInterface = lo.Union(f1.FromInterface, f2.FromInterface)
	}
	for _, f2 := range n2.Args {
		if ir.FindArg(n1, f2.Name) == nil {
			n1.Args = append(n1.Args, f2)
		}
	}
	if failed {
		return nil
	}
	return n1
}

// mergeArgs keeps the arguments both sides declare. An argument only one side
// requires is a conflict; when both declare it, the result is required if
// either side requires it. With owner set, conflicts are reported on that
// field; otherwise on the argument itself.
func (m *merger) mergeArgs(node *ir.Field, owner string, a1, a2 []*ir.Field) []*ir.Field {
	report := func(arg, format string, args ...any) {
		if owner == "" {
			m.conflict(node, arg, format, args...)
			return
		}
		m.conflict(node, owner, "argument %q: "+format, append([]any{arg}, args...)...)
	}

	var out []*ir.Field
	for _, x := range a1 {
		y, ok := lo.Find(a2, func(y *ir.Field) bool { return y.Name == x.Name })
		if !ok {
			if x.IsRequired() {
				report(x.Name, "required argument missing on the other side")
			}
			continue
		}
		if ir.TypeNameOf(x.Type) != ir.TypeNameOf(y.Type) {
			report(x.Name, "type mismatch: %s vs %s", x.Type, y.Type)
			continue
		}
		if y.IsRequired() && !x.IsRequired() {
			if !x.Type.IsNonNull() {
				x.Type = ir.NonNullType(x.Type)
			}
			x.Value = nil
		}
		if x.Description == "" {
			x.Description = y.Description
		}
		x.Directives = uniqByName(append(x.Directives, y.Directives...))
		out = append(out, x)
	}
	for _, y := range a2 {
		if y.IsRequired() && !lo.ContainsBy(a1, func(x *ir.Field) bool { return x.Name == y.Name }) {
			report(y.Name, "required argument missing on the other side")
		}
	}
	return out
}

func uniqByName(fs []*ir.Field) []*ir.Field {
	return lo.UniqBy(fs, func(f *ir.Field) string { return f.Name })
}

func sameSet(a, b []string) bool {
	x, y := lo.Uniq(a), lo.Uniq(b)
	if len(x) != len(y) {
		return false
	}
	sort.Strings(x)
	sort.Strings(y)
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}
