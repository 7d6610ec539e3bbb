package mutate

import (
	"github.com/hanpama/schemagraph/internal/ir"
)

// RenameNode renames a top-level node or a nested one (field, argument, enum
// value). Renaming onto a name already taken by a sibling does nothing.
func (e *Editor) RenameNode(node *ir.Field, name string) {
	if e.tree.Index(node) >= 0 {
		e.renameRoot(node, name)
		return
	}
	path := e.tree.PathTo(node)
	if len(path) < 2 {
		return
	}
	parent := path[len(path)-2]
	if ir.FindArg(parent, name) != nil {
		return
	}
	old := node.Name
	e.log.Debug().Str("parent", parent.Name).Str("from", old).Str("to", name).Msg("rename field")

	node.Name = name
	e.touch(node)

	if parent.Kind.IsInterface() && node.Kind == ir.KindFieldDefinition {
		for _, impl := range e.tree.Implementers(parent.Name) {
			f := ir.FindArg(impl, old)
			if f == nil || !f.HasInterfaceTag(parent.Name) || ir.FindArg(impl, name) != nil {
				continue
			}
			f.Name = name
			e.touch(f)
		}
	}
}

func (e *Editor) renameRoot(node *ir.Field, name string) {
	if e.tree.Names()[name] {
		e.log.Debug().Str("from", node.Name).Str("to", name).Msg("rename skipped, name taken")
		return
	}
	old := node.Name
	e.log.Debug().Str("from", old).Str("to", name).Msg("rename node")

	base := node.Kind.Base()
	for _, n := range e.tree.Nodes {
		if n.Name == old && n.Kind.Base() == base {
			n.Name = name
		}
	}

	if node.Kind == ir.KindDirectiveDefinition {
		e.tree.Walk(func(f *ir.Field, _ []*ir.Field) bool {
			if f.Kind == ir.KindDirective && f.Name == old {
				f.Name = name
			}
			return true
		})
		e.tree.Regenerate()
		return
	}

	e.tree.Walk(func(f *ir.Field, _ []*ir.Field) bool {
		if f.Type.Rename(old, name) && f.Kind == ir.KindUnionMemberDefinition {
			f.Name = name
		}
		for i, iface := range f.Interfaces {
			if iface == old {
				f.Interfaces[i] = name
			}
		}
		for i, iface := range f.FromInterface {
			if iface == old {
				f.FromInterface[i] = name
			}
		}
		return true
	})
	e.tree.Regenerate()
}
