package mutate

import (
	"github.com/hanpama/schemagraph/internal/ir"
	"github.com/samber/lo"
)

// ImplementInterface makes node implement iface and, transitively, every
// interface iface implements. Fields node already has are tagged; missing
// interface fields are copied in.
func (e *Editor) ImplementInterface(node, iface *ir.Field) {
	chain := e.closure(iface.Name)
	e.log.Debug().Str("node", node.Name).Strs("interfaces", chain).Msg("implement interface")

	for _, name := range chain {
		if !lo.Contains(node.Interfaces, name) {
			node.Interfaces = append(node.Interfaces, name)
		}
	}
	for _, name := range chain {
		for _, f := range e.interfaceFields(name) {
			if existing := ir.FindArg(node, f.Name); existing != nil {
				existing.Tag(name)
				continue
			}
			c := f.Clone()
			c.FromInterface = []string{name}
			ir.Regenerate(c)
			node.Args = append(node.Args, c)
		}
	}
	e.touch(node)
}

// DeImplementInterface drops ifaceName and the interfaces it implements from
// node, except those still reachable from node's remaining interfaces. Fields
// contributed only by dropped interfaces are deleted; locally declared fields
// stay.
func (e *Editor) DeImplementInterface(node *ir.Field, ifaceName string) {
	removed := e.closure(ifaceName)
	var reachable []string
	for _, name := range lo.Without(node.Interfaces, removed...) {
		reachable = append(reachable, e.closure(name)...)
	}
	removed = lo.Without(removed, reachable...)
	e.log.Debug().Str("node", node.Name).Strs("interfaces", removed).Msg("de-implement interface")

	node.Interfaces = lo.Without(node.Interfaces, removed...)
	node.Args = lo.Reject(node.Args, func(f *ir.Field, _ int) bool {
		if len(f.FromInterface) == 0 {
			return false
		}
		f.FromInterface = lo.Without(f.FromInterface, removed...)
		return len(f.FromInterface) == 0
	})
	e.touch(node)
}

// closure returns name followed by every interface it implements,
// transitively, without repeats.
func (e *Editor) closure(name string) []string {
	out := []string{name}
	for i := 0; i < len(out); i++ {
		for _, n := range e.interfaceNodes(out[i]) {
			for _, parent := range n.Interfaces {
				if !lo.Contains(out, parent) {
					out = append(out, parent)
				}
			}
		}
	}
	return out
}

// interfaceNodes finds the definition and extensions of an interface in the
// tree, then in the pool.
func (e *Editor) interfaceNodes(name string) []*ir.Field {
	match := func(n *ir.Field, _ int) bool {
		return n.Name == name && n.Kind.IsInterface()
	}
	if found := lo.Filter(e.tree.Nodes, match); len(found) > 0 {
		return found
	}
	return lo.Filter(e.opt.Pool, match)
}

func (e *Editor) interfaceFields(name string) []*ir.Field {
	var out []*ir.Field
	for _, n := range e.interfaceNodes(name) {
		out = append(out, n.Args...)
	}
	return lo.UniqBy(out, func(f *ir.Field) string { return f.Name })
}
