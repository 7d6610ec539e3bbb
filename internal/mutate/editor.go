package mutate

import (
	"errors"
	"fmt"

	"github.com/hanpama/schemagraph/internal/ir"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// ErrNodeNotFound is returned by RemoveNode for a node that is not part of
// the tree.
var ErrNodeNotFound = errors.New("node not found")

type Options struct {
	// Pool holds extra nodes, typically from a library tree, consulted when
	// resolving interfaces. They are never edited.
	Pool []*ir.Field

	Logger zerolog.Logger
}

type Option func(*Options)

func WithPool(nodes ...*ir.Field) Option {
	return func(o *Options) { o.Pool = append(o.Pool, nodes...) }
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// Editor edits one tree in place. Every method commits fully, including id
// regeneration, before returning. An Editor is not safe for concurrent use.
type Editor struct {
	tree *ir.Tree
	opt  Options
	log  zerolog.Logger
}

func New(tree *ir.Tree, opts ...Option) *Editor {
	op := Options{Logger: zerolog.Nop()}
	for _, f := range opts {
		f(&op)
	}
	return &Editor{tree: tree, opt: op, log: op.Logger.With().Str("component", "mutate").Logger()}
}

func (e *Editor) Tree() *ir.Tree { return e.tree }

// AddField appends field to node. Fields added to an interface are
// propagated to its direct implementers.
func (e *Editor) AddField(node, field *ir.Field) {
	e.log.Debug().Str("node", node.Name).Str("field", field.Name).Msg("add field")

	node.Args = append(node.Args, field)
	ir.Regenerate(field)
	e.touch(node)

	if !node.Kind.IsInterface() {
		return
	}
	for _, impl := range e.tree.Implementers(node.Name) {
		if existing := ir.FindArg(impl, field.Name); existing != nil {
			existing.Tag(node.Name)
			continue
		}
		c := field.Clone()
		c.FromInterface = []string{node.Name}
		ir.Regenerate(c)
		impl.Args = append(impl.Args, c)
		e.touch(impl)
	}
}

// UpdateField replaces node.Args[i]. On an interface, the matching field of
// every implementer is replaced too, keeping the union of both provenance
// lists.
func (e *Editor) UpdateField(node *ir.Field, i int, field *ir.Field) {
	old := node.Args[i]
	e.log.Debug().Str("node", node.Name).Str("field", old.Name).Msg("update field")

	field.FromInterface = lo.Union(old.FromInterface, field.FromInterface)
	node.Args[i] = field
	ir.Regenerate(field)
	e.touch(node)

	if !node.Kind.IsInterface() {
		return
	}
	for _, impl := range e.tree.Implementers(node.Name) {
		j := ir.ArgIndex(impl, old.Name)
		if j < 0 {
			continue
		}
		c := field.Clone()
		c.FromInterface = lo.Union(impl.Args[j].FromInterface, []string{node.Name})
		ir.Regenerate(c)
		impl.Args[j] = c
		e.touch(impl)
	}
}

// DeleteField removes node.Args[i]. On an interface, implementers lose the
// interface's tag on the matching field, and the field itself once no
// interface contributes it any more.
func (e *Editor) DeleteField(node *ir.Field, i int) {
	old := node.Args[i]
	e.log.Debug().Str("node", node.Name).Str("field", old.Name).Msg("delete field")

	node.Args = append(node.Args[:i:i], node.Args[i+1:]...)
	e.touch(node)

	if !node.Kind.IsInterface() {
		return
	}
	for _, impl := range e.tree.Implementers(node.Name) {
		j := ir.ArgIndex(impl, old.Name)
		if j < 0 || !impl.Args[j].HasInterfaceTag(node.Name) {
			continue
		}
		f := impl.Args[j]
		f.FromInterface = lo.Without(f.FromInterface, node.Name)
		if len(f.FromInterface) == 0 {
			impl.Args = append(impl.Args[:j:j], impl.Args[j+1:]...)
		}
		e.touch(impl)
	}
}

// RemoveNode splices a top-level node out of the tree. Unless the node is an
// extension, every reference to it goes too: fields and arguments typed with
// it, union members, schema bindings, directive instances and interface
// implementations.
func (e *Editor) RemoveNode(node *ir.Field) error {
	idx := e.tree.Index(node)
	if idx < 0 {
		return fmt.Errorf("remove %s %q: %w", node.Kind, node.Name, ErrNodeNotFound)
	}
	e.log.Debug().Str("node", node.Name).Stringer("kind", node.Kind).Msg("remove node")

	if node.Kind.IsInterface() && !node.Kind.IsExtension() {
		for _, impl := range e.tree.Implementers(node.Name) {
			e.DeImplementInterface(impl, node.Name)
		}
	}
	e.tree.Nodes = append(e.tree.Nodes[:idx:idx], e.tree.Nodes[idx+1:]...)

	if !node.Kind.IsExtension() {
		switch {
		case node.Kind == ir.KindDirectiveDefinition:
			for _, n := range e.tree.Nodes {
				dropDirectives(n, node.Name)
			}
		case node.Kind.IsTypeDefinition():
			for _, n := range e.tree.Nodes {
				dropTypeReferences(n, node.Name)
			}
		}
	}

	e.tree.Regenerate()
	return nil
}

func dropTypeReferences(n *ir.Field, typeName string) {
	n.Args = lo.Reject(n.Args, func(a *ir.Field, _ int) bool {
		return a.Type != nil && ir.TypeNameOf(a.Type) == typeName
	})
	for _, a := range n.Args {
		dropTypeReferences(a, typeName)
	}
}

func dropDirectives(n *ir.Field, name string) {
	n.Directives = lo.Reject(n.Directives, func(d *ir.Field, _ int) bool {
		return d.Name == name
	})
	for _, a := range n.Args {
		dropDirectives(a, name)
	}
}

// touch rehashes n and every ancestor up to its top-level node.
func (e *Editor) touch(n *ir.Field) {
	path := e.tree.PathTo(n)
	if path == nil {
		n.Touch()
		return
	}
	for i := len(path) - 1; i >= 0; i-- {
		path[i].Touch()
	}
}
