package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hanpama/schemagraph/internal/ir"
	"github.com/hanpama/schemagraph/internal/mutate"
	"github.com/hanpama/schemagraph/internal/parser"
	"github.com/hanpama/schemagraph/internal/printer"
	"github.com/rs/zerolog"
)

var ErrUnknownOp = errors.New("unknown edit operation")

const (
	OpRename      = "rename"
	OpRemove      = "remove"
	OpImplement   = "implement"
	OpDeImplement = "deimplement"
	OpAddField    = "addField"
	OpDeleteField = "deleteField"
)

// EditOp is one declarative edit.
//
// Target addresses a node: "Type", "Type.field", "Type.field.arg",
// "@directive" or "schema". Name is the new name for rename and the interface
// for implement and deimplement. Field holds the SDL of the field added by
// addField, e.g. "age: Int = 3".
type EditOp struct {
	Op     string `json:"op"`
	Target string `json:"target"`
	Name   string `json:"name,omitempty"`
	Field  string `json:"field,omitempty"`
}

// Edit parses src, applies ops in order and prints the result. The first
// failing op aborts the whole edit.
func (w *Workspace) Edit(ctx context.Context, src string, ops []EditOp) (string, error) {
	var out string
	err := run(ctx, "edit", func() (int, error) {
		tree, err := w.parse(src)
		if err != nil {
			return 0, err
		}
		ed := mutate.New(tree, mutate.WithLogger(*zerolog.Ctx(ctx)))
		for i, op := range ops {
			if err := apply(ed, op); err != nil {
				return 0, fmt.Errorf("edit %d (%s %s): %w", i, op.Op, op.Target, err)
			}
		}
		out = printer.Print(tree, printer.WithoutLibrary())
		return len(tree.Nodes), nil
	})
	return out, err
}

func apply(ed *mutate.Editor, op EditOp) error {
	tree := ed.Tree()
	switch op.Op {
	case OpRename:
		if op.Name == "" {
			return errors.New("name is required")
		}
		node, err := resolve(tree, op.Target)
		if err != nil {
			return err
		}
		ed.RenameNode(node, op.Name)
	case OpRemove:
		node, err := resolve(tree, op.Target)
		if err != nil {
			return err
		}
		return ed.RemoveNode(node)
	case OpImplement:
		node, err := resolve(tree, op.Target)
		if err != nil {
			return err
		}
		iface := tree.LookupType(op.Name)
		if iface == nil || !iface.Kind.IsInterface() {
			return fmt.Errorf("interface %q: %w", op.Name, mutate.ErrNodeNotFound)
		}
		ed.ImplementInterface(node, iface)
	case OpDeImplement:
		node, err := resolve(tree, op.Target)
		if err != nil {
			return err
		}
		ed.DeImplementInterface(node, op.Name)
	case OpAddField:
		node, err := resolve(tree, op.Target)
		if err != nil {
			return err
		}
		field, err := parseField(node.Kind, op.Field)
		if err != nil {
			return err
		}
		ed.AddField(node, field)
	case OpDeleteField:
		parentPath, name, ok := cutLast(op.Target)
		if !ok {
			return fmt.Errorf("target %q is not a field", op.Target)
		}
		parent, err := resolve(tree, parentPath)
		if err != nil {
			return err
		}
		i := ir.ArgIndex(parent, name)
		if i < 0 {
			return fmt.Errorf("%s: %w", op.Target, mutate.ErrNodeNotFound)
		}
		ed.DeleteField(parent, i)
	default:
		return fmt.Errorf("%q: %w", op.Op, ErrUnknownOp)
	}
	return nil
}

// resolve finds the node a target path addresses.
func resolve(tree *ir.Tree, target string) (*ir.Field, error) {
	var node *ir.Field
	switch {
	case strings.HasPrefix(target, "@"):
		node = tree.Lookup(target[1:], ir.KindDirectiveDefinition)
	case target == "schema":
		node = tree.Lookup("schema", ir.KindSchemaDefinition)
	default:
		parts := strings.Split(target, ".")
		node = tree.LookupType(parts[0])
		for _, p := range parts[1:] {
			node = ir.FindArg(node, p)
		}
	}
	if node == nil {
		return nil, fmt.Errorf("%s: %w", target, mutate.ErrNodeNotFound)
	}
	return node, nil
}

func cutLast(target string) (string, string, bool) {
	i := strings.LastIndex(target, ".")
	if i < 0 {
		return "", "", false
	}
	return target[:i], target[i+1:], true
}

// parseField parses a single field of the shape a node of kind holds.
func parseField(kind ir.Kind, sdl string) (*ir.Field, error) {
	keyword := "type"
	switch kind.Base() {
	case ir.KindInputObjectTypeDefinition:
		keyword = "input"
	case ir.KindEnumTypeDefinition:
		keyword = "enum"
	case ir.KindObjectTypeDefinition, ir.KindInterfaceTypeDefinition:
	default:
		return nil, fmt.Errorf("%s nodes take no fields", kind)
	}
	tree, err := parser.Parse(keyword + " EditField {\n" + sdl + "\n}")
	if err != nil {
		return nil, fmt.Errorf("parse field: %w", err)
	}
	if len(tree.Nodes) != 1 || len(tree.Nodes[0].Args) != 1 {
		return nil, fmt.Errorf("parse field: expected exactly one field in %q", sdl)
	}
	return tree.Nodes[0].Args[0], nil
}
