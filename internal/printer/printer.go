package printer

import (
	"strings"

	"github.com/hanpama/schemagraph/internal/ir"
)

const indent = "  "

type Options struct {
	// SkipLibrary leaves out top-level nodes marked FromLibrary.
	SkipLibrary bool
}

type Option func(*Options)

func WithoutLibrary() Option {
	return func(o *Options) { o.SkipLibrary = true }
}

// Print renders the tree as SDL. Blocks are separated by a blank line,
// consecutive comments are kept together and the output ends with a newline.
func Print(tree *ir.Tree, opts ...Option) string {
	var op Options
	for _, f := range opts {
		f(&op)
	}

	var nodes []*ir.Field
	for _, n := range tree.Nodes {
		if op.SkipLibrary && n.FromLibrary {
			continue
		}
		nodes = append(nodes, n)
	}

	var b strings.Builder
	for i, n := range nodes {
		renderNode(&b, n)
		if n.Kind == ir.KindComment && i+1 < len(nodes) && nodes[i+1].Kind == ir.KindComment {
			continue
		}
		b.WriteString("\n")
	}
	out := strings.TrimRight(b.String(), "\n")
	if out == "" {
		return ""
	}
	return out + "\n"
}

// PrintNode renders a single top-level node.
func PrintNode(n *ir.Field) string {
	var b strings.Builder
	renderNode(&b, n)
	return strings.TrimRight(b.String(), "\n")
}

func renderNode(b *strings.Builder, n *ir.Field) {
	switch n.Kind {
	case ir.KindComment:
		renderComment(b, n)
	case ir.KindObjectTypeDefinition, ir.KindObjectTypeExtension,
		ir.KindInterfaceTypeDefinition, ir.KindInterfaceTypeExtension,
		ir.KindInputObjectTypeDefinition, ir.KindInputObjectTypeExtension:
		renderComposite(b, n)
	case ir.KindEnumTypeDefinition, ir.KindEnumTypeExtension:
		renderEnum(b, n)
	case ir.KindUnionTypeDefinition, ir.KindUnionTypeExtension:
		renderUnion(b, n)
	case ir.KindScalarTypeDefinition, ir.KindScalarTypeExtension:
		renderHeader(b, n)
		b.WriteString("\n")
	case ir.KindDirectiveDefinition:
		renderDirectiveDefinition(b, n)
	case ir.KindSchemaDefinition, ir.KindSchemaExtension:
		renderSchema(b, n)
	default:
		panic("unreachable")
	}
}

func renderComment(b *strings.Builder, n *ir.Field) {
	b.WriteString("#")
	if n.Name != "" {
		b.WriteString(" ")
		b.WriteString(n.Name)
	}
	b.WriteString("\n")
}

// renderHeader writes the description, keyword, name and directives of a
// top-level node, without a trailing newline.
func renderHeader(b *strings.Builder, n *ir.Field) {
	renderDescription(b, n.Description, "")
	if n.Kind.IsExtension() {
		b.WriteString("extend ")
	}
	b.WriteString(n.Kind.Keyword())
	if n.Kind.Base() != ir.KindSchemaDefinition {
		b.WriteString(" ")
		b.WriteString(n.Name)
	}
	if len(n.Interfaces) > 0 {
		b.WriteString(" implements ")
		b.WriteString(strings.Join(n.Interfaces, " & "))
	}
	renderDirectives(b, n.Directives)
}

func renderComposite(b *strings.Builder, n *ir.Field) {
	renderHeader(b, n)
	if len(n.Args) == 0 {
		b.WriteString("\n")
		return
	}
	b.WriteString(" {\n")
	for _, f := range n.Args {
		renderField(b, f, indent)
	}
	b.WriteString("}\n")
}

func renderEnum(b *strings.Builder, n *ir.Field) {
	renderHeader(b, n)
	if len(n.Args) == 0 {
		b.WriteString("\n")
		return
	}
	b.WriteString(" {\n")
	for _, v := range n.Args {
		renderDescription(b, v.Description, indent)
		b.WriteString(indent)
		b.WriteString(v.Name)
		renderDirectives(b, v.Directives)
		b.WriteString("\n")
	}
	b.WriteString("}\n")
}

func renderUnion(b *strings.Builder, n *ir.Field) {
	renderHeader(b, n)
	for i, m := range n.Args {
		if i == 0 {
			b.WriteString(" = ")
		} else {
			b.WriteString(" | ")
		}
		b.WriteString(ir.TypeNameOf(m.Type))
	}
	b.WriteString("\n")
}

func renderSchema(b *strings.Builder, n *ir.Field) {
	renderHeader(b, n)
	if len(n.Args) == 0 {
		b.WriteString("\n")
		return
	}
	b.WriteString(" {\n")
	for _, op := range n.Args {
		b.WriteString(indent)
		b.WriteString(op.Name)
		b.WriteString(": ")
		b.WriteString(op.Type.String())
		b.WriteString("\n")
	}
	b.WriteString("}\n")
}

func renderDirectiveDefinition(b *strings.Builder, n *ir.Field) {
	renderDescription(b, n.Description, "")
	b.WriteString("directive @")
	b.WriteString(n.Name)
	renderArguments(b, n.Args, "")
	if n.Repeatable {
		b.WriteString(" repeatable")
	}
	b.WriteString(" on ")
	b.WriteString(strings.Join(n.Locations, " | "))
	b.WriteString("\n")
}

// renderField writes a field or input value line: name, arguments, type,
// default value and directives.
func renderField(b *strings.Builder, f *ir.Field, prefix string) {
	renderDescription(b, f.Description, prefix)
	b.WriteString(prefix)
	b.WriteString(f.Name)
	renderArguments(b, f.Args, prefix)
	b.WriteString(": ")
	b.WriteString(f.Type.String())
	if f.Value != nil {
		b.WriteString(" = ")
		renderValue(b, f.Value)
	}
	renderDirectives(b, f.Directives)
	b.WriteString("\n")
}

// renderArguments writes an argument list inline, or one argument per line
// when any of them carries a description.
func renderArguments(b *strings.Builder, args []*ir.Field, prefix string) {
	if len(args) == 0 {
		return
	}
	multiline := false
	for _, a := range args {
		if a.Description != "" {
			multiline = true
		}
	}
	if multiline {
		b.WriteString("(\n")
		for _, a := range args {
			renderField(b, a, prefix+indent)
		}
		b.WriteString(prefix)
		b.WriteString(")")
		return
	}
	b.WriteString("(")
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.Name)
		b.WriteString(": ")
		b.WriteString(a.Type.String())
		if a.Value != nil {
			b.WriteString(" = ")
			renderValue(b, a.Value)
		}
		renderDirectives(b, a.Directives)
	}
	b.WriteString(")")
}

func renderDirectives(b *strings.Builder, dirs []*ir.Field) {
	for _, d := range dirs {
		b.WriteString(" @")
		b.WriteString(d.Name)
		if len(d.Args) == 0 {
			continue
		}
		b.WriteString("(")
		for i, a := range d.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.Name)
			b.WriteString(": ")
			renderValue(b, a.Value)
		}
		b.WriteString(")")
	}
}

func renderDescription(b *strings.Builder, desc, prefix string) {
	if desc == "" {
		return
	}
	b.WriteString(prefix)
	b.WriteString(`"""` + "\n")
	for _, line := range strings.Split(strings.ReplaceAll(desc, `"""`, `\"""`), "\n") {
		if line != "" {
			b.WriteString(prefix)
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	b.WriteString(prefix)
	b.WriteString(`"""` + "\n")
}
