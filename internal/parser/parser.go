package parser

import (
	"sort"
	"unicode/utf8"

	"github.com/hanpama/schemagraph/internal/ir"
	language "github.com/hanpama/schemagraph/internal/language"
)

type Options struct {
	// Library is SDL prepended to the schema before parsing. Nodes declared
	// in it are marked FromLibrary.
	Library string

	// ExcludedRoots lists top-level names that are skipped entirely.
	ExcludedRoots []string

	// SourceName is reported in parse errors. Defaults to "schema.graphql".
	SourceName string
}

type Option func(*Options)

func WithLibrary(sdl string) Option {
	return func(o *Options) { o.Library = sdl }
}

func WithExcludedRoots(names ...string) Option {
	return func(o *Options) { o.ExcludedRoots = append(o.ExcludedRoots, names...) }
}

func WithSourceName(name string) Option {
	return func(o *Options) { o.SourceName = name }
}

type builder struct {
	opt        Options
	excluded   map[string]bool
	libEnd     int
	declared   map[string]bool
	violations []*Violation
}

type positioned struct {
	start int
	node  *ir.Field
}

// Parse turns schema text into a Tree. Grammar errors are returned as
// *language.Error; a schema block that binds an undeclared type fails with
// ErrOperationNotFound.
func Parse(schema string, opts ...Option) (*ir.Tree, error) {
	op := Options{SourceName: "schema.graphql"}
	for _, f := range opts {
		f(&op)
	}
	b := &builder{
		opt:      op,
		excluded: make(map[string]bool),
		libEnd:   -1,
		declared: make(map[string]bool),
	}
	for _, name := range op.ExcludedRoots {
		b.excluded[name] = true
	}
	return b.build(schema)
}

func (b *builder) build(schema string) (*ir.Tree, error) {
	input := schema
	if b.opt.Library != "" {
		input = b.opt.Library + "\n" + schema
		b.libEnd = utf8.RuneCountInString(b.opt.Library)
	}
	doc, err := language.ParseSchema(b.opt.SourceName, input)
	if err != nil {
		return nil, err
	}
	for _, def := range doc.Definitions {
		b.declared[def.Name] = true
	}

	var nodes []positioned
	for _, def := range doc.Definitions {
		nodes = b.appendDefinition(nodes, def, false)
	}
	for _, def := range doc.Extensions {
		nodes = b.appendDefinition(nodes, def, true)
	}
	for _, def := range doc.Directives {
		if b.excluded[def.Name] {
			continue
		}
		nodes = append(nodes, b.positioned(def.Position, buildDirectiveDefinition(def)))
	}
	for _, def := range doc.Schema {
		nodes = append(nodes, b.positioned(def.Position, b.buildSchema(def, ir.KindSchemaDefinition)))
	}
	for _, def := range doc.SchemaExtension {
		nodes = append(nodes, b.positioned(def.Position, b.buildSchema(def, ir.KindSchemaExtension)))
	}
	if len(b.violations) > 0 {
		return nil, ValidationError(b.violations)
	}

	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].start < nodes[j].start })

	tree := &ir.Tree{Nodes: extractComments(schema)}
	for _, p := range nodes {
		tree.Nodes = append(tree.Nodes, p.node)
	}

	tagInterfaces(tree.Nodes)
	if schemaNode := synthesizeSchema(tree); schemaNode != nil {
		tree.Nodes = append(tree.Nodes, schemaNode)
	}
	tree.Regenerate()
	return tree, nil
}

func (b *builder) positioned(pos *language.Position, node *ir.Field) positioned {
	start := 0
	if pos != nil {
		start = pos.Start
	}
	node.FromLibrary = b.libEnd >= 0 && start <= b.libEnd
	return positioned{start: start, node: node}
}

func (b *builder) appendDefinition(nodes []positioned, def *language.Definition, extension bool) []positioned {
	if b.excluded[def.Name] {
		return nodes
	}
	return append(nodes, b.positioned(def.Position, buildDefinition(def, extension)))
}

func buildDefinition(def *language.Definition, extension bool) *ir.Field {
	node := &ir.Field{
		Name:        def.Name,
		Kind:        definitionKind(def.Kind, extension),
		Description: def.Description,
		Directives:  resolveDirectives(def.Directives),
	}

	switch def.Kind {
	case language.Object, language.Interface:
		node.Interfaces = append([]string(nil), def.Interfaces...)
		for _, f := range def.Fields {
			node.Args = append(node.Args, resolveField(f, ir.KindFieldDefinition))
		}
	case language.InputObject:
		for _, f := range def.Fields {
			node.Args = append(node.Args, resolveField(f, ir.KindInputValueDefinition))
		}
	case language.Union:
		for _, member := range def.Types {
			node.Args = append(node.Args, &ir.Field{
				Name: member,
				Kind: ir.KindUnionMemberDefinition,
				Type: ir.NamedType(member),
			})
		}
	case language.Enum:
		for _, v := range def.EnumValues {
			node.Args = append(node.Args, &ir.Field{
				Name:        v.Name,
				Kind:        ir.KindEnumValueDefinition,
				Description: v.Description,
				Directives:  resolveDirectives(v.Directives),
			})
		}
	case language.Scalar:
		// directives only
	default:
		panic("unreachable")
	}
	return node
}

func definitionKind(kind language.DefinitionKind, extension bool) ir.Kind {
	var k ir.Kind
	switch kind {
	case language.Object:
		k = ir.KindObjectTypeDefinition
	case language.Interface:
		k = ir.KindInterfaceTypeDefinition
	case language.InputObject:
		k = ir.KindInputObjectTypeDefinition
	case language.Union:
		k = ir.KindUnionTypeDefinition
	case language.Enum:
		k = ir.KindEnumTypeDefinition
	case language.Scalar:
		k = ir.KindScalarTypeDefinition
	default:
		panic("unreachable")
	}
	if extension {
		// every extension kind directly follows its definition kind
		k++
	}
	return k
}

func buildDirectiveDefinition(def *language.DirectiveDefinition) *ir.Field {
	node := &ir.Field{
		Name:        def.Name,
		Kind:        ir.KindDirectiveDefinition,
		Description: def.Description,
		Args:        resolveArguments(def.Arguments),
		Repeatable:  def.IsRepeatable,
	}
	for _, loc := range def.Locations {
		node.Locations = append(node.Locations, string(loc))
	}
	return node
}

func (b *builder) buildSchema(def *language.SchemaDefinition, kind ir.Kind) *ir.Field {
	node := &ir.Field{
		Name:        "schema",
		Kind:        kind,
		Description: def.Description,
		Directives:  resolveDirectives(def.Directives),
	}
	for _, op := range def.OperationTypes {
		if !b.declared[op.Type] {
			b.violations = append(b.violations, violationOperationNotFound(op.Operation, op.Type, op.Position))
			continue
		}
		node.Args = append(node.Args, &ir.Field{
			Name: string(op.Operation),
			Kind: ir.KindOperationTypeDefinition,
			Type: ir.NamedType(op.Type),
		})
	}
	return node
}

var rootOperations = []struct {
	operation language.Operation
	typeName  string
}{
	{language.Query, "Query"},
	{language.Mutation, "Mutation"},
	{language.Subscription, "Subscription"},
}

// synthesizeSchema builds the implicit schema node when the document has none
// but declares conventionally named root types.
func synthesizeSchema(tree *ir.Tree) *ir.Field {
	for _, n := range tree.Nodes {
		if n.Kind == ir.KindSchemaDefinition {
			return nil
		}
	}
	node := &ir.Field{Name: "schema", Kind: ir.KindSchemaDefinition}
	for _, root := range rootOperations {
		if tree.Lookup(root.typeName, ir.KindObjectTypeDefinition) == nil {
			continue
		}
		node.Args = append(node.Args, &ir.Field{
			Name: string(root.operation),
			Kind: ir.KindOperationTypeDefinition,
			Type: ir.NamedType(root.typeName),
		})
	}
	if len(node.Args) == 0 {
		return nil
	}
	return node
}

// tagInterfaces records, on every object or interface field, the declared
// interfaces that also define a field of that name. Missing fields are not
// added.
func tagInterfaces(nodes []*ir.Field) {
	ifaceFields := make(map[string]map[string]bool)
	for _, n := range nodes {
		if !n.Kind.IsInterface() {
			continue
		}
		names := ifaceFields[n.Name]
		if names == nil {
			names = make(map[string]bool)
			ifaceFields[n.Name] = names
		}
		for _, f := range n.Args {
			names[f.Name] = true
		}
	}
	for _, n := range nodes {
		if !n.Kind.IsComposite() {
			continue
		}
		for _, iface := range n.Interfaces {
			names, ok := ifaceFields[iface]
			if !ok {
				continue
			}
			for _, f := range n.Args {
				if names[f.Name] {
					f.Tag(iface)
				}
			}
		}
	}
}
