package protoreg

import (
	"fmt"
	"strings"

	"github.com/hanpama/schemagraph/internal/ir"
	"github.com/hanpama/schemagraph/internal/parser"
	"github.com/jhump/protoreflect/v2/protobuilder"
	"github.com/samber/lo"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Build converts a tree into a single proto3 file descriptor under pkg.
// Extensions are folded into their base definitions first; the input tree is
// not modified. Every type becomes a message or enum, and each root operation
// type becomes a service with one method per field.
func Build(tree *ir.Tree, pkg string) (*Registry, error) {
	folded := tree.Clone()
	if err := parser.Fold(folded); err != nil {
		return nil, err
	}

	fp := "schema.proto"
	if pkg != "" {
		fp = strings.ReplaceAll(pkg, ".", "/") + "/" + fp
	}
	fb := protobuilder.NewFile(fp)
	fb.SetPackageName(protoreflect.FullName(pkg))
	fb.SetSyntax(protoreflect.Proto3)

	b := &builder{
		tree:             folded,
		file:             fb,
		roots:            rootOperations(folded),
		messageBuilders:  make(map[string]*protobuilder.MessageBuilder),
		enumBuilders:     make(map[string]*protobuilder.EnumBuilder),
		scalarMapping:    lo.Assign(builtinScalars),
		protoGQLTypeMap:  make(map[protoreflect.Name]string),
		protoGQLFieldMap: make(map[[2]protoreflect.Name][2]string),
		methods:          make(map[[2]protoreflect.Name][2]string),
	}

	// Pass 1: custom scalar mappings
	for _, n := range folded.Nodes {
		if n.Kind == ir.KindScalarTypeDefinition {
			b.addScalar(n)
		}
	}

	// Pass 2: message and enum builders
	for _, n := range folded.Nodes {
		if _, ok := b.roots[n.Name]; ok && n.Kind == ir.KindObjectTypeDefinition {
			continue
		}
		switch n.Kind {
		case ir.KindObjectTypeDefinition, ir.KindInterfaceTypeDefinition,
			ir.KindUnionTypeDefinition, ir.KindInputObjectTypeDefinition:
			b.addMessage(n)
		case ir.KindEnumTypeDefinition:
			b.addEnum(n)
		}
	}

	// Pass 3: message fields
	for _, n := range folded.Nodes {
		if b.messageBuilders[n.Name] == nil {
			continue
		}
		switch n.Kind {
		case ir.KindObjectTypeDefinition, ir.KindInputObjectTypeDefinition:
			b.addMessageFields(n)
		case ir.KindInterfaceTypeDefinition:
			b.addOneof(n, objectNames(folded.Implementers(n.Name)))
		case ir.KindUnionTypeDefinition:
			members := make([]string, 0, len(n.Args))
			for _, m := range n.Args {
				members = append(members, ir.TypeNameOf(m.Type))
			}
			b.addOneof(n, members)
		}
	}

	// Pass 4: services for the root operation types
	for _, n := range folded.Nodes {
		if op, ok := b.roots[n.Name]; ok && n.Kind == ir.KindObjectTypeDefinition {
			b.addService(op, n)
		}
	}

	if b.err != nil {
		return nil, b.err
	}
	fd, err := fb.Build()
	if err != nil {
		return nil, err
	}
	return b.registry(fd), nil
}

type builder struct {
	tree *ir.Tree
	file *protobuilder.FileBuilder

	// roots maps a root operation type name to its operation
	roots map[string]string

	messageBuilders  map[string]*protobuilder.MessageBuilder
	enumBuilders     map[string]*protobuilder.EnumBuilder
	scalarMapping    map[string]string
	protoGQLTypeMap  map[protoreflect.Name]string
	protoGQLFieldMap map[[2]protoreflect.Name][2]string

	// [serviceName, methodName] -> [rootType, field]
	methods map[[2]protoreflect.Name][2]string

	err error
}

func (b *builder) fail(format string, args ...any) {
	if b.err == nil {
		b.err = fmt.Errorf(format, args...)
	}
}

func (b *builder) registry(fd protoreflect.FileDescriptor) *Registry {
	reg := &Registry{
		file:     fd,
		messages: map[string]protoreflect.MessageDescriptor{},
		enums:    map[string]protoreflect.EnumDescriptor{},
		fields:   map[[2]string]protoreflect.FieldDescriptor{},
		methods:  map[[2]string]protoreflect.MethodDescriptor{},
	}

	messages := fd.Messages()
	for i := 0; i < messages.Len(); i++ {
		msg := messages.Get(i)
		gqlType := b.protoGQLTypeMap[msg.Name()]
		if gqlType == "" {
			continue
		}
		reg.messages[gqlType] = msg
		fields := msg.Fields()
		for j := 0; j < fields.Len(); j++ {
			field := fields.Get(j)
			if names, ok := b.protoGQLFieldMap[[2]protoreflect.Name{msg.Name(), field.Name()}]; ok {
				reg.fields[names] = field
			}
		}
	}

	enums := fd.Enums()
	for i := 0; i < enums.Len(); i++ {
		if gqlType := b.protoGQLTypeMap[enums.Get(i).Name()]; gqlType != "" {
			reg.enums[gqlType] = enums.Get(i)
		}
	}

	services := fd.Services()
	for i := 0; i < services.Len(); i++ {
		svc := services.Get(i)
		methods := svc.Methods()
		for j := 0; j < methods.Len(); j++ {
			method := methods.Get(j)
			if names, ok := b.methods[[2]protoreflect.Name{svc.Name(), method.Name()}]; ok {
				reg.methods[names] = method
			}
		}
	}
	return reg
}

// rootOperations reads the operation bindings of the schema definition.
func rootOperations(tree *ir.Tree) map[string]string {
	roots := make(map[string]string)
	for _, n := range tree.Nodes {
		if n.Kind != ir.KindSchemaDefinition {
			continue
		}
		for _, op := range n.Args {
			roots[ir.TypeNameOf(op.Type)] = op.Name
		}
	}
	return roots
}

// objectNames keeps the concrete members of an implementer list.
func objectNames(nodes []*ir.Field) []string {
	return lo.FilterMap(nodes, func(n *ir.Field, _ int) (string, bool) {
		return n.Name, n.Kind == ir.KindObjectTypeDefinition
	})
}
