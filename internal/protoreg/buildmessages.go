package protoreg

import (
	"strings"

	"github.com/hanpama/schemagraph/internal/ir"
	"github.com/jhump/protoreflect/v2/protobuilder"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// mapScalarDirective names the directive that chooses the proto type of a
// custom scalar: scalar Timestamp @mapScalar(toProtobuf: "int64")
const mapScalarDirective = "mapScalar"

var builtinScalars = map[string]string{
	"String":  protoreflect.StringKind.String(),
	"ID":      protoreflect.StringKind.String(),
	"Int":     protoreflect.Int32Kind.String(),
	"Float":   protoreflect.DoubleKind.String(),
	"Boolean": protoreflect.BoolKind.String(),
}

func (b *builder) addScalar(n *ir.Field) {
	mapped := protoreflect.StringKind.String()
	for _, d := range n.Directives {
		if d.Name != mapScalarDirective {
			continue
		}
		arg := ir.FindArg(d, "toProtobuf")
		if arg == nil || arg.Value == nil || arg.Value.Kind != ir.KindStringValue {
			b.fail("scalar %s: @%s requires a toProtobuf string", n.Name, mapScalarDirective)
			return
		}
		mapped = arg.Value.Name
	}
	if kind, ok := scalars[mapped]; !ok || kind == protoreflect.MessageKind || kind == protoreflect.GroupKind || kind == protoreflect.EnumKind {
		b.fail("scalar %s: unsupported proto type %q", n.Name, mapped)
		return
	}
	b.scalarMapping[n.Name] = mapped
	b.protoGQLTypeMap[protoreflect.Name(n.Name)] = n.Name
}

func (b *builder) addMessage(n *ir.Field) {
	messageName := nameProtoMessage(n.Name)
	mb := protobuilder.NewMessage(messageName)
	mb.SetComments(comment(n))
	if err := b.file.TryAddMessage(mb); err != nil {
		b.fail("%s: %w", n.Name, err)
		return
	}
	b.messageBuilders[n.Name] = mb
	b.protoGQLTypeMap[messageName] = n.Name
}

func (b *builder) addEnum(n *ir.Field) {
	enumName := nameProtoMessage(n.Name)
	eb := protobuilder.NewEnum(enumName)
	eb.SetComments(comment(n))

	// Add default ZERO value: <ENUM>_UNSPECIFIED = 0
	zero := protobuilder.NewEnumValue(nameProtoEnumValue(n.Name, "UNSPECIFIED"))
	zero.SetNumber(0)
	eb.AddValue(zero)

	evbs := make([]*protobuilder.EnumValueBuilder, 0, len(n.Args))
	for _, v := range n.Args {
		if strings.ToUpper(v.Name) == "UNSPECIFIED" {
			continue
		}
		evb := protobuilder.NewEnumValue(nameProtoEnumValue(n.Name, v.Name))
		evb.SetComments(comment(v))
		if err := eb.TryAddValue(evb); err != nil {
			b.fail("%s.%s: %w", n.Name, v.Name, err)
			continue
		}
		evbs = append(evbs, evb)
	}
	if err := allocateEnumValueNumbers(evbs); err != nil {
		b.fail("%s: %w", n.Name, err)
	}

	if err := b.file.TryAddEnum(eb); err != nil {
		b.fail("%s: %w", n.Name, err)
		return
	}
	b.enumBuilders[n.Name] = eb
	b.protoGQLTypeMap[enumName] = n.Name
}

// addMessageFields adds one field per object field or input value. Field
// arguments have no place in a message and are left out.
func (b *builder) addMessageFields(n *ir.Field) {
	mb := b.messageBuilders[n.Name]

	fieldBuilders := make([]*protobuilder.FieldBuilder, 0, len(n.Args))
	for _, field := range n.Args {
		fb, ok := b.newField(nameProtoField(field.Name), field.Type)
		if !ok {
			b.fail("%s.%s: cannot map type %s", n.Name, field.Name, field.Type)
			continue
		}
		fb.SetComments(comment(field))
		if err := mb.TryAddField(fb); err != nil {
			b.fail("%s.%s: %w", n.Name, field.Name, err)
			continue
		}
		fieldBuilders = append(fieldBuilders, fb)
		b.protoGQLFieldMap[[2]protoreflect.Name{mb.Name(), fb.Name()}] = [2]string{n.Name, field.Name}
	}
	if err := allocateFieldNumbers(fieldBuilders); err != nil {
		b.fail("%s: %w", n.Name, err)
	}
}

// addOneof gives interfaces and unions a single oneof over their concrete
// types.
func (b *builder) addOneof(n *ir.Field, types []string) {
	mb := b.messageBuilders[n.Name]

	fieldBuilders := make([]*protobuilder.FieldBuilder, 0, len(types))
	for _, typ := range types {
		target := b.messageBuilders[typ]
		if target == nil {
			b.fail("%s: cannot map member %s", n.Name, typ)
			continue
		}
		fieldBuilders = append(fieldBuilders, protobuilder.NewField(protoreflect.Name(typ), protobuilder.FieldTypeMessage(target)))
	}
	if len(fieldBuilders) == 0 {
		return
	}

	oneOfBuilder := protobuilder.NewOneof(protoreflect.Name("value"))
	for _, fb := range fieldBuilders {
		if err := oneOfBuilder.TryAddChoice(fb); err != nil {
			b.fail("%s: %w", n.Name, err)
			return
		}
	}
	if err := mb.TryAddOneOf(oneOfBuilder); err != nil {
		b.fail("%s: %w", n.Name, err)
		return
	}
	if err := allocateFieldNumbers(fieldBuilders); err != nil {
		b.fail("%s: %w", n.Name, err)
	}
}

func (b *builder) newField(name protoreflect.Name, t *ir.FieldType) (*protobuilder.FieldBuilder, bool) {
	rt, ok := b.resolveFieldType(t)
	if !ok {
		return nil, false
	}
	fb := protobuilder.NewField(name, rt.fieldType)
	if rt.isOptional && !rt.isMessage {
		// nullable scalars and enums keep explicit presence
		fb.SetProto3Optional(true)
	}
	if rt.isOptional {
		fb.SetOptional()
	}
	if rt.isRepeated {
		fb.SetRepeated()
	}
	return fb, true
}
