package protoreg

import (
	"github.com/hanpama/schemagraph/internal/ir"
	"github.com/jhump/protoreflect/v2/protobuilder"
	"google.golang.org/protobuf/reflect/protoreflect"
)

type resolvedType struct {
	isRepeated bool
	isOptional bool
	isMessage  bool
	fieldType  *protobuilder.FieldType
}

// resolveFieldType maps a GraphQL type reference to a proto field type. Nested
// lists flatten into a single repeated field.
func (b *builder) resolveFieldType(t *ir.FieldType) (resolvedType, bool) {
	switch t.Kind {
	case ir.FieldTypeKindNamed:
		ft, ok := b.mapNamedType(t.Named)
		_, isMessage := b.messageBuilders[t.Named]
		return resolvedType{
			isRepeated: false,
			isOptional: true,
			isMessage:  isMessage,
			fieldType:  ft,
		}, ok
	case ir.FieldTypeKindList:
		elemType, ok := b.resolveFieldType(t.OfType)
		return resolvedType{
			isRepeated: true,
			isOptional: false,
			isMessage:  elemType.isMessage,
			fieldType:  elemType.fieldType,
		}, ok
	case ir.FieldTypeKindNonNull:
		innerType, ok := b.resolveFieldType(t.OfType)
		return resolvedType{
			isRepeated: innerType.isRepeated,
			isOptional: false,
			isMessage:  innerType.isMessage,
			fieldType:  innerType.fieldType,
		}, ok
	}
	panic("unreachable")
}

func (b *builder) mapNamedType(typeName string) (*protobuilder.FieldType, bool) {
	if protoType, ok := b.scalarMapping[typeName]; ok {
		return protobuilder.FieldTypeScalar(scalars[protoType]), true
	}
	if mb, ok := b.messageBuilders[typeName]; ok {
		return protobuilder.FieldTypeMessage(mb), true
	}
	if eb, ok := b.enumBuilders[typeName]; ok {
		return protobuilder.FieldTypeEnum(eb), true
	}
	return nil, false
}

var scalars = map[string]protoreflect.Kind{
	protoreflect.BoolKind.String():     protoreflect.BoolKind,
	protoreflect.EnumKind.String():     protoreflect.EnumKind,
	protoreflect.Int32Kind.String():    protoreflect.Int32Kind,
	protoreflect.Sint32Kind.String():   protoreflect.Sint32Kind,
	protoreflect.Uint32Kind.String():   protoreflect.Uint32Kind,
	protoreflect.Int64Kind.String():    protoreflect.Int64Kind,
	protoreflect.Sint64Kind.String():   protoreflect.Sint64Kind,
	protoreflect.Uint64Kind.String():   protoreflect.Uint64Kind,
	protoreflect.Sfixed32Kind.String(): protoreflect.Sfixed32Kind,
	protoreflect.Fixed32Kind.String():  protoreflect.Fixed32Kind,
	protoreflect.FloatKind.String():    protoreflect.FloatKind,
	protoreflect.Sfixed64Kind.String(): protoreflect.Sfixed64Kind,
	protoreflect.Fixed64Kind.String():  protoreflect.Fixed64Kind,
	protoreflect.DoubleKind.String():   protoreflect.DoubleKind,
	protoreflect.StringKind.String():   protoreflect.StringKind,
	protoreflect.BytesKind.String():    protoreflect.BytesKind,
	protoreflect.MessageKind.String():  protoreflect.MessageKind,
	protoreflect.GroupKind.String():    protoreflect.GroupKind,
}
