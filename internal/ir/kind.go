package ir

import "fmt"

// Kind tags every node of the IR. The set is closed: each consumer (parser,
// mutate, merge, printer) switches over it and panics on an unknown value.
type Kind int

const (
	KindObjectTypeDefinition Kind = iota + 1
	KindObjectTypeExtension
	KindInterfaceTypeDefinition
	KindInterfaceTypeExtension
	KindInputObjectTypeDefinition
	KindInputObjectTypeExtension
	KindUnionTypeDefinition
	KindUnionTypeExtension
	KindEnumTypeDefinition
	KindEnumTypeExtension
	KindScalarTypeDefinition
	KindScalarTypeExtension

	KindSchemaDefinition
	KindSchemaExtension
	KindOperationTypeDefinition

	KindFieldDefinition
	KindInputValueDefinition
	KindEnumValueDefinition
	KindUnionMemberDefinition

	KindDirectiveDefinition
	KindDirective
	KindArgument

	KindIntValue
	KindFloatValue
	KindStringValue
	KindBooleanValue
	KindNullValue
	KindEnumValue
	KindListValue
	KindObjectValue

	KindComment
)

var kindNames = map[Kind]string{
	KindObjectTypeDefinition:      "ObjectTypeDefinition",
	KindObjectTypeExtension:       "ObjectTypeExtension",
	KindInterfaceTypeDefinition:   "InterfaceTypeDefinition",
	KindInterfaceTypeExtension:    "InterfaceTypeExtension",
	KindInputObjectTypeDefinition: "InputObjectTypeDefinition",
	KindInputObjectTypeExtension:  "InputObjectTypeExtension",
	KindUnionTypeDefinition:       "UnionTypeDefinition",
	KindUnionTypeExtension:        "UnionTypeExtension",
	KindEnumTypeDefinition:        "EnumTypeDefinition",
	KindEnumTypeExtension:         "EnumTypeExtension",
	KindScalarTypeDefinition:      "ScalarTypeDefinition",
	KindScalarTypeExtension:       "ScalarTypeExtension",
	KindSchemaDefinition:          "SchemaDefinition",
	KindSchemaExtension:           "SchemaExtension",
	KindOperationTypeDefinition:   "OperationTypeDefinition",
	KindFieldDefinition:           "FieldDefinition",
	KindInputValueDefinition:      "InputValueDefinition",
	KindEnumValueDefinition:       "EnumValueDefinition",
	KindUnionMemberDefinition:     "UnionMemberDefinition",
	KindDirectiveDefinition:       "DirectiveDefinition",
	KindDirective:                 "Directive",
	KindArgument:                  "Argument",
	KindIntValue:                  "IntValue",
	KindFloatValue:                "FloatValue",
	KindStringValue:               "StringValue",
	KindBooleanValue:              "BooleanValue",
	KindNullValue:                 "NullValue",
	KindEnumValue:                 "EnumValue",
	KindListValue:                 "ListValue",
	KindObjectValue:               "ObjectValue",
	KindComment:                   "Comment",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("unknown kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name produced by MarshalText.
func (k *Kind) UnmarshalText(b []byte) error {
	for kind, name := range kindNames {
		if name == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown kind %q", string(b))
}

var extensionBase = map[Kind]Kind{
	KindObjectTypeExtension:      KindObjectTypeDefinition,
	KindInterfaceTypeExtension:   KindInterfaceTypeDefinition,
	KindInputObjectTypeExtension: KindInputObjectTypeDefinition,
	KindUnionTypeExtension:       KindUnionTypeDefinition,
	KindEnumTypeExtension:        KindEnumTypeDefinition,
	KindScalarTypeExtension:      KindScalarTypeDefinition,
	KindSchemaExtension:          KindSchemaDefinition,
}

// IsExtension reports whether k is an `extend ...` kind.
func (k Kind) IsExtension() bool {
	_, ok := extensionBase[k]
	return ok
}

// Base maps an extension kind to the definition kind it extends. Any other
// kind maps to itself.
func (k Kind) Base() Kind {
	if base, ok := extensionBase[k]; ok {
		return base
	}
	return k
}

// IsTypeDefinition reports whether k declares (or extends) a named type.
func (k Kind) IsTypeDefinition() bool {
	switch k.Base() {
	case KindObjectTypeDefinition,
		KindInterfaceTypeDefinition,
		KindInputObjectTypeDefinition,
		KindUnionTypeDefinition,
		KindEnumTypeDefinition,
		KindScalarTypeDefinition:
		return true
	}
	return false
}

// IsComposite reports whether k is an object or interface type (or extension)
// whose args are field definitions that may come from interfaces.
func (k Kind) IsComposite() bool {
	switch k.Base() {
	case KindObjectTypeDefinition, KindInterfaceTypeDefinition:
		return true
	}
	return false
}

// IsInterface reports whether k is an interface definition or extension.
func (k Kind) IsInterface() bool {
	return k.Base() == KindInterfaceTypeDefinition
}

// IsValue reports whether k is a literal value kind.
func (k Kind) IsValue() bool {
	return k >= KindIntValue && k <= KindObjectValue
}

// Keyword returns the SDL keyword that introduces a top-level node of kind k.
func (k Kind) Keyword() string {
	switch k.Base() {
	case KindObjectTypeDefinition:
		return "type"
	case KindInterfaceTypeDefinition:
		return "interface"
	case KindInputObjectTypeDefinition:
		return "input"
	case KindUnionTypeDefinition:
		return "union"
	case KindEnumTypeDefinition:
		return "enum"
	case KindScalarTypeDefinition:
		return "scalar"
	case KindSchemaDefinition:
		return "schema"
	case KindDirectiveDefinition:
		return "directive"
	}
	return ""
}
