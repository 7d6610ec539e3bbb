package protoreg

import (
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"
)

func nameProtoMessage(graphQLName string) protoreflect.Name {
	return protoreflect.Name(graphQLName)
}

func nameProtoField(graphQLName string) protoreflect.Name {
	return protoreflect.Name(snakeCase(graphQLName))
}

func nameProtoEnumValue(graphQLEnumName string, graphQLEnumValueName string) protoreflect.Name {
	prefix := strings.ToUpper(snakeCase(graphQLEnumName))
	return protoreflect.Name(prefix + "_" + strings.ToUpper(graphQLEnumValueName))
}

func nameService(rootType string) protoreflect.Name {
	return protoreflect.Name(capitalize(rootType) + "Service")
}

func nameResolverMethod(rootType string, fieldName string) protoreflect.Name {
	return protoreflect.Name("Resolve" + capitalize(rootType) + capitalize(fieldName))
}
func nameResolverRequest(rootType string, fieldName string) protoreflect.Name {
	return protoreflect.Name(string(nameResolverMethod(rootType, fieldName)) + "Request")
}
func nameResolverResponse(rootType string, fieldName string) protoreflect.Name {
	return protoreflect.Name(string(nameResolverMethod(rootType, fieldName)) + "Response")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// snakeCase converts a string from CamelCase or PascalCase to snake_case.
func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}
