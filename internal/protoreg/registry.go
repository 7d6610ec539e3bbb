package protoreg

import (
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Registry resolves GraphQL names to the descriptors built for them.
type Registry struct {
	file     protoreflect.FileDescriptor
	messages map[string]protoreflect.MessageDescriptor
	enums    map[string]protoreflect.EnumDescriptor
	fields   map[[2]string]protoreflect.FieldDescriptor
	methods  map[[2]string]protoreflect.MethodDescriptor
}

func (r *Registry) File() protoreflect.FileDescriptor {
	return r.file
}

// GetMessageDescriptor returns the message of an object, interface, union or
// input type.
func (r *Registry) GetMessageDescriptor(typeName string) protoreflect.MessageDescriptor {
	return r.messages[typeName]
}

func (r *Registry) GetEnumDescriptor(typeName string) protoreflect.EnumDescriptor {
	return r.enums[typeName]
}

// GetFieldDescriptor returns the message field of an object field or input
// value.
func (r *Registry) GetFieldDescriptor(typeName string, field string) protoreflect.FieldDescriptor {
	return r.fields[[2]string{typeName, field}]
}

// GetMethodDescriptor returns the method generated for a root operation field.
func (r *Registry) GetMethodDescriptor(rootType string, field string) protoreflect.MethodDescriptor {
	return r.methods[[2]string{rootType, field}]
}
