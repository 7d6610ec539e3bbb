package ir

import (
	"fmt"
	"strings"
)

// FieldType represents a GraphQL type expression (e.g. String, [String!], String!).
type FieldType struct {
	Kind   FieldTypeKind `json:"kind"`
	OfType *FieldType    `json:"ofType,omitempty"`
	Named  string        `json:"named,omitempty"`
}

type FieldTypeKind string

const (
	FieldTypeKindNamed   FieldTypeKind = "NAMED"
	FieldTypeKindList    FieldTypeKind = "LIST"
	FieldTypeKindNonNull FieldTypeKind = "NON_NULL"
)

func NamedType(name string) *FieldType {
	return &FieldType{Kind: FieldTypeKindNamed, Named: name}
}

func ListType(of *FieldType) *FieldType {
	return &FieldType{Kind: FieldTypeKindList, OfType: of}
}

func NonNullType(of *FieldType) *FieldType {
	return &FieldType{Kind: FieldTypeKindNonNull, OfType: of}
}

// IsNonNull reports whether the outermost wrapper is Non-Null.
func (t *FieldType) IsNonNull() bool {
	return t != nil && t.Kind == FieldTypeKindNonNull
}

// IsList reports whether t is a list, possibly wrapped in Non-Null.
func (t *FieldType) IsList() bool {
	if t == nil {
		return false
	}
	if t.Kind == FieldTypeKindNonNull {
		return t.OfType.IsList()
	}
	return t.Kind == FieldTypeKindList
}

// TypeNameOf returns the innermost named type of t, or "" for a nil type.
func TypeNameOf(t *FieldType) string {
	for t != nil {
		if t.Kind == FieldTypeKindNamed {
			return t.Named
		}
		t = t.OfType
	}
	return ""
}

// String compiles t into its canonical SDL form. ParseFieldType is its exact
// inverse.
func (t *FieldType) String() string {
	if t == nil {
		return ""
	}
	switch t.Kind {
	case FieldTypeKindNamed:
		return t.Named
	case FieldTypeKindList:
		return "[" + t.OfType.String() + "]"
	case FieldTypeKindNonNull:
		return t.OfType.String() + "!"
	}
	panic("unreachable")
}

// Clone returns a deep copy of t.
func (t *FieldType) Clone() *FieldType {
	if t == nil {
		return nil
	}
	return &FieldType{Kind: t.Kind, Named: t.Named, OfType: t.OfType.Clone()}
}

// Equal reports whether t and o describe the same wrapping of the same name.
func (t *FieldType) Equal(o *FieldType) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind || t.Named != o.Named {
		return false
	}
	return t.OfType.Equal(o.OfType)
}

// Rename rewrites every named leaf equal to from into to and reports whether
// anything changed.
func (t *FieldType) Rename(from, to string) bool {
	if t == nil {
		return false
	}
	if t.Kind == FieldTypeKindNamed {
		if t.Named == from {
			t.Named = to
			return true
		}
		return false
	}
	return t.OfType.Rename(from, to)
}

// ParseFieldType decompiles a bracket/bang string such as "[[String]!]!" into
// a FieldType.
func ParseFieldType(s string) (*FieldType, error) {
	t, rest, err := parseFieldType(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("parse type %q: %w", s, err)
	}
	if rest != "" {
		return nil, fmt.Errorf("parse type %q: unexpected %q", s, rest)
	}
	return t, nil
}

// MustParseFieldType is like ParseFieldType but panics on malformed input.
func MustParseFieldType(s string) *FieldType {
	t, err := ParseFieldType(s)
	if err != nil {
		panic(err)
	}
	return t
}

func parseFieldType(s string) (*FieldType, string, error) {
	var t *FieldType
	if strings.HasPrefix(s, "[") {
		inner, rest, err := parseFieldType(strings.TrimSpace(s[1:]))
		if err != nil {
			return nil, "", err
		}
		rest = strings.TrimSpace(rest)
		if !strings.HasPrefix(rest, "]") {
			return nil, "", fmt.Errorf("missing ]")
		}
		t = ListType(inner)
		s = rest[1:]
	} else {
		end := 0
		for end < len(s) && isNameByte(s[end], end == 0) {
			end++
		}
		if end == 0 {
			return nil, "", fmt.Errorf("expected type name")
		}
		t = NamedType(s[:end])
		s = s[end:]
	}
	s = strings.TrimSpace(s)
	for strings.HasPrefix(s, "!") {
		t = NonNullType(t)
		s = strings.TrimSpace(s[1:])
	}
	return t, s, nil
}

func isNameByte(c byte, first bool) bool {
	switch {
	case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return !first
	}
	return false
}
