package ir

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// ID is the structural hash of a node. It is derived from the node's shape
// and must be regenerated after every structural change.
type ID uint64

func (id ID) String() string {
	return fmt.Sprintf("%016x", uint64(id))
}

// Field is the single node type of the IR. What Args holds depends on Kind:
// the fields of an object type, the arguments of a field or directive, the
// values of an enum, the members of a union, the bindings of a schema node or
// the elements of a composite literal.
type Field struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
	ID   ID     `json:"id"`

	Type          *FieldType `json:"type,omitempty"`
	Args          []*Field   `json:"args,omitempty"`
	Interfaces    []string   `json:"interfaces,omitempty"`
	Directives    []*Field   `json:"directives,omitempty"`
	FromInterface []string   `json:"fromInterface,omitempty"`
	Description   string     `json:"description,omitempty"`
	Value         *Field     `json:"value,omitempty"`

	// Directive definitions only.
	Locations  []string `json:"locations,omitempty"`
	Repeatable bool     `json:"repeatable,omitempty"`

	FromLibrary bool `json:"fromLibrary,omitempty"`
}

// TypeLabel is the type string hashed and printed for f: the compiled field
// type for fields and arguments, the kind label for everything else.
func (f *Field) TypeLabel() string {
	if f.Type != nil {
		return f.Type.String()
	}
	return f.Kind.String()
}

// Hash computes the structural id of f from its current children ids. It does
// not descend; children must already carry fresh ids.
func (f *Field) Hash() ID {
	h := xxhash.New()
	var buf [8]byte
	writeString := func(s string) {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(s)))
		_, _ = h.Write(buf[:])
		_, _ = h.WriteString(s)
	}
	writeID := func(id ID) {
		binary.LittleEndian.PutUint64(buf[:], uint64(id))
		_, _ = h.Write(buf[:])
	}

	writeString(f.Name)
	writeString(f.Kind.String())
	writeString(f.TypeLabel())
	writeID(ID(len(f.Args)))
	for _, a := range f.Args {
		writeID(a.ID)
	}
	writeID(ID(len(f.Directives)))
	for _, d := range f.Directives {
		writeID(d.ID)
	}
	if f.Value != nil {
		writeID(f.Value.ID)
	}
	return ID(h.Sum64())
}

// Touch rehashes f alone.
func (f *Field) Touch() {
	f.ID = f.Hash()
}

// Regenerate recomputes ids for f and its whole subtree, bottom-up.
func Regenerate(f *Field) {
	if f == nil {
		return
	}
	for _, a := range f.Args {
		Regenerate(a)
	}
	for _, d := range f.Directives {
		Regenerate(d)
	}
	Regenerate(f.Value)
	f.Touch()
}

// Clone returns a deep copy of f.
func (f *Field) Clone() *Field {
	if f == nil {
		return nil
	}
	c := *f
	c.Type = f.Type.Clone()
	c.Args = cloneFields(f.Args)
	c.Directives = cloneFields(f.Directives)
	c.Value = f.Value.Clone()
	c.Interfaces = cloneStrings(f.Interfaces)
	c.FromInterface = cloneStrings(f.FromInterface)
	c.Locations = cloneStrings(f.Locations)
	return &c
}

func cloneFields(fs []*Field) []*Field {
	if fs == nil {
		return nil
	}
	out := make([]*Field, len(fs))
	for i, f := range fs {
		out[i] = f.Clone()
	}
	return out
}

func cloneStrings(ss []string) []string {
	if ss == nil {
		return nil
	}
	return append([]string(nil), ss...)
}

// Equal reports whether a and b are structurally the same node. Ids,
// provenance tags, library marks and descriptions are ignored; everything
// that prints as code is compared.
func Equal(a, b *Field) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Name != b.Name || a.Kind != b.Kind || a.Repeatable != b.Repeatable {
		return false
	}
	if !a.Type.Equal(b.Type) {
		return false
	}
	if !equalStrings(a.Interfaces, b.Interfaces) || !equalStrings(a.Locations, b.Locations) {
		return false
	}
	return equalFields(a.Args, b.Args) &&
		equalFields(a.Directives, b.Directives) &&
		Equal(a.Value, b.Value)
}

// EqualAll compares two node lists pairwise with Equal.
func EqualAll(a, b []*Field) bool {
	return equalFields(a, b)
}

func equalFields(a, b []*Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// FindArg returns the child of parent named name, or nil.
func FindArg(parent *Field, name string) *Field {
	if parent == nil {
		return nil
	}
	for _, a := range parent.Args {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// ArgIndex returns the index of the child of parent named name, or -1.
func ArgIndex(parent *Field, name string) int {
	for i, a := range parent.Args {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// IsRequired reports whether an argument or input field must be supplied: it
// is Non-Null and has no default value.
func (f *Field) IsRequired() bool {
	return f.Type.IsNonNull() && f.Value == nil
}

// HasInterfaceTag reports whether f was contributed by iface.
func (f *Field) HasInterfaceTag(iface string) bool {
	for _, n := range f.FromInterface {
		if n == iface {
			return true
		}
	}
	return false
}

// Tag adds iface to f's provenance list if it is not already present.
func (f *Field) Tag(iface string) {
	if !f.HasInterfaceTag(iface) {
		f.FromInterface = append(f.FromInterface, iface)
	}
}
