package ir_test

import (
	"encoding/json"
	"testing"

	"github.com/hanpama/schemagraph/internal/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func person() *ir.Field {
	return &ir.Field{
		Name: "Person",
		Kind: ir.KindObjectTypeDefinition,
		Args: []*ir.Field{
			{Name: "id", Kind: ir.KindFieldDefinition, Type: ir.MustParseFieldType("ID!")},
			{
				Name: "friends",
				Kind: ir.KindFieldDefinition,
				Type: ir.MustParseFieldType("[Person!]"),
				Args: []*ir.Field{
					{Name: "first", Kind: ir.KindInputValueDefinition, Type: ir.NamedType("Int"),
						Value: &ir.Field{Name: "10", Kind: ir.KindIntValue}},
				},
			},
		},
	}
}

func TestIDDeterminism(t *testing.T) {
	a, b := person(), person()
	ir.Regenerate(a)
	ir.Regenerate(b)
	require.NotZero(t, a.ID)
	require.Equal(t, a.ID, b.ID)
	require.Equal(t, a.Args[1].ID, b.Args[1].ID)

	c := a.Clone()
	ir.Regenerate(c)
	require.Equal(t, a.ID, c.ID)
}

func TestIDChangesUpToRoot(t *testing.T) {
	n := person()
	ir.Regenerate(n)
	before := []ir.ID{n.ID, n.Args[1].ID, n.Args[1].Args[0].ID}

	n.Args[1].Args[0].Name = "last"
	ir.Regenerate(n)
	after := []ir.ID{n.ID, n.Args[1].ID, n.Args[1].Args[0].ID}
	for i := range before {
		assert.NotEqual(t, before[i], after[i], "level %d", i)
	}
	// the untouched sibling keeps its id
	require.Equal(t, person().Args[0].Clone().Hash(), n.Args[0].ID)
}

func TestIDIgnoresProvenance(t *testing.T) {
	a, b := person(), person()
	b.Description = "someone"
	b.Args[0].FromInterface = []string{"Node"}
	ir.Regenerate(a)
	ir.Regenerate(b)
	require.Equal(t, a.ID, b.ID)
}

func TestEqual(t *testing.T) {
	a, b := person(), person()
	b.Description = "docs"
	b.FromLibrary = true
	require.True(t, ir.Equal(a, b))

	b.Args[1].Type = ir.MustParseFieldType("[Person]")
	require.False(t, ir.Equal(a, b))

	c := person()
	c.Interfaces = []string{"Node"}
	require.False(t, ir.Equal(a, c))
}

func TestCloneIsDeep(t *testing.T) {
	a := person()
	b := a.Clone()
	b.Args[1].Args[0].Value.Name = "20"
	b.Args[1].Type.OfType.OfType.Named = "Alien"
	require.Equal(t, "10", a.Args[1].Args[0].Value.Name)
	require.Equal(t, "[Person!]", a.Args[1].Type.String())
}

func TestFindArg(t *testing.T) {
	p := person()
	require.Same(t, p.Args[1], ir.FindArg(p, "friends"))
	require.Nil(t, ir.FindArg(p, "missing"))
	require.Nil(t, ir.FindArg(nil, "friends"))
	require.Equal(t, 1, ir.ArgIndex(p, "friends"))
	require.Equal(t, -1, ir.ArgIndex(p, "missing"))
}

func TestIsRequired(t *testing.T) {
	arg := &ir.Field{Name: "x", Kind: ir.KindInputValueDefinition, Type: ir.MustParseFieldType("Int!")}
	require.True(t, arg.IsRequired())
	arg.Value = &ir.Field{Name: "1", Kind: ir.KindIntValue}
	require.False(t, arg.IsRequired())
}

func TestKindJSON(t *testing.T) {
	b, err := json.Marshal(&ir.Field{Name: "Person", Kind: ir.KindObjectTypeExtension})
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"Person","kind":"ObjectTypeExtension","id":0}`, string(b))

	var f ir.Field
	require.NoError(t, json.Unmarshal(b, &f))
	require.Equal(t, ir.KindObjectTypeExtension, f.Kind)
	require.True(t, f.Kind.IsExtension())
	require.Equal(t, ir.KindObjectTypeDefinition, f.Kind.Base())
	require.Equal(t, "type", f.Kind.Keyword())
}
