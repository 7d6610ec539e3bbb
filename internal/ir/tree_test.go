package ir_test

import (
	"testing"

	"github.com/hanpama/schemagraph/internal/ir"
	"github.com/stretchr/testify/require"
)

func sampleTree() *ir.Tree {
	node := &ir.Field{Name: "Node", Kind: ir.KindInterfaceTypeDefinition, Args: []*ir.Field{
		{Name: "id", Kind: ir.KindFieldDefinition, Type: ir.MustParseFieldType("ID!")},
	}}
	tr := &ir.Tree{Nodes: []*ir.Field{
		node,
		person(),
		{Name: "Query", Kind: ir.KindObjectTypeDefinition, Args: []*ir.Field{
			{Name: "people", Kind: ir.KindFieldDefinition, Type: ir.NamedType("Person")},
		}},
	}}
	tr.Nodes[1].Interfaces = []string{"Node"}
	tr.Regenerate()
	return tr
}

func TestTreeLookup(t *testing.T) {
	tr := sampleTree()
	require.Same(t, tr.Nodes[1], tr.Lookup("Person", ir.KindObjectTypeDefinition))
	require.Nil(t, tr.Lookup("Person", ir.KindObjectTypeExtension))
	require.Same(t, tr.Nodes[1], tr.LookupType("Person"))
	require.Equal(t, 2, tr.Index(tr.Nodes[2]))
	require.Equal(t, []*ir.Field{tr.Nodes[1]}, tr.Implementers("Node"))
	require.Equal(t, []*ir.Field{tr.Nodes[0]}, tr.Interfaces())
}

func TestTreeFindAndPath(t *testing.T) {
	tr := sampleTree()
	first := tr.Nodes[1].Args[1].Args[0]

	require.Same(t, first, tr.Find(first.ID))
	require.Equal(t, []*ir.Field{tr.Nodes[1], tr.Nodes[1].Args[1], first}, tr.PathTo(first))
	require.Nil(t, tr.PathTo(&ir.Field{Name: "stray"}))
}

func TestTreeTouch(t *testing.T) {
	tr := sampleTree()
	first := tr.Nodes[1].Args[1].Args[0]
	top, field := tr.Nodes[1].ID, tr.Nodes[1].Args[1].ID
	other := tr.Nodes[2].ID

	first.Type = ir.NamedType("Float")
	tr.Touch(first)

	require.NotEqual(t, top, tr.Nodes[1].ID)
	require.NotEqual(t, field, tr.Nodes[1].Args[1].ID)
	require.Equal(t, other, tr.Nodes[2].ID)

	fresh := tr.Clone()
	fresh.Regenerate()
	require.Equal(t, fresh.Nodes[1].ID, tr.Nodes[1].ID)
	require.True(t, fresh.Equal(tr))
}
