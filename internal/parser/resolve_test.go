package parser_test

import (
	"testing"

	"github.com/hanpama/schemagraph/internal/ir"
	"github.com/hanpama/schemagraph/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
)

func TestResolveType(t *testing.T) {
	for _, tc := range []struct {
		in   *ast.Type
		want string
	}{
		{ast.NamedType("String", nil), "String"},
		{ast.NonNullNamedType("ID", nil), "ID!"},
		{ast.ListType(ast.NamedType("Int", nil), nil), "[Int]"},
		{ast.NonNullListType(ast.NonNullNamedType("Person", nil), nil), "[Person!]!"},
		{ast.ListType(ast.NonNullListType(ast.NamedType("String", nil), nil), nil), "[[String]!]"},
	} {
		got := parser.ResolveType(tc.in)
		require.NotNil(t, got)
		assert.Equal(t, tc.want, got.String())
		assert.True(t, ir.MustParseFieldType(tc.want).Equal(got), tc.want)
	}
	assert.Nil(t, parser.ResolveType(nil))
}

func TestResolveValue(t *testing.T) {
	v := &ast.Value{Kind: ast.ListValue, Children: ast.ChildValueList{
		{Value: &ast.Value{Kind: ast.IntValue, Raw: "1"}},
		{Value: &ast.Value{Kind: ast.ObjectValue, Children: ast.ChildValueList{
			{Name: "on", Value: &ast.Value{Kind: ast.BooleanValue, Raw: "true"}},
		}}},
	}}
	got := parser.ResolveValue(v)
	require.Equal(t, ir.KindListValue, got.Kind)
	require.Len(t, got.Args, 2)
	assert.Equal(t, ir.KindIntValue, got.Args[0].Kind)
	assert.Equal(t, "1", got.Args[0].Name)

	obj := got.Args[1]
	require.Equal(t, ir.KindObjectValue, obj.Kind)
	require.Len(t, obj.Args, 1)
	assert.Equal(t, "on", obj.Args[0].Name)
	assert.Equal(t, ir.KindBooleanValue, obj.Args[0].Value.Kind)
	assert.Equal(t, "true", obj.Args[0].Value.Name)
}
