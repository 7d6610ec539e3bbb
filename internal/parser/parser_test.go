package parser_test

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hanpama/schemagraph/internal/ir"
	"github.com/hanpama/schemagraph/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoodSnapshot(t *testing.T) {
	type testCase struct {
		name     string
		snapshot string
		input    string
		fold     bool
	}

	for _, tc := range []testCase{
		{
			name:     "kitchen_sink",
			snapshot: "testdata/good/kitchen_sink.json",
			input:    mustReadData("testdata/good/kitchen_sink.graphql"),
		},
		{
			name:     "kitchen_sink_folded",
			snapshot: "testdata/good/kitchen_sink_folded.json",
			input:    mustReadData("testdata/good/kitchen_sink.graphql"),
			fold:     true,
		},
		{
			name:     "explicit_schema",
			snapshot: "testdata/good/explicit_schema.json",
			input:    mustReadData("testdata/good/explicit_schema.graphql"),
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			parse := parser.Parse
			if tc.fold {
				parse = parser.ParseAddExtensions
			}
			tree, err := parse(tc.input)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			// if snapshot file does not exist, create it
			if _, err := os.Stat(tc.snapshot); os.IsNotExist(err) {
				file, err := os.Create(tc.snapshot)
				if err != nil {
					t.Fatalf("Failed to create snapshot file: %v", err)
				}
				defer file.Close()
				enc := json.NewEncoder(file)
				enc.SetIndent("", "  ")
				if err := enc.Encode(tree); err != nil {
					t.Fatalf("Failed to write snapshot: %v", err)
				}
				t.Logf("Snapshot created: %s", tc.snapshot)
				return
			}

			file, err := os.Open(tc.snapshot)
			if err != nil {
				t.Fatalf("Failed to open snapshot file: %v", err)
			}
			defer file.Close()
			var expected *ir.Tree
			if err := json.NewDecoder(file).Decode(&expected); err != nil {
				t.Fatalf("Failed to decode snapshot: %v", err)
			}

			if diff := cmp.Diff(expected, tree); diff != "" {
				t.Errorf("Tree mismatch (-expected +got):\n%s", diff)
			}
		})
	}
}

func TestBadSnapshot(t *testing.T) {
	type testCase struct {
		name    string
		input   string
		fold    bool
		wantErr string
		is      error
	}

	for _, tc := range []testCase{
		{
			name:    "operation_missing",
			input:   mustReadData("testdata/bad/operation_missing.graphql"),
			wantErr: `operation does not exist: mutation type "Mutation" is not defined schema.graphql:3:3`,
			is:      parser.ErrOperationNotFound,
		},
		{
			name:    "syntax",
			input:   mustReadData("testdata/bad/syntax.graphql"),
			wantErr: "Expected Name, found <EOF>",
		},
		{
			name:    "extension_orphan",
			input:   mustReadData("testdata/bad/extension_orphan.graphql"),
			fold:    true,
			wantErr: `extension base not found: ObjectTypeExtension "Person"`,
			is:      parser.ErrExtensionBaseNotFound,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			parse := parser.Parse
			if tc.fold {
				parse = parser.ParseAddExtensions
			}
			tree, err := parse(tc.input)
			require.Error(t, err)
			require.Nil(t, tree)
			require.Contains(t, err.Error(), tc.wantErr)
			if tc.is != nil {
				require.ErrorIs(t, err, tc.is)
			}
		})
	}
}

func TestParseKeepsExtensionsApart(t *testing.T) {
	tree, err := parser.Parse(`
type Person { name: String }
extend type Person { age: Int }
`)
	require.NoError(t, err)
	require.Len(t, tree.Nodes, 2)
	require.Equal(t, ir.KindObjectTypeDefinition, tree.Nodes[0].Kind)
	require.Equal(t, ir.KindObjectTypeExtension, tree.Nodes[1].Kind)
	require.Equal(t, "Person", tree.Nodes[1].Name)
}

func TestParseSynthesizesSchema(t *testing.T) {
	tree, err := parser.Parse(`
type Subscription { ticks: Int }
type Query { hello: String }
`)
	require.NoError(t, err)

	schema := tree.Lookup("schema", ir.KindSchemaDefinition)
	require.NotNil(t, schema)
	require.Len(t, schema.Args, 2)
	assert.Equal(t, "query", schema.Args[0].Name)
	assert.Equal(t, "Query", ir.TypeNameOf(schema.Args[0].Type))
	assert.Equal(t, "subscription", schema.Args[1].Name)
	assert.Equal(t, "Subscription", ir.TypeNameOf(schema.Args[1].Type))
}

func TestParseNoSchemaWithoutRoots(t *testing.T) {
	tree, err := parser.Parse(`type Person { name: String }`)
	require.NoError(t, err)
	require.Nil(t, tree.Lookup("schema", ir.KindSchemaDefinition))
}

func TestParseTagsInterfaceFields(t *testing.T) {
	tree, err := parser.Parse(`
interface Node { id: ID! }
interface Named { name: String }
type Person implements Node & Named {
  id: ID!
  name: String
  age: Int
}
type Thing implements Node { label: String }
`)
	require.NoError(t, err)

	person := tree.LookupType("Person")
	require.Equal(t, []string{"Node"}, ir.FindArg(person, "id").FromInterface)
	require.Equal(t, []string{"Named"}, ir.FindArg(person, "name").FromInterface)
	require.Empty(t, ir.FindArg(person, "age").FromInterface)

	// tagging never adds missing fields
	thing := tree.LookupType("Thing")
	require.Len(t, thing.Args, 1)
	require.Nil(t, ir.FindArg(thing, "id"))
}

func TestParseComments(t *testing.T) {
	src := strings.Join([]string{
		"# first",
		"type Person {",
		`  """`,
		"  # inside a description",
		`  """`,
		"  name: String # trailing",
		"  # second",
		"}",
		`"""one line \""" still description"""`,
		"scalar Date",
		"#third",
	}, "\n")
	tree, err := parser.Parse(src)
	require.NoError(t, err)

	var comments []string
	for _, n := range tree.Nodes {
		if n.Kind == ir.KindComment {
			comments = append(comments, n.Name)
		}
	}
	require.Equal(t, []string{"first", "second", "third"}, comments)
	// comments come ahead of type nodes
	for i := 0; i < 3; i++ {
		require.Equal(t, ir.KindComment, tree.Nodes[i].Kind)
	}
	require.Equal(t, "inside a description", strings.TrimSpace(ir.FindArg(tree.Nodes[3], "name").Description)[2:])
}

func TestParseLibrary(t *testing.T) {
	tree, err := parser.Parse(
		`type Query { now: DateTime }`,
		parser.WithLibrary("# library\nscalar DateTime\ndirective @auth on FIELD_DEFINITION"),
	)
	require.NoError(t, err)

	require.True(t, tree.Lookup("DateTime", ir.KindScalarTypeDefinition).FromLibrary)
	require.True(t, tree.Lookup("auth", ir.KindDirectiveDefinition).FromLibrary)
	require.False(t, tree.Lookup("Query", ir.KindObjectTypeDefinition).FromLibrary)

	// only the user schema is scanned for comments
	for _, n := range tree.Nodes {
		require.NotEqual(t, ir.KindComment, n.Kind)
	}
}

func TestParseExcludedRoots(t *testing.T) {
	tree, err := parser.Parse(`
type Query { hello: String }
type Internal { secret: String }
`, parser.WithExcludedRoots("Internal"))
	require.NoError(t, err)
	require.Nil(t, tree.LookupType("Internal"))
	require.NotNil(t, tree.LookupType("Query"))
}

func TestParseValues(t *testing.T) {
	tree, err := parser.Parse(`
input Filter {
  tags: [String!] = ["a", "b"]
  range: Range = {from: 1, to: 2.5}
  flag: Boolean = true
  nothing: String = null
}
input Range { from: Int to: Float }
`)
	require.NoError(t, err)
	filter := tree.LookupType("Filter")

	tags := ir.FindArg(filter, "tags").Value
	require.Equal(t, ir.KindListValue, tags.Kind)
	require.Len(t, tags.Args, 2)
	require.Equal(t, "b", tags.Args[1].Name)
	require.Equal(t, ir.KindStringValue, tags.Args[1].Kind)

	rng := ir.FindArg(filter, "range").Value
	require.Equal(t, ir.KindObjectValue, rng.Kind)
	require.Equal(t, "to", rng.Args[1].Name)
	require.Equal(t, ir.KindFloatValue, rng.Args[1].Value.Kind)
	require.Equal(t, "2.5", rng.Args[1].Value.Name)

	require.Equal(t, ir.KindBooleanValue, ir.FindArg(filter, "flag").Value.Kind)
	require.Equal(t, ir.KindNullValue, ir.FindArg(filter, "nothing").Value.Kind)
}

func TestParseAddExtensionsFolds(t *testing.T) {
	tree, err := parser.ParseAddExtensions(`
interface Node { id: ID! }
type Person @a { name: String }
extend type Person implements Node @b { id: ID! name: String }
`)
	require.NoError(t, err)
	require.Len(t, tree.Nodes, 2)

	person := tree.LookupType("Person")
	// appended without de-duplication
	require.Equal(t, []string{"name", "id", "name"}, names(person.Args))
	require.Equal(t, []string{"a", "b"}, names(person.Directives))
	require.Equal(t, []string{"Node"}, person.Interfaces)
	require.Equal(t, []string{"Node"}, ir.FindArg(person, "id").FromInterface)
}

func TestParseIDsAreFresh(t *testing.T) {
	tree, err := parser.Parse(`type Query { people: [Person] } type Person { id: ID }`)
	require.NoError(t, err)
	for _, n := range tree.Nodes {
		id := n.ID
		ir.Regenerate(n)
		require.Equal(t, id, n.ID, n.Name)
	}
}

func TestParseErrorIsTyped(t *testing.T) {
	_, err := parser.Parse(`schema { query: Nope }`)
	var verr parser.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr, 1)
	require.Equal(t, 1, verr[0].Line)
}

func names(fs []*ir.Field) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Name
	}
	return out
}

func mustReadData(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	return string(data)
}
