package mutate_test

import (
	"testing"

	"github.com/hanpama/schemagraph/internal/ir"
	"github.com/hanpama/schemagraph/internal/mutate"
	"github.com/hanpama/schemagraph/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *ir.Tree {
	t.Helper()
	tree, err := parser.Parse(src)
	require.NoError(t, err)
	return tree
}

// requireFreshIDs fails when any id in the tree differs from a full
// regeneration.
func requireFreshIDs(t *testing.T, tree *ir.Tree) {
	t.Helper()
	fresh := tree.Clone()
	fresh.Regenerate()
	var want, got []ir.ID
	fresh.Walk(func(f *ir.Field, _ []*ir.Field) bool { want = append(want, f.ID); return true })
	tree.Walk(func(f *ir.Field, _ []*ir.Field) bool { got = append(got, f.ID); return true })
	require.Equal(t, want, got)
}

func fieldNames(n *ir.Field) []string {
	var out []string
	for _, f := range n.Args {
		out = append(out, f.Name)
	}
	return out
}

func TestRenameCascade(t *testing.T) {
	tree := mustParse(t, `
type Person { id: ID }
type Query { people: Person }
`)
	person := tree.LookupType("Person")
	query := tree.LookupType("Query")
	people := ir.FindArg(query, "people")
	before := []ir.ID{person.ID, query.ID, people.ID}

	mutate.New(tree).RenameNode(person, "Alien")

	after := []ir.ID{person.ID, query.ID, people.ID}
	for i := range before {
		assert.NotEqual(t, before[i], after[i])
	}
	require.Equal(t, "Alien", person.Name)
	require.Equal(t, "Alien", ir.TypeNameOf(people.Type))
	requireFreshIDs(t, tree)
}

func TestRenameCollisionIsNoop(t *testing.T) {
	tree := mustParse(t, `
type Person { id: ID }
type Query { people: Person }
`)
	snapshot := tree.Clone()
	person := tree.LookupType("Person")

	mutate.New(tree).RenameNode(person, "Query")

	require.Equal(t, "Person", person.Name)
	require.True(t, snapshot.Equal(tree))
	require.Equal(t, snapshot.Nodes[0].ID, tree.Nodes[0].ID)
}

func TestRenameUpdatesReferences(t *testing.T) {
	tree := mustParse(t, `
interface Node { id: ID! }
type Person implements Node { id: ID! }
extend type Person { age: Int }
union Being = Person
type Query { node: Node beings: [Being!]! }
`)
	ed := mutate.New(tree)
	ed.RenameNode(tree.LookupType("Person"), "Human")
	ed.RenameNode(tree.LookupType("Node"), "Entity")

	human := tree.LookupType("Human")
	require.NotNil(t, human)
	require.Equal(t, []string{"Entity"}, human.Interfaces)
	require.Equal(t, []string{"Entity"}, ir.FindArg(human, "id").FromInterface)
	require.NotNil(t, tree.Lookup("Human", ir.KindObjectTypeExtension))

	being := tree.LookupType("Being")
	require.Equal(t, "Human", being.Args[0].Name)
	require.Equal(t, "Human", ir.TypeNameOf(being.Args[0].Type))

	require.Equal(t, "Entity", ir.TypeNameOf(ir.FindArg(tree.LookupType("Query"), "node").Type))
	requireFreshIDs(t, tree)
}

func TestRenameRootTypeRewritesSchema(t *testing.T) {
	tree := mustParse(t, `type Query { hello: String }`)
	mutate.New(tree).RenameNode(tree.LookupType("Query"), "Root")

	schema := tree.Lookup("schema", ir.KindSchemaDefinition)
	require.Equal(t, "Root", ir.TypeNameOf(schema.Args[0].Type))
}

func TestRenameDirectiveDefinition(t *testing.T) {
	tree := mustParse(t, `
directive @old on FIELD_DEFINITION
type Query { hello: String @old }
`)
	mutate.New(tree).RenameNode(tree.Lookup("old", ir.KindDirectiveDefinition), "new")

	hello := ir.FindArg(tree.LookupType("Query"), "hello")
	require.Equal(t, "new", hello.Directives[0].Name)
	requireFreshIDs(t, tree)
}

func TestRenameInterfaceField(t *testing.T) {
	tree := mustParse(t, `
interface Node { id: ID! }
type Person implements Node { id: ID! name: String }
type Robot implements Node { id: ID! }
`)
	node := tree.LookupType("Node")
	ed := mutate.New(tree)
	ed.RenameNode(ir.FindArg(node, "id"), "key")

	require.Equal(t, []string{"key"}, fieldNames(node))
	require.Equal(t, []string{"key", "name"}, fieldNames(tree.LookupType("Person")))
	require.Equal(t, []string{"key"}, fieldNames(tree.LookupType("Robot")))

	// sibling collision
	ed.RenameNode(ir.FindArg(tree.LookupType("Person"), "name"), "key")
	require.Equal(t, []string{"key", "name"}, fieldNames(tree.LookupType("Person")))
	requireFreshIDs(t, tree)
}

func TestAddFieldPropagates(t *testing.T) {
	tree := mustParse(t, `
interface Node { id: ID! }
type Person implements Node { id: ID! name: String }
type Robot implements Node { id: ID! }
`)
	node := tree.LookupType("Node")
	ed := mutate.New(tree)
	ed.AddField(node, &ir.Field{Name: "name", Kind: ir.KindFieldDefinition, Type: ir.NamedType("String")})

	person := tree.LookupType("Person")
	require.Equal(t, []string{"id", "name"}, fieldNames(person))
	require.Equal(t, []string{"Node"}, ir.FindArg(person, "name").FromInterface)

	robot := tree.LookupType("Robot")
	require.Equal(t, []string{"id", "name"}, fieldNames(robot))
	require.Equal(t, []string{"Node"}, ir.FindArg(robot, "name").FromInterface)
	requireFreshIDs(t, tree)
}

func TestAddArgumentRehashesOwner(t *testing.T) {
	tree := mustParse(t, `type Query { people: [String] }`)
	query := tree.LookupType("Query")
	people := ir.FindArg(query, "people")
	before := query.ID

	mutate.New(tree).AddField(people, &ir.Field{Name: "first", Kind: ir.KindInputValueDefinition, Type: ir.NamedType("Int")})

	require.NotEqual(t, before, query.ID)
	requireFreshIDs(t, tree)
}

func TestUpdateFieldPropagates(t *testing.T) {
	tree := mustParse(t, `
interface Node { id: ID! }
interface Keyed { id: ID! }
type Person implements Node & Keyed { id: ID! }
`)
	node := tree.LookupType("Node")
	mutate.New(tree).UpdateField(node, 0, &ir.Field{Name: "id", Kind: ir.KindFieldDefinition, Type: ir.MustParseFieldType("String!")})

	id := ir.FindArg(tree.LookupType("Person"), "id")
	require.Equal(t, "String!", id.Type.String())
	require.ElementsMatch(t, []string{"Node", "Keyed"}, id.FromInterface)
	requireFreshIDs(t, tree)
}

func TestDeleteFieldPropagates(t *testing.T) {
	tree := mustParse(t, `
interface Node { id: ID! label: String }
interface Keyed { id: ID! }
type Person implements Node & Keyed { id: ID! label: String }
type Robot implements Node { id: ID! }
`)
	node := tree.LookupType("Node")
	ed := mutate.New(tree)
	ed.DeleteField(node, ir.ArgIndex(node, "id"))

	person := tree.LookupType("Person")
	require.Equal(t, []string{"id", "label"}, fieldNames(person))
	require.Equal(t, []string{"Keyed"}, ir.FindArg(person, "id").FromInterface)
	require.Empty(t, fieldNames(tree.LookupType("Robot")))

	ed.DeleteField(node, ir.ArgIndex(node, "label"))
	require.Equal(t, []string{"id"}, fieldNames(person))
	requireFreshIDs(t, tree)
}

func TestDeImplementTwoInterfaces(t *testing.T) {
	tree := mustParse(t, `
interface A { name: String }
interface B { name: String }
type T implements A & B { name: String local: Int }
`)
	typ := tree.LookupType("T")
	require.Equal(t, []string{"A", "B"}, ir.FindArg(typ, "name").FromInterface)

	ed := mutate.New(tree)
	ed.DeImplementInterface(typ, "A")
	require.Equal(t, []string{"B"}, typ.Interfaces)
	require.NotNil(t, ir.FindArg(typ, "name"))
	require.Equal(t, []string{"B"}, ir.FindArg(typ, "name").FromInterface)

	ed.DeImplementInterface(typ, "B")
	require.Empty(t, typ.Interfaces)
	require.Nil(t, ir.FindArg(typ, "name"))
	require.NotNil(t, ir.FindArg(typ, "local"))
	requireFreshIDs(t, tree)
}

func TestImplementInterfaceTransitive(t *testing.T) {
	tree := mustParse(t, `
interface Node { id: ID! }
interface Named implements Node { id: ID! name: String }
type Person { name: String age: Int }
`)
	person := tree.LookupType("Person")
	mutate.New(tree).ImplementInterface(person, tree.LookupType("Named"))

	require.Equal(t, []string{"Named", "Node"}, person.Interfaces)
	require.Equal(t, []string{"name", "age", "id"}, fieldNames(person))
	require.Equal(t, []string{"Named"}, ir.FindArg(person, "name").FromInterface)
	require.Equal(t, []string{"Named", "Node"}, ir.FindArg(person, "id").FromInterface)
	require.Empty(t, ir.FindArg(person, "age").FromInterface)
	requireFreshIDs(t, tree)
}

func TestDeImplementKeepsReachable(t *testing.T) {
	tree := mustParse(t, `
interface Node { id: ID! }
interface Named implements Node { id: ID! name: String }
interface Aged implements Node { id: ID! age: Int }
type Person implements Named & Aged & Node { id: ID! name: String age: Int }
`)
	person := tree.LookupType("Person")
	mutate.New(tree).DeImplementInterface(person, "Named")

	require.Equal(t, []string{"Aged", "Node"}, person.Interfaces)
	require.Equal(t, []string{"id", "age"}, fieldNames(person))
}

func TestImplementInterfaceFromPool(t *testing.T) {
	lib := mustParse(t, `interface Node { id: ID! }`)
	tree := mustParse(t, `type Person { name: String }`)
	person := tree.LookupType("Person")

	mutate.New(tree, mutate.WithPool(lib.Nodes...)).ImplementInterface(person, lib.LookupType("Node"))

	require.Equal(t, []string{"Node"}, person.Interfaces)
	require.Equal(t, []string{"name", "id"}, fieldNames(person))
}

func TestRemoveNode(t *testing.T) {
	tree := mustParse(t, `
type Person { id: ID }
extend type Person { age: Int }
union Being = Person | Robot
type Robot { id: ID }
type Query { people(filter: Person): [Person!] robots: [Robot] }
`)
	ed := mutate.New(tree)

	// extensions leave references alone
	require.NoError(t, ed.RemoveNode(tree.Lookup("Person", ir.KindObjectTypeExtension)))
	require.Equal(t, []string{"people", "robots"}, fieldNames(tree.LookupType("Query")))

	require.NoError(t, ed.RemoveNode(tree.LookupType("Person")))
	require.Nil(t, tree.LookupType("Person"))
	require.Equal(t, []string{"robots"}, fieldNames(tree.LookupType("Query")))
	require.Equal(t, []string{"Robot"}, fieldNames(tree.LookupType("Being")))
	requireFreshIDs(t, tree)
}

func TestRemoveInterfaceDeImplements(t *testing.T) {
	tree := mustParse(t, `
interface Node { id: ID! }
type Person implements Node { id: ID! name: String }
type Query { node: Node person: Person }
`)
	require.NoError(t, mutate.New(tree).RemoveNode(tree.LookupType("Node")))

	person := tree.LookupType("Person")
	require.Empty(t, person.Interfaces)
	require.Equal(t, []string{"name"}, fieldNames(person))
	require.Equal(t, []string{"person"}, fieldNames(tree.LookupType("Query")))
}

func TestRemoveDirectiveDefinition(t *testing.T) {
	tree := mustParse(t, `
directive @auth(role: String) on FIELD_DEFINITION
type Query { secret: String @auth(role: "admin") @deprecated }
`)
	require.NoError(t, mutate.New(tree).RemoveNode(tree.Lookup("auth", ir.KindDirectiveDefinition)))

	secret := ir.FindArg(tree.LookupType("Query"), "secret")
	require.Len(t, secret.Directives, 1)
	require.Equal(t, "deprecated", secret.Directives[0].Name)
}

func TestRemoveNodeNotFound(t *testing.T) {
	tree := mustParse(t, `type Query { hello: String }`)
	err := mutate.New(tree).RemoveNode(&ir.Field{Name: "Ghost", Kind: ir.KindObjectTypeDefinition})
	require.ErrorIs(t, err, mutate.ErrNodeNotFound)
	require.Contains(t, err.Error(), `"Ghost"`)
}
