package ir

// Tree is the ordered list of top-level nodes of one schema document.
type Tree struct {
	Nodes []*Field `json:"nodes"`
}

// Lookup returns the top-level node with the given name and kind, or nil.
func (t *Tree) Lookup(name string, kind Kind) *Field {
	for _, n := range t.Nodes {
		if n.Name == name && n.Kind == kind {
			return n
		}
	}
	return nil
}

// LookupType returns the non-extension type definition named name, or nil.
func (t *Tree) LookupType(name string) *Field {
	for _, n := range t.Nodes {
		if n.Name == name && n.Kind.IsTypeDefinition() && !n.Kind.IsExtension() {
			return n
		}
	}
	return nil
}

// Find returns the first node anywhere in the tree carrying id, or nil.
func (t *Tree) Find(id ID) *Field {
	var found *Field
	t.Walk(func(f *Field, _ []*Field) bool {
		if f.ID == id {
			found = f
			return false
		}
		return true
	})
	return found
}

// Index returns the position of n among the top-level nodes, or -1.
func (t *Tree) Index(n *Field) int {
	for i, m := range t.Nodes {
		if m == n {
			return i
		}
	}
	return -1
}

// Names returns the set of top-level node names. Comments are not named.
func (t *Tree) Names() map[string]bool {
	names := make(map[string]bool, len(t.Nodes))
	for _, n := range t.Nodes {
		if n.Kind == KindComment {
			continue
		}
		names[n.Name] = true
	}
	return names
}

// Interfaces returns every interface definition and extension in the tree.
func (t *Tree) Interfaces() []*Field {
	var out []*Field
	for _, n := range t.Nodes {
		if n.Kind.IsInterface() {
			out = append(out, n)
		}
	}
	return out
}

// Implementers returns the object and interface nodes (extensions included)
// that directly declare iface in their interfaces list.
func (t *Tree) Implementers(iface string) []*Field {
	var out []*Field
	for _, n := range t.Nodes {
		if !n.Kind.IsComposite() {
			continue
		}
		for _, i := range n.Interfaces {
			if i == iface {
				out = append(out, n)
				break
			}
		}
	}
	return out
}

// Walk visits every node depth-first, args before directives before value.
// The path holds the ancestors of the visited node, outermost first. Returning
// false from fn stops the walk.
func (t *Tree) Walk(fn func(f *Field, path []*Field) bool) {
	for _, n := range t.Nodes {
		if !walk(n, nil, fn) {
			return
		}
	}
}

func walk(f *Field, path []*Field, fn func(*Field, []*Field) bool) bool {
	if !fn(f, path) {
		return false
	}
	path = append(path, f)
	for _, a := range f.Args {
		if !walk(a, path, fn) {
			return false
		}
	}
	for _, d := range f.Directives {
		if !walk(d, path, fn) {
			return false
		}
	}
	if f.Value != nil {
		return walk(f.Value, path, fn)
	}
	return true
}

// PathTo returns the chain of nodes from the top-level ancestor down to n
// (inclusive), or nil when n is not part of the tree.
func (t *Tree) PathTo(n *Field) []*Field {
	var out []*Field
	t.Walk(func(f *Field, path []*Field) bool {
		if f == n {
			out = append(append([]*Field(nil), path...), f)
			return false
		}
		return true
	})
	return out
}

// Touch rehashes every node on the path from n up to its top-level ancestor,
// innermost first.
func (t *Tree) Touch(n *Field) {
	path := t.PathTo(n)
	for i := len(path) - 1; i >= 0; i-- {
		path[i].Touch()
	}
}

// Regenerate recomputes every id in the tree.
func (t *Tree) Regenerate() {
	for _, n := range t.Nodes {
		Regenerate(n)
	}
}

// Clone returns a deep copy of the tree.
func (t *Tree) Clone() *Tree {
	return &Tree{Nodes: cloneFields(t.Nodes)}
}

// Equal reports whether both trees hold structurally equal nodes in the same
// order.
func (t *Tree) Equal(o *Tree) bool {
	return equalFields(t.Nodes, o.Nodes)
}
