package tree

import (
	"fmt"

	"github.com/okra-platform/nativegen/internal/types"
)

// Forest stores every node by identifier. Nodes refer to their parent and
// children by identifier only.
type Forest struct {
	nodes   map[string]*Node
	symbols map[string]string
	root    Identifier
}

func newForest() *Forest {
	return &Forest{
		nodes:   map[string]*Node{},
		symbols: map[string]string{},
	}
}

func (f *Forest) add(node *Node) error {
	key := node.Identifier.Key()
	if existing, exists := f.nodes[key]; exists {
		return fmt.Errorf("%w: %s is claimed by both %q and %q", ErrDuplicateIdentifier, node.Identifier, existing.Symbol, node.Symbol)
	}
	f.nodes[key] = node
	f.symbols[node.Symbol] = key
	return nil
}

// Root returns the root node
func (f *Forest) Root() *Node {
	return f.nodes[f.root.Key()]
}

// Node returns the node with the given identifier
func (f *Forest) Node(id Identifier) (*Node, bool) {
	node, ok := f.nodes[id.Key()]
	return node, ok
}

// Lookup returns the node built from the class with the given schema name
func (f *Forest) Lookup(symbol string) (*Node, bool) {
	key, ok := f.symbols[symbol]
	if !ok {
		return nil, false
	}
	return f.nodes[key], true
}

// Parent returns the parent node of n
func (f *Forest) Parent(n *Node) (*Node, bool) {
	id, ok := n.Parent()
	if !ok {
		return nil, false
	}
	return f.Node(id)
}

// Len returns the number of nodes
func (f *Forest) Len() int {
	return len(f.nodes)
}

// Preorder returns every node reachable from the root, parents before children
func (f *Forest) Preorder() []*Node {
	root := f.Root()
	if root == nil {
		return nil
	}

	result := make([]*Node, 0, len(f.nodes))
	stack := []*Node{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		result = append(result, node)

		for i := len(node.children) - 1; i >= 0; i-- {
			stack = append(stack, f.nodes[node.children[i].Key()])
		}
	}
	return result
}

// Leaves returns the nodes without subclasses, in preorder
func (f *Forest) Leaves() []*Node {
	var leaves []*Node
	for _, node := range f.Preorder() {
		if node.IsLeaf() {
			leaves = append(leaves, node)
		}
	}
	return leaves
}

// Depth returns the number of ancestors of n
func (f *Forest) Depth(n *Node) int {
	depth := 0
	for current, ok := f.Parent(n); ok; current, ok = f.Parent(current) {
		depth++
	}
	return depth
}

// Result is the output of a build: the finalized forest, the type table
// used to resolve it and every member dropped along the way.
type Result struct {
	Forest      *Forest
	Types       *types.Table
	Diagnostics []Diagnostic
}
