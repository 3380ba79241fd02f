// Package tree builds the override-aware inheritance tree from class records.
package tree

import (
	"fmt"
	"maps"
	"slices"

	"github.com/okra-platform/nativegen/internal/schema"
	"github.com/okra-platform/nativegen/internal/types"
	"github.com/okra-platform/nativegen/internal/words"
)

// Namespace is the tier a generated class lives in
type Namespace int

const (
	Root Namespace = iota
	Unmanaged
	Singleton
)

func (n Namespace) String() string {
	switch n {
	case Root:
		return "root"
	case Unmanaged:
		return "unmanaged"
	case Singleton:
		return "singleton"
	default:
		return fmt.Sprintf("namespace(%d)", int(n))
	}
}

// Qualify returns the namespace path under the given module name
func (n Namespace) Qualify(module string) string {
	switch n {
	case Unmanaged:
		return module + ".Unmanaged"
	case Singleton:
		return module + ".Singleton"
	default:
		return module
	}
}

// Identifier names a node: its namespace tier plus its normalized name
type Identifier struct {
	Namespace Namespace
	Name      words.Words
}

// Key returns a string uniquely identifying the node within the forest
func (id Identifier) Key() string {
	return id.Namespace.String() + ":" + id.Name.String()
}

// Equal compares identifiers by tier and words
func (id Identifier) Equal(other Identifier) bool {
	return id.Namespace == other.Namespace && id.Name.Equal(other.Name)
}

// Qualified returns the fully qualified generated type name
func (id Identifier) Qualified(module string) string {
	return id.Namespace.Qualify(module) + "." + id.Name.String()
}

func (id Identifier) String() string {
	return id.Namespace.String() + "." + id.Name.String()
}

// Flags are the class-level facts taken from the schema record
type Flags struct {
	Instantiable bool
	Singleton    bool
	Managed      bool
}

// Accessor references a getter or setter method by schema symbol
type Accessor struct {
	Symbol string
}

// Name returns the generated accessor name
func (a Accessor) Name() string {
	return words.SplitSnake(a.Symbol).Camelcased()
}

// Property is a resolved property attached to a node
type Property struct {
	Symbol   string
	Getter   Accessor
	Setter   *Accessor
	Index    *int
	Type     types.KnownType
	Final    bool
	Override bool
}

// Name returns the generated property name
func (p Property) Name() string {
	return words.SplitSnake(p.Symbol).Camelcased()
}

// Parameter is one resolved method argument
type Parameter struct {
	Label   string
	Type    types.KnownType
	Default string
}

// Qualifiers carries the schema's per-method annotations through to the emitter
type Qualifiers struct {
	Const            bool
	Variadic         bool
	EditorOnly       bool
	NoScript         bool
	VirtualAnnotated bool
}

// Method is a resolved method attached to a node
type Method struct {
	Symbol     string
	Parameters []Parameter
	Return     types.KnownType
	Final      bool
	Override   bool
	Hidden     bool
	Qualifiers Qualifiers
}

// Name returns the generated method name
func (m Method) Name() string {
	return words.SplitSnake(m.Symbol).Camelcased()
}

// Labels returns the argument labels in order
func (m Method) Labels() []string {
	labels := make([]string, len(m.Parameters))
	for i, p := range m.Parameters {
		labels[i] = p.Label
	}
	return labels
}

// Case is one enumeration case
type Case struct {
	Name  words.Words
	Value int
}

// Enumeration is an enum declared by a class
type Enumeration struct {
	Symbol string
	Name   words.Words
	Cases  []Case
}

// Node is one class's position in the inheritance tree
type Node struct {
	Symbol       string
	API          schema.API
	Flags        Flags
	Identifier   Identifier
	Enumerations []Enumeration
	Constants    map[string]int

	parent     Identifier
	hasParent  bool
	children   []Identifier
	properties map[string]*Property
	methods    map[string]*Method
}

func newNode(symbol string, id Identifier) *Node {
	return &Node{
		Symbol:     symbol,
		API:        schema.APICore,
		Identifier: id,
		Constants:  map[string]int{},
		properties: map[string]*Property{},
		methods:    map[string]*Method{},
	}
}

// Parent returns the parent identifier, if any
func (n *Node) Parent() (Identifier, bool) {
	return n.parent, n.hasParent
}

// Children returns the identifiers of the direct subclasses
func (n *Node) Children() []Identifier {
	return slices.Clone(n.children)
}

// IsLeaf reports whether no class inherits from n
func (n *Node) IsLeaf() bool {
	return len(n.children) == 0
}

func (n *Node) append(child *Node) {
	child.parent = n.Identifier
	child.hasParent = true
	n.children = append(n.children, child.Identifier)
}

// AttachProperty adds a property. A symbol may only be attached once.
func (n *Node) AttachProperty(p Property) error {
	if _, exists := n.properties[p.Symbol]; exists {
		return fmt.Errorf("%w: property '%s.%s'", ErrDuplicateMember, n.Symbol, p.Symbol)
	}
	n.properties[p.Symbol] = &p
	return nil
}

// AttachMethod adds a method. A symbol may only be attached once.
func (n *Node) AttachMethod(m Method) error {
	if _, exists := n.methods[m.Symbol]; exists {
		return fmt.Errorf("%w: method '%s.%s'", ErrDuplicateMember, n.Symbol, m.Symbol)
	}
	n.methods[m.Symbol] = &m
	return nil
}

// Property returns a copy of the property with the given symbol
func (n *Node) Property(symbol string) (Property, bool) {
	p, ok := n.properties[symbol]
	if !ok {
		return Property{}, false
	}
	return *p, true
}

// Method returns a copy of the method with the given symbol
func (n *Node) Method(symbol string) (Method, bool) {
	m, ok := n.methods[symbol]
	if !ok {
		return Method{}, false
	}
	return *m, true
}

// Properties returns the attached properties sorted by symbol
func (n *Node) Properties() []Property {
	result := make([]Property, 0, len(n.properties))
	for _, symbol := range slices.Sorted(maps.Keys(n.properties)) {
		result = append(result, *n.properties[symbol])
	}
	return result
}

// Methods returns the attached methods sorted by symbol
func (n *Node) Methods() []Method {
	result := make([]Method, 0, len(n.methods))
	for _, symbol := range slices.Sorted(maps.Keys(n.methods)) {
		result = append(result, *n.methods[symbol])
	}
	return result
}
