package tree

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/rs/zerolog"

	"github.com/okra-platform/nativegen/internal/schema"
	"github.com/okra-platform/nativegen/internal/types"
	"github.com/okra-platform/nativegen/internal/words"
)

// DefaultModule is the module name generated types are qualified with
const DefaultModule = "Godot"

// Schema names of the two classes with special roles in the hierarchy
const (
	delegateRootClass  = "Object"
	referenceRootClass = "Reference"
)

// The two root identities, computed once so every comparison site agrees
// with the normalization rules in effect.
var (
	DelegateRoot  = Identifier{Namespace: Root, Name: words.Parse("AnyDelegate")}
	ReferenceRoot = Identifier{Namespace: Root, Name: words.Parse("AnyObject")}
)

// classRenames replaces schema class names that collide with generated names
var classRenames = map[string]string{
	delegateRootClass:  "AnyDelegate",
	referenceRootClass: "AnyObject",
	"NativeScript":     "NativeScriptDelegate",
}

// enumerationRenames replaces enum names that would factor down to nothing useful
var enumerationRenames = map[[2]string]string{
	{"VisualShader", "Type"}: "Shader",
	{"IP", "Type"}:           "Version",
}

// Options configures a build
type Options struct {
	// Module qualifies every generated type name
	Module string

	// Logger receives warnings for dropped members
	Logger zerolog.Logger
}

// Builder turns class records into a linked, override-resolved forest
type Builder struct {
	module  string
	logger  zerolog.Logger
	records map[string]*schema.Class
	classes []schema.Class
	table   *types.Table
	forest  *Forest

	diagnostics []Diagnostic
}

// NewBuilder creates a builder over the given class records
func NewBuilder(classes []schema.Class, opts Options) *Builder {
	module := opts.Module
	if module == "" {
		module = DefaultModule
	}

	return &Builder{
		module:  module,
		logger:  opts.Logger,
		classes: classes,
		records: make(map[string]*schema.Class, len(classes)),
		table:   types.NewTable(),
		forest:  newForest(),
	}
}

// Build runs every pass over the class records and returns the finished forest
func Build(classes []schema.Class, opts Options) (*Result, error) {
	return NewBuilder(classes, opts).Build()
}

// Build runs the passes in order: hierarchy checks, node creation, type
// registration, member attachment, linking and override propagation.
func (b *Builder) Build() (*Result, error) {
	if err := schema.Validate(b.classes); err != nil {
		return nil, err
	}

	for i := range b.classes {
		b.records[b.classes[i].Name] = &b.classes[i]
	}

	root, err := b.checkHierarchy()
	if err != nil {
		return nil, err
	}

	for i := range b.classes {
		if err := b.forest.add(b.newNode(&b.classes[i])); err != nil {
			return nil, err
		}
	}

	if err := b.register(); err != nil {
		return nil, err
	}

	for i := range b.classes {
		class := &b.classes[i]
		node, _ := b.forest.Lookup(class.Name)
		if err := b.attachMembers(class, node); err != nil {
			return nil, err
		}
	}

	b.link(root)

	virtualized := b.forest.virtualize()

	b.logger.Debug().
		Int("classes", b.forest.Len()).
		Int("types", b.table.Len()).
		Int("virtualized", virtualized).
		Int("dropped", len(b.diagnostics)).
		Msg("built class tree")

	return &Result{
		Forest:      b.forest,
		Types:       b.table,
		Diagnostics: b.diagnostics,
	}, nil
}

// checkHierarchy verifies there is exactly one root, every parent exists
// and no parent chain loops. It returns the root's schema name.
func (b *Builder) checkHierarchy() (string, error) {
	var roots []string
	for _, class := range b.classes {
		if class.Parent == "" {
			roots = append(roots, class.Name)
			continue
		}
		if _, ok := b.records[class.Parent]; !ok {
			return "", fmt.Errorf("%w: %q extends %q", ErrUnknownParent, class.Name, class.Parent)
		}
	}

	switch {
	case len(roots) == 0:
		return "", fmt.Errorf("%w: every class declares a parent", ErrMissingRoot)
	case len(roots) > 1:
		return "", fmt.Errorf("%w: %v", ErrMultipleRoots, roots)
	}

	if _, ok := b.records[delegateRootClass]; ok && roots[0] != delegateRootClass {
		return "", fmt.Errorf("%w: %q must be the root, found %q", ErrMissingRoot, delegateRootClass, roots[0])
	}

	for _, class := range b.classes {
		seen := map[string]bool{class.Name: true}
		for parent := class.Parent; parent != ""; parent = b.records[parent].Parent {
			if seen[parent] {
				return "", fmt.Errorf("%w: %q reaches itself through %q", ErrCycle, class.Name, parent)
			}
			seen[parent] = true
		}
	}

	return roots[0], nil
}

// className maps a schema class name to its normalized generated name
func className(symbol string) words.Words {
	if renamed, ok := classRenames[symbol]; ok {
		symbol = renamed
	}
	return words.Parse(symbol)
}

// enumerationName maps an enum name to its generated name inside scope
func enumerationName(symbol string, scope words.Words) words.Words {
	if renamed, ok := enumerationRenames[[2]string{scope.String(), symbol}]; ok {
		symbol = renamed
	}
	return words.Parse(symbol).Factor(scope)
}

func (b *Builder) newNode(class *schema.Class) *Node {
	var id Identifier
	var flags Flags

	if class.Singleton == "" {
		name := className(class.Name)
		// The reference root is managed even though its record says otherwise
		managed := class.Managed || name.Equal(ReferenceRoot.Name)

		namespace := Unmanaged
		if managed || name.Equal(DelegateRoot.Name) {
			namespace = Root
		}

		id = Identifier{Namespace: namespace, Name: name}
		flags = Flags{Instantiable: class.Instantiable, Managed: managed}
	} else {
		// Singletons are imported as unmanaged regardless of their declared base
		id = Identifier{Namespace: Singleton, Name: className(class.Singleton)}
		flags = Flags{Singleton: true}
	}

	node := newNode(class.Name, id)
	node.API = class.Tier()
	node.Flags = flags
	maps.Copy(node.Constants, class.Constants)
	node.Enumerations = enumerations(class.Enumerations, id.Name)
	return node
}

func enumerations(declared []schema.Enumeration, scope words.Words) []Enumeration {
	result := make([]Enumeration, 0, len(declared))
	for _, enum := range declared {
		symbols := slices.SortedFunc(maps.Keys(enum.Cases), func(a, b string) int {
			return cmp.Or(cmp.Compare(enum.Cases[a], enum.Cases[b]), cmp.Compare(a, b))
		})

		names := make([]words.Words, len(symbols))
		for i, symbol := range symbols {
			names[i] = words.SplitSnake(symbol).Normalize()
		}

		prefix := words.GreatestCommonPrefix(names)
		cases := make([]Case, len(symbols))
		for i, symbol := range symbols {
			cases[i] = Case{Name: names[i].Factor(prefix), Value: enum.Cases[symbol]}
		}

		result = append(result, Enumeration{
			Symbol: enum.Name,
			Name:   enumerationName(enum.Name, scope),
			Cases:  cases,
		})
	}
	return result
}

// register seeds the type table with one object type per class and one
// enumeration type per declared enum.
func (b *Builder) register() error {
	for _, class := range b.classes {
		node, _ := b.forest.Lookup(class.Name)
		scope := node.Identifier.Qualified(b.module)

		if err := b.table.RegisterObject(class.Name, scope); err != nil {
			return fmt.Errorf("failed to register class %q: %w", class.Name, err)
		}

		for _, enum := range node.Enumerations {
			qualified := scope + "." + enum.Name.String()
			if err := b.table.RegisterEnumeration(class.Name, enum.Symbol, qualified); err != nil {
				return fmt.Errorf("failed to register enum %q of %q: %w", enum.Symbol, class.Name, err)
			}
		}
	}
	return nil
}

// link appends every node to its parent. Children are appended in
// identifier order so generated output is stable.
func (b *Builder) link(root string) {
	rootNode, _ := b.forest.Lookup(root)
	b.forest.root = rootNode.Identifier

	nodes := make([]*Node, 0, b.forest.Len())
	for _, class := range b.classes {
		node, _ := b.forest.Lookup(class.Name)
		nodes = append(nodes, node)
	}
	slices.SortStableFunc(nodes, func(x, y *Node) int {
		return cmp.Or(
			cmp.Compare(x.Identifier.Name.String(), y.Identifier.Name.String()),
			cmp.Compare(x.Identifier.Namespace, y.Identifier.Namespace),
		)
	})

	for _, node := range nodes {
		parentSymbol := b.records[node.Symbol].Parent
		if parentSymbol == "" {
			continue
		}
		parent, _ := b.forest.Lookup(parentSymbol)
		parent.append(node)
	}
}

// report records a dropped member and logs it
func (b *Builder) report(class string, kind MemberKind, member, reason string) {
	d := Diagnostic{Class: class, Member: member, Kind: kind, Reason: reason}
	b.diagnostics = append(b.diagnostics, d)

	b.logger.Warn().
		Str("class", class).
		Str(string(kind), member).
		Str("reason", reason).
		Msgf("skipping %s", kind)
}
