package definition

import (
	"fmt"
	"maps"
	"slices"

	"github.com/okra-platform/nativegen/internal/param"
	"github.com/okra-platform/nativegen/internal/tree"
)

// Options controls how definitions are spelled
type Options struct {
	// Module qualifies generated type names
	Module string

	// GenericPrefix prefixes synthesized generic parameter names
	GenericPrefix string
}

func (o Options) withDefaults() Options {
	if o.Module == "" {
		o.Module = tree.DefaultModule
	}
	if o.GenericPrefix == "" {
		o.GenericPrefix = param.DefaultGenericPrefix
	}
	return o
}

// Build walks the forest parents first and computes the definition of every
// class and member. The forest is only read.
func Build(forest *tree.Forest, opts Options) *Model {
	opts = opts.withDefaults()
	names := param.Names(opts.GenericPrefix)

	model := &Model{
		Module:      opts.Module,
		Classes:     []Class{},
		Diagnostics: []tree.Diagnostic{},
	}

	for _, node := range forest.Preorder() {
		model.Classes = append(model.Classes, buildClass(forest, node, opts.Module, names))
	}

	return model
}

func buildClass(forest *tree.Forest, node *tree.Node, module string, names func(int) string) Class {
	qualified := node.Identifier.Qualified(module)

	class := Class{
		Symbol:       node.Symbol,
		Name:         node.Identifier.Name.String(),
		Namespace:    node.Identifier.Namespace.String(),
		Qualified:    qualified,
		API:          string(node.API),
		Instantiable: node.Flags.Instantiable,
		Singleton:    node.Flags.Singleton,
		Managed:      node.Flags.Managed,
		Depth:        forest.Depth(node),
		Constants:    []Constant{},
		Enumerations: []Enumeration{},
		Properties:   []Property{},
		Methods:      []Method{},
	}

	if parent, ok := forest.Parent(node); ok {
		class.Parent = parent.Identifier.Qualified(module)
		class.Final = node.IsLeaf()
	}

	for _, name := range slices.Sorted(maps.Keys(node.Constants)) {
		class.Constants = append(class.Constants, Constant{Name: name, Value: node.Constants[name]})
	}

	for _, enum := range node.Enumerations {
		generated := Enumeration{
			Symbol:    enum.Symbol,
			Name:      enum.Name.String(),
			Qualified: qualified + "." + enum.Name.String(),
			Cases:     make([]Case, len(enum.Cases)),
		}
		for i, c := range enum.Cases {
			generated.Cases[i] = Case{Name: c.Name.Camelcased(), Value: c.Value}
		}
		class.Enumerations = append(class.Enumerations, generated)
	}

	for _, p := range node.Properties() {
		class.Properties = append(class.Properties, buildProperty(p, names))
	}
	for _, m := range node.Methods() {
		class.Methods = append(class.Methods, buildMethod(m, names))
	}

	return class
}

func modifiers(final, override bool) []string {
	result := []string{}
	if final {
		result = append(result, "final")
	}
	if override {
		result = append(result, "override")
	}
	return result
}

func buildProperty(p tree.Property, names func(int) string) Property {
	plan := param.Parameterize(nil, param.Of(p.Type), names)

	property := Property{
		Signature: Signature{Generics: plan.Generics, Constraints: plan.Constraints},
		Symbol:    p.Symbol,
		Name:      p.Name(),
		Modifiers: modifiers(p.Final, p.Override),
		Canonical: param.Canonical(p.Type),
		Outer:     plan.Tail.Outer(),
		Inner:     plan.Tail.Inner(),
		Index:     p.Index,
		Getter:    p.Getter.Name(),
		Result:    param.ResultExpression(plan.Tail, "result"),
	}

	if p.Setter != nil {
		property.Setter = p.Setter.Name()
		property.Argument = param.ArgumentExpression(plan.Tail, "value")
	}

	return property
}

func buildMethod(m tree.Method, names func(int) string) Method {
	body := make([]param.Shape, len(m.Parameters))
	for i, parameter := range m.Parameters {
		body[i] = param.Of(parameter.Type)
	}
	plan := param.Parameterize(body, param.Of(m.Return), names)

	method := Method{
		Signature:  Signature{Generics: plan.Generics, Constraints: plan.Constraints},
		Symbol:     m.Symbol,
		Name:       m.Name(),
		Modifiers:  modifiers(m.Final, m.Override),
		Hidden:     m.Hidden,
		Const:      m.Qualifiers.Const,
		Variadic:   m.Qualifiers.Variadic,
		EditorOnly: m.Qualifiers.EditorOnly,
		NoScript:   m.Qualifiers.NoScript,
		Virtual:    m.Qualifiers.VirtualAnnotated,
		Parameters: make([]Parameter, len(m.Parameters)),
		Return: Return{
			Outer: plan.Tail.Outer(),
			Inner: plan.Tail.Inner(),
		},
	}

	for i, parameter := range m.Parameters {
		name := fmt.Sprintf("t%d", i)
		method.Parameters[i] = Parameter{
			Label:      parameter.Label,
			Name:       name,
			Outer:      plan.Body[i].Outer(),
			Inner:      plan.Body[i].Inner(),
			Default:    parameter.Default,
			Expression: param.ArgumentExpression(plan.Body[i], name),
		}
	}

	if !param.IsVoid(plan.Tail) {
		method.Return.Expression = param.ResultExpression(plan.Tail, "result")
	}

	return method
}

// FromResult builds the model of a tree build and carries its diagnostics along
func FromResult(result *tree.Result, opts Options) *Model {
	model := Build(result.Forest, opts)
	model.Diagnostics = append(model.Diagnostics, result.Diagnostics...)
	return model
}

// Class returns the class generated from the given schema name
func (m *Model) Class(symbol string) (*Class, bool) {
	for i := range m.Classes {
		if m.Classes[i].Symbol == symbol {
			return &m.Classes[i], true
		}
	}
	return nil, false
}
