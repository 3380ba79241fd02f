package tree

import (
	"fmt"
	"iter"
	"regexp"
	"strings"

	"github.com/okra-platform/nativegen/internal/schema"
	"github.com/okra-platform/nativegen/internal/types"
	"github.com/okra-platform/nativegen/internal/words"
)

// hiddenMethods lists lifecycle methods registered but never exposed
var hiddenMethods = []struct {
	owner  Identifier
	symbol string
}{
	{owner: DelegateRoot, symbol: "emit_signal"},
	{owner: ReferenceRoot, symbol: "reference"},
	{owner: ReferenceRoot, symbol: "unreference"},
}

func isHiddenMethod(owner Identifier, symbol string) bool {
	for _, hidden := range hiddenMethods {
		if hidden.symbol == symbol && hidden.owner.Equal(owner) {
			return true
		}
	}
	return false
}

var positional = regexp.MustCompile(`^arg[0-9]+$`)

// Label returns the argument label for a schema argument name. Positional
// names like arg0 have no label.
func Label(name string) string {
	if positional.MatchString(name) {
		return "_"
	}
	return words.SplitSnake(name).Camelcased()
}

// ancestors yields the raw records above class, nearest first
func (b *Builder) ancestors(class *schema.Class) iter.Seq[*schema.Class] {
	return func(yield func(*schema.Class) bool) {
		for parent := class.Parent; parent != ""; {
			record := b.records[parent]
			if !yield(record) {
				return
			}
			parent = record.Parent
		}
	}
}

// findMethod looks a method up in class and then in its ancestors
func (b *Builder) findMethod(class *schema.Class, symbol string) (*schema.Method, *schema.Class, bool) {
	if m, ok := declaredMethod(class, symbol); ok {
		return m, class, true
	}
	for ancestor := range b.ancestors(class) {
		if m, ok := declaredMethod(ancestor, symbol); ok {
			return m, ancestor, true
		}
	}
	return nil, nil, false
}

func declaredMethod(class *schema.Class, symbol string) (*schema.Method, bool) {
	for i := range class.Methods {
		if class.Methods[i].Name == symbol {
			return &class.Methods[i], true
		}
	}
	return nil, false
}

func declaredProperty(class *schema.Class, symbol string) (*schema.Property, bool) {
	for i := range class.Properties {
		if class.Properties[i].Name == symbol {
			return &class.Properties[i], true
		}
	}
	return nil, false
}

func (b *Builder) attachMembers(class *schema.Class, node *Node) error {
	accessors := map[string]bool{}

	for _, declared := range class.Properties {
		property, ok, err := b.resolveProperty(class, declared)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		accessors[property.Getter.Symbol] = true
		if property.Setter != nil {
			accessors[property.Setter.Symbol] = true
		}

		if err := node.AttachProperty(property); err != nil {
			return err
		}
	}

	for _, declared := range class.Methods {
		method, ok := b.resolveMethod(class, node, declared)
		if !ok {
			continue
		}

		// Accessors stay registered so properties can reach them
		method.Hidden = method.Hidden || accessors[declared.Name]

		if err := node.AttachMethod(method); err != nil {
			return err
		}
	}

	return nil
}

// resolveProperty turns a declared property into a typed tree property.
// It returns false without an error when the property is dropped.
func (b *Builder) resolveProperty(class *schema.Class, declared schema.Property) (Property, bool, error) {
	if strings.Contains(declared.Name, "/") {
		b.report(class.Name, KindProperty, declared.Name, "name contains a path separator")
		return Property{}, false, nil
	}

	getter, _, ok := b.findMethod(class, declared.Getter)
	if !ok {
		b.report(class.Name, KindProperty, declared.Name, fmt.Sprintf("could not find getter '%s'", declared.Getter))
		return Property{}, false, nil
	}

	var setter *schema.Method
	if declared.Setter != "" {
		setter, _, ok = b.findMethod(class, declared.Setter)
		if !ok {
			return Property{}, false, fmt.Errorf("%w '%s' for property '%s.%s'", ErrMissingSetter, declared.Setter, class.Name, declared.Name)
		}
	}

	if err := checkArity(class.Name, declared, getter, setter); err != nil {
		return Property{}, false, err
	}

	if setter != nil && setter.Return != "void" {
		b.report(class.Name, KindProperty, declared.Name, fmt.Sprintf("setter '%s' returns '%s'", setter.Name, setter.Return))
		return Property{}, false, nil
	}

	value, ok := b.table.Lookup(getter.Return)
	if !ok {
		b.report(class.Name, KindProperty, declared.Name, fmt.Sprintf("unknown type '%s'", getter.Return))
		return Property{}, false, nil
	}

	property := Property{
		Symbol: declared.Name,
		Getter: Accessor{Symbol: getter.Name},
		Type:   value,
		Final:  true,
	}

	if setter != nil {
		raw := setter.Arguments[len(setter.Arguments)-1].Type
		assigned, ok := b.table.Lookup(raw)
		if !ok {
			b.report(class.Name, KindProperty, declared.Name, fmt.Sprintf("unknown type '%s'", raw))
			return Property{}, false, nil
		}
		// An enum getter is allowed to pair with a setter taking int
		if !assigned.Compatible(value) {
			return Property{}, false, fmt.Errorf("%w: property '%s.%s' reads %s but writes %s", ErrAccessorType, class.Name, declared.Name, value, assigned)
		}
		property.Setter = &Accessor{Symbol: setter.Name}
	}

	if declared.Indexed() {
		index := declared.Index
		property.Index = &index
	}

	if base, owner, ok := b.uptrackProperty(class, declared.Name); ok {
		property.Override = true
		if baseType, known := b.propertyType(owner, base); known && !value.Compatible(baseType) {
			return Property{}, false, fmt.Errorf("%w: property '%s.%s' is %s but '%s.%s' is %s",
				ErrOverrideType, class.Name, declared.Name, value, owner.Name, base.Name, baseType)
		}
	}

	return property, true, nil
}

// checkArity validates accessor argument counts against the property index
func checkArity(class string, declared schema.Property, getter, setter *schema.Method) error {
	getterArity, setterArity := 0, 1
	if declared.Indexed() {
		getterArity, setterArity = 1, 2
	}

	malformed := func(accessor *schema.Method, want int) error {
		return fmt.Errorf("%w: '%s' for property '%s.%s' takes %d arguments, expected %d",
			ErrAccessorArity, accessor.Name, class, declared.Name, len(accessor.Arguments), want)
	}

	if len(getter.Arguments) != getterArity {
		return malformed(getter, getterArity)
	}
	if declared.Indexed() && getter.Arguments[0].Type != "int" {
		return fmt.Errorf("%w: '%s' for property '%s.%s' takes a '%s' index", ErrAccessorArity, getter.Name, class, declared.Name, getter.Arguments[0].Type)
	}

	if setter == nil {
		return nil
	}
	if len(setter.Arguments) != setterArity {
		return malformed(setter, setterArity)
	}
	if declared.Indexed() && setter.Arguments[0].Type != "int" {
		return fmt.Errorf("%w: '%s' for property '%s.%s' takes a '%s' index", ErrAccessorArity, setter.Name, class, declared.Name, setter.Arguments[0].Type)
	}
	return nil
}

// uptrackProperty finds the nearest ancestor declaring the same property
func (b *Builder) uptrackProperty(class *schema.Class, symbol string) (*schema.Property, *schema.Class, bool) {
	for ancestor := range b.ancestors(class) {
		if p, ok := declaredProperty(ancestor, symbol); ok {
			return p, ancestor, true
		}
	}
	return nil, nil, false
}

// propertyType resolves the value type of a property declared on owner
func (b *Builder) propertyType(owner *schema.Class, declared *schema.Property) (types.KnownType, bool) {
	getter, _, ok := b.findMethod(owner, declared.Getter)
	if !ok {
		return types.KnownType{}, false
	}
	return b.table.Lookup(getter.Return)
}

// resolveMethod turns a declared method into a typed tree method.
// It returns false when the method is dropped.
func (b *Builder) resolveMethod(class *schema.Class, node *Node, declared schema.Method) (Method, bool) {
	result, ok := b.table.Lookup(declared.Return)
	if !ok {
		b.report(class.Name, KindMethod, declared.Name, fmt.Sprintf("unknown return type '%s'", declared.Return))
		return Method{}, false
	}

	parameters := make([]Parameter, len(declared.Arguments))
	for i, argument := range declared.Arguments {
		typ, ok := b.table.Lookup(argument.Type)
		if !ok {
			b.report(class.Name, KindMethod, declared.Name, fmt.Sprintf("unknown type '%s' for argument '%s'", argument.Type, argument.Name))
			return Method{}, false
		}
		parameters[i] = Parameter{Label: Label(argument.Name), Type: typ, Default: argument.Default}
	}

	method := Method{
		Symbol:     declared.Name,
		Parameters: parameters,
		Return:     result,
		Final:      true,
		Hidden:     isHiddenMethod(node.Identifier, declared.Name),
		Qualifiers: Qualifiers{
			Const:            declared.Const,
			Variadic:         declared.Variadic,
			EditorOnly:       declared.EditorOnly,
			NoScript:         declared.NoScript,
			VirtualAnnotated: declared.Virtual,
		},
	}

	for ancestor := range b.ancestors(class) {
		base, ok := declaredMethod(ancestor, declared.Name)
		if !ok {
			continue
		}

		if len(base.Arguments) != len(declared.Arguments) {
			b.report(class.Name, KindMethod, declared.Name, fmt.Sprintf("overrides '%s.%s' with %d arguments instead of %d",
				ancestor.Name, base.Name, len(declared.Arguments), len(base.Arguments)))
			return Method{}, false
		}

		// Overrides keep the labels callers already use
		for i, argument := range base.Arguments {
			method.Parameters[i].Label = Label(argument.Name)
		}
		method.Override = true
		break
	}

	return method, true
}
