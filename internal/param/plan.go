package param

import (
	"fmt"
	"slices"
	"strconv"
)

// DefaultGenericPrefix names synthesized generic parameters T0, T1, ...
const DefaultGenericPrefix = "T"

// Plan is the generic signature of one member
type Plan struct {
	Body        []Form
	Tail        Form
	Generics    []string
	Constraints []string
}

// Names returns a generic parameter namer using prefix followed by the index
func Names(prefix string) func(int) string {
	return func(i int) string {
		return prefix + strconv.Itoa(i)
	}
}

// Parameterize binds body (the arguments, in order) and then tail (the
// result or property value) to forms. Every narrowed or generic shape takes
// the next generic parameter. Constraints are listed once, in the order they
// first appear. The output depends only on the input shapes and name.
func Parameterize(body []Shape, tail Shape, name func(int) string) Plan {
	counter := 0
	next := func() string {
		generic := name(counter)
		counter++
		return generic
	}

	plan := Plan{Body: make([]Form, len(body))}
	for i, shape := range body {
		plan.Body[i] = bind(shape, next)
	}
	plan.Tail = bind(tail, next)

	plan.Generics = make([]string, counter)
	for i := range counter {
		plan.Generics[i] = name(i)
	}

	plan.Constraints = []string{}
	for _, form := range append(slices.Clone(plan.Body), plan.Tail) {
		if constraint, ok := form.Constraint(); ok && !slices.Contains(plan.Constraints, constraint) {
			plan.Constraints = append(plan.Constraints, constraint)
		}
	}

	return plan
}

func bind(shape Shape, next func() string) Form {
	switch shape := shape.(type) {
	case Concrete:
		return ConcreteForm{Type: shape.Type}
	case Narrowed:
		generic := next()
		return NarrowedForm{
			Scalar:  shape.Scalar,
			Wire:    fmt.Sprintf(shape.Wrapper, shape.Scalar),
			Generic: fmt.Sprintf(shape.Wrapper, generic),
			Bound:   fmt.Sprintf(shape.Constraint, generic),
		}
	case Generic:
		generic := next()
		return GenericForm{
			Type:  fmt.Sprintf(shape.Wrapper, generic),
			Bound: fmt.Sprintf(shape.Constraint, generic),
		}
	case Enumeration:
		return EnumerationForm{Type: shape.Type}
	case Variant:
		return VariantForm{}
	default:
		panic(fmt.Sprintf("param: unknown shape %T", shape))
	}
}
