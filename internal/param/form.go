package param

import "fmt"

// Form is a shape bound to a generic parameter name, if it needed one.
// It is one of ConcreteForm, NarrowedForm, GenericForm, EnumerationForm or
// VariantForm.
type Form interface {
	// Outer is the type callers see
	Outer() string
	// Inner is the type that crosses the wire
	Inner() string
	// Constraint is the generic requirement the form adds, if any
	Constraint() (string, bool)
}

type ConcreteForm struct {
	Type string `json:"type"`
}

type NarrowedForm struct {
	Scalar  Scalar `json:"scalar"`
	Wire    string `json:"wire"`
	Generic string `json:"generic"`
	Bound   string `json:"constraint"`
}

type GenericForm struct {
	Type  string `json:"type"`
	Bound string `json:"constraint"`
}

type EnumerationForm struct {
	Type string `json:"type"`
}

type VariantForm struct{}

const (
	variantOuter = "Godot.Variant?"
	variantInner = "Godot.VariantExistential"
	backingInner = "Int64"
)

func (f ConcreteForm) Outer() string { return f.Type }
func (f ConcreteForm) Inner() string { return f.Type }
func (ConcreteForm) Constraint() (string, bool) { return "", false }
func (f NarrowedForm) Outer() string { return f.Generic }
func (f NarrowedForm) Inner() string { return f.Wire }
func (f NarrowedForm) Constraint() (string, bool) { return f.Bound, true }
func (f GenericForm) Outer() string { return f.Type }
func (f GenericForm) Inner() string { return f.Type }
func (f GenericForm) Constraint() (string, bool) { return f.Bound, true }
func (f EnumerationForm) Outer() string { return f.Type }
func (EnumerationForm) Inner() string { return backingInner }
func (EnumerationForm) Constraint() (string, bool) { return "", false }
func (VariantForm) Outer() string { return variantOuter }
func (VariantForm) Inner() string { return variantInner }
func (VariantForm) Constraint() (string, bool) { return "", false }

// IsVoid reports whether the form is the empty tuple
func IsVoid(f Form) bool {
	c, ok := f.(ConcreteForm)
	return ok && c.Type == "()"
}

// ArgumentExpression converts an outer-typed argument to its wire type
func ArgumentExpression(f Form, argument string) string {
	switch f := f.(type) {
	case ConcreteForm, GenericForm:
		return argument
	case NarrowedForm:
		return fmt.Sprintf("%s.init(%s)", f.Wire, argument)
	case EnumerationForm:
		return argument + ".value"
	case VariantForm:
		return fmt.Sprintf("%s.init(variant: %s)", variantInner, argument)
	default:
		panic(fmt.Sprintf("param: unknown form %T", f))
	}
}

// ResultExpression converts a wire-typed result back to its outer type
func ResultExpression(f Form, result string) string {
	switch f := f.(type) {
	case ConcreteForm, GenericForm:
		return result
	case NarrowedForm:
		return fmt.Sprintf("%s.init(%s)", f.Generic, result)
	case EnumerationForm:
		return fmt.Sprintf("%s.init(value: %s)", f.Type, result)
	case VariantForm:
		return result + ".variant"
	default:
		panic(fmt.Sprintf("param: unknown form %T", f))
	}
}
