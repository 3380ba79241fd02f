// Package param computes the generic signature and conversion expressions
// a binding uses for each resolved member type.
package param

import (
	"fmt"

	"github.com/okra-platform/nativegen/internal/types"
)

// Shape describes how a known type is exposed in a generated signature.
// It is one of Concrete, Narrowed, Generic, Enumeration or Variant.
type Shape interface {
	isShape()
}

// Concrete types are passed as-is
type Concrete struct {
	Type string
}

// Narrowed types are exposed through a fresh generic parameter and cross the
// wire as a fixed scalar representation. Wrapper and Constraint are format
// strings taking the generic parameter (or the scalar) as %[1]s.
type Narrowed struct {
	Scalar     Scalar
	Wrapper    string
	Constraint string
}

// Generic types are exposed through a fresh generic parameter whose
// associated raw value must equal a fixed reference type.
type Generic struct {
	Wrapper    string
	Constraint string
}

// Enumeration types cross the wire as their 64-bit backing value
type Enumeration struct {
	Type string
}

// Variant types cross the wire through the opaque existential adapter
type Variant struct{}

func (Concrete) isShape()    {}
func (Narrowed) isShape()    {}
func (Generic) isShape()     {}
func (Enumeration) isShape() {}
func (Variant) isShape()     {}

const (
	floatConstraint = "%[1]s:BinaryFloatingPoint & SIMDScalar"
	passable        = "%[1]s:Godot.Function.Passable, %[1]s.RawValue == %[2]s.RawValue"
)

func vector(wrapper string) Narrowed {
	return Narrowed{Scalar: Float32, Wrapper: wrapper, Constraint: floatConstraint}
}

func passableAs(reference string) Generic {
	return Generic{Wrapper: "%[1]s", Constraint: fmt.Sprintf(passable, "%[1]s", reference)}
}

// shapes holds the shape of every kind that carries no name
var shapes = map[types.Kind]Shape{
	types.Void:  Concrete{Type: "()"},
	types.Bool:  Concrete{Type: "Bool"},
	types.Int:   Narrowed{Scalar: Int64, Wrapper: "%[1]s", Constraint: "%[1]s:FixedWidthInteger"},
	types.Float: Narrowed{Scalar: Float64, Wrapper: "%[1]s", Constraint: "%[1]s:BinaryFloatingPoint"},

	types.Vector2:    vector("Vector2<%[1]s>"),
	types.Vector3:    vector("Vector3<%[1]s>"),
	types.Vector4:    vector("Vector4<%[1]s>"),
	types.Quaternion: Narrowed{Scalar: Float32, Wrapper: "Quaternion<%[1]s>", Constraint: "%[1]s:SIMDScalar & Numerics.Real & BinaryFloatingPoint"},
	types.Plane:      vector("Godot.Plane3<%[1]s>"),
	types.Rect2:      vector("Vector2<%[1]s>.Rectangle"),
	types.Rect3:      vector("Vector3<%[1]s>.Rectangle"),
	types.Affine2:    vector("Godot.Transform2<%[1]s>.Affine"),
	types.Affine3:    vector("Godot.Transform3<%[1]s>.Affine"),
	types.Linear3:    vector("Godot.Transform3<%[1]s>.Linear"),

	types.ResourceID: Concrete{Type: "Godot.ResourceIdentifier"},
	types.List:       Concrete{Type: "Godot.List"},
	types.Map:        Concrete{Type: "Godot.Map"},
	types.NodePath:   Concrete{Type: "Godot.NodePath"},

	types.String:       passableAs("Godot.String"),
	types.UInt8Array:   passableAs("Godot.Array<UInt8>"),
	types.Int32Array:   passableAs("Godot.Array<Int32>"),
	types.Float32Array: passableAs("Godot.Array<Float32>"),
	types.StringArray:  passableAs("Godot.Array<String>"),
	types.Vector2Array: passableAs("Godot.Array<Vector2<Float32>>"),
	types.Vector3Array: passableAs("Godot.Array<Vector3<Float32>>"),
	types.Vector4Array: passableAs("Godot.Array<Vector4<Float32>>"),

	types.Variant: Variant{},
}

// Of returns the shape of a known type
func Of(t types.KnownType) Shape {
	switch t.Kind {
	case types.Object:
		return Concrete{Type: t.Name + "?"}
	case types.Enumeration:
		return Enumeration{Type: t.Name}
	}

	shape, ok := shapes[t.Kind]
	if !ok {
		panic(fmt.Sprintf("param: no shape for %s", t))
	}
	return shape
}

// canonical spells the fully specialized form of each unnamed kind
var canonical = map[types.Kind]string{
	types.Void:         "()",
	types.Bool:         "Bool",
	types.Int:          "Int64",
	types.Float:        "Float64",
	types.Vector2:      "Vector2<Float32>",
	types.Vector3:      "Vector3<Float32>",
	types.Vector4:      "Vector4<Float32>",
	types.Quaternion:   "Quaternion<Float32>",
	types.Plane:        "Godot.Plane3<Float32>",
	types.Rect2:        "Vector2<Float32>.Rectangle",
	types.Rect3:        "Vector3<Float32>.Rectangle",
	types.Affine2:      "Godot.Transform2<Float32>.Affine",
	types.Affine3:      "Godot.Transform3<Float32>.Affine",
	types.Linear3:      "Godot.Transform3<Float32>.Linear",
	types.ResourceID:   "Godot.ResourceIdentifier",
	types.List:         "Godot.List",
	types.Map:          "Godot.Map",
	types.NodePath:     "Godot.NodePath",
	types.String:       "Godot.String",
	types.UInt8Array:   "Godot.Array<UInt8>",
	types.Int32Array:   "Godot.Array<Int32>",
	types.Float32Array: "Godot.Array<Float32>",
	types.StringArray:  "Godot.Array<Swift.String>",
	types.Vector2Array: "Godot.Array<Vector2<Float32>>",
	types.Vector3Array: "Godot.Array<Vector3<Float32>>",
	types.Vector4Array: "Godot.Array<Vector4<Float32>>",
	types.Variant:      "Godot.Variant?",
}

// Canonical returns the spelling of a known type with every generic
// parameter specialized to its wire representation.
func Canonical(t types.KnownType) string {
	switch t.Kind {
	case types.Object:
		return t.Name + "?"
	case types.Enumeration:
		return t.Name
	}

	spelling, ok := canonical[t.Kind]
	if !ok {
		panic(fmt.Sprintf("param: no canonical spelling for %s", t))
	}
	return spelling
}
