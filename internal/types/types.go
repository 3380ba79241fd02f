// Package types defines the closed set of semantic types a schema type name
// resolves to, and the symbol table that performs the resolution.
package types

import "fmt"

// Kind tags a KnownType
type Kind int

const (
	Void Kind = iota
	Bool
	Int
	Float
	Vector2
	Vector3
	Vector4
	Quaternion
	Plane
	Rect2
	Rect3
	Affine2
	Affine3
	Linear3
	ResourceID
	List
	Map
	NodePath
	String
	UInt8Array
	Int32Array
	Float32Array
	StringArray
	Vector2Array
	Vector3Array
	Vector4Array
	Object
	Enumeration
	Variant
)

var kindNames = [...]string{
	Void:         "void",
	Bool:         "bool",
	Int:          "int",
	Float:        "float",
	Vector2:      "vector2",
	Vector3:      "vector3",
	Vector4:      "vector4",
	Quaternion:   "quaternion",
	Plane:        "plane",
	Rect2:        "rect2",
	Rect3:        "rect3",
	Affine2:      "affine2",
	Affine3:      "affine3",
	Linear3:      "linear3",
	ResourceID:   "resource-id",
	List:         "list",
	Map:          "map",
	NodePath:     "node-path",
	String:       "string",
	UInt8Array:   "uint8-array",
	Int32Array:   "int32-array",
	Float32Array: "float32-array",
	StringArray:  "string-array",
	Vector2Array: "vector2-array",
	Vector3Array: "vector3-array",
	Vector4Array: "vector4-array",
	Object:       "object",
	Enumeration:  "enumeration",
	Variant:      "variant",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// KnownType is a resolved schema type. Name is only set for Object and
// Enumeration, where it holds the qualified generated type name.
type KnownType struct {
	Kind Kind   `json:"kind"`
	Name string `json:"name,omitempty"`
}

// Of returns the known type for a kind without a name
func Of(kind Kind) KnownType {
	return KnownType{Kind: kind}
}

// ObjectType returns the object type with the given qualified name
func ObjectType(name string) KnownType {
	return KnownType{Kind: Object, Name: name}
}

// EnumerationType returns the enumeration type with the given qualified name
func EnumerationType(name string) KnownType {
	return KnownType{Kind: Enumeration, Name: name}
}

func (t KnownType) String() string {
	if t.Name == "" {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", t.Kind, t.Name)
}

// Compatible reports whether a value of type t can stand in for other.
// Beyond exact equality, a plain integer may stand in for an enumeration,
// never the reverse.
func (t KnownType) Compatible(other KnownType) bool {
	if t == other {
		return true
	}
	return t.Kind == Int && other.Kind == Enumeration
}
