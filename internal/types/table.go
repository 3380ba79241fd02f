package types

import (
	"errors"
	"fmt"
	"maps"
	"strings"
)

// ErrDuplicateType is returned when two declarations claim the same schema type name
var ErrDuplicateType = errors.New("duplicate type registration")

// enumPrefix is how the schema spells enum-typed slots, e.g. `enum.Node::PauseMode`
const enumPrefix = "enum."

// builtins maps the engine's built-in schema type names to their known types
var builtins = map[string]KnownType{
	"void":    Of(Void),
	"bool":    Of(Bool),
	"int":     Of(Int),
	"float":   Of(Float),
	"Vector2": Of(Vector2),
	"Vector3": Of(Vector3),
	"Color":   Of(Vector4),

	"Quat":        Of(Quaternion),
	"Plane":       Of(Plane),
	"Rect2":       Of(Rect2),
	"AABB":        Of(Rect3),
	"Transform2D": Of(Affine2),
	"Transform":   Of(Affine3),
	"Basis":       Of(Linear3),
	"RID":         Of(ResourceID),

	"NodePath":   Of(NodePath),
	"String":     Of(String),
	"Array":      Of(List),
	"Dictionary": Of(Map),

	"PoolByteArray":    Of(UInt8Array),
	"PoolIntArray":     Of(Int32Array),
	"PoolRealArray":    Of(Float32Array),
	"PoolStringArray":  Of(StringArray),
	"PoolVector2Array": Of(Vector2Array),
	"PoolVector3Array": Of(Vector3Array),
	"PoolColorArray":   Of(Vector4Array),

	"Variant": Of(Variant),
}

// Table maps schema type names to known types
type Table struct {
	types map[string]KnownType
}

// NewTable creates a symbol table seeded with the built-in types
func NewTable() *Table {
	return &Table{
		types: maps.Clone(builtins),
	}
}

// Register adds a schema type name. Registering a name twice is a schema
// contract violation.
func (t *Table) Register(symbol string, typ KnownType) error {
	if existing, exists := t.types[symbol]; exists {
		return fmt.Errorf("%w: %q already resolves to %s", ErrDuplicateType, symbol, existing)
	}
	t.types[symbol] = typ
	return nil
}

// RegisterObject registers a class by schema name
func (t *Table) RegisterObject(class, qualified string) error {
	return t.Register(class, ObjectType(qualified))
}

// RegisterEnumeration registers an enumeration declared on owner
func (t *Table) RegisterEnumeration(owner, name, qualified string) error {
	return t.Register(EnumerationKey(owner, name), EnumerationType(qualified))
}

// EnumerationKey returns the table key of an enumeration declared on a class
func EnumerationKey(owner, name string) string {
	return owner + "::" + name
}

// Lookup resolves a schema type name
func (t *Table) Lookup(symbol string) (KnownType, bool) {
	typ, ok := t.types[strings.TrimPrefix(symbol, enumPrefix)]
	return typ, ok
}

// Len returns the number of registered names
func (t *Table) Len() int {
	return len(t.types)
}
