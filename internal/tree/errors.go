package tree

import (
	"errors"
	"fmt"
)

var (
	// Hierarchy errors
	ErrMissingRoot         = errors.New("missing root class")
	ErrMultipleRoots       = errors.New("more than one root class")
	ErrUnknownParent       = errors.New("unknown parent class")
	ErrCycle               = errors.New("inheritance cycle")
	ErrDuplicateIdentifier = errors.New("duplicate class identifier")

	// Member errors
	ErrDuplicateMember = errors.New("duplicate member")
	ErrAccessorArity   = errors.New("malformed accessor")
	ErrMissingSetter   = errors.New("could not find setter")
	ErrAccessorType    = errors.New("getter type does not match setter type")
	ErrOverrideType    = errors.New("override type does not match base type")
)

// MemberKind distinguishes properties from methods in diagnostics
type MemberKind string

const (
	KindProperty MemberKind = "property"
	KindMethod   MemberKind = "method"
)

// Diagnostic records a member that was dropped while the run continued
type Diagnostic struct {
	Class  string     `json:"class"`
	Member string     `json:"member"`
	Kind   MemberKind `json:"kind"`
	Reason string     `json:"reason"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("skipping %s '%s.%s' (%s)", d.Kind, d.Class, d.Member, d.Reason)
}
