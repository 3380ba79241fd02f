package param

import (
	"errors"
	"fmt"
	"math"
)

// ErrWireType is returned when a wire value does not match its scalar
var ErrWireType = errors.New("wire value has the wrong type")

// Scalar is the fixed wire representation behind a narrowed type
type Scalar int

const (
	Int64 Scalar = iota
	Float64
	Float32
)

func (s Scalar) String() string {
	switch s {
	case Int64:
		return "Int64"
	case Float64:
		return "Float64"
	case Float32:
		return "Float32"
	default:
		return fmt.Sprintf("Scalar(%d)", int(s))
	}
}

// MarshalText spells the scalar by name in dumps
func (s Scalar) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// InRange reports whether v survives conversion to the wire representation
// unchanged.
func (s Scalar) InRange(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}

	switch s {
	case Int64:
		return v == math.Trunc(v) && v >= math.MinInt64 && v < math.MaxInt64
	case Float64:
		return true
	case Float32:
		return math.Abs(v) <= math.MaxFloat32 && float64(float32(v)) == v
	default:
		return false
	}
}

// ToWire converts v to the wire representation: int64, float64 or float32
func (s Scalar) ToWire(v float64) any {
	switch s {
	case Int64:
		return int64(v)
	case Float32:
		return float32(v)
	default:
		return v
	}
}

// FromWire converts a wire value produced by ToWire back
func (s Scalar) FromWire(w any) (float64, error) {
	switch w := w.(type) {
	case int64:
		if s == Int64 {
			return float64(w), nil
		}
	case float64:
		if s == Float64 {
			return w, nil
		}
	case float32:
		if s == Float32 {
			return float64(w), nil
		}
	}
	return 0, fmt.Errorf("%w: %T for %s", ErrWireType, w, s)
}
