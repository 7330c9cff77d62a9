package dom

import (
	"cmp"
	"strconv"
	"strings"
)

// ScalarType discriminates value payloads.
type ScalarType int

const (
	NullScalar ScalarType = iota
	BoolScalar
	NumberScalar
	StringScalar
)

func (t ScalarType) String() string {
	switch t {
	case NullScalar:
		return "null"
	case BoolScalar:
		return "bool"
	case NumberScalar:
		return "number"
	case StringScalar:
		return "string"
	}
	return "<unknown scalar type>"
}

// Scalar is the immutable payload of a value node. Updates replace the
// payload wholesale via Node.SetValue; the fields are never mutated in
// place.
type Scalar struct {
	Type    ScalarType
	Str     string
	Bool    bool
	Int64   *int64
	Float64 *float64
}

func Null() Scalar {
	return Scalar{Type: NullScalar}
}

func String(v string) Scalar {
	return Scalar{Type: StringScalar, Str: v}
}

func Bool(v bool) Scalar {
	return Scalar{Type: BoolScalar, Bool: v}
}

func Int(v int64) Scalar {
	return Scalar{Type: NumberScalar, Int64: &v}
}

func Float(v float64) Scalar {
	return Scalar{Type: NumberScalar, Float64: &v}
}

// Interface returns the scalar as a plain Go value for export.
func (s Scalar) Interface() any {
	switch s.Type {
	case NullScalar:
		return nil
	case BoolScalar:
		return s.Bool
	case NumberScalar:
		if s.Int64 != nil {
			return *s.Int64
		}
		if s.Float64 != nil {
			return *s.Float64
		}
		return int64(0)
	case StringScalar:
		return s.Str
	}
	panic("unknown scalar type")
}

// Number returns the numeric payload as a float64. Exact integer
// formatting is not preserved across this conversion.
func (s Scalar) Number() (float64, bool) {
	if s.Type != NumberScalar {
		return 0, false
	}
	if s.Int64 != nil {
		return float64(*s.Int64), true
	}
	if s.Float64 != nil {
		return *s.Float64, true
	}
	return 0, true
}

func (s Scalar) String() string {
	switch s.Type {
	case NullScalar:
		return "null"
	case BoolScalar:
		return strconv.FormatBool(s.Bool)
	case NumberScalar:
		if s.Int64 != nil {
			return strconv.FormatInt(*s.Int64, 10)
		}
		if s.Float64 != nil {
			return strconv.FormatFloat(*s.Float64, 'g', -1, 64)
		}
		return "0"
	case StringScalar:
		return s.Str
	}
	panic("unknown scalar type")
}

// Equal reports scalar payload equality. Integral and floating payloads
// compare by numeric value.
func (s Scalar) Equal(o Scalar) bool {
	return compareScalars(s, o) == 0
}

func compareScalars(a, b Scalar) int {
	if a.Type != b.Type {
		return cmp.Compare(a.Type, b.Type)
	}
	switch a.Type {
	case NullScalar:
		return 0
	case BoolScalar:
		if a.Bool == b.Bool {
			return 0
		}
		if !a.Bool {
			return -1
		}
		return 1
	case NumberScalar:
		an, _ := a.Number()
		bn, _ := b.Number()
		return cmp.Compare(an, bn)
	case StringScalar:
		return strings.Compare(a.Str, b.Str)
	}
	panic("unknown scalar type")
}
