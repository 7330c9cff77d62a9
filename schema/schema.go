// Package schema validates dom trees against declarative schemas.
//
// A schema tree mirrors the DOM shape: object schemas name properties,
// each required or optional, each with a nested schema; array schemas
// carry one item schema; value schemas constrain the scalar payload
// with an expected type, min/max bounds, a regular expression, an
// allowed-value set, and optionally a boolean expression over the
// value. Schemas are built in code or parsed from an ordinary dom tree
// with FromNode; deriving them from typed models by reflection is a
// collaborator's job, not this package's.
//
// Validation walks DOM and schema in lockstep and produces diagnostics;
// it never mutates the tree and never fails for data-shape problems.
// Hard errors are reserved for contract violations such as a nil tree
// or schema.
package schema

import (
	"fmt"
	"regexp"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/cascade-format/cascade/dom"
)

// Kind discriminates the three schema variants.
type Kind int

const (
	ObjectSchema Kind = iota
	ArraySchema
	ValueSchema
)

func (k Kind) String() string {
	switch k {
	case ObjectSchema:
		return "object"
	case ArraySchema:
		return "array"
	case ValueSchema:
		return "value"
	}
	return "<unknown schema kind>"
}

// Type is the expected scalar type of a value schema.
type Type int

const (
	AnyType Type = iota
	NullType
	BoolType
	NumberType
	StringType
)

func (t Type) String() string {
	switch t {
	case AnyType:
		return "any"
	case NullType:
		return "null"
	case BoolType:
		return "bool"
	case NumberType:
		return "number"
	case StringType:
		return "string"
	}
	return "<unknown type>"
}

// Property is one named member of an object schema.
type Property struct {
	Name     string
	Required bool
	Schema   *Schema
}

// Schema is one node of a schema tree. Only the fields of the active
// Kind are meaningful.
type Schema struct {
	Kind Kind

	// object
	Properties []Property

	// array
	Items *Schema

	// value
	Type    Type
	Min     *float64
	Max     *float64
	Pattern string
	Enum    []dom.Scalar
	// Expr is a boolean expression over the scalar, evaluated with
	// the payload bound to "value", e.g. "value % 2 == 0".
	Expr string

	re  *regexp.Regexp
	prg *vm.Program
}

// Property returns the named property of an object schema, or nil.
func (s *Schema) Property(name string) *Property {
	for i := range s.Properties {
		if s.Properties[i].Name == name {
			return &s.Properties[i]
		}
	}
	return nil
}

// compile prepares regexps and expression programs throughout the
// schema tree. Compilation failures are programmer errors.
func (s *Schema) compile() error {
	if s.Pattern != "" && s.re == nil {
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return fmt.Errorf("pattern %q: %w", s.Pattern, err)
		}
		s.re = re
	}
	if s.Expr != "" && s.prg == nil {
		prg, err := expr.Compile(s.Expr, expr.AsBool(), expr.AllowUndefinedVariables())
		if err != nil {
			return fmt.Errorf("expr %q: %w", s.Expr, err)
		}
		s.prg = prg
	}
	for i := range s.Properties {
		if s.Properties[i].Schema == nil {
			return fmt.Errorf("property %q: nil schema", s.Properties[i].Name)
		}
		if err := s.Properties[i].Schema.compile(); err != nil {
			return err
		}
	}
	if s.Items != nil {
		if err := s.Items.compile(); err != nil {
			return err
		}
	}
	return nil
}
