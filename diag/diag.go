// Package diag provides the structured diagnostics shared by the merge
// engine, reference resolver, schema validator, and mount registry.
//
// Merge, resolve, and validate never fail for data-shape problems; they
// return Diagnostic lists instead. Severity is advisory: the caller
// decides whether to proceed despite warnings.
package diag

import (
	"fmt"
	"sort"
)

// Severity indicates how serious a diagnostic is.
// Ordered from most to least severe: Error < Warning < Info.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Kind classifies a diagnostic.
type Kind int

const (
	// LoadError: malformed raw input for one source unit. Fatal to
	// that unit only.
	LoadError Kind = iota
	// Overlap: the same leaf path defined twice within one layer.
	Overlap
	// UnresolvedReference: a reference target is missing.
	UnresolvedReference
	// ReferenceCycle: a reference chain visits a target twice.
	ReferenceCycle
	// MissingRequiredField: a required schema property is absent.
	MissingRequiredField
	// UnexpectedField: a field the schema does not map, strict mode only.
	UnexpectedField
	// TypeMismatch: a value's scalar type differs from the schema's.
	TypeMismatch
	// RangeViolation: a number outside the schema's min/max bounds.
	RangeViolation
	// PatternViolation: a string failing the schema's regexp.
	PatternViolation
	// EnumViolation: a value outside the schema's allowed set.
	EnumViolation
	// ExprViolation: a value failing the schema's expression constraint.
	ExprViolation
	// Structural: schema and tree kinds fundamentally incompatible,
	// e.g. an array schema against an object node.
	Structural
)

func (k Kind) String() string {
	s, ok := map[Kind]string{
		LoadError:            "load-error",
		Overlap:              "overlap",
		UnresolvedReference:  "unresolved-reference",
		ReferenceCycle:       "reference-cycle",
		MissingRequiredField: "missing-required-field",
		UnexpectedField:      "unexpected-field",
		TypeMismatch:         "type-mismatch",
		RangeViolation:       "range-violation",
		PatternViolation:     "pattern-violation",
		EnumViolation:        "enum-violation",
		ExprViolation:        "expr-violation",
		Structural:           "structural",
	}[k]
	if ok {
		return s
	}
	return "<unknown kind>"
}

// Diagnostic is one entry in a structured diagnostics list.
type Diagnostic struct {
	Path     string
	Kind     Kind
	Message  string
	Severity Severity
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s %s: %s", d.Severity, d.Kind, d.Path, d.Message)
}

// Errorf builds an error-severity diagnostic.
func Errorf(path string, kind Kind, format string, args ...any) Diagnostic {
	return Diagnostic{
		Path:     path,
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityError,
	}
}

// Warnf builds a warning-severity diagnostic.
func Warnf(path string, kind Kind, format string, args ...any) Diagnostic {
	return Diagnostic{
		Path:     path,
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityWarning,
	}
}

// Sort orders diagnostics by path, then kind, then message, so that
// identical inputs always emit diagnostics in the same order. Unordered
// map iteration must never leak into emitted diagnostics.
func Sort(ds []Diagnostic) {
	sort.Slice(ds, func(i, j int) bool {
		a, b := ds[i], ds[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Message < b.Message
	})
}

// HasErrors reports whether any diagnostic is error severity.
func HasErrors(ds []Diagnostic) bool {
	for _, d := range ds {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
