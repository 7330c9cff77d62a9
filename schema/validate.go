package schema

import (
	"errors"
	"strconv"

	"github.com/expr-lang/expr/vm"

	"github.com/cascade-format/cascade/diag"
	"github.com/cascade-format/cascade/dom"
)

// Options tunes validation behavior.
type Options struct {
	// Strict reports fields the schema does not map. Lenient (the
	// default) ignores them.
	Strict bool
}

// Validate walks doc and s in lockstep and returns the path-sorted
// diagnostics. The tree is never mutated. Validate errs only on a nil
// tree, a nil schema, or a schema that fails to compile; data-shape
// problems always come back as diagnostics.
//
// A ref node is validated by resolving its target within doc's tree and
// validating the target at the ref's position; a ref that cannot be
// resolved yields an unresolved-reference diagnostic and skips
// value-level checks for that node.
func Validate(doc *dom.Node, s *Schema, opts *Options) ([]diag.Diagnostic, error) {
	if doc == nil {
		return nil, errors.New("validate: nil tree")
	}
	if s == nil {
		return nil, errors.New("validate: nil schema")
	}
	if opts == nil {
		opts = &Options{}
	}
	if err := s.compile(); err != nil {
		return nil, err
	}
	v := &validator{opts: opts, root: doc.Root()}
	v.node(doc.Path(), doc, s)
	diag.Sort(v.diags)
	return v.diags, nil
}

type validator struct {
	opts  *Options
	root  *dom.Node
	diags []diag.Diagnostic
}

func (v *validator) node(path string, n *dom.Node, s *Schema) {
	if n.Kind == dom.RefKind {
		target := dom.Lookup(v.root, n.Ref)
		if target == nil || target.Kind == dom.RefKind {
			v.diags = append(v.diags, diag.Errorf(path, diag.UnresolvedReference,
				"reference target %q not found", n.Ref))
			return
		}
		v.node(path, target, s)
		return
	}
	switch s.Kind {
	case ObjectSchema:
		v.object(path, n, s)
	case ArraySchema:
		v.array(path, n, s)
	case ValueSchema:
		v.value(path, n, s)
	default:
		panic("unknown schema kind")
	}
}

func (v *validator) object(path string, n *dom.Node, s *Schema) {
	if n.Kind != dom.ObjectKind {
		v.structural(path, "object schema against %s node", n.Kind)
		return
	}
	for i := range s.Properties {
		p := &s.Properties[i]
		child := n.Field(p.Name)
		if child == nil {
			if p.Required {
				v.diags = append(v.diags, diag.Errorf(childPath(path, p.Name),
					diag.MissingRequiredField, "required field %q missing", p.Name))
			}
			continue
		}
		v.node(childPath(path, p.Name), child, p.Schema)
	}
	if !v.opts.Strict {
		return
	}
	for _, child := range n.Children {
		if s.Property(child.Name) != nil {
			continue
		}
		v.diags = append(v.diags, diag.Warnf(childPath(path, child.Name),
			diag.UnexpectedField, "field %q not in schema", child.Name))
	}
}

func (v *validator) array(path string, n *dom.Node, s *Schema) {
	if n.Kind != dom.ArrayKind {
		v.structural(path, "array schema against %s node", n.Kind)
		return
	}
	if s.Items == nil {
		return
	}
	for i, child := range n.Children {
		v.node(childPath(path, strconv.Itoa(i)), child, s.Items)
	}
}

func (v *validator) value(path string, n *dom.Node, s *Schema) {
	if n.Kind != dom.ValueKind {
		v.structural(path, "value schema against %s node", n.Kind)
		return
	}
	val := n.Value
	if s.Type != AnyType && !typeMatches(s.Type, val.Type) {
		v.diags = append(v.diags, diag.Errorf(path, diag.TypeMismatch,
			"expected %s, got %s", s.Type, val.Type))
		return
	}
	if num, ok := val.Number(); ok {
		if s.Min != nil && num < *s.Min {
			v.diags = append(v.diags, diag.Errorf(path, diag.RangeViolation,
				"%v below minimum %v", val, *s.Min))
		}
		if s.Max != nil && num > *s.Max {
			v.diags = append(v.diags, diag.Errorf(path, diag.RangeViolation,
				"%v above maximum %v", val, *s.Max))
		}
	}
	if s.re != nil && val.Type == dom.StringScalar && !s.re.MatchString(val.Str) {
		v.diags = append(v.diags, diag.Errorf(path, diag.PatternViolation,
			"%q does not match %q", val.Str, s.Pattern))
	}
	if len(s.Enum) > 0 && !enumHas(s.Enum, val) {
		v.diags = append(v.diags, diag.Errorf(path, diag.EnumViolation,
			"%v not in allowed values", val))
	}
	if s.prg != nil {
		ok, err := runExpr(s.prg, val)
		if err != nil {
			v.diags = append(v.diags, diag.Errorf(path, diag.ExprViolation,
				"expr %q: %v", s.Expr, err))
		} else if !ok {
			v.diags = append(v.diags, diag.Errorf(path, diag.ExprViolation,
				"%v fails %q", val, s.Expr))
		}
	}
}

func (v *validator) structural(path, format string, args ...any) {
	v.diags = append(v.diags, diag.Errorf(path, diag.Structural, format, args...))
}

func runExpr(prg *vm.Program, val dom.Scalar) (bool, error) {
	res, err := vm.Run(prg, map[string]any{"value": val.Interface()})
	if err != nil {
		return false, err
	}
	b, ok := res.(bool)
	if !ok {
		return false, nil
	}
	return b, nil
}

func typeMatches(want Type, got dom.ScalarType) bool {
	switch want {
	case NullType:
		return got == dom.NullScalar
	case BoolType:
		return got == dom.BoolScalar
	case NumberType:
		return got == dom.NumberScalar
	case StringType:
		return got == dom.StringScalar
	}
	return true
}

func enumHas(enum []dom.Scalar, val dom.Scalar) bool {
	for _, e := range enum {
		if e.Equal(val) {
			return true
		}
	}
	return false
}

func childPath(base, seg string) string {
	if base == "/" {
		return "/" + seg
	}
	return base + "/" + seg
}
