package schema

import (
	"errors"
	"fmt"

	"github.com/cascade-format/cascade/dom"
)

var ErrSchema = errors.New("schema error")

// FromNode builds a schema from an ordinary dom tree, so schema files
// are just more cascade input. An object carrying "properties" is an
// object schema, one carrying "items" is an array schema, anything else
// is a value schema over the keys type/min/max/pattern/enum/expr. A
// property entry may set "required" alongside its nested schema keys:
//
//	properties:
//	  port:
//	    required: true
//	    type: number
//	    min: 1
//	    max: 65535
//	  endpoints:
//	    items:
//	      type: string
func FromNode(n *dom.Node) (*Schema, error) {
	s, err := fromNode(n)
	if err != nil {
		return nil, err
	}
	if err := s.compile(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchema, err)
	}
	return s, nil
}

func fromNode(n *dom.Node) (*Schema, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: nil node", ErrSchema)
	}
	if n.Kind != dom.ObjectKind {
		return nil, fmt.Errorf("%w: schema node at %s is %s, want object",
			ErrSchema, n.Path(), n.Kind)
	}
	if props := n.Field("properties"); props != nil {
		return objectFromNode(n, props)
	}
	if items := n.Field("items"); items != nil {
		return arrayFromNode(n, items)
	}
	return valueFromNode(n)
}

func objectFromNode(n, props *dom.Node) (*Schema, error) {
	if err := onlyKeys(n, "properties"); err != nil {
		return nil, err
	}
	if props.Kind != dom.ObjectKind {
		return nil, fmt.Errorf("%w: properties at %s is %s, want object",
			ErrSchema, props.Path(), props.Kind)
	}
	s := &Schema{Kind: ObjectSchema}
	for _, p := range props.Children {
		required := false
		spec := p
		if req := p.Field("required"); req != nil {
			if req.Kind != dom.ValueKind || req.Value.Type != dom.BoolScalar {
				return nil, fmt.Errorf("%w: required at %s must be a bool",
					ErrSchema, req.Path())
			}
			required = req.Value.Bool
			// drop "required" before parsing the nested schema keys
			spec = p.Clone()
			spec.Field("required").Detach()
		}
		ps, err := fromNode(spec)
		if err != nil {
			return nil, err
		}
		s.Properties = append(s.Properties, Property{
			Name:     p.Name,
			Required: required,
			Schema:   ps,
		})
	}
	return s, nil
}

func arrayFromNode(n, items *dom.Node) (*Schema, error) {
	if err := onlyKeys(n, "items"); err != nil {
		return nil, err
	}
	is, err := fromNode(items)
	if err != nil {
		return nil, err
	}
	return &Schema{Kind: ArraySchema, Items: is}, nil
}

func valueFromNode(n *dom.Node) (*Schema, error) {
	if err := onlyKeys(n, "type", "min", "max", "pattern", "enum", "expr"); err != nil {
		return nil, err
	}
	s := &Schema{Kind: ValueSchema}
	if tn := n.Field("type"); tn != nil {
		t, err := parseType(tn)
		if err != nil {
			return nil, err
		}
		s.Type = t
	}
	var err error
	if s.Min, err = boundOf(n, "min"); err != nil {
		return nil, err
	}
	if s.Max, err = boundOf(n, "max"); err != nil {
		return nil, err
	}
	if pn := n.Field("pattern"); pn != nil {
		if pn.Kind != dom.ValueKind || pn.Value.Type != dom.StringScalar {
			return nil, fmt.Errorf("%w: pattern at %s must be a string",
				ErrSchema, pn.Path())
		}
		s.Pattern = pn.Value.Str
	}
	if en := n.Field("enum"); en != nil {
		if en.Kind != dom.ArrayKind {
			return nil, fmt.Errorf("%w: enum at %s must be an array",
				ErrSchema, en.Path())
		}
		for _, e := range en.Children {
			if e.Kind != dom.ValueKind {
				return nil, fmt.Errorf("%w: enum entry at %s must be a scalar",
					ErrSchema, e.Path())
			}
			s.Enum = append(s.Enum, e.Value)
		}
	}
	if xn := n.Field("expr"); xn != nil {
		if xn.Kind != dom.ValueKind || xn.Value.Type != dom.StringScalar {
			return nil, fmt.Errorf("%w: expr at %s must be a string",
				ErrSchema, xn.Path())
		}
		s.Expr = xn.Value.Str
	}
	return s, nil
}

func parseType(n *dom.Node) (Type, error) {
	if n.Kind != dom.ValueKind || n.Value.Type != dom.StringScalar {
		return AnyType, fmt.Errorf("%w: type at %s must be a string",
			ErrSchema, n.Path())
	}
	t, ok := map[string]Type{
		"any":    AnyType,
		"null":   NullType,
		"bool":   BoolType,
		"number": NumberType,
		"string": StringType,
	}[n.Value.Str]
	if !ok {
		return AnyType, fmt.Errorf("%w: unknown type %q at %s",
			ErrSchema, n.Value.Str, n.Path())
	}
	return t, nil
}

func boundOf(n *dom.Node, key string) (*float64, error) {
	b := n.Field(key)
	if b == nil {
		return nil, nil
	}
	num, ok := b.Value.Number()
	if b.Kind != dom.ValueKind || !ok {
		return nil, fmt.Errorf("%w: %s at %s must be a number",
			ErrSchema, key, b.Path())
	}
	return &num, nil
}

func onlyKeys(n *dom.Node, keys ...string) error {
	for _, c := range n.Children {
		ok := false
		for _, k := range keys {
			if c.Name == k {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("%w: unknown schema key %q at %s",
				ErrSchema, c.Name, c.Path())
		}
	}
	return nil
}
