package codec

import (
	"fmt"
	"maps"
	"slices"

	"github.com/goccy/go-yaml"

	"github.com/cascade-format/cascade/dom"
)

// FromAny builds a dom tree from a decoded raw value. yaml.MapSlice
// keeps member order; plain maps are ordered by key so that identical
// inputs always build identical trees.
func FromAny(v any) (*dom.Node, error) {
	switch x := v.(type) {
	case nil:
		return dom.NewValue(dom.Null()), nil
	case bool:
		return dom.NewValue(dom.Bool(x)), nil
	case string:
		return dom.NewValue(dom.String(x)), nil
	case int:
		return dom.NewValue(dom.Int(int64(x))), nil
	case int64:
		return dom.NewValue(dom.Int(x)), nil
	case uint64:
		if x > 1<<63-1 {
			return nil, fmt.Errorf("%w: integer %d overflows int64", ErrParse, x)
		}
		return dom.NewValue(dom.Int(int64(x))), nil
	case float64:
		return dom.NewValue(dom.Float(x)), nil
	case yaml.MapSlice:
		if ref, ok := refTarget(x); ok {
			return dom.NewRef(ref), nil
		}
		res := dom.NewObject()
		for _, item := range x {
			name, ok := item.Key.(string)
			if !ok {
				return nil, fmt.Errorf("%w: non-string object key %v", ErrParse, item.Key)
			}
			child, err := FromAny(item.Value)
			if err != nil {
				return nil, err
			}
			if err := res.Attach(name, child); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrParse, err)
			}
		}
		return res, nil
	case map[string]any:
		items := make(yaml.MapSlice, 0, len(x))
		for _, k := range slices.Sorted(maps.Keys(x)) {
			items = append(items, yaml.MapItem{Key: k, Value: x[k]})
		}
		return FromAny(items)
	case []any:
		res := dom.NewArray()
		for _, e := range x {
			child, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			if err := res.Append(child); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrParse, err)
			}
		}
		return res, nil
	default:
		return nil, fmt.Errorf("%w: unsupported raw value %T", ErrParse, v)
	}
}

// refTarget reports whether an object is exactly {RefKey: "<path>"}.
func refTarget(items yaml.MapSlice) (string, bool) {
	if len(items) != 1 {
		return "", false
	}
	k, ok := items[0].Key.(string)
	if !ok || k != RefKey {
		return "", false
	}
	target, ok := items[0].Value.(string)
	if !ok {
		return "", false
	}
	return target, true
}

// ToAny exports a dom subtree to the raw hierarchical representation.
// Objects export as ordered map slices; an unresolved ref exports as its
// single-key reference marker.
func ToAny(n *dom.Node) any {
	switch n.Kind {
	case dom.ValueKind:
		return n.Value.Interface()
	case dom.RefKind:
		return yaml.MapSlice{{Key: RefKey, Value: n.Ref}}
	case dom.ArrayKind:
		res := make([]any, len(n.Children))
		for i, c := range n.Children {
			res[i] = ToAny(c)
		}
		return res
	case dom.ObjectKind:
		res := make(yaml.MapSlice, len(n.Children))
		for i, c := range n.Children {
			res[i] = yaml.MapItem{Key: c.Name, Value: ToAny(c)}
		}
		return res
	default:
		panic("unknown node kind")
	}
}
