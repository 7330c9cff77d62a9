// Package codec converts raw hierarchical text (YAML or JSON, JSON
// being a YAML subset) to and from dom trees.
//
// The only format contract the core imposes on the raw representation is
// the reference convention: an object with exactly one property under
// the reserved key "$ref", and no sibling keys, is a reference, never a
// generic object. Round trips are structural, not byte-identical; in
// particular numeric formatting is not preserved.
package codec

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/cascade-format/cascade/dom"
)

// RefKey is the reserved reference key. An object carrying any other
// key alongside it is a plain object (strict single-key detection).
const RefKey = "$ref"

// Parse decodes raw YAML/JSON into a dom tree. Object member order is
// preserved; duplicate keys are an error.
func Parse(raw []byte) (*dom.Node, error) {
	var v any
	if err := yaml.UnmarshalWithOptions(raw, &v,
		yaml.UseOrderedMap(),
	); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return FromAny(v)
}

// Serialize encodes a dom tree as YAML. An unresolved ref is emitted as
// its tagged reference marker, never as its target's value.
func Serialize(n *dom.Node) ([]byte, error) {
	d, err := yaml.Marshal(ToAny(n))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialize, err)
	}
	return d, nil
}

// SerializeJSON encodes a dom tree as JSON. The merge engine uses this
// for RFC 6902 patch interop.
func SerializeJSON(n *dom.Node) ([]byte, error) {
	y, err := Serialize(n)
	if err != nil {
		return nil, err
	}
	j, err := yaml.YAMLToJSON(y)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialize, err)
	}
	return j, nil
}
