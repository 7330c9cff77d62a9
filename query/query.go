// Package query reads typed values out of a composed dom tree.
package query

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/cascade-format/cascade/codec"
	"github.com/cascade-format/cascade/dom"
)

var (
	ErrPathNotFound   = errors.New("path not found")
	ErrDecodeMismatch = errors.New("decode mismatch")
)

// Get decodes the subtree at path into out, which must be a non-nil
// pointer. Decoding goes through the codec's export shape, so an object
// subtree decodes into a struct or map, an array into a slice, a value
// into its scalar type. An unresolved ref subtree decodes as its tagged
// marker object, never as its target.
func Get(root *dom.Node, path string, out any) error {
	n := dom.Lookup(root, path)
	if n == nil {
		return fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}
	raw, err := codec.Serialize(n)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w at %s: %w", ErrDecodeMismatch, path, err)
	}
	return nil
}

// Node returns the subtree at path without decoding, or ErrPathNotFound.
func Node(root *dom.Node, path string) (*dom.Node, error) {
	n := dom.Lookup(root, path)
	if n == nil {
		return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}
	return n, nil
}
