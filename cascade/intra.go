package cascade

import (
	"fmt"
	"sort"
	"strings"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/goccy/go-yaml"

	"github.com/cascade-format/cascade/codec"
	"github.com/cascade-format/cascade/debug"
	"github.com/cascade-format/cascade/diag"
	"github.com/cascade-format/cascade/dom"
)

// BuildLayer runs the intra-layer merge of units into a fresh layer
// tree. Malformed units are reported as load-error diagnostics and skip
// only that unit; an overlap between two units is fatal to the layer and
// returned as *OverlapError. Diagnostics come back path-sorted.
func BuildLayer(def LayerDefinition, units []Unit) (*CascadeLayer, []diag.Diagnostic, error) {
	layer := &CascadeLayer{
		LayerDefinition: def,
		Root:            dom.NewObject(),
		Units:           map[string]string{},
	}
	var diags []diag.Diagnostic
	var patches []Unit
	for _, unit := range units {
		if unit.Kind == UnitPatch {
			patches = append(patches, unit)
			continue
		}
		prefix := UnitPrefix(unit.ID)
		tree, err := codec.Parse(unit.Raw)
		if err != nil {
			diags = append(diags, diag.Errorf(dom.JoinPath(prefix), diag.LoadError,
				"unit %q: %v", unit.ID, err))
			continue
		}
		wrapped := graft(prefix, tree)
		if err := layer.overlayUnit(layer.Root, wrapped, unit.ID); err != nil {
			return nil, diags, err
		}
		wrapped.Leaves(func(path string, _ *dom.Node) {
			layer.Units[path] = unit.ID
		})
		if debug.Merge() {
			debug.Logf("layer %s: unit %s grafted at %s\n",
				def.Name, unit.ID, dom.JoinPath(prefix))
		}
	}
	for _, unit := range patches {
		if err := layer.applyPatch(unit); err != nil {
			diags = append(diags, diag.Errorf("/", diag.LoadError,
				"patch unit %q: %v", unit.ID, err))
		}
	}
	diag.Sort(diags)
	return layer, diags, nil
}

// graft wraps tree in objects so that it sits at the prefix path of a
// fresh root.
func graft(prefix []string, tree *dom.Node) *dom.Node {
	if len(prefix) == 0 {
		return tree
	}
	for i := len(prefix) - 1; i >= 0; i-- {
		wrap := dom.NewObject()
		// attach cannot fail on a fresh object
		_ = wrap.Attach(prefix[i], tree)
		tree = wrap
	}
	return tree
}

// overlayUnit merges src into dst in place. Only object-object overlaps
// recurse; any other collision means two units define the same path. An
// empty object is a leaf, so meeting a path an earlier unit recorded as
// an empty-object leaf is the same collision as two scalars; a fresh
// intermediate object (never recorded as a leaf) is not.
func (layer *CascadeLayer) overlayUnit(dst, src *dom.Node, unitID string) error {
	if dst.Kind != dom.ObjectKind || src.Kind != dom.ObjectKind {
		return &OverlapError{
			Path:  dst.Path(),
			UnitA: layer.unitAt(dst.Path()),
			UnitB: unitID,
		}
	}
	_, dstLeaf := layer.Units[dst.Path()]
	if dstLeaf || (len(src.Children) == 0 && len(dst.Children) > 0) {
		return &OverlapError{
			Path:  dst.Path(),
			UnitA: layer.unitAt(dst.Path()),
			UnitB: unitID,
		}
	}
	for _, sc := range src.Children {
		dc := dst.Field(sc.Name)
		if dc == nil {
			if err := dst.Attach(sc.Name, sc.Clone()); err != nil {
				return err
			}
			continue
		}
		if err := layer.overlayUnit(dc, sc, unitID); err != nil {
			return err
		}
	}
	return nil
}

// unitAt finds which unit defined path, falling back to the first
// recorded leaf underneath it in path order.
func (layer *CascadeLayer) unitAt(path string) string {
	if id, ok := layer.Units[path]; ok {
		return id
	}
	leaves := make([]string, 0, len(layer.Units))
	for p := range layer.Units {
		leaves = append(leaves, p)
	}
	sort.Strings(leaves)
	prefix := path + "/"
	if path == "/" {
		prefix = "/"
	}
	for _, p := range leaves {
		if strings.HasPrefix(p, prefix) {
			return layer.Units[p]
		}
	}
	return "<unknown unit>"
}

// applyPatch applies one RFC 6902 patch unit to the layer tree. The
// patch document may be YAML or JSON.
func (layer *CascadeLayer) applyPatch(unit Unit) error {
	rawJSON, err := yaml.YAMLToJSON(unit.Raw)
	if err != nil {
		return err
	}
	patch, err := jsonpatch.DecodePatch(rawJSON)
	if err != nil {
		return err
	}
	docJSON, err := codec.SerializeJSON(layer.Root)
	if err != nil {
		return err
	}
	patched, err := patch.Apply(docJSON)
	if err != nil {
		return err
	}
	root, err := codec.Parse(patched)
	if err != nil {
		return err
	}
	if root.Kind != dom.ObjectKind {
		return fmt.Errorf("patch result is %s, want object", root.Kind)
	}
	layer.Root = root
	if debug.Merge() {
		debug.Logf("layer %s: patch %s applied\n", layer.Name, unit.ID)
	}
	return nil
}
