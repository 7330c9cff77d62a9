package cascade

import (
	"fmt"
	"sort"

	"github.com/cascade-format/cascade/debug"
	"github.com/cascade-format/cascade/dom"
)

// MergeResult is the outcome of an inter-layer merge: the merged tree,
// independent of every layer tree, plus the per-path origin maps.
// Winners holds the layer index whose value survived at each leaf path;
// Origins holds, per leaf path, every layer index that ever defined it,
// in ascending precedence order.
type MergeResult struct {
	Root    *dom.Node
	Winners map[string]int
	Origins map[string][]int
}

// Merge folds layers lowest-to-highest precedence into one tree. The
// result is cloned from the layer trees, so later edits to it never
// mutate any source layer. Merge fails only on contract violations (nil
// or duplicate-index layers), never for data shape.
func Merge(layers []*CascadeLayer) (*MergeResult, error) {
	ordered := make([]*CascadeLayer, len(layers))
	copy(ordered, layers)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Index < ordered[j].Index
	})
	for i, layer := range ordered {
		if layer == nil || layer.Root == nil {
			return nil, fmt.Errorf("nil layer at position %d", i)
		}
		if i > 0 && ordered[i-1].Index == layer.Index {
			return nil, fmt.Errorf("layers %q and %q share index %d",
				ordered[i-1].Name, layer.Name, layer.Index)
		}
	}

	res := &MergeResult{
		Root:    dom.NewObject(),
		Winners: map[string]int{},
		Origins: map[string][]int{},
	}
	for _, layer := range ordered {
		res.Root = deepMerge(res.Root, layer.Root)
		if debug.Merge() {
			debug.Logf("merged layer %s (index %d)\n", layer.Name, layer.Index)
		}
	}

	// Pass 1: scan each layer's own pre-merge tree for the full list of
	// contributors per leaf path. Structural presence in the merged tree
	// cannot tell which layers redefined a leaf.
	for _, layer := range ordered {
		idx := layer.Index
		layer.Root.Leaves(func(path string, _ *dom.Node) {
			res.Origins[path] = append(res.Origins[path], idx)
		})
	}
	// Pass 2: the winner is the maximum contributing index; layers are
	// totally ordered so there are no ties.
	for path, contributors := range res.Origins {
		res.Winners[path] = contributors[len(contributors)-1]
	}
	return res, nil
}

// deepMerge merges over onto base. Objects merge by key union; any other
// combination replaces wholesale. The returned tree shares no nodes with
// over; base nodes are reused where over does not touch them (base is
// already owned by the merge).
func deepMerge(base, over *dom.Node) *dom.Node {
	if base.Kind != dom.ObjectKind || over.Kind != dom.ObjectKind {
		return over.Clone()
	}
	res := dom.NewObject()
	// detaching rewrites base.Children, so iterate a snapshot
	bcs := make([]*dom.Node, len(base.Children))
	copy(bcs, base.Children)
	for _, bc := range bcs {
		oc := over.Field(bc.Name)
		if oc == nil {
			bc.Detach()
			_ = res.Attach(bc.Name, bc)
			continue
		}
		_ = res.Attach(bc.Name, deepMerge(bc, oc))
	}
	for _, oc := range over.Children {
		if res.Field(oc.Name) != nil {
			continue
		}
		_ = res.Attach(oc.Name, oc.Clone())
	}
	return res
}
