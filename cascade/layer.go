package cascade

import (
	"path"
	"strings"

	"github.com/cascade-format/cascade/dom"
)

// LayerDefinition names one layer of a cascade. Index is the precedence
// of the layer, 0 lowest; indices are unique within a cascade, so merges
// never tie. Source locates the layer's raw units for reporting.
type LayerDefinition struct {
	Name   string
	Index  int
	Source string
}

// UnitKind discriminates source units.
type UnitKind int

const (
	// UnitDoc is a raw hierarchical document grafted at the unit's
	// path prefix.
	UnitDoc UnitKind = iota
	// UnitPatch is an RFC 6902 patch applied to the layer tree after
	// all document units.
	UnitPatch
)

// Unit is one raw source unit of a layer.
type Unit struct {
	ID   string
	Kind UnitKind
	Raw  []byte
}

// CascadeLayer is a layer definition plus the tree resulting from the
// intra-layer merge of its units. The tree is owned exclusively by the
// layer; inter-layer merging clones from it, never aliases it. Units
// maps each leaf path to the identifier of the unit that defined it
// (patch units are not attributed).
type CascadeLayer struct {
	LayerDefinition
	Root  *dom.Node
	Units map[string]string
}

// UnitPrefix derives the DOM path prefix for a unit identifier. The
// identifier's slash-separated segments become path segments; a raw
// format extension is stripped and a trailing "index" segment merges at
// the enclosing prefix, so "network/index.yaml" grafts at /network.
func UnitPrefix(id string) []string {
	id = strings.Trim(id, "/")
	switch path.Ext(id) {
	case ".yaml", ".yml", ".json":
		id = strings.TrimSuffix(id, path.Ext(id))
	}
	if id == "" {
		return nil
	}
	segs := strings.Split(id, "/")
	if segs[len(segs)-1] == "index" {
		segs = segs[:len(segs)-1]
	}
	return segs
}
