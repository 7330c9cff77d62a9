// Package dirload loads cascade layers from directories. A directory is
// one layer; every raw file in it is one unit, the file's relative path
// being the unit identifier (so its location in the tree). Files named
// *.patch.yaml, *.patch.yml or *.patch.json become patch units.
package dirload

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cascade-format/cascade/cascade"
	"github.com/cascade-format/cascade/debug"
	"github.com/cascade-format/cascade/diag"
	"github.com/cascade-format/cascade/dom"
)

// LoadUnits reads all raw units under dir in lexical walk order. Dot
// files and non-raw extensions are skipped.
func LoadUnits(dir string) ([]cascade.Unit, error) {
	var units []cascade.Unit
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && p != dir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !rawFile(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		raw, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		id := filepath.ToSlash(rel)
		units = append(units, cascade.Unit{
			ID:   id,
			Kind: unitKind(id),
			Raw:  raw,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading units from %s: %w", dir, err)
	}
	if debug.Load() {
		debug.Logf("dirload: %d units from %s\n", len(units), dir)
	}
	return units, nil
}

// LoadLayer builds the layer tree for one directory.
func LoadLayer(def cascade.LayerDefinition, dir string) (*cascade.CascadeLayer, []diag.Diagnostic, error) {
	units, err := LoadUnits(dir)
	if err != nil {
		return nil, nil, err
	}
	if def.Source == "" {
		def.Source = dir
	}
	return cascade.BuildLayer(def, units)
}

// LoadCascade builds one layer per directory, lowest precedence first,
// layer names being the directory base names. Unit-level problems come
// back as diagnostics; an overlap inside a layer is fatal.
func LoadCascade(dirs []string) ([]*cascade.CascadeLayer, []diag.Diagnostic, error) {
	var (
		layers []*cascade.CascadeLayer
		diags  []diag.Diagnostic
	)
	for i, dir := range dirs {
		def := cascade.LayerDefinition{
			Name:   filepath.Base(dir),
			Index:  i,
			Source: dir,
		}
		layer, ldiags, err := LoadLayer(def, dir)
		if err != nil {
			return nil, diags, fmt.Errorf("layer %s: %w", def.Name, err)
		}
		diags = append(diags, ldiags...)
		layers = append(layers, layer)
	}
	return layers, diags, nil
}

func rawFile(name string) bool {
	switch path.Ext(name) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

func unitKind(id string) cascade.UnitKind {
	base := strings.TrimSuffix(id, path.Ext(id))
	if path.Ext(base) == ".patch" {
		return cascade.UnitPatch
	}
	return cascade.UnitDoc
}

// Provider serves a directory's layer tree as a mount provider.
type Provider struct {
	Dir string
}

func (p *Provider) Name() string {
	return "dir:" + p.Dir
}

// Load builds the directory's layer and returns its tree. Any unit
// failing to load fails the whole mount; partial trees are the
// cascade's business, not a provider's.
func (p *Provider) Load(ctx context.Context) (*dom.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	def := cascade.LayerDefinition{Name: filepath.Base(p.Dir), Source: p.Dir}
	layer, diags, err := LoadLayer(def, p.Dir)
	if err != nil {
		return nil, err
	}
	if diag.HasErrors(diags) {
		return nil, fmt.Errorf("%d units failed to load", len(diags))
	}
	return layer.Root, nil
}
