package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/cascade-format/cascade/cascade"
	"github.com/cascade-format/cascade/diag"
	"github.com/cascade-format/cascade/dirload"
	"github.com/cascade-format/cascade/dom"
	"github.com/cascade-format/cascade/resolve"
)

func cascadeMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	defer func() {
		if cfg.CloseOut != nil {
			cfg.CloseOut()
		}
	}()
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

// composition is the full pipeline result for one set of layer dirs.
type composition struct {
	layers []*cascade.CascadeLayer
	merged *cascade.MergeResult
	root   *dom.Node
	diags  []diag.Diagnostic
}

// compose loads the layer directories lowest precedence first, merges
// them, and resolves references across the merged tree.
func compose(dirs []string) (*composition, error) {
	layers, diags, err := dirload.LoadCascade(dirs)
	if err != nil {
		return nil, err
	}
	merged, err := cascade.Merge(layers)
	if err != nil {
		return nil, err
	}
	root, rdiags := resolve.Resolve(merged.Root)
	diags = append(diags, rdiags...)
	diag.Sort(diags)
	return &composition{
		layers: layers,
		merged: merged,
		root:   root,
		diags:  diags,
	}, nil
}
