package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
)

func build(cfg *BuildConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Build.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: build requires layer directories, lowest precedence first", cli.ErrUsage)
	}
	comp, err := compose(args)
	if err != nil {
		return err
	}
	cfg.printDiags(comp.diags)
	return cfg.writeTree(cc.Out, comp.root)
}
