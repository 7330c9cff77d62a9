package main

import (
	"fmt"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/cascade-format/cascade/query"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: get requires a path and layer directories", cli.ErrUsage)
	}
	path := args[0]
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	comp, err := compose(args[1:])
	if err != nil {
		return err
	}
	cfg.printDiags(comp.diags)
	n, err := query.Node(comp.root, path)
	if err != nil {
		return err
	}
	return cfg.writeTree(cc.Out, n)
}
