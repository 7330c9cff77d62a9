package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/scott-cotton/cli"
)

func origins(cfg *OriginsConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Origins.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: origins requires layer directories", cli.ErrUsage)
	}
	comp, err := compose(args)
	if err != nil {
		return err
	}
	cfg.printDiags(comp.diags)

	names := map[int]string{}
	for _, layer := range comp.layers {
		names[layer.Index] = layer.Name
	}
	paths := make([]string, 0, len(comp.merged.Winners))
	for p := range comp.merged.Winners {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		var contribs []string
		for _, idx := range comp.merged.Origins[p] {
			contribs = append(contribs, names[idx])
		}
		fmt.Fprintf(cc.Out, "%s\t%s\t[%s]\n",
			p, names[comp.merged.Winners[p]], strings.Join(contribs, " "))
	}
	return nil
}
