package main

import (
	"fmt"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/cascade-format/cascade/codec"
	"github.com/cascade-format/cascade/diag"
	"github.com/cascade-format/cascade/schema"
)

func validate(cfg *ValidateConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Validate.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Schema == "" {
		return fmt.Errorf("%w: validate requires -schema", cli.ErrUsage)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: validate requires layer directories", cli.ErrUsage)
	}
	raw, err := os.ReadFile(cfg.Schema)
	if err != nil {
		return err
	}
	tree, err := codec.Parse(raw)
	if err != nil {
		return fmt.Errorf("schema %s: %w", cfg.Schema, err)
	}
	s, err := schema.FromNode(tree)
	if err != nil {
		return fmt.Errorf("schema %s: %w", cfg.Schema, err)
	}
	comp, err := compose(args)
	if err != nil {
		return err
	}
	vdiags, err := schema.Validate(comp.root, s, &schema.Options{Strict: cfg.Strict})
	if err != nil {
		return err
	}
	diags := append(comp.diags, vdiags...)
	diag.Sort(diags)
	cfg.printDiags(diags)
	if diag.HasErrors(diags) {
		return cli.ExitCodeErr(1)
	}
	fmt.Fprintln(cc.Out, "ok")
	return nil
}
