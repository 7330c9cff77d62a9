package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/cascade-format/cascade/codec"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires two cascades, each a comma-separated list of layer dirs", cli.ErrUsage)
	}
	a, err := effectiveText(cfg, args[0])
	if err != nil {
		return err
	}
	b, err := effectiveText(cfg, args[1])
	if err != nil {
		return err
	}
	if a == b {
		return nil
	}

	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	colored := cfg.Color
	if f, ok := cc.Out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		colored = true
	}
	del := color.New(color.FgRed).Sprint
	ins := color.New(color.FgGreen).Sprint
	for _, d := range diffs {
		prefix, paint := " ", fmt.Sprint
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix, paint = "-", del
		case diffmatchpatch.DiffInsert:
			prefix, paint = "+", ins
		}
		if !colored {
			paint = fmt.Sprint
		}
		for _, line := range splitLines(d.Text) {
			fmt.Fprintln(cc.Out, paint(prefix+line))
		}
	}
	return cli.ExitCodeErr(1)
}

func effectiveText(cfg *DiffConfig, arg string) (string, error) {
	comp, err := compose(strings.Split(arg, ","))
	if err != nil {
		return "", err
	}
	cfg.printDiags(comp.diags)
	raw, err := codec.Serialize(comp.root)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func splitLines(text string) []string {
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
