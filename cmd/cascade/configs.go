package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/cascade-format/cascade/codec"
	"github.com/cascade-format/cascade/diag"
	"github.com/cascade-format/cascade/dom"
)

type MainConfig struct {
	J     bool `cli:"name=j aliases=json desc='output JSON instead of YAML'"`
	Color bool `cli:"name=color desc='force colored diagnostics'"`

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

func (cfg *MainConfig) writeTree(w io.Writer, n *dom.Node) error {
	var (
		raw []byte
		err error
	)
	if cfg.J {
		raw, err = codec.SerializeJSON(n)
	} else {
		raw, err = codec.Serialize(n)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}

// printDiags renders diagnostics to stderr, colored when stderr is a
// terminal or -color is set.
func (cfg *MainConfig) printDiags(diags []diag.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	paint := func(s diag.Severity) func(...any) string {
		if !cfg.Color && !isatty.IsTerminal(os.Stderr.Fd()) {
			return fmt.Sprint
		}
		switch s {
		case diag.SeverityError:
			return color.New(color.FgRed).Sprint
		case diag.SeverityWarning:
			return color.New(color.FgYellow).Sprint
		}
		return fmt.Sprint
	}
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "%s %s %s: %s\n",
			paint(d.Severity)(d.Severity), d.Kind, d.Path, d.Message)
	}
}

type BuildConfig struct {
	*MainConfig

	Build *cli.Command
}

type ValidateConfig struct {
	*MainConfig

	Schema string `cli:"name=schema desc='schema file (YAML/JSON)'"`
	Strict bool   `cli:"name=strict desc='report fields the schema does not map'"`

	Validate *cli.Command
}

type GetConfig struct {
	*MainConfig

	Get *cli.Command
}

type OriginsConfig struct {
	*MainConfig

	Origins *cli.Command
}

type DiffConfig struct {
	*MainConfig

	Diff *cli.Command
}
