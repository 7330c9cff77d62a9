package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, &cli.Opt{
		Name:        "o",
		Description: "output file (default stdout)",
		Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
	})

	return cli.NewCommandAt(&cfg.Main, "cascade").
		WithSynopsis("cascade [opts] command [opts]").
		WithDescription("cascade composes layered configuration directories into one effective tree.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return cascadeMain(cfg, cc, args)
		}).
		WithSubs(
			BuildCommand(cfg),
			ValidateCommand(cfg),
			GetCommand(cfg),
			OriginsCommand(cfg),
			DiffCommand(cfg))
}

func BuildCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &BuildConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Build, "build").
		WithAliases("b").
		WithSynopsis("build <layer-dir> [layer-dir ...]").
		WithDescription("merge layer directories, lowest precedence first, resolve references, and print the effective tree").
		WithRun(func(cc *cli.Context, args []string) error {
			return build(cfg, cc, args)
		})
}

func ValidateCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ValidateConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Validate, "validate").
		WithAliases("v", "check").
		WithSynopsis("validate -schema <file> [-strict] <layer-dir> [layer-dir ...]").
		WithDescription("build the effective tree and validate it against a schema").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return validate(cfg, cc, args)
		})
}

func GetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GetConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Get, "get").
		WithAliases("g").
		WithSynopsis("get <path> <layer-dir> [layer-dir ...]").
		WithDescription("build the effective tree and print the subtree at path").
		WithRun(func(cc *cli.Context, args []string) error {
			return get(cfg, cc, args)
		})
}

func OriginsCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &OriginsConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Origins, "origins").
		WithSynopsis("origins <layer-dir> [layer-dir ...]").
		WithDescription("show, per leaf path, the winning layer and every contributing layer").
		WithRun(func(cc *cli.Context, args []string) error {
			return origins(cfg, cc, args)
		})
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d").
		WithSynopsis("diff <cascade-a> <cascade-b>  (each a comma-separated list of layer dirs)").
		WithDescription("diff the effective trees of two cascades").
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}
