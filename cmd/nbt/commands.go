package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/tidefall/nbt-format/go-nbt/binary"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{InFlavor: binary.Java, OutFlavor: binary.Java}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		&cli.Opt{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
		},
		&cli.Opt{
			Name:        "I",
			Aliases:     []string{"ifmt"},
			Description: "input flavor: java/j, bedrock/b, network/n",
			Type:        cli.NamedFuncOpt(cfg.flavorFunc(&cfg.InFlavor), "(flavor)"),
		}, &cli.Opt{
			Name:        "O",
			Aliases:     []string{"ofmt"},
			Description: "output flavor: java/j, bedrock/b, network/n",
			Type:        cli.NamedFuncOpt(cfg.flavorFunc(&cfg.OutFlavor), "(flavor)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "nbt").
		WithSynopsis("nbt [opts] command [opts]").
		WithDescription("nbt is a tool for working with named binary tag data.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return nbtMain(cfg, cc, args)
		}).
		WithSubs(
			DumpCommand(cfg),
			ConvertCommand(cfg),
			DiffCommand(cfg),
			KeysCommand(cfg))
}

func nbtMain(cfg *MainConfig, cc *cli.Context, args []string) error {
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

func DumpCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DumpConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Dump, "dump").
		WithAliases("d").
		WithSynopsis("dump [-n] [files]").
		WithDescription("dump binary NBT as text").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return dump(cfg, cc, args)
		})
}

func ConvertCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ConvertConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Convert, "convert").
		WithAliases("c", "co").
		WithSynopsis("convert -I <flavor> -O <flavor> [file]").
		WithDescription("convert binary NBT between flavors").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return convert(cfg, cc, args)
		})
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("di").
		WithSynopsis("diff a.nbt b.nbt").
		WithDescription("diff two binary NBT documents at the text level").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}

func KeysCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &KeysConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Keys, "keys").
		WithAliases("k").
		WithSynopsis("keys [-v] [hexkey[=hexvalue]...]").
		WithDescription("classify world database keys given as hex").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return keys(cfg, cc, args)
		})
}
