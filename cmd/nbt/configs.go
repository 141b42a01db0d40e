package main

import (
	"fmt"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/tidefall/nbt-format/go-nbt/binary"
	"github.com/tidefall/nbt-format/go-nbt/nbt"
)

type MainConfig struct {
	Header bool `cli:"name=header desc='input carries the 8-byte level.dat header'"`
	Bare   bool `cli:"name=bare desc='root may be any unnamed tag, not just a named compound'"`

	Depth int `cli:"name=depth desc='override the nesting limit'"`

	InFlavor, OutFlavor binary.Flavor

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) flavorFunc(fps ...*binary.Flavor) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, ok := binary.FlavorByName(v)
		if !ok {
			return nil, fmt.Errorf("%w: unknown flavor %q", cli.ErrUsage, v)
		}
		for _, fp := range fps {
			*fp = f
		}
		return f, nil
	})
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

func (cfg *MainConfig) binOpts() []binary.Option {
	var res []binary.Option
	if cfg.Depth > 0 {
		res = append(res, binary.WithDepthLimit(nbt.DepthLimit(cfg.Depth)))
	}
	if cfg.Bare {
		res = append(res, binary.WithRootPolicy(nbt.AnyUnnamed))
	}
	return res
}

type DumpConfig struct {
	*MainConfig

	Name bool `cli:"name=n desc='print the root name before the tree'"`

	Dump *cli.Command
}

type ConvertConfig struct {
	*MainConfig

	Gzip bool `cli:"name=gz desc='gzip the output'"`
	Zlib bool `cli:"name=z desc='zlib the output'"`

	Convert *cli.Command
}

type DiffConfig struct {
	*MainConfig

	Color   bool `cli:"name=color desc='force color on'"`
	NoColor bool `cli:"name=nocolor desc='force color off'"`

	Diff *cli.Command
}

type KeysConfig struct {
	*MainConfig

	Values bool `cli:"name=v desc='decode values given as key=value hex pairs'"`

	Keys *cli.Command
}
