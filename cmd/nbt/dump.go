package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/tidefall/nbt-format/go-nbt/snbt"
)

func dump(cfg *DumpConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Dump.Parse(cc, args)
	if err != nil {
		cfg.Dump.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, arg := range args {
		doc, err := loadDoc(cfg.MainConfig, arg)
		if err != nil {
			return err
		}
		text, err := snbt.Format(doc.tag)
		if err != nil {
			return fmt.Errorf("error formatting %s: %w", arg, err)
		}
		if cfg.Name {
			if _, err := fmt.Fprintf(cc.Out, "%q: ", doc.name); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(cc.Out, text); err != nil {
			return err
		}
	}
	return nil
}
