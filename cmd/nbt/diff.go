package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/tidefall/nbt-format/go-nbt/snbt"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff takes exactly two files", cli.ErrUsage)
	}
	texts := make([]string, 2)
	for i, arg := range args {
		doc, err := loadDoc(cfg.MainConfig, arg)
		if err != nil {
			return err
		}
		if texts[i], err = snbt.Format(doc.tag); err != nil {
			return fmt.Errorf("error formatting %s: %w", arg, err)
		}
	}
	if texts[0] == texts[1] {
		return nil
	}

	diffCfg := diffpatch.New()
	diffs := diffCfg.DiffMain(texts[0], texts[1], false)
	diffs = diffCfg.DiffCleanupSemantic(diffs)

	del, ins := cfg.sprintFuncs(cc)
	for i := range diffs {
		d := &diffs[i]
		var s string
		switch d.Type {
		case diffpatch.DiffDelete:
			s = del(d.Text)
		case diffpatch.DiffInsert:
			s = ins(d.Text)
		default:
			s = d.Text
		}
		if _, err := fmt.Fprint(cc.Out, s); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(cc.Out); err != nil {
		return err
	}
	return cli.ExitCodeErr(1)
}

func (cfg *DiffConfig) sprintFuncs(cc *cli.Context) (del, ins func(...any) string) {
	plain := fmt.Sprint
	useColor := cfg.Color
	if !cfg.Color && !cfg.NoColor {
		if f, ok := cc.Out.(*os.File); ok {
			useColor = isatty.IsTerminal(f.Fd())
		}
	}
	if !useColor {
		return plain, plain
	}
	return color.New(color.FgRed, color.CrossedOut).Sprint,
		color.New(color.FgGreen).Sprint
}
