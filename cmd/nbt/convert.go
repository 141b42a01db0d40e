package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/tidefall/nbt-format/go-nbt/binary"
	"github.com/tidefall/nbt-format/go-nbt/nbt"
)

func convert(cfg *ConvertConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Convert.Parse(cc, args)
	if err != nil {
		cfg.Convert.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: convert takes at most one file", cli.ErrUsage)
	}
	if cfg.Gzip && cfg.Zlib {
		return fmt.Errorf("%w: at most one of -gz -z", cli.ErrUsage)
	}
	arg := "-"
	if len(args) == 1 {
		arg = args[0]
	}
	doc, err := loadDoc(cfg.MainConfig, arg)
	if err != nil {
		return err
	}

	switch {
	case cfg.Header:
		if cfg.Gzip || cfg.Zlib {
			return fmt.Errorf("%w: headered values are stored uncompressed", cli.ErrUsage)
		}
		out, err := binary.EncodeWithHeader(*doc.header, doc.name,
			doc.tag.Compound(), cfg.OutFlavor, cfg.binOpts()...)
		if err != nil {
			return err
		}
		_, err = cc.Out.Write(out)
		return err
	case cfg.Bare:
		if cfg.Gzip || cfg.Zlib {
			return fmt.Errorf("%w: -gz and -z wrap named compound roots only", cli.ErrUsage)
		}
		out, err := binary.Encode(doc.name, doc.tag, cfg.OutFlavor, cfg.binOpts()...)
		if err != nil {
			return err
		}
		_, err = cc.Out.Write(out)
		return err
	}

	comp := binary.NoCompression
	if cfg.Gzip {
		comp = binary.Gzip
	} else if cfg.Zlib {
		comp = binary.Zlib
	}
	if doc.tag.Type != nbt.TypeCompound {
		return fmt.Errorf("root is %s, want Compound", doc.tag.Type)
	}
	return binary.WriteNamedRoot(cc.Out, doc.name, doc.tag.Compound(),
		cfg.OutFlavor, comp, cfg.binOpts()...)
}
