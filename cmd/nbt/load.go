package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/tidefall/nbt-format/go-nbt/binary"
	"github.com/tidefall/nbt-format/go-nbt/nbt"
)

// document is one loaded NBT file: the tree plus enough framing to write
// it back out (root name, level.dat header if one was present).
type document struct {
	header *binary.Header
	name   string
	tag    nbt.Tag
}

func readArg(arg string) ([]byte, error) {
	if arg == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", arg, err)
	}
	return data, nil
}

func loadDoc(cfg *MainConfig, arg string) (*document, error) {
	data, err := readArg(arg)
	if err != nil {
		return nil, err
	}
	doc := &document{}
	switch {
	case cfg.Header:
		h, name, c, err := binary.DecodeWithHeader(data, cfg.InFlavor, cfg.binOpts()...)
		if err != nil {
			return nil, fmt.Errorf("error decoding %s: %w", arg, err)
		}
		doc.header = &h
		doc.name, doc.tag = name, nbt.CompoundTag(c)
	case cfg.Bare:
		name, tag, err := binary.Decode(data, cfg.InFlavor, cfg.binOpts()...)
		if err != nil {
			return nil, fmt.Errorf("error decoding %s: %w", arg, err)
		}
		doc.name, doc.tag = name, tag
	default:
		// sniffs and strips gzip or zlib wrapping
		name, c, err := binary.ReadNamedRoot(bytes.NewReader(data), cfg.InFlavor, cfg.binOpts()...)
		if err != nil {
			return nil, fmt.Errorf("error decoding %s: %w", arg, err)
		}
		doc.name, doc.tag = name, nbt.CompoundTag(c)
	}
	return doc, nil
}
