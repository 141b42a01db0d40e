package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/tidefall/nbt-format/go-nbt/snbt"
	"github.com/tidefall/nbt-format/go-nbt/worlddb"
)

func keys(cfg *KeysConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Keys.Parse(cc, args)
	if err != nil {
		cfg.Keys.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			if line := strings.TrimSpace(sc.Text()); line != "" {
				args = append(args, line)
			}
		}
		if err := sc.Err(); err != nil {
			return err
		}
	}
	failed := false
	for _, arg := range args {
		if err := keyArg(cfg, cc, arg); err != nil {
			theLog.Error("keys", "arg", arg, "err", err)
			failed = true
		}
	}
	if failed {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func keyArg(cfg *KeysConfig, cc *cli.Context, arg string) error {
	keyHex, valHex, hasVal := strings.Cut(arg, "=")
	raw, err := hex.DecodeString(keyHex)
	if err != nil {
		return fmt.Errorf("key is not hex: %w", err)
	}
	k := worlddb.ClassifyKey(raw)
	if !hasVal || !cfg.Values {
		_, err := fmt.Fprintln(cc.Out, k)
		return err
	}
	value, err := hex.DecodeString(valHex)
	if err != nil {
		return fmt.Errorf("value is not hex: %w", err)
	}
	e, err := worlddb.DecodeValue(k, value)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(cc.Out, "%s: %s\n", k, describe(e)); err != nil {
		return err
	}
	for _, c := range e.Compounds {
		text, err := snbt.Format(c)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(cc.Out, "  %s\n", text); err != nil {
			return err
		}
	}
	return nil
}

func describe(e *worlddb.Entry) string {
	switch e.Key.Variant {
	case worlddb.KeyVersion, worlddb.KeyLegacyVersion, worlddb.KeyActorDigestVersion:
		return fmt.Sprintf("version %d", e.Version)
	case worlddb.KeyData3D:
		return fmt.Sprintf("%d biome storages", len(e.Data3D.Biomes))
	case worlddb.KeyData2D, worlddb.KeyLegacyData2D:
		return "heightmap and biomes"
	case worlddb.KeySubchunkBlocks:
		s := e.Subchunk
		if len(s.Layers) > 0 {
			return fmt.Sprintf("v%d, %d block layers", s.Version, len(s.Layers))
		}
		return fmt.Sprintf("v%d, flat block grid", s.Version)
	case worlddb.KeyBlockEntities, worlddb.KeyEntities,
		worlddb.KeyPendingTicks, worlddb.KeyRandomTicks:
		return fmt.Sprintf("%d compounds", len(e.Compounds))
	case worlddb.KeyMetaDataHash:
		return fmt.Sprintf("hash %#016x", e.Hash)
	case worlddb.KeyMetaDataDictionary:
		return fmt.Sprintf("%d dictionary entries", len(e.Dict.Entries))
	case worlddb.KeyFinalizedState:
		return fmt.Sprintf("finalized state %d", e.State)
	case worlddb.KeyActorDigest:
		return fmt.Sprintf("%d actor ids", len(e.Actors))
	case worlddb.KeyBlendingData:
		if e.Blending.HasHeights {
			return fmt.Sprintf("blending v%d with heights", e.Blending.Version)
		}
		return fmt.Sprintf("blending v%d", e.Blending.Version)
	}
	return fmt.Sprintf("%d raw bytes", len(e.Raw))
}
