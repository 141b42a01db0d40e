package binary

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"

	"github.com/tidefall/nbt-format/go-nbt/nbt"
)

// Compression selects the wrapper around a named root on disk.  Java world
// files are usually gzip; region chunk payloads are zlib; Bedrock files are
// stored raw.
type Compression int

const (
	NoCompression Compression = iota
	Gzip
	Zlib
)

// ReadNamedRoot reads a whole stream holding one named compound, sniffing
// and stripping gzip or zlib wrapping first.
func ReadNamedRoot(r io.Reader, f Flavor, opts ...Option) (string, *nbt.Compound, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrIo, err)
	}
	if data, err = inflate(data); err != nil {
		return "", nil, err
	}
	name, tag, err := Decode(data, f, opts...)
	if err != nil {
		return "", nil, err
	}
	if tag.Type != nbt.TypeCompound {
		return "", nil, fmt.Errorf("%w: root is %s, want Compound", nbt.ErrRootPolicy, tag.Type)
	}
	return name, tag.Compound(), nil
}

// WriteNamedRoot writes one named compound, optionally compressed.
func WriteNamedRoot(w io.Writer, name string, c *nbt.Compound, f Flavor, comp Compression, opts ...Option) error {
	data, err := Encode(name, nbt.CompoundTag(c), f, opts...)
	if err != nil {
		return err
	}
	switch comp {
	case NoCompression:
		_, err = w.Write(data)
	case Gzip:
		zw := gzip.NewWriter(w)
		if _, err = zw.Write(data); err == nil {
			err = zw.Close()
		}
	case Zlib:
		zw := zlib.NewWriter(w)
		if _, err = zw.Write(data); err == nil {
			err = zw.Close()
		}
	default:
		return fmt.Errorf("%w: unknown compression %d", ErrIo, comp)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIo, err)
	}
	return nil
}

func inflate(data []byte) ([]byte, error) {
	var zr io.ReadCloser
	var err error
	switch {
	case len(data) >= 2 && data[0] == 0x1F && data[1] == 0x8B:
		zr, err = gzip.NewReader(bytes.NewReader(data))
	case len(data) >= 2 && data[0] == 0x78 && (uint16(data[0])<<8|uint16(data[1]))%31 == 0:
		zr, err = zlib.NewReader(bytes.NewReader(data))
	default:
		return data, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIo, err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIo, err)
	}
	return out, nil
}

// Header is the 8-byte prefix Bedrock puts on level.dat and some database
// values: a little-endian storage version and the byte length of the NBT
// body that follows.
type Header struct {
	Version int32
}

// DecodeWithHeader strips a Bedrock header and decodes the named compound
// after it.  The recorded body length must match the data exactly.
func DecodeWithHeader(data []byte, f Flavor, opts ...Option) (Header, string, *nbt.Compound, error) {
	if len(data) < 8 {
		return Header{}, "", nil, fmt.Errorf("%w: %d bytes, want 8-byte header", ErrIo, len(data))
	}
	h := Header{Version: int32(leU32(data[0:]))}
	bodyLen := int(int32(leU32(data[4:])))
	body := data[8:]
	if bodyLen != len(body) {
		return Header{}, "", nil, fmt.Errorf("%w: header says %d body bytes, have %d",
			ErrIo, bodyLen, len(body))
	}
	name, tag, err := Decode(body, f, opts...)
	if err != nil {
		return Header{}, "", nil, err
	}
	if tag.Type != nbt.TypeCompound {
		return Header{}, "", nil, fmt.Errorf("%w: root is %s, want Compound",
			nbt.ErrRootPolicy, tag.Type)
	}
	return h, name, tag.Compound(), nil
}

// EncodeWithHeader encodes a named compound behind a Bedrock header.
func EncodeWithHeader(h Header, name string, c *nbt.Compound, f Flavor, opts ...Option) ([]byte, error) {
	body, err := Encode(name, nbt.CompoundTag(c), f, opts...)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8, 8+len(body))
	putLeU32(out[0:], uint32(h.Version))
	putLeU32(out[4:], uint32(len(body)))
	return append(out, body...), nil
}

func leU32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func putLeU32(b []byte, v uint32) {
	b[0], b[1], b[2], b[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
}
