package asset

import (
	"io"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
)

// The compression scheme applied to a resource stream.
type Codec uint8

const (
	Plain Codec = iota
	Zstd
	Snappy
)

func (c Codec) String() string {
	switch c {
	case Zstd:
		return "zstd"
	case Snappy:
		return "snappy"
	}
	return "plain"
}

// Select a codec from a file suffix: ".zst" for zstd, ".sz" for snappy
// framed streams and plain for anything else.
func CodecForPath(path string) Codec {
	switch {
	case strings.HasSuffix(path, ".zst"):
		return Zstd
	case strings.HasSuffix(path, ".sz"):
		return Snappy
	}
	return Plain
}

// Wrap a reader with a decoder for the given codec. Closing the returned
// reader also closes source.
func NewDecoder(codec Codec, source io.ReadCloser) (io.ReadCloser, error) {
	switch codec {
	case Zstd:
		dec, err := zstd.NewReader(source)
		if err != nil {
			return nil, err
		}
		return &decoder{Reader: dec, release: dec.Close, source: source}, nil
	case Snappy:
		return &decoder{Reader: snappy.NewReader(source), source: source}, nil
	}
	return source, nil
}

// Wrap a writer with an encoder for the given codec. Closing the returned
// writer flushes the encoder but does not close sink.
func NewEncoder(codec Codec, sink io.Writer) (io.WriteCloser, error) {
	switch codec {
	case Zstd:
		enc, err := zstd.NewWriter(sink)
		if err != nil {
			return nil, err
		}
		return enc, nil
	case Snappy:
		return snappy.NewBufferedWriter(sink), nil
	}
	return nopWriteCloser{sink}, nil
}

type decoder struct {
	io.Reader
	release func()
	source  io.Closer
}

func (d *decoder) Close() error {
	if d.release != nil {
		d.release()
	}
	return d.source.Close()
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
