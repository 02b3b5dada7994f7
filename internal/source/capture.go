// Package source opens recorded record-stream captures for replay.
package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Open opens a capture file for replay through the decode pipeline. Files
// ending in .zst are transparently decompressed.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: opening capture: %w", err)
	}
	if !strings.HasSuffix(path, ".zst") {
		return f, nil
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("source: opening zstd capture %s: %w", path, err)
	}
	return &zstdCapture{dec: dec, f: f}, nil
}

type zstdCapture struct {
	dec *zstd.Decoder
	f   *os.File
}

func (c *zstdCapture) Read(p []byte) (int, error) { return c.dec.Read(p) }

func (c *zstdCapture) Close() error {
	c.dec.Close()
	return c.f.Close()
}
