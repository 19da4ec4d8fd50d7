// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/muesli/termenv"

	"github.com/bureau-foundation/lcdd/lib/lcd"
)

// Backend receives bit-packed frames of lcd.PackedSize bytes. The
// Driver serializes calls; implementations need no locking of their
// own. packed is only valid for the duration of the call.
type Backend interface {
	WritePixmap(packed []byte) error
	Close() error
}

// DiscardBackend counts frames and drops them.
type DiscardBackend struct {
	frames atomic.Uint64
}

// WritePixmap implements Backend.
func (b *DiscardBackend) WritePixmap(packed []byte) error {
	b.frames.Add(1)
	return nil
}

// Frames returns how many frames were written.
func (b *DiscardBackend) Frames() uint64 { return b.frames.Load() }

// Close implements Backend.
func (b *DiscardBackend) Close() error { return nil }

// FileBackend writes every frame to a file. Regular files are
// overwritten in place so the file always holds the latest frame;
// anything else (a FIFO, a character device) receives a stream of
// frames.
type FileBackend struct {
	file    *os.File
	regular bool
}

// OpenFile opens or creates path for frame output.
func OpenFile(path string) (*FileBackend, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening output %s: %w", path, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("inspecting output %s: %w", path, err)
	}
	return &FileBackend{file: file, regular: info.Mode().IsRegular()}, nil
}

// WritePixmap implements Backend.
func (b *FileBackend) WritePixmap(packed []byte) error {
	if len(packed) != lcd.PackedSize {
		return fmt.Errorf("output: pixmap is %d bytes, want %d", len(packed), lcd.PackedSize)
	}
	var err error
	if b.regular {
		_, err = b.file.WriteAt(packed, 0)
	} else {
		_, err = b.file.Write(packed)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", b.file.Name(), err)
	}
	return nil
}

// Close implements Backend.
func (b *FileBackend) Close() error { return b.file.Close() }

// Open builds the backend named by kind: "discard", "file" (which
// needs path), or "terminal" (which draws to stdout).
func Open(kind, path string) (Backend, error) {
	switch kind {
	case "", "discard":
		return &DiscardBackend{}, nil
	case "file":
		if path == "" {
			return nil, fmt.Errorf("output: file backend needs a path")
		}
		return OpenFile(path)
	case "terminal":
		return NewTerminalBackend(os.Stdout, termenv.NewOutput(os.Stdout).EnvColorProfile()), nil
	}
	return nil, fmt.Errorf("output: unknown backend %q", kind)
}
