// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// maxSocketPath is the usable length of sockaddr_un.sun_path on Linux.
const maxSocketPath = 107

// SocketDir returns a fresh directory under /tmp that is removed when
// the test ends. t.TempDir paths can exceed the sun_path limit.
func SocketDir(t *testing.T) string {
	t.Helper()
	directory, err := os.MkdirTemp("/tmp", "lcdd-test-*")
	if err != nil {
		t.Fatalf("creating socket directory: %v", err)
	}
	t.Cleanup(func() {
		if err := os.RemoveAll(directory); err != nil {
			t.Logf("removing socket directory %s: %v", directory, err)
		}
	})
	return directory
}

// SocketPath returns the path of a socket called name inside a new
// SocketDir. The test fails if the path would not fit in sun_path.
func SocketPath(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(SocketDir(t), name)
	if len(path) > maxSocketPath {
		t.Fatalf("socket path %s is %d bytes, limit %d", path, len(path), maxSocketPath)
	}
	return path
}
