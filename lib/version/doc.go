// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build information for the lcdd binaries.
//
// The variables are injected with -ldflags -X at build time:
//
//	go build -ldflags "-X github.com/bureau-foundation/lcdd/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// Unset values read "unknown", and Version reads "0.1.0-dev".
// [SelfDigest] hashes the running executable so operators can tell two
// builds with the same version string apart.
package version
