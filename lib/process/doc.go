// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process holds entrypoint helpers shared by the lcdd
// binaries: [Fatal] for errors that escape run(), [NewLogger] for the
// structured logger every component receives, and [SignalContext] for
// the shutdown signal.
package process
