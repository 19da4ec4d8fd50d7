// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil classifies connection errors so callers can tell a
// client going away from a real fault.
package netutil
