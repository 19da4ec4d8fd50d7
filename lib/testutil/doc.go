// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil holds helpers shared by the daemon's tests.
//
// [SocketDir] and [SocketPath] return short locations under /tmp for
// Unix sockets, whose paths are limited to 108 bytes. [RequireReceive],
// [RequireClosed], and [Eventually] wrap the select-with-timeout
// pattern so tests never hang when a goroutine wedges; they are the
// only place the suite waits on the wall clock.
//
// Every helper fails the test with Fatalf instead of returning an
// error.
package testutil
