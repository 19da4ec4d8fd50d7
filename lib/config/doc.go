// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the daemon's YAML configuration.
//
// A configuration comes from exactly one place: the file named by
// --config (via [LoadFile]) or by the LCDD_CONFIG environment variable
// (via [Load]). With neither, [Load] returns [Default]. The file only
// needs to set the fields it changes; everything else keeps its
// default. Environment variables never override individual fields.
//
// Path fields expand ${VAR} and ${VAR:-default} after loading, so a
// shared file can say
//
//	control_socket: ${XDG_RUNTIME_DIR:-/tmp}/lcdd.sock
//
// Durations use Go syntax ("500ms", "1m").
package config
