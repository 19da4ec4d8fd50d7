// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec fixes the CBOR configuration used on the control
// socket, so the daemon and lcdctl encode identically.
//
// Encoding is Core Deterministic (RFC 8949 §4.2): sorted map keys,
// shortest integers, definite lengths. Decoding ignores unknown fields
// and decodes untyped maps as map[string]any.
//
//	data, err := codec.Marshal(request)
//	err = codec.NewDecoder(conn).Decode(&response)
//
// Control types carry `cbor` struct tags.
package codec
