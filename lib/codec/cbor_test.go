// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
)

type keyEvent struct {
	Action string `cbor:"action"`
	Repeat int    `cbor:"repeat,omitempty"`
}

func TestMarshalIsDeterministic(t *testing.T) {
	// Map key order must not depend on insertion order.
	first, err := Marshal(map[string]int{"next": 1, "mode": 2, "previous": 3})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	second, err := Marshal(map[string]int{"previous": 3, "next": 1, "mode": 2})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("encodings differ: %x vs %x", first, second)
	}
}

func TestStreamCarriesSeveralValues(t *testing.T) {
	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)
	sent := []keyEvent{{Action: "next"}, {Action: "previous", Repeat: 2}}
	for _, event := range sent {
		if err := encoder.Encode(event); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}

	decoder := NewDecoder(&buffer)
	for i, want := range sent {
		var got keyEvent
		if err := decoder.Decode(&got); err != nil {
			t.Fatalf("Decode #%d: %v", i, err)
		}
		if got != want {
			t.Errorf("value #%d = %+v, want %+v", i, got, want)
		}
	}
}

func TestUntypedMapsUseStringKeys(t *testing.T) {
	data, err := Marshal(keyEvent{Action: "status"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	fields, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("decoded %T, want map[string]any", decoded)
	}
	if fields["action"] != "status" {
		t.Fatalf("action = %v, want status", fields["action"])
	}
}

func TestUnknownFieldsIgnored(t *testing.T) {
	data, err := Marshal(map[string]any{"action": "mode", "from": "lcdctl"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var event keyEvent
	if err := Unmarshal(data, &event); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if event.Action != "mode" {
		t.Fatalf("Action = %q, want mode", event.Action)
	}
}

func TestDiagnose(t *testing.T) {
	data, err := Marshal(keyEvent{Action: "next"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	notation, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(notation, `"action": "next"`) {
		t.Fatalf("Diagnose = %s", notation)
	}
}
