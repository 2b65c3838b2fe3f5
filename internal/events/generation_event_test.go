/*
 * This file is part of word-to-podcast (https://github.com/SayanNandyRIL/word-to-podcast).
 * Copyright (C) 2025 Sayan Nandy
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program. If not, see <https://www.gnu.org/licenses/>.
 */

package events

import (
	"errors"
	"regexp"
	"testing"
)

var uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func TestNewGenerationEvent(t *testing.T) {
	event := NewGenerationEvent("session-1", "wikipedia")

	if !uuidPattern.MatchString(event.UUID) {
		t.Errorf("UUID = %q, not a v4 UUID", event.UUID)
	}
	if event.SessionID != "session-1" {
		t.Errorf("SessionID = %q", event.SessionID)
	}
	if event.SourceType != "wikipedia" {
		t.Errorf("SourceType = %q", event.SourceType)
	}
	if event.Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}
	if !event.Success {
		t.Error("New events should default to success")
	}
	if event.GetUUID() != event.UUID {
		t.Error("GetUUID() disagrees with UUID field")
	}
}

func TestGenerationEvent_UUIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		uuid := NewGenerationEvent("s", "text").UUID
		if seen[uuid] {
			t.Fatalf("Duplicate UUID generated: %s", uuid)
		}
		seen[uuid] = true
	}
}

func TestGenerationEvent_SetOutcome(t *testing.T) {
	event := NewGenerationEvent("session-2", "text")
	event.SetScript("Rahul: hello\nPriya: hi")
	event.SetOutcome(2, 2, 48000)

	if event.ScriptChars != len("Rahul: hello\nPriya: hi") {
		t.Errorf("ScriptChars = %d", event.ScriptChars)
	}
	if event.Utterances != 2 || event.ChunksGenerated != 2 || event.AudioBytes != 48000 {
		t.Errorf("Unexpected outcome fields: %+v", event)
	}
	if event.ProcessingTime < 0 {
		t.Errorf("ProcessingTime = %d, want >= 0", event.ProcessingTime)
	}
	if !event.Success {
		t.Error("SetOutcome must not mark the event failed")
	}
}

func TestGenerationEvent_SetError(t *testing.T) {
	event := NewGenerationEvent("session-3", "image")
	event.SetError("environment_fatal", errors.New("invalid api key"))

	if event.Success {
		t.Error("SetError must mark the event failed")
	}
	if event.FailureKind != "environment_fatal" {
		t.Errorf("FailureKind = %q", event.FailureKind)
	}
	if event.ErrorMessage != "invalid api key" {
		t.Errorf("ErrorMessage = %q", event.ErrorMessage)
	}
}

func TestGenerationEvent_IsValid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*GenerationEvent)
		wantErr bool
	}{
		{"valid", func(e *GenerationEvent) {}, false},
		{"missing UUID", func(e *GenerationEvent) { e.UUID = "" }, true},
		{"missing session", func(e *GenerationEvent) { e.SessionID = "" }, true},
		{"missing source type", func(e *GenerationEvent) { e.SourceType = "" }, true},
		{"chunks exceed utterances", func(e *GenerationEvent) {
			e.Utterances = 2
			e.ChunksGenerated = 3
		}, true},
		{"partial chunks ok", func(e *GenerationEvent) {
			e.Utterances = 3
			e.ChunksGenerated = 2
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := NewGenerationEvent("session-4", "text")
			tt.mutate(event)
			err := event.IsValid()
			if (err != nil) != tt.wantErr {
				t.Errorf("IsValid() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
