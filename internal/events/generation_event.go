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
	"crypto/rand"
	"fmt"
	"io"
	"time"
)

// GenerationEvent records one podcast generation run with full traceability
type GenerationEvent struct {
	// Core identification
	UUID      string    `json:"uuid" db:"uuid"`
	SessionID string    `json:"session_id" db:"session_id"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`

	// Source material
	SourceType  string `json:"source_type" db:"source_type"` // "wikipedia", "text", "image"
	ScriptChars int    `json:"script_chars" db:"script_chars"`

	// Pipeline results
	Utterances      int `json:"utterances" db:"utterances"`
	ChunksGenerated int `json:"chunks_generated" db:"chunks_generated"`
	AudioBytes      int `json:"audio_bytes" db:"audio_bytes"`

	// Outcome
	ProcessingTime int64  `json:"processing_time_ms" db:"processing_time_ms"`
	Success        bool   `json:"success" db:"success"`
	FailureKind    string `json:"failure_kind,omitempty" db:"failure_kind"`
	ErrorMessage   string `json:"error_message,omitempty" db:"error_message"`
}

// NewGenerationEvent creates a new GenerationEvent with generated UUID and current timestamp
func NewGenerationEvent(sessionID, sourceType string) *GenerationEvent {
	return &GenerationEvent{
		UUID:       generateUUID(),
		SessionID:  sessionID,
		SourceType: sourceType,
		Timestamp:  time.Now(),
		Success:    true,
	}
}

// generateUUID generates a simple UUID without external dependencies
func generateUUID() string {
	b := make([]byte, 16)
	_, err := io.ReadFull(rand.Reader, b)
	if err != nil {
		// Fallback to timestamp-based ID if random fails
		return fmt.Sprintf("w2p-%d", time.Now().UnixNano())
	}

	// Set version (4) and variant bits
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80

	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:])
}

// GetUUID exposes the event UUID for structured logging
func (ge *GenerationEvent) GetUUID() string {
	return ge.UUID
}

// SetScript records the script that fed the pipeline
func (ge *GenerationEvent) SetScript(scriptText string) {
	ge.ScriptChars = len(scriptText)
}

// SetOutcome records pipeline results and marks processing as complete
func (ge *GenerationEvent) SetOutcome(utterances, chunksGenerated, audioBytes int) {
	ge.Utterances = utterances
	ge.ChunksGenerated = chunksGenerated
	ge.AudioBytes = audioBytes
	ge.ProcessingTime = time.Since(ge.Timestamp).Milliseconds()
}

// SetError marks the event as failed with a failure classification
func (ge *GenerationEvent) SetError(failureKind string, err error) {
	ge.Success = false
	ge.FailureKind = failureKind
	if err != nil {
		ge.ErrorMessage = err.Error()
	}
	ge.ProcessingTime = time.Since(ge.Timestamp).Milliseconds()
}

// IsValid performs basic validation on the generation event
func (ge *GenerationEvent) IsValid() error {
	if ge.UUID == "" {
		return fmt.Errorf("UUID is required")
	}

	if ge.SessionID == "" {
		return fmt.Errorf("sessionID is required")
	}

	if ge.SourceType == "" {
		return fmt.Errorf("sourceType is required")
	}

	if ge.Timestamp.IsZero() {
		return fmt.Errorf("timestamp is required")
	}

	if ge.Utterances < 0 || ge.ChunksGenerated < 0 || ge.ChunksGenerated > ge.Utterances {
		return fmt.Errorf("chunk count must be between 0 and utterance count")
	}

	return nil
}

// String returns a human-readable representation of the generation event
func (ge *GenerationEvent) String() string {
	return fmt.Sprintf("GenerationEvent{UUID: %s, SessionID: %s, Source: %s, Utterances: %d, Chunks: %d, Success: %t}",
		ge.UUID, ge.SessionID, ge.SourceType, ge.Utterances, ge.ChunksGenerated, ge.Success)
}
