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

package tts

import (
	"context"
	"errors"
)

// DefaultVoice is used when a speaker tag cannot be resolved to a
// configured profile
const DefaultVoice = "alloy"

// KnownVoices is the fixed catalog of synthetic voices offered by the
// speech service
var KnownVoices = []string{"alloy", "echo", "fable", "onyx", "nova", "shimmer"}

// IsKnownVoice reports whether voice is part of the fixed catalog
func IsKnownVoice(voice string) bool {
	for _, v := range KnownVoices {
		if v == voice {
			return true
		}
	}
	return false
}

// Synthesizer converts a single utterance into encoded audio bytes.
// Every call may fail; callers must not assume success.
type Synthesizer interface {
	// Synthesize converts text to speech audio using the given voice
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)

	// Close cleans up resources
	Close() error
}

// EnvironmentError marks a failure of the synthesis toolchain itself,
// as opposed to a single request failing. It indicates a deployment
// problem (endpoint unreachable, credentials rejected) and aborts a
// pipeline run instead of being skipped.
type EnvironmentError struct {
	Err error
}

func (e *EnvironmentError) Error() string {
	return "tts environment unusable: " + e.Err.Error()
}

func (e *EnvironmentError) Unwrap() error {
	return e.Err
}

// IsEnvironmentError reports whether err is classified as
// environment-fatal anywhere in its chain
func IsEnvironmentError(err error) bool {
	var envErr *EnvironmentError
	return errors.As(err, &envErr)
}
