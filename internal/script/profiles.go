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

package script

import (
	"fmt"
	"strings"

	"github.com/SayanNandyRIL/word-to-podcast/internal/tts"
)

// SpeakerProfile binds a speaker name appearing in scripts to a
// synthetic voice identifier
type SpeakerProfile struct {
	Name  string `json:"name"`
	Voice string `json:"voice"`
}

// Profiles holds the two speaker profiles configured for a session.
// Names are user-editable and compared case-insensitively against
// parsed script tags.
type Profiles struct {
	A SpeakerProfile `json:"a"`
	B SpeakerProfile `json:"b"`
}

// DefaultProfiles returns the stock two-host cast
func DefaultProfiles() Profiles {
	return Profiles{
		A: SpeakerProfile{Name: "Rahul", Voice: "onyx"},
		B: SpeakerProfile{Name: "Priya", Voice: "nova"},
	}
}

// Validate checks that both profiles are usable
func (p Profiles) Validate() error {
	if strings.TrimSpace(p.A.Name) == "" || strings.TrimSpace(p.B.Name) == "" {
		return fmt.Errorf("speaker names must not be empty")
	}
	if p.A.Voice == "" || p.B.Voice == "" {
		return fmt.Errorf("speaker voices must not be empty")
	}
	return nil
}

// Resolve maps a speaker tag to its configured voice identifier.
// Comparison is case-insensitive; when both profiles carry the same
// name the first one wins. Unmatched tags resolve to the default voice
// instead of failing.
func (p Profiles) Resolve(speakerTag string) string {
	if strings.EqualFold(speakerTag, p.A.Name) {
		return p.A.Voice
	}
	if strings.EqualFold(speakerTag, p.B.Name) {
		return p.B.Voice
	}
	return tts.DefaultVoice
}
