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

package security

import (
	"strings"
	"testing"
)

func TestSanitizeLogInput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Clean input",
			input:    "normal log message",
			expected: "normal log message",
		},
		{
			name:     "Input with newline",
			input:    "message\nwith newline",
			expected: "messagewith newline",
		},
		{
			name:     "Input with carriage return",
			input:    "message\rwith cr",
			expected: "messagewith cr",
		},
		{
			name:     "Input with CRLF",
			input:    "message\r\nwith crlf",
			expected: "messagewith crlf",
		},
		{
			name:     "Log injection attempt",
			input:    "user input\n[FAKE] Forged log entry",
			expected: "user input[FAKE] Forged log entry",
		},
		{
			name:     "Empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeLogInput(tt.input); got != tt.expected {
				t.Errorf("SanitizeLogInput(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestValidateSessionID(t *testing.T) {
	tests := []struct {
		name      string
		sessionID string
		wantErr   bool
	}{
		{"Valid alphanumeric", "session123", false},
		{"Valid with dashes", "session-abc-123", false},
		{"Valid with underscores", "session_abc_123", false},
		{"Valid UUID style", "b5e7c2d4-9f3a-4c8e-b1d2-7a6f5e4d3c2b", false},
		{"Empty", "", true},
		{"Path traversal", "../etc/passwd", true},
		{"Forward slash", "session/123", true},
		{"Backslash", "session\\123", true},
		{"Spaces", "session 123", true},
		{"Special characters", "session$123", true},
		{"Newline", "session\n123", true},
		{"Very long but valid", strings.Repeat("a", 256), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSessionID(tt.sessionID)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSessionID(%q) error = %v, wantErr %v", tt.sessionID, err, tt.wantErr)
			}
		})
	}
}
