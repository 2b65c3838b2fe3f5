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
	"regexp"
	"strings"
)

// Utterance is one attributed line of dialogue extracted from a script
type Utterance struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
	Index   int    `json:"index"`
}

// stageDirections matches parenthesized asides such as "(laughs)"
var stageDirections = regexp.MustCompile(`\([^)]*\)`)

// Parse splits a raw script into ordered utterances for the two
// configured speakers. Lines not starting with a recognized speaker tag
// are silently dropped, stage directions are stripped from matched
// lines, and lines left empty after stripping are dropped too. The
// function is pure: same input, same output.
func Parse(raw string, profiles Profiles) []Utterance {
	// Speaker names are user-supplied; treat them as literal text, never
	// as pattern fragments
	pattern := regexp.MustCompile(`(?i)^(` +
		regexp.QuoteMeta(profiles.A.Name) + `|` +
		regexp.QuoteMeta(profiles.B.Name) + `):\s*(.*)$`)

	var utterances []Utterance

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")

		match := pattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		speaker := match[1]
		text := strings.TrimSpace(stageDirections.ReplaceAllString(match[2], ""))
		if text == "" {
			continue
		}

		utterances = append(utterances, Utterance{
			Speaker: speaker,
			Text:    text,
			Index:   len(utterances),
		})
	}

	return utterances
}
