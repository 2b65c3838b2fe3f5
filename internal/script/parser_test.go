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
	"reflect"
	"testing"
)

func testProfiles() Profiles {
	return Profiles{
		A: SpeakerProfile{Name: "Sayan", Voice: "onyx"},
		B: SpeakerProfile{Name: "Suchi", Voice: "nova"},
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		profiles Profiles
		want     []Utterance
	}{
		{
			name:     "two speakers with stage direction and narrator dropped",
			raw:      "Sayan: Hello (waves) there\nSuchi: Hi!\nNarrator: intro",
			profiles: testProfiles(),
			want: []Utterance{
				{Speaker: "Sayan", Text: "Hello  there", Index: 0},
				{Speaker: "Suchi", Text: "Hi!", Index: 1},
			},
		},
		{
			name:     "empty script",
			raw:      "",
			profiles: testProfiles(),
			want:     nil,
		},
		{
			name:     "only unrecognized speakers",
			raw:      "Host: welcome\nGuest: thanks\nAnnouncer: breaking news",
			profiles: testProfiles(),
			want:     nil,
		},
		{
			name:     "case-insensitive speaker matching",
			raw:      "SAYAN: shouting\nsuchi: whispering",
			profiles: testProfiles(),
			want: []Utterance{
				{Speaker: "SAYAN", Text: "shouting", Index: 0},
				{Speaker: "suchi", Text: "whispering", Index: 1},
			},
		},
		{
			name:     "line empty after stripping stage directions is dropped",
			raw:      "Sayan: (laughs)\nSuchi: still here",
			profiles: testProfiles(),
			want: []Utterance{
				{Speaker: "Suchi", Text: "still here", Index: 0},
			},
		},
		{
			name:     "multiple stage directions in one line",
			raw:      "Sayan: okay (pauses) so (sighs) anyway",
			profiles: testProfiles(),
			want: []Utterance{
				{Speaker: "Sayan", Text: "okay  so  anyway", Index: 0},
			},
		},
		{
			name:     "speaker tag must be anchored at line start",
			raw:      "and then Sayan: said something",
			profiles: testProfiles(),
			want:     nil,
		},
		{
			name:     "windows line endings",
			raw:      "Sayan: first\r\nSuchi: second\r\n",
			profiles: testProfiles(),
			want: []Utterance{
				{Speaker: "Sayan", Text: "first", Index: 0},
				{Speaker: "Suchi", Text: "second", Index: 1},
			},
		},
		{
			name: "regex metacharacters in speaker names are literal",
			raw:  "R.hul: should not match\nR(hul: matches literally",
			profiles: Profiles{
				A: SpeakerProfile{Name: "R(hul", Voice: "onyx"},
				B: SpeakerProfile{Name: "Priya", Voice: "nova"},
			},
			want: []Utterance{
				{Speaker: "R(hul", Text: "matches literally", Index: 0},
			},
		},
		{
			name:     "whitespace-only dialogue dropped",
			raw:      "Sayan:    \nSuchi: fine",
			profiles: testProfiles(),
			want: []Utterance{
				{Speaker: "Suchi", Text: "fine", Index: 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw, tt.profiles)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParse_Idempotent(t *testing.T) {
	raw := "Sayan: pehla line\nNarrator: ignored\nSuchi: doosra line (smiles)\nSayan: teesra"
	profiles := testProfiles()

	first := Parse(raw, profiles)
	second := Parse(raw, profiles)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Parse() is not deterministic: %+v vs %+v", first, second)
	}
}

func TestParse_OrdinalsStrictlyIncreasing(t *testing.T) {
	raw := "Sayan: one\nnoise line\nSuchi: two\nSAYAN: three\nHost: dropped\nsuchi: four"
	utterances := Parse(raw, testProfiles())

	if len(utterances) != 4 {
		t.Fatalf("Expected 4 utterances, got %d", len(utterances))
	}
	for i, u := range utterances {
		if u.Index != i {
			t.Errorf("Utterance %d has ordinal %d, want %d", i, u.Index, i)
		}
	}
}
