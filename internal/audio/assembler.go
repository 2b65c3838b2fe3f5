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

package audio

import (
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/SayanNandyRIL/word-to-podcast/internal/logging"
)

// DefaultPause is the gap inserted after each spoken segment
const DefaultPause = 150 * time.Millisecond

// ErrNoDecodableAudio is returned when none of the provided chunks
// could be decoded into playable audio
var ErrNoDecodableAudio = errors.New("no decodable audio chunks")

// Chunk is one synthesized segment awaiting assembly. Index is the
// utterance ordinal that produced it.
type Chunk struct {
	Index int
	Data  []byte // encoded WAV bytes as returned by the synthesizer
}

// Result describes an assembled episode
type Result struct {
	Buffer   []byte // complete WAV file
	Segments int    // chunks that made it into the episode
	Skipped  int    // chunks dropped as undecodable or format-mismatched
	Duration time.Duration
}

// Assembler concatenates synthesized segments into a single episode,
// inserting a fixed pause after every segment (the trailing pause
// gives the episode a natural tail)
type Assembler struct {
	pause time.Duration
}

// NewAssembler creates an assembler with the given inter-segment pause.
// Non-positive pauses fall back to DefaultPause.
func NewAssembler(pause time.Duration) *Assembler {
	if pause <= 0 {
		pause = DefaultPause
	}
	return &Assembler{pause: pause}
}

// Assemble stitches chunks into one WAV buffer in ordinal order.
// Chunks that fail to decode, or whose format differs from the first
// decodable chunk, are skipped. At least one chunk must decode or
// ErrNoDecodableAudio is returned; the result buffer is never empty.
func (a *Assembler) Assemble(chunks []Chunk) (*Result, error) {
	ordered := make([]Chunk, len(chunks))
	copy(ordered, chunks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Index < ordered[j].Index
	})

	var (
		out      *Clip
		gap      []byte
		segments int
		skipped  int
	)

	for _, chunk := range ordered {
		clip, err := Decode(chunk.Data)
		if err != nil {
			skipped++
			logging.LogWarn("Skipping undecodable audio chunk",
				zap.Int("ordinal", chunk.Index),
				zap.Int("bytes", len(chunk.Data)),
				zap.Error(err),
			)
			continue
		}

		if out == nil {
			// First decodable chunk fixes the episode format
			out = &Clip{SampleRate: clip.SampleRate, Channels: clip.Channels}
			gap = Silence(clip.SampleRate, clip.Channels, a.pause).Data
		} else if clip.SampleRate != out.SampleRate || clip.Channels != out.Channels {
			skipped++
			logging.LogWarn("Skipping format-mismatched audio chunk",
				zap.Int("ordinal", chunk.Index),
				zap.Int("sample_rate", clip.SampleRate),
				zap.Int("channels", clip.Channels),
			)
			continue
		}

		out.Data = append(out.Data, clip.Data...)
		out.Data = append(out.Data, gap...)
		segments++
	}

	if out == nil {
		return nil, ErrNoDecodableAudio
	}

	return &Result{
		Buffer:   out.Encode(),
		Segments: segments,
		Skipped:  skipped,
		Duration: out.Duration(),
	}, nil
}
