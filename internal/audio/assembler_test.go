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
	"bytes"
	"errors"
	"testing"
	"time"
)

const testRate = 24000

// gapBytes is the PCM size of one 150ms mono pause at testRate
const gapBytes = testRate * 150 / 1000 * 2

func encodedChunk(index, frames int, fill byte) Chunk {
	return Chunk{Index: index, Data: testClip(testRate, frames, fill).Encode()}
}

func TestAssemble(t *testing.T) {
	assembler := NewAssembler(150 * time.Millisecond)

	result, err := assembler.Assemble([]Chunk{
		encodedChunk(0, 100, 0xAA),
		encodedChunk(1, 200, 0xBB),
	})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if result.Segments != 2 {
		t.Errorf("Segments = %d, want 2", result.Segments)
	}
	if result.Skipped != 0 {
		t.Errorf("Skipped = %d, want 0", result.Skipped)
	}

	decoded, err := Decode(result.Buffer)
	if err != nil {
		t.Fatalf("Result buffer is not valid WAV: %v", err)
	}

	// Every segment is followed by the pause, including the last
	wantLen := 100*2 + gapBytes + 200*2 + gapBytes
	if len(decoded.Data) != wantLen {
		t.Errorf("Assembled PCM = %d bytes, want %d", len(decoded.Data), wantLen)
	}
}

func TestAssemblePreservesOrdinalOrder(t *testing.T) {
	assembler := NewAssembler(150 * time.Millisecond)

	// Handed in out of order; the episode must follow ordinals
	result, err := assembler.Assemble([]Chunk{
		encodedChunk(2, 10, 0xCC),
		encodedChunk(0, 10, 0xAA),
		encodedChunk(1, 10, 0xBB),
	})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	decoded, err := Decode(result.Buffer)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	segment := 10 * 2
	stride := segment + gapBytes
	for i, want := range []byte{0xAA, 0xBB, 0xCC} {
		got := decoded.Data[i*stride : i*stride+segment]
		if !bytes.Equal(got, bytes.Repeat([]byte{want}, segment)) {
			t.Errorf("Segment %d filled with %#x, want %#x", i, got[0], want)
		}
	}
}

func TestAssembleSkipsUndecodableChunks(t *testing.T) {
	assembler := NewAssembler(150 * time.Millisecond)

	result, err := assembler.Assemble([]Chunk{
		encodedChunk(0, 50, 0x11),
		{Index: 1, Data: []byte("this is not audio")},
		encodedChunk(2, 50, 0x22),
	})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if result.Segments != 2 {
		t.Errorf("Segments = %d, want 2", result.Segments)
	}
	if result.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", result.Skipped)
	}

	decoded, err := Decode(result.Buffer)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	wantLen := 2 * (50*2 + gapBytes)
	if len(decoded.Data) != wantLen {
		t.Errorf("Assembled PCM = %d bytes, want %d", len(decoded.Data), wantLen)
	}
}

func TestAssembleSkipsFormatMismatch(t *testing.T) {
	assembler := NewAssembler(150 * time.Millisecond)

	mismatched := Chunk{Index: 1, Data: testClip(8000, 50, 0x33).Encode()}

	result, err := assembler.Assemble([]Chunk{
		encodedChunk(0, 50, 0x11),
		mismatched,
	})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if result.Segments != 1 || result.Skipped != 1 {
		t.Errorf("Segments = %d, Skipped = %d, want 1 and 1", result.Segments, result.Skipped)
	}
}

func TestAssembleAllUndecodable(t *testing.T) {
	assembler := NewAssembler(150 * time.Millisecond)

	_, err := assembler.Assemble([]Chunk{
		{Index: 0, Data: []byte("garbage")},
		{Index: 1, Data: nil},
	})
	if !errors.Is(err, ErrNoDecodableAudio) {
		t.Errorf("Assemble() error = %v, want ErrNoDecodableAudio", err)
	}
}

func TestAssembleEmptyInput(t *testing.T) {
	assembler := NewAssembler(150 * time.Millisecond)

	if _, err := assembler.Assemble(nil); !errors.Is(err, ErrNoDecodableAudio) {
		t.Errorf("Assemble(nil) error = %v, want ErrNoDecodableAudio", err)
	}
}

func TestAssembleSingleChunkHasTrailingPause(t *testing.T) {
	assembler := NewAssembler(150 * time.Millisecond)

	result, err := assembler.Assemble([]Chunk{encodedChunk(0, 100, 0x44)})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	decoded, err := Decode(result.Buffer)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	wantLen := 100*2 + gapBytes
	if len(decoded.Data) != wantLen {
		t.Errorf("Assembled PCM = %d bytes, want %d (segment + trailing pause)", len(decoded.Data), wantLen)
	}

	tail := decoded.Data[100*2:]
	for i, b := range tail {
		if b != 0 {
			t.Fatalf("Trailing pause byte %d is %d, want 0", i, b)
		}
	}
}

func TestNewAssemblerDefaultsPause(t *testing.T) {
	assembler := NewAssembler(0)
	if assembler.pause != DefaultPause {
		t.Errorf("pause = %v, want %v", assembler.pause, DefaultPause)
	}
}

func TestAssembleReportsDuration(t *testing.T) {
	assembler := NewAssembler(150 * time.Millisecond)

	// One second of speech plus the trailing pause
	result, err := assembler.Assemble([]Chunk{encodedChunk(0, testRate, 0x55)})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	want := time.Second + 150*time.Millisecond
	if result.Duration != want {
		t.Errorf("Duration = %v, want %v", result.Duration, want)
	}
}
