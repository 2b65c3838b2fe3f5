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
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotWave is returned when bytes do not carry a RIFF/WAVE header
	ErrNotWave = errors.New("not a RIFF/WAVE stream")

	// ErrUnsupportedFormat is returned for WAVE streams that are not
	// 16-bit linear PCM
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

// Clip holds one decoded PCM16 audio segment
type Clip struct {
	SampleRate int
	Channels   int
	Data       []byte // interleaved little-endian 16-bit samples
}

// Duration returns the playable length of the clip
func (c *Clip) Duration() time.Duration {
	if c.SampleRate <= 0 || c.Channels <= 0 {
		return 0
	}
	frames := len(c.Data) / (2 * c.Channels)
	return time.Duration(frames) * time.Second / time.Duration(c.SampleRate)
}

// Silence returns a clip of zero samples in the given format
func Silence(sampleRate, channels int, d time.Duration) *Clip {
	frames := int(int64(sampleRate) * d.Nanoseconds() / int64(time.Second))
	return &Clip{
		SampleRate: sampleRate,
		Channels:   channels,
		Data:       make([]byte, frames*channels*2),
	}
}

// Decode parses a PCM16 RIFF/WAVE buffer into a Clip. Unknown chunks
// (LIST, fact, ...) are skipped; compressed or non-16-bit streams are
// rejected with ErrUnsupportedFormat.
func Decode(data []byte) (*Clip, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, ErrNotWave
	}

	var (
		haveFmt    bool
		format     uint16
		channels   uint16
		sampleRate uint32
		bits       uint16
		pcm        []byte
	)

	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8

		if chunkSize < 0 || body+chunkSize > len(data) {
			return nil, fmt.Errorf("%w: truncated %q chunk", ErrNotWave, chunkID)
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, fmt.Errorf("%w: short fmt chunk", ErrNotWave)
			}
			format = binary.LittleEndian.Uint16(data[body : body+2])
			channels = binary.LittleEndian.Uint16(data[body+2 : body+4])
			sampleRate = binary.LittleEndian.Uint32(data[body+4 : body+8])
			bits = binary.LittleEndian.Uint16(data[body+14 : body+16])
			haveFmt = true
		case "data":
			pcm = data[body : body+chunkSize]
		}

		// Chunks are word-aligned; odd sizes carry a pad byte
		offset = body + chunkSize
		if chunkSize%2 == 1 {
			offset++
		}
	}

	if !haveFmt || pcm == nil {
		return nil, fmt.Errorf("%w: missing fmt or data chunk", ErrNotWave)
	}

	if format != 1 || bits != 16 {
		return nil, fmt.Errorf("%w: format=%d bits=%d", ErrUnsupportedFormat, format, bits)
	}

	if channels == 0 || sampleRate == 0 {
		return nil, fmt.Errorf("%w: zero channels or sample rate", ErrUnsupportedFormat)
	}

	return &Clip{
		SampleRate: int(sampleRate),
		Channels:   int(channels),
		Data:       pcm,
	}, nil
}

// Encode serializes the clip as a PCM16 RIFF/WAVE buffer
func (c *Clip) Encode() []byte {
	dataSize := len(c.Data)
	buf := make([]byte, 44+dataSize)

	blockAlign := c.Channels * 2
	byteRate := c.SampleRate * blockAlign

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataSize))
	copy(buf[8:12], "WAVE")

	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // linear PCM
	binary.LittleEndian.PutUint16(buf[22:24], uint16(c.Channels))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(c.SampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(buf[34:36], 16)

	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))
	copy(buf[44:], c.Data)

	return buf
}
