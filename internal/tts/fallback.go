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

	"go.uber.org/zap"

	"github.com/SayanNandyRIL/word-to-podcast/internal/logging"
)

// FallbackSynthesizer chains a primary synthesizer with a fallback
// engine. A per-utterance failure on the primary is retried once on the
// fallback before being reported.
type FallbackSynthesizer struct {
	primary  Synthesizer
	fallback Synthesizer
}

// NewFallbackSynthesizer wraps primary with fallback. fallback may be
// nil, in which case the wrapper is transparent.
func NewFallbackSynthesizer(primary, fallback Synthesizer) *FallbackSynthesizer {
	return &FallbackSynthesizer{primary: primary, fallback: fallback}
}

// Synthesize tries the primary engine first and falls back on failure
func (f *FallbackSynthesizer) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	audio, err := f.primary.Synthesize(ctx, text, voice)
	if err == nil {
		return audio, nil
	}

	if f.fallback == nil || ctx.Err() != nil {
		return nil, err
	}

	if logging.Logger != nil {
		logging.LogWarn("Primary TTS failed, trying fallback engine",
			zap.String("voice", voice),
			zap.Error(err),
		)
	}

	audio, fbErr := f.fallback.Synthesize(ctx, text, voice)
	if fbErr != nil {
		// Report the primary failure; it is the one the operator cares
		// about when both engines are down
		return nil, err
	}

	return audio, nil
}

// Close closes both engines
func (f *FallbackSynthesizer) Close() error {
	err := f.primary.Close()
	if f.fallback != nil {
		if fbErr := f.fallback.Close(); err == nil {
			err = fbErr
		}
	}
	return err
}
