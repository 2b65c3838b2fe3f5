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

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/SayanNandyRIL/word-to-podcast/internal/audio"
	"github.com/SayanNandyRIL/word-to-podcast/internal/logging"
	"github.com/SayanNandyRIL/word-to-podcast/internal/script"
	"github.com/SayanNandyRIL/word-to-podcast/internal/tts"
)

// FailureKind classifies why a pipeline run produced no episode
type FailureKind string

const (
	FailureNone FailureKind = ""

	// FailureNoRecognizedDialogue: the script contained no line
	// attributable to either configured speaker
	FailureNoRecognizedDialogue FailureKind = "no_recognized_dialogue"

	// FailureNoAudioProduced: dialogue was found but every utterance
	// failed synthesis or decoding
	FailureNoAudioProduced FailureKind = "no_audio_produced"

	// FailureEnvironmentFatal: the synthesis backend is unusable
	// (rejected credentials, unreachable endpoint); continuing would
	// only repeat the same failure
	FailureEnvironmentFatal FailureKind = "environment_fatal"
)

// ProgressFunc is invoked after each utterance attempt, successful or
// not, with the number attempted so far and the total
type ProgressFunc func(completed, total int)

// Outcome reports everything a single run produced
type Outcome struct {
	Buffer           []byte // complete WAV episode; nil when Failure is set
	UtteranceCount   int    // recognized dialogue lines
	ChunksGenerated  int    // utterances that synthesized successfully
	FailedUtterances []int  // ordinals that failed synthesis
	Duration         time.Duration
	Failure          FailureKind
}

// Controller drives a script through parsing, per-utterance synthesis
// and assembly. Individual utterance failures are skipped; environment
// failures abort the run.
type Controller struct {
	synth     tts.Synthesizer
	assembler *audio.Assembler
	profiles  script.Profiles
	progress  ProgressFunc
}

// NewController wires a pipeline around the given synthesizer
func NewController(synth tts.Synthesizer, assembler *audio.Assembler, profiles script.Profiles) *Controller {
	return &Controller{
		synth:     synth,
		assembler: assembler,
		profiles:  profiles,
	}
}

// OnProgress registers a callback fired after every utterance attempt
func (c *Controller) OnProgress(fn ProgressFunc) {
	c.progress = fn
}

// Run converts a raw script into a single WAV episode. The returned
// Outcome is always non-nil; when error is non-nil, Outcome.Failure
// names the class of failure (except for context cancellation, which
// surfaces the context error directly).
func (c *Controller) Run(ctx context.Context, sessionID, rawScript string) (*Outcome, error) {
	startTime := time.Now()
	outcome := &Outcome{}

	logging.LogPipelineStage(sessionID, "parsing",
		zap.Int("script_chars", len(rawScript)),
	)

	utterances := script.Parse(rawScript, c.profiles)
	outcome.UtteranceCount = len(utterances)

	if len(utterances) == 0 {
		outcome.Failure = FailureNoRecognizedDialogue
		logging.LogPipelineStage(sessionID, "failed",
			zap.String("failure", string(outcome.Failure)),
		)
		return outcome, fmt.Errorf("script contains no recognized dialogue")
	}

	chunks := make([]audio.Chunk, 0, len(utterances))
	total := len(utterances)

	for i, u := range utterances {
		if err := ctx.Err(); err != nil {
			return outcome, err
		}

		logging.LogPipelineStage(sessionID, "synthesizing",
			zap.Int("utterance", i+1),
			zap.Int("total", total),
			zap.String("speaker", u.Speaker),
		)

		voice := c.profiles.Resolve(u.Speaker)
		data, err := c.synth.Synthesize(ctx, u.Text, voice)

		if err != nil {
			if tts.IsEnvironmentError(err) {
				outcome.Failure = FailureEnvironmentFatal
				outcome.ChunksGenerated = len(chunks)
				logging.LogPipelineStage(sessionID, "failed",
					zap.String("failure", string(outcome.Failure)),
					zap.Int("utterance", i+1),
					zap.Error(err),
				)
				return outcome, fmt.Errorf("synthesis environment unusable: %w", err)
			}

			outcome.FailedUtterances = append(outcome.FailedUtterances, u.Index)
			logging.LogWarn("Utterance synthesis failed, skipping",
				zap.String("session_id", sessionID),
				zap.Int("ordinal", u.Index),
				zap.String("speaker", u.Speaker),
				zap.Error(err),
			)
		} else {
			chunks = append(chunks, audio.Chunk{Index: u.Index, Data: data})
		}

		if c.progress != nil {
			c.progress(i+1, total)
		}
	}

	outcome.ChunksGenerated = len(chunks)

	if len(chunks) == 0 {
		outcome.Failure = FailureNoAudioProduced
		logging.LogPipelineStage(sessionID, "failed",
			zap.String("failure", string(outcome.Failure)),
			zap.Int("utterances", total),
		)
		return outcome, fmt.Errorf("no audio produced: all %d utterances failed", total)
	}

	logging.LogPipelineStage(sessionID, "assembling",
		zap.Int("chunks", len(chunks)),
	)

	result, err := c.assembler.Assemble(chunks)
	if err != nil {
		if errors.Is(err, audio.ErrNoDecodableAudio) {
			outcome.Failure = FailureNoAudioProduced
		}
		logging.LogPipelineStage(sessionID, "failed",
			zap.String("failure", string(outcome.Failure)),
			zap.Error(err),
		)
		return outcome, fmt.Errorf("assembly failed: %w", err)
	}

	outcome.Buffer = result.Buffer
	outcome.Duration = result.Duration

	logging.LogPipelineStage(sessionID, "done",
		zap.Int("segments", result.Segments),
		zap.Int("skipped", result.Skipped),
		zap.Int("audio_bytes", len(result.Buffer)),
		zap.Duration("episode_duration", result.Duration),
		zap.Duration("processing_time", time.Since(startTime)),
	)

	return outcome, nil
}
