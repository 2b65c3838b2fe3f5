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
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/SayanNandyRIL/word-to-podcast/internal/config"
	"github.com/SayanNandyRIL/word-to-podcast/internal/logging"
)

// OpenAISynthesizer implements Synthesizer on the OpenAI speech API
type OpenAISynthesizer struct {
	client *openai.Client
	cfg    config.TTSConfig
}

// NewOpenAISynthesizer creates a synthesizer backed by the OpenAI API.
// baseURL may point at any OpenAI-compatible gateway; empty uses the
// public endpoint.
func NewOpenAISynthesizer(apiKey, baseURL string, cfg config.TTSConfig) (*OpenAISynthesizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key cannot be empty")
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	if logging.Sugar != nil {
		logging.Sugar.Infow("🔊 OpenAI TTS synthesizer initialized",
			"model", cfg.Model,
			"format", cfg.ResponseFormat,
			"timeout", cfg.Timeout,
			"max_retries", cfg.MaxRetries,
		)
	}

	return &OpenAISynthesizer{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
	}, nil
}

// Synthesize converts text to speech audio for one utterance. Transient
// failures are retried up to the configured bound; exhausting transport
// errors or rejected credentials are classified environment-fatal.
func (s *OpenAISynthesizer) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}
	if voice == "" {
		voice = DefaultVoice
	}

	startTime := time.Now()

	if logging.Logger != nil {
		logging.LogTTSOperation("synthesis_start",
			zap.String("voice", voice),
			zap.Int("text_length", len(text)),
			zap.String("format", s.cfg.ResponseFormat),
		)
	}

	var lastErr error
	transportFailures := 0
	attempts := s.cfg.MaxRetries + 1

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			// Linear backoff between retries, bounded by the caller's context
			select {
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		audio, err := s.synthesizeOnce(ctx, text, voice)
		if err == nil {
			if logging.Logger != nil {
				logging.LogTTSOperation("synthesis_complete",
					zap.String("voice", voice),
					zap.Int("audio_bytes", len(audio)),
					zap.Duration("processing_time", time.Since(startTime)),
				)
			}
			return audio, nil
		}

		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.HTTPStatusCode {
			case http.StatusUnauthorized, http.StatusForbidden:
				// Rejected credentials are a deployment problem, not a
				// content problem; retrying cannot help
				return nil, &EnvironmentError{Err: err}
			case http.StatusTooManyRequests, http.StatusInternalServerError,
				http.StatusBadGateway, http.StatusServiceUnavailable:
				continue
			default:
				// Request-level rejection (bad input, invalid voice)
				return nil, fmt.Errorf("speech synthesis rejected: %w", err)
			}
		}

		// Transport-level failure; the endpoint may be unreachable
		transportFailures++
	}

	if logging.Logger != nil {
		logging.LogError(lastErr, "TTS synthesis failed after retries",
			zap.String("voice", voice),
			zap.Int("attempts", attempts),
		)
	}

	if transportFailures == attempts {
		// Every attempt died before reaching the service
		return nil, &EnvironmentError{Err: lastErr}
	}

	return nil, fmt.Errorf("speech synthesis failed after %d attempts: %w", attempts, lastErr)
}

// synthesizeOnce performs a single speech request with the per-call timeout
func (s *OpenAISynthesizer) synthesizeOnce(ctx context.Context, text, voice string) ([]byte, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	resp, err := s.client.CreateSpeech(callCtx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.cfg.Model),
		Input:          text,
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormat(s.cfg.ResponseFormat),
		Speed:          float64(s.cfg.Speed),
	})
	if err != nil {
		return nil, err
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read speech response: %w", err)
	}

	return audio, nil
}

// Close cleans up resources
func (s *OpenAISynthesizer) Close() error {
	return nil
}
