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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/SayanNandyRIL/word-to-podcast/internal/config"
	"github.com/SayanNandyRIL/word-to-podcast/internal/logging"
)

// compatSpeechRequest represents a request to an OpenAI-compatible TTS API
type compatSpeechRequest struct {
	Model  string  `json:"model"`
	Input  string  `json:"input"`
	Voice  string  `json:"voice"`
	Format string  `json:"response_format"`
	Speed  float32 `json:"speed,omitempty"`
}

// compatVoicesResponse represents the response from the voices endpoint
type compatVoicesResponse struct {
	Voices []string `json:"voices"`
}

// CompatClient implements Synthesizer for self-hosted OpenAI-compatible
// TTS services (Kokoro and friends). It is used as the fallback engine
// when the primary synthesizer is unavailable.
type CompatClient struct {
	baseURL         string
	client          *http.Client
	cfg             config.TTSConfig
	semaphore       chan struct{} // Limits concurrent requests
	mu              sync.RWMutex
	cachedVoices    []string
	voicesCacheTime time.Time
}

// NewCompatClient creates a new OpenAI-compatible TTS client
func NewCompatClient(baseURL string, cfg config.TTSConfig) (*CompatClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("TTS URL cannot be empty")
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	// Create semaphore to limit concurrent requests
	semaphore := make(chan struct{}, cfg.MaxConcurrent)

	compatClient := &CompatClient{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		client:    client,
		cfg:       cfg,
		semaphore: semaphore,
	}

	// Test connection
	if err := compatClient.testConnection(); err != nil {
		return nil, fmt.Errorf("failed to connect to TTS service: %w", err)
	}

	if logging.Sugar != nil {
		logging.Sugar.Infow("🔊 Fallback TTS client initialized",
			"url", baseURL,
			"max_concurrent", cfg.MaxConcurrent,
		)
	}

	return compatClient, nil
}

// Synthesize converts text to speech using the OpenAI-compatible endpoint
func (c *CompatClient) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}
	if voice == "" {
		voice = DefaultVoice
	}

	// Acquire semaphore slot for concurrency control
	select {
	case c.semaphore <- struct{}{}:
		defer func() { <-c.semaphore }()
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("TTS synthesis queue full, request timed out")
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	startTime := time.Now()

	request := compatSpeechRequest{
		Model:  c.cfg.Model,
		Input:  text,
		Voice:  voice,
		Format: c.cfg.ResponseFormat,
		Speed:  c.cfg.Speed,
	}

	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal TTS request: %w", err)
	}

	if logging.Logger != nil {
		logging.LogTTSOperation("fallback_synthesis_start",
			zap.String("voice", voice),
			zap.Int("text_length", len(text)),
			zap.String("format", c.cfg.ResponseFormat),
		)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, "POST", c.baseURL+"/audio/speech", bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/*")

	resp, err := c.client.Do(req)
	if err != nil {
		if logging.Logger != nil {
			logging.LogError(err, "TTS HTTP request failed",
				zap.String("voice", voice),
				zap.Int("text_length", len(text)),
			)
		}
		// The endpoint was verified reachable at construction; a dead
		// connection now means the toolchain degraded underneath us
		return nil, &EnvironmentError{Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Warning: failed to close response body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		if logging.Logger != nil {
			logging.LogWarn("TTS request failed",
				zap.Int("status_code", resp.StatusCode),
				zap.String("response_body", string(body)),
			)
		}
		return nil, fmt.Errorf("TTS request failed with status %d: %s", resp.StatusCode, string(body))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read TTS response: %w", err)
	}

	if logging.Logger != nil {
		logging.LogTTSOperation("fallback_synthesis_complete",
			zap.String("voice", voice),
			zap.Int("audio_bytes", len(audio)),
			zap.Duration("processing_time", time.Since(startTime)),
		)
	}

	return audio, nil
}

// GetAvailableVoices returns the list of voices offered by the endpoint
func (c *CompatClient) GetAvailableVoices() ([]string, error) {
	c.mu.RLock()
	// Return cached voices if they're fresh (cache for 1 hour)
	if len(c.cachedVoices) > 0 && time.Since(c.voicesCacheTime) < time.Hour {
		voices := make([]string, len(c.cachedVoices))
		copy(voices, c.cachedVoices)
		c.mu.RUnlock()
		return voices, nil
	}
	c.mu.RUnlock()

	// Fetch voices from API
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/audio/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create voices request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch voices: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Warning: failed to close response body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("voices request failed with status %d", resp.StatusCode)
	}

	var voicesResponse compatVoicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&voicesResponse); err != nil {
		return nil, fmt.Errorf("failed to decode voices response: %w", err)
	}

	// Update cache
	c.mu.Lock()
	c.cachedVoices = make([]string, len(voicesResponse.Voices))
	copy(c.cachedVoices, voicesResponse.Voices)
	c.voicesCacheTime = time.Now()
	c.mu.Unlock()

	if logging.Sugar != nil {
		logging.Sugar.Debugw("🔊 Retrieved available voices",
			"count", len(voicesResponse.Voices),
			"voices", voicesResponse.Voices,
		)
	}

	return voicesResponse.Voices, nil
}

// Close cleans up resources
func (c *CompatClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// testConnection tests the connection to the TTS service
func (c *CompatClient) testConnection() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/audio/voices", nil)
	if err != nil {
		return fmt.Errorf("failed to create test request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Warning: failed to close response body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status %d", resp.StatusCode)
	}

	return nil
}
