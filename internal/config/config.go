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

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the word-to-podcast hub
type Config struct {
	Server   ServerConfig
	OpenAI   OpenAIConfig
	TTS      TTSConfig
	Pipeline PipelineConfig
	Wiki     WikiConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	NATS     NATSConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// OpenAIConfig holds OpenAI API configuration shared by the script
// generator, the image analyzer and the default speech synthesizer
type OpenAIConfig struct {
	APIKey          string
	BaseURL         string // Optional override for OpenAI-compatible gateways
	ChatModel       string // Model used for script generation (e.g. "gpt-4o")
	VisionMaxTokens int    // Token cap for image analysis responses
}

// TTSConfig holds Text-to-Speech synthesis configuration
type TTSConfig struct {
	Model          string        // Speech model (e.g. "tts-1")
	ResponseFormat string        // Audio container requested per utterance (wav)
	Speed          float32       // Speech speed (1.0 = normal)
	Timeout        time.Duration // Per-call timeout
	MaxRetries     int           // Bounded retry per utterance
	FallbackURL    string        // OpenAI-compatible fallback endpoint, empty disables
	MaxConcurrent  int           // Concurrency cap for the fallback client
}

// PipelineConfig holds script-to-audio pipeline configuration
type PipelineConfig struct {
	SpeakerAName  string // First speaker tag matched in scripts
	SpeakerAVoice string // Voice identifier for speaker A
	SpeakerBName  string // Second speaker tag matched in scripts
	SpeakerBVoice string // Voice identifier for speaker B
	PauseMs       int    // Silence inserted after every audio chunk
}

// WikiConfig holds Wikipedia content extraction configuration
type WikiConfig struct {
	APIURL  string
	Timeout time.Duration
}

// DatabaseConfig holds SQLite database configuration
type DatabaseConfig struct {
	Path string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// NATSConfig holds NATS messaging configuration
type NATSConfig struct {
	Enabled       bool
	URL           string
	MaxReconnect  int
	ReconnectWait time.Duration
}

// Load loads configuration from environment variables with defaults
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Host:         getEnvString("PODCAST_HOST", "0.0.0.0"),
			Port:         getEnvInt("PODCAST_PORT", 8080),
			ReadTimeout:  getEnvDuration("PODCAST_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvDuration("PODCAST_WRITE_TIMEOUT", 120*time.Second),
		},
		OpenAI: OpenAIConfig{
			APIKey:          getEnvString("OPENAI_API_KEY", ""),
			BaseURL:         getEnvString("OPENAI_BASE_URL", ""),
			ChatModel:       getEnvString("OPENAI_CHAT_MODEL", "gpt-4o"),
			VisionMaxTokens: getEnvInt("OPENAI_VISION_MAX_TOKENS", 500),
		},
		TTS: TTSConfig{
			Model:          getEnvString("TTS_MODEL", "tts-1"),
			ResponseFormat: getEnvString("TTS_FORMAT", "wav"),
			Speed:          getEnvFloat32("TTS_SPEED", 1.0),
			Timeout:        getEnvDuration("TTS_TIMEOUT", 30*time.Second),
			MaxRetries:     getEnvInt("TTS_MAX_RETRIES", 2),
			FallbackURL:    getEnvString("TTS_FALLBACK_URL", ""),
			MaxConcurrent:  getEnvInt("TTS_MAX_CONCURRENT", 4),
		},
		Pipeline: PipelineConfig{
			SpeakerAName:  getEnvString("PODCAST_SPEAKER_A_NAME", "Rahul"),
			SpeakerAVoice: getEnvString("PODCAST_SPEAKER_A_VOICE", "onyx"),
			SpeakerBName:  getEnvString("PODCAST_SPEAKER_B_NAME", "Priya"),
			SpeakerBVoice: getEnvString("PODCAST_SPEAKER_B_VOICE", "nova"),
			PauseMs:       getEnvInt("PODCAST_PAUSE_MS", 150),
		},
		Wiki: WikiConfig{
			APIURL:  getEnvString("WIKI_API_URL", "https://en.wikipedia.org/api/rest_v1"),
			Timeout: getEnvDuration("WIKI_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			Path: getEnvString("DB_PATH", "./data/word-to-podcast.db"),
		},
		Logging: LoggingConfig{
			Level:  getEnvString("LOG_LEVEL", "info"),
			Format: getEnvString("LOG_FORMAT", "json"),
		},
		NATS: NATSConfig{
			Enabled:       getEnvBool("NATS_ENABLED", false),
			URL:           getEnvString("NATS_URL", "nats://localhost:4222"),
			MaxReconnect:  getEnvInt("NATS_MAX_RECONNECT", 10),
			ReconnectWait: getEnvDuration("NATS_RECONNECT_WAIT", 2*time.Second),
		},
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// validate checks if the configuration is valid
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.TTS.Speed <= 0 {
		return fmt.Errorf("TTS speed must be positive: %f", c.TTS.Speed)
	}

	if c.TTS.MaxRetries < 0 {
		return fmt.Errorf("TTS max retries must not be negative: %d", c.TTS.MaxRetries)
	}

	if c.TTS.MaxConcurrent <= 0 {
		return fmt.Errorf("TTS max concurrent must be positive: %d", c.TTS.MaxConcurrent)
	}

	if c.Pipeline.PauseMs <= 0 {
		return fmt.Errorf("pipeline pause must be positive: %d", c.Pipeline.PauseMs)
	}

	if c.Pipeline.SpeakerAName == "" || c.Pipeline.SpeakerBName == "" {
		return fmt.Errorf("speaker names must not be empty")
	}

	if c.Wiki.APIURL == "" {
		return fmt.Errorf("wiki API URL must be provided")
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatValue)
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
