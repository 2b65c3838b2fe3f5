package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_DefaultValues(t *testing.T) {
	// Clear all environment variables that could affect the test
	clearEnvVars()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Test server defaults
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Database.Path != "./data/word-to-podcast.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "./data/word-to-podcast.db")
	}

	// Test OpenAI defaults
	if cfg.OpenAI.ChatModel != "gpt-4o" {
		t.Errorf("OpenAI.ChatModel = %q, want %q", cfg.OpenAI.ChatModel, "gpt-4o")
	}
	if cfg.OpenAI.VisionMaxTokens != 500 {
		t.Errorf("OpenAI.VisionMaxTokens = %d, want %d", cfg.OpenAI.VisionMaxTokens, 500)
	}

	// Test TTS defaults
	if cfg.TTS.Model != "tts-1" {
		t.Errorf("TTS.Model = %q, want %q", cfg.TTS.Model, "tts-1")
	}
	if cfg.TTS.ResponseFormat != "wav" {
		t.Errorf("TTS.ResponseFormat = %q, want %q", cfg.TTS.ResponseFormat, "wav")
	}
	if cfg.TTS.Speed != 1.0 {
		t.Errorf("TTS.Speed = %f, want %f", cfg.TTS.Speed, 1.0)
	}
	if cfg.TTS.MaxRetries != 2 {
		t.Errorf("TTS.MaxRetries = %d, want %d", cfg.TTS.MaxRetries, 2)
	}

	// Test pipeline defaults
	if cfg.Pipeline.SpeakerAName != "Rahul" {
		t.Errorf("Pipeline.SpeakerAName = %q, want %q", cfg.Pipeline.SpeakerAName, "Rahul")
	}
	if cfg.Pipeline.SpeakerAVoice != "onyx" {
		t.Errorf("Pipeline.SpeakerAVoice = %q, want %q", cfg.Pipeline.SpeakerAVoice, "onyx")
	}
	if cfg.Pipeline.SpeakerBName != "Priya" {
		t.Errorf("Pipeline.SpeakerBName = %q, want %q", cfg.Pipeline.SpeakerBName, "Priya")
	}
	if cfg.Pipeline.SpeakerBVoice != "nova" {
		t.Errorf("Pipeline.SpeakerBVoice = %q, want %q", cfg.Pipeline.SpeakerBVoice, "nova")
	}
	if cfg.Pipeline.PauseMs != 150 {
		t.Errorf("Pipeline.PauseMs = %d, want %d", cfg.Pipeline.PauseMs, 150)
	}

	// Test NATS defaults
	if cfg.NATS.Enabled {
		t.Error("NATS.Enabled = true, want false")
	}
	if cfg.NATS.URL != "nats://localhost:4222" {
		t.Errorf("NATS.URL = %q, want %q", cfg.NATS.URL, "nats://localhost:4222")
	}
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name: "Server configuration",
			envVars: map[string]string{
				"PODCAST_HOST":         "127.0.0.1",
				"PODCAST_PORT":         "3000",
				"PODCAST_READ_TIMEOUT": "45s",
			},
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Server.Host != "127.0.0.1" {
					t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "127.0.0.1")
				}
				if cfg.Server.Port != 3000 {
					t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 3000)
				}
				if cfg.Server.ReadTimeout != 45*time.Second {
					t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, 45*time.Second)
				}
			},
		},
		{
			name: "TTS configuration",
			envVars: map[string]string{
				"TTS_MODEL":        "tts-1-hd",
				"TTS_SPEED":        "1.5",
				"TTS_TIMEOUT":      "15s",
				"TTS_MAX_RETRIES":  "3",
				"TTS_FALLBACK_URL": "http://localhost:8880/v1",
			},
			validate: func(t *testing.T, cfg *Config) {
				if cfg.TTS.Model != "tts-1-hd" {
					t.Errorf("TTS.Model = %q, want %q", cfg.TTS.Model, "tts-1-hd")
				}
				if cfg.TTS.Speed != 1.5 {
					t.Errorf("TTS.Speed = %f, want %f", cfg.TTS.Speed, 1.5)
				}
				if cfg.TTS.Timeout != 15*time.Second {
					t.Errorf("TTS.Timeout = %v, want %v", cfg.TTS.Timeout, 15*time.Second)
				}
				if cfg.TTS.MaxRetries != 3 {
					t.Errorf("TTS.MaxRetries = %d, want %d", cfg.TTS.MaxRetries, 3)
				}
				if cfg.TTS.FallbackURL != "http://localhost:8880/v1" {
					t.Errorf("TTS.FallbackURL = %q, want %q", cfg.TTS.FallbackURL, "http://localhost:8880/v1")
				}
			},
		},
		{
			name: "Speaker profile configuration",
			envVars: map[string]string{
				"PODCAST_SPEAKER_A_NAME":  "Sayan",
				"PODCAST_SPEAKER_A_VOICE": "echo",
				"PODCAST_SPEAKER_B_NAME":  "Suchi",
				"PODCAST_SPEAKER_B_VOICE": "shimmer",
				"PODCAST_PAUSE_MS":        "200",
			},
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Pipeline.SpeakerAName != "Sayan" {
					t.Errorf("Pipeline.SpeakerAName = %q, want %q", cfg.Pipeline.SpeakerAName, "Sayan")
				}
				if cfg.Pipeline.SpeakerAVoice != "echo" {
					t.Errorf("Pipeline.SpeakerAVoice = %q, want %q", cfg.Pipeline.SpeakerAVoice, "echo")
				}
				if cfg.Pipeline.SpeakerBName != "Suchi" {
					t.Errorf("Pipeline.SpeakerBName = %q, want %q", cfg.Pipeline.SpeakerBName, "Suchi")
				}
				if cfg.Pipeline.SpeakerBVoice != "shimmer" {
					t.Errorf("Pipeline.SpeakerBVoice = %q, want %q", cfg.Pipeline.SpeakerBVoice, "shimmer")
				}
				if cfg.Pipeline.PauseMs != 200 {
					t.Errorf("Pipeline.PauseMs = %d, want %d", cfg.Pipeline.PauseMs, 200)
				}
			},
		},
		{
			name: "Wikipedia configuration",
			envVars: map[string]string{
				"WIKI_API_URL": "https://hi.wikipedia.org/api/rest_v1",
				"WIKI_TIMEOUT": "5s",
			},
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Wiki.APIURL != "https://hi.wikipedia.org/api/rest_v1" {
					t.Errorf("Wiki.APIURL = %q, want %q", cfg.Wiki.APIURL, "https://hi.wikipedia.org/api/rest_v1")
				}
				if cfg.Wiki.Timeout != 5*time.Second {
					t.Errorf("Wiki.Timeout = %v, want %v", cfg.Wiki.Timeout, 5*time.Second)
				}
			},
		},
		{
			name: "NATS configuration",
			envVars: map[string]string{
				"NATS_ENABLED":        "true",
				"NATS_URL":            "nats://broker:4222",
				"NATS_MAX_RECONNECT":  "5",
				"NATS_RECONNECT_WAIT": "3s",
			},
			validate: func(t *testing.T, cfg *Config) {
				if !cfg.NATS.Enabled {
					t.Error("NATS.Enabled = false, want true")
				}
				if cfg.NATS.URL != "nats://broker:4222" {
					t.Errorf("NATS.URL = %q, want %q", cfg.NATS.URL, "nats://broker:4222")
				}
				if cfg.NATS.MaxReconnect != 5 {
					t.Errorf("NATS.MaxReconnect = %d, want %d", cfg.NATS.MaxReconnect, 5)
				}
				if cfg.NATS.ReconnectWait != 3*time.Second {
					t.Errorf("NATS.ReconnectWait = %v, want %v", cfg.NATS.ReconnectWait, 3*time.Second)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars()
			for key, value := range tt.envVars {
				_ = os.Setenv(key, value)
			}
			defer clearEnvVars()

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			tt.validate(t, cfg)
		})
	}
}

func TestLoad_InvalidConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
	}{
		{
			name:    "Invalid port",
			envVars: map[string]string{"PODCAST_PORT": "99999"},
		},
		{
			name:    "Zero pause",
			envVars: map[string]string{"PODCAST_PAUSE_MS": "0"},
		},
		{
			name:    "Negative retries",
			envVars: map[string]string{"TTS_MAX_RETRIES": "-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars()
			for key, value := range tt.envVars {
				_ = os.Setenv(key, value)
			}
			defer clearEnvVars()

			if _, err := Load(); err == nil {
				t.Error("Load() expected error for invalid configuration, got nil")
			}
		})
	}
}

func TestLoad_InvalidEnvValuesFallBackToDefaults(t *testing.T) {
	clearEnvVars()
	_ = os.Setenv("PODCAST_PORT", "not-a-number")
	_ = os.Setenv("TTS_SPEED", "fast")
	_ = os.Setenv("NATS_ENABLED", "maybe")
	defer clearEnvVars()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want default %d", cfg.Server.Port, 8080)
	}
	if cfg.TTS.Speed != 1.0 {
		t.Errorf("TTS.Speed = %f, want default %f", cfg.TTS.Speed, 1.0)
	}
	if cfg.NATS.Enabled {
		t.Error("NATS.Enabled = true, want default false")
	}
}

// clearEnvVars removes every environment variable the loader reads
func clearEnvVars() {
	keys := []string{
		"PODCAST_HOST", "PODCAST_PORT", "PODCAST_READ_TIMEOUT", "PODCAST_WRITE_TIMEOUT",
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_CHAT_MODEL", "OPENAI_VISION_MAX_TOKENS",
		"TTS_MODEL", "TTS_FORMAT", "TTS_SPEED", "TTS_TIMEOUT", "TTS_MAX_RETRIES",
		"TTS_FALLBACK_URL", "TTS_MAX_CONCURRENT",
		"PODCAST_SPEAKER_A_NAME", "PODCAST_SPEAKER_A_VOICE",
		"PODCAST_SPEAKER_B_NAME", "PODCAST_SPEAKER_B_VOICE", "PODCAST_PAUSE_MS",
		"WIKI_API_URL", "WIKI_TIMEOUT",
		"DB_PATH", "LOG_LEVEL", "LOG_FORMAT",
		"NATS_ENABLED", "NATS_URL", "NATS_MAX_RECONNECT", "NATS_RECONNECT_WAIT",
	}
	for _, key := range keys {
		_ = os.Unsetenv(key)
	}
}
