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

// podcast-cli turns a Wikipedia topic, a text file or an image into a
// two-speaker Hinglish podcast episode without running the hub.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/SayanNandyRIL/word-to-podcast/internal/audio"
	"github.com/SayanNandyRIL/word-to-podcast/internal/config"
	"github.com/SayanNandyRIL/word-to-podcast/internal/extract"
	"github.com/SayanNandyRIL/word-to-podcast/internal/logging"
	"github.com/SayanNandyRIL/word-to-podcast/internal/pipeline"
	"github.com/SayanNandyRIL/word-to-podcast/internal/script"
	"github.com/SayanNandyRIL/word-to-podcast/internal/tts"
)

// fileConfig holds optional YAML overrides for speakers and pacing
type fileConfig struct {
	SpeakerA struct {
		Name  string `yaml:"name"`
		Voice string `yaml:"voice"`
	} `yaml:"speaker_a"`
	SpeakerB struct {
		Name  string `yaml:"name"`
		Voice string `yaml:"voice"`
	} `yaml:"speaker_b"`
	PauseMs   int    `yaml:"pause_ms"`
	ChatModel string `yaml:"chat_model"`
}

func main() {
	var (
		topic      = flag.String("topic", "", "Wikipedia topic to build the episode from")
		textFile   = flag.String("text", "", "Path to a text file to build the episode from")
		imageFile  = flag.String("image", "", "Path to an image to build the episode from")
		scriptFile = flag.String("script", "", "Path to a ready speaker-tagged script (skips generation)")
		outFile    = flag.String("out", "hinglish_podcast.wav", "Output WAV path")
		scriptOut  = flag.String("script-out", "", "Also save the generated script to this path")
		configFile = flag.String("config", "", "Optional YAML file overriding speakers and pacing")
	)
	flag.Parse()

	_ = godotenv.Load()

	if err := logging.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Close()

	cfg, err := config.Load()
	if err != nil {
		fatal("invalid configuration: %v", err)
	}

	if *configFile != "" {
		if err := applyFileConfig(cfg, *configFile); err != nil {
			fatal("failed to load -config file: %v", err)
		}
	}

	if err := run(cfg, *topic, *textFile, *imageFile, *scriptFile, *outFile, *scriptOut); err != nil {
		fatal("%v", err)
	}
}

func run(cfg *config.Config, topic, textFile, imageFile, scriptFile, outFile, scriptOut string) error {
	ctx := context.Background()

	profiles := script.Profiles{
		A: script.SpeakerProfile{Name: cfg.Pipeline.SpeakerAName, Voice: cfg.Pipeline.SpeakerAVoice},
		B: script.SpeakerProfile{Name: cfg.Pipeline.SpeakerBName, Voice: cfg.Pipeline.SpeakerBVoice},
	}

	scriptText, err := resolveScript(ctx, cfg, profiles, topic, textFile, imageFile, scriptFile)
	if err != nil {
		return err
	}

	if scriptOut != "" {
		if err := os.WriteFile(scriptOut, []byte(scriptText), 0644); err != nil {
			return fmt.Errorf("failed to write script: %w", err)
		}
		fmt.Printf("📝 Script saved to %s\n", scriptOut)
	}

	synth, err := tts.NewOpenAISynthesizer(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.TTS)
	if err != nil {
		return err
	}
	defer synth.Close()

	assembler := audio.NewAssembler(time.Duration(cfg.Pipeline.PauseMs) * time.Millisecond)
	controller := pipeline.NewController(synth, assembler, profiles)
	controller.OnProgress(func(completed, total int) {
		fmt.Printf("🎙️  Generating audio %d/%d\n", completed, total)
	})

	outcome, err := controller.Run(ctx, "cli", scriptText)
	if err != nil {
		return fmt.Errorf("pipeline failed (%s): %w", outcome.Failure, err)
	}

	if err := os.WriteFile(outFile, outcome.Buffer, 0644); err != nil {
		return fmt.Errorf("failed to write episode: %w", err)
	}

	fmt.Printf("✅ Episode written to %s (%d utterances, %d chunks, %s)\n",
		outFile, outcome.UtteranceCount, outcome.ChunksGenerated, outcome.Duration.Round(time.Millisecond))
	return nil
}

// resolveScript produces the speaker-tagged script from whichever
// source flag the user provided
func resolveScript(ctx context.Context, cfg *config.Config, profiles script.Profiles, topic, textFile, imageFile, scriptFile string) (string, error) {
	if scriptFile != "" {
		data, err := os.ReadFile(scriptFile)
		if err != nil {
			return "", fmt.Errorf("failed to read script file: %w", err)
		}
		return string(data), nil
	}

	content, err := resolveContent(ctx, cfg, topic, textFile, imageFile)
	if err != nil {
		return "", err
	}

	generator, err := script.NewGenerator(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.ChatModel)
	if err != nil {
		return "", err
	}

	fmt.Println("🤖 Generating script...")
	return generator.Generate(ctx, content, profiles)
}

// resolveContent extracts source material from the selected input
func resolveContent(ctx context.Context, cfg *config.Config, topic, textFile, imageFile string) (string, error) {
	provided := 0
	for _, f := range []string{topic, textFile, imageFile} {
		if f != "" {
			provided++
		}
	}
	if provided != 1 {
		return "", fmt.Errorf("provide exactly one of -topic, -text, -image or -script")
	}

	switch {
	case topic != "":
		wiki, err := extract.NewWikipediaClient(cfg.Wiki.APIURL, cfg.Wiki.Timeout)
		if err != nil {
			return "", err
		}
		fmt.Printf("🔎 Fetching Wikipedia summary for %q...\n", topic)
		return wiki.Summary(ctx, topic)

	case textFile != "":
		data, err := os.ReadFile(textFile)
		if err != nil {
			return "", fmt.Errorf("failed to read text file: %w", err)
		}
		return extract.Text(string(data))

	default:
		data, err := os.ReadFile(imageFile)
		if err != nil {
			return "", fmt.Errorf("failed to read image file: %w", err)
		}
		analyzer, err := extract.NewImageAnalyzer(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.ChatModel, cfg.OpenAI.VisionMaxTokens)
		if err != nil {
			return "", err
		}
		fmt.Println("🖼️  Describing image...")
		return analyzer.Describe(ctx, data)
	}
}

// applyFileConfig layers YAML overrides on top of env configuration
func applyFileConfig(cfg *config.Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}

	if fc.SpeakerA.Name != "" {
		cfg.Pipeline.SpeakerAName = fc.SpeakerA.Name
	}
	if fc.SpeakerA.Voice != "" {
		cfg.Pipeline.SpeakerAVoice = fc.SpeakerA.Voice
	}
	if fc.SpeakerB.Name != "" {
		cfg.Pipeline.SpeakerBName = fc.SpeakerB.Name
	}
	if fc.SpeakerB.Voice != "" {
		cfg.Pipeline.SpeakerBVoice = fc.SpeakerB.Voice
	}
	if fc.PauseMs > 0 {
		cfg.Pipeline.PauseMs = fc.PauseMs
	}
	if fc.ChatModel != "" {
		cfg.OpenAI.ChatModel = fc.ChatModel
	}

	return nil
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
