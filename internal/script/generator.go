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

package script

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/SayanNandyRIL/word-to-podcast/internal/logging"
)

// maxContentChars caps how much source material is handed to the model
const maxContentChars = 4000

// Generator produces two-speaker Hinglish podcast scripts from raw
// source material via an LLM
type Generator struct {
	client *openai.Client
	model  string
}

// NewGenerator creates a script generator. baseURL may point at any
// OpenAI-compatible gateway; empty uses the public endpoint.
func NewGenerator(apiKey, baseURL, model string) (*Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key cannot be empty")
	}
	if model == "" {
		model = openai.GPT4o
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	return &Generator{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

// Generate turns source content into a speaker-tagged Hinglish script.
// The returned text follows the "Name: dialogue" line format the parser
// expects, though downstream code tolerates deviations by dropping
// unrecognized lines.
func (g *Generator) Generate(ctx context.Context, content string, profiles Profiles) (string, error) {
	if content == "" {
		return "", fmt.Errorf("content cannot be empty")
	}
	if err := profiles.Validate(); err != nil {
		return "", fmt.Errorf("invalid speaker profiles: %w", err)
	}

	if len(content) > maxContentChars {
		content = content[:maxContentChars]
	}

	startTime := time.Now()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a creative scriptwriter.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(content, profiles),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("script generation failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("script generation returned no choices")
	}

	scriptText := resp.Choices[0].Message.Content

	if logging.Logger != nil {
		logging.LogScriptOperation("generate",
			zap.String("model", g.model),
			zap.Int("content_chars", len(content)),
			zap.Int("script_chars", len(scriptText)),
			zap.Duration("processing_time", time.Since(startTime)),
		)
	}

	return scriptText, nil
}

// buildPrompt templates the Hinglish conversation prompt for the two
// configured speakers
func buildPrompt(content string, profiles Profiles) string {
	return fmt.Sprintf(`You are a scriptwriter for a candid, funny Indian podcast.
Create a conversation between **%[1]s** (energetic, cracks jokes) and **%[2]s** (smart, sarcastic).

**Content Source:**
%[3]s

**CRITICAL INSTRUCTIONS:**
1. **Language:** Hinglish (Hindi + English).
2. **Fillers:** Use words like: "Umm...", "Achcha?", "Matlab...", "Arre yaar", "You know?", "Haa correct".
3. **Laughter:** Write "Hahaha" or "Hehe" where appropriate.
4. **Tone:** Natural, interruptive, casual.
5. **Length:** Keep it around 250-300 words total.

**Format:**
%[1]s: Dialogue...
%[2]s: Dialogue...
`, profiles.A.Name, profiles.B.Name, content)
}
