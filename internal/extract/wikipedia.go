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

package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/SayanNandyRIL/word-to-podcast/internal/logging"
	"github.com/SayanNandyRIL/word-to-podcast/internal/security"
)

// WikipediaClient fetches topic summaries from the Wikipedia REST API
type WikipediaClient struct {
	baseURL    string
	httpClient *http.Client
}

// wikipediaSummary is the subset of the REST summary response we use
type wikipediaSummary struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// NewWikipediaClient creates a client for the given REST API base URL
// (e.g. https://en.wikipedia.org/api/rest_v1)
func NewWikipediaClient(baseURL string, timeout time.Duration) (*WikipediaClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("Wikipedia API URL cannot be empty")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &WikipediaClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Summary fetches the lead summary for a topic. Spaces in the topic
// become underscores per Wikipedia title conventions.
func (w *WikipediaClient) Summary(ctx context.Context, topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", fmt.Errorf("topic cannot be empty")
	}

	title := strings.ReplaceAll(topic, " ", "_")
	endpoint := fmt.Sprintf("%s/page/summary/%s", w.baseURL, url.PathEscape(title))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	startTime := time.Now()

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("Wikipedia request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("no Wikipedia page found for %q", topic)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Wikipedia API returned status %d", resp.StatusCode)
	}

	var summary wikipediaSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return "", fmt.Errorf("failed to decode Wikipedia response: %w", err)
	}

	if summary.Type == "disambiguation" {
		return "", fmt.Errorf("topic %q is ambiguous, be more specific", topic)
	}
	if summary.Extract == "" {
		return "", fmt.Errorf("Wikipedia page for %q has no summary text", topic)
	}

	if logging.Logger != nil {
		logging.Logger.Info("Wikipedia summary fetched",
			zap.String("component", "extract"),
			zap.String("topic", security.SanitizeLogInput(topic)),
			zap.Int("chars", len(summary.Extract)),
			zap.Duration("elapsed", time.Since(startTime)),
		)
	}

	return summary.Extract, nil
}
