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

package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/SayanNandyRIL/word-to-podcast/internal/api"
	"github.com/SayanNandyRIL/word-to-podcast/internal/audio"
	"github.com/SayanNandyRIL/word-to-podcast/internal/config"
	"github.com/SayanNandyRIL/word-to-podcast/internal/events"
	"github.com/SayanNandyRIL/word-to-podcast/internal/extract"
	"github.com/SayanNandyRIL/word-to-podcast/internal/logging"
	"github.com/SayanNandyRIL/word-to-podcast/internal/messaging"
	"github.com/SayanNandyRIL/word-to-podcast/internal/pipeline"
	"github.com/SayanNandyRIL/word-to-podcast/internal/script"
	"github.com/SayanNandyRIL/word-to-podcast/internal/security"
	"github.com/SayanNandyRIL/word-to-podcast/internal/session"
	"github.com/SayanNandyRIL/word-to-podcast/internal/storage"
	"github.com/SayanNandyRIL/word-to-podcast/internal/tts"
)

// DownloadFilename is the fixed name episodes are served under
const DownloadFilename = "hinglish_podcast.wav"

// scriptGenerator turns source material into a speaker-tagged script
type scriptGenerator interface {
	Generate(ctx context.Context, content string, profiles script.Profiles) (string, error)
}

// topicFetcher resolves a topic into source text
type topicFetcher interface {
	Summary(ctx context.Context, topic string) (string, error)
}

// imageDescriber turns image bytes into source text
type imageDescriber interface {
	Describe(ctx context.Context, imageData []byte) (string, error)
}

// Components carries the server's collaborators. Tests inject fakes;
// production wiring comes from NewComponents.
type Components struct {
	Synthesizer tts.Synthesizer
	Generator   scriptGenerator
	Wiki        topicFetcher
	Images      imageDescriber
	EventsStore *storage.GenerationEventsStore
	NATS        *messaging.NATSService
}

// Server is the word-to-podcast HTTP hub
type Server struct {
	cfg    *config.Config
	mux    *http.ServeMux
	server *http.Server

	sessions  *session.Store
	profiles  script.Profiles
	assembler *audio.Assembler
	comp      Components

	// Server context for graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// NewComponents builds production collaborators from configuration
func NewComponents(cfg *config.Config) (Components, error) {
	primary, err := tts.NewOpenAISynthesizer(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.TTS)
	if err != nil {
		return Components{}, fmt.Errorf("failed to create synthesizer: %w", err)
	}

	var synth tts.Synthesizer = primary
	if cfg.TTS.FallbackURL != "" {
		fallback, err := tts.NewCompatClient(cfg.TTS.FallbackURL, cfg.TTS)
		if err != nil {
			logging.LogWarn("Fallback TTS unavailable, continuing without it")
		} else {
			synth = tts.NewFallbackSynthesizer(primary, fallback)
		}
	}

	generator, err := script.NewGenerator(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.ChatModel)
	if err != nil {
		return Components{}, fmt.Errorf("failed to create script generator: %w", err)
	}

	wiki, err := extract.NewWikipediaClient(cfg.Wiki.APIURL, cfg.Wiki.Timeout)
	if err != nil {
		return Components{}, fmt.Errorf("failed to create Wikipedia client: %w", err)
	}

	images, err := extract.NewImageAnalyzer(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.ChatModel, cfg.OpenAI.VisionMaxTokens)
	if err != nil {
		return Components{}, fmt.Errorf("failed to create image analyzer: %w", err)
	}

	db, err := storage.NewDatabase(storage.DatabaseConfig{Path: cfg.Database.Path})
	if err != nil {
		return Components{}, fmt.Errorf("failed to open database: %w", err)
	}

	comp := Components{
		Synthesizer: synth,
		Generator:   generator,
		Wiki:        wiki,
		Images:      images,
		EventsStore: storage.NewGenerationEventsStore(db),
	}

	if cfg.NATS.Enabled {
		nats, err := messaging.NewNATSServiceWithURL(cfg.NATS.URL)
		if err != nil {
			return Components{}, fmt.Errorf("failed to create NATS service: %w", err)
		}
		if err := nats.Connect(); err != nil {
			// The hub runs fine without a broker
			logging.LogWarn("NATS unavailable, progress events disabled")
		} else {
			comp.NATS = nats
		}
	}

	return comp, nil
}

// New creates a server around the given collaborators
func New(cfg *config.Config, comp Components) *Server {
	mux := http.NewServeMux()
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		cfg:      cfg,
		mux:      mux,
		sessions: session.NewStore(),
		profiles: script.Profiles{
			A: script.SpeakerProfile{Name: cfg.Pipeline.SpeakerAName, Voice: cfg.Pipeline.SpeakerAVoice},
			B: script.SpeakerProfile{Name: cfg.Pipeline.SpeakerBName, Voice: cfg.Pipeline.SpeakerBVoice},
		},
		assembler: audio.NewAssembler(time.Duration(cfg.Pipeline.PauseMs) * time.Millisecond),
		comp:      comp,
		ctx:       ctx,
		cancel:    cancel,
	}

	s.server = &http.Server{
		Addr:         cfg.Server.Host + ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      s.mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	s.routes()

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	logging.Sugar.Infow("🚀 word-to-podcast hub starting",
		"addr", s.server.Addr,
		"speaker_a", s.profiles.A.Name,
		"speaker_b", s.profiles.B.Name)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// Stop gracefully shuts down the server
func (s *Server) Stop() error {
	logging.Sugar.Infow("🛑 Shutting down word-to-podcast hub")

	s.cancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.comp.Synthesizer != nil {
		_ = s.comp.Synthesizer.Close()
	}
	if s.comp.NATS != nil {
		s.comp.NATS.Close()
	}

	logging.Sugar.Infow("✅ word-to-podcast hub shut down successfully")
	return nil
}

// Handler exposes the route table for tests
func (s *Server) Handler() http.Handler {
	return s.mux
}

// routes sets up HTTP routing
func (s *Server) routes() {
	s.mux.HandleFunc("/health", s.handleHealth)

	s.mux.HandleFunc("/api/sessions", s.handleSessions)
	s.mux.HandleFunc("/api/sessions/", s.handleSessionSubresource)

	if s.comp.EventsStore != nil {
		eventsHandler := api.NewGenerationEventsHandler(s.comp.EventsStore)
		s.mux.HandleFunc("/api/generation-events", eventsHandler.HandleGenerationEvents)
		s.mux.HandleFunc("/api/generation-events/", eventsHandler.HandleGenerationEventByID)
	}

	logging.Sugar.Infow("🌐 HTTP routes configured",
		"sessions_endpoint", "/api/sessions",
		"events_endpoint", "/api/generation-events")
}

// handleHealth provides system health information
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":       "ok",
		"timestamp":    time.Now(),
		"sessions":     s.sessions.Len(),
		"nats_enabled": s.comp.NATS != nil && s.comp.NATS.IsConnected(),
		"speakers":     []string{s.profiles.A.Name, s.profiles.B.Name},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := writeJSON(w, health); err != nil {
		logging.Sugar.Errorw("Failed to write health response", "error", err)
	}
}

// handleSessions handles POST /api/sessions
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess := s.sessions.Create()
	logging.Sugar.Infow("Session created", "session_id", sess.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = writeJSON(w, sess)
}

// handleSessionSubresource routes /api/sessions/{id}/{source|script|podcast}
func (s *Server) handleSessionSubresource(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/sessions/"), "/")
	if len(parts) < 1 || parts[0] == "" {
		http.Error(w, "Session ID is required", http.StatusBadRequest)
		return
	}

	sessionID := parts[0]
	if err := security.ValidateSessionID(sessionID); err != nil {
		http.Error(w, "Invalid session ID", http.StatusBadRequest)
		return
	}

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	if len(parts) == 1 {
		s.handleSessionGet(w, r, sess)
		return
	}

	switch parts[1] {
	case "source":
		s.handleSetSource(w, r, sess)
	case "script":
		s.handleScript(w, r, sess)
	case "podcast":
		s.handlePodcast(w, r, sess)
	default:
		http.Error(w, "Unknown resource", http.StatusNotFound)
	}
}

// handleSessionGet handles GET /api/sessions/{id}
func (s *Server) handleSessionGet(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = writeJSON(w, sess)
}

// setSourceRequest selects source material for a session
type setSourceRequest struct {
	Type        string `json:"type"`                   // "wikipedia", "text" or "image"
	Topic       string `json:"topic,omitempty"`        // wikipedia
	Text        string `json:"text,omitempty"`         // text
	ImageBase64 string `json:"image_base64,omitempty"` // image
}

// handleSetSource handles POST /api/sessions/{id}/source
func (s *Server) handleSetSource(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req setSourceRequest
	if err := readJSON(r, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	var (
		content string
		err     error
	)

	switch req.Type {
	case session.SourceWikipedia:
		if s.comp.Wiki == nil {
			http.Error(w, "Wikipedia source not available", http.StatusServiceUnavailable)
			return
		}
		content, err = s.comp.Wiki.Summary(r.Context(), req.Topic)
	case session.SourceText:
		content, err = extract.Text(req.Text)
	case session.SourceImage:
		if s.comp.Images == nil {
			http.Error(w, "Image source not available", http.StatusServiceUnavailable)
			return
		}
		var imageData []byte
		imageData, err = base64.StdEncoding.DecodeString(req.ImageBase64)
		if err != nil {
			http.Error(w, "Invalid base64 image data", http.StatusBadRequest)
			return
		}
		content, err = s.comp.Images.Describe(r.Context(), imageData)
	default:
		http.Error(w, "type must be wikipedia, text or image", http.StatusBadRequest)
		return
	}

	if err != nil {
		logging.Sugar.Warnw("Source extraction failed",
			"session_id", sess.ID,
			"type", req.Type,
			"error", err)
		http.Error(w, fmt.Sprintf("Source extraction failed: %v", err), http.StatusUnprocessableEntity)
		return
	}

	// New source invalidates any previously generated script and audio
	sess.SetSource(req.Type, content)

	w.Header().Set("Content-Type", "application/json")
	_ = writeJSON(w, map[string]interface{}{
		"session_id":    sess.ID,
		"source_type":   sess.SourceType,
		"content_chars": len(content),
	})
}

// scriptRequest optionally carries a manually edited script
type scriptRequest struct {
	Script string `json:"script,omitempty"`
}

// handleScript handles POST /api/sessions/{id}/script. An empty body
// generates a script from the session's source; a body with a script
// field stores the caller's edited script instead.
func (s *Server) handleScript(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req scriptRequest
	if r.ContentLength > 0 {
		if err := readJSON(r, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
	}

	scriptText := req.Script
	if scriptText == "" {
		if sess.RawContent == "" {
			http.Error(w, "Session has no source material", http.StatusConflict)
			return
		}
		if s.comp.Generator == nil {
			http.Error(w, "Script generation not available", http.StatusServiceUnavailable)
			return
		}

		var err error
		scriptText, err = s.comp.Generator.Generate(r.Context(), sess.RawContent, s.profiles)
		if err != nil {
			logging.Sugar.Errorw("Script generation failed",
				"session_id", sess.ID,
				"error", err)
			http.Error(w, "Script generation failed", http.StatusBadGateway)
			return
		}
	}

	sess.SetScript(scriptText)

	w.Header().Set("Content-Type", "application/json")
	_ = writeJSON(w, map[string]interface{}{
		"session_id": sess.ID,
		"script":     scriptText,
	})
}

// handlePodcast handles POST (generate) and GET (download) on
// /api/sessions/{id}/podcast
func (s *Server) handlePodcast(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	switch r.Method {
	case http.MethodPost:
		s.generatePodcast(w, r, sess)
	case http.MethodGet:
		s.downloadPodcast(w, r, sess)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// generatePodcast runs the synthesis pipeline over the session script
func (s *Server) generatePodcast(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.Script == "" {
		http.Error(w, "Session has no script", http.StatusConflict)
		return
	}

	sourceType := sess.SourceType
	if sourceType == "" {
		sourceType = session.SourceText
	}

	event := events.NewGenerationEvent(sess.ID, sourceType)
	event.SetScript(sess.Script)

	controller := pipeline.NewController(s.comp.Synthesizer, s.assembler, s.profiles)
	controller.OnProgress(func(completed, total int) {
		if s.comp.NATS == nil {
			return
		}
		_ = s.comp.NATS.PublishProgress(&messaging.ProgressEvent{
			SessionID: sess.ID,
			EventUUID: event.UUID,
			Completed: completed,
			Total:     total,
			Timestamp: time.Now().UnixMilli(),
		})
	})

	outcome, runErr := controller.Run(r.Context(), sess.ID, sess.Script)

	if runErr != nil {
		event.SetError(string(outcome.Failure), runErr)
	} else {
		event.SetOutcome(outcome.UtteranceCount, outcome.ChunksGenerated, len(outcome.Buffer))
		sess.SetAudio(outcome.Buffer)
	}

	s.recordRun(sess, event, outcome)

	if runErr != nil {
		status := http.StatusBadGateway
		if outcome.Failure == pipeline.FailureNoRecognizedDialogue {
			status = http.StatusUnprocessableEntity
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = writeJSON(w, map[string]interface{}{
			"event_uuid": event.UUID,
			"failure":    string(outcome.Failure),
			"error":      runErr.Error(),
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = writeJSON(w, map[string]interface{}{
		"event_uuid":       event.UUID,
		"utterances":       outcome.UtteranceCount,
		"chunks_generated": outcome.ChunksGenerated,
		"failed_ordinals":  outcome.FailedUtterances,
		"audio_bytes":      len(outcome.Buffer),
		"duration_ms":      outcome.Duration.Milliseconds(),
		"download":         fmt.Sprintf("/api/sessions/%s/podcast", sess.ID),
	})
}

// recordRun persists the generation event and publishes the completion
func (s *Server) recordRun(sess *session.Session, event *events.GenerationEvent, outcome *pipeline.Outcome) {
	if s.comp.EventsStore != nil {
		if err := s.comp.EventsStore.Insert(event); err != nil {
			logging.LogError(err, "Failed to persist generation event")
		}
	}

	if s.comp.NATS != nil {
		_ = s.comp.NATS.PublishComplete(&messaging.CompleteEvent{
			SessionID:       sess.ID,
			EventUUID:       event.UUID,
			Success:         event.Success,
			FailureKind:     event.FailureKind,
			Utterances:      outcome.UtteranceCount,
			ChunksGenerated: outcome.ChunksGenerated,
			AudioBytes:      event.AudioBytes,
			Timestamp:       time.Now().UnixMilli(),
		})
	}

	logging.LogGenerationEvent(event, "Generation run finished")
}

// downloadPodcast serves the assembled episode
func (s *Server) downloadPodcast(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if len(sess.Audio) == 0 {
		http.Error(w, "No podcast generated for this session", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", DownloadFilename))
	w.Header().Set("Content-Length", strconv.Itoa(len(sess.Audio)))
	_, _ = w.Write(sess.Audio)
}

// Helper functions

func writeJSON(w http.ResponseWriter, data interface{}) error {
	return json.NewEncoder(w).Encode(data)
}

func readJSON(r *http.Request, data interface{}) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	defer func() { _ = r.Body.Close() }()

	return json.Unmarshal(body, data)
}
