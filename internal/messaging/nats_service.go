package messaging

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSService handles NATS messaging for podcast generation progress
type NATSService struct {
	conn *nats.Conn
	url  string
}

// ProgressEvent reports per-utterance synthesis progress for a run
type ProgressEvent struct {
	SessionID string `json:"session_id"`
	EventUUID string `json:"event_uuid"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Timestamp int64  `json:"timestamp"`
}

// CompleteEvent reports the final outcome of a generation run
type CompleteEvent struct {
	SessionID       string `json:"session_id"`
	EventUUID       string `json:"event_uuid"`
	Success         bool   `json:"success"`
	FailureKind     string `json:"failure_kind,omitempty"`
	Utterances      int    `json:"utterances"`
	ChunksGenerated int    `json:"chunks_generated"`
	AudioBytes      int    `json:"audio_bytes"`
	Timestamp       int64  `json:"timestamp"`
}

// NATS subjects for generation events
const (
	SubjectGenerationProgress = "podcast.generation.progress"
	SubjectGenerationComplete = "podcast.generation.complete"
)

// NewNATSService creates a new NATS service instance
func NewNATSService() (*NATSService, error) {
	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	return &NATSService{
		url: natsURL,
	}, nil
}

// NewNATSServiceWithURL creates a NATS service against an explicit URL
func NewNATSServiceWithURL(url string) (*NATSService, error) {
	if url == "" {
		return nil, fmt.Errorf("NATS URL cannot be empty")
	}
	return &NATSService{url: url}, nil
}

// Connect establishes connection to NATS server
func (ns *NATSService) Connect() error {
	log.Printf("🔌 Connecting to NATS at %s", ns.url)

	// Connection options with retry logic
	opts := []nats.Option{
		nats.Name("word-to-podcast"),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(-1), // Retry indefinitely
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("⚠️  NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("🔄 NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Println("🔌 NATS connection closed")
		}),
	}

	conn, err := nats.Connect(ns.url, opts...)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	ns.conn = conn
	log.Printf("✅ Connected to NATS server at %s", conn.ConnectedUrl())
	return nil
}

// PublishProgress publishes a generation progress event
func (ns *NATSService) PublishProgress(event *ProgressEvent) error {
	if ns.conn == nil {
		return fmt.Errorf("NATS connection not established")
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal progress event: %w", err)
	}

	if err := ns.conn.Publish(SubjectGenerationProgress, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", SubjectGenerationProgress, err)
	}

	return nil
}

// PublishComplete publishes a generation completion event
func (ns *NATSService) PublishComplete(event *CompleteEvent) error {
	if ns.conn == nil {
		return fmt.Errorf("NATS connection not established")
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal complete event: %w", err)
	}

	if err := ns.conn.Publish(SubjectGenerationComplete, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", SubjectGenerationComplete, err)
	}

	log.Printf("📤 Published generation result to NATS - Session: %s, Success: %t",
		event.SessionID, event.Success)
	return nil
}

// SubscribeToProgress subscribes to generation progress events
func (ns *NATSService) SubscribeToProgress(handler func(*ProgressEvent)) (*nats.Subscription, error) {
	if ns.conn == nil {
		return nil, fmt.Errorf("NATS connection not established")
	}

	return ns.conn.Subscribe(SubjectGenerationProgress, func(msg *nats.Msg) {
		var event ProgressEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			log.Printf("❌ Error unmarshaling progress event: %v", err)
			return
		}
		handler(&event)
	})
}

// SubscribeToComplete subscribes to generation completion events
func (ns *NATSService) SubscribeToComplete(handler func(*CompleteEvent)) (*nats.Subscription, error) {
	if ns.conn == nil {
		return nil, fmt.Errorf("NATS connection not established")
	}

	return ns.conn.Subscribe(SubjectGenerationComplete, func(msg *nats.Msg) {
		var event CompleteEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			log.Printf("❌ Error unmarshaling complete event: %v", err)
			return
		}
		handler(&event)
	})
}

// Close closes the NATS connection
func (ns *NATSService) Close() {
	if ns.conn != nil {
		ns.conn.Close()
		log.Println("🔌 NATS connection closed")
	}
}

// IsConnected returns true if connected to NATS
func (ns *NATSService) IsConnected() bool {
	return ns.conn != nil && ns.conn.IsConnected()
}

// GetStats returns connection statistics
func (ns *NATSService) GetStats() nats.Statistics {
	if ns.conn != nil {
		return ns.conn.Stats()
	}
	return nats.Statistics{}
}
