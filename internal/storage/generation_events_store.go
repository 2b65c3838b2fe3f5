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

package storage

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/SayanNandyRIL/word-to-podcast/internal/events"
)

// GenerationEventsStore handles database operations for generation events
type GenerationEventsStore struct {
	db *Database
}

// NewGenerationEventsStore creates a new generation events store
func NewGenerationEventsStore(db *Database) *GenerationEventsStore {
	return &GenerationEventsStore{db: db}
}

// Insert stores a new generation event in the database
func (s *GenerationEventsStore) Insert(event *events.GenerationEvent) error {
	if err := event.IsValid(); err != nil {
		return fmt.Errorf("invalid generation event: %w", err)
	}

	query := `
		INSERT INTO generation_events (
			uuid, session_id, timestamp,
			source_type, script_chars,
			utterances, chunks_generated, audio_bytes,
			processing_time_ms, success, failure_kind, error_message
		) VALUES (
			?, ?, ?,
			?, ?,
			?, ?, ?,
			?, ?, ?, ?
		)`

	_, err := s.db.DB().Exec(query,
		event.UUID, event.SessionID, event.Timestamp,
		event.SourceType, event.ScriptChars,
		event.Utterances, event.ChunksGenerated, event.AudioBytes,
		event.ProcessingTime, event.Success, event.FailureKind, event.ErrorMessage,
	)

	if err != nil {
		return fmt.Errorf("failed to insert generation event: %w", err)
	}

	log.Printf("📝 Stored generation event: %s (Session: %s, Source: %s)",
		event.UUID, event.SessionID, event.SourceType)
	return nil
}

// GetByUUID retrieves a generation event by its UUID
func (s *GenerationEventsStore) GetByUUID(uuid string) (*events.GenerationEvent, error) {
	query := `
		SELECT uuid, session_id, timestamp,
			   source_type, script_chars,
			   utterances, chunks_generated, audio_bytes,
			   processing_time_ms, success, failure_kind, error_message
		FROM generation_events
		WHERE uuid = ?`

	row := s.db.DB().QueryRow(query, uuid)
	return s.scanGenerationEvent(row)
}

// List retrieves generation events with pagination and filtering
func (s *GenerationEventsStore) List(options ListOptions) ([]*events.GenerationEvent, error) {
	query, args := s.buildListQuery(options)

	rows, err := s.db.DB().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query generation events: %w", err)
	}
	defer rows.Close()

	var eventsList []*events.GenerationEvent
	for rows.Next() {
		event, err := s.scanGenerationEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan generation event: %w", err)
		}
		eventsList = append(eventsList, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating generation events: %w", err)
	}

	return eventsList, nil
}

// Count returns the total number of generation events matching the filter
func (s *GenerationEventsStore) Count(options ListOptions) (int64, error) {
	// Build count query using same filters
	options.Limit = 0
	options.Offset = 0
	query, args := s.buildListQuery(options)

	// Replace SELECT fields with COUNT(*)
	countQuery := "SELECT COUNT(*) FROM (" + query + ") as filtered"

	var count int64
	err := s.db.DB().QueryRow(countQuery, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count generation events: %w", err)
	}

	return count, nil
}

// GetRecentBySession retrieves recent events for a specific session
func (s *GenerationEventsStore) GetRecentBySession(sessionID string, limit int) ([]*events.GenerationEvent, error) {
	options := ListOptions{
		SessionID: sessionID,
		Limit:     limit,
	}
	return s.List(options)
}

// Delete removes a generation event by UUID
func (s *GenerationEventsStore) Delete(uuid string) error {
	result, err := s.db.DB().Exec("DELETE FROM generation_events WHERE uuid = ?", uuid)
	if err != nil {
		return fmt.Errorf("failed to delete generation event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("generation event not found: %s", uuid)
	}

	log.Printf("🗑️  Deleted generation event: %s", uuid)
	return nil
}

// ListOptions defines filtering and pagination options
type ListOptions struct {
	// Filtering
	SessionID  string
	SourceType string
	Success    *bool // nil = all, true = success only, false = errors only
	StartTime  *time.Time
	EndTime    *time.Time

	// Pagination
	Limit  int
	Offset int

	// Sorting
	SortBy    string // "timestamp", "processing_time_ms", "utterances"
	SortOrder string // "ASC", "DESC"
}

// buildListQuery constructs the SQL query based on ListOptions
func (s *GenerationEventsStore) buildListQuery(options ListOptions) (string, []interface{}) {
	query := `
		SELECT uuid, session_id, timestamp,
			   source_type, script_chars,
			   utterances, chunks_generated, audio_bytes,
			   processing_time_ms, success, failure_kind, error_message
		FROM generation_events WHERE 1=1`

	var args []interface{}

	// Apply filters
	if options.SessionID != "" {
		query += " AND session_id = ?"
		args = append(args, options.SessionID)
	}

	if options.SourceType != "" {
		query += " AND source_type = ?"
		args = append(args, options.SourceType)
	}

	if options.Success != nil {
		query += " AND success = ?"
		args = append(args, *options.Success)
	}

	if options.StartTime != nil {
		query += " AND timestamp >= ?"
		args = append(args, options.StartTime)
	}

	if options.EndTime != nil {
		query += " AND timestamp <= ?"
		args = append(args, options.EndTime)
	}

	// Apply sorting
	sortBy := options.SortBy
	if sortBy == "" {
		sortBy = "timestamp"
	}

	sortOrder := options.SortOrder
	if sortOrder == "" {
		sortOrder = "DESC"
	}

	query += fmt.Sprintf(" ORDER BY %s %s", sortBy, sortOrder)

	// Apply pagination
	if options.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, options.Limit)

		if options.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, options.Offset)
		}
	}

	return query, args
}

// scanGenerationEvent scans a database row into a GenerationEvent struct
func (s *GenerationEventsStore) scanGenerationEvent(scanner interface{}) (*events.GenerationEvent, error) {
	var event events.GenerationEvent

	var row interface {
		Scan(dest ...interface{}) error
	}

	switch v := scanner.(type) {
	case *sql.Row:
		row = v
	case *sql.Rows:
		row = v
	default:
		return nil, fmt.Errorf("unsupported scanner type")
	}

	err := row.Scan(
		&event.UUID, &event.SessionID, &event.Timestamp,
		&event.SourceType, &event.ScriptChars,
		&event.Utterances, &event.ChunksGenerated, &event.AudioBytes,
		&event.ProcessingTime, &event.Success, &event.FailureKind, &event.ErrorMessage,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("generation event not found")
		}
		return nil, err
	}

	return &event, nil
}
