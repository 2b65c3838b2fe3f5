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
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/SayanNandyRIL/word-to-podcast/internal/events"
)

func newTestStore(t *testing.T) *GenerationEventsStore {
	t.Helper()

	db, err := NewDatabase(DatabaseConfig{
		Path: filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("NewDatabase() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return NewGenerationEventsStore(db)
}

func sampleEvent(sessionID string) *events.GenerationEvent {
	event := events.NewGenerationEvent(sessionID, "wikipedia")
	event.SetScript("Rahul: hello\nPriya: hi")
	event.SetOutcome(2, 2, 48000)
	return event
}

func TestGenerationEventsStore_InsertAndGet(t *testing.T) {
	store := newTestStore(t)
	event := sampleEvent("session-1")

	if err := store.Insert(event); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	got, err := store.GetByUUID(event.UUID)
	if err != nil {
		t.Fatalf("GetByUUID() error = %v", err)
	}

	if got.UUID != event.UUID || got.SessionID != "session-1" || got.SourceType != "wikipedia" {
		t.Errorf("Retrieved event = %+v", got)
	}
	if got.Utterances != 2 || got.ChunksGenerated != 2 || got.AudioBytes != 48000 {
		t.Errorf("Outcome fields not persisted: %+v", got)
	}
	if !got.Success {
		t.Error("Success flag not persisted")
	}
}

func TestGenerationEventsStore_InsertInvalid(t *testing.T) {
	store := newTestStore(t)

	event := sampleEvent("session-2")
	event.UUID = ""

	if err := store.Insert(event); err == nil {
		t.Error("Expected error inserting invalid event, got nil")
	}
}

func TestGenerationEventsStore_InsertDuplicateUUID(t *testing.T) {
	store := newTestStore(t)
	event := sampleEvent("session-3")

	if err := store.Insert(event); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := store.Insert(event); err == nil {
		t.Error("Expected error for duplicate UUID, got nil")
	}
}

func TestGenerationEventsStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.GetByUUID("no-such-uuid"); err == nil {
		t.Error("Expected error for missing event, got nil")
	}
}

func TestGenerationEventsStore_ListFiltersAndPagination(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 3; i++ {
		if err := store.Insert(sampleEvent("session-a")); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	failed := events.NewGenerationEvent("session-b", "text")
	failed.SetError("no_audio_produced", errors.New("all utterances failed"))
	if err := store.Insert(failed); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	// Filter by session
	bySession, err := store.List(ListOptions{SessionID: "session-a"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(bySession) != 3 {
		t.Errorf("List(session-a) = %d events, want 3", len(bySession))
	}

	// Filter by success
	failedOnly := false
	failures, err := store.List(ListOptions{Success: &failedOnly})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(failures) != 1 {
		t.Fatalf("List(failures) = %d events, want 1", len(failures))
	}
	if failures[0].FailureKind != "no_audio_produced" {
		t.Errorf("FailureKind = %q", failures[0].FailureKind)
	}

	// Pagination
	page, err := store.List(ListOptions{Limit: 2})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page) != 2 {
		t.Errorf("List(limit=2) = %d events, want 2", len(page))
	}

	// Count respects filters and ignores pagination
	count, err := store.Count(ListOptions{SessionID: "session-a", Limit: 1})
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 3 {
		t.Errorf("Count(session-a) = %d, want 3", count)
	}
}

func TestGenerationEventsStore_GetRecentBySession(t *testing.T) {
	store := newTestStore(t)

	older := sampleEvent("session-c")
	older.Timestamp = time.Now().Add(-time.Hour)
	if err := store.Insert(older); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	newer := sampleEvent("session-c")
	if err := store.Insert(newer); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	recent, err := store.GetRecentBySession("session-c", 1)
	if err != nil {
		t.Fatalf("GetRecentBySession() error = %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("GetRecentBySession() = %d events, want 1", len(recent))
	}
	if recent[0].UUID != newer.UUID {
		t.Error("Expected the newest event first")
	}
}

func TestGenerationEventsStore_Delete(t *testing.T) {
	store := newTestStore(t)
	event := sampleEvent("session-d")

	if err := store.Insert(event); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := store.Delete(event.UUID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.GetByUUID(event.UUID); err == nil {
		t.Error("Event still retrievable after delete")
	}
	if err := store.Delete(event.UUID); err == nil {
		t.Error("Expected error deleting missing event, got nil")
	}
}

func TestDatabase_PingAndPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ping.db")
	db, err := NewDatabase(DatabaseConfig{Path: path})
	if err != nil {
		t.Fatalf("NewDatabase() error = %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
	if db.GetPath() != path {
		t.Errorf("GetPath() = %q, want %q", db.GetPath(), path)
	}
}
