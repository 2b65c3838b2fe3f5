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

package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Source types accepted by a session
const (
	SourceWikipedia = "wikipedia"
	SourceText      = "text"
	SourceImage     = "image"
)

// ErrNotFound is returned when a session ID is unknown
var ErrNotFound = errors.New("session not found")

// Session holds one user's working state: the chosen source material,
// the generated script, and the assembled episode. Changing the source
// invalidates everything downstream; regenerating the script
// invalidates the audio.
type Session struct {
	ID         string    `json:"id"`
	SourceType string    `json:"source_type,omitempty"`
	RawContent string    `json:"-"`
	Script     string    `json:"script,omitempty"`
	Audio      []byte    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SetSource records new source material and clears the script and
// audio derived from the previous source
func (s *Session) SetSource(sourceType, content string) {
	s.SourceType = sourceType
	s.RawContent = content
	s.Script = ""
	s.Audio = nil
	s.UpdatedAt = time.Now()
}

// SetScript records a new script and clears stale audio
func (s *Session) SetScript(scriptText string) {
	s.Script = scriptText
	s.Audio = nil
	s.UpdatedAt = time.Now()
}

// SetAudio records the assembled episode
func (s *Session) SetAudio(audio []byte) {
	s.Audio = audio
	s.UpdatedAt = time.Now()
}

// Store is an in-memory session registry keyed by session ID
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
	}
}

// Create registers a new session with a generated ID
func (st *Store) Create() *Session {
	now := time.Now()
	sess := &Session{
		ID:        newSessionID(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()

	return sess
}

// Get retrieves a session by ID
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	sess, ok := st.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return sess, nil
}

// Delete removes a session by ID
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(st.sessions, id)
	return nil
}

// Len returns the number of live sessions
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// newSessionID generates a random hex session identifier
func newSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("sess-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
