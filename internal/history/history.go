// Package history persists chat sessions as a single JSON document, in the
// format the desktop UI reads and writes.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Part is one block of a chat message, either prose or code.
type Part struct {
	Type    string `json:"type"` // "normal" or "code"
	Content string `json:"content"`
}

// Message is a single chat message composed of one or more parts.
type Message struct {
	Sender string `json:"sender"`
	Parts  []Part `json:"parts"`
}

// Session is one conversation, newest messages last.
type Session struct {
	ID        string    `json:"id"`
	Timestamp string    `json:"timestamp"`
	Messages  []Message `json:"messages"`
}

// Store reads and writes the history file. All methods are safe for
// concurrent use.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a history store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns all saved sessions. A missing or corrupt file yields an
// empty history rather than an error; the file is recreated on next save.
func (s *Store) Load() ([]Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() ([]Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading history file: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var sessions []Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		log.Error().Err(err).Msg("history file is corrupt, starting fresh")
		return nil, nil
	}
	return sessions, nil
}

// Save writes all sessions back to disk.
func (s *Store) Save(sessions []Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(sessions)
}

func (s *Store) save(sessions []Session) error {
	if sessions == nil {
		sessions = []Session{}
	}
	data, err := json.MarshalIndent(sessions, "", "    ")
	if err != nil {
		return fmt.Errorf("marshalling history: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating history directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing history file: %w", err)
	}
	return nil
}

// NewSession creates, persists, and returns an empty session.
func (s *Store) NewSession() (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.load()
	if err != nil {
		return Session{}, err
	}
	sess := Session{
		ID:        uuid.New().String(),
		Timestamp: time.Now().Format("02/01/2006 15:04"),
	}
	sessions = append(sessions, sess)
	if err := s.save(sessions); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Append adds a message to the identified session, creating the session if
// it does not exist.
func (s *Store) Append(sessionID string, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.load()
	if err != nil {
		return err
	}

	for i := range sessions {
		if sessions[i].ID == sessionID {
			sessions[i].Messages = append(sessions[i].Messages, msg)
			return s.save(sessions)
		}
	}

	sessions = append(sessions, Session{
		ID:        sessionID,
		Timestamp: time.Now().Format("02/01/2006 15:04"),
		Messages:  []Message{msg},
	})
	return s.save(sessions)
}

// Clear removes the history file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing history file: %w", err)
	}
	return nil
}

// SplitParts splits model output on triple-backtick fences into alternating
// normal and code parts, the way the chat UI renders bubbles. Text without
// fences comes back as a single normal part.
func SplitParts(text string) []Part {
	if !strings.Contains(text, "```") {
		return []Part{{Type: "normal", Content: text}}
	}

	var parts []Part
	for i, chunk := range strings.Split(text, "```") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		kind := "normal"
		if i%2 != 0 {
			kind = "code"
		}
		parts = append(parts, Part{Type: kind, Content: chunk})
	}
	return parts
}
