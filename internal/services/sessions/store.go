// Package sessions keeps the recent conversation of each chat in memory.
package sessions

import (
	"strings"
	"sync"

	"github.com/ternarybob/secretary/internal/interfaces"
)

// DefaultLimit is the number of lines kept per chat
const DefaultLimit = 10

// Store implements interfaces.SessionStore. Nothing is persisted.
type Store struct {
	mu    sync.Mutex
	limit int
	lines map[int64][]string
}

// NewStore creates a store keeping at most limit lines per chat
func NewStore(limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{
		limit: limit,
		lines: make(map[int64][]string),
	}
}

var _ interfaces.SessionStore = (*Store)(nil)

// Append adds line to the chat and truncates to the newest limit lines
func (s *Store) Append(chatID int64, line string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := append(s.lines[chatID], line)
	if over := len(lines) - s.limit; over > 0 {
		lines = append([]string(nil), lines[over:]...)
	}
	s.lines[chatID] = lines
}

// Context returns the retained lines of the chat joined by newlines
func (s *Store) Context(chatID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.lines[chatID], "\n")
}

// Lines returns a copy of the retained lines of the chat
func (s *Store) Lines(chatID int64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines[chatID]...)
}

// Clear drops the chat's history
func (s *Store) Clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lines, chatID)
}
