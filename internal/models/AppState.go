package models

import (
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const SchemaVersion = 1

// AppState is the single persisted document holding the whole library.
type AppState struct {
	Version       int         `json:"version"`
	Library       []GameEntry `json:"library"`
	CurrentGameID *string     `json:"currentGameId"`
	LastSavedAt   string      `json:"lastSavedAt,omitempty"`
}

func DefaultState() *AppState {
	return &AppState{
		Version: SchemaVersion,
		Library: []GameEntry{},
	}
}

// SavedAtMillis parses LastSavedAt. Absent or unparseable timestamps count as 0.
func (s *AppState) SavedAtMillis() int64 {
	if s == nil || s.LastSavedAt == "" {
		return 0
	}
	t, err := time.Parse(time.RFC3339Nano, s.LastSavedAt)
	if err != nil {
		return 0
	}
	return t.UnixMilli()
}

func (s *AppState) Stamp(now time.Time) {
	s.LastSavedAt = now.UTC().Format(time.RFC3339Nano)
}

// Clone returns a deep copy.
func (s *AppState) Clone() (*AppState, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var out AppState
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AppState) GameIndex(id string) int {
	for i := range s.Library {
		if s.Library[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *AppState) Game(id string) (*GameEntry, bool) {
	i := s.GameIndex(id)
	if i < 0 {
		return nil, false
	}
	return &s.Library[i], true
}

// Validate checks the invariants a document must hold before it is adopted.
func (s *AppState) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: empty document", ErrInvalidDocument)
	}
	if s.Version < 0 {
		return fmt.Errorf("%w: negative version", ErrInvalidDocument)
	}
	seen := make(map[string]struct{}, len(s.Library))
	for i, g := range s.Library {
		if g.ID == "" {
			return fmt.Errorf("%w: game %d has no id", ErrInvalidDocument, i)
		}
		if strings.TrimSpace(g.Name) == "" {
			return fmt.Errorf("%w: game %s has no name", ErrInvalidDocument, g.ID)
		}
		if _, ok := seen[g.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateID, g.ID)
		}
		seen[g.ID] = struct{}{}
	}
	return nil
}

// ParseState decodes and validates a document.
func ParseState(data []byte) (*AppState, error) {
	var state AppState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDocument, err)
	}
	if err := state.Validate(); err != nil {
		return nil, err
	}
	if state.Library == nil {
		state.Library = []GameEntry{}
	}
	return &state, nil
}
