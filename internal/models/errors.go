package models

import "errors"

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrSaveNotFound     = errors.New("save not found")
	ErrDuplicateID      = errors.New("duplicate game id")
	ErrInvalidDocument  = errors.New("invalid document")
	ErrNoActiveSession  = errors.New("no active session")
	ErrSessionActive    = errors.New("session already running")
	ErrSessionClosed    = errors.New("session is closed")
	ErrSessionPaused    = errors.New("session is paused")
	ErrSessionNotPaused = errors.New("session is not paused")
	ErrWrongFamily      = errors.New("save belongs to another tracker family")
	ErrUnknownEntry     = errors.New("unknown checklist or collectible entry")
)
