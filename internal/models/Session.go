package models

import "time"

type SessionState string

const (
	SessionRunning SessionState = "running"
	SessionPaused  SessionState = "paused"
	SessionClosed  SessionState = "closed"
)

// Session is one timed play segment or roguelike run. Once closed it is
// appended to its save's history and never changes again.
type Session struct {
	ID                string            `json:"id"`
	StartedAt         time.Time         `json:"startedAt"`
	ResumedAt         time.Time         `json:"resumedAt"`
	PausedAt          *time.Time        `json:"pausedAt,omitempty"`
	EndedAt           *time.Time        `json:"endedAt,omitempty"`
	AccumulatedMillis int64             `json:"accumulatedMs"`
	DurationSeconds   int64             `json:"durationSeconds"`
	Outcome           string            `json:"outcome,omitempty"`
	Notes             string            `json:"notes,omitempty"`
	Details           map[string]string `json:"details,omitempty"`
}

func StartSession(now time.Time) *Session {
	now = now.UTC()
	return &Session{
		ID:        NewIDAt(now),
		StartedAt: now,
		ResumedAt: now,
	}
}

func (s *Session) State() SessionState {
	switch {
	case s.EndedAt != nil:
		return SessionClosed
	case s.PausedAt != nil:
		return SessionPaused
	default:
		return SessionRunning
	}
}

// Elapsed returns the tracked whole seconds at now. Time spent paused is not
// counted.
func (s *Session) Elapsed(now time.Time) int64 {
	switch s.State() {
	case SessionClosed:
		return s.DurationSeconds
	case SessionPaused:
		return toSeconds(s.AccumulatedMillis)
	default:
		return toSeconds(s.AccumulatedMillis + segmentMillis(s.ResumedAt, now))
	}
}

func (s *Session) Pause(now time.Time) error {
	switch s.State() {
	case SessionClosed:
		return ErrSessionClosed
	case SessionPaused:
		return ErrSessionPaused
	}
	now = now.UTC()
	s.AccumulatedMillis += segmentMillis(s.ResumedAt, now)
	s.PausedAt = &now
	return nil
}

func (s *Session) Resume(now time.Time) error {
	switch s.State() {
	case SessionClosed:
		return ErrSessionClosed
	case SessionRunning:
		return ErrSessionNotPaused
	}
	s.ResumedAt = now.UTC()
	s.PausedAt = nil
	return nil
}

// Close records the outcome and final duration.
func (s *Session) Close(now time.Time, outcome, notes string, details map[string]string) error {
	if s.State() == SessionClosed {
		return ErrSessionClosed
	}
	now = now.UTC()
	if s.State() == SessionRunning {
		s.AccumulatedMillis += segmentMillis(s.ResumedAt, now)
	}
	s.PausedAt = nil
	s.EndedAt = &now
	s.DurationSeconds = toSeconds(s.AccumulatedMillis)
	s.Outcome = outcome
	s.Notes = notes
	if len(details) > 0 {
		s.Details = make(map[string]string, len(details))
		for k, v := range details {
			s.Details[k] = v
		}
	}
	return nil
}

// segmentMillis is the running time between from and to. Segments are summed
// in milliseconds and truncated to seconds only when reported.
func segmentMillis(from, to time.Time) int64 {
	if to.Before(from) {
		return 0
	}
	return to.Sub(from).Milliseconds()
}

func toSeconds(ms int64) int64 {
	return ms / 1000
}
