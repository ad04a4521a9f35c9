package models

import "time"

type GameStatus string

const (
	StatusBacklog   GameStatus = "backlog"
	StatusPlaying   GameStatus = "playing"
	StatusCompleted GameStatus = "completed"
	StatusDropped   GameStatus = "dropped"
	StatusWishlist  GameStatus = "wishlist"
)

func (s GameStatus) Valid() bool {
	switch s {
	case StatusBacklog, StatusPlaying, StatusCompleted, StatusDropped, StatusWishlist:
		return true
	}
	return false
}

// GameEntry is one catalogued game.
type GameEntry struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Platforms     []string    `json:"platforms,omitempty"`
	Franchise     string      `json:"franchise,omitempty"`
	CoverImage    string      `json:"coverImage,omitempty"`
	Genres        []string    `json:"genres,omitempty"`
	Companies     []string    `json:"companies,omitempty"`
	Status        GameStatus  `json:"status"`
	TrackerType   TrackerKind `json:"trackerType,omitempty"`
	ExternalID    int64       `json:"externalId,omitempty"`
	AddedAt       time.Time   `json:"addedAt"`
	LastPlayedAt  *time.Time  `json:"lastPlayedAt,omitempty"`
	CurrentSaveID string      `json:"currentSaveId,omitempty"`
	Saves         SaveList    `json:"saves"`
}

// CurrentSave returns the save referenced by CurrentSaveID, falling back to
// the first save.
func (g *GameEntry) CurrentSave() (Save, bool) {
	if s, ok := g.Saves.Find(g.CurrentSaveID); ok {
		return s, true
	}
	if len(g.Saves) > 0 {
		return g.Saves[0], true
	}
	return nil, false
}

// TotalSeconds sums closed sessions over every save.
func (g *GameEntry) TotalSeconds() int64 {
	var total int64
	for _, s := range g.Saves {
		total += s.Base().TotalSeconds()
	}
	return total
}
