package persistence

import (
	"questlog/internal/models"
	"time"
)

func stateAt(ms int64, names ...string) *models.AppState {
	s := models.DefaultState()
	for i, n := range names {
		s.Library = append(s.Library, models.GameEntry{
			ID:      models.NewIDAt(time.UnixMilli(ms + int64(i))),
			Name:    n,
			Status:  models.StatusBacklog,
			AddedAt: time.UnixMilli(ms).UTC(),
			Saves:   models.SaveList{},
		})
	}
	if ms > 0 {
		s.Stamp(time.UnixMilli(ms))
	}
	return s
}

func names(s *models.AppState) []string {
	out := make([]string, 0, len(s.Library))
	for _, g := range s.Library {
		out = append(out, g.Name)
	}
	return out
}
