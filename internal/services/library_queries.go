package services

import (
	"fmt"
	"questlog/internal/models"
	"questlog/internal/trackers"
	"sort"
	"strings"
	"time"
)

type GameSort string

const (
	SortAdded  GameSort = "added"
	SortName   GameSort = "name"
	SortStatus GameSort = "status"
	SortRecent GameSort = "recent"
)

var statusOrder = map[models.GameStatus]int{
	models.StatusPlaying:   0,
	models.StatusBacklog:   1,
	models.StatusWishlist:  2,
	models.StatusCompleted: 3,
	models.StatusDropped:   4,
}

// Games lists the library in the requested order. Added order is the
// library's own order.
func (ls *LibraryService) Games(by GameSort) ([]models.GameEntry, error) {
	lib := ls.State().Library
	out := make([]models.GameEntry, len(lib))
	copy(out, lib)

	switch by {
	case "", SortAdded:
	case SortName:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		})
	case SortStatus:
		sort.SliceStable(out, func(i, j int) bool {
			return statusOrder[out[i].Status] < statusOrder[out[j].Status]
		})
	case SortRecent:
		sort.SliceStable(out, func(i, j int) bool {
			return lastPlayed(out[i]).After(lastPlayed(out[j]))
		})
	default:
		return nil, fmt.Errorf("%w: unknown sort %q", ErrInvalidInput, by)
	}
	return out, nil
}

func lastPlayed(g models.GameEntry) time.Time {
	if g.LastPlayedAt == nil {
		return time.Time{}
	}
	return *g.LastPlayedAt
}

type ActiveSessionView struct {
	ID             string              `json:"id"`
	State          models.SessionState `json:"state"`
	StartedAt      time.Time           `json:"startedAt"`
	ElapsedSeconds int64               `json:"elapsedSeconds"`
}

// SaveProgress is the derived view of one save. Only the section matching
// the save's family is set.
type SaveProgress struct {
	GameID          string               `json:"gameId"`
	SaveID          string               `json:"saveId"`
	Tracker         models.TrackerKind   `json:"tracker"`
	Family          models.TrackerFamily `json:"family"`
	TotalSeconds    int64                `json:"totalSeconds"`
	ActiveSession   *ActiveSessionView   `json:"activeSession,omitempty"`
	Milestones      *trackers.Progress   `json:"milestones,omitempty"`
	ProgressPercent *int                 `json:"progressPercent,omitempty"`
	Chapters        *trackers.Progress   `json:"chapters,omitempty"`
	Collectibles    *trackers.Progress   `json:"collectibles,omitempty"`
	Runs            *trackers.RunStats   `json:"runs,omitempty"`
}

func (ls *LibraryService) Progress(gameID, saveID string) (*SaveProgress, error) {
	g, sv, err := findSave(ls.State(), gameID, saveID)
	if err != nil {
		return nil, err
	}
	kind := trackers.ResolveTracker(g)
	def := trackers.Lookup(kind)
	b := sv.Base()

	p := &SaveProgress{
		GameID:       g.ID,
		SaveID:       b.ID,
		Tracker:      kind,
		Family:       models.FamilyOf(sv),
		TotalSeconds: b.TotalSeconds(),
	}
	if a := b.ActiveSession; a != nil {
		p.ActiveSession = &ActiveSessionView{
			ID:             a.ID,
			State:          a.State(),
			StartedAt:      a.StartedAt,
			ElapsedSeconds: a.Elapsed(ls.now()),
		}
	}

	switch v := sv.(type) {
	case *models.GeneralSave:
		m := trackers.MilestoneProgress(v.Milestones)
		pct := v.ProgressPercent
		p.Milestones, p.ProgressPercent = &m, &pct
	case *models.ChecklistSave:
		c := trackers.MapProgress(v.ChapterCompleted)
		p.Chapters = &c
	case *models.CollectibleSave:
		c := trackers.MapProgress(v.Collected)
		p.Collectibles = &c
	case *models.RunLogSave:
		r := trackers.ComputeRunStats(v.History, def.Run)
		p.Runs = &r
	}
	return p, nil
}
