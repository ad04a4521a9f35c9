package trackers

import (
	"math"
	"slices"

	"questlog/internal/models"
)

type Progress struct {
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
}

// MapProgress counts the true values of a checklist or collectible map.
func MapProgress(m map[string]bool) Progress {
	p := Progress{Total: len(m)}
	for _, done := range m {
		if done {
			p.Completed++
		}
	}
	p.Percent = percent(p.Completed, p.Total)
	return p
}

func MilestoneProgress(ms []models.Milestone) Progress {
	p := Progress{Total: len(ms)}
	for _, m := range ms {
		if m.Done {
			p.Completed++
		}
	}
	p.Percent = percent(p.Completed, p.Total)
	return p
}

type RunStats struct {
	Runs           int                       `json:"runs"`
	Wins           int                       `json:"wins"`
	WinRate        float64                   `json:"winRate"`
	TotalSeconds   int64                     `json:"totalSeconds"`
	AverageSeconds int64                     `json:"averageSeconds"`
	FastestWin     int64                     `json:"fastestWinSeconds"`
	CurrentStreak  int                       `json:"currentStreak"`
	BestStreak     int                       `json:"bestStreak"`
	ByOutcome      map[string]int            `json:"byOutcome"`
	ByGroup        map[string]map[string]int `json:"byGroup,omitempty"`
}

// ComputeRunStats aggregates closed runs. Runs are grouped by every key in
// cfg.GroupKeys that appears in their details.
func ComputeRunStats(history []models.Session, cfg RunConfig) RunStats {
	st := RunStats{ByOutcome: make(map[string]int)}
	for _, r := range history {
		st.Runs++
		st.TotalSeconds += r.DurationSeconds
		st.ByOutcome[r.Outcome]++
		if isWin(r.Outcome, cfg.WinOutcomes) {
			st.Wins++
			if st.FastestWin == 0 || r.DurationSeconds < st.FastestWin {
				st.FastestWin = r.DurationSeconds
			}
		}
		for _, key := range cfg.GroupKeys {
			v, ok := r.Details[key]
			if !ok {
				continue
			}
			if st.ByGroup == nil {
				st.ByGroup = make(map[string]map[string]int)
			}
			if st.ByGroup[key] == nil {
				st.ByGroup[key] = make(map[string]int)
			}
			st.ByGroup[key][v]++
		}
	}
	if st.Runs > 0 {
		st.AverageSeconds = st.TotalSeconds / int64(st.Runs)
	}
	st.WinRate = percent(st.Wins, st.Runs)
	st.CurrentStreak, st.BestStreak = streaks(history, cfg.WinOutcomes)
	return st
}

// streaks returns the current and best run of consecutive wins.
func streaks(history []models.Session, wins []string) (int, int) {
	current, best := 0, 0
	for _, r := range history {
		if isWin(r.Outcome, wins) {
			current++
			best = max(best, current)
		} else {
			current = 0
		}
	}
	return current, best
}

func isWin(outcome string, wins []string) bool {
	return outcome != "" && slices.Contains(wins, outcome)
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)*1000/float64(total)) / 10
}

type Summary struct {
	Games          int                        `json:"games"`
	ByStatus       map[models.GameStatus]int  `json:"byStatus"`
	ByTracker      map[models.TrackerKind]int `json:"byTracker"`
	TotalSeconds   int64                      `json:"totalSeconds"`
	ActiveSessions int                        `json:"activeSessions"`
	CurrentGameID  *string                    `json:"currentGameId"`
}

// Summarize counts games by status and tracker and totals the closed play
// time of the whole library.
func Summarize(state *models.AppState) Summary {
	sum := Summary{
		ByStatus:  make(map[models.GameStatus]int),
		ByTracker: make(map[models.TrackerKind]int),
	}
	if state == nil {
		return sum
	}
	sum.CurrentGameID = state.CurrentGameID
	for i := range state.Library {
		g := &state.Library[i]
		sum.Games++
		sum.ByStatus[g.Status]++
		sum.ByTracker[ResolveTracker(g)]++
		sum.TotalSeconds += g.TotalSeconds()
		for _, s := range g.Saves {
			if s.Base().ActiveSession != nil {
				sum.ActiveSessions++
				break
			}
		}
	}
	return sum
}
