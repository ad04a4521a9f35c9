package trackers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"questlog/internal/models"
)

func TestMapProgress(t *testing.T) {
	p := MapProgress(map[string]bool{"a": true, "b": false, "c": true})
	assert.Equal(t, 2, p.Completed)
	assert.Equal(t, 3, p.Total)
	assert.Equal(t, 66.7, p.Percent)

	assert.Equal(t, Progress{}, MapProgress(nil))
}

func TestMilestoneProgress(t *testing.T) {
	p := MilestoneProgress([]models.Milestone{{Done: true}, {Done: false}})
	assert.Equal(t, 50.0, p.Percent)
}

func TestComputeRunStats(t *testing.T) {
	history := []models.Session{
		{Outcome: "escaped", DurationSeconds: 1800, Details: map[string]string{"weapon": "bow"}},
		{Outcome: "died", DurationSeconds: 600, Details: map[string]string{"weapon": "sword"}},
		{Outcome: "escaped", DurationSeconds: 1500, Details: map[string]string{"weapon": "bow"}},
		{Outcome: "escaped", DurationSeconds: 2100},
	}
	st := ComputeRunStats(history, Lookup(models.TrackerHades).Run)

	assert.Equal(t, 4, st.Runs)
	assert.Equal(t, 3, st.Wins)
	assert.Equal(t, 75.0, st.WinRate)
	assert.Equal(t, int64(6000), st.TotalSeconds)
	assert.Equal(t, int64(1500), st.AverageSeconds)
	assert.Equal(t, int64(1500), st.FastestWin)
	assert.Equal(t, 2, st.CurrentStreak)
	assert.Equal(t, 2, st.BestStreak)
	assert.Equal(t, map[string]int{"escaped": 3, "died": 1}, st.ByOutcome)
	assert.Equal(t, map[string]int{"bow": 2, "sword": 1}, st.ByGroup["weapon"])
}

func TestComputeRunStats_Empty(t *testing.T) {
	st := ComputeRunStats(nil, genericRunConfig)
	assert.Equal(t, 0, st.Runs)
	assert.Equal(t, 0.0, st.WinRate)
	assert.Nil(t, st.ByGroup)
}

func TestSummarize(t *testing.T) {
	hades := models.GameEntry{ID: "1", Name: "Hades", Status: models.StatusPlaying, TrackerType: models.TrackerHades}
	run := CreateRunLogSave("Run", Lookup(models.TrackerHades).Run)
	run.History = []models.Session{{DurationSeconds: 100}, {DurationSeconds: 50}}
	run.ActiveSession = models.StartSession(models.Now())
	hades.Saves = models.SaveList{run}

	general := models.GameEntry{ID: "2", Name: "Outer Wilds", Status: models.StatusCompleted}
	gs := CreateGeneralSave("Main")
	gs.History = []models.Session{{DurationSeconds: 30}}
	general.Saves = models.SaveList{gs}

	current := "1"
	st := &models.AppState{Library: []models.GameEntry{hades, general}, CurrentGameID: &current}
	sum := Summarize(st)

	assert.Equal(t, 2, sum.Games)
	assert.Equal(t, 1, sum.ByStatus[models.StatusPlaying])
	assert.Equal(t, 1, sum.ByStatus[models.StatusCompleted])
	assert.Equal(t, 1, sum.ByTracker[models.TrackerHades])
	assert.Equal(t, 1, sum.ByTracker[models.TrackerGeneral])
	assert.Equal(t, int64(180), sum.TotalSeconds)
	assert.Equal(t, 1, sum.ActiveSessions)
	assert.Equal(t, &current, sum.CurrentGameID)

	empty := Summarize(nil)
	assert.Zero(t, empty.Games)
	assert.NotNil(t, empty.ByStatus)
}
