package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"questlog/internal/models"
	"questlog/internal/services"
	"questlog/internal/testutil"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type libraryHarness struct {
	lc       *LibraryController
	svc      *services.LibraryService
	autosave *testutil.MockAutosave
	cloud    *testutil.MockCloudStore
	identity *testutil.MockIdentity
}

func newLibraryHarness() *libraryHarness {
	h := &libraryHarness{
		autosave: &testutil.MockAutosave{},
		cloud:    testutil.NewMockCloudStore("dev-1"),
		identity: &testutil.MockIdentity{ID: "dev-1"},
	}
	h.svc = services.NewLibraryService(h.autosave, h.cloud, h.identity, testutil.NewMockBackupStore(), &testutil.MockLogger{})
	h.lc = NewLibraryController(&testutil.MockLogger{}, h.svc)
	return h
}

func post(handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func get(handler http.HandlerFunc, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func (h *libraryHarness) addGame(t *testing.T, name string) models.GameEntry {
	t.Helper()
	rr := post(h.lc.AddGame, `{"name":"`+name+`"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var g models.GameEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &g))
	return g
}

func TestAddGame_Created(t *testing.T) {
	h := newLibraryHarness()

	g := h.addGame(t, "Hades")
	assert.Equal(t, "Hades", g.Name)
	assert.Equal(t, models.TrackerHades, g.TrackerType)
	require.Len(t, g.Saves, 1)
	assert.IsType(t, &models.RunLogSave{}, g.Saves[0])
	assert.Equal(t, 1, h.autosave.Count())
}

func TestAddGame_BadRequests(t *testing.T) {
	h := newLibraryHarness()

	assert.Equal(t, http.StatusBadRequest, post(h.lc.AddGame, "not json").Code)
	assert.Equal(t, http.StatusBadRequest, post(h.lc.AddGame, "").Code)
	assert.Equal(t, http.StatusBadRequest, post(h.lc.AddGame, `{"name":""}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(h.lc.AddGame, `{"name":"x","status":"lost"}`).Code)

	big := `{"name":"` + strings.Repeat("x", maxRequestBodySize) + `"}`
	assert.Equal(t, http.StatusRequestEntityTooLarge, post(h.lc.AddGame, big).Code)
	assert.Equal(t, 0, h.autosave.Count())
}

func TestLibrary_ListAndSort(t *testing.T) {
	h := newLibraryHarness()
	h.addGame(t, "Braid")
	h.addGame(t, "Axiom Verge")

	rr := get(h.lc.Library, "/library?sort=name")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var games []models.GameEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &games))
	require.Len(t, games, 2)
	assert.Equal(t, "Axiom Verge", games[0].Name)

	assert.Equal(t, http.StatusBadRequest, get(h.lc.Library, "/library?sort=rating").Code)
}

func TestGame_NotFound(t *testing.T) {
	h := newLibraryHarness()

	rr := get(h.lc.Game, "/game?id=missing")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "game not found")
}

func TestSessionLifecycle(t *testing.T) {
	h := newLibraryHarness()
	g := h.addGame(t, "Hades")
	ref := `{"gameId":"` + g.ID + `"}`

	rr := post(h.lc.StartSession, ref)
	require.Equal(t, http.StatusOK, rr.Code)
	var sess models.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sess))
	assert.Equal(t, models.SessionRunning, sess.State())

	assert.Equal(t, http.StatusConflict, post(h.lc.StartSession, ref).Code)
	assert.Equal(t, http.StatusConflict, post(h.lc.ResumeSession, ref).Code)
	assert.Equal(t, http.StatusOK, post(h.lc.PauseSession, ref).Code)
	assert.Equal(t, http.StatusOK, post(h.lc.ResumeSession, ref).Code)

	end := `{"gameId":"` + g.ID + `","outcome":"escaped","notes":"first clear","details":{"weapon":"bow"}}`
	rr = post(h.lc.EndSession, end)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sess))
	assert.Equal(t, "escaped", sess.Outcome)
	assert.Equal(t, "bow", sess.Details["weapon"])

	assert.Equal(t, http.StatusConflict, post(h.lc.EndSession, end).Code)

	rr = get(h.lc.Progress, "/progress?game="+g.ID)
	require.Equal(t, http.StatusOK, rr.Code)
	var p services.SaveProgress
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	require.NotNil(t, p.Runs)
	assert.Equal(t, 1, p.Runs.Wins)
}

func TestToggles(t *testing.T) {
	h := newLibraryHarness()
	celeste := h.addGame(t, "Celeste")
	hk := h.addGame(t, "Hollow Knight")
	general := h.addGame(t, "Tunic")

	rr := post(h.lc.ToggleChapter, `{"gameId":"`+celeste.ID+`","chapter":"Core"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"done":true}`, rr.Body.String())

	assert.Equal(t, http.StatusNotFound, post(h.lc.ToggleChapter, `{"gameId":"`+celeste.ID+`","chapter":"Nope"}`).Code)
	assert.Equal(t, http.StatusConflict, post(h.lc.ToggleChapter, `{"gameId":"`+hk.ID+`","chapter":"Core"}`).Code)

	rr = post(h.lc.ToggleCollectible, `{"gameId":"`+hk.ID+`","item":"Dream Nail"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"done":true}`, rr.Body.String())

	rr = post(h.lc.AddMilestone, `{"gameId":"`+general.ID+`","title":"Get the sword"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	var m models.Milestone
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))

	rr = post(h.lc.ToggleMilestone, `{"gameId":"`+general.ID+`","milestoneId":"`+m.ID+`"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"done":true}`, rr.Body.String())

	assert.Equal(t, http.StatusNoContent, post(h.lc.SetProgress, `{"gameId":"`+general.ID+`","percent":30,"notes":"west garden"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(h.lc.SetProgress, `{"gameId":"`+general.ID+`","percent":130}`).Code)
}

func TestGameAndSaveManagement(t *testing.T) {
	h := newLibraryHarness()
	g := h.addGame(t, "Portal 2")

	assert.Equal(t, http.StatusNoContent, post(h.lc.UpdateStatus, `{"id":"`+g.ID+`","status":"completed"}`).Code)
	assert.Equal(t, http.StatusNoContent, post(h.lc.SetCurrentGame, `{"id":"`+g.ID+`"}`).Code)
	assert.Equal(t, http.StatusNotFound, post(h.lc.SetCurrentGame, `{"id":"nope"}`).Code)

	rr := post(h.lc.CreateSave, `{"gameId":"`+g.ID+`","name":"Co-op"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	var sv models.ChecklistSave
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sv))
	assert.Equal(t, "Co-op", sv.Name)
	assert.Len(t, sv.ChapterCompleted, 9)

	first := g.Saves[0].Base().ID
	assert.Equal(t, http.StatusNoContent, post(h.lc.SetCurrentSave, `{"gameId":"`+g.ID+`","saveId":"`+first+`"}`).Code)

	rr = get(h.lc.Summary, "/summary")
	require.Equal(t, http.StatusOK, rr.Code)
	var sum map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sum))
	assert.Equal(t, float64(1), sum["games"])
	assert.Equal(t, g.ID, sum["currentGameId"])

	assert.Equal(t, http.StatusNoContent, post(h.lc.RemoveGame, `{"id":"`+g.ID+`"}`).Code)
	assert.Equal(t, http.StatusNotFound, post(h.lc.RemoveGame, `{"id":"`+g.ID+`"}`).Code)
}

func TestExportImport(t *testing.T) {
	h := newLibraryHarness()
	h.addGame(t, "Celeste")

	rr := get(h.lc.Export, "/export")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "questlog.json")
	exported := rr.Body.String()

	other := newLibraryHarness()
	rr = post(other.lc.Import, exported)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, h.svc.State(), other.svc.State())

	rr = post(other.lc.Import, `{"library":[{"id":""}]}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Len(t, other.svc.State().Library, 1)

	rr = get(other.lc.Backups, "/backups")
	require.Equal(t, http.StatusOK, rr.Code)
	var backups []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &backups))
	require.Len(t, backups, 1)

	rr = post(other.lc.RestoreBackup, `{"name":"`+backups[0]["name"].(string)+`"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, other.svc.State().Library)
}

func TestLink(t *testing.T) {
	h := newLibraryHarness()
	doc := models.DefaultState()
	doc.Library = append(doc.Library, models.GameEntry{ID: "g1", Name: "Celeste", Status: models.StatusPlaying})
	h.cloud.Docs["desktop"] = doc

	rr := post(h.lc.Link, `{"deviceId":"ghost"}`)
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Equal(t, "dev-1", h.identity.DeviceID())

	assert.Equal(t, http.StatusBadRequest, post(h.lc.Link, `{"deviceId":""}`).Code)

	rr = post(h.lc.Link, `{"deviceId":"desktop"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "desktop", h.identity.DeviceID())
	require.Len(t, h.svc.State().Library, 1)
	assert.Equal(t, models.TrackerCeleste, h.svc.State().Library[0].TrackerType)
}

func TestSyncStatus(t *testing.T) {
	h := newLibraryHarness()

	rr := get(h.lc.Sync, "/sync")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"phase":"idle"`)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(context.Canceled))
	assert.Equal(t, http.StatusTooManyRequests, statusFor(services.ErrRateLimited))
	assert.Equal(t, http.StatusBadRequest, statusFor(models.ErrDuplicateID))
}
