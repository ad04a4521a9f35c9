package controllers

import (
	"io"
	"net/http"
	"questlog/internal/models"
	"questlog/internal/providers"
	"questlog/internal/services"
)

// LibraryController exposes the device's library over HTTP. Reads take query
// parameters, writes take a JSON body.
type LibraryController struct {
	logger  providers.Logger
	library services.LibraryServiceInterface
}

func NewLibraryController(logger providers.Logger, library services.LibraryServiceInterface) *LibraryController {
	return &LibraryController{
		logger:  logger,
		library: library,
	}
}

type gameRef struct {
	GameID string `json:"gameId"`
	SaveID string `json:"saveId"`
}

type idRequest struct {
	ID string `json:"id"`
}

type statusRequest struct {
	ID     string            `json:"id"`
	Status models.GameStatus `json:"status"`
}

type createSaveRequest struct {
	GameID string `json:"gameId"`
	Name   string `json:"name"`
}

type endSessionRequest struct {
	gameRef
	services.EndSession
}

type toggleRequest struct {
	gameRef
	Chapter     string `json:"chapter"`
	Item        string `json:"item"`
	MilestoneID string `json:"milestoneId"`
}

type milestoneRequest struct {
	gameRef
	Title string `json:"title"`
}

type progressRequest struct {
	gameRef
	Percent int     `json:"percent"`
	Notes   *string `json:"notes"`
}

type linkRequest struct {
	DeviceID string `json:"deviceId"`
}

type restoreRequest struct {
	Name string `json:"name"`
}

type toggleResponse struct {
	Done bool `json:"done"`
}

func (lc *LibraryController) Library(w http.ResponseWriter, r *http.Request) {
	games, err := lc.library.Games(services.GameSort(r.URL.Query().Get("sort")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

func (lc *LibraryController) Game(w http.ResponseWriter, r *http.Request) {
	g, err := lc.library.Game(r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (lc *LibraryController) Summary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, lc.library.Summary())
}

func (lc *LibraryController) Progress(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p, err := lc.library.Progress(q.Get("game"), q.Get("save"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (lc *LibraryController) Sync(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, lc.library.SyncStatus())
}

func (lc *LibraryController) Export(w http.ResponseWriter, _ *http.Request) {
	data, err := lc.library.Export()
	if err != nil {
		lc.logger.Errorf(providers.TypeGet, "Export failed: %s", err)
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="questlog.json"`)
	writeRaw(w, http.StatusOK, data)
}

func (lc *LibraryController) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, services.ErrTooLarge)
		return
	}
	if err := lc.library.Import(data); err != nil {
		lc.logger.Warnf(providers.TypePost, "Import rejected: %s", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lc.library.Summary())
}

func (lc *LibraryController) Backups(w http.ResponseWriter, _ *http.Request) {
	list, err := lc.library.Backups()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (lc *LibraryController) RestoreBackup(w http.ResponseWriter, r *http.Request) {
	var req restoreRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := lc.library.RestoreBackup(req.Name); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lc.library.Summary())
}

func (lc *LibraryController) Link(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := lc.library.LinkDevice(r.Context(), req.DeviceID); err != nil {
		lc.logger.Warnf(providers.TypeSync, "Link to %s failed: %s", req.DeviceID, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lc.library.Summary())
}

func (lc *LibraryController) AddGame(w http.ResponseWriter, r *http.Request) {
	var req services.NewGame
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	g, err := lc.library.AddGame(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (lc *LibraryController) RemoveGame(w http.ResponseWriter, r *http.Request) {
	var req idRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := lc.library.RemoveGame(req.ID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (lc *LibraryController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := lc.library.UpdateStatus(req.ID, req.Status); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (lc *LibraryController) SetCurrentGame(w http.ResponseWriter, r *http.Request) {
	var req idRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := lc.library.SetCurrentGame(req.ID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (lc *LibraryController) CreateSave(w http.ResponseWriter, r *http.Request) {
	var req createSaveRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	sv, err := lc.library.CreateSave(req.GameID, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sv)
}

func (lc *LibraryController) SetCurrentSave(w http.ResponseWriter, r *http.Request) {
	var req gameRef
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := lc.library.SetCurrentSave(req.GameID, req.SaveID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// sessionHandler adapts one of the start, pause or resume operations.
func (lc *LibraryController) sessionHandler(op func(gameID, saveID string) (*models.Session, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gameRef
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, err)
			return
		}
		sess, err := op(req.GameID, req.SaveID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

func (lc *LibraryController) StartSession(w http.ResponseWriter, r *http.Request) {
	lc.sessionHandler(lc.library.StartSession)(w, r)
}

func (lc *LibraryController) PauseSession(w http.ResponseWriter, r *http.Request) {
	lc.sessionHandler(lc.library.PauseSession)(w, r)
}

func (lc *LibraryController) ResumeSession(w http.ResponseWriter, r *http.Request) {
	lc.sessionHandler(lc.library.ResumeSession)(w, r)
}

func (lc *LibraryController) EndSession(w http.ResponseWriter, r *http.Request) {
	var req endSessionRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	sess, err := lc.library.EndSession(req.GameID, req.SaveID, req.EndSession)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (lc *LibraryController) ToggleChapter(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	done, err := lc.library.ToggleChapter(req.GameID, req.SaveID, req.Chapter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{Done: done})
}

func (lc *LibraryController) ToggleCollectible(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	done, err := lc.library.ToggleCollectible(req.GameID, req.SaveID, req.Item)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{Done: done})
}

func (lc *LibraryController) AddMilestone(w http.ResponseWriter, r *http.Request) {
	var req milestoneRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	m, err := lc.library.AddMilestone(req.GameID, req.SaveID, req.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (lc *LibraryController) ToggleMilestone(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	done, err := lc.library.ToggleMilestone(req.GameID, req.SaveID, req.MilestoneID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{Done: done})
}

func (lc *LibraryController) SetProgress(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := lc.library.SetProgress(req.GameID, req.SaveID, req.Percent, req.Notes); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
