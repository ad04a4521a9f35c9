package services

import (
	"context"
	"fmt"
	"questlog/internal/models"
	"questlog/internal/persistence/interfaces"
	"questlog/internal/providers"
	"questlog/internal/trackers"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gookit/validate"
	"go.uber.org/atomic"
)

type LibraryServiceInterface interface {
	Load(state *models.AppState)
	State() *models.AppState
	Games(sort GameSort) ([]models.GameEntry, error)
	Game(id string) (*models.GameEntry, error)
	Tracker(gameID string) (trackers.Definition, error)
	Progress(gameID, saveID string) (*SaveProgress, error)
	Summary() trackers.Summary
	SyncStatus() interfaces.SyncStatus

	AddGame(in NewGame) (*models.GameEntry, error)
	RemoveGame(id string) error
	UpdateStatus(id string, status models.GameStatus) error
	SetCurrentGame(id string) error
	CreateSave(gameID, name string) (models.Save, error)
	SetCurrentSave(gameID, saveID string) error

	StartSession(gameID, saveID string) (*models.Session, error)
	PauseSession(gameID, saveID string) (*models.Session, error)
	ResumeSession(gameID, saveID string) (*models.Session, error)
	EndSession(gameID, saveID string, end EndSession) (*models.Session, error)

	ToggleChapter(gameID, saveID, chapter string) (bool, error)
	ToggleCollectible(gameID, saveID, item string) (bool, error)
	AddMilestone(gameID, saveID, title string) (*models.Milestone, error)
	ToggleMilestone(gameID, saveID, milestoneID string) (bool, error)
	SetProgress(gameID, saveID string, percent int, notes *string) error

	Export() ([]byte, error)
	Import(data []byte) error
	Backups() ([]interfaces.BackupInfo, error)
	RestoreBackup(name string) error
	LinkDevice(ctx context.Context, deviceID string) error
}

// NewGame is the input of AddGame.
type NewGame struct {
	Name        string             `json:"name" validate:"required|maxLen:200"`
	Platforms   []string           `json:"platforms"`
	Franchise   string             `json:"franchise" validate:"maxLen:200"`
	CoverImage  string             `json:"coverImage" validate:"maxLen:2048"`
	Genres      []string           `json:"genres"`
	Companies   []string           `json:"companies"`
	Status      models.GameStatus  `json:"status"`
	TrackerType models.TrackerKind `json:"trackerType"`
	ExternalID  int64              `json:"externalId"`
	SaveName    string             `json:"saveName" validate:"maxLen:200"`
}

type EndSession struct {
	Outcome string            `json:"outcome"`
	Notes   string            `json:"notes"`
	Details map[string]string `json:"details"`
}

// LibraryService owns the working document. Writers are serialized and
// publish a fresh copy; readers get the current copy without locking and
// must not modify it.
type LibraryService struct {
	mu       sync.Mutex
	state    atomic.Pointer[models.AppState]
	autosave interfaces.AutosaveInterface
	cloud    interfaces.CloudStoreInterface
	identity providers.IdentityProviderInterface
	backups  interfaces.BackupStoreInterface
	logger   providers.Logger
	now      func() time.Time
}

func NewLibraryService(autosave interfaces.AutosaveInterface, cloud interfaces.CloudStoreInterface, identity providers.IdentityProviderInterface, backups interfaces.BackupStoreInterface, logger providers.Logger) *LibraryService {
	ls := &LibraryService{
		autosave: autosave,
		cloud:    cloud,
		identity: identity,
		backups:  backups,
		logger:   logger,
		now:      models.Now,
	}
	ls.state.Store(models.DefaultState())
	return ls
}

// Load installs the restored document without triggering a save. Saves are
// migrated to the current shape of their tracker.
func (ls *LibraryService) Load(state *models.AppState) {
	if state == nil {
		state = models.DefaultState()
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	for i := range state.Library {
		trackers.MigrateGame(&state.Library[i])
	}
	ls.state.Store(state)
}

func (ls *LibraryService) State() *models.AppState {
	return ls.state.Load()
}

func (ls *LibraryService) SyncStatus() interfaces.SyncStatus {
	return ls.autosave.Status()
}

// update applies fn to a private copy of the document, stamps it and
// publishes it. The published document is handed to the autosave pipeline
// and is what the local store persists.
func (ls *LibraryService) update(fn func(s *models.AppState) error) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	next, err := ls.state.Load().Clone()
	if err != nil {
		return fmt.Errorf("copy state: %w", err)
	}
	if err := fn(next); err != nil {
		return err
	}
	next.Stamp(ls.now())
	ls.state.Store(next)
	ls.autosave.Notify(next)
	return nil
}

// replace swaps the whole document after archiving the current one.
func (ls *LibraryService) replace(next *models.AppState, reason string) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.replaceLocked(next, reason)
}

func (ls *LibraryService) replaceLocked(next *models.AppState, reason string) error {
	if _, err := ls.backups.Archive(ls.state.Load(), reason); err != nil {
		return fmt.Errorf("archive current state: %w", err)
	}
	ls.state.Store(next)
	ls.autosave.Notify(next)
	return nil
}

func findGame(s *models.AppState, id string) (*models.GameEntry, error) {
	g, ok := s.Game(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrGameNotFound, id)
	}
	return g, nil
}

// findSave resolves saveID within a game. An empty saveID selects the
// game's current save.
func findSave(s *models.AppState, gameID, saveID string) (*models.GameEntry, models.Save, error) {
	g, err := findGame(s, gameID)
	if err != nil {
		return nil, nil, err
	}
	if saveID == "" {
		if cur, ok := g.CurrentSave(); ok {
			return g, cur, nil
		}
		return nil, nil, fmt.Errorf("%w: game %s has no saves", models.ErrSaveNotFound, gameID)
	}
	sv, ok := g.Saves.Find(saveID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", models.ErrSaveNotFound, saveID)
	}
	return g, sv, nil
}

func (ls *LibraryService) Game(id string) (*models.GameEntry, error) {
	return findGame(ls.State(), id)
}

func (ls *LibraryService) Tracker(gameID string) (trackers.Definition, error) {
	g, err := ls.Game(gameID)
	if err != nil {
		return trackers.Definition{}, err
	}
	return trackers.Lookup(trackers.ResolveTracker(g)), nil
}

func (ls *LibraryService) Summary() trackers.Summary {
	return trackers.Summarize(ls.State())
}

func (ls *LibraryService) AddGame(in NewGame) (*models.GameEntry, error) {
	v := validate.Struct(&in)
	if !v.Validate() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, v.Errors.One())
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is empty", ErrInvalidInput)
	}
	status := in.Status
	if status == "" {
		status = models.StatusBacklog
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	kind := in.TrackerType
	if kind != "" && !kind.Known() {
		return nil, fmt.Errorf("%w: unknown tracker %q", ErrInvalidInput, kind)
	}
	if kind == "" {
		kind, _ = trackers.KindForName(name)
	}

	var added models.GameEntry
	err := ls.update(func(s *models.AppState) error {
		now := ls.now()
		game := models.GameEntry{
			ID:          uniqueGameID(s, now),
			Name:        name,
			Platforms:   in.Platforms,
			Franchise:   in.Franchise,
			CoverImage:  in.CoverImage,
			Genres:      in.Genres,
			Companies:   in.Companies,
			Status:      status,
			TrackerType: kind,
			ExternalID:  in.ExternalID,
			AddedAt:     now,
		}
		saveName := strings.TrimSpace(in.SaveName)
		if saveName == "" {
			saveName = "Save 1"
		}
		sv := trackers.NewSaveFor(trackers.ResolveTracker(&game), saveName)
		game.Saves = models.SaveList{sv}
		game.CurrentSaveID = sv.Base().ID

		s.Library = append(s.Library, game)
		added = game
		return nil
	})
	if err != nil {
		return nil, err
	}
	ls.logger.Infof(providers.TypePost, "Added game %s (%s)", added.ID, added.Name)
	return &added, nil
}

func uniqueGameID(s *models.AppState, now time.Time) string {
	for {
		id := models.NewIDAt(now)
		if s.GameIndex(id) < 0 {
			return id
		}
	}
}

func (ls *LibraryService) RemoveGame(id string) error {
	return ls.update(func(s *models.AppState) error {
		i := s.GameIndex(id)
		if i < 0 {
			return fmt.Errorf("%w: %s", models.ErrGameNotFound, id)
		}
		s.Library = append(s.Library[:i], s.Library[i+1:]...)
		if s.CurrentGameID != nil && *s.CurrentGameID == id {
			s.CurrentGameID = nil
		}
		return nil
	})
}

func (ls *LibraryService) UpdateStatus(id string, status models.GameStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	return ls.update(func(s *models.AppState) error {
		g, err := findGame(s, id)
		if err != nil {
			return err
		}
		g.Status = status
		return nil
	})
}

// SetCurrentGame selects the game shown first. An empty id clears it.
func (ls *LibraryService) SetCurrentGame(id string) error {
	return ls.update(func(s *models.AppState) error {
		if id == "" {
			s.CurrentGameID = nil
			return nil
		}
		if _, err := findGame(s, id); err != nil {
			return err
		}
		s.CurrentGameID = &id
		return nil
	})
}

func (ls *LibraryService) CreateSave(gameID, name string) (models.Save, error) {
	var created models.Save
	err := ls.update(func(s *models.AppState) error {
		g, err := findGame(s, gameID)
		if err != nil {
			return err
		}
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("Save %d", len(g.Saves)+1)
		}
		created = trackers.NewSaveFor(trackers.ResolveTracker(g), name)
		g.Saves = append(g.Saves, created)
		g.CurrentSaveID = created.Base().ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (ls *LibraryService) SetCurrentSave(gameID, saveID string) error {
	return ls.update(func(s *models.AppState) error {
		g, sv, err := findSave(s, gameID, saveID)
		if err != nil {
			return err
		}
		g.CurrentSaveID = sv.Base().ID
		return nil
	})
}

// sessionOp runs fn against a save and returns a copy of the session it
// touched.
func (ls *LibraryService) sessionOp(gameID, saveID string, fn func(g *models.GameEntry, sv models.Save, now time.Time) (*models.Session, error)) (*models.Session, error) {
	var out models.Session
	err := ls.update(func(s *models.AppState) error {
		g, sv, err := findSave(s, gameID, saveID)
		if err != nil {
			return err
		}
		sess, err := fn(g, sv, ls.now())
		if err != nil {
			return err
		}
		out = *sess
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (ls *LibraryService) StartSession(gameID, saveID string) (*models.Session, error) {
	return ls.sessionOp(gameID, saveID, func(g *models.GameEntry, sv models.Save, now time.Time) (*models.Session, error) {
		b := sv.Base()
		if b.ActiveSession != nil {
			return nil, models.ErrSessionActive
		}
		b.ActiveSession = models.StartSession(now)
		g.LastPlayedAt = &now
		g.CurrentSaveID = b.ID
		return b.ActiveSession, nil
	})
}

func (ls *LibraryService) PauseSession(gameID, saveID string) (*models.Session, error) {
	return ls.sessionOp(gameID, saveID, func(_ *models.GameEntry, sv models.Save, now time.Time) (*models.Session, error) {
		b := sv.Base()
		if b.ActiveSession == nil {
			return nil, models.ErrNoActiveSession
		}
		if err := b.ActiveSession.Pause(now); err != nil {
			return nil, err
		}
		return b.ActiveSession, nil
	})
}

func (ls *LibraryService) ResumeSession(gameID, saveID string) (*models.Session, error) {
	return ls.sessionOp(gameID, saveID, func(g *models.GameEntry, sv models.Save, now time.Time) (*models.Session, error) {
		b := sv.Base()
		if b.ActiveSession == nil {
			return nil, models.ErrNoActiveSession
		}
		if err := b.ActiveSession.Resume(now); err != nil {
			return nil, err
		}
		g.LastPlayedAt = &now
		return b.ActiveSession, nil
	})
}

// EndSession closes the active session and appends it to the save's
// history. Run-log saves only accept outcomes their tracker defines and keep
// their streaks current.
func (ls *LibraryService) EndSession(gameID, saveID string, end EndSession) (*models.Session, error) {
	return ls.sessionOp(gameID, saveID, func(g *models.GameEntry, sv models.Save, now time.Time) (*models.Session, error) {
		b := sv.Base()
		if b.ActiveSession == nil {
			return nil, models.ErrNoActiveSession
		}
		def := trackers.Lookup(trackers.ResolveTracker(g))
		run, isRun := sv.(*models.RunLogSave)
		if isRun && !validOutcome(end.Outcome, def.Run.Outcomes) {
			return nil, fmt.Errorf("%w: unknown outcome %q", ErrInvalidInput, end.Outcome)
		}

		closed := *b.ActiveSession
		if err := closed.Close(now, end.Outcome, end.Notes, end.Details); err != nil {
			return nil, err
		}
		b.History = append(b.History, closed)
		b.ActiveSession = nil
		g.LastPlayedAt = &now

		if isRun {
			st := trackers.ComputeRunStats(run.History, def.Run)
			run.CurrentStreak, run.BestStreak = st.CurrentStreak, st.BestStreak
		}
		return &closed, nil
	})
}

func validOutcome(outcome string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, o := range allowed {
		if o == outcome {
			return true
		}
	}
	return false
}

func (ls *LibraryService) ToggleChapter(gameID, saveID, chapter string) (bool, error) {
	var done bool
	err := ls.update(func(s *models.AppState) error {
		_, sv, err := findSave(s, gameID, saveID)
		if err != nil {
			return err
		}
		cs, ok := sv.(*models.ChecklistSave)
		if !ok {
			return models.ErrWrongFamily
		}
		cur, ok := cs.ChapterCompleted[chapter]
		if !ok {
			return fmt.Errorf("%w: %s", models.ErrUnknownEntry, chapter)
		}
		done = !cur
		cs.ChapterCompleted[chapter] = done
		return nil
	})
	return done, err
}

func (ls *LibraryService) ToggleCollectible(gameID, saveID, item string) (bool, error) {
	var have bool
	err := ls.update(func(s *models.AppState) error {
		_, sv, err := findSave(s, gameID, saveID)
		if err != nil {
			return err
		}
		cs, ok := sv.(*models.CollectibleSave)
		if !ok {
			return models.ErrWrongFamily
		}
		cur, ok := cs.Collected[item]
		if !ok {
			return fmt.Errorf("%w: %s", models.ErrUnknownEntry, item)
		}
		have = !cur
		cs.Collected[item] = have
		return nil
	})
	return have, err
}

func generalSave(s *models.AppState, gameID, saveID string) (*models.GeneralSave, error) {
	_, sv, err := findSave(s, gameID, saveID)
	if err != nil {
		return nil, err
	}
	gs, ok := sv.(*models.GeneralSave)
	if !ok {
		return nil, models.ErrWrongFamily
	}
	return gs, nil
}

func (ls *LibraryService) AddMilestone(gameID, saveID, title string) (*models.Milestone, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: milestone title is empty", ErrInvalidInput)
	}
	var m models.Milestone
	err := ls.update(func(s *models.AppState) error {
		gs, err := generalSave(s, gameID, saveID)
		if err != nil {
			return err
		}
		m = models.Milestone{ID: models.NewIDAt(ls.now()), Title: title}
		gs.Milestones = append(gs.Milestones, m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (ls *LibraryService) ToggleMilestone(gameID, saveID, milestoneID string) (bool, error) {
	var done bool
	err := ls.update(func(s *models.AppState) error {
		gs, err := generalSave(s, gameID, saveID)
		if err != nil {
			return err
		}
		for i := range gs.Milestones {
			if gs.Milestones[i].ID == milestoneID {
				gs.Milestones[i].Done = !gs.Milestones[i].Done
				done = gs.Milestones[i].Done
				return nil
			}
		}
		return fmt.Errorf("%w: milestone %s", models.ErrUnknownEntry, milestoneID)
	})
	return done, err
}

// SetProgress records a general save's completion percentage and, when notes
// is not nil, its notes.
func (ls *LibraryService) SetProgress(gameID, saveID string, percent int, notes *string) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("%w: percent must be within 0..100", ErrInvalidInput)
	}
	return ls.update(func(s *models.AppState) error {
		gs, err := generalSave(s, gameID, saveID)
		if err != nil {
			return err
		}
		gs.ProgressPercent = percent
		if notes != nil {
			gs.Notes = *notes
		}
		return nil
	})
}

// Export returns the document exactly as it is persisted.
func (ls *LibraryService) Export() ([]byte, error) {
	return json.Marshal(ls.State())
}

// Import replaces the document with data. Malformed data leaves the current
// document untouched.
func (ls *LibraryService) Import(data []byte) error {
	next, err := models.ParseState(data)
	if err != nil {
		return err
	}
	if err := ls.replace(next, "import"); err != nil {
		return err
	}
	ls.logger.Infof(providers.TypePost, "Imported state with %d games", len(next.Library))
	return nil
}

func (ls *LibraryService) Backups() ([]interfaces.BackupInfo, error) {
	return ls.backups.List()
}

func (ls *LibraryService) RestoreBackup(name string) error {
	next, err := ls.backups.Load(name)
	if err != nil {
		return err
	}
	if err := ls.replace(next, "restore"); err != nil {
		return err
	}
	ls.logger.Infof(providers.TypePost, "Restored backup %s", name)
	return nil
}

// LinkDevice makes this device follow another device's cloud document. The
// local document is overwritten, not merged. Without a document for the
// other id nothing changes.
func (ls *LibraryService) LinkDevice(ctx context.Context, deviceID string) error {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return fmt.Errorf("%w: device id is empty", ErrInvalidInput)
	}
	if !ls.cloud.Enabled() {
		return fmt.Errorf("%w: cloud sync is not configured", ErrLinkFailed)
	}

	linked, err := ls.cloud.LoadDevice(ctx, deviceID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrLinkFailed, err)
	}
	trackers.BackfillState(linked)
	for i := range linked.Library {
		trackers.MigrateGame(&linked.Library[i])
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	// writes of the current document must land in the old slot
	if err := ls.autosave.Flush(ctx); err != nil {
		ls.logger.Warnf(providers.TypeSync, "Pending cloud write before linking failed: %s", err)
	}

	previous := ls.identity.DeviceID()
	if err := ls.identity.SetDeviceID(deviceID); err != nil {
		return fmt.Errorf("%w: %s", ErrLinkFailed, err)
	}
	if err := ls.replaceLocked(linked, "link"); err != nil {
		if rerr := ls.identity.SetDeviceID(previous); rerr != nil {
			ls.logger.Errorf(providers.TypeSync, "Unable to restore device id %s: %s", previous, rerr)
		}
		return err
	}
	ls.logger.Infof(providers.TypeSync, "Linked to device %s (was %s)", deviceID, previous)
	return nil
}
