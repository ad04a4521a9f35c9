package internal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"questlog/internal/controllers"
	"questlog/internal/models"
	"questlog/internal/services"
	"questlog/internal/structures"
	"questlog/internal/testutil"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScheduler struct {
	state      *models.AppState
	restoreErr error
	inits      int
	persists   int
	stops      int
}

func (f *fakeScheduler) Init() { f.inits++ }
func (f *fakeScheduler) Stop() { f.stops++ }
func (f *fakeScheduler) Restore(_ context.Context) (*models.AppState, error) {
	return f.state, f.restoreErr
}
func (f *fakeScheduler) Persist(_ context.Context) error {
	f.persists++
	return nil
}

func newLibraryService() *services.LibraryService {
	return services.NewLibraryService(&testutil.MockAutosave{}, testutil.NewMockCloudStore("dev-1"), &testutil.MockIdentity{ID: "dev-1"}, testutil.NewMockBackupStore(), &testutil.MockLogger{})
}

func testConf() *structures.Config {
	return &structures.Config{WebServer: structures.Server{Host: "127.0.0.1", Port: 0}}
}

func TestInitDeviceRoutes_RegistersEveryEndpoint(t *testing.T) {
	lc := controllers.NewLibraryController(&testutil.MockLogger{}, newLibraryService())

	routes := InitDeviceRoutes(lc).GetRoutes()
	require.Len(t, routes, 24)

	urls := make([]string, len(routes))
	for i, r := range routes {
		urls[i] = r.Url
	}
	for _, u := range []string{"/library", "/games", "/sessions/end", "/import", "/link", "/backups/restore", "/progress"} {
		assert.Contains(t, urls, u)
	}
}

func TestInitDeviceRoutes_MethodEnforcement(t *testing.T) {
	lc := controllers.NewLibraryController(&testutil.MockLogger{}, newLibraryService())
	mux := http.NewServeMux()
	for _, r := range InitDeviceRoutes(lc).GetRoutes() {
		mux.Handle(r.Url, r.Handler)
	}

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/library", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/games", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/progress?game=missing", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestInitCloudRoutes(t *testing.T) {
	cc := controllers.NewCloudController(&structures.Config{}, &testutil.MockLogger{}, nil)

	routes := InitCloudRoutes(cc).GetRoutes()
	require.Len(t, routes, 1)
	assert.Equal(t, "/v1/state", routes[0].Url)

	rr := httptest.NewRecorder()
	routes[0].Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/v1/state?id=a", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestNewMux_ServesHealthAndApi(t *testing.T) {
	lib := newLibraryService()
	lc := controllers.NewLibraryController(&testutil.MockLogger{}, lib)
	mux := newMux(testConf(), controllers.NewDeviceHealthController(lib), InitDeviceRoutes(lc), &testutil.MockMetrics{}, &testutil.MockLogger{})

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/games", strings.NewReader(`{"name":"Celeste"}`)))
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Len(t, lib.State().Library, 1)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeviceApp_RunRestoresAndFlushes(t *testing.T) {
	lib := newLibraryService()
	restored := models.DefaultState()
	restored.Library = append(restored.Library, models.GameEntry{ID: "g1", Name: "Hades", Status: models.StatusPlaying})
	sched := &fakeScheduler{state: restored}
	lc := controllers.NewLibraryController(&testutil.MockLogger{}, lib)

	app := NewDeviceApp(lc, controllers.NewDeviceHealthController(lib), lib, sched, testConf(), &testutil.MockLogger{}, InitDeviceRoutes(lc), &testutil.MockMetrics{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool { return len(lib.State().Library) == 1 }, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
	assert.Equal(t, 1, sched.inits)
	assert.Equal(t, 1, sched.persists)
	assert.Equal(t, 1, sched.stops)
}

func TestDeviceApp_RestoreFailureStopsStartup(t *testing.T) {
	lib := newLibraryService()
	sched := &fakeScheduler{restoreErr: errors.New("cancelled")}
	lc := controllers.NewLibraryController(&testutil.MockLogger{}, lib)
	app := NewDeviceApp(lc, controllers.NewDeviceHealthController(lib), lib, sched, testConf(), &testutil.MockLogger{}, InitDeviceRoutes(lc), &testutil.MockMetrics{})

	err := app.Run(context.Background())
	assert.ErrorContains(t, err, "restore")
	assert.Equal(t, 0, sched.inits)
}

func TestTool_OpenAndClose(t *testing.T) {
	lib := newLibraryService()
	restored := models.DefaultState()
	restored.Library = append(restored.Library, models.GameEntry{ID: "g1", Name: "Celeste", Status: models.StatusBacklog})
	sched := &fakeScheduler{state: restored}
	tool := NewTool(lib, &testutil.MockIdentity{ID: "dev-1"}, sched)

	require.NoError(t, tool.Open(context.Background()))
	assert.Len(t, tool.Library.State().Library, 1)

	require.NoError(t, tool.Close(context.Background()))
	assert.Equal(t, 1, sched.persists)
	assert.Equal(t, 1, sched.stops)
}
