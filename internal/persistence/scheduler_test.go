package persistence

import (
	"context"
	"questlog/internal/models"
	"questlog/internal/structures"
	"questlog/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(prune time.Duration) *structures.Config {
	return &structures.Config{
		Device: structures.DeviceConfig{PruneInterval: prune},
	}
}

func newScheduler(local *testutil.MockLocalStore, cloud *testutil.MockCloudStore, prune time.Duration) (*Scheduler, *testutil.MockAutosave, *testutil.MockBackupStore) {
	logger := &testutil.MockLogger{}
	autosave := &testutil.MockAutosave{}
	backups := testutil.NewMockBackupStore()
	r := NewReconciler(local, cloud, logger)
	s := NewScheduler(testConfig(prune), logger, r, autosave, backups)
	return s.(*Scheduler), autosave, backups
}

func TestScheduler_Restore_NewDevice(t *testing.T) {
	s, _, backups := newScheduler(&testutil.MockLocalStore{}, testutil.NewMockCloudStore("dev"), 0)

	state, err := s.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultState(), state)
	assert.Equal(t, []models.GameEntry{}, state.Library)
	assert.Equal(t, 1, backups.Pruned)
}

func TestScheduler_Restore_AdoptsNewerCloud(t *testing.T) {
	local := &testutil.MockLocalStore{State: stateAt(100, "A")}
	cloud := testutil.NewMockCloudStore("dev")
	cloud.Docs["dev"] = stateAt(200, "B")
	s, _, _ := newScheduler(local, cloud, 0)

	state, err := s.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, names(state))
}

func TestScheduler_PersistFlushesAutosave(t *testing.T) {
	s, autosave, _ := newScheduler(&testutil.MockLocalStore{}, testutil.NewMockCloudStore("dev"), 0)

	require.NoError(t, s.Persist(context.Background()))
	assert.Equal(t, 1, autosave.Flushes)
}

func TestScheduler_InitRunsPruneJob(t *testing.T) {
	s, _, backups := newScheduler(&testutil.MockLocalStore{}, testutil.NewMockCloudStore("dev"), time.Second)

	s.Init()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()
		return backups.Pruned > 0
	}, 3*time.Second, 50*time.Millisecond)
}

func TestScheduler_StopStopsAutosave(t *testing.T) {
	s, autosave, _ := newScheduler(&testutil.MockLocalStore{}, testutil.NewMockCloudStore("dev"), 0)
	s.Init()
	s.Stop()
	assert.True(t, autosave.Stopped)
}

func TestScheduler_StopWithoutInit(t *testing.T) {
	s, autosave, _ := newScheduler(&testutil.MockLocalStore{}, testutil.NewMockCloudStore("dev"), 0)
	s.Stop()
	assert.True(t, autosave.Stopped)
}
