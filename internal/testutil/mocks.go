package testutil

import (
	"context"
	"errors"
	"questlog/internal/models"
	"questlog/internal/persistence/interfaces"
	"questlog/internal/providers"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu          sync.Mutex
	SyncWrites  map[string]int
	Coalesced   int
	RateLimited int
	LibrarySize int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                     {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration)     {}
func (m *MockMetrics) IncCacheHits()                                        {}
func (m *MockMetrics) IncCacheMisses()                                      {}
func (m *MockMetrics) ObservePersistenceDuration(_ string, _ time.Duration) {}

func (m *MockMetrics) IncSyncWrites(tier, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SyncWrites == nil {
		m.SyncWrites = make(map[string]int)
	}
	m.SyncWrites[tier+":"+result]++
}

func (m *MockMetrics) IncCoalescedWrites() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Coalesced++
}

func (m *MockMetrics) IncRateLimited() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RateLimited++
}

func (m *MockMetrics) SetLibrarySize(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LibrarySize = count
}

func (m *MockMetrics) Writes(tier, result string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SyncWrites[tier+":"+result]
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// MockIdentity implements providers.IdentityProviderInterface in memory.
type MockIdentity struct {
	mu sync.Mutex
	ID string
}

func (m *MockIdentity) DeviceID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ID
}

func (m *MockIdentity) SetDeviceID(id string) error {
	if id == "" {
		return errors.New("device id is empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ID = id
	return nil
}

// MockLocalStore implements interfaces.LocalStoreInterface in memory.
type MockLocalStore struct {
	mu      sync.Mutex
	State   *models.AppState
	Saved   []*models.AppState
	LoadErr error
	SaveErr error
}

func (m *MockLocalStore) Load() (*models.AppState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.State, nil
}

func (m *MockLocalStore) Save(state *models.AppState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.State = state
	m.Saved = append(m.Saved, state)
	return nil
}

func (m *MockLocalStore) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Saved)
}

// MockCloudStore implements interfaces.CloudStoreInterface with documents
// keyed by device id.
type MockCloudStore struct {
	mu       sync.Mutex
	Disabled bool
	DeviceID string
	Docs     map[string]*models.AppState
	Saved    []*models.AppState
	LoadErr  error
	SaveErr  error
	SaveHook func(state *models.AppState)
}

func NewMockCloudStore(deviceID string) *MockCloudStore {
	return &MockCloudStore{DeviceID: deviceID, Docs: make(map[string]*models.AppState)}
}

func (m *MockCloudStore) Enabled() bool { return !m.Disabled }

func (m *MockCloudStore) Load(ctx context.Context) (*models.AppState, error) {
	return m.LoadDevice(ctx, m.DeviceID)
}

func (m *MockCloudStore) LoadDevice(_ context.Context, deviceID string) (*models.AppState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	doc, ok := m.Docs[deviceID]
	if !ok {
		return nil, errors.New("not found")
	}
	return doc, nil
}

func (m *MockCloudStore) Save(_ context.Context, state *models.AppState) error {
	if m.SaveHook != nil {
		m.SaveHook(state)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Docs[m.DeviceID] = state
	m.Saved = append(m.Saved, state)
	return nil
}

func (m *MockCloudStore) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Saved)
}

func (m *MockCloudStore) LastSaved() *models.AppState {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Saved) == 0 {
		return nil
	}
	return m.Saved[len(m.Saved)-1]
}

// MockAutosave implements interfaces.AutosaveInterface and records notifies.
type MockAutosave struct {
	mu        sync.Mutex
	Notified  []*models.AppState
	Flushes   int
	FlushHook func()
	Stopped   bool
}

func (m *MockAutosave) Notify(state *models.AppState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notified = append(m.Notified, state)
}

func (m *MockAutosave) Flush(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Flushes++
	if m.FlushHook != nil {
		m.FlushHook()
	}
	return nil
}

func (m *MockAutosave) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Stopped = true
}

func (m *MockAutosave) Status() interfaces.SyncStatus {
	return interfaces.SyncStatus{Phase: "idle"}
}

func (m *MockAutosave) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Notified)
}

// MockBackupStore implements interfaces.BackupStoreInterface in memory.
type MockBackupStore struct {
	mu         sync.Mutex
	Archived   map[string]*models.AppState
	Names      []string
	ArchiveErr error
	Pruned     int
}

func NewMockBackupStore() *MockBackupStore {
	return &MockBackupStore{Archived: make(map[string]*models.AppState)}
}

func (m *MockBackupStore) Archive(state *models.AppState, reason string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ArchiveErr != nil {
		return "", m.ArchiveErr
	}
	name := reason + "-" + time.Now().Format("150405.000000000")
	m.Archived[name] = state
	m.Names = append(m.Names, name)
	return name, nil
}

func (m *MockBackupStore) List() ([]interfaces.BackupInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]interfaces.BackupInfo, 0, len(m.Names))
	for i := len(m.Names) - 1; i >= 0; i-- {
		out = append(out, interfaces.BackupInfo{Name: m.Names[i]})
	}
	return out, nil
}

func (m *MockBackupStore) Load(name string) (*models.AppState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.Archived[name]
	if !ok {
		return nil, errors.New("no such backup")
	}
	return s, nil
}

func (m *MockBackupStore) Prune(_ time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Pruned++
	return 0, nil
}
