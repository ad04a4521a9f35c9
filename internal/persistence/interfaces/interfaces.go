package interfaces

import (
	"context"
	"questlog/internal/models"
	"time"
)

type CompressorInterface interface {
	Compress(val []byte) ([]byte, error)
	Decompress(val []byte) ([]byte, error)
	Close()
}

// LocalStoreInterface is the device's own copy of the document.
type LocalStoreInterface interface {
	Load() (*models.AppState, error)
	Save(state *models.AppState) error
}

// CloudStoreInterface is the remote slot keyed by device id.
type CloudStoreInterface interface {
	Enabled() bool
	Load(ctx context.Context) (*models.AppState, error)
	LoadDevice(ctx context.Context, deviceID string) (*models.AppState, error)
	Save(ctx context.Context, state *models.AppState) error
}

type SyncStatus struct {
	Phase        string     `json:"phase"`
	CloudEnabled bool       `json:"cloudEnabled"`
	Online       bool       `json:"online"`
	LastError    string     `json:"lastError,omitempty"`
	LastSyncAt   *time.Time `json:"lastSyncAt,omitempty"`
	LocalWrites  int64      `json:"localWrites"`
	CloudWrites  int64      `json:"cloudWrites"`
	FailedWrites int64      `json:"failedWrites"`
	Coalesced    int64      `json:"coalesced"`
}

type AutosaveInterface interface {
	Notify(state *models.AppState)
	Flush(ctx context.Context) error
	Stop()
	Status() SyncStatus
}

type BackupInfo struct {
	Name      string    `json:"name"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
	Size      int64     `json:"size"`
}

type BackupStoreInterface interface {
	Archive(state *models.AppState, reason string) (string, error)
	List() ([]BackupInfo, error)
	Load(name string) (*models.AppState, error)
	Prune(now time.Time) (int, error)
}

type SchedulerInterface interface {
	Init()
	Stop()
	Restore(ctx context.Context) (*models.AppState, error)
	Persist(ctx context.Context) error
}
