package persistence

import (
	"fmt"
	"os"
	"path/filepath"
	"questlog/internal/models"
	"questlog/internal/persistence/interfaces"
	"questlog/internal/providers"
	"questlog/internal/structures"
	"time"

	json "github.com/goccy/go-json"
)

// LocalStore keeps the whole document in a single file. Writes replace the
// file atomically.
type LocalStore struct {
	path       string
	compress   bool
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewLocalStore(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) interfaces.LocalStoreInterface {
	return &LocalStore{
		path:       conf.Device.StateFile,
		compress:   conf.Device.Compress,
		compressor: compressor,
		logger:     logger,
		metrics:    metrics,
	}
}

// Load returns nil without error when the file does not exist yet. Plain and
// compressed files are both accepted, whatever the current setting.
func (l *LocalStore) Load() (*models.AppState, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	if IsCompressed(data) {
		data, err = l.compressor.Decompress(data)
		if err != nil {
			return nil, fmt.Errorf("decompress %s: %w", l.path, err)
		}
	}
	return models.ParseState(data)
}

func (l *LocalStore) Save(state *models.AppState) error {
	start := time.Now()
	err := l.write(state)
	l.metrics.ObservePersistenceDuration(providers.TierLocal, time.Since(start))
	if err != nil {
		l.metrics.IncSyncWrites(providers.TierLocal, providers.ResultError)
		return err
	}
	l.metrics.IncSyncWrites(providers.TierLocal, providers.ResultOK)
	return nil
}

func (l *LocalStore) write(state *models.AppState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if l.compress {
		data, err = l.compressor.Compress(data)
		if err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return err
	}
	return writeAtomic(l.path, data)
}

func writeAtomic(fileName string, data []byte) error {
	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}
