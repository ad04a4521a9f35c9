package cloud

import (
	"context"
	"errors"
	"fmt"
	"os"
	"questlog/internal/providers"
	"questlog/internal/structures"

	"github.com/dgraph-io/badger/v4"
	"github.com/roylee0704/gron"
)

const (
	badgerKeyPrefix   = "state/"
	gcDiscardRatio    = 0.5
	badgerDirPerm     = 0o750
	numVersionsToKeep = 1
)

// BadgerBackend keeps documents in an embedded BadgerDB.
type BadgerBackend struct {
	db     *badger.DB
	cron   *gron.Cron
	logger providers.Logger
}

// badgerLogger routes badger's own logging through the app logger.
type badgerLogger struct {
	logger providers.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Errorf(providers.TypeApp, "badger: "+format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warnf(providers.TypeApp, "badger: "+format, args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debugf(providers.TypeApp, "badger: "+format, args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debugf(providers.TypeApp, "badger: "+format, args...)
}

func NewBadgerBackend(cfg structures.BadgerConfig, logger providers.Logger) (*BadgerBackend, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("badger path is required for a persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, badgerDirPerm); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).
		WithNumVersionsToKeep(numVersionsToKeep).
		WithLogger(&badgerLogger{logger: logger})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	b := &BadgerBackend{db: db, logger: logger}
	if !cfg.InMemory && cfg.GCInterval > 0 {
		b.cron = gron.New()
		b.cron.AddFunc(gron.Every(cfg.GCInterval), b.runGC)
		b.cron.Start()
	}
	logger.Infof(providers.TypeApp, "Badger backend opened (inMemory=%t)", cfg.InMemory)
	return b, nil
}

func (b *BadgerBackend) runGC() {
	for {
		err := b.db.RunValueLogGC(gcDiscardRatio)
		if err == nil {
			continue
		}
		if !errors.Is(err, badger.ErrNoRewrite) && !errors.Is(err, badger.ErrRejected) {
			b.logger.Warnf(providers.TypeApp, "Badger value log GC failed: %s", err)
		}
		return
	}
}

func stateKey(deviceID string) []byte {
	return []byte(badgerKeyPrefix + deviceID)
}

func (b *BadgerBackend) Get(_ context.Context, deviceID string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(stateKey(deviceID))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("badger get %s: %w", deviceID, err)
	}
	return out, nil
}

func (b *BadgerBackend) Put(_ context.Context, deviceID string, blob []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(stateKey(deviceID), blob)
	})
	if err != nil {
		return fmt.Errorf("badger put %s: %w", deviceID, err)
	}
	return nil
}

func (b *BadgerBackend) Ping(_ context.Context) error {
	if b.db.IsClosed() {
		return errors.New("badger database is closed")
	}
	return nil
}

func (b *BadgerBackend) Close() error {
	if b.cron != nil {
		b.cron.Stop()
	}
	return b.db.Close()
}
