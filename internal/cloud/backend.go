// Package cloud stores opaque per-device documents for the cloud role.
package cloud

import (
	"context"
	"errors"
	"fmt"
	"questlog/internal/providers"
	"questlog/internal/structures"
)

var ErrNotFound = errors.New("document not found")

// Backend is a key-value slot holding one blob per device id.
type Backend interface {
	Get(ctx context.Context, deviceID string) ([]byte, error)
	Put(ctx context.Context, deviceID string, blob []byte) error
	Ping(ctx context.Context) error
	Close() error
}

// NewBackend opens the backend selected by cloud.backend.
func NewBackend(conf *structures.Config, logger providers.Logger) (Backend, error) {
	switch conf.Cloud.Backend {
	case "", "badger":
		return NewBadgerBackend(conf.Cloud.Badger, logger)
	case "redis":
		return NewRedisBackend(context.Background(), conf.Cloud.Redis, logger)
	default:
		return nil, fmt.Errorf("unknown cloud backend %q", conf.Cloud.Backend)
	}
}
