package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"questlog/internal/cloud"
	"questlog/internal/models"
	"questlog/internal/persistence/interfaces"
	"questlog/internal/providers"
	"questlog/internal/structures"
	"sync"

	"github.com/gookit/validate"
)

const (
	cacheKeyPrefix = "state:"
	lockStripes    = 64
)

type deviceRef struct {
	ID string `validate:"required|regex:^[A-Za-z0-9._-]{1,128}$"`
}

type CloudServiceInterface interface {
	Get(ctx context.Context, deviceID string) ([]byte, error)
	Put(ctx context.Context, deviceID string, body []byte) error
}

// CloudService stores one document per device. Documents are validated on
// the way in and otherwise kept as sent. Cache fills and backend writes for a
// device happen under the same stripe lock, so the cache never holds a
// document older than the stored one.
type CloudService struct {
	locks      [lockStripes]sync.Mutex
	backend    cloud.Backend
	compressor interfaces.CompressorInterface
	cache      providers.CacheProviderInterface
	limiter    providers.RateLimiterInterface
	metrics    providers.MetricsProviderInterface
	logger     providers.Logger
	maxBytes   int64
}

func NewCloudService(conf *structures.Config, backend cloud.Backend, compressor interfaces.CompressorInterface, cache providers.CacheProviderInterface, limiter providers.RateLimiterInterface, metrics providers.MetricsProviderInterface, logger providers.Logger) CloudServiceInterface {
	return &CloudService{
		backend:    backend,
		compressor: compressor,
		cache:      cache,
		limiter:    limiter,
		metrics:    metrics,
		logger:     logger,
		maxBytes:   conf.Cloud.MaxDocumentBytes,
	}
}

func checkDeviceID(id string) error {
	v := validate.Struct(&deviceRef{ID: id})
	if !v.Validate() {
		return fmt.Errorf("%w: %q", ErrInvalidDeviceID, id)
	}
	return nil
}

func (cs *CloudService) lockFor(deviceID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(deviceID))
	return &cs.locks[h.Sum32()%lockStripes]
}

// Get returns the stored JSON document, or cloud.ErrNotFound.
func (cs *CloudService) Get(ctx context.Context, deviceID string) ([]byte, error) {
	if err := checkDeviceID(deviceID); err != nil {
		return nil, err
	}
	key := cacheKeyPrefix + deviceID
	if doc, ok := cs.cache.Get(key); ok {
		return doc, nil
	}

	mu := cs.lockFor(deviceID)
	mu.Lock()
	defer mu.Unlock()
	if doc, ok := cs.cache.Get(key); ok {
		return doc, nil
	}

	blob, err := cs.backend.Get(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	doc, err := cs.compressor.Decompress(blob)
	if err != nil {
		return nil, fmt.Errorf("decompress document for %s: %w", deviceID, err)
	}
	cs.cache.Set(key, doc)
	return doc, nil
}

func (cs *CloudService) Put(ctx context.Context, deviceID string, body []byte) error {
	if err := checkDeviceID(deviceID); err != nil {
		return err
	}
	if cs.maxBytes > 0 && int64(len(body)) > cs.maxBytes {
		return fmt.Errorf("%w: %d bytes", ErrTooLarge, len(body))
	}
	if !cs.limiter.Allow(deviceID) {
		cs.metrics.IncRateLimited()
		return ErrRateLimited
	}
	state, err := models.ParseState(body)
	if err != nil {
		return err
	}

	blob, err := cs.compressor.Compress(body)
	if err != nil {
		return err
	}
	key := cacheKeyPrefix + deviceID

	mu := cs.lockFor(deviceID)
	mu.Lock()
	defer mu.Unlock()
	cs.cache.Del(key)
	if err := cs.backend.Put(ctx, deviceID, blob); err != nil {
		return err
	}
	cs.cache.Set(key, body)
	cs.logger.Debugf(providers.TypePost, "Stored document for %s: %d games, saved at %s", deviceID, len(state.Library), state.LastSavedAt)
	return nil
}
