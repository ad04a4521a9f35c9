package persistence

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"questlog/internal/models"
	"questlog/internal/persistence/interfaces"
	"questlog/internal/providers"
	"questlog/internal/structures"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const statePath = "/v1/state"

var (
	ErrCloudDisabled   = errors.New("cloud sync is not configured")
	ErrNoCloudDocument = errors.New("no cloud document for device")
)

// CloudClient talks to a questlog cloud over plain request/response calls.
type CloudClient struct {
	baseURL  string
	client   *http.Client
	identity providers.IdentityProviderInterface
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
}

func NewCloudClient(conf *structures.Config, identity providers.IdentityProviderInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) interfaces.CloudStoreInterface {
	timeout := conf.Device.CloudTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &CloudClient{
		baseURL:  strings.TrimRight(conf.Device.CloudURL, "/"),
		client:   &http.Client{Timeout: timeout},
		identity: identity,
		logger:   logger,
		metrics:  metrics,
	}
}

func (c *CloudClient) Enabled() bool {
	return c.baseURL != ""
}

func (c *CloudClient) Load(ctx context.Context) (*models.AppState, error) {
	return c.LoadDevice(ctx, c.identity.DeviceID())
}

// LoadDevice fetches the document stored under deviceID. A missing document
// yields ErrNoCloudDocument.
func (c *CloudClient) LoadDevice(ctx context.Context, deviceID string) (*models.AppState, error) {
	if !c.Enabled() {
		return nil, ErrCloudDisabled
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.stateURL(deviceID), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cloud load: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNoCloudDocument
	default:
		return nil, fmt.Errorf("cloud load: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cloud load: %w", err)
	}
	return models.ParseState(data)
}

func (c *CloudClient) Save(ctx context.Context, state *models.AppState) error {
	if !c.Enabled() {
		return ErrCloudDisabled
	}
	start := time.Now()
	err := c.post(ctx, state)
	c.metrics.ObservePersistenceDuration(providers.TierCloud, time.Since(start))
	if err != nil {
		c.metrics.IncSyncWrites(providers.TierCloud, providers.ResultError)
		return err
	}
	c.metrics.IncSyncWrites(providers.TierCloud, providers.ResultOK)
	return nil
}

func (c *CloudClient) post(ctx context.Context, state *models.AppState) error {
	body, err := json.Marshal(state)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.stateURL(c.identity.DeviceID()), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("cloud save: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cloud save: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (c *CloudClient) stateURL(deviceID string) string {
	return c.baseURL + statePath + "?id=" + url.QueryEscape(deviceID)
}
