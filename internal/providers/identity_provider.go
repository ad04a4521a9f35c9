package providers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"questlog/internal/structures"
	"strings"
	"sync"

	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml/v2"
)

// Prefs is the per-device preferences file.
type Prefs struct {
	DeviceID   string `toml:"deviceId"`
	LinkedFrom string `toml:"linkedFrom,omitempty"`
}

// IdentityProviderInterface exposes the identifier this device syncs under.
type IdentityProviderInterface interface {
	DeviceID() string
	SetDeviceID(id string) error
}

type IdentityProvider struct {
	mu     sync.RWMutex
	path   string
	prefs  Prefs
	logger Logger
}

func NewIdentityProvider(conf *structures.Config, logger Logger) (IdentityProviderInterface, error) {
	ip := &IdentityProvider{path: conf.Device.PrefsFile, logger: logger}
	prefs, err := loadPrefs(ip.path)
	if err != nil {
		// an unreadable prefs file gets a fresh identity rather than blocking startup
		logger.Warnf(TypeApp, "Unable to read prefs %s: %s", ip.path, err)
	}
	ip.prefs = prefs

	if strings.TrimSpace(ip.prefs.DeviceID) == "" {
		ip.prefs.DeviceID = uuid.NewString()
		if err := savePrefs(ip.path, ip.prefs); err != nil {
			return nil, err
		}
		logger.Infof(TypeApp, "Generated device id %s", ip.prefs.DeviceID)
	}
	return ip, nil
}

func (ip *IdentityProvider) DeviceID() string {
	ip.mu.RLock()
	defer ip.mu.RUnlock()
	return ip.prefs.DeviceID
}

// SetDeviceID makes this device sync under another device's id.
func (ip *IdentityProvider) SetDeviceID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("device id is empty")
	}
	ip.mu.Lock()
	defer ip.mu.Unlock()

	next := Prefs{DeviceID: id, LinkedFrom: ip.prefs.DeviceID}
	if err := savePrefs(ip.path, next); err != nil {
		return err
	}
	ip.prefs = next
	return nil
}

func loadPrefs(path string) (Prefs, error) {
	var prefs Prefs
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, err
	}
	if err := toml.Unmarshal(data, &prefs); err != nil {
		return Prefs{}, fmt.Errorf("parse prefs: %w", err)
	}
	return prefs, nil
}

func savePrefs(path string, prefs Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	data, err := toml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}
