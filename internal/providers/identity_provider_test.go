package providers

import (
	"os"
	"path/filepath"
	"questlog/internal/structures"
	"testing"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityConfig(t *testing.T) *structures.Config {
	t.Helper()
	return &structures.Config{
		Device: structures.DeviceConfig{
			PrefsFile: filepath.Join(t.TempDir(), "questlog", "prefs.toml"),
		},
	}
}

func readPrefs(t *testing.T, path string) Prefs {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var p Prefs
	require.NoError(t, toml.Unmarshal(data, &p))
	return p
}

func TestIdentityProvider_GeneratesAndPersistsID(t *testing.T) {
	conf := identityConfig(t)

	ip, err := NewIdentityProvider(conf, &cacheTestLogger{})
	require.NoError(t, err)
	id := ip.DeviceID()
	assert.NotEmpty(t, id)
	assert.Equal(t, id, readPrefs(t, conf.Device.PrefsFile).DeviceID)

	again, err := NewIdentityProvider(conf, &cacheTestLogger{})
	require.NoError(t, err)
	assert.Equal(t, id, again.DeviceID())
}

func TestIdentityProvider_SetDeviceIDRecordsPrevious(t *testing.T) {
	conf := identityConfig(t)
	ip, err := NewIdentityProvider(conf, &cacheTestLogger{})
	require.NoError(t, err)
	old := ip.DeviceID()

	require.NoError(t, ip.SetDeviceID("  laptop-1 "))
	assert.Equal(t, "laptop-1", ip.DeviceID())

	p := readPrefs(t, conf.Device.PrefsFile)
	assert.Equal(t, "laptop-1", p.DeviceID)
	assert.Equal(t, old, p.LinkedFrom)
}

func TestIdentityProvider_SetEmptyDeviceID(t *testing.T) {
	ip, err := NewIdentityProvider(identityConfig(t), &cacheTestLogger{})
	require.NoError(t, err)
	old := ip.DeviceID()

	assert.Error(t, ip.SetDeviceID("   "))
	assert.Equal(t, old, ip.DeviceID())
}

func TestIdentityProvider_CorruptPrefsGetsFreshID(t *testing.T) {
	conf := identityConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(conf.Device.PrefsFile), 0o755))
	require.NoError(t, os.WriteFile(conf.Device.PrefsFile, []byte("deviceId = ["), 0o644))

	ip, err := NewIdentityProvider(conf, &cacheTestLogger{})
	require.NoError(t, err)
	assert.NotEmpty(t, ip.DeviceID())
}
