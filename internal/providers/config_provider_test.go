package providers

import (
	"os"
	"path/filepath"
	"questlog/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestConfigProvider_DefaultsAndPaths(t *testing.T) {
	data := t.TempDir()
	path := writeConfig(t, `
logger:
  dir: `+data+`
device:
  dataDir: `+data+`
`)

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path, DebugMode: true})
	require.NoError(t, err)

	assert.Equal(t, "QuestLog", conf.AppName)
	assert.True(t, conf.Debug)
	assert.Equal(t, path, conf.Path)
	assert.Equal(t, 8420, conf.WebServer.Port)
	assert.Equal(t, 2*time.Second, conf.Device.SyncDebounce)
	assert.True(t, conf.Device.Compress)
	assert.Equal(t, filepath.Join(data, "state.json.zst"), conf.Device.StateFile)
	assert.Equal(t, filepath.Join(data, "backups"), conf.Device.BackupDir)
	assert.Equal(t, filepath.Join(data, "cloud"), conf.Cloud.Badger.Path)
	assert.Equal(t, "badger", conf.Cloud.Backend)
	assert.Equal(t, int64(4<<20), conf.Cloud.MaxDocumentBytes)
}

func TestConfigProvider_FileOverrides(t *testing.T) {
	data := t.TempDir()
	path := writeConfig(t, `
webServer:
  host: 0.0.0.0
  port: 9000
logger:
  level: debug
  dir: `+data+`
device:
  dataDir: `+data+`
  compress: false
  syncDebounce: 500ms
  cloudURL: http://cloud.local:8421
cloud:
  backend: redis
  redis:
    addr: localhost:6379
`)

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", conf.WebServer.Host)
	assert.Equal(t, 9000, conf.WebServer.Port)
	assert.Equal(t, "debug", conf.Logger.Level)
	assert.Equal(t, 500*time.Millisecond, conf.Device.SyncDebounce)
	assert.Equal(t, filepath.Join(data, "state.json"), conf.Device.StateFile)
	assert.Equal(t, "http://cloud.local:8421", conf.Device.CloudURL)
	assert.Equal(t, "redis", conf.Cloud.Backend)
	assert.Equal(t, "localhost:6379", conf.Cloud.Redis.Addr)
	assert.Equal(t, "questlog:state:", conf.Cloud.Redis.KeyPrefix)
}

func TestConfigProvider_EnvOverride(t *testing.T) {
	data := t.TempDir()
	path := writeConfig(t, "logger:\n  dir: "+data+"\n")
	t.Setenv("QUESTLOG_PORT", "9100")
	t.Setenv("QUESTLOG_CLOUD_URL", "http://env-cloud")

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, 9100, conf.WebServer.Port)
	assert.Equal(t, "http://env-cloud", conf.Device.CloudURL)
}

func TestConfigProvider_InvalidBackend(t *testing.T) {
	path := writeConfig(t, "logger:\n  dir: "+t.TempDir()+"\ncloud:\n  backend: dynamo\n")

	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	assert.Error(t, err)
}

func TestConfigProvider_MissingFile(t *testing.T) {
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: filepath.Join(t.TempDir(), "nope.yml")})
	assert.Error(t, err)
}
