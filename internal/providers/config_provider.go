package providers

import (
	"fmt"
	"path/filepath"
	"questlog/internal/structures"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

const appDirName = "questlog"

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	setDefaults(v)

	v.BindEnv("logger.level", "QUESTLOG_LOG_LEVEL")
	v.BindEnv("webServer.port", "QUESTLOG_PORT")
	v.BindEnv("device.cloudURL", "QUESTLOG_CLOUD_URL")
	v.BindEnv("device.dataDir", "QUESTLOG_DATA_DIR")
	v.BindEnv("device.syncDebounce", "QUESTLOG_SYNC_DEBOUNCE")
	v.BindEnv("cloud.backend", "QUESTLOG_CLOUD_BACKEND")
	v.BindEnv("cloud.redis.addr", "QUESTLOG_REDIS_ADDR")
	v.BindEnv("cloud.redis.password", "QUESTLOG_REDIS_PASSWORD")
	v.BindEnv("cache.enabled", "QUESTLOG_CACHE_ENABLED")
	v.BindEnv("cache.size", "QUESTLOG_CACHE_SIZE")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	applyPathDefaults(&conf)

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "QuestLog"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("webServer.host", "127.0.0.1")
	v.SetDefault("webServer.port", 8420)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("logger.dir", filepath.Join(xdg.StateHome, appDirName))
	v.SetDefault("device.compress", true)
	v.SetDefault("device.cloudTimeout", 5*time.Second)
	v.SetDefault("device.syncDebounce", 2*time.Second)
	v.SetDefault("device.backupTTL", 30*24*time.Hour)
	v.SetDefault("device.pruneInterval", time.Hour)
	v.SetDefault("cloud.backend", "badger")
	v.SetDefault("cloud.maxDocumentBytes", 4<<20)
	v.SetDefault("cloud.badger.syncWrites", true)
	v.SetDefault("cloud.badger.gcInterval", 5*time.Minute)
	v.SetDefault("cloud.redis.keyPrefix", "questlog:state:")
	v.SetDefault("cloud.rateLimit.perSecond", 2)
	v.SetDefault("cloud.rateLimit.burst", 10)
	v.SetDefault("cache.ttl", time.Minute)
}

// applyPathDefaults fills the device and cloud paths that depend on the
// data directory.
func applyPathDefaults(conf *structures.Config) {
	d := &conf.Device
	if d.DataDir == "" {
		d.DataDir = filepath.Join(xdg.DataHome, appDirName)
	}
	if d.StateFile == "" {
		name := "state.json"
		if d.Compress {
			name += ".zst"
		}
		d.StateFile = filepath.Join(d.DataDir, name)
	}
	if d.PrefsFile == "" {
		d.PrefsFile = filepath.Join(xdg.ConfigHome, appDirName, "prefs.toml")
	}
	if d.BackupDir == "" {
		d.BackupDir = filepath.Join(d.DataDir, "backups")
	}
	if conf.Cloud.Badger.Path == "" && !conf.Cloud.Badger.InMemory {
		conf.Cloud.Badger.Path = filepath.Join(d.DataDir, "cloud")
	}
}
