package structures

import (
	"net/http"
	"time"
)

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Route struct {
	Url     string
	Handler http.Handler
}

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

// DeviceConfig configures the local-first library owner.
type DeviceConfig struct {
	DataDir       string        `yaml:"dataDir"`
	StateFile     string        `yaml:"stateFile"`
	PrefsFile     string        `yaml:"prefsFile"`
	BackupDir     string        `yaml:"backupDir"`
	BackupTTL     time.Duration `yaml:"backupTTL"`
	Compress      bool          `yaml:"compress"`
	CloudURL      string        `yaml:"cloudURL"`
	CloudTimeout  time.Duration `yaml:"cloudTimeout"`
	SyncDebounce  time.Duration `yaml:"syncDebounce"`
	PruneInterval time.Duration `yaml:"pruneInterval"`
}

type BadgerConfig struct {
	Path       string        `yaml:"path"`
	InMemory   bool          `yaml:"inMemory"`
	SyncWrites bool          `yaml:"syncWrites"`
	GCInterval time.Duration `yaml:"gcInterval"`
}

type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"keyPrefix"`
}

type RateLimitConfig struct {
	PerSecond float64 `yaml:"perSecond"`
	Burst     int     `yaml:"burst"`
}

// CloudConfig configures the remote key-value slot.
type CloudConfig struct {
	Backend          string          `yaml:"backend" validate:"in:badger,redis"`
	MaxDocumentBytes int64           `yaml:"maxDocumentBytes"`
	Badger           BadgerConfig    `yaml:"badger"`
	Redis            RedisConfig     `yaml:"redis"`
	RateLimit        RateLimitConfig `yaml:"rateLimit"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server        `yaml:"webServer"`
	Logger    LoggerConfig  `yaml:"logger"`
	Device    DeviceConfig  `yaml:"device"`
	Cloud     CloudConfig   `yaml:"cloud"`
	Cache     CacheConfig   `yaml:"cache"`
	Metrics   MetricsConfig `yaml:"metrics"`
}
