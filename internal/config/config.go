package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. FIREDAM_TRANSPORT_PORT
const EnvPrefix = "FIREDAM"

// Backend names
const (
	BackendFirebase = "firebase"
	BackendSnapshot = "snapshot"
	BackendMemory   = "memory"
)

// Storage drivers
const (
	StorageGCS = "gcs"
	StorageS3  = "s3"
)

// Transport modes
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds the firedam configuration.
type Config struct {
	Credentials string          `mapstructure:"credentials"`
	ProjectID   string          `mapstructure:"project_id"`
	Database    string          `mapstructure:"database"`
	Backend     string          `mapstructure:"backend"` // firebase, snapshot, memory
	Debug       bool            `mapstructure:"debug"`
	Storage     StorageConfig   `mapstructure:"storage"`
	Snapshot    SnapshotConfig  `mapstructure:"snapshot"`
	Fixtures    FixturesConfig  `mapstructure:"fixtures"`
	Transport   TransportConfig `mapstructure:"transport"`
	HTTP        HTTPConfig      `mapstructure:"http"`
	Log         LogConfig       `mapstructure:"log"`
}

// StorageConfig selects the object storage driver.
type StorageConfig struct {
	Driver string   `mapstructure:"driver"` // gcs, s3
	S3     S3Config `mapstructure:"s3"`
}

// S3Config holds settings for an S3-compatible mirror of the asset bucket.
type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Secure    bool   `mapstructure:"secure"`
}

// SnapshotConfig locates the local SQLite snapshot.
type SnapshotConfig struct {
	Path string `mapstructure:"path"`
}

// FixturesConfig locates the fixtures file of the memory backend.
type FixturesConfig struct {
	Path string `mapstructure:"path"`
}

// TransportConfig selects how the MCP server is reached.
type TransportConfig struct {
	Mode string `mapstructure:"mode"` // stdio, http
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	ReadTimeoutSec  int     `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec int     `mapstructure:"write_timeout_sec"`
	ShutdownSec     int     `mapstructure:"shutdown_timeout_sec"`
	CallTimeoutSec  int     `mapstructure:"call_timeout_sec"`
	RateLimit       float64 `mapstructure:"rate_limit"` // requests per second, 0 disables
	RateBurst       int     `mapstructure:"rate_burst"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Format string `mapstructure:"format"` // console, json
	Level  string `mapstructure:"level"`  // debug, info, warn, error
}

// LoadOptions tells Load where to look besides the environment.
type LoadOptions struct {
	// ConfigFile is an explicit config file. It must exist when set.
	ConfigFile string
	// EnvFile is a dotenv file loaded into the process environment when present.
	EnvFile string
	// Flags are bound over every other source. Only flags listed in
	// FlagKeys and present in the set are bound.
	Flags *pflag.FlagSet
}

// FlagKeys maps command-line flag names to configuration keys.
var FlagKeys = map[string]string{
	"google-credentials": "credentials",
	"project":            "project_id",
	"database":           "database",
	"backend":            "backend",
	"storage":            "storage.driver",
	"snapshot":           "snapshot.path",
	"fixtures":           "fixtures.path",
	"transport":          "transport.mode",
	"host":               "transport.host",
	"port":               "transport.port",
	"debug":              "debug",
	"log-format":         "log.format",
	"log-level":          "log.level",
	"rate-limit":         "http.rate_limit",
}

// Load reads configuration from, in increasing precedence: defaults, the
// dotenv file, the config file, FIREDAM_* environment variables and flags.
func Load(opts LoadOptions) (Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName("firedam")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "firedam"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	if opts.Flags != nil {
		for name, key := range FlagKeys {
			f := opts.Flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("credentials", "")
	v.SetDefault("project_id", "")
	v.SetDefault("database", "")
	v.SetDefault("backend", BackendFirebase)
	v.SetDefault("debug", false)
	v.SetDefault("storage.driver", StorageGCS)
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.region", "")
	v.SetDefault("storage.s3.bucket", "")
	v.SetDefault("storage.s3.access_key", "")
	v.SetDefault("storage.s3.secret_key", "")
	v.SetDefault("storage.s3.secure", true)
	v.SetDefault("snapshot.path", "")
	v.SetDefault("fixtures.path", "")
	v.SetDefault("transport.mode", TransportStdio)
	v.SetDefault("transport.host", "localhost")
	v.SetDefault("transport.port", 8000)
	v.SetDefault("http.read_timeout_sec", 10)
	v.SetDefault("http.write_timeout_sec", 60)
	v.SetDefault("http.shutdown_timeout_sec", 10)
	v.SetDefault("http.call_timeout_sec", 30)
	v.SetDefault("http.rate_limit", 0)
	v.SetDefault("http.rate_burst", 0)
	v.SetDefault("log.format", "console")
	v.SetDefault("log.level", "")
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = BackendFirebase
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageGCS
	}
	if c.Transport.Mode == "" {
		c.Transport.Mode = TransportStdio
	}
	if c.Transport.Host == "" {
		c.Transport.Host = "localhost"
	}
	if c.Transport.Port == 0 {
		c.Transport.Port = 8000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.CallTimeoutSec <= 0 {
		c.HTTP.CallTimeoutSec = 30
	}
	if c.HTTP.RateLimit > 0 && c.HTTP.RateBurst <= 0 {
		c.HTTP.RateBurst = max(1, int(c.HTTP.RateLimit))
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Debug {
		c.Log.Level = "debug"
	} else if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFirebase:
		if err := validateCredentials(c.Credentials); err != nil {
			return err
		}
		switch c.Storage.Driver {
		case StorageGCS:
		case StorageS3:
			if c.Storage.S3.Endpoint == "" {
				return fmt.Errorf("storage.s3.endpoint is required for the s3 driver")
			}
			if c.Storage.S3.Bucket == "" {
				return fmt.Errorf("storage.s3.bucket is required for the s3 driver")
			}
		default:
			return fmt.Errorf("storage.driver must be %q or %q, got %q", StorageGCS, StorageS3, c.Storage.Driver)
		}
	case BackendSnapshot:
		if c.Snapshot.Path == "" {
			return fmt.Errorf("snapshot.path is required for the snapshot backend")
		}
	case BackendMemory:
		if c.Fixtures.Path == "" {
			return fmt.Errorf("fixtures.path is required for the memory backend")
		}
	default:
		return fmt.Errorf("backend must be one of %s, %s, %s, got %q", BackendFirebase, BackendSnapshot, BackendMemory, c.Backend)
	}

	switch c.Transport.Mode {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("transport.mode must be %q or %q, got %q", TransportStdio, TransportHTTP, c.Transport.Mode)
	}
	if c.Transport.Port <= 0 || c.Transport.Port > 65535 {
		return fmt.Errorf("transport.port must be between 1 and 65535, got %d", c.Transport.Port)
	}
	if c.HTTP.RateLimit < 0 {
		return fmt.Errorf("http.rate_limit must not be negative, got %v", c.HTTP.RateLimit)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be \"console\" or \"json\", got %q", c.Log.Format)
	}
	return nil
}

// Addr returns the HTTP listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Transport.Host, c.Transport.Port)
}

func validateCredentials(path string) error {
	if path == "" {
		return fmt.Errorf("credentials file is required for the firebase backend")
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("credentials file not found: %s", path)
		}
		return fmt.Errorf("credentials file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("credentials path is not a file: %s", path)
	}
	return nil
}
