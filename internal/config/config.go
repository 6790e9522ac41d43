package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. COBALT_SERVER_ADDR.
const EnvPrefix = "COBALT"

// Config represents the complete cobalt configuration
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog" yaml:"catalog"`
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
	Planner PlannerConfig `mapstructure:"planner" yaml:"planner"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Notify  NotifyConfig  `mapstructure:"notify" yaml:"notify"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// CatalogConfig controls where the widget catalogue comes from
type CatalogConfig struct {
	// Path is the catalogue YAML file. Ignored when a store driver is set.
	Path string `mapstructure:"path" yaml:"path"`
	// Widgets restricts the catalogue to widgets matching these glob patterns.
	// Empty keeps every widget.
	Widgets []string `mapstructure:"widgets" yaml:"widgets"`
	// Watch reloads the catalogue file when it changes (serve only)
	Watch bool `mapstructure:"watch" yaml:"watch"`
	// DebounceMs is the quiet period after a write before reloading
	DebounceMs int `mapstructure:"debounce_ms" yaml:"debounce_ms"`
}

// StoreConfig selects an SQL catalogue store
type StoreConfig struct {
	// Driver is "", "sqlite" or "postgres". Empty reads catalog.path instead.
	Driver string `mapstructure:"driver" yaml:"driver"`
	// DSN is the data source name passed to the driver
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}

// PlannerConfig holds planning defaults used when a request names none
type PlannerConfig struct {
	// Strategy is the precursor composition strategy.
	// Options: "none", "minimal", "extended-atomic", "extended-minimal"
	Strategy string `mapstructure:"strategy" yaml:"strategy"`
	// ComposeFunctionalities lets composite actions realize functionalities and tasks
	ComposeFunctionalities bool `mapstructure:"compose_functionalities" yaml:"compose_functionalities"`
	// ComposeProperties lets composite actions publish properties
	ComposeProperties bool `mapstructure:"compose_properties" yaml:"compose_properties"`
	// MinDepth is the smallest plan depth searched
	MinDepth int `mapstructure:"min_depth" yaml:"min_depth"`
	// MaxDepth is the largest plan depth searched (0 = unbounded)
	MaxDepth int `mapstructure:"max_depth" yaml:"max_depth"`
	// Limit caps the plans returned (0 = all)
	Limit int `mapstructure:"limit" yaml:"limit"`
}

// ServerConfig controls the planning HTTP server
type ServerConfig struct {
	// Addr is the listen address
	Addr string `mapstructure:"addr" yaml:"addr"`
	// JobTimeoutSeconds bounds each planning job (0 = no timeout)
	JobTimeoutSeconds int `mapstructure:"job_timeout_seconds" yaml:"job_timeout_seconds"`
	// CacheSize bounds each job's catalogue query cache
	CacheSize int `mapstructure:"cache_size" yaml:"cache_size"`
}

// NotifyConfig controls MQTT job notifications
type NotifyConfig struct {
	// Enabled publishes a summary of every finished job
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// BrokerURL is the MQTT broker, e.g. tcp://localhost:1883
	BrokerURL string `mapstructure:"broker_url" yaml:"broker_url"`
	// ClientID identifies this server to the broker
	ClientID string `mapstructure:"client_id" yaml:"client_id"`
	// Username and Password are optional broker credentials
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
	// Topic is the prefix summaries are published under
	Topic string `mapstructure:"topic" yaml:"topic"`
	// QoS is the MQTT quality of service (0, 1 or 2)
	QoS int `mapstructure:"qos" yaml:"qos"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Level is the minimum log level to record.
	// Options: "debug", "info", "warn", "error"
	Level string `mapstructure:"level" yaml:"level"`
	// Dir is the directory holding cobalt.log. Empty logs to stderr.
	Dir string `mapstructure:"dir" yaml:"dir"`
	// MaxSizeMB is the maximum size of a log file before rotation (0 = no rotation)
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	// MaxBackups is the number of rotated files to keep
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`
	// Compress gzips rotated files
	Compress bool `mapstructure:"compress" yaml:"compress"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Path:       "catalog.yaml",
			Widgets:    []string{},
			Watch:      true,
			DebounceMs: 100,
		},
		Store: StoreConfig{
			Driver: "",
			DSN:    "",
		},
		Planner: PlannerConfig{
			Strategy: "none",
			MinDepth: 1,
			MaxDepth: 0,
			Limit:    0,
		},
		Server: ServerConfig{
			Addr:              ":8080",
			JobTimeoutSeconds: 30,
			CacheSize:         32,
		},
		Notify: NotifyConfig{
			Enabled:   false,
			BrokerURL: "tcp://localhost:1883",
			ClientID:  "cobalt",
			Topic:     "cobalt/jobs",
			QoS:       1,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Dir:        "",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Debounce returns the catalogue reload debounce as a duration
func (c *CatalogConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// JobTimeout returns the job timeout as a duration
func (c *ServerConfig) JobTimeout() time.Duration {
	return time.Duration(c.JobTimeoutSeconds) * time.Second
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("catalog.path", defaults.Catalog.Path)
	viper.SetDefault("catalog.widgets", defaults.Catalog.Widgets)
	viper.SetDefault("catalog.watch", defaults.Catalog.Watch)
	viper.SetDefault("catalog.debounce_ms", defaults.Catalog.DebounceMs)

	viper.SetDefault("store.driver", defaults.Store.Driver)
	viper.SetDefault("store.dsn", defaults.Store.DSN)

	viper.SetDefault("planner.strategy", defaults.Planner.Strategy)
	viper.SetDefault("planner.compose_functionalities", defaults.Planner.ComposeFunctionalities)
	viper.SetDefault("planner.compose_properties", defaults.Planner.ComposeProperties)
	viper.SetDefault("planner.min_depth", defaults.Planner.MinDepth)
	viper.SetDefault("planner.max_depth", defaults.Planner.MaxDepth)
	viper.SetDefault("planner.limit", defaults.Planner.Limit)

	viper.SetDefault("server.addr", defaults.Server.Addr)
	viper.SetDefault("server.job_timeout_seconds", defaults.Server.JobTimeoutSeconds)
	viper.SetDefault("server.cache_size", defaults.Server.CacheSize)

	viper.SetDefault("notify.enabled", defaults.Notify.Enabled)
	viper.SetDefault("notify.broker_url", defaults.Notify.BrokerURL)
	viper.SetDefault("notify.client_id", defaults.Notify.ClientID)
	viper.SetDefault("notify.username", defaults.Notify.Username)
	viper.SetDefault("notify.password", defaults.Notify.Password)
	viper.SetDefault("notify.topic", defaults.Notify.Topic)
	viper.SetDefault("notify.qos", defaults.Notify.QoS)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	viper.SetDefault("logging.compress", defaults.Logging.Compress)
}

// Load reads the configuration from viper and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cobalt")
	}
	// Fall back to ~/.config/cobalt
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cobalt"
	}
	return filepath.Join(home, ".config", "cobalt")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
