package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config is the top-level configuration structure. It is loaded once at
// startup and passed explicitly to the components that need it; nothing in
// the report pipeline reads configuration from the environment at call sites.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Retention RetentionConfig `mapstructure:"retention"`
}

// ServerConfig holds server-related settings.
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	SessionSecret  string   `mapstructure:"session_secret"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// LoggingConfig holds settings for the logger.
type LoggingConfig struct {
	Directory  string `mapstructure:"directory"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// LLMConfig holds settings for the external completion service. An empty
// APIKey means the service runs offline and every generation request is
// served by the deterministic fallback.
type LLMConfig struct {
	APIKey              string  `mapstructure:"api_key"`
	Model               string  `mapstructure:"model"`
	MaxTokens           int     `mapstructure:"max_tokens"`
	ReportTemperature   float64 `mapstructure:"report_temperature"`
	AnalysisTemperature float64 `mapstructure:"analysis_temperature"`
}

// AuthConfig holds the opaque API key gate settings. APIKeyHash is a bcrypt
// hash of the key; when set it takes precedence over the plaintext APIKey,
// which exists for local development only.
type AuthConfig struct {
	APIKeyHash string `mapstructure:"api_key_hash"`
	APIKey     string `mapstructure:"api_key"`
}

// RetentionConfig controls the telemetry retention sweep.
type RetentionConfig struct {
	TelemetryDays int `mapstructure:"telemetry_days"`
}

// setDefaults sets the default values for the configuration.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "5080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Database defaults
	v.SetDefault("database.host", "db")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "user")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.dbname", "neuroscreen-db")

	// Logging defaults
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.max_size", 10)   // 10 MB
	v.SetDefault("logging.max_backups", 3) // Keep 3 backups
	v.SetDefault("logging.max_age", 7)     // 7 days
	v.SetDefault("logging.compress", true) // Compress old logs

	// LLM defaults
	v.SetDefault("llm.model", "claude-sonnet-4-20250514")
	v.SetDefault("llm.max_tokens", 1500)
	v.SetDefault("llm.report_temperature", 0.2)
	v.SetDefault("llm.analysis_temperature", 0.7)

	// Retention defaults
	v.SetDefault("retention.telemetry_days", 90)
}

// Store hands out the current configuration snapshot. A hot reload decodes
// into a fresh Config and swaps the pointer, so a Config obtained from Get is
// immutable and a reader never observes a partially decoded reload.
type Store struct {
	current atomic.Pointer[Config]
}

// Get returns the current snapshot.
func (s *Store) Get() *Config {
	return s.current.Load()
}

// reload decodes the viper state into a fresh snapshot and swaps it in. A
// decode failure keeps the previous snapshot.
func (s *Store) reload(v *viper.Viper, log *zap.Logger) {
	fresh := &Config{}
	if err := v.Unmarshal(fresh); err != nil {
		log.Error("Error reloading configuration", zap.Error(err))
		return
	}
	s.current.Store(fresh)
}

// Load initializes the configuration with Viper and returns it.
func Load(projectRoot string, log *zap.Logger) (*Store, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// --- File Configuration ---
	v.AddConfigPath(filepath.Join(projectRoot, "config"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// --- Environment Variable Binding ---
	v.SetEnvPrefix("NEUROSCREEN") // e.g., NEUROSCREEN_SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read the initial configuration from the file.
	// It's okay if the file doesn't exist; defaults and env vars will be used.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	store := &Store{}
	store.current.Store(cfg)

	// Set up a watch for configuration changes for hot-reloading
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Configuration file changed, reloading.", zap.String("file", e.Name))
		store.reload(v, log)
	})

	log.Info("Configuration loaded successfully")
	return store, nil
}
