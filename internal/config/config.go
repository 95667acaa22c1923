package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// RosterConfig holds configuration for the ozfortress roster refresher
type RosterConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	MaxProbes      int           `mapstructure:"max_probes"`
	NotFoundStreak int           `mapstructure:"not_found_streak"`
	ProbeDelay     time.Duration `mapstructure:"probe_delay"`
	HTTPTimeout    time.Duration `mapstructure:"http_timeout"`
}

// SlursConfig holds configuration for the slurs.tf message API client
type SlursConfig struct {
	BaseURL       string          `mapstructure:"base_url"`
	Category      string          `mapstructure:"category"`
	BatchSize     int             `mapstructure:"batch_size"`
	PageLimit     int             `mapstructure:"page_limit"`
	PageDelay     time.Duration   `mapstructure:"page_delay"`
	RetrySchedule []time.Duration `mapstructure:"retry_schedule"`
	HTTPTimeout   time.Duration   `mapstructure:"http_timeout"`
}

// IngestConfig holds configuration for the ingestion coordinator
type IngestConfig struct {
	LookbackHours int    `mapstructure:"lookback_hours"`
	MaxIDs        int    `mapstructure:"max_ids"`
	LexiconPath   string `mapstructure:"lexicon_path"`
	AllowlistPath string `mapstructure:"allowlist_path"`
	AllowlistDrop bool   `mapstructure:"allowlist_drop"`
}

// WebhookConfig holds configuration for summary webhook delivery
type WebhookConfig struct {
	URL    string `mapstructure:"url"`
	Secret string `mapstructure:"secret"`
}

// ReportConfig holds configuration for CSV report export
type ReportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// Config holds configuration for the slurwatch binary
type Config struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig `mapstructure:"database"`
	Roster     RosterConfig   `mapstructure:"roster"`
	Slurs      SlursConfig    `mapstructure:"slurs"`
	Ingest     IngestConfig   `mapstructure:"ingest"`
	Webhook    WebhookConfig  `mapstructure:"webhook"`
	Report     ReportConfig   `mapstructure:"report"`
}

// MaxBatchSize is the hard per-request cap on steam ids accepted by the
// message API.
const MaxBatchSize = 10

// Load loads configuration for the slurwatch binary
func Load(configFile string, envPath string) (*Config, error) {
	v := configureViper("slurwatch", configFile, envPath)

	// Set defaults
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("roster.base_url", "https://ozfortress.com")
	v.SetDefault("roster.max_probes", 300)
	v.SetDefault("roster.not_found_streak", 20)
	v.SetDefault("roster.probe_delay", "200ms")
	v.SetDefault("roster.http_timeout", "30s")
	v.SetDefault("slurs.base_url", "https://slurs.tf")
	v.SetDefault("slurs.category", "total")
	v.SetDefault("slurs.batch_size", 10)
	v.SetDefault("slurs.page_limit", 100)
	// Keeps total request rate under ~300 requests per 5 minutes.
	v.SetDefault("slurs.page_delay", "1100ms")
	v.SetDefault("slurs.retry_schedule", []string{"10s", "30s", "5m", "15m"})
	v.SetDefault("slurs.http_timeout", "25s")
	v.SetDefault("ingest.lookback_hours", 25)
	v.SetDefault("ingest.lexicon_path", "config/lexicon.yaml")
	v.SetDefault("ingest.allowlist_path", "config/allowlist.yaml")
	v.SetDefault("ingest.allowlist_drop", false)
	v.SetDefault("report.output_dir", "reports")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Slurs.BatchSize > MaxBatchSize {
		config.Slurs.BatchSize = MaxBatchSize
	}

	return &config, nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("SLURWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// Roster
		"roster.base_url",
		"roster.max_probes",
		"roster.not_found_streak",
		"roster.probe_delay",
		"roster.http_timeout",
		// Slurs API
		"slurs.base_url",
		"slurs.category",
		"slurs.batch_size",
		"slurs.page_limit",
		"slurs.page_delay",
		"slurs.retry_schedule",
		"slurs.http_timeout",
		// Ingest
		"ingest.lookback_hours",
		"ingest.max_ids",
		"ingest.lexicon_path",
		"ingest.allowlist_path",
		"ingest.allowlist_drop",
		// Webhook
		"webhook.url",
		"webhook.secret",
		// Report
		"report.output_dir",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
