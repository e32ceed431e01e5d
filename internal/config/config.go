package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// SERVICE_NAME is used for env file lookup and config search paths
	SERVICE_NAME = "dish-sync"

	// ENV_PREFIX is the prefix of every environment variable read by the service
	ENV_PREFIX = "DISH_SYNC"

	STORAGE_PROVIDER_SUPABASE = "supabase"
	STORAGE_PROVIDER_S3       = "s3"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// NotionConfig holds the source document API configuration
type NotionConfig struct {
	Token             string        `mapstructure:"token"`
	DatabaseID        string        `mapstructure:"database_id"`
	BaseURL           string        `mapstructure:"base_url"`
	Version           string        `mapstructure:"version"`
	PageSize          int           `mapstructure:"page_size"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	HTTPTimeout       time.Duration `mapstructure:"http_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"` // Full connection URL; takes precedence over the discrete fields
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
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"` // Total time spent retrying the initial connection
}

// StorageConfig holds durable object storage configuration
type StorageConfig struct {
	Provider        string        `mapstructure:"provider"`
	Bucket          string        `mapstructure:"bucket"`
	MaxAssetSize    int64         `mapstructure:"max_asset_size"`
	DownloadTimeout time.Duration `mapstructure:"download_timeout"`
}

// SupabaseConfig holds Supabase Storage configuration
type SupabaseConfig struct {
	URL            string `mapstructure:"url"`
	ServiceRoleKey string `mapstructure:"service_role_key"`
}

// S3Config holds S3-compatible storage configuration
type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Region          string `mapstructure:"region"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	PublicBaseURL   string `mapstructure:"public_base_url"`
}

// PipelineConfig holds sync run and scheduling configuration
type PipelineConfig struct {
	DefaultProducerID     string        `mapstructure:"default_producer_id"`
	Interval              time.Duration `mapstructure:"interval"`
	HeartbeatInterval     time.Duration `mapstructure:"heartbeat_interval"`
	WorkerPoolSize        int           `mapstructure:"worker_pool_size"`
	UpsertChunkSize       int           `mapstructure:"upsert_chunk_size"`
	PlaceholderPriceCents int64         `mapstructure:"placeholder_price_cents"`
	RunTimeout            time.Duration `mapstructure:"run_timeout"`
}

// ServerConfig holds the operator HTTP surface configuration
type ServerConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ServiceToken string `mapstructure:"service_token"`
}

// SyncConfig holds configuration for the dish-sync service
type SyncConfig struct {
	BaseConfig `mapstructure:",squash"`
	Notion     NotionConfig   `mapstructure:"notion"`
	Database   DatabaseConfig `mapstructure:"database"`
	Storage    StorageConfig  `mapstructure:"storage"`
	Supabase   SupabaseConfig `mapstructure:"supabase"`
	S3         S3Config       `mapstructure:"s3"`
	Sync       PipelineConfig `mapstructure:"sync"`
	Server     ServerConfig   `mapstructure:"server"`
}

// LoadSyncConfig loads configuration for the dish-sync service.
// A missing config file is not an error; the environment alone is enough.
func LoadSyncConfig(configFile string, envPath string) (*SyncConfig, error) {
	v := configureViper(SERVICE_NAME, configFile, envPath)

	// Set defaults
	v.SetDefault("notion.base_url", "https://api.notion.com")
	v.SetDefault("notion.version", "2022-06-28")
	v.SetDefault("notion.page_size", 100)
	v.SetDefault("notion.requests_per_second", 3)
	v.SetDefault("notion.http_timeout", "30s")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 5)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "10m")
	v.SetDefault("database.connect_timeout", "30s")
	v.SetDefault("storage.provider", STORAGE_PROVIDER_SUPABASE)
	v.SetDefault("storage.bucket", "dishes")
	v.SetDefault("storage.max_asset_size", 10*1024*1024) // 10MB
	v.SetDefault("storage.download_timeout", "60s")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("sync.interval", "5m")
	v.SetDefault("sync.heartbeat_interval", "30s")
	v.SetDefault("sync.worker_pool_size", 8)
	v.SetDefault("sync.upsert_chunk_size", 500)
	v.SetDefault("sync.placeholder_price_cents", 2000)
	v.SetDefault("sync.run_timeout", "4m")
	v.SetDefault("server.enabled", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg SyncConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Storage.Provider = strings.ToLower(strings.TrimSpace(cfg.Storage.Provider))
	if cfg.Storage.Provider != STORAGE_PROVIDER_SUPABASE && cfg.Storage.Provider != STORAGE_PROVIDER_S3 {
		return nil, fmt.Errorf("unsupported storage.provider %q", cfg.Storage.Provider)
	}

	return &cfg, nil
}

// KeyGroup is the configuration state of one external service
type KeyGroup struct {
	Name     string
	Required bool
	Missing  []string
}

// Configured reports whether every key of the group is present
func (g KeyGroup) Configured() bool {
	return len(g.Missing) == 0
}

// KeyGroups reports the configuration state of each external service the sync depends on
func (c *SyncConfig) KeyGroups() []KeyGroup {
	notion := KeyGroup{Name: "notion", Required: true}
	if c.Notion.Token == "" {
		notion.Missing = append(notion.Missing, "notion.token")
	}
	if c.Notion.DatabaseID == "" {
		notion.Missing = append(notion.Missing, "notion.database_id")
	}

	database := KeyGroup{Name: "database", Required: true}
	if !c.Database.Configured() {
		database.Missing = append(database.Missing, "database.url")
	}

	storage := KeyGroup{Name: "storage." + c.Storage.Provider, Required: true}
	switch c.Storage.Provider {
	case STORAGE_PROVIDER_S3:
		if c.S3.Endpoint == "" {
			storage.Missing = append(storage.Missing, "s3.endpoint")
		}
		if c.S3.AccessKeyID == "" || c.S3.SecretAccessKey == "" {
			storage.Missing = append(storage.Missing, "s3.access_key_id")
		}
		if c.S3.PublicBaseURL == "" {
			storage.Missing = append(storage.Missing, "s3.public_base_url")
		}
	default:
		if c.Supabase.URL == "" {
			storage.Missing = append(storage.Missing, "supabase.url")
		}
		if c.Supabase.ServiceRoleKey == "" {
			storage.Missing = append(storage.Missing, "supabase.service_role_key")
		}
	}

	// The fallback producer is optional, but a malformed one is as good as absent
	fallback := KeyGroup{Name: "fallback_producer", Required: c.Sync.DefaultProducerID != ""}
	if c.Sync.DefaultProducerID == "" {
		fallback.Missing = []string{"sync.default_producer_id"}
	} else if _, err := uuid.Parse(c.Sync.DefaultProducerID); err != nil {
		fallback.Missing = []string{"sync.default_producer_id"}
	}

	schedule := KeyGroup{Name: "schedule", Required: true}
	if c.Sync.Interval <= 0 {
		schedule.Missing = append(schedule.Missing, "sync.interval")
	}
	if c.Sync.HeartbeatInterval <= 0 {
		schedule.Missing = append(schedule.Missing, "sync.heartbeat_interval")
	}

	return []KeyGroup{notion, database, storage, fallback, schedule}
}

// MissingKeys reports the required keys that are absent or invalid.
// An empty result means the sync can run.
func (c *SyncConfig) MissingKeys() []string {
	var missing []string
	for _, g := range c.KeyGroups() {
		if g.Required {
			missing = append(missing, g.Missing...)
		}
	}
	return missing
}

// IsComplete reports whether every required key is present
func (c *SyncConfig) IsComplete() bool {
	return len(c.MissingKeys()) == 0
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// legacyEnvAliases maps config keys to the unprefixed variable names
// that earlier deployments of the sync scripts exported
var legacyEnvAliases = map[string][]string{
	"notion.token":              {"NOTION_TOKEN"},
	"notion.database_id":        {"NOTION_DATABASE_ID"},
	"database.url":              {"DATABASE_URL"},
	"supabase.url":              {"SUPABASE_URL", "NEXT_PUBLIC_SUPABASE_URL"},
	"supabase.service_role_key": {"SUPABASE_SERVICE_ROLE_KEY", "SUPABASE_KEY"},
	"sync.default_producer_id":  {"DEFAULT_PRODUCER_ID"},
	"server.service_token":      {"SERVICE_TOKEN"},
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Notion
		"notion.token",
		"notion.database_id",
		"notion.base_url",
		"notion.version",
		"notion.page_size",
		"notion.requests_per_second",
		"notion.http_timeout",
		// Database
		"database.url",
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
		"database.connect_timeout",
		// Storage
		"storage.provider",
		"storage.bucket",
		"storage.max_asset_size",
		"storage.download_timeout",
		"supabase.url",
		"supabase.service_role_key",
		"s3.endpoint",
		"s3.access_key_id",
		"s3.secret_access_key",
		"s3.region",
		"s3.use_ssl",
		"s3.public_base_url",
		// Sync
		"sync.default_producer_id",
		"sync.interval",
		"sync.heartbeat_interval",
		"sync.worker_pool_size",
		"sync.upsert_chunk_size",
		"sync.placeholder_price_cents",
		"sync.run_timeout",
		// Server
		"server.enabled",
		"server.host",
		"server.port",
		"server.service_token",
	}

	for _, key := range keys {
		envName := ENV_PREFIX + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		names := append([]string{key, envName}, legacyEnvAliases[key]...)
		_ = v.BindEnv(names...)
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

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// Configured reports whether enough is set to open a connection
func (c *DatabaseConfig) Configured() bool {
	return c.URL != "" || (c.Host != "" && c.DBName != "")
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
