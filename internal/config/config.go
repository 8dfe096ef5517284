package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	Model     ModelConfig
	Storage   StorageConfig
	Registry  RegistryConfig
	Database  DatabaseConfig
	Collector CollectorConfig
	Package   PackageConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type LoggerConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type ModelConfig struct {
	// Source is one of local, registry, blob.
	Source     string
	Name       string
	LocalPath  string
	LocalDir   string
	InputKey   string
	SchemaPath string
}

type StorageConfig struct {
	AccountName string
	AccountKey  string
	// ServiceURL overrides https://<account>.blob.core.windows.net/, e.g. for Azurite.
	ServiceURL string
	Container  string
	ModelBlob  string
	SchemaBlob string
}

// Configured reports whether blob coordinates were supplied.
func (s StorageConfig) Configured() bool {
	return s.AccountName != "" && s.AccountKey != ""
}

type RegistryConfig struct {
	// Kind is postgres or http.
	Kind      string
	URL       string
	ProjectID string
	Timeout   time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type CollectorConfig struct {
	// Kind is none, log or sqlite.
	Kind string
	Path string
}

type PackageConfig struct {
	Dir         string
	ServiceName string
	Runtime     string
	ScoreFile   string
	ConfigFile  string
	Namespace   string
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")
	v.SetDefault("LOGGER_FILE", "")
	v.SetDefault("LOGGER_MAX_SIZE_MB", 100)
	v.SetDefault("LOGGER_MAX_BACKUPS", 3)
	v.SetDefault("LOGGER_MAX_AGE_DAYS", 28)
	v.SetDefault("MODEL_SOURCE", "blob")
	v.SetDefault("MODEL_NAME", "factorymodel")
	v.SetDefault("MODEL_LOCAL_PATH", "./factorymodel.model")
	v.SetDefault("MODEL_LOCAL_DIR", "modelfile")
	v.SetDefault("MODEL_INPUT_KEY", "input_df")
	v.SetDefault("MODEL_SCHEMA_PATH", "")
	v.SetDefault("STORAGE_ACCOUNT_NAME", "")
	v.SetDefault("STORAGE_ACCOUNT_KEY", "")
	v.SetDefault("STORAGE_SERVICE_URL", "")
	v.SetDefault("STORAGE_CONTAINER_NAME", "readydemo")
	v.SetDefault("STORAGE_MODEL_BLOB", "factory.model")
	v.SetDefault("STORAGE_SCHEMA_BLOB", "factory.schema")
	v.SetDefault("REGISTRY_KIND", "postgres")
	v.SetDefault("REGISTRY_URL", "http://localhost:8080")
	v.SetDefault("REGISTRY_PROJECT_ID", "")
	v.SetDefault("REGISTRY_TIMEOUT", "30s")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "model_registry")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("COLLECTOR_KIND", "none")
	v.SetDefault("COLLECTOR_PATH", "collected.db")
	v.SetDefault("PACKAGE_DIR", "deploypackage")
	v.SetDefault("PACKAGE_SERVICE_NAME", "[your service name]")
	v.SetDefault("PACKAGE_RUNTIME", "spark-py")
	v.SetDefault("PACKAGE_SCORE_FILE", "")
	v.SetDefault("PACKAGE_CONFIG_FILE", "")
	v.SetDefault("PACKAGE_NAMESPACE", "model-serving")

	// Env
	v.AutomaticEnv()

	registryTimeout, err := time.ParseDuration(v.GetString("REGISTRY_TIMEOUT"))
	if err != nil {
		registryTimeout = 30 * time.Second
	}
	connLifetime, err := time.ParseDuration(v.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		connLifetime = 30 * time.Minute
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Logger: LoggerConfig{
			Level:      v.GetString("LOGGER_LEVEL"),
			Format:     v.GetString("LOGGER_FORMAT"),
			File:       v.GetString("LOGGER_FILE"),
			MaxSizeMB:  v.GetInt("LOGGER_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOGGER_MAX_BACKUPS"),
			MaxAgeDays: v.GetInt("LOGGER_MAX_AGE_DAYS"),
		},
		Model: ModelConfig{
			Source:     v.GetString("MODEL_SOURCE"),
			Name:       v.GetString("MODEL_NAME"),
			LocalPath:  v.GetString("MODEL_LOCAL_PATH"),
			LocalDir:   v.GetString("MODEL_LOCAL_DIR"),
			InputKey:   v.GetString("MODEL_INPUT_KEY"),
			SchemaPath: v.GetString("MODEL_SCHEMA_PATH"),
		},
		Storage: StorageConfig{
			AccountName: v.GetString("STORAGE_ACCOUNT_NAME"),
			AccountKey:  v.GetString("STORAGE_ACCOUNT_KEY"),
			ServiceURL:  v.GetString("STORAGE_SERVICE_URL"),
			Container:   v.GetString("STORAGE_CONTAINER_NAME"),
			ModelBlob:   v.GetString("STORAGE_MODEL_BLOB"),
			SchemaBlob:  v.GetString("STORAGE_SCHEMA_BLOB"),
		},
		Registry: RegistryConfig{
			Kind:      v.GetString("REGISTRY_KIND"),
			URL:       v.GetString("REGISTRY_URL"),
			ProjectID: v.GetString("REGISTRY_PROJECT_ID"),
			Timeout:   registryTimeout,
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connLifetime,
		},
		Collector: CollectorConfig{
			Kind: v.GetString("COLLECTOR_KIND"),
			Path: v.GetString("COLLECTOR_PATH"),
		},
		Package: PackageConfig{
			Dir:         v.GetString("PACKAGE_DIR"),
			ServiceName: v.GetString("PACKAGE_SERVICE_NAME"),
			Runtime:     v.GetString("PACKAGE_RUNTIME"),
			ScoreFile:   v.GetString("PACKAGE_SCORE_FILE"),
			ConfigFile:  v.GetString("PACKAGE_CONFIG_FILE"),
			Namespace:   v.GetString("PACKAGE_NAMESPACE"),
		},
	}

	return cfg, nil
}
