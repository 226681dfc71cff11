// Package config loads hrcore settings from defaults, an optional YAML file
// and HRCORE_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers for the row store.
const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageBlob     = "blob"
	StorageDynamoDB = "dynamodb"
	StorageSheets   = "sheets"
)

// Blob drivers.
const (
	BlobFilesystem = "fs"
	BlobS3         = "s3"
	BlobMemory     = "memory"
)

// Metrics drivers.
const (
	MetricsPrometheus = "prometheus"
	MetricsExpvar     = "expvar"
	MetricsNone       = "none"
)

// Config is the complete runtime configuration.
type Config struct {
	Storage Storage `yaml:"storage"`
	Blob    Blob    `yaml:"blob"`
	Tables  Tables  `yaml:"tables"`
	Roster  Roster  `yaml:"roster"`
	Log     Log     `yaml:"log"`
	Metrics Metrics `yaml:"metrics"`
	OpenAI  OpenAI  `yaml:"openai"`
	HTTP    HTTP    `yaml:"http"`
}

// Storage selects and configures the row store.
type Storage struct {
	Driver      string   `yaml:"driver"`
	SQLitePath  string   `yaml:"sqlite_path"`
	PostgresDSN string   `yaml:"postgres_dsn"`
	BlobPrefix  string   `yaml:"blob_prefix"`
	DynamoDB    DynamoDB `yaml:"dynamodb"`
	Sheets      Sheets   `yaml:"sheets"`
}

// DynamoDB configures the dynamodb row store.
type DynamoDB struct {
	Table    string `yaml:"table"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
}

// Sheets configures the Google Sheets row store.
type Sheets struct {
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	CredentialsFile string `yaml:"credentials_file"`
	Endpoint        string `yaml:"endpoint"`
}

// Blob selects and configures the object store used by the blob row store.
type Blob struct {
	Driver string `yaml:"driver"`
	FSRoot string `yaml:"fs_root"`
	S3     S3     `yaml:"s3"`
}

// S3 configures the S3 blob driver. Credentials fall back to the default
// AWS chain when unset.
type S3 struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PathStyle       bool   `yaml:"path_style"`
}

// Tables names the logical tables in the row store.
type Tables struct {
	Roster string `yaml:"roster"`
	Memo   string `yaml:"memo"`
}

// Roster overrides header aliases per field (id, display_name, title,
// department, manager).
type Roster struct {
	Columns map[string][]string `yaml:"columns"`
}

// Log configures the zap logger.
type Log struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Metrics selects the metrics backend.
type Metrics struct {
	Driver string `yaml:"driver"`
}

// OpenAI configures the text generator. Instructions maps a kind to its
// system prompt.
type OpenAI struct {
	APIKey       string            `yaml:"api_key"`
	BaseURL      string            `yaml:"base_url"`
	Model        string            `yaml:"model"`
	MaxTokens    int               `yaml:"max_tokens"`
	Timeout      time.Duration     `yaml:"timeout"`
	Instructions map[string]string `yaml:"instructions"`
}

// HTTP configures the API server.
type HTTP struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Storage: Storage{
			Driver:     StorageSQLite,
			SQLitePath: "hrcore.db",
			BlobPrefix: "tables/",
		},
		Blob: Blob{
			Driver: BlobFilesystem,
			FSRoot: "./blobdata",
			S3:     S3{Region: "us-east-1"},
		},
		Tables: Tables{Roster: "ROSTER", Memo: "MEMO"},
		Log:    Log{Level: "info"},
		Metrics: Metrics{
			Driver: MetricsPrometheus,
		},
		OpenAI: OpenAI{
			Model:     "gpt-4o-mini",
			MaxTokens: 2048,
			Timeout:   2 * time.Minute,
		},
		HTTP: HTTP{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    3 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// Load reads path (when non-empty) over the defaults and then applies
// environment overrides from the process environment.
func Load(path string) (Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an explicit environment lookup.
func LoadWithEnv(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown drivers and missing driver settings.
func (c Config) Validate() error {
	var errs []error
	switch c.Storage.Driver {
	case StorageMemory, StorageBlob:
	case StorageSQLite:
		if c.Storage.SQLitePath == "" {
			errs = append(errs, errors.New("storage.sqlite_path is required for the sqlite driver"))
		}
	case StoragePostgres:
		if c.Storage.PostgresDSN == "" {
			errs = append(errs, errors.New("storage.postgres_dsn is required for the postgres driver"))
		}
	case StorageDynamoDB:
		if c.Storage.DynamoDB.Table == "" {
			errs = append(errs, errors.New("storage.dynamodb.table is required for the dynamodb driver"))
		}
	case StorageSheets:
		if c.Storage.Sheets.SpreadsheetID == "" {
			errs = append(errs, errors.New("storage.sheets.spreadsheet_id is required for the sheets driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}

	switch c.Blob.Driver {
	case BlobFilesystem, BlobMemory:
	case BlobS3:
		if c.Blob.S3.Bucket == "" {
			errs = append(errs, errors.New("blob.s3.bucket is required for the s3 driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown blob driver %q", c.Blob.Driver))
	}

	switch c.Metrics.Driver {
	case MetricsPrometheus, MetricsExpvar, MetricsNone:
	default:
		errs = append(errs, fmt.Errorf("unknown metrics driver %q", c.Metrics.Driver))
	}

	if strings.TrimSpace(c.Tables.Roster) == "" || strings.TrimSpace(c.Tables.Memo) == "" {
		errs = append(errs, errors.New("tables.roster and tables.memo must be set"))
	}
	if c.Tables.Roster == c.Tables.Memo {
		errs = append(errs, errors.New("tables.roster and tables.memo must differ"))
	}
	return errors.Join(errs...)
}
