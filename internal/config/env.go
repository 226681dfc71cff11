package config

import (
	"fmt"
	"strconv"
	"time"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "HRCORE_"

type envBinding struct {
	name string
	set  func(c *Config, v string) error
}

func str(target func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*target(c) = v
		return nil
	}
}

func boolean(target func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*target(c) = b
		return nil
	}
}

func integer(target func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*target(c) = n
		return nil
	}
}

func duration(target func(*Config) *time.Duration) func(*Config, string) error {
	return func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*target(c) = d
		return nil
	}
}

var envBindings = []envBinding{
	{"STORAGE_DRIVER", str(func(c *Config) *string { return &c.Storage.Driver })},
	{"SQLITE_PATH", str(func(c *Config) *string { return &c.Storage.SQLitePath })},
	{"POSTGRES_DSN", str(func(c *Config) *string { return &c.Storage.PostgresDSN })},
	{"BLOB_TABLE_PREFIX", str(func(c *Config) *string { return &c.Storage.BlobPrefix })},
	{"DYNAMODB_TABLE", str(func(c *Config) *string { return &c.Storage.DynamoDB.Table })},
	{"DYNAMODB_REGION", str(func(c *Config) *string { return &c.Storage.DynamoDB.Region })},
	{"DYNAMODB_ENDPOINT", str(func(c *Config) *string { return &c.Storage.DynamoDB.Endpoint })},
	{"SHEETS_SPREADSHEET_ID", str(func(c *Config) *string { return &c.Storage.Sheets.SpreadsheetID })},
	{"SHEETS_CREDENTIALS_FILE", str(func(c *Config) *string { return &c.Storage.Sheets.CredentialsFile })},
	{"SHEETS_ENDPOINT", str(func(c *Config) *string { return &c.Storage.Sheets.Endpoint })},
	{"BLOB_DRIVER", str(func(c *Config) *string { return &c.Blob.Driver })},
	{"BLOB_FS_ROOT", str(func(c *Config) *string { return &c.Blob.FSRoot })},
	{"BLOB_S3_BUCKET", str(func(c *Config) *string { return &c.Blob.S3.Bucket })},
	{"BLOB_S3_REGION", str(func(c *Config) *string { return &c.Blob.S3.Region })},
	{"BLOB_S3_ENDPOINT", str(func(c *Config) *string { return &c.Blob.S3.Endpoint })},
	{"BLOB_S3_PATH_STYLE", boolean(func(c *Config) *bool { return &c.Blob.S3.PathStyle })},
	{"ROSTER_TABLE", str(func(c *Config) *string { return &c.Tables.Roster })},
	{"MEMO_TABLE", str(func(c *Config) *string { return &c.Tables.Memo })},
	{"LOG_LEVEL", str(func(c *Config) *string { return &c.Log.Level })},
	{"LOG_DEVELOPMENT", boolean(func(c *Config) *bool { return &c.Log.Development })},
	{"METRICS_DRIVER", str(func(c *Config) *string { return &c.Metrics.Driver })},
	{"OPENAI_API_KEY", str(func(c *Config) *string { return &c.OpenAI.APIKey })},
	{"OPENAI_BASE_URL", str(func(c *Config) *string { return &c.OpenAI.BaseURL })},
	{"OPENAI_MODEL", str(func(c *Config) *string { return &c.OpenAI.Model })},
	{"OPENAI_MAX_TOKENS", integer(func(c *Config) *int { return &c.OpenAI.MaxTokens })},
	{"OPENAI_TIMEOUT", duration(func(c *Config) *time.Duration { return &c.OpenAI.Timeout })},
	{"HTTP_ADDR", str(func(c *Config) *string { return &c.HTTP.Addr })},
	{"HTTP_SHUTDOWN_TIMEOUT", duration(func(c *Config) *time.Duration { return &c.HTTP.ShutdownTimeout })},
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if lookup == nil {
		return nil
	}
	for _, b := range envBindings {
		v, ok := lookup(EnvPrefix + b.name)
		if !ok || v == "" {
			continue
		}
		if err := b.set(cfg, v); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, b.name, err)
		}
	}
	return nil
}
