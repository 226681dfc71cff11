package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("expected defaults to validate: %v", err)
	}
}

func TestLoadLayersFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hrcore.yaml")
	doc := `
storage:
  driver: postgres
  postgres_dsn: postgres://file/db
tables:
  roster: STAFF
roster:
  columns:
    display_name: ["worker"]
openai:
  instructions:
    ROLE_PROFILE: "describe the role"
  timeout: 30s
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadWithEnv(path, envMap(map[string]string{
		"HRCORE_POSTGRES_DSN": "postgres://env/db",
		"HRCORE_LOG_LEVEL":    "debug",
		"HRCORE_HTTP_ADDR":    "",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != StoragePostgres || cfg.Storage.PostgresDSN != "postgres://env/db" {
		t.Fatalf("expected env to override file, got %+v", cfg.Storage)
	}
	if cfg.Tables.Roster != "STAFF" || cfg.Tables.Memo != "MEMO" {
		t.Fatalf("expected file to merge with defaults, got %+v", cfg.Tables)
	}
	if cfg.Log.Level != "debug" || cfg.HTTP.Addr != ":8080" {
		t.Fatalf("unexpected log/http config: %+v %+v", cfg.Log, cfg.HTTP)
	}
	if cfg.OpenAI.Timeout != 30*time.Second || cfg.OpenAI.Instructions["ROLE_PROFILE"] == "" {
		t.Fatalf("unexpected openai config: %+v", cfg.OpenAI)
	}
	if got := cfg.Roster.Columns["display_name"]; len(got) != 1 || got[0] != "worker" {
		t.Fatalf("unexpected roster columns: %v", cfg.Roster.Columns)
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	if _, err := LoadWithEnv(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Fatalf("expected missing file to fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	_ = os.WriteFile(path, []byte("storage: [unterminated"), 0o600)
	if _, err := LoadWithEnv(path, nil); err == nil {
		t.Fatalf("expected malformed yaml to fail")
	}

	_, err := LoadWithEnv("", envMap(map[string]string{"HRCORE_BLOB_S3_PATH_STYLE": "maybe"}))
	if err == nil || !strings.Contains(err.Error(), "HRCORE_BLOB_S3_PATH_STYLE") {
		t.Fatalf("expected env parse error naming the variable, got %v", err)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Storage.Driver = "excel"
	cfg.Blob.Driver = BlobS3
	cfg.Metrics.Driver = "statsd"
	cfg.Tables.Memo = cfg.Tables.Roster
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation failure")
	}
	for _, want := range []string{"storage driver", "blob.s3.bucket", "metrics driver", "must differ"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %v", want, err)
		}
	}
}

func TestValidateDriverRequirements(t *testing.T) {
	cases := map[string]func(*Config){
		"postgres": func(c *Config) { c.Storage.Driver = StoragePostgres },
		"dynamodb": func(c *Config) { c.Storage.Driver = StorageDynamoDB },
		"sheets":   func(c *Config) { c.Storage.Driver = StorageSheets },
		"sqlite":   func(c *Config) { c.Storage.SQLitePath = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected %s config without settings to fail", name)
			}
		})
	}
}
