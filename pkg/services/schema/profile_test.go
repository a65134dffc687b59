package schema

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProfile_ValidYAML_PopulatesAllFields(t *testing.T) {
	// Given
	dir := t.TempDir()
	path := filepath.Join(dir, "pg.yaml")
	content := `host: "db.internal"
port: 6543
user: "report"
password: "secret"
database: "sales"
schema: "analytics"
sslmode: "require"`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test profile: %v", err)
	}

	// When
	p, err := LoadProfile(path)

	// Then
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if p.Host != "db.internal" || p.Port != 6543 {
		t.Errorf("expected db.internal:6543, got %s:%d", p.Host, p.Port)
	}
	if p.User != "report" || p.Password != "secret" {
		t.Errorf("unexpected credentials %s/%s", p.User, p.Password)
	}
	if p.Database != "sales" || p.Schema != "analytics" {
		t.Errorf("expected sales.analytics, got %s.%s", p.Database, p.Schema)
	}
	if p.SSLMode != "require" {
		t.Errorf("expected SSLMode=require, got %s", p.SSLMode)
	}
}

func TestLoadDatabricksProfile_ValidYAML(t *testing.T) {
	// Given
	dir := t.TempDir()
	path := filepath.Join(dir, "dbx.yaml")
	content := `host: "example.com:443"
token: "tok"
http_path: "/sql/1.0/warehouses/wh"
catalog: "main"
schema: "default"`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test profile: %v", err)
	}

	// When
	cfg, err := LoadDatabricksProfile(path)

	// Then
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTPPath != "/sql/1.0/warehouses/wh" {
		t.Errorf("expected HTTPPath=/sql/1.0/warehouses/wh, got %s", cfg.HTTPPath)
	}
	if cfg.Catalog != "main" {
		t.Errorf("expected Catalog=main, got %s", cfg.Catalog)
	}
}

func TestLoadProfile_MissingFile_ReturnsError(t *testing.T) {
	// When
	_, err := LoadProfile(filepath.Join(t.TempDir(), "missing.yaml"))

	// Then
	if err == nil {
		t.Error("expected error for missing profile, got nil")
	}
}

func TestLoadSnowflakeConfig_InvalidYAML_ReturnsError(t *testing.T) {
	// Given
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("account: a: b: c"), 0o644); err != nil {
		t.Fatalf("failed to write bad profile: %v", err)
	}

	// When
	_, err := LoadSnowflakeConfig(path)

	// Then
	if err == nil {
		t.Error("expected error for invalid YAML, got nil")
	}
}
