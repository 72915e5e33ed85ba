package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func checkLoaded(t *testing.T, cfg Config) {
	t.Helper()
	if cfg.Addr != ":9090" {
		t.Errorf("addr = %q", cfg.Addr)
	}
	if cfg.PhotoDir != "/var/lib/rigd/photos" {
		t.Errorf("photo_dir = %q", cfg.PhotoDir)
	}
	if cfg.SessionTTLMin != 90 {
		t.Errorf("session_ttl_min = %d", cfg.SessionTTLMin)
	}
	if !cfg.CORSEnabled || len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:5173" {
		t.Errorf("cors = %v %v", cfg.CORSEnabled, cfg.CORSOrigins)
	}
}

func TestLoadYAML(t *testing.T) {
	p := writeTemp(t, "rigd.yaml", `
addr: ":9090"
photo_dir: /var/lib/rigd/photos
session_ttl_min: 90
cors_enabled: true
cors_origins:
  - http://localhost:5173
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	checkLoaded(t, cfg)
}

func TestLoadJSON(t *testing.T) {
	p := writeTemp(t, "rigd.json", `{
  "addr": ":9090",
  "photo_dir": "/var/lib/rigd/photos",
  "session_ttl_min": 90,
  "cors_enabled": true,
  "cors_origins": ["http://localhost:5173"]
}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	checkLoaded(t, cfg)
}

func TestLoadTOML(t *testing.T) {
	p := writeTemp(t, "rigd.toml", `
addr = ":9090"
photo_dir = "/var/lib/rigd/photos"
session_ttl_min = 90
cors_enabled = true
cors_origins = ["http://localhost:5173"]
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	checkLoaded(t, cfg)
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatal("empty path accepted")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("missing file accepted")
	}
	p := writeTemp(t, "rigd.ini", "addr=:9090")
	if _, err := Load(p); err == nil {
		t.Fatal("unsupported extension accepted")
	}
	p = writeTemp(t, "bad.json", "{")
	if _, err := Load(p); err == nil {
		t.Fatal("malformed json accepted")
	}
}
