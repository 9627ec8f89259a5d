package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
upstream:
  origin: http://localhost:8000
cache:
  version: v1
`

func TestLoad_MinimalWithDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("cache backend default = %q", cfg.Cache.Backend)
	}
	if cfg.Cache.KeyPrefix != "offcache" {
		t.Errorf("key prefix default = %q", cfg.Cache.KeyPrefix)
	}
	if cfg.Bus.Backend != "memory" || cfg.Bus.Buffer != 8 {
		t.Errorf("bus defaults = %q/%d", cfg.Bus.Backend, cfg.Bus.Buffer)
	}
	if cfg.Manifest.StaticPrefix != "/static/" {
		t.Errorf("static prefix default = %q", cfg.Manifest.StaticPrefix)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
server:
  host: 127.0.0.1
  port: 9090
  read_timeout: 30s
upstream:
  origin: http://backend:8000
  public_origin: https://app.example.com
  timeout: 5s
cache:
  backend: redis
  version: deploy-42
redis:
  host: redis
  port: 6379
manifest:
  assets:
    - /
    - /static/app.js
bus:
  backend: redis
  channel: app:events
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Upstream.PublicOrigin != "https://app.example.com" {
		t.Errorf("public origin = %q", cfg.Upstream.PublicOrigin)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.Version != "deploy-42" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if len(cfg.Manifest.Assets) != 2 {
		t.Errorf("assets = %v", cfg.Manifest.Assets)
	}
	if cfg.Bus.Channel != "app:events" {
		t.Errorf("bus channel = %q", cfg.Bus.Channel)
	}
}

func TestLoad_MissingUpstreamOrigin(t *testing.T) {
	if _, err := Load(writeConfig(t, "cache:\n  version: v1\n")); err == nil {
		t.Fatal("expected error for missing upstream.origin")
	}
}

func TestLoad_MissingCacheVersion(t *testing.T) {
	if _, err := Load(writeConfig(t, "upstream:\n  origin: http://x\n")); err == nil {
		t.Fatal("expected error for missing cache.version")
	}
}

func TestValidate_RejectsColonInVersion(t *testing.T) {
	cfg := &Config{}
	cfg.Upstream.Origin = "http://x"
	cfg.Cache.Version = "v:1"
	cfg.Cache.Backend = "memory"
	cfg.Bus.Backend = "memory"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for ':' in version")
	}
}

func TestValidate_RejectsUnknownBackend(t *testing.T) {
	cfg := &Config{}
	cfg.Upstream.Origin = "http://x"
	cfg.Cache.Version = "v1"
	cfg.Cache.Backend = "dynamo"
	cfg.Bus.Backend = "memory"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
