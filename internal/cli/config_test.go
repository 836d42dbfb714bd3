package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/platemap/pkg/errors"
	"github.com/matzehuels/platemap/pkg/pipeline"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Cache.Backend != CacheFile {
		t.Errorf("Backend = %q", cfg.Cache.Backend)
	}
	if cfg.Server.Addr != defaultServerAddr || cfg.Server.MaxWells != defaultMaxWells {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Render.Scale != pipeline.DefaultScale {
		t.Errorf("Render.Scale = %v", cfg.Render.Scale)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	confDir := filepath.Join(dir, "platemap")
	if err := os.MkdirAll(confDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, confDir, configFile, `
[render]
formats = ["svg", "json"]
colorscale = "Viridis"
show_scale = true

[cache]
backend = "redis"
ttl = "24h"

[cache.redis]
addr = "redis:6379"
db = 2

[server]
max_wells = 1536
`)

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got := cfg.Render.Formats; len(got) != 2 || got[1] != "json" {
		t.Errorf("Formats = %v", got)
	}
	if !cfg.Render.ShowScale || cfg.Render.Colorscale != "Viridis" {
		t.Errorf("Render = %+v", cfg.Render)
	}
	if cfg.Render.TextColor != pipeline.DefaultTextColor {
		t.Error("unset keys should keep their defaults")
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.TTL != 24*time.Hour {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Cache.Redis.Addr != "redis:6379" || cfg.Cache.Redis.DB != 2 || cfg.Cache.Redis.Prefix != "platemap:" {
		t.Errorf("Redis = %+v", cfg.Cache.Redis)
	}
	if cfg.Server.MaxWells != 1536 || cfg.Server.Addr != defaultServerAddr {
		t.Errorf("Server = %+v", cfg.Server)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"unknown key", "[render]\ncolour = \"red\"\n", errors.ErrCodeInvalidInput},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", errors.ErrCodeInvalidInput},
		{"bad format", "[render]\nformats = [\"gif\"]\n", errors.ErrCodeInvalidFormat},
		{"negative ttl", "[cache]\nttl = \"-1h\"\n", errors.ErrCodeInvalidInput},
		{"syntax", "[render\n", errors.ErrCodeInvalidInput},
		{"negative max_wells", "[server]\nmax_wells = -1\n", errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, "config.toml", tt.content)
			_, err := LoadConfig(path)
			if !errors.Is(err, tt.code) {
				t.Errorf("LoadConfig error = %v, want %s", err, tt.code)
			}
		})
	}

	_, err := LoadConfig(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("explicit missing config error = %v", err)
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config.Render.Scale = 3
	c.Config.Render.Colorscale = "Reds"

	cmd := c.renderCommand()
	if err := cmd.ParseFlags([]string{"--scale", "2"}); err != nil {
		t.Fatal(err)
	}
	got := c.mergeRenderOptions(cmd, pipeline.Options{Scale: 2})
	if got.Scale != 2 {
		t.Errorf("Scale = %v, flag should win", got.Scale)
	}
	if got.Colorscale != "Reds" {
		t.Errorf("Colorscale = %q, config should apply when the flag is unset", got.Colorscale)
	}
}
