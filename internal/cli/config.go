package cli

import (
	stderrors "errors"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/platemap/pkg/errors"
	"github.com/matzehuels/platemap/pkg/pipeline"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// defaultServerAddr is where `platemap serve` listens by default.
const defaultServerAddr = "127.0.0.1:8080"

// defaultMaxWells bounds the plates `platemap serve` renders. Every well is
// drawn, so output grows with rows×columns whatever the body size.
const defaultMaxWells = 1 << 20

// Config is the optional TOML config file. Command-line flags override it.
//
//	[render]
//	formats = ["svg", "png"]
//	colorscale = "Viridis"
//	show_scale = true
//
//	[cache]
//	backend = "redis"
//	ttl = "24h"
//
//	[cache.redis]
//	addr = "localhost:6379"
//	prefix = "platemap:"
//
//	[server]
//	addr = ":8080"
//	max_wells = 100000
type Config struct {
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// RenderConfig holds default render options.
type RenderConfig struct {
	Formats    []string `toml:"formats"`
	Scale      float64  `toml:"scale"`
	MarkerSize float64  `toml:"marker_size"`
	TextSize   float64  `toml:"text_size"`
	TextColor  string   `toml:"text_color"`
	Colorscale string   `toml:"colorscale"`
	ShowScale  bool     `toml:"show_scale"`
	Zoom       float64  `toml:"zoom"`
}

// CacheConfig selects and configures the artifact cache.
type CacheConfig struct {
	Backend string        `toml:"backend"` // file, redis or none
	Dir     string        `toml:"dir"`
	TTL     time.Duration `toml:"ttl"`
	Redis   RedisConfig   `toml:"redis"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// ServerConfig configures `platemap serve`.
type ServerConfig struct {
	Addr     string `toml:"addr"`
	MaxWells int    `toml:"max_wells"` // 0 disables the limit
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			Scale:     pipeline.DefaultScale,
			TextColor: pipeline.DefaultTextColor,
			Zoom:      pipeline.DefaultZoom,
		},
		Cache: CacheConfig{
			Backend: CacheFile,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: appName + ":",
			},
		},
		Server: ServerConfig{Addr: defaultServerAddr, MaxWells: defaultMaxWells},
	}
}

// LoadConfig reads the config file at path over the defaults. An empty path
// reads the default location, where a missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if !explicit && stderrors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "config %s", path)
	}
	return cfg, nil
}

// Validate checks the values that flags cannot fix later.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput,
			"unknown cache backend %q (must be 'file', 'redis' or 'none')", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache ttl must not be negative")
	}
	if c.Server.MaxWells < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server max_wells must not be negative")
	}
	if err := pipeline.ValidateFormats(c.Render.Formats); err != nil {
		return err
	}
	return nil
}

// renderOptions converts the [render] table into pipeline options.
func (r RenderConfig) renderOptions() pipeline.Options {
	return pipeline.Options{
		Formats:    append([]string(nil), r.Formats...),
		Scale:      r.Scale,
		MarkerSize: r.MarkerSize,
		TextSize:   r.TextSize,
		TextColor:  r.TextColor,
		Colorscale: r.Colorscale,
		ShowScale:  r.ShowScale,
		Zoom:       r.Zoom,
	}
}
