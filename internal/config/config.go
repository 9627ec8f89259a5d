package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Manifest ManifestConfig `mapstructure:"manifest"`
	Bus      BusConfig      `mapstructure:"bus"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host                    string        `mapstructure:"host"`
	Port                    int           `mapstructure:"port"`
	Mode                    string        `mapstructure:"mode"`
	ReadTimeout             time.Duration `mapstructure:"read_timeout"`
	WriteTimeout            time.Duration `mapstructure:"write_timeout"`
	GracefulShutdownTimeout time.Duration `mapstructure:"graceful_shutdown_timeout"`
}

type UpstreamConfig struct {
	// Origin is the base URL of the application backend (static files +
	// JSON API) that intercepted requests are forwarded to.
	Origin string `mapstructure:"origin"`
	// PublicOrigin is the origin the application is served under; it
	// qualifies cache keys and drives the same-origin check. Falls back
	// to Origin when empty.
	PublicOrigin string `mapstructure:"public_origin"`
	// Timeout bounds a single upstream attempt. Zero means no timeout:
	// a hung connection delays the offline fallback rather than
	// triggering it.
	Timeout time.Duration `mapstructure:"timeout"`
}

type CacheConfig struct {
	Backend string `mapstructure:"backend"` // "redis" | "memory"
	// Version names the store for this deployment. Bumping it is the
	// only supported way to invalidate cached entries en masse.
	Version   string `mapstructure:"version"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type ManifestConfig struct {
	// Assets is the ordered list of absolute paths pre-populated at
	// install time. Every path must fetch successfully or install fails.
	Assets       []string `mapstructure:"assets"`
	StaticPrefix string   `mapstructure:"static_prefix"`
}

type BusConfig struct {
	Backend string `mapstructure:"backend"` // "redis" | "memory"
	Channel string `mapstructure:"channel"`
	Buffer  int    `mapstructure:"buffer"`
}

type CORSConfig struct {
	AllowedOrigins   []string      `mapstructure:"allowed_origins"`
	AllowedMethods   []string      `mapstructure:"allowed_methods"`
	AllowedHeaders   []string      `mapstructure:"allowed_headers"`
	AllowCredentials bool          `mapstructure:"allow_credentials"`
	MaxAge           time.Duration `mapstructure:"max_age"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads config.yaml, overlays environment variables, and returns Config.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Environment variable override: UPSTREAM_ORIGIN -> upstream.origin
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.key_prefix", "offcache")
	v.SetDefault("bus.backend", "memory")
	v.SetDefault("bus.channel", "offlinegate:events")
	v.SetDefault("bus.buffer", 8)
	v.SetDefault("manifest.static_prefix", "/static/")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields main cannot recover from.
func (c *Config) Validate() error {
	if c.Upstream.Origin == "" {
		return fmt.Errorf("upstream.origin is required")
	}
	if _, err := url.Parse(c.Upstream.Origin); err != nil {
		return fmt.Errorf("upstream.origin: %w", err)
	}
	if c.Cache.Version == "" {
		return fmt.Errorf("cache.version is required")
	}
	if strings.Contains(c.Cache.Version, ":") {
		return fmt.Errorf("cache.version must not contain ':'")
	}
	switch c.Cache.Backend {
	case "redis", "memory":
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	switch c.Bus.Backend {
	case "redis", "memory":
	default:
		return fmt.Errorf("unknown bus backend %q", c.Bus.Backend)
	}
	return nil
}
