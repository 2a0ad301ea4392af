package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Ephemeris provider names.
const (
	ProviderBuiltin = "builtin"
	ProviderRemote  = "remote"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Ephemeris EphemerisConfig `yaml:"ephemeris"`
	Chart     ChartConfig     `yaml:"chart"`
	Profiles  ProfilesConfig  `yaml:"profiles"`
	Stats     StatsConfig     `yaml:"stats"`
	Auth      AuthConfig      `yaml:"auth"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// EphemerisConfig selects and tunes the ephemeris provider.
type EphemerisConfig struct {
	Provider      string        `yaml:"provider"`
	DataPath      string        `yaml:"dataPath"`
	RemoteBaseURL string        `yaml:"remoteBaseUrl"`
	Timeout       time.Duration `yaml:"timeout"`
	Serialize     bool          `yaml:"serialize"`
}

// ChartConfig holds chart defaults and the optional rule file.
type ChartConfig struct {
	DefaultAyanamsa    string `yaml:"defaultAyanamsa"`
	DefaultHouseSystem string `yaml:"defaultHouseSystem"`
	RulesPath          string `yaml:"rulesPath"`
}

// ProfilesConfig controls birth profile storage.
type ProfilesConfig struct {
	Postgres PostgresConfig `yaml:"postgres"`
}

// StatsConfig controls rule hit counters.
type StatsConfig struct {
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig contains connection information for counter storage.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// AuthConfig enables bearer tokens on profile routes when Secret is set.
type AuthConfig struct {
	Secret   string        `yaml:"secret"`
	TokenTTL time.Duration `yaml:"tokenTtl"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("EPHEMERIS_PROVIDER"); v != "" {
		cfg.Ephemeris.Provider = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("EPH_PATH"); v != "" {
		cfg.Ephemeris.DataPath = v
	}
	if v := os.Getenv("EPHEMERIS_REMOTE_BASE_URL"); v != "" {
		cfg.Ephemeris.RemoteBaseURL = v
	}
	if v := os.Getenv("EPHEMERIS_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Ephemeris.Timeout = parsed
		}
	}
	if v := os.Getenv("EPHEMERIS_SERIALIZE"); v != "" {
		cfg.Ephemeris.Serialize = parseBool(v)
	}
	if v := os.Getenv("CHART_DEFAULT_AYANAMSA"); v != "" {
		cfg.Chart.DefaultAyanamsa = v
	}
	if v := os.Getenv("CHART_DEFAULT_HOUSE_SYSTEM"); v != "" {
		cfg.Chart.DefaultHouseSystem = v
	}
	if v := os.Getenv("CHART_RULES_PATH"); v != "" {
		cfg.Chart.RulesPath = v
	}
	if v := os.Getenv("PROFILES_POSTGRES_DSN"); v != "" {
		cfg.Profiles.Postgres.DSN = v
	}
	if v := os.Getenv("PROFILES_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Profiles.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("PROFILES_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Profiles.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("STATS_REDIS_ENABLED"); v != "" {
		cfg.Stats.Redis.Enabled = parseBool(v)
	}
	if v := os.Getenv("STATS_REDIS_ADDR"); v != "" {
		cfg.Stats.Redis.Addr = v
	}
	if v := os.Getenv("STATS_REDIS_PREFIX"); v != "" {
		cfg.Stats.Redis.Prefix = v
	}
	if v := os.Getenv("AUTH_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("AUTH_TOKEN_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Auth.TokenTTL = parsed
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			AllowedOrigins: []string{"*"},
		},
		Ephemeris: EphemerisConfig{
			Provider: ProviderBuiltin,
			Timeout:  10 * time.Second,
		},
		Chart: ChartConfig{
			DefaultAyanamsa:    "Lahiri",
			DefaultHouseSystem: "WholeSign",
		},
		Profiles: ProfilesConfig{
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
		},
		Stats: StatsConfig{
			Redis: RedisConfig{
				Prefix: "natal",
			},
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	switch c.Ephemeris.Provider {
	case ProviderBuiltin:
	case ProviderRemote:
		if strings.TrimSpace(c.Ephemeris.RemoteBaseURL) == "" {
			return errors.New("ephemeris.remoteBaseUrl cannot be empty when provider is remote")
		}
	default:
		return fmt.Errorf("ephemeris.provider must be %q or %q, got %q", ProviderBuiltin, ProviderRemote, c.Ephemeris.Provider)
	}
	if c.Ephemeris.Timeout < 0 {
		return errors.New("ephemeris.timeout cannot be negative")
	}
	if strings.TrimSpace(c.Chart.DefaultAyanamsa) == "" {
		return errors.New("chart.defaultAyanamsa cannot be empty")
	}
	if strings.TrimSpace(c.Chart.DefaultHouseSystem) == "" {
		return errors.New("chart.defaultHouseSystem cannot be empty")
	}
	if c.Profiles.Postgres.MaxConns < 0 || c.Profiles.Postgres.MinConns < 0 {
		return errors.New("profiles.postgres connection limits cannot be negative")
	}
	if c.Profiles.Postgres.MaxConns > 0 && c.Profiles.Postgres.MinConns > c.Profiles.Postgres.MaxConns {
		return errors.New("profiles.postgres.minConns cannot exceed maxConns")
	}
	if c.Stats.Redis.Enabled && strings.TrimSpace(c.Stats.Redis.Addr) == "" {
		return errors.New("stats.redis.addr cannot be empty when redis stats are enabled")
	}
	if c.Auth.Secret != "" && len(c.Auth.Secret) < 16 {
		return errors.New("auth.secret must be at least 16 bytes when set")
	}
	if c.Auth.TokenTTL < 0 {
		return errors.New("auth.tokenTtl cannot be negative")
	}
	return nil
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
