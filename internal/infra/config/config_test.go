package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTP.Address)
	require.Equal(t, ProviderBuiltin, cfg.Ephemeris.Provider)
	require.Equal(t, "Lahiri", cfg.Chart.DefaultAyanamsa)
	require.Equal(t, "WholeSign", cfg.Chart.DefaultHouseSystem)
	require.Equal(t, "natal", cfg.Stats.Redis.Prefix)
	require.Empty(t, cfg.Auth.Secret)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":9090"
  allowedOrigins: ["https://app.example.com"]
ephemeris:
  provider: remote
  remoteBaseUrl: http://ephemeris.internal
  timeout: 3s
chart:
  rulesPath: /etc/natal/rules.yaml
stats:
  redis:
    enabled: true
    addr: localhost:6379
`), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("EPH_PATH", "/srv/ephe")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("AUTH_SECRET", "0123456789abcdef")
	t.Setenv("AUTH_TOKEN_TTL", "90m")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.HTTP.AllowedOrigins)
	require.Equal(t, ProviderRemote, cfg.Ephemeris.Provider)
	require.Equal(t, "http://ephemeris.internal", cfg.Ephemeris.RemoteBaseURL)
	require.Equal(t, 3*time.Second, cfg.Ephemeris.Timeout)
	require.Equal(t, "/srv/ephe", cfg.Ephemeris.DataPath)
	require.Equal(t, "/etc/natal/rules.yaml", cfg.Chart.RulesPath)
	require.True(t, cfg.Stats.Redis.Enabled)
	require.Equal(t, "0123456789abcdef", cfg.Auth.Secret)
	require.Equal(t, 90*time.Minute, cfg.Auth.TokenTTL)
	require.Equal(t, "Lahiri", cfg.Chart.DefaultAyanamsa)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http: ["), 0o600))
	t.Setenv("CONFIG_PATH", path)
	_, err := Load()
	require.ErrorContains(t, err, "parse config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{name: "empty address", mutate: func(c *Config) { c.HTTP.Address = "" }, errMsg: "http.address"},
		{name: "bad provider", mutate: func(c *Config) { c.Ephemeris.Provider = "swiss" }, errMsg: "ephemeris.provider"},
		{name: "remote without url", mutate: func(c *Config) { c.Ephemeris.Provider = ProviderRemote }, errMsg: "remoteBaseUrl"},
		{name: "redis without addr", mutate: func(c *Config) { c.Stats.Redis.Enabled = true }, errMsg: "stats.redis.addr"},
		{name: "short secret", mutate: func(c *Config) { c.Auth.Secret = "short" }, errMsg: "auth.secret"},
		{name: "rate limit", mutate: func(c *Config) { c.HTTP.RateLimit.Burst = 0 }, errMsg: "burst"},
		{name: "pool sizes", mutate: func(c *Config) { c.Profiles.Postgres.MinConns = 10 }, errMsg: "minConns"},
		{name: "empty house system", mutate: func(c *Config) { c.Chart.DefaultHouseSystem = " " }, errMsg: "defaultHouseSystem"},
	}
	for _, tt := range tests {
		cfg := defaultConfig()
		tt.mutate(cfg)
		err := cfg.Validate()
		require.Error(t, err, tt.name)
		require.Contains(t, err.Error(), tt.errMsg, tt.name)
	}
	require.NoError(t, defaultConfig().Validate())
}
