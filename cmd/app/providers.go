package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/natal-chart/internal/domain/auth"
	"github.com/yanqian/natal-chart/internal/domain/chart"
	"github.com/yanqian/natal-chart/internal/domain/profile"
	"github.com/yanqian/natal-chart/internal/infra/config"
	"github.com/yanqian/natal-chart/internal/infra/ephemeris"
	"github.com/yanqian/natal-chart/internal/infra/profilerepo"
	"github.com/yanqian/natal-chart/internal/infra/rulefile"
	"github.com/yanqian/natal-chart/internal/infra/rulestats"
	"github.com/yanqian/natal-chart/pkg/util"
)

func provideChartConfig(cfg *config.Config) chart.Config {
	return chart.Config{
		DefaultAyanamsa:    cfg.Chart.DefaultAyanamsa,
		DefaultHouseSystem: cfg.Chart.DefaultHouseSystem,
	}
}

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:   cfg.Auth.Secret,
		TokenTTL: cfg.Auth.TokenTTL,
	}
}

func provideClock() util.Clock {
	return util.NowUTC
}

// provideEphemeris selects the configured provider. The data path is resolved here,
// once, and handed to the provider.
func provideEphemeris(cfg *config.Config, logger *slog.Logger) (chart.Ephemeris, error) {
	var eph chart.Ephemeris
	switch cfg.Ephemeris.Provider {
	case config.ProviderRemote:
		remote, err := ephemeris.NewRemote(cfg.Ephemeris.RemoteBaseURL, cfg.Ephemeris.Timeout)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := remote.Probe(ctx); err != nil {
			logger.Warn("remote ephemeris version probe failed", "base_url", cfg.Ephemeris.RemoteBaseURL, "error", err)
		}
		eph = remote
	default:
		eph = ephemeris.NewBuiltinFromPath(cfg.Ephemeris.DataPath, logger)
	}
	if cfg.Ephemeris.Serialize {
		eph = chart.Serialized(eph)
	}
	logger.Info("ephemeris ready", "provider", cfg.Ephemeris.Provider, "version", eph.Version(), "serialized", cfg.Ephemeris.Serialize)
	return eph, nil
}

func provideRuleEngine(cfg *config.Config, logger *slog.Logger) (*chart.Engine, error) {
	rules, err := rulefile.Catalogue(cfg.Chart.RulesPath)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	logger.Info("rule catalogue loaded", "rules", len(rules), "path", cfg.Chart.RulesPath)
	return chart.NewEngine(rules)
}

func provideRuleStats(cfg *config.Config, logger *slog.Logger) chart.StatsStore {
	if cfg.Stats.Redis.Enabled {
		opt, err := buildValkeyOptions(cfg.Stats.Redis.Addr)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory stats", "error", err)
			return rulestats.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory stats", "error", err)
			return rulestats.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory stats", "error", err)
			client.Close()
		} else {
			logger.Info("rule stats valkey store enabled", "addr", cfg.Stats.Redis.Addr)
			return rulestats.NewValkeyStore(client, cfg.Stats.Redis.Prefix)
		}
	}
	return rulestats.NewMemoryStore()
}

func provideProfileRepository(cfg *config.Config, logger *slog.Logger) profile.Repository {
	fallback := profilerepo.NewMemoryRepository()
	dsn := strings.TrimSpace(cfg.Profiles.Postgres.DSN)
	if dsn == "" {
		logger.Info("profiles postgres dsn not set, using memory repository")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "error", err)
		return fallback
	}
	if cfg.Profiles.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Profiles.Postgres.MaxConns
	}
	if cfg.Profiles.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Profiles.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "error", err)
		pool.Close()
		return fallback
	}
	repo := profilerepo.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("postgres schema setup failed, using memory repository", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("profiles postgres repository enabled")
	return repo
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(addr, "://") {
		opt, err = valkey.ParseURL(addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
