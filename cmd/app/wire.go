//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/natal-chart/internal/bootstrap"
	"github.com/yanqian/natal-chart/internal/domain/auth"
	"github.com/yanqian/natal-chart/internal/domain/chart"
	"github.com/yanqian/natal-chart/internal/domain/profile"
	"github.com/yanqian/natal-chart/internal/infra/config"
	httpiface "github.com/yanqian/natal-chart/internal/interface/http"
	"github.com/yanqian/natal-chart/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideChartConfig,
		provideAuthConfig,
		provideClock,
		provideEphemeris,
		provideRuleEngine,
		provideRuleStats,
		provideProfileRepository,
		chart.NewService,
		profile.NewService,
		auth.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
