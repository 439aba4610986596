package di

import (
	"fmt"

	"StockScope/internal/domain/repository"
	domsvc "StockScope/internal/domain/service"
	"StockScope/internal/handler/api"
	"StockScope/internal/handler/web"
	"StockScope/internal/service/marketdataobs"
	"StockScope/internal/service/ratelimit"
	"StockScope/internal/service/yahoo"
	"StockScope/internal/services/analytics"
	"StockScope/internal/usecase"
	"StockScope/pkg/config"
	xhttp "StockScope/pkg/http"
	"StockScope/pkg/http/middleware"
	applogger "StockScope/pkg/logger"
	"StockScope/pkg/metrics"
	"StockScope/pkg/server"

	"github.com/google/wire"
)

// ProviderSet is everything InitializeApp needs.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideMarketData,
	ProvideDecomposer,
	ProvideAnalysisUseCase,
	ProvideAPIHandler,
	ProvideDashboardHandler,
	ProvideHTTPHandler,
	ProvideRenderer,
	ProvideLimiter,
	ProvideHTTPServer,
	ProvideApp,
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.Tracing.ServiceName,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(cfg *config.Config) repository.Metrics {
	if !cfg.Metrics.Enabled {
		return metrics.Nop{}
	}
	return metrics.New()
}

// ProvideMarketData selects the provider and wraps it with tracing, logs and metrics.
func ProvideMarketData(cfg *config.Config, l *applogger.Logger, m repository.Metrics) (repository.MarketData, error) {
	var md repository.MarketData
	switch cfg.Provider.Type {
	case "yahoo":
		md = yahoo.New(yahoo.Config{
			ChartURL:  cfg.Provider.ChartURL,
			QuoteURL:  cfg.Provider.QuoteURL,
			CookieURL: cfg.Provider.CookieURL,
			Timeout:   cfg.Provider.Timeout,
			UserAgent: cfg.Provider.UserAgent,
		}, l)
	case "mock":
		md = yahoo.NewMock()
	default:
		return nil, fmt.Errorf("unknown provider type %q", cfg.Provider.Type)
	}
	return marketdataobs.Wrap(md, l, m), nil
}

func ProvideDecomposer() domsvc.Decomposer {
	return analytics.NewClassicalDecomposer()
}

// ProvideAnalysisUseCase creates the analysis pipeline.
func ProvideAnalysisUseCase(
	md repository.MarketData,
	dec domsvc.Decomposer,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.AnalysisUseCase {
	return usecase.NewAnalysisUseCase(md, dec, m, l, usecase.AnalysisConfig{
		SMAWindow:           cfg.Analysis.SMAWindow,
		DecompositionPeriod: cfg.Analysis.DecompositionPeriod,
		Lookback:            repository.NormalizeLookback(cfg.Analysis.Lookback),
		Interval:            repository.NormalizeInterval(cfg.Analysis.Interval),
	})
}

func ProvideAPIHandler(l *applogger.Logger, uc *usecase.AnalysisUseCase) *api.AnalysisEchoHandler {
	return api.NewAnalysisEchoHandler(l, uc)
}

func ProvideDashboardHandler(l *applogger.Logger, uc *usecase.AnalysisUseCase) *web.DashboardHandler {
	return web.NewDashboardHandler(l, uc)
}

// ProvideHTTPHandler combines the dashboard and the JSON API.
func ProvideHTTPHandler(dash *web.DashboardHandler, apiH *api.AnalysisEchoHandler) xhttp.Handler {
	return xhttp.Handlers{dash, apiH}
}

func ProvideRenderer() (*web.Renderer, error) {
	return web.NewRenderer()
}

// ProvideLimiter builds the configured rate limiter. A disabled limiter is nil.
func ProvideLimiter(cfg *config.Config, l *applogger.Logger) (middleware.Limiter, func(), error) {
	rl := cfg.RateLimit
	if !rl.Enabled {
		return nil, func() {}, nil
	}
	switch rl.Backend {
	case "memory":
		return ratelimit.New(rl.Capacity, rl.RefillPerSec, ratelimit.WithMaxKeys(rl.MaxKeys)), func() {}, nil
	case "redis":
		lim := ratelimit.NewRedisLimiter(ratelimit.RedisConfig{
			Addr:     rl.Redis.Addr,
			Password: rl.Redis.Password,
			DB:       rl.Redis.DB,
			Prefix:   rl.Redis.Prefix,
		}, int64(rl.Capacity), rl.Window)
		cleanup := func() {
			if err := lim.Close(); err != nil {
				l.Warn("redis limiter close error", applogger.Error(err))
			}
		}
		return lim, cleanup, nil
	default:
		return nil, nil, fmt.Errorf("unknown ratelimit backend %q", rl.Backend)
	}
}

// ProvideHTTPServer creates the echo server with middleware and routes.
func ProvideHTTPServer(
	cfg *config.Config,
	h xhttp.Handler,
	r *web.Renderer,
	lim middleware.Limiter,
	l *applogger.Logger,
) *xhttp.Server {
	return xhttp.NewServer(h,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithSlowThreshold(cfg.Server.SlowThreshold),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithMetrics(cfg.Metrics.Enabled, cfg.Metrics.Path),
		xhttp.WithRenderer(r),
		xhttp.WithLimiter(lim),
		xhttp.WithLogger(l),
	)
}

func ProvideApp(cfg *config.Config, srv *xhttp.Server, l *applogger.Logger) *server.App {
	return server.New(cfg, srv, l)
}
