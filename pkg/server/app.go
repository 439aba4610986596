package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"StockScope/pkg/config"
	xhttp "StockScope/pkg/http"
	applogger "StockScope/pkg/logger"
	"StockScope/pkg/tracing"
)

// App encapsulates the application lifecycle.
type App struct {
	cfg        *config.Config
	httpServer *xhttp.Server
	log        *applogger.Logger
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, httpServer *xhttp.Server, log *applogger.Logger) *App {
	if log == nil {
		log = applogger.Nop()
	}
	return &App{cfg: cfg, httpServer: httpServer, log: log}
}

// Server exposes the HTTP server, mainly for tests.
func (a *App) Server() *xhttp.Server { return a.httpServer }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the application and blocks until ctx is done.
func (a *App) RunContext(ctx context.Context) error {
	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		Enabled:     a.cfg.Tracing.Enabled,
		ServiceName: a.cfg.Tracing.ServiceName,
		PrettyPrint: a.cfg.Tracing.PrettyPrint,
	})
	if err != nil {
		a.log.Error("tracing init error", applogger.Error(err))
		return err
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("stockscope started",
		applogger.String("env", a.cfg.Environment),
		applogger.String("addr", a.httpServer.Addr()),
		applogger.String("provider", a.cfg.Provider.Type),
		applogger.Bool("tracing", a.cfg.Tracing.Enabled),
	)

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown(shutdownTracing)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(shutdownTracing func(context.Context) error) error {
	ctx := context.Background()

	// Stop accepting requests first so in-flight spans still get exported.
	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	tctx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := shutdownTracing(tctx); err != nil {
		a.log.Warn("tracing shutdown error", applogger.Error(err))
	}

	a.log.Info("shutdown complete")
	return nil
}
