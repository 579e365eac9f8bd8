package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/credkeeper/internal/config"
	"github.com/dmitrijs2005/credkeeper/internal/logging"
	"github.com/dmitrijs2005/credkeeper/internal/transport/grpcapi"
)

// Server runs the gRPC endpoint over a Core.
type Server struct {
	config *config.Config
	logger logging.Logger
	core   *Core
}

func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stdout)
	if err != nil {
		return nil, err
	}

	core, err := NewCore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Server{config: cfg, logger: logger, core: core}, nil
}

func (app *Server) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives,
// then releases the core.
func (app *Server) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.EndpointAddrGRPC)
	app.initSignalHandler(ctx, cancelFunc)

	s := grpcapi.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.core.Auth, app.config.RateLimit, app.config.RateBurst)

	var (
		wg     sync.WaitGroup
		runErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			runErr = err
			cancelFunc()
		}
	}()
	wg.Wait()

	if err := app.core.Close(); err != nil {
		app.logger.Warn(ctx, "close failed", "error", err)
	}
	if runErr != nil {
		return fmt.Errorf("grpc server: %w", runErr)
	}
	app.logger.Info(ctx, "Stopped")
	return nil
}
