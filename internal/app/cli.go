package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/credkeeper/internal/cli"
	"github.com/dmitrijs2005/credkeeper/internal/config"
	"github.com/dmitrijs2005/credkeeper/internal/logging"
	"github.com/dmitrijs2005/credkeeper/internal/repositories/metadata"
	"github.com/dmitrijs2005/credkeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/credkeeper/internal/transport/grpcapi"
)

// CLI is an interactive session together with whatever it must release
// on exit.
type CLI struct {
	*cli.App

	closers []io.Closer
}

// NewCLI builds the interactive client. With cfg.Remote it talks to the
// gRPC endpoint and keeps only the session in cfg.DatabaseDSN; otherwise
// it runs the auth core in-process against that database and binds tokens
// to cfg.ResolveBinding().
func NewCLI(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) (*CLI, error) {
	if cfg.Remote {
		return newRemoteCLI(ctx, cfg, in, out)
	}

	core, err := NewCore(ctx, cfg, logging.Discard())
	if err != nil {
		return nil, err
	}

	backend := cli.NewLocalBackend(core.Auth, cfg.ResolveBinding())
	app := cli.NewApp(backend, metadata.NewSession(core.DB, core.Manager.Metadata), in, out)
	return &CLI{App: app, closers: []io.Closer{core}}, nil
}

func newRemoteCLI(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) (*CLI, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, m, err := repomanager.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("session store init error: %w", err)
	}

	client, err := grpcapi.Dial(cfg.EndpointAddrGRPC)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	app := cli.NewApp(client, metadata.NewSession(db, m.Metadata), in, out)
	return &CLI{App: app, closers: []io.Closer{client, dbCloser{db}}}, nil
}

type dbCloser struct{ db *sql.DB }

func (c dbCloser) Close() error { return c.db.Close() }

func (c *CLI) Close() error {
	var errs []error
	for _, cl := range c.closers {
		errs = append(errs, cl.Close())
	}
	return errors.Join(errs...)
}
