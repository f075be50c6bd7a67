package app

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/numfront/internal/backend"
	"github.com/agbru/numfront/internal/logging"
	"github.com/agbru/numfront/internal/proxy"
	"github.com/agbru/numfront/internal/server"
)

func (a *Application) newProxyServer(logger logging.Logger) (*server.Server, error) {
	p, err := proxy.New(a.Config.Target, logger)
	if err != nil {
		return nil, err
	}
	s := server.New("proxy", a.Config.Listen, logger)
	p.Register(s)
	return s, nil
}

func (a *Application) newBackendServer(logger logging.Logger) *server.Server {
	s := server.New("backend", a.Config.BackendListen, logger)
	backend.NewHandlers(logger).Register(s)
	return s
}

func (a *Application) runProxy(cmd *cobra.Command, _ []string) error {
	if err := a.setup(cmd); err != nil {
		return err
	}
	logger := logging.NewConsoleLogger(a.ErrWriter, "proxy")
	s, err := a.newProxyServer(logger)
	if err != nil {
		return err
	}
	logger.Info("forwarding", logging.String("target", a.Config.Target))
	return serveAll(cmd.Context(), s)
}

func (a *Application) runBackend(cmd *cobra.Command, _ []string) error {
	if err := a.setup(cmd); err != nil {
		return err
	}
	logger := logging.NewConsoleLogger(a.ErrWriter, "backend")
	return serveAll(cmd.Context(), a.newBackendServer(logger))
}

func (a *Application) runDev(cmd *cobra.Command, _ []string) error {
	if err := a.setup(cmd); err != nil {
		return err
	}
	p, err := a.newProxyServer(logging.NewConsoleLogger(a.ErrWriter, "proxy"))
	if err != nil {
		return err
	}
	b := a.newBackendServer(logging.NewConsoleLogger(a.ErrWriter, "backend"))
	return serveAll(cmd.Context(), p, b)
}

// serveAll runs servers until ctx is cancelled or one of them fails, in which
// case the others are shut down too. Cancellation is a clean exit.
func serveAll(ctx context.Context, servers ...*server.Server) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, s := range servers {
		g.Go(func() error { return s.Run(ctx) })
	}
	return g.Wait()
}
