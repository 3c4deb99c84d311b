package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpserver "github.com/roach88/sieve/internal/server/http"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr string // listen address (overrides config)
	DB   string // database path (overrides config)
	Seed string // YAML seed file loaded at startup
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the filter API over HTTP",
		Long: `Start the HTTP API.

Routes:
  POST /v1/filters/validate            validate a Form B filter
  POST /v1/filters/canonical           canonicalize a Form B filter
  GET  /v1/models                      list models
  GET  /v1/models/{model}/compile      compile Form A query parameters
  POST /v1/models/{model}/compile      compile a JSON request
  POST /v1/models/{model}/query        run a JSON request against the database
  GET  /healthz                        liveness and database health
  GET  /metrics                        Prometheus metrics (server.metrics_enabled)

The server stops gracefully on SIGINT or SIGTERM.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default: config server.addr)")
	cmd.Flags().StringVar(&opts.DB, "db", "", "SQLite database path (default: config database)")
	cmd.Flags().StringVar(&opts.Seed, "seed", "", "YAML file of tables to load at startup")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	env, err := loadEnvironment(opts.RootOptions, cmd.ErrOrStderr(), formatter)
	if err != nil {
		return err
	}
	logger := env.logger.With().Str("component", "server").Logger()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, env, opts.DB, opts.Seed, formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	addr := opts.Addr
	if addr == "" {
		addr = env.config.Server.Addr
	}
	httpCfg := httpserver.DefaultConfig(addr)

	serverOpts := []httpserver.Option{httpserver.WithQuerier(st)}
	if env.config.Server.MetricsEnabled {
		serverOpts = append(serverOpts, httpserver.WithMetrics(env.metrics, env.gatherer))
	}
	srv := httpserver.NewServer(httpCfg, env.engine, env.logger, serverOpts...)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info().
		Str("http_address", addr).
		Strs("models", env.registry.Names()).
		Bool("metrics", env.config.Server.MetricsEnabled).
		Msg("sieve is ready")

	// Wait for shutdown signal or server error.
	select {
	case <-ctx.Done():
		logger.Info().Msg("received shutdown signal")
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error")
		return formatter.fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
		return formatter.fail(ExitCommandError, ErrCodeGeneric, "shutdown failed", err.Error())
	}
	logger.Info().Msg("sieve stopped")
	return nil
}
