package cli

import (
	"errors"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/roach88/sieve/internal/config"
	"github.com/roach88/sieve/internal/engine"
	"github.com/roach88/sieve/internal/filter"
	"github.com/roach88/sieve/internal/observability"
	"github.com/roach88/sieve/internal/schema"
)

// Error code constants - unified across all CLI commands.
// Model load failures reuse the schema.ErrCode* values (E3xx).
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeConfig       = "E002" // Config file or value error
	ErrCodeBadFlag      = "E003" // Invalid flag value
	ErrCodeSeedFailed   = "E004" // Seed file could not be loaded
	ErrCodeDatabase     = "E005" // Database open or query error
	ErrCodeInvalidInput = "E006" // Filter or search input rejected
)

// environment is everything a model-aware command needs.
type environment struct {
	config   *config.Config
	logger   zerolog.Logger
	registry *schema.Registry
	engine   *engine.Engine
	metrics  *observability.Metrics
	gatherer *prometheus.Registry
}

// loadEnvironment reads configuration, builds the logger and loads the
// model registry into a fresh engine. Logs go to logOut so they never
// mix with command output.
func loadEnvironment(opts *RootOptions, logOut io.Writer, f *OutputFormatter) (*environment, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, f.fail(ExitCommandError, ErrCodeConfig, "failed to load configuration", err.Error())
	}
	if opts.Models != "" {
		cfg.Models = opts.Models
	}
	if opts.Verbose {
		cfg.Logging.Level = "debug"
	}

	logger := observability.NewLoggerTo(logOut, cfg.Logging.Observability()).
		With().Str("component", "cli").Str("trace_id", f.TraceID).Logger()

	f.VerboseLog("Config: models=%s database=%s cache=%d", cfg.Models, cfg.Database, cfg.Cache.Size)
	registry, err := schema.Load(cfg.Models)
	if err != nil {
		var loadErr *schema.LoadError
		if errors.As(err, &loadErr) {
			return nil, f.fail(ExitCommandError, loadErr.Code, loadErr.Error(), nil)
		}
		return nil, f.fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	f.VerboseLog("Loaded %d model(s): %v", len(registry.Names()), registry.Names())

	gatherer := prometheus.NewRegistry()
	metrics := observability.NewMetrics("sieve", gatherer)

	eng, err := engine.New(registry,
		engine.WithCacheSize(cfg.Cache.Size),
		engine.WithLogger(logger),
		engine.WithMetrics(metrics),
	)
	if err != nil {
		return nil, f.fail(ExitCommandError, ErrCodeConfig, "failed to create engine", err.Error())
	}

	return &environment{
		config:   cfg,
		logger:   logger,
		registry: registry,
		engine:   eng,
		metrics:  metrics,
		gatherer: gatherer,
	}, nil
}

// engineFailure reports an engine error. Invalid filters are a
// validation failure (exit 1); everything else is a command error.
func engineFailure(f *OutputFormatter, err error) error {
	var engErr *engine.Error
	if !errors.As(err, &engErr) {
		return f.fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	message := strings.TrimPrefix(engErr.Error(), string(engErr.Code)+": ")
	var verrs filter.ValidationErrors
	if engErr.Code == engine.ErrCodeInvalidFilter && errors.As(err, &verrs) {
		return f.fail(ExitFailure, string(engErr.Code), message, []filter.ValidationError(verrs))
	}
	return f.fail(ExitCommandError, string(engErr.Code), message, nil)
}
