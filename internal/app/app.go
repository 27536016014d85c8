package app

import (
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/tickerrank/config"
	"github.com/guttosm/tickerrank/internal/api"
	"github.com/guttosm/tickerrank/internal/logger"
	"github.com/guttosm/tickerrank/internal/provider"
	"github.com/guttosm/tickerrank/internal/service"
	"github.com/guttosm/tickerrank/internal/storage"
)

// openSource resolves the provider named by source. The quote cache is only
// connected (and migrated) for the postgres source, in which case conn is non-nil.
func openSource(cfg config.Config, source string) (provider.Provider, *sql.DB, error) {
	var (
		conn *sql.DB
		repo storage.QuotesRepository
	)
	if source == config.SourcePostgres {
		c, err := OpenCache(cfg)
		if err != nil {
			return nil, nil, err
		}
		conn = c
		repo = storage.NewQuotesRepository(conn)
	}

	p, err := provider.New(source, cfg, repo)
	if err != nil {
		if conn != nil {
			_ = conn.Close()
		}
		return nil, nil, fmt.Errorf("resolve provider: %w", err)
	}
	logger.L().Info().Str("source", source).Str("provider", p.Name()).Msg("provider ready")
	return p, conn, nil
}

func closer(conn *sql.DB) func() {
	return func() {
		if conn != nil {
			_ = conn.Close()
		}
	}
}

// OpenProvider resolves a data source for a one-shot run. cleanup releases
// the database connection, if one was opened.
func OpenProvider(cfg config.Config, source string) (provider.Provider, func(), error) {
	p, conn, err := openSource(cfg, source)
	if err != nil {
		return nil, nil, err
	}
	return p, closer(conn), nil
}

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Resolves the configured data source (connecting to PostgreSQL when it is the cache).
//   - Initializes the analysis service.
//   - Configures the Gin router with all API routes.
//   - Registers health and readiness probes.
//   - Provides a cleanup function to close resources.
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	p, conn, err := openSource(cfg, cfg.Analysis.Source)
	if err != nil {
		return nil, nil, err
	}

	svc := service.NewAnalysisService(p, cfg.Fetch.Parallel)

	handler := api.NewHandler(svc, api.Defaults{
		Symbols:       cfg.Analysis.Symbols,
		Window:        cfg.Analysis.WindowDays,
		SkipMalformed: cfg.Analysis.SkipMalformed,
	})
	router := api.NewRouter(handler)

	// Readiness only depends on the database when it backs the provider.
	var ping func() error
	if conn != nil {
		ping = conn.Ping
	}
	api.NewHealthHandler(cfg.Analysis.Source, ping).Register(router)

	return router, closer(conn), nil
}
