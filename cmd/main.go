package main

//
//  @title           tickerrank API
//  @version         1.0
//  @description     Ranks stock symbols by risk-adjusted return and momentum over their last N trading days.
//  @termsOfService  https://github.com/guttosm/tickerrank
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/tickerrank
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        metrics
//  @tag.description Per-symbol metrics and ranking
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/guttosm/tickerrank/config"
	_ "github.com/guttosm/tickerrank/docs" // swagger docs
	"github.com/guttosm/tickerrank/internal/app"
	"github.com/guttosm/tickerrank/internal/ingestion"
	"github.com/guttosm/tickerrank/internal/logger"
	"github.com/guttosm/tickerrank/internal/provider"
	"github.com/guttosm/tickerrank/internal/report"
	"github.com/guttosm/tickerrank/internal/service"
)

// errNotRanked makes the rank command exit non-zero when no symbol could be scored.
var errNotRanked = errors.New("no symbol could be ranked")

// loadConfig is overridden in tests.
var loadConfig = func() {
	config.LoadConfig()
	logger.Init()
}

// options holds the flags shared by every subcommand. Zero values keep the
// configured defaults.
type options struct {
	symbols       []string
	window        int
	source        string
	parallel      int
	skipMalformed bool
	port          string
	force         bool
	cron          bool
}

// apply overlays the flags that were set on top of config.AppConfig.
func (o *options) apply(cmd *cobra.Command) {
	cfg := &config.AppConfig
	flags := cmd.Flags()
	if flags.Changed("symbols") {
		cfg.Analysis.Symbols = service.NormalizeSymbols(o.symbols)
	}
	if flags.Changed("window") {
		cfg.Analysis.WindowDays = o.window
	}
	if flags.Changed("source") {
		cfg.Analysis.Source = o.source
	}
	if flags.Changed("parallel") {
		cfg.Fetch.Parallel = o.parallel
	}
	if flags.Changed("skip-malformed") {
		cfg.Analysis.SkipMalformed = o.skipMalformed
	}
	if flags.Changed("port") {
		cfg.Server.Port = o.port
	}
}

// newRootCmd builds the command tree. Running the root without a subcommand
// prints the ranking report.
func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "tickerrank",
		Short:         "Rank stock symbols by risk-adjusted return and momentum",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loadConfig()
			opts.apply(cmd)
			if config.AppConfig.Analysis.WindowDays < 1 {
				return fmt.Errorf("--window must be at least 1")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger.SetOutput(cmd.ErrOrStderr())
			return runRank(cmd.Context(), cmd.OutOrStdout(), config.AppConfig)
		},
	}

	pf := root.PersistentFlags()
	pf.StringSliceVar(&opts.symbols, "symbols", nil, "Symbols to rank, comma separated (default from SYMBOLS)")
	pf.IntVar(&opts.window, "window", 0, "Number of trading days (default from WINDOW_DAYS)")
	pf.StringVar(&opts.source, "source", "", "Data source: remote, local or postgres (default from DATA_SOURCE)")
	pf.IntVar(&opts.parallel, "parallel", 0, "How many symbols to fetch concurrently (default from FETCH_PARALLEL)")
	pf.BoolVar(&opts.skipMalformed, "skip-malformed", false, "Skip malformed days instead of failing the symbol")

	rank := &cobra.Command{
		Use:   "rank",
		Short: "Print per-symbol metrics and the most performant symbol",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger.SetOutput(cmd.ErrOrStderr())
			return runRank(cmd.Context(), cmd.OutOrStdout(), config.AppConfig)
		},
	}

	apiCmd := &cobra.Command{
		Use:   "api",
		Short: "Start the REST API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger.L().Info().Msg("starting API server")
			router, cleanup, err := app.InitializeApp()
			if err != nil {
				return fmt.Errorf("app init: %w", err)
			}
			server := startServer(router, config.AppConfig.Server.Port)
			gracefulShutdown(cmd.Context(), server, cleanup)
			return nil
		},
	}
	apiCmd.Flags().StringVar(&opts.port, "port", "", "Port for the API server (default from SERVER_PORT)")

	ingest := &cobra.Command{
		Use:   "ingest",
		Short: "Fill the Postgres quote cache from Alpha Vantage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIngest(cmd.Context(), config.AppConfig, opts.force, opts.cron)
		},
	}
	ingest.Flags().BoolVar(&opts.force, "force", false, "Reload symbols even if already ingested (deletes their cached quotes)")
	ingest.Flags().BoolVar(&opts.cron, "cron", false, "Keep running and ingest on the INGEST_CRON schedule")

	validateKey := &cobra.Command{
		Use:   "validate-key",
		Short: "Check that the Alpha Vantage API key is accepted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger.SetOutput(cmd.ErrOrStderr())
			return runValidateKey(cmd.Context(), cmd.OutOrStdout(), config.AppConfig)
		},
	}

	root.AddCommand(rank, apiCmd, ingest, validateKey)
	return root
}

// runRank analyzes the configured symbols and writes the text report. The
// report owns stdout, so callers move logs to stderr first.
func runRank(ctx context.Context, out io.Writer, cfg config.Config) error {
	p, cleanup, err := app.OpenProvider(cfg, cfg.Analysis.Source)
	if err != nil {
		return err
	}
	defer cleanup()

	svc := service.NewAnalysisService(p, cfg.Fetch.Parallel)
	analysis, err := svc.Analyze(ctx, service.AnalysisRequest{
		Symbols:       cfg.Analysis.Symbols,
		Window:        cfg.Analysis.WindowDays,
		SkipMalformed: cfg.Analysis.SkipMalformed,
	})
	if err != nil {
		return fmt.Errorf("analysis: %w", err)
	}

	if err := report.Write(out, analysis); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if analysis.Winner == nil {
		return errNotRanked
	}
	return nil
}

// runIngest refreshes the quote cache once, or on every cron tick when
// scheduled is set.
func runIngest(ctx context.Context, cfg config.Config, force, scheduled bool) error {
	conn, err := app.OpenCache(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	p, err := provider.New(config.SourceRemote, cfg, nil)
	if err != nil {
		return fmt.Errorf("resolve provider: %w", err)
	}

	job := func(ctx context.Context) error {
		results, err := ingestion.ProcessSymbols(ctx, conn, p, cfg.Analysis.Symbols, cfg.Fetch.Parallel, force)
		inserted := 0
		for _, r := range results {
			inserted += r.Inserted
		}
		logger.L().Info().Int("symbols", len(results)).Int("inserted", inserted).Msg("ingestion summary")
		return err
	}

	if !scheduled {
		logger.L().Info().Msg("running ingestion")
		if err := job(ctx); err != nil {
			return fmt.Errorf("ingestion: %w", err)
		}
		logger.L().Info().Msg("ingestion completed successfully")
		return nil
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched, err := ingestion.NewScheduler(sigCtx, cfg.Ingest.Cron, job)
	if err != nil {
		return err
	}
	logger.L().Info().Str("schedule", cfg.Ingest.Cron).Msg("ingestion scheduled")
	sched.Run(sigCtx)
	return nil
}

// runValidateKey probes the configured key against the intraday endpoint.
func runValidateKey(ctx context.Context, out io.Writer, cfg config.Config) error {
	av, err := provider.NewAlphaVantage(provider.AlphaVantageOptions{
		BaseURL:    cfg.AlphaVantage.BaseURL,
		APIKey:     cfg.AlphaVantage.APIKey,
		RPS:        cfg.Fetch.RPS,
		Burst:      cfg.Fetch.Burst,
		MaxRetries: cfg.Fetch.MaxRetries,
		Timeout:    cfg.Fetch.Timeout,
	})
	if err != nil {
		return err
	}
	ok, err := av.ValidateKey(ctx)
	if err != nil {
		return fmt.Errorf("validate key: %w", err)
	}
	if !ok {
		_, _ = fmt.Fprintln(out, "api key rejected")
		return errors.New("api key rejected")
	}
	_, err = fmt.Fprintln(out, "api key validated")
	return err
}

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      90 * time.Second, // analyses may wait on a throttled provider
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (e.g., DB connections).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// main is the entry point of the tickerrank application.
//
// Subcommands:
//   - rank (default): print per-symbol metrics and the winner.
//   - api:            start the REST API.
//   - ingest:         fill the Postgres quote cache, once or on a schedule.
//   - validate-key:   probe the Alpha Vantage API key.
func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		logger.L().Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
