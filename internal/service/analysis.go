package service

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/tickerrank/internal/domain/models"
	"github.com/guttosm/tickerrank/internal/logger"
	"github.com/guttosm/tickerrank/internal/metrics"
	"github.com/guttosm/tickerrank/internal/provider"
	"github.com/guttosm/tickerrank/internal/telemetry"
)

// ErrNoSymbols is returned when a request names no symbol.
var ErrNoSymbols = errors.New("at least one symbol is required")

// AnalysisRequest names the symbols to rank over the last Window trading days.
type AnalysisRequest struct {
	Symbols       []string
	Window        int
	SkipMalformed bool
}

// AnalysisService runs the metrics pipeline over a batch of symbols.
type AnalysisService interface {
	Analyze(ctx context.Context, req AnalysisRequest) (models.Analysis, error)
	ComputeRecords(symbol string, records []models.DailyRecord) (models.SymbolReport, error)
}

type analysisService struct {
	provider provider.Provider
	parallel int
}

// NewAnalysisService builds the service. parallel bounds concurrent symbol
// fetches; zero or less means min(4, NumCPU).
func NewAnalysisService(p provider.Provider, parallel int) AnalysisService {
	if parallel < 1 {
		parallel = 4
		if c := runtime.NumCPU(); c < parallel {
			parallel = c
		}
	}
	return &analysisService{provider: p, parallel: parallel}
}

type outcome struct {
	report models.SymbolReport
	err    error
}

// Analyze fetches and computes every symbol concurrently, then ranks the ones
// that succeeded.
//
// A failing symbol never cancels its siblings: it is reported in
// Analysis.Failures with the stage it stopped at. Reports and Failures keep
// request order. The returned error is non-nil only for an invalid request or
// a cancelled context.
func (s *analysisService) Analyze(ctx context.Context, req AnalysisRequest) (models.Analysis, error) {
	symbols := NormalizeSymbols(req.Symbols)
	if len(symbols) == 0 {
		return models.Analysis{}, ErrNoSymbols
	}
	if req.Window < 1 {
		return models.Analysis{}, metrics.ErrInvalidWindow
	}

	start := time.Now()
	logger.L().Info().Int("symbols", len(symbols)).Int("window", req.Window).Str("source", s.provider.Name()).Int("max_parallel", s.parallel).Msg("analysis start")

	opts := metrics.WindowOptions{SkipMalformed: req.SkipMalformed}
	results := make([]outcome, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, s.parallel)

	for i, symbol := range symbols {
		idx := i
		sym := symbol

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			_ = g.Wait()
			telemetry.Analyses.WithLabelValues(telemetry.OutcomeError).Inc()
			return models.Analysis{}, ctx.Err()
		}

		g.Go(func() error {
			defer func() { <-sem }()
			results[idx] = s.analyzeSymbol(gctx, sym, req.Window, opts)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		telemetry.Analyses.WithLabelValues(telemetry.OutcomeError).Inc()
		return models.Analysis{}, err
	}

	out := models.Analysis{
		RequestedWindow: req.Window,
		Source:          s.provider.Name(),
	}
	for i, r := range results {
		if r.err != nil {
			out.Failures = append(out.Failures, models.SymbolFailure{
				Symbol: symbols[i],
				Stage:  metrics.StageOf(r.err),
				Err:    r.err,
			})
			continue
		}
		out.Reports = append(out.Reports, r.report)
	}

	winner, err := metrics.Rank(metrics.Candidates(out.Reports))
	if err != nil {
		out.RankErr = &metrics.StageError{Stage: metrics.StageRank, Err: err}
		logger.L().Warn().Int("failures", len(out.Failures)).Err(err).Msg("no symbol could be ranked")
	} else {
		out.Winner = &winner
		logger.L().Info().Str("winner", winner.Symbol).Float64("score", winner.Score).Int("window_length", winner.WindowLength).Msg("ranking done")
	}

	telemetry.Analyses.WithLabelValues(telemetry.Outcome(out.RankErr)).Inc()
	logger.L().Info().Int("reports", len(out.Reports)).Int("failures", len(out.Failures)).Dur("elapsed", time.Since(start)).Msg("analysis done")
	return out, nil
}

func (s *analysisService) analyzeSymbol(ctx context.Context, symbol string, window int, opts metrics.WindowOptions) outcome {
	log := logger.ForSymbol(symbol, metrics.StageFetch)

	series, err := s.provider.FetchSeries(ctx, symbol, window)
	if err != nil {
		log.Error().Err(err).Msg("fetch failed")
		telemetry.SymbolsProcessed.WithLabelValues(metrics.StageFetch).Inc()
		return outcome{err: &metrics.StageError{Symbol: symbol, Stage: metrics.StageFetch, Err: err}}
	}

	report, err := metrics.Compute(symbol, series, window, opts)
	if err != nil {
		stage := metrics.StageOf(err)
		l := logger.ForSymbol(symbol, stage)
		l.Error().Err(err).Msg("computation failed")
		telemetry.SymbolsProcessed.WithLabelValues(stage).Inc()
		return outcome{err: err}
	}

	if len(report.SkippedDays) > 0 {
		l := logger.ForSymbol(symbol, metrics.StageWindow)
		l.Warn().Strs("skipped_days", report.SkippedDays).Msg("malformed days skipped")
	}
	if report.WindowLength < window {
		log.Debug().Int("requested", window).Int("available", report.WindowLength).Msg("short history")
	}
	telemetry.SymbolsProcessed.WithLabelValues("done").Inc()
	return outcome{report: report}
}

// ComputeRecords runs the pipeline over days supplied directly by the caller.
func (s *analysisService) ComputeRecords(symbol string, records []models.DailyRecord) (models.SymbolReport, error) {
	return metrics.FromRecords(strings.ToUpper(strings.TrimSpace(symbol)), records)
}

// NormalizeSymbols trims and upper-cases symbols, dropping empties and
// duplicates while keeping the first occurrence order.
func NormalizeSymbols(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		sym := strings.ToUpper(strings.TrimSpace(s))
		if sym == "" {
			continue
		}
		if _, dup := seen[sym]; dup {
			continue
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}
	return out
}
