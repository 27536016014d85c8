package ingestion

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/tickerrank/internal/domain/models"
	"github.com/guttosm/tickerrank/internal/logger"
	"github.com/guttosm/tickerrank/internal/metrics"
	"github.com/guttosm/tickerrank/internal/provider"
	"github.com/guttosm/tickerrank/internal/storage"
	"github.com/guttosm/tickerrank/internal/telemetry"
)

// repoCtor is an indirection for creating the repository; tests can override this.
var repoCtor = func(db *sql.DB) storage.QuotesRepository {
	return storage.NewQuotesRepository(db)
}

// now is overridden in tests.
var now = time.Now

// Result summarizes one symbol of an ingestion run.
type Result struct {
	Symbol   string
	Inserted int
	Skipped  []string // malformed days left out of the cache
	UpToDate bool     // already ingested for the last closed session
}

// ProcessSymbols refreshes the Postgres quote cache for every symbol.
//
// Behavior:
//   - Symbols already ingested for the last closed NYSE session are skipped unless force.
//     Before the 16:00 New York close the session in progress does not count.
//   - A symbol with nothing cached, or any symbol under force, is loaded from
//     its full history; with force the cached history is deleted first.
//   - Otherwise only the trading days since the latest cached one are fetched
//     and inserted.
//   - Malformed days are left out and logged.
//   - Up to parallel symbols (default min(4, NumCPU)) are processed at once.
//     A failing symbol does not stop the others; every failure is returned
//     joined together.
func ProcessSymbols(ctx context.Context, db *sql.DB, p provider.Provider, symbols []string, parallel int, force bool) ([]Result, error) {
	repo := repoCtor(db)
	asOf := LastClosedSession(now())

	maxParallel := 4
	if parallel > 0 {
		maxParallel = parallel
	} else if c := runtime.NumCPU(); c < maxParallel {
		maxParallel = c
	}

	logger.L().Info().Int("symbols", len(symbols)).Str("as_of", asOf.Format(models.DateLayout)).Int("max_parallel", maxParallel).Bool("force", force).Msg("ingestion start")

	results := make([]Result, len(symbols))
	errs := make([]error, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, maxParallel)

	for i, symbol := range symbols {
		idx := i
		sym := symbol
		sem <- struct{}{}

		g.Go(func() error {
			defer func() { <-sem }()
			start := time.Now()
			res, err := ingestSymbol(gctx, repo, p, sym, asOf, force)
			log := logger.ForSymbol(sym, "ingest")
			if err != nil {
				log.Error().Dur("elapsed", time.Since(start)).Err(err).Msg("symbol failed")
				errs[idx] = fmt.Errorf("symbol %s: %w", sym, err)
				return nil
			}
			log.Info().Int("idx", idx+1).Int("total", len(symbols)).Int("rows", res.Inserted).Bool("up_to_date", res.UpToDate).Dur("elapsed", time.Since(start)).Msg("symbol done")
			results[idx] = res
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, errors.Join(errs...)
}

func ingestSymbol(ctx context.Context, repo storage.QuotesRepository, p provider.Provider, symbol string, asOf time.Time, force bool) (Result, error) {
	res := Result{Symbol: symbol}

	exists, err := repo.HasIngestionForSymbol(symbol, asOf)
	if err != nil {
		return res, fmt.Errorf("check ingestion log: %w", err)
	}
	if exists && !force {
		res.UpToDate = true
		return res, nil
	}

	var (
		latest time.Time
		cached bool
		days   = provider.AllHistory
	)
	if !force {
		latest, cached, err = repo.LatestQuoteDate(symbol)
		if err != nil {
			return res, fmt.Errorf("latest cached date: %w", err)
		}
		if cached {
			days = max(TradingDaysBetween(latest, asOf), 1)
		}
	}

	series, err := p.FetchSeries(ctx, symbol, days)
	if err != nil {
		return res, fmt.Errorf("fetch: %w", err)
	}
	quotes, skipped := SeriesToQuotes(symbol, series)
	res.Skipped = skipped
	if len(skipped) > 0 {
		l := logger.ForSymbol(symbol, metrics.StageWindow)
		l.Warn().Strs("skipped_days", skipped).Msg("malformed days not cached")
	}

	if force {
		if err := repo.DeleteQuotesBySymbol(symbol); err != nil {
			return res, fmt.Errorf("delete existing: %w", err)
		}
	} else if cached {
		quotes = newerThan(quotes, latest)
	}

	if err := repo.InsertQuotesBatch(quotes); err != nil {
		return res, fmt.Errorf("insert quotes: %w", err)
	}
	if err := repo.UpsertIngestionLog(symbol, asOf, p.Name(), len(quotes)); err != nil {
		return res, fmt.Errorf("upsert ingestion log: %w", err)
	}
	res.Inserted = len(quotes)
	telemetry.IngestedQuotes.WithLabelValues(symbol).Add(float64(len(quotes)))
	return res, nil
}

// SeriesToQuotes converts a raw series into cacheable quotes, oldest first.
// Days whose key is not an ISO date or whose close or volume is not a
// non-negative decimal are returned in skipped instead.
func SeriesToQuotes(symbol string, series models.RawSeries) (quotes []models.Quote, skipped []string) {
	for date, entry := range series {
		d, err := time.Parse(models.DateLayout, date)
		if err != nil {
			skipped = append(skipped, date)
			continue
		}
		closing, errC := metrics.ParseDecimal(entry[models.FieldClose])
		volume, errV := metrics.ParseDecimal(entry[models.FieldVolume])
		if errC != nil || errV != nil {
			skipped = append(skipped, date)
			continue
		}
		quotes = append(quotes, models.Quote{
			Symbol: symbol,
			Date:   d,
			Close:  closing.String(),
			Volume: volume.String(),
		})
	}
	sort.Slice(quotes, func(i, j int) bool { return quotes[i].Date.Before(quotes[j].Date) })
	sort.Strings(skipped)
	return quotes, skipped
}

func newerThan(quotes []models.Quote, latest time.Time) []models.Quote {
	cut := truncateToDate(latest)
	out := quotes[:0]
	for _, q := range quotes {
		if q.Date.After(cut) {
			out = append(out, q)
		}
	}
	return out
}
