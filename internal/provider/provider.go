// Package provider fetches raw daily series for a symbol from one of the
// supported data sources.
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/tickerrank/config"
	"github.com/guttosm/tickerrank/internal/domain/models"
	"github.com/guttosm/tickerrank/internal/storage"
	"github.com/guttosm/tickerrank/internal/telemetry"
)

// AllHistory asks FetchSeries for every day the source holds.
const AllHistory = 0

// Provider yields the raw daily series of a symbol. days is how many of the
// most recent trading days the caller needs; AllHistory or less asks for
// everything. A source may return more days than asked, never fewer than it
// holds. Implementations must be safe for concurrent use.
type Provider interface {
	Name() string
	FetchSeries(ctx context.Context, symbol string, days int) (models.RawSeries, error)
}

var (
	ErrNotFound      = errors.New("symbol not found")
	ErrRateLimited   = errors.New("provider rate limit reached")
	ErrNoSeries      = errors.New("response carries no daily series")
	ErrMissingAPIKey = errors.New("alpha vantage api key is not configured")
	ErrUnknownSource = errors.New("unknown data source")
	ErrNoRepository  = errors.New("postgres source requires a repository")
)

// APIError is a failure reported in the body of a provider response.
type APIError struct {
	Kind    error
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error { return e.Kind }

// New resolves the provider named by source.
func New(source string, cfg config.Config, repo storage.QuotesRepository) (Provider, error) {
	switch source {
	case config.SourceRemote:
		return NewAlphaVantage(AlphaVantageOptions{
			BaseURL:    cfg.AlphaVantage.BaseURL,
			APIKey:     cfg.AlphaVantage.APIKey,
			Function:   cfg.AlphaVantage.Function,
			RPS:        cfg.Fetch.RPS,
			Burst:      cfg.Fetch.Burst,
			MaxRetries: cfg.Fetch.MaxRetries,
			Timeout:    cfg.Fetch.Timeout,
		})
	case config.SourceLocal:
		return NewLocalFiles(cfg.Analysis.LocalDataDir), nil
	case config.SourcePostgres:
		if repo == nil {
			return nil, ErrNoRepository
		}
		return NewStored(repo), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
}

// observe records the outcome and latency of one fetch.
func observe(name string, start time.Time, err error) {
	telemetry.ProviderRequests.WithLabelValues(name, telemetry.Outcome(err)).Inc()
	telemetry.ProviderLatency.WithLabelValues(name).Observe(time.Since(start).Seconds())
}
