package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/guttosm/tickerrank/internal/domain/models"
	"github.com/guttosm/tickerrank/internal/logger"
	"github.com/guttosm/tickerrank/internal/telemetry"
)

const (
	alphaVantageName = "alphavantage"

	OutputCompact = "compact"
	OutputFull    = "full"

	// compactDays is how many trading days a compact response carries.
	compactDays = 100
)

// OutputSizeFor picks the smallest response size covering days trading days.
func OutputSizeFor(days int) string {
	if days <= AllHistory || days > compactDays {
		return OutputFull
	}
	return OutputCompact
}

// AlphaVantageOptions configures NewAlphaVantage. Zero values fall back to
// usable defaults, except APIKey which is required.
type AlphaVantageOptions struct {
	BaseURL    string
	APIKey     string
	Function   string
	RPS        float64
	Burst      int
	MaxRetries int
	Timeout    time.Duration
	Backoff    time.Duration
	Client     *http.Client
}

// AlphaVantage fetches daily series from the Alpha Vantage query API.
//
// Requests share one token bucket so concurrent fetches stay inside the
// provider's quota. Throttling notices, 5xx responses and transport errors are
// retried with exponential backoff; unknown symbols are not.
type AlphaVantage struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	function   string
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

func NewAlphaVantage(opts AlphaVantageOptions) (*AlphaVantage, error) {
	if opts.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if opts.BaseURL == "" {
		opts.BaseURL = "https://www.alphavantage.co/query"
	}
	if opts.Function == "" {
		opts.Function = "TIME_SERIES_DAILY_ADJUSTED"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Backoff <= 0 {
		opts.Backoff = time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	limit := rate.Inf
	if opts.RPS > 0 {
		limit = rate.Limit(opts.RPS)
	}
	if opts.Burst < 1 {
		opts.Burst = 1
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &AlphaVantage{
		client:     client,
		baseURL:    opts.BaseURL,
		apiKey:     opts.APIKey,
		function:   opts.Function,
		limiter:    rate.NewLimiter(limit, opts.Burst),
		maxRetries: opts.MaxRetries,
		backoff:    opts.Backoff,
	}, nil
}

func (a *AlphaVantage) Name() string { return alphaVantageName }

// FetchSeries downloads and decodes the daily series of symbol. The compact
// response is used when it covers days, the full history otherwise.
func (a *AlphaVantage) FetchSeries(ctx context.Context, symbol string, days int) (series models.RawSeries, err error) {
	start := time.Now()
	defer func() { observe(alphaVantageName, start, err) }()

	q := url.Values{}
	q.Set("function", a.function)
	q.Set("symbol", symbol)
	q.Set("outputsize", OutputSizeFor(days))

	var lastErr error
	for attempt := 0; attempt <= a.maxRetries; attempt++ {
		if attempt > 0 {
			wait := a.backoff * time.Duration(1<<uint(attempt-1))
			log := logger.ForSymbol(symbol, "fetch")
			log.Warn().Err(lastErr).Int("attempt", attempt+1).Dur("backoff", wait).Msg("retrying alpha vantage request")
			telemetry.ProviderRetries.WithLabelValues(alphaVantageName).Inc()
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		body, err := a.get(ctx, q)
		if err == nil {
			series, err = DecodeDaily(body)
		}
		if err == nil {
			return series, nil
		}
		if !retryable(err) || ctx.Err() != nil {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("alpha vantage: %d attempts exhausted: %w", a.maxRetries+1, lastErr)
}

// ValidateKey probes the intraday endpoint with the configured key. The key is
// reported invalid when the response carries a notice instead of data.
func (a *AlphaVantage) ValidateKey(ctx context.Context) (bool, error) {
	q := url.Values{}
	q.Set("function", "TIME_SERIES_INTRADAY")
	q.Set("symbol", "IBM")
	q.Set("interval", "5min")

	body, err := a.get(ctx, q)
	if err != nil {
		return false, err
	}
	if _, err := DecodeDaily(body); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return false, nil
		}
		if errors.Is(err, ErrNoSeries) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("alpha vantage: status %d, body: %s", e.Code, e.Body)
}

func (a *AlphaVantage) get(ctx context.Context, q url.Values) ([]byte, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	q.Set("apikey", a.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alpha vantage fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("alpha vantage read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{Code: resp.StatusCode, Body: truncate(string(body), 256)}
	}
	return body, nil
}

func retryable(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	var ue *url.Error
	return errors.As(err, &ue)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
