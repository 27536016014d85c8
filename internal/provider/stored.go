package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/guttosm/tickerrank/internal/domain/models"
	"github.com/guttosm/tickerrank/internal/storage"
)

const storedName = "postgres"

// Stored serves series from the Postgres quote cache filled by ingestion.
type Stored struct {
	repo storage.QuotesRepository
}

func NewStored(repo storage.QuotesRepository) *Stored {
	return &Stored{repo: repo}
}

func (s *Stored) Name() string { return storedName }

// FetchSeries reads the days most recent cached quotes of symbol. The cache
// holds only well-formed days, so the limit never starves the window.
func (s *Stored) FetchSeries(ctx context.Context, symbol string, days int) (series models.RawSeries, err error) {
	start := time.Now()
	defer func() { observe(storedName, start, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	quotes, err := s.repo.GetSeries(symbol, days)
	if err != nil {
		return nil, fmt.Errorf("load cached quotes: %w", err)
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("%w: %s has no cached quotes, run ingest first", ErrNotFound, symbol)
	}
	return QuotesToSeries(quotes), nil
}

// QuotesToSeries keys cached quotes by ISO date.
func QuotesToSeries(quotes []models.Quote) models.RawSeries {
	series := make(models.RawSeries, len(quotes))
	for _, q := range quotes {
		series[q.Date.Format(models.DateLayout)] = models.RawEntry{
			models.FieldClose:  q.Close,
			models.FieldVolume: q.Volume,
		}
	}
	return series
}
