package storage

import (
	"database/sql"
	"time"

	"github.com/guttosm/tickerrank/internal/domain/models"
	pq "github.com/lib/pq"
)

// QuotesRepository defines contract for DB operations on the daily quote cache.
type QuotesRepository interface {
	InsertQuotesBatch(quotes []models.Quote) error
	GetSeries(symbol string, limit int) ([]models.Quote, error)
	LatestQuoteDate(symbol string) (time.Time, bool, error)
	HasIngestionForSymbol(symbol string, asOf time.Time) (bool, error)
	UpsertIngestionLog(symbol string, asOf time.Time, source string, rowCount int) error
	DeleteQuotesBySymbol(symbol string) error
}

type quotesRepository struct {
	db *sql.DB
}

func NewQuotesRepository(db *sql.DB) QuotesRepository {
	return &quotesRepository{db: db}
}

// InsertQuotesBatch bulk-loads quotes with COPY in a single transaction.
// Close and Volume are sent as text so NUMERIC keeps every digit.
func (r *quotesRepository) InsertQuotesBatch(quotes []models.Quote) error {
	if len(quotes) == 0 {
		return nil
	}
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`SET LOCAL synchronous_commit = OFF`); err != nil {
		_ = tx.Rollback()
		return err
	}

	stmt, err := tx.Prepare(pq.CopyIn("daily_quotes", "symbol", "trade_date", "close", "volume"))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, q := range quotes {
		if _, err := stmt.Exec(q.Symbol, q.Date, q.Close, q.Volume); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.Exec(); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// GetSeries returns up to limit of the most recent quotes of symbol, newest
// first. A limit of zero or less returns the whole history.
func (r *quotesRepository) GetSeries(symbol string, limit int) ([]models.Quote, error) {
	query := `SELECT symbol, trade_date, close::text, volume::text
		FROM daily_quotes
		WHERE symbol = $1
		ORDER BY trade_date DESC`
	args := []interface{}{symbol}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Quote
	for rows.Next() {
		var q models.Quote
		if err := rows.Scan(&q.Symbol, &q.Date, &q.Close, &q.Volume); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// LatestQuoteDate returns the most recent cached trade date for symbol.
// The boolean is false when nothing is cached yet.
func (r *quotesRepository) LatestQuoteDate(symbol string) (time.Time, bool, error) {
	var latest sql.NullTime
	err := r.db.QueryRow(`SELECT MAX(trade_date) FROM daily_quotes WHERE symbol = $1`, symbol).Scan(&latest)
	if err != nil {
		return time.Time{}, false, err
	}
	if !latest.Valid {
		return time.Time{}, false, nil
	}
	return latest.Time, true, nil
}

// HasIngestionForSymbol checks if symbol was already ingested for a given business day.
func (r *quotesRepository) HasIngestionForSymbol(symbol string, asOf time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM ingestion_log WHERE symbol = $1 AND as_of = $2)`, symbol, asOf).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// UpsertIngestionLog records (or updates) an ingestion entry for symbol on a given day.
func (r *quotesRepository) UpsertIngestionLog(symbol string, asOf time.Time, source string, rowCount int) error {
	_, err := r.db.Exec(`
		INSERT INTO ingestion_log (symbol, as_of, source, row_count)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (symbol, as_of)
		DO UPDATE SET source = EXCLUDED.source,
					  row_count = EXCLUDED.row_count,
					  ingested_at = NOW()
	`, symbol, asOf, source, rowCount)
	return err
}

// DeleteQuotesBySymbol removes the cached history of symbol.
func (r *quotesRepository) DeleteQuotesBySymbol(symbol string) error {
	_, err := r.db.Exec(`DELETE FROM daily_quotes WHERE symbol = $1`, symbol)
	return err
}
