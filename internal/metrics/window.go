package metrics

import (
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/guttosm/tickerrank/internal/domain/models"
)

var (
	errNegative  = errors.New("negative value")
	errNotFinite = errors.New("value is not a finite number")
)

// WindowOptions controls how malformed days are treated.
//
// By default a missing or undecodable field aborts the window. With
// SkipMalformed the day is dropped, reported in WindowResult.Skipped, and the
// window reaches further back to keep up to n valid days.
type WindowOptions struct {
	SkipMalformed bool
}

// WindowResult holds the selected days, oldest first.
type WindowResult struct {
	Records []models.DailyRecord
	Skipped []string
}

// Window selects the n most recent trading days of series.
//
// Date keys are sorted ascending before truncation, so the provider's
// iteration order never matters. Fewer than n days yields everything
// available; an empty series yields an empty result.
func Window(series models.RawSeries, n int, opts WindowOptions) (WindowResult, error) {
	if n < 1 {
		return WindowResult{}, ErrInvalidWindow
	}
	if len(series) == 0 {
		return WindowResult{Records: []models.DailyRecord{}}, nil
	}

	dates := make([]string, 0, len(series))
	for d := range series {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	// Walk newest to oldest, then reverse into chronological order.
	picked := make([]models.DailyRecord, 0, min(n, len(dates)))
	var skipped []string
	for i := len(dates) - 1; i >= 0 && len(picked) < n; i-- {
		rec, err := decodeEntry(dates[i], series[dates[i]])
		if err != nil {
			if !opts.SkipMalformed {
				return WindowResult{}, err
			}
			skipped = append(skipped, dates[i])
			continue
		}
		picked = append(picked, rec)
	}

	records := make([]models.DailyRecord, len(picked))
	for i, rec := range picked {
		records[len(picked)-1-i] = rec
	}
	sort.Strings(skipped)
	return WindowResult{Records: records, Skipped: skipped}, nil
}

func decodeEntry(date string, entry models.RawEntry) (models.DailyRecord, error) {
	price, err := decodeField(date, entry, models.FieldClose)
	if err != nil {
		return models.DailyRecord{}, err
	}
	volume, err := decodeField(date, entry, models.FieldVolume)
	if err != nil {
		return models.DailyRecord{}, err
	}
	return models.DailyRecord{Date: date, ClosingPrice: price, Volume: volume}, nil
}

// decodeField parses one decimal field exactly before narrowing it to float64.
func decodeField(date string, entry models.RawEntry, field string) (float64, error) {
	raw, ok := entry[field]
	if !ok {
		return 0, &MissingFieldError{Date: date, Field: field}
	}
	d, err := ParseDecimal(raw)
	if err != nil {
		return 0, &DecodeError{Date: date, Field: field, Value: raw, Err: err}
	}
	f := d.InexactFloat64()
	if math.IsInf(f, 0) {
		return 0, &DecodeError{Date: date, Field: field, Value: raw, Err: errNotFinite}
	}
	return f, nil
}

// ParseDecimal parses a provider decimal string. Surrounding whitespace is
// ignored; negative values are rejected.
func ParseDecimal(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, err
	}
	if d.IsNegative() {
		return decimal.Decimal{}, errNegative
	}
	return d, nil
}
