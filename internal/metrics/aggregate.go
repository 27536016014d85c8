package metrics

import (
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/guttosm/tickerrank/internal/domain/models"
)

// Aggregate reduces a delta sequence to summary statistics.
//
// All means and the variance are taken over the same m deltas. Variance uses
// divisor m. An empty sequence yields UndefinedMetrics.
func Aggregate(deltas []models.DeltaRecord) models.SymbolMetrics {
	m := len(deltas)
	if m == 0 {
		return models.UndefinedMetrics()
	}

	returns := make([]float64, m)
	prices := make([]float64, m)
	volumes := make([]float64, m)
	for i, d := range deltas {
		returns[i] = d.DailyReturn
		prices[i] = d.ClosingPrice
		volumes[i] = d.Volume
	}

	mean, variance := stat.PopMeanVariance(returns, nil)
	return models.SymbolMetrics{
		MeanReturn:        mean,
		MeanClosingPrice:  stat.Mean(prices, nil),
		MeanVolume:        stat.Mean(volumes, nil),
		Variance:          variance,
		StandardDeviation: math.Sqrt(variance),
	}
}

// Zip joins independently supplied columns into daily records sorted by date.
// The columns must have the same length; nothing is truncated.
func Zip(dates []string, prices, volumes []float64) ([]models.DailyRecord, error) {
	if len(prices) != len(volumes) || len(dates) != len(prices) {
		return nil, &LengthMismatchError{Dates: len(dates), Prices: len(prices), Volumes: len(volumes)}
	}
	out := make([]models.DailyRecord, len(prices))
	for i := range prices {
		if err := checkColumnValue(dates[i], models.FieldClose, prices[i]); err != nil {
			return nil, err
		}
		if err := checkColumnValue(dates[i], models.FieldVolume, volumes[i]); err != nil {
			return nil, err
		}
		out[i] = models.DailyRecord{Date: dates[i], ClosingPrice: prices[i], Volume: volumes[i]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func checkColumnValue(date, field string, v float64) error {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return &DecodeError{Date: date, Field: field, Value: strconv.FormatFloat(v, 'g', -1, 64), Err: errNotFinite}
	case v < 0:
		return &DecodeError{Date: date, Field: field, Value: strconv.FormatFloat(v, 'g', -1, 64), Err: errNegative}
	}
	return nil
}
