package metrics

import "github.com/guttosm/tickerrank/internal/domain/models"

// Compute runs one symbol's raw series through every stage and returns its
// report. Failures come back as *StageError naming the symbol and stage.
func Compute(symbol string, series models.RawSeries, n int, opts WindowOptions) (models.SymbolReport, error) {
	win, err := Window(series, n, opts)
	if err != nil {
		return models.SymbolReport{}, &StageError{Symbol: symbol, Stage: StageWindow, Err: err}
	}
	report, err := FromRecords(symbol, win.Records)
	if err != nil {
		return models.SymbolReport{}, err
	}
	report.SkippedDays = win.Skipped
	return report, nil
}

// FromRecords computes a report from days that are already decoded and in
// chronological order.
func FromRecords(symbol string, records []models.DailyRecord) (models.SymbolReport, error) {
	deltas, err := Deltas(records)
	if err != nil {
		return models.SymbolReport{}, &StageError{Symbol: symbol, Stage: StageDelta, Err: err}
	}
	return models.SymbolReport{
		Symbol:       symbol,
		WindowLength: len(records),
		Metrics:      Aggregate(deltas),
		Momentum:     Momentum(deltas),
	}, nil
}

// Candidates projects reports onto ranking candidates, preserving order.
func Candidates(reports []models.SymbolReport) []models.Candidate {
	out := make([]models.Candidate, len(reports))
	for i, r := range reports {
		out[i] = models.Candidate{Symbol: r.Symbol, WindowLength: r.WindowLength, Metrics: r.Metrics}
	}
	return out
}
