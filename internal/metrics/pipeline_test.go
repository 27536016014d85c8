package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/tickerrank/internal/domain/models"
)

func TestCompute(t *testing.T) {
	report, err := Compute("IBM", fiveDays(), 5, WindowOptions{})
	require.NoError(t, err)
	assert.Equal(t, "IBM", report.Symbol)
	assert.Equal(t, 5, report.WindowLength)
	assert.InDelta(t, 9.75, report.Metrics.MeanClosingPrice, 1e-12)
	assert.InDelta(t, 50.0, report.Momentum.Value, 1e-12)
	assert.Empty(t, report.SkippedDays)
}

func TestCompute_ShortHistoryReportsActualLength(t *testing.T) {
	series := models.RawSeries{"2024-09-06": entry("12", "1")}
	report, err := Compute("NEW", series, 30, WindowOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.WindowLength)
	assert.True(t, math.IsNaN(report.Metrics.MeanReturn))
	assert.Equal(t, models.NoPriceMovement, report.Momentum.Undefined.Reason)
}

func TestCompute_StageErrors(t *testing.T) {
	cases := []struct {
		name     string
		series   models.RawSeries
		n        int
		stage    string
		sentinel error
	}{
		{
			name:     "malformed day",
			series:   models.RawSeries{"2024-01-02": entry("1", "1"), "2024-01-03": entry("bad", "1")},
			n:        5,
			stage:    StageWindow,
			sentinel: ErrDecode,
		},
		{
			name:     "zero price",
			series:   models.RawSeries{"2024-01-02": entry("0", "1"), "2024-01-03": entry("2", "1")},
			n:        5,
			stage:    StageDelta,
			sentinel: ErrDivisionByZero,
		},
		{name: "bad window", series: fiveDays(), n: 0, stage: StageWindow, sentinel: ErrInvalidWindow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compute("SYM", tc.series, tc.n, WindowOptions{})
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.sentinel)
			assert.Equal(t, tc.stage, StageOf(err))

			var se *StageError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, "SYM", se.Symbol)
		})
	}
}

func TestCompute_SkipPolicyRecordsSkippedDays(t *testing.T) {
	series := fiveDays()
	series["2024-09-06"] = entry("oops", "1")
	report, err := Compute("IBM", series, 4, WindowOptions{SkipMalformed: true})
	require.NoError(t, err)
	assert.Equal(t, 4, report.WindowLength)
	assert.Equal(t, []string{"2024-09-06"}, report.SkippedDays)
}

func TestStageOf_PlainError(t *testing.T) {
	assert.Equal(t, "", StageOf(ErrEmptyInput))
	assert.Equal(t, "", StageOf(nil))
}

func TestCandidates(t *testing.T) {
	reports := []models.SymbolReport{
		{Symbol: "A", WindowLength: 3, Metrics: models.SymbolMetrics{MeanReturn: 1}},
		{Symbol: "B", WindowLength: 7},
	}
	got := Candidates(reports)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Symbol)
	assert.Equal(t, 1.0, got[0].Metrics.MeanReturn)
	assert.Equal(t, 7, got[1].WindowLength)
}
