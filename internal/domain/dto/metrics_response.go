package dto

import (
	"math"

	"github.com/guttosm/tickerrank/internal/domain/models"
)

// Undefined statistics (NaN) are rendered as JSON null.

// MetricsResponse is the per-symbol part of an analysis.
type MetricsResponse struct {
	Symbol            string           `json:"symbol" example:"IBM"`
	WindowLength      int              `json:"window_length" example:"30"`
	MeanReturn        *float64         `json:"mean_return" example:"0.0012"`
	MeanClosingPrice  *float64         `json:"mean_closing_price" example:"212.4"`
	MeanVolume        *float64         `json:"mean_volume" example:"3120000"`
	Variance          *float64         `json:"variance" example:"0.00018"`
	StandardDeviation *float64         `json:"standard_deviation" example:"0.0134"`
	Momentum          MomentumResponse `json:"momentum"`
	SkippedDays       []string         `json:"skipped_days,omitempty"`
}

// MomentumResponse carries the oscillator. Value is null when the window
// has no losing days, no winning days or no movement; UndefinedReason then
// names the case and Limit the value the score tends to, if any.
type MomentumResponse struct {
	Value           *float64 `json:"value" example:"57.1"`
	WinningDays     int      `json:"winning_days" example:"16"`
	LosingDays      int      `json:"losing_days" example:"13"`
	AverageGain     float64  `json:"average_gain" example:"1.92"`
	AverageLoss     float64  `json:"average_loss" example:"1.77"`
	UndefinedReason string   `json:"undefined_reason,omitempty" example:"no_losing_days"`
	Limit           *float64 `json:"limit,omitempty" example:"100"`
}

// RankedResponse is one scored candidate.
type RankedResponse struct {
	Symbol       string   `json:"symbol" example:"MSFT"`
	WindowLength int      `json:"window_length" example:"30"`
	Score        *float64 `json:"score" example:"0.0000031"`
}

// FailureResponse reports a symbol that could not be analyzed.
type FailureResponse struct {
	Symbol string `json:"symbol" example:"XXXX"`
	Stage  string `json:"stage" example:"fetch"`
	Error  string `json:"error" example:"symbol not found"`
}

// AnalysisResponse is returned by GET /api/v1/metrics.
type AnalysisResponse struct {
	RequestedWindow int               `json:"requested_window" example:"30"`
	Source          string            `json:"source" example:"alphavantage"`
	Results         []MetricsResponse `json:"results"`
	Failures        []FailureResponse `json:"failures"`
	Winner          *RankedResponse   `json:"winner"`
	RankError       string            `json:"rank_error,omitempty"`
}

// RankResponse is returned by GET /api/v1/rank.
type RankResponse struct {
	RequestedWindow int               `json:"requested_window" example:"30"`
	Source          string            `json:"source" example:"alphavantage"`
	Ranking         []RankedResponse  `json:"ranking"`
	Winner          *RankedResponse   `json:"winner"`
	Failures        []FailureResponse `json:"failures"`
}

// ComputeRequest is the body of POST /api/v1/metrics/compute. The three
// columns are matched by position and must have equal lengths.
type ComputeRequest struct {
	Symbol        string    `json:"symbol" binding:"required" example:"IBM"`
	Dates         []string  `json:"dates" binding:"required" example:"2024-09-05,2024-09-06"`
	ClosingPrices []float64 `json:"closing_prices" binding:"required"`
	Volumes       []float64 `json:"volumes" binding:"required"`
}

// FloatPtr returns nil for NaN and infinities.
func FloatPtr(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func NewMetricsResponse(r models.SymbolReport) MetricsResponse {
	m := r.Metrics
	mom := MomentumResponse{
		WinningDays: r.Momentum.WinningDays,
		LosingDays:  r.Momentum.LosingDays,
		AverageGain: r.Momentum.AverageGain,
		AverageLoss: r.Momentum.AverageLoss,
	}
	if r.Momentum.Defined() {
		mom.Value = FloatPtr(r.Momentum.Value)
	} else {
		mom.UndefinedReason = string(r.Momentum.Undefined.Reason)
		if limit, ok := r.Momentum.Undefined.Limit(); ok {
			mom.Limit = &limit
		}
	}
	return MetricsResponse{
		Symbol:            r.Symbol,
		WindowLength:      r.WindowLength,
		MeanReturn:        FloatPtr(m.MeanReturn),
		MeanClosingPrice:  FloatPtr(m.MeanClosingPrice),
		MeanVolume:        FloatPtr(m.MeanVolume),
		Variance:          FloatPtr(m.Variance),
		StandardDeviation: FloatPtr(m.StandardDeviation),
		Momentum:          mom,
		SkippedDays:       r.SkippedDays,
	}
}

func NewRankedResponse(r models.RankedResult) RankedResponse {
	return RankedResponse{Symbol: r.Symbol, WindowLength: r.WindowLength, Score: FloatPtr(r.Score)}
}

func newFailures(in []models.SymbolFailure) []FailureResponse {
	out := make([]FailureResponse, 0, len(in))
	for _, f := range in {
		out = append(out, FailureResponse{Symbol: f.Symbol, Stage: f.Stage, Error: f.Err.Error()})
	}
	return out
}

func NewAnalysisResponse(a models.Analysis) AnalysisResponse {
	resp := AnalysisResponse{
		RequestedWindow: a.RequestedWindow,
		Source:          a.Source,
		Results:         make([]MetricsResponse, 0, len(a.Reports)),
		Failures:        newFailures(a.Failures),
	}
	for _, r := range a.Reports {
		resp.Results = append(resp.Results, NewMetricsResponse(r))
	}
	if a.Winner != nil {
		w := NewRankedResponse(*a.Winner)
		resp.Winner = &w
	}
	if a.RankErr != nil {
		resp.RankError = a.RankErr.Error()
	}
	return resp
}

// NewRankResponse renders an analysis with its candidates already ordered best first.
func NewRankResponse(a models.Analysis, ordered []models.RankedResult) RankResponse {
	resp := RankResponse{
		RequestedWindow: a.RequestedWindow,
		Source:          a.Source,
		Ranking:         make([]RankedResponse, 0, len(ordered)),
		Failures:        newFailures(a.Failures),
	}
	for _, r := range ordered {
		resp.Ranking = append(resp.Ranking, NewRankedResponse(r))
	}
	if a.Winner != nil {
		w := NewRankedResponse(*a.Winner)
		resp.Winner = &w
	}
	return resp
}
