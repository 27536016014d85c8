package models

import "math"

// SymbolMetrics summarizes the daily returns of one symbol over a window.
//
// Variance is the population variance of the daily returns and
// StandardDeviation its square root. Every field is NaN when the window
// produced no deltas.
type SymbolMetrics struct {
	MeanReturn        float64
	MeanClosingPrice  float64
	MeanVolume        float64
	Variance          float64
	StandardDeviation float64
}

// UndefinedMetrics is the value reported for an empty delta sequence.
func UndefinedMetrics() SymbolMetrics {
	nan := math.NaN()
	return SymbolMetrics{
		MeanReturn:        nan,
		MeanClosingPrice:  nan,
		MeanVolume:        nan,
		Variance:          nan,
		StandardDeviation: nan,
	}
}

// UndefinedReason explains why a momentum score could not be computed.
type UndefinedReason string

const (
	NoLosingDays    UndefinedReason = "no_losing_days"
	NoWinningDays   UndefinedReason = "no_winning_days"
	NoPriceMovement UndefinedReason = "no_price_movement"
)

// MomentumUndefined marks a momentum score whose gain/loss ratio is degenerate.
type MomentumUndefined struct {
	Reason UndefinedReason
}

// Limit reports the value the oscillator tends to for this reason, if any.
// Only gains saturates toward 100, only losses toward 0.
func (u MomentumUndefined) Limit() (float64, bool) {
	switch u.Reason {
	case NoLosingDays:
		return 100, true
	case NoWinningDays:
		return 0, true
	default:
		return 0, false
	}
}

// MomentumScore is an RSI-style 0..100 oscillator over a window of deltas.
// When Undefined is set, Value is zero and must not be read as a score.
type MomentumScore struct {
	Value       float64
	WinningDays int
	LosingDays  int
	AverageGain float64
	AverageLoss float64
	Undefined   *MomentumUndefined
}

// Defined reports whether Value holds a real score.
func (m MomentumScore) Defined() bool { return m.Undefined == nil }

// Candidate is one symbol entering the ranking.
type Candidate struct {
	Symbol       string
	WindowLength int
	Metrics      SymbolMetrics
}

// RankedResult is the winning candidate together with the score that decided it.
type RankedResult struct {
	Candidate
	Score float64
}
