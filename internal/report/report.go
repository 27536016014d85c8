// Package report renders an analysis as the plain-text CLI report.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/guttosm/tickerrank/internal/domain/models"
)

// Write prints every analyzed symbol, the symbols that failed, and the winner.
// Undefined values print as "n/a".
func Write(w io.Writer, a models.Analysis) error {
	p := &printer{w: w}

	for _, r := range a.Reports {
		n := r.WindowLength
		p.linef("Stock Symbol: %s", r.Symbol)
		p.linef("Mean value return (last %d days): %s", n, num(r.Metrics.MeanReturn))
		p.linef("Variance of value (last %d days): %s", n, num(r.Metrics.Variance))
		p.linef("Standard deviation of value (last %d days): %s", n, num(r.Metrics.StandardDeviation))
		p.linef("Mean value (last %d days): %s", n, num(r.Metrics.MeanClosingPrice))
		p.linef("Mean volume (last %d days): %s", n, volume(r.Metrics.MeanVolume))
		p.linef("Momentum (last %d days): %s", n, momentum(r.Momentum))
		if len(r.SkippedDays) > 0 {
			p.linef("Skipped days: %d", len(r.SkippedDays))
		}
		p.linef("")
	}

	for _, f := range a.Failures {
		p.linef("Stock Symbol: %s failed at %s: %v", f.Symbol, f.Stage, f.Err)
	}
	if len(a.Failures) > 0 {
		p.linef("")
	}

	if a.Winner == nil {
		if a.RankErr != nil {
			p.linef("No stock could be ranked: %v", a.RankErr)
		} else {
			p.linef("No stock could be ranked")
		}
		return p.err
	}

	p.linef("A higher performance score is better")
	p.linef("")
	p.linef("Most performant stock in the last %d days...", a.RequestedWindow)
	p.linef("Stock Symbol: %s", a.Winner.Symbol)
	p.linef("Performance Score: %s", num(a.Winner.Score))
	return p.err
}

// printer keeps the first write error so callers check once.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) linef(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

func num(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "n/a"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func volume(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "n/a"
	}
	return humanize.CommafWithDigits(f, 2)
}

func momentum(m models.MomentumScore) string {
	if m.Defined() {
		return num(m.Value)
	}
	if limit, ok := m.Undefined.Limit(); ok {
		return fmt.Sprintf("undefined (%s, tends to %s)", m.Undefined.Reason, num(limit))
	}
	return fmt.Sprintf("undefined (%s)", m.Undefined.Reason)
}
