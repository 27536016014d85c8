package metrics

import (
	"math"
	"sort"

	"github.com/guttosm/tickerrank/internal/domain/models"
)

// Score is the risk-adjusted ranking heuristic: mean return over mean price.
func Score(m models.SymbolMetrics) float64 {
	return m.MeanReturn / m.MeanClosingPrice
}

// compareScores is a total order over float64 in which NaN sorts below every
// number and equal to itself.
func compareScores(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return -1
	case bNaN:
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Rank returns the candidate with the highest Score. On ties the earliest
// candidate wins. A single candidate is returned whatever its score.
func Rank(cands []models.Candidate) (models.RankedResult, error) {
	if len(cands) == 0 {
		return models.RankedResult{}, ErrEmptyInput
	}
	best := models.RankedResult{Candidate: cands[0], Score: Score(cands[0].Metrics)}
	for _, c := range cands[1:] {
		s := Score(c.Metrics)
		if compareScores(s, best.Score) > 0 {
			best = models.RankedResult{Candidate: c, Score: s}
		}
	}
	return best, nil
}

// Order returns every candidate with its score, best first, using the same
// ordering as Rank. The input slice is left untouched.
func Order(cands []models.Candidate) []models.RankedResult {
	out := make([]models.RankedResult, len(cands))
	for i, c := range cands {
		out[i] = models.RankedResult{Candidate: c, Score: Score(c.Metrics)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return compareScores(out[i].Score, out[j].Score) > 0
	})
	return out
}
