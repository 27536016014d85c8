package metrics

import (
	"math"

	"github.com/guttosm/tickerrank/internal/domain/models"
)

// Momentum computes the relative-strength oscillator of a delta window.
//
// Positive changes are winning days, negative changes losing days, and flat
// days count as neither. The score is 100 - 100/(1+gain/loss). A window without
// losses, without gains, or without any movement returns a score whose
// Undefined field names the reason instead of an infinite or NaN value.
func Momentum(deltas []models.DeltaRecord) models.MomentumScore {
	var (
		winning, losing int
		gains, losses   float64
	)
	for _, d := range deltas {
		switch {
		case d.ChangeInValue > 0:
			winning++
			gains += d.ChangeInValue
		case d.ChangeInValue < 0:
			losing++
			losses += math.Abs(d.ChangeInValue)
		}
	}

	score := models.MomentumScore{WinningDays: winning, LosingDays: losing}
	if winning > 0 {
		score.AverageGain = gains / float64(winning)
	}
	if losing > 0 {
		score.AverageLoss = losses / float64(losing)
	}

	switch {
	case winning == 0 && losing == 0:
		score.Undefined = &models.MomentumUndefined{Reason: models.NoPriceMovement}
	case losing == 0:
		score.Undefined = &models.MomentumUndefined{Reason: models.NoLosingDays}
	case winning == 0:
		score.Undefined = &models.MomentumUndefined{Reason: models.NoWinningDays}
	default:
		rs := score.AverageGain / score.AverageLoss
		score.Value = 100 - 100/(1+rs)
	}
	return score
}
