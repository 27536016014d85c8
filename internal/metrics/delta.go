package metrics

import "github.com/guttosm/tickerrank/internal/domain/models"

// Deltas turns chronologically ordered days into day-over-day moves.
//
// n records produce n-1 deltas; zero or one record produce none. A zero
// closing price on any day but the last fails with *DivisionByZeroError, since
// that price is the denominator of the next return.
func Deltas(records []models.DailyRecord) ([]models.DeltaRecord, error) {
	if len(records) < 2 {
		return []models.DeltaRecord{}, nil
	}

	out := make([]models.DeltaRecord, 0, len(records)-1)
	for i := 0; i < len(records)-1; i++ {
		cur, next := records[i], records[i+1]
		if cur.ClosingPrice == 0 {
			return nil, &DivisionByZeroError{Date: cur.Date, Index: i}
		}
		change := next.ClosingPrice - cur.ClosingPrice
		out = append(out, models.DeltaRecord{
			Date:          cur.Date,
			ClosingPrice:  cur.ClosingPrice,
			Volume:        cur.Volume,
			ChangeInValue: change,
			DailyReturn:   change / cur.ClosingPrice,
		})
	}
	return out, nil
}
