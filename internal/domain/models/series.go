package models

// Normalized field keys of a RawEntry. Provider adapters translate their own
// payload keys (e.g. Alpha Vantage "4. close") into these.
const (
	FieldClose  = "close"
	FieldVolume = "volume"
)

// DateLayout is the layout of RawSeries keys.
const DateLayout = "2006-01-02"

// RawEntry is one trading day as handed over by a provider: field name to
// decimal-encoded string. A field may be absent.
type RawEntry map[string]string

// RawSeries maps an ISO-8601 date key ("2006-01-02") to the raw entry for that
// day. Map iteration order carries no meaning; consumers sort the keys.
type RawSeries map[string]RawEntry

// DailyRecord is a decoded trading day. ClosingPrice and Volume are finite and
// non-negative.
type DailyRecord struct {
	Date         string  `json:"date" example:"2024-09-02"`
	ClosingPrice float64 `json:"closing_price" example:"187.21"`
	Volume       float64 `json:"volume" example:"51230044"`
}

// DeltaRecord describes the move from one trading day to the next.
//
// Date, ClosingPrice and Volume belong to the earlier of the two days, which
// is also the denominator of DailyReturn.
type DeltaRecord struct {
	Date          string  `json:"date"`
	ClosingPrice  float64 `json:"closing_price"`
	Volume        float64 `json:"volume"`
	ChangeInValue float64 `json:"change_in_value"`
	DailyReturn   float64 `json:"daily_return"`
}
