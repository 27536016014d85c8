package models

import "time"

// Quote is one cached daily bar as stored in Postgres.
//
// Close and Volume keep the provider's decimal text so the cache never loses
// precision; they are decoded only when a window is built.
type Quote struct {
	Symbol string
	Date   time.Time
	Close  string
	Volume string
}
