package provider

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/guttosm/tickerrank/internal/domain/models"
)

const (
	keyNote        = "Note"
	keyInformation = "Information"
	keyError       = "Error Message"
	seriesPrefix   = "Time Series"
)

// DecodeDaily parses an Alpha Vantage daily series payload into a RawSeries.
//
// Numbered payload keys ("4. close", "6. volume") are normalized to the bare
// field names. Other fields are kept under their normalized names and ignored
// downstream. Throttling and error notices in the body become *APIError.
func DecodeDaily(body []byte) (models.RawSeries, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if err := noticeError(top); err != nil {
		return nil, err
	}

	var raw json.RawMessage
	for k, v := range top {
		if strings.HasPrefix(k, seriesPrefix) {
			raw = v
			break
		}
	}
	if raw == nil {
		return nil, ErrNoSeries
	}

	var days map[string]map[string]json.RawMessage
	if err := json.Unmarshal(raw, &days); err != nil {
		return nil, fmt.Errorf("decode daily series: %w", err)
	}

	series := make(models.RawSeries, len(days))
	for date, fields := range days {
		entry := make(models.RawEntry, len(fields))
		for k, v := range fields {
			entry[fieldName(k)] = scalarText(v)
		}
		series[date] = entry
	}
	return series, nil
}

func noticeError(top map[string]json.RawMessage) error {
	if msg, ok := stringField(top, keyError); ok {
		return &APIError{Kind: ErrNotFound, Message: msg}
	}
	for _, k := range []string{keyNote, keyInformation} {
		if msg, ok := stringField(top, k); ok {
			return &APIError{Kind: ErrRateLimited, Message: msg}
		}
	}
	return nil
}

func stringField(top map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := top[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return string(raw), true
	}
	return s, true
}

// fieldName turns "4. close" into "close" and "5. adjusted close" into
// "adjusted close".
func fieldName(k string) string {
	if i := strings.Index(k, ". "); i >= 0 {
		k = k[i+2:]
	}
	return strings.ToLower(strings.TrimSpace(k))
}

// scalarText returns string values unquoted and any other JSON value verbatim,
// so a numeric volume still reaches the decimal decoder.
func scalarText(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(v))
}
