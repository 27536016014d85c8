package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/tickerrank/internal/domain/models"
)

func entry(close, volume string) models.RawEntry {
	return models.RawEntry{models.FieldClose: close, models.FieldVolume: volume}
}

func fiveDays() models.RawSeries {
	return models.RawSeries{
		"2024-09-06": entry("12.0000", "500"),
		"2024-09-02": entry("10.0000", "100"),
		"2024-09-05": entry("9.0000", "400"),
		"2024-09-03": entry("11.0000", "200"),
		"2024-09-04": entry("9.0000", "300"),
	}
}

func dates(recs []models.DailyRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Date
	}
	return out
}

func TestWindow_SelectsMostRecentOldestFirst(t *testing.T) {
	cases := []struct {
		name  string
		n     int
		want  []string
		price float64
	}{
		{name: "truncates to newest three", n: 3, want: []string{"2024-09-04", "2024-09-05", "2024-09-06"}, price: 9},
		{name: "exact length", n: 5, want: []string{"2024-09-02", "2024-09-03", "2024-09-04", "2024-09-05", "2024-09-06"}, price: 10},
		{name: "window larger than history", n: 250, want: []string{"2024-09-02", "2024-09-03", "2024-09-04", "2024-09-05", "2024-09-06"}, price: 10},
		{name: "single day", n: 1, want: []string{"2024-09-06"}, price: 12},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Window(fiveDays(), tc.n, WindowOptions{})
			require.NoError(t, err)
			assert.Equal(t, tc.want, dates(res.Records))
			assert.Equal(t, tc.price, res.Records[0].ClosingPrice)
			assert.Empty(t, res.Skipped)
		})
	}
}

func TestWindow_DecodesFields(t *testing.T) {
	series := models.RawSeries{"2024-01-02": entry(" 187.2100 ", "51230044")}
	res, err := Window(series, 10, WindowOptions{})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, models.DailyRecord{Date: "2024-01-02", ClosingPrice: 187.21, Volume: 51230044}, res.Records[0])
}

func TestWindow_EmptySeries(t *testing.T) {
	for _, s := range []models.RawSeries{nil, {}} {
		res, err := Window(s, 5, WindowOptions{})
		require.NoError(t, err)
		assert.NotNil(t, res.Records)
		assert.Len(t, res.Records, 0)
	}
}

func TestWindow_InvalidLength(t *testing.T) {
	for _, n := range []int{0, -3} {
		_, err := Window(fiveDays(), n, WindowOptions{})
		assert.ErrorIs(t, err, ErrInvalidWindow)
	}
}

func TestWindow_StrictPolicy(t *testing.T) {
	cases := []struct {
		name      string
		day       models.RawEntry
		sentinel  error
		wantField string
	}{
		{name: "missing close", day: models.RawEntry{models.FieldVolume: "10"}, sentinel: ErrMissingField, wantField: models.FieldClose},
		{name: "missing volume", day: models.RawEntry{models.FieldClose: "10"}, sentinel: ErrMissingField, wantField: models.FieldVolume},
		{name: "garbage close", day: entry("abc", "10"), sentinel: ErrDecode, wantField: models.FieldClose},
		{name: "empty volume", day: entry("10", ""), sentinel: ErrDecode, wantField: models.FieldVolume},
		{name: "negative close", day: entry("-1.5", "10"), sentinel: ErrDecode, wantField: models.FieldClose},
		{name: "overflowing close", day: entry("1e400", "10"), sentinel: ErrDecode, wantField: models.FieldClose},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			series := fiveDays()
			series["2024-09-05"] = tc.day
			_, err := Window(series, 3, WindowOptions{})
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.sentinel)

			var missing *MissingFieldError
			var decode *DecodeError
			switch {
			case errors.As(err, &missing):
				assert.Equal(t, "2024-09-05", missing.Date)
				assert.Equal(t, tc.wantField, missing.Field)
			case errors.As(err, &decode):
				assert.Equal(t, "2024-09-05", decode.Date)
				assert.Equal(t, tc.wantField, decode.Field)
			default:
				t.Fatalf("unexpected error type %T", err)
			}
		})
	}
}

func TestWindow_MalformedDayOutsideWindowIsIgnored(t *testing.T) {
	series := fiveDays()
	series["2024-09-02"] = entry("n/a", "100")
	res, err := Window(series, 3, WindowOptions{})
	require.NoError(t, err)
	assert.Len(t, res.Records, 3)
}

func TestWindow_SkipPolicy(t *testing.T) {
	series := fiveDays()
	series["2024-09-05"] = entry("n/a", "400")
	series["2024-09-06"] = models.RawEntry{models.FieldClose: "12"}

	res, err := Window(series, 3, WindowOptions{SkipMalformed: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-09-02", "2024-09-03", "2024-09-04"}, dates(res.Records))
	assert.Equal(t, []string{"2024-09-05", "2024-09-06"}, res.Skipped)
}

func TestWindow_SkipPolicyAllMalformed(t *testing.T) {
	series := models.RawSeries{"2024-09-02": entry("x", "y")}
	res, err := Window(series, 3, WindowOptions{SkipMalformed: true})
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.Equal(t, []string{"2024-09-02"}, res.Skipped)
}
