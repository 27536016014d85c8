package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, h http.HandlerFunc, retries int) (*AlphaVantage, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	av, err := NewAlphaVantage(AlphaVantageOptions{
		BaseURL:    srv.URL,
		APIKey:     "test-key",
		MaxRetries: retries,
		Backoff:    time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewAlphaVantage: %v", err)
	}
	return av, srv
}

func TestNewAlphaVantage_RequiresKey(t *testing.T) {
	if _, err := NewAlphaVantage(AlphaVantageOptions{}); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("want ErrMissingAPIKey, got %v", err)
	}
}

func TestOutputSizeFor(t *testing.T) {
	cases := []struct {
		window int
		want   string
	}{
		{AllHistory, OutputFull},
		{-1, OutputFull},
		{1, OutputCompact},
		{100, OutputCompact},
		{101, OutputFull},
		{250, OutputFull},
	}
	for _, c := range cases {
		if got := OutputSizeFor(c.window); got != c.want {
			t.Fatalf("OutputSizeFor(%d)=%q, want %q", c.window, got, c.want)
		}
	}
}

func TestAlphaVantage_FetchSeries(t *testing.T) {
	av, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("symbol") != "IBM" || q.Get("apikey") != "test-key" || q.Get("function") != "TIME_SERIES_DAILY_ADJUSTED" || q.Get("outputsize") != OutputCompact {
			t.Errorf("unexpected query: %v", q)
		}
		_, _ = w.Write([]byte(dailyPayload))
	}, 0)

	series, err := av.FetchSeries(context.Background(), "IBM", 30)
	if err != nil {
		t.Fatalf("FetchSeries: %v", err)
	}
	if len(series) != 3 {
		t.Fatalf("want 3 days, got %d", len(series))
	}
	if av.Name() != "alphavantage" {
		t.Fatalf("name=%q", av.Name())
	}
}

func TestAlphaVantage_OutputSizePerFetch(t *testing.T) {
	var mu sync.Mutex
	var sizes []string
	av, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		sizes = append(sizes, r.URL.Query().Get("outputsize"))
		mu.Unlock()
		_, _ = w.Write([]byte(dailyPayload))
	}, 0)

	for _, days := range []int{30, 150, AllHistory} {
		if _, err := av.FetchSeries(context.Background(), "IBM", days); err != nil {
			t.Fatalf("FetchSeries(%d): %v", days, err)
		}
	}
	want := []string{OutputCompact, OutputFull, OutputFull}
	if !reflect.DeepEqual(sizes, want) {
		t.Fatalf("outputsize=%v want %v", sizes, want)
	}
}

func TestAlphaVantage_RetriesThenSucceeds(t *testing.T) {
	cases := []struct {
		name  string
		first func(w http.ResponseWriter)
	}{
		{name: "throttle note", first: func(w http.ResponseWriter) { _, _ = w.Write([]byte(notePayload)) }},
		{name: "server error", first: func(w http.ResponseWriter) { w.WriteHeader(http.StatusBadGateway) }},
		{name: "too many requests", first: func(w http.ResponseWriter) { w.WriteHeader(http.StatusTooManyRequests) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var calls int32
			av, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if atomic.AddInt32(&calls, 1) == 1 {
					tc.first(w)
					return
				}
				_, _ = w.Write([]byte(dailyPayload))
			}, 2)

			if _, err := av.FetchSeries(context.Background(), "IBM", 30); err != nil {
				t.Fatalf("FetchSeries: %v", err)
			}
			if got := atomic.LoadInt32(&calls); got != 2 {
				t.Fatalf("want 2 calls, got %d", got)
			}
		})
	}
}

func TestAlphaVantage_ExhaustsRetries(t *testing.T) {
	var calls int32
	av, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(notePayload))
	}, 2)

	_, err := av.FetchSeries(context.Background(), "IBM", 30)
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("want ErrRateLimited, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("want 3 calls, got %d", got)
	}
}

func TestAlphaVantage_UnknownSymbolIsNotRetried(t *testing.T) {
	var calls int32
	av, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(errorPayload))
	}, 3)

	_, err := av.FetchSeries(context.Background(), "NOPE", 30)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("want 1 call, got %d", got)
	}
}

func TestAlphaVantage_ContextCanceled(t *testing.T) {
	av, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(dailyPayload))
	}, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := av.FetchSeries(ctx, "IBM", 30); err == nil {
		t.Fatalf("expected error on canceled context")
	}
}

func TestAlphaVantage_ValidateKey(t *testing.T) {
	cases := []struct {
		name string
		body string
		want bool
	}{
		{name: "valid", body: `{"Meta Data": {}, "Time Series (5min)": {"2024-09-06 16:00:00": {"4. close": "1", "5. volume": "1"}}}`, want: true},
		{name: "throttled", body: notePayload, want: false},
		{name: "rejected", body: errorPayload, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			av, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("function") != "TIME_SERIES_INTRADAY" {
					t.Errorf("unexpected function %q", r.URL.Query().Get("function"))
				}
				_, _ = w.Write([]byte(tc.body))
			}, 0)
			ok, err := av.ValidateKey(context.Background())
			if err != nil {
				t.Fatalf("ValidateKey: %v", err)
			}
			if ok != tc.want {
				t.Fatalf("ValidateKey=%v, want %v", ok, tc.want)
			}
		})
	}
}
