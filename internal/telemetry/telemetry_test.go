package telemetry

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestOutcome(t *testing.T) {
	if got := Outcome(nil); got != OutcomeOK {
		t.Fatalf("Outcome(nil)=%q", got)
	}
	if got := Outcome(errors.New("x")); got != OutcomeError {
		t.Fatalf("Outcome(err)=%q", got)
	}
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(ProviderRequests.WithLabelValues("test", OutcomeOK))
	ProviderRequests.WithLabelValues("test", OutcomeOK).Inc()
	if got := testutil.ToFloat64(ProviderRequests.WithLabelValues("test", OutcomeOK)); got != before+1 {
		t.Fatalf("counter=%v want %v", got, before+1)
	}
}

func TestHandler(t *testing.T) {
	Analyses.WithLabelValues(OutcomeOK).Inc()

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "tickerrank_analyses_total") {
		t.Fatalf("metrics output missing analyses counter")
	}
}
