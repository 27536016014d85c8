package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	down := func() error { return errors.New("connection refused") }
	up := func() error { return nil }

	cases := []struct {
		name       string
		source     string
		ping       func() error
		path       string
		want       int
		wantStatus string
	}{
		{name: "healthz ok", source: "postgres", ping: down, path: "/healthz", want: 200, wantStatus: "ok"},
		{name: "readyz cache up", source: "postgres", ping: up, path: "/readyz", want: 200, wantStatus: "ready"},
		{name: "readyz cache down", source: "postgres", ping: down, path: "/readyz", want: 503, wantStatus: "degraded"},
		{name: "readyz nothing to probe", source: "remote", path: "/readyz", want: 200, wantStatus: "ready"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			NewHealthHandler(tc.source, tc.ping).Register(r)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
			if w.Code != tc.want {
				t.Fatalf("want %d got %d", tc.want, w.Code)
			}

			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("json: %v", err)
			}
			if body["status"] != tc.wantStatus {
				t.Fatalf("want status %q got %q", tc.wantStatus, body["status"])
			}
			if tc.path == "/readyz" && body["source"] != tc.source {
				t.Fatalf("want source %q got %q", tc.source, body["source"])
			}
		})
	}
}
