package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guttosm/tickerrank/config"
	"github.com/guttosm/tickerrank/internal/domain/models"
	"github.com/guttosm/tickerrank/internal/storage"
)

type fakeRepo struct {
	storage.QuotesRepository
	quotes    []models.Quote
	err       error
	lastLimit int
}

func (f *fakeRepo) GetSeries(symbol string, limit int) ([]models.Quote, error) {
	f.lastLimit = limit
	return f.quotes, f.err
}

func TestStored_FetchSeries(t *testing.T) {
	d := time.Date(2024, 9, 6, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name    string
		repo    *fakeRepo
		wantErr error
		wantLen int
	}{
		{
			name:    "cached",
			repo:    &fakeRepo{quotes: []models.Quote{{Symbol: "IBM", Date: d, Close: "214.500000", Volume: "3000000.0000"}}},
			wantLen: 1,
		},
		{name: "nothing cached", repo: &fakeRepo{}, wantErr: ErrNotFound},
		{name: "db failure", repo: &fakeRepo{err: errors.New("db down")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			series, err := NewStored(tc.repo).FetchSeries(context.Background(), "IBM", 40)
			if tc.name == "db failure" {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("want %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FetchSeries: %v", err)
			}
			if len(series) != tc.wantLen || series["2024-09-06"][models.FieldClose] != "214.500000" {
				t.Fatalf("unexpected series: %v", series)
			}
			if tc.repo.lastLimit != 40 {
				t.Fatalf("limit not forwarded: %d", tc.repo.lastLimit)
			}
		})
	}
}

func TestNew(t *testing.T) {
	cfg := config.Config{
		AlphaVantage: config.AlphaVantageConfig{APIKey: "k"},
		Analysis:     config.AnalysisConfig{LocalDataDir: t.TempDir()},
	}
	cases := []struct {
		name     string
		source   string
		repo     storage.QuotesRepository
		wantName string
		wantErr  error
	}{
		{name: "remote", source: config.SourceRemote, wantName: "alphavantage"},
		{name: "local", source: config.SourceLocal, wantName: "local"},
		{name: "postgres", source: config.SourcePostgres, repo: &fakeRepo{}, wantName: "postgres"},
		{name: "postgres without repo", source: config.SourcePostgres, wantErr: ErrNoRepository},
		{name: "unknown", source: "ftp", wantErr: ErrUnknownSource},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := New(tc.source, cfg, tc.repo)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("want %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if p.Name() != tc.wantName {
				t.Fatalf("name=%q want %q", p.Name(), tc.wantName)
			}
		})
	}
}

func TestNew_RemoteWithoutKey(t *testing.T) {
	if _, err := New(config.SourceRemote, config.Config{}, nil); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("want ErrMissingAPIKey, got %v", err)
	}
}
