//go:build integration
// +build integration

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/guttosm/tickerrank/db"
	"github.com/guttosm/tickerrank/internal/domain/models"
	_ "github.com/lib/pq"
	goose "github.com/pressly/goose/v3"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres spins up a Postgres container and returns a DSN and terminate func.
func startPostgres(t *testing.T) (dsn string, terminate func()) {
	t.Helper()
	ctx := context.Background()

	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "tickerrank",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
		},
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
			return fmt.Sprintf("host=%s port=%s user=postgres password=postgres dbname=tickerrank sslmode=disable", host, port.Port())
		}).WithStartupTimeout(60 * time.Second),
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container start: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", "postgres", "postgres", host, port.Port(), "tickerrank")
	terminate = func() { _ = container.Terminate(context.Background()) }
	return dsn, terminate
}

func openDB(t *testing.T, dsn string) *sql.DB {
	t.Helper()
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	return conn
}

func runMigrations(t *testing.T, conn *sql.DB) {
	t.Helper()
	goose.SetBaseFS(db.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("dialect: %v", err)
	}
	if err := goose.Up(conn, db.MigrationsDir); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
}

func TestRepository_Integration_TableDriven(t *testing.T) {
	dsn, terminate := startPostgres(t)
	defer terminate()
	conn := openDB(t, dsn)
	defer conn.Close()
	runMigrations(t, conn)

	repo := NewQuotesRepository(conn)
	base := time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
	closes := []string{"10.0000", "11.0000", "9.0000", "9.0000", "12.123456"}
	var quotes []models.Quote
	for i, c := range closes {
		quotes = append(quotes, models.Quote{Symbol: "TEST", Date: base.AddDate(0, 0, i), Close: c, Volume: fmt.Sprintf("%d", 100*(i+1))})
	}
	if err := repo.InsertQuotesBatch(quotes); err != nil {
		t.Fatalf("insert: %v", err)
	}

	cases := []struct {
		name      string
		limit     int
		wantLen   int
		wantFirst string
	}{
		{name: "all rows newest first", limit: 0, wantLen: 5, wantFirst: "12.123456"},
		{name: "limit 2", limit: 2, wantLen: 2, wantFirst: "12.123456"},
		{name: "limit above history", limit: 50, wantLen: 5, wantFirst: "12.123456"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := repo.GetSeries("TEST", tc.limit)
			if err != nil {
				t.Fatalf("GetSeries: %v", err)
			}
			if len(out) != tc.wantLen || out[0].Close != tc.wantFirst {
				t.Fatalf("got len=%d first=%q, want len=%d first=%q", len(out), out[0].Close, tc.wantLen, tc.wantFirst)
			}
		})
	}

	t.Run("latest date", func(t *testing.T) {
		latest, ok, err := repo.LatestQuoteDate("TEST")
		if err != nil || !ok || !latest.Equal(base.AddDate(0, 0, 4)) {
			t.Fatalf("latest=%v ok=%v err=%v", latest, ok, err)
		}
		_, ok, err = repo.LatestQuoteDate("NONE")
		if err != nil || ok {
			t.Fatalf("unknown symbol: ok=%v err=%v", ok, err)
		}
	})

	t.Run("ingestion log upsert+exists", func(t *testing.T) {
		if err := repo.UpsertIngestionLog("TEST", base, "remote", 5); err != nil {
			t.Fatalf("upsert: %v", err)
		}
		if err := repo.UpsertIngestionLog("TEST", base, "remote", 6); err != nil {
			t.Fatalf("second upsert: %v", err)
		}
		ok, err := repo.HasIngestionForSymbol("TEST", base)
		if err != nil || !ok {
			t.Fatalf("exists want true, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("delete by symbol", func(t *testing.T) {
		if err := repo.DeleteQuotesBySymbol("TEST"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		var cnt int
		if err := conn.QueryRow("SELECT COUNT(*) FROM daily_quotes WHERE symbol=$1", "TEST").Scan(&cnt); err != nil {
			t.Fatalf("count: %v", err)
		}
		if cnt != 0 {
			t.Fatalf("expected 0 rows after delete, got %d", cnt)
		}
	})
}
