package db

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/l5rgo/internal/testutil"
)

// testPool: shared pool для всех tests; nil, если PostgreSQL недоступен
var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	ctx := context.Background()

	dsn, stop, err := testutil.Postgres(ctx)
	if err != nil {
		log.Printf("postgres unavailable, database tests will be skipped: %v", err)
		return m.Run()
	}
	defer stop()

	if _, err := RunMigrations(ctx, dsn); err != nil {
		log.Fatalf("running migrations: %v", err)
	}

	db, err := New(ctx, dsn)
	if err != nil {
		log.Fatalf("connecting to test db: %v", err)
	}
	defer db.Close()
	testPool = db.Pool()

	return m.Run()
}

// setupTestDB возвращает shared pool с пустыми таблицами журналов.
func setupTestDB(tb testing.TB) *pgxpool.Pool {
	tb.Helper()
	if testPool == nil {
		tb.Skip("postgres unavailable")
	}
	if _, err := testPool.Exec(context.Background(), `TRUNCATE effect_journals CASCADE`); err != nil {
		tb.Fatalf("truncating journals: %v", err)
	}
	return testPool
}
