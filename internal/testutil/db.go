// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"os"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// DatabaseDSNEnv overrides the container with an existing database.
const DatabaseDSNEnv = "L5R_TEST_DATABASE_DSN"

// Postgres возвращает DSN тестовой базы и функцию её остановки.
// Если задан L5R_TEST_DATABASE_DSN, контейнер не поднимается.
func Postgres(ctx context.Context) (dsn string, stop func(), err error) {
	if dsn := os.Getenv(DatabaseDSNEnv); dsn != "" {
		return dsn, func() {}, nil
	}

	// PostgreSQL 16 через модуль postgres
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return "", nil, fmt.Errorf("starting postgres container: %w", err)
	}
	stop = func() {
		_ = testcontainers.TerminateContainer(container)
	}

	dsn, err = container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		stop()
		return "", nil, fmt.Errorf("getting connection string: %w", err)
	}
	return dsn, stop, nil
}
