package main

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"travelshot/internal/infra"
)

// openRunner connects with just DATABASE_URL so the tooling works without a
// complete service configuration.
func openRunner(ctx context.Context, component string) (*infra.SQLRunner, func(), error) {
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		return nil, nil, errors.New("DATABASE_URL is required")
	}

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	pool, err := pgxpool.New(dialCtx, dbURL)
	if err != nil {
		return nil, nil, err
	}
	if err := pool.Ping(dialCtx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	logger := infra.NewLogger(os.Getenv("APP_ENV")).With().Str("cmd", component).Logger()
	return infra.NewSQLRunner(pool, logger), pool.Close, nil
}
