package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zertkwork/d2c-food-menu-app/pkg/logger"
)

// Connect opens a pgx pool against the given connection string and verifies
// the connection with a ping before returning.
func Connect(ctx context.Context, connStr string, log logger.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	log.Action("db_connected").Info("Connected to PostgreSQL database")
	return pool, nil
}
