package db

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

//go:embed schema.sql
var SchemaSQL string

// EnsureSchema creates the tables the service needs when they are missing.
// All statements are idempotent.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, SchemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	log.Debugln("db schema ensured")
	return nil
}
