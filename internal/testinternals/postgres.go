// Package testinternals holds fixtures shared by the repo integration tests.
package testinternals

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/2beens/fitjournal/internal/db"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

const testDBName = "fitjournal"

// NewTestDBPool connects to the Postgres at POSTGRES_HOST (localhost by default)
// and makes sure the schema exists.
func NewTestDBPool(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		host = "localhost"
	}
	t.Logf("using postres host: %s", host)

	dbPool, err := db.NewDBPool(timeoutCtx, db.NewDBPoolParams{
		DBHost:         host,
		DBPort:         "5432",
		DBName:         testDBName,
		DBUser:         "postgres",
		DBPassword:     os.Getenv("POSTGRES_PASSWORD"),
		TracingEnabled: false,
	})
	require.NoError(t, err)
	require.NoError(t, db.EnsureSchema(timeoutCtx, dbPool))

	return dbPool, func() {
		dbPool.Close()
	}
}

// AddTestUser inserts a user with a random username and returns its id.
func AddTestUser(ctx context.Context, t *testing.T, dbPool *pgxpool.Pool) int {
	t.Helper()

	var id int
	err := dbPool.QueryRow(ctx, `
		INSERT INTO app_user (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id
	`,
		gofakeit.Username()+gofakeit.DigitN(6),
		gofakeit.Email(),
		"not-a-real-hash",
	).Scan(&id)
	require.NoError(t, err)

	return id
}
