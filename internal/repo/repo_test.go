package repo

import (
	"context"
	"database/sql"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ozaibAuday/telegram-admin-bot/internal/db"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.EnsureSchema(context.Background(), conn))
	return conn
}

func ptr(s string) *string { return &s }

func testLogger() zerolog.Logger { return zerolog.Nop() }
