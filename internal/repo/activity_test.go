package repo

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	act := NewActivity(newTestDB(t), testLogger())

	for i := 0; i < 5; i++ {
		act.Record(ctx, int64(i), fmt.Sprintf("/cmd%d", i), "desc")
	}

	entries, err := act.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// newest first
	assert.Equal(t, "/cmd4", entries[0].Command)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].Timestamp.After(entries[i-1].Timestamp))
	}
}

func TestActivityByUser(t *testing.T) {
	ctx := context.Background()
	act := NewActivity(newTestDB(t), testLogger())

	act.Record(ctx, 1, "/start", "")
	act.Record(ctx, 2, "/help", "")
	act.Record(ctx, 1, "/profile", "")

	entries, err := act.ByUser(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "/profile", entries[0].Command)
	assert.Equal(t, "/start", entries[1].Command)
}

func TestActivityRecordSwallowsErrors(t *testing.T) {
	conn := newTestDB(t)
	act := NewActivity(conn, testLogger())

	require.NoError(t, conn.Close())
	// must not panic; logging is best-effort
	act.Record(context.Background(), 1, "/start", "")
}

func TestActivityDeleteOlderThan(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	act := NewActivity(conn, testLogger())

	// one fresh entry, two stale ones
	act.Record(ctx, 1, "/start", "")
	for i := 0; i < 2; i++ {
		_, err := conn.ExecContext(ctx, `
			INSERT INTO activity_log(user_id, command, description, timestamp)
			VALUES(1, '/old', '', datetime('now', '-40 days'))
		`)
		require.NoError(t, err)
	}

	removed, err := act.DeleteOlderThan(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	entries, err := act.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "/start", entries[0].Command)
}

func TestActivityRecentDefaultLimit(t *testing.T) {
	ctx := context.Background()
	act := NewActivity(newTestDB(t), testLogger())

	for i := 0; i < 105; i++ {
		act.Record(ctx, 1, "/x", "")
	}

	entries, err := act.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 100)
}
