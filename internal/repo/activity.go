package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ozaibAuday/telegram-admin-bot/internal/domain"
)

const (
	defaultUserActivityLimit = 50
	defaultRecentLimit       = 100
	defaultRetentionDays     = 30
)

// Activity owns all writes to the append-only activity_log table.
type Activity struct {
	db  *sql.DB
	log zerolog.Logger
}

func NewActivity(db *sql.DB, log zerolog.Logger) *Activity {
	return &Activity{db: db, log: log}
}

// Record appends one entry. Best-effort: an insert failure is logged for
// operator visibility and never propagated, so audit logging can never
// fail the user-facing action it accompanies.
func (r *Activity) Record(ctx context.Context, userID int64, command, description string) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activity_log(user_id, command, description)
		VALUES(?,?,?)
	`, userID, command, description)
	if err != nil {
		r.log.Error().Err(err).Int64("user_id", userID).Str("command", command).Msg("record activity")
	}
}

// ByUser returns entries for one user, newest first, capped at limit
// (default 50).
func (r *Activity) ByUser(ctx context.Context, userID int64, limit int) ([]domain.ActivityEntry, error) {
	if limit <= 0 {
		limit = defaultUserActivityLimit
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, command, description, timestamp
		FROM activity_log
		WHERE user_id = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("user activity: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// Recent returns entries across all users, newest first, capped at limit
// (default 100).
func (r *Activity) Recent(ctx context.Context, limit int) ([]domain.ActivityEntry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, command, description, timestamp
		FROM activity_log
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// DeleteOlderThan removes entries older than days (default 30) and
// reports how many were removed.
func (r *Activity) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		days = defaultRetentionDays
	}
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM activity_log
		WHERE timestamp < datetime('now', '-' || ? || ' days')
	`, days)
	if err != nil {
		return 0, fmt.Errorf("clean activity: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clean activity: %w", err)
	}
	return n, nil
}

func collectEntries(rows *sql.Rows) ([]domain.ActivityEntry, error) {
	var out []domain.ActivityEntry
	for rows.Next() {
		var e domain.ActivityEntry
		var command, description sql.NullString
		if err := rows.Scan(&e.ID, &e.UserID, &command, &description, &e.Timestamp); err != nil {
			return nil, err
		}
		e.Command = command.String
		e.Description = description.String
		out = append(out, e)
	}
	return out, rows.Err()
}
