package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ozaibAuday/telegram-admin-bot/internal/domain"
)

// Users owns all reads and writes against the users table.
type Users struct {
	db  *sql.DB
	log zerolog.Logger
}

func NewUsers(db *sql.DB, log zerolog.Logger) *Users {
	return &Users{db: db, log: log}
}

// Add inserts a new user row unless one already exists for userID.
// Reports whether a row was actually created; an existing row is left
// untouched.
func (r *Users) Add(ctx context.Context, userID int64, username, firstName, lastName *string, role domain.Role) (bool, error) {
	if role == "" {
		role = domain.RoleUser
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO users(user_id, username, first_name, last_name, role)
		VALUES(?,?,?,?,?)
	`, userID, username, firstName, lastName, string(role))
	if err != nil {
		return false, fmt.Errorf("add user %d: %w", userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add user %d: %w", userID, err)
	}
	return n > 0, nil
}

const userColumns = `id, user_id, username, first_name, last_name, role, status, joined_at, last_activity, notes`

func (r *Users) Get(ctx context.Context, userID int64) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE user_id = ?`, userID)
	u, err := scanUser(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user %d: %w", userID, err)
	}
	return u, nil
}

// UpdateRole sets the role for userID. A role outside the enumerated
// domain is rejected before touching the store; an absent userID is a
// silent no-op.
func (r *Users) UpdateRole(ctx context.Context, userID int64, role domain.Role) error {
	if !role.Valid() {
		return domain.ErrInvalidRole
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE users SET role = ? WHERE user_id = ?`, string(role), userID); err != nil {
		return fmt.Errorf("update role for %d: %w", userID, err)
	}
	return nil
}

// UpdateStatus sets the status for userID, same contract as UpdateRole.
func (r *Users) UpdateStatus(ctx context.Context, userID int64, status domain.Status) error {
	if !status.Valid() {
		return domain.ErrInvalidStatus
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE users SET status = ? WHERE user_id = ?`, string(status), userID); err != nil {
		return fmt.Errorf("update status for %d: %w", userID, err)
	}
	return nil
}

// All returns every user, most recent join first.
func (r *Users) All(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY joined_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *Users) ByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE role = ? ORDER BY joined_at DESC, id DESC`,
		string(role))
	if err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

// Stats aggregates user counts in a single pass over the table.
// All counts are zero on an empty table.
func (r *Users) Stats(ctx context.Context) (domain.UserStats, error) {
	var s domain.UserStats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN role = 'admin' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN role = 'user' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'active' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'banned' THEN 1 ELSE 0 END), 0)
		FROM users
	`).Scan(&s.Total, &s.Admins, &s.Users, &s.Active, &s.Banned)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("user stats: %w", err)
	}
	return s, nil
}

// Delete removes the row for userID. Deleting an absent user succeeds.
func (r *Users) Delete(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM users WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete user %d: %w", userID, err)
	}
	return nil
}

// SetNote replaces the notes field entirely.
func (r *Users) SetNote(ctx context.Context, userID int64, note string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE users SET notes = ? WHERE user_id = ?`, note, userID); err != nil {
		return fmt.Errorf("set note for %d: %w", userID, err)
	}
	return nil
}

// TouchLastActivity bumps last_activity to now. Fire-and-forget: a
// failure is logged and must never abort the caller's primary action.
func (r *Users) TouchLastActivity(ctx context.Context, userID int64) {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_activity = CURRENT_TIMESTAMP WHERE user_id = ?`, userID)
	if err != nil {
		r.log.Error().Err(err).Int64("user_id", userID).Msg("touch last_activity")
	}
}

func scanUser(scan func(...any) error) (domain.User, error) {
	var u domain.User
	var role, status string
	err := scan(&u.ID, &u.UserID, &u.Username, &u.FirstName, &u.LastName,
		&role, &status, &u.JoinedAt, &u.LastActivity, &u.Notes)
	if err != nil {
		return domain.User{}, err
	}
	u.Role = domain.Role(role)
	u.Status = domain.Status(status)
	return u, nil
}

func collectUsers(rows *sql.Rows) ([]domain.User, error) {
	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
