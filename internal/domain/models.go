package domain

import (
	"errors"
	"time"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleUser   Role = "user"
	RoleBanned Role = "banned"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleBanned:
		return true
	}
	return false
}

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusBanned   Status = "banned"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusBanned:
		return true
	}
	return false
}

var (
	ErrNotFound      = errors.New("user not found")
	ErrInvalidRole   = errors.New("invalid role")
	ErrInvalidStatus = errors.New("invalid status")
)

// User is one chat participant known to the bot. UserID is the
// Telegram-assigned identifier and the primary identity everywhere.
type User struct {
	ID           int64
	UserID       int64
	Username     *string
	FirstName    *string
	LastName     *string
	Role         Role
	Status       Status
	JoinedAt     time.Time
	LastActivity time.Time
	Notes        *string
}

// ActivityEntry is an append-only audit record. Never updated.
type ActivityEntry struct {
	ID          int64
	UserID      int64
	Command     string
	Description string
	Timestamp   time.Time
}

type UserStats struct {
	Total  int64
	Admins int64
	Users  int64
	Active int64
	Banned int64
}
