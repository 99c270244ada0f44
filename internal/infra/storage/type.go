package storage

import (
	"errors"
	"time"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrUnknownBoss = errors.New("unknown boss")
)

// User: usuario registrado del bot. Role es 'user' o 'admin'.
type User struct {
	DiscordUserID string
	Role          string
	CreatedAt     time.Time
	DeletedAt     *time.Time
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// KillRecord: una entrada del log de kills (auditoría + fuente del janitor).
type KillRecord struct {
	ID         int64
	BossID     string
	Clan       *string
	ReportedBy string
	DueAt      time.Time
	Custom     bool
	CreatedAt  time.Time
}
