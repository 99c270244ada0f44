package storage

import (
	"context"
	"database/sql"

	pq "github.com/lib/pq"
)

type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Ensure registra al usuario si no existe (rol 'user'). No pisa el rol.
func (r *UserRepo) Ensure(ctx context.Context, discordID string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (discord_user_id, role)
VALUES ($1, 'user')
ON CONFLICT (discord_user_id) DO UPDATE SET deleted_at = NULL
`, discordID)
	return err
}

// EnsureOwner asegura que el owner exista con rol admin. Idempotente,
// se llama en cada boot junto con el seed de bosses.
func (r *UserRepo) EnsureOwner(ctx context.Context, ownerID string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (discord_user_id, role)
VALUES ($1, 'admin')
ON CONFLICT (discord_user_id) DO UPDATE SET role = 'admin', deleted_at = NULL
`, ownerID)
	return err
}

func (r *UserRepo) SetRole(ctx context.Context, discordID, role string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (discord_user_id, role)
VALUES ($1, $2)
ON CONFLICT (discord_user_id) DO UPDATE SET role = EXCLUDED.role, deleted_at = NULL
`, discordID, role)
	return err
}

func (r *UserRepo) Get(ctx context.Context, discordID string) (User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT discord_user_id, role, created_at, deleted_at
  FROM users
 WHERE discord_user_id = $1 AND deleted_at IS NULL
`, discordID)
	var u User
	err := row.Scan(&u.DiscordUserID, &u.Role, &u.CreatedAt, &u.DeletedAt)
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	return u, err
}

// AllIDs: destinatarios del broadcast (todos los registrados).
func (r *UserRepo) AllIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT discord_user_id FROM users WHERE deleted_at IS NULL
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// FindByIDs devuelve mapa discord_user_id -> role para un set de ids.
func (r *UserRepo) FindByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	out := map[string]string{}
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT discord_user_id, role
  FROM users
 WHERE discord_user_id = ANY($1) AND deleted_at IS NULL
`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id, role string
		if err := rows.Scan(&id, &role); err != nil {
			return nil, err
		}
		out[id] = role
	}
	return out, rows.Err()
}

func (r *UserRepo) SoftDelete(ctx context.Context, discordID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE users
   SET deleted_at = NOW()
 WHERE discord_user_id = $1 AND deleted_at IS NULL
`, discordID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
