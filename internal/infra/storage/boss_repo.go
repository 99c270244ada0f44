package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Intoss/ROMnotice/internal/domain"
)

type BossRepo struct{ db *sql.DB }

func NewBossRepo(db *sql.DB) *BossRepo { return &BossRepo{db: db} }

// Seed: insert-if-absent de cada entrada del Registry. Idempotente; nunca
// pisa last_killer ni respawn_due_at de una fila existente.
func (r *BossRepo) Seed(ctx context.Context, registry []domain.RegistryEntry) error {
	for _, e := range registry {
		_, err := r.db.ExecContext(ctx, `
INSERT INTO bosses (id, name, respawn_seconds)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO NOTHING
`, e.ID, e.Name, int64(e.Respawn.Seconds()))
		if err != nil {
			return fmt.Errorf("seed boss %s: %w", e.ID, err)
		}
	}
	return nil
}

func (r *BossRepo) Get(ctx context.Context, bossID string) (domain.Boss, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, name, respawn_seconds, last_killer, respawn_due_at
  FROM bosses
 WHERE id = $1
`, bossID)
	return scanBoss(row)
}

func (r *BossRepo) ListAll(ctx context.Context) ([]domain.Boss, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, respawn_seconds, last_killer, respawn_due_at
  FROM bosses
 ORDER BY name ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Boss
	for rows.Next() {
		b, err := scanBoss(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// SetKill pisa last_killer y respawn_due_at en una sola UPDATE.
// Cero filas afectadas = boss fuera del Registry → ErrUnknownBoss.
func (r *BossRepo) SetKill(ctx context.Context, bossID string, killer *string, dueAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE bosses
   SET last_killer = $2, respawn_due_at = $3
 WHERE id = $1
`, bossID, killer, dueAt)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUnknownBoss
	}
	return nil
}

// ClearDue limpia respawn_due_at reescribiendo last_killer tal cual vino
// (el caller lo releyó recién, ver countdown). El guard sobre respawn_due_at
// hace que un countdown superseded que llegue tarde no pise el due nuevo:
// cero filas = ya no era nuestro timer, cleared=false y no es error.
func (r *BossRepo) ClearDue(ctx context.Context, bossID string, killer *string, ownDue time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE bosses
   SET last_killer = $2, respawn_due_at = NULL
 WHERE id = $1 AND respawn_due_at = $3
`, bossID, killer, ownDue)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

type scannable interface{ Scan(dest ...any) error }

func scanBoss(row scannable) (domain.Boss, error) {
	var (
		b    domain.Boss
		secs int64
	)
	err := row.Scan(&b.ID, &b.Name, &secs, &b.LastKiller, &b.RespawnDueAt)
	if err == sql.ErrNoRows {
		return domain.Boss{}, ErrNotFound
	}
	if err != nil {
		return domain.Boss{}, err
	}
	b.Respawn = time.Duration(secs) * time.Second
	return b, nil
}
