package storage

import (
	"context"
	"database/sql"
)

type KillLogRepo struct{ db *sql.DB }

func NewKillLogRepo(db *sql.DB) *KillLogRepo { return &KillLogRepo{db: db} }

// Insert registra un kill/override. Solo append; el janitor poda lo viejo.
func (r *KillLogRepo) Insert(ctx context.Context, rec KillRecord) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO kill_log (boss_id, clan, reported_by, due_at, custom)
VALUES ($1, $2, $3, $4, $5)
`, rec.BossID, rec.Clan, rec.ReportedBy, rec.DueAt, rec.Custom)
	return err
}

// Recent: últimas entradas para un boss (para el panel de admin).
func (r *KillLogRepo) Recent(ctx context.Context, bossID string, limit int) ([]KillRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, boss_id, clan, reported_by, due_at, custom, created_at
  FROM kill_log
 WHERE boss_id = $1
 ORDER BY created_at DESC
 LIMIT $2
`, bossID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []KillRecord
	for rows.Next() {
		var k KillRecord
		if err := rows.Scan(&k.ID, &k.BossID, &k.Clan, &k.ReportedBy, &k.DueAt, &k.Custom, &k.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}
