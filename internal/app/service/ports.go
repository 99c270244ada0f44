package service

import (
	"context"
	"time"

	"github.com/Intoss/ROMnotice/internal/domain"
	"github.com/Intoss/ROMnotice/internal/infra/storage"
)

// Lo implementa internal/infra/storage.BossRepo
type BossStore interface {
	Get(ctx context.Context, bossID string) (domain.Boss, error)
	ListAll(ctx context.Context) ([]domain.Boss, error)
	SetKill(ctx context.Context, bossID string, killer *string, dueAt time.Time) error
	// ClearDue solo borra el due si sigue siendo ownDue (guard anti-clobber).
	ClearDue(ctx context.Context, bossID string, killer *string, ownDue time.Time) (bool, error)
}

// Lo implementa internal/infra/storage.KillLogRepo
type KillLog interface {
	Insert(ctx context.Context, rec storage.KillRecord) error
}

// Notifier es el sink de notificaciones. Best-effort: el adapter aísla los
// fallos por destinatario y nunca devuelve error hacia el countdown.
type Notifier interface {
	BossKilled(ctx context.Context, boss domain.Boss, clan string, dueAt time.Time)
	RespawnSoon(ctx context.Context, boss domain.Boss, queueClan string, dueAt time.Time)
	BossAvailable(ctx context.Context, boss domain.Boss)
	TimersRestored(ctx context.Context, restored int)
}
