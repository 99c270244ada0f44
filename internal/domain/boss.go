package domain

import "time"

// WarnLead es cuánto antes del respawn sale el aviso de cola.
const WarnLead = 10 * time.Minute

// Boss es el estado persistido de un boss: lo que guarda la tabla `bosses`.
// LastKiller nunca se limpia después del respawn (round-robin de dos clanes:
// la cola siempre se calcula contra el último killer conocido).
type Boss struct {
	ID           string
	Name         string
	Respawn      time.Duration
	LastKiller   *string    // nil = nadie lo mató todavía
	RespawnDueAt *time.Time // nil = el boss está vivo / sin timer
}

// OnTimer: hay un countdown pendiente para este boss.
func (b Boss) OnTimer(now time.Time) bool {
	return b.RespawnDueAt != nil && b.RespawnDueAt.After(now)
}

// ClanPair son los dos clanes en disputa. Exactamente dos, fijos por proceso.
type ClanPair [2]string

// DefaultClans: el roster original.
var DefaultClans = ClanPair{"BALDEG", "AlterEgo"}

func (c ClanPair) Contains(clan string) bool {
	return clan == c[0] || clan == c[1]
}

// Queue devuelve el clan en cola: el que NO hizo el último kill.
// ok=false si no hay killer o no es uno de los dos clanes conocidos.
func (c ClanPair) Queue(lastKiller *string) (string, bool) {
	if lastKiller == nil {
		return "", false
	}
	switch *lastKiller {
	case c[0]:
		return c[1], true
	case c[1]:
		return c[0], true
	}
	return "", false
}
