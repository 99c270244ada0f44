package service

import (
	"sync"
	"time"
)

// PendingTimer: un admin eligió "Setup" para un boss y el bot espera que
// tipee los minutos. Guardamos la referencia al mensaje del menú para
// poder editarlo cuando llegue el número.
type PendingTimer struct {
	BossID    string
	Clan      string
	ChannelID string
	MessageID string
	CreatedAt time.Time
}

// PendingTimers es la tabla efímera de esos pedidos, a lo sumo uno por boss.
// Crear de nuevo para el mismo boss supersede al anterior. Vive solo en
// memoria: un restart la descarta y no pasa nada.
type PendingTimers struct {
	mu sync.Mutex
	m  map[string]PendingTimer
}

func NewPendingTimers() *PendingTimers {
	return &PendingTimers{m: map[string]PendingTimer{}}
}

func (p *PendingTimers) Create(pt PendingTimer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pt.CreatedAt = time.Now()
	p.m[pt.BossID] = pt
}

// TakeFirst consume el pedido más viejo pendiente, si hay alguno.
func (p *PendingTimers) TakeFirst() (PendingTimer, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var (
		best  PendingTimer
		found bool
	)
	for _, pt := range p.m {
		if !found || pt.CreatedAt.Before(best.CreatedAt) {
			best, found = pt, true
		}
	}
	if found {
		delete(p.m, best.BossID)
	}
	return best, found
}

// Drop descarta el pedido de un boss (p.ej. si el admin volvió al menú).
func (p *PendingTimers) Drop(bossID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.m, bossID)
}

func (p *PendingTimers) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.m)
}
