package service

import (
	"context"
	"log"
	"time"
)

// outcome: cómo terminó un countdown. superseded no es un error, es el
// resultado esperado cuando schedule() reemplaza el timer de un boss.
type outcome int

const (
	outcomeCompleted outcome = iota
	outcomeSuperseded
	outcomeFailed
)

func (o outcome) String() string {
	switch o {
	case outcomeCompleted:
		return "completed"
	case outcomeSuperseded:
		return "superseded"
	default:
		return "failed"
	}
}

// countdown es el proceso por-boss: duerme hasta due-warnLead, avisa,
// duerme hasta due, anuncia el respawn y limpia el due en la DB.
// El token de cancelación se chequea en cada punto de suspensión y antes
// de cada escritura; un countdown superseded sale sin escribir nada.
type countdown struct {
	bossID string
	dueAt  time.Time
	ctx    context.Context
	cancel context.CancelFunc
}

func (t *Timekeeper) runCountdown(c *countdown) outcome {
	// fase 1: armado hasta el instante del warning. Si due ya pasó (outage
	// largo, recovery tardío) los sleeps dan <=0 y caemos directo: el warning
	// tardío se emite igual, nunca se pierde.
	if !sleepUntil(c.ctx, c.dueAt.Add(-t.warnLead)) {
		return outcomeSuperseded
	}

	// warning: releemos el boss (no el valor de arranque) para calcular la
	// cola contra el último killer real.
	boss, err := t.store.Get(c.ctx, c.bossID)
	if c.ctx.Err() != nil {
		return outcomeSuperseded
	}
	if err != nil {
		log.Printf("[timer] %s: read before warning: %v", c.bossID, err)
		return outcomeFailed
	}
	queue, _ := t.clans.Queue(boss.LastKiller)
	t.notify.RespawnSoon(c.ctx, boss, queue, c.dueAt)

	// fase 2: hasta el respawn exacto.
	if !sleepUntil(c.ctx, c.dueAt) {
		return outcomeSuperseded
	}

	// relectura inmediata antes del write terminal: el killer que reescribimos
	// tiene que ser el vigente, no el capturado al arrancar.
	cur, err := t.store.Get(c.ctx, c.bossID)
	if c.ctx.Err() != nil {
		return outcomeSuperseded
	}
	if err != nil {
		log.Printf("[timer] %s: read before clear: %v", c.bossID, err)
		return outcomeFailed
	}
	t.notify.BossAvailable(c.ctx, cur)

	if c.ctx.Err() != nil {
		return outcomeSuperseded
	}
	cleared, err := t.store.ClearDue(c.ctx, c.bossID, cur.LastKiller, c.dueAt)
	if c.ctx.Err() != nil {
		return outcomeSuperseded
	}
	if err != nil {
		log.Printf("[timer] %s: clear due: %v", c.bossID, err)
		return outcomeFailed
	}
	if !cleared {
		// el due en DB ya no era el nuestro: nos ganó un schedule posterior.
		return outcomeSuperseded
	}
	return outcomeCompleted
}

// sleepUntil duerme hasta `at` o hasta la cancelación. Duración <=0 no
// duerme nada (nunca un sleep negativo). Devuelve false si cancelaron.
func sleepUntil(ctx context.Context, at time.Time) bool {
	d := time.Until(at)
	if d <= 0 {
		return ctx.Err() == nil
	}
	tm := time.NewTimer(d)
	defer tm.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-tm.C:
		return true
	}
}
