package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Intoss/ROMnotice/internal/domain"
	"github.com/Intoss/ROMnotice/internal/infra/storage"
)

var ErrUnknownClan = errors.New("unknown clan")

// Timekeeper es el dueño único de los countdowns: un timer activo por boss,
// como máximo. Todo camino que arranca un timer (kill, override, custom,
// recovery) pasa por acá; nadie más arranca countdowns.
type Timekeeper struct {
	store  BossStore
	kills  KillLog
	notify Notifier
	clans  domain.ClanPair

	warnLead time.Duration

	mu      sync.Mutex
	running map[string]*countdown

	// hook de test: se llama al terminar cada countdown con su outcome.
	onFinish func(bossID string, oc outcome)
}

func NewTimekeeper(store BossStore, kills KillLog, notify Notifier, clans domain.ClanPair) *Timekeeper {
	return &Timekeeper{
		store:    store,
		kills:    kills,
		notify:   notify,
		clans:    clans,
		warnLead: domain.WarnLead,
		running:  map[string]*countdown{},
	}
}

// ReportKill: un admin marcó el kill de `clan`. Arranca el timer con el
// intervalo default del Registry y anuncia el kill a todos.
func (t *Timekeeper) ReportKill(ctx context.Context, bossID, clan, reportedBy string) (time.Time, error) {
	entry, ok := domain.Find(bossID)
	if !ok {
		return time.Time{}, storage.ErrUnknownBoss
	}
	if !t.clans.Contains(clan) {
		return time.Time{}, fmt.Errorf("%w: %s", ErrUnknownClan, clan)
	}

	dueAt := time.Now().Add(entry.Respawn)
	killer := clan
	if err := t.schedule(ctx, bossID, &killer, dueAt); err != nil {
		return time.Time{}, err
	}
	t.logKill(ctx, storage.KillRecord{BossID: bossID, Clan: &killer, ReportedBy: reportedBy, DueAt: dueAt})

	boss, err := t.store.Get(ctx, bossID)
	if err != nil {
		log.Printf("[timer] %s: read after kill: %v", bossID, err)
		return dueAt, nil
	}
	t.notify.BossKilled(ctx, boss, clan, dueAt)
	return dueAt, nil
}

// OverrideSameKiller: disposición "otros / sin crédito". Re-arma con el
// last_killer existente (puede ser nadie) y el intervalo default.
// No anuncia kill: es una corrección, no un evento.
func (t *Timekeeper) OverrideSameKiller(ctx context.Context, bossID, reportedBy string) (time.Time, error) {
	entry, ok := domain.Find(bossID)
	if !ok {
		return time.Time{}, storage.ErrUnknownBoss
	}
	boss, err := t.store.Get(ctx, bossID)
	if err != nil {
		return time.Time{}, err
	}

	dueAt := time.Now().Add(entry.Respawn)
	if err := t.schedule(ctx, bossID, boss.LastKiller, dueAt); err != nil {
		return time.Time{}, err
	}
	t.logKill(ctx, storage.KillRecord{BossID: bossID, Clan: boss.LastKiller, ReportedBy: reportedBy, DueAt: dueAt})
	return dueAt, nil
}

// OverrideCustom: timer manual con duración arbitraria (flujo "Setup").
func (t *Timekeeper) OverrideCustom(ctx context.Context, bossID, clan, reportedBy string, d time.Duration) (time.Time, error) {
	if _, ok := domain.Find(bossID); !ok {
		return time.Time{}, storage.ErrUnknownBoss
	}
	if !t.clans.Contains(clan) {
		return time.Time{}, fmt.Errorf("%w: %s", ErrUnknownClan, clan)
	}

	dueAt := time.Now().Add(d)
	killer := clan
	if err := t.schedule(ctx, bossID, &killer, dueAt); err != nil {
		return time.Time{}, err
	}
	t.logKill(ctx, storage.KillRecord{BossID: bossID, Clan: &killer, ReportedBy: reportedBy, DueAt: dueAt, Custom: true})
	return dueAt, nil
}

// schedule es el choke point: cancel-señal al viejo, write nuevo en DB,
// countdown nuevo. El orden importa: el viejo chequea su token y relee la DB
// antes de su write terminal, así nunca pisa lo que escribimos acá.
func (t *Timekeeper) schedule(ctx context.Context, bossID string, killer *string, dueAt time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if old := t.running[bossID]; old != nil {
		old.cancel() // señal, sin esperar el teardown
		delete(t.running, bossID)
	}
	if err := t.store.SetKill(ctx, bossID, killer, dueAt); err != nil {
		return err
	}
	t.armLocked(bossID, dueAt)
	return nil
}

// armLocked arranca y registra un countdown. Caller sostiene t.mu.
func (t *Timekeeper) armLocked(bossID string, dueAt time.Time) {
	cctx, cancel := context.WithCancel(context.Background())
	c := &countdown{bossID: bossID, dueAt: dueAt, ctx: cctx, cancel: cancel}
	t.running[bossID] = c

	go func() {
		oc := t.runCountdown(c)
		t.finish(c)
		if oc != outcomeSuperseded {
			log.Printf("[timer] %s: countdown %s (due %s)", c.bossID, oc, c.dueAt.Format(time.RFC3339))
		}
		if t.onFinish != nil {
			t.onFinish(c.bossID, oc)
		}
	}()
}

// finish desregistra el countdown solo si sigue siendo el vigente: uno
// superseded no puede sacar del mapa al que lo reemplazó.
func (t *Timekeeper) finish(c *countdown) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running[c.bossID] == c {
		delete(t.running, c.bossID)
	}
}

// Cancel señala y desregistra el countdown de un boss sin tocar la DB.
// Solo para supersession interna; no es una operación de usuario.
func (t *Timekeeper) Cancel(bossID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if c := t.running[bossID]; c != nil {
		c.cancel()
		delete(t.running, bossID)
	}
}

// ActiveBossIDs: qué bosses tienen countdown vivo (diagnóstico/tests).
func (t *Timekeeper) ActiveBossIDs() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.running))
	for id := range t.running {
		out = append(out, id)
	}
	return out
}

// Resume re-deriva los countdowns pendientes desde la DB al arrancar.
// No reescribe nada: el due persistido ya es el objetivo correcto. Un due
// en el pasado también se arma: el countdown cae por el camino "ya venció"
// y emite warning + respawn tardíos en vez de perderse la transición.
func (t *Timekeeper) Resume(ctx context.Context) (int, error) {
	bosses, err := t.store.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	restored := 0
	t.mu.Lock()
	for _, b := range bosses {
		if b.RespawnDueAt == nil {
			continue
		}
		if t.running[b.ID] != nil {
			continue
		}
		t.armLocked(b.ID, *b.RespawnDueAt)
		restored++
	}
	t.mu.Unlock()

	if restored > 0 {
		log.Printf("[timer] resumed %d countdown(s) from store", restored)
		t.notify.TimersRestored(ctx, restored)
	}
	return restored, nil
}

// Shutdown cancela todos los countdowns (el estado queda en DB para Resume).
func (t *Timekeeper) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, c := range t.running {
		c.cancel()
		delete(t.running, id)
	}
}

func (t *Timekeeper) logKill(ctx context.Context, rec storage.KillRecord) {
	if t.kills == nil {
		return
	}
	if err := t.kills.Insert(ctx, rec); err != nil {
		log.Printf("[timer] kill_log insert %s: %v", rec.BossID, err)
	}
}

// Clans expone el par de clanes configurado (lo usa el adapter para armar botones).
func (t *Timekeeper) Clans() domain.ClanPair { return t.clans }
