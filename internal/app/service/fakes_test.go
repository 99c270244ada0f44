package service

import (
	"context"
	"sync"
	"time"

	"github.com/Intoss/ROMnotice/internal/domain"
	"github.com/Intoss/ROMnotice/internal/infra/storage"
)

// memStore implementa BossStore en memoria, con la misma semántica que
// BossRepo (incluido el guard de ClearDue).
type memStore struct {
	mu       sync.Mutex
	bosses   map[string]domain.Boss
	setKills int // cuántas veces se llamó SetKill (Resume no debe escribir)
}

func newMemStore(ids ...string) *memStore {
	s := &memStore{bosses: map[string]domain.Boss{}}
	for _, id := range ids {
		e, ok := domain.Find(id)
		if !ok {
			panic("test boss fuera del registry: " + id)
		}
		s.bosses[id] = domain.Boss{ID: e.ID, Name: e.Name, Respawn: e.Respawn}
	}
	return s
}

func (s *memStore) Get(_ context.Context, bossID string) (domain.Boss, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bosses[bossID]
	if !ok {
		return domain.Boss{}, storage.ErrNotFound
	}
	return b, nil
}

func (s *memStore) ListAll(_ context.Context) ([]domain.Boss, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Boss, 0, len(s.bosses))
	for _, b := range s.bosses {
		out = append(out, b)
	}
	return out, nil
}

func (s *memStore) SetKill(_ context.Context, bossID string, killer *string, dueAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bosses[bossID]
	if !ok {
		return storage.ErrUnknownBoss
	}
	b.LastKiller = killer
	due := dueAt
	b.RespawnDueAt = &due
	s.bosses[bossID] = b
	s.setKills++
	return nil
}

func (s *memStore) ClearDue(_ context.Context, bossID string, killer *string, ownDue time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bosses[bossID]
	if !ok {
		return false, storage.ErrUnknownBoss
	}
	if b.RespawnDueAt == nil || !b.RespawnDueAt.Equal(ownDue) {
		return false, nil
	}
	b.LastKiller = killer
	b.RespawnDueAt = nil
	s.bosses[bossID] = b
	return true, nil
}

func (s *memStore) setKillCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setKills
}

// seedDue deja un boss con estado persistido, como si viniera de una corrida
// anterior (para probar Resume sin pasar por schedule).
func (s *memStore) seedDue(bossID, killer string, dueAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.bosses[bossID]
	b.LastKiller = &killer
	due := dueAt
	b.RespawnDueAt = &due
	s.bosses[bossID] = b
}

type memKillLog struct {
	mu   sync.Mutex
	recs []storage.KillRecord
}

func (l *memKillLog) Insert(_ context.Context, rec storage.KillRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.recs = append(l.recs, rec)
	return nil
}

func (l *memKillLog) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.recs)
}

// notifyEvent: una emisión registrada por el notifier fake.
type notifyEvent struct {
	kind      string // "killed" | "soon" | "available" | "restored"
	bossID    string
	clan      string // killer o queue clan según kind
	restored  int
	emittedAt time.Time
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notifyEvent
}

func (n *recordingNotifier) add(ev notifyEvent) {
	ev.emittedAt = time.Now()
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) BossKilled(_ context.Context, boss domain.Boss, clan string, _ time.Time) {
	n.add(notifyEvent{kind: "killed", bossID: boss.ID, clan: clan})
}

func (n *recordingNotifier) RespawnSoon(_ context.Context, boss domain.Boss, queueClan string, _ time.Time) {
	n.add(notifyEvent{kind: "soon", bossID: boss.ID, clan: queueClan})
}

func (n *recordingNotifier) BossAvailable(_ context.Context, boss domain.Boss) {
	n.add(notifyEvent{kind: "available", bossID: boss.ID})
}

func (n *recordingNotifier) TimersRestored(_ context.Context, restored int) {
	n.add(notifyEvent{kind: "restored", restored: restored})
}

func (n *recordingNotifier) byKind(kind string) []notifyEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []notifyEvent
	for _, ev := range n.events {
		if ev.kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

// harness con warnLead corto y hook de outcomes para los tests de timing.
func newTestKeeper(store *memStore, warnLead time.Duration) (*Timekeeper, *recordingNotifier, chan outcome) {
	notify := &recordingNotifier{}
	tk := NewTimekeeper(store, &memKillLog{}, notify, domain.ClanPair{"A", "B"})
	tk.warnLead = warnLead
	done := make(chan outcome, 16)
	tk.onFinish = func(_ string, oc outcome) { done <- oc }
	return tk, notify, done
}
