package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Intoss/ROMnotice/internal/domain"
	"github.com/Intoss/ROMnotice/internal/infra/storage"
)

func TestReportKillPersistsAndAnnounces(t *testing.T) {
	store := newMemStore(testBoss)
	notify := &recordingNotifier{}
	kills := &memKillLog{}
	tk := NewTimekeeper(store, kills, notify, domain.ClanPair{"A", "B"})
	defer tk.Shutdown()

	before := time.Now()
	dueAt, err := tk.ReportKill(context.Background(), testBoss, "A", "tester")
	require.NoError(t, err)

	entry, _ := domain.Find(testBoss)
	assert.WithinDuration(t, before.Add(entry.Respawn), dueAt, time.Second)

	b, err := store.Get(context.Background(), testBoss)
	require.NoError(t, err)
	require.NotNil(t, b.LastKiller)
	assert.Equal(t, "A", *b.LastKiller)
	require.NotNil(t, b.RespawnDueAt)
	assert.True(t, b.RespawnDueAt.Equal(dueAt))

	killed := notify.byKind("killed")
	require.Len(t, killed, 1)
	assert.Equal(t, "A", killed[0].clan)

	assert.Equal(t, 1, kills.count())
	assert.Equal(t, []string{testBoss}, tk.ActiveBossIDs())
}

func TestReportKillUnknownBoss(t *testing.T) {
	store := newMemStore(testBoss)
	tk, notify, _ := newTestKeeper(store, time.Minute)
	defer tk.Shutdown()

	_, err := tk.ReportKill(context.Background(), "no-such-boss", "A", "tester")
	assert.ErrorIs(t, err, storage.ErrUnknownBoss)
	assert.Empty(t, notify.byKind("killed"))
	assert.Empty(t, tk.ActiveBossIDs())
}

func TestReportKillUnknownClan(t *testing.T) {
	store := newMemStore(testBoss)
	tk, _, _ := newTestKeeper(store, time.Minute)
	defer tk.Shutdown()

	_, err := tk.ReportKill(context.Background(), testBoss, "Randoms", "tester")
	assert.ErrorIs(t, err, ErrUnknownClan)
}

func TestAtMostOneCountdownPerBoss(t *testing.T) {
	store := newMemStore(testBoss)
	tk, _, done := newTestKeeper(store, 20*time.Millisecond)

	// ráfaga de schedules sobre el mismo boss: sólo el último sobrevive
	for i := 0; i < 8; i++ {
		_, err := tk.OverrideCustom(context.Background(), testBoss, "A", "tester", 150*time.Millisecond)
		require.NoError(t, err)
		assert.Len(t, tk.ActiveBossIDs(), 1)
	}

	// 7 superseded + 1 completed, en cualquier orden de llegada
	var completed, superseded int
	for i := 0; i < 8; i++ {
		switch waitOutcome(t, done, 2*time.Second) {
		case outcomeCompleted:
			completed++
		case outcomeSuperseded:
			superseded++
		default:
			t.Fatal("unexpected failed countdown")
		}
	}
	assert.Equal(t, 1, completed)
	assert.Equal(t, 7, superseded)

	b, _ := store.Get(context.Background(), testBoss)
	assert.Nil(t, b.RespawnDueAt)
	assert.Empty(t, tk.ActiveBossIDs())
}

func TestSupersededNeverClobbers(t *testing.T) {
	// Escenario: kill de A con timer largo, y al toque un override custom
	// de B bien corto. El primer countdown no emite nada y el estado final
	// es 100% del segundo.
	store := newMemStore(testBoss)
	tk, notify, done := newTestKeeper(store, 30*time.Millisecond)

	_, err := tk.OverrideCustom(context.Background(), testBoss, "A", "tester", 400*time.Millisecond)
	require.NoError(t, err)

	_, err = tk.OverrideCustom(context.Background(), testBoss, "B", "tester", 90*time.Millisecond)
	require.NoError(t, err)

	first := waitOutcome(t, done, 2*time.Second)
	second := waitOutcome(t, done, 2*time.Second)
	assert.Equal(t, outcomeSuperseded, first)
	assert.Equal(t, outcomeCompleted, second)

	// exactamente un warning y un available, ambos del segundo countdown
	soon := notify.byKind("soon")
	require.Len(t, soon, 1)
	assert.Equal(t, "A", soon[0].clan) // B mató → cola A

	require.Len(t, notify.byKind("available"), 1)

	b, _ := store.Get(context.Background(), testBoss)
	require.NotNil(t, b.LastKiller)
	assert.Equal(t, "B", *b.LastKiller)
	assert.Nil(t, b.RespawnDueAt)

	// esperar pasado el due del primero: no aparece nada nuevo
	time.Sleep(450 * time.Millisecond)
	assert.Len(t, notify.byKind("soon"), 1)
	assert.Len(t, notify.byKind("available"), 1)
}

func TestOverrideSameKillerKeepsCredit(t *testing.T) {
	store := newMemStore(testBoss)
	store.seedDue(testBoss, "B", time.Now().Add(time.Hour))
	tk, notify, _ := newTestKeeper(store, time.Minute)
	defer tk.Shutdown()

	_, err := tk.OverrideSameKiller(context.Background(), testBoss, "tester")
	require.NoError(t, err)

	b, _ := store.Get(context.Background(), testBoss)
	require.NotNil(t, b.LastKiller)
	assert.Equal(t, "B", *b.LastKiller)
	entry, _ := domain.Find(testBoss)
	assert.WithinDuration(t, time.Now().Add(entry.Respawn), *b.RespawnDueAt, time.Second)

	// una corrección no es un kill: no se anuncia
	assert.Empty(t, notify.byKind("killed"))
}

func TestResumeArmsFutureTimersWithoutWriting(t *testing.T) {
	store := newMemStore("windlong", "limst", "rain-bay")
	store.seedDue("windlong", "A", time.Now().Add(120*time.Millisecond))
	store.seedDue("limst", "B", time.Now().Add(2*time.Hour))
	// rain-bay queda sin timer

	tk, notify, done := newTestKeeper(store, 40*time.Millisecond)
	defer tk.Shutdown()

	n, err := tk.Resume(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []string{"windlong", "limst"}, tk.ActiveBossIDs())
	assert.Equal(t, 0, store.setKillCalls(), "Resume no escribe la DB")

	restored := notify.byKind("restored")
	require.Len(t, restored, 1)
	assert.Equal(t, 2, restored[0].restored)

	// el corto completa solo; el largo sigue armado
	oc := waitOutcome(t, done, 2*time.Second)
	assert.Equal(t, outcomeCompleted, oc)
	assert.Equal(t, []string{"limst"}, tk.ActiveBossIDs())

	b, _ := store.Get(context.Background(), "windlong")
	assert.Nil(t, b.RespawnDueAt)
	require.NotNil(t, b.LastKiller)
	assert.Equal(t, "A", *b.LastKiller)
}

func TestResumeIsIdempotent(t *testing.T) {
	store := newMemStore(testBoss)
	store.seedDue(testBoss, "A", time.Now().Add(time.Hour))
	tk, _, _ := newTestKeeper(store, time.Minute)
	defer tk.Shutdown()

	n, err := tk.Resume(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// segundo Resume: el countdown ya corre, no se duplica
	n, err = tk.Resume(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Len(t, tk.ActiveBossIDs(), 1)
}
