package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBoss = "windlong"

func waitOutcome(t *testing.T, done chan outcome, within time.Duration) outcome {
	t.Helper()
	select {
	case oc := <-done:
		return oc
	case <-time.After(within):
		t.Fatal("countdown did not finish in time")
		return outcomeFailed
	}
}

func TestCountdownFullRun(t *testing.T) {
	store := newMemStore(testBoss)
	tk, notify, done := newTestKeeper(store, 40*time.Millisecond)

	_, err := tk.OverrideCustom(context.Background(), testBoss, "A", "tester", 120*time.Millisecond)
	require.NoError(t, err)

	oc := waitOutcome(t, done, 2*time.Second)
	assert.Equal(t, outcomeCompleted, oc)

	// warning con la cola calculada contra el killer (A mató → cola B)
	soon := notify.byKind("soon")
	require.Len(t, soon, 1)
	assert.Equal(t, testBoss, soon[0].bossID)
	assert.Equal(t, "B", soon[0].clan)

	avail := notify.byKind("available")
	require.Len(t, avail, 1)
	assert.True(t, soon[0].emittedAt.Before(avail[0].emittedAt), "warning antes del respawn")

	// estado final: due limpio, killer intacto
	b, err := store.Get(context.Background(), testBoss)
	require.NoError(t, err)
	assert.Nil(t, b.RespawnDueAt)
	require.NotNil(t, b.LastKiller)
	assert.Equal(t, "A", *b.LastKiller)

	assert.Empty(t, tk.ActiveBossIDs())
}

func TestCountdownLatePathEmitsBoth(t *testing.T) {
	// due en el pasado (proceso caído durante horas): ambos avisos salen
	// igual, en orden, sin sleeps negativos, y el due se limpia.
	store := newMemStore(testBoss)
	store.seedDue(testBoss, "B", time.Now().Add(-1*time.Hour))
	tk, notify, done := newTestKeeper(store, 40*time.Millisecond)

	n, err := tk.Resume(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	oc := waitOutcome(t, done, 2*time.Second)
	assert.Equal(t, outcomeCompleted, oc)

	soon := notify.byKind("soon")
	require.Len(t, soon, 1)
	assert.Equal(t, "A", soon[0].clan) // B mató → cola A
	require.Len(t, notify.byKind("available"), 1)

	b, _ := store.Get(context.Background(), testBoss)
	assert.Nil(t, b.RespawnDueAt)
	// Resume nunca reescribe la DB
	assert.Equal(t, 0, store.setKillCalls())
}

func TestCountdownCancelledBeforeWarning(t *testing.T) {
	store := newMemStore(testBoss)
	tk, notify, done := newTestKeeper(store, 10*time.Millisecond)

	_, err := tk.OverrideCustom(context.Background(), testBoss, "A", "tester", 500*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	tk.Cancel(testBoss)

	oc := waitOutcome(t, done, time.Second)
	assert.Equal(t, outcomeSuperseded, oc)

	// superseded = cero side effects: sin avisos y sin write terminal
	assert.Empty(t, notify.byKind("soon"))
	assert.Empty(t, notify.byKind("available"))
	b, _ := store.Get(context.Background(), testBoss)
	assert.NotNil(t, b.RespawnDueAt, "Cancel no toca la DB")
}

func TestSleepUntil(t *testing.T) {
	t.Parallel()

	// pasado: no duerme, pero respeta cancelación previa
	assert.True(t, sleepUntil(context.Background(), time.Now().Add(-time.Minute)))

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, sleepUntil(cancelled, time.Now().Add(-time.Minute)))

	// futuro corto: duerme hasta el instante
	start := time.Now()
	assert.True(t, sleepUntil(context.Background(), start.Add(30*time.Millisecond)))
	assert.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)

	// cancelación durante el sleep corta antes
	ctx, cancel2 := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel2()
	}()
	start = time.Now()
	assert.False(t, sleepUntil(ctx, start.Add(5*time.Second)))
	assert.Less(t, time.Since(start), time.Second)
}
