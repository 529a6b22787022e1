package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCascade_CountsDownAndFires(t *testing.T) {
	g, sched, _ := newTestGame(Quota{RoleVillager: 2, RoleWerewolf: 1})
	g.phase = PhaseDaytime

	fired := false
	g.startCascade(3, nil, func() { fired = true })

	require.Equal(t, 2, g.remaining) // the opening tick already elapsed one second
	sched.stepUntil(t, 10, func() bool { return fired })
	require.Equal(t, 0, g.remaining)
	require.False(t, g.timerActive)
}

func TestCascade_AlertAnnouncedAtThreshold(t *testing.T) {
	g, sched, tr := newTestGame(Quota{RoleVillager: 2, RoleWerewolf: 1})
	g.phase = PhaseDaytime

	g.startCascade(5, []int{3}, func() {})
	sched.stepUntil(t, 10, func() bool { return g.remaining <= 0 })

	require.True(t, tr.sawTitlePrefix(ChanLiving, "Remaining time: 3s"))
}

func TestCascade_EpochMismatchDropsGhost(t *testing.T) {
	g, sched, _ := newTestGame(Quota{RoleVillager: 2, RoleWerewolf: 1})
	g.phase = PhaseDaytime

	fired := false
	g.startCascade(60, nil, func() { fired = true })
	require.Len(t, sched.queue, 1)

	// Same phase, different game.
	g.epoch = g.rng.Int63()

	require.True(t, sched.step())
	require.Empty(t, sched.queue, "stale tick must not reschedule")
	require.False(t, fired)
}

func TestCascade_PhaseMismatchDropsGhost(t *testing.T) {
	g, sched, _ := newTestGame(Quota{RoleVillager: 2, RoleWerewolf: 1})
	g.phase = PhaseDaytime

	fired := false
	g.startCascade(60, nil, func() { fired = true })

	// Same epoch, new phase. This is the dictator path.
	g.phase = PhaseVote

	require.True(t, sched.step())
	require.Empty(t, sched.queue)
	require.False(t, fired)
}

func TestCascade_PauseHoldsCountdown(t *testing.T) {
	g, sched, _ := newTestGame(Quota{RoleVillager: 2, RoleWerewolf: 1})
	g.phase = PhaseDaytime

	g.startCascade(10, nil, func() {})
	g.StopTimer()
	before := g.remaining
	for i := 0; i < 5; i++ {
		require.True(t, sched.step())
	}
	require.Equal(t, before, g.remaining)

	g.ResumeTimer()
	require.True(t, sched.step())
	require.Equal(t, before-1, g.remaining)
}

func TestStopTimer_NoTimerIsANotice(t *testing.T) {
	g, _, tr := newTestGame(Quota{RoleVillager: 2, RoleWerewolf: 1})
	g.StopTimer()
	require.True(t, tr.sawTitlePrefix(ChanLiving, "No timer is running."))
}
