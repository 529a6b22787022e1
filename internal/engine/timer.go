package engine

import (
	"slices"
	"time"
)

// Scheduler is how the engine asks its host for future callbacks. The
// session actor implements it by posting fn back into its own inbox, so
// every callback runs on the game's single logical timeline. There is
// no cancel: outstanding callbacks self-invalidate via the epoch/phase
// guard below.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// startCascade begins the one-second tick loop for the current phase.
// Each tick closes over the (epoch, phase) pair current at schedule
// time and re-validates both before doing anything; a mismatch on
// either means the tick is a ghost from an earlier game or an earlier
// phase and must drop itself without rescheduling. Phase alone can
// change without a reset (the dictator forcing an early vote), so
// gating on the epoch only is not enough.
func (g *Game) startCascade(seconds int, alerts []int, onExpire func()) {
	g.remaining = seconds
	g.paused = false
	g.timerActive = true
	g.tick(g.epoch, g.phase, alerts, onExpire, false)
}

func (g *Game) tick(epoch int64, phase Phase, alerts []int, onExpire func(), fromTimer bool) {
	if epoch != g.epoch || phase != g.phase {
		return
	}
	g.timerActive = true
	if g.paused {
		// Hold the countdown but keep the loop alive.
		g.sched.After(time.Second, func() { g.tick(epoch, phase, alerts, onExpire, true) })
		return
	}
	if fromTimer && slices.Contains(alerts, g.remaining) {
		g.announceRemaining()
	}
	g.broadcastState()
	if g.remaining <= 0 {
		g.timerActive = false
		g.announce(Living(), Message{Title: g.lang.T(TxtTimeUp), Color: ColorSystem})
		onExpire()
		return
	}
	g.remaining--
	g.sched.After(time.Second, func() { g.tick(epoch, phase, alerts, onExpire, true) })
}

// announceRemaining routes the alert to whoever is acting this phase.
func (g *Game) announceRemaining() {
	msg := Message{
		Title: g.lang.F(TxtRemainingTime, map[string]string{"time": fmtSeconds(g.remaining)}),
		Color: ColorSystem,
	}
	switch g.phase {
	case PhaseFirstNight:
		g.announce(WolfDen(), msg)
	case PhaseVote:
		for _, m := range g.reg.Living() {
			g.announce(MemberChannel(m.ID), msg)
		}
	case PhaseNight:
		g.announce(WolfDen(), msg)
		for _, m := range g.reg.Living() {
			if m.Role == RoleSeer || m.Role == RoleKnight {
				g.announce(MemberChannel(m.ID), msg)
			}
		}
	}
	g.announce(Living(), msg)
}

// StopTimer pauses the running cascade (GM command). The loop keeps
// ticking but stops decrementing until ResumeTimer.
func (g *Game) StopTimer() {
	if !g.timerActive {
		g.announce(Living(), Message{Title: g.lang.T(TxtNoTimer), Color: ColorSystem})
		return
	}
	g.paused = true
	g.announce(Living(), Message{
		Title: g.lang.F(TxtTimerStopped, map[string]string{"time": fmtSeconds(g.remaining)}),
		Color: ColorSystem,
	})
}

func (g *Game) ResumeTimer() {
	if !g.timerActive {
		g.announce(Living(), Message{Title: g.lang.T(TxtNoTimer), Color: ColorSystem})
		return
	}
	g.paused = false
	g.announce(Living(), Message{
		Title: g.lang.F(TxtTimerResumed, map[string]string{"time": fmtSeconds(g.remaining)}),
		Color: ColorSystem,
	})
}

// afterGuarded schedules a one-shot callback that is dropped unless the
// epoch and phase still match when it fires. Used for the confirmation
// timeout, which is not a countdown anyone watches.
func (g *Game) afterGuarded(d time.Duration, fn func()) {
	epoch, phase := g.epoch, g.phase
	g.sched.After(d, func() {
		if epoch != g.epoch || phase != g.phase {
			return
		}
		fn()
	})
}
