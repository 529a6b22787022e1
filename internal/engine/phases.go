package engine

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

func (g *Game) startFirstNight() {
	g.phase = PhaseFirstNight
	g.day = 0
	g.dropAllControls()
	g.setVoicePhase()
	g.setBGM(TrackFirstNight)
	g.announce(Living(), Message{
		Title: g.lang.F(TxtFirstNightStart, map[string]string{"time": fmtSeconds(g.rules.FirstNight.Length)}),
		Color: ColorSystem,
	})
	g.announce(WolfDen(), Message{Title: g.lang.T(TxtNightStart), Color: ColorEvil})
	g.firstNightFortune()
	g.log.Info("first night", zap.Int64("epoch", g.epoch))
	g.startCascade(g.rules.FirstNight.Length, g.rules.FirstNight.AlertTimes, g.startDaytime)
}

// firstNightFortune gives each seer a free result per the
// first_nights_fortune rule. random_white reports Good no matter what.
func (g *Game) firstNightFortune() {
	if g.rules.FirstNightFortune == FortuneNone {
		return
	}
	g.reg.Each(func(m *Member) {
		if m.Role != RoleSeer || !m.Alive {
			return
		}
		var pool []*Member
		g.reg.Each(func(o *Member) {
			if o.ID != m.ID && o.Alive {
				pool = append(pool, o)
			}
		})
		if len(pool) == 0 {
			return
		}
		target := pool[g.rng.Intn(len(pool))]
		seen := target.Role.FortuneTeam()
		if g.rules.FirstNightFortune == FortuneRandomWhite {
			seen = TeamGood
		}
		g.sendFortune(m, target, seen)
	})
}

// sendFortune delivers an investigation result and records it so the
// target drops out of the seer's future candidate pool.
func (g *Game) sendFortune(seer, target *Member, seen Team) {
	seer.ActionLog = append(seer.ActionLog, ActionRecord{Target: target.ID, Seen: seen})
	g.announce(MemberChannel(seer.ID), Message{
		Title: g.lang.F(TxtFortuneResult, map[string]string{
			"user": target.Name, "team": string(seen),
		}),
		Color: teamColor(seen),
	})
}

func (g *Game) startDaytime() {
	g.phase = PhaseDaytime
	g.day++
	g.dropAllControls()
	g.voteRound = 0
	g.cutVotes = make(map[string]bool)

	victim := g.consumeKillQueue()
	g.setVoicePhase()
	g.setBGM(TrackDaytime)
	if victim != nil {
		g.announceMajor(Message{
			Title: g.lang.F(TxtDayMorningKilled, map[string]string{
				"n": fmt.Sprint(g.day), "user": victim.Name,
			}),
			Color: ColorKilled,
		})
	} else {
		g.announceMajor(Message{
			Title: g.lang.F(TxtDayMorningQuiet, map[string]string{"n": fmt.Sprint(g.day)}),
			Color: ColorNoKilled,
		})
	}
	if victim != nil && g.checkWin() {
		return
	}
	g.bakerReport()

	length := g.dayLength()
	g.announce(Living(), Message{
		Title: g.lang.F(TxtDayLength, map[string]string{"time": fmtSeconds(length)}),
		Color: ColorSystem,
	})
	g.announce(Living(), Message{Title: g.lang.T(TxtClaimOpen), Color: ColorSystem})
	for _, m := range g.reg.Living() {
		g.render(MemberChannel(m.ID), ctlClaim, nil)
		g.render(MemberChannel(m.ID), ctlCutTime, nil)
		if m.Role == RoleDictator && m.AbilityUses == 0 {
			g.render(MemberChannel(m.ID), ctlDictator, nil)
		}
	}
	g.startCascade(length, g.rules.Day.AlertTimes, g.startVote)
}

// consumeKillQueue applies the pending night kill and returns the
// victim, or nil for a quiet morning.
func (g *Game) consumeKillQueue() *Member {
	if len(g.killQueue) == 0 {
		return nil
	}
	id := g.killQueue[0]
	g.killQueue = nil
	m, ok := g.reg.Get(id)
	if !ok || !m.Alive {
		return nil
	}
	g.kill(m, CauseDevoured)
	return m
}

// dayLength shrinks the day by reduction_time per elapsed day, with a
// floor so late days stay playable.
func (g *Game) dayLength() int {
	l := g.rules.Day.Length - g.rules.Day.Reduction*(g.day-1)
	if l < 30 {
		l = 30
	}
	return l
}

// bakerReport delivers bread while a baker lives, and exactly one death
// notice the morning after the last baker dies.
func (g *Game) bakerReport() {
	bakerAlive := false
	bakerDiedRecently := false
	g.reg.Each(func(m *Member) {
		if m.Role != RoleBaker {
			return
		}
		if m.Alive {
			bakerAlive = true
		} else if m.DiedOnDay == g.day || m.DiedOnDay == g.day-1 {
			bakerDiedRecently = true
		}
	})
	switch {
	case bakerAlive:
		bread := breadRepertoire[g.rng.Intn(len(breadRepertoire))]
		g.announce(Living(), Message{
			Title: g.lang.F(TxtBakerBread, map[string]string{"bread": bread}),
			Color: ColorSystem,
		})
	case bakerDiedRecently:
		g.announce(Living(), Message{Title: g.lang.T(TxtBakerDead), Color: ColorWarn})
	}
}

func (g *Game) startVote() {
	g.phase = PhaseVote
	g.dropAllControls()
	g.setVoicePhase()
	g.setBGM(TrackVote)
	g.openVoteRound()
}

// openVoteRound clears targets and renders a ballot per living member.
// Members cannot vote for themselves. A dictator-forced vote is solo:
// everyone else keeps an empty target list and gets no ballot.
func (g *Game) openVoteRound() {
	living := g.reg.Living()
	for _, m := range living {
		m.Target = ""
		m.ValidTargets = nil
		if g.dictatorVote && m.Role != RoleDictator {
			continue
		}
		for _, o := range living {
			if o.ID != m.ID {
				m.ValidTargets = append(m.ValidTargets, o.ID)
			}
		}
	}
	round := ""
	if g.voteRound > 0 {
		round = fmt.Sprintf(", revote %d", g.voteRound)
	}
	g.announce(Living(), Message{
		Title: g.lang.F(TxtVoteOpen, map[string]string{"n": fmt.Sprint(g.day), "round": round}),
		Color: ColorSystem,
	})
	for _, m := range living {
		if len(m.ValidTargets) == 0 {
			continue
		}
		opts := make([]ControlOption, 0, len(m.ValidTargets))
		for _, id := range m.ValidTargets {
			if o, ok := g.reg.Get(id); ok {
				opts = append(opts, ControlOption{ID: id, Label: o.Name})
			}
		}
		g.render(MemberChannel(m.ID), ctlVote, opts)
	}
	g.startCascade(g.rules.Vote.Length, g.rules.Vote.AlertTimes, g.resolveVote)
}

func (g *Game) resolveVote() {
	living := g.reg.Living()
	votes := make(map[string]string, len(living))
	eligible := make([]string, 0, len(living))
	for _, m := range living {
		votes[m.ID] = m.Target
		eligible = append(eligible, m.ID)
	}
	out := Tally(votes, eligible)

	if id, ok := out.Unique(); ok && out.Max > 0 {
		g.execute(id, out)
		return
	}
	if g.voteRound < g.rules.Vote.RevoteNum {
		g.voteRound++
		g.announce(Living(), Message{
			Title:  g.lang.T(TxtVoteRevote),
			Fields: g.countFields(out),
			Color:  ColorSystem,
		})
		g.openVoteRound()
		return
	}
	switch g.rules.Vote.WhenEven {
	case EvenRandom:
		g.execute(out.Top[g.rng.Intn(len(out.Top))], out)
	default:
		g.lastExecuted = ""
		g.announce(Living(), Message{
			Title:  g.lang.T(TxtVoteEven),
			Fields: g.countFields(out),
			Color:  ColorNoKilled,
		})
		g.startNight()
	}
}

// countFields renders the full vote distribution for announcements.
func (g *Game) countFields(out Outcome) []Field {
	var lines []string
	g.reg.Each(func(m *Member) {
		if n, ok := out.Counts[m.ID]; ok && n > 0 {
			lines = append(lines, fmt.Sprintf("%s: %d", m.Name, n))
		}
	})
	if len(lines) == 0 {
		return nil
	}
	return []Field{{Label: "votes", Value: strings.Join(lines, "\n")}}
}

func (g *Game) execute(id string, out Outcome) {
	m, ok := g.reg.Get(id)
	if !ok {
		return
	}
	g.kill(m, CauseExecuted)
	g.lastExecuted = id
	g.announceMajor(Message{
		Title:  g.lang.F(TxtVoteExecuted, map[string]string{"user": m.Name}),
		Fields: g.countFields(out),
		Color:  ColorKilled,
	})
	if g.checkWin() {
		return
	}
	g.startNight()
}

// kill flips a member dead and moves them to the dead side. Win
// checking is the caller's job since announcement order differs per
// cause.
func (g *Game) kill(m *Member, cause DeathCause) {
	m.Alive = false
	m.Cause = cause
	m.DiedOnDay = g.day
	g.announce(Dead(), Message{
		Title: g.lang.F(TxtWelcomeDead, map[string]string{"user": m.Name}),
		Color: ColorSystem,
	})
	g.setVoicePhase()
	g.log.Info("member died",
		zap.String("member", m.ID),
		zap.String("cause", string(cause)),
		zap.Int("day", g.day))
}

// checkWin applies the win rule: only living Werewolves count Evil and
// everyone else living counts Good. good <= evil is checked first, so a
// same-step elimination still falls to the Evil side.
func (g *Game) checkWin() bool {
	evil, good := 0, 0
	for _, m := range g.reg.Living() {
		if m.Role == RoleWerewolf {
			evil++
		} else {
			good++
		}
	}
	switch {
	case good <= evil:
		g.gameEnd(TeamEvil)
		return true
	case evil == 0:
		g.gameEnd(TeamGood)
		return true
	}
	return false
}

func (g *Game) startNight() {
	g.phase = PhaseNight
	g.dropAllControls()
	g.cutVotes = make(map[string]bool)
	g.dictatorVote = false
	g.wolfTarget = ""
	g.setVoicePhase()
	g.setBGM(TrackNight)
	g.announce(Living(), Message{
		Title: g.lang.F(TxtNightStart, map[string]string{"time": fmtSeconds(g.rules.Night.Length)}),
		Color: ColorSystem,
	})

	for _, m := range g.reg.Living() {
		m.Target = ""
		m.ValidTargets = nil
	}
	g.openWolfChoice()
	g.openKnightChoice()
	g.openSeerChoice()
	g.priestFortune()
	for _, m := range g.reg.Living() {
		g.render(MemberChannel(m.ID), ctlCutTime, nil)
	}
	g.startCascade(g.rules.Night.Length, g.rules.Night.AlertTimes, g.resolveNight)
}

func (g *Game) openWolfChoice() {
	prey := g.wolfPrey()
	opts := make([]ControlOption, 0, len(prey))
	for _, id := range prey {
		if o, ok := g.reg.Get(id); ok {
			opts = append(opts, ControlOption{ID: id, Label: o.Name})
		}
	}
	for _, m := range g.reg.Living() {
		if m.Role == RoleWerewolf {
			m.ValidTargets = prey
		}
	}
	g.announce(WolfDen(), Message{Title: g.lang.T(TxtWolfChoose), Color: ColorEvil})
	g.render(WolfDen(), ctlWolf, opts)
}

// wolfPrey is everyone living outside the wolf den.
func (g *Game) wolfPrey() []string {
	var out []string
	for _, m := range g.reg.Living() {
		if !m.Role.InWolfDen() {
			out = append(out, m.ID)
		}
	}
	return out
}

// openKnightChoice offers guard targets, excluding the previous
// night's guard unless continuous_guard allows repeats.
func (g *Game) openKnightChoice() {
	for _, m := range g.reg.Living() {
		if m.Role != RoleKnight {
			continue
		}
		prev := ""
		if last, ok := m.LastAction(); ok && !g.rules.ContinuousGuard {
			prev = last.Target
		}
		for _, o := range g.reg.Living() {
			if o.ID != m.ID && o.ID != prev {
				m.ValidTargets = append(m.ValidTargets, o.ID)
			}
		}
		opts := make([]ControlOption, 0, len(m.ValidTargets))
		for _, id := range m.ValidTargets {
			if o, ok := g.reg.Get(id); ok {
				opts = append(opts, ControlOption{ID: id, Label: o.Name})
			}
		}
		g.announce(MemberChannel(m.ID), Message{Title: g.lang.T(TxtKnightChoose), Color: ColorSystem})
		g.render(MemberChannel(m.ID), ctlKnight, opts)
	}
}

// openSeerChoice offers investigation targets minus the already
// investigated. One candidate left auto-resolves; none left is a
// notice.
func (g *Game) openSeerChoice() {
	for _, m := range g.reg.Living() {
		if m.Role != RoleSeer {
			continue
		}
		for _, o := range g.reg.Living() {
			if o.ID != m.ID && !m.Investigated(o.ID) {
				m.ValidTargets = append(m.ValidTargets, o.ID)
			}
		}
		switch len(m.ValidTargets) {
		case 0:
			g.announce(MemberChannel(m.ID), Message{Title: g.lang.T(TxtFortuneNoTarget), Color: ColorSystem})
		case 1:
			target, _ := g.reg.Get(m.ValidTargets[0])
			m.ValidTargets = nil
			g.sendFortune(m, target, target.Role.FortuneTeam())
		default:
			opts := make([]ControlOption, 0, len(m.ValidTargets))
			for _, id := range m.ValidTargets {
				if o, ok := g.reg.Get(id); ok {
					opts = append(opts, ControlOption{ID: id, Label: o.Name})
				}
			}
			g.announce(MemberChannel(m.ID), Message{Title: g.lang.T(TxtSeerChoose), Color: ColorSystem})
			g.render(MemberChannel(m.ID), ctlSeer, opts)
		}
	}
}

// priestFortune auto-delivers the team of the day's executed member.
func (g *Game) priestFortune() {
	if g.lastExecuted == "" {
		return
	}
	target, ok := g.reg.Get(g.lastExecuted)
	if !ok {
		return
	}
	for _, m := range g.reg.Living() {
		if m.Role == RolePriest {
			g.sendFortune(m, target, target.Role.FortuneTeam())
		}
	}
}

func (g *Game) resolveNight() {
	prey := g.wolfPrey()
	if g.wolfTarget == "" && len(prey) > 0 {
		g.wolfTarget = prey[g.rng.Intn(len(prey))]
		if t, ok := g.reg.Get(g.wolfTarget); ok {
			g.announce(WolfDen(), Message{
				Title: g.lang.F(TxtWolfAutoTarget, map[string]string{"user": t.Name}),
				Color: ColorEvil,
			})
		}
	}

	guard := ""
	for _, m := range g.reg.Living() {
		if m.Role != RoleKnight {
			continue
		}
		if m.Target == "" {
			g.announce(MemberChannel(m.ID), Message{Title: g.lang.T(TxtKnightNoSelect), Color: ColorWarn})
			// A skipped night still logs a record so the previous
			// guard target is no longer the one excluded next night.
			m.ActionLog = append(m.ActionLog, ActionRecord{Seen: TeamOther})
			continue
		}
		guard = m.Target
		m.ActionLog = append(m.ActionLog, ActionRecord{Target: guard, Seen: TeamOther})
	}

	if g.wolfTarget != "" {
		if g.wolfTarget != guard {
			g.killQueue = append(g.killQueue, g.wolfTarget)
		}
		for _, m := range g.reg.Living() {
			if m.Role == RoleWerewolf {
				m.ActionLog = append(m.ActionLog, ActionRecord{Target: g.wolfTarget, Seen: TeamOther})
			}
		}
	}
	g.wolfTarget = ""
	g.startDaytime()
}

func (g *Game) gameEnd(winner Team) {
	g.phase = PhaseGameEnd
	g.dropAllControls()
	g.dictatorVote = false
	g.setVoicePhase()
	if winner == TeamEvil {
		g.setBGM(TrackEvilWin)
	} else {
		g.setBGM(TrackGoodWin)
	}
	g.announceMajor(Message{
		Title:  g.lang.F(TxtGameEndTitle, map[string]string{"team": string(winner)}),
		Fields: g.revealFields(),
		Color:  teamColor(winner),
	})
	g.announce(Living(), Message{
		Title: g.lang.F(TxtGameEndContinue, map[string]string{"time": fmtSeconds(g.rules.AfterGame.Length)}),
		Color: ColorSystem,
	})
	g.log.Info("game over", zap.String("winner", string(winner)), zap.Int("days", g.day))
	g.startCascade(g.rules.AfterGame.Length, g.rules.AfterGame.AlertTimes, g.breakup)
}

// revealFields lists every member's role, fate, and night-action log.
func (g *Game) revealFields() []Field {
	var fields []Field
	g.reg.Each(func(m *Member) {
		fate := "alive"
		if !m.Alive {
			fate = fmt.Sprintf("%s on day %d", m.Cause, m.DiedOnDay)
		}
		var acts []string
		for _, a := range m.ActionLog {
			if t, ok := g.reg.Get(a.Target); ok {
				acts = append(acts, t.Name)
			}
		}
		v := fate
		if len(acts) > 0 {
			v += "\ntargets: " + strings.Join(acts, ", ")
		}
		fields = append(fields, Field{
			Label:  fmt.Sprintf("%s (%s)", m.Name, m.Role),
			Value:  v,
			Inline: true,
		})
	})
	return fields
}

// ContinueGame revives the same roster for another round.
func (g *Game) ContinueGame() {
	if g.phase != PhaseGameEnd {
		return
	}
	g.resetCore()
	g.broadcastState()
}

func (g *Game) breakup() {
	g.announce(Living(), Message{Title: g.lang.T(TxtGameEndBreakup), Color: ColorSystem})
	g.phase = PhaseUnstarted
	g.epoch = g.rng.Int63()
	if g.onTeardown != nil {
		g.onTeardown()
	}
}
