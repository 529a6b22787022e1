package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandleChatCommand is the free-text entry point. The first word picks
// the command; the rest is the argument. Unknown commands are ignored
// so ordinary table talk passes through silently.
func (g *Game) HandleChatCommand(participantID, channelID, text string) {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(text), " ")
	cmd = strings.ToLower(cmd)
	switch cmd {
	case "wanted", "recruit":
		g.StartRecruiting(participantID)
	case "join":
		name := strings.TrimSpace(rest)
		if name == "" {
			name = participantID
		}
		g.join(participantID, name)
	case "leave":
		g.leave(participantID)
	case "kick":
		if g.requireGM(participantID) {
			g.leave(strings.TrimSpace(rest))
		}
	case "list":
		g.announce(Living(), g.memberListMessage())
	case "phase":
		g.announce(Living(), Message{
			Title: g.lang.F(TxtPhaseName, map[string]string{"phase": string(g.phase)}),
			Color: ColorSystem,
		})
	case "time":
		if !g.timerActive {
			g.announce(Living(), Message{Title: g.lang.T(TxtNoTimer), Color: ColorSystem})
			return
		}
		g.announce(Living(), Message{
			Title: g.lang.F(TxtRemainingTime, map[string]string{"time": fmtSeconds(g.remaining)}),
			Color: ColorSystem,
		})
	case "cut":
		g.cutTime(participantID)
	case "continue":
		g.ContinueGame()
	case "start":
		if g.requireGM(participantID) {
			g.checkStart()
		}
	case "force", "force_start":
		if g.requireGM(participantID) {
			g.ForceStart()
		}
	case "rule", "rules":
		if g.requireGM(participantID) {
			g.ApplyRuleEdits(rest)
		}
	case "quota":
		if g.requireGM(participantID) {
			g.SetQuotaLetters(strings.TrimSpace(rest))
		}
	case "stop", "stop_timer":
		if g.requireGM(participantID) {
			g.StopTimer()
		}
	case "resume", "resume_timer":
		if g.requireGM(participantID) {
			g.ResumeTimer()
		}
	case "end":
		if g.phase == PhaseGameEnd && g.requireGM(participantID) {
			g.breakup()
		}
	case "reset":
		if g.requireGM(participantID) {
			g.Reset()
		}
	default:
		g.log.Debug("unrecognized command",
			zap.String("member", participantID),
			zap.String("channel", channelID),
			zap.String("cmd", cmd))
	}
}

func (g *Game) requireGM(id string) bool {
	if g.isGM(id) {
		return true
	}
	g.announce(Living(), Message{Title: g.lang.T(TxtNeedGM), Color: ColorWarn})
	return false
}

// HandleInteraction dispatches a controller response. Unknown handles
// are stale renders from an earlier phase or an earlier game and are
// dropped without comment; so are payloads that do not match what the
// handle was rendered for.
func (g *Game) HandleInteraction(participantID string, handle uuid.UUID, payload Interaction) {
	kind, ok := g.controls[handle]
	if !ok {
		g.log.Debug("stale interaction handle",
			zap.String("member", participantID),
			zap.String("handle", handle.String()))
		return
	}
	switch p := payload.(type) {
	case JoinGame:
		if kind == ctlJoin {
			name := p.Name
			if name == "" {
				name = participantID
			}
			g.join(participantID, name)
		}
	case AcceptRole:
		if kind == ctlAccept {
			g.acceptRole(participantID)
		}
	case WishRole:
		if kind == ctlWish {
			g.wishRole(participantID, p.Role, p.Weight)
		}
	case CastVote:
		if kind == ctlVote {
			g.castVote(participantID, p.Target)
		}
	case GuardTarget:
		if kind == ctlKnight {
			g.guardTarget(participantID, p.Target)
		}
	case Investigate:
		if kind == ctlSeer {
			g.investigate(participantID, p.Target)
		}
	case WolfTarget:
		if kind == ctlWolf {
			g.wolfChoose(participantID, p.Target)
		}
	case ClaimRole:
		if kind == ctlClaim {
			g.claimRole(participantID, p.Role)
		}
	case MarkMember:
		if kind == ctlClaim {
			g.markMember(participantID, p.Target, p.Black)
		}
	case InvokeDictator:
		if kind == ctlDictator {
			g.invokeDictator(participantID)
		}
	case CutTime:
		if kind == ctlCutTime {
			g.cutTime(participantID)
		}
	}
}

func (g *Game) wishRole(id string, role Role, weight int) {
	if g.phase != PhasePreparation {
		return
	}
	m, ok := g.reg.Get(id)
	if !ok {
		return
	}
	if weight < 1 {
		weight = 1
	}
	if weight > 5 {
		weight = 5
	}
	m.Wish[role] = weight
}

func (g *Game) castVote(id, target string) {
	if g.phase != PhaseVote {
		return
	}
	m, ok := g.reg.Get(id)
	if !ok || !m.Alive || !m.CanTarget(target) {
		return
	}
	m.Target = target
	g.announce(Living(), Message{
		Title: g.lang.F(TxtVoteCast, map[string]string{"user": m.Name}),
		Color: ColorSystem,
	})
	// Everyone holding a ballot is in, so there is nothing left to
	// wait for. Members without targets (a dictator's solo vote)
	// do not block resolution.
	for _, o := range g.reg.Living() {
		if len(o.ValidTargets) > 0 && o.Target == "" {
			return
		}
	}
	g.remaining = 0
}

func (g *Game) guardTarget(id, target string) {
	if g.phase != PhaseNight {
		return
	}
	m, ok := g.reg.Get(id)
	if !ok || !m.Alive || m.Role != RoleKnight || !m.CanTarget(target) {
		return
	}
	m.Target = target
}

func (g *Game) investigate(id, target string) {
	if g.phase != PhaseNight {
		return
	}
	m, ok := g.reg.Get(id)
	if !ok || !m.Alive || m.Role != RoleSeer || !m.CanTarget(target) {
		return
	}
	t, ok := g.reg.Get(target)
	if !ok {
		return
	}
	m.ValidTargets = nil
	g.dropControls(ctlSeer)
	g.sendFortune(m, t, t.Role.FortuneTeam())
}

func (g *Game) wolfChoose(id, target string) {
	if g.phase != PhaseNight {
		return
	}
	m, ok := g.reg.Get(id)
	if !ok || !m.Alive || m.Role != RoleWerewolf || !m.CanTarget(target) {
		return
	}
	g.wolfTarget = target
	if t, ok := g.reg.Get(target); ok {
		g.announce(WolfDen(), Message{
			Title: g.lang.F(TxtVoteCast, map[string]string{"user": m.Name}),
			Body:  t.Name,
			Color: ColorEvil,
		})
	}
}

func (g *Game) claimRole(id string, role Role) {
	if g.phase != PhaseDaytime {
		return
	}
	m, ok := g.reg.Get(id)
	if !ok || !m.Alive {
		return
	}
	if m.FirstClaimAt.IsZero() {
		m.FirstClaimAt = time.Now()
	}
	m.ClaimedRole = role
	g.announce(Living(), Message{
		Title: g.lang.F(TxtClaimRole, map[string]string{"user": m.Name, "role": string(role)}),
		Color: ColorSystem,
	})
	g.playEffect(EffectClaim)
}

func (g *Game) markMember(id, target string, black bool) {
	if g.phase != PhaseDaytime {
		return
	}
	m, ok := g.reg.Get(id)
	if !ok || !m.Alive {
		return
	}
	t, ok := g.reg.Get(target)
	if !ok {
		return
	}
	m.Marks = append(m.Marks, Claim{Target: target, Black: black})
	mark := "white"
	if black {
		mark = "black"
	}
	g.announce(Living(), Message{
		Title: g.lang.F(TxtClaimMark, map[string]string{
			"user": m.Name, "target": t.Name, "mark": mark,
		}),
		Color: ColorSystem,
	})
	g.playEffect(EffectMark)
}

// invokeDictator spends the one-shot ability and jumps straight to the
// vote. The phase change alone orphans the Daytime cascade.
func (g *Game) invokeDictator(id string) {
	if g.phase != PhaseDaytime {
		return
	}
	m, ok := g.reg.Get(id)
	if !ok || !m.Alive || m.Role != RoleDictator || m.AbilityUses > 0 {
		return
	}
	m.AbilityUses++
	g.announce(Living(), Message{Title: g.lang.T(TxtDictatorInvoked), Color: ColorWarn})
	g.dictatorVote = true
	g.startVote()
}

// cutTime collects shorten-the-phase votes. Approval clamps the
// remaining time to at most 12 seconds.
func (g *Game) cutTime(id string) {
	if g.phase != PhaseDaytime && g.phase != PhaseNight {
		return
	}
	m, ok := g.reg.Get(id)
	if !ok || !m.Alive {
		return
	}
	g.cutVotes[m.ID] = true
	req := g.reg.LivingCount()
	if g.rules.Day.CutTime == CutTimeMajority {
		req = req/2 + 1
	}
	now := len(g.cutVotes)
	if now < req {
		g.announce(Living(), Message{
			Title: g.lang.F(TxtCutTimeCount, map[string]string{
				"now": fmt.Sprint(now), "req": fmt.Sprint(req),
			}),
			Color: ColorSystem,
		})
		return
	}
	g.announce(Living(), Message{Title: g.lang.T(TxtCutTimeApproved), Color: ColorSystem})
	if g.remaining > 12 {
		g.remaining = 12
	}
}
