package engine

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// StartRecruiting opens the session from Unstarted. The opener becomes
// a GM for this session.
func (g *Game) StartRecruiting(openerID string) {
	if g.phase != PhaseUnstarted {
		return
	}
	g.phase = PhaseRecruiting
	g.gms[openerID] = true
	g.quota = g.rules.RoleNums.Clone()
	g.announce(Living(), Message{Title: g.lang.T(TxtRecruitOpen), Color: ColorSystem})
	g.announce(Living(), g.roleBreakdown())
	g.render(Living(), ctlJoin, nil)
	g.broadcastState()
	g.log.Info("recruiting opened", zap.String("opener", openerID))
}

func (g *Game) join(id, name string) {
	if g.phase != PhaseRecruiting {
		return
	}
	m := NewMember(id, name)
	if !g.reg.Add(m) {
		g.announce(Living(), Message{
			Title: g.lang.F(TxtRecruitAlreadyIn, map[string]string{"user": name}),
			Color: ColorWarn,
		})
		return
	}
	g.announce(Living(), Message{
		Title: g.lang.F(TxtRecruitJoined, map[string]string{"user": name}),
		Body: g.lang.F(TxtRecruitCount, map[string]string{
			"num": fmt.Sprint(g.reg.Len()), "req": fmt.Sprint(g.RequiredCount()),
		}),
		Color: ColorSystem,
	})
	if g.reg.Len() == g.RequiredCount() {
		g.announce(Living(), Message{Title: g.lang.T(TxtRecruitFull), Color: ColorSystem})
	}
	g.broadcastState()
}

func (g *Game) leave(id string) {
	if g.phase != PhaseRecruiting {
		return
	}
	m, ok := g.reg.Get(id)
	if !ok {
		g.announce(Living(), Message{
			Title: g.lang.F(TxtRecruitNotIn, map[string]string{"user": id}),
			Color: ColorWarn,
		})
		return
	}
	g.reg.Remove(id)
	g.announce(Living(), Message{
		Title: g.lang.F(TxtRecruitLeft, map[string]string{"user": m.Name}),
		Color: ColorSystem,
	})
	g.broadcastState()
}

// SetQuotaLetters replaces the active quota from shorthand like
// "VVVSKW". GM only; valid letters apply even when others fail.
func (g *Game) SetQuotaLetters(s string) []error {
	q, errs := ParseRoleLetters(s)
	if q.Sum() > 0 {
		g.quota = q
		g.announce(Living(), g.roleBreakdown())
	}
	return errs
}

// ApplyRuleEdits is the GM rule-edit entry point. Edits only land
// before the deal; the quota snapshot follows the rule set.
func (g *Game) ApplyRuleEdits(text string) []error {
	errs := g.rules.ApplyEdits(text)
	if g.phase == PhaseUnstarted || g.phase == PhaseRecruiting {
		g.quota = g.rules.RoleNums.Clone()
	}
	if len(errs) > 0 {
		var lines []string
		for _, e := range errs {
			lines = append(lines, e.Error())
		}
		g.announce(Living(), Message{
			Title: g.lang.T(TxtRuleEditRejected),
			Body:  strings.Join(lines, "\n"),
			Color: ColorWarn,
		})
	}
	return errs
}

// checkStart moves Recruiting to Preparation when the roster exactly
// fills the quota. No auto-transition: a GM must ask.
func (g *Game) checkStart() {
	if g.phase != PhaseRecruiting {
		return
	}
	n, req := g.reg.Len(), g.RequiredCount()
	args := map[string]string{"num": fmt.Sprint(n), "req": fmt.Sprint(req)}
	switch {
	case n < req:
		g.announce(Living(), Message{Title: g.lang.F(TxtRecruitNotEnough, args), Color: ColorWarn})
	case n > req:
		g.announce(Living(), Message{Title: g.lang.F(TxtRecruitTooMany, args), Color: ColorWarn})
	default:
		g.gamePreparation()
	}
}

// gamePreparation deals roles, or opens the preference window first
// when the rules ask for one. A fresh epoch orphans any timer still
// outstanding from a previous round.
func (g *Game) gamePreparation() {
	g.epoch = g.rng.Int63()
	g.phase = PhasePreparation
	g.day = -1
	g.reg.ResetAll()
	g.accepted = make(map[string]bool)
	g.canForceStart = false
	g.dropAllControls()
	g.setBGM(TrackOpening)
	g.announce(Living(), Message{Title: g.lang.T(TxtPrepStart), Color: ColorSystem})
	g.announce(Living(), g.roleBreakdown())

	if g.rules.WishRoleTime > 0 {
		g.openWishWindow()
		return
	}
	g.deal()
	g.openConfirmation()
}

// openWishWindow collects 1-5 preference weights per role, then deals
// with the optimizer and goes straight to the first night. There is no
// confirmation pass in this mode.
func (g *Game) openWishWindow() {
	opts := make([]ControlOption, 0, len(g.quota.Active()))
	for _, r := range g.quota.Active() {
		opts = append(opts, ControlOption{ID: string(r), Label: string(r)})
	}
	g.reg.Each(func(m *Member) {
		g.render(MemberChannel(m.ID), ctlWish, opts)
	})
	g.announce(Living(), Message{
		Title: g.lang.F(TxtPrepWishOpen, map[string]string{"sec": fmt.Sprint(g.rules.WishRoleTime)}),
		Color: ColorSystem,
	})
	g.startCascade(g.rules.WishRoleTime, nil, func() {
		g.dropControls(ctlWish)
		g.deal()
		g.startFirstNight()
	})
}

// deal runs the optimizer and hands every member their role in private.
func (g *Game) deal() {
	assignment, err := AssignRoles(g.quota, g.reg.IDs(), func(id string, r Role) int {
		m, _ := g.reg.Get(id)
		if w, ok := m.Wish[r]; ok {
			return w
		}
		return 3
	}, g.rules.WishRoleRandWeight, g.rng)
	if err != nil {
		// Quota and roster were matched at checkStart; this is a bug.
		g.log.Error("role assignment failed", zap.Error(err))
		return
	}
	g.reg.Each(func(m *Member) {
		m.Role = assignment[m.ID]
		g.announce(MemberChannel(m.ID), Message{
			Title: g.lang.F(TxtPrepRole, map[string]string{
				"role": string(m.Role), "team": string(m.Role.Team()),
			}),
			Color: teamColor(m.Role.Team()),
		})
	})
	g.introducePeers(func(m *Member) bool { return m.Role.InWolfDen() }, WolfDen())
	g.introduceMasons()
	g.log.Info("roles dealt", zap.Int("members", g.reg.Len()))
}

// introducePeers announces the den roster to its channel so wolves (and
// the Communicatable) know each other from the start.
func (g *Game) introducePeers(in func(*Member) bool, ch ChannelRef) {
	var names []string
	g.reg.Each(func(m *Member) {
		if in(m) {
			names = append(names, fmt.Sprintf("%s (%s)", m.Name, m.Role))
		}
	})
	if len(names) == 0 {
		return
	}
	g.announce(ch, Message{
		Title: g.lang.T(TxtMemberList),
		Body:  strings.Join(names, "\n"),
		Color: ColorEvil,
	})
}

// introduceMasons tells each mason who the others are, privately, since
// masons share no channel.
func (g *Game) introduceMasons() {
	var masons []*Member
	g.reg.Each(func(m *Member) {
		if m.Role == RoleMason {
			masons = append(masons, m)
		}
	})
	if len(masons) < 2 {
		return
	}
	var names []string
	for _, m := range masons {
		names = append(names, m.Name)
	}
	body := strings.Join(names, "\n")
	for _, m := range masons {
		g.announce(MemberChannel(m.ID), Message{
			Title: g.lang.T(TxtMemberList),
			Body:  body,
			Color: ColorGood,
		})
	}
}

// openConfirmation requires each member to accept their role. After
// confirmation_sec the laggards are listed and a GM force-start
// becomes legal.
func (g *Game) openConfirmation() {
	g.reg.Each(func(m *Member) {
		g.render(MemberChannel(m.ID), ctlAccept, nil)
	})
	g.afterGuarded(time.Duration(g.rules.ConfirmationSec)*time.Second, func() {
		g.canForceStart = true
		var laggards []string
		g.reg.Each(func(m *Member) {
			if !g.accepted[m.ID] {
				laggards = append(laggards, m.Name)
			}
		})
		if len(laggards) == 0 {
			return
		}
		g.announce(Living(), Message{
			Title: g.lang.F(TxtPrepLaggards, map[string]string{"users": strings.Join(laggards, ", ")}),
			Color: ColorWarn,
		})
	})
}

func (g *Game) acceptRole(id string) {
	if g.phase != PhasePreparation {
		return
	}
	m, ok := g.reg.Get(id)
	if !ok {
		return
	}
	if g.accepted[id] {
		g.announce(MemberChannel(id), Message{Title: g.lang.T(TxtPrepAlreadyAcc), Color: ColorWarn})
		return
	}
	g.accepted[id] = true
	g.announce(Living(), Message{
		Title: g.lang.F(TxtPrepAccepted, map[string]string{"user": m.Name}),
		Color: ColorSystem,
	})
	for _, id := range g.reg.IDs() {
		if !g.accepted[id] {
			return
		}
	}
	g.announce(Living(), Message{Title: g.lang.T(TxtPrepAllAccepted), Color: ColorSystem})
	g.startFirstNight()
}

// ForceStart is the GM escape hatch for members who never accept. Legal
// only after the confirmation window has elapsed.
func (g *Game) ForceStart() {
	if g.phase != PhasePreparation {
		return
	}
	if !g.canForceStart {
		g.announce(Living(), Message{
			Title: g.lang.F(TxtPrepNoForceYet, map[string]string{"sec": fmt.Sprint(g.rules.ConfirmationSec)}),
			Color: ColorWarn,
		})
		return
	}
	g.announce(Living(), Message{Title: g.lang.T(TxtPrepForceStart), Color: ColorSystem})
	g.startFirstNight()
}

func teamColor(t Team) ColorTag {
	if t == TeamEvil {
		return ColorEvil
	}
	return ColorGood
}
