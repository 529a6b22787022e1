package engine

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Phase string

const (
	PhaseUnstarted   Phase = "unstarted"
	PhaseRecruiting  Phase = "recruiting"
	PhasePreparation Phase = "preparation"
	PhaseFirstNight  Phase = "first_night"
	PhaseDaytime     Phase = "daytime"
	PhaseVote        Phase = "vote"
	PhaseNight       Phase = "night"
	PhaseGameEnd     Phase = "game_end"
)

// Config wires a Game. Zero values get sensible defaults; Sched is the
// only mandatory field outside tests.
type Config struct {
	Rules  Rules
	Lang   Table
	Log    *zap.Logger
	Sched  Scheduler
	Collab Collaborators
	Seed   int64 // 0 draws from the clock
	GMs    []string
	Devs   []string

	// OnTeardown fires when the session breaks up after GameEnd.
	OnTeardown func()
}

// Game is the phase state machine for one session. It is not safe for
// concurrent use: the session actor owns it and serializes everything,
// including timer callbacks, onto one goroutine.
type Game struct {
	log   *zap.Logger
	lang  Table
	rules Rules
	out   Collaborators
	sched Scheduler
	rng   *rand.Rand

	phase Phase
	epoch int64
	day   int

	reg   *Registry
	quota Quota

	gms  map[string]bool
	devs map[string]bool

	// Preparation
	accepted      map[string]bool
	canForceStart bool

	// Vote
	voteRound    int
	dictatorVote bool
	lastExecuted string

	// Night
	wolfTarget string
	killQueue  []string

	cutVotes map[string]bool

	// Timer cascade
	remaining   int
	paused      bool
	timerActive bool

	controls map[uuid.UUID]controlKind
	warned   map[string]bool

	onTeardown func()
}

func New(cfg Config) *Game {
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	if cfg.Lang == nil {
		cfg.Lang = DefaultTable()
	}
	if cfg.Sched == nil {
		cfg.Sched = nopScheduler{}
	}
	if cfg.Rules.RoleNums == nil {
		cfg.Rules = DefaultRules()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &Game{
		log:        cfg.Log,
		lang:       cfg.Lang,
		rules:      cfg.Rules,
		out:        cfg.Collab.withDefaults(),
		sched:      cfg.Sched,
		rng:        rand.New(rand.NewSource(seed)),
		reg:        NewRegistry(),
		gms:        make(map[string]bool),
		devs:       make(map[string]bool),
		onTeardown: cfg.OnTeardown,
	}
	for _, id := range cfg.GMs {
		g.gms[id] = true
	}
	for _, id := range cfg.Devs {
		g.devs[id] = true
	}
	g.resetCore()
	return g
}

// nopScheduler keeps a bare Game usable in tests that never run timers.
type nopScheduler struct{}

func (nopScheduler) After(time.Duration, func()) {}

// resetCore returns the session to Unstarted under a fresh epoch.
// Members stay joined but lose all per-game state. Outstanding timers
// from the old epoch become ghosts and drop themselves.
func (g *Game) resetCore() {
	g.epoch = g.rng.Int63()
	g.phase = PhaseUnstarted
	g.day = -1
	g.reg.ResetAll()
	g.quota = g.rules.RoleNums.Clone()
	g.accepted = make(map[string]bool)
	g.canForceStart = false
	g.voteRound = 0
	g.dictatorVote = false
	g.lastExecuted = ""
	g.wolfTarget = ""
	g.killQueue = nil
	g.cutVotes = make(map[string]bool)
	g.remaining = -1
	g.paused = false
	g.timerActive = false
	g.controls = make(map[uuid.UUID]controlKind)
	g.warned = make(map[string]bool)
	g.log.Debug("session reset", zap.Int64("epoch", g.epoch))
}

// Reset is the external full reset: back to Unstarted, new epoch.
func (g *Game) Reset() {
	g.resetCore()
	g.broadcastState()
}

func (g *Game) Phase() Phase  { return g.phase }
func (g *Game) Epoch() int64  { return g.epoch }
func (g *Game) Day() int      { return g.day }
func (g *Game) Remaining() int { return g.remaining }

// RequiredCount is the quota sum the session must reach to start.
func (g *Game) RequiredCount() int { return g.quota.Sum() }

func (g *Game) JoinedCount() int { return g.reg.Len() }

// MemberView returns the public state of one participant.
func (g *Game) MemberView(id string) (MemberState, bool) {
	m, ok := g.reg.Get(id)
	if !ok {
		return MemberState{}, false
	}
	return memberState(m), true
}

func memberState(m *Member) MemberState {
	s := MemberState{ID: m.ID, Name: m.Name, Alive: m.Alive}
	if !m.Alive {
		s.Cause = string(m.Cause)
	}
	return s
}

// BuildSnapshot assembles the live-state broadcast payload.
func (g *Game) BuildSnapshot() Snapshot {
	snap := Snapshot{
		Phase:     string(g.phase),
		Day:       g.day,
		Remaining: g.remaining,
	}
	g.reg.Each(func(m *Member) {
		snap.Members = append(snap.Members, memberState(m))
	})
	return snap
}

func (g *Game) broadcastState() {
	g.out.Broadcast.StateSnapshot(g.BuildSnapshot())
}

func (g *Game) isGM(id string) bool { return g.gms[id] || g.devs[id] }

func (g *Game) AddGM(id string)  { g.gms[id] = true }
func (g *Game) AddDev(id string) { g.devs[id] = true }

// announce delivers a structured message, degrading instead of failing.
func (g *Game) announce(ch ChannelRef, msg Message) {
	if err := g.out.Transport.SendAnnouncement(ch, msg); err != nil {
		g.degraded("send_announcement", err)
	}
}

// announceMajor posts to the living channel and mirrors the message to
// the game log.
func (g *Game) announceMajor(msg Message) {
	g.announce(Living(), msg)
	g.announce(GameLog(), msg)
}

// render registers a controller handle and hands it to the transport.
func (g *Game) render(ch ChannelRef, kind controlKind, opts []ControlOption) {
	h := g.newControl(kind)
	if err := g.out.Transport.RenderControls(ch, h, opts); err != nil {
		g.degraded("render_controls", err)
	}
}

// degraded logs a collaborator failure and posts at most one warning
// per failure site to the Living channel. No retry.
func (g *Game) degraded(site string, err error) {
	g.log.Warn("collaborator failure", zap.String("site", site), zap.Error(err))
	if g.warned[site] {
		return
	}
	g.warned[site] = true
	_ = g.out.Transport.SendAnnouncement(Living(), Message{
		Title: g.lang.T(TxtCollabDegraded),
		Body:  site,
		Color: ColorWarn,
	})
}

func (g *Game) setVoicePhase() {
	snap := PhaseSnapshot{
		Phase: g.phase,
		Talk:  g.phase != PhaseVote || g.rules.Vote.Talk,
	}
	g.reg.Each(func(m *Member) {
		if m.Alive {
			snap.Living = append(snap.Living, m.ID)
		} else {
			snap.Dead = append(snap.Dead, m.ID)
		}
		if m.Role != "" && m.Role.InWolfDen() {
			snap.WolfDen = append(snap.WolfDen, m.ID)
		}
	})
	if err := g.out.Voice.SetPhasePermissions(snap); err != nil {
		g.degraded("voice_permissions", err)
	}
}

func (g *Game) setBGM(track string) {
	if err := g.out.Voice.SetBackgroundAudio(track); err != nil {
		g.degraded("voice_bgm", err)
	}
}

func (g *Game) playEffect(effect string) {
	if err := g.out.Voice.PlaySoundEffect(effect); err != nil {
		g.degraded("voice_effect", err)
	}
}

// roleBreakdown summarizes the active quota per team for announcements.
func (g *Game) roleBreakdown() Message {
	byTeam := map[Team][]string{}
	counts := map[Team]int{}
	for _, r := range g.quota.Active() {
		t := r.Team()
		byTeam[t] = append(byTeam[t], fmt.Sprintf("%s: %d", r, g.quota[r]))
		counts[t] += g.quota[r]
	}
	msg := Message{
		Title: g.lang.F(TxtRoleBreakdown, map[string]string{"num": fmt.Sprint(g.quota.Sum())}),
		Color: ColorSystem,
	}
	for _, t := range []Team{TeamGood, TeamEvil, TeamOther} {
		if len(byTeam[t]) == 0 {
			continue
		}
		msg.Fields = append(msg.Fields, Field{
			Label:  fmt.Sprintf("%s (%d)", t, counts[t]),
			Value:  strings.Join(byTeam[t], "\n"),
			Inline: true,
		})
	}
	return msg
}

func (g *Game) memberListMessage() Message {
	var names []string
	g.reg.Each(func(m *Member) { names = append(names, m.Name) })
	return Message{
		Title: g.lang.T(TxtMemberList),
		Body: g.lang.F(TxtRecruitCount, map[string]string{
			"num": fmt.Sprint(g.reg.Len()), "req": fmt.Sprint(g.RequiredCount()),
		}),
		Fields: []Field{{Label: g.lang.T(TxtMemberList), Value: strings.Join(names, "\n")}},
		Color:  ColorSystem,
	}
}

func fmtSeconds(t int) string {
	m, s := t/60, t%60
	switch {
	case m == 0:
		return fmt.Sprintf("%ds", s)
	case s == 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%dm%ds", m, s)
	}
}
