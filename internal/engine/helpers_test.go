package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

// fakeSched collects scheduled callbacks so tests drive game time one
// tick at a time.
type fakeSched struct {
	queue []func()
}

func (f *fakeSched) After(d time.Duration, fn func()) {
	f.queue = append(f.queue, fn)
}

// step runs the oldest pending callback. Returns false when idle.
func (f *fakeSched) step() bool {
	if len(f.queue) == 0 {
		return false
	}
	fn := f.queue[0]
	f.queue = f.queue[1:]
	fn()
	return true
}

// stepUntil advances game time until cond holds, failing the test if it
// never does within limit steps.
func (f *fakeSched) stepUntil(t *testing.T, limit int, cond func() bool) {
	t.Helper()
	for i := 0; i < limit; i++ {
		if cond() {
			return
		}
		if !f.step() {
			break
		}
	}
	if !cond() {
		t.Fatalf("condition not reached within %d steps", limit)
	}
}

type sentMsg struct {
	Ch  ChannelRef
	Msg Message
}

type renderedControl struct {
	Ch     ChannelRef
	Handle uuid.UUID
	Opts   []ControlOption
}

// recordingTransport captures everything the engine sends so tests can
// assert on announcements and drive rendered controls.
type recordingTransport struct {
	msgs     []sentMsg
	controls []renderedControl
}

func (r *recordingTransport) SendAnnouncement(ch ChannelRef, msg Message) error {
	r.msgs = append(r.msgs, sentMsg{Ch: ch, Msg: msg})
	return nil
}

func (r *recordingTransport) RenderControls(ch ChannelRef, handle uuid.UUID, opts []ControlOption) error {
	r.controls = append(r.controls, renderedControl{Ch: ch, Handle: handle, Opts: opts})
	return nil
}

// lastHandleFor returns the most recently rendered control handle for a
// channel.
func (r *recordingTransport) lastHandleFor(ch ChannelRef) (uuid.UUID, bool) {
	for i := len(r.controls) - 1; i >= 0; i-- {
		if r.controls[i].Ch == ch {
			return r.controls[i].Handle, true
		}
	}
	return uuid.Nil, false
}

// sawTitle reports whether any announcement on ch carried the title
// produced by key (compared through the default table).
func (r *recordingTransport) sawTitlePrefix(ch ChannelKind, prefix string) bool {
	for _, m := range r.msgs {
		if m.Ch.Kind == ch && len(m.Msg.Title) >= len(prefix) && m.Msg.Title[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

// recordingVoice captures what the engine asks of the voice
// collaborator.
type recordingVoice struct {
	snaps   []PhaseSnapshot
	tracks  []string
	effects []string
}

func (r *recordingVoice) SetPhasePermissions(s PhaseSnapshot) error {
	r.snaps = append(r.snaps, s)
	return nil
}

func (r *recordingVoice) SetBackgroundAudio(track string) error {
	r.tracks = append(r.tracks, track)
	return nil
}

func (r *recordingVoice) PlaySoundEffect(effect string) error {
	r.effects = append(r.effects, effect)
	return nil
}

func newTestGame(q Quota, mods ...func(*Rules)) (*Game, *fakeSched, *recordingTransport) {
	rules := DefaultRules()
	rules.RoleNums = q
	for _, mod := range mods {
		mod(&rules)
	}
	sched := &fakeSched{}
	tr := &recordingTransport{}
	g := New(Config{
		Rules:  rules,
		Sched:  sched,
		Seed:   7,
		GMs:    []string{"gm"},
		Collab: Collaborators{Transport: tr},
	})
	return g, sched, tr
}

// seatMembers places pre-rolled members directly into the registry,
// bypassing recruitment, for phase-level tests.
func seatMembers(g *Game, roles map[string]Role) {
	for _, id := range sortedKeys(roles) {
		m := NewMember(id, id)
		m.Role = roles[id]
		g.reg.Add(m)
	}
}

func sortedKeys(m map[string]Role) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}
