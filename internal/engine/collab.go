package engine

import "github.com/google/uuid"

// ChannelRef names a destination owned by the chat transport. Member
// channels are addressed by participant id.
type ChannelRef struct {
	Kind   ChannelKind
	Member string // set when Kind == ChanMember
}

type ChannelKind string

const (
	ChanLiving   ChannelKind = "living"
	ChanDead     ChannelKind = "dead"
	ChanWerewolf ChannelKind = "werewolf"
	ChanGameLog  ChannelKind = "gamelog"
	ChanMember   ChannelKind = "member"
)

func Living() ChannelRef               { return ChannelRef{Kind: ChanLiving} }
func Dead() ChannelRef                 { return ChannelRef{Kind: ChanDead} }
func WolfDen() ChannelRef              { return ChannelRef{Kind: ChanWerewolf} }
func GameLog() ChannelRef              { return ChannelRef{Kind: ChanGameLog} }
func MemberChannel(id string) ChannelRef { return ChannelRef{Kind: ChanMember, Member: id} }

type ColorTag string

const (
	ColorSystem   ColorTag = "system"
	ColorWarn     ColorTag = "warn"
	ColorKilled   ColorTag = "killed"
	ColorNoKilled ColorTag = "no_killed"
	ColorGood     ColorTag = "good"
	ColorEvil     ColorTag = "evil"
)

type Field struct {
	Label  string
	Value  string
	Inline bool
}

// Message is the structured announcement record. The engine decides
// which fields to populate; presentation is the transport's problem.
type Message struct {
	Title     string
	Body      string
	Color     ColorTag
	Fields    []Field
	Thumbnail string
	Author    string
}

// ControlOption is one selectable element of a rendered controller
// (button row, select menu, reaction set, whatever the transport has).
type ControlOption struct {
	ID    string
	Label string
}

// PhaseSnapshot is what the voice collaborator needs to set per-phase
// channel permissions and muting. Talk reports whether the living
// channel is open for discussion; during Vote it follows the vote.talk
// rule.
type PhaseSnapshot struct {
	Phase   Phase
	Talk    bool
	Living  []string
	Dead    []string
	WolfDen []string
}

// MemberState is the public view of one participant for the live-state
// broadcast.
type MemberState struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Alive bool   `json:"alive"`
	Cause string `json:"cause,omitempty"`
}

// Snapshot is the live-state broadcast payload.
type Snapshot struct {
	Members   []MemberState `json:"members"`
	Phase     string        `json:"phase"`
	Day       int           `json:"day"`
	Remaining int           `json:"remaining_sec"`
}

// Transport delivers announcements and interactive controls. It is an
// I/O adapter: no decision logic, and failures only degrade output.
type Transport interface {
	SendAnnouncement(ch ChannelRef, msg Message) error
	RenderControls(ch ChannelRef, handle uuid.UUID, opts []ControlOption) error
}

// Voice drives channel permissions and audio playback.
type Voice interface {
	SetPhasePermissions(snap PhaseSnapshot) error
	SetBackgroundAudio(track string) error
	PlaySoundEffect(effect string) error
}

// Broadcast feeds the live-state monitor.
type Broadcast interface {
	StateSnapshot(snap Snapshot)
}

// Collaborators bundles the engine's outward interfaces. Zero-value
// fields are replaced with no-ops so a bare engine still runs.
type Collaborators struct {
	Transport Transport
	Voice     Voice
	Broadcast Broadcast
}

func (c Collaborators) withDefaults() Collaborators {
	if c.Transport == nil {
		c.Transport = nopTransport{}
	}
	if c.Voice == nil {
		c.Voice = nopVoice{}
	}
	if c.Broadcast == nil {
		c.Broadcast = nopBroadcast{}
	}
	return c
}

type nopTransport struct{}

func (nopTransport) SendAnnouncement(ChannelRef, Message) error                   { return nil }
func (nopTransport) RenderControls(ChannelRef, uuid.UUID, []ControlOption) error { return nil }

type nopVoice struct{}

func (nopVoice) SetPhasePermissions(PhaseSnapshot) error { return nil }
func (nopVoice) SetBackgroundAudio(string) error         { return nil }
func (nopVoice) PlaySoundEffect(string) error            { return nil }

type nopBroadcast struct{}

func (nopBroadcast) StateSnapshot(Snapshot) {}

// Background track and effect ids handed to the voice collaborator.
const (
	TrackOpening    = "opening"
	TrackFirstNight = "first_night"
	TrackDaytime    = "day_time"
	TrackVote       = "vote"
	TrackNight      = "night"
	TrackGoodWin    = "good_win"
	TrackEvilWin    = "evil_win"

	EffectClaim = "se_claim"
	EffectMark  = "se_mark"
)
