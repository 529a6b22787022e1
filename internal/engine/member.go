package engine

import "time"

type DeathCause string

const (
	CauseAlive    DeathCause = "alive"
	CauseExecuted DeathCause = "executed" // removed by the day vote
	CauseDevoured DeathCause = "devoured" // removed by the night kill
)

// ActionRecord is one past night action and what it observed. Guard
// records carry TeamOther since guarding reveals nothing.
type ActionRecord struct {
	Target string
	Seen   Team
}

// Claim is one public white/black mark placed during Daytime.
type Claim struct {
	Target string
	Black  bool
}

// Member is one joined participant and their per-game mutable state.
type Member struct {
	ID   string
	Name string

	Alive        bool
	Role         Role // empty until assignment
	Cause        DeathCause
	DiedOnDay    int
	Wish         map[Role]int
	Target       string // current vote or night-action target
	ValidTargets []string
	ActionLog    []ActionRecord
	AbilityUses  int

	// Social-deduction bookkeeping, not engine-relevant.
	FirstClaimAt time.Time
	ClaimedRole  Role
	Marks        []Claim
}

func NewMember(id, name string) *Member {
	m := &Member{ID: id, Name: name}
	m.Reset()
	return m
}

// Reset clears everything a new game in the same session must not see.
func (m *Member) Reset() {
	m.Alive = true
	m.Role = ""
	m.Cause = CauseAlive
	m.DiedOnDay = -1
	m.Wish = make(map[Role]int)
	m.Target = ""
	m.ValidTargets = nil
	m.ActionLog = nil
	m.AbilityUses = 0
	m.FirstClaimAt = time.Time{}
	m.ClaimedRole = ""
	m.Marks = nil
}

func (m *Member) CanTarget(id string) bool {
	for _, v := range m.ValidTargets {
		if v == id {
			return true
		}
	}
	return false
}

// LastAction returns the most recent action record, if any.
func (m *Member) LastAction() (ActionRecord, bool) {
	if len(m.ActionLog) == 0 {
		return ActionRecord{}, false
	}
	return m.ActionLog[len(m.ActionLog)-1], true
}

func (m *Member) Investigated(id string) bool {
	for _, a := range m.ActionLog {
		if a.Target == id {
			return true
		}
	}
	return false
}

// Registry tracks joined members in join order. The phase state machine
// is its sole writer; everyone else reads through narrow accessors.
type Registry struct {
	byID  map[string]*Member
	order []string
}

func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Member)}
}

func (r *Registry) Add(m *Member) bool {
	if _, ok := r.byID[m.ID]; ok {
		return false
	}
	r.byID[m.ID] = m
	r.order = append(r.order, m.ID)
	return true
}

func (r *Registry) Remove(id string) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

func (r *Registry) Get(id string) (*Member, bool) {
	m, ok := r.byID[id]
	return m, ok
}

func (r *Registry) Len() int { return len(r.order) }

// Each visits members in join order.
func (r *Registry) Each(fn func(*Member)) {
	for _, id := range r.order {
		fn(r.byID[id])
	}
}

func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) Living() []*Member {
	var out []*Member
	for _, id := range r.order {
		if m := r.byID[id]; m.Alive {
			out = append(out, m)
		}
	}
	return out
}

func (r *Registry) LivingCount() int {
	n := 0
	for _, id := range r.order {
		if r.byID[id].Alive {
			n++
		}
	}
	return n
}

func (r *Registry) ResetAll() {
	for _, id := range r.order {
		r.byID[id].Reset()
	}
}
