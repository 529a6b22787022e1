package engine

import "github.com/google/uuid"

// Interaction is the tagged union of everything a rendered controller
// can send back. Each variant carries a typed payload and is dispatched
// through Game.HandleInteraction; stale handles from earlier phases or
// earlier games are ignored there.
type Interaction interface{ isInteraction() }

type JoinGame struct{ Name string }

type AcceptRole struct{}

type WishRole struct {
	Role   Role
	Weight int // 1..5, 3 is neutral
}

type CastVote struct{ Target string }

type GuardTarget struct{ Target string }

type Investigate struct{ Target string }

type WolfTarget struct{ Target string }

type ClaimRole struct{ Role Role }

type MarkMember struct {
	Target string
	Black  bool
}

type InvokeDictator struct{}

type CutTime struct{}

func (JoinGame) isInteraction()       {}
func (AcceptRole) isInteraction()     {}
func (WishRole) isInteraction()       {}
func (CastVote) isInteraction()       {}
func (GuardTarget) isInteraction()    {}
func (Investigate) isInteraction()    {}
func (WolfTarget) isInteraction()     {}
func (ClaimRole) isInteraction()      {}
func (MarkMember) isInteraction()     {}
func (InvokeDictator) isInteraction() {}
func (CutTime) isInteraction()        {}

// controlKind tags what a registered controller handle is allowed to
// deliver.
type controlKind int

const (
	ctlJoin controlKind = iota
	ctlAccept
	ctlWish
	ctlVote
	ctlClaim
	ctlKnight
	ctlSeer
	ctlWolf
	ctlDictator
	ctlCutTime
)

// newControl registers a fresh handle for kind and returns it for the
// transport to render against.
func (g *Game) newControl(kind controlKind) uuid.UUID {
	h := uuid.New()
	g.controls[h] = kind
	return h
}

// dropControls invalidates every outstanding handle of the given kinds.
func (g *Game) dropControls(kinds ...controlKind) {
	for h, k := range g.controls {
		for _, kind := range kinds {
			if k == kind {
				delete(g.controls, h)
				break
			}
		}
	}
}

func (g *Game) dropAllControls() {
	g.controls = make(map[uuid.UUID]controlKind)
}
