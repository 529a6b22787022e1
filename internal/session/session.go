package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nightroster/werewolf-backend/internal/engine"
)

type Msg interface{ isSessionMsg() }

// ChatCommand is free text typed by a participant.
type ChatCommand struct {
	ParticipantID string
	ChannelID     string
	Text          string
}

func (ChatCommand) isSessionMsg() {}

// FromController carries a controller response back into the game.
type FromController struct {
	ParticipantID string
	Handle        uuid.UUID
	Payload       engine.Interaction
}

func (FromController) isSessionMsg() {}

// Watch registers a live-state watcher + sends the current snapshot
// immediately.
type Watch struct {
	ClientID string
	Outbox   chan Snapshot
}

func (Watch) isSessionMsg() {}

type Unwatch struct{ ClientID string }

func (Unwatch) isSessionMsg() {}

// timerFn is a scheduler callback posted back into the inbox so it
// runs on the session goroutine like everything else.
type timerFn struct{ fn func() }

func (timerFn) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

// GetState reflects internal state without data races. Test-only.
type GetState struct {
	Reply chan View
}

func (GetState) isSessionMsg() {}

type Snapshot struct {
	Version int
	State   engine.Snapshot
}

type View struct {
	Version     int
	NumWatchers int
	Phase       engine.Phase
	Epoch       int64
	Day         int
	Joined      int
}

// Config configures one session actor. Everything is optional except
// what the engine itself requires.
type Config struct {
	Log        *zap.Logger
	Rules      engine.Rules
	Lang       engine.Table
	Transport  engine.Transport
	Voice      engine.Voice
	Seed       int64
	GMs        []string
	OnTeardown func()
}

// Session owns one Game on one goroutine. Chat commands, controller
// interactions, watcher joins, and timer callbacks are all inbox
// messages processed in arrival order; nothing touches the Game from
// outside the loop.
type Session struct {
	inbox    chan Msg
	game     *engine.Game
	version  int
	watchers map[string]chan Snapshot
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

func New(parent context.Context, cfg Config) *Session {
	ctx, cancel := context.WithCancel(parent)
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	s := &Session{
		inbox:    make(chan Msg, 64),
		watchers: make(map[string]chan Snapshot),
		log:      cfg.Log,
		ctx:      ctx,
		cancel:   cancel,
	}
	s.game = engine.New(engine.Config{
		Rules: cfg.Rules,
		Lang:  cfg.Lang,
		Log:   cfg.Log,
		Sched: scheduler{s},
		Seed:  cfg.Seed,
		GMs:   cfg.GMs,
		Collab: engine.Collaborators{
			Transport: cfg.Transport,
			Voice:     cfg.Voice,
			Broadcast: broadcaster{s},
		},
		OnTeardown: cfg.OnTeardown,
	})
	go s.loop()
	return s
}

// Inbox exposes the message channel to the WS layer and tests.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

// scheduler posts engine timer callbacks into the inbox. The callback
// is dropped if the session is gone before it fires.
type scheduler struct{ s *Session }

func (sc scheduler) After(d time.Duration, fn func()) {
	s := sc.s
	time.AfterFunc(d, func() {
		select {
		case s.inbox <- timerFn{fn}:
		case <-s.ctx.Done():
		}
	})
}

// broadcaster runs on the loop goroutine (the engine calls it inline),
// so it may touch session state directly.
type broadcaster struct{ s *Session }

func (b broadcaster) StateSnapshot(snap engine.Snapshot) {
	s := b.s
	s.version++
	s.broadcast(Snapshot{Version: s.version, State: snap})
}

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Watch:
				s.watchers[msg.ClientID] = msg.Outbox
				msg.Outbox <- Snapshot{Version: s.version, State: s.game.BuildSnapshot()}

			case Unwatch:
				delete(s.watchers, msg.ClientID)

			case ChatCommand:
				s.game.HandleChatCommand(msg.ParticipantID, msg.ChannelID, msg.Text)

			case FromController:
				s.game.HandleInteraction(msg.ParticipantID, msg.Handle, msg.Payload)

			case timerFn:
				msg.fn()

			case GetState:
				msg.Reply <- View{
					Version:     s.version,
					NumWatchers: len(s.watchers),
					Phase:       s.game.Phase(),
					Epoch:       s.game.Epoch(),
					Day:         s.game.Day(),
					Joined:      s.game.JoinedCount(),
				}

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) shutdown() {
	for id, ch := range s.watchers {
		close(ch)
		delete(s.watchers, id)
	}
	s.cancel()
	s.log.Debug("session stopped")
}

func (s *Session) broadcast(snap Snapshot) {
	for id, ch := range s.watchers {
		select {
		case ch <- snap:
		default:
			// Watcher is slow/full. Drop them.
			close(ch)
			delete(s.watchers, id)
		}
	}
}
