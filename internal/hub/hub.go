package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/nightroster/werewolf-backend/internal/session"
)

type HubMsg interface{ isHubMsg() }

type CreateSession struct {
	Code  string
	Cfg   session.Config
	Reply chan *session.Session
}

type GetSession struct {
	Code  string
	Reply chan *session.Session
}

type EnsureSession struct {
	Code  string
	Cfg   session.Config // only used if creation happens
	Reply chan *session.Session
}

type RemoveSession struct {
	Code string
}

type ShutdownHub struct{}

func (CreateSession) isHubMsg() {}
func (GetSession) isHubMsg()    {}
func (EnsureSession) isHubMsg() {}
func (RemoveSession) isHubMsg() {}
func (ShutdownHub) isHubMsg()   {}

// Hub is the registry actor for live sessions keyed by join code.
type Hub struct {
	inbox    chan HubMsg
	sessions map[string]*session.Session
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewHub(parent context.Context, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		sessions: make(map[string]*session.Session),
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateSession:
				if s := h.sessions[msg.Code]; s != nil {
					msg.Reply <- s
					break
				}
				msg.Reply <- h.spawn(msg.Code, msg.Cfg)

			case GetSession:
				msg.Reply <- h.sessions[msg.Code] // May be nil

			case EnsureSession:
				if s := h.sessions[msg.Code]; s != nil {
					msg.Reply <- s
					break
				}
				msg.Reply <- h.spawn(msg.Code, msg.Cfg)

			case RemoveSession:
				if s := h.sessions[msg.Code]; s != nil {
					delete(h.sessions, msg.Code)
					s.Inbox() <- session.Shutdown{}
					h.log.Info("session removed", zap.String("code", msg.Code))
				}

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

// spawn starts a session whose teardown removes it from the registry.
func (h *Hub) spawn(code string, cfg session.Config) *session.Session {
	prev := cfg.OnTeardown
	cfg.OnTeardown = func() {
		if prev != nil {
			prev()
		}
		// Runs on the session goroutine; go through the inbox.
		select {
		case h.inbox <- RemoveSession{Code: code}:
		case <-h.ctx.Done():
		}
	}
	if cfg.Log == nil {
		cfg.Log = h.log.With(zap.String("session", code))
	}
	s := session.New(h.ctx, cfg)
	h.sessions[code] = s
	h.log.Info("session created", zap.String("code", code))
	return s
}

func (h *Hub) shutdown() {
	for code, s := range h.sessions {
		s.Inbox() <- session.Shutdown{}
		delete(h.sessions, code)
	}
	h.cancel()
}
