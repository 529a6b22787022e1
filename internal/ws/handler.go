package ws

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/nightroster/werewolf-backend/internal/engine"
	"github.com/nightroster/werewolf-backend/internal/hub"
	"github.com/nightroster/werewolf-backend/internal/session"
	"github.com/nightroster/werewolf-backend/internal/types"
)

// Handler upgrades to a websocket tied to one session: inbound frames
// become chat commands or controller interactions, outbound frames are
// state snapshots.
func Handler(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.GetSession{Code: code, Reply: reply}
		s := <-reply
		if s == nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan session.Snapshot, 8)
		clientID := randID(6)

		s.Inbox() <- session.Watch{ClientID: clientID, Outbox: out}
		defer func() { s.Inbox() <- session.Unwatch{ClientID: clientID} }()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				msg := types.ServerMessage{Type: "StateSnapshot", Version: snap.Version, State: &snap.State}
				payload, _ := json.Marshal(msg)
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"Error","error":"bad json"}`))
				continue
			}

			msg, ok := toSessionMsg(cm)
			if !ok {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"Error","error":"unknown type"}`))
				continue
			}
			s.Inbox() <- msg
		}
	}
}

func toSessionMsg(m types.ClientMessage) (session.Msg, bool) {
	if m.ParticipantID == "" {
		return nil, false
	}
	if m.Type == "Chat" {
		return session.ChatCommand{
			ParticipantID: m.ParticipantID,
			ChannelID:     m.ChannelID,
			Text:          m.Text,
		}, true
	}

	handle, err := uuid.Parse(m.Handle)
	if err != nil {
		return nil, false
	}
	payload, ok := toInteraction(m)
	if !ok {
		return nil, false
	}
	return session.FromController{
		ParticipantID: m.ParticipantID,
		Handle:        handle,
		Payload:       payload,
	}, true
}

func toInteraction(m types.ClientMessage) (engine.Interaction, bool) {
	switch m.Type {
	case "JoinGame":
		return engine.JoinGame{Name: m.Name}, true
	case "AcceptRole":
		return engine.AcceptRole{}, true
	case "WishRole":
		role, ok := parseRole(m.Role)
		if !ok {
			return nil, false
		}
		return engine.WishRole{Role: role, Weight: m.Weight}, true
	case "CastVote":
		return engine.CastVote{Target: m.Target}, true
	case "GuardTarget":
		return engine.GuardTarget{Target: m.Target}, true
	case "Investigate":
		return engine.Investigate{Target: m.Target}, true
	case "WolfTarget":
		return engine.WolfTarget{Target: m.Target}, true
	case "ClaimRole":
		role, ok := parseRole(m.Role)
		if !ok {
			return nil, false
		}
		return engine.ClaimRole{Role: role}, true
	case "MarkMember":
		return engine.MarkMember{Target: m.Target, Black: m.Black}, true
	case "InvokeDictator":
		return engine.InvokeDictator{}, true
	case "CutTime":
		return engine.CutTime{}, true
	default:
		return nil, false
	}
}

func parseRole(s string) (engine.Role, bool) {
	for _, r := range engine.AllRoles {
		if s == string(r) {
			return r, true
		}
	}
	return "", false
}

func randID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
