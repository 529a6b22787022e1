package types

import "github.com/nightroster/werewolf-backend/internal/engine"

type ClientMessage struct {
	Type          string `json:"type"`
	ParticipantID string `json:"participant_id"`
	ChannelID     string `json:"channel_id,omitempty"`
	Text          string `json:"text,omitempty"`
	Handle        string `json:"handle,omitempty"`
	Name          string `json:"name,omitempty"`
	Role          string `json:"role,omitempty"`
	Target        string `json:"target,omitempty"`
	Weight        int    `json:"weight,omitempty"`
	Black         bool   `json:"black,omitempty"`
}

type ServerMessage struct {
	Type    string           `json:"type"` // "StateSnapshot" | "Error"
	Version int              `json:"version,omitempty"`
	State   *engine.Snapshot `json:"state,omitempty"`
	Error   string           `json:"error,omitempty"`
}
