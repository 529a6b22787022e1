package ws

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nightroster/werewolf-backend/internal/engine"
	"github.com/nightroster/werewolf-backend/internal/session"
	"github.com/nightroster/werewolf-backend/internal/types"
)

func TestToSessionMsg_Chat(t *testing.T) {
	msg, ok := toSessionMsg(types.ClientMessage{
		Type: "Chat", ParticipantID: "p1", ChannelID: "town", Text: "join Alice",
	})
	require.True(t, ok)
	cc, isChat := msg.(session.ChatCommand)
	require.True(t, isChat)
	require.Equal(t, "p1", cc.ParticipantID)
	require.Equal(t, "join Alice", cc.Text)
}

func TestToSessionMsg_Interactions(t *testing.T) {
	h := uuid.New().String()

	cases := []struct {
		name string
		in   types.ClientMessage
		want engine.Interaction
	}{
		{"vote", types.ClientMessage{Type: "CastVote", ParticipantID: "p1", Handle: h, Target: "p2"}, engine.CastVote{Target: "p2"}},
		{"wish", types.ClientMessage{Type: "WishRole", ParticipantID: "p1", Handle: h, Role: "Seer", Weight: 5}, engine.WishRole{Role: engine.RoleSeer, Weight: 5}},
		{"mark", types.ClientMessage{Type: "MarkMember", ParticipantID: "p1", Handle: h, Target: "p2", Black: true}, engine.MarkMember{Target: "p2", Black: true}},
		{"dictator", types.ClientMessage{Type: "InvokeDictator", ParticipantID: "p1", Handle: h}, engine.InvokeDictator{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, ok := toSessionMsg(tc.in)
			require.True(t, ok)
			fc, isCtl := msg.(session.FromController)
			require.True(t, isCtl)
			require.Equal(t, tc.want, fc.Payload)
		})
	}
}

func TestToSessionMsg_Rejections(t *testing.T) {
	h := uuid.New().String()

	cases := []types.ClientMessage{
		{Type: "CastVote", Handle: h, Target: "p2"},                          // no participant
		{Type: "CastVote", ParticipantID: "p1", Handle: "nope", Target: "x"}, // bad handle
		{Type: "WishRole", ParticipantID: "p1", Handle: h, Role: "Wizard"},   // unknown role
		{Type: "Telepathy", ParticipantID: "p1", Handle: h},                  // unknown type
	}
	for _, in := range cases {
		_, ok := toSessionMsg(in)
		require.False(t, ok, "%+v should be rejected", in)
	}
}
