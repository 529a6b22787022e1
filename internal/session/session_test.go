package session

import (
	"context"
	"testing"
	"time"

	"github.com/nightroster/werewolf-backend/internal/engine"
)

// helper: receive one snapshot with a timeout so tests never hang
func recvSnapshot(t *testing.T, ch <-chan Snapshot, within time.Duration) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		if !ok {
			t.Fatalf("watcher outbox closed unexpectedly")
		}
		return snap
	case <-time.After(within):
		t.Fatalf("timed out waiting for snapshot")
		return Snapshot{} // unreachable
	}
}

func recvView(t *testing.T, ch <-chan View, within time.Duration) View {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(within):
		t.Fatalf("timed out waiting for view")
		return View{} // unreachable
	}
}

func TestSession_WatchGetsSnapshotAndJoinsBroadcast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New(ctx, Config{Seed: 1, GMs: []string{"gm"}})

	out := make(chan Snapshot, 8)
	s.Inbox() <- Watch{ClientID: "w1", Outbox: out}

	first := recvSnapshot(t, out, 100*time.Millisecond)
	if first.Version != 0 {
		t.Fatalf("after watch: want version=0, got %d", first.Version)
	}
	if first.State.Phase != string(engine.PhaseUnstarted) {
		t.Fatalf("after watch: want unstarted, got %s", first.State.Phase)
	}

	s.Inbox() <- ChatCommand{ParticipantID: "gm", ChannelID: "town", Text: "wanted"}
	next := recvSnapshot(t, out, 100*time.Millisecond)
	if next.Version == 0 {
		t.Fatalf("recruiting open should bump the version")
	}
	if next.State.Phase != string(engine.PhaseRecruiting) {
		t.Fatalf("want recruiting, got %s", next.State.Phase)
	}

	s.Inbox() <- ChatCommand{ParticipantID: "p1", ChannelID: "town", Text: "join Alice"}
	joined := recvSnapshot(t, out, 100*time.Millisecond)
	if len(joined.State.Members) != 1 || joined.State.Members[0].Name != "Alice" {
		t.Fatalf("want one member Alice, got %+v", joined.State.Members)
	}

	s.Inbox() <- Shutdown{}
}

func TestSession_DropSlowWatcher(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New(ctx, Config{Seed: 1, GMs: []string{"gm"}})

	// Capacity one: the watch snapshot fills it, the next broadcast
	// cannot be delivered.
	out := make(chan Snapshot, 1)
	s.Inbox() <- Watch{ClientID: "w1", Outbox: out}
	s.Inbox() <- ChatCommand{ParticipantID: "gm", ChannelID: "town", Text: "wanted"}

	reply := make(chan View, 1)
	s.Inbox() <- GetState{Reply: reply}
	view := recvView(t, reply, 100*time.Millisecond)

	if view.NumWatchers != 0 {
		t.Fatalf("expected slow watcher to be dropped; NumWatchers=%d", view.NumWatchers)
	}
}

func TestSession_CommandsAreSerialized(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New(ctx, Config{
		Seed: 1,
		GMs:  []string{"gm"},
		Rules: func() engine.Rules {
			r := engine.DefaultRules()
			r.RoleNums = engine.Quota{engine.RoleVillager: 2, engine.RoleWerewolf: 1}
			return r
		}(),
	})

	s.Inbox() <- ChatCommand{ParticipantID: "gm", ChannelID: "town", Text: "wanted"}
	for _, id := range []string{"p1", "p2", "p3"} {
		s.Inbox() <- ChatCommand{ParticipantID: id, ChannelID: "town", Text: "join " + id}
	}

	reply := make(chan View, 1)
	s.Inbox() <- GetState{Reply: reply}
	view := recvView(t, reply, 200*time.Millisecond)

	if view.Joined != 3 {
		t.Fatalf("want 3 joined, got %d", view.Joined)
	}
	if view.Phase != engine.PhaseRecruiting {
		t.Fatalf("want recruiting, got %s", view.Phase)
	}

	s.Inbox() <- Shutdown{}
}

func TestSession_ShutdownClosesWatchers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New(ctx, Config{Seed: 1})
	out := make(chan Snapshot, 2)
	s.Inbox() <- Watch{ClientID: "w1", Outbox: out}
	_ = recvSnapshot(t, out, 100*time.Millisecond)

	s.Inbox() <- Shutdown{}

	select {
	case _, ok := <-out:
		if ok {
			t.Fatalf("expected outbox close, got snapshot")
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("outbox never closed")
	}
}

// Timer callbacks run on the session goroutine, so a real one-second
// cascade drives phase work without races.
func TestSession_TimerCallbacksFlowThroughInbox(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rules := engine.DefaultRules()
	rules.RoleNums = engine.Quota{engine.RoleVillager: 1, engine.RoleWerewolf: 1}
	rules.ConfirmationSec = 1

	s := New(ctx, Config{Seed: 1, GMs: []string{"gm"}, Rules: rules})

	s.Inbox() <- ChatCommand{ParticipantID: "gm", ChannelID: "town", Text: "wanted"}
	s.Inbox() <- ChatCommand{ParticipantID: "p1", ChannelID: "town", Text: "join p1"}
	s.Inbox() <- ChatCommand{ParticipantID: "p2", ChannelID: "town", Text: "join p2"}
	s.Inbox() <- ChatCommand{ParticipantID: "gm", ChannelID: "town", Text: "start"}

	reply := make(chan View, 1)
	s.Inbox() <- GetState{Reply: reply}
	view := recvView(t, reply, 200*time.Millisecond)
	if view.Phase != engine.PhasePreparation {
		t.Fatalf("want preparation, got %s", view.Phase)
	}

	// After confirmation_sec the laggard warning fires via the inbox;
	// the session must still be responsive.
	time.Sleep(1200 * time.Millisecond)
	s.Inbox() <- GetState{Reply: reply}
	view = recvView(t, reply, 200*time.Millisecond)
	if view.Phase != engine.PhasePreparation {
		t.Fatalf("phase should still be preparation, got %s", view.Phase)
	}

	s.Inbox() <- Shutdown{}
}
