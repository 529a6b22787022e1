package hub

import (
	"context"
	"testing"
	"time"

	"github.com/nightroster/werewolf-backend/internal/session"
)

func TestHub_Create_Get_SamePointer(t *testing.T) {
	ctx := context.Background()
	h := NewHub(ctx, nil)
	reply := make(chan *session.Session, 1)

	h.Inbox() <- CreateSession{Code: "WOLF01", Cfg: session.Config{Seed: 1}, Reply: reply}
	s1 := <-reply

	h.Inbox() <- GetSession{Code: "WOLF01", Reply: reply}
	s2 := <-reply

	if s1 == nil || s2 == nil || s1 != s2 {
		t.Fatalf("expected same session pointer")
	}
}

func TestHub_GetUnknownIsNil(t *testing.T) {
	h := NewHub(context.Background(), nil)
	reply := make(chan *session.Session, 1)
	h.Inbox() <- GetSession{Code: "NOPE", Reply: reply}
	if s := <-reply; s != nil {
		t.Fatalf("expected nil for unknown code, got %v", s)
	}
}

func TestHub_EnsureCreatesOnce(t *testing.T) {
	h := NewHub(context.Background(), nil)
	reply := make(chan *session.Session, 1)

	h.Inbox() <- EnsureSession{Code: "WOLF02", Cfg: session.Config{Seed: 1}, Reply: reply}
	s1 := <-reply
	h.Inbox() <- EnsureSession{Code: "WOLF02", Cfg: session.Config{Seed: 2}, Reply: reply}
	s2 := <-reply

	if s1 != s2 {
		t.Fatalf("ensure must reuse the existing session")
	}
}

func TestHub_RemoveForgetsSession(t *testing.T) {
	h := NewHub(context.Background(), nil)
	reply := make(chan *session.Session, 1)

	h.Inbox() <- CreateSession{Code: "WOLF03", Cfg: session.Config{Seed: 1}, Reply: reply}
	<-reply

	h.Inbox() <- RemoveSession{Code: "WOLF03"}

	// Removal is async; poll briefly.
	deadline := time.Now().Add(500 * time.Millisecond)
	for {
		h.Inbox() <- GetSession{Code: "WOLF03", Reply: reply}
		if s := <-reply; s == nil {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("session still registered after removal")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
