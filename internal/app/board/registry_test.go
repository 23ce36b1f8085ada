package board

import (
	"testing"

	"github.com/rs/zerolog"

	"collabboard/internal/app/user"
)

func registryClient(connID, username string) *Client {
	return &Client{
		session: NewSession(connID, user.User{Username: username, UserType: "guest"}),
		send:    make(chan []byte, 8),
		logger:  zerolog.Nop(),
	}
}

func TestEnsureRoom(t *testing.T) {
	g := NewRegistry(16)

	room, created := g.EnsureRoom("board", KindCollaborative)
	if !created || room == nil {
		t.Fatal("first EnsureRoom did not create the room")
	}

	again, created := g.EnsureRoom("board", KindPresentation)
	if created {
		t.Error("second EnsureRoom reported creation")
	}
	if again != room {
		t.Error("EnsureRoom returned a different instance for the same name")
	}
	if again.Kind != KindCollaborative {
		t.Error("existing room's kind was overwritten")
	}
}

func TestRemoveParticipantDeletesEmptyRoom(t *testing.T) {
	g := NewRegistry(16)
	room, _ := g.EnsureRoom("board", KindCollaborative)

	a := registryClient("c1", "alice")
	b := registryClient("c2", "bob")
	g.AddParticipant(room, a)
	g.AddParticipant(room, b)

	removed, deleted := g.RemoveParticipant(room, "c1")
	if !removed || deleted {
		t.Fatalf("first removal = (%v, %v), want (true, false)", removed, deleted)
	}
	if g.Lookup("board") == nil {
		t.Fatal("room vanished while still occupied")
	}

	removed, deleted = g.RemoveParticipant(room, "c2")
	if !removed || !deleted {
		t.Fatalf("last removal = (%v, %v), want (true, true)", removed, deleted)
	}
	if g.Lookup("board") != nil {
		t.Error("empty room still resolvable after last removal")
	}

	// Removing an unknown connection is a no-op.
	removed, deleted = g.RemoveParticipant(room, "c2")
	if removed || deleted {
		t.Errorf("repeat removal = (%v, %v), want (false, false)", removed, deleted)
	}
}

func TestPeersExcludesConnection(t *testing.T) {
	g := NewRegistry(16)
	room, _ := g.EnsureRoom("board", KindCollaborative)
	g.AddParticipant(room, registryClient("c1", "alice"))
	g.AddParticipant(room, registryClient("c2", "bob"))
	g.AddParticipant(room, registryClient("c3", "carol"))

	if got := len(g.Peers(room, "c2")); got != 2 {
		t.Errorf("Peers excluding c2 = %d, want 2", got)
	}
	if got := len(g.Peers(room, "")); got != 3 {
		t.Errorf("Peers with no exclusion = %d, want 3", got)
	}
}

func TestFindByUsername(t *testing.T) {
	g := NewRegistry(16)
	room, _ := g.EnsureRoom("board", KindCollaborative)
	bob := registryClient("c1", "bob")
	g.AddParticipant(room, bob)

	if got := g.FindByUsername(room, "bob"); got != bob {
		t.Error("FindByUsername missed a present participant")
	}
	if got := g.FindByUsername(room, "ghost"); got != nil {
		t.Error("FindByUsername found an absent participant")
	}
}

func TestCounts(t *testing.T) {
	g := NewRegistry(16)

	r1, _ := g.EnsureRoom("one", KindCollaborative)
	r2, _ := g.EnsureRoom("two", KindCollaborative)
	g.AddParticipant(r1, registryClient("c1", "alice"))
	g.AddParticipant(r1, registryClient("c2", "bob"))
	g.AddParticipant(r2, registryClient("c3", "carol"))

	rooms, participants := g.Counts()
	if rooms != 2 || participants != 3 {
		t.Errorf("Counts = (%d, %d), want (2, 3)", rooms, participants)
	}
}
