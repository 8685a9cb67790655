package app

import (
	"strings"
	"testing"

	"github.com/7cAT-0805/FastTransfer/internal/domain"
)

func TestCreateRoom(t *testing.T) {
	reg := NewRegistry()
	room, err := reg.CreateRoom()
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if len(room.Code) != domain.RoomCodeLen {
		t.Fatalf("code %q has length %d, want %d", room.Code, len(room.Code), domain.RoomCodeLen)
	}
	for _, r := range room.Code {
		if !strings.ContainsRune(domain.RoomCodeAlphabet, r) {
			t.Fatalf("code %q contains %q outside alphabet", room.Code, r)
		}
	}
	if room.HostToken == "" {
		t.Fatalf("expected a host token")
	}
	if room.Participants != 0 {
		t.Fatalf("new room has %d participants, want 0", room.Participants)
	}
	if !reg.Exists(room.Code) {
		t.Fatalf("Exists(%q) = false right after creation", room.Code)
	}
}

func TestCreateRoomCodesUnique(t *testing.T) {
	reg := NewRegistry()
	seen := make(map[domain.RoomCode]bool)
	for i := 0; i < 200; i++ {
		room, err := reg.CreateRoom()
		if err != nil {
			t.Fatalf("CreateRoom #%d: %v", i, err)
		}
		if seen[room.Code] {
			t.Fatalf("duplicate live code %q", room.Code)
		}
		seen[room.Code] = true
	}
	if reg.Count() != 200 {
		t.Fatalf("Count() = %d, want 200", reg.Count())
	}
}

func TestVerifyHost(t *testing.T) {
	reg := NewRegistry()
	room, err := reg.CreateRoom()
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if !reg.VerifyHost(room.Code, room.HostToken) {
		t.Fatalf("VerifyHost rejected the real token")
	}
	if reg.VerifyHost(room.Code, "not-the-token") {
		t.Fatalf("VerifyHost accepted a wrong token")
	}
	if reg.VerifyHost(room.Code, "") {
		t.Fatalf("VerifyHost accepted an empty token")
	}
	if reg.VerifyHost("NOPE1234", room.HostToken) {
		t.Fatalf("VerifyHost accepted an unknown room")
	}
}

func TestDestroyRoomIdempotent(t *testing.T) {
	reg := NewRegistry()
	room, err := reg.CreateRoom()
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	reg.DestroyRoom(room.Code)
	if reg.Exists(room.Code) {
		t.Fatalf("room still exists after destroy")
	}
	// Racing disconnect handling and explicit cleanup both call this.
	reg.DestroyRoom(room.Code)
	reg.DestroyRoom("NEVERWAS")
	if reg.Count() != 0 {
		t.Fatalf("Count() = %d after destroys, want 0", reg.Count())
	}
}
