package main

import (
	"strings"
	"testing"
)

func TestJoinValidatesNickname(t *testing.T) {
	reg := NewRoomRegistry(nil, nil)
	for _, nick := range []string{"", "a", strings.Repeat("x", 16)} {
		if _, _, err := reg.Join(nick, &mockBroadcaster{}); err != errInvalidNickname {
			t.Errorf("nickname %q: err = %v, want errInvalidNickname", nick, err)
		}
	}
	if reg.Count() != 0 {
		t.Errorf("invalid joins created %d rooms", reg.Count())
	}

	// Boundary lengths are accepted.
	if _, _, err := reg.Join("ab", &mockBroadcaster{}); err != nil {
		t.Errorf("2-char nickname rejected: %v", err)
	}
	if _, _, err := reg.Join(strings.Repeat("x", 15), &mockBroadcaster{}); err != nil {
		t.Errorf("15-char nickname rejected: %v", err)
	}
}

func TestJoinCreatesRoomOnDemand(t *testing.T) {
	reg := NewRoomRegistry(nil, nil)
	room, p, err := reg.Join("alice", &mockBroadcaster{})
	if err != nil {
		t.Fatal(err)
	}
	if room.ID != 1 {
		t.Errorf("first room id = %d, want 1", room.ID)
	}
	if p.Nickname != "alice" {
		t.Errorf("player nickname = %s", p.Nickname)
	}
	if reg.Count() != 1 {
		t.Errorf("room count = %d, want 1", reg.Count())
	}
}

func TestJoinFillsLowestRoomFirst(t *testing.T) {
	reg := NewRoomRegistry(nil, nil)
	r1, _, _ := reg.Join("alice", &mockBroadcaster{})
	r2, _, err := reg.Join("bella", &mockBroadcaster{})
	if err != nil {
		t.Fatal(err)
	}
	if r1 != r2 {
		t.Errorf("second player put in room %d, want %d", r2.ID, r1.ID)
	}
}

func TestJoinSkipsFullRoom(t *testing.T) {
	reg := NewRoomRegistry(nil, nil)
	_, _, _ = joinN(t, reg, 4)

	r2, _, err := reg.Join("edgar", &mockBroadcaster{})
	if err != nil {
		t.Fatal(err)
	}
	if r2.ID != 2 {
		t.Errorf("overflow player put in room %d, want a fresh room 2", r2.ID)
	}
	if reg.Count() != 2 {
		t.Errorf("room count = %d, want 2", reg.Count())
	}
}

func TestJoinSkipsRoomPastWaiting(t *testing.T) {
	reg := NewRoomRegistry(nil, nil)
	room, _, _ := joinN(t, reg, 2)
	forcePlaying(room)

	r2, _, err := reg.Join("carol", &mockBroadcaster{})
	if err != nil {
		t.Fatal(err)
	}
	if r2 == room {
		t.Error("joined a room that is already playing")
	}
}

func TestJoinNicknameCollisionIsHardError(t *testing.T) {
	reg := NewRoomRegistry(nil, nil)
	_, _, _ = reg.Join("alice", &mockBroadcaster{})

	if _, _, err := reg.Join("Alice", &mockBroadcaster{}); err != errNicknameTaken {
		t.Fatalf("err = %v, want errNicknameTaken", err)
	}
	if reg.Count() != 1 {
		t.Errorf("collision created a room: count = %d", reg.Count())
	}
}

func TestRoomIDsAreMonotonic(t *testing.T) {
	reg := NewRoomRegistry(nil, nil)
	r1, p1, _ := reg.Join("alice", &mockBroadcaster{})
	r1.RemovePlayer(p1.ID)

	r2, _, _ := reg.Join("bella", &mockBroadcaster{})
	if r2.ID <= r1.ID {
		t.Errorf("room id reused: %d after %d", r2.ID, r1.ID)
	}
}

func TestJoinErrorReasonMapping(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{errInvalidNickname, ErrReasonInvalidNickname},
		{errNicknameTaken, ErrReasonNicknameTaken},
		{errRoomFull, ErrReasonRoomFull},
	}
	for _, tt := range tests {
		if got := joinErrorReason(tt.err); got != tt.want {
			t.Errorf("joinErrorReason(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}
