package main

import (
	"errors"
	"sort"
	"sync"
)

const (
	minNicknameLen = 2
	maxNicknameLen = 15
)

var (
	errRoomFull        = errors.New("room is full")
	errInvalidNickname = errors.New("invalid nickname")
	errNicknameTaken   = errors.New("nickname already taken in this room")
)

// joinErrorReason maps a join error to its wire reason.
func joinErrorReason(err error) string {
	switch {
	case errors.Is(err, errInvalidNickname):
		return ErrReasonInvalidNickname
	case errors.Is(err, errNicknameTaken):
		return ErrReasonNicknameTaken
	default:
		return ErrReasonRoomFull
	}
}

// RoomRegistry owns every Room. All access goes through its methods;
// rooms are created on demand with monotonically increasing ids and
// removed when their roster empties.
type RoomRegistry struct {
	mu        sync.Mutex
	rooms     map[int]*Room
	nextID    int
	db        *DB
	analytics *Analytics
}

// NewRoomRegistry creates an empty registry. db and analytics may be
// nil; rooms then skip persistence.
func NewRoomRegistry(db *DB, analytics *Analytics) *RoomRegistry {
	return &RoomRegistry{
		rooms:     make(map[int]*Room),
		nextID:    1,
		db:        db,
		analytics: analytics,
	}
}

// Join validates the nickname, assigns the first waiting room with a
// free slot (scanning in room-id order), creating one if needed, and
// admits the player. A nickname collision in the assigned room is a
// hard error rather than a reason to try the next room.
func (reg *RoomRegistry) Join(nickname string, client Broadcaster) (*Room, *Player, error) {
	if l := len(nickname); l < minNicknameLen || l > maxNicknameLen {
		return nil, nil, errInvalidNickname
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	ids := make([]int, 0, len(reg.rooms))
	for id := range reg.rooms {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		room := reg.rooms[id]
		p, err := room.AddPlayer(nickname, client)
		if err == nil {
			return room, p, nil
		}
		if errors.Is(err, errNicknameTaken) {
			return nil, nil, err
		}
		// Full or already past waiting: keep scanning.
	}

	room := newRoom(reg.nextID, reg, reg.db, reg.analytics)
	reg.nextID++
	reg.rooms[room.ID] = room
	if reg.analytics != nil {
		reg.analytics.Track(EvtRoomCreated, room.ID, "", nil)
	}

	p, err := room.AddPlayer(nickname, client)
	if err != nil {
		// Fresh rooms always have space; only a pathological nickname
		// state could land here.
		delete(reg.rooms, room.ID)
		return nil, nil, err
	}
	return room, p, nil
}

// Get returns the room with the given id, or nil.
func (reg *RoomRegistry) Get(id int) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return reg.rooms[id]
}

// Remove drops a room from the registry.
func (reg *RoomRegistry) Remove(id int) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.rooms, id)
}

// Count returns the number of live rooms.
func (reg *RoomRegistry) Count() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.rooms)
}
