package main

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	MaxPlayersPerRoom = 4
	MinPlayersToStart = 2
	WaitingTimeout    = 20 // seconds
	CountdownDuration = 10 // seconds

	chatLogLimit = 50
)

// Tick intervals are vars so tests can shrink them.
var (
	waitingTick   = time.Second
	countdownTick = time.Second
)

// RoomStatus is the lifecycle phase of a room.
type RoomStatus string

const (
	StatusWaiting  RoomStatus = "waiting"
	StatusStarting RoomStatus = "starting"
	StatusPlaying  RoomStatus = "playing"
	StatusFinished RoomStatus = "finished"
)

// Broadcaster delivers one message to one client without blocking.
type Broadcaster interface {
	SendJSON(msg interface{})
}

// Room owns one match: roster, arena, bombs, hazards, chat, and the
// timers that drive the lifecycle. All state is guarded by mu; timer
// goroutines re-acquire it and re-validate before mutating anything.
type Room struct {
	ID int

	mu        sync.Mutex
	registry  *RoomRegistry
	db        *DB
	analytics *Analytics

	players map[string]*Player
	clients map[string]Broadcaster
	status  RoomStatus

	arena     *Arena
	winner    string
	countdown int
	chatLog   []ChatEntry

	bombs   map[string]*Bomb
	hazards map[string]*Explosion

	createdAt time.Time
	startedAt time.Time

	// waiting timer state; gens invalidate stale ticker goroutines
	waitingActive bool
	waitingLeft   int
	waitingGen    int
	countdownGen  int
}

func newRoom(id int, registry *RoomRegistry, db *DB, analytics *Analytics) *Room {
	return &Room{
		ID:        id,
		registry:  registry,
		db:        db,
		analytics: analytics,
		players:   make(map[string]*Player),
		clients:   make(map[string]Broadcaster),
		status:    StatusWaiting,
		bombs:     make(map[string]*Bomb),
		hazards:   make(map[string]*Explosion),
		createdAt: time.Now(),
	}
}

// AddPlayer admits a player if the room is waiting, has space, and the
// nickname is free. On success the joiner receives room_joined and the
// rest of the roster player_joined, and the lobby timers advance.
func (r *Room) AddPlayer(nickname string, client Broadcaster) (*Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusWaiting || len(r.players) >= MaxPlayersPerRoom {
		return nil, errRoomFull
	}
	for _, p := range r.players {
		if strings.EqualFold(p.Nickname, nickname) {
			return nil, errNicknameTaken
		}
	}

	p := NewPlayer(uuid.NewString(), nickname, len(r.players))
	r.players[p.ID] = p
	r.clients[p.ID] = client

	client.SendJSON(r.roomJoinedLocked())
	r.broadcastLocked(PlayerJoinedMsg{Type: MsgPlayerJoined, Player: p.Info()}, p.ID)

	if r.analytics != nil {
		r.analytics.Track(EvtPlayerJoin, r.ID, p.Nickname, nil)
	}

	// Capacity fast path: a full room skips any remaining wait.
	if len(r.players) >= MaxPlayersPerRoom {
		r.stopWaitingTimerLocked()
		r.startCountdownLocked()
	} else if len(r.players) >= MinPlayersToStart {
		r.startWaitingTimerLocked()
	}
	return p, nil
}

// RemovePlayer drops a player from the roster (leave or disconnect),
// reverts a short-handed countdown, re-evaluates the win condition
// mid-game, and tears the room down when it empties.
func (r *Room) RemovePlayer(playerID string) {
	r.mu.Lock()
	p, ok := r.players[playerID]
	if !ok {
		r.mu.Unlock()
		return
	}
	delete(r.players, playerID)
	delete(r.clients, playerID)

	r.broadcastLocked(PlayerLeftMsg{Type: MsgPlayerLeft, PlayerID: p.ID, Nickname: p.Nickname}, "")

	if r.analytics != nil {
		r.analytics.Track(EvtPlayerLeave, r.ID, p.Nickname, nil)
	}

	if len(r.players) < MinPlayersToStart {
		switch r.status {
		case StatusWaiting:
			r.stopWaitingTimerLocked()
		case StatusStarting:
			r.cancelCountdownLocked("Not enough players to start game")
		}
	}
	if r.status == StatusPlaying {
		r.checkGameEndLocked()
	}

	empty := len(r.players) == 0
	if empty {
		// Invalidate every pending timer before the room disappears.
		r.waitingActive = false
		r.waitingGen++
		r.countdownGen++
	}
	r.mu.Unlock()

	if empty {
		r.registry.Remove(r.ID)
	}
}

// RequestStart is the host fast-start: in the waiting state with enough
// players it skips the rest of the wait and begins the countdown.
func (r *Room) RequestStart() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != StatusWaiting || len(r.players) < MinPlayersToStart {
		return
	}
	r.stopWaitingTimerLocked()
	r.startCountdownLocked()
}

// Chat appends a trimmed chat line to the bounded log and fans it out
// to everyone but the sender.
func (r *Room) Chat(playerID, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok {
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	entry := ChatEntry{
		ID:        time.Now().UnixMilli(),
		Player:    p.Nickname,
		Message:   text,
		Timestamp: time.Now().Format("15:04:05"),
	}
	r.chatLog = append(r.chatLog, entry)
	if len(r.chatLog) > chatLogLimit {
		r.chatLog = r.chatLog[len(r.chatLog)-chatLogLimit:]
	}
	r.broadcastLocked(ChatBroadcastMsg{Type: MsgChatMessage, Message: entry}, playerID)
}

// PlayerCount returns the roster size.
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// Status returns the current lifecycle phase.
func (r *Room) Status() RoomStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// ---- waiting timer ----

func (r *Room) startWaitingTimerLocked() {
	if r.waitingActive || r.status != StatusWaiting {
		return
	}
	r.waitingActive = true
	r.waitingGen++
	r.waitingLeft = WaitingTimeout
	r.broadcastLocked(WaitingTimerMsg{Type: MsgWaitingTimerStarted, WaitingTimeLeft: r.waitingLeft}, "")
	go r.runWaitingTimer(r.waitingGen)
}

func (r *Room) stopWaitingTimerLocked() {
	if !r.waitingActive {
		return
	}
	r.waitingActive = false
	r.waitingGen++
	r.broadcastLocked(WaitingTimerStoppedMsg{Type: MsgWaitingTimerStopped}, "")
}

func (r *Room) runWaitingTimer(gen int) {
	ticker := time.NewTicker(waitingTick)
	defer ticker.Stop()
	for range ticker.C {
		r.mu.Lock()
		if gen != r.waitingGen || !r.waitingActive || r.status != StatusWaiting {
			r.mu.Unlock()
			return
		}
		r.waitingLeft--
		r.broadcastLocked(WaitingTimerMsg{Type: MsgWaitingTimerUpdate, WaitingTimeLeft: r.waitingLeft}, "")
		if r.waitingLeft <= 0 {
			r.waitingActive = false
			r.waitingGen++
			if len(r.players) >= MinPlayersToStart {
				r.startCountdownLocked()
			} else {
				// Short roster at expiry re-arms the full window.
				r.startWaitingTimerLocked()
			}
			r.mu.Unlock()
			return
		}
		r.mu.Unlock()
	}
}

// ---- countdown ----

func (r *Room) startCountdownLocked() {
	if r.status != StatusWaiting {
		return
	}
	r.status = StatusStarting
	r.countdown = CountdownDuration
	r.arena = GenerateArena(ArenaWidth, ArenaHeight)
	r.countdownGen++
	r.broadcastLocked(CountdownMsg{Type: MsgCountdownStarted, Countdown: r.countdown}, "")
	log.Printf("room %d: countdown started (%ds)", r.ID, r.countdown)
	go r.runCountdown(r.countdownGen)
}

func (r *Room) cancelCountdownLocked(reason string) {
	if r.status != StatusStarting {
		return
	}
	r.status = StatusWaiting
	r.countdown = 0
	r.arena = nil
	r.countdownGen++
	r.broadcastLocked(CountdownCancelledMsg{Type: MsgCountdownCancelled, Message: reason}, "")
}

func (r *Room) runCountdown(gen int) {
	ticker := time.NewTicker(countdownTick)
	defer ticker.Stop()
	for range ticker.C {
		r.mu.Lock()
		if gen != r.countdownGen || r.status != StatusStarting {
			r.mu.Unlock()
			return
		}
		r.countdown--
		r.broadcastLocked(CountdownMsg{Type: MsgCountdownUpdate, Countdown: r.countdown}, "")
		if r.countdown <= 0 {
			r.beginPlayingLocked()
			r.mu.Unlock()
			return
		}
		r.mu.Unlock()
	}
}

func (r *Room) beginPlayingLocked() {
	r.status = StatusPlaying
	r.startedAt = time.Now()
	r.broadcastLocked(GameStartedMsg{Type: MsgGameStarted, GameMap: r.arena.Snapshot()}, "")
	log.Printf("room %d: game started with %d players", r.ID, len(r.players))
	if r.analytics != nil {
		r.analytics.Track(EvtGameStart, r.ID, "", map[string]interface{}{"players": len(r.players)})
	}
}

// ---- end of game ----

// checkGameEndLocked finishes the match once at most one player is
// still standing. An empty survivor set means a draw.
func (r *Room) checkGameEndLocked() {
	if r.status != StatusPlaying {
		return
	}
	var last *Player
	active := 0
	for _, p := range r.players {
		if !p.Eliminated {
			active++
			last = p
		}
	}
	if active > 1 {
		return
	}

	r.status = StatusFinished
	r.winner = ""
	if active == 1 {
		r.winner = last.Nickname
	}

	summaries := make([]PlayerSummary, 0, len(r.players))
	for _, p := range r.players {
		summaries = append(summaries, p.Summary())
	}
	r.broadcastLocked(GameEndedMsg{Type: MsgGameEnded, Winner: r.winner, Players: summaries}, "")
	log.Printf("room %d: game ended, winner=%q", r.ID, r.winner)

	duration := time.Since(r.startedAt).Seconds()
	if r.analytics != nil {
		r.analytics.Track(EvtGameEnd, r.ID, r.winner, map[string]interface{}{"duration": duration})
	}
	if r.db != nil {
		rows := make([]MatchPlayerRow, 0, len(r.players))
		for _, p := range r.players {
			rows = append(rows, MatchPlayerRow{
				Nickname:   p.Nickname,
				Lives:      p.Lives,
				Eliminated: p.Eliminated,
				Powerups:   p.Powerups,
			})
		}
		db, roomID, winner := r.db, r.ID, r.winner
		go func() {
			if _, err := db.RecordMatch(roomID, winner, duration, rows); err != nil {
				log.Printf("record match: %v", err)
			}
		}()
	}
}

// ---- broadcast / snapshots ----

// broadcastLocked fans a message out to the roster's current clients,
// optionally skipping one player. Sends never block; a client that
// vanished mid-loop is skipped.
func (r *Room) broadcastLocked(msg interface{}, excludeID string) {
	for id, client := range r.clients {
		if id == excludeID || client == nil {
			continue
		}
		client.SendJSON(msg)
	}
}

func (r *Room) roomJoinedLocked() RoomJoinedMsg {
	return RoomJoinedMsg{
		Type:        MsgRoomJoined,
		RoomID:      r.ID,
		Players:     r.rosterLocked(),
		GameStatus:  r.status,
		Countdown:   r.countdown,
		GameMap:     r.arena.Snapshot(),
		Winner:      r.winner,
		MaxPlayers:  MaxPlayersPerRoom,
		MinPlayers:  MinPlayersToStart,
		ChatHistory: append([]ChatEntry(nil), r.chatLog...),
	}
}

func (r *Room) rosterLocked() []PlayerInfo {
	infos := make([]PlayerInfo, 0, len(r.players))
	for _, p := range r.players {
		infos = append(infos, p.Info())
	}
	return infos
}
