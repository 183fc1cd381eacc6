package main

// Client -> Server message types
const (
	MsgJoinGame    = "join_game"
	MsgStartGame   = "start_game"
	MsgPlayerMove  = "player_move"
	MsgPlaceBomb   = "place_bomb"
	MsgChatMessage = "chat_message"
	MsgLeaveGame   = "leave_game"
)

// Server -> Client message types
const (
	MsgRoomJoined          = "room_joined"
	MsgPlayerJoined        = "player_joined"
	MsgPlayerLeft          = "player_left"
	MsgWaitingTimerStarted = "waiting_timer_started"
	MsgWaitingTimerUpdate  = "waiting_timer_update"
	MsgWaitingTimerStopped = "waiting_timer_stopped"
	MsgCountdownStarted    = "countdown_started"
	MsgCountdownUpdate     = "countdown_update"
	MsgCountdownCancelled  = "countdown_cancelled"
	MsgGameStarted         = "game_started"
	MsgPlayerMoved         = "player_moved"
	MsgBombPlaced          = "bomb_placed"
	MsgBombRemoved         = "bomb_removed"
	MsgExplosion           = "explosion"
	MsgPowerupSpawned      = "powerup_spawned"
	MsgPowerupCollected    = "powerup_collected"
	MsgPowerupLimitReached = "powerup_limit_reached"
	MsgPowerupUsed         = "powerup_used"
	MsgPlayerDamaged       = "player_damaged"
	MsgPlayerEliminated    = "player_eliminated"
	MsgPlayerBlocked       = "player_blocked"
	MsgPlayerUnblocked     = "player_unblocked"
	MsgGameEnded           = "game_ended"
	MsgError               = "error"
)

// Error reasons surfaced on join
const (
	ErrReasonRoomFull        = "room_full"
	ErrReasonInvalidNickname = "invalid_nickname"
	ErrReasonNicknameTaken   = "nickname_taken"
)

// inboundFrame is decoded first to pick the payload type.
type inboundFrame struct {
	Type string `json:"type"`
}

// JoinGameMsg is sent by a client to enter matchmaking.
type JoinGameMsg struct {
	Nickname string `json:"nickname"`
}

// PlayerMoveMsg requests a one-cell move.
type PlayerMoveMsg struct {
	Direction string `json:"direction"`
}

// ChatInMsg carries a chat line from a client.
type ChatInMsg struct {
	Text string `json:"text"`
}

// RoomJoinedMsg is sent to the joining player only.
type RoomJoinedMsg struct {
	Type        string       `json:"type"`
	RoomID      int          `json:"roomId"`
	Players     []PlayerInfo `json:"players"`
	GameStatus  RoomStatus   `json:"gameStatus"`
	Countdown   int          `json:"countdown"`
	GameMap     [][]Cell     `json:"gameMap"`
	Winner      string       `json:"winner"`
	MaxPlayers  int          `json:"maxPlayers"`
	MinPlayers  int          `json:"minPlayers"`
	ChatHistory []ChatEntry  `json:"chatHistory"`
}

// PlayerInfo is the client-safe view of a player.
type PlayerInfo struct {
	ID         string   `json:"id"`
	Nickname   string   `json:"nickname"`
	JoinedAt   int64    `json:"joinedAt"`
	Lives      int      `json:"lives"`
	Position   Position `json:"position"`
	Bombs      int      `json:"bombs"`
	FlameRange int      `json:"flameRange"`
	Speed      float64  `json:"speed"`
	Direction  string   `json:"direction"`
	Eliminated bool     `json:"eliminated"`
}

// PlayerStats accompanies power-up events so clients can refresh the HUD.
type PlayerStats struct {
	Bombs      int           `json:"bombs"`
	FlameRange int           `json:"flameRange"`
	Speed      float64       `json:"speed"`
	Powerups   PowerupCounts `json:"powerups"`
}

// PlayerSummary is the reduced roster view sent with game_ended.
type PlayerSummary struct {
	ID         string `json:"id"`
	Nickname   string `json:"nickname"`
	Lives      int    `json:"lives"`
	Eliminated bool   `json:"eliminated"`
}

// ChatEntry is one line of room chat.
type ChatEntry struct {
	ID        int64  `json:"id"`
	Player    string `json:"player"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type PlayerJoinedMsg struct {
	Type   string     `json:"type"`
	Player PlayerInfo `json:"player"`
}

type PlayerLeftMsg struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
	Nickname string `json:"nickname"`
}

type WaitingTimerMsg struct {
	Type            string `json:"type"`
	WaitingTimeLeft int    `json:"waitingTimeLeft"`
}

type WaitingTimerStoppedMsg struct {
	Type string `json:"type"`
}

type CountdownMsg struct {
	Type      string `json:"type"`
	Countdown int    `json:"countdown"`
}

type CountdownCancelledMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type GameStartedMsg struct {
	Type    string   `json:"type"`
	GameMap [][]Cell `json:"gameMap"`
}

type PlayerMovedMsg struct {
	Type      string   `json:"type"`
	PlayerID  string   `json:"playerId"`
	Position  Position `json:"position"`
	Direction string   `json:"direction"`
}

type BombPlacedMsg struct {
	Type     string   `json:"type"`
	PlayerID string   `json:"playerId"`
	Position Position `json:"position"`
}

type BombRemovedMsg struct {
	Type     string   `json:"type"`
	Position Position `json:"position"`
}

type ExplosionMsg struct {
	Type          string     `json:"type"`
	Position      Position   `json:"position"`
	AffectedCells []Position `json:"affectedCells"`
}

type PowerupSpawnedMsg struct {
	Type     string    `json:"type"`
	Position Position  `json:"position"`
	Power    PowerKind `json:"power"`
}

type PowerupCollectedMsg struct {
	Type      string      `json:"type"`
	PlayerID  string      `json:"playerId"`
	Position  Position    `json:"position"`
	PowerType PowerKind   `json:"powerType"`
	Stats     PlayerStats `json:"playerStats"`
}

// PowerupUsedMsg is part of the wire protocol for client compatibility.
// Power-ups are permanent upgrades here, so the server never emits it.
type PowerupUsedMsg struct {
	Type     string      `json:"type"`
	PlayerID string      `json:"playerId"`
	Stats    PlayerStats `json:"playerStats"`
}

type PlayerDamagedMsg struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
	Lives    int    `json:"lives"`
	Nickname string `json:"nickname"`
}

type PlayerEliminatedMsg struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
	Nickname string `json:"nickname"`
}

type PlayerBlockedMsg struct {
	Type     string  `json:"type"`
	PlayerID string  `json:"playerId"`
	Duration float64 `json:"duration,omitempty"`
}

type GameEndedMsg struct {
	Type    string          `json:"type"`
	Winner  string          `json:"winner"`
	Players []PlayerSummary `json:"players"`
}

type ChatBroadcastMsg struct {
	Type    string    `json:"type"`
	Message ChatEntry `json:"message"`
}

type ErrorMsg struct {
	Type    string `json:"type"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}
