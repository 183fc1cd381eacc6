package main

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 50
)

// Client represents one WebSocket connection. The dispatcher here owns
// the channel exclusively; rooms only ever see the Broadcaster side.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	remoteAddr string

	playerID string
	roomID   int

	msgCount   int
	msgResetAt time.Time
}

// NewClient creates a new Client.
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads messages from the WebSocket connection.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			break
		}

		c.handleMessage(message)
	}
}

// WritePump writes messages to the WebSocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client.
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes as a text message to the client.
// A slow client drops the message instead of blocking the sender.
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
	}
}

// handleMessage routes one inbound frame. Decode failures get an error
// reply; actions invalid for the current state are dropped silently.
func (c *Client) handleMessage(raw []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		c.sendProtocolError("invalid message format")
		return
	}

	switch frame.Type {
	case MsgJoinGame:
		c.handleJoin(raw)
	case MsgStartGame:
		c.handleStartGame()
	case MsgPlayerMove:
		c.handleMove(raw)
	case MsgPlaceBomb:
		c.handlePlaceBomb()
	case MsgChatMessage:
		c.handleChat(raw)
	case MsgLeaveGame:
		c.handleLeave()
	default:
		log.Printf("unknown message type %q from %s", frame.Type, c.remoteAddr)
	}
}

func (c *Client) handleJoin(raw []byte) {
	if c.roomID != 0 {
		return // already in a room
	}
	var msg JoinGameMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendProtocolError("invalid message format")
		return
	}

	room, player, err := c.hub.registry.Join(msg.Nickname, c)
	if err != nil {
		c.SendJSON(ErrorMsg{Type: MsgError, Reason: joinErrorReason(err), Message: err.Error()})
		return
	}
	c.roomID = room.ID
	c.playerID = player.ID
	log.Printf("player %s joined room %d", player.Nickname, room.ID)
}

func (c *Client) handleStartGame() {
	if room := c.room(); room != nil {
		room.RequestStart()
	}
}

func (c *Client) handleMove(raw []byte) {
	room := c.room()
	if room == nil {
		return
	}
	var msg PlayerMoveMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendProtocolError("invalid message format")
		return
	}
	room.MovePlayer(c.playerID, msg.Direction)
}

func (c *Client) handlePlaceBomb() {
	if room := c.room(); room != nil {
		room.PlaceBomb(c.playerID)
	}
}

func (c *Client) handleChat(raw []byte) {
	room := c.room()
	if room == nil {
		return
	}
	var msg ChatInMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendProtocolError("invalid message format")
		return
	}
	room.Chat(c.playerID, msg.Text)
}

func (c *Client) handleLeave() {
	room := c.room()
	if room == nil {
		return
	}
	room.RemovePlayer(c.playerID)
	c.roomID = 0
	c.playerID = ""
}

// room resolves the client's current room, or nil when not joined (or
// the room has been torn down since).
func (c *Client) room() *Room {
	if c.roomID == 0 || c.playerID == "" {
		return nil
	}
	return c.hub.registry.Get(c.roomID)
}

func (c *Client) sendProtocolError(msg string) {
	c.SendJSON(ErrorMsg{Type: MsgError, Message: msg})
}
