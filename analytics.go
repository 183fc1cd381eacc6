package main

import (
	"log"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Event types for analytics tracking
const (
	EvtRoomCreated = "room_created"
	EvtPlayerJoin  = "player_join"
	EvtPlayerLeave = "player_leave"
	EvtGameStart   = "game_start"
	EvtGameEnd     = "game_end"
	EvtElimination = "player_eliminated"
)

const (
	analyticsBufSize   = 1024
	analyticsBatchSize = 64
	analyticsFlushTick = 2 * time.Second
)

// AnalyticsEvent is a single trackable event. Data holds the
// msgpack-encoded metadata blob.
type AnalyticsEvent struct {
	Type      string
	RoomID    int
	Player    string
	Data      []byte
	Timestamp time.Time
}

// Analytics handles event tracking with batched background writes.
type Analytics struct {
	db     *DB
	events chan AnalyticsEvent
	stop   chan struct{}
	wg     sync.WaitGroup
}

// NewAnalytics creates and starts the analytics background writer.
func NewAnalytics(db *DB) *Analytics {
	a := &Analytics{
		db:     db,
		events: make(chan AnalyticsEvent, analyticsBufSize),
		stop:   make(chan struct{}),
	}
	a.wg.Add(1)
	go a.writer()
	return a
}

// Track enqueues an event for async persistence. It never blocks: a
// full buffer drops the event rather than stalling a room.
func (a *Analytics) Track(evtType string, roomID int, player string, meta map[string]interface{}) {
	var data []byte
	if meta != nil {
		var err error
		data, err = msgpack.Marshal(meta)
		if err != nil {
			log.Printf("analytics encode: %v", err)
			return
		}
	}
	select {
	case a.events <- AnalyticsEvent{
		Type:      evtType,
		RoomID:    roomID,
		Player:    player,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}:
	default:
	}
}

// writer drains the event channel, flushing batches on size or on a
// timer, and drains completely on shutdown.
func (a *Analytics) writer() {
	defer a.wg.Done()

	ticker := time.NewTicker(analyticsFlushTick)
	defer ticker.Stop()

	batch := make([]AnalyticsEvent, 0, analyticsBatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := a.db.InsertEvents(batch); err != nil {
			log.Printf("analytics flush: %v", err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case e := <-a.events:
			batch = append(batch, e)
			if len(batch) >= analyticsBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-a.stop:
			for {
				select {
				case e := <-a.events:
					batch = append(batch, e)
				default:
					flush()
					return
				}
			}
		}
	}
}

// Close stops the writer after a final flush.
func (a *Analytics) Close() {
	close(a.stop)
	a.wg.Wait()
}
