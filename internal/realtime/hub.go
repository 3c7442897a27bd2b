// Package realtime pushes board events to participants over WebSocket.
package realtime

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"nexuspro/internal/model"
)

const broadcastBuffer = 256

type countRequest struct {
	projectID string
	reply     chan int
}

// Hub keeps one room per project. All room state is owned by the Run goroutine.
type Hub struct {
	rooms      map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan model.Event
	counts     chan countRequest
	done       chan struct{}
	log        *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan model.Event, broadcastBuffer),
		counts:     make(chan countRequest),
		done:       make(chan struct{}),
		log:        log.With(zap.String("component", "realtime")),
	}
}

// Run serves the hub until ctx is done, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	h.log.Info("realtime_hub_started")

	for {
		select {
		case <-ctx.Done():
			for projectID := range h.rooms {
				h.closeRoom(projectID)
			}
			h.log.Info("realtime_hub_stopped")
			return

		case c := <-h.register:
			room := h.rooms[c.projectID]
			if room == nil {
				room = make(map[*Client]struct{})
				h.rooms[c.projectID] = room
			}
			room[c] = struct{}{}
			h.log.Debug("realtime_client_joined",
				zap.String("project_id", c.projectID),
				zap.String("user_id", c.userID),
				zap.Int("room_size", len(room)),
			)

		case c := <-h.unregister:
			h.remove(c)

		case e := <-h.broadcast:
			h.deliver(e)

		case req := <-h.counts:
			req.reply <- len(h.rooms[req.projectID])
		}
	}
}

// Publish queues an event for the project's room. It never blocks; when the
// queue is full the event is dropped.
func (h *Hub) Publish(e model.Event) {
	select {
	case h.broadcast <- e:
	default:
		h.log.Warn("realtime_event_dropped", zap.String("type", string(e.Type)), zap.String("project_id", e.ProjectID))
	}
}

// Clients reports how many connections are in the project's room.
func (h *Hub) Clients(ctx context.Context, projectID string) (int, error) {
	req := countRequest{projectID: projectID, reply: make(chan int, 1)}
	select {
	case h.counts <- req:
	case <-h.done:
		return 0, context.Canceled
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	return <-req.reply, nil
}

func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) deliver(e model.Event) {
	if e.Type == model.EventTeamUpdated {
		h.evict(e)
	}

	room := h.rooms[e.ProjectID]
	if len(room) > 0 {
		payload, err := json.Marshal(e)
		if err != nil {
			h.log.Error("realtime_marshal_failed", zap.String("type", string(e.Type)), zap.Error(err))
			return
		}
		for c := range room {
			select {
			case c.send <- payload:
			default:
				h.log.Warn("realtime_client_dropped",
					zap.String("project_id", c.projectID),
					zap.String("user_id", c.userID),
					zap.String("reason", "send buffer full"),
				)
				h.remove(c)
			}
		}
	}

	if e.Type == model.EventProjectDeleted {
		h.closeRoom(e.ProjectID)
	}
}

// evict disconnects room clients that are no longer on the project's team.
func (h *Hub) evict(e model.Event) {
	change, ok := e.Payload.(model.TeamChange)
	if !ok {
		return
	}
	for c := range h.rooms[e.ProjectID] {
		if change.Allows(c.userID) {
			continue
		}
		h.log.Info("realtime_client_evicted",
			zap.String("project_id", c.projectID),
			zap.String("user_id", c.userID),
		)
		h.remove(c)
	}
}

func (h *Hub) remove(c *Client) {
	room, ok := h.rooms[c.projectID]
	if !ok {
		return
	}
	if _, ok := room[c]; !ok {
		return
	}
	delete(room, c)
	close(c.send)
	if len(room) == 0 {
		delete(h.rooms, c.projectID)
	}
}

func (h *Hub) closeRoom(projectID string) {
	for c := range h.rooms[projectID] {
		close(c.send)
	}
	delete(h.rooms, projectID)
}
