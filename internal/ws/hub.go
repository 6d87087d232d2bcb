// Package ws pushes session-refresh notifications to connected dashboards.
package ws

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/bashkirian/cutline-analytics/pkg/models"
)

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	log        *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

// Run drives the hub loop until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.log.Debug("websocket client registered",
				zap.String("remote", client.conn.RemoteAddr().String()))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Send buffer full: the client is stalled, drop it.
					close(client.send)
					delete(h.clients, client)
				}
			}

		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		}
	}
}

// SessionRefreshed implements session.Notifier: every connected client gets
// a compact summary of the newly installed session.
func (h *Hub) SessionRefreshed(s models.Session) {
	h.broadcastJSON("session_refreshed", map[string]interface{}{
		"session_id":  s.ID,
		"event_count": len(s.Events),
		"synthetic":   s.Synthetic,
		"created_at":  s.CreatedAt,
	})
}

func (h *Hub) broadcastJSON(msgType string, payload interface{}) {
	message, err := json.Marshal(map[string]interface{}{
		"type":    msgType,
		"payload": payload,
	})
	if err != nil {
		h.log.Error("failed to marshal broadcast message", zap.Error(err))
		return
	}
	// Notifications are fire-and-forget: never block the refresh path when
	// the hub loop is saturated or not yet running.
	select {
	case h.broadcast <- message:
	default:
		h.log.Debug("dropping broadcast, hub busy")
	}
}
