package realtime

import (
	"context"
	"encoding/json"
	"log"
	"sync/atomic"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
)

type message struct {
	ownerID string
	data    []byte
}

// Hub fans board events out to connected pipeline boards. Admins see every
// event, reps only events on their own leads.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	open       atomic.Int64
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan message, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run serves registrations and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.open.Store(0)
			return
		case c := <-h.register:
			h.clients[c] = true
			h.open.Add(1)
			log.Printf("[ws] board connected (%s), %d open", c.identity.UserID, len(h.clients))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.open.Add(-1)
				log.Printf("[ws] board disconnected (%s), %d open", c.identity.UserID, len(h.clients))
			}
		case m := <-h.broadcast:
			for c := range h.clients {
				if !c.wants(m.ownerID) {
					continue
				}
				select {
				case c.send <- m.data:
				default:
					close(c.send)
					delete(h.clients, c)
					h.open.Add(-1)
				}
			}
		}
	}
}

// PublishBoardEvent queues ev for delivery to local boards.
func (h *Hub) PublishBoardEvent(ctx context.Context, ev entity.BoardEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- message{ownerID: ev.OwnerID, data: data}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return nil
	}
}

// Clients reports how many boards are connected.
func (h *Hub) Clients() int {
	return int(h.open.Load())
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
