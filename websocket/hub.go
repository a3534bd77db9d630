package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"medmind-server/models"
)

// EventFeedbackCreated is sent to every client after a submission is stored.
const EventFeedbackCreated = "feedback.created"

// Client represents a connected WebSocket client
type Client struct {
	hub    *Hub
	ID     string
	UserID string
	conn   *websocket.Conn
	Send   chan []byte
}

// Message is the envelope written to clients.
type Message struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// FeedbackEvent is the public projection of a stored feedback record.
// Request metadata never leaves the server.
type FeedbackEvent struct {
	ID        string           `json:"id"`
	Rating    int              `json:"rating"`
	Category  models.Category  `json:"category"`
	Emotions  []models.Emotion `json:"emotions"`
	CreatedAt time.Time        `json:"createdAt"`
}

// Hub fans feedback events out to connected clients. The client map is owned
// by the Run goroutine; everything else talks to it through channels.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	count      chan chan int
	done       chan struct{}
	logger     *slog.Logger
}

// NewHub creates a new WebSocket hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		count:      make(chan chan int),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run starts the hub's main loop and returns when ctx is cancelled. All
// client send channels are closed on exit.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		for client := range h.clients {
			close(client.Send)
			delete(h.clients, client)
		}
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.clients[client] = true
			h.logger.Debug("feed client registered", "client_id", client.ID, "user_id", client.UserID)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.logger.Debug("feed client unregistered", "client_id", client.ID)
			}

		case data := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.Send <- data:
				default:
					// slow consumer
					close(client.Send)
					delete(h.clients, client)
					h.logger.Warn("feed client dropped", "client_id", client.ID)
				}
			}

		case reply := <-h.count:
			reply <- len(h.clients)
		}
	}
}

// PublishFeedback queues a feedback.created event. It never blocks the
// caller: when the hub is stopped or its queue is full the event is dropped.
func (h *Hub) PublishFeedback(f *models.Feedback) {
	emotions := f.Emotions
	if emotions == nil {
		emotions = []models.Emotion{}
	}
	data, err := json.Marshal(&Message{
		Type:      EventFeedbackCreated,
		Timestamp: time.Now().UTC(),
		Data: FeedbackEvent{
			ID:        f.ID,
			Rating:    f.Rating,
			Category:  f.Category,
			Emotions:  emotions,
			CreatedAt: f.CreatedAt,
		},
	})
	if err != nil {
		h.logger.Error("marshal feed event", "error", err)
		return
	}

	select {
	case <-h.done:
	case h.broadcast <- data:
	default:
		h.logger.Warn("feed queue full, event dropped", "feedback_id", f.ID)
	}
}

// ClientCount returns the number of connected clients, or 0 once stopped.
func (h *Hub) ClientCount() int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}

// Done is closed when Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) add(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
