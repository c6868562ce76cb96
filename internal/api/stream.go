package api

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"vin-decoder/internal/pipeline"
)

// BatchEvent describes websocket payloads emitted during batch decode runs.
type BatchEvent struct {
	Type      string    `json:"type"`
	JobID     string    `json:"jobId"`
	Vin       string    `json:"vin,omitempty"`
	Error     string    `json:"error,omitempty"`
	Processed int       `json:"processed,omitempty"`
	Total     int       `json:"total,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// eventFromProgress adapts a pipeline progress event for the wire.
func eventFromProgress(progress pipeline.BatchProgress) BatchEvent {
	return BatchEvent{
		Type:      progress.Type,
		JobID:     progress.JobID,
		Vin:       progress.Vin,
		Error:     progress.Error,
		Processed: progress.Processed,
		Total:     progress.Total,
	}
}

// wsClient wraps a websocket connection with write locking.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// BatchNotifier tracks active websocket clients and broadcasts batch events.
type BatchNotifier struct {
	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

// NewBatchNotifier constructs a notifier instance.
func NewBatchNotifier() *BatchNotifier {
	return &BatchNotifier{clients: make(map[*wsClient]struct{})}
}

// Register attaches a websocket connection and returns a client handle.
func (n *BatchNotifier) Register(conn *websocket.Conn) *wsClient {
	client := &wsClient{conn: conn}
	n.mu.Lock()
	n.clients[client] = struct{}{}
	n.mu.Unlock()
	return client
}

// Unregister removes the websocket client and closes the socket.
func (n *BatchNotifier) Unregister(client *wsClient) {
	if client == nil {
		return
	}
	n.mu.Lock()
	delete(n.clients, client)
	n.mu.Unlock()
	_ = client.conn.Close()
}

// Broadcast sends the event to all registered websocket clients.
func (n *BatchNotifier) Broadcast(event BatchEvent) {
	event.Timestamp = time.Now().UTC()

	n.mu.Lock()
	for client := range n.clients {
		if err := client.writeJSON(event); err != nil {
			delete(n.clients, client)
			_ = client.conn.Close()
		}
	}
	n.mu.Unlock()
}

func (c *wsClient) writeJSON(payload interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(payload)
}
