package handler

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"sortd/internal/domain/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	clientSendSize = 64
)

// StreamHandler pushes appended log entries to websocket clients so the UI
// does not have to poll. It implements services.LogObserver; the ledger
// calls LogAppended after each committed append.
type StreamHandler struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu      sync.Mutex
	clients map[*streamClient]struct{}
}

type streamClient struct {
	conn *websocket.Conn
	send chan models.LogEntry
}

// NewStreamHandler creates a new log stream handler
func NewStreamHandler(logger *slog.Logger) *StreamHandler {
	return &StreamHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Cross-origin policy is enforced by the CORS layer in front.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:  logger,
		clients: make(map[*streamClient]struct{}),
	}
}

// Stream upgrades the connection and feeds it appended log entries
// GET /api/logs/stream
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &streamClient{
		conn: conn,
		send: make(chan models.LogEntry, clientSendSize),
	}

	h.mu.Lock()
	h.clients[client] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("log stream client connected", "clients", count)

	go h.writePump(client)
	h.readPump(client)
}

// LogAppended implements services.LogObserver. A client whose buffer is full
// is dropped rather than blocking the append path.
func (h *StreamHandler) LogAppended(entry models.LogEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client.send <- entry:
		default:
			delete(h.clients, client)
			close(client.send)
		}
	}
}

func (h *StreamHandler) readPump(client *streamClient) {
	defer h.drop(client)

	client.conn.SetReadLimit(512)
	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *StreamHandler) writePump(client *streamClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case entry, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteJSON(entry); err != nil {
				return
			}
		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *StreamHandler) drop(client *streamClient) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
	client.conn.Close()
}
