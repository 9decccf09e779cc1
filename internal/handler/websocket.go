package handler

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/CageChen/webshell/internal/metrics"
	"github.com/CageChen/webshell/internal/session"
	"github.com/CageChen/webshell/internal/watcher"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
	Line    string      `json:"line,omitempty"`
}

// Message types.
const (
	MsgExec       = "exec"
	MsgOutput     = "output"
	MsgTreeReload = "treeReload"
	MsgError      = "error"
)

// wsClient serializes writes; a websocket connection allows one writer at a time.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// WSHandler runs terminals over WebSocket and pushes tree reloads
type WSHandler struct {
	sessions *session.Manager
	log      logrus.FieldLogger
	clients  map[*wsClient]bool
	mu       sync.RWMutex
}

// NewWSHandler creates a new WebSocket handler
func NewWSHandler(sessions *session.Manager, log logrus.FieldLogger) *WSHandler {
	return &WSHandler{
		sessions: sessions,
		log:      log,
		clients:  make(map[*wsClient]bool),
	}
}

// HandleWS handles WebSocket upgrade and connection. Every "exec" message is
// answered with an "output" message carrying the command result.
func (h *WSHandler) HandleWS(c *gin.Context) {
	s := sessionFor(c, h.sessions)

	// The header carries the session cookie when one was just issued
	conn, err := upgrader.Upgrade(c.Writer, c.Request, c.Writer.Header())
	if err != nil {
		return
	}
	client := &wsClient{conn: conn}
	defer func() {
		h.removeClient(client)
		_ = conn.Close()
		metrics.WebsocketClosed()
	}()

	h.addClient(client)
	metrics.WebsocketOpened()
	log := h.log.WithField("session", s.ID)
	log.Debug("terminal connected")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type != MsgExec {
			h.send(client, WSMessage{Type: MsgError, Payload: "expected an exec message"})
			continue
		}

		res := s.Execute(msg.Line)
		if res.Command != "" {
			log.WithFields(logrus.Fields{"command": res.Command, "failed": res.Failed}).Debug("command executed")
		}
		h.send(client, WSMessage{Type: MsgOutput, Payload: res})
	}
}

// OnReload is called when the tree was reloaded
func (h *WSHandler) OnReload(event watcher.Event) {
	if event.Err != nil {
		return
	}
	h.broadcast(WSMessage{
		Type: MsgTreeReload,
		Payload: map[string]interface{}{
			"source": event.Source,
			"nodes":  event.Nodes,
		},
	})
}

func (h *WSHandler) send(client *wsClient, msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := client.write(data); err != nil {
		h.removeClient(client)
	}
}

func (h *WSHandler) addClient(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = true
}

func (h *WSHandler) removeClient(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

func (h *WSHandler) broadcast(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := make([]*wsClient, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if err := client.write(data); err != nil {
			h.removeClient(client)
		}
	}
}
