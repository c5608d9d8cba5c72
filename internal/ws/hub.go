package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/asapbuyco-source/Katika-sub000/internal/config"
	"github.com/asapbuyco-source/Katika-sub000/internal/game"
	"github.com/gorilla/websocket"
)

// Dispatcher is the inbound side of the orchestrator, called by the hub
type Dispatcher interface {
	JoinQueue(profile game.PlayerProfile, gameType game.GameType, stake int)
	Rejoin(playerID string) bool
	SubmitAction(playerID, sessionID string, action game.Action)
	HandleDisconnect(playerID string)
}

// Client represents a connected WebSocket client
type Client struct {
	conn     *websocket.Conn
	hub      *Hub
	playerID string // empty until the client identifies via join_queue or rejoin
	send     chan []byte
}

// Hub maintains the player-to-connection bindings and delivers outbound
// events. It implements game.Emitter.
type Hub struct {
	clients    map[string]*Client // playerID -> Client
	dispatcher Dispatcher
	cfg        *config.Config
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub(cfg *config.Config) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		cfg:     cfg,
	}
}

// Bind attaches the orchestrator once both sides exist
func (h *Hub) Bind(d Dispatcher) {
	h.dispatcher = d
}

// ToPlayer sends an event to a specific player
func (h *Hub) ToPlayer(playerID string, event map[string]interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[WS] error marshaling event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if client, exists := h.clients[playerID]; exists {
		select {
		case client.send <- data:
		default:
			log.Printf("[WS] dropped event for player %s (buffer full)", playerID)
		}
	}
}

// ToPlayers sends an event to each of the given players
func (h *Hub) ToPlayers(playerIDs []string, event map[string]interface{}) {
	for _, id := range playerIDs {
		h.ToPlayer(id, event)
	}
}

// identify binds a client to a player id. A stale binding for the same id is
// replaced, never merged: the old connection is closed.
func (h *Hub) identify(c *Client, playerID string) {
	h.mu.Lock()
	if old, exists := h.clients[playerID]; exists && old != c {
		log.Printf("[WS] player %s reconnecting - closing old connection", playerID)
		if err := old.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replaced by new connection"), time.Now().Add(5*time.Second)); err != nil {
			log.Printf("[WS] error writing close control to old client %s: %v", playerID, err)
		}
		old.conn.Close()
		select {
		case <-old.send:
		default:
			close(old.send)
		}
	}
	c.playerID = playerID
	h.clients[playerID] = c
	h.mu.Unlock()

	log.Printf("[WS] player %s identified", playerID)
}

// drop removes a client's binding when its connection closes. Only the
// current binding is dropped; a replaced connection leaves the new one alone.
func (h *Hub) drop(c *Client) {
	if c.playerID == "" {
		return
	}

	h.mu.Lock()
	current, ok := h.clients[c.playerID]
	if !ok || current != c {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.playerID)
	select {
	case <-c.send:
	default:
		close(c.send)
	}
	h.mu.Unlock()

	log.Printf("[WS] player %s disconnected", c.playerID)
	if h.dispatcher != nil {
		h.dispatcher.HandleDisconnect(c.playerID)
	}
}

// ConnectedCount returns the number of identified connections
func (h *Hub) ConnectedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Channel closed; connection is being replaced or cleaned up.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WS] write error for player %s: %v", c.playerID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[WS] ping error for player %s: %v", c.playerID, err)
				return
			}
		}
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(message string) {
	data, _ := json.Marshal(map[string]interface{}{
		"type":    "error",
		"message": message,
	})
	select {
	case c.send <- data:
	default:
	}
}
