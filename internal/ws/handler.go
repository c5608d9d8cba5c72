package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/asapbuyco-source/Katika-sub000/internal/auth"
	"github.com/asapbuyco-source/Katika-sub000/internal/game"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin is enforced by middleware.WebSocketCORSCheck
	},
}

// WSMessage is the inbound envelope
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// JoinQueueData carries a join_queue request
type JoinQueueData struct {
	Profile  game.PlayerProfile `json:"profile"`
	GameType game.GameType      `json:"game_type"`
	Stake    int                `json:"stake"`
}

// RejoinData carries a rejoin request
type RejoinData struct {
	Token string `json:"token"`
}

// SubmitActionData carries a session action
type SubmitActionData struct {
	SessionID string      `json:"session_id"`
	Action    game.Action `json:"action"`
}

// HandleWebSocket upgrades the connection and starts the client pumps.
// The client is anonymous until its first join_queue or rejoin message.
func (h *Hub) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] upgrade error: %v", err)
		return
	}

	client := &Client{
		conn: conn,
		hub:  h,
		send: make(chan []byte, 256),
	}

	go client.writePump()
	go client.readPump()
}

// readPump reads and dispatches inbound messages
func (c *Client) readPump() {
	defer func() {
		c.hub.drop(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(65536)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] unexpected close for player %s: %v", c.playerID, err)
			}
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		c.handleMessage(msg)
	}
}

// handleMessage processes one inbound envelope
func (c *Client) handleMessage(msg WSMessage) {
	h := c.hub
	if h.dispatcher == nil {
		return
	}

	switch msg.Type {
	case "join_queue":
		var data JoinQueueData
		if err := json.Unmarshal(msg.Data, &data); err != nil || data.Profile.ID == "" {
			c.sendError("invalid join_queue data")
			return
		}
		h.identify(c, data.Profile.ID)
		c.sendReconnectToken(data.Profile.ID)
		h.dispatcher.JoinQueue(data.Profile, data.GameType, data.Stake)

	case "rejoin":
		var data RejoinData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid rejoin data")
			return
		}
		playerID, err := auth.VerifyToken(h.cfg.JWTSecret, data.Token)
		if err != nil {
			log.Printf("[WS] rejected rejoin with bad token: %v", err)
			return
		}
		h.identify(c, playerID)
		if !h.dispatcher.Rejoin(playerID) {
			c.sendError("no active session")
		}

	case "submit_action":
		if c.playerID == "" {
			return
		}
		var data SubmitActionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return
		}
		h.dispatcher.SubmitAction(c.playerID, data.SessionID, data.Action)

	default:
		c.sendError("unknown message type")
	}
}

// sendReconnectToken issues the signed token the client presents on rejoin
func (c *Client) sendReconnectToken(playerID string) {
	ttl := time.Duration(c.hub.cfg.TokenExpiryHours) * time.Hour
	token, err := auth.IssueToken(c.hub.cfg.JWTSecret, playerID, ttl)
	if err != nil {
		log.Printf("[WS] failed to issue token for %s: %v", playerID, err)
		return
	}
	data, _ := json.Marshal(map[string]interface{}{
		"type":  "token",
		"token": token,
	})
	select {
	case c.send <- data:
	default:
	}
}
