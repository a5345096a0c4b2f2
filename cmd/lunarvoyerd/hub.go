package main

import (
	"encoding/json"
	"net/http"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/gorilla/websocket"

	"github.com/ManmathX/lunarvoyer"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// clientCommand is the envelope clients send over the socket. Only burn
// commands are understood today.
type clientCommand struct {
	Type string      `json:"type"`
	Burn burnRequest `json:"burn"`
}

// burnRequest asks the simulation to fire the engine along a unit direction
// expressed in the primary's inertial frame.
type burnRequest struct {
	Direction lunarvoyer.Vector3 `json:"direction"`
	DeltaVMs  float64            `json:"delta_v_ms"`
}

// Hub maintains the set of active clients and fans snapshots out to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	commands   chan burnRequest
	log        kitlog.Logger
	metrics    *simCollector
}

func newHub(log kitlog.Logger, metrics *simCollector) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 8),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan burnRequest, 16),
		log:        log,
		metrics:    metrics,
	}
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.metrics.Clients.Set(float64(len(h.clients)))
			h.log.Log("level", "info", "msg", "client connected", "clients", len(h.clients))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.metrics.Clients.Set(float64(len(h.clients)))
				h.log.Log("level", "info", "msg", "client disconnected", "clients", len(h.clients))
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// readPump pumps messages from the websocket connection to the hub.
//
// The application runs readPump in a per-connection goroutine. The
// application ensures that there is at most one reader on a connection by
// executing all reads from this goroutine.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Log("level", "error", "msg", "read failed", "err", err)
			}
			break
		}
		var cmd clientCommand
		if err := json.Unmarshal(message, &cmd); err != nil {
			c.hub.log.Log("level", "warning", "msg", "undecodable command", "err", err)
			continue
		}
		switch cmd.Type {
		case "burn":
			select {
			case c.hub.commands <- cmd.Burn:
			default:
				c.hub.log.Log("level", "warning", "msg", "command queue full, burn dropped")
			}
		default:
			c.hub.log.Log("level", "warning", "msg", "unknown command type", "type", cmd.Type)
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
//
// A goroutine running writePump is started for each connection. The
// application ensures that there is at most one writer to a connection by
// executing all writes from this goroutine.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// serveWs handles websocket requests from the peer.
func serveWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.log.Log("level", "error", "msg", "upgrade failed", "err", err)
		return
	}
	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 8)}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}
