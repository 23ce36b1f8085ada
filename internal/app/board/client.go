/*
Package board contains the real-time coordination core of the whiteboard server.

This file defines the Client struct, representing an active WebSocket
connection. It manages the connection's read/write loops and hands every parsed
event to the Coordinator; it never mutates room state itself.
*/
package board

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"collabboard/internal/app/user"
	"collabboard/internal/pkg/logx"
	"collabboard/internal/pkg/randx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a message sent by the client.
	// Snapshots ride this channel, so the limit is generous.
	maxMessageSize = 1 << 20

	// sendChannelBuffer is the per-connection outbound queue depth.
	sendChannelBuffer = 256

	// joinResolveTimeout bounds the membership-store round-trip during Join.
	joinResolveTimeout = 5 * time.Second
)

// Client represents an active WebSocket connection and its session state.
type Client struct {
	coord *Coordinator

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// identity is the connect-time identity, immutable for the connection's
	// lifetime. Guest joins may layer a per-join display name onto the
	// session, but that is coordinator-loop state and never read here.
	identity user.User

	// session binds this connection to its (room, identity, role) state.
	session *Session

	// a buffered channel used to queue messages waiting to be sent to the client.
	send chan []byte

	// structured logger with connection context.
	logger zerolog.Logger
}

// NewClient constructs a Client for an upgraded connection. The session starts
// unbound; the connection must send join-room before any content event counts.
func NewClient(coord *Coordinator, wsConn *websocket.Conn, u user.User) *Client {
	connID := randx.ConnectionID()

	clientLogger := logx.Logger().With().
		Str("conn_id", connID).
		Str("username", u.Username).
		Logger()

	return &Client{
		coord:    coord,
		conn:     wsConn,
		identity: u,
		session:  NewSession(connID, u),
		send:     make(chan []byte, sendChannelBuffer),
		logger:   clientLogger,
	}
}

// Session exposes the connection's session record.
func (c *Client) Session() *Session {
	return c.session
}

// ReadPump reads messages from the WebSocket connection, handles heartbeats
// (Pong), and performs cleanup on connection closure. Events are processed in
// arrival order, which preserves the FIFO-per-connection contract.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (client close/going away)")
			}
			break
		}

		c.processInboundMessage(messageBytes)
	}
}

// cleanupOnDisconnect unbinds the connection from the coordinator and closes
// the socket. Disconnect cancels everything pending for this connection; there
// is no deferred cleanup.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.coord.Unregister(c)

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Client connection close error")
	}
}

// processInboundMessage parses one raw frame. join-room is resolved here on
// the connection goroutine (the only latent step); everything else goes to the
// coordinator untouched.
func (c *Client) processInboundMessage(messageBytes []byte) {
	var env Envelope
	if err := json.Unmarshal(messageBytes, &env); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid JSON")
		return
	}

	switch env.Type {
	case EventJoinRoom:
		c.handleJoinRequest(env.Payload)
	case "":
		c.logger.Warn().Msg("Client sent event with no type")
	default:
		c.coord.Submit(c, env)
	}
}

// handleJoinRequest validates the join payload, resolves the role against the
// membership store, and submits the join. Failures surface as join-error; the
// connection stays open and unbound.
func (c *Client) handleJoinRequest(raw json.RawMessage) {
	var p JoinPayload
	if err := unmarshalPayload(raw, &p); err != nil {
		c.sendJoinError("Invalid join request.")
		return
	}

	if p.Room == "" || !randx.IsValidRoomName(p.Room) {
		c.sendJoinError("Invalid room name.")
		return
	}
	if c.identity.Username == "" && p.Username == "" {
		c.sendJoinError("A username is required to join a room.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), joinResolveTimeout)
	defer cancel()

	if err := c.coord.Join(ctx, c, p); err != nil {
		c.logger.Warn().Err(err).Str("room", p.Room).Msg("Join failed during role resolution.")
		c.sendJoinError("Failed to join room.")
	}
}

// WritePump writes queued messages to the WebSocket connection and keeps the
// heartbeat alive.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !c.writeQueuedMessage(message, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedMessage handles messages pulled from the send channel.
// Returns true if the WritePump loop should continue.
func (c *Client) writeQueuedMessage(message []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a periodic WebSocket Ping to maintain the heartbeat.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Info().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}

// enqueue queues raw bytes for delivery without blocking the caller. A full
// queue drops the message; a connection that cannot drain its queue is dying
// and the read side will clean it up.
func (c *Client) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send channel full, dropping message")
	}
}

// sendEvent marshals and queues one event for this connection.
func (c *Client) sendEvent(eventType EventType, room string, payload any) {
	data, err := EncodeEvent(eventType, room, payload)
	if err != nil {
		c.logger.Error().Err(err).Str("event", string(eventType)).Msg("Error marshaling event for client")
		return
	}
	c.enqueue(data)
}

func (c *Client) sendJoinError(message string) {
	c.sendEvent(EventJoinError, "", JoinErrorPayload{Message: message})
}
