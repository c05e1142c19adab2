package ws

import (
	"context"
	"encoding/json"
	"time"

	"chatline_backend/internal/logger"
	chat "chatline_backend/internal/services/chat"
	"chatline_backend/internal/services/dto"

	"github.com/gorilla/websocket"
)

const (
	// pongWait bounds how long a silent peer stays registered; pings go
	// out well inside that window.
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	writeWait  = 10 * time.Second
)

// Envelope is the inbound frame shape: a type tag plus a type-specific
// data object, mirroring the outbound chat.Event.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan chat.Event
	Ctx    context.Context

	Manager  *Manager
	Messages *chat.MessageService

	// set by the manager when a newer connection takes over
	displaced bool
}

func (c *Client) readPump() {
	defer func() {
		c.Manager.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		// A live pong keeps last_seen fresh for the staleness sweep.
		c.Manager.setPresence(c.UserID, true)
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.CtxWarn(c.Ctx, "websocket read error", "user_id", c.UserID, "error", err)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			logger.CtxWarn(c.Ctx, "malformed websocket frame", "user_id", c.UserID, "error", err)
			continue
		}
		c.handle(env)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		// Closing the conn here unblocks readPump immediately when the
		// manager drops the client, instead of waiting out pongWait.
		c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			if !ok {
				// Closed by the manager on unregister or displacement.
				return
			}
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteJSON(event); err != nil {
				logger.CtxWarn(c.Ctx, "websocket write error", "user_id", c.UserID, "error", err)
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handle dispatches one inbound frame. Frames with an unknown type are
// dropped; a bad frame never ends the connection.
func (c *Client) handle(env Envelope) {
	switch env.Type {
	case chat.EventNewMessage:
		var req dto.SendMessageRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			logger.CtxWarn(c.Ctx, "invalid new_message payload", "user_id", c.UserID, "error", err)
			return
		}
		if _, err := c.Messages.HandleIncoming(c.Ctx, c.UserID, &req); err != nil {
			logger.CtxWarn(c.Ctx, "message rejected", "user_id", c.UserID, "error", err)
		}

	case chat.EventTyping:
		// Accepted and discarded; typing fan-out is not implemented yet.

	default:
		logger.CtxDebug(c.Ctx, "unhandled websocket frame type", "type", env.Type, "user_id", c.UserID)
	}
}
