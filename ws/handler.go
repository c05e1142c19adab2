package ws

import (
	"net/http"
	"time"

	"chatline_backend/internal/auth"
	"chatline_backend/internal/logger"
	chat "chatline_backend/internal/services/chat"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const closePolicyViolation = 4001

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: restrict origins once the frontend domain is fixed
	},
}

// Handler upgrades authenticated clients onto the registry.
type Handler struct {
	Manager  *Manager
	Messages *chat.MessageService
}

func NewHandler(manager *Manager, messages *chat.MessageService) *Handler {
	return &Handler{Manager: manager, Messages: messages}
}

// ServeWS handles GET /ws?token=<jwt>. The handshake is always accepted;
// a bad token closes the fresh socket with code 4001 so browser clients
// can tell an auth failure from a network error.
func (h *Handler) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.CtxWarn(c.Request.Context(), "websocket upgrade failed", "error", err)
		return
	}

	claims, err := auth.ParseToken(c.Query("token"))
	if err != nil {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(closePolicyViolation, "invalid token"),
			time.Now().Add(time.Second))
		conn.Close()
		return
	}

	client := &Client{
		UserID:   claims.UserID,
		Conn:     conn,
		Send:     make(chan chat.Event, 256),
		Ctx:      logger.WithUserID(c.Request.Context(), claims.UserID),
		Manager:  h.Manager,
		Messages: h.Messages,
	}

	h.Manager.Register(client)

	go client.writePump()
	go client.readPump()
}
