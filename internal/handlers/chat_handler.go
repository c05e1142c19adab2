package handlers

import (
	"net/http"

	chatsvc "chatline_backend/internal/services/chat"
	"chatline_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// ChatHandler serves rooms, history and the HTTP send fallback. The
// websocket is the primary send path; POST /chat/messages covers clients
// without a live socket.
type ChatHandler struct {
	*BaseHandler
	rooms    *chatsvc.RoomService
	messages *chatsvc.MessageService
}

func NewChatHandler(base *BaseHandler, rooms *chatsvc.RoomService, messages *chatsvc.MessageService) *ChatHandler {
	return &ChatHandler{BaseHandler: base, rooms: rooms, messages: messages}
}

// RegisterRoutes expects an already authenticated group.
func (h *ChatHandler) RegisterRoutes(rg *gin.RouterGroup) {
	chat := rg.Group("/chat")
	{
		chat.GET("/rooms", h.ListRooms)
		chat.GET("/rooms/:roomID/messages", h.History)
		chat.POST("/messages", h.SendMessage)
	}

	groups := rg.Group("/groups")
	{
		groups.POST("", h.CreateGroup)
	}
}

func (h *ChatHandler) ListRooms(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	rooms, err := h.rooms.ListRooms(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

func (h *ChatHandler) History(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	limit := ParseQueryInt(c, "limit", 50)
	messages, err := h.messages.GetHistory(userID, c.Param("roomID"), limit, c.Query("before"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	msg, err := h.messages.HandleIncoming(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": msg.ID, "room_id": msg.RoomID, "created_at": msg.CreatedAt})
}

func (h *ChatHandler) CreateGroup(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.GroupCreateRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	room, err := h.rooms.CreateGroup(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": room.ID, "chat_type": room.Type, "group_name": room.GroupName})
}
