package handlers

import (
	"net/http"

	chatsvc "chatline_backend/internal/services/chat"
	"chatline_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// RequestHandler serves the chat request workflow: sending, listing
// pending, and accepting or rejecting.
type RequestHandler struct {
	*BaseHandler
	requests *chatsvc.RequestService
}

func NewRequestHandler(base *BaseHandler, requests *chatsvc.RequestService) *RequestHandler {
	return &RequestHandler{BaseHandler: base, requests: requests}
}

// RegisterRoutes expects an already authenticated group.
func (h *RequestHandler) RegisterRoutes(rg *gin.RouterGroup) {
	requests := rg.Group("/requests")
	{
		requests.POST("", h.Send)
		requests.GET("/pending", h.Pending)
		requests.POST("/:requestID/respond", h.Respond)
	}
}

func (h *RequestHandler) Send(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var input dto.SendRequestInput
	if !h.BindAndValidate_JSON(c, &input) {
		return
	}

	req, err := h.requests.SendRequest(userID, &input)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ChatRequestResponse{
		ID:         req.ID,
		ReceiverID: req.ReceiverID,
		Status:     req.Status,
		CreatedAt:  req.CreatedAt,
	})
}

func (h *RequestHandler) Pending(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	pending, err := h.requests.Pending(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": pending})
}

func (h *RequestHandler) Respond(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var input dto.RespondRequestInput
	if !h.BindAndValidate_JSON(c, &input) {
		return
	}

	req, room, err := h.requests.Respond(userID, c.Param("requestID"), input.Accept)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	resp := gin.H{"id": req.ID, "status": req.Status}
	if room != nil {
		resp["room_id"] = room.ID
	}
	c.JSON(http.StatusOK, resp)
}
