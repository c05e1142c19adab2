package handlers

import (
	"net/http"

	"chatline_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	*BaseHandler
	uploads services.UploadService
}

func NewUploadHandler(base *BaseHandler, uploads services.UploadService) *UploadHandler {
	return &UploadHandler{BaseHandler: base, uploads: uploads}
}

// RegisterRoutes expects an already authenticated group.
func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.Upload)
}

func (h *UploadHandler) Upload(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file form field is required"})
		return
	}

	resp, err := h.uploads.UploadFile(c.Request.Context(), userID, file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
