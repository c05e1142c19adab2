package routes

import (
	"net/http"

	"chatline_backend/internal/handlers"
	"chatline_backend/internal/middleware"
	"chatline_backend/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every handler onto the engine. REST lives under
// /api/v1; the websocket endpoint sits at /ws and authenticates via the
// token query parameter because browsers cannot set headers on a
// websocket handshake.
func RegisterRoutes(r *gin.Engine, h *handlers.AppHandlers, wsHandler *ws.Handler, base *handlers.BaseHandler) {
	r.GET("/health", func(c *gin.Context) {
		db := base.GetDB(c)
		sqlDB, err := db.DB()
		if err != nil || sqlDB.Ping() != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	// Public plus self-registering groups.
	h.AuthHandler.RegisterRoutes(api)
	h.UserHandler.RegisterRoutes(api)

	// Everything else requires a bearer token.
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware())
	{
		h.RequestHandler.RegisterRoutes(authed)
		h.ChatHandler.RegisterRoutes(authed)
		h.UploadHandler.RegisterRoutes(authed)
	}

	r.GET("/ws", wsHandler.ServeWS)
}

// ServeUploads exposes locally stored files in development.
func ServeUploads(r *gin.Engine, basePath string) {
	r.Static("/files", basePath)
}
