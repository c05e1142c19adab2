package handlers

// AppHandlers holds every HTTP handler the router registers.
type AppHandlers struct {
	AuthHandler    *AuthHandler
	UserHandler    *UserHandler
	RequestHandler *RequestHandler
	ChatHandler    *ChatHandler
	UploadHandler  *UploadHandler
}
