package services

import (
	chatsvc "chatline_backend/internal/services/chat"
	"chatline_backend/internal/storage"
)

// ServiceContainer holds every service the application wires at startup.
type ServiceContainer struct {
	AuthService    AuthService
	UserService    UserService
	UploadService  UploadService
	RoomService    *chatsvc.RoomService
	MessageService *chatsvc.MessageService
	RequestService *chatsvc.RequestService
	Storage        storage.Storage
}
