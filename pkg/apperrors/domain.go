package apperrors

import (
	"net/http"
)

// Factories and predefined variables for the chat domain's error taxonomy.

// ErrNotFound converts a repository miss (e.g. gorm.ErrRecordNotFound)
// into a 404.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists converts a uniqueness violation into a 409.
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict reports a state conflict in the given domain.
func ErrConflict(domain, message string) *AppError {
	return New(CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation reports an operation the current state does not permit.
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// Predefined errors for frequent, static cases.
var (
	ErrInvalidCredentials = New(CodeInvalidCredentials, "auth", "Invalid username or password", http.StatusUnauthorized)
	ErrInvalidToken       = New(CodeInvalidToken, "auth", "Invalid or expired token", http.StatusUnauthorized)

	ErrUserNotFound    = New(CodeNotFound, "user", "User not found", http.StatusNotFound)
	ErrUsernameTaken   = New(CodeAlreadyExists, "user", "Username already registered", http.StatusBadRequest)
	ErrRoomNotFound    = New(CodeNotFound, "chat", "Room not found", http.StatusNotFound)
	ErrMessageNotFound = New(CodeNotFound, "chat", "Message not found", http.StatusNotFound)
	ErrRequestNotFound = New(CodeNotFound, "chat_request", "Request not found", http.StatusNotFound)

	// ErrNotRoomMember rejects a non-member acting on a room. Nothing is
	// persisted when this is returned.
	ErrNotRoomMember = New(CodeForbidden, "chat", "Not a member of this room", http.StatusForbidden)

	// ErrSelfRequest rejects a chat request targeting its own sender.
	ErrSelfRequest = New(CodeValidationFailed, "chat_request", "Cannot add yourself", http.StatusBadRequest)

	// ErrRequestResolved rejects a second response to an accepted or
	// rejected chat request.
	ErrRequestResolved = New(CodeConflict, "chat_request", "Request already resolved", http.StatusConflict)

	// ErrReplyCrossRoom rejects a reply reference pointing outside the
	// message's room.
	ErrReplyCrossRoom = New(CodeValidationFailed, "chat", "Reply target belongs to another room", http.StatusBadRequest)
)
