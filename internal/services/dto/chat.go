package dto

import (
	"time"

	"chatline_backend/internal/models/chat"
)

type SendRequestInput struct {
	ReceiverUsername string `json:"receiver_username" binding:"required"`
}

type RespondRequestInput struct {
	Accept bool `json:"accept"`
}

type ChatRequestResponse struct {
	ID         string             `json:"id"`
	Sender     *chat.Sender       `json:"sender,omitempty"`
	ReceiverID string             `json:"receiver_id"`
	Status     chat.RequestStatus `json:"status"`
	CreatedAt  time.Time          `json:"created_at"`
}

type SendMessageRequest struct {
	RoomID    string  `json:"room_id" binding:"required"`
	Content   string  `json:"content" binding:"required"`
	ReplyToID *string `json:"reply_to_id"`
	FileURL   *string `json:"file_url"`
	FileName  *string `json:"file_name"`
	FileType  *string `json:"file_type"`
}

type GroupCreateRequest struct {
	Name           string   `json:"name" binding:"required" validate:"max=100"`
	ParticipantIDs []string `json:"participant_ids"`
}

type ReplyPreview struct {
	ID       string `json:"id"`
	Content  string `json:"content"`
	SenderID string `json:"sender_id"`
}

type MessageResponse struct {
	ID        string        `json:"id"`
	RoomID    string        `json:"room_id"`
	SenderID  string        `json:"sender_id"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"created_at"`
	FileURL   *string       `json:"file_url,omitempty"`
	FileName  *string       `json:"file_name,omitempty"`
	FileType  *string       `json:"file_type,omitempty"`
	IsEdited  bool          `json:"is_edited"`
	IsMe      bool          `json:"is_me"`
	ReplyTo   *ReplyPreview `json:"reply_to,omitempty"`
}

type OtherUserInfo struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	IsOnline    bool   `json:"is_online"`
}

type LastMessagePreview struct {
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type RoomSummary struct {
	ID          string              `json:"id"`
	Type        chat.RoomType       `json:"chat_type"`
	GroupName   *string             `json:"group_name,omitempty"`
	OtherUser   *OtherUserInfo      `json:"other_user,omitempty"`
	Unread      bool                `json:"unread"`
	LastMessage *LastMessagePreview `json:"last_message,omitempty"`
}
