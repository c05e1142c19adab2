package chat

import "time"

// Event is the outbound websocket envelope. Every frame the server pushes
// is a type tag plus a type-specific data object.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

const (
	EventNewMessage = "new_message"
	EventTyping     = "typing"
)

// MessagePayload is the data object of a new_message event.
type MessagePayload struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	ReplyToID *string   `json:"reply_to_id,omitempty"`
	FileURL   *string   `json:"file_url,omitempty"`
	FileName  *string   `json:"file_name,omitempty"`
	FileType  *string   `json:"file_type,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DeliveryGate pushes events to connected users. Delivery is best effort;
// a failed push is logged by the router and never affects persistence.
type DeliveryGate interface {
	// Send delivers one event to the user's live connection, if any.
	// Returns false when the user is offline.
	Send(userID string, event Event) (bool, error)
}
