package chat

import "time"

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// ChatRequest gates creation of direct rooms. One row per ordered
// (sender, receiver) pair, enforced by the composite unique index;
// accepted and rejected are terminal.
type ChatRequest struct {
	ID         string        `gorm:"primaryKey;type:uuid"`
	SenderID   string        `gorm:"not null;index:idx_request_pair,unique"`
	ReceiverID string        `gorm:"not null;index:idx_request_pair,unique"`
	Status     RequestStatus `gorm:"type:varchar(10);default:'pending'"`
	CreatedAt  time.Time

	Sender *Sender `gorm:"-"`
}

func (ChatRequest) TableName() string {
	return "chat_requests"
}

// Sender is the request-listing projection of the sending user.
type Sender struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// Resolved reports whether the request reached a terminal state.
func (r *ChatRequest) Resolved() bool {
	return r.Status != RequestPending
}
