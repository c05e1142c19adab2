package chat

import "time"

type DeliveryStatus string

// The status machine is two-state: sent is materialized at message
// creation, read on first history retrieval by the recipient. It
// advances monotonically and never regresses.
const (
	StatusSent DeliveryStatus = "sent"
	StatusRead DeliveryStatus = "read"
)

// MessageStatus tracks per-recipient read progress. One row per
// (message, recipient) pair; never created for the sender.
type MessageStatus struct {
	ID        string         `gorm:"primaryKey;type:uuid"`
	MessageID string         `gorm:"not null;index:idx_message_recipient,unique"`
	UserID    string         `gorm:"not null;index:idx_message_recipient,unique"`
	Status    DeliveryStatus `gorm:"type:varchar(10);default:'sent'"`
	Timestamp time.Time
}

func (MessageStatus) TableName() string {
	return "message_statuses"
}
