package chat

import "time"

// Message is immutable after creation except for the edited/deleted flags.
// ReplyToID is a lookup back-reference, never an owning link; it must point
// to a message in the same room.
type Message struct {
	ID        string  `gorm:"primaryKey;type:uuid"`
	RoomID    string  `gorm:"index;not null"`
	SenderID  string  `gorm:"index;not null"`
	Content   string  `gorm:"type:text"`
	ReplyToID *string `gorm:"index"`
	FileURL   *string
	FileName  *string
	FileType  *string
	IsEdited  bool `gorm:"default:false"`
	IsDeleted bool `gorm:"default:false"`
	CreatedAt time.Time `gorm:"index"`

	ReplyTo  *Message        `gorm:"foreignKey:ReplyToID"`
	Statuses []MessageStatus `gorm:"foreignKey:MessageID"`
}

func (Message) TableName() string {
	return "messages"
}
