package chat

import (
	"errors"
	"time"
)

type RoomType string

const (
	RoomTypeDirect RoomType = "direct"
	RoomTypeGroup  RoomType = "group"
)

// ChatRoom is created once and never re-typed. Direct rooms bind exactly
// two distinct users; group rooms resolve members through GroupParticipant
// rows.
type ChatRoom struct {
	ID        string   `gorm:"primaryKey;type:uuid"`
	Type      RoomType `gorm:"type:varchar(20);not null"`
	GroupName *string
	CreatedBy *string `gorm:"index"`
	User1ID   *string `gorm:"index"`
	User2ID   *string `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Participants []GroupParticipant `gorm:"foreignKey:RoomID"`
}

func (ChatRoom) TableName() string {
	return "chat_rooms"
}

var ErrSameDirectEndpoints = errors.New("direct room endpoints must be distinct")

// NewDirectRoom builds a direct room between two distinct users.
func NewDirectRoom(user1ID, user2ID string) (*ChatRoom, error) {
	if user1ID == user2ID {
		return nil, ErrSameDirectEndpoints
	}
	return &ChatRoom{
		Type:    RoomTypeDirect,
		User1ID: &user1ID,
		User2ID: &user2ID,
	}, nil
}

// NewGroupRoom builds a group room owned by its creator.
func NewGroupRoom(name, createdBy string) *ChatRoom {
	return &ChatRoom{
		Type:      RoomTypeGroup,
		GroupName: &name,
		CreatedBy: &createdBy,
	}
}

// RoomVariant is the tagged view of a room's type. Membership resolution
// switches over it exhaustively instead of inspecting nullable columns.
type RoomVariant interface {
	isRoomVariant()
}

// DirectRoom is the variant for a two-user room.
type DirectRoom struct {
	User1ID string
	User2ID string
}

// GroupRoom is the variant for a participant-row room.
type GroupRoom struct {
	RoomID string
}

func (DirectRoom) isRoomVariant() {}
func (GroupRoom) isRoomVariant()  {}

// Variant returns the tagged view of the room. A direct room with a
// missing endpoint is malformed and yields nil.
func (r *ChatRoom) Variant() RoomVariant {
	switch r.Type {
	case RoomTypeDirect:
		if r.User1ID == nil || r.User2ID == nil {
			return nil
		}
		return DirectRoom{User1ID: *r.User1ID, User2ID: *r.User2ID}
	case RoomTypeGroup:
		return GroupRoom{RoomID: r.ID}
	default:
		return nil
	}
}

// HasEndpoint reports whether a direct room links the given user.
func (r *ChatRoom) HasEndpoint(userID string) bool {
	if r.Type != RoomTypeDirect {
		return false
	}
	return (r.User1ID != nil && *r.User1ID == userID) ||
		(r.User2ID != nil && *r.User2ID == userID)
}

// OtherEndpoint returns the direct-room peer of the given user.
func (r *ChatRoom) OtherEndpoint(userID string) string {
	if r.User1ID != nil && *r.User1ID != userID {
		return *r.User1ID
	}
	if r.User2ID != nil {
		return *r.User2ID
	}
	return ""
}
