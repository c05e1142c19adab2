package chat

import "time"

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// GroupParticipant existence implies membership in a group room.
type GroupParticipant struct {
	ID       string `gorm:"primaryKey;type:uuid"`
	RoomID   string `gorm:"not null;index:idx_room_user,unique"`
	UserID   string `gorm:"not null;index:idx_room_user,unique"`
	Role     string `gorm:"default:'member'"` // admin, member
	JoinedAt time.Time
}

func (GroupParticipant) TableName() string {
	return "group_participants"
}
