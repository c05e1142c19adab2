package chat

import (
	"chatline_backend/internal/models/chat"

	"gorm.io/gorm"
)

type GroupParticipantRepository struct {
	DB *gorm.DB
}

func NewGroupParticipantRepository(db *gorm.DB) *GroupParticipantRepository {
	return &GroupParticipantRepository{DB: db}
}

// CreateMany inserts participants in one batch.
func (r *GroupParticipantRepository) CreateMany(participants []chat.GroupParticipant) error {
	if len(participants) == 0 {
		return nil
	}
	return r.DB.Create(&participants).Error
}

// IsMember reports whether the user has a participant row for the room.
func (r *GroupParticipantRepository) IsMember(userID, roomID string) (bool, error) {
	var count int64
	err := r.DB.Model(&chat.GroupParticipant{}).
		Where("user_id = ? AND room_id = ?", userID, roomID).
		Count(&count).Error
	return count > 0, err
}

// GetParticipants returns all participant rows for the room.
func (r *GroupParticipantRepository) GetParticipants(roomID string) ([]chat.GroupParticipant, error) {
	var participants []chat.GroupParticipant
	err := r.DB.Where("room_id = ?", roomID).Find(&participants).Error
	return participants, err
}
