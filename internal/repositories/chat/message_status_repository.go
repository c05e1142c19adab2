package chat

import (
	"errors"
	"time"

	"chatline_backend/internal/models/chat"

	"gorm.io/gorm"
)

type MessageStatusRepository struct {
	DB *gorm.DB
}

func NewMessageStatusRepository(db *gorm.DB) *MessageStatusRepository {
	return &MessageStatusRepository{DB: db}
}

// Find returns the status row for the pair, or nil if none was recorded.
func (r *MessageStatusRepository) Find(messageID, userID string) (*chat.MessageStatus, error) {
	var status chat.MessageStatus
	err := r.DB.Where("message_id = ? AND user_id = ?", messageID, userID).First(&status).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &status, nil
}

// MarkRead advances a status to read. It only ever moves forward: rows
// already read are left untouched, so re-reads neither regress nor bump
// the recorded timestamp.
func (r *MessageStatusRepository) MarkRead(messageID, userID string, at time.Time) error {
	return r.DB.Model(&chat.MessageStatus{}).
		Where("message_id = ? AND user_id = ? AND status <> ?", messageID, userID, chat.StatusRead).
		Updates(map[string]interface{}{
			"status":    chat.StatusRead,
			"timestamp": at,
		}).Error
}

// MarkManyRead applies MarkRead to a batch of message ids.
func (r *MessageStatusRepository) MarkManyRead(messageIDs []string, userID string, at time.Time) error {
	if len(messageIDs) == 0 {
		return nil
	}
	return r.DB.Model(&chat.MessageStatus{}).
		Where("message_id IN ? AND user_id = ? AND status <> ?", messageIDs, userID, chat.StatusRead).
		Updates(map[string]interface{}{
			"status":    chat.StatusRead,
			"timestamp": at,
		}).Error
}
