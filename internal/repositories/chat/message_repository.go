package chat

import (
	"errors"

	"chatline_backend/internal/models/chat"

	"gorm.io/gorm"
)

type MessageRepository struct {
	DB *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

func (r *MessageRepository) FindByID(id string) (*chat.Message, error) {
	var msg chat.Message
	err := r.DB.First(&msg, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

// CreateWithStatuses persists the message and its per-recipient status
// rows in one transaction. A failure rolls back everything; no partial
// message or status rows survive.
func (r *MessageRepository) CreateWithStatuses(msg *chat.Message, statuses []chat.MessageStatus) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		if len(statuses) == 0 {
			return nil
		}
		for i := range statuses {
			statuses[i].MessageID = msg.ID
		}
		return tx.Create(&statuses).Error
	})
}

// FindByRoom returns up to limit messages, newest first, optionally only
// those older than the message identified by beforeID. The cursor
// tie-breaks on id so rows sharing a created_at are never skipped
// between pages. Reply targets are preloaded for lookup resolution.
func (r *MessageRepository) FindByRoom(roomID string, limit int, beforeID string) ([]chat.Message, error) {
	q := r.DB.Preload("ReplyTo").Where("room_id = ?", roomID)

	if beforeID != "" {
		before, err := r.FindByID(beforeID)
		if err != nil {
			return nil, err
		}
		if before != nil {
			q = q.Where("created_at < ? OR (created_at = ? AND id < ?)",
				before.CreatedAt, before.CreatedAt, before.ID)
		}
	}

	var messages []chat.Message
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&messages).Error
	return messages, err
}

// LastInRoom returns the newest message of the room, or nil for an empty one.
func (r *MessageRepository) LastInRoom(roomID string) (*chat.Message, error) {
	var msg chat.Message
	err := r.DB.Where("room_id = ?", roomID).Order("created_at DESC, id DESC").First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}
