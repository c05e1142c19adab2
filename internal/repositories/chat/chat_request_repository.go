package chat

import (
	"errors"

	"chatline_backend/internal/models/chat"

	"gorm.io/gorm"
)

type ChatRequestRepository struct {
	DB *gorm.DB
}

func NewChatRequestRepository(db *gorm.DB) *ChatRequestRepository {
	return &ChatRequestRepository{DB: db}
}

func (r *ChatRequestRepository) Create(req *chat.ChatRequest) error {
	return r.DB.Create(req).Error
}

func (r *ChatRequestRepository) FindByID(id string) (*chat.ChatRequest, error) {
	var req chat.ChatRequest
	err := r.DB.First(&req, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

// FindByPair returns the request for the ordered (sender, receiver) pair.
// The composite unique index guarantees at most one row exists.
func (r *ChatRequestRepository) FindByPair(senderID, receiverID string) (*chat.ChatRequest, error) {
	var req chat.ChatRequest
	err := r.DB.Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

// FindPendingForReceiver lists requests awaiting the receiver's response.
func (r *ChatRequestRepository) FindPendingForReceiver(receiverID string) ([]chat.ChatRequest, error) {
	var reqs []chat.ChatRequest
	err := r.DB.
		Where("receiver_id = ? AND status = ?", receiverID, chat.RequestPending).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

// Reject flips the request to rejected.
func (r *ChatRequestRepository) Reject(requestID string) error {
	return r.DB.Model(&chat.ChatRequest{}).
		Where("id = ?", requestID).
		Update("status", chat.RequestRejected).Error
}

// AcceptAndCreateRoom flips the request to accepted and creates the direct
// room in the same transaction, so an accepted request always corresponds
// to exactly one room. A nil room means the pair already has one.
func (r *ChatRequestRepository) AcceptAndCreateRoom(requestID string, room *chat.ChatRoom) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&chat.ChatRequest{}).
			Where("id = ?", requestID).
			Update("status", chat.RequestAccepted).Error; err != nil {
			return err
		}
		if room == nil {
			return nil
		}
		return tx.Create(room).Error
	})
}
