package chat

import (
	"context"
	"time"

	"chatline_backend/internal/logger"
	"chatline_backend/internal/models/chat"
	repoChat "chatline_backend/internal/repositories/chat"
	"chatline_backend/internal/services/dto"
	"chatline_backend/pkg/apperrors"

	"github.com/google/uuid"
)

// MessageService is the routing core: it persists inbound messages and
// fans them out to connected recipients. Persistence is authoritative,
// delivery is best effort.
type MessageService struct {
	Messages *repoChat.MessageRepository
	Statuses *repoChat.MessageStatusRepository
	Rooms    *RoomService
	Gate     DeliveryGate
}

func NewMessageService(
	messages *repoChat.MessageRepository,
	statuses *repoChat.MessageStatusRepository,
	rooms *RoomService,
	gate DeliveryGate,
) *MessageService {
	return &MessageService{
		Messages: messages,
		Statuses: statuses,
		Rooms:    rooms,
		Gate:     gate,
	}
}

// HandleIncoming validates, persists and fans out one message. A sender
// outside the room's member set is rejected with nothing written. Offline
// recipients and push failures leave the stored message untouched; they
// catch up through history.
func (s *MessageService) HandleIncoming(ctx context.Context, senderID string, req *dto.SendMessageRequest) (*chat.Message, error) {
	member, err := s.Rooms.IsMember(senderID, req.RoomID)
	if err != nil {
		return nil, apperrors.PersistenceError(err)
	}
	if !member {
		return nil, apperrors.ErrNotRoomMember
	}

	if req.ReplyToID != nil {
		parent, err := s.Messages.FindByID(*req.ReplyToID)
		if err != nil {
			return nil, apperrors.PersistenceError(err)
		}
		if parent == nil {
			return nil, apperrors.ErrMessageNotFound
		}
		if parent.RoomID != req.RoomID {
			return nil, apperrors.ErrReplyCrossRoom
		}
	}

	members, err := s.Rooms.Members(req.RoomID)
	if err != nil {
		return nil, apperrors.PersistenceError(err)
	}

	msg := &chat.Message{
		ID:        uuid.NewString(),
		RoomID:    req.RoomID,
		SenderID:  senderID,
		Content:   req.Content,
		ReplyToID: req.ReplyToID,
		FileURL:   req.FileURL,
		FileName:  req.FileName,
		FileType:  req.FileType,
		CreatedAt: time.Now(),
	}

	statuses := make([]chat.MessageStatus, 0, len(members))
	now := time.Now()
	for _, uid := range members {
		if uid == senderID {
			continue
		}
		statuses = append(statuses, chat.MessageStatus{
			ID:        uuid.NewString(),
			UserID:    uid,
			Status:    chat.StatusSent,
			Timestamp: now,
		})
	}

	if err := s.Messages.CreateWithStatuses(msg, statuses); err != nil {
		return nil, apperrors.PersistenceError(err)
	}

	if s.Gate != nil {
		event := Event{Type: EventNewMessage, Data: MessagePayload{
			ID:        msg.ID,
			RoomID:    msg.RoomID,
			SenderID:  msg.SenderID,
			Content:   msg.Content,
			ReplyToID: msg.ReplyToID,
			FileURL:   msg.FileURL,
			FileName:  msg.FileName,
			FileType:  msg.FileType,
			CreatedAt: msg.CreatedAt,
		}}
		// The sender is part of the fan-out: any of their other
		// devices see the message without a refetch.
		for _, uid := range members {
			if _, err := s.Gate.Send(uid, event); err != nil {
				logger.CtxWarn(ctx, "message delivery failed",
					"message_id", msg.ID, "recipient_id", uid, "error", err)
			}
		}
	}

	return msg, nil
}

// GetHistory returns the newest messages of a room in chronological order
// and marks every returned message as read for the caller. Fetching
// history is the read receipt.
func (s *MessageService) GetHistory(userID, roomID string, limit int, beforeID string) ([]dto.MessageResponse, error) {
	member, err := s.Rooms.IsMember(userID, roomID)
	if err != nil {
		return nil, apperrors.PersistenceError(err)
	}
	if !member {
		return nil, apperrors.ErrNotRoomMember
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	messages, err := s.Messages.FindByRoom(roomID, limit, beforeID)
	if err != nil {
		return nil, apperrors.PersistenceError(err)
	}

	toMark := make([]string, 0, len(messages))
	for i := range messages {
		if messages[i].SenderID != userID {
			toMark = append(toMark, messages[i].ID)
		}
	}
	if len(toMark) > 0 {
		if err := s.Statuses.MarkManyRead(toMark, userID, time.Now()); err != nil {
			return nil, apperrors.PersistenceError(err)
		}
	}

	// Repository order is newest first; the client renders oldest first.
	out := make([]dto.MessageResponse, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		out = append(out, toMessageResponse(&messages[i], userID))
	}
	return out, nil
}

func toMessageResponse(m *chat.Message, viewerID string) dto.MessageResponse {
	resp := dto.MessageResponse{
		ID:        m.ID,
		RoomID:    m.RoomID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		FileURL:   m.FileURL,
		FileName:  m.FileName,
		FileType:  m.FileType,
		IsEdited:  m.IsEdited,
		IsMe:      m.SenderID == viewerID,
		CreatedAt: m.CreatedAt,
	}
	if m.ReplyTo != nil {
		resp.ReplyTo = &dto.ReplyPreview{
			ID:       m.ReplyTo.ID,
			SenderID: m.ReplyTo.SenderID,
			Content:  truncate(m.ReplyTo.Content, previewRunes),
		}
	}
	return resp
}
