package chat

import (
	"time"

	"chatline_backend/internal/models/chat"
	"chatline_backend/internal/repositories"
	repoChat "chatline_backend/internal/repositories/chat"
	"chatline_backend/internal/services/dto"
	"chatline_backend/pkg/apperrors"

	"github.com/google/uuid"
)

// RequestService runs the chat request workflow: a pending request is the
// only door into a direct room between two users.
type RequestService struct {
	Requests *repoChat.ChatRequestRepository
	Rooms    *repoChat.RoomRepository
	Users    repositories.UserRepository
}

func NewRequestService(
	requests *repoChat.ChatRequestRepository,
	rooms *repoChat.RoomRepository,
	users repositories.UserRepository,
) *RequestService {
	return &RequestService{Requests: requests, Rooms: rooms, Users: users}
}

// SendRequest creates a pending request toward the named user. Repeat
// sends for the same pair return the existing row unchanged, whatever its
// status; the workflow never produces duplicates.
func (s *RequestService) SendRequest(senderID string, input *dto.SendRequestInput) (*chat.ChatRequest, error) {
	receiver, err := s.Users.FindByUsername(input.ReceiverUsername)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.PersistenceError(err)
	}
	if receiver.ID == senderID {
		return nil, apperrors.ErrSelfRequest
	}

	existing, err := s.Requests.FindByPair(senderID, receiver.ID)
	if err != nil {
		return nil, apperrors.PersistenceError(err)
	}
	if existing != nil {
		return existing, nil
	}

	req := &chat.ChatRequest{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiver.ID,
		Status:     chat.RequestPending,
		CreatedAt:  time.Now(),
	}
	if err := s.Requests.Create(req); err != nil {
		return nil, apperrors.PersistenceError(err)
	}
	return req, nil
}

// Pending lists requests awaiting the receiver's answer, with sender
// identity attached for display.
func (s *RequestService) Pending(receiverID string) ([]dto.ChatRequestResponse, error) {
	requests, err := s.Requests.FindPendingForReceiver(receiverID)
	if err != nil {
		return nil, apperrors.PersistenceError(err)
	}

	out := make([]dto.ChatRequestResponse, 0, len(requests))
	for i := range requests {
		req := &requests[i]
		resp := dto.ChatRequestResponse{
			ID:         req.ID,
			ReceiverID: req.ReceiverID,
			Status:     req.Status,
			CreatedAt:  req.CreatedAt,
		}
		if sender, err := s.Users.FindByID(req.SenderID); err == nil {
			resp.Sender = &chat.Sender{
				ID:          sender.ID,
				Username:    sender.Username,
				DisplayName: sender.DisplayName,
			}
		}
		out = append(out, resp)
	}
	return out, nil
}

// Respond accepts or rejects a pending request. Only the receiver may
// answer; an already resolved request conflicts. Acceptance creates the
// direct room in the same transaction that flips the status, reusing an
// existing room for the pair if one somehow exists.
func (s *RequestService) Respond(userID, requestID string, accept bool) (*chat.ChatRequest, *chat.ChatRoom, error) {
	req, err := s.Requests.FindByID(requestID)
	if err != nil {
		return nil, nil, apperrors.PersistenceError(err)
	}
	// A foreign request is indistinguishable from a missing one.
	if req == nil || req.ReceiverID != userID {
		return nil, nil, apperrors.ErrRequestNotFound
	}
	if req.Resolved() {
		return nil, nil, apperrors.ErrRequestResolved
	}

	if !accept {
		if err := s.Requests.Reject(req.ID); err != nil {
			return nil, nil, apperrors.PersistenceError(err)
		}
		req.Status = chat.RequestRejected
		return req, nil, nil
	}

	room, err := s.Rooms.FindDirectBetween(req.SenderID, req.ReceiverID)
	if err != nil {
		return nil, nil, apperrors.PersistenceError(err)
	}
	if room == nil {
		room, err = chat.NewDirectRoom(req.SenderID, req.ReceiverID)
		if err != nil {
			return nil, nil, apperrors.NewBadRequestError(err.Error())
		}
		room.ID = uuid.NewString()
		if err := s.Requests.AcceptAndCreateRoom(req.ID, room); err != nil {
			return nil, nil, apperrors.PersistenceError(err)
		}
	} else {
		if err := s.Requests.AcceptAndCreateRoom(req.ID, nil); err != nil {
			return nil, nil, apperrors.PersistenceError(err)
		}
	}

	req.Status = chat.RequestAccepted
	return req, room, nil
}
