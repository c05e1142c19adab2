package chat

import (
	"sort"
	"time"

	"chatline_backend/internal/models/chat"
	"chatline_backend/internal/repositories"
	repoChat "chatline_backend/internal/repositories/chat"
	"chatline_backend/internal/services/dto"
	"chatline_backend/pkg/apperrors"

	"github.com/google/uuid"
)

// RoomService resolves room membership and serves the room listing
// surface. Membership is the authority for both message routing and
// history authorization.
type RoomService struct {
	Rooms        *repoChat.RoomRepository
	Participants *repoChat.GroupParticipantRepository
	Messages     *repoChat.MessageRepository
	Statuses     *repoChat.MessageStatusRepository
	Users        repositories.UserRepository
}

func NewRoomService(
	rooms *repoChat.RoomRepository,
	participants *repoChat.GroupParticipantRepository,
	messages *repoChat.MessageRepository,
	statuses *repoChat.MessageStatusRepository,
	users repositories.UserRepository,
) *RoomService {
	return &RoomService{
		Rooms:        rooms,
		Participants: participants,
		Messages:     messages,
		Statuses:     statuses,
		Users:        users,
	}
}

// Members returns the recipient set for a room. Unknown rooms resolve to
// an empty set; callers needing an authorization decision use IsMember.
func (s *RoomService) Members(roomID string) ([]string, error) {
	room, err := s.Rooms.FindByID(roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return []string{}, nil
	}
	return s.MembersOf(room)
}

// MembersOf resolves the member set from the room's tagged variant.
func (s *RoomService) MembersOf(room *chat.ChatRoom) ([]string, error) {
	switch v := room.Variant().(type) {
	case chat.DirectRoom:
		return []string{v.User1ID, v.User2ID}, nil
	case chat.GroupRoom:
		participants, err := s.Participants.GetParticipants(v.RoomID)
		if err != nil {
			return nil, err
		}
		members := make([]string, 0, len(participants))
		for _, p := range participants {
			members = append(members, p.UserID)
		}
		return members, nil
	default:
		return []string{}, nil
	}
}

// IsMember reports whether the user belongs to the room. A missing room
// is not membership.
func (s *RoomService) IsMember(userID, roomID string) (bool, error) {
	members, err := s.Members(roomID)
	if err != nil {
		return false, err
	}
	for _, m := range members {
		if m == userID {
			return true, nil
		}
	}
	return false, nil
}

// CreateGroup creates a group room with the creator as admin. Unknown and
// self participant ids are skipped, matching the forgiving create surface.
func (s *RoomService) CreateGroup(creatorID string, req *dto.GroupCreateRequest) (*chat.ChatRoom, error) {
	room := chat.NewGroupRoom(req.Name, creatorID)
	room.ID = uuid.NewString()

	if err := s.Rooms.Create(room); err != nil {
		return nil, apperrors.PersistenceError(err)
	}

	now := time.Now()
	participants := []chat.GroupParticipant{{
		ID:       uuid.NewString(),
		RoomID:   room.ID,
		UserID:   creatorID,
		Role:     chat.RoleAdmin,
		JoinedAt: now,
	}}

	for _, uid := range req.ParticipantIDs {
		if uid == creatorID {
			continue
		}
		if _, err := s.Users.FindByID(uid); err != nil {
			continue
		}
		participants = append(participants, chat.GroupParticipant{
			ID:       uuid.NewString(),
			RoomID:   room.ID,
			UserID:   uid,
			Role:     chat.RoleMember,
			JoinedAt: now,
		})
	}

	if err := s.Participants.CreateMany(participants); err != nil {
		return nil, apperrors.PersistenceError(err)
	}

	return room, nil
}

const previewRunes = 50

// ListRooms returns the caller's rooms with last-message previews and the
// coarse unread flag, newest activity first. The flag is derived from the
// newest message only; it is not an exact unread count.
func (s *RoomService) ListRooms(userID string) ([]dto.RoomSummary, error) {
	direct, err := s.Rooms.FindDirectByUser(userID)
	if err != nil {
		return nil, apperrors.PersistenceError(err)
	}
	groups, err := s.Rooms.FindGroupsByUser(userID)
	if err != nil {
		return nil, apperrors.PersistenceError(err)
	}

	rooms := append(direct, groups...)
	summaries := make([]dto.RoomSummary, 0, len(rooms))
	lastAt := make(map[string]time.Time)

	for i := range rooms {
		room := &rooms[i]
		summary := dto.RoomSummary{
			ID:        room.ID,
			Type:      room.Type,
			GroupName: room.GroupName,
		}

		if room.Type == chat.RoomTypeDirect {
			other, err := s.Users.FindByID(room.OtherEndpoint(userID))
			if err != nil {
				// Dangling endpoint, hide the room like the listing always has.
				continue
			}
			summary.OtherUser = &dto.OtherUserInfo{
				ID:          other.ID,
				Username:    other.Username,
				DisplayName: other.DisplayName,
				IsOnline:    other.IsOnline,
			}
		}

		last, err := s.Messages.LastInRoom(room.ID)
		if err != nil {
			return nil, apperrors.PersistenceError(err)
		}
		if last != nil {
			summary.LastMessage = &dto.LastMessagePreview{
				Content:   truncate(last.Content, previewRunes),
				CreatedAt: last.CreatedAt,
			}
			lastAt[room.ID] = last.CreatedAt

			if last.SenderID != userID {
				status, err := s.Statuses.Find(last.ID, userID)
				if err != nil {
					return nil, apperrors.PersistenceError(err)
				}
				// No row yet means the implicit sent state.
				summary.Unread = status == nil || status.Status != chat.StatusRead
			}
		}

		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return lastAt[summaries[i].ID].After(lastAt[summaries[j].ID])
	})

	return summaries, nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
