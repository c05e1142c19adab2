package chat

import (
	"errors"

	"chatline_backend/internal/models/chat"

	"gorm.io/gorm"
)

type RoomRepository struct {
	DB *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{DB: db}
}

// FindByID returns the room or nil when it does not exist. Callers decide
// whether absence is an error; the membership resolver treats it as an
// empty recipient set.
func (r *RoomRepository) FindByID(id string) (*chat.ChatRoom, error) {
	var room chat.ChatRoom
	err := r.DB.First(&room, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepository) Create(room *chat.ChatRoom) error {
	return r.DB.Create(room).Error
}

// FindDirectByUser returns every direct room with the user at either endpoint.
func (r *RoomRepository) FindDirectByUser(userID string) ([]chat.ChatRoom, error) {
	var rooms []chat.ChatRoom
	err := r.DB.
		Where("type = ? AND (user1_id = ? OR user2_id = ?)", chat.RoomTypeDirect, userID, userID).
		Find(&rooms).Error
	return rooms, err
}

// FindGroupsByUser returns every group room the user participates in.
func (r *RoomRepository) FindGroupsByUser(userID string) ([]chat.ChatRoom, error) {
	var rooms []chat.ChatRoom
	err := r.DB.
		Joins("JOIN group_participants gp ON gp.room_id = chat_rooms.id").
		Where("gp.user_id = ? AND chat_rooms.type = ?", userID, chat.RoomTypeGroup).
		Find(&rooms).Error
	return rooms, err
}

// FindDirectBetween looks up an existing direct room for the unordered pair.
func (r *RoomRepository) FindDirectBetween(user1ID, user2ID string) (*chat.ChatRoom, error) {
	var room chat.ChatRoom
	err := r.DB.
		Where("type = ?", chat.RoomTypeDirect).
		Where("(user1_id = ? AND user2_id = ?) OR (user1_id = ? AND user2_id = ?)",
			user1ID, user2ID, user2ID, user1ID).
		First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}
