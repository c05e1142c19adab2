package chat_test

import (
	"context"
	"testing"
	"time"

	modelsChat "chatline_backend/internal/models/chat"
	"chatline_backend/internal/repositories"
	repoChat "chatline_backend/internal/repositories/chat"
	chatsvc "chatline_backend/internal/services/chat"
	"chatline_backend/internal/services/dto"
	"chatline_backend/test/helpers"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeGate records every delivery the router attempts.
type fakeGate struct {
	sent map[string][]chatsvc.Event
}

func newFakeGate() *fakeGate {
	return &fakeGate{sent: make(map[string][]chatsvc.Event)}
}

func (g *fakeGate) Send(userID string, event chatsvc.Event) (bool, error) {
	g.sent[userID] = append(g.sent[userID], event)
	return true, nil
}

type chatFixture struct {
	db       *gorm.DB
	gate     *fakeGate
	rooms    *chatsvc.RoomService
	messages *chatsvc.MessageService
	requests *chatsvc.RequestService
	users    repositories.UserRepository
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()

	db := helpers.NewTestDB(t)
	gate := newFakeGate()

	userRepo := repositories.NewUserRepository(db)
	roomRepo := repoChat.NewRoomRepository(db)
	participantRepo := repoChat.NewGroupParticipantRepository(db)
	messageRepo := repoChat.NewMessageRepository(db)
	statusRepo := repoChat.NewMessageStatusRepository(db)
	requestRepo := repoChat.NewChatRequestRepository(db)

	rooms := chatsvc.NewRoomService(roomRepo, participantRepo, messageRepo, statusRepo, userRepo)
	messages := chatsvc.NewMessageService(messageRepo, statusRepo, rooms, gate)
	requests := chatsvc.NewRequestService(requestRepo, roomRepo, userRepo)

	return &chatFixture{
		db:       db,
		gate:     gate,
		rooms:    rooms,
		messages: messages,
		requests: requests,
		users:    userRepo,
	}
}

func (f *chatFixture) createUser(t *testing.T, username string) string {
	t.Helper()
	return helpers.CreateUser(t, f.db, username, "password123").ID
}

func (f *chatFixture) createDirectRoom(t *testing.T, user1, user2 string) *modelsChat.ChatRoom {
	t.Helper()
	room, err := modelsChat.NewDirectRoom(user1, user2)
	require.NoError(t, err)
	room.ID = uuid.NewString()
	require.NoError(t, f.db.Create(room).Error)
	return room
}

func (f *chatFixture) createGroupRoom(t *testing.T, name, creator string, members ...string) *modelsChat.ChatRoom {
	t.Helper()
	room := modelsChat.NewGroupRoom(name, creator)
	room.ID = uuid.NewString()
	require.NoError(t, f.db.Create(room).Error)

	participants := []modelsChat.GroupParticipant{{
		ID:       uuid.NewString(),
		RoomID:   room.ID,
		UserID:   creator,
		Role:     modelsChat.RoleAdmin,
		JoinedAt: time.Now(),
	}}
	for _, m := range members {
		participants = append(participants, modelsChat.GroupParticipant{
			ID:       uuid.NewString(),
			RoomID:   room.ID,
			UserID:   m,
			Role:     modelsChat.RoleMember,
			JoinedAt: time.Now(),
		})
	}
	require.NoError(t, f.db.Create(&participants).Error)
	return room
}

func TestMembersDirectRoom(t *testing.T) {
	f := newChatFixture(t)
	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")
	room := f.createDirectRoom(t, alice, bob)

	members, err := f.rooms.Members(room.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{alice, bob}, members)
}

func TestMembersGroupRoom(t *testing.T) {
	f := newChatFixture(t)
	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")
	carol := f.createUser(t, "carol")
	room := f.createGroupRoom(t, "trio", alice, bob, carol)

	members, err := f.rooms.Members(room.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{alice, bob, carol}, members)
}

func TestMembersMissingRoomIsEmpty(t *testing.T) {
	f := newChatFixture(t)

	members, err := f.rooms.Members(uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestIsMember(t *testing.T) {
	f := newChatFixture(t)
	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")
	mallory := f.createUser(t, "mallory")
	room := f.createDirectRoom(t, alice, bob)

	ok, err := f.rooms.IsMember(alice, room.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.rooms.IsMember(mallory, room.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.rooms.IsMember(alice, uuid.NewString())
	require.NoError(t, err)
	assert.False(t, ok, "a missing room has no members")
}

func TestCreateGroupSkipsUnknownAndSelf(t *testing.T) {
	f := newChatFixture(t)
	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")

	room, err := f.rooms.CreateGroup(alice, &dto.GroupCreateRequest{
		Name:           "team",
		ParticipantIDs: []string{bob, alice, uuid.NewString()},
	})
	require.NoError(t, err)

	members, err := f.rooms.Members(room.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{alice, bob}, members)
}

func TestListRoomsUnreadFlag(t *testing.T) {
	f := newChatFixture(t)
	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")
	room := f.createDirectRoom(t, alice, bob)

	_, err := f.messages.HandleIncoming(context.Background(), alice, &dto.SendMessageRequest{
		RoomID:  room.ID,
		Content: "hello bob",
	})
	require.NoError(t, err)

	// Bob sees an unread room; Alice authored the message so hers is read.
	bobRooms, err := f.rooms.ListRooms(bob)
	require.NoError(t, err)
	require.Len(t, bobRooms, 1)
	assert.True(t, bobRooms[0].Unread)
	require.NotNil(t, bobRooms[0].LastMessage)
	assert.Equal(t, "hello bob", bobRooms[0].LastMessage.Content)
	require.NotNil(t, bobRooms[0].OtherUser)
	assert.Equal(t, "alice", bobRooms[0].OtherUser.Username)

	aliceRooms, err := f.rooms.ListRooms(alice)
	require.NoError(t, err)
	require.Len(t, aliceRooms, 1)
	assert.False(t, aliceRooms[0].Unread)

	// Fetching history flips the flag.
	_, err = f.messages.GetHistory(bob, room.ID, 50, "")
	require.NoError(t, err)

	bobRooms, err = f.rooms.ListRooms(bob)
	require.NoError(t, err)
	assert.False(t, bobRooms[0].Unread)
}

func TestListRoomsPreviewTruncation(t *testing.T) {
	f := newChatFixture(t)
	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")
	room := f.createDirectRoom(t, alice, bob)

	long := ""
	for i := 0; i < 80; i++ {
		long += "x"
	}
	_, err := f.messages.HandleIncoming(context.Background(), alice, &dto.SendMessageRequest{
		RoomID:  room.ID,
		Content: long,
	})
	require.NoError(t, err)

	rooms, err := f.rooms.ListRooms(bob)
	require.NoError(t, err)
	require.NotNil(t, rooms[0].LastMessage)
	assert.Equal(t, long[:50]+"...", rooms[0].LastMessage.Content)
}
