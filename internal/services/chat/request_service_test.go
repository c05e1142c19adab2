package chat_test

import (
	"testing"

	modelsChat "chatline_backend/internal/models/chat"
	"chatline_backend/internal/services/dto"
	"chatline_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendRequestCreatesPending(t *testing.T) {
	f := newChatFixture(t)
	f.createUser(t, "alice")
	f.createUser(t, "bob")

	alice := f.findUserID(t, "alice")
	req, err := f.requests.SendRequest(alice, &dto.SendRequestInput{ReceiverUsername: "bob"})
	require.NoError(t, err)
	assert.Equal(t, modelsChat.RequestPending, req.Status)
	assert.Equal(t, alice, req.SenderID)
}

func TestSendRequestIsIdempotentPerPair(t *testing.T) {
	f := newChatFixture(t)
	alice := f.createUser(t, "alice")
	f.createUser(t, "bob")

	first, err := f.requests.SendRequest(alice, &dto.SendRequestInput{ReceiverUsername: "bob"})
	require.NoError(t, err)

	second, err := f.requests.SendRequest(alice, &dto.SendRequestInput{ReceiverUsername: "bob"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "repeat sends return the existing row")

	var count int64
	require.NoError(t, f.db.Model(&modelsChat.ChatRequest{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSendRequestAfterResolutionReturnsExisting(t *testing.T) {
	f := newChatFixture(t)
	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")

	req, err := f.requests.SendRequest(alice, &dto.SendRequestInput{ReceiverUsername: "bob"})
	require.NoError(t, err)

	_, _, err = f.requests.Respond(bob, req.ID, false)
	require.NoError(t, err)

	again, err := f.requests.SendRequest(alice, &dto.SendRequestInput{ReceiverUsername: "bob"})
	require.NoError(t, err)
	assert.Equal(t, req.ID, again.ID)
	assert.Equal(t, modelsChat.RequestRejected, again.Status)
}

func TestSendRequestToSelfFails(t *testing.T) {
	f := newChatFixture(t)
	alice := f.createUser(t, "alice")

	_, err := f.requests.SendRequest(alice, &dto.SendRequestInput{ReceiverUsername: "alice"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, 400, appErr.HTTPCode)
}

func TestSendRequestUnknownReceiver(t *testing.T) {
	f := newChatFixture(t)
	alice := f.createUser(t, "alice")

	_, err := f.requests.SendRequest(alice, &dto.SendRequestInput{ReceiverUsername: "nobody"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, 404, appErr.HTTPCode)
}

func TestRespondAcceptCreatesDirectRoom(t *testing.T) {
	f := newChatFixture(t)
	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")

	req, err := f.requests.SendRequest(alice, &dto.SendRequestInput{ReceiverUsername: "bob"})
	require.NoError(t, err)

	updated, room, err := f.requests.Respond(bob, req.ID, true)
	require.NoError(t, err)
	assert.Equal(t, modelsChat.RequestAccepted, updated.Status)
	require.NotNil(t, room)
	assert.Equal(t, modelsChat.RoomTypeDirect, room.Type)

	members, err := f.rooms.Members(room.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{alice, bob}, members)

	var count int64
	require.NoError(t, f.db.Model(&modelsChat.ChatRoom{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "acceptance creates exactly one room")
}

func TestRespondRejectCreatesNoRoom(t *testing.T) {
	f := newChatFixture(t)
	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")

	req, err := f.requests.SendRequest(alice, &dto.SendRequestInput{ReceiverUsername: "bob"})
	require.NoError(t, err)

	updated, room, err := f.requests.Respond(bob, req.ID, false)
	require.NoError(t, err)
	assert.Equal(t, modelsChat.RequestRejected, updated.Status)
	assert.Nil(t, room)

	var count int64
	require.NoError(t, f.db.Model(&modelsChat.ChatRoom{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRespondTwiceConflicts(t *testing.T) {
	f := newChatFixture(t)
	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")

	req, err := f.requests.SendRequest(alice, &dto.SendRequestInput{ReceiverUsername: "bob"})
	require.NoError(t, err)

	_, _, err = f.requests.Respond(bob, req.ID, true)
	require.NoError(t, err)

	_, _, err = f.requests.Respond(bob, req.ID, true)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, 409, appErr.HTTPCode)
}

func TestRespondOnlyReceiverMayAnswer(t *testing.T) {
	f := newChatFixture(t)
	alice := f.createUser(t, "alice")
	f.createUser(t, "bob")
	mallory := f.createUser(t, "mallory")

	req, err := f.requests.SendRequest(alice, &dto.SendRequestInput{ReceiverUsername: "bob"})
	require.NoError(t, err)

	// The sender and third parties see the same 404 as a missing request.
	_, _, err = f.requests.Respond(alice, req.ID, true)
	require.Error(t, err)
	_, _, err = f.requests.Respond(mallory, req.ID, true)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, 404, appErr.HTTPCode)
}

func TestPendingListsWithSender(t *testing.T) {
	f := newChatFixture(t)
	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")
	carol := f.createUser(t, "carol")

	_, err := f.requests.SendRequest(alice, &dto.SendRequestInput{ReceiverUsername: "carol"})
	require.NoError(t, err)
	_, err = f.requests.SendRequest(bob, &dto.SendRequestInput{ReceiverUsername: "carol"})
	require.NoError(t, err)

	pending, err := f.requests.Pending(carol)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	for _, p := range pending {
		require.NotNil(t, p.Sender)
		assert.NotEmpty(t, p.Sender.Username)
	}
}

func (f *chatFixture) findUserID(t *testing.T, username string) string {
	t.Helper()
	user, err := f.users.FindByUsername(username)
	require.NoError(t, err)
	return user.ID
}
