package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"chatline_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestChatRequestToHistoryFlow walks the whole happy path: request,
// accept, send over HTTP, read history.
func TestChatRequestToHistoryFlow(t *testing.T) {
	ts := helpers.NewTestServer(t)
	aliceToken, _ := helpers.CreateAndLoginUser(t, ts, "alice", "password123")
	bobToken, _ := helpers.CreateAndLoginUser(t, ts, "bob", "password123")

	// Alice asks to chat with Bob.
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/requests", aliceToken, map[string]string{
		"receiver_username": "bob",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var sent struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &sent))
	assert.Equal(t, "pending", sent.Status)

	// Bob sees it pending.
	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/requests/pending", bobToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var pending struct {
		Requests []struct {
			ID     string `json:"id"`
			Sender struct {
				Username string `json:"username"`
			} `json:"sender"`
		} `json:"requests"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &pending))
	require.Len(t, pending.Requests, 1)
	assert.Equal(t, "alice", pending.Requests[0].Sender.Username)

	// Bob accepts; a direct room appears.
	res, body = ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/requests/%s/respond", sent.ID), bobToken, map[string]bool{
		"accept": true,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var accepted struct {
		Status string `json:"status"`
		RoomID string `json:"room_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &accepted))
	assert.Equal(t, "accepted", accepted.Status)
	require.NotEmpty(t, accepted.RoomID)

	// Alice sends through the HTTP fallback.
	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/chat/messages", aliceToken, map[string]string{
		"room_id": accepted.RoomID,
		"content": "hi bob",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	// Bob's room list shows the unread room.
	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/chat/rooms", bobToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var roomList struct {
		Rooms []struct {
			ID     string `json:"id"`
			Unread bool   `json:"unread"`
			Type   string `json:"chat_type"`
		} `json:"rooms"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &roomList))
	require.Len(t, roomList.Rooms, 1)
	assert.True(t, roomList.Rooms[0].Unread)
	assert.Equal(t, "direct", roomList.Rooms[0].Type)

	// History returns the message and acts as the read receipt.
	res, body = ts.SendRequest(t, http.MethodGet, fmt.Sprintf("/api/v1/chat/rooms/%s/messages", accepted.RoomID), bobToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var history struct {
		Messages []struct {
			Content string `json:"content"`
			IsMe    bool   `json:"is_me"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &history))
	require.Len(t, history.Messages, 1)
	assert.Equal(t, "hi bob", history.Messages[0].Content)
	assert.False(t, history.Messages[0].IsMe)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/chat/rooms", bobToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	require.NoError(t, json.Unmarshal([]byte(body), &roomList))
	assert.False(t, roomList.Rooms[0].Unread)
}

func TestSendToRoomWithoutMembershipIsForbidden(t *testing.T) {
	ts := helpers.NewTestServer(t)
	aliceToken, _ := helpers.CreateAndLoginUser(t, ts, "alice", "password123")
	bobToken, _ := helpers.CreateAndLoginUser(t, ts, "bob", "password123")
	malloryToken, _ := helpers.CreateAndLoginUser(t, ts, "mallory", "password123")

	roomID := acceptDirectRoom(t, ts, aliceToken, bobToken, "bob")

	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/chat/messages", malloryToken, map[string]string{
		"room_id": roomID,
		"content": "sneaking in",
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, fmt.Sprintf("/api/v1/chat/rooms/%s/messages", roomID), malloryToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestRespondTwiceConflicts(t *testing.T) {
	ts := helpers.NewTestServer(t)
	aliceToken, _ := helpers.CreateAndLoginUser(t, ts, "alice", "password123")
	bobToken, _ := helpers.CreateAndLoginUser(t, ts, "bob", "password123")

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/requests", aliceToken, map[string]string{
		"receiver_username": "bob",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var sent struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &sent))

	res, _ = ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/requests/%s/respond", sent.ID), bobToken, map[string]bool{"accept": false})
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/requests/%s/respond", sent.ID), bobToken, map[string]bool{"accept": true})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestGroupCreateAndChat(t *testing.T) {
	ts := helpers.NewTestServer(t)
	aliceToken, _ := helpers.CreateAndLoginUser(t, ts, "alice", "password123")
	bobToken, bob := helpers.CreateAndLoginUser(t, ts, "bob", "password123")

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/groups", aliceToken, map[string]interface{}{
		"name":            "the gang",
		"participant_ids": []string{bob.ID},
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	var group struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &group))

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/chat/messages", bobToken, map[string]string{
		"room_id": group.ID,
		"content": "hello group",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/chat/rooms", aliceToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var roomList struct {
		Rooms []struct {
			GroupName string `json:"group_name"`
			Unread    bool   `json:"unread"`
		} `json:"rooms"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &roomList))
	require.Len(t, roomList.Rooms, 1)
	assert.Equal(t, "the gang", roomList.Rooms[0].GroupName)
	assert.True(t, roomList.Rooms[0].Unread)
}

// acceptDirectRoom runs the request/accept handshake and returns the room id.
func acceptDirectRoom(t *testing.T, ts *helpers.TestServer, senderToken, receiverToken, receiverUsername string) string {
	t.Helper()

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/requests", senderToken, map[string]string{
		"receiver_username": receiverUsername,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var sent struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &sent))

	res, body = ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/requests/%s/respond", sent.ID), receiverToken, map[string]bool{"accept": true})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var accepted struct {
		RoomID string `json:"room_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &accepted))
	require.NotEmpty(t, accepted.RoomID)
	return accepted.RoomID
}
