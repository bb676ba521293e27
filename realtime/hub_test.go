package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	return hub
}

func register(t *testing.T, hub *Hub, room string) *Client {
	t.Helper()
	client := NewClient(hub, nil, room)
	hub.Register <- client
	require.Eventually(t, func() bool {
		return hub.SubscriberCount(room) > 0
	}, time.Second, 5*time.Millisecond)
	return client
}

func TestHub_PublishReachesRoomSubscribers(t *testing.T) {
	hub := startHub(t)
	room := MatchRoom("abc")

	first := register(t, hub, room)
	second := register(t, hub, room)
	require.Eventually(t, func() bool {
		return hub.SubscriberCount(room) == 2
	}, time.Second, 5*time.Millisecond)

	hub.Publish(room, MessageMatchUpdated, map[string]int{"score_a": 1})

	for _, client := range []*Client{first, second} {
		select {
		case raw := <-client.Send:
			var msg Message
			require.NoError(t, json.Unmarshal(raw, &msg))
			assert.Equal(t, MessageMatchUpdated, msg.Type)
			assert.Equal(t, room, msg.Room)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the published message")
		}
	}
}

func TestHub_PublishDoesNotCrossRooms(t *testing.T) {
	hub := startHub(t)

	matchClient := register(t, hub, MatchRoom("abc"))
	globalClient := register(t, hub, GlobalRoom)

	hub.Publish(MatchRoom("abc"), MessageMatchUpdated, "payload")

	select {
	case <-matchClient.Send:
	case <-time.After(time.Second):
		t.Fatal("match room subscriber did not receive the message")
	}

	select {
	case <-globalClient.Send:
		t.Fatal("global subscriber must not see match-room traffic")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_PublishToEmptyRoomIsNoop(t *testing.T) {
	hub := startHub(t)

	// не должно паниковать и не должно ничего создавать
	hub.Publish(MatchRoom("nobody"), MessageMatchUpdated, "payload")
	assert.Equal(t, 0, hub.SubscriberCount(MatchRoom("nobody")))
}

func TestHub_UnregisterClosesSendAndEmptiesRoom(t *testing.T) {
	hub := startHub(t)
	room := MatchRoom("abc")
	client := register(t, hub, room)

	hub.Unregister <- client
	require.Eventually(t, func() bool {
		return hub.SubscriberCount(room) == 0
	}, time.Second, 5*time.Millisecond)

	_, open := <-client.Send
	assert.False(t, open, "send channel must be closed on unregister")

	// повторная публикация после ухода последнего клиента безвредна
	hub.Publish(room, MessageMatchUpdated, "payload")
}

func TestHub_SlowClientIsSkipped(t *testing.T) {
	hub := startHub(t)
	room := MatchRoom("abc")

	slow := register(t, hub, room)
	for i := 0; i < cap(slow.Send); i++ {
		slow.Send <- []byte("backlog")
	}

	// буфер полон: публикация не должна блокироваться
	done := make(chan struct{})
	go func() {
		hub.Publish(room, MessageMatchUpdated, "payload")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow client")
	}
}
