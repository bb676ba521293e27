package realtime

import (
	"encoding/json"
	"log"
	"sync"
)

// Room names: одна комната на матч плюс глобальная лента для табло.
const (
	GlobalRoom = "matches"
)

// MatchRoom returns the room name of a single match feed.
func MatchRoom(matchID string) string { return "match:" + matchID }

// Message is the wire envelope pushed to viewers.
type Message struct {
	Type    string      `json:"type"` // MATCH_UPDATED, LEADERBOARD_UPDATED, ...
	Payload interface{} `json:"payload"`
	Room    string      `json:"room,omitempty"`
}

const (
	MessageMatchUpdated       = "MATCH_UPDATED"
	MessageLeaderboardUpdated = "LEADERBOARD_UPDATED"
)

// Hub держит эфемерные списки подписчиков по комнатам. Никакого состояния
// матчей здесь нет: это летучий fan-out слой, не журнал. Подписчик, который
// переподключился, обязан перечитать полное состояние по HTTP.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	rooms map[string]map[*Client]bool
	mu    sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
	}
}

// Run обрабатывает регистрацию и отключение клиентов. Запускается один раз
// в отдельной горутине из main.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room]; !ok {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			log.Printf("Client registered to room %s. Total clients in room: %d", client.Room, len(h.rooms[client.Room]))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.Room]; ok {
				if _, okClient := clients[client]; okClient {
					client.closeSend()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.rooms, client.Room)
						log.Printf("Room %s closed as it's empty.", client.Room)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish отправляет payload всем подписчикам комнаты. Доставка не более
// одного раза: медленный или мёртвый клиент пропускается и не блокирует
// остальных. Ошибка одного подписчика никогда не срывает рассылку.
func (h *Hub) Publish(room string, msgType string, payload interface{}) {
	messageBytes, err := json.Marshal(Message{Type: msgType, Payload: payload, Room: room})
	if err != nil {
		log.Printf("Error marshalling message for room %s: %v", room, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	roomClients, ok := h.rooms[room]
	if !ok {
		return
	}
	for client := range roomClients {
		client.mu.Lock()
		if client.isClosed {
			client.mu.Unlock()
			continue
		}
		select {
		case client.Send <- messageBytes:
		default:
			log.Printf("Client's send channel full in room %s. Skipping.", room)
		}
		client.mu.Unlock()
	}
}

// SubscriberCount возвращает число подписчиков комнаты (для тестов и метрик).
func (h *Hub) SubscriberCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
