package handlers

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/Dosada05/scoreboard-system/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// В продакшене здесь должна быть проверка Origin по списку
		// доверенных доменов фронтенда.
		return true
	},
}

type WebSocketHandler struct {
	hub *realtime.Hub
}

func NewWebSocketHandler(hub *realtime.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeMatchFeed подключает зрителя к комнате одного матча.
// Подключившийся клиент обязан сам перечитать полное состояние по HTTP:
// бэклога у комнаты нет, доставляются только дельты после подписки.
func (h *WebSocketHandler) ServeMatchFeed(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchID")
	if matchID == "" {
		http.Error(w, "Missing matchID", http.StatusBadRequest)
		return
	}
	h.serve(w, r, realtime.MatchRoom(matchID))
}

// ServeGlobalFeed подключает зрителя к общей ленте табло
// (matchUpdated + leaderboardUpdated по всем матчам).
func (h *WebSocketHandler) ServeGlobalFeed(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, realtime.GlobalRoom)
}

func (h *WebSocketHandler) serve(w http.ResponseWriter, r *http.Request, room string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отправляет HTTP-ошибку клиенту, просто логируем.
		log.Printf("Failed to upgrade connection for room %s: %v", room, err)
		return
	}

	client := realtime.NewClient(h.hub, conn, room)
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
