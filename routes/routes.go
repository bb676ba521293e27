package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/Dosada05/scoreboard-system/handlers"
	"github.com/Dosada05/scoreboard-system/middleware"
)

func SetupRoutes(
	router *chi.Mux,
	authHandler *handlers.AuthHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
	jwtSecret string,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Post("/auth/login", authHandler.Login)

	// Публичные маршруты для зрителей, с ограничением частоты по IP.
	router.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(rate.Limit(10), 20))

		r.Get("/matches", matchHandler.ListMatchesHandler)
		r.Get("/matches/live", matchHandler.ListLiveMatchesHandler)
		r.Get("/matches/{matchID}", matchHandler.GetMatchHandler)
		r.Get("/leaderboard", matchHandler.LeaderboardHandler)
	})

	// Защищённые маршруты только для админов табло.
	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate([]byte(jwtSecret)))
		r.Use(middleware.Authorize(middleware.RoleAdmin))

		r.Post("/sports/{sport}/matches", matchHandler.CreateMatchHandler)
		r.Put("/sports/{sport}/matches/{matchID}", matchHandler.ApplyUpdateHandler)
		r.Post("/matches/{matchID}/cancel", matchHandler.CancelMatchHandler)
	})

	router.Get("/ws/matches", webSocketHandler.ServeGlobalFeed)
	router.Get("/ws/matches/{matchID}", webSocketHandler.ServeMatchFeed)
}
