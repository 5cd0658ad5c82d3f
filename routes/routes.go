package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/raheem101000-netizen/gamehub/handlers"
	"github.com/raheem101000-netizen/gamehub/middleware"
	"github.com/raheem101000-netizen/gamehub/realtime"
)

func SetupRoutes(
	router *chi.Mux,
	auth *middleware.SessionAuthenticator,
	matchHandler *handlers.MatchHandler,
	uploadHandler *handlers.UploadHandler,
	gateway *realtime.Gateway,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(auth))

		r.Route("/tournaments/{tournamentID}", func(r chi.Router) {
			r.Post("/matches/generate", matchHandler.GenerateMatchesHandler)
			r.Post("/matches", matchHandler.CreateCustomMatchHandler)
			r.Get("/matches", matchHandler.ListMatchesHandler)
			r.Get("/standings", matchHandler.StandingsHandler)
		})

		r.Route("/matches/{matchID}", func(r chi.Router) {
			r.Patch("/", matchHandler.UpdateMatchResultHandler)
			r.Patch("/teams", matchHandler.RelinkMatchHandler)
			r.Post("/winner", matchHandler.SelectWinnerHandler)
			r.Post("/thread/read", matchHandler.MarkThreadReadHandler)
		})

		r.Post("/uploads/chat-image", uploadHandler.ChatImageHandler)
	})

	// The gateway authenticates the session itself so a rejected upgrade
	// can answer with the right status before 101.
	router.Get("/ws/match", gateway.ServeMatch)
	router.Get("/ws/channel", gateway.ServeChannel)
}
