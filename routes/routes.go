package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/school-tournament/docs"
	"github.com/Dosada05/school-tournament/handlers"
	"github.com/Dosada05/school-tournament/middleware"
)

// Dependencies собирает всё, что нужно маршрутизатору.
type Dependencies struct {
	Schedule  *handlers.ScheduleHandler
	Bracket   *handlers.BracketHandler
	Match     *handlers.MatchHandler
	WebSocket *handlers.WebSocketHandler
	Health    *handlers.HealthHandler

	Metrics        http.Handler
	JWTSecret      string
	AllowedOrigins []string
	RequestTimeout time.Duration
}

func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}
}

func SetupRoutes(router chi.Router, deps Dependencies) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(corsOptions(deps.AllowedOrigins)))

	router.Get("/health", deps.Health.Health)
	if deps.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", deps.Metrics)
	}
	router.Get("/swagger/*", httpSwagger.WrapHandler)

	// WebSocket не проходит через таймаут: соединение живёт долго.
	router.Get("/ws/tournaments/{tournamentID}", deps.WebSocket.ServeWs)

	router.Route("/tournaments/{tournamentID}", func(r chi.Router) {
		if deps.RequestTimeout > 0 {
			r.Use(chiMiddleware.Timeout(deps.RequestTimeout))
		}

		r.Get("/matches", deps.Match.ListMatches)

		// Изменения расписания доступны только организаторам
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(deps.JWTSecret))
			r.Use(middleware.Authorize(middleware.RoleOrganizer, middleware.RoleAdmin))

			r.Post("/schedule", deps.Schedule.GenerateGroupSchedule)
			r.Post("/eliminations/next", deps.Bracket.GenerateNextPhase)
			r.Post("/eliminations/reorganize", deps.Schedule.ReorganizeEliminations)
			r.Delete("/eliminations", deps.Bracket.ResetEliminations)
		})
	})
}
