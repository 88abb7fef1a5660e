package api

import (
	"logic_exercises/internal/api/handler"
	"logic_exercises/internal/api/middleware"
	"logic_exercises/internal/app/service"
	"logic_exercises/internal/common"
	"logic_exercises/internal/common/security"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	tokens *security.TokenManager,
	authService *service.AuthService,
	exerciseService *service.ExerciseService,
	submissionService *service.SubmissionService,
	progressService *service.ProgressService,
	userService *service.UserService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger) // Chi's logger
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Looks for "Authorization: Bearer T" and verifies it. Routes that need a
	// caller add middleware.Authenticator, which rejects missing or bad tokens.
	r.Use(jwtauth.Verifier(tokens.JWTAuth()))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := exerciseService.Ping(r.Context()); err != nil {
			common.RespondWithDomainError(w, "health check", err)
			return
		}
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(api chi.Router) {
		// Auth routes (public)
		handler.NewAuthHandler(authService).RegisterRoutes(api)

		exerciseHandler := handler.NewExerciseHandler(exerciseService)
		submissionHandler := handler.NewSubmissionHandler(submissionService)
		progressHandler := handler.NewProgressHandler(progressService)
		api.Route("/exercises", func(exercises chi.Router) {
			exercises.Use(middleware.Authenticator)
			exerciseHandler.RegisterRoutes(exercises)
			submissionHandler.RegisterRoutes(exercises)
			progressHandler.RegisterRoutes(exercises)
		})

		userHandler := handler.NewUserHandler(userService)
		api.Route("/users", func(users chi.Router) {
			users.Use(middleware.Authenticator)
			userHandler.RegisterRoutes(users)
		})
	})

	return r
}
