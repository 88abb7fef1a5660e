package main

import (
	"context"
	"log"
	"logic_exercises/internal/api"
	"logic_exercises/internal/app/service"
	"logic_exercises/internal/common/security"
	"logic_exercises/internal/domain/repository"
	"logic_exercises/internal/platform/cache"
	"logic_exercises/internal/platform/config"
	"logic_exercises/internal/platform/database"
	"logic_exercises/internal/platform/evaluator"
	"logic_exercises/internal/platform/identity"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	// 1. Load Configuration
	config.Load()
	cfg := config.AppConfig
	log.Println("Configuration loaded.")

	// 2. Initialize JWT
	tokens := security.NewTokenManager(cfg.JWTKey, cfg.JWTExp)

	// 3. Initialize Database
	database.Connect()
	defer database.Close()

	// 4. Initialize Redis (optional preview cache)
	cache.ConnectRedis()
	defer cache.CloseRedis()
	previews := cache.NewPreviewCache(cache.RDB, cfg.PreviewCacheTTL)

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	exerciseRepo := repository.NewPgExerciseRepository(database.DB)
	solutionRepo := repository.NewPgSolutionRepository(database.DB)

	// 6. External collaborators
	evaluatorClient := evaluator.NewClient(cfg.EvaluatorURL, &http.Client{Timeout: cfg.EvaluatorTimeout})
	github := identity.NewGitHubClient(identity.GitHubConfig{
		ClientID:     cfg.GitHubClientID,
		ClientSecret: cfg.GitHubClientSecret,
		OAuthURL:     cfg.GitHubOAuthURL,
		APIURL:       cfg.GitHubAPIURL,
		HTTPClient:   &http.Client{Timeout: 15 * time.Second},
	})

	// 7. Initialize Services
	adminLogin, err := service.NewAdminLoginStrategy(cfg.AdminName, cfg.AdminPassword, cfg.AdminPasswordHash)
	if err != nil {
		log.Fatalf("Could not set up admin login: %v", err)
	}
	authService := service.NewAuthService(userRepo, tokens, adminLogin, github)
	exerciseService := service.NewExerciseService(exerciseRepo, previews, database.DB)
	submissionService := service.NewSubmissionService(userRepo, exerciseRepo, solutionRepo, evaluatorClient)
	progressService := service.NewProgressService(userRepo, exerciseRepo, solutionRepo)
	userService := service.NewUserService(userRepo)

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(tokens, authService, exerciseService, submissionService, progressService, userService)

	server := &http.Server{
		Addr:        ":" + cfg.APIPort,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		// Submissions wait on the evaluator.
		WriteTimeout: cfg.EvaluatorTimeout + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
