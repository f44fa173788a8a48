package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/challenge-pot/backend/internal/auth"
	"github.com/challenge-pot/backend/internal/challenges"
	"github.com/challenge-pot/backend/internal/database"
	"github.com/challenge-pot/backend/internal/middleware"
	"github.com/challenge-pot/backend/internal/missions"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// All date math (streaks, is_late, status sweeps) runs in one
	// reference timezone so every participant sees the same "today".
	tzName := os.Getenv("CHALLENGE_TIMEZONE")
	if tzName == "" {
		tzName = "Asia/Seoul"
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Fatalf("Invalid CHALLENGE_TIMEZONE %q: %v", tzName, err)
	}

	// Initialize stores, services, handlers
	challengeStore := challenges.NewStore(db)
	missionStore := missions.NewStore(db)

	missionService := missions.NewService(missionStore, loc)
	challengeService := challenges.NewService(challengeStore, missionStore, loc)

	authHandler := auth.NewHandler(db)
	challengeHandler := challenges.NewHandler(challengeService)
	missionHandler := missions.NewHandler(missionService)

	// Background status sweeps
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go challengeService.StartStatusWorker(ctx)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")

	protected.HandleFunc("/challenges", challengeHandler.CreateChallenge).Methods("POST")
	protected.HandleFunc("/challenges", challengeHandler.ListChallenges).Methods("GET")
	protected.HandleFunc("/challenges/join", challengeHandler.JoinChallenge).Methods("POST")
	protected.HandleFunc("/challenges/{id}", challengeHandler.GetChallenge).Methods("GET")
	protected.HandleFunc("/challenges/{id}/participants", challengeHandler.ListParticipants).Methods("GET")
	protected.HandleFunc("/challenges/{id}/missions", missionHandler.ListMissions).Methods("GET")
	protected.HandleFunc("/challenges/{id}/logs", missionHandler.LogMission).Methods("POST")
	protected.HandleFunc("/challenges/{id}/logs", missionHandler.ListDayLogs).Methods("GET")
	protected.HandleFunc("/challenges/{id}/rankings", challengeHandler.GetRankings).Methods("GET")
	protected.HandleFunc("/challenges/{id}/results", challengeHandler.GetResults).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
