package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"hogis-feedback-backend/internal/config"
	"hogis-feedback-backend/internal/database"
	"hogis-feedback-backend/internal/feedback"
	"hogis-feedback-backend/internal/handlers"
	"hogis-feedback-backend/internal/mailer"
	customMiddleware "hogis-feedback-backend/internal/middleware"
	"hogis-feedback-backend/internal/notify"
	"hogis-feedback-backend/internal/repository"
	"hogis-feedback-backend/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env (ignore error in production — env vars set directly)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	// Connect to MongoDB
	if err := database.Connect(cfg.MongoURI, cfg.DBName); err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}

	// Initialize repositories
	feedbackRepo := repository.NewFeedbackRepo()

	// Ensure indexes
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := feedbackRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create feedback indexes: %v", err)
	}

	// Blob storage for photos and voice notes
	if cfg.S3Bucket == "" {
		log.Fatal("❌ S3_BUCKET is required")
	}
	blobs, err := storage.NewS3Store(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.MediaBaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to initialize blob storage: %v", err)
	}

	// Mail transport: Resend when configured, mock otherwise
	var m mailer.Mailer
	if cfg.ResendAPIKey != "" {
		m = mailer.NewResendMailer(cfg.ResendAPIKey)
	} else {
		log.Println("⚠️  RESEND_API_KEY not set, emails will be logged only")
		m = mailer.NewMockMailer()
	}

	dispatcher := notify.NewDispatcher(m, cfg.VenueEmails, cfg.AdminEmail, config.VenueAddresses)
	service := feedback.NewService(feedbackRepo, blobs, dispatcher, cfg.CallTimeout)
	reader := feedback.NewReader(feedbackRepo, cfg.CallTimeout)

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(cfg.SessionSecret)
	feedbackHandler := handlers.NewFeedbackHandler(service, reader)
	notificationHandler := handlers.NewNotificationHandler(dispatcher, reader, config.Venues, cfg.CallTimeout)

	// Setup chi router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"hogis-feedback-backend"}`))
	})

	// Public routes
	r.Post("/api/session", sessionHandler.CreateSession)
	r.Get("/api/feedback", feedbackHandler.ListFeedback)
	r.Get("/api/feedback/stats", feedbackHandler.Stats)
	r.HandleFunc("/api/notifications/feedback", notificationHandler.SendFeedbackEmail)
	r.Post("/api/digest/monthly", notificationHandler.SendMonthlyDigest)

	// Submission requires an anonymous session token
	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.SessionAuth(cfg.SessionSecret))
		r.Post("/api/feedback", feedbackHandler.SubmitFeedback)
	})

	// Start server
	log.Printf("🚀 Hogis feedback backend starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
