package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/generalux/achileads/internal/auth"
	"github.com/generalux/achileads/internal/config"
	"github.com/generalux/achileads/internal/database"
	"github.com/generalux/achileads/internal/extractor"
	"github.com/generalux/achileads/internal/handlers"
	"github.com/generalux/achileads/internal/logging"
	"github.com/generalux/achileads/internal/services"
	"github.com/gin-gonic/gin"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	logFile := logging.Setup(cfg.LogFile)
	defer logFile.Close()
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Database Connection (optional: without it searches are not kept
	// and sign-in is disabled)
	var (
		searchStore services.SearchStore
		sessions    handlers.SessionManager
		authService *services.AuthService
	)
	db, err := database.Connect(cfg.DatabaseURL)
	switch {
	case errors.Is(err, database.ErrNoDSN):
		log.Println("⚠️  DATABASE_URL not set. Running without persistence.")
	case err != nil:
		log.Fatal("Failed to connect to database: ", err)
	default:
		store := database.NewStore(db)
		searchStore = store
		authService = services.NewAuthService(store, store, cfg.Session.TTL)
		authService.StartJanitor(ctx, time.Hour)
		sessions = authService
	}

	// 3. Initialize Core Services (Dependencies)
	vocab := extractor.DefaultVocabulary()
	if cfg.Extractor.VocabularyFile != "" {
		if vocab, err = extractor.LoadVocabulary(cfg.Extractor.VocabularyFile); err != nil {
			log.Fatal("Failed to load extractor vocabulary: ", err)
		}
		log.Printf("📚 Extractor vocabulary %s loaded", vocab.Version)
	}

	llmService, err := services.NewLLMService(ctx, cfg.LLM)
	if err != nil {
		log.Fatal("Failed to create LLM client: ", err)
	}
	prospectService := services.NewProspectService(llmService, extractor.New(vocab), searchStore)
	emailService := services.NewEmailService(cfg.Hunter, services.NewMatcherService())
	if cfg.Hunter.APIKey == "" {
		log.Println("⚠️  HUNTER_IO_API_KEY not set. Contact lookup will fail.")
	}

	linkedIn := auth.NewLinkedInAuth(cfg.LinkedIn)
	if !linkedIn.Configured() {
		log.Println("⚠️  LinkedIn credentials missing. Sign-in disabled.")
	}

	// 4. Initialize Handlers & Router
	router := handlers.NewRouter(handlers.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		Prospects:      handlers.NewProspectHandler(prospectService),
		Contacts:       handlers.NewContactHandler(emailService),
		Auth:           handlers.NewAuthHandler(linkedIn, sessions, cfg.Session.TTL, cfg.Session.CookieSecure, cfg.PostLoginRedirect),
		Sessions:       sessions,
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on %s...", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start: ", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Graceful shutdown failed: %v", err)
	}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
