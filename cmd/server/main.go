// Package main initializes and starts the Gallery Hub API server,
// setting up configuration, logging, storage, services, handlers,
// and the HTTP listener.
package main

import (
	"cmp"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	nethttp "net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/galleryhub/galleryhub/internal/config"
	"github.com/galleryhub/galleryhub/internal/db"
	"github.com/galleryhub/galleryhub/internal/logger"
	"github.com/galleryhub/galleryhub/internal/repository"
	"github.com/galleryhub/galleryhub/internal/server/handler/http"
	"github.com/galleryhub/galleryhub/internal/server/token"
	"github.com/galleryhub/galleryhub/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Make sure uploaded bytes have somewhere to land.
	if err := os.MkdirAll(options.UploadsDir, 0755); err != nil {
		zapLogger.Fatal("cannot create uploads dir", zap.Error(err))
	}

	// Pick storage: PostgreSQL when a DSN is configured, otherwise an
	// in-memory store that lives only as long as the process.
	var (
		accounts service.AccountRepository
		media    service.MediaRepository
	)
	if options.DatabaseDSN != "" {
		postgresDB, err := db.InitPostgres(options.DatabaseDSN)
		if err != nil {
			zapLogger.Fatal("cannot init database", zap.Error(err))
		}
		accounts = repository.NewPostgresAccountRepository(postgresDB)
		media = repository.NewPostgresMediaRepository(postgresDB)
	} else {
		store := repository.NewMemoryStore()
		accounts = store
		media = store
		zapLogger.Info("no database DSN configured, using in-memory store")
	}

	// Initialize business-logic services.
	authService := service.NewAuthService(accounts, uuid.NewString)
	mediaService := service.NewMediaService(media)

	// Sweep the uploads directory for files no record references.
	db.StartOrphanCleaner(context.Background(), options.UploadsDir, mediaService,
		time.Hour,    // interval
		24*time.Hour, // minimum file age
		zapLogger,
	)

	// Token manager signs the bearer tokens carried on every request.
	secret := options.TokenSecret
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			zapLogger.Fatal("cannot generate token secret", zap.Error(err))
		}
		secret = hex.EncodeToString(buf)
		zapLogger.Info("no token secret configured, generated an ephemeral one")
	}
	tokens := token.NewManager(secret, 0)

	// Create HTTP handlers.
	authHandler := &http.AuthHandler{AuthService: authService, Tokens: tokens}
	mediaHandlers := http.DefaultMediaHandlers(mediaService, options.UploadsDir)
	profileHandler := &http.ProfileHandler{ProfileService: authService, UploadsDir: options.UploadsDir}
	chatHandler := &http.ChatHandler{}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, mediaHandlers, profileHandler, chatHandler, tokens, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Port,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Port))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
