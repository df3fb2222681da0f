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

	"github.com/anonto42/social-auth/backend/internal/handlers"
	"github.com/anonto42/social-auth/backend/internal/repositories"
	"github.com/anonto42/social-auth/backend/internal/router"
	"github.com/anonto42/social-auth/backend/internal/tokens"
	"github.com/anonto42/social-auth/backend/pkg/config"
	"github.com/anonto42/social-auth/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	if db.SQL != nil {
		if err := repositories.AutoMigrate(db.SQL); err != nil {
			log.Fatalf("Failed to auto migrate models: %v", err)
		}
		log.Println("Auto-migrations completed.")
	}

	var mongoDB *mongo.Database
	if db.Mongo != nil {
		mongoDB = db.Mongo.Database(cfg.MongoDatabase)
	}
	store := repositories.NewStore(db.SQL, mongoDB, db.Redis)

	tokenService, err := tokens.NewService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("Failed to initialize token service: %v", err)
	}

	// Firebase is optional; without credentials /firebase-login stays off.
	var firebaseAuth handlers.IDTokenVerifier
	if cfg.FirebaseEnabled() {
		client, err := firebase.NewAuthClient(context.Background(), firebase.Options{
			CredentialsPath: cfg.FirebaseCredentialsPath,
			ProjectID:       cfg.FirebaseProjectID,
		})
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		firebaseAuth = client
	}

	// Create Echo instance
	e := echo.New()
	config.SetupMiddleware(e)
	router.SetupRoutes(e, router.Dependencies{
		Store:             store,
		Tokens:            tokenService,
		BcryptCost:        cfg.BcryptCost,
		FirebaseAuth:      firebaseAuth,
		AuthRatePerMinute: cfg.AuthRatePerMinute,
		TrustedProxies:    cfg.TrustedProxies,
	})

	metricsServer := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("Metrics listening on :%s", cfg.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Metrics server stopped: %v", err)
		}
	}()

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
	if err := metricsServer.Shutdown(ctx); err != nil {
		log.Printf("Metrics shutdown: %v", err)
	}
}
