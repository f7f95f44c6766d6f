// Command stubapi serves an in-memory GOMP API for local development
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pageza/gomp-client/config"
	"github.com/pageza/gomp-client/internal/stubapi"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	auth := stubapi.NewAuthService(cfg.JWTSecret, 24*time.Hour)
	username := getEnv("GOMP_ADMIN_USER", "admin")
	if err := auth.AddUser(username, getEnv("GOMP_ADMIN_PASSWORD", "password")); err != nil {
		log.Fatalf("Failed to create user %s: %v", username, err)
	}

	data := stubapi.NewData()
	stubapi.Seed(data)
	srv := stubapi.NewServer(stubapi.NewHandler(data, auth), cfg.APIAddress())

	errChan := make(chan error, 1)
	go func() {
		log.Println("Starting stub API server...")
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
