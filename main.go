package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ecohaat/internal/app"
	"ecohaat/internal/config"
	"ecohaat/internal/database"
	"ecohaat/internal/services"
	"ecohaat/pkg/rabbitmq"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func main() {
	// --- Configuration ---
	// A .env file is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Failed to read .env file: %v", err)
	}
	v := viper.New()
	v.AutomaticEnv()

	cfg, err := config.Load(v)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// --- Database ---
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := app.SeedAdmin(context.Background(), cfg, db); err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}

	// --- Events ---
	broker, err := app.NewBroker(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize %s publisher: %v", cfg.EventsBroker, err)
	}
	var publisher services.EventPublisher
	if broker != nil {
		publisher = broker
		defer broker.Close()
	} else {
		log.Println("Domain events disabled (EVENTS_BROKER=none)")
	}

	if mqClient, ok := broker.(*rabbitmq.Client); ok {
		if err := mqClient.ConsumeEvents(rabbitmq.LogEvent); err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	}

	// --- HTTP Server ---
	server := app.New(cfg, db, publisher)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on port %s", cfg.AppPort)
		if err := server.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := server.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Println("Server gracefully stopped")
}
