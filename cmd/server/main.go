package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/avlukashin/pikgrab/internal/alerts"
	"github.com/avlukashin/pikgrab/internal/config"
	"github.com/avlukashin/pikgrab/internal/routes"
	"github.com/avlukashin/pikgrab/internal/server"
	"github.com/avlukashin/pikgrab/internal/storage"
	"github.com/avlukashin/pikgrab/internal/store"
	"github.com/avlukashin/pikgrab/internal/telegram"
)

func main() {
	godotenv.Load()
	config.Load()

	api := &routes.API{
		Telegram: telegram.New(config.TelegramBotToken),
	}

	if config.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		db, err := store.New(ctx, config.DatabaseURL)
		cancel()
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.RunMigrations(context.Background()); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}

		api.Store = store.NewDownloads(db)
		api.DB = db
	}

	if s3 := storage.New(); s3 != nil {
		api.Storage = s3
	}

	srv := server.New(api)

	go func() {
		server.PrintBanner()
		log.Printf("Listening on :%s (%s)", config.Port, config.EnvMode)
		alerts.ServerStarted()
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	alerts.ServerStopping()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
}
