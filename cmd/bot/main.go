package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/avlukashin/pikgrab/internal/bot"
)

func main() {
	godotenv.Load()

	token := os.Getenv("DISCORD_TOKEN")
	if token == "" {
		log.Fatal("DISCORD_TOKEN is required")
	}
	appID := os.Getenv("DISCORD_APP_ID")
	if appID == "" {
		log.Fatal("DISCORD_APP_ID is required")
	}
	apiURL := os.Getenv("PIKGRAB_API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:3001"
	}

	b, err := bot.New(bot.Config{
		Token:    token,
		AppID:    appID,
		APIURL:   apiURL,
		APIToken: os.Getenv("API_TOKEN"),
	})
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	if err := b.Start(); err != nil {
		log.Fatalf("Failed to start bot: %v", err)
	}

	fmt.Println("Bot is running. Press Ctrl+C to stop.")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down bot...")
	b.Stop()
	fmt.Println("Bot stopped.")
}
