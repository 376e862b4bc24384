package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/battle-engine/internal/config"
	"github.com/KirkDiggler/battle-engine/internal/repositories/battles"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	redisURL := cfg.Redis.URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)
	defer client.Close()

	// Test connection
	if _, pingErr := client.Ping(ctx).Result(); pingErr != nil {
		log.Fatalf("Failed to connect to Redis: %v", pingErr)
	}

	repo := battles.NewRedis(client, battles.SystemTimeProvider())
	snaps, err := repo.List(ctx)
	if err != nil {
		log.Fatalf("Failed to list battles: %v", err)
	}

	fmt.Printf("Found %d battles:\n", len(snaps))
	for _, snap := range snaps {
		fmt.Printf("  %s: turn %d, %s, updated %s\n",
			snap.ID, snap.Turn, snap.Phase, snap.UpdatedAt.Format("2006-01-02 15:04:05"))
		for _, e := range snap.Entities {
			status := "up"
			if !e.Alive {
				status = "down"
			}
			fmt.Printf("    [%s] %-12s HP %d/%d MP %d/%d %s\n", e.Side, e.ID, e.HP, e.MaxHP, e.MP, e.MaxMP, status)
		}
	}
}
