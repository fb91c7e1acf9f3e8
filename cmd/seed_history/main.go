package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/cyrusai/agent-console/internal/infrastructure/storage"
)

// Reseeds the local trade ledger with the sample trades. Useful after wiping
// the database or when pointing the console at a fresh storage path.
func main() {
	path := "console.db"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	store, err := storage.NewSQLiteStore(path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	trades := storage.SampleTrades()

	if err := store.SeedTrades(ctx, trades); err != nil {
		log.Fatalf("Failed to seed trades: %v", err)
	}

	fmt.Printf("✅ Seeded %d trades into %s\n", len(trades), path)
	for _, t := range trades {
		fmt.Printf("  %s %s %s P/L %s\n", t.ID, t.Token, t.Direction, t.ProfitLoss.String())
	}
}
