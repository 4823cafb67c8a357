// Command apikeygen issues a new API key against the configured
// database, adapting the teacher's scripts/generate_api_key.go
// stand-alone generator into a db-backed issuance tool (simplified
// single-tier internal/apikey).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/citypath/corridor/internal/apikey"
	"github.com/citypath/corridor/internal/db"
)

func main() {
	env := flag.String("env", "test", "Environment: test or live")
	name := flag.String("name", "", "Human-readable label for this key (required)")
	flag.Parse()

	if *env != "test" && *env != "live" {
		fmt.Println("Error: -env must be 'test' or 'live'")
		os.Exit(1)
	}
	if *name == "" {
		fmt.Println("Error: -name is required")
		os.Exit(1)
	}

	pool, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	rawKey, rec, err := apikey.Create(context.Background(), pool, *env, *name)
	if err != nil {
		log.Fatalf("failed to create api key: %v", err)
	}

	fmt.Println("API key generated — shown only once:")
	fmt.Println(rawKey)
	fmt.Printf("id=%s prefix=%s created_at=%s\n", rec.ID, rec.KeyPrefix, rec.CreatedAt)
}
