package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"freightops/harbormaster/internal/config"
	"freightops/harbormaster/internal/db/repositories"
)

// Generates a management API key and stores its hash. The raw key is printed
// once and never persisted.
func main() {
	label := flag.String("label", "", "label describing the key holder")
	flag.Parse()
	if *label == "" {
		log.Fatal("a -label is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	conn, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer conn.Close()

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		log.Fatalf("generate key: %v", err)
	}
	rawKey := "hm_" + hex.EncodeToString(raw)

	repo := repositories.NewApiKeysRepo(conn)
	id, err := repo.Insert(context.Background(), rawKey, *label)
	if err != nil {
		log.Fatalf("insert api key: %v", err)
	}

	fmt.Println("New API key id:", id)
	fmt.Println("API key (store it now, it is not recoverable):", rawKey)
}
