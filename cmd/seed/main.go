package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"vin-decoder/internal/store"
)

func main() {
	_ = godotenv.Load()

	dbPath := flag.String("db", "", "path to the sqlite database (defaults to VIN_DB_PATH or ./data/vin-decoder.db)")
	seedPath := flag.String("seed", "cmd/seed/catalog_seed.json", "path to the catalog seed JSON fixture")
	flag.Parse()

	target := strings.TrimSpace(*dbPath)
	if target == "" {
		target = strings.TrimSpace(os.Getenv("VIN_DB_PATH"))
	}
	if target == "" {
		target = filepath.Join("data", "vin-decoder.db")
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		logrus.Fatalf("create database directory: %v", err)
	}

	db, err := store.Open(target, true)
	if err != nil {
		logrus.Fatalf("open database: %v", err)
	}

	written, err := db.ApplySeedFile(*seedPath)
	if err != nil {
		logrus.Fatalf("apply seed %s: %v", *seedPath, err)
	}

	logrus.WithFields(logrus.Fields{
		"db":   target,
		"seed": *seedPath,
		"rows": written,
	}).Info("seeding complete")
}
