package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"vin-decoder/internal/api"
	"vin-decoder/internal/decoder"
)

func main() {
	_ = godotenv.Load()

	baseDir, err := os.Getwd()
	if err != nil {
		logrus.Fatalf("determine working directory: %v", err)
	}

	dataDir := filepath.Join(baseDir, "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		logrus.Fatalf("create data directory: %v", err)
	}

	decoderCfg := decoder.Config{
		BaseURL: strings.TrimSpace(os.Getenv("DECODER_BASE_URL")),
	}
	if timeout := os.Getenv("DECODER_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			decoderCfg.Timeout = d
		}
	}
	if ttl := os.Getenv("DECODER_CACHE_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			decoderCfg.CacheTTL = d
		}
	}

	concurrency := 0
	if v := strings.TrimSpace(os.Getenv("BATCH_CONCURRENCY")); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			concurrency = val
		}
	}

	var allowedOrigins []string
	if v := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); v != "" {
		for _, origin := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				allowedOrigins = append(allowedOrigins, trimmed)
			}
		}
	}

	cfg := api.Config{
		DBPath:         filepath.Join(dataDir, "vin-decoder.db"),
		AllowedOrigins: allowedOrigins,
		Decoder:        decoderCfg,
		Concurrency:    concurrency,
	}

	if override := strings.TrimSpace(os.Getenv("VIN_DB_PATH")); override != "" {
		cfg.DBPath = override
	}

	server, err := api.NewServer(cfg)
	if err != nil {
		logrus.Fatalf("create server: %v", err)
	}

	router, err := server.Router()
	if err != nil {
		logrus.Fatalf("configure router: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	logrus.Infof("starting vin-decoder backend on :%s", port)
	if err := router.Run(":" + port); err != nil {
		logrus.Fatalf("server exited: %v", err)
	}
}
