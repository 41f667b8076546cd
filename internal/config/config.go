package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/tourism-forecast/internal/tourism"
)

type AppConfig struct {
	Port string

	// ModelPath is where the trained model artifact is read from and written to.
	ModelPath string
	Order     tourism.ModelOrder

	// Dataset source used for retraining. URL wins over path when both are set.
	DatasetPath string
	DatasetURL  string

	// RetrainInterval controls how often the model is refitted (0 = never).
	RetrainInterval time.Duration

	// ADFMaxLag <= 0 selects the lag automatically.
	ADFMaxLag int

	// In-memory store retention.
	StoreMaxRuns int           // max number of analysis runs kept (0 = unlimited)
	StoreMaxAge  time.Duration // max age of runs (0 = unlimited)

	HTTPTimeout time.Duration
	UploadLimit int // bytes
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.ModelPath = getenvDefault("MODEL_PATH", "data/model.json")
	cfg.DatasetPath = os.Getenv("DATASET_PATH")
	cfg.DatasetURL = os.Getenv("DATASET_URL")

	order, err := tourism.ParseOrder(getenvDefault("MODEL_ORDER", "1,1,1"))
	if err != nil {
		return nil, fmt.Errorf("invalid MODEL_ORDER: %w", err)
	}
	cfg.Order = order

	if cfg.RetrainInterval, err = getenvDuration("RETRAIN_INTERVAL", "24h"); err != nil {
		return nil, err
	}
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "24h"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "15s"); err != nil {
		return nil, err
	}

	cfg.ADFMaxLag = getenvInt("ADF_MAX_LAG", 0)
	cfg.StoreMaxRuns = getenvInt("STORE_MAX_RUNS", 100)
	cfg.UploadLimit = getenvInt("UPLOAD_LIMIT", 4<<20)

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
