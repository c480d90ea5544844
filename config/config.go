package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PushoverAppToken string
	PushoverUserKey  string

	FetchURL        string
	BrowserUserData string
	ChromeBin       string

	SeenDealsFile string
	ModelPath     string
	EncodersPath  string

	DealThreshold   int
	PollIntervalSec int
	ErrorBackoffSec int

	PostgresDSN string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PushoverAppToken: getEnv("PUSHOVER_APP_TOKEN", ""),
		PushoverUserKey:  getEnv("PUSHOVER_USER_KEY", ""),

		FetchURL: getEnv("FETCH_URL",
			"https://www.car.gr/classifieds/bikes/?category=15002&condition=used&pg=1"),
		BrowserUserData: getEnv("BROWSER_USER_DATA", ""),
		ChromeBin:       getEnv("CHROME_BIN", ""),

		SeenDealsFile: getEnv("SEEN_DEALS_FILE", "seen_deals.txt"),
		ModelPath:     getEnv("MODEL_PATH", "artifacts/model_random_forest.json"),
		EncodersPath:  getEnv("ENCODERS_PATH", "artifacts/label_encoders.json"),

		DealThreshold:   getEnvInt("DEAL_THRESHOLD", 1000),
		PollIntervalSec: getEnvInt("POLL_INTERVAL_SEC", 30),
		ErrorBackoffSec: getEnvInt("ERROR_BACKOFF_SEC", 5),

		PostgresDSN: getEnv("MONITOR_PG_DSN", ""),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
