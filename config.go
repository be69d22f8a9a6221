package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// config is read once at startup from the environment (and .env if present).
type config struct {
	Addr            string
	Store           string // "postgres" or "memory"
	DBURL           string
	DefaultLocation *time.Location
	TrialDays       int
	OpenAIKey       string
	OpenAIBaseURL   string
	CORSOrigins     []string // empty disables CORS handling
}

func loadConfig() (config, error) {
	// .env is optional outside local development.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] .env not loaded: %v", err)
	}

	cfg := config{
		Addr:          getenv("ADDR", "localhost:3000"),
		Store:         getenv("STORE", "postgres"),
		DBURL:         os.Getenv("DB_URL"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: getenv("OPENAI_BASE_URL", "https://api.openai.com"),
	}
	for _, o := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	loc, err := time.LoadLocation(getenv("DEFAULT_TIMEZONE", "UTC"))
	if err != nil {
		return config{}, fmt.Errorf("DEFAULT_TIMEZONE: %w", err)
	}
	cfg.DefaultLocation = loc

	cfg.TrialDays, err = strconv.Atoi(getenv("TRIAL_DAYS", "7"))
	if err != nil || cfg.TrialDays < 0 {
		return config{}, fmt.Errorf("TRIAL_DAYS must be a non-negative integer")
	}

	switch cfg.Store {
	case "postgres":
		if cfg.DBURL == "" {
			return config{}, fmt.Errorf("DB_URL is required when STORE=postgres")
		}
	case "memory":
	default:
		return config{}, fmt.Errorf("STORE must be postgres or memory, got %q", cfg.Store)
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
