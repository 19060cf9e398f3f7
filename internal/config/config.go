package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Document store connection
	DMSBaseURL     string
	DMSAuthToken   string
	DMSPageSize    int
	DMSInsecureTLS bool

	// Auth for the audit API itself
	APIKey string

	// Scan workers
	WorkerCount      int
	MaxQueueSize     int
	DocumentWorkers  int
	ProbeConcurrency int

	// Timeouts
	FetchTimeout time.Duration
	ProbeTimeout time.Duration

	// Job state
	JobTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		DMSBaseURL:     envOr("DMS_BASE_URL", "https://dms.example.com"),
		DMSAuthToken:   os.Getenv("DMS_AUTH_TOKEN"),
		DMSPageSize:    envInt("DMS_PAGE_SIZE", 100),
		DMSInsecureTLS: envBool("DMS_INSECURE_TLS", false),

		APIKey: os.Getenv("HELPAUDIT_API_KEY"),

		WorkerCount:      envInt("WORKER_COUNT", 2),
		MaxQueueSize:     envInt("MAX_QUEUE_SIZE", 50),
		DocumentWorkers:  envInt("DOCUMENT_WORKERS", 4),
		ProbeConcurrency: envInt("PROBE_CONCURRENCY", 10),

		FetchTimeout: envDuration("FETCH_TIMEOUT", 15*time.Second),
		ProbeTimeout: envDuration("PROBE_TIMEOUT", 5*time.Second),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),
	}

	if cfg.DMSPageSize <= 0 {
		cfg.DMSPageSize = 100
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 50
	}
	if cfg.DocumentWorkers <= 0 {
		cfg.DocumentWorkers = 4
	}
	if cfg.ProbeConcurrency <= 0 {
		cfg.ProbeConcurrency = 10
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 15 * time.Second
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = 5 * time.Second
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.DMSAuthToken == "" {
		return fmt.Errorf("DMS_AUTH_TOKEN is required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("HELPAUDIT_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
