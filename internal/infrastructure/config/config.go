package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServerHost      string
	ServerPort      string
	VNStockBaseURL  string
	CORSOrigins     []string
	DirectoryTTL    time.Duration
	UpstreamTimeout time.Duration
	GoldConcurrency int
	LogLevel        string
}

func Load() (*Config, error) {
	host := getEnvOrDefault("SERVER_HOST", "0.0.0.0")
	port := getEnvOrDefault("SERVER_PORT", "8080")
	baseURL := getEnvOrDefault("VNSTOCK_BASE_URL", "http://localhost:8000")
	logLevel := getEnvOrDefault("LOG_LEVEL", "info")

	origins := strings.Split(getEnvOrDefault("CORS_ORIGINS", "*"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	ttl, err := time.ParseDuration(getEnvOrDefault("DIRECTORY_CACHE_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid DIRECTORY_CACHE_TTL: %w", err)
	}

	timeout, err := time.ParseDuration(getEnvOrDefault("UPSTREAM_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid UPSTREAM_TIMEOUT: %w", err)
	}

	concurrency, err := strconv.Atoi(getEnvOrDefault("GOLD_FETCH_CONCURRENCY", "8"))
	if err != nil || concurrency < 1 {
		return nil, fmt.Errorf("invalid GOLD_FETCH_CONCURRENCY: %q", os.Getenv("GOLD_FETCH_CONCURRENCY"))
	}

	return &Config{
		ServerHost:      host,
		ServerPort:      port,
		VNStockBaseURL:  baseURL,
		CORSOrigins:     origins,
		DirectoryTTL:    ttl,
		UpstreamTimeout: timeout,
		GoldConcurrency: concurrency,
		LogLevel:        logLevel,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
