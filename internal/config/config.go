package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Fallback proxy paths used when no backend URL is configured. They are
// served by this process and forwarded to the upstreams below.
const (
	GatewayProxyPath = "/api/gateway"
	CoreProxyPath    = "/api/core"
)

type Config struct {
	Port    string
	SelfURL string

	GatewayURL      string
	CoreURL         string
	GatewayUpstream string
	CoreUpstream    string
	HTTPTimeout     time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SessionSecret string
	SessionTTL    time.Duration

	CredentialsDatabaseURL string
	InstanceID             string
}

// Load reads the environment. SESSION_SECRET is mandatory.
func Load() (*Config, error) {
	port := getEnv("PORT", "8080")
	selfURL := getEnv("SELF_URL", "http://localhost:"+port)

	cfg := &Config{
		Port:                   port,
		SelfURL:                selfURL,
		GatewayURL:             ResolveBaseURL(os.Getenv("GATEWAY_URL"), selfURL, GatewayProxyPath),
		CoreURL:                ResolveBaseURL(os.Getenv("CORE_URL"), selfURL, CoreProxyPath),
		GatewayUpstream:        getEnv("GATEWAY_UPSTREAM", "http://localhost:8081"),
		CoreUpstream:           getEnv("CORE_UPSTREAM", "http://localhost:8082"),
		RedisAddr:              os.Getenv("REDIS_ADDR"),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		SessionSecret:          os.Getenv("SESSION_SECRET"),
		CredentialsDatabaseURL: os.Getenv("CREDENTIALS_DATABASE_URL"),
		InstanceID:             getEnv("INSTANCE_ID", defaultInstanceID()),
	}

	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is not set")
	}

	var err error
	if cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	if cfg.SessionTTL, err = time.ParseDuration(getEnv("SESSION_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	if cfg.HTTPTimeout, err = time.ParseDuration(getEnv("HTTP_TIMEOUT", "10s")); err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// ResolveBaseURL returns raw normalized to a secure URL, or origin+fallbackPath
// when raw is empty.
func ResolveBaseURL(raw, origin, fallbackPath string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return strings.TrimSuffix(origin, "/") + fallbackPath
	}
	return strings.TrimSuffix(EnsureHTTPS(raw), "/")
}

// EnsureHTTPS prefixes https:// to a URL that has no http(s) scheme.
func EnsureHTTPS(url string) string {
	if url == "" {
		return ""
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	return "https://" + url
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		// Remove trailing slash if present
		return strings.TrimSuffix(value, "/")
	}
	return fallback
}

func defaultInstanceID() string {
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return uuid.New().String()
}
