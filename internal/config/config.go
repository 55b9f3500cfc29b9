package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

type Config struct {
	// PartnersAPIURL is the remote collection endpoint. Item paths are built by
	// appending the id verbatim, so it normally ends with a slash.
	PartnersAPIURL    string
	HTTPListenAddr    string
	MetricsListenAddr string
	LogLevel          string
	ServiceName       string
	StoreTimeout      time.Duration
	MockListenAddr    string
	MockBasePath      string
	SeedFile          string
}

func Load() (*Config, error) {
	timeout, err := time.ParseDuration(getEnv("STORE_TIMEOUT", "0s"))
	if err != nil {
		return nil, fmt.Errorf("parse STORE_TIMEOUT: %w", err)
	}

	cfg := &Config{
		PartnersAPIURL:    getEnv("PARTNERS_API_URL", ""),
		HTTPListenAddr:    getEnv("HTTP_LISTEN_ADDR", ":3001"),
		MetricsListenAddr: os.Getenv("METRICS_LISTEN_ADDR"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		ServiceName:       getEnv("SERVICE_NAME", "partners-admin"),
		StoreTimeout:      timeout,
		MockListenAddr:    getEnv("MOCK_LISTEN_ADDR", ":3002"),
		MockBasePath:      getEnv("MOCK_BASE_PATH", "/v1/partners/"),
		SeedFile:          getEnv("SEED_FILE", ""),
	}
	if _, ok := os.LookupEnv("METRICS_LISTEN_ADDR"); !ok {
		cfg.MetricsListenAddr = ":9091"
	}

	return cfg, nil
}

// Validate checks the settings the admin server needs.
func (c *Config) Validate() error {
	var missing []string
	if c.PartnersAPIURL == "" {
		missing = append(missing, "PARTNERS_API_URL")
	}
	if c.HTTPListenAddr == "" {
		missing = append(missing, "HTTP_LISTEN_ADDR")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}

	u, err := url.Parse(c.PartnersAPIURL)
	if err != nil {
		return fmt.Errorf("invalid PARTNERS_API_URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("PARTNERS_API_URL must be an http(s) URL, got %q", c.PartnersAPIURL)
	}
	if c.StoreTimeout < 0 {
		return fmt.Errorf("STORE_TIMEOUT must not be negative")
	}
	return nil
}

// ValidateMock checks the settings the mock store needs.
func (c *Config) ValidateMock() error {
	if c.MockListenAddr == "" {
		return fmt.Errorf("missing required config: MOCK_LISTEN_ADDR")
	}
	if !strings.HasPrefix(c.MockBasePath, "/") {
		return fmt.Errorf("MOCK_BASE_PATH must start with /, got %q", c.MockBasePath)
	}
	return nil
}

// MockURL returns the collection endpoint served by a local mock store.
func (c *Config) MockURL() string {
	addr := c.MockListenAddr
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + c.MockBasePath
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
