// Package config reads the service settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"go-retail-pos/internal/receipt"
)

type Config struct {
	Port            string
	DatabaseURL     string
	LogLevel        slog.Level
	CommitMode      string
	AdminPassword   string
	CashierPassword string
	CORSOrigins     string
	ReceiptWidth    int
	Store           receipt.Store
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "3000"),
		DatabaseURL:     databaseURL(),
		CommitMode:      getEnv("CHECKOUT_COMMIT_MODE", "atomic"),
		AdminPassword:   getEnv("ADMIN_PASSWORD", "admin123"),
		CashierPassword: getEnv("CASHIER_PASSWORD", "cashier123"),
		CORSOrigins:     getEnv("CORS_ORIGINS", "*"),
		Store:           receipt.DefaultStore(),
	}

	switch strings.ToLower(getEnv("LOG_LEVEL", "info")) {
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	case "warn":
		cfg.LogLevel = slog.LevelWarn
	case "error":
		cfg.LogLevel = slog.LevelError
	default:
		cfg.LogLevel = slog.LevelInfo
	}

	width, err := strconv.Atoi(getEnv("RECEIPT_WIDTH", strconv.Itoa(receipt.DefaultWidth)))
	if err != nil || width <= 0 {
		return nil, fmt.Errorf("RECEIPT_WIDTH must be a positive integer")
	}
	cfg.ReceiptWidth = width

	if v := os.Getenv("STORE_NAME"); v != "" {
		cfg.Store.Name = v
	}
	if v := os.Getenv("STORE_TAGLINE"); v != "" {
		cfg.Store.Tagline = strings.Split(v, "|")
	}
	if v := os.Getenv("CURRENCY_SYMBOL"); v != "" {
		cfg.Store.Currency = v
	}
	if v := os.Getenv("WALK_IN_LABEL"); v != "" {
		cfg.Store.WalkInLabel = v
	}

	return cfg, nil
}

// UsingDefaultPasswords reports whether either till password was left at its default.
func (c *Config) UsingDefaultPasswords() bool {
	return os.Getenv("ADMIN_PASSWORD") == "" || os.Getenv("CASHIER_PASSWORD") == ""
}

// databaseURL prefers DATABASE_URL and otherwise assembles a DSN from DB_* variables.
// It returns "" when nothing is configured.
func databaseURL() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	host := os.Getenv("DB_HOST")
	if host == "" {
		return ""
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		host,
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_SSLMODE", "disable"),
		getEnv("DB_TIMEZONE", "UTC"),
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
