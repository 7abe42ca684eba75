package config

import (
	"os"
	"strconv"
)

// Config is the process configuration, read once from the environment.
type Config struct {
	Port      string
	StoreName string
	Currency  string
	TaxRate   float64
	RedisAddr string
}

// Load reads the environment with defaults suitable for local runs.
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8080"),
		StoreName: getEnv("STORE_NAME", "Storefront Demo"),
		Currency:  getEnv("CURRENCY", "USD"),
		TaxRate:   getEnvFloat("TAX_RATE", 0.08),
		RedisAddr: os.Getenv("REDIS_ADDR"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
