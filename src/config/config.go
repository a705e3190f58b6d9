package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config carries everything the engine and middleware need at startup.
// Built once in main and passed down; nothing reads env vars after Load.
type Config struct {
	Port        string
	JWTSecret   []byte
	TokenTTL    time.Duration
	RedisHost   string
	DatabaseDSN string
	Environment string
}

func Load() *Config {
	ttl := 30 * time.Minute
	if v := os.Getenv("TOKEN_TTL_MINUTES"); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m > 0 {
			ttl = time.Duration(m) * time.Minute
		}
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return &Config{
		Port:        port,
		JWTSecret:   []byte(os.Getenv("JWT_SECRET")),
		TokenTTL:    ttl,
		RedisHost:   os.Getenv("REDIS_HOST"),
		DatabaseDSN: GetDSN(),
		Environment: os.Getenv("API_ENV"),
	}
}

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE)
	return dsn
}

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"
