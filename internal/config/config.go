// internal/config/config.go
//
// Server configuration read from the environment (after godotenv has loaded .env).
// Every key has a development default so a bare `go run .` works.

package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port           string
	LogLevel       string
	DatabasePath   string
	CoursesDir     string // extra course files; empty means built-ins only
	JWTSecret      string
	JWTTTL         time.Duration
	CookieName     string
	AnonCookie     string
	ClientOrigin   string
	TrapPenalty    int
	RateLimitRPS   int
	RateLimitBurst int
	Production     bool
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "5175"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DatabasePath:   getEnv("DB_PATH", "./data/gollmf.db"),
		CoursesDir:     getEnv("COURSES_DIR", ""),
		JWTSecret:      getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTTTL:         time.Duration(getEnvInt("JWT_EXPIRES_DAYS", 14)) * 24 * time.Hour,
		CookieName:     getEnv("COOKIE_NAME", "gollmf_token"),
		AnonCookie:     getEnv("ANON_COOKIE_NAME", "gollmf_anon"),
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		TrapPenalty:    getEnvInt("TRAP_PENALTY", 0),
		RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 20),
		Production:     os.Getenv("NODE_ENV") == "production",
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// getEnvInt parses k as an int, falling back to def when unset or invalid.
func getEnvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
