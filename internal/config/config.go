package config

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// StatusMode selects how the tracker resolves fulfillment status.
const (
	StatusModeDerived = "derived" // pure function of elapsed time
	StatusModeLive    = "live"    // whatever the store says (staff-driven)
)

type Config struct {
	Port         string
	DBPath       string
	CSRFKey      []byte
	SessionKey   []byte
	CookieDomain string
	CookieSecure bool

	// Payment gateway. An empty secret key forces simulated payments so the
	// storefront stays usable without credentials.
	PaystackSecretKey string
	SimulatePayment   bool
	SettleDelay       time.Duration

	StatusMode string
	UploadDir  string
}

func LoadConfig() (*Config, error) {
	// Optional .env for local development; real deployments set the
	// environment directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Could not load .env file", "error", err)
	}

	cfg := &Config{
		Port:              getEnv("PORT", "8585"),
		DBPath:            getEnv("DB_PATH", "./cafe.db"),
		CookieDomain:      getEnv("COOKIE_DOMAIN", ""),
		CookieSecure:      getEnv("COOKIE_SECURE", "false") == "true",
		PaystackSecretKey: os.Getenv("PAYSTACK_SECRET_KEY"),
		SimulatePayment:   getEnv("SIMULATE_PAYMENT", "false") == "true",
		StatusMode:        getEnv("STATUS_MODE", StatusModeDerived),
		UploadDir:         getEnv("UPLOAD_DIR", "./static/uploads"),
	}

	cfg.CSRFKey = loadKey("CSRF_KEY")
	cfg.SessionKey = loadKey("SESSION_KEY")

	// Missing gateway credentials is a configuration error, but a storefront
	// must stay usable in degraded form: log it and force simulation.
	if cfg.PaystackSecretKey == "" && !cfg.SimulatePayment {
		slog.Error("PAYSTACK_SECRET_KEY is not configured. Forcing simulated payment mode.")
		cfg.SimulatePayment = true
	}

	settleMS := getEnv("SETTLE_DELAY_MS", "2000")
	ms, err := strconv.Atoi(settleMS)
	if err != nil || ms < 0 {
		slog.Warn("Invalid SETTLE_DELAY_MS, using default", "value", settleMS)
		ms = 2000
	}
	cfg.SettleDelay = time.Duration(ms) * time.Millisecond

	if cfg.StatusMode != StatusModeDerived && cfg.StatusMode != StatusModeLive {
		slog.Warn("Invalid STATUS_MODE, falling back to derived", "value", cfg.StatusMode)
		cfg.StatusMode = StatusModeDerived
	}

	// Make sure port is valid
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		slog.Error("Invalid PORT environment variable. Falling back to default.", "PORT", os.Getenv("PORT"))
		cfg.Port = "8585"
	}

	return cfg, nil
}

// loadKey reads a base64 key from the environment, generating a random one
// for development when it is missing or too short.
func loadKey(name string) []byte {
	keyStr := os.Getenv(name)
	if keyStr == "" {
		slog.Warn(name + " environment variable not set. Generating a random key for development. This key will change on each restart. PLEASE SET " + name + " IN PRODUCTION!")
		return generateRandomBytes(32)
	}
	decoded, err := base64.StdEncoding.DecodeString(keyStr)
	if err != nil || len(decoded) < 32 {
		slog.Warn(name + " is invalid or too short (min 32 bytes recommended). Generating a random key for development. PLEASE SET A SECURE " + name + " IN PRODUCTION!")
		return generateRandomBytes(32)
	}
	return decoded
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// generateRandomBytes generates a random byte slice of specified length
// Uses crypto/rand for secure random numbers.
func generateRandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		slog.Error("Failed to read random bytes", "error", err)
		// Fallback only prevents a panic at startup; never acceptable for
		// production keys.
		fallbackKey := "fallback-insecure-key-" + strconv.FormatInt(time.Now().UnixNano(), 10)
		if len(fallbackKey) < n {
			paddedKey := make([]byte, n)
			copy(paddedKey, fallbackKey)
			return paddedKey
		}
		return []byte(fallbackKey)[:n]
	}
	return b
}
