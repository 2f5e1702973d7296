package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Venues is the fixed set of business locations feedback can be attributed to.
var Venues = []string{
	"Hogis Royale and Apartments",
	"Hogis Luxury Suites",
	"Hogis Exclusive Suites",
}

// VenueAddresses maps each venue to its street address, used in the digest
// email footer.
var VenueAddresses = map[string]string{
	"Hogis Royale and Apartments": "6 Bishop Moynagh Avenue, State Housing Estate, Calabar.",
	"Hogis Luxury Suites":         "7 Akim Close, State Housing Estate Road, Calabar.",
	"Hogis Exclusive Suites":      "E1 Estate Lemna, Calabar.",
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Port          string
	MongoURI      string
	DBName        string
	SessionSecret string

	AWSRegion     string
	S3Bucket      string
	MediaBaseURL  string

	ResendAPIKey string
	AdminEmail   string
	VenueEmails  map[string]string

	// CallTimeout bounds every outbound network call (blob upload, document
	// write, email send, paged fetch).
	CallTimeout time.Duration
}

// Load reads environment variables and returns a fully populated Config.
// Returns an error if a required variable is missing so main can fail fast.
func Load() (Config, error) {
	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		MongoURI:      getEnv("MONGODB_URI", ""),
		DBName:        getEnv("DB_NAME", "hogis_feedback"),
		SessionSecret: getEnv("SESSION_SECRET", ""),
		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),
		S3Bucket:      getEnv("S3_BUCKET", ""),
		MediaBaseURL:  strings.TrimRight(getEnv("MEDIA_BASE_URL", ""), "/"),
		ResendAPIKey:  getEnv("RESEND_API_KEY", ""),
		AdminEmail:    getEnv("ADMIN_EMAIL", "hogisgrouphotels@gmail.com"),
		CallTimeout:   30 * time.Second,
	}

	if v := os.Getenv("CALL_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.CallTimeout = parsed
		}
	}

	cfg.VenueEmails = map[string]string{
		"Hogis Royale and Apartments": getEnv("VENUE_EMAIL_ROYALE", "hogisroyaleandapartment@gmail.com"),
		"Hogis Luxury Suites":         getEnv("VENUE_EMAIL_LUXURY", "hogisgrouphotels@gmail.com"),
		"Hogis Exclusive Suites":      getEnv("VENUE_EMAIL_EXCLUSIVE", "hogisgrouphotels@gmail.com"),
	}

	if cfg.MongoURI == "" {
		return cfg, fmt.Errorf("MONGODB_URI is required")
	}
	if cfg.SessionSecret == "" {
		return cfg, fmt.Errorf("SESSION_SECRET is required")
	}

	return cfg, nil
}

// KnownVenue reports whether venue is one of the configured locations.
func KnownVenue(venue string) bool {
	for _, v := range Venues {
		if v == venue {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
