package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds process-level settings: where the demo HTTP/WS/metrics
// server binds, where traces and analytics go, and the tunables for the
// playback core's coordinators.
type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogFormat string

	OTLPEndpoint    string
	ServiceName     string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	BandwidthMaxSamples   int
	PreloadAdmitPerSecond float64
	MemoryPollInterval    time.Duration
	WarningStartupTime    time.Duration
	CriticalStartupTime   time.Duration
	MaxBufferingDuration  time.Duration
	MaxBufferingPerMinute int
	CriticalRebufferRatio float64

	CORSAllowedOrigins []string // empty = allow all (dev mode)
}

func LoadConfig() Config {
	return Config{
		HTTPAddr:  getEnv("HTTP_ADDR", ":8080"),
		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),

		OTLPEndpoint:    getEnv("OTLP_ENDPOINT", ""),
		ServiceName:     getEnv("SERVICE_NAME", "playback-core"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DB", "playback"),
		MongoCollection: getEnv("MONGO_COLLECTION", "playback_events"),

		BandwidthMaxSamples:   int(getEnvInt64("BANDWIDTH_MAX_SAMPLES", 30)),
		PreloadAdmitPerSecond: getEnvFloat("PRELOAD_ADMIT_PER_SECOND", 4),
		MemoryPollInterval:    getEnvDuration("MEMORY_POLL_INTERVAL", 5*time.Second),
		WarningStartupTime:    getEnvDuration("WARNING_STARTUP_TIME", 2*time.Second),
		CriticalStartupTime:   getEnvDuration("CRITICAL_STARTUP_TIME", 4*time.Second),
		MaxBufferingDuration:  getEnvDuration("MAX_BUFFERING_DURATION", 10*time.Second),
		MaxBufferingPerMinute: int(getEnvInt64("MAX_BUFFERING_EVENTS_PER_MINUTE", 3)),
		CriticalRebufferRatio: getEnvFloat("CRITICAL_REBUFFER_RATIO", 0.08),

		CORSAllowedOrigins: parseCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}
}

func parseCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	if parsed < 0 {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
