package config

import (
	"os"
	"strings"
)

type Config struct {
	Env          string
	HTTPAddr     string
	MongoURI     string
	MongoDB      string
	RedisAddr    string
	KafkaBrokers []string
	JWTSecret    string
	ServiceName  string

	// StrictStatusFlow enforces forward-only order status transitions
	// (created -> paid -> shipped, cancel allowed until shipped). When
	// false an admin may overwrite the status with any known value.
	StrictStatusFlow bool
}

func Load() Config {
	return Config{
		Env:              getenv("APP_ENV", "development"),
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		MongoURI:         getenv("MONGO_URI", "mongodb://mongo:27017"),
		MongoDB:          getenv("MONGO_DB", "laptopshop"),
		RedisAddr:        getenv("REDIS_ADDR", "redis:6379"),
		KafkaBrokers:     splitCSV(getenv("KAFKA_BROKERS", "kafka:9092")),
		JWTSecret:        getenv("JWT_SECRET", "dev-secret-change-me"),
		ServiceName:      getenv("SERVICE_NAME", "shop-api"),
		StrictStatusFlow: getenv("STRICT_STATUS_FLOW", "true") != "false",
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
