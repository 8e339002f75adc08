package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port           string
	PostgresDSN    string
	MongoURI       string
	MongoDB        string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MinioPublicURL string
	JWTSecret      string
	JWTExpiry      time.Duration
	LogLevel       string
	AllowedOrigins []string
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly.
	godotenv.Load()

	return &Config{
		Port:           getenv("PORT", "4000"),
		PostgresDSN:    getenv("POSTGRES_DSN", ""),
		MongoURI:       getenv("MONGO_URI", ""),
		MongoDB:        getenv("MONGO_DB", "lostlink"),
		MinioEndpoint:  getenv("MINIO_ENDPOINT", "minio:9000"),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getenv("MINIO_BUCKET", "lostlink-images"),
		MinioUseSSL:    getenv("MINIO_USE_SSL", "false") == "true",
		MinioPublicURL: getenv("MINIO_PUBLIC_URL", "http://localhost:9000"),
		JWTSecret:      getenv("JWT_SECRET", ""),
		JWTExpiry:      getduration("JWT_EXPIRY", time.Hour),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		AllowedOrigins: []string{getenv("CORS_ORIGIN", "http://localhost:3000")},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
