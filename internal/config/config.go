package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string
	}

	Server struct {
		Port     string
		GinMode  string
		LogLevel string
	}

	Auth struct {
		JWTSecret      string
		TokenTTL       time.Duration
		GoogleClientID string
	}

	ObjectStore struct {
		Endpoint  string
		AccessKey string
		SecretKey string
		Bucket    string
		UseSSL    bool
		PublicURL string
	}

	Upload struct {
		MaxFiles    int
		MaxFileSize int64
		Timeout     time.Duration
	}

	Sentiment struct {
		APIURL string
		APIKey string
	}

	CORS struct {
		AllowOrigins string
		AllowMethods string
		AllowHeaders string
	}
}

// Load loads configuration from environment variables. Values without a
// default are required: a missing one is a startup error, never discovered
// lazily at request time.
func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{}

	config.DB.Host = getEnv("DB_HOST", "localhost")
	config.DB.Port = getEnv("DB_PORT", "5432")
	config.DB.User = getEnv("DB_USER", "encuentro")
	config.DB.Password = getEnv("DB_PASSWORD", "encuentro_password")
	config.DB.Name = getEnv("DB_NAME", "encuentro_db")
	config.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	config.Server.Port = getEnv("PORT", "8080")
	config.Server.GinMode = getEnv("GIN_MODE", "debug")
	config.Server.LogLevel = getEnv("LOG_LEVEL", "info")

	var err error
	if config.Auth.JWTSecret, err = requireEnv("JWT_SECRET"); err != nil {
		return nil, err
	}
	config.Auth.TokenTTL = getEnvAsDuration("JWT_TTL", 24*time.Hour)
	config.Auth.GoogleClientID = getEnv("GOOGLE_CLIENT_ID", "")

	if config.ObjectStore.Endpoint, err = requireEnv("OBJECT_STORE_ENDPOINT"); err != nil {
		return nil, err
	}
	if config.ObjectStore.AccessKey, err = requireEnv("OBJECT_STORE_ACCESS_KEY"); err != nil {
		return nil, err
	}
	if config.ObjectStore.SecretKey, err = requireEnv("OBJECT_STORE_SECRET_KEY"); err != nil {
		return nil, err
	}
	config.ObjectStore.Bucket = getEnv("OBJECT_STORE_BUCKET", "encuentro-media")
	config.ObjectStore.UseSSL = getEnvAsBool("OBJECT_STORE_USE_SSL", false)
	config.ObjectStore.PublicURL = getEnv("OBJECT_STORE_PUBLIC_URL", "")

	config.Upload.MaxFiles = getEnvAsInt("UPLOAD_MAX_FILES", 10)
	config.Upload.MaxFileSize = getEnvAsInt64("UPLOAD_MAX_FILE_SIZE", 10485760)
	config.Upload.Timeout = getEnvAsDuration("UPLOAD_TIMEOUT", 60*time.Second)

	config.Sentiment.APIURL = getEnv("SENTIMENT_API_URL", "")
	config.Sentiment.APIKey = getEnv("SENTIMENT_API_KEY", "")

	config.CORS.AllowOrigins = getEnv("CORS_ALLOW_ORIGINS", "*")
	config.CORS.AllowMethods = getEnv("CORS_ALLOW_METHODS", "GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS")
	config.CORS.AllowHeaders = getEnv("CORS_ALLOW_HEADERS", "Origin,Content-Length,Content-Type,Authorization")

	return config, nil
}

// GetDatabaseURL returns the database connection URL
func (c *Config) GetDatabaseURL() string {
	return "postgres://" + c.DB.User + ":" + c.DB.Password + "@" + c.DB.Host + ":" + c.DB.Port + "/" + c.DB.Name + "?sslmode=" + c.DB.SSLMode
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// requireEnv gets an environment variable that has no sensible default
func requireEnv(key string) (string, error) {
	if value := os.Getenv(key); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("required environment variable %s is not set", key)
}

// getEnvAsInt gets an environment variable as int or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsInt64 gets an environment variable as int64 or returns a default value
func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as bool or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration gets an environment variable as duration or returns a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
