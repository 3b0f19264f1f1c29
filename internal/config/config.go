package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the binary reads from the environment.
type Config struct {
	MongoURI      string
	MongoDatabase string
	RedisAddr     string
	RedisPassword string
	JWTSecret     string
	Port          string
	CORSOrigin    string
	LogLevel      string
}

// Load reads .env when present, then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	return &Config{
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "careslot"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		Port:          getEnv("API_PORT", "8080"),
		CORSOrigin:    getEnv("CORS_ORIGIN", "http://localhost:5173"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
