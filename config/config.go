package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	MongoURI    string
	MongoDBName string
	JWT         JWTConfig
	SMTP        SMTPConfig
}

type JWTConfig struct {
	Secret        string
	Issuer        string
	Audience      string
	ExpireMinutes int
}

// SMTPConfig configures the invite-notification sender. Notifications are
// disabled when Password is empty.
type SMTPConfig struct {
	Host     string
	Port     string
	From     string
	Password string
}

// Load reads configuration from the environment, optionally seeded from a
// .env file. A missing or malformed JWT section is a fatal startup error,
// never a per-request one.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		MongoURI:    getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName: getEnvOrDefault("MONGO_DB_NAME", "worknest"),
		JWT: JWTConfig{
			Secret:   os.Getenv("JWT_SECRET"),
			Issuer:   getEnvOrDefault("JWT_ISSUER", "worknest"),
			Audience: getEnvOrDefault("JWT_AUDIENCE", "worknest"),
		},
		SMTP: SMTPConfig{
			Host:     getEnvOrDefault("SMTP_HOST", "smtp.gmail.com"),
			Port:     getEnvOrDefault("SMTP_PORT", "587"),
			From:     os.Getenv("SMTP_FROM"),
			Password: os.Getenv("EMAIL_PASSWORD"),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	expire := getEnvOrDefault("JWT_EXPIRE_MINUTES", "60")
	minutes, err := strconv.Atoi(expire)
	if err != nil || minutes <= 0 {
		return nil, fmt.Errorf("invalid JWT_EXPIRE_MINUTES: %q", expire)
	}
	cfg.JWT.ExpireMinutes = minutes

	return cfg, nil
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
