package config

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

// DefaultTokenTTL is the validity window of issued auth tokens.
const DefaultTokenTTL = 30 * 24 * time.Hour

type R2Config struct {
	AccountID       string `env:"R2_ACCOUNT_ID"`
	AccessKeyID     string `env:"R2_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"R2_SECRET_ACCESS_KEY"`
	BucketName      string `env:"R2_BUCKET_NAME"`
	Region          string `env:"R2_REGION" envDefault:"auto"`
	PublicBaseURL   string `env:"R2_PUBLIC_BASE_URL"`
	// Endpoint overrides the account-derived R2 endpoint, e.g. for MinIO.
	Endpoint string `env:"R2_ENDPOINT"`
}

// Enabled reports whether enough settings are present to upload images.
func (c R2Config) Enabled() bool {
	return c.BucketName != "" && (c.AccountID != "" || c.Endpoint != "")
}

type Config struct {
	DBURL            string        `env:"DB_URL,required,notEmpty"`
	MongoDatabase    string        `env:"MONGO_DB_NAME" envDefault:"chat"`
	DBConnectRetries uint          `env:"DB_CONNECT_RETRIES" envDefault:"0"`
	Port             string        `env:"PORT" envDefault:"8080"`
	JWTSecret        string        `env:"JWT_SECRET,required,notEmpty"`
	TokenTTL         time.Duration `env:"JWT_TTL" envDefault:"720h"`
	HashConcurrency  int64         `env:"HASH_CONCURRENCY" envDefault:"0"`
	Environment      string        `env:"ENV" envDefault:"development"`
	CorsOrigins      []string      `env:"CORS_ORIGINS" envSeparator:","`
	R2               R2Config
}

// Load reads the optional env file and parses the process environment.
// Missing DB_URL or JWT_SECRET is an error; callers treat it as fatal.
func Load() (Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("No", envFile, "file found")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// CorsOptions mirrors the request origin when no explicit origins are set.
func (c Config) CorsOptions() cors.Options {
	opts := cors.Options{
		AllowedOrigins:   c.CorsOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
	if len(c.CorsOrigins) == 0 {
		opts.AllowOriginFunc = func(string) bool { return true }
	}
	return opts
}
