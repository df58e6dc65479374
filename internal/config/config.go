package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string

	DBPath string

	SecretKey     string
	SessionMaxAge int

	UploadDir      string
	StaticDir      string
	MaxUploadBytes int64

	DefaultAvatarURL string

	AIEndpoint  string
	AIMaxTokens int
	AITimeout   time.Duration

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string
}

// R2Enabled reports whether every Cloudflare R2 setting is present.
func (c *Config) R2Enabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicURL != ""
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	sessionMaxAge, err := strconv.Atoi(os.Getenv("SESSION_MAX_AGE"))
	if err != nil || sessionMaxAge <= 0 {
		sessionMaxAge = 604800
	}

	maxUploadBytes, err := strconv.ParseInt(os.Getenv("MAX_UPLOAD_BYTES"), 10, 64)
	if err != nil || maxUploadBytes <= 0 {
		maxUploadBytes = 16 * 1024 * 1024
	}

	aiMaxTokens, err := strconv.Atoi(os.Getenv("AI_MAX_TOKENS"))
	if err != nil || aiMaxTokens <= 0 {
		aiMaxTokens = 100
	}

	// Zero keeps the HTTP client's default: no timeout.
	aiTimeoutSeconds, err := strconv.Atoi(os.Getenv("AI_TIMEOUT"))
	if err != nil || aiTimeoutSeconds < 0 {
		aiTimeoutSeconds = 0
	}

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "5002"),

		DBPath: getEnv("DB_PATH", "./db/database.db"),

		SecretKey:     getEnv("SECRET_KEY", "supersecretkey"),
		SessionMaxAge: sessionMaxAge,

		UploadDir:      getEnv("UPLOAD_DIR", "./static/uploads"),
		StaticDir:      os.Getenv("STATIC_DIR"),
		MaxUploadBytes: maxUploadBytes,

		DefaultAvatarURL: getEnv("DEFAULT_AVATAR_URL", "/static/img/default-avatar.png"),

		AIEndpoint:  getEnv("AI_ENDPOINT", "http://127.0.0.1:1234"),
		AIMaxTokens: aiMaxTokens,
		AITimeout:   time.Duration(aiTimeoutSeconds) * time.Second,

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicURL:       os.Getenv("R2_PUBLIC_URL"),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
