package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "defaultsecret"

type Config struct {
	APIPort string
	JWTKey  []byte
	JWTExp  time.Duration

	DBDriver      string // "pgx" or "sqlite3"
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSslMode     string
	DBSQLitePath  string
	DBConnStr     string
	DBAutoMigrate bool

	RedisAddr       string // empty disables the preview cache
	RedisPassword   string
	RedisDB         int
	PreviewCacheTTL time.Duration

	EvaluatorURL     string
	EvaluatorTimeout time.Duration

	AdminName         string
	AdminPassword     string
	AdminPasswordHash string

	GitHubClientID     string
	GitHubClientSecret string
	GitHubOAuthURL     string
	GitHubAPIURL       string
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = FromEnv()
	if string(AppConfig.JWTKey) == defaultJWTSecret {
		log.Println("WARN: JWT_SECRET not set, using the development default")
	}
}

// FromEnv builds a Config from the current environment without touching .env files.
func FromEnv() *Config {
	cfg := &Config{
		APIPort: getEnv("API_PORT", "8080"),
		JWTKey:  []byte(getEnv("JWT_SECRET", defaultJWTSecret)),
		// Local and OAuth logins are long-lived to avoid frequent re-login.
		JWTExp: time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 24*30)) * time.Hour,

		DBDriver:      getEnv("DB_DRIVER", "pgx"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "user"),
		DBPassword:    getEnv("DB_PASSWORD", "password"),
		DBName:        getEnv("DB_NAME", "logic_exercises"),
		DBSslMode:     getEnv("DB_SSLMODE", "disable"),
		DBSQLitePath:  getEnv("DB_SQLITE_PATH", "logic_exercises.db"),
		DBAutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", true),

		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvAsInt("REDIS_DB", 0),
		PreviewCacheTTL: time.Duration(getEnvAsInt("PREVIEW_CACHE_TTL_SECONDS", 300)) * time.Second,

		EvaluatorURL:     getEnv("EVALUATOR_URL", "http://localhost:5000/evaluate"),
		EvaluatorTimeout: time.Duration(getEnvAsInt("EVALUATOR_TIMEOUT_SECONDS", 30)) * time.Second,

		AdminName:         getEnv("ADMIN_NAME", ""),
		AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),

		GitHubClientID:     getEnv("GITHUB_CLIENT_ID", ""),
		GitHubClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
		GitHubOAuthURL:     getEnv("GITHUB_OAUTH_URL", "https://github.com/login/oauth/access_token"),
		GitHubAPIURL:       getEnv("GITHUB_API_URL", "https://api.github.com"),
	}

	cfg.DBConnStr = "host=" + cfg.DBHost +
		" port=" + cfg.DBPort +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPassword +
		" dbname=" + cfg.DBName +
		" sslmode=" + cfg.DBSslMode
	return cfg
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(getEnv(key, ""))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}
