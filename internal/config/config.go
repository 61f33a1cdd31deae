package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Ports    PortsConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Telegram TelegramConfig
	Limits   LimitsConfig
	Rates    RatesConfig
}

type ServerConfig struct {
	Environment  string
	LogLevel     string
	JWTSecret    string
	AllowOrigins string
	PublicDir    string
	UploadDir    string
	BodyLimit    int
	Services     []string
}

// PortsConfig holds the listen port of every service.
type PortsConfig struct {
	Auth      string
	Profile   string
	Referrals string
	Trading   string
	Demo      string
	Wallet    string
	Dashboard string
	Admin     string
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	// AutoMigrate applies pending migrations at startup.
	AutoMigrate bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type TelegramConfig struct {
	BotToken    string
	AdminChatID int64
}

type LimitsConfig struct {
	Window       time.Duration
	APIMax       int
	AuthMax      int
	BotMax       int
	SensitiveMax int
}

type RatesConfig struct {
	USDToKSH float64
	CacheTTL time.Duration
}

func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.Name + "?sslmode=" + d.SSLMode
}

// Enabled reports whether a shared Redis store was configured.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.AdminChatID != 0
}

// Runs reports whether the named service was selected for this process.
func (s ServerConfig) Runs(name string) bool {
	for _, svc := range s.Services {
		if svc == "all" || svc == name {
			return true
		}
	}
	return false
}

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set in production")

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	adminChatID, _ := strconv.ParseInt(getEnv("TELEGRAM_ADMIN_CHAT_ID", "0"), 10, 64)

	cfg := &Config{
		Server: ServerConfig{
			Environment:  getEnv("ENVIRONMENT", "development"),
			LogLevel:     getEnv("LOG_LEVEL", "info"),
			JWTSecret:    getEnv("JWT_SECRET", ""),
			AllowOrigins: getEnv("ALLOW_ORIGINS", "*"),
			PublicDir:    getEnv("PUBLIC_DIR", "./public"),
			UploadDir:    getEnv("UPLOAD_DIR", "./public/uploads/profiles"),
			BodyLimit:    getEnvInt("BODY_LIMIT", 10*1024),
			Services:     splitList(getEnv("SERVICES", "all")),
		},
		Ports: PortsConfig{
			Auth:      getEnv("AUTH_PORT", getEnv("PORT", "3000")),
			Profile:   getEnv("PROFILE_PORT", "3001"),
			Referrals: getEnv("REFERRALS_PORT", "3002"),
			Trading:   getEnv("TRADING_PORT", "3003"),
			Demo:      getEnv("DEMO_PORT", "3004"),
			Wallet:    getEnv("WALLET_PORT", "3005"),
			Dashboard: getEnv("DASHBOARD_PORT", "3006"),
			Admin:     getEnv("ADMIN_PORT", "3007"),
		},
		Database: LoadDatabase(),
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Telegram: TelegramConfig{
			BotToken:    getEnv("TELEGRAM_BOT_TOKEN", ""),
			AdminChatID: adminChatID,
		},
		Limits: LimitsConfig{
			Window:       getEnvDuration("RATE_LIMIT_WINDOW", RateLimitWindow),
			APIMax:       getEnvInt("RATE_LIMIT_API", 100),
			AuthMax:      getEnvInt("RATE_LIMIT_AUTH", 8),
			BotMax:       getEnvInt("RATE_LIMIT_BOTS", 5),
			SensitiveMax: getEnvInt("RATE_LIMIT_SENSITIVE", 10),
		},
		Rates: RatesConfig{
			USDToKSH: getEnvFloat("USD_TO_KSH", DefaultUSDToKSH),
			CacheTTL: getEnvDuration("RATES_CACHE_TTL", 5*time.Minute),
		},
	}

	if cfg.Server.JWTSecret == "" {
		if cfg.Server.Environment == "production" {
			return nil, ErrMissingJWTSecret
		}
		cfg.Server.JWTSecret = "forexpro-dev-secret-change-me"
	}

	return cfg, nil
}

// LoadDatabase reads only the database settings, for tools that do not
// need the rest of the configuration.
func LoadDatabase() DatabaseConfig {
	_ = godotenv.Load()

	return DatabaseConfig{
		URL:         getEnv("DATABASE_URL", ""),
		Host:        getEnv("DB_HOST", "localhost"),
		Port:        getEnv("DB_PORT", "5432"),
		User:        getEnv("DB_USER", "forexpro"),
		Password:    getEnv("DB_PASSWORD", "forexpro"),
		Name:        getEnv("DB_NAME", "forexpro"),
		SSLMode:     getEnv("DB_SSLMODE", "disable"),
		AutoMigrate: getEnv("AUTO_MIGRATE", "true") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil && v > 0 {
		return v
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(strings.ToLower(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

const (
	DefaultUSDToKSH   = 129.76
	RateLimitWindow   = 15 * time.Minute
	UserTokenTTL      = 30 * 24 * time.Hour
	AdminTokenTTL     = 24 * time.Hour
	DemoTokenTTL      = 24 * time.Hour
	DepositAddressTTL = 5 * time.Minute
	MaxProfileImage   = 3 * 1024 * 1024
)
