package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	Port string

	// Database
	DBDriver    string // postgres or sqlite
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBPath      string

	// Sessions
	JWTSecret         string
	AdminPassword     string
	AdminPasswordHash string
	AdminSessionTTL   time.Duration
	CartTTL           time.Duration

	// Store
	ShippingCost   decimal.Decimal
	CartStockCheck bool
	WhatsappNumber string

	// Notifications
	TelegramToken  string
	TelegramChatID string
	TelegramAPIURL string
	EmailProvider  string
	PostmarkToken  string
	SendgridKey    string
	EmailSender    string
	NotifyAPIKey   string
	NotifyTimeout  time.Duration

	// Backups
	BackupDir       string
	BackupRetention time.Duration
	BackupHour      int
	BackupMinute    int

	CORSOrigins []string
}

// Load reads the configuration from the environment. godotenv must be loaded
// by the caller beforehand.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      os.Getenv("DB_USER"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      getEnv("DB_NAME", "galazzia"),
		DBPath:      getEnv("DB_PATH", "galazzia.db"),

		JWTSecret:         os.Getenv("JWT_SECRET"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),

		WhatsappNumber: getEnv("WHATSAPP_NUMBER", "+5491150535668"),

		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID: os.Getenv("TELEGRAM_CHAT_ID"),
		TelegramAPIURL: getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
		EmailProvider:  strings.ToLower(getEnv("EMAIL_PROVIDER", "postmark")),
		PostmarkToken:  os.Getenv("POSTMARK_SERVER_TOKEN"),
		SendgridKey:    os.Getenv("SENDGRID_API_KEY"),
		EmailSender:    getEnv("EMAIL_SENDER", "pedidos@galazzia.com"),
		NotifyAPIKey:   os.Getenv("NOTIFY_API_KEY"),

		BackupDir: getEnv("BACKUP_DIR", "backups"),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
	}

	var err error
	if cfg.AdminSessionTTL, err = getDuration("ADMIN_SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.CartTTL, err = getDuration("CART_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.NotifyTimeout, err = getDuration("NOTIFY_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.BackupRetention, err = getDuration("BACKUP_RETENTION", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.BackupHour, err = getInt("BACKUP_HOUR", 2); err != nil {
		return nil, err
	}
	if cfg.BackupMinute, err = getInt("BACKUP_MINUTE", 0); err != nil {
		return nil, err
	}
	if cfg.CartStockCheck, err = getBool("CART_STOCK_CHECK", true); err != nil {
		return nil, err
	}

	cfg.ShippingCost, err = decimal.NewFromString(getEnv("SHIPPING_COST_DELIVERY", "2000"))
	if err != nil {
		return nil, fmt.Errorf("SHIPPING_COST_DELIVERY: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.AdminPassword == "" && cfg.AdminPasswordHash == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required")
	}
	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.BackupHour < 0 || cfg.BackupHour > 23 || cfg.BackupMinute < 0 || cfg.BackupMinute > 59 {
		return nil, fmt.Errorf("invalid backup time %02d:%02d", cfg.BackupHour, cfg.BackupMinute)
	}

	return cfg, nil
}

// PostgresDSN builds the connection string from DB_* values when DATABASE_URL is unset.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
