package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/tuneuplab/tuneup-booking-backend/internal/schedule"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction      bool
	ProdOrigins       string
	HTTPAddr          string
	DBDSN             string
	JWTSecret         string
	JWTAccessTokenTTL time.Duration
	BcryptCost        int

	// Business-hours policy for the slot grid.
	BusinessTimezone string
	OpenHour         int
	CloseHour        int
	OpenWeekdays     []int // time.Weekday numbers, 0=Sunday
	SlotMinutes      int

	// Payment webhook signature secret. Required; events are never trusted
	// without a valid signature.
	PaymentWebhookSecret string

	// Notification queue. Empty AMQP URL disables publishing.
	AMQPURL      string
	AMQPExchange string

	// How long an unpaid pending booking holds its slot before the expiry
	// sweep cancels it. Zero PendingTTL disables the sweep.
	PendingTTL    time.Duration
	SweepInterval time.Duration

	// SMTP settings for the notifier worker.
	SMTPAddr   string
	SMTPFrom   string
	AdminEmail string
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := &Config{}

	// Production origin (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	// Application environment (default: dev)
	appEnvStr := getEnv("APP_ENV", "dev")
	cfg.IsProduction = appEnvStr == PROD_STRING

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	// Database DSN is required
	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	// JWT secret is required for signing admin tokens
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	// JWT access token TTL, parse as time.Duration (e.g. "15m", "1h").
	ttlStr := getEnv("JWT_ACCESS_TOKEN_TTL", "1h")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_TTL: %w", err)
	}
	cfg.JWTAccessTokenTTL = ttl

	// Bcrypt cost for admin password hashing (default: 12)
	cfg.BcryptCost, err = getEnvAsInt("BCRYPT_COST", 12)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	// Business-hours policy
	cfg.BusinessTimezone = getEnv("BUSINESS_TIMEZONE", "UTC")
	cfg.OpenHour, err = getEnvAsInt("OPEN_HOUR", 13)
	if err != nil {
		return nil, fmt.Errorf("invalid OPEN_HOUR: %w", err)
	}
	cfg.CloseHour, err = getEnvAsInt("CLOSE_HOUR", 23)
	if err != nil {
		return nil, fmt.Errorf("invalid CLOSE_HOUR: %w", err)
	}
	cfg.OpenWeekdays, err = getEnvAsIntList("OPEN_WEEKDAYS", []int{1, 2, 3, 4, 5})
	if err != nil {
		return nil, fmt.Errorf("invalid OPEN_WEEKDAYS: %w", err)
	}
	cfg.SlotMinutes, err = getEnvAsInt("SLOT_MINUTES", 60)
	if err != nil {
		return nil, fmt.Errorf("invalid SLOT_MINUTES: %w", err)
	}

	// Payment webhook secret is required
	cfg.PaymentWebhookSecret = os.Getenv("PAYMENT_WEBHOOK_SECRET")
	if cfg.PaymentWebhookSecret == "" {
		return nil, fmt.Errorf("PAYMENT_WEBHOOK_SECRET is required")
	}

	// Notification queue (optional)
	cfg.AMQPURL = getEnv("AMQP_URL", "")
	cfg.AMQPExchange = getEnv("AMQP_EXCHANGE", "tuneup.notifications")

	// Pending booking expiry (default: 24h, "0" disables)
	pendingStr := getEnv("PENDING_TTL", "24h")
	pending, err := time.ParseDuration(pendingStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PENDING_TTL: %w", err)
	}
	cfg.PendingTTL = pending

	// How often the expiry sweep runs (default: 15m)
	sweepStr := getEnv("SWEEP_INTERVAL", "15m")
	sweep, err := time.ParseDuration(sweepStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SWEEP_INTERVAL: %w", err)
	}
	if sweep <= 0 {
		return nil, fmt.Errorf("SWEEP_INTERVAL must be positive")
	}
	cfg.SweepInterval = sweep

	// Notifier worker settings
	cfg.SMTPAddr = getEnv("SMTP_ADDR", "")
	cfg.SMTPFrom = getEnv("SMTP_FROM", "bookings@tuneuplab.example")
	cfg.AdminEmail = getEnv("ADMIN_EMAIL", "")

	return cfg, nil
}

// Policy builds the schedule policy from the loaded configuration.
func (c *Config) Policy() (schedule.Policy, error) {
	loc, err := time.LoadLocation(c.BusinessTimezone)
	if err != nil {
		return schedule.Policy{}, fmt.Errorf("invalid BUSINESS_TIMEZONE %q: %w", c.BusinessTimezone, err)
	}

	open := make(map[time.Weekday]bool, len(c.OpenWeekdays))
	for _, d := range c.OpenWeekdays {
		if d < 0 || d > 6 {
			return schedule.Policy{}, fmt.Errorf("invalid weekday number %d", d)
		}
		open[time.Weekday(d)] = true
	}

	p := schedule.Policy{
		Location:     loc,
		OpenHour:     c.OpenHour,
		CloseHour:    c.CloseHour,
		OpenWeekdays: open,
		SlotInterval: time.Duration(c.SlotMinutes) * time.Minute,
	}
	if err := p.Validate(); err != nil {
		return schedule.Policy{}, err
	}
	return p, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

// getEnvAsIntList parses a comma-separated list of integers (e.g. "1,2,3,4,5").
func getEnvAsIntList(key string, defaultValue []int) ([]int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	parts := strings.Split(valStr, ",")
	vals := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("env %s value %q is not a valid integer list: %w", key, valStr, err)
		}
		vals = append(vals, v)
	}
	return vals, nil
}
