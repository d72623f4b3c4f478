package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Session     SessionConfig
	CORS        CORSConfig
	Checkout    CheckoutConfig
	Flutterwave FlutterwaveConfig
	PayPal      PayPalConfig
	Sweeper     SweeperConfig
}

type ServerConfig struct {
	Port string
	Host string
	Env  string
}

type DatabaseConfig struct {
	URL      string // Full database URL
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type SessionConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// CheckoutConfig carries the order pricing rules: every checkout is
// quoted in a single currency with a flat tax added to the item total.
type CheckoutConfig struct {
	Currency string
	FixedTax decimal.Decimal
}

type FlutterwaveConfig struct {
	SecretKey   string
	RedirectURL string
}

type PayPalConfig struct {
	ClientID     string
	ClientSecret string
	Environment  string // "sandbox" or "live"
	ReturnURL    string
	CancelURL    string
}

type SweeperConfig struct {
	Interval time.Duration
	MaxAge   time.Duration
}

func Load() (*Config, error) {
	// Load .env files if they exist (try .env.local first, then .env)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "localhost"),
			Env:  getEnv("ENV", "development"),
		},
		Database: parseDatabaseConfig(),
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", "your-secret-key-change-in-production"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Checkout: CheckoutConfig{
			Currency: getEnv("CHECKOUT_CURRENCY", "USD"),
			FixedTax: getEnvAsDecimal("CHECKOUT_FIXED_TAX", "4.00"),
		},
		Flutterwave: FlutterwaveConfig{
			SecretKey:   getEnv("FLUTTERWAVE_SECRET_KEY", ""),
			RedirectURL: getEnv("FLUTTERWAVE_REDIRECT_URL", "http://localhost:5173/payment-status/"),
		},
		PayPal: PayPalConfig{
			ClientID:     getEnv("PAYPAL_CLIENT_ID", ""),
			ClientSecret: getEnv("PAYPAL_CLIENT_SECRET", ""),
			Environment:  getEnv("PAYPAL_ENVIRONMENT", "sandbox"),
			ReturnURL:    getEnv("PAYPAL_RETURN_URL", "http://localhost:5173/payment-status"),
			CancelURL:    getEnv("PAYPAL_CANCEL_URL", "http://localhost:5173/payment-status?paymentStatus=cancel"),
		},
		Sweeper: SweeperConfig{
			Interval: getEnvAsDuration("SWEEPER_INTERVAL", 15*time.Minute),
			MaxAge:   getEnvAsDuration("SWEEPER_PENDING_MAX_AGE", 24*time.Hour),
		},
	}

	return config, nil
}

func parseDatabaseConfig() DatabaseConfig {
	// Check if DATABASE_URL is provided
	databaseURL := getEnv("DATABASE_URL", "")
	if databaseURL != "" {
		return parseDatabaseURL(databaseURL)
	}

	// Fall back to individual environment variables
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvAsInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		DBName:   getEnv("DB_NAME", "shoppit"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

func parseDatabaseURL(databaseURL string) DatabaseConfig {
	config := DatabaseConfig{
		URL: databaseURL,
	}

	u, err := url.Parse(databaseURL)
	if err != nil {
		// If parsing fails, return the URL as-is
		return config
	}

	config.Host = u.Hostname()
	if u.Port() != "" {
		config.Port, _ = strconv.Atoi(u.Port())
	} else {
		config.Port = 5432 // Default PostgreSQL port
	}

	if u.User != nil {
		config.User = u.User.Username()
		config.Password, _ = u.User.Password()
	}

	// Remove leading slash from path to get database name
	config.DBName = strings.TrimPrefix(u.Path, "/")

	config.SSLMode = u.Query().Get("sslmode")
	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}

	return config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsDecimal(key, defaultValue string) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	d, _ := decimal.NewFromString(defaultValue)
	return d
}

func splitEnv(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	parts := strings.Split(raw, ",")
	var origins []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
