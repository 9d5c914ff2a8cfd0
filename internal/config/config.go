package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Catalog  CatalogConfig
	Identity IdentityConfig
	Cart     CartConfig
	Redis    RedisConfig
	S3       S3Config
	Pricing  PricingConfig
	Payment  PaymentConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds the order ledger connection settings.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
	Migrate         bool
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// CatalogConfig points at the remote catalog API.
type CatalogConfig struct {
	BaseURL         string
	Timeout         time.Duration
	BreakerFailures int
	BreakerCooldown time.Duration
}

// IdentityConfig configures the identity provider and admin allow-list.
type IdentityConfig struct {
	BaseURL       string // empty disables sign-in
	AdminEmails   string // comma-separated
	AdminListPath string
}

// Slot backends.
const (
	SlotBackendRedis = "redis"
	SlotBackendFile  = "file"
	SlotBackendS3    = "s3"
)

// CartConfig holds cart persistence and session settings.
type CartConfig struct {
	SlotBackend  string
	SlotDir      string
	SlotTTL      time.Duration
	WriteTimeout time.Duration
	SessionIdle  time.Duration
}

// RedisConfig holds the Redis connection used by the redis slot backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// S3Config holds AWS S3 configuration for cart slots and the admin allow-list.
type S3Config struct {
	Enabled      bool
	Bucket       string
	Region       string
	CartPrefix   string
	AdminListKey string
}

// PricingConfig holds the shipping and tax policy.
type PricingConfig struct {
	ShippingCost decimal.Decimal
	TaxRate      decimal.Decimal
	Currency     string
}

// PaymentConfig holds payment processor settings.
type PaymentConfig struct {
	Timeout        time.Duration
	SimulatedDelay time.Duration
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "storefront"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
			Migrate:         getEnvAsBool("DB_MIGRATE", true),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Catalog: CatalogConfig{
			BaseURL:         getEnv("CATALOG_BASE_URL", ""),
			Timeout:         getEnvAsDuration("CATALOG_TIMEOUT", 10*time.Second),
			BreakerFailures: getEnvAsInt("CATALOG_BREAKER_FAILURES", 5),
			BreakerCooldown: getEnvAsDuration("CATALOG_BREAKER_COOLDOWN", 30*time.Second),
		},
		Identity: IdentityConfig{
			BaseURL:       getEnv("IDENTITY_BASE_URL", ""),
			AdminEmails:   getEnv("ADMIN_EMAILS", ""),
			AdminListPath: getEnv("ADMIN_LIST_PATH", ""),
		},
		Cart: CartConfig{
			SlotBackend:  strings.ToLower(getEnv("CART_SLOT_BACKEND", SlotBackendRedis)),
			SlotDir:      getEnv("CART_SLOT_DIR", "data/carts"),
			SlotTTL:      getEnvAsDuration("CART_SLOT_TTL", 720*time.Hour),
			WriteTimeout: getEnvAsDuration("CART_SLOT_WRITE_TIMEOUT", 2*time.Second),
			SessionIdle:  getEnvAsDuration("CART_SESSION_IDLE", 30*time.Minute),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		S3: S3Config{
			Enabled:      getEnvAsBool("S3_ENABLED", false),
			Bucket:       getEnv("S3_BUCKET", ""),
			Region:       getEnv("S3_REGION", "us-east-1"),
			CartPrefix:   getEnv("S3_CART_PREFIX", "carts/"),
			AdminListKey: getEnv("S3_ADMIN_LIST_KEY", "admin/admins.txt.gz"),
		},
		Pricing: PricingConfig{
			ShippingCost: getEnvAsDecimal("PRICING_SHIPPING_COST", decimal.NewFromInt(150)),
			TaxRate:      getEnvAsDecimal("PRICING_TAX_RATE", decimal.RequireFromString("0.07")),
			Currency:     getEnv("PRICING_CURRENCY", "INR"),
		},
		Payment: PaymentConfig{
			Timeout:        getEnvAsDuration("PAYMENT_TIMEOUT", 10*time.Second),
			SimulatedDelay: getEnvAsDuration("PAYMENT_SIMULATED_DELAY", 1500*time.Millisecond),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks every section and reports all problems together.
func (c *Config) Validate() error {
	return errors.Join(
		c.Server.validate(),
		c.Database.validate(),
		c.Logger.validate(),
		c.Catalog.validate(),
		c.validateCart(),
		c.S3.validate(),
		c.Pricing.validate(),
		c.Payment.validate(),
	)
}

func validPort(p int) bool { return p >= 1 && p <= 65535 }

func (c *ServerConfig) validate() error {
	if !validPort(c.Port) {
		return fmt.Errorf("invalid server port: %d", c.Port)
	}
	return nil
}

func (c *DatabaseConfig) validate() error {
	var errs []error
	if c.Host == "" {
		errs = append(errs, errors.New("database host is required"))
	}
	if !validPort(c.Port) {
		errs = append(errs, fmt.Errorf("invalid database port: %d", c.Port))
	}
	if c.User == "" {
		errs = append(errs, errors.New("database user is required"))
	}
	if c.Database == "" {
		errs = append(errs, errors.New("database name is required"))
	}
	switch {
	case c.MaxConnections < 1 || c.MinConnections < 1:
		errs = append(errs, errors.New("database connection limits must be at least 1"))
	case c.MinConnections > c.MaxConnections:
		errs = append(errs, errors.New("database min connections cannot exceed max connections"))
	}
	return errors.Join(errs...)
}

func (c *LoggerConfig) validate() error {
	var errs []error
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level))
	}
	if c.Format != "json" && c.Format != "console" {
		errs = append(errs, fmt.Errorf("invalid log format: %s (must be json or console)", c.Format))
	}
	return errors.Join(errs...)
}

func (c *CatalogConfig) validate() error {
	var errs []error
	if c.BaseURL == "" {
		errs = append(errs, errors.New("catalog base URL is required"))
	}
	if c.Timeout <= 0 {
		errs = append(errs, errors.New("catalog timeout must be positive"))
	}
	if c.BreakerFailures < 1 {
		errs = append(errs, errors.New("catalog breaker failures must be at least 1"))
	}
	return errors.Join(errs...)
}

// validateCart needs the Redis and S3 sections as well as Cart.
func (c *Config) validateCart() error {
	var errs []error
	switch c.Cart.SlotBackend {
	case SlotBackendRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("redis address is required for the redis cart backend"))
		}
	case SlotBackendFile:
		if c.Cart.SlotDir == "" {
			errs = append(errs, errors.New("cart slot directory is required for the file cart backend"))
		}
	case SlotBackendS3:
		if !c.S3.Enabled {
			errs = append(errs, errors.New("S3 must be enabled for the s3 cart backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid cart slot backend: %s (must be redis, file, or s3)", c.Cart.SlotBackend))
	}
	if c.Cart.SessionIdle <= 0 {
		errs = append(errs, errors.New("cart session idle timeout must be positive"))
	}
	return errors.Join(errs...)
}

func (c *S3Config) validate() error {
	if !c.Enabled {
		return nil
	}
	var errs []error
	if c.Bucket == "" {
		errs = append(errs, errors.New("S3 bucket is required when S3 is enabled"))
	}
	if c.Region == "" {
		errs = append(errs, errors.New("S3 region is required when S3 is enabled"))
	}
	return errors.Join(errs...)
}

func (c *PricingConfig) validate() error {
	var errs []error
	if c.ShippingCost.IsNegative() {
		errs = append(errs, errors.New("shipping cost must not be negative"))
	}
	if c.TaxRate.IsNegative() || c.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		errs = append(errs, fmt.Errorf("invalid tax rate: %s (must be between 0 and 1)", c.TaxRate))
	}
	if c.Currency == "" {
		errs = append(errs, errors.New("currency is required"))
	}
	return errors.Join(errs...)
}

func (c *PaymentConfig) validate() error {
	if c.Timeout <= 0 {
		return errors.New("payment timeout must be positive")
	}
	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// envOr returns parse(os.Getenv(key)), or def when the variable is unset or
// does not parse.
func envOr[T any](key string, def T, parse func(string) (T, error)) T {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	v, err := parse(value)
	if err != nil {
		return def
	}
	return v
}

func getEnv(key, defaultValue string) string {
	return envOr(key, defaultValue, func(v string) (string, error) { return v, nil })
}

func getEnvAsInt(key string, defaultValue int) int {
	return envOr(key, defaultValue, strconv.Atoi)
}

func getEnvAsBool(key string, defaultValue bool) bool {
	return envOr(key, defaultValue, strconv.ParseBool)
}

// getEnvAsDuration parses values such as "10s" or "30m".
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	return envOr(key, defaultValue, time.ParseDuration)
}

func getEnvAsDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	return envOr(key, defaultValue, decimal.NewFromString)
}
