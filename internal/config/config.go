package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

type Config struct {
	Port     string
	Database DatabaseConfig
	Redis    RedisConfig
	AMQP     AMQPConfig
	Payment  PaymentConfig
	Auth     AuthConfig
	Logger   LoggerConfig
	HTTP     HTTPConfig
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int32
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
	TTL      time.Duration
}

type AMQPConfig struct {
	URL   string
	Queue string
}

type PaymentConfig struct {
	SecretKey string
	Currency  string
}

type AuthConfig struct {
	Secret           string
	TokenTTL         time.Duration
	LegacyOwnerCheck bool
}

type LoggerConfig struct {
	Mode     string
	Filename string
}

type HTTPConfig struct {
	CORSOrigins     []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// LoadConfig reads an optional .env file from the working directory and then
// the process environment. Variables already set in the environment win.
func LoadConfig(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	return &Config{
		Port: getEnv("PORT", "5000"),
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "app_user"),
			Password: getEnv("DB_PASSWORD", "postgres_password"),
			DBName:   getEnv("DB_NAME", "app_db"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: cast.ToInt32(getEnv("DB_MAX_CONNS", "10")),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			TTL:      getEnvAsDuration("CACHE_TTL", 5*time.Minute),
		},
		AMQP: AMQPConfig{
			URL:   getEnv("AMQP_URL", ""),
			Queue: getEnv("SETTLEMENT_QUEUE", "order_settled"),
		},
		Payment: PaymentConfig{
			SecretKey: getEnv("STRIPE_SECRET_KEY", ""),
			Currency:  strings.ToLower(getEnv("PAYMENT_CURRENCY", "usd")),
		},
		Auth: AuthConfig{
			Secret:           getEnv("ACCESS_TOKEN_SECRET", ""),
			TokenTTL:         getEnvAsDuration("TOKEN_TTL", 30*24*time.Hour),
			LegacyOwnerCheck: getEnvAsBool("AUTH_LEGACY_OWNER_CHECK", false),
		},
		Logger: LoggerConfig{
			Mode:     getEnv("LOG_MODE", "development"),
			Filename: getEnv("LOG_FILE", ""),
		},
		HTTP: HTTPConfig{
			CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
			ReadTimeout:     getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
	}, nil
}

func (c *Config) Validate() error {
	var missing []string
	if c.Payment.SecretKey == "" {
		missing = append(missing, "STRIPE_SECRET_KEY")
	}
	if c.Auth.Secret == "" {
		missing = append(missing, "ACCESS_TOKEN_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.Auth.TokenTTL)
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.DBName,
		c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := cast.ToIntE(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := cast.ToBoolE(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := cast.ToDurationE(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
