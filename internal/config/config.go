// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"socialgraph/pkg/db" // Import db package for its Config struct
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort    string
	StorageDriver string
	LogLevel      string
	DB            db.Config
	Auth          AuthConfig
	Redis         RedisConfig
	Recommend     RecommendConfig
	CORSOrigins   []string
}

type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

// RedisConfig configures the recommendation cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RecommendConfig struct {
	CacheTTL time.Duration
	Fanout   int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("STORAGE_DRIVER", DriverPostgres)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "user")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "socialgraph")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("BCRYPT_COST", bcrypt.DefaultCost)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RECOMMENDATION_CACHE_TTL", "30s")
	v.SetDefault("RECOMMENDATION_FANOUT", 8)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
}

// LoadConfig loads configuration from an optional .env file and the environment.
// It returns an AppConfig instance or an error if any required variable is missing or invalid.
func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	serverPort := v.GetString("SERVER_PORT")
	if _, err := strconv.Atoi(serverPort); err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}
	dbPort, err := strconv.Atoi(v.GetString("DB_PORT"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	maxOpen, err := parseInt(v, "DB_MAX_OPEN_CONNS")
	if err != nil {
		return nil, err
	}
	maxIdle, err := parseInt(v, "DB_MAX_IDLE_CONNS")
	if err != nil {
		return nil, err
	}
	connLifetime, err := parseDuration(v, "DB_CONN_MAX_LIFETIME")
	if err != nil {
		return nil, err
	}

	driver := strings.ToLower(v.GetString("STORAGE_DRIVER"))
	if driver != DriverPostgres && driver != DriverMemory {
		return nil, fmt.Errorf("invalid STORAGE_DRIVER %q: want %q or %q", driver, DriverPostgres, DriverMemory)
	}

	secret := v.GetString("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	tokenTTL, err := parseDuration(v, "TOKEN_TTL")
	if err != nil {
		return nil, err
	}
	cost, err := parseInt(v, "BCRYPT_COST")
	if err != nil {
		return nil, err
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("invalid BCRYPT_COST %d", cost)
	}

	redisDB, err := parseInt(v, "REDIS_DB")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDuration(v, "RECOMMENDATION_CACHE_TTL")
	if err != nil {
		return nil, err
	}
	fanout, err := parseInt(v, "RECOMMENDATION_FANOUT")
	if err != nil {
		return nil, err
	}
	if fanout < 1 {
		return nil, fmt.Errorf("invalid RECOMMENDATION_FANOUT %d", fanout)
	}

	return &AppConfig{
		ServerPort:    serverPort,
		StorageDriver: driver,
		LogLevel:      v.GetString("LOG_LEVEL"),
		DB: db.Config{
			Host:     v.GetString("DB_HOST"),
			Port:     dbPort,
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),

			MaxOpenConns:    maxOpen,
			MaxIdleConns:    maxIdle,
			ConnMaxLifetime: connLifetime,
		},
		Auth: AuthConfig{
			JWTSecret:  secret,
			TokenTTL:   tokenTTL,
			BcryptCost: cost,
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Recommend: RecommendConfig{
			CacheTTL: cacheTTL,
			Fanout:   fanout,
		},
		CORSOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}, nil
}

func parseInt(v *viper.Viper, key string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
