package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	RatesDefault  = "default"
	RatesFile     = "file"
	RatesPostgres = "postgres"

	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	RatesSource string
	RatesFile   string

	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	AutoMigrate bool

	StoreBackend  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration

	BatchConcurrency int
}

// Load reads the environment, after a best-effort .env load. Variables
// already set in the environment win over the file.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read .env")
	}

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		GinMode:  getEnv("GIN_MODE", "debug"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		RatesSource: getEnv("RATES_SOURCE", RatesDefault),
		RatesFile:   getEnv("RATES_FILE", "configs/rates.example.yaml"),

		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "pricer"),
		DBPassword:  getEnv("DB_PASSWORD", "pricer_secret"),
		DBName:      getEnv("DB_NAME", "pricer"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),
		AutoMigrate: getEnv("AUTO_MIGRATE", "false") == "true",

		StoreBackend:  getEnv("STORE_BACKEND", StoreMemory),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		SessionTTL:    getEnvDuration("SESSION_TTL", 12*time.Hour),

		BatchConcurrency: getEnvInt("BATCH_CONCURRENCY", 8),
	}

	switch cfg.RatesSource {
	case RatesDefault, RatesFile, RatesPostgres:
	default:
		log.Warn().Str("rates_source", cfg.RatesSource).Msg("unknown RATES_SOURCE, using built-in rates")
		cfg.RatesSource = RatesDefault
	}
	switch cfg.StoreBackend {
	case StoreMemory, StoreRedis:
	default:
		log.Warn().Str("store_backend", cfg.StoreBackend).Msg("unknown STORE_BACKEND, using memory")
		cfg.StoreBackend = StoreMemory
	}

	return cfg
}

func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// UsesDatabase reports whether any component needs PostgreSQL.
func (c *Config) UsesDatabase() bool {
	return c.RatesSource == RatesPostgres
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("invalid integer, using default")
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		log.Warn().Str("key", key).Str("value", raw).Msg("invalid duration, using default")
		return fallback
	}
	return v
}
