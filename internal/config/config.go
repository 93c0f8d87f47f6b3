package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DB      DBConfig
	Server  ServerConfig
	Weather WeatherConfig
	Cache   CacheConfig
	History HistoryConfig
	Locale  LocaleConfig
}

// DBType represents database type
type DBType string

const (
	DBTypePostgreSQL DBType = "postgres"
	DBTypeMemory     DBType = "memory"
)

// CacheDriver selects the backing store for provider responses
type CacheDriver string

const (
	CacheDriverMemory CacheDriver = "memory"
	CacheDriverRedis  CacheDriver = "redis"
)

// DBConfig holds database configuration
type DBConfig struct {
	Type     DBType
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns the database connection string
func (c DBConfig) DSN() string {
	if c.Type == DBTypeMemory {
		// SQLite in-memory database
		if c.Name != "" && c.Name != "weather" {
			return fmt.Sprintf("file:%s?mode=memory&cache=shared", c.Name)
		}
		return "file::memory:?cache=shared"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

// IsMemory returns true if using in-memory database
func (c DBConfig) IsMemory() bool {
	return c.Type == DBTypeMemory
}

// writeTimeoutMargin is headroom on top of the provider budget for the
// handler's own work and for writing the response.
const writeTimeoutMargin = 5 * time.Second

// ServerConfig holds server configuration
type ServerConfig struct {
	Port               string
	RateLimitPerMinute int
	WriteTimeout       time.Duration
}

// WeatherConfig holds settings for the upstream weather API client
type WeatherConfig struct {
	APIKey           string
	BaseURL          string
	Timeout          time.Duration
	RetryTimes       int
	RetrySleep       time.Duration
	CacheEnabled     bool
	CacheTTL         time.Duration
	SearchCacheTTL   time.Duration
	BreakerThreshold int
	BreakerTimeout   time.Duration
}

// RequestBudget is the longest a single provider call can take: every attempt
// running into Timeout plus the sleeps between them.
func (c WeatherConfig) RequestBudget() time.Duration {
	attempts := c.RetryTimes
	if attempts < 1 {
		attempts = 1
	}
	return time.Duration(attempts)*c.Timeout + time.Duration(attempts-1)*c.RetrySleep
}

// MinWriteTimeout is the smallest server write timeout that still lets a
// handler report an exhausted provider call to the caller.
func MinWriteTimeout(w WeatherConfig) time.Duration {
	return w.RequestBudget() + writeTimeoutMargin
}

// CacheConfig holds cache backend settings
type CacheConfig struct {
	Driver        CacheDriver
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// HistoryConfig holds history listing settings
type HistoryConfig struct {
	PerPage int
}

// LocaleConfig holds the locales accepted from Accept-Language
type LocaleConfig struct {
	Supported []string
	Fallback  string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbType := DBType(getEnv("DB_TYPE", "memory"))
	if dbType != DBTypePostgreSQL && dbType != DBTypeMemory {
		dbType = DBTypeMemory
	}

	cacheDriver := CacheDriver(getEnv("CACHE_DRIVER", "memory"))
	if cacheDriver != CacheDriverRedis {
		cacheDriver = CacheDriverMemory
	}

	supported := getEnvAsSlice("SUPPORTED_LOCALES")
	if len(supported) == 0 {
		supported = []string{"en", "es", "fr", "pt"}
	}

	config := &Config{
		DB: DBConfig{
			Type:     dbType,
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "weather"),
			Password: getEnv("DB_PASSWORD", "weather_password"),
			Name:     getEnv("DB_NAME", "weather"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Server: ServerConfig{
			Port:               getEnv("APP_PORT", "8080"),
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
			WriteTimeout:       getEnvAsDuration("APP_WRITE_TIMEOUT", 15*time.Second),
		},
		Weather: WeatherConfig{
			APIKey:           getEnv("WEATHER_API_KEY", ""),
			BaseURL:          strings.TrimRight(getEnv("WEATHER_API_URL", "https://api.weatherapi.com/v1"), "/"),
			Timeout:          getEnvAsDuration("WEATHER_API_TIMEOUT", 5*time.Second),
			RetryTimes:       getEnvAsInt("WEATHER_API_RETRY_TIMES", 3),
			RetrySleep:       getEnvAsDuration("WEATHER_API_RETRY_SLEEP", time.Second),
			CacheEnabled:     getEnvAsBool("WEATHER_API_CACHE_ENABLED", true),
			CacheTTL:         getEnvAsDuration("WEATHER_API_CACHE_TTL", 30*time.Minute),
			SearchCacheTTL:   getEnvAsDuration("WEATHER_API_SEARCH_CACHE_TTL", 24*time.Hour),
			BreakerThreshold: getEnvAsInt("WEATHER_API_BREAKER_THRESHOLD", 5),
			BreakerTimeout:   getEnvAsDuration("WEATHER_API_BREAKER_TIMEOUT", 30*time.Second),
		},
		Cache: CacheConfig{
			Driver:        cacheDriver,
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvAsInt("REDIS_DB", 0),
		},
		History: HistoryConfig{
			PerPage: getEnvAsInt("HISTORY_PER_PAGE", 15),
		},
		Locale: LocaleConfig{
			Supported: supported,
			Fallback:  getEnv("FALLBACK_LOCALE", "en"),
		},
	}

	if config.Weather.RetryTimes < 1 {
		return nil, fmt.Errorf("WEATHER_API_RETRY_TIMES must be at least 1, got %d", config.Weather.RetryTimes)
	}
	if floor := MinWriteTimeout(config.Weather); config.Server.WriteTimeout < floor {
		config.Server.WriteTimeout = floor
	}
	if config.History.PerPage < 1 {
		return nil, fmt.Errorf("HISTORY_PER_PAGE must be positive, got %d", config.History.PerPage)
	}

	return config, nil
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

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
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

func getEnvAsSlice(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	var result []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
