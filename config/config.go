package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// PresetConfig overrides one quick-pick range.
type PresetConfig struct {
	Start string `mapstructure:"start"`
	End   string `mapstructure:"end"`
}

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	// TrustedProxies may set X-Forwarded-For; empty trusts no proxy.
	TrustedProxies []string `mapstructure:"TRUSTED_PROXIES"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB   int    `mapstructure:"REDIS_CACHE_DB"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Operating day and calendar.
	DayStart            string        `mapstructure:"DAY_START"`
	DayEnd              string        `mapstructure:"DAY_END"`
	ReconcileMaxDays    int           `mapstructure:"RECONCILE_MAX_DAYS"`
	SessionTTL          time.Duration `mapstructure:"SESSION_TTL"`
	CalendarCacheTTL    time.Duration `mapstructure:"CALENDAR_CACHE_TTL"`
	CalendarRefreshSpec string        `mapstructure:"CALENDAR_REFRESH_SPEC"`
	RoomIDs             []string      `mapstructure:"ROOM_IDS"`

	Presets map[string]PresetConfig `mapstructure:"PRESETS"`
}

var AppConfig Config

func LoadConfig() {
	// A local .env is optional; real environment variables win.
	_ = godotenv.Load()

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_SESSION_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "roombook")
	viper.SetDefault("DAY_START", "08:30")
	viper.SetDefault("DAY_END", "22:00")
	viper.SetDefault("RECONCILE_MAX_DAYS", 12)
	viper.SetDefault("SESSION_TTL", "30m")
	viper.SetDefault("CALENDAR_CACHE_TTL", "10m")
	viper.SetDefault("CALENDAR_REFRESH_SPEC", "*/30 * * * *")
	viper.SetDefault("ROOM_IDS", []string{})
	viper.SetDefault("TRUSTED_PROXIES", []string{})

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
