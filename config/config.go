package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort     string `mapstructure:"APP_PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`
	Env         string `mapstructure:"ENV"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisDedupeDB int    `mapstructure:"REDIS_DEDUPE_DB"`
	RedisSweepDB  int    `mapstructure:"REDIS_SWEEP_DB"`

	// Stripe.
	StripeKey string `mapstructure:"STRIPE_KEY"`

	// Booking engine knobs.
	SlotGranularityMinutes  int    `mapstructure:"SLOT_GRANULARITY_MINUTES"`
	MaxLookaheadDays        int    `mapstructure:"MAX_LOOKAHEAD_DAYS"`
	CancellationWindowHours int    `mapstructure:"CANCELLATION_WINDOW_HOURS"`
	SweepInterval           string `mapstructure:"SWEEP_INTERVAL"`

	// Comma-separated user IDs with admin privileges.
	AdminUserIDs string `mapstructure:"ADMIN_USER_IDS"`
}

var AppConfig Config

func LoadConfig() {
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
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "marketplace")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_DEDUPE_DB", 1)
	viper.SetDefault("REDIS_SWEEP_DB", 2)
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("SLOT_GRANULARITY_MINUTES", 30)
	viper.SetDefault("MAX_LOOKAHEAD_DAYS", 90)
	viper.SetDefault("CANCELLATION_WINDOW_HOURS", 24)
	viper.SetDefault("SWEEP_INTERVAL", "@every 5m")
	viper.SetDefault("ADMIN_USER_IDS", "")

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

// AdminIDs returns the configured admin user IDs as a slice.
func AdminIDs() []string {
	raw := strings.TrimSpace(AppConfig.AdminUserIDs)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if id := strings.TrimSpace(p); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
