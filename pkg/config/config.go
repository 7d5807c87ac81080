package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL string
	// Pool sizing: reconciliation and backfill scans run alongside request
	// traffic against the same pool.
	DBMaxConns   int32
	DBMinConns   int32
	Port         string
	IsProduction bool

	// RingMode is the rollout stage for issuance: off, shadow, or live.
	// It is read once at the start of each operation and threaded through.
	RingMode string

	ServiceJWTSecret string

	// Issuance and guardrail tuning.
	BaseAwardAmount         int64
	DailyEarnCap            int64
	MinEarnInterval         time.Duration
	AnomalyThresholdPerHour int

	// Reconciliation refuses to heal balances beyond this magnitude.
	OverflowCeiling int64

	// External balance sync pacing.
	SyncCallsPerMinute int

	// Identity provider that mirrors user balances.
	IdentityProviderURL   string
	IdentityProviderToken string

	// Drift notifications.
	PosthogAPIKey   string
	PosthogEndpoint string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_MIN_CONNS", 2)
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("RING_MODE", "off")
	viper.SetDefault("SERVICE_JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("BASE_AWARD_AMOUNT", 10)
	viper.SetDefault("DAILY_EARN_CAP", 100)
	viper.SetDefault("MIN_EARN_INTERVAL", "300s")
	viper.SetDefault("ANOMALY_THRESHOLD_PER_HOUR", 20)
	viper.SetDefault("OVERFLOW_CEILING", 1_000_000_000)
	viper.SetDefault("SYNC_CALLS_PER_MINUTE", 60)
	viper.SetDefault("IDENTITY_PROVIDER_URL", "")
	viper.SetDefault("IDENTITY_PROVIDER_TOKEN", "")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "https://us.i.posthog.com")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.DBMaxConns = viper.GetInt32("DB_MAX_CONNS")
	cfg.DBMinConns = viper.GetInt32("DB_MIN_CONNS")
	if cfg.DBMaxConns < 1 || cfg.DBMinConns > cfg.DBMaxConns {
		log.Printf("Warning: Invalid pool sizing (min %d, max %d). Defaulting to 2/10.\n", cfg.DBMinConns, cfg.DBMaxConns)
		cfg.DBMinConns, cfg.DBMaxConns = 2, 10
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.RingMode = viper.GetString("RING_MODE")
	switch cfg.RingMode {
	case "off", "shadow", "live":
	default:
		log.Printf("Warning: Invalid value for RING_MODE ('%s'). Defaulting to off.\n", cfg.RingMode)
		cfg.RingMode = "off"
	}

	cfg.ServiceJWTSecret = viper.GetString("SERVICE_JWT_SECRET")
	if cfg.ServiceJWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: SERVICE_JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.BaseAwardAmount = viper.GetInt64("BASE_AWARD_AMOUNT")
	cfg.DailyEarnCap = viper.GetInt64("DAILY_EARN_CAP")

	minIntervalStr := viper.GetString("MIN_EARN_INTERVAL")
	minInterval, err := time.ParseDuration(minIntervalStr)
	if err != nil {
		minInterval = 300 * time.Second
		log.Printf("Warning: Invalid value for MIN_EARN_INTERVAL ('%s'). Defaulting to %s.\n", minIntervalStr, minInterval.String())
	}
	cfg.MinEarnInterval = minInterval

	cfg.AnomalyThresholdPerHour = viper.GetInt("ANOMALY_THRESHOLD_PER_HOUR")
	cfg.OverflowCeiling = viper.GetInt64("OVERFLOW_CEILING")
	cfg.SyncCallsPerMinute = viper.GetInt("SYNC_CALLS_PER_MINUTE")

	cfg.IdentityProviderURL = viper.GetString("IDENTITY_PROVIDER_URL")
	cfg.IdentityProviderToken = viper.GetString("IDENTITY_PROVIDER_TOKEN")
	if cfg.IdentityProviderURL == "" {
		log.Println("Warning: IDENTITY_PROVIDER_URL not set. External balance sync will not function.")
	}

	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.PosthogEndpoint = viper.GetString("POSTHOG_ENDPOINT")
	if cfg.PosthogAPIKey == "" {
		log.Println("Warning: POSTHOG_API_KEY not set. Drift notifications will only be logged.")
	}

	return cfg, nil
}
