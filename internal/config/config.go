package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	App   AppConfig
	DB    DBConfig
	Redis RedisConfig
	JWT   JWTConfig
	CORS  CORSConfig
	SMTP  SMTPConfig
	Push  PushConfig
	Taps  TapsConfig
}

type AppConfig struct {
	Env  string
	Port string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns the PostgreSQL connection string
func (d DBConfig) DSN() string {
	return "host=" + d.Host +
		" user=" + d.User +
		" password=" + d.Password +
		" dbname=" + d.Name +
		" port=" + d.Port +
		" sslmode=" + d.SSLMode +
		" TimeZone=UTC"
}

// URL returns the PostgreSQL connection URL (for golang-migrate)
func (d DBConfig) URL() string {
	return "postgres://" + d.User + ":" + d.Password +
		"@" + d.Host + ":" + d.Port +
		"/" + d.Name + "?sslmode=" + d.SSLMode
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

// Addr returns the Redis address
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

type CORSConfig struct {
	Origins []string
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

type PushConfig struct {
	FirebaseCredentials string // service-account JSON file path; empty = FCM disabled
	APNsKeyPath         string
	APNsKeyID           string
	APNsTeamID          string
	APNsBundleID        string
	APNsUseSandbox      bool
}

// TapsConfig holds the enforcement-domain knobs. The agency operates in
// local civil time, so the timezone drives both the prediction day
// boundary and the nightly auto-checkout hour.
type TapsConfig struct {
	Timezone          string
	ReminderThreshold time.Duration // parked this long without checkout => reminder
	ScanInterval      time.Duration // reminder sweep cadence
	AutoCheckoutHour  int           // local hour of the nightly force-close sweep
}

// Load reads configuration from .env file and environment variables
func Load() *Config {
	// Load .env file (ignore error if not exists - e.g. in Docker)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading from environment variables")
	}

	jwtExpiry, err := time.ParseDuration(getEnv("JWT_EXPIRY", "720h"))
	if err != nil {
		jwtExpiry = 720 * time.Hour
	}

	reminderThreshold, err := time.ParseDuration(getEnv("REMINDER_THRESHOLD", "3h"))
	if err != nil {
		reminderThreshold = 3 * time.Hour
	}

	scanInterval, err := time.ParseDuration(getEnv("REMINDER_SCAN_INTERVAL", "5m"))
	if err != nil {
		scanInterval = 5 * time.Minute
	}

	autoCheckoutHour, err := strconv.Atoi(getEnv("AUTO_CHECKOUT_HOUR", "22"))
	if err != nil || autoCheckoutHour < 0 || autoCheckoutHour > 23 {
		autoCheckoutHour = 22
	}

	return &Config{
		App: AppConfig{
			Env:  getEnv("APP_ENV", "development"),
			Port: getEnv("APP_PORT", "8080"),
		},
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "warnabrotha"),
			Password: getEnv("DB_PASSWORD", "warnabrotha"),
			Name:     getEnv("DB_NAME", "warnabrotha"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "default-secret"),
			Expiry: jwtExpiry,
		},
		CORS: CORSConfig{
			Origins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "mailpit"),
			Port:     getEnv("SMTP_PORT", "1025"),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "noreply@warnabrotha.local"),
			FromName: getEnv("SMTP_FROM_NAME", "WarnABrotha"),
		},
		Push: PushConfig{
			FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
			APNsKeyPath:         getEnv("APNS_KEY_PATH", ""),
			APNsKeyID:           getEnv("APNS_KEY_ID", ""),
			APNsTeamID:          getEnv("APNS_TEAM_ID", ""),
			APNsBundleID:        getEnv("APNS_BUNDLE_ID", ""),
			APNsUseSandbox:      getEnv("APNS_USE_SANDBOX", "true") == "true",
		},
		Taps: TapsConfig{
			Timezone:          getEnv("TAPS_TIMEZONE", "America/Los_Angeles"),
			ReminderThreshold: reminderThreshold,
			ScanInterval:      scanInterval,
			AutoCheckoutHour:  autoCheckoutHour,
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
