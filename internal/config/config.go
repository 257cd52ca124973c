package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	AuthProviderGoTrue = "gotrue"
	AuthProviderLocal  = "local"
)

var defaultStages = []string{"New", "Contacted", "Qualified", "Proposal", "Negotiation", "Won", "Lost"}

type Config struct {
	Port         string `yaml:"port"`
	DatabaseURL  string `yaml:"database_url"`
	RedisURL     string `yaml:"redis_url"`
	RabbitMQURL  string `yaml:"rabbitmq_url"`
	JWTSecret    string `yaml:"jwt_secret"`
	AuthProvider string `yaml:"auth_provider"`

	SupabaseURL            string `yaml:"supabase_url"`
	SupabaseAnonKey        string `yaml:"supabase_anon_key"`
	SupabaseServiceRoleKey string `yaml:"supabase_service_role_key"`

	ResendAPIKey    string `yaml:"resend_api_key"`
	ResendEmailFrom string `yaml:"resend_email_from"`
	ResendURL       string `yaml:"resend_url"`

	MailHost string `yaml:"mail_host"`
	MailPort int    `yaml:"mail_port"`
	MailUser string `yaml:"mail_user"`
	MailPass string `yaml:"mail_pass"`

	AppURL             string   `yaml:"app_url"`
	CORSOrigins        []string `yaml:"cors_origins"`
	CacheTTLSeconds    int      `yaml:"cache_ttl_seconds"`
	FollowupWatchSecs  int      `yaml:"followup_watch_seconds"`
	Timezone           string   `yaml:"timezone"`
	RateLimitPerMinute int      `yaml:"rate_limit_per_minute"`
	OTLPEndpoint       string   `yaml:"otel_exporter_otlp_endpoint"`
	DefaultStages      []string `yaml:"default_stages"`
}

// Load reads .env (optional), then the YAML file named by CRM_CONFIG_FILE
// (optional), then lets environment variables override both.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if path := os.Getenv("CRM_CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.Port = readString("PORT", cfg.Port, "8080")
	cfg.DatabaseURL = readString("DATABASE_URL", cfg.DatabaseURL, "")
	cfg.RedisURL = readString("REDIS_URL", cfg.RedisURL, "")
	cfg.RabbitMQURL = readString("RABBITMQ_URL", cfg.RabbitMQURL, "")
	cfg.JWTSecret = readString("JWT_SECRET", cfg.JWTSecret, "")
	cfg.AuthProvider = strings.ToLower(readString("AUTH_PROVIDER", cfg.AuthProvider, ""))

	cfg.SupabaseURL = strings.TrimRight(readString("SUPABASE_URL", cfg.SupabaseURL, ""), "/")
	cfg.SupabaseAnonKey = readString("SUPABASE_ANON_KEY", cfg.SupabaseAnonKey, "")
	cfg.SupabaseServiceRoleKey = readString("SUPABASE_SERVICE_ROLE_KEY", cfg.SupabaseServiceRoleKey, "")

	cfg.ResendAPIKey = readString("RESEND_API_KEY", cfg.ResendAPIKey, "")
	cfg.ResendEmailFrom = readString("RESEND_EMAIL_FROM", cfg.ResendEmailFrom, "onboarding@resend.dev")
	cfg.ResendURL = readString("RESEND_URL", cfg.ResendURL, "https://api.resend.com")

	cfg.MailHost = readString("MAIL_HOST", cfg.MailHost, "")
	cfg.MailPort = readInt("MAIL_PORT", cfg.MailPort, 587)
	cfg.MailUser = readString("MAIL_USER", cfg.MailUser, "")
	cfg.MailPass = readString("MAIL_PASS", cfg.MailPass, "")

	cfg.AppURL = strings.TrimRight(readString("APP_URL", cfg.AppURL, "http://localhost:3000"), "/")
	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		cfg.CORSOrigins = splitList(raw)
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{cfg.AppURL}
	}
	cfg.CacheTTLSeconds = readInt("CACHE_TTL_SECONDS", cfg.CacheTTLSeconds, 300)
	cfg.FollowupWatchSecs = readInt("FOLLOWUP_WATCH_SECONDS", cfg.FollowupWatchSecs, 60)
	cfg.Timezone = readString("TIMEZONE", cfg.Timezone, "Local")
	cfg.RateLimitPerMinute = readInt("RATE_LIMIT_PER_MINUTE", cfg.RateLimitPerMinute, 10)
	cfg.OTLPEndpoint = readString("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTLPEndpoint, "")
	if len(cfg.DefaultStages) == 0 {
		cfg.DefaultStages = defaultStages
	}

	if cfg.AuthProvider == "" {
		cfg.AuthProvider = AuthProviderLocal
		if cfg.SupabaseURL != "" {
			cfg.AuthProvider = AuthProviderGoTrue
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.AuthProvider {
	case AuthProviderLocal:
	case AuthProviderGoTrue:
		if c.SupabaseURL == "" || c.SupabaseAnonKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_ANON_KEY are required for the gotrue provider")
		}
	default:
		return fmt.Errorf("unknown AUTH_PROVIDER %q", c.AuthProvider)
	}
	return nil
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c *Config) FollowupWatchInterval() time.Duration {
	return time.Duration(c.FollowupWatchSecs) * time.Second
}

// Location resolves Timezone, falling back to the process local zone.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func readString(key, current, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if current != "" {
		return current
	}
	return fallback
}

func readInt(key string, current, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		if current > 0 {
			return current
		}
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
