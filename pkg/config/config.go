package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string         `json:"port"`
	BaseURL  string         `json:"base_url"`
	Access   AccessConfig   `json:"access"`
	Admin    AdminConfig    `json:"admin"`
	Database DatabaseConfig `json:"database"`
	Redis    RedisConfig    `json:"redis"`
	Payment  PaymentConfig  `json:"payment"`
	Video    VideoConfig    `json:"video"`
	Email    EmailConfig    `json:"email"`
	CORS     CORSConfig     `json:"cors"`
	Log      LogConfig      `json:"log"`
}

// AccessConfig holds token lifecycle and device lock settings.
type AccessConfig struct {
	Timezone     string        `mapstructure:"event_timezone"`
	TokenTTLDays int           `mapstructure:"token_ttl_days"`
	DeviceLimit  int           `mapstructure:"device_limit"`
	CacheTTL     time.Duration `mapstructure:"token_cache_ttl"`
}

// AdminConfig holds admin credential settings. With neither Token nor
// TokenHash set, every admin endpoint is disabled (fail closed).
type AdminConfig struct {
	Token            string `mapstructure:"admin_token"`
	TokenHash        string `mapstructure:"admin_token_hash"`
	AllowLimitBypass bool   `mapstructure:"admin_allow_limit_bypass"`
}

type DatabaseConfig struct {
	Name            string        `mapstructure:"db_name"`
	Host            string        `mapstructure:"db_host"`
	Port            string        `mapstructure:"db_port"`
	Username        string        `mapstructure:"db_username"`
	Password        string        `mapstructure:"db_password"`
	MaxOpenConns    int           `mapstructure:"db_max_open_conns"`
	MaxIdleConns    int           `mapstructure:"db_max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"db_conn_max_lifetime"`
	SSLMode         string        `mapstructure:"db_ssl_mode"` // e.g., "disable", "require", "verify-ca", "verify-full"
}

type RedisConfig struct {
	Host     string `mapstructure:"redis_host"`
	Port     string `mapstructure:"redis_port"`
	Password string `mapstructure:"redis_password"`
	DB       int    `mapstructure:"redis_db"`
}

// PaymentConfig holds the ToyyibPay collaborator settings.
type PaymentConfig struct {
	SecretKey       string `mapstructure:"toyyib_key"`
	CategoryCode    string `mapstructure:"category_code"`
	BaseURL         string `mapstructure:"toyyib_base"` // prod: https://toyyibpay.com
	ReturnURL       string `mapstructure:"return_url"`
	CallbackURL     string `mapstructure:"callback_url"`
	BillName        string `mapstructure:"bill_name"`
	BillDescription string `mapstructure:"bill_description"`
	BillAmountCents int    `mapstructure:"bill_amount_cents"`
	BillExpiryDays  int    `mapstructure:"bill_expiry_days"`
}

// VideoConfig holds the Mux collaborator settings. A non-empty
// FixedPlaybackID skips per-purchase stream provisioning entirely.
type VideoConfig struct {
	MuxTokenID      string        `mapstructure:"mux_token_id"`
	MuxTokenSecret  string        `mapstructure:"mux_token_secret"`
	FixedPlaybackID string        `mapstructure:"fixed_playback_id"`
	PlaybackBaseURL string        `mapstructure:"playback_base_url"`
	SigningSecret   string        `mapstructure:"playback_signing_secret"`
	SigningTTL      time.Duration `mapstructure:"playback_signing_ttl"`
}

type EmailConfig struct {
	Provider  string              `mapstructure:"email_provider"` // "brevo", "smtp", "noop"
	Brevo     BrevoConfig         `mapstructure:"brevo"`
	SMTP      SMTPConfig          `mapstructure:"smtp"`
	Templates EmailTemplateConfig `mapstructure:"templates"`
}

type BrevoConfig struct {
	APIKey    string `mapstructure:"brevo_api_key"`
	FromEmail string `mapstructure:"from_email"`
	FromName  string `mapstructure:"from_name"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"smtp_host"`
	Port     int    `mapstructure:"smtp_port"`
	Username string `mapstructure:"smtp_username"`
	Password string `mapstructure:"smtp_password"`
	UseTLS   bool   `mapstructure:"smtp_use_tls"`
}

type EmailTemplateConfig struct {
	AppName     string `mapstructure:"app_name"`
	DeviceLimit int    `mapstructure:"device_limit"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
	AllowedMethods []string `mapstructure:"cors_allowed_methods"`
	AllowedHeaders []string `mapstructure:"cors_allowed_headers"`
}

type LogConfig struct {
	Level string `mapstructure:"log_level"`
}

func init() {
	if !isGCP {
		err := godotenv.Load()
		if err != nil {
			log.Println("Warning: Could not find or load .env file.")
		}
	}
}

func NewConfig() *Config {
	baseURL := getOptionalSecret("BASE_URL", "http://localhost:8080")

	return &Config{
		Port:    getOptionalSecret("PORT", "8080"),
		BaseURL: baseURL,
		Access: AccessConfig{
			Timezone:     getOptionalSecret("EVENT_TIMEZONE", "Asia/Kuala_Lumpur"),
			TokenTTLDays: parseOptionalInt("TOKEN_TTL_DAYS", 7),
			DeviceLimit:  parseOptionalInt("DEVICE_LIMIT", 2),
			CacheTTL:     parseOptionalDuration("TOKEN_CACHE_TTL", 5*time.Minute),
		},
		Admin: AdminConfig{
			Token:            getOptionalSecret("ADMIN_TOKEN", ""),
			TokenHash:        getOptionalSecret("ADMIN_TOKEN_HASH", ""),
			AllowLimitBypass: getOptionalSecret("ADMIN_ALLOW_LIMIT_BYPASS", "false") == "true",
		},
		Database: DatabaseConfig{
			Name:            getRequiredSecret("DB_NAME"),
			Host:            getRequiredSecret("DB_HOST"),
			Port:            getRequiredSecret("DB_PORT"),
			Username:        getRequiredSecret("DB_USERNAME"),
			Password:        getRequiredSecret("DB_PASSWORD"),
			MaxOpenConns:    parseOptionalInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    parseOptionalInt("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: parseOptionalDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			SSLMode:         getOptionalSecret("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getOptionalSecret("REDIS_HOST", ""),
			Port:     getOptionalSecret("REDIS_PORT", "6379"),
			Password: getOptionalSecret("REDIS_PASSWORD", ""),
			DB:       parseOptionalInt("REDIS_DB", 0),
		},
		Payment: PaymentConfig{
			SecretKey:       getOptionalSecret("TOYYIB_KEY", ""),
			CategoryCode:    getOptionalSecret("CATEGORY_CODE", ""),
			BaseURL:         getOptionalSecret("TOYYIB_BASE", "https://dev.toyyibpay.com"),
			ReturnURL:       getOptionalSecret("RETURN_URL", baseURL+"/resume"),
			CallbackURL:     getOptionalSecret("CALLBACK_URL", baseURL+"/payments/callback"),
			BillName:        getOptionalSecret("BILL_NAME", "PPV Ticket"),
			BillDescription: getOptionalSecret("BILL_DESCRIPTION", "Livestream access"),
			BillAmountCents: parseOptionalInt("BILL_AMOUNT_CENTS", 790),
			BillExpiryDays:  parseOptionalInt("BILL_EXPIRY_DAYS", 3),
		},
		Video: VideoConfig{
			MuxTokenID:      getOptionalSecret("MUX_TOKEN_ID", ""),
			MuxTokenSecret:  getOptionalSecret("MUX_TOKEN_SECRET", ""),
			FixedPlaybackID: getOptionalSecret("FIXED_PLAYBACK_ID", ""),
			PlaybackBaseURL: getOptionalSecret("PLAYBACK_BASE_URL", "https://stream.mux.com"),
			SigningSecret:   getOptionalSecret("PLAYBACK_SIGNING_SECRET", ""),
			SigningTTL:      parseOptionalDuration("PLAYBACK_SIGNING_TTL", time.Minute),
		},
		Email: EmailConfig{
			Provider: getOptionalSecret("EMAIL_PROVIDER", "noop"),
			Brevo: BrevoConfig{
				APIKey:    getOptionalSecret("BREVO_API_KEY", ""),
				FromEmail: getOptionalSecret("FROM_EMAIL", ""),
				FromName:  getOptionalSecret("FROM_NAME", "PPV Gate"),
			},
			SMTP: SMTPConfig{
				Host:     getOptionalSecret("SMTP_HOST", ""),
				Port:     parseOptionalInt("SMTP_PORT", 587),
				Username: getOptionalSecret("SMTP_USERNAME", ""),
				Password: getOptionalSecret("SMTP_PASSWORD", ""),
				UseTLS:   getOptionalSecret("SMTP_USE_TLS", "true") == "true",
			},
			Templates: EmailTemplateConfig{
				AppName:     getOptionalSecret("APP_NAME", "PPV Gate"),
				DeviceLimit: parseOptionalInt("DEVICE_LIMIT", 2),
			},
		},
		CORS: CORSConfig{
			AllowedOrigins: parseList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: parseList("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
			AllowedHeaders: parseList("CORS_ALLOWED_HEADERS", []string{"*"}),
		},
		Log: LogConfig{
			Level: getOptionalSecret("LOG_LEVEL", "info"),
		},
	}
}
