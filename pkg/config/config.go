package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database    DatabaseConfig
	Redis       RedisConfig
	Session     SessionConfig
	OAuth       OAuthConfig
	Access      AccessConfig
	Storage     StorageConfig
	Mail        MailConfig
	CORS        CORSConfig
	Log         LogConfig
	Maintenance MaintenanceConfig
	Showcase    ShowcaseConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// SessionConfig governs the signed session token handed out after OAuth sign-in.
// The token carries only the user's email; role and profile data are re-read from
// the database on every request.
type SessionConfig struct {
	Secret     string
	Expiration time.Duration
	CookieName string
}

// OAuthConfig holds the third-party provider credentials.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	StateTTL     time.Duration
}

// AccessConfig defines who may sign in and who holds the super-admin bypass.
type AccessConfig struct {
	// AllowedDomain is the institutional email domain suffix, e.g. "poornima.org".
	AllowedDomain string
	// SuperAdminEmails always authenticate and always hold super-admin authority
	// regardless of the stored role. Checked through authz only, never inline.
	SuperAdminEmails []string
}

// StorageConfig selects and configures the object-storage backend.
type StorageConfig struct {
	// Backend is "s3" or "local".
	Backend         string
	Bucket          string
	Region          string
	Endpoint        string
	AccessKey       string
	SecretKey       string
	CDNURL          string
	LocalDir        string
	SignedURLSecret string
	SignedURLTTL    time.Duration
}

// MailConfig configures the outbound mail backend ("sendgrid" or "console").
type MailConfig struct {
	Backend     string
	SendGridKey string
	FromName    string
	FromAddress string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// MaintenanceConfig routes non-API traffic to a static maintenance response when enabled.
type MaintenanceConfig struct {
	Enabled bool
}

// ShowcaseConfig tunes caching of the public showcase listing.
type ShowcaseConfig struct {
	CacheTTL time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Session = SessionConfig{
		Secret:     v.GetString("SESSION_SECRET"),
		Expiration: parseDuration(v.GetString("SESSION_EXPIRATION"), 24*time.Hour),
		CookieName: v.GetString("SESSION_COOKIE_NAME"),
	}

	cfg.OAuth = OAuthConfig{
		ClientID:     v.GetString("OAUTH_CLIENT_ID"),
		ClientSecret: v.GetString("OAUTH_CLIENT_SECRET"),
		RedirectURL:  v.GetString("OAUTH_REDIRECT_URL"),
		StateTTL:     parseDuration(v.GetString("OAUTH_STATE_TTL"), 10*time.Minute),
	}

	cfg.Access = AccessConfig{
		AllowedDomain:    v.GetString("ALLOWED_EMAIL_DOMAIN"),
		SuperAdminEmails: splitAndTrim(v.GetString("SUPERADMIN_EMAILS")),
	}

	cfg.Storage = StorageConfig{
		Backend:         v.GetString("STORAGE_BACKEND"),
		Bucket:          v.GetString("STORAGE_BUCKET"),
		Region:          v.GetString("STORAGE_REGION"),
		Endpoint:        v.GetString("STORAGE_ENDPOINT"),
		AccessKey:       v.GetString("STORAGE_ACCESS_KEY"),
		SecretKey:       v.GetString("STORAGE_SECRET_KEY"),
		CDNURL:          v.GetString("STORAGE_CDN_URL"),
		LocalDir:        v.GetString("STORAGE_LOCAL_DIR"),
		SignedURLSecret: v.GetString("STORAGE_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("STORAGE_SIGNED_URL_TTL"), time.Hour),
	}

	cfg.Mail = MailConfig{
		Backend:     v.GetString("MAIL_BACKEND"),
		SendGridKey: v.GetString("SENDGRID_API_KEY"),
		FromName:    v.GetString("MAIL_FROM_NAME"),
		FromAddress: v.GetString("MAIL_FROM_ADDRESS"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Maintenance = MaintenanceConfig{
		Enabled: v.GetBool("MAINTENANCE_MODE"),
	}

	cfg.Showcase = ShowcaseConfig{
		CacheTTL: parseDuration(v.GetString("SHOWCASE_CACHE_TTL"), 5*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "idealab")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("SESSION_SECRET", "dev_secret")
	v.SetDefault("SESSION_EXPIRATION", "24h")
	v.SetDefault("SESSION_COOKIE_NAME", "idealab_session")

	v.SetDefault("OAUTH_CLIENT_ID", "")
	v.SetDefault("OAUTH_CLIENT_SECRET", "")
	v.SetDefault("OAUTH_REDIRECT_URL", "http://localhost:8080/api/v1/auth/callback")
	v.SetDefault("OAUTH_STATE_TTL", "10m")

	v.SetDefault("ALLOWED_EMAIL_DOMAIN", "poornima.org")
	v.SetDefault("SUPERADMIN_EMAILS", "director@poornima.org,idealab.head@poornima.org")

	v.SetDefault("STORAGE_BACKEND", "local")
	v.SetDefault("STORAGE_BUCKET", "idealab-uploads")
	v.SetDefault("STORAGE_REGION", "ap-south-1")
	v.SetDefault("STORAGE_ENDPOINT", "")
	v.SetDefault("STORAGE_ACCESS_KEY", "")
	v.SetDefault("STORAGE_SECRET_KEY", "")
	v.SetDefault("STORAGE_CDN_URL", "")
	v.SetDefault("STORAGE_LOCAL_DIR", "./uploads")
	v.SetDefault("STORAGE_SIGNED_URL_SECRET", "dev_storage_secret")
	v.SetDefault("STORAGE_SIGNED_URL_TTL", "1h")

	v.SetDefault("MAIL_BACKEND", "console")
	v.SetDefault("SENDGRID_API_KEY", "")
	v.SetDefault("MAIL_FROM_NAME", "Idea Lab")
	v.SetDefault("MAIL_FROM_ADDRESS", "idealab@poornima.org")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("MAINTENANCE_MODE", false)
	v.SetDefault("SHOWCASE_CACHE_TTL", "5m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
