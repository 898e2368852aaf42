package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port            string        `env:"PORT,             default=5000"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	ClientURL       string        `env:"CLIENT_URL,       default=http://localhost:5173"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=15s"`

	Session   SessionConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	NATS      NATSConfig
	Google    GoogleConfig
	Media     MediaConfig
	RateLimit RateLimitConfig
}

type SessionConfig struct {
	Secret string `env:"SECRET"`
	// TTL of issued tokens. Zero issues tokens without an expiry.
	TTL            time.Duration `env:"SESSION_TTL,             default=0s"`
	CookieName     string        `env:"SESSION_COOKIE_NAME,     default=token"`
	CookieSecure   bool          `env:"SESSION_COOKIE_SECURE,   default=true"`
	CookieSameSite string        `env:"SESSION_COOKIE_SAMESITE, default=none"`
}

type MongoConfig struct {
	URI      string        `env:"MONGODB_URL,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGODB_DB,      default=airbnb"`
	Timeout  time.Duration `env:"MONGODB_TIMEOUT, default=10s"`
}

// RedisConfig enables the listing cache when Addr is set.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,  default=0"`
	CacheTTL time.Duration `env:"CACHE_TTL, default=10m"`
}

// NATSConfig enables domain events when URL is set.
type NATSConfig struct {
	URL           string `env:"NATS_URL"`
	SubjectPrefix string `env:"NATS_SUBJECT_PREFIX, default=rental"`
}

type GoogleConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	CallbackURL  string `env:"GOOGLE_CALLBACK_URL, default=http://localhost:5000/auth/google/callback"`
}

type MediaConfig struct {
	Backend        string        `env:"MEDIA_BACKEND,     default=disk"`
	UploadDir      string        `env:"UPLOAD_DIR,        default=uploads"`
	PublicURL      string        `env:"UPLOAD_PUBLIC_URL, default=/uploads"`
	MaxUploadBytes int64         `env:"MAX_UPLOAD_BYTES,  default=10485760"`
	MaxFiles       int           `env:"MAX_UPLOAD_FILES,  default=100"`
	CleanupWorkers int           `env:"CLEANUP_WORKERS,   default=4"`
	CleanupTimeout time.Duration `env:"CLEANUP_TIMEOUT,   default=15s"`

	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3Bucket    string `env:"S3_BUCKET,  default=photos"`
	S3UseSSL    bool   `env:"S3_USE_SSL, default=false"`
	S3PublicURL string `env:"S3_PUBLIC_URL"`

	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`
	CloudinaryFolder    string `env:"CLOUDINARY_FOLDER, default=airbnb"`
}

// RateLimitConfig applies per client IP to /login and /register.
type RateLimitConfig struct {
	Rate    float64       `env:"AUTH_RATE_LIMIT,   default=5"`
	Burst   int           `env:"AUTH_RATE_BURST,   default=10"`
	Expires time.Duration `env:"AUTH_RATE_EXPIRES, default=3m"`
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// GoogleEnabled reports whether Google sign-in is configured.
func (c *Config) GoogleEnabled() bool {
	return c.Google.ClientID != "" && c.Google.ClientSecret != ""
}

// Validate checks settings whose absence would only surface at request time.
func (c *Config) Validate() error {
	var errs []error
	if c.Session.Secret == "" {
		errs = append(errs, errors.New("SECRET is required"))
	}
	switch strings.ToLower(c.Session.CookieSameSite) {
	case "none", "lax", "strict", "default":
	default:
		errs = append(errs, fmt.Errorf("SESSION_COOKIE_SAMESITE: unknown value %q", c.Session.CookieSameSite))
	}

	switch strings.ToLower(c.Media.Backend) {
	case "disk":
		if c.Media.UploadDir == "" {
			errs = append(errs, errors.New("UPLOAD_DIR is required for the disk backend"))
		}
	case "s3":
		if c.Media.S3Endpoint == "" || c.Media.S3AccessKey == "" || c.Media.S3SecretKey == "" {
			errs = append(errs, errors.New("S3_ENDPOINT, S3_ACCESS_KEY and S3_SECRET_KEY are required for the s3 backend"))
		}
	case "cloudinary":
		if c.Media.CloudinaryCloudName == "" || c.Media.CloudinaryAPIKey == "" || c.Media.CloudinaryAPISecret == "" {
			errs = append(errs, errors.New("CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required for the cloudinary backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("MEDIA_BACKEND: unknown backend %q", c.Media.Backend))
	}

	if c.RateLimit.Rate <= 0 {
		errs = append(errs, errors.New("AUTH_RATE_LIMIT must be positive"))
	}
	return errors.Join(errs...)
}

// LoadWith processes configuration from lookuper and validates it.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads a .env file when present, then configuration from environment
// variables using go-envconfig.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(fmt.Sprintf("config: failed to read .env: %v", err))
	}

	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}
