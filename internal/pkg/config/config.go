package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/shopit/storefront/internal/core/security"
)

const minProductionSecret = 32

type Config struct {
	Port        string `env:"PORT,         default=8080"`
	Env         string `env:"ENV,          default=development"`
	LogLevel    string `env:"LOG_LEVEL,    default=info"`
	FrontendURL string `env:"FRONTEND_URL, default=http://localhost:3000"`

	JWTSecret         string        `env:"JWT_SECRET, required"`
	JWTExpiresTime    time.Duration `env:"JWT_EXPIRES_TIME,    default=168h"`
	BcryptCost        int           `env:"BCRYPT_COST,         default=10"`
	ResetTokenExpires time.Duration `env:"RESET_TOKEN_EXPIRES, default=30m"`

	Mongo MongoConfig
	Redis RedisConfig
	Login LoginConfig
	S3    S3Config
	Mail  MailConfig
}

type MongoConfig struct {
	URI         string `env:"MONGO_URI,           default=mongodb://localhost:27017"`
	Database    string `env:"MONGO_DB,            default=shopit"`
	MaxPoolSize uint64 `env:"MONGO_MAX_POOL_SIZE, default=100"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// LoginConfig bounds failed login attempts per email.
type LoginConfig struct {
	MaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	Window      time.Duration `env:"LOGIN_WINDOW,       default=15m"`
}

type S3Config struct {
	Region    string `env:"S3_REGION,     default=us-east-1"`
	Bucket    string `env:"S3_BUCKET,     default=shopit-avatars"`
	Endpoint  string `env:"S3_ENDPOINT"`
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`
}

type MailConfig struct {
	From    string `env:"SMTP_FROM_EMAIL, default=noreply@shopit.com"`
	Workers int    `env:"MAIL_WORKERS,    default=4"`
}

// Load reads a best-effort .env file (ENV_FILE overrides the path), then the
// process environment.
func Load(ctx context.Context) (*Config, error) {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	_ = godotenv.Load(path)

	return loadFrom(ctx, envconfig.OsLookuper())
}

func loadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.IsProduction() && len(c.JWTSecret) < minProductionSecret {
		return fmt.Errorf("config: JWT_SECRET must be at least %d bytes in production", minProductionSecret)
	}
	p := c.Security()
	if err := p.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "production")
}

// Security returns the credential parameters derived from the configuration.
func (c *Config) Security() *security.Params {
	return &security.Params{
		SigningKey:  []byte(c.JWTSecret),
		SessionTTL:  c.JWTExpiresTime,
		BcryptCost:  c.BcryptCost,
		RecoveryTTL: c.ResetTokenExpires,
	}
}
