package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Storage   string          `mapstructure:"storage"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Password  PasswordConfig  `mapstructure:"password"`
	Authz     AuthzConfig     `mapstructure:"authorization"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig is optional; an empty Host disables the post cache.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret               string        `mapstructure:"secret"`
	TokenLifetime        time.Duration `mapstructure:"token_lifetime"`
	RefreshTokenLifetime time.Duration `mapstructure:"refresh_token_lifetime"`
}

type PasswordConfig struct {
	MinLength              int  `mapstructure:"min_length"`
	RequireDigit           bool `mapstructure:"require_digit"`
	RequireLowercase       bool `mapstructure:"require_lowercase"`
	RequireUppercase       bool `mapstructure:"require_uppercase"`
	RequireNonAlphanumeric bool `mapstructure:"require_non_alphanumeric"`
	BcryptCost             int  `mapstructure:"bcrypt_cost"`
}

// AuthzConfig names the claim every posts request must carry. An empty
// PostsClaim leaves the posts endpoints open to any authenticated user.
type AuthzConfig struct {
	PostsClaim      string `mapstructure:"posts_claim"`
	PostsClaimValue string `mapstructure:"posts_claim_value"`
}

type RateLimitConfig struct {
	RequestsPerMinute float64       `mapstructure:"requests_per_minute"`
	Burst             int           `mapstructure:"burst"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	minSecretLength = 32
)

// LoadConfig reads config.yml from path, applies BLOGGER_* environment
// overrides and validates the result. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvPrefix("BLOGGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage", StoragePostgres)

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "blogger")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.token_lifetime", 45*time.Second)
	v.SetDefault("jwt.refresh_token_lifetime", 4*30*24*time.Hour)

	v.SetDefault("password.min_length", 6)
	v.SetDefault("password.require_digit", true)
	v.SetDefault("password.require_lowercase", true)
	v.SetDefault("password.require_uppercase", true)
	v.SetDefault("password.require_non_alphanumeric", true)
	v.SetDefault("password.bcrypt_cost", 12)

	v.SetDefault("authorization.posts_claim", "")
	v.SetDefault("authorization.posts_claim_value", "true")

	v.SetDefault("rate_limit.requests_per_minute", 30)
	v.SetDefault("rate_limit.burst", 10)
	v.SetDefault("rate_limit.cleanup_interval", 5*time.Minute)

	v.SetDefault("cache.ttl", 10*time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if len(c.JWT.Secret) < minSecretLength {
		return fmt.Errorf("jwt.secret must be at least %d characters", minSecretLength)
	}
	if c.JWT.TokenLifetime <= 0 {
		return errors.New("jwt.token_lifetime must be positive")
	}
	if c.JWT.RefreshTokenLifetime <= 0 {
		return errors.New("jwt.refresh_token_lifetime must be positive")
	}
	if c.Storage != StoragePostgres && c.Storage != StorageMemory {
		return fmt.Errorf("unknown storage %q", c.Storage)
	}
	return nil
}

// URL returns the connection string understood by both lib/pq and migrate.
func (d DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}

// SafeURL is URL with the password redacted, for logging.
func (d DatabaseConfig) SafeURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.User(d.User),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}

func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}
