package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	OAuth     OAuthConfig
	Session   SessionConfig
	Bridge    BridgeConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// OAuthConfig configures the identity provider adapter. Provider selects the
// adapter ("github" or "oidc"); Issuer is only used by the oidc adapter.
type OAuthConfig struct {
	Provider     string
	ClientID     string
	ClientSecret string
	CallbackBase string // externally reachable base URL, e.g. http://localhost:3000
	Issuer       string
	DefaultOrg   string
}

type SessionConfig struct {
	Secret string // signs the OAuth state parameter and names nothing else
	TTL    time.Duration
}

type BridgeConfig struct {
	TokenTTL      time.Duration
	SweepInterval time.Duration
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "3000")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("MONGODB_DATABASE", "orgvault")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("OAUTH_PROVIDER", "github")
	viper.SetDefault("OAUTH_CALLBACK_BASE", "http://localhost:3000")
	viper.SetDefault("OAUTH_DEFAULT_ORG", "DefaultOrg")
	viper.SetDefault("SESSION_TTL", 10080)
	viper.SetDefault("BRIDGE_TOKEN_TTL", 10)
	viper.SetDefault("BRIDGE_SWEEP_INTERVAL", 1)
	viper.SetDefault("RATE_LIMIT_RPS", 10)
	viper.SetDefault("RATE_LIMIT_BURST", 20)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
		},
		OAuth: OAuthConfig{
			Provider:     viper.GetString("OAUTH_PROVIDER"),
			ClientID:     viper.GetString("OAUTH_CLIENT_ID"),
			ClientSecret: os.Getenv("OAUTH_CLIENT_SECRET"),
			CallbackBase: viper.GetString("OAUTH_CALLBACK_BASE"),
			Issuer:       viper.GetString("OAUTH_ISSUER"),
			DefaultOrg:   viper.GetString("OAUTH_DEFAULT_ORG"),
		},
		Session: SessionConfig{
			Secret: os.Getenv("SESSION_SECRET"),
			TTL:    time.Duration(viper.GetInt("SESSION_TTL")) * time.Minute,
		},
		Bridge: BridgeConfig{
			TokenTTL:      time.Duration(viper.GetInt("BRIDGE_TOKEN_TTL")) * time.Minute,
			SweepInterval: time.Duration(viper.GetInt("BRIDGE_SWEEP_INTERVAL")) * time.Minute,
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
	}

	// Basic validation
	if cfg.Session.Secret == "" {
		log.Println("WARNING: SESSION_SECRET is not set; set a secure value in production")
	}

	return cfg, nil
}
