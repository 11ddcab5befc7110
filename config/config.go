package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/trust-ethos/ethos-anonymous-reviews/pkg/errors"
)

// Config holds all configuration for the service. It is constructed once at
// startup and passed by reference into the components that need it; nothing
// reads the environment after Load returns.
type Config struct {
	Server     ServerConfig
	Session    SessionConfig
	Security   SecurityConfig
	Guard      GuardConfig
	Redis      RedisConfig
	Twitter    TwitterConfig
	Ethos      EthosConfig
	Blockchain BlockchainConfig
	Discord    DiscordConfig
	Logging    LoggingConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// SessionConfig holds session token configuration.
type SessionConfig struct {
	// Secret signs session tokens and OAuth state tokens.
	Secret        string
	TTL           time.Duration
	CookieName    string
	SecureCookies bool
}

// SecurityConfig holds request-level security configuration.
type SecurityConfig struct {
	AllowedOrigins []string

	// Review submissions: 3 per 5 minutes per user.
	ReviewRateMax    int
	ReviewRateWindow time.Duration

	// Slash requests: 3 per hour per user.
	SlashRateMax    int
	SlashRateWindow time.Duration

	// Anonymization of user IDs in logs and rate-limit keys.
	AnonymizeUserIDs  bool
	AnonymizationSalt string
}

// GuardConfig selects the backing store for CSRF/nonce/rate-limit state.
type GuardConfig struct {
	// Backend is "memory" (single instance) or "redis".
	Backend  string
	TokenTTL time.Duration
}

// RedisConfig holds Redis configuration, used when Guard.Backend is "redis".
type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// TwitterConfig holds X OAuth 2.0 configuration.
type TwitterConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// EthosConfig holds reputation oracle configuration.
type EthosConfig struct {
	BaseURL string
	Timeout time.Duration
}

// BlockchainConfig holds EVM submission configuration.
type BlockchainConfig struct {
	// Network is "mainnet" or "testnet".
	Network         string
	RPCURL          string
	PrivateKey      string
	ContractAddress string
	ChainID         int64
	Confirmations   uint64

	// ConfirmTimeout bounds the confirmation wait (observed 30-60s on Base;
	// five minutes is the hard ceiling).
	ConfirmTimeout time.Duration
}

// DiscordConfig holds the notification side-channel configuration.
type DiscordConfig struct {
	Enabled    bool
	WebhookURL string
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level         string
	Environment   string
	AuditEnabled  bool
	AuditDBPath   string
	RetentionDays int
	BufferSize    int
}

// Load loads configuration from environment variables.
func Load() *Config {
	network := getEnv("BLOCKCHAIN_NETWORK", "mainnet")

	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvInt("SERVER_PORT", 8000),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 120*time.Second),
			IdleTimeout:  getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		},
		Session: SessionConfig{
			Secret:        os.Getenv("SESSION_SECRET"),
			TTL:           getEnvDuration("SESSION_TTL", 2*time.Hour),
			CookieName:    getEnv("SESSION_COOKIE_NAME", "twitter_session"),
			SecureCookies: getEnvBool("SECURE_COOKIES", true),
		},
		Security: SecurityConfig{
			AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", []string{
				"http://localhost:8000",
				"https://anon.ethos.network",
			}),
			ReviewRateMax:     getEnvInt("REVIEW_RATE_MAX", 3),
			ReviewRateWindow:  getEnvDuration("REVIEW_RATE_WINDOW", 5*time.Minute),
			SlashRateMax:      getEnvInt("SLASH_RATE_MAX", 3),
			SlashRateWindow:   getEnvDuration("SLASH_RATE_WINDOW", time.Hour),
			AnonymizeUserIDs:  getEnvBool("ANONYMIZE_USER_IDS", true),
			AnonymizationSalt: getEnv("ANONYMIZATION_SALT", "default_salt"),
		},
		Guard: GuardConfig{
			Backend:  getEnv("GUARD_BACKEND", "memory"),
			TokenTTL: getEnvDuration("GUARD_TOKEN_TTL", time.Hour),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvInt("REDIS_DB", 0),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 5),
		},
		Twitter: TwitterConfig{
			ClientID:     os.Getenv("TWITTER_CLIENT_ID"),
			ClientSecret: os.Getenv("TWITTER_CLIENT_SECRET"),
			RedirectURI:  getEnv("TWITTER_REDIRECT_URI", "http://localhost:8000/auth/twitter/callback"),
		},
		Ethos: EthosConfig{
			BaseURL: getEnv("ETHOS_API_URL", "https://api.ethos.network"),
			Timeout: getEnvDuration("ETHOS_API_TIMEOUT", 10*time.Second),
		},
		Discord: DiscordConfig{
			Enabled:    getEnvBool("DISCORD_NOTIFICATIONS_ENABLED", false),
			WebhookURL: os.Getenv("DISCORD_WEBHOOK_URL"),
		},
		Logging: LoggingConfig{
			Level:         getEnv("LOG_LEVEL", "info"),
			Environment:   getEnv("LOG_ENVIRONMENT", "development"),
			AuditEnabled:  getEnvBool("AUDIT_LOG_ENABLED", false),
			AuditDBPath:   getEnv("AUDIT_LOG_DB_PATH", "./data/audit.db"),
			RetentionDays: getEnvInt("LOG_RETENTION_DAYS", 0),
			BufferSize:    getEnvInt("AUDIT_LOG_BUFFER_SIZE", 1000),
		},
	}

	if network == "testnet" {
		cfg.Blockchain = BlockchainConfig{
			Network:         "testnet",
			RPCURL:          getEnv("TESTNET_RPC_URL", "https://sepolia.base.org"),
			PrivateKey:      os.Getenv("TESTNET_PRIVATE_KEY"),
			ContractAddress: os.Getenv("TESTNET_CONTRACT_ADDRESS"),
			ChainID:         84532, // Base Sepolia
			Confirmations:   getEnvUint64("BLOCKCHAIN_CONFIRMATIONS", 3),
			ConfirmTimeout:  getEnvDuration("BLOCKCHAIN_CONFIRM_TIMEOUT", 5*time.Minute),
		}
	} else {
		cfg.Blockchain = BlockchainConfig{
			Network:         "mainnet",
			RPCURL:          getEnv("MAINNET_RPC_URL", "https://mainnet.base.org"),
			PrivateKey:      os.Getenv("MAINNET_PRIVATE_KEY"),
			ContractAddress: getEnv("MAINNET_CONTRACT_ADDRESS", "0x6D3A8Fd5cF89f9a429BFaDFd970968F646AFF325"),
			ChainID:         8453, // Base Mainnet
			Confirmations:   getEnvUint64("BLOCKCHAIN_CONFIRMATIONS", 3),
			ConfirmTimeout:  getEnvDuration("BLOCKCHAIN_CONFIRM_TIMEOUT", 5*time.Minute),
		}
	}

	return cfg
}

// Validate rejects configurations that would make the submission path fail at
// request time. Missing secrets are configuration faults, caught at startup.
func (c *Config) Validate() error {
	if c.Session.Secret == "" {
		return apperrors.ErrSessionSecretMissing
	}
	if c.Blockchain.PrivateKey == "" {
		return apperrors.ErrPrivateKeyMissing
	}
	if c.Blockchain.ContractAddress == "" {
		return apperrors.ErrContractMissing
	}
	return nil
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvUint64(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseUint(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
