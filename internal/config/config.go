package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Blockchain BlockchainConfig
	Security   SecurityConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	// AutoMigrate creates missing tables at start-up. Off by default; the schema
	// is normally managed outside the service.
	AutoMigrate bool
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration.
// An empty URL disables session revocation.
type RedisConfig struct {
	URL      string
	Password string
}

// JWTConfig holds session token configuration
type JWTConfig struct {
	Secret       string
	Expiry       time.Duration
	CookieName   string
	CookieSecure bool
}

// BlockchainConfig holds the chain endpoint, token contract and treasury key
type BlockchainConfig struct {
	RPCURL              string
	TokenAddress        string
	AdminPrivateKey     string
	ExplorerURL         string
	TokenDecimals       int
	ConfirmationTimeout time.Duration
	BalanceConcurrency  int
}

// SecurityConfig holds authorization toggles
type SecurityConfig struct {
	// EnforceWalletOwnership makes wallet delete/send require a session that owns the wallet.
	EnforceWalletOwnership bool
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Env:            getEnv("SERVER_ENV", "development"),
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "tokendash"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),

			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:       getEnv("JWT_SECRET", "change-this-in-production"),
			Expiry:       getEnvAsDuration("JWT_EXPIRY", 7*24*time.Hour),
			CookieName:   getEnv("SESSION_COOKIE_NAME", "token"),
			CookieSecure: getEnvAsBool("SESSION_COOKIE_SECURE", false),
		},
		Blockchain: BlockchainConfig{
			RPCURL:              getEnv("SEPOLIA_RPC_URL", "https://ethereum-sepolia-rpc.publicnode.com"),
			TokenAddress:        getEnv("CONTRACT_ADDRESS", ""),
			AdminPrivateKey:     strings.TrimSpace(getEnv("ADMIN_PRIVATE_KEY", "")),
			ExplorerURL:         strings.TrimRight(getEnv("EXPLORER_URL", "https://sepolia.etherscan.io"), "/"),
			TokenDecimals:       getEnvAsInt("TOKEN_DECIMALS", 18),
			ConfirmationTimeout: getEnvAsDuration("TX_CONFIRMATION_TIMEOUT", 2*time.Minute),
			BalanceConcurrency:  getEnvAsInt("BALANCE_READ_CONCURRENCY", 4),
		},
		Security: SecurityConfig{
			EnforceWalletOwnership: getEnvAsBool("WALLET_ENFORCE_OWNERSHIP", true),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
