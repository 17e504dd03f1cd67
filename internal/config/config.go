package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Telegram   TelegramConfig
	PostgreSQL PostgreSQLConfig
	Redis      RedisConfig
	Rates      RatesConfig
	Server     ServerConfig
	Crypto     map[string]CryptoConfig
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	Token   string
	BaseURL string
	BotName string
}

// PostgreSQLConfig holds database configuration
type PostgreSQLConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	Schema       string
	PoolMaxConns int
}

// RedisConfig holds session store configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RatesConfig holds exchange-rate refresher configuration
type RatesConfig struct {
	APIKey          string
	IntervalSeconds int
}

// CryptoConfig holds per-currency network access configuration
type CryptoConfig struct {
	Network string
	APIKey  string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Telegram.Token == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}

	if cfg.PostgreSQL.Host == "" || cfg.PostgreSQL.DBName == "" {
		return nil, fmt.Errorf("database configuration is incomplete")
	}

	return &cfg, nil
}

// Initialize sets up viper with defaults and loads config
func Initialize() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetDefault("PostgreSQL.Host", "localhost")
	viper.SetDefault("PostgreSQL.Port", 5432)
	viper.SetDefault("PostgreSQL.User", "postgres")
	viper.SetDefault("PostgreSQL.DBName", "crypted-db")
	viper.SetDefault("PostgreSQL.Schema", "public")
	viper.SetDefault("PostgreSQL.PoolMaxConns", 10)

	viper.SetDefault("Redis.Addr", "localhost:6379")
	viper.SetDefault("Redis.DB", 0)

	viper.SetDefault("Rates.IntervalSeconds", 60)

	viper.SetDefault("Telegram.BotName", "CryptedPayBot")

	viper.SetDefault("Server.Port", "7878")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Fatal error reading config file: %v", err)
	}

	log.Println("Configuration loaded successfully")
}

// GetString gets a string value from the configuration
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt gets an integer value from the configuration
func GetInt(key string) int {
	return viper.GetInt(key)
}
