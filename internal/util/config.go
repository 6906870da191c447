package util

import (
	"errors"
	"fmt"
	"os"
	"time"
	
	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	AllowedOrigins       []string      `mapstructure:"ALLOWED_ORIGINS"`
	HTTPServerAddress    string        `mapstructure:"HTTP_SERVER_ADDRESS"`
	RedisServerAddress   string        `mapstructure:"REDIS_SERVER_ADDRESS"`
	TrackingInterval     time.Duration `mapstructure:"TRACKING_INTERVAL"`
	TokenSecretKey       string        `mapstructure:"TOKEN_SECRET_KEY"`
	PathaoClientID       string        `mapstructure:"PATHAO_CLIENT_ID"`
	PathaoClientSecret   string        `mapstructure:"PATHAO_CLIENT_SECRET"`
	PathaoUsername       string        `mapstructure:"PATHAO_USERNAME"`
	PathaoPassword       string        `mapstructure:"PATHAO_PASSWORD"`
	PathaoBaseURL        string        `mapstructure:"PATHAO_BASE_URL"`
	PathaoStoreID        int64         `mapstructure:"PATHAO_STORE_ID"`
	PathaoRequestTimeout time.Duration `mapstructure:"PATHAO_REQUEST_TIMEOUT"`
}

// LoadConfig reads configuration from file or environment variables.
// A missing config file is not an error; environment variables alone are enough.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	
	// Set defaults for non-sensitive config
	v.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:3000"})
	v.SetDefault("HTTP_SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("REDIS_SERVER_ADDRESS", "localhost:6379")
	v.SetDefault("TRACKING_INTERVAL", "10m")
	v.SetDefault("PATHAO_USERNAME", "test@pathao.com")
	v.SetDefault("PATHAO_PASSWORD", "lovePathao")
	v.SetDefault("PATHAO_BASE_URL", "https://courier-api-sandbox.pathao.com")
	v.SetDefault("PATHAO_REQUEST_TIMEOUT", "30s")
	
	// AutomaticEnv only sees keys viper already knows about.
	for _, key := range []string{"PATHAO_CLIENT_ID", "PATHAO_CLIENT_SECRET", "PATHAO_STORE_ID", "TOKEN_SECRET_KEY"} {
		if err = v.BindEnv(key); err != nil {
			return
		}
	}
	
	// Prefer environment variables over config file
	v.AutomaticEnv()
	
	// Load config file
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err = v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return
			}
			err = nil
		}
	}
	
	// Unmarshal config into struct
	err = v.Unmarshal(&config)
	if err != nil {
		return
	}
	
	// Validate required configuration
	err = validateConfig(config)
	return
}

func validateConfig(config Config) error {
	if config.PathaoClientID == "" {
		return fmt.Errorf("PATHAO_CLIENT_ID is required")
	}
	if config.PathaoClientSecret == "" {
		return fmt.Errorf("PATHAO_CLIENT_SECRET is required")
	}
	if config.TokenSecretKey == "" {
		return fmt.Errorf("TOKEN_SECRET_KEY is required")
	}
	if config.PathaoStoreID < 0 {
		return fmt.Errorf("PATHAO_STORE_ID must be a positive number")
	}
	if config.TrackingInterval <= 0 {
		return fmt.Errorf("TRACKING_INTERVAL must be positive")
	}
	
	return nil
}
