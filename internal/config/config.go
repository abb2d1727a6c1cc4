package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	RedisAddr  string `mapstructure:"REDIS_ADDR"`
	DataDir    string `mapstructure:"DATA_DIR"`

	// OperatorStore is the store id whose prices are compared against
	// the competitors' listings.
	OperatorStore   string `mapstructure:"OPERATOR_STORE"`
	DefaultCategory string `mapstructure:"DEFAULT_CATEGORY"`

	// StoresFile optionally replaces the built-in store registry with a
	// JSON config file.
	StoresFile string `mapstructure:"STORES_FILE"`

	NavTimeoutSec      int  `mapstructure:"NAV_TIMEOUT"`
	SelectorTimeoutSec int  `mapstructure:"SELECTOR_TIMEOUT"`
	PageDelaySec       int  `mapstructure:"PAGE_DELAY"`
	StoreDelaySec      int  `mapstructure:"STORE_DELAY"`
	MaxRetries         int  `mapstructure:"MAX_RETRIES"`
	Headless           bool `mapstructure:"HEADLESS"`

	JobQueueSize    int `mapstructure:"JOB_QUEUE_SIZE"`
	JobStatusTTLHrs int `mapstructure:"JOB_STATUS_TTL_HOURS"`
}

// Load reads configuration from file or environment variables.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// Attempt to read the .env file, but don't fail if it's not present.
	// This allows configuration purely through environment variables.
	_ = viper.ReadInConfig()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("DATA_DIR", "data")
	viper.SetDefault("OPERATOR_STORE", "mizojerseyhome")
	viper.SetDefault("DEFAULT_CATEGORY", "all")
	viper.SetDefault("NAV_TIMEOUT", 30)      // in seconds
	viper.SetDefault("SELECTOR_TIMEOUT", 10) // in seconds
	viper.SetDefault("PAGE_DELAY", 2)        // in seconds
	viper.SetDefault("STORE_DELAY", 5)       // in seconds
	viper.SetDefault("MAX_RETRIES", 2)
	viper.SetDefault("HEADLESS", true)
	viper.SetDefault("JOB_QUEUE_SIZE", 16)
	viper.SetDefault("JOB_STATUS_TTL_HOURS", 24)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) NavTimeout() time.Duration {
	return time.Duration(c.NavTimeoutSec) * time.Second
}

func (c *Config) SelectorTimeout() time.Duration {
	return time.Duration(c.SelectorTimeoutSec) * time.Second
}

func (c *Config) PageDelay() time.Duration {
	return time.Duration(c.PageDelaySec) * time.Second
}

func (c *Config) StoreDelay() time.Duration {
	return time.Duration(c.StoreDelaySec) * time.Second
}

func (c *Config) JobStatusTTL() time.Duration {
	return time.Duration(c.JobStatusTTLHrs) * time.Hour
}
