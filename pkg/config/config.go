// Package config loads and validates launchpad service configuration.
package config

import (
	"fmt"
	"time"

	"github.com/creasty/defaults"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

// Config is the top-level launchpad service configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Platform PlatformConfig `mapstructure:"platform"`
	Deployer DeployerConfig `mapstructure:"deployer"`
	Identity IdentityConfig `mapstructure:"identity"`
	Fees     FeesConfig     `mapstructure:"fees"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host" default:"0.0.0.0"`
	Port            int           `mapstructure:"port" default:"8080"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" default:"15s"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" default:"60s"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" default:"120s"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" default:"30s"`
}

// DatabaseConfig contains Postgres connection settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host" default:"localhost"`
	Port     int    `mapstructure:"port" default:"5432"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode" default:"disable"`
}

// PlatformConfig fixes the platform side of every launch. The fee share
// is server policy and is never taken from a request.
type PlatformConfig struct {
	FeeRecipient   string        `mapstructure:"fee_recipient"`
	AdminRecipient string        `mapstructure:"admin_recipient"`
	FeeBps         int           `mapstructure:"fee_bps" default:"2000"`
	TradingFeeBps  int           `mapstructure:"trading_fee_bps" default:"100"`
	Cooldown       time.Duration `mapstructure:"cooldown" default:"24h"`
	VanitySuffix   bool          `mapstructure:"vanity_suffix"`
}

// DeployerConfig contains settings for the external deploy service.
type DeployerConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	PairedAsset    string        `mapstructure:"paired_asset"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" default:"30s"`
	ConfirmTimeout time.Duration `mapstructure:"confirm_timeout" default:"2m"`
}

// IdentityConfig contains settings for the identity registry lookup.
// An empty BaseURL selects open mode: every requester is admitted with
// a permissive unverified identity.
type IdentityConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" default:"10s"`
}

// FeesConfig contains fee claim and aggregation settings.
type FeesConfig struct {
	ClaimInterval     time.Duration `mapstructure:"claim_interval" default:"24h"`
	ClaimInitialDelay time.Duration `mapstructure:"claim_initial_delay" default:"1m"`
	AggregateTTL      time.Duration `mapstructure:"aggregate_ttl" default:"5m"`
	AggregateBatch    int           `mapstructure:"aggregate_batch" default:"5"`
	SanityCeiling     string        `mapstructure:"sanity_ceiling" default:"10"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string `mapstructure:"level" default:"info"`
	Format     string `mapstructure:"format" default:"json"`
	OutputPath string `mapstructure:"output_path"`
}

// GetConnectionString builds a Postgres connection string.
func (c *DatabaseConfig) GetConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// Load reads configuration from a yaml file with environment overrides,
// fills defaults from struct tags, and validates the result.
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("LAUNCHPAD")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply config defaults: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Database.User == "" || cfg.Database.Database == "" {
		return fmt.Errorf("database user and database name are required")
	}
	if !common.IsHexAddress(cfg.Platform.FeeRecipient) {
		return fmt.Errorf("platform.fee_recipient must be a hex address")
	}
	if cfg.Platform.AdminRecipient != "" && !common.IsHexAddress(cfg.Platform.AdminRecipient) {
		return fmt.Errorf("platform.admin_recipient must be a hex address")
	}
	if cfg.Platform.FeeBps <= 0 || cfg.Platform.FeeBps > 10000 {
		return fmt.Errorf("platform.fee_bps must be in (0,10000], got %d", cfg.Platform.FeeBps)
	}
	if cfg.Deployer.BaseURL == "" {
		return fmt.Errorf("deployer.base_url is required")
	}
	if !common.IsHexAddress(cfg.Deployer.PairedAsset) {
		return fmt.Errorf("deployer.paired_asset must be a hex address")
	}
	if cfg.Fees.AggregateBatch <= 0 {
		return fmt.Errorf("fees.aggregate_batch must be positive")
	}
	return nil
}
