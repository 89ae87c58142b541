// Package config loads the assetbuilder configuration
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config represents the assetbuilder configuration
type Config struct {
	SchemaFile string          `mapstructure:"schema_file"`
	DataDir    string          `mapstructure:"data_dir"`
	Generated  GeneratedConfig `mapstructure:"generated"`
	Assets     AssetsConfig    `mapstructure:"assets"`
	Provider   ProviderConfig  `mapstructure:"provider"`
	Build      BuildConfig     `mapstructure:"build"`
}

// GeneratedConfig configures wrapper source generation
type GeneratedConfig struct {
	Dir     string `mapstructure:"dir"`
	Package string `mapstructure:"package"`
}

// AssetsConfig configures the persisted asset store
type AssetsConfig struct {
	Root string `mapstructure:"root"`
}

// ProviderConfig configures collection resolution
type ProviderConfig struct {
	Strict bool `mapstructure:"strict"`
}

// BuildConfig holds the per-type include/exclude toggles
type BuildConfig struct {
	Include []string `mapstructure:"include"`
	Exclude []string `mapstructure:"exclude"`
}

// Load loads the configuration from assetbuilder.yml or assetbuilder.yaml
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("schema_file", "schema.yml")
	v.SetDefault("data_dir", "data")
	v.SetDefault("generated.dir", "generated/assets")
	v.SetDefault("generated.package", "assets")
	v.SetDefault("assets.root", "assets")
	v.SetDefault("provider.strict", false)

	v.SetConfigName("assetbuilder")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("ASSETBUILDER")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// InProject checks if the current directory looks like an assetbuilder
// project
func InProject() bool {
	if _, err := os.Stat("assetbuilder.yml"); err == nil {
		return true
	}
	if _, err := os.Stat("assetbuilder.yaml"); err == nil {
		return true
	}
	return false
}

// Toggles converts the include/exclude lists to the per-type toggle map
// the materializer consumes. A nil result selects every marked class.
func (c *Config) Toggles(marked []string) map[string]bool {
	if len(c.Build.Include) == 0 && len(c.Build.Exclude) == 0 {
		return nil
	}

	toggles := make(map[string]bool, len(marked))
	if len(c.Build.Include) > 0 {
		for _, name := range c.Build.Include {
			toggles[name] = true
		}
	} else {
		for _, name := range marked {
			toggles[name] = true
		}
	}
	for _, name := range c.Build.Exclude {
		toggles[name] = false
	}
	return toggles
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.SchemaFile == "" {
		return fmt.Errorf("schema_file must not be empty")
	}
	if cfg.Assets.Root == "" {
		return fmt.Errorf("assets.root must not be empty")
	}
	if cfg.Generated.Dir == "" {
		return fmt.Errorf("generated.dir must not be empty")
	}
	return nil
}
