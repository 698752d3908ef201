// Package file loads the mediasync configuration from a TOML file,
// with environment-variable overrides for credentials so secrets can
// stay out of the file.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ConfigFileName is the fixed filename within the config dir.
const ConfigFileName = "config.toml"

// Config is the full operator configuration.
type Config struct {
	Cloudinary CloudinaryConfig `toml:"cloudinary"`
	Strapi     StrapiConfig     `toml:"strapi"`
	Sync       SyncConfig       `toml:"sync"`
}

// CloudinaryConfig holds the source store account settings.
type CloudinaryConfig struct {
	CloudName  string `toml:"cloud_name"`
	APIKey     string `toml:"api_key"`
	APISecret  string `toml:"api_secret"`
	RootFolder string `toml:"root_folder"`
}

// StrapiConfig holds the catalog endpoint settings.
type StrapiConfig struct {
	BaseURL   string `toml:"base_url"`
	Token     string `toml:"token"`
	AssetRoot string `toml:"asset_root"`
}

// SyncConfig holds engine-local settings.
type SyncConfig struct {
	// DataDir is where the state snapshot and run reports live.
	// Empty means ~/.mediasync/data.
	DataDir string `toml:"data_dir"`
}

// Load reads the config file from configDir (default ~/.mediasync) and
// applies environment overrides. A missing file is not an error: the
// environment alone can carry a full configuration.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".mediasync")
	}

	cfg := &Config{}
	data, err := os.ReadFile(filepath.Join(configDir, ConfigFileName))
	switch {
	case os.IsNotExist(err):
		// Environment-only configuration.
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

// applyEnv lets credentials come from the environment, overriding the
// file.
func applyEnv(cfg *Config) {
	if v := os.Getenv("MEDIASYNC_CLOUDINARY_CLOUD_NAME"); v != "" {
		cfg.Cloudinary.CloudName = v
	}
	if v := os.Getenv("MEDIASYNC_CLOUDINARY_API_KEY"); v != "" {
		cfg.Cloudinary.APIKey = v
	}
	if v := os.Getenv("MEDIASYNC_CLOUDINARY_API_SECRET"); v != "" {
		cfg.Cloudinary.APISecret = v
	}
	if v := os.Getenv("MEDIASYNC_STRAPI_URL"); v != "" {
		cfg.Strapi.BaseURL = v
	}
	if v := os.Getenv("MEDIASYNC_STRAPI_TOKEN"); v != "" {
		cfg.Strapi.Token = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Cloudinary.RootFolder == "" {
		cfg.Cloudinary.RootFolder = "beckwithbarrow"
	}
	if cfg.Strapi.AssetRoot == "" {
		cfg.Strapi.AssetRoot = "Cloudinary"
	}
}

// Validate checks that every required credential is present.
func (c *Config) Validate() error {
	var missing []string
	if c.Cloudinary.CloudName == "" {
		missing = append(missing, "cloudinary.cloud_name")
	}
	if c.Cloudinary.APIKey == "" {
		missing = append(missing, "cloudinary.api_key")
	}
	if c.Cloudinary.APISecret == "" {
		missing = append(missing, "cloudinary.api_secret")
	}
	if c.Strapi.BaseURL == "" {
		missing = append(missing, "strapi.base_url")
	}
	if c.Strapi.Token == "" {
		missing = append(missing, "strapi.token")
	}
	if len(missing) > 0 {
		return errors.New("missing configuration: " + strings.Join(missing, ", "))
	}
	return nil
}
