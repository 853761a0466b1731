package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Log      LogConfig
	Database DatabaseConfig
	Preview  PreviewConfig
	Timeouts TimeoutConfig
	Defaults DefaultsConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// DatabaseConfig holds the deployment history database location
type DatabaseConfig struct {
	Path string
}

// PreviewConfig holds local preview server configuration
type PreviewConfig struct {
	Host string
	Port int
}

// TimeoutConfig bounds the external commands webship runs
type TimeoutConfig struct {
	Deploy time.Duration
	Build  time.Duration
	Check  time.Duration
}

// DefaultsConfig holds user-preferred answers for prompts
type DefaultsConfig struct {
	Platform string
}

// Load loads configuration from config files and environment variables.
// When cfgFile is empty the usual locations are searched and a missing
// file is fine; an explicit cfgFile must exist.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName("webship")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "webship"))
		}
		v.AddConfigPath(".")

		// Read config file (optional)
		if err := v.ReadInConfig(); err != nil {
			var configFileNotFoundError viper.ConfigFileNotFoundError
			if !errors.As(err, &configFileNotFoundError) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			// Config file not found, use defaults and env vars only
		}
	}

	// Override with environment variables, WEBSHIP_LOG_LEVEL and friends
	v.SetEnvPrefix("WEBSHIP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	config := &Config{
		Log: LogConfig{
			Level: v.GetString("log.level"),
		},
		Database: DatabaseConfig{
			Path: expandHome(v.GetString("database.path")),
		},
		Preview: PreviewConfig{
			Host: v.GetString("preview.host"),
			Port: v.GetInt("preview.port"),
		},
		Timeouts: TimeoutConfig{
			Deploy: v.GetDuration("timeouts.deploy"),
			Build:  v.GetDuration("timeouts.build"),
			Check:  v.GetDuration("timeouts.check"),
		},
		Defaults: DefaultsConfig{
			Platform: v.GetString("defaults.platform"),
		},
	}

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("database.path", defaultDatabasePath())
	v.SetDefault("preview.host", "127.0.0.1")
	v.SetDefault("preview.port", 4173)
	v.SetDefault("timeouts.deploy", 15*time.Minute)
	v.SetDefault("timeouts.build", 15*time.Minute)
	v.SetDefault("timeouts.check", 20*time.Second)
	v.SetDefault("defaults.platform", "")
}

// defaultDatabasePath puts the history database under the user's data
// directory, next to where other CLIs keep theirs
func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "webship.db"
	}
	return filepath.Join(home, ".local", "share", "webship", "webship.db")
}

// expandHome resolves a leading ~ so config files can point the
// database path at the home directory portably
func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
		}
	}
	return p
}
