package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Channels ChannelsConfig `mapstructure:"channels"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ChannelsConfig describes the routed log destinations.
type ChannelsConfig struct {
	// Directory is the directory all channel files are written under.
	Directory string `mapstructure:"directory"`
	// Accepted is the comma-separated list of accepted channel names.
	// Names are case-sensitive and used verbatim as file name prefixes.
	Accepted string `mapstructure:"accepted"`
	// FallbackName is the file name prefix for lines that match no channel.
	FallbackName string `mapstructure:"fallback_name"`
}

// AdminConfig holds the admin HTTP server configuration.
type AdminConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// LoggingConfig holds diagnostic logging configuration.
type LoggingConfig struct {
	Level     string `mapstructure:"level"`
	Output    string `mapstructure:"output"` // stdout (default), file
	FilePath  string `mapstructure:"file_path"`
	MaxSizeMB int    `mapstructure:"max_size_mb"`
	MaxFiles  int    `mapstructure:"max_files"`
}

// Load reads configuration from the given config directory path.
// It looks for a file named "config.yaml" in that directory.
// Environment variables with prefix LOG_REVOLVE_ override file values.
// For example, LOG_REVOLVE_CHANNELS_ACCEPTED overrides channels.accepted.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	v.SetDefault("channels.fallback_name", "inapt")
	v.SetDefault("admin.host", "127.0.0.1")
	v.SetDefault("admin.port", 9090)
	v.SetDefault("admin.read_timeout", 10*time.Second)
	v.SetDefault("admin.write_timeout", 10*time.Second)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.output", "stdout")

	v.SetEnvPrefix("LOG_REVOLVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// AcceptedChannels splits the comma-separated channel list into names.
// Names are not trimmed; empty entries are dropped.
func (c ChannelsConfig) AcceptedChannels() []string {
	var names []string
	for _, name := range strings.Split(c.Accepted, ",") {
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return names
}

// Validate checks the configuration before any input is consumed.
// A failure here aborts the process at startup.
func (c *Config) Validate() error {
	if c.Channels.Directory == "" {
		return errors.New("channels.directory is required")
	}
	if err := ProbeWritable(c.Channels.Directory); err != nil {
		return fmt.Errorf("channels.directory: %w", err)
	}
	if len(c.Channels.AcceptedChannels()) == 0 {
		return errors.New("channels.accepted must name at least one channel")
	}
	if c.Channels.FallbackName == "" {
		return errors.New("channels.fallback_name must not be empty")
	}
	return nil
}

// ProbeWritable verifies that dir exists, is a directory, and accepts
// file creation. Also used by the admin readiness endpoint.
func ProbeWritable(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	f, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return fmt.Errorf("not writable: %w", err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
