// Package config loads CLI and service settings from .concerto.yaml,
// CONCERTO_* environment variables and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FileName is the configuration file searched in the working directory and $HOME.
const FileName = ".concerto"

// Config represents the concerto configuration
type Config struct {
	// Metamodel is the path of the metamodel document; empty means the embedded Concerto metamodel.
	Metamodel    string        `mapstructure:"metamodel"`
	MaxDepth     int           `mapstructure:"max_depth"`
	RegexTimeout time.Duration `mapstructure:"regex_timeout"`
	SingleLevel  bool          `mapstructure:"single_level"`
	Format       string        `mapstructure:"format"`
	Concurrency  int           `mapstructure:"concurrency"`
	Debug        bool          `mapstructure:"debug"`
	Serve        ServeConfig   `mapstructure:"serve"`
	MCP          MCPConfig     `mapstructure:"mcp"`
	Redis        RedisConfig   `mapstructure:"redis"`
	Remote       RemoteConfig  `mapstructure:"remote"`

	// File is the configuration file that was read, if any.
	File string `mapstructure:"-"`
}

// ServeConfig represents HTTP server configuration
type ServeConfig struct {
	Addr string `mapstructure:"addr"`
}

// MCPConfig represents MCP server configuration
type MCPConfig struct {
	Transport string `mapstructure:"transport"`
	Port      int    `mapstructure:"port"`
}

// RedisConfig represents the shared metamodel cache
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
	Prefix   string        `mapstructure:"prefix"`
}

// RemoteConfig represents the upstream metamodel
type RemoteConfig struct {
	URL string `mapstructure:"url"`
	Out string `mapstructure:"out"`
}

// Load reads the configuration. An explicit path must exist; otherwise
// .concerto.yaml is optional and defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("metamodel", "")
	v.SetDefault("max_depth", 256)
	v.SetDefault("regex_timeout", 2*time.Second)
	v.SetDefault("single_level", false)
	v.SetDefault("format", "text")
	v.SetDefault("concurrency", 4)
	v.SetDefault("debug", false)
	v.SetDefault("serve.addr", ":8080")
	v.SetDefault("mcp.transport", "stdio")
	v.SetDefault("mcp.port", 8080)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 24*time.Hour)
	v.SetDefault("redis.prefix", "concerto:metamodel:")
	v.SetDefault("remote.url", "")
	v.SetDefault("remote.out", "metamodel.json")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvPrefix("CONCERTO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Format {
	case "text", "json":
	default:
		return fmt.Errorf("format must be text or json, got: %s", cfg.Format)
	}
	switch cfg.MCP.Transport {
	case "stdio", "sse":
	default:
		return fmt.Errorf("mcp.transport must be stdio or sse, got: %s", cfg.MCP.Transport)
	}
	if cfg.MaxDepth <= 0 {
		return fmt.Errorf("max_depth must be positive, got: %d", cfg.MaxDepth)
	}
	if cfg.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got: %d", cfg.Concurrency)
	}
	return nil
}
