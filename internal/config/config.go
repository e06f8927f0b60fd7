// Package config loads bot configuration from TOML with environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config holds all configuration for the whizor bot.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	WhatsApp WhatsAppConfig `toml:"whatsapp"`
	Postgres PostgresConfig `toml:"postgres"`
	Monitor  MonitorConfig  `toml:"monitor"`
}

// LogConfig holds logging level and format.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ServerConfig holds the webhook server listen address.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// WhatsAppConfig holds Cloud API credentials and the webhook handshake secret.
type WhatsAppConfig struct {
	AccessToken   string `toml:"access_token"`
	PhoneNumberID string `toml:"phone_number_id"`
	VerifyToken   string `toml:"verify_token"`
	AppSecret     string `toml:"app_secret"`
}

// PostgresConfig holds connection parameters for the doctors directory.
type PostgresConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	SSLMode  string `toml:"sslmode"`
}

// MonitorConfig controls the ops WebSocket event feed.
type MonitorConfig struct {
	Enabled bool `toml:"enabled"`
}

func defaults() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Postgres: PostgresConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "postgres",
			Database: "whizor",
			SSLMode:  "disable",
		},
	}
}

// Load reads configuration from the TOML config file (if it exists) and
// applies environment variable overrides. Env vars always win.
//
// Config file resolution: WHIZOR_CONFIG env var → ./config.toml → skip.
func Load() (*Config, error) {
	cfg := defaults()

	path := configPath()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return nil, err
			}
		}
	}

	applyEnv(&cfg)
	return &cfg, nil
}

func configPath() string {
	if p := os.Getenv("WHIZOR_CONFIG"); p != "" {
		return p
	}
	return "config.toml"
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("WHIZOR_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("WHIZOR_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}

	if v := os.Getenv("WHIZOR_ADDR"); v != "" {
		cfg.Server.Addr = v
	} else if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Addr = ":" + v
	}

	if v := os.Getenv("WHATSAPP_TOKEN"); v != "" {
		cfg.WhatsApp.AccessToken = v
	}
	if v := os.Getenv("PHONE_ID"); v != "" {
		cfg.WhatsApp.PhoneNumberID = v
	}
	if v := os.Getenv("WHIZOR_VERIFY_TOKEN"); v != "" {
		cfg.WhatsApp.VerifyToken = v
	}
	if v := os.Getenv("WHIZOR_APP_SECRET"); v != "" {
		cfg.WhatsApp.AppSecret = v
	}

	if v := os.Getenv("WHIZOR_PG_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v := os.Getenv("WHIZOR_PG_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.Port = n
		}
	}
	if v := os.Getenv("WHIZOR_PG_USER"); v != "" {
		cfg.Postgres.User = v
	}
	if v := os.Getenv("WHIZOR_PG_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("WHIZOR_PG_DATABASE"); v != "" {
		cfg.Postgres.Database = v
	}
	if v := os.Getenv("WHIZOR_PG_SSLMODE"); v != "" {
		cfg.Postgres.SSLMode = v
	}

	if v := os.Getenv("WHIZOR_MONITOR"); v != "" {
		cfg.Monitor.Enabled = v == "true" || v == "1"
	}
}

// Validate checks that required credentials are present.
func (c *Config) Validate() error {
	if c.WhatsApp.AccessToken == "" {
		return fmt.Errorf("whatsapp access token is required (whatsapp.access_token or WHATSAPP_TOKEN)")
	}
	if c.WhatsApp.PhoneNumberID == "" {
		return fmt.Errorf("whatsapp phone number id is required (whatsapp.phone_number_id or PHONE_ID)")
	}
	if c.WhatsApp.VerifyToken == "" {
		return fmt.Errorf("webhook verify token is required (whatsapp.verify_token or WHIZOR_VERIFY_TOKEN)")
	}
	return nil
}
