package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Telegram   TelegramConfig   `yaml:"telegram"`
	Database   DatabaseConfig   `yaml:"database"`
	Supervisor SupervisorConfig `yaml:"supervisor"`
	Panel      PanelConfig      `yaml:"panel"`
	Web        WebConfig        `yaml:"web"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type TelegramConfig struct {
	BotToken   string `yaml:"bot_token"`
	OpsEnabled bool   `yaml:"ops_enabled"`
	OpsChatID  int64  `yaml:"ops_chat_id"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type SupervisorConfig struct {
	ProbeInterval string `yaml:"probe_interval"`
}

type PanelConfig struct {
	DefaultLocale string `yaml:"default_locale"`
}

type WebConfig struct {
	Port int `yaml:"port"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/agent-console.db"
	}
	if cfg.Supervisor.ProbeInterval == "" {
		cfg.Supervisor.ProbeInterval = "1m"
	}
	if cfg.Panel.DefaultLocale == "" {
		cfg.Panel.DefaultLocale = "zh"
	}
	if cfg.Web.Port == 0 {
		cfg.Web.Port = 8080
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.OpsEnabled && c.Telegram.OpsChatID == 0 {
		return fmt.Errorf("telegram.ops_chat_id is required when ops notifications are enabled")
	}
	if _, err := time.ParseDuration(c.Supervisor.ProbeInterval); err != nil {
		return fmt.Errorf("invalid supervisor.probe_interval %q: %w", c.Supervisor.ProbeInterval, err)
	}
	if c.Panel.DefaultLocale != "zh" && c.Panel.DefaultLocale != "en" {
		return fmt.Errorf("panel.default_locale must be zh or en, got %q", c.Panel.DefaultLocale)
	}
	return nil
}

func (c *Config) ProbeInterval() time.Duration {
	d, _ := time.ParseDuration(c.Supervisor.ProbeInterval)
	return d
}
