// Package config provides YAML-based configuration loading for Doctrail.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level Doctrail configuration, loaded from doctrail.yaml.
type Config struct {
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	Notify NotifyConfig `yaml:"notify"`
	Teams  []TeamConfig `yaml:"teams"`
}

// ServerConfig holds settings for the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DBConfig holds connection settings for the MySQL server.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// NotifyConfig wires the chat notification channels. Channels with empty
// credentials are simply not used.
type NotifyConfig struct {
	Slack      SlackConfig   `yaml:"slack"`
	Discord    DiscordConfig `yaml:"discord"`
	DigestCron string        `yaml:"digest_cron"` // 5-field cron for the overdue digest
}

// SlackConfig holds Slack bot credentials and the target channel.
type SlackConfig struct {
	BotToken string `yaml:"bot_token"`
	Channel  string `yaml:"channel"`
}

// DiscordConfig holds Discord bot credentials and the target channel.
type DiscordConfig struct {
	Token   string `yaml:"token"`
	Channel string `yaml:"channel"`
}

// TeamConfig defines a team and its roster, seeded into storage at migrate time.
type TeamConfig struct {
	ID      string         `yaml:"id"`
	Name    string         `yaml:"name"`
	Members []MemberConfig `yaml:"members"`
}

// MemberConfig is one user on a team. Role defaults to member.
type MemberConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Role string `yaml:"role"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.DB.Host == "" {
		c.DB.Host = "127.0.0.1"
	}
	if c.DB.Port == 0 {
		c.DB.Port = 3306
	}
	if c.DB.Database == "" {
		c.DB.Database = "doctrail"
	}
	if c.DB.User == "" {
		c.DB.User = "root"
	}
	if c.Notify.DigestCron == "" {
		c.Notify.DigestCron = "0 9 * * 1-5"
	}
	for i := range c.Teams {
		for j := range c.Teams[i].Members {
			if c.Teams[i].Members[j].Role == "" {
				c.Teams[i].Members[j].Role = "member"
			}
		}
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	for i, t := range c.Teams {
		if t.ID == "" {
			errs = append(errs, fmt.Sprintf("teams[%d].id is required", i))
		}
		if t.Name == "" {
			errs = append(errs, fmt.Sprintf("teams[%d].name is required", i))
		}
		leaders := 0
		for j, m := range t.Members {
			if m.ID == "" {
				errs = append(errs, fmt.Sprintf("teams[%d].members[%d].id is required", i, j))
			}
			switch m.Role {
			case "leader":
				leaders++
			case "member":
			default:
				errs = append(errs, fmt.Sprintf("teams[%d].members[%d].role %q is not leader or member", i, j, m.Role))
			}
		}
		if len(t.Members) > 0 && leaders == 0 {
			errs = append(errs, fmt.Sprintf("teams[%d] has no leader; approvals would be impossible", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
