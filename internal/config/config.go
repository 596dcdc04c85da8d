package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// WatchConfig lists the markets the poller keeps refreshed
type WatchConfig struct {
	Props []PropTarget `yaml:"props"`
	Teams []string     `yaml:"teams"`
}

// PropTarget is one player with the stat types to watch
type PropTarget struct {
	Player string   `yaml:"player"`
	Stats  []string `yaml:"stats"`
}

// Load reads and parses a watch config file
func Load(configPath string) (*WatchConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config WatchConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects empty or malformed watch targets
func (c *WatchConfig) Validate() error {
	for i, target := range c.Props {
		if strings.TrimSpace(target.Player) == "" {
			return fmt.Errorf("props[%d]: player name is required", i)
		}
		if len(target.Stats) == 0 {
			return fmt.Errorf("props[%d]: at least one stat type is required", i)
		}
	}
	for i, team := range c.Teams {
		if strings.TrimSpace(team) == "" {
			return fmt.Errorf("teams[%d]: team abbreviation is required", i)
		}
	}
	return nil
}

// TargetCount returns how many boards one polling pass refreshes
func (c *WatchConfig) TargetCount() int {
	count := len(c.Teams)
	for _, target := range c.Props {
		count += len(target.Stats)
	}
	return count
}
