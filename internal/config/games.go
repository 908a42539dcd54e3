package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// GamesConfig holds the economy and table tunables.
type GamesConfig struct {
	StartBalance    float64       `yaml:"start_balance"`
	DailyReward     float64       `yaml:"daily_reward"`
	WeeklyReward    float64       `yaml:"weekly_reward"`
	RequiredDailies int           `yaml:"required_dailies"`
	DailyCooldown   time.Duration `yaml:"daily_cooldown"`
	SearchBase      float64       `yaml:"search_base"`
	TurnTimeout     time.Duration `yaml:"turn_timeout"`
	DealerStand     int           `yaml:"dealer_stand"`
	InterestMaxRate float64       `yaml:"interest_max_rate"`
	LeaderboardSize int           `yaml:"leaderboard_size"`
}

func DefaultGames() GamesConfig {
	return GamesConfig{
		StartBalance:    1000,
		DailyReward:     100,
		WeeklyReward:    1000,
		RequiredDailies: 7,
		DailyCooldown:   24 * time.Hour,
		SearchBase:      100,
		TurnTimeout:     30 * time.Second,
		DealerStand:     17,
		InterestMaxRate: 0.0001,
		LeaderboardSize: 10,
	}
}

// LoadGames reads an optional YAML file. An empty path or a missing file
// yields the defaults; zero fields in the file keep their defaults.
func LoadGames(path string) (GamesConfig, error) {
	cfg := DefaultGames()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	var fileCfg GamesConfig
	if err := yaml.Unmarshal(b, &fileCfg); err != nil {
		return cfg, err
	}
	cfg.merge(fileCfg)
	return cfg, nil
}

func (c *GamesConfig) merge(o GamesConfig) {
	if o.StartBalance > 0 {
		c.StartBalance = o.StartBalance
	}
	if o.DailyReward > 0 {
		c.DailyReward = o.DailyReward
	}
	if o.WeeklyReward > 0 {
		c.WeeklyReward = o.WeeklyReward
	}
	if o.RequiredDailies > 0 {
		c.RequiredDailies = o.RequiredDailies
	}
	if o.DailyCooldown > 0 {
		c.DailyCooldown = o.DailyCooldown
	}
	if o.SearchBase > 0 {
		c.SearchBase = o.SearchBase
	}
	if o.TurnTimeout > 0 {
		c.TurnTimeout = o.TurnTimeout
	}
	if o.DealerStand > 0 {
		c.DealerStand = o.DealerStand
	}
	if o.InterestMaxRate > 0 {
		c.InterestMaxRate = o.InterestMaxRate
	}
	if o.LeaderboardSize > 0 {
		c.LeaderboardSize = o.LeaderboardSize
	}
}
