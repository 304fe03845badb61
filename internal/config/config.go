package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port      string `yaml:"port"`
		PublicURL string `yaml:"public_url"`
		Pprof     bool   `yaml:"pprof"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		TTL string `yaml:"ttl"`
	} `yaml:"quiz"`
	Game struct {
		RevealDelay   string  `yaml:"reveal_delay"`
		DefaultTimer  string  `yaml:"default_timer"`
		IdleTimeout   string  `yaml:"idle_timeout"`
		SweepInterval string  `yaml:"sweep_interval"`
		AnswerRate    float64 `yaml:"answer_rate"`
		AnswerBurst   int     `yaml:"answer_burst"`
	} `yaml:"game"`
	Files struct {
		Dir string `yaml:"dir"`
		// Seed copies the file catalog into Postgres on start.
		Seed bool `yaml:"seed"`
	} `yaml:"files"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Game.RevealDelay = "3s"
	cfg.Game.DefaultTimer = "30s"
	cfg.Game.IdleTimeout = "60m"
	cfg.Game.SweepInterval = "1m"
	cfg.Game.AnswerRate = 1
	cfg.Game.AnswerBurst = 5
	return cfg
}

// Load reads YAML config from path on top of Default. An empty path, or a
// missing file at the default location, yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// LoadOptional is Load, treating a missing file as no file.
func LoadOptional(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate rejects unparsable durations and negative rates.
func (c Config) Validate() error {
	for name, raw := range map[string]string{
		"redis.ttl":           c.Redis.TTL,
		"quiz.ttl":            c.Quiz.TTL,
		"game.reveal_delay":   c.Game.RevealDelay,
		"game.default_timer":  c.Game.DefaultTimer,
		"game.idle_timeout":   c.Game.IdleTimeout,
		"game.sweep_interval": c.Game.SweepInterval,
	} {
		if raw == "" {
			continue
		}
		if _, err := time.ParseDuration(raw); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if c.Game.AnswerRate < 0 || c.Game.AnswerBurst < 0 {
		return fmt.Errorf("game.answer_rate and game.answer_burst must not be negative")
	}
	return nil
}

// Duration parses a duration string or returns the fallback if empty.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
