package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

type Config struct {
	Server struct {
		Addr           string   `yaml:"addr"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
	Storage struct {
		Driver string `yaml:"driver"`
		SQLite struct {
			Path string `yaml:"path"`
		} `yaml:"sqlite"`
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
		Postgres struct {
			URL string `yaml:"url"`
		} `yaml:"postgres"`
		Cache struct {
			TTL string `yaml:"ttl"`
		} `yaml:"cache"`
	} `yaml:"storage"`
	Player struct {
		Name string `yaml:"name"`
	} `yaml:"player"`
	Speech struct {
		Enabled bool    `yaml:"enabled"`
		Command string  `yaml:"command"`
		Lang    string  `yaml:"lang"`
		Rate    float64 `yaml:"rate"`
	} `yaml:"speech"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.Server.Addr = "127.0.0.1:8080"
	cfg.Server.AllowedOrigins = []string{"http://localhost:3000"}
	cfg.Storage.Driver = DriverSQLite
	cfg.Storage.SQLite.Path = "reading-adventure.db"
	cfg.Speech.Command = "espeak-ng"
	cfg.Speech.Lang = "th-TH"
	cfg.Speech.Rate = 0.9
	return cfg
}

// Load reads YAML config from path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
