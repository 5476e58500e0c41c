// Package config loads settings for calc and calcd from defaults, an
// optional YAML file and environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"distr-calc/internal/logger"
	"distr-calc/internal/storage"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig   `yaml:"server"`
	Log     logger.Config  `yaml:"log"`
	Storage storage.Config `yaml:"storage"`
	Client  ClientConfig   `yaml:"client"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type ClientConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{Port: 8080},
		Log:    logger.DefaultConfig(),
		Storage: storage.Config{
			Driver:       storage.DriverMemory,
			HistoryLimit: 1000,
		},
		Client: ClientConfig{
			URL:     "http://localhost:8080",
			Timeout: 10 * time.Second,
		},
	}
}

// Load reads path (if not empty) over the defaults and applies environment
// overrides. A missing file is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse yaml: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnvOrDefaultInt("PORT", c.Server.Port)
	c.Log.Level = logger.LogLevel(getEnvOrDefault("LOG_LEVEL", string(c.Log.Level)))
	c.Log.Encoding = getEnvOrDefault("LOG_ENCODING", c.Log.Encoding)
	c.Log.OutputPath = getEnvOrDefault("LOG_OUTPUT", c.Log.OutputPath)
	c.Storage.Driver = getEnvOrDefault("STORAGE_DRIVER", c.Storage.Driver)
	c.Storage.Path = getEnvOrDefault("STORAGE_PATH", c.Storage.Path)
	c.Storage.HistoryLimit = getEnvOrDefaultInt("HISTORY_LIMIT", c.Storage.HistoryLimit)
	c.Client.URL = getEnvOrDefault("CALC_SERVER_URL", c.Client.URL)
	c.Client.Timeout = parseDurationEnv("CLIENT_TIMEOUT_MS", c.Client.Timeout)
}

func (c Config) Validate() error {
	var problems []error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Errorf("server port %d out of range", c.Server.Port))
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, err)
	}
	switch c.Storage.Driver {
	case storage.DriverMemory:
	case storage.DriverSQLite:
		if c.Storage.Path == "" {
			problems = append(problems, errors.New("sqlite storage requires a path"))
		}
	default:
		problems = append(problems, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}
	if c.Storage.HistoryLimit < 0 {
		problems = append(problems, fmt.Errorf("history limit %d is negative", c.Storage.HistoryLimit))
	}
	if c.Client.Timeout <= 0 {
		problems = append(problems, fmt.Errorf("client timeout %s must be positive", c.Client.Timeout))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(problems...))
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		logger.Debugf("Environment variable %s found with value: %s", key, value)
		return value
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		logger.Warnf("Failed to parse environment variable %s as integer: %s, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	if intValue < 0 {
		logger.Warnf("Environment variable %s has invalid value: %s (negative), using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return intValue
}

// parseDurationEnv reads key as a positive number of milliseconds.
func parseDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	ms, err := strconv.Atoi(value)
	if err != nil || ms < 1 {
		logger.Warnf("Environment variable %s has invalid value: %s (want positive milliseconds), using default: %s", key, value, defaultValue)
		return defaultValue
	}
	return time.Duration(ms) * time.Millisecond
}
