package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all meddesk configuration.
type Config struct {
	KBPath    string       `yaml:"kb_path"`
	CachePath string       `yaml:"cache_path"`
	DBPath    string       `yaml:"db_path"`
	Gemini    GeminiConfig `yaml:"gemini"`
	Engine    EngineConfig `yaml:"engine"`
	Logging   LogConfig    `yaml:"logging"`
}

// GeminiConfig defines the remote generation backend. Model selection is
// configuration only; no candidate models are probed at startup.
type GeminiConfig struct {
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	Endpoint string `yaml:"endpoint"`
}

// EngineConfig controls the answer generation engine.
type EngineConfig struct {
	RemoteTimeout  time.Duration `yaml:"remote_timeout"`
	CooldownWindow time.Duration `yaml:"cooldown_window"`
	History        bool          `yaml:"history"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	File  string `yaml:"file"`
	Debug bool   `yaml:"debug"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		KBPath:    "data/knowledge_base/analytics_kb.json",
		CachePath: "data/cache/answer_cache.json",
		DBPath:    "meddesk.db",
		Gemini: GeminiConfig{
			APIKey:   os.Getenv("GEMINI_API_KEY"),
			Model:    "gemini-2.5-flash",
			Endpoint: "https://generativelanguage.googleapis.com/v1beta/models",
		},
		Engine: EngineConfig{
			RemoteTimeout:  8 * time.Second,
			CooldownWindow: 5 * time.Minute,
			History:        true,
		},
	}
}

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Engine.RemoteTimeout <= 0 {
		cfg.Engine.RemoteTimeout = 8 * time.Second
	}
	if cfg.Engine.CooldownWindow <= 0 {
		cfg.Engine.CooldownWindow = 5 * time.Minute
	}

	return cfg, nil
}

// LoadOrDefault loads the config at path, falling back to defaults when the
// file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}
