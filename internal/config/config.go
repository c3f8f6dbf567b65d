// Package config provides configuration management for Srishti.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Session  SessionConfig  `mapstructure:"session"`
	GenAI    GenAIConfig    `mapstructure:"genai"`
	TTS      TTSConfig      `mapstructure:"tts"`
	Listener ListenerConfig `mapstructure:"listener"`
	Store    StoreConfig    `mapstructure:"store"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// SessionConfig configures the session engine.
type SessionConfig struct {
	BotName       string   `mapstructure:"bot_name"`
	WakeAliases   []string `mapstructure:"wake_aliases"`   // short aliases beyond "hey <bot_name>"
	DefaultMode   string   `mapstructure:"default_mode"`   // AGI or ASI
	HistoryWindow int      `mapstructure:"history_window"` // prior messages sent as model context
	RelayCapacity int      `mapstructure:"relay_capacity"`
}

// GenAIConfig configures the remote completion backend.
type GenAIConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"` // falls back to GEMINI_API_KEY env
	ChatModel      string        `mapstructure:"chat_model"`
	RecallModel    string        `mapstructure:"recall_model"` // smaller model for memory recall
	TTSModel       string        `mapstructure:"tts_model"`
	Timeout        time.Duration `mapstructure:"timeout"`
	ThinkingBudget struct {
		ASI int `mapstructure:"asi"`
		AGI int `mapstructure:"agi"`
	} `mapstructure:"thinking_budget"`
}

// TTSConfig configures speech playback.
type TTSConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Voice      string `mapstructure:"voice"`
	SampleRate int    `mapstructure:"sample_rate"`
}

// ListenerConfig configures the background speech-recognition stream.
type ListenerConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	ServerURL      string        `mapstructure:"server_url"` // websocket endpoint
	SampleRate     int           `mapstructure:"sample_rate"`
	ReconnectDelay time.Duration `mapstructure:"reconnect_delay"`
}

// StoreConfig configures durable storage.
type StoreConfig struct {
	Path string `mapstructure:"path"` // sqlite database path
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Dir     string `mapstructure:"dir"`
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	cfg := &Config{
		Session: SessionConfig{
			BotName:       "Srishti",
			WakeAliases:   []string{"rara"},
			DefaultMode:   "ASI",
			HistoryWindow: 15,
			RelayCapacity: 50,
		},
		GenAI: GenAIConfig{
			BaseURL:     "https://generativelanguage.googleapis.com/v1beta",
			ChatModel:   "gemini-3-pro-preview",
			RecallModel: "gemini-3-flash-preview",
			TTSModel:    "gemini-2.5-flash-preview-tts",
			Timeout:     120 * time.Second,
		},
		TTS: TTSConfig{
			Enabled:    true,
			Voice:      "Zephyr",
			SampleRate: 24000,
		},
		Listener: ListenerConfig{
			Enabled:        false,
			ServerURL:      "ws://localhost:9090/v1/listen",
			SampleRate:     16000,
			ReconnectDelay: 2 * time.Second,
		},
		Store: StoreConfig{
			Path: filepath.Join(home, ".srishti", "synapse.db"),
		},
		Logging: LoggingConfig{
			Dir:     filepath.Join(home, ".srishti", "logs"),
			Level:   "debug",
			Console: true,
		},
	}
	cfg.GenAI.ThinkingBudget.ASI = 32000
	cfg.GenAI.ThinkingBudget.AGI = 8000
	return cfg
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".srishti"), nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configDir, err := ConfigDir()
	if err != nil {
		return cfg, err
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return cfg, err
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("SRISHTI")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, err
		}
		// Config file not found, use defaults and create one
		if err := Save(cfg); err != nil {
			return cfg, err
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return cfg, err
	}

	// Credential is a passthrough, never written to the config file.
	if cfg.GenAI.APIKey == "" {
		cfg.GenAI.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	return cfg, nil
}

// Save writes the configuration to file.
func Save(cfg *Config) error {
	configDir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	viper.Set("session", cfg.Session)
	viper.Set("genai", cfg.GenAI)
	viper.Set("tts", cfg.TTS)
	viper.Set("listener", cfg.Listener)
	viper.Set("store", cfg.Store)
	viper.Set("logging", cfg.Logging)

	return viper.WriteConfigAs(filepath.Join(configDir, "config.yaml"))
}
