package config

import (
	"github.com/btlforms/form283/internal/score"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
}

// OCRConfig holds the document-OCR provider settings.
type OCRConfig struct {
	// Type selects the provider implementation. Currently "azure-di".
	Type      string  `mapstructure:"type" yaml:"type"`
	Endpoint  string  `mapstructure:"endpoint" yaml:"endpoint"`
	APIKey    string  `mapstructure:"api_key" yaml:"api_key"`
	Model     string  `mapstructure:"model" yaml:"model"`
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit"`
	Enabled   bool    `mapstructure:"enabled" yaml:"enabled"`
}

// LLMConfig holds the extraction-model settings.
type LLMConfig struct {
	APIKey      string  `mapstructure:"api_key" yaml:"api_key"`
	BaseURL     string  `mapstructure:"base_url" yaml:"base_url"`
	Model       string  `mapstructure:"model" yaml:"model"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
	MaxRetries  int     `mapstructure:"max_retries" yaml:"max_retries"`
	Enabled     bool    `mapstructure:"enabled" yaml:"enabled"`
}

// Config is the full application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Scoring score.Weights `mapstructure:"scoring" yaml:"scoring"`
	OCR     OCRConfig     `mapstructure:"ocr" yaml:"ocr"`
	LLM     LLMConfig     `mapstructure:"llm" yaml:"llm"`
}

// DefaultConfig returns the configuration used when no file is present.
// API keys reference environment variables so the config file can be
// committed without secrets.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: "8080",
		},
		Scoring: score.DefaultWeights(),
		OCR: OCRConfig{
			Type:      "azure-di",
			Endpoint:  "",
			APIKey:    "${AZURE_DI_API_KEY}",
			Model:     "prebuilt-layout",
			RateLimit: 2.0,
			Enabled:   false,
		},
		LLM: LLMConfig{
			APIKey:      "${OPENAI_API_KEY}",
			Model:       "gpt-4o",
			Temperature: 0,
			MaxRetries:  3,
			Enabled:     false,
		},
	}
}
