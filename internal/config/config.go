package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort      = "3000"
	DefaultBaseURL   = "https://api.groq.com/openai/v1"
	DefaultTimeout   = 30 * time.Second
	DefaultDetection = "configs/detectionConfig.json"
)

// Config holds the service configuration
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	Detection struct {
		Path string `yaml:"path"`
	} `yaml:"detection"`

	// AI holds the chat-completion endpoint settings. The model and
	// temperature live in the detection config.
	AI struct {
		APIKey  string        `yaml:"api_key"`
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"ai"`

	Log struct {
		Format string `yaml:"format"` // "console" or "json"
	} `yaml:"log"`
}

// LoadConfig loads configuration from YAML file
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	config.applyDefaults()

	return config, nil
}

// applyDefaults expands environment references and fills unset fields.
func (c *Config) applyDefaults() {
	c.Server.Port = os.ExpandEnv(c.Server.Port)
	c.AI.APIKey = os.ExpandEnv(c.AI.APIKey)

	if c.Server.Port == "" {
		c.Server.Port = os.Getenv("PORT")
	}
	if c.Server.Port == "" {
		c.Server.Port = DefaultPort
	}

	if c.AI.APIKey == "" {
		c.AI.APIKey = os.Getenv("GROQ_API_KEY")
	}

	if c.AI.BaseURL == "" {
		c.AI.BaseURL = DefaultBaseURL
	}

	if c.AI.Timeout == 0 {
		c.AI.Timeout = DefaultTimeout
	}

	if c.Detection.Path == "" {
		c.Detection.Path = DefaultDetection
	}

	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}
