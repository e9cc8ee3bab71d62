package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

type Config struct {
	IgnoreEnhanced bool   `yaml:"ignore_enhanced" json:"ignore_enhanced"`
	Format         string `yaml:"format" json:"format"`
	LogFile        string `yaml:"log_file" json:"log_file"`
	LogJSON        bool   `yaml:"log_json" json:"log_json"`
	Verbose        bool   `yaml:"verbose" json:"verbose"`
	Addr           string `yaml:"addr" json:"addr"`
	DataDir        string `yaml:"data_dir" json:"data_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		IgnoreEnhanced: false,
		Format:         FormatText,
		LogFile:        "",
		LogJSON:        false,
		Verbose:        false,
		Addr:           ":8080",
		DataDir:        defaultDataDir(),
	}
}

func defaultDataDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".dngprobe")
}

func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Format {
	case "":
		c.Format = FormatText
	case FormatText, FormatJSON:
	default:
		return &ValidationError{Field: "format", Message: "format must be text or json"}
	}
	if err := validatePath(c.LogFile); err != nil {
		return &ValidationError{Field: "log_file", Message: err.Error()}
	}
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.DataDir == "" {
		c.DataDir = defaultDataDir()
	}

	return nil
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
