package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dealsense/diligence/internal/domain"
)

// Config holds all application configuration
type Config struct {
	KnowledgeDir string           `yaml:"knowledge_dir"`
	Companies    []domain.Company `yaml:"companies"`
	LLM          LLMConfig        `yaml:"llm"`
	Server       ServerConfig     `yaml:"server"`
	Email        EmailConfig      `yaml:"email"`
	Reports      ReportsConfig    `yaml:"reports"`
	Verbose      bool             `yaml:"-"` // Set via CLI only
}

// LLMConfig holds model provider settings
type LLMConfig struct {
	Provider string `yaml:"provider"` // openai, googleai
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"` // Custom API endpoint
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	Workers    int    `yaml:"workers"`
}

// EmailConfig holds email delivery settings
type EmailConfig struct {
	Enabled      bool   `yaml:"enabled"`
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	FromAddress  string `yaml:"from_address"`
	FromName     string `yaml:"from_name"`
	ToAddress    string `yaml:"to_address"`
}

// ReportsConfig holds report storage settings
type ReportsConfig struct {
	OutputDir string `yaml:"output_dir"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		KnowledgeDir: "knowledge",
		Companies:    domain.DefaultCompanies,
		LLM: LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
		Server: ServerConfig{
			ListenAddr: ":8080",
			Workers:    2,
		},
		Email: EmailConfig{
			SMTPPort: 587,
			FromName: "Due Diligence Agent",
		},
		Reports: ReportsConfig{
			OutputDir: "reports",
		},
	}
}

// Load reads configuration from file and merges with defaults
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Determine config file path
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return cfg, nil // Use defaults if can't find home
		}
		path = filepath.Join(homeDir, ".config", "diligence", "config.yaml")
	}

	path = expandPath(path)

	// Read config file if it exists
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if file doesn't exist
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.KnowledgeDir = expandPath(cfg.KnowledgeDir)
	cfg.Reports.OutputDir = expandPath(cfg.Reports.OutputDir)

	if len(cfg.Companies) == 0 {
		cfg.Companies = domain.DefaultCompanies
	}

	return cfg, nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(homeDir, path[2:])
		}
	}
	return path
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.KnowledgeDir == "" {
		return fmt.Errorf("knowledge_dir is required")
	}

	if _, err := os.Stat(c.KnowledgeDir); os.IsNotExist(err) {
		return fmt.Errorf("knowledge_dir does not exist: %s", c.KnowledgeDir)
	}

	if c.Email.Enabled {
		if c.Email.SMTPHost == "" {
			return fmt.Errorf("smtp_host is required when email is enabled")
		}
		if c.Email.ToAddress == "" {
			return fmt.Errorf("to_address is required when email is enabled")
		}
	}

	if c.Server.Workers < 1 {
		c.Server.Workers = 1
	}

	if c.LLM.APIKey == "" {
		// Check environment variable
		if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
			c.LLM.APIKey = key
		} else if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			c.LLM.APIKey = key
		}
	}

	return nil
}
