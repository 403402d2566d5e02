package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Analysis agents
	ExpressionAgentURL string `yaml:"expression_agent_url"`
	VoiceAgentURL      string `yaml:"voice_agent_url"`
	QuestionAgentURL   string `yaml:"question_agent_url"`
	DocumentAgentURL   string `yaml:"document_agent_url"`

	// Report builder (OpenAI)
	OpenAIAPIKey string `yaml:"openai_api_key"`
	OpenAIModel  string `yaml:"openai_model"`

	// Media
	UploadRoot       string        `yaml:"upload_root"`
	FFmpegBin        string        `yaml:"ffmpeg_bin"`
	FFprobeBin       string        `yaml:"ffprobe_bin"`
	TranscodeTimeout time.Duration `yaml:"transcode_timeout"`
	MaxUploadBytes   int64         `yaml:"max_upload_bytes"`

	// Account
	DefaultAccountID string `yaml:"default_account_id"`
	JWTSecret        string `yaml:"jwt_secret"`

	// Development switches
	AllowStubAnalysis bool `yaml:"allow_stub_analysis"`

	// Database
	DatabaseURL string `yaml:"database_url"`

	// Server
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
}

// DefaultAccount is the implicit single-tenant account seeded by the first
// migration. A bearer token can select a different account per request.
const DefaultAccount = "00000000-0000-0000-0000-000000000001"

func Load() (*Config, error) {
	cfg := &Config{
		ExpressionAgentURL: getEnv("EXPRESSION_AGENT_URL", ""),
		VoiceAgentURL:      getEnv("VOICE_AGENT_URL", ""),
		QuestionAgentURL:   getEnv("QUESTION_AGENT_URL", ""),
		DocumentAgentURL:   getEnv("DOCUMENT_AGENT_URL", ""),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		UploadRoot:       getEnv("UPLOAD_ROOT", "uploads"),
		FFmpegBin:        getEnv("FFMPEG_BIN", "ffmpeg"),
		FFprobeBin:       getEnv("FFPROBE_BIN", "ffprobe"),
		TranscodeTimeout: getDuration("TRANSCODE_TIMEOUT", 5*time.Minute),
		MaxUploadBytes:   getInt64("MAX_UPLOAD_BYTES", 100<<20),

		DefaultAccountID: getEnv("DEFAULT_ACCOUNT_ID", DefaultAccount),
		JWTSecret:        getEnv("JWT_SECRET", ""),

		AllowStubAnalysis: getEnv("ALLOW_STUB_ANALYSIS", "") == "true",

		DatabaseURL: getEnv("DATABASE_URL", ""),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	// Optional YAML overlay for values that are awkward as env vars
	// (agent endpoints, timeouts). Env vars above act as the base.
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) Validate() error {
	if c.UploadRoot == "" {
		return fmt.Errorf("UPLOAD_ROOT is required")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if c.TranscodeTimeout <= 0 {
		return fmt.Errorf("TRANSCODE_TIMEOUT must be positive")
	}
	if c.DefaultAccountID == "" {
		return fmt.Errorf("DEFAULT_ACCOUNT_ID is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
