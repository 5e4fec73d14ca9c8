package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// App
	Port string
	Env  string

	// Neo4j
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string

	// LLM (DashScope exposes an OpenAI-compatible endpoint)
	DashScopeAPIKey  string
	DashScopeBaseURL string
	ModelName        string

	// Processing caps. The pipeline only analyzes and materializes the
	// first MaxComments comment groups, MaxRepliesPerComment replies
	// within each group, and MaxOfficialResponses official replies.
	// Raise these for full coverage of large threads.
	MaxComments          int
	MaxRepliesPerComment int
	MaxOfficialResponses int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Env:              getEnv("ENV", "development"),
		Neo4jURI:         getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:        getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:    getEnv("NEO4J_PASSWORD", "password"),
		DashScopeAPIKey:  getEnv("DASHSCOPE_API_KEY", ""),
		DashScopeBaseURL: getEnv("DASHSCOPE_BASE_URL", "https://dashscope.aliyuncs.com/compatible-mode/v1"),
		ModelName:        getEnv("MODEL_NAME", "qwen-plus"),

		MaxComments:          getEnvInt("MAX_COMMENTS", 20),
		MaxRepliesPerComment: getEnvInt("MAX_REPLIES_PER_COMMENT", 5),
		MaxOfficialResponses: getEnvInt("MAX_OFFICIAL_RESPONSES", 5),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.Neo4jURI == "" {
		return fmt.Errorf("NEO4J_URI is required")
	}
	if c.Neo4jUser == "" {
		return fmt.Errorf("NEO4J_USER is required")
	}
	if c.Neo4jPassword == "" {
		return fmt.Errorf("NEO4J_PASSWORD is required")
	}
	if c.MaxComments <= 0 {
		return fmt.Errorf("MAX_COMMENTS must be positive")
	}
	if c.MaxRepliesPerComment <= 0 {
		return fmt.Errorf("MAX_REPLIES_PER_COMMENT must be positive")
	}
	// DASHSCOPE_API_KEY is only required when the analyzer runs; the
	// read-side server works without it
	return nil
}

// RequireLLM checks the configuration needed for LLM analysis
func (c *Config) RequireLLM() error {
	if c.DashScopeAPIKey == "" {
		return fmt.Errorf("DASHSCOPE_API_KEY is required")
	}
	if c.ModelName == "" {
		return fmt.Errorf("MODEL_NAME is required")
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if result, err := strconv.Atoi(value); err == nil {
			return result
		}
	}
	return defaultValue
}
