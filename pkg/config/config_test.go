package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "NEO4J_URI", "NEO4J_USER", "MODEL_NAME", "MAX_COMMENTS", "MAX_REPLIES_PER_COMMENT", "MAX_OFFICIAL_RESPONSES"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "bolt://localhost:7687", cfg.Neo4jURI)
	assert.Equal(t, "neo4j", cfg.Neo4jUser)
	assert.Equal(t, "qwen-plus", cfg.ModelName)
	assert.Equal(t, 20, cfg.MaxComments)
	assert.Equal(t, 5, cfg.MaxRepliesPerComment)
	assert.Equal(t, 5, cfg.MaxOfficialResponses)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("NEO4J_URI", "bolt://graph.internal:7687")
	t.Setenv("MAX_COMMENTS", "50")
	t.Setenv("MODEL_NAME", "qwen-max")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "bolt://graph.internal:7687", cfg.Neo4jURI)
	assert.Equal(t, 50, cfg.MaxComments)
	assert.Equal(t, "qwen-max", cfg.ModelName)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("MAX_COMMENTS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.MaxComments)
}

func TestLoad_TrailingGarbageIntFallsBack(t *testing.T) {
	t.Setenv("MAX_COMMENTS", "12abc")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.MaxComments)
}

func TestValidate(t *testing.T) {
	valid := &Config{
		Neo4jURI:             "bolt://localhost:7687",
		Neo4jUser:            "neo4j",
		Neo4jPassword:        "password",
		MaxComments:          20,
		MaxRepliesPerComment: 5,
	}
	assert.NoError(t, valid.Validate())

	missing := *valid
	missing.Neo4jPassword = ""
	assert.Error(t, missing.Validate())

	badCap := *valid
	badCap.MaxComments = 0
	assert.Error(t, badCap.Validate())
}

func TestValidate_LLMOptional(t *testing.T) {
	cfg := &Config{
		Neo4jURI:             "bolt://localhost:7687",
		Neo4jUser:            "neo4j",
		Neo4jPassword:        "password",
		MaxComments:          20,
		MaxRepliesPerComment: 5,
	}
	assert.NoError(t, cfg.Validate())
	assert.Error(t, cfg.RequireLLM())

	cfg.DashScopeAPIKey = "sk-test"
	cfg.ModelName = "qwen-plus"
	assert.NoError(t, cfg.RequireLLM())
}

func TestEnvModes(t *testing.T) {
	dev := &Config{Env: "development"}
	assert.True(t, dev.IsDevelopment())
	assert.False(t, dev.IsProduction())

	prod := &Config{Env: "production"}
	assert.True(t, prod.IsProduction())
	assert.False(t, prod.IsDevelopment())
}
