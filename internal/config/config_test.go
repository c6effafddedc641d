package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(env.Options{Environment: map[string]string{}})
	require.NoError(t, err)

	assert.Equal(t, ":8501", cfg.ServerAddr)
	assert.Equal(t, "gpt-4o-mini", cfg.ModelCfg.DefaultModel)
	assert.Contains(t, cfg.ModelCfg.Models, "gpt-4o")
	assert.Equal(t, 4, cfg.ModelCfg.DefaultK)
	assert.Equal(t, "/query/ephemeral", cfg.RAGConnectorCfg.EphemeralQueryEndpoint)
	assert.Equal(t, 120*time.Second, cfg.RAGConnectorCfg.RequestTimeout)
	assert.Equal(t, uint(5), cfg.RAGConnectorCfg.Probe.Attempts)
	assert.Equal(t, time.Hour, cfg.SessionCfg.TTL)
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := Parse(env.Options{Environment: map[string]string{
		"RAG_SERVICE_URL":      "http://rag:9000",
		"RAG_TOKEN":            "service-token",
		"MODELS":               "gpt-4o,gpt-4o-mini",
		"DEFAULT_MODEL":        "gpt-4o",
		"DEFAULT_TEMPERATURE":  "0.7",
		"FILE_UPLOAD_TEMP_DIR": "/srv/tmp",
		"SESSION_TTL":          "30m",
	}})
	require.NoError(t, err)

	assert.Equal(t, "http://rag:9000", cfg.RAGConnectorCfg.Url)
	assert.Equal(t, "service-token", cfg.RAGConnectorCfg.Token)
	assert.Equal(t, []string{"gpt-4o", "gpt-4o-mini"}, cfg.ModelCfg.Models)
	assert.Equal(t, 0.7, cfg.ModelCfg.DefaultTemperature)
	assert.Equal(t, "/srv/tmp", cfg.FileUploadCfg.TempDir)
	assert.Equal(t, 30*time.Minute, cfg.SessionCfg.TTL)
}

func TestParse_CollectsAllViolations(t *testing.T) {
	_, err := Parse(env.Options{Environment: map[string]string{
		"DEFAULT_MODEL":       "llama",
		"DEFAULT_TEMPERATURE": "1.5",
		"DEFAULT_K":           "0",
		"RAG_PROBE_ATTEMPTS":  "0",
	}})
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, `DEFAULT_MODEL "llama" is not in MODELS`)
	assert.Contains(t, msg, "DEFAULT_TEMPERATURE")
	assert.Contains(t, msg, "DEFAULT_K")
	assert.Contains(t, msg, "RAG_PROBE_ATTEMPTS")
}

func TestValidateConfig_ServiceURLRequiredWithoutMocks(t *testing.T) {
	cfg, err := Parse(env.Options{Environment: map[string]string{}})
	require.NoError(t, err)

	cfg.RAGConnectorCfg.Url = ""
	assert.ErrorContains(t, validateConfig(cfg), "RAG_SERVICE_URL")

	cfg.EnableMocks = true
	assert.NoError(t, validateConfig(cfg))
}

func TestGetEnvFile(t *testing.T) {
	assert.Equal(t, ".env.prod", getEnvFile("production"))
	assert.Equal(t, ".env.local", getEnvFile("dev"))
	assert.Equal(t, ".env.staging", getEnvFile("staging"))
}
