package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "14.99", cfg.DefaultPatch)
	assert.Equal(t, 1, cfg.MaxAttempts)
	assert.Equal(t, 5, cfg.EvidenceK)
	assert.Equal(t, 3, cfg.Guardrail.MaxSummarySentences)
	assert.InDelta(t, 0.05, cfg.Guardrail.StatTolerance, 1e-9)
	assert.Equal(t, "heuristic", cfg.LLM.Provider)
	assert.False(t, cfg.Signal.Enabled)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "14.99", cfg.DefaultPatch)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coach.yaml")
	body := `
default_patch: "15.03"
max_attempts: 2
guardrail:
  max_summary_sentences: 5
llm:
  provider: gemini
  model: gemini-2.5-pro
  api_key: test-key
  timeout: 10s
signal:
  enabled: true
  base_url: https://stats.example.com
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "15.03", cfg.DefaultPatch)
	assert.Equal(t, 2, cfg.MaxAttempts)
	assert.Equal(t, 5, cfg.Guardrail.MaxSummarySentences)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLM.Model)
	assert.Equal(t, 10*time.Second, cfg.LLM.Timeout)
	assert.True(t, cfg.Signal.Enabled)
	// Untouched fields keep their defaults.
	assert.Equal(t, 5, cfg.EvidenceK)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coach.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`default_patch: "15.03"`), 0o644))

	t.Setenv("ARAMCOACH_PATCH", "15.04")
	t.Setenv("ARAMCOACH_MAX_ATTEMPTS", "3")
	t.Setenv("ARAMCOACH_SIGNAL_URL", "https://stats.example.com")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "15.04", cfg.DefaultPatch)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.True(t, cfg.Signal.Enabled)
	assert.Equal(t, "https://stats.example.com", cfg.Signal.BaseURL)
}

func TestLoad_GeminiKeyFallback(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "sdk-key")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sdk-key", cfg.LLM.APIKey)

	t.Setenv("ARAMCOACH_API_KEY", "coach-key")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "coach-key", cfg.LLM.APIKey)
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		yaml string
	}{
		{
			name: "bad max attempts",
			env:  map[string]string{"ARAMCOACH_MAX_ATTEMPTS": "many"},
		},
		{
			name: "negative max attempts",
			yaml: "max_attempts: -1",
		},
		{
			name: "unknown provider",
			yaml: "llm:\n  provider: oracle",
		},
		{
			name: "signal without url",
			yaml: "signal:\n  enabled: true",
		},
		{
			name: "malformed yaml",
			yaml: "default_patch: [unclosed",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			path := ""
			if tc.yaml != "" {
				path = filepath.Join(t.TempDir(), "coach.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tc.yaml), 0o644))
			}
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
