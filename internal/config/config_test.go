package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_ExpandsEnvironment(t *testing.T) {
	t.Setenv("JC_TEST_KEY", "secret-key")
	t.Setenv("JC_TEST_PORT", "8088")

	path := writeFile(t, "config.yml", `
server:
  port: "${JC_TEST_PORT}"
detection:
  path: /etc/jc/detection.json
ai:
  api_key: "${JC_TEST_KEY}"
  base_url: http://localhost:9999/v1
  timeout: 5s
log:
  format: json
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "8088", cfg.Server.Port)
	assert.Equal(t, "secret-key", cfg.AI.APIKey)
	assert.Equal(t, "http://localhost:9999/v1", cfg.AI.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "/etc/jc/detection.json", cfg.Detection.Path)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("GROQ_API_KEY", "")

	path := writeFile(t, "config.yml", "server: {}\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Empty(t, cfg.AI.APIKey)
	assert.Equal(t, DefaultBaseURL, cfg.AI.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.AI.Timeout)
	assert.Equal(t, DefaultDetection, cfg.Detection.Path)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadConfig_FallsBackToProcessEnvironment(t *testing.T) {
	t.Setenv("PORT", "4000")
	t.Setenv("GROQ_API_KEY", "env-key")

	path := writeFile(t, "config.yml", "log:\n  format: console\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Server.Port)
	assert.Equal(t, "env-key", cfg.AI.APIKey)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open config file")
}

func TestParseDetection_JSON(t *testing.T) {
	det, err := ParseDetection(strings.NewReader(`{
  "directPatterns": ["johnny_"],
  "knownAlts": ["CharlieJ2012"],
  "maxEditDistance": 0.3,
  "aiModel": "llama3-8b-8192",
  "aiTemperature": 0.1
}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"johnny_"}, det.DirectPatterns)
	assert.Equal(t, []string{"CharlieJ2012"}, det.KnownAlts)
	assert.InDelta(t, 0.3, det.MaxEditDistance, 1e-9)
	assert.Equal(t, "llama3-8b-8192", det.AIModel)
	assert.InDelta(t, 0.1, det.AITemperature, 1e-9)
	assert.Equal(t, DefaultPrompt, det.AIPrompt)
}

func TestParseDetection_YAML(t *testing.T) {
	det, err := ParseDetection(strings.NewReader(`
directPatterns:
  - johnny_
knownAlts: []
maxEditDistance: 0.25
aiModel: mixtral-8x7b
aiTemperature: 0
aiPrompt: "Is %s an alt? Answer UNSAFE or SAFE."
`))
	require.NoError(t, err)

	assert.Empty(t, det.KnownAlts)
	assert.Equal(t, "Is %s an alt? Answer UNSAFE or SAFE.", det.AIPrompt)
}

func TestParseDetection_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty document", ``},
		{"empty pattern", `{"directPatterns": [""], "aiModel": "m"}`},
		{"empty alias", `{"knownAlts": ["a", ""], "aiModel": "m"}`},
		{"threshold above one", `{"maxEditDistance": 1.5, "aiModel": "m"}`},
		{"negative threshold", `{"maxEditDistance": -0.1, "aiModel": "m"}`},
		{"missing model", `{"maxEditDistance": 0.3}`},
		{"temperature too high", `{"aiModel": "m", "aiTemperature": 3}`},
		{"prompt without placeholder", `{"aiModel": "m", "aiPrompt": "Is this an alt?"}`},
		{"prompt with stray verb", `{"aiModel": "m", "aiPrompt": "Check %s at 100%"}`},
		{"not a document", `[1, 2, 3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDetection(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadDetection_ShippedConfig(t *testing.T) {
	det, err := LoadDetection(filepath.Join("..", "..", "configs", "detectionConfig.json"))
	require.NoError(t, err)

	assert.NotEmpty(t, det.DirectPatterns)
	assert.NotEmpty(t, det.AIModel)
}
