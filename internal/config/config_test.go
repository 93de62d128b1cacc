package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"majordomo/internal/perception"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, "ollama", cfg.LLM.Provider)
	require.Equal(t, 3, cfg.Router.MaxClarificationTurns)
	require.Equal(t, "general_query_tool", cfg.Router.DefaultTool)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.LLM.Provider = "gemini"
	cfg.Router.MaxClarificationTurns = 5
	cfg.Router.RequiredDetails = map[string][]string{
		"email_tool": {"email", "time"},
	}
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "gemini", loaded.LLM.Provider)
	require.Equal(t, 5, loaded.Router.MaxClarificationTurns)
	require.Equal(t, cfg.Router.RequiredDetails, loaded.Router.RequiredDetails)
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("router:\n  max_clarification_turns: 1\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1, cfg.Router.MaxClarificationTurns)
	require.Equal(t, "mistral", cfg.LLM.Model, "untouched sections keep defaults")
}

func TestAPIKeyEnvFallback(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "from-env")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.LLM.APIKey)
}

func TestRequiredDetailKinds(t *testing.T) {
	rc := RouterConfig{RequiredDetails: map[string][]string{
		"calendar_tool": {"date", "time"},
	}}

	kinds, err := rc.RequiredDetailKinds()
	require.NoError(t, err)
	require.Equal(t, []perception.DetailKind{perception.DetailDate, perception.DetailTime},
		kinds["calendar_tool"])

	rc.RequiredDetails["calendar_tool"] = []string{"location"}
	_, err = rc.RequiredDetailKinds()
	require.Error(t, err)
}
