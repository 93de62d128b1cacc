// Package config loads and persists the assistant's YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"majordomo/internal/perception"
)

// LLMConfig selects and tunes the model backend.
type LLMConfig struct {
	// Provider is "ollama" or "gemini".
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	// APIKey may be left empty; GEMINI_API_KEY is consulted as a
	// fallback at load time.
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// RouterConfig tunes the request-routing state machine.
type RouterConfig struct {
	MaxClarificationTurns int    `yaml:"max_clarification_turns"`
	DefaultTool           string `yaml:"default_tool"`
	// RequiredDetails maps tool name to the detail kinds (time, date,
	// email, phone) a request must carry before that tool runs. When
	// empty the built-in per-tool policy applies.
	RequiredDetails map[string][]string `yaml:"required_details"`
}

// PrivacyConfig locates the privacy settings file.
type PrivacyConfig struct {
	SettingsPath string `yaml:"settings_path"`
}

// EmailConfig configures the SMTP transport for the email tool.
type EmailConfig struct {
	SMTPHost string `yaml:"smtp_host"`
	SMTPPort int    `yaml:"smtp_port"`
	From     string `yaml:"from"`
	// Password may be left empty; SMTP_PASSWORD is consulted as a
	// fallback at load time.
	Password string `yaml:"password"`
}

// StorageConfig locates the conversation archive and web cache.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
	CacheDir     string `yaml:"cache_dir"`
}

// LoggingConfig tunes the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Config is the full assistant configuration.
type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	Router  RouterConfig  `yaml:"router"`
	Privacy PrivacyConfig `yaml:"privacy"`
	Email   EmailConfig   `yaml:"email"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:       "ollama",
			Model:          "mistral",
			BaseURL:        "http://localhost:11434",
			TimeoutSeconds: 120,
		},
		Router: RouterConfig{
			MaxClarificationTurns: 3,
			DefaultTool:           "general_query_tool",
		},
		Privacy: PrivacyConfig{
			SettingsPath: "privacy_settings.json",
		},
		Email: EmailConfig{
			SMTPHost: "smtp.gmail.com",
			SMTPPort: 587,
		},
		Storage: StorageConfig{
			DatabasePath: "conversations.db",
			CacheDir:     "webcache",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the config at path, filling gaps with defaults. A missing
// file yields the defaults without error. API keys absent from the
// file are taken from the environment.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Email.Password == "" {
		cfg.Email.Password = os.Getenv("SMTP_PASSWORD")
	}
	return cfg, nil
}

// Save writes the config to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// Timeout returns the LLM request timeout as a duration.
func (c *LLMConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 120 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RequiredDetailKinds converts the config's string detail names to
// detail kinds, rejecting unknown names. Nil config means nil map, so
// the router applies its built-in policy.
func (c *RouterConfig) RequiredDetailKinds() (map[string][]perception.DetailKind, error) {
	if len(c.RequiredDetails) == 0 {
		return nil, nil
	}
	out := make(map[string][]perception.DetailKind, len(c.RequiredDetails))
	for tool, names := range c.RequiredDetails {
		for _, name := range names {
			kind, ok := perception.ParseDetailKind(name)
			if !ok {
				return nil, fmt.Errorf("unknown detail kind %q for tool %s", name, tool)
			}
			out[tool] = append(out[tool], kind)
		}
	}
	return out, nil
}
