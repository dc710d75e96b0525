// Package config loads coach configuration from YAML with environment
// overrides. Every field has a usable default so a zero-config run works
// against the bundled fixture data.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration.
type Config struct {
	// DefaultPatch is used when a request does not pin one.
	DefaultPatch string `yaml:"default_patch"`

	// MaxAttempts is the regeneration budget after the initial draft.
	MaxAttempts int `yaml:"max_attempts"`

	// EvidenceK caps how many ranked snippets reach the generator.
	EvidenceK int `yaml:"evidence_k"`

	Guardrail GuardrailConfig `yaml:"guardrail"`
	LLM       LLMConfig       `yaml:"llm"`
	Signal    SignalConfig    `yaml:"signal"`
	Database  DatabaseConfig  `yaml:"database"`
}

// GuardrailConfig bounds the validation rules.
type GuardrailConfig struct {
	MaxSummarySentences int     `yaml:"max_summary_sentences"`
	StatTolerance       float64 `yaml:"stat_tolerance"`
}

// LLMConfig selects and configures the draft generator.
type LLMConfig struct {
	// Provider is "gemini" or "heuristic".
	Provider string        `yaml:"provider"`
	Model    string        `yaml:"model"`
	APIKey   string        `yaml:"api_key"`
	Timeout  time.Duration `yaml:"timeout"`
}

// SignalConfig configures the win-rate source.
type SignalConfig struct {
	Enabled bool          `yaml:"enabled"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// DatabaseConfig locates the facts store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DefaultPatch: "14.99",
		MaxAttempts:  1,
		EvidenceK:    5,
		Guardrail: GuardrailConfig{
			MaxSummarySentences: 3,
			StatTolerance:       0.05,
		},
		LLM: LLMConfig{
			Provider: "heuristic",
			Model:    "gemini-2.0-flash",
			Timeout:  30 * time.Second,
		},
		Signal: SignalConfig{
			Enabled: false,
			Timeout: 5 * time.Second,
		},
		Database: DatabaseConfig{
			Path: "aramcoach.db",
		},
	}
}

// Load reads path (optional) over the defaults and then applies environment
// overrides on top. A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv layers ARAMCOACH_* variables over cfg. The Gemini key also
// falls back to GEMINI_API_KEY since that is what the SDK documents.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("ARAMCOACH_PATCH"); v != "" {
		cfg.DefaultPatch = v
	}
	if v := os.Getenv("ARAMCOACH_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ARAMCOACH_MAX_ATTEMPTS: %w", err)
		}
		cfg.MaxAttempts = n
	}
	if v := os.Getenv("ARAMCOACH_EVIDENCE_K"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ARAMCOACH_EVIDENCE_K: %w", err)
		}
		cfg.EvidenceK = n
	}
	if v := os.Getenv("ARAMCOACH_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("ARAMCOACH_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("ARAMCOACH_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("ARAMCOACH_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	} else if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if v := os.Getenv("ARAMCOACH_SIGNAL_URL"); v != "" {
		cfg.Signal.BaseURL = v
		cfg.Signal.Enabled = true
	}
	return nil
}

func (c *Config) validate() error {
	if c.MaxAttempts < 0 {
		return fmt.Errorf("max_attempts must be >= 0, got %d", c.MaxAttempts)
	}
	if c.EvidenceK <= 0 {
		return fmt.Errorf("evidence_k must be > 0, got %d", c.EvidenceK)
	}
	switch c.LLM.Provider {
	case "gemini", "heuristic":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	if c.Signal.Enabled && c.Signal.BaseURL == "" {
		return fmt.Errorf("signal enabled but base_url is empty")
	}
	return nil
}
