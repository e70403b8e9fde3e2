package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the resolved runtime configuration for the API server and CLI.
type Config struct {
	Env            string
	ListenAddr     string
	DatabaseURL    string
	LogFile        string
	AllowedOrigins []string

	LLM       LLMConfig
	Hunter    HunterConfig
	LinkedIn  LinkedInConfig
	Session   SessionConfig
	Extractor ExtractorConfig

	PostLoginRedirect string
}

type LLMConfig struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	APIVersion  string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

type HunterConfig struct {
	APIKey  string
	BaseURL string
	Limit   int
}

type LinkedInConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type SessionConfig struct {
	TTL          time.Duration
	CookieSecure bool
}

type ExtractorConfig struct {
	VocabularyFile string
}

// IsProduction reports whether the server runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads .env (if present), an optional achileads.yaml in the working
// directory and the environment. Environment variables win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using process environment")
	}
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetConfigName("achileads")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("env", "development")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("database_url", "")
	v.SetDefault("log_file", "")
	v.SetDefault("allowed_origins", "*")

	v.SetDefault("llm.provider", "googleai")
	v.SetDefault("llm.model", "gemini-2.5-flash")
	v.SetDefault("llm.api_version", "2024-05-01-preview")
	v.SetDefault("llm.max_tokens", 4096)
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.timeout", "90s")

	v.SetDefault("hunter.base_url", "https://api.hunter.io/v2")
	v.SetDefault("hunter.limit", 10)

	v.SetDefault("session.ttl", "720h")
	v.SetDefault("session.cookie_secure", false)
	v.SetDefault("post_login_redirect", "/")
	v.SetDefault("extractor.vocabulary_file", "")

	// Env names match the ones the deployment already uses, so bind them
	// one by one instead of relying on a prefix.
	bindings := map[string][]string{
		"env":                       {"APP_ENV"},
		"listen_addr":               {"LISTEN_ADDR"},
		"database_url":              {"DATABASE_URL"},
		"log_file":                  {"LOG_FILE"},
		"allowed_origins":           {"ALLOWED_ORIGINS"},
		"llm.provider":              {"LLM_PROVIDER"},
		"llm.model":                 {"LLM_MODEL"},
		"llm.api_key":               {"LLM_API_KEY", "GEMINI_API_KEY", "AZURE_AI_API_KEY", "ANTHROPIC_API_KEY"},
		"llm.base_url":              {"LLM_BASE_URL"},
		"llm.api_version":           {"LLM_API_VERSION"},
		"llm.max_tokens":            {"LLM_MAX_TOKENS"},
		"llm.temperature":           {"LLM_TEMPERATURE"},
		"llm.timeout":               {"LLM_TIMEOUT"},
		"hunter.api_key":            {"HUNTER_IO_API_KEY"},
		"hunter.base_url":           {"HUNTER_BASE_URL"},
		"hunter.limit":              {"HUNTER_LIMIT"},
		"linkedin.client_id":        {"LINKEDIN_CLIENT_ID"},
		"linkedin.client_secret":    {"LINKEDIN_CLIENT_SECRET"},
		"linkedin.redirect_url":     {"LINKEDIN_REDIRECT_URL"},
		"session.ttl":               {"SESSION_TTL"},
		"session.cookie_secure":     {"SESSION_COOKIE_SECURE"},
		"post_login_redirect":       {"POST_LOGIN_REDIRECT"},
		"extractor.vocabulary_file": {"EXTRACTOR_VOCABULARY_FILE"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Env:            v.GetString("env"),
		ListenAddr:     v.GetString("listen_addr"),
		DatabaseURL:    v.GetString("database_url"),
		LogFile:        v.GetString("log_file"),
		AllowedOrigins: splitList(v.GetString("allowed_origins")),
		LLM: LLMConfig{
			Provider:    strings.ToLower(v.GetString("llm.provider")),
			Model:       v.GetString("llm.model"),
			APIKey:      v.GetString("llm.api_key"),
			BaseURL:     v.GetString("llm.base_url"),
			APIVersion:  v.GetString("llm.api_version"),
			MaxTokens:   v.GetInt("llm.max_tokens"),
			Temperature: v.GetFloat64("llm.temperature"),
			Timeout:     v.GetDuration("llm.timeout"),
		},
		Hunter: HunterConfig{
			APIKey:  v.GetString("hunter.api_key"),
			BaseURL: strings.TrimRight(v.GetString("hunter.base_url"), "/"),
			Limit:   v.GetInt("hunter.limit"),
		},
		LinkedIn: LinkedInConfig{
			ClientID:     v.GetString("linkedin.client_id"),
			ClientSecret: v.GetString("linkedin.client_secret"),
			RedirectURL:  v.GetString("linkedin.redirect_url"),
		},
		Session: SessionConfig{
			TTL:          v.GetDuration("session.ttl"),
			CookieSecure: v.GetBool("session.cookie_secure"),
		},
		Extractor: ExtractorConfig{
			VocabularyFile: v.GetString("extractor.vocabulary_file"),
		},
		PostLoginRedirect: v.GetString("post_login_redirect"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.LLM.Provider {
	case "googleai", "openai", "azure", "ollama", "anthropic":
	default:
		return fmt.Errorf("unsupported llm.provider %q", c.LLM.Provider)
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm.max_tokens must be positive, got %d", c.LLM.MaxTokens)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive, got %s", c.Session.TTL)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
