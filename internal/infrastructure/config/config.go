package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration
	DatabaseURL     string // SQLite path or postgres:// URL

	// Generation capability
	LLMProvider string        // "gemini" or "openai"
	LLMURL      string        // OpenAI-compatible endpoint, e.g. "http://localhost:1234"
	LLMModel    string        // model name, e.g. "qwen3-8b" or "gemini-1.5-flash"
	LLMAPIKey   string        // bearer key for the endpoint, or the Gemini API key
	LLMTimeout  time.Duration // per outbound call

	// Sessions
	JWTSecret   string
	SessionTTL  time.Duration
	MaxSessions int
	EvalWorkers int

	Interview Interview
}

// Load reads configuration from the environment (and a .env file if present),
// then overlays the optional interview policy file named by INTERVIEW_CONFIG.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		ServerAddress:   getenvDefault("SERVER_ADDRESS", ":8080"),
		ShutdownTimeout: getDurationDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
		DatabaseURL:     getenvDefault("DATABASE_URL", "mockprep.db"),
		LLMProvider:     strings.ToLower(getenvDefault("LLM_PROVIDER", "")),
		LLMURL:          getenvDefault("LLM_URL", "http://localhost:1234"),
		LLMModel:        os.Getenv("LLM_MODEL"),
		LLMAPIKey:       firstNonEmpty(os.Getenv("LLM_API_KEY"), os.Getenv("GOOGLE_API_KEY")),
		LLMTimeout:      getDurationDefault("LLM_TIMEOUT", 60*time.Second),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		SessionTTL:      getDurationDefault("SESSION_TTL", 2*time.Hour),
		MaxSessions:     getIntDefault("MAX_SESSIONS", 10000),
		EvalWorkers:     getIntDefault("EVAL_WORKERS", 4),
		Interview:       DefaultInterview(),
	}

	if cfg.LLMProvider == "" {
		// The Gemini key is the only hint we get when no provider is named.
		if os.Getenv("GOOGLE_API_KEY") != "" {
			cfg.LLMProvider = "gemini"
		} else {
			cfg.LLMProvider = "openai"
		}
	}
	if cfg.LLMModel == "" {
		if cfg.LLMProvider == "gemini" {
			cfg.LLMModel = "gemini-1.5-flash"
		} else {
			cfg.LLMModel = "qwen3-8b"
		}
	}

	if path := os.Getenv("INTERVIEW_CONFIG"); path != "" {
		iv, err := LoadInterview(path)
		if err != nil {
			return nil, err
		}
		cfg.Interview = *iv
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("config: required environment variable JWT_SECRET is not set")
	}
	switch c.LLMProvider {
	case "gemini":
		if c.LLMAPIKey == "" {
			return fmt.Errorf("config: LLM_PROVIDER=gemini requires GOOGLE_API_KEY or LLM_API_KEY")
		}
	case "openai":
	default:
		return fmt.Errorf("config: unknown LLM_PROVIDER %q (want gemini or openai)", c.LLMProvider)
	}
	if c.LLMTimeout <= 0 {
		return fmt.Errorf("config: LLM_TIMEOUT must be positive, got %v", c.LLMTimeout)
	}
	if c.EvalWorkers < 1 {
		return fmt.Errorf("config: EVAL_WORKERS must be at least 1, got %d", c.EvalWorkers)
	}
	return nil
}

// ScoringTimeout bounds the scoring of one finished interview. Answers are
// evaluated in rounds of EvalWorkers calls, each bounded by LLMTimeout.
func (c *Config) ScoringTimeout() time.Duration {
	rounds := (c.Interview.QuestionCount + c.EvalWorkers - 1) / c.EvalWorkers
	return time.Duration(rounds) * c.LLMTimeout
}

// WriteTimeout is the HTTP write deadline. It outlasts ScoringTimeout so the
// final answer's response is written even when scoring runs to its limit.
func (c *Config) WriteTimeout() time.Duration {
	return c.ScoringTimeout() + 30*time.Second
}

func getDurationDefault(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getIntDefault(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid integer: %v", k, v, err)
	}
	return n
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
