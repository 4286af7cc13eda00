package llm

import (
	"os"
	"strconv"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskPlanDraft TaskType = "plan_draft"
	TaskChat      TaskType = "chat"
	TaskSummary   TaskType = "summary"
	TaskQuiz      TaskType = "quiz"
	TaskInsight   TaskType = "insight"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// Config holds all configuration for the LLM subsystem.
type Config struct {
	Enabled    bool
	LogCalls   bool
	Endpoint   string
	Model      string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns a Config with sensible defaults.
// LLM assistance is disabled by default.
func DefaultConfig() Config {
	return Config{
		Enabled:    false,
		LogCalls:   false,
		Endpoint:   "http://localhost:11434",
		Model:      "llama3.2",
		TimeoutMs:  10000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskPlanDraft: {Temperature: 0.3, MaxTokens: 4096, TimeoutMs: 30000},
			TaskChat:      {Temperature: 0.5, MaxTokens: 1024, TimeoutMs: 12000},
			TaskSummary:   {Temperature: 0.2, MaxTokens: 1024, TimeoutMs: 8000},
			TaskQuiz:      {Temperature: 0.4, MaxTokens: 2048, TimeoutMs: 15000},
			TaskInsight:   {Temperature: 0.3, MaxTokens: 512, TimeoutMs: 8000},
		},
	}
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("STUDIA_LLM_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("STUDIA_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("STUDIA_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("STUDIA_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("STUDIA_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("STUDIA_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}

	applyTaskTimeoutEnv(&cfg, TaskPlanDraft, "STUDIA_LLM_PLAN_DRAFT_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskChat, "STUDIA_LLM_CHAT_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskSummary, "STUDIA_LLM_SUMMARY_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskQuiz, "STUDIA_LLM_QUIZ_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskInsight, "STUDIA_LLM_INSIGHT_TIMEOUT_MS")

	return cfg
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c Config) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func applyTaskTimeoutEnv(cfg *Config, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
