package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_DisabledByDefault(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 30000, cfg.Tasks[TaskPlanDraft].TimeoutMs)
}

func TestLoadConfig_TaskTimeoutOverrides(t *testing.T) {
	t.Setenv("STUDIA_LLM_TIMEOUT_MS", "9000")
	t.Setenv("STUDIA_LLM_CHAT_TIMEOUT_MS", "15000")
	t.Setenv("STUDIA_LLM_SUMMARY_TIMEOUT_MS", "7000")

	cfg := LoadConfig()

	assert.Equal(t, 9000, cfg.TimeoutMs)
	assert.Equal(t, 15000, cfg.TaskTimeout(TaskChat))
	assert.Equal(t, 7000, cfg.TaskTimeout(TaskSummary))
	assert.Equal(t, 15000, cfg.TaskTimeout(TaskQuiz))
}

func TestLoadConfig_InvalidTaskTimeoutOverrideIgnored(t *testing.T) {
	t.Setenv("STUDIA_LLM_CHAT_TIMEOUT_MS", "not-a-number")

	cfg := LoadConfig()

	assert.Equal(t, 12000, cfg.TaskTimeout(TaskChat))
}

func TestLoadConfig_EnabledAndModel(t *testing.T) {
	t.Setenv("STUDIA_LLM_ENABLED", "true")
	t.Setenv("STUDIA_LLM_MODEL", "qwen2.5")

	cfg := LoadConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "qwen2.5", cfg.Model)
}
