package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	assert.Equal(t, "gemini", cfg.GetLLM().Provider)
	assert.Equal(t, "0.0.0.0:8080", cfg.GetServer().ListenAddress)
	assert.Equal(t, "memory", cfg.GetMemory().Type)
	assert.Equal(t, 50, cfg.GetMemory().MaxEntries)
	assert.False(t, cfg.GetIntake().Enabled)
	assert.Empty(t, cfg.GetIntake().AllowedDomains)
	assert.Equal(t, "gemini-1.5-flash", cfg.GetGemini().ModelName)
	assert.Equal(t, 8192, cfg.GetGemini().MaxInputSize)
	assert.Equal(t, "gpt-4", cfg.GetOpenAI().ModelName)
	assert.Equal(t, "us-east-1", cfg.GetBedrock().Region)
}

func TestOverrides(t *testing.T) {
	v := NewEmptyViper()
	v.Set("llm.provider", "openai")
	v.Set("memory.type", "sqlite")
	v.Set("memory.max_entries", 10)
	cfg := NewFromViper(v)

	assert.Equal(t, "openai", cfg.GetLLM().Provider)
	assert.Equal(t, "sqlite", cfg.GetMemory().Type)
	assert.Equal(t, 10, cfg.GetMemory().MaxEntries)
}
