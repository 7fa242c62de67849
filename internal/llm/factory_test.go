package llm

import (
	"testing"

	"github.com/ppiankov/phishlens/internal/model"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		wantName string
		wantNil  bool
		wantErr  bool
	}{
		{name: "disabled", config: Config{Provider: ""}, wantNil: true},
		{name: "openai", config: Config{Provider: "openai", APIKey: "k"}, wantName: "openai"},
		{name: "claude alias", config: Config{Provider: "Claude", APIKey: "k"}, wantName: "anthropic"},
		{name: "ollama", config: Config{Provider: "ollama"}, wantName: "ollama"},
		{name: "gemini", config: Config{Provider: "gemini", APIKey: "k"}, wantName: "gemini"},
		{name: "missing key", config: Config{Provider: "openai"}, wantErr: true},
		{name: "unknown", config: Config{Provider: "mystery"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.config)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tt.wantNil {
				if provider != nil {
					t.Errorf("Expected nil provider, got %s", provider.Name())
				}
				return
			}
			if provider.Name() != tt.wantName {
				t.Errorf("Expected %s, got %s", tt.wantName, provider.Name())
			}
		})
	}
}

func TestConfigFromModel(t *testing.T) {
	cfg := ConfigFromModel(
		model.LLMConfig{Provider: "ollama", Model: "llama3.1", Timeout: 10, MaxTokens: 500},
		model.HTTPConfig{HTTPProxy: "http://proxy:3128", NoProxy: "localhost"},
	)

	if cfg.Provider != "ollama" || cfg.Model != "llama3.1" || cfg.Timeout != 10 || cfg.MaxTokens != 500 {
		t.Errorf("Unexpected LLM fields: %+v", cfg)
	}
	if cfg.HTTPProxy != "http://proxy:3128" || cfg.NoProxy != "localhost" {
		t.Errorf("Unexpected proxy fields: %+v", cfg)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "env-key")
	t.Setenv("OLLAMA_BASE_URL", "http://gpu-box:11434")

	cfg := ApplyEnv(Config{Provider: "anthropic"})
	if cfg.APIKey != "env-key" {
		t.Errorf("Expected key from env, got %q", cfg.APIKey)
	}

	cfg = ApplyEnv(Config{Provider: "anthropic", APIKey: "explicit"})
	if cfg.APIKey != "explicit" {
		t.Errorf("Expected explicit key to win, got %q", cfg.APIKey)
	}

	cfg = ApplyEnv(Config{Provider: "ollama"})
	if cfg.BaseURL != "http://gpu-box:11434" {
		t.Errorf("Expected Ollama base URL from env, got %q", cfg.BaseURL)
	}
}
