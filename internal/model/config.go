package model

// Config is the process-wide configuration. It is built once at startup and
// treated as read-only afterwards.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Reputation  ReputationConfig  `yaml:"reputation" mapstructure:"reputation"`
	Classifier  ClassifierConfig  `yaml:"classifier" mapstructure:"classifier"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// HTTPConfig holds settings shared by outbound HTTP clients
type HTTPConfig struct {
	UserAgent  string `yaml:"user_agent" mapstructure:"user_agent"`
	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// LLMConfig configures the narrative provider
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama, gemini, "" (disabled)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ReputationConfig configures the VirusTotal lookup
type ReputationConfig struct {
	APIKey               string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL              string `yaml:"base_url" mapstructure:"base_url"`
	Timeout              int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	RequestsPerMinute    int    `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
	PendingAsUnavailable bool   `yaml:"pending_as_unavailable" mapstructure:"pending_as_unavailable"`
}

// ClassifierConfig configures the statistical classifier
type ClassifierConfig struct {
	Enabled            bool   `yaml:"enabled" mapstructure:"enabled"`
	ModelPath          string `yaml:"model_path,omitempty" mapstructure:"model_path"` // Empty = embedded default model
	FallbackConfidence int    `yaml:"fallback_confidence" mapstructure:"fallback_confidence"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr           string `yaml:"addr" mapstructure:"addr"`
	HealthCacheTTL int    `yaml:"health_cache_ttl" mapstructure:"health_cache_ttl"` // seconds
	LogLevel       string `yaml:"log_level" mapstructure:"log_level"`
}

// ConcurrencyConfig configures signal fan-out and batch workers
type ConcurrencyConfig struct {
	ParallelSignals bool `yaml:"parallel_signals" mapstructure:"parallel_signals"`
	Workers         int  `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			UserAgent: "phishlens/0.1 (+https://github.com/ppiankov/phishlens)",
		},
		LLM: LLMConfig{
			Provider:  "", // Disabled until a provider is chosen
			Model:     "",
			Timeout:   10,
			MaxTokens: 1000,
		},
		Reputation: ReputationConfig{
			BaseURL:              "https://www.virustotal.com/api/v3",
			Timeout:              10,
			RequestsPerMinute:    0, // No pacing
			PendingAsUnavailable: false,
		},
		Classifier: ClassifierConfig{
			Enabled:            true,
			FallbackConfidence: 70,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			HealthCacheTTL: 30,
			LogLevel:       "info",
		},
		Concurrency: ConcurrencyConfig{
			ParallelSignals: false,
			Workers:         4,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
	}
}
