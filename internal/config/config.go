package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"     validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"   validate:"required"`
	Auth       AuthConfig       `mapstructure:"auth"       validate:"required"`
	LLM        LLMConfig        `mapstructure:"llm"        validate:"required"`
	Scoring    ScoringConfig    `mapstructure:"scoring"    validate:"required"`
	Biometrics BiometricsConfig `mapstructure:"biometrics" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port"                     validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level"                validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
}

// LLM provider names.
const (
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
)

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	// Provider selects the client: "gemini" or "groq" (any OpenAI-compatible endpoint).
	Provider           string  `mapstructure:"provider"             validate:"required,oneof=gemini groq"`
	GeminiAPIKey       string  `mapstructure:"gemini_api_key"`
	GroqAPIKey         string  `mapstructure:"groq_api_key"`
	// APIKeyParameter is an SSM parameter name holding the provider API key.
	// It is consulted only when the provider's key is not set directly.
	APIKeyParameter    string  `mapstructure:"api_key_parameter"`
	// BaseURL overrides the OpenAI-compatible endpoint.
	BaseURL            string  `mapstructure:"base_url"             validate:"omitempty,url"`
	// ModelName falls back to the provider's default model when empty.
	ModelName          string  `mapstructure:"model_name"`
	Temperature        float64 `mapstructure:"temperature"          validate:"gte=0,lte=2"`
	MaxOutputTokens    int     `mapstructure:"max_output_tokens"    validate:"gte=0"`
	TimeoutSeconds     int     `mapstructure:"timeout_seconds"      validate:"gt=0"`
	MaxRetries         int     `mapstructure:"max_retries"          validate:"gte=0,lte=5"`
	RetryDelaySeconds  int     `mapstructure:"retry_delay_seconds"  validate:"gte=0"`
	ProfilesPath       string  `mapstructure:"profiles_path"        validate:"omitempty,file"`
	PromptTemplatePath string  `mapstructure:"prompt_template_path" validate:"omitempty,file"`
}

// APIKey returns the directly configured key for the selected provider.
func (c LLMConfig) APIKey() string {
	if c.Provider == ProviderGroq {
		return c.GroqAPIKey
	}
	return c.GeminiAPIKey
}

// ScoringConfig tunes the stress scoring heuristics.
type ScoringConfig struct {
	CheckinScaleMin float64 `mapstructure:"checkin_scale_min" validate:"gte=0"`
	CheckinScaleMax float64 `mapstructure:"checkin_scale_max" validate:"gtfield=CheckinScaleMin"`
	LowThreshold    float64 `mapstructure:"low_threshold"     validate:"gte=0,ltfield=MediumThreshold"`
	MediumThreshold float64 `mapstructure:"medium_threshold"  validate:"lte=100"`
	IncludeHRV      bool    `mapstructure:"include_hrv"`
}

// Biometric session registry backends.
const (
	BackendMemory   = "memory"
	BackendDynamoDB = "dynamodb"
)

// BiometricsConfig selects and configures the biometric session registry.
type BiometricsConfig struct {
	Backend         string `mapstructure:"backend"           validate:"required,oneof=memory dynamodb"`
	TableName       string `mapstructure:"table_name"        validate:"required_if=Backend dynamodb"`
	SessionTTLHours int    `mapstructure:"session_ttl_hours" validate:"gt=0"`
}
