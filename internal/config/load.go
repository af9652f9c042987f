package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "YACHAFLEX"

// ConfigFileEnv names the environment variable that points at an explicit config file.
const ConfigFileEnv = EnvPrefix + "_CONFIG_FILE"

// setDefaults registers every known key so that AutomaticEnv can resolve it
// during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout_seconds", 10)

	v.SetDefault("database.url", "")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_lifetime_minutes", 60)

	v.SetDefault("llm.provider", ProviderGemini)
	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.groq_api_key", "")
	v.SetDefault("llm.api_key_parameter", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.model_name", "")
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.max_output_tokens", 3000)
	v.SetDefault("llm.timeout_seconds", 60)
	v.SetDefault("llm.max_retries", 0)
	v.SetDefault("llm.retry_delay_seconds", 2)
	v.SetDefault("llm.profiles_path", "")
	v.SetDefault("llm.prompt_template_path", "")

	v.SetDefault("scoring.checkin_scale_min", 1)
	v.SetDefault("scoring.checkin_scale_max", 5)
	v.SetDefault("scoring.low_threshold", 33)
	v.SetDefault("scoring.medium_threshold", 66)
	v.SetDefault("scoring.include_hrv", false)

	v.SetDefault("biometrics.backend", BackendMemory)
	v.SetDefault("biometrics.table_name", "")
	v.SetDefault("biometrics.session_ttl_hours", 24)
}

// Load configuration from defaults, an optional YAML file and environment
// variables, in increasing order of precedence.
//
// The file is config.yaml in the working directory, or the path named by
// YACHAFLEX_CONFIG_FILE. A missing file is not an error. Environment variables
// use the YACHAFLEX_ prefix with dots replaced by underscores, e.g.
// YACHAFLEX_LLM_GEMINI_API_KEY for llm.gemini_api_key.
func Load() (*Config, error) {
	return LoadFile(os.Getenv(ConfigFileEnv))
}

// LoadFile is Load with an explicit config file path. An empty path searches
// the working directory for config.yaml.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct tags and cross-field rules.
func Validate(cfg *Config) error {
	validate := validator.New()
	validate.RegisterStructValidation(validateLLM, LLMConfig{})

	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// validateLLM requires a key source for the selected provider.
func validateLLM(sl validator.StructLevel) {
	llm := sl.Current().Interface().(LLMConfig)
	if llm.APIKey() == "" && llm.APIKeyParameter == "" {
		field := "GeminiAPIKey"
		if llm.Provider == ProviderGroq {
			field = "GroqAPIKey"
		}
		sl.ReportError(llm.APIKey(), field, field, "required_without_parameter", "")
	}
}
