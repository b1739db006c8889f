// Package config loads application settings from defaults, an optional
// config.yaml, a .env file and EDUSPARK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/eduspark/internal/generator"
	"github.com/abhisek/eduspark/internal/llm"
	"github.com/abhisek/eduspark/internal/logging"
	"github.com/abhisek/eduspark/internal/progress"
	"github.com/abhisek/eduspark/internal/store"
)

const envPrefix = "EDUSPARK"

// Config is the full application configuration.
type Config struct {
	LLM        llm.Config       `mapstructure:"llm"`
	Generation generator.Config `mapstructure:"generation"`
	Progress   progress.Policy  `mapstructure:"progress"`
	Log        logging.Config   `mapstructure:"log"`
	DB         string           `mapstructure:"db"`

	// KeySource records where the LLM credentials came from: "config" or
	// "environment". Empty when no key was found.
	KeySource string `mapstructure:"-"`
}

// Options controls where Load looks.
type Options struct {
	// ConfigFile is an explicit config file. When empty, config.yaml is
	// looked up in Dir().
	ConfigFile string

	// EnvFile is loaded into the environment before reading variables.
	// Missing files are ignored. Default ".env".
	EnvFile string
}

// Dir returns $XDG_CONFIG_HOME/eduspark or ~/.config/eduspark.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "eduspark"), nil
}

// Load builds the configuration.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	dataDir, err := store.DataDir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v, dataDir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindShortEnv(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.Progress = withPolicyDefaults(cfg.Progress)
	resolveLLM(&cfg)
	return &cfg, nil
}

func setDefaults(v *viper.Viper, dataDir string) {
	l := llm.DefaultConfig()
	v.SetDefault("llm.provider", l.Provider)
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", l.Gemini.Model)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", l.Anthropic.Model)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", l.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", l.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.retry.max_attempts", l.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", l.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", l.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", l.Retry.Multiplier)
	v.SetDefault("llm.timeout", l.Timeout)

	g := generator.DefaultConfig()
	v.SetDefault("generation.max_tokens", g.MaxTokens)
	v.SetDefault("generation.timeout", g.Timeout)

	p := progress.DefaultPolicy()
	v.SetDefault("progress.points_per_session", p.PointsPerSession)
	v.SetDefault("progress.points_per_level", p.PointsPerLevel)

	lg := logging.DefaultConfig(dataDir)
	v.SetDefault("log.level", lg.Level)
	v.SetDefault("log.file", lg.File)
	v.SetDefault("log.max_size_mb", lg.MaxSizeMB)
	v.SetDefault("log.max_backups", lg.MaxBackups)
	v.SetDefault("log.max_age_days", lg.MaxAgeDays)
	v.SetDefault("log.compress", lg.Compress)

	v.SetDefault("db", filepath.Join(dataDir, "eduspark.db"))
}

// bindShortEnv maps the short variable names, e.g. EDUSPARK_GEMINI_API_KEY
// alongside EDUSPARK_LLM_GEMINI_API_KEY.
func bindShortEnv(v *viper.Viper) {
	short := map[string]string{
		"llm.provider":           "EDUSPARK_LLM_PROVIDER",
		"llm.gemini.api_key":     "EDUSPARK_GEMINI_API_KEY",
		"llm.gemini.model":       "EDUSPARK_GEMINI_MODEL",
		"llm.anthropic.api_key":  "EDUSPARK_ANTHROPIC_API_KEY",
		"llm.anthropic.model":    "EDUSPARK_ANTHROPIC_MODEL",
		"llm.openai.api_key":     "EDUSPARK_OPENAI_API_KEY",
		"llm.openai.model":       "EDUSPARK_OPENAI_MODEL",
		"llm.openai.base_url":    "EDUSPARK_OPENAI_BASE_URL",
		"llm.openrouter.api_key": "EDUSPARK_OPENROUTER_API_KEY",
		"llm.openrouter.model":   "EDUSPARK_OPENROUTER_MODEL",
		"log.level":              "EDUSPARK_LOG_LEVEL",
		"db":                     "EDUSPARK_DB",
	}
	for key, env := range short {
		long := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, env, long)
	}
}

func withPolicyDefaults(p progress.Policy) progress.Policy {
	d := progress.DefaultPolicy()
	if p.PointsPerSession <= 0 {
		p.PointsPerSession = d.PointsPerSession
	}
	if p.PointsPerLevel <= 0 {
		p.PointsPerLevel = d.PointsPerLevel
	}
	return p
}

// resolveLLM falls back to the provider's standard key variables when
// nothing EDUSPARK-specific was configured.
func resolveLLM(cfg *Config) {
	if cfg.LLM.HasKey() {
		cfg.KeySource = "config"
		return
	}
	found, ok := llm.DiscoverConfig()
	if !ok {
		return
	}
	cfg.LLM.Provider = found.Provider
	switch found.Provider {
	case "gemini":
		cfg.LLM.Gemini.APIKey = found.Gemini.APIKey
	case "openai":
		cfg.LLM.OpenAI.APIKey = found.OpenAI.APIKey
	case "anthropic":
		cfg.LLM.Anthropic.APIKey = found.Anthropic.APIKey
	case "openrouter":
		cfg.LLM.OpenRouter.APIKey = found.OpenRouter.APIKey
	}
	cfg.KeySource = "environment"
}
