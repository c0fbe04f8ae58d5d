// Package config loads application settings from flags, ROSAMENTA_*
// environment variables and an optional config.yaml, in that order of
// precedence, on top of built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/analysis"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/imagegen"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/llm"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/report"
)

// EnvPrefix prefixes every environment variable the app reads.
const EnvPrefix = "ROSAMENTA"

// Config is the fully resolved application configuration.
type Config struct {
	LLM      llm.Config
	Analysis analysis.Config
	Image    imagegen.Config
	Share    ShareConfig
	Webhook  WebhookConfig
	Render   report.RodConfig
	Store    StoreConfig
	Log      LogConfig

	// Catalog is an optional YAML file replacing the built-in questions.
	Catalog string
}

// ShareConfig controls report delivery.
type ShareConfig struct {
	WhatsAppPhone  string
	TelegramToken  string
	TelegramChatID int64
	ExportDir      string
}

// WebhookConfig controls the completed-quiz notification.
type WebhookConfig struct {
	URL     string
	Timeout time.Duration
}

// StoreConfig locates the SQLite database.
type StoreConfig struct {
	DBPath string
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string
	File  string
}

// Options tells Load where to look.
type Options struct {
	// ConfigFile is an explicit config path. When empty, config.yaml is
	// looked up in Dir() and silently skipped if absent.
	ConfigFile string

	// Flags are bound over every other source. Recognised flags: db,
	// export-dir, log-level.
	Flags *pflag.FlagSet
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"db":         "store.db",
	"export-dir": "share.export_dir",
	"log-level":  "log.level",
}

// envAliases name the variables read for keys whose derived
// ROSAMENTA_SECTION_KEY form would be awkward. They replace that form.
var envAliases = map[string][]string{
	"llm.openrouter.api_key": {"ROSAMENTA_OPENROUTER_API_KEY", "OPENROUTER_API_KEY"},
	"llm.openai.api_key":     {"ROSAMENTA_OPENAI_API_KEY", "OPENAI_API_KEY"},
	"llm.anthropic.api_key":  {"ROSAMENTA_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"},
	"llm.gemini.api_key":     {"ROSAMENTA_GEMINI_API_KEY", "GEMINI_API_KEY"},
	"image.api_key":          {"ROSAMENTA_FREEPIK_API_KEY", "FREEPIK_API_KEY"},
	"webhook.url":            {"ROSAMENTA_WEBHOOK_URL"},
	"store.db":               {"ROSAMENTA_DB"},
}

// Load resolves the configuration.
func Load(opts Options) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if err := readFile(v, opts.ConfigFile); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envAliases {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			f := opts.Flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag --%s: %w", name, err)
			}
		}
	}

	cfg := fromViper(v)
	cfg.resolvePaths()
	return cfg, nil
}

func readFile(v *viper.Viper, path string) error {
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return nil
	}

	dir, err := Dir()
	if err != nil {
		return nil
	}
	v.SetConfigName("config")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	l := llm.DefaultConfig()
	v.SetDefault("llm.provider", l.Provider)
	v.SetDefault("llm.timeout", l.Timeout)
	v.SetDefault("llm.openrouter.model", l.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", l.OpenRouter.BaseURL)
	v.SetDefault("llm.openrouter.referer", l.OpenRouter.Referer)
	v.SetDefault("llm.openrouter.title", l.OpenRouter.Title)
	v.SetDefault("llm.openai.model", l.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.anthropic.model", l.Anthropic.Model)
	v.SetDefault("llm.gemini.model", l.Gemini.Model)
	v.SetDefault("llm.mock.reply", "")

	a := analysis.DefaultConfig()
	v.SetDefault("analysis.temperature", a.Temperature)
	v.SetDefault("analysis.max_tokens", a.MaxTokens)

	img := imagegen.DefaultConfig()
	v.SetDefault("image.base_url", img.BaseURL)
	v.SetDefault("image.poll_interval", img.PollInterval)
	v.SetDefault("image.max_attempts", img.MaxAttempts)
	v.SetDefault("image.aspect_ratio", img.AspectRatio)

	v.SetDefault("share.whatsapp_phone", report.DefaultWhatsAppPhone)
	v.SetDefault("share.telegram_token", "")
	v.SetDefault("share.telegram_chat_id", 0)
	v.SetDefault("share.export_dir", "")

	v.SetDefault("webhook.url", "")
	v.SetDefault("webhook.timeout", 10*time.Second)

	r := report.DefaultRodConfig()
	v.SetDefault("render.chrome_bin", "")
	v.SetDefault("render.headless", r.Headless)
	v.SetDefault("render.image_timeout", r.ImageTimeout)

	v.SetDefault("store.db", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("quiz.catalog", "")
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		LLM: llm.Config{
			Provider: strings.ToLower(v.GetString("llm.provider")),
			Timeout:  v.GetDuration("llm.timeout"),
			OpenRouter: llm.OpenRouterConfig{
				APIKey:  v.GetString("llm.openrouter.api_key"),
				Model:   v.GetString("llm.openrouter.model"),
				BaseURL: v.GetString("llm.openrouter.base_url"),
				Referer: v.GetString("llm.openrouter.referer"),
				Title:   v.GetString("llm.openrouter.title"),
			},
			OpenAI: llm.OpenAIConfig{
				APIKey:  v.GetString("llm.openai.api_key"),
				Model:   v.GetString("llm.openai.model"),
				BaseURL: v.GetString("llm.openai.base_url"),
			},
			Anthropic: llm.AnthropicConfig{
				APIKey: v.GetString("llm.anthropic.api_key"),
				Model:  v.GetString("llm.anthropic.model"),
			},
			Gemini: llm.GeminiConfig{
				APIKey: v.GetString("llm.gemini.api_key"),
				Model:  v.GetString("llm.gemini.model"),
			},
			Mock: llm.MockConfig{Reply: v.GetString("llm.mock.reply")},
		},
		Analysis: analysis.Config{
			Temperature: v.GetFloat64("analysis.temperature"),
			MaxTokens:   v.GetInt("analysis.max_tokens"),
		},
		Share: ShareConfig{
			WhatsAppPhone:  v.GetString("share.whatsapp_phone"),
			TelegramToken:  v.GetString("share.telegram_token"),
			TelegramChatID: v.GetInt64("share.telegram_chat_id"),
			ExportDir:      v.GetString("share.export_dir"),
		},
		Webhook: WebhookConfig{
			URL:     v.GetString("webhook.url"),
			Timeout: v.GetDuration("webhook.timeout"),
		},
		Render: report.RodConfig{
			ChromeBin:    v.GetString("render.chrome_bin"),
			Headless:     v.GetBool("render.headless"),
			ImageTimeout: v.GetDuration("render.image_timeout"),
		},
		Store: StoreConfig{DBPath: v.GetString("store.db")},
		Log: LogConfig{
			Level: v.GetString("log.level"),
			File:  v.GetString("log.file"),
		},
		Catalog: v.GetString("quiz.catalog"),
	}

	cfg.Image = imagegen.DefaultConfig()
	cfg.Image.BaseURL = v.GetString("image.base_url")
	cfg.Image.APIKey = v.GetString("image.api_key")
	cfg.Image.PollInterval = v.GetDuration("image.poll_interval")
	cfg.Image.MaxAttempts = v.GetInt("image.max_attempts")
	cfg.Image.AspectRatio = v.GetString("image.aspect_ratio")
	return cfg
}

// resolvePaths fills in the export directory when left empty.
func (c *Config) resolvePaths() {
	if c.Share.ExportDir != "" {
		return
	}
	c.Share.ExportDir = "."
	if home, err := os.UserHomeDir(); err == nil {
		c.Share.ExportDir = filepath.Join(home, "Downloads")
	}
}

// Validate checks the settings that would otherwise fail at use time. API
// keys are not required here: without them generation degrades to the
// failure result, which the app reports on its own.
func (c *Config) Validate() error {
	var errs []error
	switch c.LLM.Provider {
	case "openrouter", "openai", "anthropic", "gemini", "mock":
	default:
		errs = append(errs, fmt.Errorf("llm.provider: unknown provider %q", c.LLM.Provider))
	}
	if c.LLM.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("llm.timeout must be positive"))
	}
	if c.Analysis.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("analysis.max_tokens must be positive"))
	}
	if c.Analysis.Temperature < 0 || c.Analysis.Temperature > 2 {
		errs = append(errs, fmt.Errorf("analysis.temperature must be within [0, 2], got %v", c.Analysis.Temperature))
	}
	if c.Image.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("image.poll_interval must be positive"))
	}
	if c.Image.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("image.max_attempts must be at least 1"))
	}
	if c.Webhook.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("webhook.timeout must be positive"))
	}
	if c.Share.TelegramToken != "" && c.Share.TelegramChatID == 0 {
		errs = append(errs, fmt.Errorf("share.telegram_chat_id is required when share.telegram_token is set"))
	}
	if c.Share.WhatsAppPhone == "" {
		errs = append(errs, fmt.Errorf("share.whatsapp_phone must not be empty"))
	}
	return errors.Join(errs...)
}

// Dir returns the config directory: $XDG_CONFIG_HOME/rosamenta, falling
// back to ~/.config/rosamenta.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home dir: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "rosamenta"), nil
}
