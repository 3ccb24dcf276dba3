package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	Gemini      GeminiConfig    `toml:"gemini"`
	Claude      ClaudeConfig    `toml:"claude"`
	LLM         LLMConfig       `toml:"llm"`
	Analyzer    AnalyzerConfig  `toml:"analyzer"`
	Entries     EntriesConfig   `toml:"entries"`
	Telegram    TelegramConfig  `toml:"telegram"`
	Dashboard   DashboardConfig `toml:"dashboard"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// StorageConfig selects the record store backend
type StorageConfig struct {
	Type    string        `toml:"type"` // "mongodb" (default) or "badger"
	MongoDB MongoDBConfig `toml:"mongodb"`
	Badger  BadgerConfig  `toml:"badger"`
}

// MongoDBConfig represents MongoDB connection settings
type MongoDBConfig struct {
	URI            string `toml:"uri"`
	Database       string `toml:"database"`
	ConnectTimeout string `toml:"connect_timeout"` // duration string, e.g. "10s"
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
	InMemory       bool   `toml:"in_memory"`
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // default "15:04:05"
	FileName   string   `toml:"file_name"`   // log file name inside ./logs
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`       // default "gemini-2.0-flash"
	Temperature float32 `toml:"temperature"` // question answering temperature (default 0.2)
	MaxTokens   int     `toml:"max_tokens"`  // question answering output cap (default 150)
	Timeout     string  `toml:"timeout"`     // per call timeout, empty means none
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey    string `toml:"api_key"`
	Model     string `toml:"model"`
	MaxTokens int    `toml:"max_tokens"`
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	LLMProviderGemini LLMProvider = "gemini"
	LLMProviderClaude LLMProvider = "claude"
)

type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider"` // "gemini" (default) or "claude"
}

// AnalyzerConfig controls question routing and prompt building
type AnalyzerConfig struct {
	ProfileCollection string   `toml:"profile_collection"` // default "about"
	ProfileKeywords   []string `toml:"profile_keywords"`
	AssistantRole     string   `toml:"assistant_role"`
	MaxWords          int      `toml:"max_words"` // answer length rule (default 50)
}

// EntriesConfig names the collection notes, tasks and dashboard entries go to
type EntriesConfig struct {
	Collection string `toml:"collection"` // default "data"
}

// TelegramConfig contains bot settings
type TelegramConfig struct {
	Token             string  `toml:"token"`
	AllowedChatIDs    []int64 `toml:"allowed_chat_ids"` // empty allows every chat
	DefaultCollection string  `toml:"default_collection"`
	HistorySize       int     `toml:"history_size"` // conversation lines kept per chat (default 10)
	PollTimeout       int     `toml:"poll_timeout"` // long-poll seconds (default 60)
	SendRate          float64 `toml:"send_rate"`    // outbound messages per second
	SendBurst         int     `toml:"send_burst"`
}

// DashboardConfig contains web dashboard settings
type DashboardConfig struct {
	DefaultCollection string `toml:"default_collection"` // default "data"
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8000,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Type: "mongodb",
			MongoDB: MongoDBConfig{
				URI:            "mongodb://localhost:27017/",
				Database:       "telegram-secretary-bot",
				ConnectTimeout: "10s",
			},
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout", "file"},
			TimeFormat: "15:04:05",
			FileName:   "secretary.log",
		},
		Gemini: GeminiConfig{
			Model:       "gemini-2.0-flash",
			Temperature: 0.2,
			MaxTokens:   150,
		},
		Claude: ClaudeConfig{
			Model:     "claude-3-5-haiku-latest",
			MaxTokens: 150,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderGemini,
		},
		Analyzer: AnalyzerConfig{
			ProfileCollection: "about",
			ProfileKeywords:   []string{"restaurant", "history", "about", "founded", "owner", "awards"},
			AssistantRole:     "a helpful restaurant assistant",
			MaxWords:          50,
		},
		Entries: EntriesConfig{
			Collection: "data",
		},
		Telegram: TelegramConfig{
			DefaultCollection: "data",
			HistorySize:       10,
			PollTimeout:       60,
			SendRate:          25,
			SendBurst:         5,
		},
		Dashboard: DashboardConfig{
			DefaultCollection: "data",
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> file1 -> file2 -> ... -> env.
// CLI flags are applied afterwards by ApplyFlagOverrides.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) error {
	if env := os.Getenv("SECRETARY_ENV"); env != "" {
		config.Environment = env
	}

	// Server
	if port := os.Getenv("SECRETARY_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("SECRETARY_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage
	if storageType := os.Getenv("SECRETARY_STORAGE_TYPE"); storageType != "" {
		config.Storage.Type = storageType
	}
	if uri := firstEnv("SECRETARY_MONGODB_URI", "MONGODB_URI"); uri != "" {
		config.Storage.MongoDB.URI = uri
	}
	if database := os.Getenv("SECRETARY_MONGODB_DATABASE"); database != "" {
		config.Storage.MongoDB.Database = database
	}
	if badgerPath := os.Getenv("SECRETARY_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging
	if level := os.Getenv("SECRETARY_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("SECRETARY_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// LLM
	if model := os.Getenv("SECRETARY_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}
	if provider := os.Getenv("SECRETARY_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(strings.ToLower(provider))
	}

	// Telegram
	if ids := firstEnv("SECRETARY_TELEGRAM_ALLOWED_CHAT_IDS", "ALLOWED_CHAT_IDS"); ids != "" {
		parsed, err := ParseChatIDs(ids)
		if err != nil {
			return fmt.Errorf("invalid allowed chat ids: %w", err)
		}
		config.Telegram.AllowedChatIDs = parsed
	}

	return nil
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// ParseChatIDs parses a comma separated list of chat identifiers, skipping blanks.
func ParseChatIDs(s string) ([]int64, error) {
	ids := []int64{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("chat id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// ResolveAPIKey resolves a secret by name.
// Resolution order: environment variables → config fallback → error
func ResolveAPIKey(name string, configFallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"gemini_api_key":     {"SECRETARY_GEMINI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"},
		"anthropic_api_key":  {"SECRETARY_CLAUDE_API_KEY", "ANTHROPIC_API_KEY"},
		"telegram_bot_token": {"SECRETARY_TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN"},
	}

	if envVarNames, ok := keyToEnvMapping[name]; ok {
		if v := firstEnv(envVarNames...); v != "" {
			return v, nil
		}
	}

	if configFallback != "" {
		return configFallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment or config", name)
}

// ParseDuration parses an optional duration string, returning zero for empty input.
func ParseDuration(s string) (time.Duration, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// DiscoverConfigFile returns the first existing default config file, checking
// the current directory before deployments/local
func DiscoverConfigFile() (string, bool) {
	for _, path := range []string{"secretary.toml", "deployments/local/secretary.toml"} {
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}
