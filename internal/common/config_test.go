package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "secretary.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromFiles_Defaults(t *testing.T) {
	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, "mongodb", config.Storage.Type)
	assert.Equal(t, "mongodb://localhost:27017/", config.Storage.MongoDB.URI)
	assert.Equal(t, "gemini-2.0-flash", config.Gemini.Model)
	assert.Equal(t, float32(0.2), config.Gemini.Temperature)
	assert.Equal(t, 150, config.Gemini.MaxTokens)
	assert.Equal(t, "about", config.Analyzer.ProfileCollection)
	assert.ElementsMatch(t, []string{"restaurant", "history", "about", "founded", "owner", "awards"}, config.Analyzer.ProfileKeywords)
	assert.Equal(t, "data", config.Telegram.DefaultCollection)
	assert.Equal(t, 10, config.Telegram.HistorySize)
	assert.Empty(t, config.Telegram.AllowedChatIDs)
}

func TestLoadFromFiles_LaterFileOverrides(t *testing.T) {
	base := writeConfig(t, `
[storage]
type = "badger"

[storage.mongodb]
database = "restaurant"
`)
	override := writeConfig(t, `
[storage.mongodb]
database = "telegram-secretary-bot"

[telegram]
allowed_chat_ids = [111, 222]
`)

	config, err := LoadFromFiles(base, override)
	require.NoError(t, err)

	assert.Equal(t, "badger", config.Storage.Type)
	assert.Equal(t, "telegram-secretary-bot", config.Storage.MongoDB.Database)
	assert.Equal(t, []int64{111, 222}, config.Telegram.AllowedChatIDs)
}

func TestLoadFromFiles_EnvOverrides(t *testing.T) {
	t.Setenv("SECRETARY_SERVER_PORT", "9100")
	t.Setenv("MONGODB_URI", "mongodb://db:27017/")
	t.Setenv("ALLOWED_CHAT_IDS", "123, 456,,")

	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, 9100, config.Server.Port)
	assert.Equal(t, "mongodb://db:27017/", config.Storage.MongoDB.URI)
	assert.Equal(t, []int64{123, 456}, config.Telegram.AllowedChatIDs)
}

func TestLoadFromFiles_InvalidChatIDs(t *testing.T) {
	t.Setenv("ALLOWED_CHAT_IDS", "123,abc")

	_, err := LoadFromFiles()
	assert.Error(t, err)
}

func TestLoadFromFiles_MissingFile(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()
	ApplyFlagOverrides(config, 0, "")
	assert.Equal(t, 8000, config.Server.Port)

	ApplyFlagOverrides(config, 9000, "0.0.0.0")
	assert.Equal(t, 9000, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("SECRETARY_GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "env-key")

	key, err := ResolveAPIKey("gemini_api_key", "config-key")
	require.NoError(t, err)
	assert.Equal(t, "env-key", key)

	t.Setenv("GEMINI_API_KEY", "")
	key, err = ResolveAPIKey("gemini_api_key", "config-key")
	require.NoError(t, err)
	assert.Equal(t, "config-key", key)

	_, err = ResolveAPIKey("gemini_api_key", "")
	assert.Error(t, err)
}

func TestIsProduction(t *testing.T) {
	config := NewDefaultConfig()
	assert.False(t, config.IsProduction())

	for _, env := range []string{"production", "PROD", " Production "} {
		config.Environment = env
		assert.True(t, config.IsProduction(), env)
	}
}
