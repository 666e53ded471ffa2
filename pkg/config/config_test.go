package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestInitConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, path)

	again, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Query, again.Query)
	assert.Equal(t, cfg.Server, again.Server)
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
[dict]
main_dict = "main2012.dic"
ext_dicts = ["ext.dic"]

[query]
scanner = "gse"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "main2012.dic", cfg.Dict.MainDict)
	assert.Equal(t, []string{"ext.dic"}, cfg.Dict.ExtDicts)
	assert.Equal(t, ScannerGse, cfg.Query.Scanner)
	assert.Equal(t, 10000, cfg.Dict.ChunkSize)
	assert.True(t, cfg.Query.SplitWhitespace)
	assert.Equal(t, "content", cfg.CLI.DefaultField)
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	// chunk_size has the wrong type, which fails strict decoding
	path := writeConfig(t, `
[dict]
chunk_size = "big"
max_words = 500

[server]
http_addr = "127.0.0.1:9000"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 10000, cfg.Dict.ChunkSize)
	assert.Equal(t, 500, cfg.Dict.MaxWords)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.HTTPAddr)
}

func TestLoadConfigGarbage(t *testing.T) {
	path := writeConfig(t, "[[[ not toml")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dict.ChunkSize = 0
	cfg.Dict.MaxWords = -3
	cfg.Query.Scanner = "regex"
	cfg.CLI.DefaultField = ""
	cfg.Server.ExpandLimit = 0
	cfg.Validate()

	assert.Equal(t, 10000, cfg.Dict.ChunkSize)
	assert.Equal(t, 0, cfg.Dict.MaxWords)
	assert.Equal(t, ScannerDict, cfg.Query.Scanner)
	assert.Equal(t, cfg.Query.DefaultField, cfg.CLI.DefaultField)
	assert.Equal(t, 64, cfg.Server.ExpandLimit)
}

func TestLoadConfigWithPriorityCustom(t *testing.T) {
	path := writeConfig(t, "[cli]\nshow_lexemes = false\n")
	cfg, used, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.False(t, cfg.CLI.ShowLexemes)
}
