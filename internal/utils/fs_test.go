package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckChunkDir(t *testing.T) {
	dir := t.TempDir()

	_, err := CheckChunkDir(dir)
	assert.ErrorIs(t, err, ErrNoChunkFiles)
	assert.Contains(t, err.Error(), "chunk dir "+dir)

	_, err = CheckChunkDir(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	chunk := filepath.Join(dir, "dict_0001.bin")
	require.NoError(t, os.WriteFile(chunk, []byte{0, 0, 0, 0}, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dict_0002.bin"), []byte{0, 0, 0, 0}, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.dic"), []byte("北京\n"), 0644))

	n, err := CheckChunkDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = CheckChunkDir(chunk)
	assert.ErrorIs(t, err, ErrNotDir)
}

func TestCheckStoreDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store", "words")
	require.NoError(t, CheckStoreDir(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "the write check leaves nothing behind")

	file := filepath.Join(t.TempDir(), "words.db")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	err = CheckStoreDir(file)
	assert.ErrorIs(t, err, ErrNotDir)
	assert.Contains(t, err.Error(), "store dir "+file)

	assert.Error(t, CheckStoreDir(""))
}

func TestIsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "ext.dic")
	require.NoError(t, os.WriteFile(file, []byte("大学\n"), 0644))

	assert.True(t, IsFile(file))
	assert.False(t, IsFile(dir))
	assert.False(t, IsFile(filepath.Join(dir, "missing.dic")))
}

func TestDisplayPath(t *testing.T) {
	assert.Equal(t, "unknown", DisplayPath(""))
	assert.Equal(t, "/etc/wordseg/config.toml", DisplayPath("/etc/wordseg/config.toml"))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cwd, "config.toml"), DisplayPath("config.toml"))
}

func TestExecutableDir(t *testing.T) {
	dir, err := ExecutableDir()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(dir))
}
