package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// ChunkPattern matches the chunk files of a data directory.
const ChunkPattern = "dict_*.bin"

var (
	// ErrNotDir is returned when a path expected to be a directory is a file.
	ErrNotDir = errors.New("not a directory")
	// ErrNotWritable is returned when a directory refuses new files.
	ErrNotWritable = errors.New("directory is not writable")
	// ErrNoChunkFiles is returned when a data directory holds no chunk file.
	ErrNoChunkFiles = errors.New("no " + ChunkPattern + " files")
)

// IsFile reports whether path exists and is a regular file.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// WritableDir creates dir if needed and checks that files can be created in it.
func WritableDir(dir string) error {
	info, err := os.Stat(dir)
	switch {
	case err == nil && !info.IsDir():
		return ErrNotDir
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	case err != nil:
		return err
	}

	f, err := os.CreateTemp(dir, ".wordseg-write-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotWritable, err)
	}
	f.Close()
	os.Remove(f.Name())
	return nil
}

// CheckStoreDir makes sure the word store can keep its files in dir.
func CheckStoreDir(dir string) error {
	if dir == "" {
		return errors.New("store dir is empty")
	}
	if err := WritableDir(dir); err != nil {
		log.Warnf("Store dir %s is unusable: %v", dir, err)
		return fmt.Errorf("store dir %s: %w", dir, err)
	}
	return nil
}

// CheckChunkDir returns the number of chunk files in dir.
func CheckChunkDir(dir string) (int, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return 0, fmt.Errorf("chunk dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("chunk dir %s: %w", dir, ErrNotDir)
	}
	matches, err := filepath.Glob(filepath.Join(dir, ChunkPattern))
	if err != nil {
		return 0, fmt.Errorf("chunk dir %s: %w", dir, err)
	}
	if len(matches) == 0 {
		return 0, fmt.Errorf("chunk dir %s: %w", dir, ErrNoChunkFiles)
	}
	return len(matches), nil
}

// IsChunkDir checks if a directory contains at least one chunk file.
func IsChunkDir(dir string) bool {
	_, err := CheckChunkDir(dir)
	return err == nil
}

// SaveTOMLFile saves a struct to a TOML file via a temp file in the same dir.
func SaveTOMLFile(data interface{}, filePath string) error {
	tmp, err := os.CreateTemp(filepath.Dir(filePath), ".tmp-*.toml")
	if err != nil {
		log.Errorf("Failed to create file: %v", err)
		return err
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filePath)
}
