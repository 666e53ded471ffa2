package dictionary

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// ChunkFileName returns the file name of chunk id.
func ChunkFileName(id int) string {
	return fmt.Sprintf("dict_%04d.bin", id)
}

// WriteChunks splits words into chunk files of chunkSize entries in dirPath.
// Ranks follow the order of words, starting at 1. It returns the number of
// files written.
func WriteChunks(dirPath string, words []string, chunkSize int) (int, error) {
	if chunkSize <= 0 {
		return 0, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return 0, fmt.Errorf("failed to create chunk dir %s: %w", dirPath, err)
	}

	files := 0
	for start := 0; start < len(words); start += chunkSize {
		end := min(start+chunkSize, len(words))
		files++
		filename := filepath.Join(dirPath, ChunkFileName(files))
		if err := writeChunk(filename, words[start:end], start); err != nil {
			return files - 1, err
		}
		log.Debugf("Wrote chunk %s with %d words", filename, end-start)
	}
	return files, nil
}

func writeChunk(filename string, words []string, offset int) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create chunk file %s: %w", filename, err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if err := binary.Write(w, binary.LittleEndian, int32(len(words))); err != nil {
		return fmt.Errorf("failed to write chunk header: %w", err)
	}
	for i, word := range words {
		if len(word) > math.MaxUint16 {
			return fmt.Errorf("word %q too long for chunk format", word[:32])
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(len(word))); err != nil {
			return fmt.Errorf("failed to write word length: %w", err)
		}
		if _, err := w.WriteString(word); err != nil {
			return fmt.Errorf("failed to write word: %w", err)
		}
		rank := min(offset+i+1, math.MaxUint16)
		if err := binary.Write(w, binary.LittleEndian, uint16(rank)); err != nil {
			return fmt.Errorf("failed to write rank: %w", err)
		}
	}
	return w.Flush()
}
