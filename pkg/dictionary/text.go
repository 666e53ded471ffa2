package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bastiangx/wordseg/pkg/dic"
	"github.com/charmbracelet/log"
)

const utf8BOM = "\ufeff"

// ReadWords reads one entry per line. Blank lines and lines starting with
// '#' are skipped; surrounding space is trimmed.
func ReadWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, utf8BOM)
			first = false
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}
	return words, nil
}

// ReadWordsFile reads a word list from filename.
func ReadWordsFile(filename string) ([]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open word list %s: %w", filename, err)
	}
	defer file.Close()
	return ReadWords(file)
}

// LoadText adds every entry of r to d and returns the number of new entries.
func LoadText(r io.Reader, d *dic.Dictionary) (int, error) {
	words, err := ReadWords(r)
	if err != nil {
		return 0, err
	}
	return d.AddWords(words), nil
}

// LoadTextFile adds every entry of filename to d.
func LoadTextFile(filename string, d *dic.Dictionary) (int, error) {
	words, err := ReadWordsFile(filename)
	if err != nil {
		return 0, err
	}
	added := d.AddWords(words)
	log.Debugf("Loaded %d new words from %s (%d lines)", added, filename, len(words))
	return added, nil
}
