// Package dictionary loads word lists into a dic.Dictionary: plain text files
// and directories of chunked binary files that can be loaded lazily while
// the dictionary already serves matches.
package dictionary

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bastiangx/wordseg/pkg/dic"
	"github.com/charmbracelet/log"
)

// ErrNoChunks is returned when a chunk directory holds no chunk file.
var ErrNoChunks = errors.New("no chunk files found")

// ChunkLoader loads chunk files into a dictionary, either all at once or
// from a background goroutine.
type ChunkLoader struct {
	dirPath      string
	maxWords     int
	dict         *dic.Dictionary
	loadedChunks map[int]int // chunk id -> words read
	totalWords   int
	mu           sync.RWMutex
	loadingCh    chan int
	done         chan struct{}
	stopOnce     sync.Once
	errorCount   map[int]int
	maxRetries   int
	pending      sync.WaitGroup
	inflight     atomic.Int64 // queued chunks not yet loaded or given up
}

// ChunkInfo contains metadata about a chunk file
type ChunkInfo struct {
	ChunkID   int
	Filename  string
	WordCount int
}

// LoaderStats provides statistics about the loading process
type LoaderStats struct {
	LoadedWords     int
	LoadedChunks    int
	AvailableChunks int
	IsLoading       bool
}

// NewChunkLoader creates a loader filling d from dirPath. A maxWords of 0 loads everything.
func NewChunkLoader(dirPath string, maxWords int, d *dic.Dictionary) *ChunkLoader {
	return &ChunkLoader{
		dirPath:      dirPath,
		maxWords:     maxWords,
		dict:         d,
		loadedChunks: make(map[int]int),
		loadingCh:    make(chan int, 10),
		done:         make(chan struct{}),
		errorCount:   make(map[int]int),
		maxRetries:   3,
	}
}

// GetAvailableChunks scans the directory for chunk files, ordered by id.
func (cl *ChunkLoader) GetAvailableChunks() ([]ChunkInfo, error) {
	pattern := filepath.Join(cl.dirPath, "dict_*.bin")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to scan for chunk files: %w", err)
	}

	var chunks []ChunkInfo
	for _, file := range files {
		basename := filepath.Base(file)
		// dict_0001.bin -> 1
		idStr := strings.TrimSuffix(strings.TrimPrefix(basename, "dict_"), ".bin")
		chunkID, err := strconv.Atoi(idStr)
		if err != nil {
			continue
		}
		wordCount, err := chunkWordCount(file)
		if err != nil {
			log.Warnf("Failed to get word count for chunk %s: %v", file, err)
			wordCount = 0
		}
		chunks = append(chunks, ChunkInfo{
			ChunkID:   chunkID,
			Filename:  file,
			WordCount: wordCount,
		})
	}

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ChunkID < chunks[j].ChunkID
	})
	return chunks, nil
}

// chunkWordCount reads the word count from a chunk file's header
func chunkWordCount(filename string) (int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var wordCount int32
	if err := binary.Read(file, binary.LittleEndian, &wordCount); err != nil {
		return 0, err
	}
	return int(wordCount), nil
}

// selectChunks returns the chunks needed to reach maxWords.
func (cl *ChunkLoader) selectChunks() ([]ChunkInfo, error) {
	chunks, err := cl.GetAvailableChunks()
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoChunks, cl.dirPath)
	}
	if cl.maxWords <= 0 {
		return chunks, nil
	}

	selected := chunks[:0:0]
	words := 0
	for _, chunk := range chunks {
		if words >= cl.maxWords {
			break
		}
		selected = append(selected, chunk)
		words += chunk.WordCount
	}
	return selected, nil
}

// LoadAll loads the selected chunks synchronously.
func (cl *ChunkLoader) LoadAll() error {
	chunks, err := cl.selectChunks()
	if err != nil {
		return err
	}
	for _, chunk := range chunks {
		if err := cl.loadChunk(chunk.ChunkID); err != nil {
			return err
		}
	}
	return nil
}

// StartLazyLoading queues the selected chunks for the background loader and
// returns at once. The dictionary answers matches while chunks arrive.
func (cl *ChunkLoader) StartLazyLoading() error {
	chunks, err := cl.selectChunks()
	if err != nil {
		return fmt.Errorf("failed to get available chunks: %w", err)
	}
	log.Debugf("Found %d chunk files to load", len(chunks))

	cl.pending.Add(len(chunks))
	cl.inflight.Add(int64(len(chunks)))
	go cl.backgroundLoader()

	go func() {
		for _, chunk := range chunks {
			select {
			case cl.loadingCh <- chunk.ChunkID:
				log.Debugf("Queued chunk %d for loading", chunk.ChunkID)
			case <-cl.done:
				return
			}
		}
	}()
	return nil
}

// backgroundLoader runs in a goroutine and loads chunks from the queue
func (cl *ChunkLoader) backgroundLoader() {
	for {
		select {
		case chunkID := <-cl.loadingCh:
			cl.handleChunk(chunkID)
		case <-cl.done:
			return
		}
	}
}

func (cl *ChunkLoader) handleChunk(chunkID int) {
	err := cl.loadChunk(chunkID)
	if err == nil {
		log.Debugf("Successfully loaded chunk %d", chunkID)
		cl.finish()
		return
	}
	log.Errorf("Failed to load chunk %d: %v", chunkID, err)

	cl.mu.Lock()
	cl.errorCount[chunkID]++
	errorCount := cl.errorCount[chunkID]
	cl.mu.Unlock()

	if errorCount >= cl.maxRetries {
		log.Errorf("Chunk %d failed %d times, giving up", chunkID, cl.maxRetries)
		cl.finish()
		return
	}

	log.Debugf("Retrying chunk %d (attempt %d/%d)", chunkID, errorCount+1, cl.maxRetries)
	go func(id int) {
		select {
		case <-time.After(time.Duration(errorCount) * 100 * time.Millisecond):
		case <-cl.done:
			return
		}
		select {
		case cl.loadingCh <- id:
		case <-cl.done:
		}
	}(chunkID)
}

func (cl *ChunkLoader) finish() {
	cl.inflight.Add(-1)
	cl.pending.Done()
}

// Wait blocks until every queued chunk is loaded or given up. It must not be
// called after Stop.
func (cl *ChunkLoader) Wait() {
	cl.pending.Wait()
}

// loadChunk reads one chunk file into the dictionary.
func (cl *ChunkLoader) loadChunk(chunkID int) error {
	cl.mu.RLock()
	_, loaded := cl.loadedChunks[chunkID]
	cl.mu.RUnlock()
	if loaded {
		return nil
	}

	filename := filepath.Join(cl.dirPath, ChunkFileName(chunkID))
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open chunk file %s: %w", filename, err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)

	var totalEntries int32
	if err := binary.Read(reader, binary.LittleEndian, &totalEntries); err != nil {
		return fmt.Errorf("failed to read chunk header: %w", err)
	}
	log.Debugf("Loading chunk %d with %d words", chunkID, totalEntries)

	count := 0
	for count < int(totalEntries) {
		var wordLen uint16
		if err := binary.Read(reader, binary.LittleEndian, &wordLen); err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("failed to read word length: %w", err)
		}

		wordBytes := make([]byte, wordLen)
		if _, err := io.ReadFull(reader, wordBytes); err != nil {
			return fmt.Errorf("failed to read word: %w", err)
		}

		// rank is kept in the format for ordering; the trie has no use for it
		var rank uint16
		if err := binary.Read(reader, binary.LittleEndian, &rank); err != nil {
			return fmt.Errorf("failed to read rank: %w", err)
		}

		if _, err := cl.dict.AddWord(string(wordBytes)); err != nil {
			log.Warnf("Skipping entry %q in chunk %d: %v", wordBytes, chunkID, err)
		}
		count++
	}

	cl.mu.Lock()
	cl.loadedChunks[chunkID] = count
	cl.totalWords += count
	cl.mu.Unlock()
	log.Debugf("Chunk %d loaded: %d words", chunkID, count)
	return nil
}

// LoadSpecificChunk loads a specific chunk by ID
func (cl *ChunkLoader) LoadSpecificChunk(chunkID int) error {
	return cl.loadChunk(chunkID)
}

// GetLoadedChunkIDs returns the loaded chunk IDs in order.
func (cl *ChunkLoader) GetLoadedChunkIDs() []int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()

	loadedIDs := make([]int, 0, len(cl.loadedChunks))
	for chunkID := range cl.loadedChunks {
		loadedIDs = append(loadedIDs, chunkID)
	}
	sort.Ints(loadedIDs)
	return loadedIDs
}

// GetStats returns current loading statistics
func (cl *ChunkLoader) GetStats() LoaderStats {
	chunks, _ := cl.GetAvailableChunks()

	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return LoaderStats{
		LoadedWords:     cl.totalWords,
		LoadedChunks:    len(cl.loadedChunks),
		AvailableChunks: len(chunks),
		IsLoading:       cl.inflight.Load() > 0 && !cl.stopped(),
	}
}

func (cl *ChunkLoader) stopped() bool {
	select {
	case <-cl.done:
		return true
	default:
		return false
	}
}

// Stop stops the background loading process
func (cl *ChunkLoader) Stop() {
	cl.stopOnce.Do(func() {
		close(cl.done)
	})
}
