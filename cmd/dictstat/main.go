// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Command dictstat inspects a dictionary: first character statistics, memory
used by loading it into the trie, and a check that every word matches.

	dictstat -dict main.dic
	dictstat -dict main.dic -report heads.txt
	dictstat -dict main.dic -pack data/ -chunk 10000

With -pack the word list is also written as chunk files for wordseg -data.
*/
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/bastiangx/wordseg/internal/logger"
	"github.com/bastiangx/wordseg/internal/utils"
	"github.com/bastiangx/wordseg/pkg/dic"
	"github.com/bastiangx/wordseg/pkg/dictionary"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

// crowdedHead is the word count above which a head character counts as crowded.
const crowdedHead = 64

// HeadStats counts dictionary words per first character.
type HeadStats struct {
	Counts  map[rune]int
	OnlyOne int // heads starting exactly one word
	Crowded int // heads starting more than crowdedHead words
}

// Total returns the number of distinct head characters.
func (h HeadStats) Total() int {
	return len(h.Counts)
}

// CountHeads builds head statistics over words; blank words are ignored.
func CountHeads(words []string) HeadStats {
	st := HeadStats{Counts: make(map[rune]int)}
	for _, w := range words {
		if utils.IsBlank(w) {
			continue
		}
		st.Counts[utils.HeadRune(w)]++
	}
	for _, c := range st.Counts {
		if c == 1 {
			st.OnlyOne++
		}
		if c > crowdedHead {
			st.Crowded++
		}
	}
	return st
}

// WriteReport writes one "head : count" line per head, ordered by head, then the totals.
func (h HeadStats) WriteReport(w io.Writer) error {
	heads := make([]rune, 0, len(h.Counts))
	for r := range h.Counts {
		heads = append(heads, r)
	}
	sort.Slice(heads, func(i, j int) bool { return heads[i] < heads[j] })

	for _, r := range heads {
		if _, err := fmt.Fprintf(w, "%c : %d\n", r, h.Counts[r]); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Total : %d\nOnlyOneCount : %d\nMoreThan%dCount : %d\n",
		h.Total(), h.OnlyOne, crowdedHead, h.Crowded)
	return err
}

// MatchResult is the outcome of matching every word back against the dictionary.
type MatchResult struct {
	Matched   int
	Unmatched []string
	Took      time.Duration
}

// MatchAll matches every word against d as a whole.
func MatchAll(d *dic.Dictionary, words []string) MatchResult {
	var res MatchResult
	start := time.Now()
	for _, w := range words {
		if d.MatchString(w).IsMatch() {
			res.Matched++
		} else {
			res.Unmatched = append(res.Unmatched, w)
		}
	}
	res.Took = time.Since(start)
	return res
}

// loadMeasured fills a fresh dictionary with words and reports the heap growth.
func loadMeasured(words []string) (*dic.Dictionary, uint64) {
	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	d := dic.NewDictionaryWithTable(dic.NewCharTable())
	d.AddWords(words)

	runtime.GC()
	runtime.ReadMemStats(&after)
	if after.HeapAlloc < before.HeapAlloc {
		return d, 0
	}
	return d, after.HeapAlloc - before.HeapAlloc
}

// readAll reads a word list, chunk file or chunk directory as plain words.
func readAll(path string) ([]string, error) {
	if format, err := dictionary.DetectFileFormat(path); err == nil {
		if info, ok := dictionary.GetFormatInfo(format); ok {
			log.Debugf("%s looks like a %s", path, info.Description)
		}
		if format == dictionary.FormatText {
			return dictionary.ReadWordsFile(path)
		}
	}
	d := dic.NewDictionaryWithTable(dic.NewCharTable())
	if err := dictionary.LoadPath(path, d); err != nil {
		return nil, err
	}
	return d.Words(), nil
}

func main() {
	dictPath := flag.String("dict", "", "Word list, chunk file or chunk directory to inspect")
	reportPath := flag.String("report", "", "Write the per-head report to this file")
	packDir := flag.String("pack", "", "Write the words as chunk files into this directory")
	chunkSize := flag.Int("chunk", 10000, "Words per chunk file for -pack")
	preview := flag.Int("preview", 0, "Print the first n entries")
	showUnmatched := flag.Bool("unmatched", false, "List words that fail to match")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	flag.Parse()

	level := log.InfoLevel
	if *debugMode {
		level = log.DebugLevel
		log.SetLevel(level)
	}
	l := logger.NewWithConfig("dictstat", level, false, false, log.TextFormatter)
	if *dictPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	words, err := readAll(*dictPath)
	if err != nil {
		l.Fatalf("Failed to read %s: %v", *dictPath, err)
	}
	l.Infof("Read %s entries from %s", humanize.Comma(int64(len(words))), *dictPath)

	for i := 0; i < *preview && i < len(words); i++ {
		fmt.Println(words[i])
	}

	heads := CountHeads(words)
	l.Infof("Heads: %s, only one word: %s, more than %d words: %s",
		humanize.Comma(int64(heads.Total())), humanize.Comma(int64(heads.OnlyOne)),
		crowdedHead, humanize.Comma(int64(heads.Crowded)))
	if *reportPath != "" {
		f, err := os.Create(*reportPath)
		if err != nil {
			l.Fatalf("Failed to create report: %v", err)
		}
		if err := heads.WriteReport(f); err != nil {
			l.Errorf("Failed to write report: %v", err)
		}
		f.Close()
		l.Infof("Head report written to %s", *reportPath)
	}

	start := time.Now()
	d, heap := loadMeasured(words)
	st := d.Stats()
	l.Infof("Loaded %s words in %v using about %s", humanize.Comma(int64(d.Len())), time.Since(start), humanize.IBytes(heap))
	l.Infof("Nodes: %s (array %s, map %s, leaves %s), depth %d, widest %d, chars %s",
		humanize.Comma(int64(st.Nodes)), humanize.Comma(int64(st.ArrayNodes)),
		humanize.Comma(int64(st.MapNodes)), humanize.Comma(int64(st.Leaves)),
		st.MaxDepth, st.MaxFanout, humanize.Comma(int64(st.Chars)))

	res := MatchAll(d, words)
	l.Infof("Match words: %s, unmatched: %d, took %v", humanize.Comma(int64(res.Matched)), len(res.Unmatched), res.Took)
	if *showUnmatched {
		for _, w := range res.Unmatched {
			fmt.Println(w)
		}
	}

	if *packDir != "" {
		n, err := dictionary.WriteChunks(*packDir, d.Words(), *chunkSize)
		if err != nil {
			l.Fatalf("Failed to pack: %v", err)
		}
		l.Infof("Wrote %d chunk files to %s", n, *packDir)
	}
}
