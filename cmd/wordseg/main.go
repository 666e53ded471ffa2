// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the wordseg query analysis server and CLI [DBG] application.

wordseg loads a dictionary into a character trie and turns free text into
search expressions: every dictionary word found in the text becomes a term,
and overlapping readings become alternatives. "北京大学" over a dictionary
holding 北京, 大学 and 北京大学 analyzes to

	content:北京大学 (+content:北京 +content:大学)

# Usage

Start the IPC server with a word list:

	wordseg -dict main.dic

Serve HTTP instead, with chunked dictionaries loaded in the background:

	wordseg -data /path/to/chunks -http :8080

Run in CLI mode for interactive testing:

	wordseg -dict main.dic -c

# Configuration

Runtime configuration lives in a TOML file, created with defaults on first run:

	[dict]
	main_dict = "main.dic"
	ext_dicts = ["ext.dic"]
	data_dir = "data"
	store_path = ""

	[query]
	default_field = "content"
	split_whitespace = true
	scanner = "dict"

Flags override the file.

# Dictionaries

Words come from plain text lists (one per line, '#' comments), from
directories of dict_0001.bin style chunk files written by dictstat -pack,
and from a badger store. Text lists are copied into the store when one is
configured, so later runs only need the store.

Chunk directories are loaded lazily in server modes: matching starts at once
and sees more words as chunks arrive.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bastiangx/wordseg/internal/cli"
	"github.com/bastiangx/wordseg/internal/logger"
	"github.com/bastiangx/wordseg/internal/utils"
	"github.com/bastiangx/wordseg/pkg/config"
	"github.com/bastiangx/wordseg/pkg/dic"
	"github.com/bastiangx/wordseg/pkg/dictionary"
	"github.com/bastiangx/wordseg/pkg/httpapi"
	"github.com/bastiangx/wordseg/pkg/query"
	"github.com/bastiangx/wordseg/pkg/segment"
	"github.com/bastiangx/wordseg/pkg/server"
	"github.com/bastiangx/wordseg/pkg/store"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
)

const (
	Version = "0.3.0-beta"
	AppName = "wordseg"
	gh      = "https://github.com/bastiangx/wordseg"
)

// sigHandler runs cleanup and exits on SIGINT/SIGTERM.
func sigHandler(cleanup func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		cleanup()
		os.Exit(0)
	}()
}

func showVersion() {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
	})
	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ wordseg ] dictionary driven query analysis")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}

func main() {
	versionFlag := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to a config.toml")
	dictPath := flag.String("dict", "", "Main dictionary: word list, chunk file or chunk directory")
	dataDir := flag.String("data", "", "Directory containing dict_*.bin chunk files")
	storePath := flag.String("store", "", "Badger directory persisting loaded words")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	httpAddr := flag.String("http", "", "Serve HTTP on this address instead of IPC")
	field := flag.String("field", "", "Field name used in expressions")
	scanner := flag.String("scanner", "", "Lexeme source: dict or gse")
	wordLimit := flag.Int("words", -1, "Maximum number of chunked words to load (0 for all)")
	rebuildConfig := flag.Bool("rebuild-config", false, "Overwrite the default config.toml with defaults and exit")
	flag.Parse()

	if *versionFlag {
		showVersion()
		os.Exit(0)
	}
	if *rebuildConfig {
		if err := config.RebuildConfigFile(); err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		log.Infof("Config rebuilt at %s", config.GetActiveConfigPath(""))
		os.Exit(0)
	}

	cfg, usedConfig, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyFlags(cfg, *dictPath, *dataDir, *storePath, *field, *scanner, *wordLimit)
	cfg.Validate()

	logger.Setup(cfg.Log.Level, cfg.Log.JSON)
	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	}
	log.Debugf("Using config: %s", config.GetActiveConfigPath(usedConfig))

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}
	log.Debug("Runtime", "info", pathResolver.GetRuntimeInfo(), "exec_dir", pathResolver.GetExecutableDir())

	d := dic.NewDictionary()
	st, err := openStore(cfg.Dict.StorePath, d)
	if err != nil {
		log.Fatalf("%v", err)
	}
	closeStore := func() {
		if st != nil {
			if err := st.Close(); err != nil {
				log.Errorf("Failed to close store: %v", err)
			}
		}
	}
	defer closeStore()

	loadWordLists(pathResolver, cfg.Dict, d, st)

	// gse takes its word list at construction; it and the CLI load chunks synchronously.
	lazy := !*cliMode && cfg.Query.Scanner != config.ScannerGse
	loader := startChunks(pathResolver, cfg.Dict, d, lazy)
	if loader != nil {
		defer loader.Stop()
	}

	src, err := newSource(cfg.Query.Scanner, d)
	if err != nil {
		log.Fatalf("%v", err)
	}
	svc := server.NewService(d, src)
	svc.DefaultField = cfg.Query.DefaultField
	svc.MaxTextLen = cfg.Server.MaxTextLen
	svc.ExpandLimit = cfg.Server.ExpandLimit
	svc.Parser().SplitWhitespace = cfg.Query.SplitWhitespace
	if loader != nil {
		svc.WithLoader(loader)
	}
	log.Debugf("Dictionary ready with %s words", humanize.Comma(int64(d.Len())))

	if *cliMode {
		log.SetReportTimestamp(false)
		h := cli.NewInputHandler(svc, cfg.CLI.DefaultField, cfg.CLI.ShowLexemes, os.Stdin, os.Stdout)
		if err := h.Start(); err != nil {
			log.Errorf("CLI error: %v", err)
		}
		return
	}

	addr := *httpAddr
	if addr != "" {
		if err := serveHTTP(addr, svc); err != nil {
			log.Errorf("HTTP server error: %v", err)
		}
		return
	}

	sigHandler(func() {
		if loader != nil {
			loader.Stop()
		}
		closeStore()
	})
	showStartupInfo(d.Len(), cfg.Query.Scanner)
	if err := server.NewServer(svc).Start(); err != nil {
		log.Errorf("Server error: %v", err)
	}
}

func applyFlags(cfg *config.Config, dictPath, dataDir, storePath, field, scanner string, words int) {
	if dictPath != "" {
		cfg.Dict.MainDict = dictPath
	}
	if dataDir != "" {
		cfg.Dict.DataDir = dataDir
	}
	if storePath != "" {
		cfg.Dict.StorePath = storePath
	}
	if field != "" {
		cfg.Query.DefaultField = field
		cfg.CLI.DefaultField = field
	}
	if scanner != "" {
		cfg.Query.Scanner = scanner
	}
	if words >= 0 {
		cfg.Dict.MaxWords = words
	}
}

func openStore(path string, d *dic.Dictionary) (*store.Store, error) {
	if path == "" {
		return nil, nil
	}
	if err := utils.CheckStoreDir(path); err != nil {
		return nil, err
	}
	st, err := store.Open(store.Options{Dir: path})
	if err != nil {
		return nil, fmt.Errorf("failed to open store at %s: %w", path, err)
	}
	n, err := st.LoadInto(d)
	if err != nil {
		st.Close()
		return nil, err
	}
	log.Debugf("Loaded %s words from store %s", humanize.Comma(int64(n)), path)
	return st, nil
}

// loadWordLists loads the main and extension lists. A missing list is
// logged and skipped.
func loadWordLists(pr *utils.PathResolver, cfg config.DictConfig, d *dic.Dictionary, st *store.Store) {
	var paths []string
	if cfg.MainDict != "" {
		paths = append(paths, cfg.MainDict)
	}
	paths = append(paths, cfg.ExtDicts...)

	for _, p := range paths {
		resolved := p
		if info, err := os.Stat(p); err != nil || !info.IsDir() {
			if found, err := pr.FindFile(p); err == nil {
				resolved = found
			}
		}
		if err := dictionary.LoadPath(resolved, d); err != nil {
			log.Warnf("Skipping dictionary %s: %v", p, err)
			continue
		}
		log.Debugf("Loaded dictionary %s", resolved)

		if st == nil {
			continue
		}
		format, err := dictionary.DetectFileFormat(resolved)
		if err != nil || format != dictionary.FormatText {
			continue
		}
		words, err := dictionary.ReadWordsFile(resolved)
		if err != nil {
			continue
		}
		if n, err := st.PutBatch(words, resolved); err != nil {
			log.Warnf("Failed to persist %s: %v", resolved, err)
		} else {
			log.Debugf("Persisted %d words from %s", n, resolved)
		}
	}
}

// startChunks loads the chunk directory, if one resolves, in the background
// or right away.
func startChunks(pr *utils.PathResolver, cfg config.DictConfig, d *dic.Dictionary, lazy bool) *dictionary.ChunkLoader {
	if cfg.DataDir == "" {
		return nil
	}
	dir, err := pr.GetDataDir(cfg.DataDir)
	if err != nil {
		log.Debugf("No chunk directory for %s", cfg.DataDir)
		return nil
	}
	n, err := utils.CheckChunkDir(dir)
	if err != nil {
		log.Warnf("Skipping chunks: %v", err)
		return nil
	}
	log.Debugf("Found %d chunk files in %s", n, dir)
	cl := dictionary.NewChunkLoader(dir, cfg.MaxWords, d)
	if lazy {
		err = cl.StartLazyLoading()
	} else {
		err = cl.LoadAll()
	}
	if err != nil {
		log.Warnf("Failed to load chunks from %s: %v", dir, err)
		return nil
	}
	log.Debugf("Loading chunks from %s (lazy=%v)", dir, lazy)
	return cl
}

func newSource(name string, d *dic.Dictionary) (query.Source, error) {
	switch name {
	case config.ScannerGse:
		return segment.NewGseSource(d.Words())
	default:
		return segment.NewDictSource(d), nil
	}
}

func serveHTTP(addr string, svc *server.Service) error {
	gin.SetMode(gin.ReleaseMode)
	gin.DefaultWriter = logger.Gin(log.DebugLevel)
	gin.DefaultErrorWriter = logger.Gin(log.ErrorLevel)

	srv := &http.Server{
		Addr:    addr,
		Handler: httpapi.NewRouter(svc),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(words int, scanner string) {
	l := logger.New(AppName)
	l.SetLevel(log.InfoLevel)

	l.Infof("version %s", Version)
	l.Infof("Process ID: [ %d ]", os.Getpid())
	l.Infof("words: %s, scanner: %s", humanize.Comma(int64(words)), scanner)
	l.Info("status: ready")
}
