// Copyright 2025 The TabTab Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the composition engine server and CLI [DBG] application.

TabTab converts a stream of romanized syllable input into ranked
whole-word/phrase candidates, drawing on layered dictionaries and a
dynamic-programming segmenter with a curated phrase table. It can operate
as a MessagePack IPC server for integration with a key-capture/GUI layer,
or as a CLI application for testing and debugging.

# Usage

Start the server with a dictionary:

	tabtab -dict assets/8105.dict.yaml

Layer several sources (priority is load order, first occurrence of a key
wins) and enable debug logging:

	tabtab -dict curated.dict.yaml,bulk.dict.yaml -d

Run in CLI mode for interactive testing:

	tabtab -c -dict assets/8105.dict.yaml

# Dictionary format

Sources are text files with a metadata block terminated by a "..." line,
then one entry per line:

	surface<TAB>romanized syllables space separated[<TAB>frequency]

Blank lines and lines starting with '#' are ignored. Malformed lines are
skipped with a warning; a missing source is skipped entirely.

# Configuration

Runtime configuration is a TOML file supporting engine, dictionary and
suggestion provider settings:

	[engine]
	page_size = 5
	cell_cap = 30

	[dict]
	sources = ["assets/8105.dict.yaml"]
	merge_policy = "first_wins"

	[ai]
	enabled = true
	base_url = "http://localhost:11434/v1"
	model = "qwen2.5:0.5b"

The config file is automatically created with defaults if it doesn't exist.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. Each request
names a session operation and receives the resulting session view:

	{"id": "k1", "op": "append", "ch": "ni"}
	{"id": "k1", "status": "ok", "w": ["你", "尼"], "pg": 0, "tp": 2, "st": "composing", "ep": 2}

Suggestion requests are fire-and-forget; clients poll and the server
discards results whose session epoch went stale.

# Command Line Flags

	-dict string
	    Comma-separated dictionary sources in priority order
	-phrases string
	    TOML curated phrase table overriding the built-in one
	-config string
	    Custom config file path
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-page int
	    Candidates per page
	-limit int
	    Truncate candidate lists (0 for all)
	-merge string
	    Merge policy: first_wins or last_wins
	-version
	    Show current version
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/tabtab-ime/tabtab/internal/cli"
	"github.com/tabtab-ime/tabtab/internal/logger"
	"github.com/tabtab-ime/tabtab/pkg/compose"
	"github.com/tabtab-ime/tabtab/pkg/config"
	"github.com/tabtab-ime/tabtab/pkg/dictionary"
	"github.com/tabtab-ime/tabtab/pkg/pinyin"
	"github.com/tabtab-ime/tabtab/pkg/server"
	"github.com/tabtab-ime/tabtab/pkg/suggest"
)

const (
	Version = "0.3.0-beta"
	AppName = "tabtab"
	gh      = "https://github.com/tabtab-ime/tabtab"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	dictFlag := flag.String("dict", "", "Comma-separated dictionary sources in priority order")
	phrasesFlag := flag.String("phrases", "", "TOML curated phrase table path")
	configFlag := flag.String("config", "", "Custom config file path")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	pageSize := flag.Int("page", 0, "Candidates per page (default from config)")
	limit := flag.Int("limit", 0, "Truncate candidate lists (0 for all)")
	mergeFlag := flag.String("merge", "", "Merge policy: first_wins or last_wins")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	cfg, cfgPath, err := config.LoadConfigWithPriority(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Active config: %s", config.GetActiveConfigPath(cfgPath))

	// Flags override config.
	sources := cfg.Dict.Sources
	if *dictFlag != "" {
		sources = strings.Split(*dictFlag, ",")
	}
	phrasesPath := cfg.Dict.Phrases
	if *phrasesFlag != "" {
		phrasesPath = *phrasesFlag
	}
	policy := cfg.Dict.MergePolicy
	if *mergeFlag != "" {
		policy = *mergeFlag
	}
	if *pageSize <= 0 {
		*pageSize = cfg.Engine.PageSize
	}
	if *limit <= 0 {
		*limit = cfg.Engine.CandidateLimit
	}

	store := dictionary.NewStore(dictionary.ParseMergePolicy(policy), cfg.Dict.BaselineFrequency)
	if err := store.Load(sources); err != nil {
		log.Fatalf("Failed to load dictionaries: %v", err)
	}
	stats := store.Stats()
	if stats.Words == 0 {
		log.Warn("Dictionary store is empty; all lookups will return nothing")
	}
	log.Debugf("Store ready: %d keys, %d words, max frequency %d",
		stats.Keys, stats.Words, stats.MaxFrequency)

	curated := dictionary.LoadCuratedTable(phrasesPath)
	segmenter := pinyin.NewSegmenter(store, curated, cfg.Engine.CellCap)
	ranker := compose.NewRanker(store, segmenter, curated)
	session := compose.NewSession(ranker, *pageSize)
	session.SetCandidateLimit(*limit)

	var provider suggest.Provider
	if cfg.AI.Enabled {
		provider = suggest.NewClient(suggest.Config{
			BaseURL: cfg.AI.BaseURL,
			APIKey:  cfg.AI.APIKey,
			Model:   cfg.AI.Model,
			Max:     cfg.AI.MaxSuggestions,
			Timeout: time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
		})
	}

	if *cliMode {
		handler := cli.NewInputHandler(session, provider)
		if err := handler.Start(); err != nil {
			log.Fatalf("CLI exited: %v", err)
		}
		return
	}

	cooldown := time.Duration(cfg.AI.CooldownSeconds) * time.Second
	srv := server.NewServer(session, provider, cooldown)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}

func printVersion() {
	vlog := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	vlog.SetStyles(styles)

	vlog.Print("")
	vlog.Print("[ TabTab ] Composes pinyin into ranked candidates!")
	vlog.Print("", "version", Version)
	vlog.Print("")
	vlog.Print("use -h or --help to see available options")
	vlog.Print("Github Repo", "gh", gh)
}
