/*
Package main implements the QueryServe autocomplete server and CLI.

QueryServe provides per-keystroke query completion over a historical
query log. A compressed-edge trie keeps a capacity-5 ranked list of
queries at every node; guesses walk the trie with the typed prefix and
re-rank the candidates against it, and user feedback bumps frequencies
and refreshes the rankings along the query's path.

# Usage

Start the IPC server over a query log:

	queryserve -log /path/to/queries.txt

Run in CLI mode for interactive testing:

	queryserve -log queries.txt -c -d

The log is plain text, one raw query per line. It is re-read and the
trie rebuilt on every start; nothing is persisted between runs.

# Configuration

Runtime configuration is a TOML file, created with defaults when
missing:

	[engine]
	correct_bonus = 5
	incorrect_bonus = 1
	enable_prefix_cache = true

	[server]
	max_query_len = 60

# IPC Protocol

Server mode speaks msgpack over stdin/stdout. One request per message,
one response per request:

	{"id": "g1", "cmd": "guess", "ch": "c", "i": 0}
	{"id": "g1", "s": ["cat", "car", "care", "", ""], "c": 3, "t": 42}

Feedback reports the query the user actually ran:

	{"id": "f1", "cmd": "feedback", "ok": true, "q": "cat pictures"}

# Command Line Flags

	-log string
	    Path to the historical query log (default from config)
	-config string
	    Custom config file path
	-d  Enable debug logging
	-c  Run in CLI mode instead of server mode
	-no-filter
	    Disable CLI input filtering
	-version
	    Show version and exit
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/queryserve/queryserve/internal/cli"
	"github.com/queryserve/queryserve/pkg/config"
	"github.com/queryserve/queryserve/pkg/corpus"
	"github.com/queryserve/queryserve/pkg/engine"
	"github.com/queryserve/queryserve/pkg/server"
)

const (
	Version = "0.3.0"
	AppName = "queryserve"
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

// main only manages the flow; the packages do the work.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	logPath := flag.String("log", "", "Path to the historical query log")
	configPath := flag.String("config", "", "Custom config file path")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	noFilter := flag.Bool("no-filter", false, "Disable CLI input filtering")

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

	appConfig, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", activePath)

	if *noFilter {
		appConfig.CLI.NoFilter = true
	}

	corpusPath := appConfig.Corpus.Path
	if *logPath != "" {
		corpusPath = *logPath
	}

	eng := engine.New(appConfig.EngineOptions())
	stats, err := corpus.Load(corpusPath, eng)
	if err != nil {
		log.Fatalf("Failed to load query log: %v", err)
	}
	log.Debugf("Corpus ready: %d lines, %d distinct queries", stats.Lines, stats.Distinct)

	if *cliMode {
		log.SetReportTimestamp(false)
		inputHandler := cli.NewInputHandler(eng, appConfig.CLI.ShowTiming, appConfig.CLI.NoFilter)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	showStartupInfo(corpusPath, stats.Distinct)

	srv := server.NewServer(eng, appConfig, os.Stdin, os.Stdout)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("[ QueryServe ] Per-keystroke query completion")
	logger.Print("", "version", Version)
	logger.Print("use -h or --help to see available options")
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(corpusPath string, queries int) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	log.Infof("%s %s", AppName, Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("query log: ( %s )", corpusPath)
	log.Infof("distinct queries: %d", queries)
	log.Info("status: ready")

	log.SetLevel(currentLevel)
}
