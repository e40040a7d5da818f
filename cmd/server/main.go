// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/arbormcp/arbor/internal/config"
	"github.com/arbormcp/arbor/internal/memory"
	"github.com/arbormcp/arbor/internal/server"
)

// Version is set at build time via ldflags (e.g. goreleaser -X main.Version={{.Version}}).
var Version string

func main() {
	// CRITICAL: MCP servers must ONLY output JSON-RPC to stdout
	// Redirect all logging to stderr
	log.SetOutput(os.Stderr)

	memoryFile := flag.String("memory-file", "", "Path to the JSON file where memories are stored")
	flag.StringVar(memoryFile, "f", "", "Shorthand for --memory-file")
	configPath := flag.String("config", "", "Path to config file")
	exportFormat := flag.String("export", "", "Dump the memory tree to stdout and exit (json or yaml)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Arbor MCP Server\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Server Mode:\n")
		fmt.Fprintf(os.Stderr, "  %s                          Start MCP server (stdio) with the configured memory file\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -f memories.json         Start MCP server (stdio) backed by memories.json\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nExport:\n")
		fmt.Fprintf(os.Stderr, "  %s --export json            Print the memory tree as JSON and exit\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --export yaml            Print the memory tree as YAML and exit\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  MEMORY_FILE        Path to the JSON memory file\n")
		fmt.Fprintf(os.Stderr, "  LOG_LEVEL          Log level (debug, info, warn, error)\n")
	}

	flag.Parse()

	if *exportFormat != "" && *exportFormat != "json" && *exportFormat != "yaml" {
		log.Fatalf("ERROR: --export must be 'json' or 'yaml', got '%s'", *exportFormat)
	}

	// Load configuration
	var cfg *config.Config
	var err error

	if *configPath != "" {
		cfg, err = config.LoadFromPath(*configPath)
		if err != nil {
			log.Printf("Warning: Failed to load config from %s: %v", *configPath, err)
			log.Println("Using defaults")
			cfg = config.DefaultConfig()
		} else {
			log.Printf("Loaded configuration from %s", *configPath)
		}
	} else {
		cfg, err = config.Load()
		if err != nil {
			log.Printf("Warning: Failed to load default config: %v", err)
			log.Println("Using built-in defaults")
			cfg = config.DefaultConfig()
		}
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Apply CLI flag overrides (highest priority)
	applyCLIOverrides(cfg, *memoryFile, *logLevel)

	if Version != "" {
		cfg.Server.Version = Version
	}

	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Open the store. A present but corrupt backing file is fatal: no
	// partial or degraded tree is ever served.
	store, err := memory.Open(cfg.Storage.MemoryFile)
	if err != nil {
		logger.Fatal("failed to open memory store",
			zap.String("path", cfg.Storage.MemoryFile),
			zap.Error(err),
		)
	}
	logger.Info("memory store ready", zap.String("path", store.Path()))

	// EXPORT MODE: Dump the tree and exit
	if *exportFormat != "" {
		runExportMode(store, *exportFormat, logger)
		return
	}

	// SERVER MODE: Serve MCP over stdio
	srv := server.NewMCPServer(cfg, store, logger)
	logger.Info("MCP server ready (stdio mode) - 5 tools registered",
		zap.String("name", cfg.Server.Name),
		zap.String("version", cfg.Server.Version),
	)

	if err := mcpserver.ServeStdio(srv.GetMCPServer()); err != nil {
		logger.Fatal("MCP server error", zap.Error(err))
	}
}

// runExportMode prints the whole memory tree to stdout in the requested
// format and exits.
func runExportMode(store *memory.Store, format string, logger *zap.Logger) {
	var (
		data []byte
		err  error
	)
	switch format {
	case "yaml":
		data, err = store.DumpYAML()
	default:
		data, err = store.DumpJSON()
	}
	if err != nil {
		logger.Fatal("failed to export memory tree", zap.Error(err))
	}
	fmt.Println(string(data))
}

// newLogger builds a production zap logger writing to stderr only, leaving
// stdout to the JSON-RPC transport.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}
	return zapCfg.Build()
}

// applyEnvOverrides applies environment variable overrides to configuration
func applyEnvOverrides(cfg *config.Config) {
	if memoryFile := getEnv("MEMORY_FILE", "ARBOR_MEMORY_FILE"); memoryFile != "" {
		cfg.Storage.MemoryFile = memoryFile
		log.Printf("Memory file from ENV")
	}

	if level := getEnv("LOG_LEVEL", "ARBOR_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
		log.Printf("Log level from ENV: %s", level)
	}
}

// applyCLIOverrides applies command-line flag overrides to configuration
func applyCLIOverrides(cfg *config.Config, memoryFile, logLevel string) {
	if memoryFile != "" {
		cfg.Storage.MemoryFile = memoryFile
		log.Printf("Memory file from CLI: %s", memoryFile)
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
		log.Printf("Log level from CLI: %s", logLevel)
	}
}

// getEnv tries multiple environment variable names and returns the first non-empty value
func getEnv(names ...string) string {
	for _, name := range names {
		if val := os.Getenv(name); val != "" {
			return val
		}
	}
	return ""
}
