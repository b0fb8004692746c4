package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/claude/gymlog/internal/importer"
)

func main() {
	dir := flag.String("dir", ".", "directory containing CSV training-log exports")
	serverURL := flag.String("server", "http://localhost:8080", "GymLog server URL")
	apiKey := flag.String("api-key", os.Getenv("GYMLOG_AUTH_API_KEY"), "API key for the import endpoint")
	stateDir := flag.String("state-dir", defaultStateDir(), "directory for the import state database")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *apiKey == "" {
		log.Error("api key required (flag -api-key or GYMLOG_AUTH_API_KEY)")
		os.Exit(1)
	}

	state, err := importer.OpenStateDB(*stateDir)
	if err != nil {
		log.Error("failed to open state db", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	client := importer.NewClient(*serverURL, *apiKey)
	im := importer.New(state, client, log)

	result, err := im.Run(*dir)
	if err != nil {
		log.Error("import run failed", "error", err)
		os.Exit(1)
	}

	log.Info("import finished",
		"files_seen", result.FilesSeen,
		"files_skipped", result.FilesSkipped,
		"files_sent", result.FilesSent,
		"sets_sent", result.SetsSent,
		"errors", len(result.Errors),
	)
	if len(result.Errors) > 0 {
		os.Exit(1)
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gymlog-import"
	}
	return filepath.Join(home, ".gymlog-import")
}
