// Package importer walks a directory of CSV training-log exports and sends
// their sets to a GymLog server, keeping a local SQLite record of which
// files have already gone through.
package importer

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/claude/gymlog/internal/ingest/csvlog"
	"github.com/claude/gymlog/internal/models"
)

// Sender delivers a batch of historical sets. *Client satisfies it; tests
// use fakes.
type Sender interface {
	SendSets(sets []models.SetImport) error
}

// Result summarizes one import run.
type Result struct {
	FilesSeen    int
	FilesSkipped int
	FilesSent    int
	SetsSent     int
	Errors       []string
}

// Importer imports CSV exports from a directory.
type Importer struct {
	state  *StateDB
	sender Sender
	log    *slog.Logger
}

// New creates an Importer.
func New(state *StateDB, sender Sender, log *slog.Logger) *Importer {
	return &Importer{state: state, sender: sender, log: log}
}

// Run imports every not-yet-imported .csv file under dir. A file is marked
// imported only after the server accepts its sets, so a failed upload is
// retried on the next run. Per-file errors are collected, not fatal.
func (im *Importer) Run(dir string) (*Result, error) {
	result := &Result{}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".csv") {
			return nil
		}
		result.FilesSeen++

		relPath, err := filepath.Rel(dir, path)
		if err != nil {
			relPath = path
		}

		if err := im.importFile(dir, relPath, result); err != nil {
			im.log.Warn("import failed", "file", relPath, "error", err)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", relPath, err))
		}
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("walking %s: %w", dir, err)
	}
	return result, nil
}

func (im *Importer) importFile(dir, relPath string, result *Result) error {
	path := filepath.Join(dir, relPath)

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	hash, err := HashFile(path)
	if err != nil {
		return fmt.Errorf("hashing: %w", err)
	}

	done, err := im.state.IsImported(relPath, info.Size(), hash)
	if err != nil {
		return fmt.Errorf("checking state: %w", err)
	}
	if done {
		result.FilesSkipped++
		im.log.Debug("already imported", "file", relPath)
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	entries, err := csvlog.Parse(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("parsing: %w", err)
	}
	if len(entries) == 0 {
		im.log.Info("no sets in file", "file", relPath)
		return im.state.MarkImported(relPath, info.Size(), hash)
	}

	sets := make([]models.SetImport, 0, len(entries))
	for _, e := range entries {
		sets = append(sets, models.SetImport{
			Exercise: e.Exercise,
			WeightKg: e.WeightKg,
			Reps:     e.Reps,
			LoggedAt: e.LoggedAt,
		})
	}

	if err := im.sender.SendSets(sets); err != nil {
		return fmt.Errorf("sending: %w", err)
	}
	if err := im.state.MarkImported(relPath, info.Size(), hash); err != nil {
		return fmt.Errorf("recording state: %w", err)
	}

	im.log.Info("imported", "file", relPath, "sets", len(sets))
	result.FilesSent++
	result.SetsSent += len(sets)
	return nil
}
