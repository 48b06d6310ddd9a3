package sync

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/conorfennell/recall/internal/domain"
	"github.com/conorfennell/recall/internal/gitsource"
	"github.com/conorfennell/recall/internal/knol"
	"github.com/conorfennell/recall/internal/parser"
	"github.com/conorfennell/recall/internal/srs"
	"github.com/conorfennell/recall/internal/storage"
)

// Options controls a sync run.
type Options struct {
	ReposDir string          // where git sources are cloned
	AgeGroup domain.AgeGroup // used to schedule cards for new content
}

// Summary counts what a sync run changed.
type Summary struct {
	Sources   int `json:"sources"`
	Parsed    int `json:"parsed"`
	Scheduled int `json:"scheduled"`
	Orphaned  int `json:"orphaned"`
	Errors    int `json:"errors"`
}

// RunSync iterates over all sources and reconciles them. A failing source
// is logged and counted; the run carries on with the next one.
func RunSync(ctx context.Context, db *storage.DB, engine *srs.Engine, opts Options) (Summary, error) {
	var summary Summary
	slog.Info("Starting sync process for all sources...")

	sources, err := db.GetAllSources()
	if err != nil {
		return summary, fmt.Errorf("failed to get sources: %w", err)
	}
	if len(sources) == 0 {
		slog.Info("No sources configured. Add one with --add-source <path/or/url.git>")
		return summary, nil
	}

	if err := os.MkdirAll(opts.ReposDir, 0o755); err != nil {
		return summary, fmt.Errorf("failed to create repos directory: %w", err)
	}

	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		slog.Info("Syncing source", "id", source.ID, "type", source.Type, "path", source.Path)
		summary.Sources++

		dir := source.Path
		if source.Type == storage.SourceGit {
			dir, err = gitsource.LocalPath(opts.ReposDir, source.Path)
			if err != nil {
				slog.Error("Error determining local path for git repo", "url", source.Path, "error", err)
				summary.Errors++
				continue
			}
			if err := gitsource.Sync(ctx, source.Path, dir); err != nil {
				slog.Error("Error syncing git repo", "url", source.Path, "error", err)
				summary.Errors++
				continue
			}
		}

		r := reconciler{db: db, engine: engine, age: opts.AgeGroup, summary: &summary}
		if err := r.reconcile(source.ID, dir); err != nil {
			slog.Error("Error reconciling source", "path", dir, "error", err)
			summary.Errors++
		}
	}

	slog.Info("Sync process complete.",
		"sources", summary.Sources,
		"scheduled", summary.Scheduled,
		"orphaned", summary.Orphaned,
		"errors", summary.Errors,
	)
	return summary, nil
}

type reconciler struct {
	db      *storage.DB
	engine  *srs.Engine
	age     domain.AgeGroup
	summary *Summary
}

// reconcile brings the stored content for one source in line with the deck
// files under dir: new entries get a freshly scheduled card, entries that
// disappeared are removed together with their card.
func (r reconciler) reconcile(sourceID int64, dir string) error {
	var contents []domain.Content
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}
		fileContents, parseErr := parser.ParseFile(path)
		if parseErr != nil {
			slog.Warn("Failed to parse deck file", "path", path, "error", parseErr)
			r.summary.Errors++
			return nil
		}
		contents = append(contents, fileContents...)
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("walking %s: %w", dir, walkErr)
	}

	contents = knol.Stamp(contents)
	r.summary.Parsed += len(contents)

	found := make(map[string]bool, len(contents))
	for _, c := range contents {
		found[c.Hash] = true
		if err := r.store(c, sourceID); err != nil {
			slog.Warn("Failed to store content", "hash", c.Hash, "error", err)
			r.summary.Errors++
		}
	}

	stored, err := r.db.GetContentHashesBySource(sourceID)
	if err != nil {
		return err
	}
	for _, hash := range stored {
		if found[hash] {
			continue
		}
		slog.Info("Orphaned content, deleting", "hash", hash)
		if err := r.db.DeleteContent(hash); err != nil {
			slog.Warn("Failed to delete orphaned content", "hash", hash, "error", err)
			r.summary.Errors++
			continue
		}
		r.summary.Orphaned++
	}

	if err := r.db.UpdateSourceLastScanned(sourceID, time.Now()); err != nil {
		slog.Warn("Failed to update last scanned for source", "source_id", sourceID, "error", err)
	}
	return nil
}

// store upserts one entry and schedules a card for it if it has none yet.
func (r reconciler) store(c domain.Content, sourceID int64) error {
	if _, err := r.db.UpsertContent(c, sourceID); err != nil {
		return err
	}
	existing, err := r.db.FindCardByContentID(c.Hash)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	card, err := r.engine.ScheduleNewCard(c.Hash, domain.ContentTypeFlashcard, c.Subject, c.Difficulty, r.age)
	if err != nil {
		return err
	}
	if err := r.db.InsertCard(card); err != nil {
		return err
	}
	slog.Debug("Scheduled new card", "card_id", card.ID, "hash", c.Hash)
	r.summary.Scheduled++
	return nil
}

// ErrSourceExists is returned by AddSource for a path that is already tracked.
var ErrSourceExists = errors.New("source already exists")

// AddSource registers a deck source, detecting git remotes by their URL.
func AddSource(db *storage.DB, path string) (storage.Source, error) {
	sourceType := storage.SourceLocal
	if gitsource.IsRemote(path) {
		sourceType = storage.SourceGit
	} else {
		abs, err := filepath.Abs(path)
		if err != nil {
			return storage.Source{}, fmt.Errorf("resolving %s: %w", path, err)
		}
		path = abs
	}

	existing, err := db.FindSourceByPath(path)
	if err != nil {
		return storage.Source{}, err
	}
	if existing != nil {
		return *existing, fmt.Errorf("%w: %s", ErrSourceExists, path)
	}

	id, err := db.InsertSource(path, sourceType)
	if err != nil {
		return storage.Source{}, err
	}
	slog.Info("Added source", "id", id, "type", sourceType, "path", path)
	return storage.Source{ID: id, Path: path, Type: sourceType}, nil
}
