// Package filesystem provides a connector that reads source documents
// from a local directory tree.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/eti-labs/arpgen/internal/core/domain"
	"github.com/eti-labs/arpgen/internal/logger"
)

// mimeByExtension maps the file extensions this connector ingests to
// their MIME types. Anything else is skipped.
var mimeByExtension = map[string]string{
	".html": "text/html",
	".htm":  "text/html",
	".pdf":  "application/pdf",
	".md":   "text/markdown",
	".txt":  "text/plain",
}

// Connector reads source documents from a directory tree.
type Connector struct {
	sourceID string
	rootPath string
}

// New creates a filesystem connector rooted at rootPath. Per-file
// source IDs are derived as "<sourceID>/<relative path>".
func New(sourceID, rootPath string) *Connector {
	return &Connector{
		sourceID: sourceID,
		rootPath: rootPath,
	}
}

// Type returns the connector type identifier.
func (c *Connector) Type() string {
	return "filesystem"
}

// SourceID returns the connector's source identifier.
func (c *Connector) SourceID() string {
	return c.sourceID
}

// List walks the tree and loads every ingestible file. Hidden
// directories are skipped.
func (c *Connector) List(ctx context.Context) ([]domain.RawSource, error) {
	var sources []domain.RawSource

	err := filepath.WalkDir(c.rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if name := d.Name(); strings.HasPrefix(name, ".") && path != c.rootPath {
				return filepath.SkipDir
			}
			return nil
		}

		mimeType, ok := MIMETypeForPath(path)
		if !ok {
			return nil
		}

		source, err := c.load(path, mimeType)
		if err != nil {
			return err
		}
		sources = append(sources, *source)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", c.rootPath, err)
	}

	logger.Debug("Filesystem connector found %d files under %s", len(sources), c.rootPath)
	return sources, nil
}

// Watch reports created and modified ingestible files until the
// context is cancelled. Directories added under the root are watched
// as they appear.
func (c *Connector) Watch(ctx context.Context, handler func(domain.RawSource)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the existing tree.
	err = filepath.WalkDir(c.rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); strings.HasPrefix(name, ".") && path != c.rootPath {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watching %s: %w", c.rootPath, err)
	}

	logger.Info("Watching %s for changes", c.rootPath)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}

			info, err := os.Stat(event.Name)
			if err != nil {
				continue
			}
			if info.IsDir() {
				if event.Has(fsnotify.Create) {
					if err := watcher.Add(event.Name); err != nil {
						logger.Warn("Cannot watch new directory %s: %v", event.Name, err)
					}
				}
				continue
			}

			mimeType, ok := MIMETypeForPath(event.Name)
			if !ok {
				continue
			}
			source, err := c.load(event.Name, mimeType)
			if err != nil {
				logger.Warn("Cannot read changed file %s: %v", event.Name, err)
				continue
			}
			handler(*source)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// load reads one file into a raw source.
func (c *Connector) load(path, mimeType string) (*domain.RawSource, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	rel, err := filepath.Rel(c.rootPath, path)
	if err != nil {
		rel = filepath.Base(path)
	}

	return &domain.RawSource{
		SourceID: c.sourceID + "/" + filepath.ToSlash(rel),
		URI:      "file://" + path,
		MIMEType: mimeType,
		Content:  content,
	}, nil
}

// MIMETypeForPath maps a file path to its ingestion MIME type. The
// second return is false for extensions the connector does not ingest.
func MIMETypeForPath(path string) (string, bool) {
	mimeType, ok := mimeByExtension[strings.ToLower(filepath.Ext(path))]
	return mimeType, ok
}
