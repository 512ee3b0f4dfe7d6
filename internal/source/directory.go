// Package source loads raw tax authority documents from a local folder or
// an S3-compatible bucket.
package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"taxengine/internal/logger"
	"taxengine/pkg/services"
)

// Directory reads every *.json file directly inside a folder.
type Directory struct {
	path string
	log  zerolog.Logger
}

// NewDirectory creates a folder source.
func NewDirectory(path string) (*Directory, error) {
	if strings.TrimSpace(path) == "" {
		return nil, NewSourceError("NewDirectory", ErrNotConfigured, "empty path")
	}
	return &Directory{
		path: path,
		log:  logger.WithComponent("source-dir"),
	}, nil
}

// Describe implements services.DocumentSource.
func (d *Directory) Describe() string {
	return d.path
}

// Load returns the folder's JSON files ordered by name. Unreadable files are
// logged and skipped.
func (d *Directory) Load(ctx context.Context) ([]services.RawDocument, error) {
	const op = "Load"

	entries, err := os.ReadDir(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, NewSourceError(op, ErrLocationNotFound, d.path)
		}
		return nil, NewSourceError(op, ErrListFailed, err.Error())
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	docs := make([]services.RawDocument, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, WrapSourceError(op, err, d.path)
		}
		data, err := os.ReadFile(filepath.Join(d.path, name))
		if err != nil {
			d.log.Warn().
				Err(err).
				Str("file", name).
				Msg("Failed to read document, skipping")
			continue
		}
		docs = append(docs, services.RawDocument{Name: name, Data: data})
	}

	d.log.Info().
		Str("path", d.path).
		Int("files", len(names)).
		Int("loaded", len(docs)).
		Msg("Documents loaded from directory")

	return docs, nil
}
