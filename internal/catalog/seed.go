package catalog

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/Iron-Ham/cobalt/internal/errors"
	"github.com/Iron-Ham/cobalt/internal/logging"
)

// Seed builds a document from a taxonomy file and every YAML file below
// widgetDir. Files that cannot be read or parsed are logged and skipped.
// taxonomyPath may be empty. The merged document must form a valid
// catalogue.
func Seed(taxonomyPath, widgetDir string, logger *logging.Logger) (*Document, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	logger = logger.WithComponent("catalog-seed")

	doc := &Document{Version: Version}
	if taxonomyPath != "" {
		base, err := LoadFile(taxonomyPath)
		if err != nil {
			return nil, err
		}
		doc = base
	}

	var paths []string
	err := filepath.WalkDir(widgetDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("cannot visit", "path", path, "error", err)
			return nil
		}
		if d.Type().IsRegular() && isYAML(path) && path != taxonomyPath {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.NewCatalogError("walking widget directory", err).WithPath(widgetDir)
	}

	for _, path := range paths {
		logger.Info("load", "path", path)
		part, err := LoadFile(path)
		if err != nil {
			logger.Warn("skipping invalid widget file", "path", path, "error", err)
			continue
		}
		if _, err := New(part); err != nil {
			logger.Warn("skipping invalid widget file", "path", path, "error", err)
			continue
		}
		doc.Merge(part)
	}

	if _, err := New(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
