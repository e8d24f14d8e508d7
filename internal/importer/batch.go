package importer

import (
	"context"
	"fmt"
	"path/filepath"

	"methodswiki/wikigraph/internal/entity"
	"methodswiki/wikigraph/internal/logger"
)

// Subdirectories of a data root, one JSON document per entity.
const (
	ArticlesDir   = "articles"
	CategoriesDir = "categories"
)

// FileError records one entity file that could not be imported.
type FileError struct {
	File string `json:"file"`
	Kind string `json:"kind"` // "article" or "category"
	Err  error  `json:"-"`
	Msg  string `json:"error"`
}

// Summary is the outcome of a directory import.
type Summary struct {
	Articles   int         `json:"articles"`
	Categories int         `json:"categories"`
	Failed     []FileError `json:"failed"`
}

// BatchOptions selects what ImportDir reads.
type BatchOptions struct {
	SkipArticles   bool
	SkipCategories bool
	// FailFast stops at the first failing file instead of recording it.
	FailFast bool
}

// ImportDir imports <root>/categories/*.json and then <root>/articles/*.json.
// A file that fails to decode or import is logged and recorded in the
// summary; the batch continues unless FailFast is set or ctx is done.
func (im *Importer) ImportDir(ctx context.Context, root string, opts BatchOptions) (*Summary, error) {
	sum := &Summary{}

	if !opts.SkipCategories {
		err := im.importFiles(ctx, filepath.Join(root, CategoriesDir), "category", opts.FailFast, sum, func(path string) error {
			c, err := entity.CategoryFromFile(path)
			if err != nil {
				return err
			}
			if err := im.ImportCategory(ctx, c); err != nil {
				return err
			}
			sum.Categories++
			return nil
		})
		if err != nil {
			return sum, err
		}
	}

	if !opts.SkipArticles {
		err := im.importFiles(ctx, filepath.Join(root, ArticlesDir), "article", opts.FailFast, sum, func(path string) error {
			p, err := entity.PageFromFile(path)
			if err != nil {
				return err
			}
			if err := im.ImportArticle(ctx, p); err != nil {
				return err
			}
			sum.Articles++
			return nil
		})
		if err != nil {
			return sum, err
		}
	}

	return sum, nil
}

func (im *Importer) importFiles(ctx context.Context, dir, kind string, failFast bool, sum *Summary, fn func(string) error) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return fmt.Errorf("listing %s: %w", dir, err)
	}
	if len(files) == 0 {
		logger.Warn("No entity files found", "dir", dir)
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(path); err != nil {
			logger.Error("Import failed", "kind", kind, "file", path, "err", err)
			sum.Failed = append(sum.Failed, FileError{File: path, Kind: kind, Err: err, Msg: err.Error()})
			if failFast {
				return fmt.Errorf("importing %s: %w", path, err)
			}
		}
	}
	return nil
}
