package wikiapi

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"methodswiki/wikigraph/internal/importer"
	"methodswiki/wikigraph/internal/logger"
)

// Summary is the outcome of a Download run.
type Summary struct {
	Articles   int      `json:"articles"`
	Categories int      `json:"categories"`
	Failed     []string `json:"failed"`
}

// Download writes <root>/articles/<pageid>.json for every page and
// <root>/categories/<pageid>.json for every category. A category file is
// the category's page data with its categoryinfo response merged over it.
// Entities that fail are logged and skipped.
func Download(ctx context.Context, c *Client, root string) (*Summary, error) {
	articlesDir := filepath.Join(root, importer.ArticlesDir)
	categoriesDir := filepath.Join(root, importer.CategoriesDir)
	for _, dir := range []string{articlesDir, categoriesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	sum := &Summary{}

	pages, err := c.AllPages(ctx)
	if err != nil {
		return sum, err
	}
	logger.Info("Downloading articles", "count", len(pages))
	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		data, err := c.PageData(ctx, p.PageID)
		if err == nil {
			err = writeEntity(articlesDir, p.PageID, data)
		}
		if err != nil {
			logger.Error("Download failed", "title", p.Title, "err", err)
			sum.Failed = append(sum.Failed, p.Title)
			continue
		}
		sum.Articles++
	}

	names, err := c.AllCategories(ctx)
	if err != nil {
		return sum, err
	}
	logger.Info("Downloading categories", "count", len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		if err := downloadCategory(ctx, c, categoriesDir, name); err != nil {
			logger.Error("Download failed", "category", name, "err", err)
			sum.Failed = append(sum.Failed, "Category:"+name)
			continue
		}
		sum.Categories++
	}

	return sum, nil
}

func downloadCategory(ctx context.Context, c *Client, dir, name string) error {
	raw, err := c.CategoryInfo(ctx, name)
	if err != nil {
		return err
	}
	var info map[string]json.RawMessage
	if err := json.Unmarshal(raw, &info); err != nil {
		return fmt.Errorf("decoding category info: %w", err)
	}
	// Categories without a description page come back as "missing".
	idRaw, ok := info["pageid"]
	if !ok {
		return fmt.Errorf("category %q has no page", name)
	}
	pageid, err := strconv.ParseInt(string(idRaw), 10, 64)
	if err != nil {
		return fmt.Errorf("category %q: bad pageid %s", name, idRaw)
	}

	data, err := c.PageData(ctx, pageid)
	if err != nil {
		return err
	}
	merged, err := mergeObjects(data, info)
	if err != nil {
		return err
	}
	return writeEntity(dir, pageid, merged)
}

// mergeObjects shallow-merges the top-level keys of over into base.
func mergeObjects(base json.RawMessage, over map[string]json.RawMessage) (json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(base, &m); err != nil {
		return nil, fmt.Errorf("decoding page data: %w", err)
	}
	if m == nil {
		return nil, fmt.Errorf("page data is not an object")
	}
	for k, v := range over {
		m[k] = v
	}
	return json.Marshal(m)
}

func writeEntity(dir string, pageid int64, data json.RawMessage) error {
	path := filepath.Join(dir, strconv.FormatInt(pageid, 10)+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
