package importer

import (
	"context"
	"fmt"

	"methodswiki/wikigraph/internal/entity"
	"methodswiki/wikigraph/internal/logger"
)

// Importer projects entities into a GraphWriter.
type Importer struct {
	w       GraphWriter
	baseURL string
}

// Option configures an Importer.
type Option func(*Importer)

// WithBaseURL overrides the wiki article path used for the url property.
func WithBaseURL(base string) Option {
	return func(im *Importer) { im.baseURL = base }
}

// New returns an importer writing to w. The caller owns w and closes it.
func New(w GraphWriter, opts ...Option) *Importer {
	im := &Importer{w: w, baseURL: entity.BaseURL}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// ImportArticle upserts the Article node for page, then one CATEGORIZED_AS
// edge per category and one LINKS_TO edge per link. Writes are not grouped:
// an error part-way leaves the earlier writes in place.
func (im *Importer) ImportArticle(ctx context.Context, page *entity.Page) error {
	logger.Info("Importing article", "title", page.Title, "pageid", page.PageID)

	props, err := im.baseProps(page)
	if err != nil {
		return err
	}

	self := NodeRef{Label: LabelArticle, Key: page.Title}
	if err := im.w.UpsertNode(ctx, NodeUpsert{NodeRef: self, Props: props}); err != nil {
		return fmt.Errorf("upserting article %q: %w", page.Title, err)
	}
	return im.importEdges(ctx, self, page)
}

// ImportCategory upserts the Category node with its member counts, then
// CATEGORIZED_AS edges to parent categories and LINKS_TO edges to articles.
func (im *Importer) ImportCategory(ctx context.Context, cat *entity.Category) error {
	logger.Info("Importing category", "title", cat.Title, "pageid", cat.PageID)

	props, err := im.baseProps(&cat.Page)
	if err != nil {
		return err
	}
	counts := []struct {
		key string
		fn  func() (int64, error)
	}{
		{"size", cat.Size},
		{"pages", cat.Pages},
		{"files", cat.Files},
		{"subcats", cat.Subcats},
	}
	for _, c := range counts {
		n, err := c.fn()
		if err != nil {
			return err
		}
		props[c.key] = n
	}

	self := NodeRef{Label: LabelCategory, Key: cat.Title}
	if err := im.w.UpsertNode(ctx, NodeUpsert{NodeRef: self, Props: props}); err != nil {
		return fmt.Errorf("upserting category %q: %w", cat.Title, err)
	}
	return im.importEdges(ctx, self, &cat.Page)
}

// ClearEntity removes every node carrying label together with its
// relationships. It is a reset tool and never runs as part of an import.
func (im *Importer) ClearEntity(ctx context.Context, label string) error {
	n, err := im.w.ClearLabel(ctx, label)
	if err != nil {
		return fmt.Errorf("clearing %s nodes: %w", label, err)
	}
	logger.Info("Cleared nodes", "label", label, "count", n)
	return nil
}

// baseProps resolves everything that can fail before the first write, so a
// missing text body never leaves a half-written node behind.
func (im *Importer) baseProps(p *entity.Page) (map[string]any, error) {
	text, err := p.Text()
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"pageid":       p.PageID,
		"url":          p.URLWithBase(im.baseURL),
		"ns":           int64(p.NS),
		"contentmodel": optional(p.ContentModel),
		"pagelanguage": optional(p.PageLanguage),
		"touched":      optional(p.Touched),
		"length":       p.Length,
		"text":         text,
	}, nil
}

func (im *Importer) importEdges(ctx context.Context, self NodeRef, p *entity.Page) error {
	for _, c := range p.Categories {
		e := EdgeUpsert{
			Type: RelCategorizedAs,
			From: self,
			To:   NodeRef{Label: LabelCategory, Key: c.Title},
		}
		if err := im.upsertEdge(ctx, e); err != nil {
			return err
		}
	}
	for _, l := range p.Links {
		e := EdgeUpsert{
			Type: RelLinksTo,
			From: self,
			To:   NodeRef{Label: LabelArticle, Key: l.Title},
		}
		if err := im.upsertEdge(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (im *Importer) upsertEdge(ctx context.Context, e EdgeUpsert) error {
	logger.Debug("Upserting edge", "type", e.Type, "from", e.From.Key, "to", e.To.Key)
	if err := im.w.UpsertEdge(ctx, e); err != nil {
		return fmt.Errorf("upserting %s edge %q -> %q: %w", e.Type, e.From.Key, e.To.Key, err)
	}
	return nil
}

// optional maps an absent document field to a null property.
func optional(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
