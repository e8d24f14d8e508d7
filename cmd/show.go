package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"methodswiki/wikigraph/internal/entity"
	"methodswiki/wikigraph/internal/importer"
)

var (
	showCategory bool
	showJSON     bool
)

var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Parse one entity file and print its derived view",
	Long:  "Files under a categories/ directory, or any file with --category, are read as categories; everything else as an article.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		asCategory := showCategory || filepath.Base(filepath.Dir(path)) == importer.CategoriesDir

		var view *entityView
		if asCategory {
			c, err := entity.CategoryFromFile(path)
			if err != nil {
				return err
			}
			view = categoryView(c, cfg.BaseURL)
		} else {
			p, err := entity.PageFromFile(path)
			if err != nil {
				return err
			}
			view = pageView(p, cfg.BaseURL)
		}

		if showJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(view)
		}
		fmt.Print(view.String())
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showCategory, "category", false, "Read the file as a category")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(showCmd)
}

// entityView is what the importer would derive from one file.
type entityView struct {
	Kind       string           `json:"kind"`
	Title      string           `json:"title"`
	PageID     int64            `json:"pageid"`
	URL        string           `json:"url"`
	TextLength int              `json:"text_length"`
	TextError  string           `json:"text_error,omitempty"`
	Categories []string         `json:"categories"`
	Links      int              `json:"links"`
	LinksHere  int              `json:"links_here"`
	Counts     map[string]int64 `json:"counts,omitempty"`
	CountError string           `json:"count_error,omitempty"`
}

func pageView(p *entity.Page, baseURL string) *entityView {
	v := &entityView{
		Kind:      "article",
		Title:     p.Title,
		PageID:    p.PageID,
		URL:       p.URLWithBase(baseURL),
		Links:     len(p.Links),
		LinksHere: len(p.LinksHere),
	}
	for _, c := range p.Categories {
		v.Categories = append(v.Categories, c.Title)
	}
	text, err := p.Text()
	if err != nil {
		v.TextError = err.Error()
	} else {
		v.TextLength = len(text)
	}
	return v
}

func categoryView(c *entity.Category, baseURL string) *entityView {
	v := pageView(&c.Page, baseURL)
	v.Kind = "category"
	v.Counts = map[string]int64{}
	for _, f := range []struct {
		key string
		fn  func() (int64, error)
	}{
		{"size", c.Size}, {"pages", c.Pages}, {"files", c.Files}, {"subcats", c.Subcats},
	} {
		n, err := f.fn()
		if err != nil {
			if errors.Is(err, entity.ErrMissingField) && v.CountError == "" {
				v.CountError = err.Error()
			}
			continue
		}
		v.Counts[f.key] = n
	}
	return v
}

func (v *entityView) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s (pageid %d)\n", v.Kind, v.Title, v.PageID)
	fmt.Fprintf(&b, "  url:        %s\n", v.URL)
	if v.TextError != "" {
		fmt.Fprintf(&b, "  text:       error: %s\n", v.TextError)
	} else {
		fmt.Fprintf(&b, "  text:       %d bytes\n", v.TextLength)
	}
	fmt.Fprintf(&b, "  links:      %d out, %d in\n", v.Links, v.LinksHere)
	if len(v.Categories) > 0 {
		fmt.Fprintf(&b, "  categories: %s\n", strings.Join(v.Categories, ", "))
	}
	if v.Kind == "category" {
		if v.CountError != "" {
			fmt.Fprintf(&b, "  counts:     error: %s\n", v.CountError)
		} else {
			fmt.Fprintf(&b, "  counts:     size=%d pages=%d files=%d subcats=%d\n",
				v.Counts["size"], v.Counts["pages"], v.Counts["files"], v.Counts["subcats"])
		}
	}
	return b.String()
}
