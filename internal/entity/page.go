package entity

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
)

// BaseURL is the article path of the wiki the documents are fetched from.
const BaseURL = "https://sustainabilitymethods.org/index.php/"

// Page is one wiki article as returned by action=query&prop=info|revisions|...
//
// Optional fields keep their presence: a nil slice or pointer means the key
// was absent from the document, an empty one means it was present but empty.
type Page struct {
	PageID    int64
	NS        int
	Title     string
	LastRevID int64
	Length    int64
	Revisions []Revision

	Categories []Ref
	Links      []Ref
	LinksHere  []Ref // incoming links, round-tripped but never imported

	ContentModel         *string
	PageLanguage         *string
	PageLanguageHTMLCode *string
	PageLanguageDir      *string
	Touched              *string

	// MediaWiki marks boolean properties by key presence ("new": "").
	New      json.RawMessage
	Redirect json.RawMessage
}

// pageWire is the document shape. Required keys are pointers so that a
// missing key and a zero value can be told apart.
type pageWire struct {
	PageID    *int64     `json:"pageid" validate:"required"`
	NS        *int       `json:"ns" validate:"required"`
	Title     *string    `json:"title" validate:"required"`
	LastRevID *int64     `json:"lastrevid" validate:"required"`
	Length    *int64     `json:"length" validate:"required"`
	Revisions []Revision `json:"revisions" validate:"required"`

	Categories *[]Ref `json:"categories,omitempty"`
	Links      *[]Ref `json:"links,omitempty"`
	LinksHere  *[]Ref `json:"linkshere,omitempty"`

	ContentModel         *string `json:"contentmodel,omitempty"`
	PageLanguage         *string `json:"pagelanguage,omitempty"`
	PageLanguageHTMLCode *string `json:"pagelanguagehtmlcode,omitempty"`
	PageLanguageDir      *string `json:"pagelanguagedir,omitempty"`
	Touched              *string `json:"touched,omitempty"`

	New      json.RawMessage `json:"new,omitempty"`
	Redirect json.RawMessage `json:"redirect,omitempty"`
}

var pageKeys = map[string]bool{
	"pageid": true, "ns": true, "title": true, "lastrevid": true, "length": true,
	"revisions": true, "categories": true, "links": true, "linkshere": true,
	"contentmodel": true, "pagelanguage": true, "pagelanguagehtmlcode": true,
	"pagelanguagedir": true, "touched": true, "new": true, "redirect": true,
}

// ParsePage decodes one page document. Unknown keys and missing required keys
// are rejected; see DecodeError.
func ParsePage(data []byte) (*Page, error) {
	var w pageWire
	if err := decodeStrict("page", data, pageKeys, &w); err != nil {
		return nil, err
	}
	return w.page(), nil
}

// PageFromMap builds a page from an already decoded JSON object.
func PageFromMap(m map[string]any) (*Page, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, &DecodeError{Entity: "page", Err: fmt.Errorf("%w: %v", ErrDecode, err)}
	}
	return ParsePage(data)
}

// PageFromFile reads and decodes a page document.
func PageFromFile(path string) (*Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading page file: %w", err)
	}
	p, err := ParsePage(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func (w *pageWire) page() *Page {
	p := &Page{
		PageID:               *w.PageID,
		NS:                   *w.NS,
		Title:                *w.Title,
		LastRevID:            *w.LastRevID,
		Length:               *w.Length,
		Revisions:            w.Revisions,
		Categories:           presentRefs(w.Categories),
		Links:                presentRefs(w.Links),
		LinksHere:            presentRefs(w.LinksHere),
		ContentModel:         w.ContentModel,
		PageLanguage:         w.PageLanguage,
		PageLanguageHTMLCode: w.PageLanguageHTMLCode,
		PageLanguageDir:      w.PageLanguageDir,
		Touched:              w.Touched,
		New:                  w.New,
		Redirect:             w.Redirect,
	}
	return p
}

func (p *Page) wire() pageWire {
	revisions := p.Revisions
	if revisions == nil {
		revisions = []Revision{}
	}
	return pageWire{
		PageID:               &p.PageID,
		NS:                   &p.NS,
		Title:                &p.Title,
		LastRevID:            &p.LastRevID,
		Length:               &p.Length,
		Revisions:            revisions,
		Categories:           refsPtr(p.Categories),
		Links:                refsPtr(p.Links),
		LinksHere:            refsPtr(p.LinksHere),
		ContentModel:         p.ContentModel,
		PageLanguage:         p.PageLanguage,
		PageLanguageHTMLCode: p.PageLanguageHTMLCode,
		PageLanguageDir:      p.PageLanguageDir,
		Touched:              p.Touched,
		New:                  p.New,
		Redirect:             p.Redirect,
	}
}

func (p *Page) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.wire())
}

// ToMap returns the page as a generic JSON object with the same key set it
// was decoded from.
func (p *Page) ToMap() (map[string]any, error) {
	return toMap(p)
}

// ToFile writes the page document to path.
func (p *Page) ToFile(path string) error {
	return writeJSON(path, p)
}

// Text returns the wikitext of the latest revision.
func (p *Page) Text() (string, error) {
	if len(p.Revisions) == 0 {
		return "", fmt.Errorf("page %q has no revisions: %w", p.Title, ErrMissingContent)
	}
	text, err := p.Revisions[0].Content()
	if err != nil {
		return "", fmt.Errorf("page %q: %w", p.Title, err)
	}
	return text, nil
}

// URL returns the canonical article URL on the default wiki.
func (p *Page) URL() string {
	return p.URLWithBase(BaseURL)
}

// URLWithBase appends the form-encoded title (spaces as '+') to base.
func (p *Page) URLWithBase(base string) string {
	return base + url.QueryEscape(p.Title)
}

// IsNew reports whether the document carried the "new" flag.
func (p *Page) IsNew() bool { return len(p.New) > 0 }

// IsRedirect reports whether the document carried the "redirect" flag.
func (p *Page) IsRedirect() bool { return len(p.Redirect) > 0 }

func (p *Page) String() string {
	return fmt.Sprintf("Page{title: %q, pageid: %d, ns: %d}", p.Title, p.PageID, p.NS)
}

// StringValue dereferences an optional string, returning "" when absent.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func presentRefs(refs *[]Ref) []Ref {
	if refs == nil {
		return nil
	}
	if *refs == nil {
		return []Ref{}
	}
	return *refs
}

func refsPtr(refs []Ref) *[]Ref {
	if refs == nil {
		return nil
	}
	return &refs
}

func toMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
