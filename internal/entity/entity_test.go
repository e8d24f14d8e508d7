package entity

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const fullPageJSON = `{
	"pageid": 1234,
	"ns": 0,
	"title": "Design Thinking",
	"contentmodel": "wikitext",
	"pagelanguage": "en",
	"pagelanguagehtmlcode": "en",
	"pagelanguagedir": "ltr",
	"touched": "2023-05-02T09:14:31Z",
	"lastrevid": 7781,
	"length": 10442,
	"categories": [{"ns": 14, "title": "Category:Methods"}, {"ns": 14, "title": "Category:Qualitative"}],
	"links": [{"ns": 0, "title": "Interviews"}],
	"linkshere": [{"pageid": 99, "ns": 0, "title": "Focus Groups", "redirect": ""}],
	"revisions": [{
		"timestamp": "2023-05-01T11:00:00Z",
		"tags": [],
		"slots": {"main": {"contentmodel": "wikitext", "contentformat": "text/x-wiki", "*": "'''Design Thinking''' is..."}}
	}],
	"new": ""
}`

func mustDecodeMap(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestParsePage_Full(t *testing.T) {
	p, err := ParsePage([]byte(fullPageJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.PageID != 1234 || p.NS != 0 || p.Title != "Design Thinking" {
		t.Errorf("identity fields wrong: %s", p)
	}
	if p.LastRevID != 7781 || p.Length != 10442 {
		t.Errorf("got lastrevid=%d length=%d", p.LastRevID, p.Length)
	}
	if StringValue(p.ContentModel) != "wikitext" || StringValue(p.Touched) != "2023-05-02T09:14:31Z" {
		t.Errorf("optional strings not decoded: %v %v", p.ContentModel, p.Touched)
	}
	if len(p.Categories) != 2 || p.Categories[1].Title != "Category:Qualitative" {
		t.Errorf("categories wrong: %+v", p.Categories)
	}
	if len(p.Links) != 1 || p.Links[0].Title != "Interviews" {
		t.Errorf("links wrong: %+v", p.Links)
	}
	if !p.IsNew() {
		t.Error("expected new flag")
	}
	if p.IsRedirect() {
		t.Error("redirect flag should be absent")
	}
}

func TestPageRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"full document", fullPageJSON},
		{"required keys only", `{"pageid": 1, "ns": 0, "title": "A", "lastrevid": 1, "length": 10, "revisions": []}`},
		{"empty optional lists kept", `{"pageid": 2, "ns": 0, "title": "B", "lastrevid": 3, "length": 0, "revisions": [], "links": [], "categories": []}`},
		{"empty optional string kept", `{"pageid": 3, "ns": 4, "title": "C", "lastrevid": 5, "length": 6, "revisions": [], "contentmodel": ""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := mustDecodeMap(t, tt.doc)
			p, err := PageFromMap(in)
			if err != nil {
				t.Fatalf("PageFromMap: %v", err)
			}
			out, err := p.ToMap()
			if err != nil {
				t.Fatalf("ToMap: %v", err)
			}
			if !reflect.DeepEqual(in, out) {
				t.Errorf("round trip mismatch\n in: %v\nout: %v", in, out)
			}
		})
	}
}

func TestCategoryRoundTrip(t *testing.T) {
	doc := `{
		"pageid": 50, "ns": 14, "title": "Category:Methods", "lastrevid": 9, "length": 120,
		"revisions": [{"slots": {"main": {"*": "Methods overview"}}}],
		"categories": [{"ns": 14, "title": "Category:Root"}],
		"categoryinfo": {"size": 12, "pages": 10, "files": 0, "subcats": 2, "hidden": ""}
	}`
	in := mustDecodeMap(t, doc)
	c, err := CategoryFromMap(in)
	if err != nil {
		t.Fatalf("CategoryFromMap: %v", err)
	}
	out, err := c.ToMap()
	if err != nil {
		t.Fatalf("ToMap: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch\n in: %v\nout: %v", in, out)
	}
}

func TestParsePage_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantKey string
	}{
		{"no pageid", `{"ns": 0, "title": "A", "lastrevid": 1, "length": 1, "revisions": []}`, "pageid"},
		{"no ns", `{"pageid": 1, "title": "A", "lastrevid": 1, "length": 1, "revisions": []}`, "ns"},
		{"no title", `{"pageid": 1, "ns": 0, "lastrevid": 1, "length": 1, "revisions": []}`, "title"},
		{"no revisions", `{"pageid": 1, "ns": 0, "title": "A", "lastrevid": 1, "length": 1}`, "revisions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePage([]byte(tt.doc))
			if !errors.Is(err, ErrMissingField) {
				t.Fatalf("expected ErrMissingField, got %v", err)
			}
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("expected *DecodeError, got %T", err)
			}
			if de.Key != tt.wantKey {
				t.Errorf("key = %q, want %q", de.Key, tt.wantKey)
			}
		})
	}
}

func TestParsePage_ZeroNamespaceIsPresent(t *testing.T) {
	p, err := ParsePage([]byte(`{"pageid": 1, "ns": 0, "title": "", "lastrevid": 0, "length": 0, "revisions": []}`))
	if err != nil {
		t.Fatalf("zero values must satisfy required keys: %v", err)
	}
	if p.NS != 0 || p.LastRevID != 0 {
		t.Errorf("unexpected values: %s", p)
	}
}

func TestParsePage_UnknownKey(t *testing.T) {
	_, err := ParsePage([]byte(`{"pageid": 1, "ns": 0, "title": "A", "lastrevid": 1, "length": 1, "revisions": [], "imagerepository": ""}`))
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if !strings.Contains(err.Error(), "imagerepository") {
		t.Errorf("error should name the key, got %v", err)
	}
}

func TestParsePage_CategoryInfoRejectedOnPage(t *testing.T) {
	_, err := ParsePage([]byte(`{"pageid": 1, "ns": 0, "title": "A", "lastrevid": 1, "length": 1, "revisions": [], "categoryinfo": {}}`))
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestParsePage_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{"pageid": `},
		{"array", `[1, 2]`},
		{"null", `null`},
		{"mistyped pageid", `{"pageid": "one", "ns": 0, "title": "A", "lastrevid": 1, "length": 1, "revisions": []}`},
		{"mistyped links", `{"pageid": 1, "ns": 0, "title": "A", "lastrevid": 1, "length": 1, "revisions": [], "links": "B"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePage([]byte(tt.doc))
			if !errors.Is(err, ErrDecode) {
				t.Errorf("expected ErrDecode, got %v", err)
			}
		})
	}
}

func TestDecode_NullValueRejected(t *testing.T) {
	const base = `"pageid": 1, "ns": 0, "title": "A", "lastrevid": 1, "length": 1, "revisions": []`
	tests := []struct {
		name    string
		doc     string
		wantKey string
	}{
		{"optional string", `{` + base + `, "touched": null}`, "touched"},
		{"optional list", `{` + base + `, "categories": null}`, "categories"},
		{"presence flag", `{` + base + `, "new": null}`, "new"},
		{"required key", `{"pageid": null, "ns": 0, "title": "A", "lastrevid": 1, "length": 1, "revisions": []}`, "pageid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := PageFromMap(mustDecodeMap(t, tt.doc))
			if !errors.Is(err, ErrDecode) {
				t.Fatalf("expected ErrDecode, got page=%v err=%v", p, err)
			}
			var de *DecodeError
			if !errors.As(err, &de) || de.Key != tt.wantKey {
				t.Errorf("expected key %q, got %v", tt.wantKey, err)
			}
		})
	}

	_, err := ParseCategory([]byte(`{"pageid": 5, "ns": 14, "title": "Category:A", "lastrevid": 1, "length": 1, "revisions": [], "categoryinfo": null}`))
	if !errors.Is(err, ErrDecode) {
		t.Errorf("null categoryinfo: expected ErrDecode, got %v", err)
	}
}

func TestParsePage_RefWithoutTitle(t *testing.T) {
	_, err := ParsePage([]byte(`{"pageid": 1, "ns": 0, "title": "A", "lastrevid": 1, "length": 1, "revisions": [], "links": [{"ns": 0}]}`))
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
}

func TestText(t *testing.T) {
	p, err := ParsePage([]byte(fullPageJSON))
	if err != nil {
		t.Fatal(err)
	}
	text, err := p.Text()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "'''Design Thinking''' is..." {
		t.Errorf("got %q", text)
	}
}

func TestText_MissingContent(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty revisions", `{"pageid": 1, "ns": 0, "title": "A", "lastrevid": 1, "length": 1, "revisions": []}`},
		{"no slots", `{"pageid": 1, "ns": 0, "title": "A", "lastrevid": 1, "length": 1, "revisions": [{"timestamp": "x"}]}`},
		{"no main body", `{"pageid": 1, "ns": 0, "title": "A", "lastrevid": 1, "length": 1, "revisions": [{"slots": {"main": {"contentmodel": "wikitext"}}}]}`},
		{"body not a string", `{"pageid": 1, "ns": 0, "title": "A", "lastrevid": 1, "length": 1, "revisions": [{"slots": {"main": {"*": 5}}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePage([]byte(tt.doc))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			text, err := p.Text()
			if !errors.Is(err, ErrMissingContent) {
				t.Fatalf("expected ErrMissingContent, got text=%q err=%v", text, err)
			}
			if text != "" {
				t.Errorf("text should be empty on error, got %q", text)
			}
		})
	}
}

func TestURL(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Design Thinking", BaseURL + "Design+Thinking"},
		{"Category:Methods", BaseURL + "Category%3AMethods"},
		{"A/B Testing", BaseURL + "A%2FB+Testing"},
		{"Ökologie", BaseURL + "%C3%96kologie"},
	}
	for _, tt := range tests {
		p := &Page{Title: tt.title}
		if got := p.URL(); got != tt.want {
			t.Errorf("URL(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
	p := &Page{Title: "X Y"}
	if got := p.URLWithBase("http://wiki.local/"); got != "http://wiki.local/X+Y" {
		t.Errorf("URLWithBase = %q", got)
	}
}

func TestCategoryCounts(t *testing.T) {
	c, err := ParseCategory([]byte(`{"pageid": 5, "ns": 14, "title": "Category:Methods", "lastrevid": 1, "length": 1, "revisions": [],
		"categoryinfo": {"size": 12, "pages": 10, "files": 0, "subcats": 2}}`))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		fn   func() (int64, error)
		want int64
	}{
		{"size", c.Size, 12},
		{"pages", c.Pages, 10},
		{"files", c.Files, 0},
		{"subcats", c.Subcats, 2},
	}
	for _, tt := range tests {
		got, err := tt.fn()
		if err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestCategoryCounts_MissingInfo(t *testing.T) {
	c, err := ParseCategory([]byte(`{"pageid": 5, "ns": 14, "title": "Category:Methods", "lastrevid": 1, "length": 1, "revisions": []}`))
	if err != nil {
		t.Fatal(err)
	}
	for name, fn := range map[string]func() (int64, error){
		"size": c.Size, "pages": c.Pages, "files": c.Files, "subcats": c.Subcats,
	} {
		n, err := fn()
		if !errors.Is(err, ErrMissingField) {
			t.Errorf("%s: expected ErrMissingField, got n=%d err=%v", name, n, err)
		}
	}
}

func TestCategoryCounts_PartialInfo(t *testing.T) {
	c, err := ParseCategory([]byte(`{"pageid": 5, "ns": 14, "title": "Category:Methods", "lastrevid": 1, "length": 1, "revisions": [],
		"categoryinfo": {"size": 3}}`))
	if err != nil {
		t.Fatal(err)
	}
	if n, err := c.Size(); err != nil || n != 3 {
		t.Errorf("Size() = %d, %v", n, err)
	}
	if _, err := c.Subcats(); !errors.Is(err, ErrMissingField) {
		t.Errorf("expected ErrMissingField for subcats, got %v", err)
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p, err := ParsePage([]byte(fullPageJSON))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "1234.json")
	if err := p.ToFile(path); err != nil {
		t.Fatalf("ToFile: %v", err)
	}
	got, err := PageFromFile(path)
	if err != nil {
		t.Fatalf("PageFromFile: %v", err)
	}
	want, _ := p.ToMap()
	have, _ := got.ToMap()
	if !reflect.DeepEqual(want, have) {
		t.Errorf("file round trip mismatch")
	}
}

func TestFromFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := PageFromFile(filepath.Join(dir, "absent.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = CategoryFromFile(bad)
	if !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
	if !strings.Contains(err.Error(), "bad.json") {
		t.Errorf("error should name the file, got %v", err)
	}
}

func TestRefEditedTitleIsEncoded(t *testing.T) {
	p, err := ParsePage([]byte(`{"pageid": 1, "ns": 0, "title": "A", "lastrevid": 1, "length": 1, "revisions": [], "links": [{"ns": 0, "title": "B"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	p.Links[0].Title = "C"
	p.Links = append(p.Links, NewRef("D"))
	m, err := p.ToMap()
	if err != nil {
		t.Fatal(err)
	}
	links := m["links"].([]any)
	if links[0].(map[string]any)["title"] != "C" || links[1].(map[string]any)["title"] != "D" {
		t.Errorf("edited refs not encoded: %v", links)
	}
}

func TestNewRevision(t *testing.T) {
	p := &Page{Title: "A", Revisions: []Revision{NewRevision("hello")}}
	text, err := p.Text()
	if err != nil || text != "hello" {
		t.Errorf("Text() = %q, %v", text, err)
	}
}
