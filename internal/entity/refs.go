package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Ref is one entry of a categories/links/linkshere list. Only the title is
// typed; the raw object is kept so that encoding reproduces keys like
// "ns" or "pageid" unchanged.
type Ref struct {
	Title string

	raw      json.RawMessage
	rawTitle string
}

// NewRef returns a reference carrying only a title.
func NewRef(title string) Ref { return Ref{Title: title} }

func (r *Ref) UnmarshalJSON(b []byte) error {
	var v struct {
		Title *string `json:"title"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if v.Title == nil {
		return fmt.Errorf("reference %s: %w", bytes.TrimSpace(b), ErrMissingField)
	}
	r.Title = *v.Title
	r.rawTitle = *v.Title
	r.raw = append(json.RawMessage(nil), b...)
	return nil
}

func (r Ref) MarshalJSON() ([]byte, error) {
	if r.raw != nil && r.Title == r.rawTitle {
		return r.raw, nil
	}
	return json.Marshal(struct {
		Title string `json:"title"`
	}{r.Title})
}

// Revision is one element of the revisions list. Only the latest revision's
// wikitext is ever read; everything else (timestamp, tags, slot metadata)
// passes through untouched.
type Revision struct {
	raw json.RawMessage
}

// NewRevision builds a revision whose main slot holds content.
func NewRevision(content string) Revision {
	raw, _ := json.Marshal(map[string]any{
		"slots": map[string]any{
			"main": map[string]any{"*": content},
		},
	})
	return Revision{raw: raw}
}

func (r *Revision) UnmarshalJSON(b []byte) error {
	if !json.Valid(b) {
		return fmt.Errorf("revision: %w", ErrDecode)
	}
	r.raw = append(json.RawMessage(nil), b...)
	return nil
}

func (r Revision) MarshalJSON() ([]byte, error) {
	if r.raw == nil {
		return []byte("null"), nil
	}
	return r.raw, nil
}

// Content returns the raw wikitext stored at slots.main["*"].
func (r Revision) Content() (string, error) {
	var v struct {
		Slots struct {
			Main map[string]json.RawMessage `json:"main"`
		} `json:"slots"`
	}
	if r.raw == nil {
		return "", fmt.Errorf("empty revision: %w", ErrMissingContent)
	}
	if err := json.Unmarshal(r.raw, &v); err != nil {
		return "", fmt.Errorf("revision slots: %w", ErrMissingContent)
	}
	body, ok := v.Slots.Main["*"]
	if !ok {
		return "", fmt.Errorf("slots.main[\"*\"] absent: %w", ErrMissingContent)
	}
	var text string
	if err := json.Unmarshal(body, &text); err != nil {
		return "", fmt.Errorf("slots.main[\"*\"] is not a string: %w", ErrMissingContent)
	}
	return text, nil
}
